package repositories

import (
	"context"

	"healthchain/internal/domain/models"
)

// NotificationRepository logs outbound patient notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *models.Notification) error
}
