package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// NotificationRepository implements repositories.NotificationRepository
type NotificationRepository struct {
	cfg RepositoryConfig
}

func NewNotificationRepository(cfg RepositoryConfig) repositories.NotificationRepository {
	return &NotificationRepository{cfg: cfg}
}

func (r *NotificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	executor := GetExecutor(ctx, r.cfg.Pool)

	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, patient_id, channel, type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`, r.cfg.Tables.Notifications)

	_, err = executor.Exec(ctx, sql,
		notification.ID, notification.PatientID, notification.Channel,
		notification.Type, payload, notification.Status)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}
