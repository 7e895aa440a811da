package repositories

import (
	"context"

	"healthchain/internal/domain/models"
)

// OrderRepository manages pharmacy orders and their items.
type OrderRepository interface {
	// CreateDraft inserts a draft order and its items.
	CreateDraft(ctx context.Context, order *models.Order) error

	// GetOrder returns an order with its items, or domain.ErrNotFound.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// ListByPatient returns the patient's orders, newest first, items
	// included.
	ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Order, error)

	// UpdateStatus moves an order to the given status.
	UpdateStatus(ctx context.Context, orderID, status string) error
}
