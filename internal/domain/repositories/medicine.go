package repositories

import (
	"context"

	"healthchain/internal/domain/models"
)

// MedicineRepository provides access to the medicine registry.
type MedicineRepository interface {
	// SearchByName performs a partial-name lookup, case-insensitive.
	SearchByName(ctx context.Context, query string, limit int) ([]models.Medicine, error)

	// GetByID returns a medicine or domain.ErrNotFound.
	GetByID(ctx context.Context, medicineID string) (*models.Medicine, error)

	// DecrementStock atomically reduces stock by qty. Returns
	// domain.ErrNotFound if the medicine is missing or stock is
	// insufficient.
	DecrementStock(ctx context.Context, medicineID string, qty int) error
}
