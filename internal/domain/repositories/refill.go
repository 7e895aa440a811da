package repositories

import (
	"context"

	"healthchain/internal/domain/models"
)

// RefillAlertRepository stores predicted medication run-outs.
type RefillAlertRepository interface {
	// Create inserts a refill alert.
	Create(ctx context.Context, alert *models.RefillAlert) error

	// ListByPatient returns pending alerts for a patient, soonest
	// run-out first.
	ListByPatient(ctx context.Context, patientID string) ([]models.RefillAlert, error)
}
