package repositories

import (
	"context"

	"healthchain/internal/domain/models"
)

// PatientRepository provides read access to patient data. Lookups for
// unknown patients return empty/default values rather than errors;
// errors indicate transport failure only.
type PatientRepository interface {
	// GetProfile returns the patient profile, or an empty profile with
	// only the ID set when the patient has no row.
	GetProfile(ctx context.Context, patientID string) (*models.Patient, error)

	// GetHealthSummary returns the patient's health summary, or an
	// empty summary when none has been recorded.
	GetHealthSummary(ctx context.Context, patientID string) (*models.HealthSummary, error)

	// HasPrescription reports whether a valid prescription for the
	// medicine is on file for the patient.
	HasPrescription(ctx context.Context, patientID, medicineID string) (bool, error)
}
