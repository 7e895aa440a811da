package postgres

import (
	"context"
	"fmt"

	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// PatientRepository implements repositories.PatientRepository
type PatientRepository struct {
	cfg RepositoryConfig
}

func NewPatientRepository(cfg RepositoryConfig) repositories.PatientRepository {
	return &PatientRepository{cfg: cfg}
}

func (r *PatientRepository) GetProfile(ctx context.Context, patientID string) (*models.Patient, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	query := fmt.Sprintf(`
		SELECT id, full_name, age, allergies, chronic_conditions, language, created_at, updated_at
		FROM %s
		WHERE id = $1`, r.cfg.Tables.Patients)

	var patient models.Patient
	err := executor.QueryRow(ctx, query, patientID).Scan(
		&patient.ID,
		&patient.FullName,
		&patient.Age,
		&patient.Allergies,
		&patient.ChronicConditions,
		&patient.Language,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// Unknown patients resolve to an empty profile so the agent
			// can keep talking instead of erroring out.
			return &models.Patient{ID: patientID}, nil
		}
		return nil, fmt.Errorf("failed to get patient profile: %w", err)
	}

	return &patient, nil
}

func (r *PatientRepository) GetHealthSummary(ctx context.Context, patientID string) (*models.HealthSummary, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	query := fmt.Sprintf(`
		SELECT patient_id, conditions, current_medications, notes, updated_at
		FROM %s
		WHERE patient_id = $1`, r.cfg.Tables.HealthSummaries)

	var summary models.HealthSummary
	err := executor.QueryRow(ctx, query, patientID).Scan(
		&summary.PatientID,
		&summary.Conditions,
		&summary.CurrentMedications,
		&summary.Notes,
		&summary.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return &models.HealthSummary{PatientID: patientID}, nil
		}
		return nil, fmt.Errorf("failed to get health summary: %w", err)
	}

	return &summary, nil
}

func (r *PatientRepository) HasPrescription(ctx context.Context, patientID, medicineID string) (bool, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE patient_id = $1 AND medicine_id = $2 AND valid_until >= NOW()
		)`, r.cfg.Tables.Prescriptions)

	var exists bool
	if err := executor.QueryRow(ctx, query, patientID, medicineID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check prescription: %w", err)
	}

	return exists, nil
}
