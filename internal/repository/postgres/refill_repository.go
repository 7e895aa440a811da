package postgres

import (
	"context"
	"fmt"

	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// RefillAlertRepository implements repositories.RefillAlertRepository
type RefillAlertRepository struct {
	cfg RepositoryConfig
}

func NewRefillAlertRepository(cfg RepositoryConfig) repositories.RefillAlertRepository {
	return &RefillAlertRepository{cfg: cfg}
}

func (r *RefillAlertRepository) Create(ctx context.Context, alert *models.RefillAlert) error {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, patient_id, medicine_id, predicted_runout_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`, r.cfg.Tables.RefillAlerts)

	_, err := executor.Exec(ctx, sql,
		alert.ID, alert.PatientID, alert.MedicineID, alert.PredictedRunoutDate, alert.Status)
	if err != nil {
		return fmt.Errorf("failed to insert refill alert: %w", err)
	}

	return nil
}

func (r *RefillAlertRepository) ListByPatient(ctx context.Context, patientID string) ([]models.RefillAlert, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	// Join the medicine name so callers can surface it without a second
	// lookup.
	sql := fmt.Sprintf(`
		SELECT a.id, a.patient_id, a.medicine_id, COALESCE(m.name, ''), a.predicted_runout_date, a.status, a.created_at
		FROM %s a
		LEFT JOIN %s m ON m.id = a.medicine_id
		WHERE a.patient_id = $1 AND a.status = 'pending'
		ORDER BY a.predicted_runout_date ASC`, r.cfg.Tables.RefillAlerts, r.cfg.Tables.Medicines)

	rows, err := executor.Query(ctx, sql, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refill alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.RefillAlert
	for rows.Next() {
		var a models.RefillAlert
		if err := rows.Scan(&a.ID, &a.PatientID, &a.MedicineID, &a.MedicineName,
			&a.PredictedRunoutDate, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan refill alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate refill alerts: %w", err)
	}

	return alerts, nil
}
