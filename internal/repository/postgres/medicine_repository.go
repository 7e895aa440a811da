package postgres

import (
	"context"
	"fmt"

	"healthchain/internal/domain"
	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// MedicineRepository implements repositories.MedicineRepository
type MedicineRepository struct {
	cfg RepositoryConfig
}

func NewMedicineRepository(cfg RepositoryConfig) repositories.MedicineRepository {
	return &MedicineRepository{cfg: cfg}
}

func (r *MedicineRepository) SearchByName(ctx context.Context, query string, limit int) ([]models.Medicine, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		SELECT id, name, description, price, stock, prescription_required, created_at
		FROM %s
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2`, r.cfg.Tables.Medicines)

	rows, err := executor.Query(ctx, sql, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search medicines: %w", err)
	}
	defer rows.Close()

	var medicines []models.Medicine
	for rows.Next() {
		var m models.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Stock, &m.PrescriptionRequired, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medicines: %w", err)
	}

	return medicines, nil
}

func (r *MedicineRepository) GetByID(ctx context.Context, medicineID string) (*models.Medicine, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		SELECT id, name, description, price, stock, prescription_required, created_at
		FROM %s
		WHERE id = $1`, r.cfg.Tables.Medicines)

	var m models.Medicine
	err := executor.QueryRow(ctx, sql, medicineID).Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.Stock, &m.PrescriptionRequired, &m.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFoundError("medicine", medicineID)
		}
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	return &m, nil
}

func (r *MedicineRepository) DecrementStock(ctx context.Context, medicineID string, qty int) error {
	executor := GetExecutor(ctx, r.cfg.Pool)

	// Guard in the WHERE clause makes the decrement atomic: no row is
	// touched when stock would go negative.
	sql := fmt.Sprintf(`
		UPDATE %s
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2`, r.cfg.Tables.Medicines)

	tag, err := executor.Exec(ctx, sql, medicineID, qty)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("medicine with sufficient stock", medicineID)
	}

	return nil
}
