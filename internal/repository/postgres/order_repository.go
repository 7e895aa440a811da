package postgres

import (
	"context"
	"fmt"

	"healthchain/internal/domain"
	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// OrderRepository implements repositories.OrderRepository
type OrderRepository struct {
	cfg RepositoryConfig
}

func NewOrderRepository(cfg RepositoryConfig) repositories.OrderRepository {
	return &OrderRepository{cfg: cfg}
}

func (r *OrderRepository) CreateDraft(ctx context.Context, order *models.Order) error {
	executor := GetExecutor(ctx, r.cfg.Pool)

	orderSQL := fmt.Sprintf(`
		INSERT INTO %s (id, patient_id, channel, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`, r.cfg.Tables.Orders)

	_, err := executor.Exec(ctx, orderSQL,
		order.ID, order.PatientID, order.Channel, order.Status, order.Total)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemSQL := fmt.Sprintf(`
		INSERT INTO %s (id, order_id, medicine_id, qty, dosage_text, frequency_per_day, days_supply)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, r.cfg.Tables.OrderItems)

	for _, item := range order.Items {
		_, err := executor.Exec(ctx, itemSQL,
			item.ID, item.OrderID, item.MedicineID, item.Qty,
			item.DosageText, item.FrequencyPerDay, item.DaysSupply)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	orderSQL := fmt.Sprintf(`
		SELECT id, patient_id, channel, status, total, created_at, updated_at
		FROM %s
		WHERE id = $1`, r.cfg.Tables.Orders)

	var order models.Order
	err := executor.QueryRow(ctx, orderSQL, orderID).Scan(
		&order.ID, &order.PatientID, &order.Channel, &order.Status,
		&order.Total, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NewNotFoundError("order", orderID)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *OrderRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Order, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	orderSQL := fmt.Sprintf(`
		SELECT id, patient_id, channel, status, total, created_at, updated_at
		FROM %s
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, r.cfg.Tables.Orders)

	rows, err := executor.Query(ctx, orderSQL, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.PatientID, &order.Channel,
			&order.Status, &order.Total, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		UPDATE %s
		SET status = $2, updated_at = NOW()
		WHERE id = $1`, r.cfg.Tables.Orders)

	tag, err := executor.Exec(ctx, sql, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("order", orderID)
	}

	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		SELECT id, order_id, medicine_id, qty, dosage_text, frequency_per_day, days_supply
		FROM %s
		WHERE order_id = $1`, r.cfg.Tables.OrderItems)

	rows, err := executor.Query(ctx, sql, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MedicineID,
			&item.Qty, &item.DosageText, &item.FrequencyPerDay, &item.DaysSupply); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}
