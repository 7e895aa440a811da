package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"healthchain/internal/domain/repositories"
)

// RepositoryConfig holds shared configuration for all repositories
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables TableNames
}

// TableNames holds environment-prefixed table names
type TableNames struct {
	Patients        string
	HealthSummaries string
	Medicines       string
	Prescriptions   string
	Orders          string
	OrderItems      string
	RefillAlerts    string
	Notifications   string
	DocumentChunks  string
}

// NewTableNames creates table names with the given environment prefix
// (e.g. "dev_", "prod_")
func NewTableNames(prefix string) TableNames {
	return TableNames{
		Patients:        prefix + "patients",
		HealthSummaries: prefix + "health_summaries",
		Medicines:       prefix + "medicines",
		Prescriptions:   prefix + "prescriptions",
		Orders:          prefix + "orders",
		OrderItems:      prefix + "order_items",
		RefillAlerts:    prefix + "refill_alerts",
		Notifications:   prefix + "notifications",
		DocumentChunks:  prefix + "document_chunks",
	}
}

// CreateConnectionPool creates a pgx connection pool with sane defaults
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction from the context if present,
// otherwise the pool. Repositories use this so that calls made inside
// TransactionManager.ExecTx automatically join the transaction.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
