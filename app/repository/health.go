package repository

import (
	"context"
	"fmt"
	"time"
)

type HealthRepository struct {
	store store
}

func NewHealthRepository(primary, replica DBTX) *HealthRepository {
	return &HealthRepository{store: newStore(primary, replica)}
}

// Check performs a read and a write round-trip against the primary so the
// deep health probe catches read-only or partially degraded databases.
func (r *HealthRepository) Check(ctx context.Context) error {
	var result int
	if err := r.store.primary.QueryRowContext(ctx, "SELECT 1 + 1").Scan(&result); err != nil {
		return fmt.Errorf("database read failed: %w", err)
	}

	query := `
		INSERT INTO configs (config_key, config_value, updated_at)
		VALUES ('health_probe', 'ok', ?)
		ON DUPLICATE KEY UPDATE config_value = VALUES(config_value), updated_at = VALUES(updated_at)
	`
	if _, err := r.store.primary.ExecContext(ctx, query, time.Now().UTC()); err != nil {
		return fmt.Errorf("database write failed: %w", err)
	}

	return nil
}
