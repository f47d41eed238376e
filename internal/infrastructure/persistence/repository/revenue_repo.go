package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// RevenueRepository implements port.RevenueRepository
type RevenueRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRevenueRepository creates a new revenue repository
func NewRevenueRepository(db *sqlx.DB, logger *zap.Logger) port.RevenueRepository {
	return &RevenueRepository{
		db:     db,
		logger: logger,
	}
}

// List returns the monthly revenue series in insertion order
func (r *RevenueRepository) List(ctx context.Context) ([]*entity.Revenue, error) {
	revenue := []*entity.Revenue{}
	if err := r.db.SelectContext(ctx, &revenue, `SELECT month, revenue FROM revenue`); err != nil {
		r.logger.Error("Failed to list revenue", zap.Error(err))
		return nil, fmt.Errorf("failed to list revenue: %w", err)
	}

	return revenue, nil
}

// Verify interface compliance
var _ port.RevenueRepository = (*RevenueRepository)(nil)
