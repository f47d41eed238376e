package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// CustomerRepository implements port.CustomerRepository
type CustomerRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sqlx.DB, logger *zap.Logger) port.CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// ListFields returns every customer id and name, ordered by name
func (r *CustomerRepository) ListFields(ctx context.Context) ([]*entity.CustomerField, error) {
	customers := []*entity.CustomerField{}
	err := r.db.SelectContext(ctx, &customers, `SELECT id, name FROM customers ORDER BY name ASC`)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// Search returns customers whose name or email contains query, with invoice totals
func (r *CustomerRepository) Search(ctx context.Context, query string) ([]*entity.CustomerSummary, error) {
	q := r.db.Rebind(`
		SELECT
			customers.id,
			customers.name,
			customers.email,
			customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END), 0) AS total_paid
		FROM customers
		LEFT JOIN invoices ON customers.id = invoices.customer_id
		WHERE LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?
		GROUP BY customers.id, customers.name, customers.email, customers.image_url
		ORDER BY customers.name ASC
	`)

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	customers := []*entity.CustomerSummary{}
	err := r.db.SelectContext(ctx, &customers, q,
		entity.InvoiceStatusPending,
		entity.InvoiceStatusPaid,
		pattern,
		pattern,
	)
	if err != nil {
		r.logger.Error("Failed to search customers", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	return customers, nil
}

// Verify interface compliance
var _ port.CustomerRepository = (*CustomerRepository)(nil)
