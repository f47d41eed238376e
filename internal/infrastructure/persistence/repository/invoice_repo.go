package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sqlx.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new invoice record
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := r.db.Rebind(`
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.CustomerID,
		invoice.AmountCents,
		invoice.Status,
		invoice.Date.UTC().Format(entity.DateLayout),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.String("id", invoice.ID), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// Update sets customer, amount and status. The date is left untouched.
func (r *InvoiceRepository) Update(ctx context.Context, id, customerID string, amountCents int64, status string) error {
	query := r.db.Rebind(`
		UPDATE invoices
		SET customer_id = ?, amount = ?, status = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, customerID, amountCents, status, id)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		r.logger.Debug("Update matched no invoice", zap.String("id", id))
	}

	return nil
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM invoices WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		r.logger.Debug("Delete matched no invoice", zap.String("id", id))
	}

	return nil
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := r.db.Rebind(`
		SELECT id, customer_id, amount, status, date
		FROM invoices
		WHERE id = ?
	`)

	var invoice entity.Invoice
	err := r.db.GetContext(ctx, &invoice, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return &invoice, nil
}

// searchCondition matches invoices whose customer name, email, amount, date
// or status contains the query, ignoring case
const searchCondition = `
		LOWER(customers.name) LIKE ? OR
		LOWER(customers.email) LIKE ? OR
		CAST(invoices.amount AS TEXT) LIKE ? OR
		CAST(invoices.date AS TEXT) LIKE ? OR
		LOWER(invoices.status) LIKE ?
`

func searchArgs(query string) []interface{} {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return []interface{}{pattern, pattern, pattern, pattern, pattern}
}

// Search lists invoices joined with customers, newest first
func (r *InvoiceRepository) Search(ctx context.Context, query string, limit, offset int) ([]*entity.InvoiceRow, error) {
	q := `
		SELECT
			invoices.id,
			invoices.customer_id,
			customers.name,
			customers.email,
			customers.image_url,
			invoices.date,
			invoices.amount,
			invoices.status
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE ` + searchCondition + `
		ORDER BY invoices.date DESC, invoices.id
	`
	args := searchArgs(query)
	if limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows := []*entity.InvoiceRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		r.logger.Error("Failed to search invoices", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to search invoices: %w", err)
	}

	return rows, nil
}

// CountMatching counts invoices matching the search query
func (r *InvoiceRepository) CountMatching(ctx context.Context, query string) (int, error) {
	q := r.db.Rebind(`
		SELECT COUNT(*)
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE ` + searchCondition)

	var count int
	if err := r.db.GetContext(ctx, &count, q, searchArgs(query)...); err != nil {
		r.logger.Error("Failed to count invoices", zap.String("query", query), zap.Error(err))
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return count, nil
}

// Latest lists the most recent invoices with their customer
func (r *InvoiceRepository) Latest(ctx context.Context, limit int) ([]*entity.LatestInvoice, error) {
	query := r.db.Rebind(`
		SELECT invoices.id, invoices.amount, customers.name, customers.image_url, customers.email
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		ORDER BY invoices.date DESC, invoices.id
		LIMIT ?
	`)

	invoices := []*entity.LatestInvoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, limit); err != nil {
		r.logger.Error("Failed to list latest invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list latest invoices: %w", err)
	}

	return invoices, nil
}

// CardData computes the overview figures
func (r *InvoiceRepository) CardData(ctx context.Context) (*entity.CardData, error) {
	var data entity.CardData

	if err := r.db.GetContext(ctx, &data.NumberOfInvoices, `SELECT COUNT(*) FROM invoices`); err != nil {
		r.logger.Error("Failed to count invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	if err := r.db.GetContext(ctx, &data.NumberOfCustomers, `SELECT COUNT(*) FROM customers`); err != nil {
		r.logger.Error("Failed to count customers", zap.Error(err))
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS total_paid,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS total_pending
		FROM invoices
	`)
	row := r.db.QueryRowxContext(ctx, query, entity.InvoiceStatusPaid, entity.InvoiceStatusPending)
	if err := row.Scan(&data.TotalPaidCents, &data.TotalPendingCents); err != nil {
		r.logger.Error("Failed to sum invoice totals", zap.Error(err))
		return nil, fmt.Errorf("failed to sum invoice totals: %w", err)
	}

	return &data, nil
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
