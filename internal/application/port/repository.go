package port

import (
	"context"

	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// InvoiceRepository defines persistence operations for Invoice
type InvoiceRepository interface {
	// Create inserts a new invoice row
	Create(ctx context.Context, invoice *entity.Invoice) error

	// Update sets customer, amount and status of the invoice with the given id.
	// An unknown id is not an error.
	Update(ctx context.Context, id, customerID string, amountCents int64, status string) error

	// Delete removes the invoice with the given id. An unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// GetByID returns nil, nil when the invoice does not exist
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)

	// Search returns invoices joined with customers matching query, newest first.
	// A limit of zero returns every match.
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.InvoiceRow, error)

	// CountMatching counts the invoices Search would return without paging
	CountMatching(ctx context.Context, query string) (int, error)

	// Latest returns the most recent invoices with customer details
	Latest(ctx context.Context, limit int) ([]*entity.LatestInvoice, error)

	// CardData returns the dashboard summary figures
	CardData(ctx context.Context) (*entity.CardData, error)
}

// CustomerRepository defines read operations for Customer
type CustomerRepository interface {
	// ListFields returns id/name pairs ordered by name
	ListFields(ctx context.Context) ([]*entity.CustomerField, error)

	// Search returns customers matching query by name or email, with invoice totals
	Search(ctx context.Context, query string) ([]*entity.CustomerSummary, error)
}

// RevenueRepository defines read operations for Revenue
type RevenueRepository interface {
	List(ctx context.Context) ([]*entity.Revenue, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error

	// GetByEmail returns nil, nil when no user has this email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
