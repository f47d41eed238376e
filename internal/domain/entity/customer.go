package entity

// Customer is an invoiced party
type Customer struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	ImageURL string `json:"image_url" db:"image_url"`
}

// CustomerField is the id/name pair used by the invoice form select
type CustomerField struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CustomerSummary is a customer with invoice totals
type CustomerSummary struct {
	ID                string `json:"id" db:"id"`
	Name              string `json:"name" db:"name"`
	Email             string `json:"email" db:"email"`
	ImageURL          string `json:"image_url" db:"image_url"`
	TotalInvoices     int64  `json:"total_invoices" db:"total_invoices"`
	TotalPendingCents int64  `json:"-" db:"total_pending"`
	TotalPaidCents    int64  `json:"-" db:"total_paid"`
	TotalPending      string `json:"total_pending" db:"-"`
	TotalPaid         string `json:"total_paid" db:"-"`
}
