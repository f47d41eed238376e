package entity

// Invoice status values
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Dashboard view paths. Mutations invalidate the cached invoice listing.
const (
	DashboardPath = "/dashboard"
	InvoicesPath  = "/dashboard/invoices"
	LoginPath     = "/login"
)

// ItemsPerPage is the page size of the invoice listing
const ItemsPerPage = 6

// LatestInvoicesLimit is how many invoices the overview shows
const LatestInvoicesLimit = 5
