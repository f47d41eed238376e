package service

import (
	"context"
	"fmt"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// Overview is the dashboard landing page data
type Overview struct {
	NumberOfInvoices     int64                   `json:"number_of_invoices"`
	NumberOfCustomers    int64                   `json:"number_of_customers"`
	TotalPaidInvoices    string                  `json:"total_paid_invoices"`
	TotalPendingInvoices string                  `json:"total_pending_invoices"`
	Revenue              []*entity.Revenue       `json:"revenue"`
	LatestInvoices       []*entity.LatestInvoice `json:"latest_invoices"`
}

// InvoiceEditView is the data needed to render the edit form
type InvoiceEditView struct {
	Invoice   *entity.Invoice         `json:"invoice"`
	Customers []*entity.CustomerField `json:"customers"`
}

// InvoicePage is one page of the invoice listing
type InvoicePage struct {
	Invoices   []*entity.InvoiceRow `json:"invoices"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

// Export is a rendered invoice export
type Export struct {
	Body        []byte
	ContentType string
	Filename    string
}

// DashboardService serves the read side of the dashboard
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
	FilteredInvoices(ctx context.Context, query string, page int) ([]*entity.InvoiceRow, error)
	InvoicesPages(ctx context.Context, query string) (int, error)
	InvoicePage(ctx context.Context, query string, page int) (*InvoicePage, error)
	InvoiceByID(ctx context.Context, id string) (*InvoiceEditView, error)
	CustomerFields(ctx context.Context) ([]*entity.CustomerField, error)
	FilteredCustomers(ctx context.Context, query string) ([]*entity.CustomerSummary, error)
	ExportInvoices(ctx context.Context, query string) (*Export, error)
}

type dashboardServiceImpl struct {
	invoiceRepo  port.InvoiceRepository
	customerRepo port.CustomerRepository
	revenueRepo  port.RevenueRepository
	exporter     port.InvoiceExporter
	logger       Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	invoiceRepo port.InvoiceRepository,
	customerRepo port.CustomerRepository,
	revenueRepo port.RevenueRepository,
	exporter port.InvoiceExporter,
	logger Logger,
) DashboardService {
	return &dashboardServiceImpl{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		revenueRepo:  revenueRepo,
		exporter:     exporter,
		logger:       logger,
	}
}

// Overview gathers card figures, the revenue series and the latest invoices
func (s *dashboardServiceImpl) Overview(ctx context.Context) (*Overview, error) {
	cards, err := s.invoiceRepo.CardData(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch card data", "error", err)
		return nil, fmt.Errorf("failed to fetch card data: %w", err)
	}

	revenue, err := s.revenueRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch revenue", "error", err)
		return nil, fmt.Errorf("failed to fetch revenue: %w", err)
	}

	latest, err := s.invoiceRepo.Latest(ctx, entity.LatestInvoicesLimit)
	if err != nil {
		s.logger.Error("Failed to fetch latest invoices", "error", err)
		return nil, fmt.Errorf("failed to fetch latest invoices: %w", err)
	}
	for _, inv := range latest {
		inv.Amount = entity.FormatCurrency(inv.AmountCents)
	}

	return &Overview{
		NumberOfInvoices:     cards.NumberOfInvoices,
		NumberOfCustomers:    cards.NumberOfCustomers,
		TotalPaidInvoices:    entity.FormatCurrency(cards.TotalPaidCents),
		TotalPendingInvoices: entity.FormatCurrency(cards.TotalPendingCents),
		Revenue:              revenue,
		LatestInvoices:       latest,
	}, nil
}

// FilteredInvoices returns one page of invoices matching query. Pages start at 1.
func (s *dashboardServiceImpl) FilteredInvoices(ctx context.Context, query string, page int) ([]*entity.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * entity.ItemsPerPage

	rows, err := s.invoiceRepo.Search(ctx, query, entity.ItemsPerPage, offset)
	if err != nil {
		s.logger.Error("Failed to fetch invoices", "error", err, "query", query, "page", page)
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return rows, nil
}

// InvoicesPages returns how many listing pages query spans
func (s *dashboardServiceImpl) InvoicesPages(ctx context.Context, query string) (int, error) {
	count, err := s.invoiceRepo.CountMatching(ctx, query)
	if err != nil {
		s.logger.Error("Failed to count invoices", "error", err, "query", query)
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return TotalPages(count, entity.ItemsPerPage), nil
}

// InvoicePage combines FilteredInvoices and InvoicesPages
func (s *dashboardServiceImpl) InvoicePage(ctx context.Context, query string, page int) (*InvoicePage, error) {
	if page < 1 {
		page = 1
	}

	rows, err := s.FilteredInvoices(ctx, query, page)
	if err != nil {
		return nil, err
	}

	total, err := s.InvoicesPages(ctx, query)
	if err != nil {
		return nil, err
	}

	return &InvoicePage{Invoices: rows, Page: page, TotalPages: total}, nil
}

// InvoiceByID returns nil, nil when the invoice does not exist
func (s *dashboardServiceImpl) InvoiceByID(ctx context.Context, id string) (*InvoiceEditView, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to fetch invoice", "error", err, "id", id)
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice == nil {
		return nil, nil
	}

	customers, err := s.CustomerFields(ctx)
	if err != nil {
		return nil, err
	}

	return &InvoiceEditView{Invoice: invoice, Customers: customers}, nil
}

// CustomerFields lists the customers selectable on the invoice form
func (s *dashboardServiceImpl) CustomerFields(ctx context.Context) ([]*entity.CustomerField, error) {
	customers, err := s.customerRepo.ListFields(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch customers", "error", err)
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return customers, nil
}

// FilteredCustomers returns customers matching query with formatted totals
func (s *dashboardServiceImpl) FilteredCustomers(ctx context.Context, query string) ([]*entity.CustomerSummary, error) {
	customers, err := s.customerRepo.Search(ctx, query)
	if err != nil {
		s.logger.Error("Failed to fetch customer table", "error", err, "query", query)
		return nil, fmt.Errorf("failed to fetch customer table: %w", err)
	}

	for _, c := range customers {
		c.TotalPending = entity.FormatCurrency(c.TotalPendingCents)
		c.TotalPaid = entity.FormatCurrency(c.TotalPaidCents)
	}
	return customers, nil
}

// ExportInvoices renders every invoice matching query
func (s *dashboardServiceImpl) ExportInvoices(ctx context.Context, query string) (*Export, error) {
	rows, err := s.invoiceRepo.Search(ctx, query, 0, 0)
	if err != nil {
		s.logger.Error("Failed to fetch invoices for export", "error", err, "query", query)
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	body, err := s.exporter.Export(rows)
	if err != nil {
		s.logger.Error("Failed to render invoice export", "error", err, "rows", len(rows))
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	s.logger.Info("Invoices exported", "rows", len(rows), "bytes", len(body))

	return &Export{
		Body:        body,
		ContentType: s.exporter.ContentType(),
		Filename:    "invoices" + s.exporter.FileExtension(),
	}, nil
}

// TotalPages returns ceil(count / perPage)
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}
