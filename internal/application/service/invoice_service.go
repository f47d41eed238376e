package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/invoice-dashboard/internal/application/form"
	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Operation names used in logs and metrics
const (
	OpCreateInvoice = "create_invoice"
	OpUpdateInvoice = "update_invoice"
	OpDeleteInvoice = "delete_invoice"
)

// Messages returned in the form state
const (
	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."
	MsgCreateDatabaseError = "Database Error: Failed to Create Invoice."
	MsgUpdateDatabaseError = "Database Error: Failed to Update Invoice."
	MsgDeleteDatabaseError = "Database Error: Failed to Delete Invoice."
	MsgCreateInternalError = "Internal Error: Failed to Create Invoice."
	MsgUpdateInternalError = "Internal Error: Failed to Update Invoice."
)

// ActionResult is the outcome of a form action: either a state to re-display
// or a path to navigate to.
type ActionResult struct {
	State      form.State
	RedirectTo string
}

// Redirected reports whether the action succeeded and navigates away
func (r ActionResult) Redirected() bool {
	return r.RedirectTo != ""
}

// InvoiceService validates and persists invoice mutations
type InvoiceService interface {
	CreateInvoice(ctx context.Context, f form.InvoiceForm) ActionResult
	UpdateInvoice(ctx context.Context, id string, f form.InvoiceForm) ActionResult
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	cache       port.ViewCache
	metrics     port.MutationMetrics
	validator   *form.Validator
	now         func() time.Time
	newID       func() string
	logger      Logger
}

// InvoiceServiceOption customizes an InvoiceService
type InvoiceServiceOption func(*invoiceServiceImpl)

// WithClock overrides the clock used to stamp invoice dates
func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceServiceImpl) { s.now = now }
}

// WithIDGenerator overrides how new invoice ids are generated
func WithIDGenerator(newID func() string) InvoiceServiceOption {
	return func(s *invoiceServiceImpl) { s.newID = newID }
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	cache port.ViewCache,
	metrics port.MutationMetrics,
	validator *form.Validator,
	logger Logger,
	opts ...InvoiceServiceOption,
) InvoiceService {
	s := &invoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		cache:       cache,
		metrics:     metrics,
		validator:   validator,
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice validates the form, inserts the invoice dated today and
// navigates back to the listing
func (s *invoiceServiceImpl) CreateInvoice(ctx context.Context, f form.InvoiceForm) ActionResult {
	fields, fieldErrs, err := s.validator.ValidateInvoice(f)
	if err != nil {
		s.logger.Error("Failed to validate invoice form", "error", err)
		s.metrics.RecordMutation(OpCreateInvoice, port.OutcomeInternalError)
		return ActionResult{State: form.State{Message: MsgCreateInternalError}}
	}
	if fieldErrs != nil {
		s.metrics.RecordMutation(OpCreateInvoice, port.OutcomeValidationError)
		return ActionResult{State: form.State{Errors: fieldErrs, Message: MsgCreateMissingFields}}
	}

	invoice := &entity.Invoice{
		ID:          s.newID(),
		CustomerID:  fields.CustomerID,
		AmountCents: fields.AmountCents,
		Status:      fields.Status,
		Date:        today(s.now()),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to create invoice", "error", err, "customer_id", invoice.CustomerID)
		s.metrics.RecordMutation(OpCreateInvoice, port.OutcomePersistenceError)
		return ActionResult{State: form.State{Message: MsgCreateDatabaseError}}
	}

	s.logger.Info("Invoice created",
		"id", invoice.ID,
		"customer_id", invoice.CustomerID,
		"amount_cents", invoice.AmountCents)
	s.metrics.RecordMutation(OpCreateInvoice, port.OutcomeSuccess)
	s.revalidate(ctx, entity.InvoicesPath)

	return ActionResult{RedirectTo: entity.InvoicesPath}
}

// UpdateInvoice validates the form and rewrites every mutable field of the
// invoice. An unknown id updates nothing and still navigates back.
func (s *invoiceServiceImpl) UpdateInvoice(ctx context.Context, id string, f form.InvoiceForm) ActionResult {
	fields, fieldErrs, err := s.validator.ValidateInvoice(f)
	if err != nil {
		s.logger.Error("Failed to validate invoice form", "error", err, "id", id)
		s.metrics.RecordMutation(OpUpdateInvoice, port.OutcomeInternalError)
		return ActionResult{State: form.State{Message: MsgUpdateInternalError}}
	}
	if fieldErrs != nil {
		s.metrics.RecordMutation(OpUpdateInvoice, port.OutcomeValidationError)
		return ActionResult{State: form.State{Errors: fieldErrs, Message: MsgUpdateMissingFields}}
	}

	if err := s.invoiceRepo.Update(ctx, id, fields.CustomerID, fields.AmountCents, fields.Status); err != nil {
		s.logger.Error("Failed to update invoice", "error", err, "id", id)
		s.metrics.RecordMutation(OpUpdateInvoice, port.OutcomePersistenceError)
		return ActionResult{State: form.State{Message: MsgUpdateDatabaseError}}
	}

	s.logger.Info("Invoice updated", "id", id, "amount_cents", fields.AmountCents, "status", fields.Status)
	s.metrics.RecordMutation(OpUpdateInvoice, port.OutcomeSuccess)
	s.revalidate(ctx, entity.InvoicesPath)

	return ActionResult{RedirectTo: entity.InvoicesPath}
}

// DeleteInvoice removes the invoice unconditionally
func (s *invoiceServiceImpl) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete invoice", "error", err, "id", id)
		s.metrics.RecordMutation(OpDeleteInvoice, port.OutcomePersistenceError)
		return err
	}

	s.logger.Info("Invoice deleted", "id", id)
	s.metrics.RecordMutation(OpDeleteInvoice, port.OutcomeSuccess)
	s.revalidate(ctx, entity.InvoicesPath)

	return nil
}

// revalidate marks the cached view at path stale. The mutation is already
// committed, so a cache failure is only logged.
func (s *invoiceServiceImpl) revalidate(ctx context.Context, path string) {
	if err := s.cache.Invalidate(ctx, path); err != nil {
		s.logger.Error("Failed to invalidate cached view", "error", err, "path", path)
	}
}

// today truncates t to its UTC calendar day
func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
