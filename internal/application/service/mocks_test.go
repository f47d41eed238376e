package service

import (
	"context"
	"time"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// Mock repositories
type mockInvoiceRepo struct {
	createFunc        func(ctx context.Context, invoice *entity.Invoice) error
	updateFunc        func(ctx context.Context, id, customerID string, amountCents int64, status string) error
	deleteFunc        func(ctx context.Context, id string) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.Invoice, error)
	searchFunc        func(ctx context.Context, query string, limit, offset int) ([]*entity.InvoiceRow, error)
	countMatchingFunc func(ctx context.Context, query string) (int, error)
	latestFunc        func(ctx context.Context, limit int) ([]*entity.LatestInvoice, error)
	cardDataFunc      func(ctx context.Context) (*entity.CardData, error)

	createCalls int
	updateCalls int
	deleteCalls int
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, invoice)
	}
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, id, customerID string, amountCents int64, status string) error {
	m.updateCalls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, customerID, amountCents, status)
	}
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) Search(ctx context.Context, query string, limit, offset int) ([]*entity.InvoiceRow, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, limit, offset)
	}
	return []*entity.InvoiceRow{}, nil
}

func (m *mockInvoiceRepo) CountMatching(ctx context.Context, query string) (int, error) {
	if m.countMatchingFunc != nil {
		return m.countMatchingFunc(ctx, query)
	}
	return 0, nil
}

func (m *mockInvoiceRepo) Latest(ctx context.Context, limit int) ([]*entity.LatestInvoice, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx, limit)
	}
	return []*entity.LatestInvoice{}, nil
}

func (m *mockInvoiceRepo) CardData(ctx context.Context) (*entity.CardData, error) {
	if m.cardDataFunc != nil {
		return m.cardDataFunc(ctx)
	}
	return &entity.CardData{}, nil
}

type mockCustomerRepo struct {
	listFieldsFunc func(ctx context.Context) ([]*entity.CustomerField, error)
	searchFunc     func(ctx context.Context, query string) ([]*entity.CustomerSummary, error)
}

func (m *mockCustomerRepo) ListFields(ctx context.Context) ([]*entity.CustomerField, error) {
	if m.listFieldsFunc != nil {
		return m.listFieldsFunc(ctx)
	}
	return []*entity.CustomerField{}, nil
}

func (m *mockCustomerRepo) Search(ctx context.Context, query string) ([]*entity.CustomerSummary, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return []*entity.CustomerSummary{}, nil
}

type mockRevenueRepo struct {
	listFunc func(ctx context.Context) ([]*entity.Revenue, error)
}

func (m *mockRevenueRepo) List(ctx context.Context) ([]*entity.Revenue, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.Revenue{}, nil
}

type mockUserRepo struct {
	createFunc     func(ctx context.Context, user *entity.User) error
	getByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

type mockViewCache struct {
	invalidateFunc func(ctx context.Context, path string) error
	invalidated    []string
}

func (m *mockViewCache) Get(ctx context.Context, path, variant string) ([]byte, bool, error) {
	return nil, false, nil
}

func (m *mockViewCache) Version(ctx context.Context, path string) (uint64, error) {
	return uint64(len(m.invalidated)), nil
}

func (m *mockViewCache) Set(ctx context.Context, path, variant string, version uint64, body []byte) (bool, error) {
	return true, nil
}

func (m *mockViewCache) Invalidate(ctx context.Context, path string) error {
	m.invalidated = append(m.invalidated, path)
	if m.invalidateFunc != nil {
		return m.invalidateFunc(ctx, path)
	}
	return nil
}

type mutation struct {
	operation string
	outcome   string
}

type mockMetrics struct {
	recorded []mutation
}

func (m *mockMetrics) RecordMutation(operation, outcome string) {
	m.recorded = append(m.recorded, mutation{operation: operation, outcome: outcome})
}

type mockSessions struct {
	issueFunc  func(user *entity.User) (string, time.Time, error)
	verifyFunc func(token string) (*port.SessionClaims, error)
}

func (m *mockSessions) Issue(user *entity.User) (string, time.Time, error) {
	if m.issueFunc != nil {
		return m.issueFunc(user)
	}
	return "token-" + user.ID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (m *mockSessions) Verify(token string) (*port.SessionClaims, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(token)
	}
	return &port.SessionClaims{}, nil
}

type mockExporter struct {
	exportFunc func(rows []*entity.InvoiceRow) ([]byte, error)
}

func (m *mockExporter) Export(rows []*entity.InvoiceRow) ([]byte, error) {
	if m.exportFunc != nil {
		return m.exportFunc(rows)
	}
	return []byte("export"), nil
}

func (m *mockExporter) ContentType() string   { return "application/test" }
func (m *mockExporter) FileExtension() string { return ".test" }

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
