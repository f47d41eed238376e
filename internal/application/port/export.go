package port

import "github.com/garyjia/invoice-dashboard/internal/domain/entity"

// InvoiceExporter renders invoice rows as a downloadable document
type InvoiceExporter interface {
	Export(rows []*entity.InvoiceRow) ([]byte, error)
	ContentType() string
	FileExtension() string
}
