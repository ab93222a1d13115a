package ports

import (
	"context"
	"io"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

// DocumentUploader is the inbound contract for storing new documents.
type DocumentUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*domain.Document, error)
}

// DocumentAnalyzer is the inbound contract for provider-backed analysis of a stored document.
type DocumentAnalyzer interface {
	Classify(ctx context.Context, documentID string) (domain.DocumentType, error)
	ExtractInvoice(ctx context.Context, documentID string) (*domain.InvoiceInfo, error)
	ExtractInformation(ctx context.Context, documentID string) (*domain.InformationDocument, error)
}

// DocumentReader is the inbound read model for document metadata.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// ActivityLog is the inbound contract for the user-visible activity log.
type ActivityLog interface {
	Record(ctx context.Context, logType domain.LogType, description string) error
	List(ctx context.Context, filter string) ([]domain.LogEntry, error)
	Export(ctx context.Context, filter string) ([]byte, error)
}
