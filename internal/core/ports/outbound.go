package ports

import (
	"context"
	"io"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

// DocumentRepository persists and reads document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	SaveClassification(ctx context.Context, id string, docType domain.DocumentType) error
}

// ObjectStorage stores source document bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// AnalysisProvider extracts paragraphs and typed fields from raw content.
type AnalysisProvider interface {
	Analyze(ctx context.Context, content []byte, model domain.AnalysisModel) (*domain.AnalysisResult, error)
}

// LogEntryRepository persists activity log entries.
type LogEntryRepository interface {
	Append(ctx context.Context, entry *domain.LogEntry) error
	List(ctx context.Context, filter string) ([]domain.LogEntry, error)
}

// LogEntryExporter renders activity log entries as a spreadsheet.
type LogEntryExporter interface {
	Export(entries []domain.LogEntry) ([]byte, error)
}

// ActivityRecorder appends an entry to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, logType domain.LogType, description string) error
}
