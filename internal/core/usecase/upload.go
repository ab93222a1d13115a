package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/core/ports"
)

type UploadDocumentUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
	activity ports.ActivityRecorder
	now      func() time.Time
}

// NewUploadDocumentUseCase builds the upload flow. queue and activity may be nil.
func NewUploadDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	activity ports.ActivityRecorder,
) *UploadDocumentUseCase {
	return &UploadDocumentUseCase{
		repo:     repo,
		storage:  storage,
		queue:    queue,
		activity: activity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	filename, contentType string,
	body io.Reader,
) (*domain.Document, error) {
	if body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("nil body"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := uc.now()

	size, err := uc.storage.Save(ctx, storageKey, body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpload, "upload document", fmt.Errorf("save to object storage: %w", err))
	}

	doc := &domain.Document{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		StoragePath: storageKey,
		Size:        size,
		Type:        domain.DocumentTypeUnknown,
		UploadedAt:  now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		slog.Error("document_upload_failed", "document_id", id, "filename", filename, "error", err)
		return nil, domain.WrapError(domain.ErrUpload, "upload document", fmt.Errorf("create document metadata: %w", err))
	}

	recordActivity(ctx, uc.activity, domain.LogTypeDocumentUpload, fmt.Sprintf("Document uploaded: %s (%s)", filename, id))

	// The document is persisted at this point; a lost event only delays
	// classification until it is requested explicitly.
	if uc.queue != nil {
		if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
			slog.Warn("publish_upload_event_failed", "document_id", doc.ID, "error", err)
		}
	}

	return doc, nil
}

func recordActivity(ctx context.Context, recorder ports.ActivityRecorder, logType domain.LogType, description string) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, logType, description); err != nil {
		slog.Warn("activity_record_failed", "type", string(logType), "error", err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
