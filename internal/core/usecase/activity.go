package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/core/ports"
)

type ActivityUseCase struct {
	repo     ports.LogEntryRepository
	exporter ports.LogEntryExporter
	now      func() time.Time
}

func NewActivityUseCase(repo ports.LogEntryRepository, exporter ports.LogEntryExporter) *ActivityUseCase {
	return &ActivityUseCase{
		repo:     repo,
		exporter: exporter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ActivityUseCase) Record(ctx context.Context, logType domain.LogType, description string) error {
	if strings.TrimSpace(description) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "record activity", errors.New("description is required"))
	}
	entry := &domain.LogEntry{
		Type:        logType,
		Description: description,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

// List returns entries whose description contains filter, ordered by id.
// A blank filter returns every entry.
func (uc *ActivityUseCase) List(ctx context.Context, filter string) ([]domain.LogEntry, error) {
	entries, err := uc.repo.List(ctx, strings.TrimSpace(filter))
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	return entries, nil
}

func (uc *ActivityUseCase) Export(ctx context.Context, filter string) ([]byte, error) {
	entries, err := uc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := uc.exporter.Export(entries)
	if err != nil {
		return nil, fmt.Errorf("export log entries: %w", err)
	}
	return data, nil
}
