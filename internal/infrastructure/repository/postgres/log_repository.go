package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

type LogEntryRepository struct {
	db *sql.DB
}

func NewLogEntryRepository(db *sql.DB) *LogEntryRepository {
	return &LogEntryRepository{db: db}
}

func (r *LogEntryRepository) Append(ctx context.Context, entry *domain.LogEntry) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO log_entries (log_type, description, created_at)
VALUES ($1,$2,$3)
RETURNING id
`, string(entry.Type), entry.Description, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// List matches filter as a case-sensitive substring of the description.
func (r *LogEntryRepository) List(ctx context.Context, filter string) ([]domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, log_type, description, created_at
FROM log_entries
WHERE $1::text = '' OR strpos(description, $1::text) > 0
ORDER BY id
`, filter)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LogEntry, 0)
	for rows.Next() {
		var entry domain.LogEntry
		var logType string
		if err := rows.Scan(&entry.ID, &logType, &entry.Description, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.Type = domain.LogType(logType)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return out, nil
}
