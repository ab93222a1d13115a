package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, content_type, storage_path, size_bytes, doc_type, uploaded_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		doc.ID, doc.Filename, doc.ContentType, doc.StoragePath, doc.Size, string(doc.Type), doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, content_type, storage_path, size_bytes, doc_type, uploaded_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var docType string
	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.ContentType, &doc.StoragePath, &doc.Size, &docType, &doc.UploadedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Type = domain.DocumentType(docType)
	return &doc, nil
}

// SaveClassification is a single-row update; concurrent writers race and
// the last one wins.
func (r *DocumentRepository) SaveClassification(ctx context.Context, id string, docType domain.DocumentType) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET doc_type = $2, updated_at = $3
WHERE id = $1
`, id, string(docType), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return ensureAffected(res, "save classification", id)
}

func ensureAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
