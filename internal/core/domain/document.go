package domain

import "time"

type DocumentType string

const (
	DocumentTypeInvoice     DocumentType = "invoice"
	DocumentTypeInformation DocumentType = "information"
	// DocumentTypeUnknown is the type of a document that has not been classified yet.
	DocumentTypeUnknown DocumentType = "unknown"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeInformation, DocumentTypeUnknown:
		return true
	default:
		return false
	}
}

type Document struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	StoragePath string       `json:"storage_path"`
	Size        int64        `json:"size"`
	Type        DocumentType `json:"type"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
