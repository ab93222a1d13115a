package domain

import "time"

type LogType string

const (
	LogTypeDocumentUpload  LogType = "document_upload"
	LogTypeAIProcessing    LogType = "ai_processing"
	LogTypeUserInteraction LogType = "user_interaction"
)

// LogEntry is one row of the user-visible activity log.
type LogEntry struct {
	ID          int64     `json:"id"`
	Type        LogType   `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
