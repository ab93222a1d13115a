package analysis

import (
	"strings"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

// Classifier decides the document type from provider paragraphs.
type Classifier struct {
	keyword string
}

func NewClassifier(lexicon Lexicon) *Classifier {
	return &Classifier{keyword: strings.ToLower(lexicon.Merge(DefaultLexicon()).InvoiceKeyword)}
}

// Classify returns Invoice when any paragraph contains the invoice keyword,
// ignoring case, and Information otherwise.
func (c *Classifier) Classify(paragraphs []domain.Paragraph) domain.DocumentType {
	for _, p := range paragraphs {
		if strings.Contains(strings.ToLower(p.Content), c.keyword) {
			return domain.DocumentTypeInvoice
		}
	}
	return domain.DocumentTypeInformation
}
