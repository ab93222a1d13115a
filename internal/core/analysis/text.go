package analysis

import (
	"strings"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

const (
	descriptionMaxChars = 300
	summaryMaxWords     = 20
	ellipsis            = "..."
)

type TextAnalyzer struct {
	positive []string
	negative []string
}

func NewTextAnalyzer(lexicon Lexicon) *TextAnalyzer {
	lexicon = lexicon.Merge(DefaultLexicon())
	return &TextAnalyzer{
		positive: lexicon.PositiveWords,
		negative: lexicon.NegativeWords,
	}
}

func (a *TextAnalyzer) Analyze(paragraphs []domain.Paragraph) domain.InformationDocument {
	fullText := JoinParagraphs(paragraphs)
	return domain.InformationDocument{
		Description: Describe(fullText),
		Summary:     Summarize(fullText),
		Feeling:     a.Sentiment(fullText),
	}
}

func JoinParagraphs(paragraphs []domain.Paragraph) string {
	parts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		parts[i] = p.Content
	}
	return strings.Join(parts, " ")
}

// Describe caps text at descriptionMaxChars characters.
func Describe(text string) string {
	runes := []rune(text)
	if len(runes) <= descriptionMaxChars {
		return text
	}
	return string(runes[:descriptionMaxChars]) + ellipsis
}

// Summarize keeps the first summaryMaxWords words of text.
func Summarize(text string) string {
	words := splitNonEmpty(text, " \r\n")
	if len(words) <= summaryMaxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:summaryMaxWords], " ") + ellipsis
}

// Sentiment compares exact, case-insensitive occurrences of the positive
// and negative words.
func (a *TextAnalyzer) Sentiment(text string) domain.Feeling {
	tokens := splitNonEmpty(text, " .,")
	positive := countOccurrences(tokens, a.positive)
	negative := countOccurrences(tokens, a.negative)

	switch {
	case positive > negative:
		return domain.FeelingPositive
	case negative > positive:
		return domain.FeelingNegative
	default:
		return domain.FeelingNeutral
	}
}

func countOccurrences(tokens, words []string) int {
	count := 0
	for _, token := range tokens {
		for _, word := range words {
			if strings.EqualFold(token, word) {
				count++
			}
		}
	}
	return count
}

func splitNonEmpty(text, separators string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
}
