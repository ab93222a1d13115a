package analysis

// Lexicon holds the locale-specific words the classifier and the
// sentiment scorer match against.
type Lexicon struct {
	InvoiceKeyword string   `yaml:"invoice_keyword"`
	PositiveWords  []string `yaml:"positive_words"`
	NegativeWords  []string `yaml:"negative_words"`
}

// DefaultLexicon is the Spanish lexicon the service was deployed with.
func DefaultLexicon() Lexicon {
	return Lexicon{
		InvoiceKeyword: "factura",
		PositiveWords:  []string{"bueno", "excelente", "fantástico"},
		NegativeWords:  []string{"malo", "terrible", "pésimo"},
	}
}

// Merge fills empty entries of l from fallback.
func (l Lexicon) Merge(fallback Lexicon) Lexicon {
	out := l
	if out.InvoiceKeyword == "" {
		out.InvoiceKeyword = fallback.InvoiceKeyword
	}
	if len(out.PositiveWords) == 0 {
		out.PositiveWords = fallback.PositiveWords
	}
	if len(out.NegativeWords) == 0 {
		out.NegativeWords = fallback.NegativeWords
	}
	return out
}
