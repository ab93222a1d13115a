package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

func strField(v string) domain.Field {
	return domain.Field{Kind: domain.FieldString, Content: v, String: &v}
}

func dateField(v string) domain.Field {
	return domain.Field{Kind: domain.FieldDate, Content: v, Date: &v}
}

func numberField(v float64) domain.Field {
	return domain.Field{Kind: domain.FieldNumber, Number: &v}
}

func currencyField(amount string) domain.Field {
	return domain.Field{
		Kind:     domain.FieldCurrency,
		Content:  amount,
		Currency: &domain.Currency{Amount: decimal.RequireFromString(amount), Code: "EUR"},
	}
}

func addressField(city, state, house, suburb string) domain.Field {
	return domain.Field{
		Kind:    domain.FieldAddress,
		Address: &domain.Address{City: city, State: state, House: house, Suburb: suburb},
	}
}

func itemField(fields domain.FieldMap) domain.Field {
	return domain.Field{Kind: domain.FieldDictionary, Dictionary: fields}
}

func listField(items ...domain.Field) domain.Field {
	if items == nil {
		items = []domain.Field{}
	}
	return domain.Field{Kind: domain.FieldList, List: items}
}

func paragraphs(texts ...string) []domain.Paragraph {
	out := make([]domain.Paragraph, 0, len(texts))
	for _, t := range texts {
		out = append(out, domain.Paragraph{Content: t})
	}
	return out
}
