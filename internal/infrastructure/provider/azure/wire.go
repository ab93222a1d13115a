package azure

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

type operationResponse struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult"`
	Error         *serviceError  `json:"error"`
}

type serviceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	Paragraphs []struct {
		Content string `json:"content"`
	} `json:"paragraphs"`
	Documents []struct {
		DocType string               `json:"docType"`
		Fields  map[string]wireField `json:"fields"`
	} `json:"documents"`
}

type wireField struct {
	Type    string `json:"type"`
	Content string `json:"content"`

	ValueString   *string              `json:"valueString"`
	ValueDate     *string              `json:"valueDate"`
	ValueNumber   *float64             `json:"valueNumber"`
	ValueInteger  *int64               `json:"valueInteger"`
	ValueCurrency *wireCurrency        `json:"valueCurrency"`
	ValueAddress  *wireAddress         `json:"valueAddress"`
	ValueArray    []wireField          `json:"valueArray"`
	ValueObject   map[string]wireField `json:"valueObject"`
}

type wireCurrency struct {
	Amount         json.Number `json:"amount"`
	CurrencyCode   string      `json:"currencyCode"`
	CurrencySymbol string      `json:"currencySymbol"`
}

type wireAddress struct {
	HouseNumber   string `json:"houseNumber"`
	Road          string `json:"road"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	CountryRegion string `json:"countryRegion"`
	House         string `json:"house"`
	Suburb        string `json:"suburb"`
}

var wireKinds = map[string]domain.FieldKind{
	"string":   domain.FieldString,
	"address":  domain.FieldAddress,
	"date":     domain.FieldDate,
	"currency": domain.FieldCurrency,
	"number":   domain.FieldNumber,
	"integer":  domain.FieldInteger,
	"array":    domain.FieldList,
	"object":   domain.FieldDictionary,
}

func (r *analyzeResult) toDomain() *domain.AnalysisResult {
	out := &domain.AnalysisResult{
		Paragraphs: make([]domain.Paragraph, 0, len(r.Paragraphs)),
		Documents:  make([]domain.SubDocument, 0, len(r.Documents)),
	}
	for _, p := range r.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, domain.Paragraph{Content: p.Content})
	}
	for _, d := range r.Documents {
		out.Documents = append(out.Documents, domain.SubDocument{
			DocType: d.DocType,
			Fields:  toFieldMap(d.Fields),
		})
	}
	return out
}

func toFieldMap(in map[string]wireField) domain.FieldMap {
	out := make(domain.FieldMap, len(in))
	for name, f := range in {
		out[name] = f.toDomain()
	}
	return out
}

// toDomain keeps unsupported provider types (phoneNumber, time,
// selectionMark...) under their raw type name so lookups report them as
// mis-typed.
func (f wireField) toDomain() domain.Field {
	kind, ok := wireKinds[f.Type]
	if !ok {
		kind = domain.FieldKind(f.Type)
	}
	out := domain.Field{Kind: kind, Content: f.Content}

	switch kind {
	case domain.FieldString:
		out.String = f.ValueString
	case domain.FieldDate:
		out.Date = f.ValueDate
	case domain.FieldNumber:
		out.Number = f.ValueNumber
	case domain.FieldInteger:
		out.Integer = f.ValueInteger
	case domain.FieldAddress:
		if a := f.ValueAddress; a != nil {
			out.Address = &domain.Address{
				HouseNumber:   a.HouseNumber,
				Road:          a.Road,
				City:          a.City,
				State:         a.State,
				PostalCode:    a.PostalCode,
				CountryRegion: a.CountryRegion,
				House:         a.House,
				Suburb:        a.Suburb,
			}
		}
	case domain.FieldCurrency:
		if c := f.ValueCurrency; c != nil {
			if amount, err := decimal.NewFromString(c.Amount.String()); err == nil {
				out.Currency = &domain.Currency{Amount: amount, Code: c.CurrencyCode, Symbol: c.CurrencySymbol}
			}
		}
	case domain.FieldList:
		if f.ValueArray != nil {
			out.List = make([]domain.Field, 0, len(f.ValueArray))
			for _, element := range f.ValueArray {
				out.List = append(out.List, element.toDomain())
			}
		}
	case domain.FieldDictionary:
		if f.ValueObject != nil {
			out.Dictionary = toFieldMap(f.ValueObject)
		}
	}
	return out
}
