package domain

import "github.com/shopspring/decimal"

// AnalysisModel selects the provider model used to analyze a document.
type AnalysisModel string

const (
	ModelGenericDocument AnalysisModel = "generic-document"
	ModelInvoice         AnalysisModel = "invoice"
)

// AnalysisResult is the raw layout and field data returned by the provider.
type AnalysisResult struct {
	Paragraphs []Paragraph   `json:"paragraphs"`
	Documents  []SubDocument `json:"documents,omitempty"`
}

type Paragraph struct {
	Content string `json:"content"`
}

// SubDocument is one logical record found in the analyzed content.
// A single upload may carry several invoices.
type SubDocument struct {
	DocType string   `json:"doc_type,omitempty"`
	Fields  FieldMap `json:"fields"`
}

type FieldMap map[string]Field

type FieldKind string

const (
	FieldString     FieldKind = "string"
	FieldAddress    FieldKind = "address"
	FieldDate       FieldKind = "date"
	FieldCurrency   FieldKind = "currency"
	FieldNumber     FieldKind = "number"
	FieldInteger    FieldKind = "integer"
	FieldList       FieldKind = "list"
	FieldDictionary FieldKind = "dictionary"
)

// Field is a provider field value. Kind names the populated slot; a slot
// may still be empty when the provider recognized the field but could not
// normalize its value.
type Field struct {
	Kind    FieldKind `json:"kind"`
	Content string    `json:"content,omitempty"`

	String     *string   `json:"string,omitempty"`
	Address    *Address  `json:"address,omitempty"`
	Date       *string   `json:"date,omitempty"`
	Currency   *Currency `json:"currency,omitempty"`
	Number     *float64  `json:"number,omitempty"`
	Integer    *int64    `json:"integer,omitempty"`
	List       []Field   `json:"list,omitempty"`
	Dictionary FieldMap  `json:"dictionary,omitempty"`
}

type Address struct {
	HouseNumber   string `json:"house_number,omitempty"`
	Road          string `json:"road,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	CountryRegion string `json:"country_region,omitempty"`
	House         string `json:"house,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
}

type Currency struct {
	Amount decimal.Decimal `json:"amount"`
	Code   string          `json:"code,omitempty"`
	Symbol string          `json:"symbol,omitempty"`
}
