package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

// Presence is the outcome of looking up a named provider field.
type Presence int

const (
	Absent Presence = iota
	Present
	WrongType
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case WrongType:
		return "wrong_type"
	default:
		return "absent"
	}
}

const providerDateLayout = "2006-01-02"

type Lookup struct {
	Presence Presence
	Field    domain.Field
}

// Get looks up name in fields and checks that it carries a value of kind.
// number and integer are interchangeable numeric kinds.
func Get(fields domain.FieldMap, name string, kind domain.FieldKind) Lookup {
	field, ok := fields[name]
	if !ok {
		return Lookup{Presence: Absent}
	}
	if !kindMatches(field.Kind, kind) || !hasValue(field, kind) {
		return Lookup{Presence: WrongType, Field: field}
	}
	return Lookup{Presence: Present, Field: field}
}

func kindMatches(actual, expected domain.FieldKind) bool {
	if actual == expected {
		return true
	}
	numeric := func(k domain.FieldKind) bool {
		return k == domain.FieldNumber || k == domain.FieldInteger
	}
	return numeric(actual) && numeric(expected)
}

func hasValue(field domain.Field, kind domain.FieldKind) bool {
	switch kind {
	case domain.FieldString:
		return field.String != nil
	case domain.FieldAddress:
		return field.Address != nil
	case domain.FieldDate:
		return field.Date != nil
	case domain.FieldCurrency:
		return field.Currency != nil
	case domain.FieldNumber, domain.FieldInteger:
		return field.Number != nil || field.Integer != nil
	case domain.FieldList:
		return field.List != nil
	case domain.FieldDictionary:
		return field.Dictionary != nil
	default:
		return false
	}
}

// Fields wraps a provider field map with typed accessors. Every accessor
// returns the zero value unless the presence is Present.
type Fields domain.FieldMap

func (f Fields) String(name string) (string, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldString)
	if l.Presence != Present {
		return "", l.Presence
	}
	return *l.Field.String, Present
}

func (f Fields) Address(name string) (domain.Address, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldAddress)
	if l.Presence != Present {
		return domain.Address{}, l.Presence
	}
	return *l.Field.Address, Present
}

// Date parses the provider date value. Unparsable values report WrongType.
func (f Fields) Date(name string) (time.Time, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldDate)
	if l.Presence != Present {
		return time.Time{}, l.Presence
	}
	parsed, err := time.Parse(providerDateLayout, *l.Field.Date)
	if err != nil {
		return time.Time{}, WrongType
	}
	return parsed, Present
}

func (f Fields) Currency(name string) (decimal.Decimal, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldCurrency)
	if l.Presence != Present {
		return decimal.Zero, l.Presence
	}
	return l.Field.Currency.Amount, Present
}

func (f Fields) Number(name string) (float64, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldNumber)
	if l.Presence != Present {
		return 0, l.Presence
	}
	if l.Field.Number != nil {
		return *l.Field.Number, Present
	}
	return float64(*l.Field.Integer), Present
}

func (f Fields) List(name string) ([]domain.Field, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldList)
	if l.Presence != Present {
		return nil, l.Presence
	}
	return l.Field.List, Present
}

func (f Fields) Dictionary(name string) (Fields, Presence) {
	l := Get(domain.FieldMap(f), name, domain.FieldDictionary)
	if l.Presence != Present {
		return nil, l.Presence
	}
	return Fields(l.Field.Dictionary), Present
}

// StringOr returns the string value of name or fallback.
func (f Fields) StringOr(name, fallback string) string {
	if v, p := f.String(name); p == Present {
		return v
	}
	return fallback
}

// CurrencyOr returns the currency amount of name or zero.
func (f Fields) CurrencyOr(name string) decimal.Decimal {
	if v, p := f.Currency(name); p == Present {
		return v
	}
	return decimal.Zero
}
