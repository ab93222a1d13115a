package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoDate marks an invoice without a usable date. It is the zero time,
// the earliest instant time.Time represents.
var NoDate = time.Time{}

type InvoiceInfo struct {
	ClientName      string          `json:"client_name"`
	ClientAddress   string          `json:"client_address"`
	SupplierName    string          `json:"supplier_name"`
	SupplierAddress string          `json:"supplier_address"`
	InvoiceNumber   string          `json:"invoice_number"`
	Date            time.Time       `json:"date"`
	TotalInvoice    decimal.Decimal `json:"total_invoice"`
	InvoiceItems    []InvoiceItem   `json:"invoice_items"`
}

// HasDate reports whether the provider returned a usable invoice date.
func (i InvoiceInfo) HasDate() bool {
	return !i.Date.Equal(NoDate)
}

type InvoiceItem struct {
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
