package analysis

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

// Field names of the prebuilt invoice model.
const (
	fieldCustomerName    = "CustomerName"
	fieldCustomerAddress = "CustomerAddress"
	fieldVendorName      = "VendorName"
	fieldVendorAddress   = "VendorAddress"
	fieldInvoiceID       = "InvoiceId"
	fieldInvoiceDate     = "InvoiceDate"
	fieldInvoiceTotal    = "InvoiceTotal"
	fieldItems           = "Items"

	fieldItemDescription = "Description"
	fieldItemQuantity    = "Quantity"
	fieldItemUnitPrice   = "UnitPrice"
	fieldItemAmount      = "Amount"
)

// placeholderDate is returned by the provider when it found no date.
var placeholderDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type InvoiceExtractor struct {
	logger *slog.Logger
}

func NewInvoiceExtractor(logger *slog.Logger) *InvoiceExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceExtractor{logger: logger}
}

// Extract maps every sub-document of result into one invoice. Scalar
// fields are taken from the last sub-document; items from all of them
// are accumulated in order.
func (e *InvoiceExtractor) Extract(result *domain.AnalysisResult) domain.InvoiceInfo {
	info := domain.InvoiceInfo{
		Date:         domain.NoDate,
		InvoiceItems: []domain.InvoiceItem{},
	}
	if result == nil {
		return info
	}
	if len(result.Documents) > 1 {
		e.logger.Warn("invoice.extract.multiple_documents",
			"documents", len(result.Documents),
		)
	}

	for i, doc := range result.Documents {
		fields := Fields(doc.Fields)
		defaulted := make([]string, 0, 4)
		str := func(name string) string {
			v, p := fields.String(name)
			if p != Present {
				defaulted = append(defaulted, name)
			}
			return v
		}

		info.ClientName = str(fieldCustomerName)
		info.ClientAddress = composeAddress(fields, fieldCustomerAddress)
		info.SupplierName = str(fieldVendorName)
		info.SupplierAddress = composeAddress(fields, fieldVendorAddress)
		info.InvoiceNumber = str(fieldInvoiceID)
		info.Date = invoiceDate(fields)

		total, p := fields.Currency(fieldInvoiceTotal)
		if p != Present {
			defaulted = append(defaulted, fieldInvoiceTotal)
		}
		info.TotalInvoice = total

		info.InvoiceItems = append(info.InvoiceItems, extractItems(fields)...)

		if len(defaulted) > 0 {
			e.logger.Debug("invoice.extract.defaulted_fields",
				"document_index", i,
				"fields", defaulted,
			)
		}
	}
	return info
}

// composeAddress keeps a single space between components even when some
// of them are empty.
func composeAddress(fields Fields, name string) string {
	a, _ := fields.Address(name)
	return fmt.Sprintf("%s %s %s %s", a.City, a.State, a.House, a.Suburb)
}

func invoiceDate(fields Fields) time.Time {
	d, p := fields.Date(fieldInvoiceDate)
	if p != Present || d.Equal(placeholderDate) {
		return domain.NoDate
	}
	return d
}

func extractItems(fields Fields) []domain.InvoiceItem {
	list, p := fields.List(fieldItems)
	if p != Present {
		return nil
	}

	items := make([]domain.InvoiceItem, 0, len(list))
	for _, element := range list {
		var itemFields Fields
		if element.Kind == domain.FieldDictionary {
			itemFields = Fields(element.Dictionary)
		}

		quantity, _ := itemFields.Number(fieldItemQuantity)
		items = append(items, domain.InvoiceItem{
			Name:        itemFields.StringOr(fieldItemDescription, ""),
			Quantity:    int(quantity),
			UnitPrice:   itemFields.CurrencyOr(fieldItemUnitPrice),
			TotalAmount: itemFields.CurrencyOr(fieldItemAmount),
		})
	}
	return items
}
