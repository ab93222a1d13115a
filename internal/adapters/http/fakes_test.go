package httpadapter

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/document-analysis/internal/config"
	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/observability/metrics"
)

const testDocID = "3f2b8c1e-9a4d-4e21-8b7a-5c6d7e8f9a0b"

type uploaderFake struct {
	err      error
	filename string
	body     string
}

func (f *uploaderFake) Upload(_ context.Context, filename, _ string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, _ := io.ReadAll(body)
	f.filename = filename
	f.body = string(raw)
	return &domain.Document{ID: testDocID, Filename: filename, Size: int64(len(raw)), Type: domain.DocumentTypeUnknown}, nil
}

type analyzerFake struct {
	err     error
	docType domain.DocumentType
	invoice *domain.InvoiceInfo
}

func (f *analyzerFake) Classify(context.Context, string) (domain.DocumentType, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.docType, nil
}

func (f *analyzerFake) ExtractInvoice(context.Context, string) (*domain.InvoiceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.invoice, nil
}

func (f *analyzerFake) ExtractInformation(context.Context, string) (*domain.InformationDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.InformationDocument{Description: "d", Summary: "s", Feeling: domain.FeelingPositive}, nil
}

type readerFake struct {
	err error
}

func (f readerFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: id, Filename: "a.pdf", Type: domain.DocumentTypeInvoice}, nil
}

type activityFake struct {
	filter  string
	entries []domain.LogEntry
	export  []byte
}

func (f *activityFake) Record(context.Context, domain.LogType, string) error { return nil }

func (f *activityFake) List(_ context.Context, filter string) ([]domain.LogEntry, error) {
	f.filter = filter
	return f.entries, nil
}

func (f *activityFake) Export(_ context.Context, filter string) ([]byte, error) {
	f.filter = filter
	return f.export, nil
}

type testDeps struct {
	uploader *uploaderFake
	analyzer *analyzerFake
	reader   readerFake
	activity *activityFake
}

func newTestDeps() *testDeps {
	return &testDeps{
		uploader: &uploaderFake{},
		analyzer: &analyzerFake{
			docType: domain.DocumentTypeInvoice,
			invoice: &domain.InvoiceInfo{
				ClientName:   "ACME",
				TotalInvoice: decimal.RequireFromString("100.10"),
				InvoiceItems: []domain.InvoiceItem{},
			},
		},
		activity: &activityFake{},
	}
}

func (d *testDeps) handler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	m := metrics.NewHTTPServerMetrics(serviceName)
	router, err := NewRouter(cfg, Dependencies{
		Uploader:  d.uploader,
		Analyzer:  d.analyzer,
		Documents: d.reader,
		Activity:  d.activity,
		Metrics:   m,
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return router.Handler()
}
