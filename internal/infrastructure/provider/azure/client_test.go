package azure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/infrastructure/resilience"
)

const invoiceResult = `{
  "status": "succeeded",
  "analyzeResult": {
    "paragraphs": [{"content": "FACTURA 001"}, {"content": "Gracias"}],
    "documents": [{
      "docType": "invoice",
      "fields": {
        "CustomerName": {"type": "string", "valueString": "ACME", "content": "ACME"},
        "InvoiceDate": {"type": "date", "valueDate": "2024-03-05"},
        "InvoiceTotal": {"type": "currency", "valueCurrency": {"amount": 100.10, "currencyCode": "EUR"}},
        "VendorAddress": {"type": "address", "valueAddress": {"city": "Madrid", "state": "MD", "house": "1", "suburb": "Centro"}},
        "CustomerPhone": {"type": "phoneNumber", "content": "+34 600"},
        "Items": {"type": "array", "valueArray": [
          {"type": "object", "valueObject": {
            "Description": {"type": "string", "valueString": "Widget"},
            "Quantity": {"type": "number", "valueNumber": 2},
            "Amount": {"type": "currency", "valueCurrency": {"amount": 20}}
          }}
        ]}
      }
    }]
  }
}`

func newTestServer(t *testing.T, pending int, final string) (*httptest.Server, *int32) {
	t.Helper()
	var polls int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(subscriptionKeyHeader) != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost:
			if !strings.HasSuffix(r.URL.Path, ":analyze") {
				http.NotFound(w, r)
				return
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "pdf-bytes" {
				t.Fatalf("unexpected body %q", string(body))
			}
			w.Header().Set("Operation-Location", server.URL+"/operations/1")
			w.WriteHeader(http.StatusAccepted)
		case r.URL.Path == "/operations/1":
			n := atomic.AddInt32(&polls, 1)
			if int(n) <= pending {
				_, _ = w.Write([]byte(`{"status":"running"}`))
				return
			}
			_, _ = w.Write([]byte(final))
		default:
			http.NotFound(w, r)
		}
	}))
	return server, &polls
}

func TestAnalyzePollsUntilSucceeded(t *testing.T) {
	server, polls := newTestServer(t, 2, invoiceResult)
	defer server.Close()

	var capturedPath string
	client := New(server.URL, "secret", Options{
		PollInterval: time.Millisecond,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method == http.MethodPost {
				capturedPath = r.URL.Path + "?" + r.URL.RawQuery
			}
			return http.DefaultTransport.RoundTrip(r)
		})},
	})

	result, err := client.Analyze(context.Background(), []byte("pdf-bytes"), domain.ModelInvoice)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if atomic.LoadInt32(polls) != 3 {
		t.Fatalf("expected 3 polls, got %d", atomic.LoadInt32(polls))
	}
	if capturedPath != "/formrecognizer/documentModels/prebuilt-invoice:analyze?api-version="+DefaultAPIVersion {
		t.Fatalf("unexpected analyze path %q", capturedPath)
	}
	if len(result.Paragraphs) != 2 || result.Paragraphs[0].Content != "FACTURA 001" {
		t.Fatalf("unexpected paragraphs %+v", result.Paragraphs)
	}
	if len(result.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(result.Documents))
	}

	fields := result.Documents[0].Fields
	if got := *fields["CustomerName"].String; got != "ACME" {
		t.Fatalf("expected ACME, got %q", got)
	}
	if got := fields["InvoiceTotal"].Currency.Amount; !got.Equal(decimal.RequireFromString("100.10")) {
		t.Fatalf("expected 100.10, got %s", got)
	}
	if got := fields["VendorAddress"].Address.Suburb; got != "Centro" {
		t.Fatalf("expected Centro, got %q", got)
	}
	if got := fields["CustomerPhone"].Kind; got != domain.FieldKind("phoneNumber") {
		t.Fatalf("expected raw phoneNumber kind, got %q", got)
	}

	items := fields["Items"]
	if items.Kind != domain.FieldList || len(items.List) != 1 {
		t.Fatalf("unexpected items %+v", items)
	}
	item := items.List[0]
	if item.Kind != domain.FieldDictionary || *item.Dictionary["Quantity"].Number != 2 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestAnalyzeWrapsFailedOperationAsProviderError(t *testing.T) {
	server, _ := newTestServer(t, 0, `{"status":"failed","error":{"code":"InvalidContent","message":"corrupt"}}`)
	defer server.Close()

	client := New(server.URL, "secret", Options{PollInterval: time.Millisecond})
	_, err := client.Analyze(context.Background(), []byte("pdf-bytes"), domain.ModelGenericDocument)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if !strings.Contains(err.Error(), "corrupt") {
		t.Fatalf("expected service message in error, got %v", err)
	}
}

func TestAnalyzeIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(server.URL, "secret", Options{})
	_, err := client.Analyze(context.Background(), []byte("x"), domain.ModelInvoice)
	if !domain.IsKind(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestAnalyzeRejectsUnknownModel(t *testing.T) {
	client := New("http://unused", "secret", Options{})
	_, err := client.Analyze(context.Background(), []byte("x"), domain.AnalysisModel("layout"))
	if !domain.IsKind(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestAnalyzeStopsPollingWhenContextCancelled(t *testing.T) {
	server, _ := newTestServer(t, 1000, invoiceResult)
	defer server.Close()

	client := New(server.URL, "secret", Options{PollInterval: 5 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, []byte("pdf-bytes"), domain.ModelInvoice)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !resilience.IsContextDone(err) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestAnalyzeDoesNotRetryUnderBreakerOnlyPolicy(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "secret", Options{
		Executor: resilience.NewExecutor(resilience.BreakerOnlyPolicy(), nil),
	})
	_, err := client.Analyze(context.Background(), []byte("x"), domain.ModelInvoice)
	if !domain.IsKind(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single provider call, got %d", atomic.LoadInt32(&calls))
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
