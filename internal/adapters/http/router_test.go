package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/document-analysis/internal/config"
	"github.com/kirillkom/document-analysis/internal/core/domain"
)

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte(content))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadDocumentReturns201(t *testing.T) {
	deps := newTestDeps()
	handler := deps.handler(t, config.Config{MaxUploadBytes: 1 << 20})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartUpload(t, "factura.pdf", "%PDF-1.4"))

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	if deps.uploader.filename != "factura.pdf" || deps.uploader.body != "%PDF-1.4" {
		t.Fatalf("unexpected upload %q/%q", deps.uploader.filename, deps.uploader.body)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestUploadDocumentWithoutFileReturns400(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUploadDocumentTooLargeReturns413(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{MaxUploadBytes: 16})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartUpload(t, "big.pdf", strings.Repeat("x", 4096)))

	if res.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.Code)
	}
}

func TestUploadFailureReturns500WithCause(t *testing.T) {
	deps := newTestDeps()
	deps.uploader.err = domain.WrapError(domain.ErrUpload, "upload document", errors.New("disk full"))
	handler := deps.handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, multipartUpload(t, "a.pdf", "x"))

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "disk full") {
		t.Fatalf("expected cause in body, got %s", res.Body.String())
	}
}

func TestGetDocumentReturns404ForNotFound(t *testing.T) {
	deps := newTestDeps()
	deps.reader = readerFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))}
	handler := deps.handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/"+testDocID, nil))

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestMalformedDocumentIDRejectedByContract(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/not-a-uuid", nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestClassifyDocumentReturnsType(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/documents/"+testDocID+"/classify", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["type"] != "invoice" || body["document_id"] != testDocID {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAnalysisErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: domain.WrapError(domain.ErrInvalidInput, "load", errors.New("empty")), want: http.StatusBadRequest},
		{name: "not found", err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id")), want: http.StatusNotFound},
		{name: "provider", err: domain.WrapError(domain.ErrProvider, "analyze", errors.New("boom")), want: http.StatusBadGateway},
		{name: "breaker open", err: domain.WrapError(domain.ErrTemporary, "analyze", domain.WrapError(domain.ErrProvider, "circuit open", errors.New("open"))), want: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.analyzer.err = tc.err
			handler := deps.handler(t, config.Config{})

			res := httptest.NewRecorder()
			handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/"+testDocID+"/invoice", nil))
			if res.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, res.Code)
			}
		})
	}
}

func TestExtractInvoiceEncodesAmountsAsStrings(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/"+testDocID+"/invoice", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"total_invoice":"100.1"`) {
		t.Fatalf("expected decimal string amount, got %s", res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"invoice_items":[]`) {
		t.Fatalf("expected empty items array, got %s", res.Body.String())
	}
}

func TestListLogEntriesPassesFilter(t *testing.T) {
	deps := newTestDeps()
	deps.activity.entries = []domain.LogEntry{{ID: 1, Type: domain.LogTypeDocumentUpload, Description: "Document uploaded: a.pdf"}}
	handler := deps.handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/logs?filter=uploaded", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if deps.activity.filter != "uploaded" {
		t.Fatalf("expected filter to reach use case, got %q", deps.activity.filter)
	}
	if !strings.Contains(res.Body.String(), "Document uploaded: a.pdf") {
		t.Fatalf("unexpected body %s", res.Body.String())
	}
}

func TestListLogEntriesRejectsOverlongFilter(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/logs?filter="+strings.Repeat("a", 201), nil))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExportLogEntriesServesWorkbook(t *testing.T) {
	deps := newTestDeps()
	deps.activity.export = []byte("PK-workbook")
	handler := deps.handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/logs/export", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get("Content-Type") != xlsxMIME {
		t.Fatalf("unexpected content type %q", res.Header().Get("Content-Type"))
	}
	if res.Body.String() != "PK-workbook" {
		t.Fatalf("unexpected body %q", res.Body.String())
	}
}

func TestOpenAPIAndMetricsAreServed(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), "openapi: 3.0.3") {
		t.Fatalf("expected contract document, got %d", res.Code)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(res.Body.String(), "docanalysis_http_requests_total") {
		t.Fatalf("expected http metrics, got %s", res.Body.String())
	}
}

func TestUnknownMethodReturns405(t *testing.T) {
	handler := newTestDeps().handler(t, config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/v1/logs", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}
