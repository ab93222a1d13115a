package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/document-analysis/internal/config"
	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/core/ports"
	"github.com/kirillkom/document-analysis/internal/observability/metrics"
)

const (
	serviceName = "api"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Router struct {
	cfg       config.Config
	logger    *slog.Logger
	uploader  ports.DocumentUploader
	analyzer  ports.DocumentAnalyzer
	documents ports.DocumentReader
	activity  ports.ActivityLog
	metrics   *metrics.HTTPServerMetrics
	contract  *contractValidator
}

type Dependencies struct {
	Uploader  ports.DocumentUploader
	Analyzer  ports.DocumentAnalyzer
	Documents ports.DocumentReader
	Activity  ports.ActivityLog
	Metrics   *metrics.HTTPServerMetrics
	Logger    *slog.Logger
}

func NewRouter(cfg config.Config, deps Dependencies) (*Router, error) {
	contract, err := newContractValidator()
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		cfg:       cfg,
		logger:    logger,
		uploader:  deps.Uploader,
		analyzer:  deps.Analyzer,
		documents: deps.Documents,
		activity:  deps.Activity,
		metrics:   deps.Metrics,
		contract:  contract,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", serveOpenAPI)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("POST /v1/documents/{id}/classify", rt.classifyDocument)
	mux.HandleFunc("GET /v1/documents/{id}/invoice", rt.extractInvoice)
	mux.HandleFunc("GET /v1/documents/{id}/information", rt.extractInformation)
	mux.HandleFunc("GET /v1/logs", rt.listLogEntries)
	mux.HandleFunc("GET /v1/logs/export", rt.exportLogEntries)

	var handler http.Handler = rt.contract.middleware(mux)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			rt.writeError(w, r, err)
			return
		}
		rt.writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("multipart field 'file' is required")))
		return
	}
	defer file.Close()

	doc, err := rt.uploader.Upload(r.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.ObserveUpload(doc.Size)
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.documents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) classifyDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	start := time.Now()
	docType, err := rt.analyzer.Classify(r.Context(), id)
	rt.observeAnalysis("classify", start, err)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"document_id": id,
		"type":        string(docType),
	})
}

func (rt *Router) extractInvoice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	info, err := rt.analyzer.ExtractInvoice(r.Context(), r.PathValue("id"))
	rt.observeAnalysis("invoice", start, err)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (rt *Router) extractInformation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	info, err := rt.analyzer.ExtractInformation(r.Context(), r.PathValue("id"))
	rt.observeAnalysis("information", start, err)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (rt *Router) listLogEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := rt.activity.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (rt *Router) exportLogEntries(w http.ResponseWriter, r *http.Request) {
	data, err := rt.activity.Export(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="log-entries.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) observeAnalysis(operation string, start time.Time, err error) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordAnalysis(serviceName, operation, errorKindLabel(err), time.Since(start))
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.logger.Error("http.handler_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
