package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/infrastructure/resilience"
)

const (
	DefaultAPIVersion   = "2023-07-31"
	defaultPollInterval = time.Second
	defaultTimeout      = 2 * time.Minute

	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
	analyzeOperation      = "provider.analyze"
)

var models = map[domain.AnalysisModel]string{
	domain.ModelGenericDocument: "prebuilt-document",
	domain.ModelInvoice:         "prebuilt-invoice",
}

type Options struct {
	APIVersion   string
	PollInterval time.Duration
	Timeout      time.Duration
	HTTPClient   *http.Client
	Executor     *resilience.Executor
	Logger       *slog.Logger
}

// Client calls the Document Intelligence analyze API and polls the
// returned operation until it completes.
type Client struct {
	endpoint     string
	apiKey       string
	apiVersion   string
	pollInterval time.Duration
	timeout      time.Duration
	httpClient   *http.Client
	executor     *resilience.Executor
	logger       *slog.Logger
}

func New(endpoint, apiKey string, options Options) *Client {
	c := &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		apiKey:       apiKey,
		apiVersion:   options.APIVersion,
		pollInterval: options.PollInterval,
		timeout:      options.Timeout,
		httpClient:   options.HTTPClient,
		executor:     options.Executor,
		logger:       options.Logger,
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Client) Analyze(ctx context.Context, content []byte, model domain.AnalysisModel) (*domain.AnalysisResult, error) {
	modelID, ok := models[model]
	if !ok {
		return nil, domain.WrapError(domain.ErrProvider, analyzeOperation, fmt.Errorf("unsupported model %q", model))
	}

	var result *domain.AnalysisResult
	call := func(ctx context.Context) error {
		var err error
		result, err = c.analyze(ctx, content, modelID)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, analyzeOperation, call, classifyProviderError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return nil, domain.WrapError(domain.ErrTemporary, analyzeOperation, domain.WrapError(domain.ErrProvider, "circuit open", err))
		}
		return nil, domain.WrapError(domain.ErrProvider, analyzeOperation, err)
	}
	return result, nil
}

func (c *Client) analyze(ctx context.Context, content []byte, modelID string) (*domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	location, err := c.submit(ctx, content, modelID)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	polls := 0
	for {
		if err := waitTurn(ctx, limiter); err != nil {
			return nil, fmt.Errorf("wait for analyze operation: %w", err)
		}
		polls++

		op, err := c.poll(ctx, location)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(op.Status) {
		case "succeeded":
			if op.AnalyzeResult == nil {
				return nil, errors.New("analyze operation succeeded without a result")
			}
			c.logger.Debug("provider.analyze.completed",
				"model", modelID,
				"polls", polls,
				"duration_ms", time.Since(started).Milliseconds(),
			)
			return op.AnalyzeResult.toDomain(), nil
		case "failed", "canceled":
			if op.Error != nil {
				return nil, fmt.Errorf("analyze operation %s: %s: %s", op.Status, op.Error.Code, op.Error.Message)
			}
			return nil, fmt.Errorf("analyze operation %s", op.Status)
		}
	}
}

// waitTurn blocks until limiter grants a poll or ctx is done.
func waitTurn(ctx context.Context, limiter *rate.Limiter) error {
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	if delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		reservation.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) submit(ctx context.Context, content []byte, modelID string) (string, error) {
	url := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s", c.endpoint, modelID, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(subscriptionKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", newStatusError("analyze", resp)
	}
	location := resp.Header.Get("Operation-Location")
	if location == "" {
		return "", errors.New("analyze response is missing Operation-Location")
	}
	return location, nil
}

func (c *Client) poll(ctx context.Context, location string) (*operationResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}
	req.Header.Set(subscriptionKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, newStatusError("poll", resp)
	}
	var op operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &op, nil
}

type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func newStatusError(operation string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("document intelligence %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("document intelligence %s status: %s: %s", e.Operation, e.Status, e.Body)
}

// classifyProviderError never marks errors retryable; only 5xx, 429 and
// transport failures count against the breaker.
func classifyProviderError(err error) resilience.Outcome {
	if resilience.IsContextDone(err) {
		return resilience.Outcome{}
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return resilience.Outcome{
			RecordFailure: statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests,
		}
	}
	return resilience.Outcome{RecordFailure: true}
}
