package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/document-analysis/internal/config"
	"github.com/kirillkom/document-analysis/internal/core/analysis"
	"github.com/kirillkom/document-analysis/internal/core/ports"
	"github.com/kirillkom/document-analysis/internal/core/usecase"
	"github.com/kirillkom/document-analysis/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/document-analysis/internal/infrastructure/provider/azure"
	"github.com/kirillkom/document-analysis/internal/infrastructure/queue/nats"
	"github.com/kirillkom/document-analysis/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/document-analysis/internal/infrastructure/resilience"
	"github.com/kirillkom/document-analysis/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	// Queue is nil when QUEUE_ENABLED is false.
	Queue ports.MessageQueue

	UploadUC   *usecase.UploadDocumentUseCase
	DocumentUC *usecase.DocumentUseCase
	ActivityUC *usecase.ActivityUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lexicon, err := config.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	logRepo := postgres.NewLogEntryRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	closers := []func(){func() { _ = db.Close() }}
	var queue ports.MessageQueue
	if cfg.QueueEnabled {
		natsQueue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			Executor: resilience.NewExecutor(resilience.DefaultPolicy(), logger.With("component", "nats")),
			Logger:   logger.With("component", "nats"),
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		queue = natsQueue
		closers = append(closers, natsQueue.Close)
	}

	providerPolicy := resilience.BreakerOnlyPolicy()
	providerPolicy.BreakerEnabled = cfg.ProviderBreakerEnabled
	provider := azure.New(cfg.AzureEndpoint, cfg.AzureAPIKey, azure.Options{
		APIVersion:   cfg.AzureAPIVersion,
		PollInterval: cfg.AzurePollInterval,
		Timeout:      cfg.AzureTimeout,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		Executor:     resilience.NewExecutor(providerPolicy, logger.With("component", "provider")),
		Logger:       logger.With("component", "provider"),
	})

	activityUC := usecase.NewActivityUseCase(logRepo, xlsx.NewExporter())
	uploadUC := usecase.NewUploadDocumentUseCase(docRepo, storage, queue, activityUC)
	documentUC := usecase.NewDocumentUseCase(
		docRepo,
		storage,
		provider,
		analysis.NewClassifier(lexicon),
		analysis.NewInvoiceExtractor(logger.With("component", "invoice_extractor")),
		analysis.NewTextAnalyzer(lexicon),
		activityUC,
	)

	return &App{
		Config: cfg,
		Logger: logger,
		Queue:  queue,

		UploadUC:   uploadUC,
		DocumentUC: documentUC,
		ActivityUC: activityUC,

		closeFn: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
