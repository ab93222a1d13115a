package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kirillkom/document-analysis/internal/core/analysis"
	"github.com/kirillkom/document-analysis/internal/core/domain"
	"github.com/kirillkom/document-analysis/internal/core/ports"
)

// DocumentUseCase runs provider analysis over stored documents.
type DocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	provider   ports.AnalysisProvider
	classifier *analysis.Classifier
	invoices   *analysis.InvoiceExtractor
	texts      *analysis.TextAnalyzer
	activity   ports.ActivityRecorder
}

func NewDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	provider ports.AnalysisProvider,
	classifier *analysis.Classifier,
	invoices *analysis.InvoiceExtractor,
	texts *analysis.TextAnalyzer,
	activity ports.ActivityRecorder,
) *DocumentUseCase {
	return &DocumentUseCase{
		repo:       repo,
		storage:    storage,
		provider:   provider,
		classifier: classifier,
		invoices:   invoices,
		texts:      texts,
		activity:   activity,
	}
}

func (uc *DocumentUseCase) GetByID(ctx context.Context, documentID string) (*domain.Document, error) {
	if documentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get document", errors.New("document id is required"))
	}
	return uc.repo.GetByID(ctx, documentID)
}

func (uc *DocumentUseCase) Classify(ctx context.Context, documentID string) (domain.DocumentType, error) {
	result, err := uc.analyze(ctx, documentID, domain.ModelGenericDocument)
	if err != nil {
		return "", err
	}

	docType := uc.classifier.Classify(result.Paragraphs)
	if err := uc.repo.SaveClassification(ctx, documentID, docType); err != nil {
		return "", fmt.Errorf("save classification: %w", err)
	}

	recordActivity(ctx, uc.activity, domain.LogTypeAIProcessing, fmt.Sprintf("Document %s classified as %s", documentID, docType))
	return docType, nil
}

func (uc *DocumentUseCase) ExtractInvoice(ctx context.Context, documentID string) (*domain.InvoiceInfo, error) {
	result, err := uc.analyze(ctx, documentID, domain.ModelInvoice)
	if err != nil {
		return nil, err
	}

	info := uc.invoices.Extract(result)
	recordActivity(ctx, uc.activity, domain.LogTypeAIProcessing, fmt.Sprintf("Invoice data extracted from document %s", documentID))
	return &info, nil
}

func (uc *DocumentUseCase) ExtractInformation(ctx context.Context, documentID string) (*domain.InformationDocument, error) {
	result, err := uc.analyze(ctx, documentID, domain.ModelGenericDocument)
	if err != nil {
		return nil, err
	}

	info := uc.texts.Analyze(result.Paragraphs)
	recordActivity(ctx, uc.activity, domain.LogTypeAIProcessing, fmt.Sprintf("Information extracted from document %s", documentID))
	return &info, nil
}

func (uc *DocumentUseCase) analyze(ctx context.Context, documentID string, model domain.AnalysisModel) (*domain.AnalysisResult, error) {
	content, err := uc.loadContent(ctx, documentID)
	if err != nil {
		return nil, err
	}

	result, err := uc.provider.Analyze(ctx, content, model)
	if err != nil {
		return nil, fmt.Errorf("analyze document %s: %w", documentID, err)
	}
	if result == nil {
		return nil, domain.WrapError(domain.ErrProvider, "analyze document", errors.New("empty analysis result"))
	}
	return result, nil
}

func (uc *DocumentUseCase) loadContent(ctx context.Context, documentID string) ([]byte, error) {
	if documentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load document", errors.New("document id is required"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open document content: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read document content: %w", err)
	}
	if len(content) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load document", errors.New("the document content cannot be empty"))
	}
	return content, nil
}
