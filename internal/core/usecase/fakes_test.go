package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kirillkom/document-analysis/internal/core/domain"
)

type repoFake struct {
	docs      map[string]*domain.Document
	createErr error
	saveErr   error
	created   *domain.Document
	savedID   string
	savedType domain.DocumentType
	saveCalls int
}

func newRepoFake(docs ...*domain.Document) *repoFake {
	f := &repoFake{docs: map[string]*domain.Document{}}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	return f
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (f *repoFake) SaveClassification(_ context.Context, id string, docType domain.DocumentType) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedType = docType
	return nil
}

type storageFake struct {
	objects map[string][]byte
	saveErr error
}

func newStorageFake() *storageFake {
	return &storageFake{objects: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	f.objects[key] = raw
	return int64(len(raw)), nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object missing")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	documentID string
	err        error
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type providerFake struct {
	result *domain.AnalysisResult
	err    error
	calls  int
	models []domain.AnalysisModel
}

func (f *providerFake) Analyze(ctx context.Context, _ []byte, model domain.AnalysisModel) (*domain.AnalysisResult, error) {
	f.calls++
	f.models = append(f.models, model)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type recorderFake struct {
	entries []domain.LogEntry
	err     error
}

func (f *recorderFake) Record(_ context.Context, logType domain.LogType, description string) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, domain.LogEntry{Type: logType, Description: description})
	return nil
}
