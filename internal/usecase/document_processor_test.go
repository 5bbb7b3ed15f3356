package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/pkg/logger"
	"travelscan-service/pkg/metrics"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (n noopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return n
}

type fakeDocumentRepo struct {
	docs     map[string]*entity.ScanDocument
	statuses map[string]string
	errors   map[string]string
	resets   int
}

func newFakeDocumentRepo(docs ...*entity.ScanDocument) *fakeDocumentRepo {
	r := &fakeDocumentRepo{
		docs:     make(map[string]*entity.ScanDocument),
		statuses: make(map[string]string),
		errors:   make(map[string]string),
	}
	for _, d := range docs {
		r.docs[d.DocumentID] = d
	}
	return r
}

func (r *fakeDocumentRepo) Save(ctx context.Context, doc *entity.ScanDocument) error {
	r.docs[doc.DocumentID] = doc
	return nil
}

func (r *fakeDocumentRepo) FindByDocumentID(ctx context.Context, documentID string) (*entity.ScanDocument, error) {
	return r.docs[documentID], nil
}

func (r *fakeDocumentRepo) FindByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]*entity.ScanDocument, error) {
	found := make(map[string]*entity.ScanDocument)
	for _, id := range documentIDs {
		if d, ok := r.docs[id]; ok {
			found[id] = d
		}
	}
	return found, nil
}

func (r *fakeDocumentRepo) FindByBatch(ctx context.Context, batchID string) ([]*entity.ScanDocument, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) FindCompletedByBatch(ctx context.Context, batchID string) ([]*entity.ScanDocument, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) FindUnprocessed(ctx context.Context, limit int) ([]*entity.ScanDocument, error) {
	var pending []*entity.ScanDocument
	for _, d := range r.docs {
		if d.ProcessStatus == entity.StatusPending {
			pending = append(pending, d)
		}
	}
	return pending, nil
}

func (r *fakeDocumentRepo) GetLastDocument(ctx context.Context) (*entity.ScanDocument, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) UpdateStatusByDocumentID(ctx context.Context, documentID string, status string, startedAt time.Time) error {
	r.statuses[documentID] = status
	return nil
}

func (r *fakeDocumentRepo) MarkAsProcessedByDocumentID(ctx context.Context, documentID, status, errorDetail string, extraction *entity.ExtractedRecord, fromCache bool) error {
	r.statuses[documentID] = status
	r.errors[documentID] = errorDetail
	if d, ok := r.docs[documentID]; ok {
		d.ProcessStatus = status
		d.Extraction = extraction
		d.FromCache = fromCache
	}
	return nil
}

func (r *fakeDocumentRepo) ResetProcessingDocuments(ctx context.Context) error {
	r.resets++
	return nil
}

type fakeVisionRepo struct {
	records map[string]*entity.ExtractedRecord
	err     error
	calls   int
}

func (v *fakeVisionRepo) ExtractRecord(ctx context.Context, image []byte, contentType, filename string) (*entity.ExtractedRecord, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	record, ok := v.records[filename]
	if !ok {
		return nil, errors.New("unreadable document")
	}
	return record, nil
}

type fakeCache struct {
	entries map[string]*entity.ExtractedRecord
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*entity.ExtractedRecord)}
}

func (c *fakeCache) Get(ctx context.Context, imageHash string) (*entity.ExtractedRecord, error) {
	if record, ok := c.entries[imageHash]; ok {
		return record, nil
	}
	return nil, errors.New("cache miss")
}

func (c *fakeCache) Set(ctx context.Context, imageHash string, record *entity.ExtractedRecord) error {
	c.sets++
	c.entries[imageHash] = record
	return nil
}

// promauto registers against the default registry, so the test metrics are
// created once for the whole package
var testMetrics = metrics.NewMetrics("travelscan_test")

func newTestProcessor(repo *fakeDocumentRepo, vision *fakeVisionRepo, cache *fakeCache) *DocumentProcessor {
	return NewDocumentProcessor(repo, vision, cache, nil, nil, testMetrics, noopLogger{})
}

func pendingDoc(id, filename string, image []byte) *entity.ScanDocument {
	return &entity.ScanDocument{
		DocumentID:    id,
		BatchID:       "b1",
		Filename:      filename,
		ContentType:   "image/jpeg",
		Source:        entity.SourceUpload,
		Image:         image,
		ReceivedAt:    time.Now(),
		ProcessStatus: entity.StatusPending,
	}
}

func TestProcessDocumentCompletes(t *testing.T) {
	doc := pendingDoc("d1", "passport.jpg", []byte("scan-bytes"))
	repo := newFakeDocumentRepo(doc)
	vision := &fakeVisionRepo{records: map[string]*entity.ExtractedRecord{
		"passport.jpg": {Name: "John Smith", PassportNumber: "P1", DocumentType: "passport"},
	}}
	cache := newFakeCache()
	p := newTestProcessor(repo, vision, cache)

	require.NoError(t, p.ProcessDocument(context.Background(), doc))
	require.Equal(t, entity.StatusCompleted, repo.statuses["d1"])
	require.NotNil(t, doc.Extraction)
	require.Equal(t, "John Smith", doc.Extraction.Name)
	require.False(t, doc.FromCache)
	require.Equal(t, 1, cache.sets)
}

func TestProcessDocumentServesFromCache(t *testing.T) {
	image := []byte("same-scan")
	first := pendingDoc("d1", "a.jpg", image)
	second := pendingDoc("d2", "b.jpg", image)
	repo := newFakeDocumentRepo(first, second)
	vision := &fakeVisionRepo{records: map[string]*entity.ExtractedRecord{
		"a.jpg": {Name: "John Smith", PassportNumber: "P1"},
	}}
	cache := newFakeCache()
	p := newTestProcessor(repo, vision, cache)

	require.NoError(t, p.ProcessDocument(context.Background(), first))
	require.NoError(t, p.ProcessDocument(context.Background(), second))

	require.Equal(t, 1, vision.calls)
	require.True(t, second.FromCache)
	require.Equal(t, "John Smith", second.Extraction.Name)
}

func TestProcessDocumentUppercasesFlightNumberWithoutLookup(t *testing.T) {
	doc := pendingDoc("d1", "ticket.jpg", []byte("scan"))
	repo := newFakeDocumentRepo(doc)
	vision := &fakeVisionRepo{records: map[string]*entity.ExtractedRecord{
		"ticket.jpg": {Name: "John Smith", FlightNumber: " aa100 "},
	}}
	p := newTestProcessor(repo, vision, newFakeCache())

	require.NoError(t, p.ProcessDocument(context.Background(), doc))
	require.Equal(t, "AA100", doc.Extraction.FlightNumber)
}

func TestProcessDocumentSkipsEmptyImage(t *testing.T) {
	doc := pendingDoc("d1", "empty.jpg", nil)
	repo := newFakeDocumentRepo(doc)
	p := newTestProcessor(repo, &fakeVisionRepo{}, newFakeCache())

	require.NoError(t, p.ProcessDocument(context.Background(), doc))
	require.Equal(t, entity.StatusSkipped, repo.statuses["d1"])
	require.Equal(t, "no image data", repo.errors["d1"])
}

func TestProcessDocumentRecordsFailure(t *testing.T) {
	doc := pendingDoc("d1", "bad.jpg", []byte("x"))
	repo := newFakeDocumentRepo(doc)
	vision := &fakeVisionRepo{err: errors.New("vision service unavailable")}
	p := newTestProcessor(repo, vision, newFakeCache())

	require.Error(t, p.ProcessDocument(context.Background(), doc))
	require.Equal(t, entity.StatusFailed, repo.statuses["d1"])
	require.Equal(t, "vision service unavailable", repo.errors["d1"])
}

func TestProcessPendingDocumentsContinuesPastFailures(t *testing.T) {
	good := pendingDoc("d1", "good.jpg", []byte("good"))
	bad := pendingDoc("d2", "bad.jpg", []byte("bad"))
	repo := newFakeDocumentRepo(good, bad)
	vision := &fakeVisionRepo{records: map[string]*entity.ExtractedRecord{
		"good.jpg": {Name: "John Smith"},
	}}
	p := newTestProcessor(repo, vision, newFakeCache())

	require.NoError(t, p.ProcessPendingDocuments(context.Background()))
	require.Equal(t, 1, repo.resets)
	require.Equal(t, entity.StatusCompleted, repo.statuses["d1"])
	require.Equal(t, entity.StatusFailed, repo.statuses["d2"])
}
