package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lexrag/internal/domain"
	"lexrag/internal/index"
	"lexrag/internal/logging"
	"lexrag/internal/metrics"
)

// DocumentLoader turns paths into documents.
type DocumentLoader interface {
	Expand(paths []string) ([]string, error)
	Load(path string) (domain.Document, error)
}

// IngestReport describes the outcome of one ingestion run.
type IngestReport struct {
	Documents []index.DocumentInfo
	Chunks    int
}

// Library indexes documents and answers scoped queries over them.
type Library struct {
	loader      DocumentLoader
	chunker     domain.Chunker
	retriever   domain.Retriever
	store       *index.Store
	metrics     *metrics.Metrics
	log         *slog.Logger
	concurrency int
}

// Option customizes a Library.
type Option func(*Library)

func WithMetrics(m *metrics.Metrics) Option { return func(l *Library) { l.metrics = m } }
func WithLogger(log *slog.Logger) Option { return func(l *Library) { l.log = log } }
func WithConcurrency(n int) Option {
	return func(l *Library) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

func NewLibrary(loader DocumentLoader, chunker domain.Chunker, retriever domain.Retriever, store *index.Store, opts ...Option) *Library {
	l := &Library{
		loader:      loader,
		chunker:     chunker,
		retriever:   retriever,
		store:       store,
		log:         logging.Discard(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Ingest loads and indexes every accepted file under paths. Files are chunked
// concurrently; the first failure cancels the rest and nothing from the run is
// stored.
func (s *Library) Ingest(ctx context.Context, paths []string) (IngestReport, error) {
	files, err := s.loader.Expand(paths)
	if err != nil {
		return IngestReport{}, err
	}

	docs := make([]domain.Document, len(files))
	results := make([][]domain.Chunk, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := s.loader.Load(f)
			if err != nil {
				return err
			}
			chunks, err := s.chunker.Chunk(doc)
			if err != nil {
				return fmt.Errorf("chunk %s: %w", doc.Name, err)
			}
			docs[i] = doc
			results[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return IngestReport{}, err
	}

	var report IngestReport
	for i, doc := range docs {
		s.put(doc, results[i])
		report.Documents = append(report.Documents, index.DocumentInfo{ID: doc.ID, Name: doc.Name, Chunks: len(results[i])})
		report.Chunks += len(results[i])
	}
	s.log.Info("ingested documents", "documents", len(docs), "chunks", report.Chunks)
	return report, nil
}

// IndexDocument chunks one document and stores the result, replacing any
// chunks previously held for the same document id.
func (s *Library) IndexDocument(doc domain.Document) ([]domain.Chunk, error) {
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.Name, err)
	}
	s.put(doc, chunks)
	return chunks, nil
}

func (s *Library) put(doc domain.Document, chunks []domain.Chunk) {
	s.store.Put(doc.ID, doc.Name, chunks)
	s.log.Debug("indexed document", "document_id", doc.ID, "name", doc.Name, "chunks", len(chunks))
	if s.metrics != nil {
		s.metrics.ObserveIndexed(len(chunks))
		s.metrics.SetIndexSize(s.store.Len())
	}
}

// Remove drops a document from the index.
func (s *Library) Remove(documentID string) error {
	if err := s.store.Remove(documentID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SetIndexSize(s.store.Len())
	}
	s.log.Info("removed document", "document_id", documentID)
	return nil
}

// Documents lists what is currently indexed.
func (s *Library) Documents() []index.DocumentInfo { return s.store.Documents() }

// Query ranks the chunks of the documents in scope (all documents when scope
// is empty) against query.
func (s *Library) Query(query string, scope []string) ([]domain.Chunk, error) {
	candidates := s.store.Candidates(scope...)
	start := time.Now()
	res, err := s.retriever.Search(query, candidates)
	took := time.Since(start)

	outcome := metrics.OutcomeHit
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case len(res) == 0:
		outcome = metrics.OutcomeMiss
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(outcome, took)
	}
	if err != nil {
		return nil, err
	}
	s.log.Debug("query", "candidates", len(candidates), "results", len(res), "took", took)
	return res, nil
}

// Sources returns the distinct document names of chunks, in rank order.
func Sources(chunks []domain.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var out []string
	for _, c := range chunks {
		if _, ok := seen[c.DocumentName]; ok {
			continue
		}
		seen[c.DocumentName] = struct{}{}
		out = append(out, c.DocumentName)
	}
	return out
}

// BuildContext renders retrieved chunks as numbered, cited passages for a
// downstream generation prompt.
func BuildContext(chunks []domain.Chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s (part %d)\n", i+1, c.DocumentName, c.Index+1)
		b.WriteString(strings.TrimSpace(c.Text))
	}
	return b.String()
}
