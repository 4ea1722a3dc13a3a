// Package searcher is the entry point of the search engine. A Server owns the
// document store and the stop-word set, and answers ranked queries by
// combining the query parser with the TF-IDF ranker.
package searcher

import (
	"log/slog"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// Server is safe for concurrent queries; document additions are serialized by
// the underlying store.
type Server struct {
	store     *index.MemoryIndex
	stopWords tokenizer.StopWords
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures optional Server collaborators.
type Option func(*Server)

// WithMetrics records ingestion and query metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer validates every stop word and reports all invalid ones together.
// Empty strings are ignored.
func NewServer(stopWords []string, opts ...Option) (*Server, error) {
	var result *multierror.Error
	for _, w := range stopWords {
		if !tokenizer.IsValid(w) {
			result = multierror.Append(result, apperrors.Newf(apperrors.ErrInvalidTerm,
				"stop word %q contains a control character", w))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	set := tokenizer.NewStopWords(stopWords)
	s := &Server{
		store:     index.NewMemoryIndex(set),
		stopWords: set,
		logger:    logger.WithComponent("search-server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("search server created", "stop_words", len(set))
	return s, nil
}

// NewServerFromText builds a Server from a space-delimited stop-word list.
func NewServerFromText(stopWordsText string, opts ...Option) (*Server, error) {
	return NewServer(tokenizer.Split(stopWordsText), opts...)
}

func (s *Server) AddDocument(id int, text string, status index.Status, ratings []int) error {
	if err := s.store.AddDocument(id, text, status, ratings); err != nil {
		s.logger.Debug("document rejected", "doc_id", id, "error", err)
		if s.metrics != nil {
			s.metrics.DocsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		}
		return err
	}
	if s.metrics != nil {
		s.metrics.DocsIndexedTotal.Inc()
		s.metrics.IndexedTerms.Set(float64(s.store.TermCount()))
	}
	return nil
}

// FindTopDocuments returns the best ACTUAL documents for rawQuery.
func (s *Server) FindTopDocuments(rawQuery string) ([]ranker.Document, error) {
	return s.FindTopDocumentsByStatus(rawQuery, index.StatusActual)
}

// FindTopDocumentsByStatus returns the best documents with the given status.
func (s *Server) FindTopDocumentsByStatus(rawQuery string, status index.Status) ([]ranker.Document, error) {
	return s.FindTopDocumentsFunc(rawQuery, ranker.ByStatus(status))
}

// FindTopDocumentsFunc returns the best documents accepted by predicate.
func (s *Server) FindTopDocumentsFunc(rawQuery string, predicate ranker.Predicate) ([]ranker.Document, error) {
	start := time.Now()
	q, err := parser.Parse(rawQuery, s.stopWords)
	if err != nil {
		s.observeQuery(start, nil, err)
		return nil, err
	}
	docs := []ranker.Document{}
	if !q.IsEmpty() {
		docs = ranker.Rank(s.store, q, predicate)
	}
	s.logger.Debug("query evaluated",
		"raw_query", q.RawQuery,
		"query", q.String(),
		"results", len(docs),
	)
	s.observeQuery(start, docs, nil)
	return docs, nil
}

// MatchDocument reports which plus-terms of rawQuery occur in document id.
func (s *Server) MatchDocument(rawQuery string, id int) ([]string, index.Status, error) {
	q, err := parser.Parse(rawQuery, s.stopWords)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Match(q, id)
}

func (s *Server) DocumentCount() int {
	return s.store.DocCount()
}

// DocumentID returns the id of the i-th added document.
func (s *Server) DocumentID(i int) (int, error) {
	return s.store.IDAt(i)
}

// WordFrequencies returns the normalized term frequencies of document id.
func (s *Server) WordFrequencies(id int) (map[string]float64, error) {
	return s.store.Frequencies(id)
}

// StopWords returns the configured stop words in sorted order.
func (s *Server) StopWords() []string {
	words := make([]string, 0, len(s.stopWords))
	for w := range s.stopWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func (s *Server) observeQuery(start time.Time, docs []ranker.Document, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		s.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultError).Inc()
	case len(docs) == 0:
		s.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultZeroResult).Inc()
		s.metrics.SearchResultsCount.Observe(0)
	default:
		s.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultHit).Inc()
		s.metrics.SearchResultsCount.Observe(float64(len(docs)))
	}
}

func rejectReason(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNegativeID):
		return "negative_id"
	case apperrors.Is(err, apperrors.ErrDuplicateID):
		return "duplicate_id"
	case apperrors.Is(err, apperrors.ErrInvalidTerm):
		return "invalid_term"
	case apperrors.Is(err, apperrors.ErrEmptyDocument):
		return "empty_document"
	default:
		return "other"
	}
}
