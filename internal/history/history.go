// Package history keeps a sliding window of recent search requests and
// tracks how many of them came back empty.
package history

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// DefaultWindow is one request per minute over a day.
const DefaultWindow = 1440

// Searcher is the subset of the search server the request queue drives.
type Searcher interface {
	FindTopDocuments(rawQuery string) ([]ranker.Document, error)
	FindTopDocumentsByStatus(rawQuery string, status index.Status) ([]ranker.Document, error)
	FindTopDocumentsFunc(rawQuery string, predicate ranker.Predicate) ([]ranker.Document, error)
}

// Record is one retained request.
type Record struct {
	Query    string            `json:"query"`
	Results  []ranker.Document `json:"results"`
	NonEmpty bool              `json:"non_empty"`
	At       time.Time         `json:"at"`
}

// Config encapsulates the settings for a RequestQueue.
type Config struct {
	// Window is the number of most recent requests retained. Zero selects
	// DefaultWindow.
	Window int

	// Clock stamps each record. Defaults to clock.WallClock.
	Clock clock.Clock

	// Metrics, when set, mirrors the no-result count into a gauge.
	Metrics *metrics.Metrics
}

func (cfg *Config) applyDefaults() {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
}

// RequestQueue forwards queries to a Searcher and remembers the outcome of the
// last Window successful requests. Failed requests are returned to the caller
// and not recorded.
type RequestQueue struct {
	searcher Searcher
	cfg      Config
	logger   *slog.Logger

	mu       sync.Mutex
	records  []Record
	head     int
	noResult int
}

func NewRequestQueue(searcher Searcher, cfg Config) *RequestQueue {
	cfg.applyDefaults()
	return &RequestQueue{
		searcher: searcher,
		cfg:      cfg,
		records:  make([]Record, 0, min(cfg.Window, 64)),
		logger:   logger.WithComponent("request-history"),
	}
}

func (q *RequestQueue) AddFindRequest(rawQuery string) ([]ranker.Document, error) {
	return q.record(rawQuery, func() ([]ranker.Document, error) {
		return q.searcher.FindTopDocuments(rawQuery)
	})
}

func (q *RequestQueue) AddFindRequestByStatus(rawQuery string, status index.Status) ([]ranker.Document, error) {
	return q.record(rawQuery, func() ([]ranker.Document, error) {
		return q.searcher.FindTopDocumentsByStatus(rawQuery, status)
	})
}

func (q *RequestQueue) AddFindRequestFunc(rawQuery string, predicate ranker.Predicate) ([]ranker.Document, error) {
	return q.record(rawQuery, func() ([]ranker.Document, error) {
		return q.searcher.FindTopDocumentsFunc(rawQuery, predicate)
	})
}

// NoResultRequests returns how many retained requests produced no documents.
func (q *RequestQueue) NoResultRequests() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.noResult
}

// Len returns the number of retained requests.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}

// Records returns a copy of the retained requests, oldest first.
func (q *RequestQueue) Records() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Record, 0, len(q.records))
	out = append(out, q.records[q.head:]...)
	out = append(out, q.records[:q.head]...)
	for i := range out {
		out[i].Results = slices.Clone(out[i].Results)
	}
	return out
}

func (q *RequestQueue) record(rawQuery string, find func() ([]ranker.Document, error)) ([]ranker.Document, error) {
	docs, err := find()
	if err != nil {
		q.logger.Debug("request not recorded", "query", rawQuery, "error", err)
		return nil, err
	}

	rec := Record{
		Query:    rawQuery,
		Results:  slices.Clone(docs),
		NonEmpty: len(docs) > 0,
		At:       q.cfg.Clock.Now(),
	}

	q.mu.Lock()
	if len(q.records) < q.cfg.Window {
		q.records = append(q.records, rec)
	} else {
		// Ring buffer is full; overwrite the oldest entry.
		if !q.records[q.head].NonEmpty {
			q.noResult--
		}
		q.records[q.head] = rec
		q.head = (q.head + 1) % q.cfg.Window
	}
	if !rec.NonEmpty {
		q.noResult++
	}
	noResult := q.noResult
	q.mu.Unlock()

	if q.cfg.Metrics != nil {
		q.cfg.Metrics.RequestHistoryNoResult.Set(float64(noResult))
	}
	return docs, nil
}
