package index

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
)

// MemoryIndex owns the inverted index and document metadata. Both only grow.
// Accessors hand out copies so callers never alias the internal maps.
type MemoryIndex struct {
	mu        sync.RWMutex
	index     map[string]PostingList
	documents map[int]DocumentData
	ids       []int
	stopWords tokenizer.StopWords
	logger    *slog.Logger
}

func NewMemoryIndex(stopWords tokenizer.StopWords) *MemoryIndex {
	if stopWords == nil {
		stopWords = tokenizer.StopWords{}
	}
	return &MemoryIndex{
		index:     make(map[string]PostingList),
		documents: make(map[int]DocumentData),
		stopWords: stopWords,
		logger:    logger.WithComponent("document-store"),
	}
}

// AddDocument validates and indexes a document. Nothing is mutated unless
// every check passes.
func (m *MemoryIndex) AddDocument(id int, text string, status Status, ratings []int) error {
	if id < 0 {
		return apperrors.Newf(apperrors.ErrNegativeID, "id %d", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[id]; exists {
		return apperrors.Newf(apperrors.ErrDuplicateID, "id %d", id)
	}
	terms, err := m.splitNoStop(text)
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		return apperrors.Newf(apperrors.ErrEmptyDocument, "id %d", id)
	}
	inv := 1.0 / float64(len(terms))
	for _, term := range terms {
		postings, ok := m.index[term]
		if !ok {
			postings = make(PostingList)
			m.index[term] = postings
		}
		postings[id] += inv
	}
	m.documents[id] = DocumentData{
		Rating: ComputeAverageRating(ratings),
		Status: status,
	}
	m.ids = append(m.ids, id)

	m.logger.Debug("document indexed",
		"doc_id", id,
		"status", status,
		"term_count", len(terms),
		"index_terms", len(m.index),
	)
	return nil
}

func (m *MemoryIndex) splitNoStop(text string) ([]string, error) {
	words := tokenizer.Split(text)
	for _, w := range words {
		if !tokenizer.IsValid(w) {
			return nil, apperrors.Newf(apperrors.ErrInvalidTerm, "document word %q contains a control character", w)
		}
	}
	return m.stopWords.Filter(words), nil
}

func (m *MemoryIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}

// TermCount returns the number of distinct indexed terms.
func (m *MemoryIndex) TermCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}

// IDAt returns the id of the document added at position i.
func (m *MemoryIndex) IDAt(i int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.ids) {
		return 0, apperrors.Newf(apperrors.ErrIndexOutOfRange, "index %d, document count %d", i, len(m.ids))
	}
	return m.ids[i], nil
}

// Document returns the metadata for id.
func (m *MemoryIndex) Document(id int) (DocumentData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.documents[id]
	return data, ok
}

// Postings returns a copy of the posting list for term, or nil when the term
// is not indexed.
func (m *MemoryIndex) Postings(term string) PostingList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	postings, ok := m.index[term]
	if !ok {
		return nil
	}
	result := make(PostingList, len(postings))
	for id, freq := range postings {
		result[id] = freq
	}
	return result
}

// DocumentFrequency is the number of documents containing term.
func (m *MemoryIndex) DocumentFrequency(term string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index[term])
}

// Frequencies returns term -> normalized frequency for one document. The scan
// is linear in the vocabulary.
func (m *MemoryIndex) Frequencies(id int) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.documents[id]; !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownDocument, "id %d", id)
	}
	result := make(map[string]float64)
	for term, postings := range m.index {
		if freq, ok := postings[id]; ok {
			result[term] = freq
		}
	}
	return result, nil
}

// Match returns the sorted plus-terms present in document id. A minus-term
// present in the document voids the match; the status is returned either way.
func (m *MemoryIndex) Match(q TermQuery, id int) ([]string, Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.documents[id]
	if !ok {
		return nil, 0, apperrors.Newf(apperrors.ErrUnknownDocument, "id %d", id)
	}
	for _, term := range q.MinusTerms() {
		if _, hit := m.index[term][id]; hit {
			return []string{}, data.Status, nil
		}
	}
	matched := make([]string, 0)
	for _, term := range q.PlusTerms() {
		if _, hit := m.index[term][id]; hit {
			matched = append(matched, term)
		}
	}
	sort.Strings(matched)
	return matched, data.Status, nil
}
