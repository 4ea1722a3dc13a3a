package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
)

const (
	MaxResultDocumentCount = 5
	RelevanceEpsilon       = 1e-6
)

// Document is one ranked search hit.
type Document struct {
	ID        int     `json:"document_id"`
	Relevance float64 `json:"relevance"`
	Rating    int     `json:"rating"`
}

// Predicate decides whether a document may contribute to the result.
type Predicate func(id int, status index.Status, rating int) bool

// ByStatus accepts documents with exactly the given status.
func ByStatus(status index.Status) Predicate {
	return func(_ int, documentStatus index.Status, _ int) bool {
		return documentStatus == status
	}
}

// Source is the read side of the document store needed for ranking.
type Source interface {
	DocCount() int
	Postings(term string) index.PostingList
	Document(id int) (index.DocumentData, bool)
}

// Rank scores documents by TF-IDF over the query's plus-terms, drops every
// document containing a minus-term, and returns at most
// MaxResultDocumentCount hits.
func Rank(src Source, q index.TermQuery, predicate Predicate) []Document {
	scores := FindAll(src, q, predicate)
	SortDocuments(scores)
	if len(scores) > MaxResultDocumentCount {
		scores = scores[:MaxResultDocumentCount]
	}
	return scores
}

// FindAll returns every matching document, unsorted beyond id order.
func FindAll(src Source, q index.TermQuery, predicate Predicate) []Document {
	totalDocs := src.DocCount()
	relevance := make(map[int]float64)
	ratings := make(map[int]int)
	for _, term := range q.PlusTerms() {
		postings := src.Postings(term)
		if len(postings) == 0 {
			continue
		}
		idf := computeIDF(totalDocs, len(postings))
		for id, tf := range postings {
			data, ok := src.Document(id)
			if !ok {
				continue
			}
			if predicate(id, data.Status, data.Rating) {
				relevance[id] += tf * idf
				ratings[id] = data.Rating
			}
		}
	}
	for _, term := range q.MinusTerms() {
		for id := range src.Postings(term) {
			delete(relevance, id)
		}
	}

	result := make([]Document, 0, len(relevance))
	for id, rel := range relevance {
		result = append(result, Document{
			ID:        id,
			Relevance: rel,
			Rating:    ratings[id],
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// SortDocuments orders by relevance descending. Relevances closer than
// RelevanceEpsilon tie and fall back to rating descending, then id order.
func SortDocuments(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if math.Abs(docs[i].Relevance-docs[j].Relevance) < RelevanceEpsilon {
			return docs[i].Rating > docs[j].Rating
		}
		return docs[i].Relevance > docs[j].Relevance
	})
}

func computeIDF(totalDocs int, docFreq int) float64 {
	return math.Log(float64(totalDocs) / float64(docFreq))
}
