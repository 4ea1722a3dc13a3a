package parser

import (
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Query holds the deduplicated plus- and minus-terms of a raw query with stop
// words removed.
type Query struct {
	plus     map[string]struct{}
	minus    map[string]struct{}
	RawQuery string
}

// Parse classifies each token of raw. A bare "-" or a token starting with
// "--" is malformed; a single leading "-" marks a minus-term.
func Parse(raw string, stopWords tokenizer.StopWords) (*Query, error) {
	q := &Query{
		plus:     make(map[string]struct{}),
		minus:    make(map[string]struct{}),
		RawQuery: raw,
	}
	for _, word := range tokenizer.Split(raw) {
		if word == "-" || strings.HasPrefix(word, "--") {
			return nil, apperrors.Newf(apperrors.ErrMalformedQuery, "bad minus-term %q", word)
		}
		isMinus := false
		if word[0] == '-' {
			isMinus = true
			word = word[1:]
		}
		if !tokenizer.IsValid(word) {
			return nil, apperrors.Newf(apperrors.ErrInvalidTerm, "query word %q contains a control character", word)
		}
		if stopWords.Contains(word) {
			continue
		}
		if isMinus {
			q.minus[word] = struct{}{}
		} else {
			q.plus[word] = struct{}{}
		}
	}
	return q, nil
}

// PlusTerms returns the plus-terms in sorted order.
func (q *Query) PlusTerms() []string {
	return sortedKeys(q.plus)
}

// MinusTerms returns the minus-terms in sorted order.
func (q *Query) MinusTerms() []string {
	return sortedKeys(q.minus)
}

func (q *Query) IsEmpty() bool {
	return len(q.plus) == 0
}

// String renders the canonical form of the query: sorted plus-terms followed
// by sorted minus-terms with their leading dash.
func (q *Query) String() string {
	parts := q.PlusTerms()
	for _, m := range q.MinusTerms() {
		parts = append(parts, "-"+m)
	}
	return strings.Join(parts, " ")
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
