// Package tokenizer splits raw text into terms. A term is any run of bytes
// between ASCII spaces; no case folding or stemming is applied.
package tokenizer

import "strings"

// Split breaks text on runs of spaces. Only ' ' separates terms, so tabs and
// other control characters stay inside a term and are caught by IsValid.
func Split(text string) []string {
	terms := make([]string, 0, strings.Count(text, " ")+1)
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			if start >= 0 {
				terms = append(terms, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		terms = append(terms, text[start:])
	}
	return terms
}

// IsValid reports whether term is free of control characters (bytes below
// the space character).
func IsValid(term string) bool {
	for i := 0; i < len(term); i++ {
		if term[i] < ' ' {
			return false
		}
	}
	return true
}

// Join is the inverse of Split for text without leading, trailing or repeated
// spaces.
func Join(terms []string) string {
	return strings.Join(terms, " ")
}

// StopWords is an immutable set of terms excluded from indexing and queries.
type StopWords map[string]struct{}

// NewStopWords builds a set from words, skipping empty strings. Validation is
// left to the caller so every offending word can be reported at once.
func NewStopWords(words []string) StopWords {
	set := make(StopWords, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

func (s StopWords) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Filter returns terms with stop words removed, preserving order.
func (s StopWords) Filter(terms []string) []string {
	kept := make([]string, 0, len(terms))
	for _, t := range terms {
		if s.Contains(t) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
