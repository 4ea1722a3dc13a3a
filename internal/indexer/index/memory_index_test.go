package index

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

type termQuery struct {
	plus, minus []string
}

func (q termQuery) PlusTerms() []string  { return q.plus }
func (q termQuery) MinusTerms() []string { return q.minus }

func newTestIndex(t *testing.T, stop ...string) *MemoryIndex {
	t.Helper()
	return NewMemoryIndex(tokenizer.NewStopWords(stop))
}

func TestAddDocumentComputesNormalizedFrequencies(t *testing.T) {
	idx := newTestIndex(t, "in", "the")
	if err := idx.AddDocument(42, "cat in the city cat", StatusActual, []int{5, -12, 2, 1}); err != nil {
		t.Fatalf("add document: %v", err)
	}

	freqs, err := idx.Frequencies(42)
	if err != nil {
		t.Fatalf("frequencies: %v", err)
	}
	want := map[string]float64{"cat": 2.0 / 3.0, "city": 1.0 / 3.0}
	if len(freqs) != len(want) {
		t.Fatalf("expected %d terms got %v", len(want), freqs)
	}
	for term, w := range want {
		if math.Abs(freqs[term]-w) > 1e-9 {
			t.Fatalf("freq[%q] = %v, want %v", term, freqs[term], w)
		}
	}

	data, ok := idx.Document(42)
	if !ok {
		t.Fatalf("document 42 not found")
	}
	if data.Rating != -1 {
		t.Fatalf("expected rating -1 got %d", data.Rating)
	}
	if data.Status != StatusActual {
		t.Fatalf("expected ACTUAL got %v", data.Status)
	}
}

func TestFrequenciesSumToOne(t *testing.T) {
	idx := newTestIndex(t, "и", "в", "на")
	docs := []string{
		"белый кот и модный ошейник",
		"пушистый кот пушистый хвост",
		"ухоженный пёс выразительные глаза",
		"ухоженный скворец евгений евгений евгений в",
	}
	for i, text := range docs {
		if err := idx.AddDocument(i, text, StatusActual, nil); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	for i := range docs {
		freqs, err := idx.Frequencies(i)
		if err != nil {
			t.Fatalf("frequencies %d: %v", i, err)
		}
		sum := 0.0
		for _, f := range freqs {
			sum += f
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("doc %d frequencies sum to %v", i, sum)
		}
	}
}

func TestAddDocumentErrors(t *testing.T) {
	idx := newTestIndex(t, "in", "the")
	if err := idx.AddDocument(1, "cat in the city", StatusActual, []int{1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	tests := []struct {
		name string
		id   int
		text string
		want error
	}{
		{"negative id", -1, "dog", apperrors.ErrNegativeID},
		{"duplicate id", 1, "dog", apperrors.ErrDuplicateID},
		{"control character", 2, "good b\x12ad", apperrors.ErrInvalidTerm},
		{"only stop words", 3, "in the", apperrors.ErrEmptyDocument},
		{"empty text", 4, "   ", apperrors.ErrEmptyDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := idx.AddDocument(tt.id, tt.text, StatusActual, []int{1})
			if !apperrors.Is(err, tt.want) {
				t.Fatalf("expected %v got %v", tt.want, err)
			}
		})
	}

	if got := idx.DocCount(); got != 1 {
		t.Fatalf("failed additions mutated the store, count=%d", got)
	}
	if got := idx.TermCount(); got != 2 {
		t.Fatalf("failed additions mutated the index, terms=%d", got)
	}
	if idx.Postings("good") != nil || idx.Postings("dog") != nil {
		t.Fatalf("terms from rejected documents were indexed")
	}
}

func TestDuplicateLeavesIndexUnchanged(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.AddDocument(7, "alpha beta", StatusActual, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := idx.Postings("alpha")
	err := idx.AddDocument(7, "alpha gamma", StatusBanned, []int{9})
	if !apperrors.Is(err, apperrors.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error got %v", err)
	}
	if !reflect.DeepEqual(before, idx.Postings("alpha")) {
		t.Fatalf("postings changed after duplicate add")
	}
	if idx.Postings("gamma") != nil {
		t.Fatalf("gamma indexed by rejected document")
	}
	data, _ := idx.Document(7)
	if data.Status != StatusActual || data.Rating != 0 {
		t.Fatalf("metadata overwritten: %+v", data)
	}
}

func TestIDAt(t *testing.T) {
	idx := newTestIndex(t)
	for _, id := range []int{5, 1, 3} {
		if err := idx.AddDocument(id, fmt.Sprintf("doc %d", id), StatusActual, nil); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}
	for i, want := range []int{5, 1, 3} {
		got, err := idx.IDAt(i)
		if err != nil || got != want {
			t.Fatalf("IDAt(%d) = %d, %v; want %d", i, got, err, want)
		}
	}
	for _, i := range []int{-1, 3} {
		if _, err := idx.IDAt(i); !apperrors.Is(err, apperrors.ErrIndexOutOfRange) {
			t.Fatalf("IDAt(%d) expected out of range, got %v", i, err)
		}
	}
}

func TestMatch(t *testing.T) {
	idx := newTestIndex(t, "и")
	if err := idx.AddDocument(0, "пушистый кот и пушистый хвост", StatusBanned, []int{7}); err != nil {
		t.Fatalf("add: %v", err)
	}

	words, status, err := idx.Match(termQuery{plus: []string{"хвост", "кот", "пёс"}}, 0)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !reflect.DeepEqual(words, []string{"кот", "хвост"}) {
		t.Fatalf("unexpected matched words %q", words)
	}
	if status != StatusBanned {
		t.Fatalf("expected BANNED got %v", status)
	}

	words, status, err = idx.Match(termQuery{plus: []string{"кот"}, minus: []string{"хвост"}}, 0)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(words) != 0 || status != StatusBanned {
		t.Fatalf("minus-term should void the match, got %q %v", words, status)
	}

	if _, _, err := idx.Match(termQuery{plus: []string{"кот"}}, 99); !apperrors.Is(err, apperrors.ErrUnknownDocument) {
		t.Fatalf("expected unknown document got %v", err)
	}
}

func TestPostingsReturnsCopy(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.AddDocument(1, "alpha", StatusActual, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	p := idx.Postings("alpha")
	p[1] = 100
	p[2] = 1
	if got := idx.Postings("alpha"); got[1] != 1 || len(got) != 1 {
		t.Fatalf("internal postings aliased: %v", got)
	}
	if idx.DocumentFrequency("alpha") != 1 {
		t.Fatalf("document frequency changed through copy")
	}
}

func TestComputeAverageRating(t *testing.T) {
	tests := []struct {
		ratings []int
		want    int
	}{
		{nil, 0},
		{[]int{5, -12, 2, 1}, -1},
		{[]int{7, 2, 7}, 5},
		{[]int{-7}, -7},
		{[]int{-3, 0}, -1},
	}
	for _, tt := range tests {
		if got := ComputeAverageRating(tt.ratings); got != tt.want {
			t.Fatalf("ComputeAverageRating(%v) = %d, want %d", tt.ratings, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	for _, s := range []Status{StatusActual, StatusIrrelevant, StatusBanned, StatusRemoved} {
		parsed, err := ParseStatus(s.String())
		if err != nil || parsed != s {
			t.Fatalf("ParseStatus(%q) = %v, %v", s.String(), parsed, err)
		}
	}
	if s, err := ParseStatus("banned"); err != nil || s != StatusBanned {
		t.Fatalf("ParseStatus is case sensitive: %v %v", s, err)
	}
	if _, err := ParseStatus("ARCHIVED"); !apperrors.Is(err, apperrors.ErrUnknownStatus) {
		t.Fatalf("expected unknown status got %v", err)
	}
}

func BenchmarkMemoryIndexAdd(b *testing.B) {
	idx := NewMemoryIndex(tokenizer.NewStopWords([]string{"the", "of", "with"}))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := idx.AddDocument(i, "this is a benchmark document with several terms for testing the indexing performance of our memory index", StatusActual, []int{1, 2, 3}); err != nil {
			b.Fatal(err)
		}
	}
}
