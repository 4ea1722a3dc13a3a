package index

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Status is the lifecycle state a document is tagged with at ingestion.
type Status int

const (
	StatusActual Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

var statusNames = [...]string{"ACTUAL", "IRRELEVANT", "BANNED", "REMOVED"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus accepts a status name in any case.
func ParseStatus(name string) (Status, error) {
	upper := strings.ToUpper(name)
	for i, n := range statusNames {
		if n == upper {
			return Status(i), nil
		}
	}
	return 0, apperrors.Newf(apperrors.ErrUnknownStatus, "%q", name)
}

// DocumentData is the per-document metadata kept alongside the index.
type DocumentData struct {
	Rating int
	Status Status
}

// PostingList maps a document id to the normalized frequency of one term in
// that document.
type PostingList map[int]float64

// TermQuery is the parsed form of a query as seen by the store.
type TermQuery interface {
	PlusTerms() []string
	MinusTerms() []string
}

// ComputeAverageRating truncates toward zero; an empty list rates 0.
func ComputeAverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
