// Package paginate splits result slices into fixed-size pages.
package paginate

import (
	"iter"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Paginator yields consecutive pages of at most Size items. The last page may
// be shorter. Pages share the backing array of the input slice.
type Paginator[T any] struct {
	items []T
	size  int
}

func New[T any](items []T, size int) (*Paginator[T], error) {
	if size < 1 {
		return nil, apperrors.Newf(apperrors.ErrInvalidPageSize, "page size %d", size)
	}
	return &Paginator[T]{items: items, size: size}, nil
}

// All iterates over the pages in order.
func (p *Paginator[T]) All() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for start := 0; start < len(p.items); start += p.size {
			end := min(start+p.size, len(p.items))
			if !yield(p.items[start:end:end]) {
				return
			}
		}
	}
}

// Paginate is a shorthand for New followed by All.
func Paginate[T any](items []T, size int) (iter.Seq[[]T], error) {
	p, err := New(items, size)
	if err != nil {
		return nil, err
	}
	return p.All(), nil
}

// Pages returns how many pages of size hold n items.
func Pages(n, size int) int {
	if size < 1 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
