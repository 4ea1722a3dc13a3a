// Package console drives a search server from line-oriented text input: a
// batch of documents followed by interactive query commands.
package console

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Reader reads newline-terminated lines. A final line without a trailing
// newline is still returned; io.EOF is reported only once nothing is left.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line terminator.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type lineResult struct {
	line string
	err  error
}

// lines reads in a background goroutine so a consumer can stop waiting on a
// blocked read. Reading ends after the first error or once done is closed;
// a read already in flight at that point is abandoned.
func (r *Reader) lines(done <-chan struct{}) <-chan lineResult {
	ch := make(chan lineResult)
	go func() {
		defer close(ch)
		for {
			line, err := r.ReadLine()
			select {
			case ch <- lineResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// ReadLineWithNumber parses the first space-separated field of the next line
// as an integer and discards the rest of the line.
func (r *Reader) ReadLineWithNumber() (int, error) {
	line, err := r.ReadLine()
	if err != nil {
		return 0, err
	}
	field, _, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrMalformedCommand, "expected a number, got %q", line)
	}
	return n, nil
}

// ReadRatings parses a rating line of the form "<n> r1 ... rn".
func (r *Reader) ReadRatings() ([]int, error) {
	line, err := r.ReadLine()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, apperrors.New(apperrors.ErrMalformedCommand, "missing rating count")
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return nil, apperrors.Newf(apperrors.ErrMalformedCommand, "bad rating count %q", fields[0])
	}
	if len(fields)-1 < count {
		return nil, apperrors.Newf(apperrors.ErrMalformedCommand,
			"expected %d ratings, got %d", count, len(fields)-1)
	}
	ratings := make([]int, count)
	for i := range ratings {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedCommand, "bad rating %q", fields[i+1])
		}
		ratings[i] = v
	}
	return ratings, nil
}
