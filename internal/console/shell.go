package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/history"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/paginate"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
)

// Shell executes one command per input line against a server:
//
//	find <query>
//	status <STATUS> <query>
//	match <id> <query>
//	page <size> <query>
//	words <id>
//	stats
//
// find, status and page go through the request history. A failing command
// prints an error line and the loop continues.
type Shell struct {
	server   *searcher.Server
	queue    *history.RequestQueue
	out      io.Writer
	pageSize int
	logger   *slog.Logger
}

func NewShell(server *searcher.Server, queue *history.RequestQueue, out io.Writer, pageSize int) *Shell {
	return &Shell{
		server:   server,
		queue:    queue,
		out:      out,
		pageSize: pageSize,
		logger:   logger.WithComponent("console"),
	}
}

// Run processes commands until r is exhausted or ctx is cancelled. A
// cancellation is noticed even while waiting for the next line.
func (s *Shell) Run(ctx context.Context, r *Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	defer close(done)
	lines := r.lines(done)
	for {
		var res lineResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res = <-lines:
		}
		if errors.Is(res.err, io.EOF) {
			return nil
		}
		if res.err != nil {
			return fmt.Errorf("reading command: %w", res.err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.TrimSpace(res.line) == "" {
			continue
		}
		if err := s.Execute(res.line); err != nil {
			s.logger.Debug("command failed", "command", res.line, "error", err)
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Execute runs a single command line.
func (s *Shell) Execute(line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
	switch cmd {
	case "find":
		docs, err := s.queue.AddFindRequest(rest)
		if err != nil {
			return err
		}
		s.printDocuments(docs)
	case "status":
		name, query, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
		status, err := index.ParseStatus(name)
		if err != nil {
			return err
		}
		docs, err := s.queue.AddFindRequestByStatus(query, status)
		if err != nil {
			return err
		}
		s.printDocuments(docs)
	case "match":
		id, query, err := splitNumber(rest)
		if err != nil {
			return err
		}
		words, status, err := s.server.MatchDocument(query, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "{ document_id = %d, status = %s, words = %s }\n",
			id, status, strings.Join(words, " "))
	case "page":
		size, query, err := splitNumber(rest)
		if err != nil {
			return err
		}
		return s.printPages(query, size)
	case "words":
		id, _, err := splitNumber(rest)
		if err != nil {
			return err
		}
		return s.printFrequencies(id)
	case "stats":
		fmt.Fprintf(s.out, "documents = %d, requests = %d, no_result_requests = %d\n",
			s.server.DocumentCount(), s.queue.Len(), s.queue.NoResultRequests())
	default:
		return apperrors.Newf(apperrors.ErrMalformedCommand, "unknown command %q", cmd)
	}
	return nil
}

func (s *Shell) printPages(query string, size int) error {
	if size == 0 {
		size = s.pageSize
	}
	if size < 1 {
		return apperrors.Newf(apperrors.ErrInvalidPageSize, "page size %d", size)
	}
	docs, err := s.queue.AddFindRequest(query)
	if err != nil {
		return err
	}
	pages, err := paginate.Paginate(docs, size)
	if err != nil {
		return err
	}
	s.logger.Debug("paginating results", "results", len(docs), "pages", paginate.Pages(len(docs), size))
	for page := range pages {
		s.printDocuments(page)
		fmt.Fprintln(s.out, "Page break")
	}
	return nil
}

func (s *Shell) printFrequencies(id int) error {
	freqs, err := s.server.WordFrequencies(id)
	if err != nil {
		return err
	}
	terms := make([]string, 0, len(freqs))
	for term := range freqs {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		fmt.Fprintf(s.out, "%s = %s\n", term, formatFloat(freqs[term]))
	}
	return nil
}

func (s *Shell) printDocuments(docs []ranker.Document) {
	for _, d := range docs {
		fmt.Fprintln(s.out, FormatDocument(d))
	}
}

// FormatDocument renders a search result the way the console prints it.
func FormatDocument(d ranker.Document) string {
	return fmt.Sprintf("{ document_id = %d, relevance = %s, rating = %d }",
		d.ID, formatFloat(d.Relevance), d.Rating)
}

// formatFloat prints six significant digits without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// splitNumber parses the leading integer argument of a command.
func splitNumber(args string) (int, string, error) {
	field, rest, _ := strings.Cut(strings.TrimLeft(args, " "), " ")
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, "", apperrors.Newf(apperrors.ErrMalformedCommand, "expected a number, got %q", field)
	}
	return n, rest, nil
}
