package console

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/history"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

const batch = `in the
3
cat in the city
4 5 -12 2 1
fluffy dog
1 7
cat and dog
0
`

func TestReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("first\r\nsecond\n\nlast"))
	var got []string
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, line)
	}
	want := []string{"first", "second", "", "last"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestReadLineWithNumber(t *testing.T) {
	r := NewReader(strings.NewReader("  12 ignored words\nnext\nabc\n"))
	n, err := r.ReadLineWithNumber()
	if err != nil || n != 12 {
		t.Fatalf("ReadLineWithNumber = %d, %v", n, err)
	}
	if line, _ := r.ReadLine(); line != "next" {
		t.Fatalf("rest of the number line was not consumed, got %q", line)
	}
	if _, err := r.ReadLineWithNumber(); !apperrors.Is(err, apperrors.ErrMalformedCommand) {
		t.Fatalf("expected malformed command, got %v", err)
	}
}

func TestReadRatings(t *testing.T) {
	tests := []struct {
		line    string
		want    []int
		wantErr bool
	}{
		{"3 7 2 7", []int{7, 2, 7}, false},
		{"0", []int{}, false},
		{"2 1 2 99", []int{1, 2}, false},
		{"3 1 2", nil, true},
		{"x 1", nil, true},
		{"1 y", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := NewReader(strings.NewReader(tt.line + "\n")).ReadRatings()
		if tt.wantErr {
			if !apperrors.Is(err, apperrors.ErrMalformedCommand) {
				t.Fatalf("%q: expected malformed command, got %v", tt.line, err)
			}
			continue
		}
		if err != nil || !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%q: got %v, %v", tt.line, got, err)
		}
	}
}

func TestLoad(t *testing.T) {
	server, err := Load(NewReader(strings.NewReader(batch)), []string{"and"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if server.DocumentCount() != 3 {
		t.Fatalf("expected 3 documents got %d", server.DocumentCount())
	}
	if !reflect.DeepEqual(server.StopWords(), []string{"and", "in", "the"}) {
		t.Fatalf("stop words = %q", server.StopWords())
	}
	docs, err := server.FindTopDocuments("city")
	if err != nil || len(docs) != 1 || docs[0].ID != 0 || docs[0].Rating != -1 {
		t.Fatalf("find city = %v, %v", docs, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad stop word", "in t\x01he\n0\n", apperrors.ErrInvalidTerm},
		{"bad count", "in\nmany\n", apperrors.ErrMalformedCommand},
		{"bad ratings", "in\n1\ncat\n2 1\n", apperrors.ErrMalformedCommand},
		{"stop words only", "in\n1\nin in\n0\n", apperrors.ErrEmptyDocument},
		{"truncated", "in\n2\ncat\n0\n", io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(NewReader(strings.NewReader(tt.input)), nil)
			if !apperrors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestShellSession(t *testing.T) {
	server, err := Load(NewReader(strings.NewReader(batch)), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var out bytes.Buffer
	shell := NewShell(server, history.NewRequestQueue(server, history.Config{}), &out, 2)

	commands := strings.Join([]string{
		"find cat",
		"page 1 cat dog",
		"match 0 cat -dog",
		"",
		"words 1",
		"status banned cat",
		"bogus",
		"find --cat",
		"stats",
	}, "\n")
	if err := shell.Run(context.Background(), NewReader(strings.NewReader(commands))); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"{ document_id = 0, relevance = 0.202733, rating = -1 }",
		"{ document_id = 2, relevance = 0.135155, rating = 0 }",
		"{ document_id = 2, relevance = 0.27031, rating = 0 }",
		"Page break",
		"{ document_id = 1, relevance = 0.202733, rating = 7 }",
		"Page break",
		"{ document_id = 0, relevance = 0.202733, rating = -1 }",
		"Page break",
		"{ document_id = 0, status = ACTUAL, words = cat }",
		"dog = 0.5",
		"fluffy = 0.5",
		`error: malformed command: unknown command "bogus"`,
		`error: malformed query: bad minus-term "--cat"`,
		"documents = 3, requests = 3, no_result_requests = 1",
	}
	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("session output:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestShellStopsOnCancel(t *testing.T) {
	server, err := Load(NewReader(strings.NewReader(batch)), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var out bytes.Buffer
	shell := NewShell(server, history.NewRequestQueue(server, history.Config{}), &out, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shell.Run(ctx, NewReader(strings.NewReader("find cat\n"))); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("no command should run after cancel, got %q", out.String())
	}
}

func TestShellCancelInterruptsBlockedRead(t *testing.T) {
	server, err := Load(NewReader(strings.NewReader(batch)), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	shell := NewShell(server, history.NewRequestQueue(server, history.Config{}), &out, 2)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- shell.Run(ctx, NewReader(pr))
	}()

	// The write returns once the reader has consumed the line.
	if _, err := io.WriteString(pw, "stats\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	cancel()

	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run kept waiting for input after cancel")
	}
}

func TestPageUsesDefaultSize(t *testing.T) {
	server, err := Load(NewReader(strings.NewReader(batch)), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var out bytes.Buffer
	shell := NewShell(server, history.NewRequestQueue(server, history.Config{}), &out, 2)
	if err := shell.Execute("page 0 cat dog"); err != nil {
		t.Fatalf("page: %v", err)
	}
	if n := strings.Count(out.String(), "Page break"); n != 2 {
		t.Fatalf("expected 2 pages, got %d:\n%s", n, out.String())
	}
	if err := shell.Execute("page -1 cat"); !apperrors.Is(err, apperrors.ErrInvalidPageSize) {
		t.Fatalf("expected invalid page size, got %v", err)
	}
}

func TestFormatDocument(t *testing.T) {
	got := FormatDocument(ranker.Document{ID: 1, Relevance: 0.866434, Rating: 5})
	if got != "{ document_id = 1, relevance = 0.866434, rating = 5 }" {
		t.Fatalf("FormatDocument = %q", got)
	}
}
