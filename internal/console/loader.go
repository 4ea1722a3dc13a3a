package console

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
)

// Load builds a server from a document batch:
//
//	<stop words>
//	<document count>
//	<text of document 0>
//	<n> r1 ... rn
//	...
//
// Documents receive ids 0..count-1 and status ACTUAL. extraStopWords are
// merged with the stop-word line.
func Load(r *Reader, extraStopWords []string, opts ...searcher.Option) (*searcher.Server, error) {
	log := logger.WithComponent("batch-loader")

	stopLine, err := r.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	stopWords := append(tokenizer.Split(stopLine), extraStopWords...)
	server, err := searcher.NewServer(stopWords, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}

	count, err := r.ReadLineWithNumber()
	if err != nil {
		return nil, fmt.Errorf("reading document count: %w", err)
	}
	for id := 0; id < count; id++ {
		text, err := r.ReadLine()
		if err != nil {
			return nil, fmt.Errorf("reading document %d: %w", id, err)
		}
		ratings, err := r.ReadRatings()
		if err != nil {
			return nil, fmt.Errorf("reading ratings of document %d: %w", id, err)
		}
		if err := server.AddDocument(id, text, index.StatusActual, ratings); err != nil {
			return nil, fmt.Errorf("adding document %d: %w", id, err)
		}
	}

	log.Info("documents loaded",
		"documents", server.DocumentCount(),
		"stop_words", len(server.StopWords()),
	)
	return server, nil
}
