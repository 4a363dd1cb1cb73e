package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tfcraft/internal/docstore"
	"tfcraft/internal/embed"
)

// Sink receives the embedded rows. Satisfied by *docstore.MilvusStore.
type Sink interface {
	InsertRows(ctx context.Context, rows []docstore.DocRow) error
}

type Stats struct {
	Files  int
	Chunks int
}

// Ingestor populates the document index from a directory of cleaned pages.
type Ingestor struct {
	sink     Sink
	embedder embed.Embedder
	out      io.Writer
}

func NewIngestor(sink Sink, embedder embed.Embedder, out io.Writer) *Ingestor {
	if out == nil {
		out = os.Stdout
	}
	return &Ingestor{sink: sink, embedder: embedder, out: out}
}

// Run processes every resource doc page: mine required fields, chunk, embed
// and insert. Non-resource pages are skipped.
func (ig *Ingestor) Run(ctx context.Context, cleanedDir string) (Stats, error) {
	entries, err := os.ReadDir(cleanedDir)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		resource, ok := ResourceNameFromFile(entry.Name())
		if !ok {
			fmt.Fprintf(ig.out, "↪️  Skipping (not a resource doc): %s\n", entry.Name())
			continue
		}

		raw, err := os.ReadFile(filepath.Join(cleanedDir, entry.Name()))
		if err != nil {
			return stats, err
		}
		text := string(raw)

		required := RequiredFields(text)
		chunks := nonEmpty(SplitText(text, defaultChunkWords))

		fmt.Fprintf(ig.out, "📄 %s → resource=%s\n", entry.Name(), resource)
		if len(required) > 0 {
			fmt.Fprintf(ig.out, "   🔖 Required fields: %v\n", required)
		} else {
			fmt.Fprintln(ig.out, "   ⚠️  No required fields detected in Argument Reference.")
		}

		if len(chunks) == 0 {
			continue
		}

		requiredJSON, err := json.Marshal(required)
		if err != nil {
			return stats, err
		}

		vectors, err := ig.embedder.Embed(ctx, chunks)
		if err != nil {
			return stats, fmt.Errorf("failed to embed %s: %w", entry.Name(), err)
		}
		if len(vectors) != len(chunks) {
			return stats, fmt.Errorf("embedding count mismatch for %s: got %d, expected %d", entry.Name(), len(vectors), len(chunks))
		}

		rows := make([]docstore.DocRow, len(chunks))
		for i, chunk := range chunks {
			rows[i] = docstore.DocRow{
				ID:        uuid.NewString(),
				Resource:  resource,
				Required:  string(requiredJSON),
				Text:      chunk,
				Embedding: vectors[i],
			}
		}
		if err := ig.sink.InsertRows(ctx, rows); err != nil {
			return stats, fmt.Errorf("failed to insert rows for %s: %w", entry.Name(), err)
		}

		stats.Files++
		stats.Chunks += len(rows)
		fmt.Fprintf(ig.out, "   ✅ Stored %d chunks.\n", len(rows))
	}
	return stats, nil
}

func nonEmpty(chunks []string) []string {
	out := chunks[:0:len(chunks)]
	for _, c := range chunks {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
