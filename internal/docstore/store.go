package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoDocumentation is returned when a resolved resource has no indexed
// chunks. Callers must treat it as a hard stop.
var ErrNoDocumentation = errors.New("no documentation chunks found for resource")

// Row is one indexed document row: a chunk of documentation text plus the
// JSON-encoded required-field list recorded at ingest time.
type Row struct {
	Text           string
	RequiredFields string
}

// Store is the read contract of the document index. Pagination, batch size
// and the row safety cap are owned by the implementation.
type Store interface {
	// Query returns all doc chunks for a resource, in retrieval order,
	// together with its required-field names.
	Query(ctx context.Context, resource string) (chunks []string, required []string, err error)
	// ListResources returns the distinct resource names present in the index.
	ListResources(ctx context.Context) ([]string, error)
}

// paginate drains a paged fetch until it returns a short page, an empty
// page, an error, or the safety cap is reached. The cap bounds total rows
// scanned regardless of the true corpus size.
func paginate(fetch func(offset, limit int) ([]Row, error), batchSize, rowCap int) []Row {
	if batchSize <= 0 {
		batchSize = 1000
	}
	var all []Row
	for offset := 0; ; offset += batchSize {
		if rowCap > 0 && offset >= rowCap {
			break
		}
		rows, err := fetch(offset, batchSize)
		if err != nil {
			break // end of window or query issue; keep what we have
		}
		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)
		if len(rows) < batchSize {
			break
		}
	}
	return all
}

// collectRows splits raw rows into the chunk sequence and the required-field
// list. The required fields come from the first row whose metadata cell
// parses as a JSON string array.
func collectRows(rows []Row) (chunks []string, required []string) {
	for _, r := range rows {
		if r.Text != "" {
			chunks = append(chunks, r.Text)
		}
	}
	for _, r := range rows {
		if r.RequiredFields == "" {
			continue
		}
		var parsed []string
		if err := json.Unmarshal([]byte(r.RequiredFields), &parsed); err == nil {
			required = parsed
			break
		}
	}
	return chunks, required
}
