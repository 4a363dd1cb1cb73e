package docstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagedCorpus(total int) func(offset, limit int) ([]Row, error) {
	return func(offset, limit int) ([]Row, error) {
		if offset >= total {
			return nil, nil
		}
		end := offset + limit
		if end > total {
			end = total
		}
		rows := make([]Row, 0, end-offset)
		for i := offset; i < end; i++ {
			rows = append(rows, Row{Text: fmt.Sprintf("chunk-%d", i)})
		}
		return rows, nil
	}
}

func TestPaginate_DrainsFullCorpus(t *testing.T) {
	rows := paginate(pagedCorpus(2500), 1000, 16000)
	require.Len(t, rows, 2500)
	assert.Equal(t, "chunk-0", rows[0].Text)
	assert.Equal(t, "chunk-2499", rows[2499].Text)
}

func TestPaginate_StopsAtRowCap(t *testing.T) {
	var fetches int
	fetch := func(offset, limit int) ([]Row, error) {
		fetches++
		return pagedCorpus(100000)(offset, limit)
	}

	rows := paginate(fetch, 1000, 16000)
	assert.Len(t, rows, 16000)
	assert.Equal(t, 16, fetches)
}

func TestPaginate_ShortPageEndsScan(t *testing.T) {
	rows := paginate(pagedCorpus(1200), 1000, 16000)
	assert.Len(t, rows, 1200)
}

func TestPaginate_EmptyCorpus(t *testing.T) {
	rows := paginate(pagedCorpus(0), 1000, 16000)
	assert.Empty(t, rows)
}

func TestPaginate_KeepsRowsBeforeError(t *testing.T) {
	fetch := func(offset, limit int) ([]Row, error) {
		if offset >= 1000 {
			return nil, errors.New("window exceeded")
		}
		return pagedCorpus(5000)(offset, limit)
	}

	rows := paginate(fetch, 1000, 16000)
	assert.Len(t, rows, 1000)
}

func TestPaginate_DefaultsBatchSize(t *testing.T) {
	rows := paginate(pagedCorpus(10), 0, 16000)
	assert.Len(t, rows, 10)
}

func TestCollectRows(t *testing.T) {
	rows := []Row{
		{Text: "first chunk", RequiredFields: "not json"},
		{Text: "", RequiredFields: `["zone_id", "template_id"]`},
		{Text: "second chunk", RequiredFields: `["ignored_later"]`},
	}

	chunks, required := collectRows(rows)
	assert.Equal(t, []string{"first chunk", "second chunk"}, chunks)
	assert.Equal(t, []string{"zone_id", "template_id"}, required)
}

func TestCollectRows_NoParsableMetadata(t *testing.T) {
	rows := []Row{{Text: "chunk", RequiredFields: "{broken"}}

	chunks, required := collectRows(rows)
	assert.Equal(t, []string{"chunk"}, chunks)
	assert.Empty(t, required)
}
