package ingest

import "strings"

// defaultChunkWords matches the chunk size the index was built with.
const defaultChunkWords = 300

// SplitText slices text into chunks of at most maxWords words, breaking on
// line boundaries so argument bullets stay intact.
func SplitText(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = defaultChunkWords
	}
	var chunks []string
	var cur []string
	words := 0
	for _, line := range strings.Split(text, "\n") {
		w := len(strings.Fields(line))
		if words+w > maxWords && len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur, words = nil, 0
		}
		cur = append(cur, line)
		words += w
	}
	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}
	return chunks
}
