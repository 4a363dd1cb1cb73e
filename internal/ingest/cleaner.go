package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Scraped provider docs carry page chrome that poisons retrieval: clipboard
// buttons, cookie banners, tracking links. These rules strip it before
// chunking.
var (
	footerJunk   = regexp.MustCompile(`\n?(Copy|Dismiss|Manage Preferences)\n?`)
	cookieNotice = regexp.MustCompile(`(?s)We use cookies and other similar technology.*?(Privacy Policy|Cookie Policy)\.`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	escapedScore = regexp.MustCompile(`\\_`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// CleanMarkdown strips boilerplate from one scraped page. Idempotent.
func CleanMarkdown(text string) string {
	text = footerJunk.ReplaceAllString(text, "\n")
	text = cookieNotice.ReplaceAllString(text, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = escapedScore.ReplaceAllString(text, "_")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// CleanDir processes every .md file from srcDir into dstDir and returns the
// number of files cleaned.
func CleanDir(srcDir, dstDir string, out io.Writer) (int, error) {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return cleaned, err
		}
		dst := filepath.Join(dstDir, entry.Name())
		if err := os.WriteFile(dst, []byte(CleanMarkdown(string(raw))), 0644); err != nil {
			return cleaned, err
		}
		cleaned++
		if out != nil {
			fmt.Fprintf(out, "[CLEANED] %s -> %s\n", entry.Name(), dst)
		}
	}
	return cleaned, nil
}
