package knowledge

import (
	"regexp"
	"strings"
)

// minChunkLength drops fragments too short to carry retrievable meaning.
const minChunkLength = 20

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// chunkText splits raw text on blank-line paragraph boundaries and drops
// chunks of minChunkLength characters or fewer after trimming.
func chunkText(raw string) []string {
	parts := paragraphBreak.Split(raw, -1)
	chunks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > minChunkLength {
			chunks = append(chunks, p)
		}
	}
	return chunks
}
