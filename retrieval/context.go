package retrieval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sanare-ai/docpilot/core"
)

const (
	// DefaultMaxContextChars bounds the formatted context string.
	DefaultMaxContextChars = 6000

	// NoPassagesFound is returned by FormatContext when a tenant has no
	// matching chunks; the completion prompt tells the model what it means.
	NoPassagesFound = "No relevant documentation passages were found for this tenant."

	blockSeparator = "\n\n---\n\n"
)

// FormatContext renders retrieved chunks as a bounded context string for
// the completion prompt. Each chunk becomes a numbered block carrying its
// source URL and distance; blocks are separated by a rule. The result is
// hard-truncated at maxChars (rune-safe). maxChars < 1 applies the default.
func FormatContext(chunks []*core.RetrievedChunk, maxChars int) string {
	if maxChars < 1 {
		maxChars = DefaultMaxContextChars
	}

	if len(chunks) == 0 {
		return NoPassagesFound
	}

	blocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		blocks = append(blocks, fmt.Sprintf("[CHUNK %d] source=%s score=%.4f\n%s",
			i+1, chunk.SourceURL, chunk.Score, chunk.Content))
	}

	context := strings.Join(blocks, blockSeparator)
	if len(context) <= maxChars {
		return context
	}

	// Back off to a rune boundary so truncation never splits a character.
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(context[cut]) {
		cut--
	}
	return context[:cut]
}
