// Package splitter cuts long documents into overlapping chunks sized for
// embedding. Sizes are measured in runes so Korean text is not penalized.
package splitter

import "strings"

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Splitter splits text recursively: paragraphs first, then lines, then words,
// then raw runes as a last resort.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// New returns a splitter with the given chunk size and overlap in runes.
// Non-positive arguments fall back to the defaults.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: []string{"\n\n", "\n", " "},
	}
}

// Split returns the chunks of text in order. Empty chunks are dropped.
func (s *Splitter) Split(text string) []string {
	pieces := s.split(text, s.separators)
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Splitter) split(text string, seps []string) []string {
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return s.splitRunes(text)
	}

	sep := seps[0]
	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		// Separator not present, try the next finer one.
		return s.split(text, seps[1:])
	}

	// Re-split any part that is still too large, then merge small parts back
	// into chunks close to the target size.
	var pieces []string
	for _, part := range parts {
		if runeLen(part) > s.chunkSize {
			pieces = append(pieces, s.split(part, seps[1:])...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return s.merge(pieces, sep)
}

// merge greedily packs adjacent pieces into chunks not exceeding chunkSize,
// carrying the configured overlap from the tail of each chunk into the next.
func (s *Splitter) merge(pieces []string, sep string) []string {
	var chunks []string
	var current string
	for _, piece := range pieces {
		if current == "" {
			current = piece
			continue
		}
		candidate := current + sep + piece
		if runeLen(candidate) <= s.chunkSize {
			current = candidate
			continue
		}
		chunks = append(chunks, current)
		current = tailRunes(current, s.overlap) + sep + piece
		if runeLen(current) > s.chunkSize {
			// Overlap plus a large piece can still overflow; drop the carry.
			current = piece
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// splitRunes hard-cuts text into chunkSize windows stepping by
// chunkSize-overlap.
func (s *Splitter) splitRunes(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
