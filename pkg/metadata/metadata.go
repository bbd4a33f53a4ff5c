// Package metadata extracts structured fields embedded in free-text poll
// titles. Poll contracts store a single question string; the funding token
// symbol rides along after a "|TOKEN:" marker appended at creation time.
package metadata

import "strings"

// TokenDelimiter separates the human-readable title from the embedded
// funding-token symbol.
const TokenDelimiter = "|TOKEN:"

// TitleMeta holds the fields recovered from a raw title string.
type TitleMeta struct {
	Title       string
	TokenSymbol string // empty when no symbol was embedded
}

// ParseTitle splits raw on TokenDelimiter. The symbol is only trusted when
// the delimiter appears exactly once; any other shape (no delimiter, the
// delimiter repeated) falls back to treating the whole input as the title.
// Malformed input is a data condition, not an error.
func ParseTitle(raw string) TitleMeta {
	if strings.Count(raw, TokenDelimiter) != 1 {
		return TitleMeta{Title: raw}
	}
	parts := strings.SplitN(raw, TokenDelimiter, 2)
	return TitleMeta{Title: parts[0], TokenSymbol: strings.TrimSpace(parts[1])}
}
