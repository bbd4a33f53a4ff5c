package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTitle  string
		wantSymbol string
	}{
		{
			name:       "title with token",
			raw:        "Best chain?|TOKEN:USDC",
			wantTitle:  "Best chain?",
			wantSymbol: "USDC",
		},
		{
			name:      "plain title",
			raw:       "Best chain?",
			wantTitle: "Best chain?",
		},
		{
			name:      "delimiter twice falls back to full string",
			raw:       "a|TOKEN:b|TOKEN:c",
			wantTitle: "a|TOKEN:b|TOKEN:c",
		},
		{
			name:      "empty input",
			raw:       "",
			wantTitle: "",
		},
		{
			name:       "empty title keeps symbol",
			raw:        "|TOKEN:MNT",
			wantTitle:  "",
			wantSymbol: "MNT",
		},
		{
			name:      "trailing delimiter yields no symbol",
			raw:       "question|TOKEN:",
			wantTitle: "question",
		},
		{
			name:       "symbol whitespace trimmed",
			raw:        "question|TOKEN: VOTE ",
			wantTitle:  "question",
			wantSymbol: "VOTE",
		},
		{
			name:      "pipe without marker stays in title",
			raw:       "either|or",
			wantTitle: "either|or",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTitle(tc.raw)
			assert.Equal(t, tc.wantTitle, got.Title)
			assert.Equal(t, tc.wantSymbol, got.TokenSymbol)
		})
	}
}

// ParseTitle must invert simple concatenation for any title that does not
// itself contain the delimiter.
func TestParseTitleInvertsConcatenation(t *testing.T) {
	titles := []string{"Best chain?", "", "a|b", "unicode ✓ title", "  spaced  "}
	for _, title := range titles {
		got := ParseTitle(title + TokenDelimiter + "USDC")
		assert.Equal(t, title, got.Title)
		assert.Equal(t, "USDC", got.TokenSymbol)
	}
}
