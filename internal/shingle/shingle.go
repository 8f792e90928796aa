// Package shingle turns raw text into overlapping word windows.
//
// Tokenisation is whitespace splitting only: no case folding and no
// punctuation stripping, so "Fox" and "fox." are different tokens. The
// information separators U+001C to U+001F count as whitespace alongside
// the Unicode White_Space runes.
package shingle

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// Extract returns the shingles of text for the given window size.
//
// A text of T tokens yields T-size shingles: windows [i, i+size) for i in
// [0, T-size). The final full window is not emitted, so texts with
// T <= size yield no shingles. Each shingle joins its tokens with a single
// space and is returned as UTF-8 bytes.
//
// Returns domain.ErrInvalidEncoding for text that is not valid UTF-8 and
// domain.ErrConfiguration for size < 1.
func Extract(text string, size int) ([][]byte, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: shingle size must be positive, got %d", domain.ErrConfiguration, size)
	}
	if !utf8.ValidString(text) {
		return nil, domain.ErrInvalidEncoding
	}

	tokens := tokenize(text)
	if len(tokens) <= size {
		return [][]byte{}, nil
	}

	shingles := make([][]byte, 0, len(tokens)-size)
	for i := 0; i < len(tokens)-size; i++ {
		shingles = append(shingles, []byte(strings.Join(tokens[i:i+size], " ")))
	}

	return shingles, nil
}

// Count returns the number of shingles Extract would produce for valid text.
func Count(text string, size int) int {
	n := len(tokenize(text)) - size
	if n < 0 {
		return 0
	}
	return n
}

// Set converts shingles into a set keyed by their string form.
func Set(shingles [][]byte) map[string]struct{} {
	set := make(map[string]struct{}, len(shingles))
	for _, s := range shingles {
		set[string(s)] = struct{}{}
	}
	return set
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, isSeparator)
}
