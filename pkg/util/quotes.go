package util

import (
	"errors"
	"strings"
)

// ErrOpenQuote is returned by QuotedStrings when a quote is opened but never closed.
var ErrOpenQuote = errors.New("open quote")

// QuotedStrings collects every non-empty "..." span in s, in order of appearance.
// Empty pairs ("") are skipped. An unterminated quote yields ErrOpenQuote.
//
// Example:
//
//	QuotedStrings(`poll "Best fruit?" "Apple" "" "Banana"`) // ["Best fruit?", "Apple", "Banana"]
func QuotedStrings(s string) ([]string, error) {
	var (
		out   []string
		open  bool
		start int
	)

	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		if !open {
			open = true
			start = i
			continue
		}
		open = false
		if i-start > 1 {
			out = append(out, s[start+1:i])
		}
	}

	if open {
		return nil, ErrOpenQuote
	}
	return out, nil
}

// SplitTokens splits s on single spaces. Consecutive spaces produce empty tokens,
// which keeps token positions stable for commands that count them.
func SplitTokens(s string) []string {
	return strings.Split(s, " ")
}
