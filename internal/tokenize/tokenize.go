// Package tokenize splits source text into display tokens.
package tokenize

import "unicode"

// Tokenize returns the whitespace-separated words of text in order.
// Line breaks, tabs and runs of any other whitespace act as one separator;
// punctuation stays attached to its word.
func Tokenize(text string) []string {
	tokens := []string{}
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start != -1 {
				tokens = append(tokens, text[start:i])
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}
