// Package pivot picks the fixation character of a word.
package pivot

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Split is a word cut around its pivot character.
type Split struct {
	Left  string
	Pivot string
	Right string
}

// Index returns the rune offset of the pivot for a word.
func Index(word string) int {
	n := utf8.RuneCountInString(word)
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return n / 4
	}
}

// SplitWord cuts word at Index. The empty word yields an empty Split.
// Cuts fall on byte offsets, so Left+Pivot+Right is always word, even when
// word holds invalid UTF-8.
func SplitWord(word string) Split {
	if word == "" {
		return Split{}
	}
	start := 0
	for i := Index(word); i > 0; i-- {
		_, size := utf8.DecodeRuneInString(word[start:])
		start += size
	}
	_, size := utf8.DecodeRuneInString(word[start:])
	return Split{
		Left:  word[:start],
		Pivot: word[start : start+size],
		Right: word[start+size:],
	}
}

// Pad returns how many columns must precede Left so that the pivot
// starts at display column center.
func Pad(s Split, center int) int {
	pad := center - runewidth.StringWidth(s.Left)
	if pad < 0 {
		return 0
	}
	return pad
}
