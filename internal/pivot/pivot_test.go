package pivot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexTable(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 1}, {5, 1}, {6, 2}, {7, 2},
		{8, 2}, {9, 2}, {10, 3}, {11, 3}, {12, 3}, {13, 3}, {14, 3},
		{16, 4}, {20, 5}, {40, 10},
	}
	for _, tt := range tests {
		word := strings.Repeat("x", tt.length)
		assert.Equal(t, tt.want, Index(word), "length %d", tt.length)
	}
}

func TestIndexMonotonic(t *testing.T) {
	prev := 0
	for n := 0; n <= 64; n++ {
		got := Index(strings.Repeat("a", n))
		assert.GreaterOrEqual(t, got, prev, "length %d", n)
		prev = got
	}
}

func TestSplitWordReconstructs(t *testing.T) {
	words := []string{"a", "ab", "word,", "hello.", "reading", "extraordinary", "internationalization", "naïveté", "東京都庁", "👍ok"}
	for _, w := range words {
		s := SplitWord(w)
		assert.Equal(t, w, s.Left+s.Pivot+s.Right, "word %q", w)
		assert.Len(t, []rune(s.Pivot), 1, "word %q", w)
	}
}

func TestSplitWordInvalidUTF8(t *testing.T) {
	for _, w := range []string{"caf\xe9", "na\xefve", "\xff", "\xe9\xe9\xe9\xe9\xe9\xe9"} {
		s := SplitWord(w)
		assert.Equal(t, w, s.Left+s.Pivot+s.Right, "word %q", w)
	}
	assert.Equal(t, Split{Left: "c", Pivot: "a", Right: "f\xe9"}, SplitWord("caf\xe9"))
	assert.Equal(t, Split{Left: "\xe9\xe9", Pivot: "\xe9", Right: "\xe9\xe9\xe9"}, SplitWord("\xe9\xe9\xe9\xe9\xe9\xe9"))
}

func TestSplitWordEmpty(t *testing.T) {
	assert.Equal(t, Split{}, SplitWord(""))
}

func TestSplitWordPositions(t *testing.T) {
	assert.Equal(t, Split{Left: "h", Pivot: "e", Right: "llo"}, SplitWord("hello"))
	assert.Equal(t, Split{Left: "", Pivot: "I", Right: ""}, SplitWord("I"))
	assert.Equal(t, Split{Left: "re", Pivot: "a", Right: "ding"}, SplitWord("reading"))
}

func TestPad(t *testing.T) {
	assert.Equal(t, 10, Pad(SplitWord("I"), 10))
	assert.Equal(t, 9, Pad(SplitWord("hello"), 10))
	// Wide runes take two columns each.
	assert.Equal(t, 8, Pad(SplitWord("東京都庁"), 10))
	assert.Equal(t, 0, Pad(SplitWord("internationalization"), 2))
}
