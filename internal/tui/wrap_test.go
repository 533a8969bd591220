package tui

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("the quick brown fox", 10)
	if got != "the quick\nbrown fox" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextDropsSpaceAtBreak(t *testing.T) {
	got := wrapText("the quick brown fox", 9)
	if got != "the quick\nbrown fox" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefghij", 4)
	if got != "abcd\nefgh\nij" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	got := wrapText("one two\nthree", 20)
	if got != "one two\nthree" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("日本語 テキスト", 8)
	if got != "日本語\nテキスト" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	got := wrapText("left as is", 0)
	if got != "left as is" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
