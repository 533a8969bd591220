// Package stats contains reading history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/rapidread/internal/model"
)

const sparkChars = " .:-=+*#%@"

// EffectiveWPM is the rate actually achieved over a read, pauses included.
func EffectiveWPM(words int, durationMs int64) float64 {
	if durationMs <= 0 || words <= 0 {
		return 0
	}
	minutes := float64(durationMs) / 60000.0
	return float64(words) / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals and averages for the reads.
func RenderSummary(w io.Writer, reads []model.ReadRecord) error {
	if len(reads) == 0 {
		_, err := fmt.Fprintln(w, "No reads found.")
		return err
	}
	var totalWords int
	var totalTarget, totalEffective, bestEffective float64
	for _, r := range reads {
		eff := EffectiveWPM(r.Words, r.DurationMs)
		totalWords += r.Words
		totalTarget += float64(r.WPM)
		totalEffective += eff
		if eff > bestEffective {
			bestEffective = eff
		}
	}
	count := float64(len(reads))
	lines := []string{
		"Summary",
		fmt.Sprintf("Reads: %d", len(reads)),
		fmt.Sprintf("Words: %d", totalWords),
		fmt.Sprintf("Avg target WPM: %.0f", totalTarget/count),
		fmt.Sprintf("Avg effective WPM: %.2f", totalEffective/count),
		fmt.Sprintf("Best effective WPM: %.2f", bestEffective),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderReads prints one row per read.
func RenderReads(w io.Writer, reads []model.ReadRecord) error {
	if len(reads) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Reads"); err != nil {
		return err
	}
	headers := []string{"Started", "Source", "Words", "WPM", "Effective", "Duration"}
	rows := make([][]string, 0, len(reads))
	for _, r := range reads {
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			sourceLabel(r),
			fmt.Sprintf("%d", r.Words),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%.1f", EffectiveWPM(r.Words, r.DurationMs)),
			formatDuration(r.DurationMs),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

const maxSourceLabel = 32

func sourceLabel(r model.ReadRecord) string {
	if r.URL == "" {
		return r.Source
	}
	label := r.URL
	if runes := []rune(label); len(runes) > maxSourceLabel {
		label = string(runes[:maxSourceLabel-1]) + "…"
	}
	return label
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
