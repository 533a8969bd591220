package stats

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/rapidread/internal/model"
)

const (
	trendLabel          = "Effective WPM "
	minTrendWidth       = 10
	terminalWidthBackup = 80
)

// TerminalWidth returns the width of the terminal on stdout or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// TrendWidthFor computes a sparkline width that fits after the label.
func TrendWidthFor(totalWidth int) int {
	width := totalWidth - len(trendLabel)
	if width < minTrendWidth {
		return minTrendWidth
	}
	return width
}

// RenderTrend prints a moving-average sparkline of effective WPM.
func RenderTrend(w io.Writer, reads []model.ReadRecord, window, totalWidth int) error {
	if len(reads) < 2 {
		return nil
	}
	values := make([]float64, len(reads))
	for i, r := range reads {
		values[i] = EffectiveWPM(r.Words, r.DurationMs)
	}
	values = MovingAverage(values, window)
	width := TrendWidthFor(totalWidth)
	if len(values) < width {
		width = len(values)
	}
	line := Sparkline(resampleSeries(values, width))
	minVal, maxVal := seriesMinMax(values)
	if _, err := fmt.Fprintf(w, "%s%s\n", trendLabel, line); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "min %.1f  max %.1f  window %d\n", minVal, maxVal, window)
	return err
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * float64(len(values)) / float64(width))
		end := int(float64(i+1) * float64(len(values)) / float64(width))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}
