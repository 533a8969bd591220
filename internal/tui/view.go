package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rapidread/internal/pivot"
	"github.com/verte-zerg/rapidread/internal/reader"
)

const (
	guideMark    = "│"
	previewWords = 8
)

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.engine.Snapshot()
	var body string
	switch snap.State {
	case reader.StateInput:
		body = m.inputView(snap)
	case reader.StateLoading:
		body = footerStyle.Render("Loading…")
	case reader.StateCountdown:
		body = countdownStyle.Render(strconv.Itoa(snap.Countdown))
	default:
		return m.readingView(snap)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) inputView(snap reader.Snapshot) string {
	width := m.contentWidth()
	lines := []string{titleStyle.Render("rapidread"), ""}
	if snap.Offer != nil {
		lines = append(lines, offerStyle.Render(wrapText(offerText(snap.Offer), width)), "")
	}
	lines = append(lines, m.input.View())
	if snap.Err != "" {
		lines = append(lines, "", errorStyle.Render(wrapText(snap.Err, width)))
	}
	lines = append(lines, "", m.help.ShortHelpView(m.keys.inputHelp(snap.Offer != nil)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) readingView(snap reader.Snapshot) string {
	center := m.width / 2
	guide := strings.Repeat(" ", center) + guideStyle.Render(guideMark)
	word := renderWord(pivot.SplitWord(snap.Token), center)
	block := strings.Join([]string{guide, word, guide}, "\n")

	footer := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.progress.ViewAs(progressFraction(snap))),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footerStyle.Render(renderStatus(snap))),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.help.View(m.keys)),
	}
	footerHeight := lipgloss.Height(strings.Join(footer, "\n"))
	bodyHeight := m.height - footerHeight
	if bodyHeight < lipgloss.Height(block) {
		return block + "\n" + strings.Join(footer, "\n")
	}
	body := lipgloss.PlaceVertical(bodyHeight, lipgloss.Center, block)
	return body + "\n" + strings.Join(footer, "\n")
}

// renderWord places the word so its pivot character starts at column center.
func renderWord(s pivot.Split, center int) string {
	pad := pivot.Pad(s, center)
	return strings.Repeat(" ", pad) + wordStyle.Render(s.Left) + pivotStyle.Render(s.Pivot) + wordStyle.Render(s.Right)
}

func renderStatus(snap reader.Snapshot) string {
	segments := []string{
		fmt.Sprintf("%d WPM", snap.WPM),
		fmt.Sprintf("%d/%d", snap.Index+1, snap.Total),
	}
	switch snap.State {
	case reader.StatePaused:
		segments = append(segments, "paused")
	case reader.StateFinished:
		segments = append(segments, "finished · space to replay")
	}
	return strings.Join(segments, " · ")
}

func progressFraction(snap reader.Snapshot) float64 {
	if snap.Total == 0 {
		return 0
	}
	return float64(snap.Index+1) / float64(snap.Total)
}

func offerText(offer *reader.ResumeOffer) string {
	what := offer.URL
	if what == "" {
		words := offer.Tokens
		if len(words) > previewWords {
			words = words[:previewWords]
		}
		what = strings.Join(words, " ")
		if len(offer.Tokens) > previewWords {
			what += "…"
		}
		what = strconv.Quote(what)
	}
	return fmt.Sprintf("Resume %s at word %d of %d (%d WPM)?", what, offer.Index+1, len(offer.Tokens), offer.WPM)
}
