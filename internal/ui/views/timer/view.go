package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	sessiondto "timebox/internal/modules/session/dto"
	"timebox/internal/platform/daytime"
	"timebox/internal/ui/theme"
)

// Model renders the running session: clock, progress and urge buffer.
type Model struct {
	styles theme.Styles
	bar    progress.Model
	width  int
}

func New(styles theme.Styles) Model {
	bar := progress.New(
		progress.WithSolidFill(string(styles.Palette.Lavender)),
		progress.WithoutPercentage(),
	)
	return Model{styles: styles, bar: bar}
}

func (m *Model) SetWidth(w int) {
	m.width = w
	bar := w - 8
	if bar > 60 {
		bar = 60
	}
	if bar < 10 {
		bar = 10
	}
	m.bar.Width = bar
}

// Progress is elapsed over target, clamped to [0, 1].
func Progress(rt sessiondto.RuntimeOutput) float64 {
	target := rt.TargetSec
	if target <= 0 {
		target = 1
	}
	p := float64(rt.ElapsedSec) / float64(target)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (m Model) View(rt sessiondto.RuntimeOutput, title string) string {
	var sb strings.Builder
	header := m.styles.ForType(rt.Type).Render(strings.ToUpper(rt.Type))
	if title != "" {
		header += "  " + m.styles.Title.Render(title)
	}
	sb.WriteString(header + "\n\n")

	clock := daytime.FormatSeconds(rt.RemainingSec)
	switch rt.Status {
	case "paused":
		sb.WriteString(m.styles.Muted.Render(clock+"  paused") + "\n")
	case "running":
		if rt.RemainingSec == 0 {
			sb.WriteString(m.styles.Alert.Render(clock+"  time is up") + "\n")
		} else {
			sb.WriteString(m.styles.Hot.Render(clock) + "\n")
		}
	default:
		sb.WriteString(m.styles.Muted.Render(clock) + "\n")
	}
	sb.WriteString(m.bar.ViewAs(Progress(rt)) + "\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("elapsed %s of %s",
		daytime.FormatSeconds(rt.ElapsedSec), daytime.FormatSeconds(rt.TargetSec))) + "\n")

	if rt.UrgeActive {
		sb.WriteString("\n" + m.styles.Alert.Render("urge buffer "+daytime.FormatSeconds(rt.UrgeRemainingSec)) +
			m.styles.Muted.Render("  y: stayed  l: left") + "\n")
	}
	if rt.UrgeDelays > 0 || len(rt.Discomforts) > 0 {
		line := fmt.Sprintf("urges delayed: %d", rt.UrgeDelays)
		if len(rt.Discomforts) > 0 {
			line += "  strategies: " + strings.Join(rt.Discomforts, ", ")
		}
		sb.WriteString("\n" + m.styles.Muted.Render(line) + "\n")
	}
	return sb.String()
}
