package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timebox/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	hints   []string
	styles  theme.Styles
	visible bool
	width   int
}

// NewPalette creates an inactive Palette that suggests hints by prefix.
func NewPalette(styles theme.Styles, hints []string) Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti, hints: hints, styles: styles}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with value prefilled and returns the focus command.
func (p *Palette) Open(value string) tea.Cmd {
	p.visible = true
	p.input.SetValue(value)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// SetHints replaces the suggestions, e.g. once strategies are loaded.
func (p *Palette) SetHints(hints []string) { p.hints = hints }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	prefix := strings.ToLower(p.input.Value())
	var matching []string
	for _, h := range p.hints {
		if prefix == "" || strings.HasPrefix(strings.ToLower(h), prefix) {
			matching = append(matching, h)
			if len(matching) == 6 {
				break
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(p.styles.Muted.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.styles.Palette.Peach).
		Background(p.styles.Palette.Mantle).
		Foreground(p.styles.Palette.Text).
		Padding(0, 1).
		Width(w - 2).
		Render(sb.String())
}
