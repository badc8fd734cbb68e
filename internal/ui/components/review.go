package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"timebox/internal/ui/theme"
)

// ReviewSubmitMsg carries the three review answers.
type ReviewSubmitMsg struct {
	Learned string
	Stuck   string
	Next    string
}

const (
	fieldLearned = iota
	fieldStuck
	fieldNext
	fieldCount
)

var reviewLabels = [fieldCount]string{"What did I learn?", "Where did I get stuck?", "What comes next?"}

// ReviewForm collects the post-session notes. tab/shift+tab move between
// fields and enter on the last field submits.
type ReviewForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	styles theme.Styles
}

func NewReviewForm(styles theme.Styles) ReviewForm {
	f := ReviewForm{styles: styles}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Width = 60
		f.inputs[i] = ti
	}
	return f
}

// Focus resets the form and focuses the first field.
func (f *ReviewForm) Focus() tea.Cmd {
	f.focus = fieldLearned
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return f.inputs[fieldLearned].Focus()
}

func (f ReviewForm) Update(msg tea.Msg) (ReviewForm, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			cmd := f.move(1)
			return f, cmd
		case "shift+tab", "up":
			cmd := f.move(-1)
			return f, cmd
		case "enter":
			if f.focus < fieldNext {
				cmd := f.move(1)
				return f, cmd
			}
			out := ReviewSubmitMsg{
				Learned: strings.TrimSpace(f.inputs[fieldLearned].Value()),
				Stuck:   strings.TrimSpace(f.inputs[fieldStuck].Value()),
				Next:    strings.TrimSpace(f.inputs[fieldNext].Value()),
			}
			return f, func() tea.Msg { return out }
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *ReviewForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f ReviewForm) View() string {
	var sb strings.Builder
	sb.WriteString(f.styles.Title.Render("Review") + "\n\n")
	for i, input := range f.inputs {
		label := reviewLabels[i]
		if i == f.focus {
			sb.WriteString(f.styles.Hot.Render(label) + "\n")
		} else {
			sb.WriteString(f.styles.Muted.Render(label) + "\n")
		}
		sb.WriteString(input.View() + "\n\n")
	}
	sb.WriteString(f.styles.Muted.Render("tab: next field  enter: save  esc: save without notes"))
	return sb.String()
}
