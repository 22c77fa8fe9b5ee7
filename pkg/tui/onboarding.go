package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/unfold/pkg/store"
)

// DefaultName is used when onboarding finishes with an empty name.
const DefaultName = "Sylvia"

type onboardStep int

const (
	stepWelcome onboardStep = iota
	stepName
	stepPace
	stepFocus
	stepBlockers
)

// Onboarding is the linear form that produces the first profile.
type Onboarding struct {
	step     onboardStep
	name     textinput.Model
	paceIdx  int
	focus    textarea.Model
	blockers textinput.Model
}

// NewOnboarding returns the form at its welcome step.
func NewOnboarding() Onboarding {
	name := textinput.New()
	name.Placeholder = DefaultName
	name.CharLimit = 64

	focus := textarea.New()
	focus.Placeholder = "Example: Finding peace in my daily routine..."
	focus.ShowLineNumbers = false
	focus.SetHeight(4)

	blockers := textinput.New()
	blockers.Placeholder = "e.g. fatigue, noise, overcommitting"
	blockers.CharLimit = 256

	return Onboarding{
		step:     stepWelcome,
		name:     name,
		paceIdx:  indexOfPace(store.PaceBalanced),
		focus:    focus,
		blockers: blockers,
	}
}

// Update advances the form. It returns a profile once the last step is
// confirmed.
func (o Onboarding) Update(msg tea.Msg) (Onboarding, tea.Cmd, *store.Profile) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	switch o.step {
	case stepWelcome:
		if isKey && keyMsg.Type == tea.KeyEnter {
			o.step = stepName
			return o, o.name.Focus(), nil
		}

	case stepName:
		if isKey && keyMsg.Type == tea.KeyEnter {
			o.name.Blur()
			o.step = stepPace
			return o, nil, nil
		}
		var cmd tea.Cmd
		o.name, cmd = o.name.Update(msg)
		return o, cmd, nil

	case stepPace:
		if !isKey {
			return o, nil, nil
		}
		switch keyMsg.String() {
		case "up", "k":
			if o.paceIdx > 0 {
				o.paceIdx--
			}
		case "down", "j":
			if o.paceIdx < len(store.Paces)-1 {
				o.paceIdx++
			}
		case "1", "2", "3":
			o.paceIdx = int(keyMsg.String()[0] - '1')
			o.step = stepFocus
			return o, o.focus.Focus(), nil
		case "enter":
			o.step = stepFocus
			return o, o.focus.Focus(), nil
		}
		return o, nil, nil

	case stepFocus:
		// enter moves on; alt+enter inserts a newline
		if isKey && keyMsg.Type == tea.KeyEnter && !keyMsg.Alt {
			o.focus.Blur()
			o.step = stepBlockers
			return o, o.blockers.Focus(), nil
		}
		var cmd tea.Cmd
		o.focus, cmd = o.focus.Update(msg)
		return o, cmd, nil

	case stepBlockers:
		if isKey && keyMsg.Type == tea.KeyEnter {
			p := o.Profile()
			return o, nil, &p
		}
		var cmd tea.Cmd
		o.blockers, cmd = o.blockers.Update(msg)
		return o, cmd, nil
	}

	return o, nil, nil
}

// Profile builds the profile from the current answers.
func (o Onboarding) Profile() store.Profile {
	name := strings.TrimSpace(o.name.Value())
	if name == "" {
		name = DefaultName
	}
	return store.Profile{
		Name:      name,
		Pace:      store.Paces[o.paceIdx],
		Priority:  strings.TrimSpace(o.focus.Value()),
		Blockers:  splitList(o.blockers.Value()),
		Onboarded: true,
	}
}

// View renders the current step centred in a width × height screen.
func (o Onboarding) View(width, height int) string {
	var b strings.Builder

	switch o.step {
	case stepWelcome:
		b.WriteString(HeaderStyle.Render("Welcome."))
		b.WriteString("\n\n")
		b.WriteString(FooterStyle.Render("This is a quiet space for your growth. Before we begin,\nlet's understand how you move through the world."))
		b.WriteString("\n\n")
		b.WriteString(ChoiceSelectedStyle.Render("Begin"))

	case stepName:
		b.WriteString(HeaderStyle.Render("What should I call you?"))
		b.WriteString("\n\n")
		b.WriteString(InputPromptStyle.Render("> ") + o.name.View())

	case stepPace:
		b.WriteString(HeaderStyle.Render("What is your natural pace?"))
		b.WriteString("\n\n")
		for i, p := range store.Paces {
			style := ChoiceStyle
			if i == o.paceIdx {
				style = ChoiceSelectedStyle
			}
			b.WriteString(style.Render(p.Label()))
			b.WriteString("\n")
			b.WriteString(FooterStyle.Render("   " + p.Description()))
			b.WriteString("\n")
		}

	case stepFocus:
		b.WriteString(HeaderStyle.Render("What matters most right now?"))
		b.WriteString("\n\n")
		b.WriteString(o.focus.View())

	case stepBlockers:
		b.WriteString(HeaderStyle.Render("What tends to get in the way?"))
		b.WriteString("\n\n")
		b.WriteString(InputPromptStyle.Render("> ") + o.blockers.View())
		b.WriteString("\n\n")
		b.WriteString(FooterStyle.Render("Comma separated. Leave empty to skip."))
	}

	b.WriteString("\n\n")
	b.WriteString(FooterStyle.Render(o.help()))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, ModalStyle.Render(b.String()))
}

func (o Onboarding) help() string {
	switch o.step {
	case stepPace:
		return "↑↓ choose  enter confirm  ctrl+c quit"
	case stepFocus:
		return "enter continue  alt+enter newline  ctrl+c quit"
	case stepBlockers:
		return "enter enter my path  ctrl+c quit"
	default:
		return "enter continue  ctrl+c quit"
	}
}

func indexOfPace(p store.Pace) int {
	for i, known := range store.Paces {
		if known == p {
			return i
		}
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
