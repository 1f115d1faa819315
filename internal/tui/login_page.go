package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joefazee/globeguide/models"
)

const (
	fieldEmail = iota
	fieldPassword
)

type loginPage struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	fields     map[string]string
	err        error
}

func newLoginPage() loginPage {
	email := textinput.New()
	email.Prompt = "Email    "
	email.Placeholder = "you@example.com"
	email.CharLimit = 255
	email.Focus()

	password := textinput.New()
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return loginPage{inputs: []textinput.Model{email, password}}
}

func (l loginPage) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (l loginPage) setFocus(i int) loginPage {
	l.focus = (i + len(l.inputs)) % len(l.inputs)
	for j := range l.inputs {
		if j == l.focus {
			l.inputs[j].Focus()
		} else {
			l.inputs[j].Blur()
		}
	}
	return l
}

// withError keeps field messages separate so they render under their input.
func (l loginPage) withError(err error) loginPage {
	l.fields = nil
	l.err = nil
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		l.fields = ve.Fields
		return l
	}
	l.err = err
	return l
}

func (l loginPage) update(msg tea.Msg) (loginPage, tea.Cmd) {
	cmds := make([]tea.Cmd, len(l.inputs))
	for i := range l.inputs {
		l.inputs[i], cmds[i] = l.inputs[i].Update(msg)
	}
	return l, tea.Batch(cmds...)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.login
	switch msg.Type {
	case tea.KeyEsc:
		return m.navigate(pageList)
	case tea.KeyTab, tea.KeyDown:
		m.login = l.setFocus(l.focus + 1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.login = l.setFocus(l.focus - 1)
		return m, nil
	case tea.KeyEnter:
		if l.focus == fieldEmail {
			m.login = l.setFocus(fieldPassword)
			return m, nil
		}
		if l.submitting {
			return m, nil
		}
		l.submitting = true
		l.fields = nil
		l.err = nil
		m.login = l
		return m, signIn(m.ctx, m.deps.Auth,
			l.inputs[fieldEmail].Value(), l.inputs[fieldPassword].Value(), m.gen)
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	m.login = l
	return m, cmd
}

func (m Model) viewLogin() string {
	l := m.login
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Sign in"))
	b.WriteString("\n")

	for i, name := range []string{"email", "password"} {
		b.WriteString(l.inputs[i].View())
		b.WriteString("\n")
		if msg, ok := l.fields[name]; ok {
			b.WriteString(m.styles.Error.Render("  " + name + " " + msg))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch {
	case l.submitting:
		b.WriteString(m.styles.Muted.Render("Signing in…"))
	case errors.Is(l.err, models.ErrUnauthorized):
		b.WriteString(m.styles.Error.Render("Invalid email or password."))
	case l.err != nil:
		b.WriteString(m.styles.Error.Render(errorText(l.err)))
	default:
		b.WriteString(m.styles.Muted.Render("tab switch field · enter sign in · esc cancel"))
	}
	return b.String()
}
