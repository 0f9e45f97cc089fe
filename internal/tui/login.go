package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/steeplefin/steeple/internal/log"
	"github.com/steeplefin/steeple/internal/platform"
)

// loginValues is heap-allocated so the huh form and every copy of the
// model observe the same field contents.
type loginValues struct {
	email    string
	password string
}

type loginState struct {
	form    *huh.Form
	values  *loginValues
	busy    bool
	errText string
}

type signupValues struct {
	companyName string
	email       string
	password    string
}

type signupState struct {
	form    *huh.Form
	values  *signupValues
	busy    bool
	errText string
}

func newLoginForm(v *loginValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&v.email),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password),
		),
	)
}

func newSignupForm(v *signupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("company").
				Title("Church / Organization Name").
				Value(&v.companyName),
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&v.email),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password),
		),
	)
}

func (m Model) enterLogin() (Model, tea.Cmd) {
	m.screen = ScreenLogin
	values := &loginValues{}
	m.login = loginState{form: newLoginForm(values), values: values}
	return m, m.login.form.Init()
}

func (m Model) enterSignup() (Model, tea.Cmd) {
	m.screen = ScreenSignup
	values := &signupValues{}
	m.signup = signupState{form: newSignupForm(values), values: values}
	return m, m.signup.form.Init()
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.login.busy = false
		if msg.err != nil || msg.token == "" {
			m.login.errText = loginFailureText(msg.err)
			// Failed attempts leave the stored session untouched.
			values := m.login.values
			values.password = ""
			m.login.form = newLoginForm(values)
			return m, m.login.form.Init()
		}
		if err := m.store.SetToken(msg.token); err != nil {
			log.DefaultLogger().WithError(err).Warn("persisting session")
		}
		m.client.SetToken(msg.token)
		next, cmd := m.afterLogin()
		next.notice = "Welcome back"
		return next, cmd

	case tea.KeyMsg:
		if m.login.busy {
			return m, nil
		}
		if msg.String() == "ctrl+s" {
			return m.goTo(ScreenSignup)
		}
	}

	if m.login.busy {
		return m, nil
	}

	form, cmd := m.login.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.login.form = f
	}

	if m.login.form.State == huh.StateCompleted {
		m.login.busy = true
		m.login.errText = ""
		gen := m.gen
		email := m.login.values.email
		password := m.login.values.password
		client := m.client
		return m, tea.Batch(cmd, func() tea.Msg {
			resp, err := client.Login(email, password)
			if err != nil {
				return loginResultMsg{gen: gen, err: err}
			}
			return loginResultMsg{gen: gen, token: resp.Token}
		})
	}
	return m, cmd
}

// loginFailureText maps a login failure to the message shown above the
// form. Credential rejections and server faults read differently.
func loginFailureText(err error) string {
	switch {
	case err == nil:
		return "Login failed"
	case platform.IsAuthRequired(err):
		return "Invalid credentials"
	case platform.IsServerError(err):
		return "Server error. Please try again later."
	default:
		return "Login failed"
	}
}

func (m Model) updateSignup(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signupResultMsg:
		m.signup.busy = false
		if msg.err != nil {
			m.signup.errText = signupFailureText(msg.err)
			values := m.signup.values
			values.password = ""
			m.signup.form = newSignupForm(values)
			return m, m.signup.form.Init()
		}
		// Signup never logs in; the user authenticates explicitly.
		next, cmd := m.goTo(ScreenLogin)
		next.notice = "Account created. Please log in to continue."
		return next, cmd

	case tea.KeyMsg:
		if m.signup.busy {
			return m, nil
		}
		if msg.String() == "esc" {
			return m.goTo(ScreenLogin)
		}
	}

	if m.signup.busy {
		return m, nil
	}

	form, cmd := m.signup.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.signup.form = f
	}

	if m.signup.form.State == huh.StateCompleted {
		m.signup.busy = true
		m.signup.errText = ""
		gen := m.gen
		v := *m.signup.values
		client := m.client
		return m, tea.Batch(cmd, func() tea.Msg {
			err := client.Register(v.companyName, v.email, v.password)
			return signupResultMsg{gen: gen, err: err}
		})
	}
	return m, cmd
}

func signupFailureText(err error) string {
	if platform.IsServerError(err) {
		return "Server error. Please try again later."
	}
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Signup failed"
}

func (m Model) viewLogin() string {
	s := m.styles.Title.Render("Sign in to Steeple") + "\n\n"
	if m.login.errText != "" {
		s += m.styles.Error.Render(m.login.errText) + "\n\n"
	}
	if m.login.busy {
		s += m.spin.View() + " Signing in..."
		return s
	}
	s += m.login.form.View()
	s += "\n" + m.styles.Help.Render("[ctrl+s] create an account")
	return s
}

func (m Model) viewSignup() string {
	s := m.styles.Title.Render("Create your Steeple account") + "\n\n"
	if m.signup.errText != "" {
		s += m.styles.Error.Render(m.signup.errText) + "\n\n"
	}
	if m.signup.busy {
		s += m.spin.View() + " Creating account..."
		return s
	}
	s += m.signup.form.View()
	s += "\n" + m.styles.Help.Render("[esc] back to login")
	return s
}
