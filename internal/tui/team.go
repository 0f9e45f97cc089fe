package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/steeplefin/steeple/internal/platform"
)

type memberValues struct {
	name  string
	email string
	role  string
}

type teamState struct {
	loading bool
	me      *platform.Identity
	members []platform.CompanyUser
	cursor  int
	errText string

	// mode is "" (list), "add", "edit", or "delete"
	mode     string
	form     *huh.Form
	values   *memberValues
	editID   int64
	busy     bool
}

var memberRoles = []string{"Owner", "Admin", "Member", "Analyst"}

func newMemberForm(v *memberValues) *huh.Form {
	opts := make([]huh.Option[string], len(memberRoles))
	for i, r := range memberRoles {
		opts[i] = huh.NewOption(r, r)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&v.name),
			huh.NewInput().Title("Email").Value(&v.email),
			huh.NewSelect[string]().Title("Role").Options(opts...).Value(&v.role),
		),
	)
}

func (m Model) enterTeam() (Model, tea.Cmd) {
	m.screen = ScreenTeam
	m.team = teamState{loading: true}
	return m, m.loadTeam()
}

func (m Model) loadTeam() tea.Cmd {
	gen := m.gen
	client := m.client
	return func() tea.Msg {
		me, err := client.CurrentUser()
		if err != nil {
			return teamLoadedMsg{gen: gen, err: err}
		}
		members, err := client.GetCompanyUsers()
		return teamLoadedMsg{gen: gen, me: me, members: members, err: err}
	}
}

func (m Model) updateTeam(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case teamLoadedMsg:
		m.team.loading = false
		m.team.busy = false
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			m.team.errText = "Could not load the member list"
			return m, nil
		}
		m.team.me = msg.me
		m.team.members = msg.members
		m.team.errText = ""
		if m.team.cursor >= len(msg.members) {
			m.team.cursor = 0
		}
		return m, nil

	case teamActionDoneMsg:
		m.team.busy = false
		m.team.mode = ""
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			m.notice = teamFailureText(msg.err)
			return m, nil
		}
		m.team.loading = true
		return m, m.loadTeam()

	case tea.KeyMsg:
		if m.team.busy {
			return m, nil
		}
		switch m.team.mode {
		case "add", "edit":
			return m.updateMemberForm(msg)
		case "delete":
			switch msg.String() {
			case "y":
				m.team.busy = true
				gen := m.gen
				id := m.team.members[m.team.cursor].ID
				client := m.client
				return m, func() tea.Msg {
					return teamActionDoneMsg{gen: gen, err: client.DeleteCompanyUser(id)}
				}
			case "n", "esc":
				m.team.mode = ""
			}
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.team.cursor > 0 {
				m.team.cursor--
			}
		case "down", "j":
			if m.team.cursor < len(m.team.members)-1 {
				m.team.cursor++
			}
		case "n":
			v := &memberValues{role: "Member"}
			m.team.mode = "add"
			m.team.values = v
			m.team.form = newMemberForm(v)
			return m, m.team.form.Init()
		case "e":
			if len(m.team.members) == 0 {
				return m, nil
			}
			cur := m.team.members[m.team.cursor]
			v := &memberValues{name: cur.Name, email: cur.Email, role: cur.Role}
			m.team.mode = "edit"
			m.team.editID = cur.ID
			m.team.values = v
			m.team.form = newMemberForm(v)
			return m, m.team.form.Init()
		case "d":
			if len(m.team.members) == 0 {
				return m, nil
			}
			m.team.mode = "delete"
		case "g":
			return m.goTo(ScreenDashboard)
		case "a":
			return m.goTo(ScreenAdmin)
		case "u":
			return m.goTo(ScreenAudit)
		case "o":
			return m.logout()
		case "esc":
			return m.goTo(ScreenDashboard)
		case "r":
			m.team.loading = true
			return m, m.loadTeam()
		}
		return m, nil
	}

	if m.team.mode == "add" || m.team.mode == "edit" {
		return m.updateMemberForm(msg)
	}
	return m, nil
}

func (m Model) updateMemberForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.team.mode = ""
		return m, nil
	}

	form, cmd := m.team.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.team.form = f
	}

	if m.team.form.State == huh.StateCompleted {
		v := *m.team.values

		// Local duplicate check before the request goes out, matching
		// what the member list already shows.
		if m.team.mode == "add" && m.hasMemberEmail(v.email) {
			m.team.mode = ""
			m.notice = "User already part of company"
			return m, cmd
		}

		m.team.busy = true
		gen := m.gen
		mode := m.team.mode
		editID := m.team.editID
		client := m.client
		return m, tea.Batch(cmd, func() tea.Msg {
			req := platform.CompanyUserRequest{Name: v.name, Email: v.email, Role: v.role}
			var err error
			if mode == "edit" {
				err = client.UpdateCompanyUser(editID, req)
			} else {
				err = client.AddCompanyUser(req)
			}
			return teamActionDoneMsg{gen: gen, err: err}
		})
	}
	return m, cmd
}

func (m Model) hasMemberEmail(email string) bool {
	for _, member := range m.team.members {
		if strings.EqualFold(member.Email, email) {
			return true
		}
	}
	return false
}

func teamFailureText(err error) string {
	if platform.IsForbidden(err) {
		return "Your role does not allow managing members"
	}
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "The change could not be saved"
}

func (m Model) viewTeam() string {
	s := m.styles.Title.Render("Team") + "\n\n"

	if m.team.loading {
		return s + m.spin.View() + " Loading members..."
	}
	if m.team.errText != "" {
		return s + m.styles.Error.Render(m.team.errText) + "\n\n" +
			m.styles.Help.Render("[r] retry · [esc] dashboard")
	}

	switch m.team.mode {
	case "add":
		if m.team.busy {
			return s + m.spin.View() + " Adding member..."
		}
		return s + m.styles.Subtitle.Render("Add Member") + "\n\n" +
			m.team.form.View() + "\n" + m.styles.Help.Render("[esc] cancel")
	case "edit":
		if m.team.busy {
			return s + m.spin.View() + " Saving member..."
		}
		return s + m.styles.Subtitle.Render("Edit Member") + "\n\n" +
			m.team.form.View() + "\n" + m.styles.Help.Render("[esc] cancel")
	case "delete":
		cur := m.team.members[m.team.cursor]
		return s + fmt.Sprintf("Remove %s (%s) from the company?", cur.Name, cur.Email) +
			"\n\n" + m.styles.Help.Render("[y] remove · [n] keep")
	}

	if len(m.team.members) == 0 {
		s += m.styles.Muted.Render("No members yet.") + "\n"
	}
	for i, member := range m.team.members {
		line := fmt.Sprintf("%-24s %-32s %s", member.Name, member.Email, member.Role)
		if m.team.me != nil && member.ID == m.team.me.UserID {
			line += "  (you)"
		}
		if i == m.team.cursor {
			s += m.styles.NavItem.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}

	s += "\n" + m.styles.Help.Render("[n] add · [e] edit · [d] remove · [r] refresh · [esc] dashboard")
	return s
}
