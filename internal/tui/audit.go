package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	steeperrors "github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/role"
)

type auditFilterValues struct {
	email string
	start string
	end   string
}

type auditState struct {
	checking bool
	loading  bool
	allowed  bool

	events  []platform.AuditEvent
	filter  platform.AuditFilter
	tbl     table.Model
	errText string

	filtering bool
	form      *huh.Form
	values    *auditFilterValues
}

func newAuditFilterForm(v *auditFilterValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User email").Placeholder("anyone").Value(&v.email),
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").Value(&v.start),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").Value(&v.end),
		),
	)
}

func newAuditTable(events []platform.AuditEvent, height int) table.Model {
	columns := []table.Column{
		{Title: "Timestamp", Width: 22},
		{Title: "User", Width: 28},
		{Title: "Action", Width: 20},
		{Title: "Details", Width: 40},
	}
	rows := make([]table.Row, len(events))
	for i, e := range events {
		rows[i] = table.Row{e.Shown(), e.UserEmail, e.Action, e.Details}
	}
	if height < 5 {
		height = 12
	}
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
}

// enterAudit admits nobody until the member-list role has resolved.
// A role without audit access redirects to the dashboard before any
// audit query is issued.
func (m Model) enterAudit() (Model, tea.Cmd) {
	m.screen = ScreenAudit
	m.audit = auditState{checking: true}
	gen := m.gen
	resolver := role.NewResolver(m.client, m.store)
	return m, func() tea.Msg {
		res, err := resolver.Resolve()
		return roleResolvedMsg{gen: gen, res: res, err: err}
	}
}

func (m Model) loadAudit() tea.Cmd {
	gen := m.gen
	filter := m.audit.filter
	client := m.client
	return func() tea.Msg {
		events, err := client.GetAuditLog(filter)
		return auditLoadedMsg{gen: gen, events: events, err: err}
	}
}

func (m Model) updateAudit(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roleResolvedMsg:
		m.audit.checking = false
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			if platform.IsForbidden(msg.err) || steeperrors.IsCode(msg.err, steeperrors.ErrCodeForbidden) {
				return m.denyAudit()
			}
			// Upstream failure, not a permission denial: stay on the
			// screen with an empty view and let the user retry.
			m.audit.errText = "Could not load the audit log"
			return m, nil
		}
		if !msg.res.Role.CanViewAuditLog() {
			return m.denyAudit()
		}
		m.dash.role = msg.res.Role
		m.audit.allowed = true
		m.audit.loading = true
		return m, m.loadAudit()

	case auditLoadedMsg:
		m.audit.loading = false
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			if platform.IsForbidden(msg.err) {
				return m.denyAudit()
			}
			m.audit.errText = "Could not load the audit log"
			return m, nil
		}
		m.audit.errText = ""
		m.audit.events = msg.events
		m.audit.tbl = newAuditTable(msg.events, m.height-10)
		return m, nil

	case auditExportedMsg:
		if msg.err != nil {
			m.notice = "Export failed"
		} else {
			m.notice = "Exported to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if !m.audit.allowed {
			switch msg.String() {
			case "r":
				return m.goTo(ScreenAudit)
			case "g", "esc":
				return m.goTo(ScreenDashboard)
			case "o":
				return m.logout()
			}
			return m, nil
		}
		if m.audit.filtering {
			return m.updateAuditFilterForm(msg)
		}
		switch msg.String() {
		case "f":
			v := &auditFilterValues{
				email: m.audit.filter.Email,
				start: m.audit.filter.Start,
				end:   m.audit.filter.End,
			}
			m.audit.filtering = true
			m.audit.values = v
			m.audit.form = newAuditFilterForm(v)
			return m, m.audit.form.Init()
		case "c":
			m.audit.filter = platform.AuditFilter{}
			m.audit.loading = true
			return m, m.loadAudit()
		case "r":
			m.audit.loading = true
			return m, m.loadAudit()
		case "x":
			return m, m.exportAudit()
		case "g", "esc":
			return m.goTo(ScreenDashboard)
		case "t":
			return m.goTo(ScreenTeam)
		case "a":
			return m.goTo(ScreenAdmin)
		case "o":
			return m.logout()
		}
	}

	if m.audit.filtering {
		return m.updateAuditFilterForm(msg)
	}

	var cmd tea.Cmd
	m.audit.tbl, cmd = m.audit.tbl.Update(msg)
	return m, cmd
}

func (m Model) denyAudit() (Model, tea.Cmd) {
	next, cmd := m.goTo(ScreenDashboard)
	next.notice = "You do not have access to the audit log"
	return next, cmd
}

func (m Model) updateAuditFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.audit.filtering = false
		return m, nil
	}

	form, cmd := m.audit.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.audit.form = f
	}

	if m.audit.form.State == huh.StateCompleted {
		v := *m.audit.values
		m.audit.filtering = false
		m.audit.filter = platform.AuditFilter{Email: v.email, Start: v.start, End: v.end}
		m.audit.loading = true
		return m, tea.Batch(cmd, m.loadAudit())
	}
	return m, cmd
}

// exportAudit writes the currently displayed events, filters applied,
// to a dated CSV in the working directory.
func (m Model) exportAudit() tea.Cmd {
	gen := m.gen
	events := m.audit.events
	name := platform.AuditExportFilename(m.clock())
	return func() tea.Msg {
		path, err := filepath.Abs(name)
		if err != nil {
			path = name
		}
		f, err := os.Create(path)
		if err != nil {
			return auditExportedMsg{gen: gen, err: err}
		}
		defer f.Close()
		if err := platform.WriteAuditCSV(f, events); err != nil {
			return auditExportedMsg{gen: gen, err: err}
		}
		return auditExportedMsg{gen: gen, path: path}
	}
}

func (m Model) viewAudit() string {
	s := m.styles.Title.Render("Audit Log") + "\n\n"

	if m.audit.checking {
		return s + m.spin.View() + " Checking access..."
	}
	if m.audit.loading {
		return s + m.spin.View() + " Loading audit log..."
	}
	if m.audit.errText != "" {
		return s + m.styles.Error.Render(m.audit.errText) + "\n\n" +
			m.styles.Help.Render("[r] retry · [esc] dashboard")
	}

	if m.audit.filtering {
		return s + m.styles.Subtitle.Render("Filter") + "\n\n" +
			m.audit.form.View() + "\n" + m.styles.Help.Render("[esc] cancel")
	}

	if f := m.audit.filter; f.Email != "" || f.Start != "" || f.End != "" {
		parts := ""
		if f.Email != "" {
			parts += " user=" + f.Email
		}
		if f.Start != "" {
			parts += " from=" + f.Start
		}
		if f.End != "" {
			parts += " to=" + f.End
		}
		s += m.styles.Muted.Render("Filters:"+parts) + "\n\n"
	}

	if len(m.audit.events) == 0 {
		s += m.styles.Muted.Render("No events match.") + "\n"
	} else {
		s += m.audit.tbl.View() + "\n"
		s += m.styles.Muted.Render(fmt.Sprintf("%d events, newest first", len(m.audit.events))) + "\n"
	}

	s += "\n" + m.styles.Help.Render("[f] filter · [c] clear filters · [x] export csv · [r] refresh · [esc] dashboard")
	return s
}
