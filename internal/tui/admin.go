package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	steeperrors "github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/role"
)

type adminState struct {
	checking bool
	loading  bool
	errText  string

	summary  *platform.BusinessSummary
	health   *platform.SystemHealth
	users    []platform.AdminUser
	payments []platform.Payment
	lines    []string

	payCursor int
}

// enterAdmin verifies the member-list role before anything in the
// admin area loads. The cached admin hint only controls whether the
// navigation entry is visible; admission is decided here.
func (m Model) enterAdmin() (Model, tea.Cmd) {
	m.screen = ScreenAdmin
	m.admin = adminState{checking: true}
	gen := m.gen
	resolver := role.NewResolver(m.client, m.store)
	return m, func() tea.Msg {
		res, err := resolver.Resolve()
		return roleResolvedMsg{gen: gen, res: res, err: err}
	}
}

func (m Model) loadAdminPanels() tea.Cmd {
	gen := m.gen
	client := m.client
	return tea.Batch(
		func() tea.Msg {
			data, err := client.GetBusinessSummary()
			return summaryMsg{gen: gen, data: data, err: err}
		},
		func() tea.Msg {
			data, err := client.GetSystemHealth()
			return healthMsg{gen: gen, data: data, err: err}
		},
		func() tea.Msg {
			users, err := client.GetAdminUsers()
			return adminUsersMsg{gen: gen, users: users, err: err}
		},
		func() tea.Msg {
			payments, err := client.GetPayments()
			return paymentsMsg{gen: gen, payments: payments, err: err}
		},
		func() tea.Msg {
			lines, err := client.GetAdminLogs()
			return logFeedMsg{gen: gen, lines: lines, err: err}
		},
	)
}

func (m Model) updateAdmin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roleResolvedMsg:
		m.admin.checking = false
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			if platform.IsForbidden(msg.err) || steeperrors.IsCode(msg.err, steeperrors.ErrCodeForbidden) {
				return m.denyAdmin()
			}
			// Upstream failure, not a permission denial: stay here
			// with the panels empty and let the user retry.
			m.admin.errText = "Could not load the admin center"
			return m, nil
		}
		if !msg.res.Role.CanViewAuditLog() {
			return m.denyAdmin()
		}
		m.dash.role = msg.res.Role
		m.admin.loading = true
		return m, tea.Batch(
			m.loadAdminPanels(),
			summaryTick(m.gen),
			logsTick(m.gen),
		)

	// Panel refreshes never surface errors: a failed poll keeps the
	// previous panel contents and the next tick tries again.
	case summaryMsg:
		m.admin.loading = false
		if msg.err == nil {
			m.admin.summary = msg.data
		}
		return m, nil
	case healthMsg:
		if msg.err == nil {
			m.admin.health = msg.data
		}
		return m, nil
	case adminUsersMsg:
		if msg.err == nil {
			m.admin.users = msg.users
		}
		return m, nil
	case paymentsMsg:
		if msg.err == nil {
			m.admin.payments = msg.payments
			if m.admin.payCursor >= len(msg.payments) {
				m.admin.payCursor = 0
			}
		}
		return m, nil
	case logFeedMsg:
		if msg.err == nil {
			m.admin.lines = msg.lines
		}
		return m, nil

	case summaryTickMsg:
		gen := m.gen
		client := m.client
		return m, tea.Batch(
			func() tea.Msg {
				data, err := client.GetBusinessSummary()
				return summaryMsg{gen: gen, data: data, err: err}
			},
			func() tea.Msg {
				data, err := client.GetSystemHealth()
				return healthMsg{gen: gen, data: data, err: err}
			},
			summaryTick(gen),
		)
	case logsTickMsg:
		gen := m.gen
		client := m.client
		return m, tea.Batch(
			func() tea.Msg {
				lines, err := client.GetAdminLogs()
				return logFeedMsg{gen: gen, lines: lines, err: err}
			},
			logsTick(gen),
		)

	case paymentRetriedMsg:
		if msg.err != nil {
			m.notice = "Payment retry failed"
			return m, nil
		}
		m.notice = "Payment retry requested"
		gen := m.gen
		client := m.client
		return m, func() tea.Msg {
			payments, err := client.GetPayments()
			return paymentsMsg{gen: gen, payments: payments, err: err}
		}

	case jobRunMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Job %q failed to start", msg.job)
		} else {
			m.notice = fmt.Sprintf("Job %q started", msg.job)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.admin.payCursor > 0 {
				m.admin.payCursor--
			}
		case "down", "j":
			if m.admin.payCursor < len(m.admin.payments)-1 {
				m.admin.payCursor++
			}
		case "r":
			if m.admin.errText != "" {
				return m.goTo(ScreenAdmin)
			}
			if len(m.admin.payments) == 0 {
				return m, nil
			}
			gen := m.gen
			id := m.admin.payments[m.admin.payCursor].ID
			client := m.client
			return m, func() tea.Msg {
				return paymentRetriedMsg{gen: gen, err: client.RetryPayment(id)}
			}
		case "1":
			return m, m.runJob("token_refresh")
		case "2":
			return m, m.runJob("daily_sync")
		case "g", "esc":
			return m.goTo(ScreenDashboard)
		case "t":
			return m.goTo(ScreenTeam)
		case "u":
			return m.goTo(ScreenAudit)
		case "o":
			return m.logout()
		}
	}
	return m, nil
}

func (m Model) denyAdmin() (Model, tea.Cmd) {
	next, cmd := m.goTo(ScreenDashboard)
	next.notice = "You do not have access to the admin area"
	return next, cmd
}

func (m Model) runJob(job string) tea.Cmd {
	gen := m.gen
	client := m.client
	return func() tea.Msg {
		return jobRunMsg{gen: gen, job: job, err: client.RunJob(job)}
	}
}

func (m Model) viewAdmin() string {
	s := m.styles.Title.Render("Admin Command Center") + "\n\n"

	if m.admin.checking {
		return s + m.spin.View() + " Checking access..."
	}
	if m.admin.errText != "" {
		return s + m.styles.Error.Render(m.admin.errText) + "\n\n" +
			m.styles.Help.Render("[r] retry · [esc] dashboard")
	}
	if m.admin.loading {
		return s + m.spin.View() + " Loading panels..."
	}

	s += m.styles.Subtitle.Render("Business Summary") + "\n"
	if sum := m.admin.summary; sum != nil {
		s += fmt.Sprintf("  Clients: %d (%d paying) · MRR: $%.2f · ARPU: $%.2f\n",
			sum.TotalClients, sum.PayingClients, sum.MRR, sum.ARPU)
	} else {
		s += m.styles.Muted.Render("  no data yet") + "\n"
	}
	s += "\n"

	s += m.styles.Subtitle.Render("System Health") + "\n"
	if h := m.admin.health; h != nil {
		s += fmt.Sprintf("  Uptime: %s · Scheduler: %s\n", h.ContainerUptime, h.SchedulerStatus)
		for _, job := range h.Jobs {
			s += fmt.Sprintf("    %-16s %-12s next %s\n", job.Name, job.Status, job.NextRun)
		}
	} else {
		s += m.styles.Muted.Render("  no data yet") + "\n"
	}
	s += "\n"

	s += m.styles.Subtitle.Render(fmt.Sprintf("Users (%d)", len(m.admin.users))) + "\n"
	for _, u := range m.admin.users {
		s += fmt.Sprintf("  %-24s %-32s %-10s %s\n", u.Name, u.Email, u.Plan, u.Role)
	}
	s += "\n"

	s += m.styles.Subtitle.Render("Payments") + "\n"
	for i, p := range m.admin.payments {
		line := fmt.Sprintf("%-32s %-10s %-10s $%.2f %-10s due %s",
			p.Email, p.Provider, p.Plan, p.MonthlyFee, p.Status, p.NextPaymentDue)
		if i == m.admin.payCursor {
			s += m.styles.NavItem.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}
	s += "\n"

	s += m.styles.Subtitle.Render("Log Feed") + "\n"
	lines := m.admin.lines
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	for _, line := range lines {
		s += m.styles.LogLine.Render("  "+line) + "\n"
	}
	s += "\n"

	s += m.styles.Help.Render("[r] retry payment · [1] refresh tokens · [2] daily sync · [esc] dashboard")
	return s
}
