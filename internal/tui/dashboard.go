package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	steeperrors "github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/role"
)

type settingsValues struct {
	companyName string
	industry    string
	timezone    string
	currency    string
	address     string
	phone       string
	email       string
}

type dashState struct {
	loading  bool
	info     *platform.CompanyInfo
	identity *platform.Identity
	role     role.Role
	resolved bool
	errText  string

	editing  bool
	form     *huh.Form
	values   *settingsValues
	saveBusy bool

	connectURL string
}

func newSettingsForm(v *settingsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Organization Name").Value(&v.companyName),
			huh.NewInput().Title("Industry").Value(&v.industry),
			huh.NewInput().Title("Timezone").Value(&v.timezone),
			huh.NewInput().Title("Currency").Value(&v.currency),
			huh.NewInput().Title("Address").Value(&v.address),
			huh.NewInput().Title("Phone").Value(&v.phone),
			huh.NewInput().Title("Email").Value(&v.email),
		),
	)
}

func (m Model) enterDashboard() (Model, tea.Cmd) {
	m.screen = ScreenDashboard
	m.dash = dashState{loading: true}
	gen := m.gen
	client := m.client
	resolver := role.NewResolver(client, m.store)
	return m, tea.Batch(
		func() tea.Msg {
			res, err := resolver.Resolve()
			return roleResolvedMsg{gen: gen, res: res, err: err}
		},
		func() tea.Msg {
			info, err := client.GetCompanyInfo()
			return dashboardLoadedMsg{gen: gen, info: info, err: err}
		},
	)
}

// handleSessionLoss redirects to login when an API call reports the
// session is no longer accepted, mirroring what the route guard would
// have decided with fresh information.
func (m Model) handleSessionLoss(err error) (Model, tea.Cmd, bool) {
	if platform.IsAuthRequired(err) || steeperrors.IsCode(err, steeperrors.ErrCodeAuthRequired) {
		m.returnTo = m.screen
		m.hasReturn = true
		next, cmd := m.goTo(ScreenLogin)
		return next, cmd, true
	}
	return m, nil, false
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roleResolvedMsg:
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			// Role stays Unknown; the dashboard still renders, but
			// role-gated affordances remain hidden.
			m.dash.resolved = true
			return m, nil
		}
		m.dash.identity = msg.res.Identity
		m.dash.role = msg.res.Role
		m.dash.resolved = true
		return m, nil

	case dashboardLoadedMsg:
		m.dash.loading = false
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			m.dash.errText = "Could not load company info"
			return m, nil
		}
		m.dash.info = msg.info
		return m, nil

	case settingsSavedMsg:
		m.dash.saveBusy = false
		m.dash.editing = false
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			m.notice = "Saving settings failed"
			return m, nil
		}
		m.dash.info = msg.info
		m.notice = "Settings saved"
		return m, nil

	case connectURLMsg:
		if msg.err != nil {
			if next, cmd, ok := m.handleSessionLoss(msg.err); ok {
				return next, cmd
			}
			m.notice = "Could not start the QuickBooks connection"
			return m, nil
		}
		m.dash.connectURL = msg.url
		m.notice = "Open this URL to connect QuickBooks:\n" + msg.url
		return m, nil

	case tea.KeyMsg:
		if m.dash.editing {
			return m.updateSettingsForm(msg)
		}
		switch msg.String() {
		case "t":
			return m.goTo(ScreenTeam)
		case "a":
			return m.goTo(ScreenAdmin)
		case "u":
			return m.goTo(ScreenAudit)
		case "o":
			return m.logout()
		case "e":
			if m.dash.info == nil {
				return m, nil
			}
			v := &settingsValues{
				companyName: m.dash.info.CompanyName,
				industry:    m.dash.info.Industry,
				timezone:    m.dash.info.Timezone,
				currency:    m.dash.info.Currency,
				address:     m.dash.info.Address,
				phone:       m.dash.info.Phone,
				email:       m.dash.info.Email,
			}
			m.dash.editing = true
			m.dash.values = v
			m.dash.form = newSettingsForm(v)
			return m, m.dash.form.Init()
		case "c":
			gen := m.gen
			client := m.client
			return m, func() tea.Msg {
				url, err := client.QBConnectURL()
				return connectURLMsg{gen: gen, url: url, err: err}
			}
		}
	}

	if m.dash.editing {
		return m.updateSettingsForm(msg)
	}
	return m, nil
}

func (m Model) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.dash.saveBusy {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.dash.editing = false
		return m, nil
	}

	form, cmd := m.dash.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.dash.form = f
	}

	if m.dash.form.State == huh.StateCompleted {
		m.dash.saveBusy = true
		gen := m.gen
		v := *m.dash.values
		client := m.client
		return m, tea.Batch(cmd, func() tea.Msg {
			info, err := client.UpdateCompanySettings(platform.CompanySettings{
				CompanyName: v.companyName,
				Industry:    v.industry,
				Timezone:    v.timezone,
				Currency:    v.currency,
				Address:     v.address,
				Phone:       v.phone,
				Email:       v.email,
			})
			return settingsSavedMsg{gen: gen, info: info, err: err}
		})
	}
	return m, cmd
}

func (m Model) viewDashboard() string {
	s := m.styles.Title.Render("Dashboard") + "\n\n"

	if m.dash.loading {
		return s + m.spin.View() + " Loading company info..."
	}
	if m.dash.errText != "" {
		s += m.styles.Error.Render(m.dash.errText) + "\n\n"
	}

	if m.dash.editing {
		if m.dash.saveBusy {
			return s + m.spin.View() + " Saving settings..."
		}
		return s + m.styles.Subtitle.Render("Company Settings") + "\n\n" +
			m.dash.form.View() + "\n" + m.styles.Help.Render("[esc] cancel")
	}

	if info := m.dash.info; info != nil {
		s += m.styles.Subtitle.Render(info.CompanyName) + "\n"
		s += fmt.Sprintf("  Plan:     %s (%s)\n", info.SubscriptionPlan, info.Status)
		s += fmt.Sprintf("  Members:  %d\n", info.UserCount)
		s += fmt.Sprintf("  Industry: %s\n", info.Industry)
		s += fmt.Sprintf("  Timezone: %s · Currency: %s\n", info.Timezone, info.Currency)
		if info.Address != "" {
			s += fmt.Sprintf("  Address:  %s\n", info.Address)
		}
		s += "\n"
	}

	if me := m.dash.identity; me != nil {
		roleName := string(m.dash.role)
		if m.dash.role == role.Unknown {
			roleName = "member"
		}
		s += m.styles.Muted.Render(fmt.Sprintf("Signed in as %s (%s)", me.Email, roleName)) + "\n\n"
	}

	s += m.styles.Subtitle.Render("Billing") + "\n"
	s += "  Invoices and payment history are managed by your provider.\n"
	if m.dash.role.CanManageBilling() {
		// Billing management has no backend yet; Owners see the entry
		// disabled rather than absent.
		s += "  " + m.styles.Disabled.Render("[Manage Subscription] (coming soon)") + "\n"
	}
	s += "\n"

	s += m.styles.Help.Render("[e] edit settings · [c] connect QuickBooks · [t] team · [o] logout")
	return s
}
