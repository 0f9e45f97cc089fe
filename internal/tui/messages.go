package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/role"
)

// Polling cadence for the admin command center panels.
const (
	summaryPollInterval = 60 * time.Second
	logsPollInterval    = 15 * time.Second
)

// Every asynchronous message carries the navigation generation it was
// spawned under. Update drops messages whose generation is stale: the
// screen that asked for them has been torn down, and a disposed view
// must not be mutated.

// loginResultMsg is the outcome of a login attempt
type loginResultMsg struct {
	gen   int
	token string
	err   error
}

// signupResultMsg is the outcome of a signup attempt
type signupResultMsg struct {
	gen int
	err error
}

// roleResolvedMsg is the outcome of a role resolution
type roleResolvedMsg struct {
	gen int
	res *role.Resolution
	err error
}

// dashboardLoadedMsg carries the dashboard's company data
type dashboardLoadedMsg struct {
	gen  int
	info *platform.CompanyInfo
	err  error
}

// teamLoadedMsg carries the team screen's member list
type teamLoadedMsg struct {
	gen     int
	me      *platform.Identity
	members []platform.CompanyUser
	err     error
}

// teamActionDoneMsg is the outcome of an add/edit/delete
type teamActionDoneMsg struct {
	gen int
	err error
}

// settingsSavedMsg is the outcome of a company settings save
type settingsSavedMsg struct {
	gen  int
	info *platform.CompanyInfo
	err  error
}

// connectURLMsg carries the QuickBooks OAuth URL
type connectURLMsg struct {
	gen int
	url string
	err error
}

// auditLoadedMsg carries the audit log query result
type auditLoadedMsg struct {
	gen    int
	events []platform.AuditEvent
	err    error
}

// auditExportedMsg is the outcome of a CSV export
type auditExportedMsg struct {
	gen  int
	path string
	err  error
}

// Admin panel results. Failures are swallowed by the panels: err is
// recorded only so the panel can keep its previous state.

type summaryMsg struct {
	gen  int
	data *platform.BusinessSummary
	err  error
}

type healthMsg struct {
	gen  int
	data *platform.SystemHealth
	err  error
}

type logFeedMsg struct {
	gen   int
	lines []string
	err   error
}

type adminUsersMsg struct {
	gen   int
	users []platform.AdminUser
	err   error
}

type paymentsMsg struct {
	gen      int
	payments []platform.Payment
	err      error
}

type paymentRetriedMsg struct {
	gen int
	err error
}

type jobRunMsg struct {
	gen int
	job string
	err error
}

// Poll ticks. Each poll reschedules itself only while its generation
// is still current; navigation away clears the interval by bumping
// the generation.

type summaryTickMsg struct{ gen int }
type logsTickMsg struct{ gen int }

func summaryTick(gen int) tea.Cmd {
	return tea.Tick(summaryPollInterval, func(time.Time) tea.Msg {
		return summaryTickMsg{gen: gen}
	})
}

func logsTick(gen int) tea.Cmd {
	return tea.Tick(logsPollInterval, func(time.Time) tea.Msg {
		return logsTickMsg{gen: gen}
	})
}
