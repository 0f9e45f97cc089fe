// Package tui is the interactive Steeple console.
//
// One Bubble Tea model drives every screen. Screens correspond to the
// routes of the web console: login, signup, dashboard (the default
// authenticated screen), team management, the admin command center,
// and the audit log. Entering a protected screen re-evaluates the
// route guard; asynchronous results are tagged with a navigation
// generation so a torn-down screen never receives them.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steeplefin/steeple/internal/guard"
	"github.com/steeplefin/steeple/internal/log"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/session"
)

// Screen identifies the view currently displayed
type Screen int

const (
	// ScreenLogin is the sign-in form
	ScreenLogin Screen = iota
	// ScreenSignup is the account creation form
	ScreenSignup
	// ScreenDashboard is the default authenticated screen
	ScreenDashboard
	// ScreenTeam is company member management
	ScreenTeam
	// ScreenAdmin is the admin command center
	ScreenAdmin
	// ScreenAudit is the audit log viewer
	ScreenAudit
)

// String returns a short label for logging.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenSignup:
		return "signup"
	case ScreenDashboard:
		return "dashboard"
	case ScreenTeam:
		return "team"
	case ScreenAdmin:
		return "admin"
	case ScreenAudit:
		return "audit"
	default:
		return "unknown"
	}
}

// Protected reports whether the screen sits behind the route guard.
func (s Screen) Protected() bool {
	switch s {
	case ScreenDashboard, ScreenTeam, ScreenAdmin, ScreenAudit:
		return true
	default:
		return false
	}
}

// navigateMsg asks the model to move to another screen
type navigateMsg struct {
	target Screen
}

// Model is the console application state
type Model struct {
	store  session.Store
	client *platform.Client
	clock  func() time.Time

	screen    Screen
	returnTo  Screen
	hasReturn bool
	gen       int

	width  int
	height int
	ready  bool

	quitting bool

	// notice is a blocking modal: while set, all input except the
	// acknowledgment keys is swallowed.
	notice string

	spin   spinner.Model
	styles Styles

	login  loginState
	signup signupState
	dash   dashState
	team   teamState
	admin  adminState
	audit  auditState
}

// NewModel creates the console model over the given session store and
// platform client. A token already present in the store is attached to
// the client so the first request after a restart is authenticated.
func NewModel(store session.Store, client *platform.Client) Model {
	if tok, ok := store.Token(); ok {
		client.SetToken(tok)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		store:  store,
		client: client,
		clock:  time.Now,
		screen: ScreenLogin,
		spin:   sp,
		styles: DefaultStyles(),
	}
}

// Init starts on the dashboard; the guard inside goTo bounces a
// missing or stale session to the login screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return navigateMsg{target: ScreenDashboard} },
	)
}

// goTo tears down the current screen and enters the target. Entering
// any protected screen consults the route guard with a fresh clock
// reading; denial redirects to login, remembering the attempted
// destination so login can return the user there.
func (m Model) goTo(target Screen) (Model, tea.Cmd) {
	m.gen++
	m.notice = ""

	if target.Protected() {
		if state := guard.Evaluate(m.store, m.clock()); !state.Allows() {
			log.DefaultLogger().Debug("route guard denied",
				"state", state.String(), "target", target.String())
			m.returnTo = target
			m.hasReturn = true
			return m.enterLogin()
		}
	}

	switch target {
	case ScreenLogin:
		return m.enterLogin()
	case ScreenSignup:
		return m.enterSignup()
	case ScreenDashboard:
		return m.enterDashboard()
	case ScreenTeam:
		return m.enterTeam()
	case ScreenAdmin:
		return m.enterAdmin()
	case ScreenAudit:
		return m.enterAudit()
	default:
		// Unknown destinations land on login, like unknown routes.
		return m.enterLogin()
	}
}

// afterLogin is where a fresh session lands: the remembered
// destination if the guard captured one, otherwise the dashboard.
func (m Model) afterLogin() (Model, tea.Cmd) {
	target := ScreenDashboard
	if m.hasReturn {
		target = m.returnTo
		m.hasReturn = false
	}
	return m.goTo(target)
}

// logout clears the session and returns to the login screen.
func (m Model) logout() (Model, tea.Cmd) {
	if err := m.store.Clear(); err != nil {
		log.DefaultLogger().WithError(err).Warn("clearing session")
	}
	m.client.ClearToken()
	m.hasReturn = false
	return m.goTo(ScreenLogin)
}

// Update handles messages (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case navigateMsg:
		return m.goTo(msg.target)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.notice != "" {
			// Blocking modal: only acknowledgment gets through.
			switch msg.String() {
			case "enter", "esc", " ":
				m.notice = ""
			}
			return m, nil
		}
	}

	// Drop results addressed to a screen that has been torn down.
	if gen, ok := messageGeneration(msg); ok && gen != m.gen {
		return m, nil
	}

	switch m.screen {
	case ScreenLogin:
		return m.updateLogin(msg)
	case ScreenSignup:
		return m.updateSignup(msg)
	case ScreenDashboard:
		return m.updateDashboard(msg)
	case ScreenTeam:
		return m.updateTeam(msg)
	case ScreenAdmin:
		return m.updateAdmin(msg)
	case ScreenAudit:
		return m.updateAudit(msg)
	default:
		return m, nil
	}
}

// messageGeneration extracts the navigation generation from async
// result messages. The second result is false for messages that are
// not generation-tagged (keys, ticks of the spinner, etc).
func messageGeneration(msg tea.Msg) (int, bool) {
	switch msg := msg.(type) {
	case loginResultMsg:
		return msg.gen, true
	case signupResultMsg:
		return msg.gen, true
	case roleResolvedMsg:
		return msg.gen, true
	case dashboardLoadedMsg:
		return msg.gen, true
	case teamLoadedMsg:
		return msg.gen, true
	case teamActionDoneMsg:
		return msg.gen, true
	case settingsSavedMsg:
		return msg.gen, true
	case connectURLMsg:
		return msg.gen, true
	case auditLoadedMsg:
		return msg.gen, true
	case auditExportedMsg:
		return msg.gen, true
	case summaryMsg:
		return msg.gen, true
	case healthMsg:
		return msg.gen, true
	case logFeedMsg:
		return msg.gen, true
	case adminUsersMsg:
		return msg.gen, true
	case paymentsMsg:
		return msg.gen, true
	case paymentRetriedMsg:
		return msg.gen, true
	case jobRunMsg:
		return msg.gen, true
	case summaryTickMsg:
		return msg.gen, true
	case logsTickMsg:
		return msg.gen, true
	default:
		return 0, false
	}
}

// View renders the console (required by Bubble Tea)
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case ScreenLogin:
		body = m.viewLogin()
	case ScreenSignup:
		body = m.viewSignup()
	case ScreenDashboard:
		body = m.viewDashboard()
	case ScreenTeam:
		body = m.viewTeam()
	case ScreenAdmin:
		body = m.viewAdmin()
	case ScreenAudit:
		body = m.viewAudit()
	default:
		body = "Unknown screen"
	}

	view := m.viewNav() + "\n" + body

	if m.notice != "" {
		view += "\n\n" + m.styles.Notice.Render(m.notice+"\n\n[enter] ok")
	}
	return view
}

// viewNav renders the top navigation line. The admin entry follows the
// cached admin hint for instant display; the audit entry appears only
// once the member-list role has actually resolved on this screen.
func (m Model) viewNav() string {
	brand := m.styles.NavItem.Render("Steeple Financial")

	if _, loggedIn := m.store.Token(); !loggedIn {
		return m.styles.Nav.Render(brand + "   login · signup")
	}

	nav := brand + "   [g] dashboard · [t] team"
	if m.store.AdminHint() {
		nav += " · [a] admin"
	}
	if m.dash.role.CanViewAuditLog() {
		nav += " · [u] audit log"
	}
	nav += " · [o] logout · [ctrl+c] quit"
	return m.styles.Nav.Render(nav)
}
