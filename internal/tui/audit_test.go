package tui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steeplefin/steeple/internal/session"
)

// fakePlatform serves identity, membership, and audit endpoints and
// counts audit queries so tests can assert the gate never issued one.
func fakePlatform(t *testing.T, ownRole string, auditHits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/me":
			fmt.Fprint(w, `{"user_id": 7, "company_name": "Grace Chapel", "email": "pat@grace.org", "is_admin": false}`)
		case "/api/company/users":
			fmt.Fprintf(w, `{"users": [{"id": 7, "name": "Pat", "email": "pat@grace.org", "role": %q}]}`, ownRole)
		case "/api/company/audit-log":
			auditHits.Add(1)
			fmt.Fprint(w, `[
				{"timestamp": "2026-08-01T10:00:00Z", "user_email": "pat@grace.org", "action": "login", "details": ""},
				{"timestamp": "2026-08-02T10:00:00Z", "user_email": "pat@grace.org", "action": "settings_updated", "details": "currency"}
			]`)
		default:
			http.NotFound(w, r)
		}
	}))
}

// drain runs a command tree to completion, feeding every produced
// message back into the model, and returns the settled model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		// Only feed back the console's own result messages; component
		// internals (form focus, cursor blink) would cycle forever.
		if _, tagged := messageGeneration(msg); !tagged {
			continue
		}
		if _, isTick := msg.(summaryTickMsg); isTick {
			continue
		}
		if _, isTick := msg.(logsTickMsg); isTick {
			continue
		}
		updated, follow := m.Update(msg)
		m = updated.(Model)
		queue = append(queue, follow)
	}
	return m
}

func TestAuditGateRedirectsMemberWithoutQuerying(t *testing.T) {
	var auditHits atomic.Int32
	srv := fakePlatform(t, "Member", &auditHits)
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAudit()
	m = drain(t, m, cmd)

	assert.Equal(t, ScreenDashboard, m.screen)
	assert.Contains(t, m.notice, "do not have access")
	assert.Equal(t, int32(0), auditHits.Load(), "denied roles must not query the audit log")
}

func TestAuditGateAdmitsOwnerAndLoadsNewestFirst(t *testing.T) {
	var auditHits atomic.Int32
	srv := fakePlatform(t, "Owner", &auditHits)
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAudit()
	m = drain(t, m, cmd)

	assert.Equal(t, ScreenAudit, m.screen)
	assert.True(t, m.audit.allowed)
	assert.Equal(t, int32(1), auditHits.Load())
	require.Len(t, m.audit.events, 2)
	assert.Equal(t, "settings_updated", m.audit.events[0].Action, "events sort newest first")
}

func TestAuditGateAdmitsAdminRole(t *testing.T) {
	var auditHits atomic.Int32
	srv := fakePlatform(t, "Admin", &auditHits)
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAudit()
	m = drain(t, m, cmd)

	assert.Equal(t, ScreenAudit, m.screen)
	assert.Equal(t, int32(1), auditHits.Load())
}

func TestAuditGateRedirectsToLoginOnSessionLoss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "token expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAudit()
	m = drain(t, m, cmd)

	assert.Equal(t, ScreenLogin, m.screen)
	assert.True(t, m.hasReturn)
	assert.Equal(t, ScreenAudit, m.returnTo)
}

func TestAuditUpstreamFailureStaysOnScreen(t *testing.T) {
	var auditHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/company/audit-log" {
			auditHits.Add(1)
		}
		http.Error(w, `{"error": "database unavailable"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAudit()
	m = drain(t, m, cmd)

	// A 5xx during role resolution is a load failure, not a denial:
	// no redirect, no permission message, just an empty view.
	assert.Equal(t, ScreenAudit, m.screen)
	assert.False(t, m.audit.allowed)
	assert.Equal(t, "Could not load the audit log", m.audit.errText)
	assert.NotContains(t, m.notice, "do not have access")
	assert.Equal(t, int32(0), auditHits.Load())
}

func TestAdminUpstreamFailureStaysOnScreen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "database unavailable"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAdmin()
	m = drain(t, m, cmd)

	assert.Equal(t, ScreenAdmin, m.screen)
	assert.Equal(t, "Could not load the admin center", m.admin.errText)
	assert.NotContains(t, m.notice, "do not have access")
	assert.Nil(t, m.admin.summary)
}

func TestAuditForbiddenResolutionRedirectsToDashboard(t *testing.T) {
	var auditHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/company/audit-log" {
			auditHits.Add(1)
		}
		http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, srv.URL)
	m, cmd := m.enterAudit()
	m = drain(t, m, cmd)

	assert.Equal(t, ScreenDashboard, m.screen)
	assert.Contains(t, m.notice, "do not have access")
	assert.Equal(t, int32(0), auditHits.Load())
}

func TestAdminPanelKeepsStateAcrossFailedRefreshes(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, "http://example.invalid")
	m.screen = ScreenAdmin
	m.admin.summary = nil

	// Three consecutive failed refreshes leave the panel untouched.
	for i := 0; i < 3; i++ {
		updated, _ := m.Update(summaryMsg{gen: m.gen, err: assert.AnError})
		m = updated.(Model)
	}
	assert.Nil(t, m.admin.summary)

	// A later successful refresh lands normally.
	updated, _ := m.Update(summaryMsg{gen: m.gen, data: nil, err: nil})
	m = updated.(Model)
	assert.False(t, m.admin.loading)
}

func TestSummaryTickReschedulesWhileCurrent(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.SetToken(validToken(t)))

	m := newTestModel(store, "http://example.invalid")
	m.screen = ScreenAdmin

	_, cmd := m.Update(summaryTickMsg{gen: m.gen})
	assert.NotNil(t, cmd, "a current tick must refresh and reschedule")

	_, cmd = m.Update(summaryTickMsg{gen: m.gen - 1})
	assert.Nil(t, cmd, "a stale tick must not reschedule")
}
