package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootSubcommands tests that every console area is registered
func TestRootSubcommands(t *testing.T) {
	expected := map[string]bool{
		"auth":      false,
		"dashboard": false,
		"connect":   false,
		"team":      false,
		"admin":     false,
		"audit":     false,
		"console":   false,
	}

	for _, cmd := range rootCmd.Commands() {
		if _, exists := expected[cmd.Name()]; exists {
			expected[cmd.Name()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("subcommand '%s' not found on root command", name)
		}
	}
}

// TestAuthSubcommands tests that all auth subcommands are registered
func TestAuthSubcommands(t *testing.T) {
	expected := map[string]bool{
		"signup": false,
		"login":  false,
		"logout": false,
		"status": false,
	}

	for _, cmd := range authCmd.Commands() {
		if _, exists := expected[cmd.Name()]; exists {
			expected[cmd.Name()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("subcommand '%s' not found in auth command", name)
		}
	}
}

// TestAuditFlags tests that audit has its filter and export flags
func TestAuditFlags(t *testing.T) {
	for _, name := range []string{"email", "start", "end", "export"} {
		if auditCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag '%s' not found on audit command", name)
		}
	}
}

// TestTeamAddFlags tests that team add has its member flags
func TestTeamAddFlags(t *testing.T) {
	for _, name := range []string{"name", "email", "role"} {
		if teamAddCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag '%s' not found on team add command", name)
		}
	}
}

func TestRunJobRejectsUnknownJobs(t *testing.T) {
	err := adminRunJobCmd.RunE(adminRunJobCmd, []string{"format_disks"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job")
}

func TestTeamUpdateRejectsBadID(t *testing.T) {
	err := teamUpdateCmd.RunE(teamUpdateCmd, []string{"not-a-number"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid member id")
}

func TestLoginRequiresCredentialFlags(t *testing.T) {
	err := authLoginCmd.RunE(authLoginCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email is required")
}
