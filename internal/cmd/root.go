package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/steeplefin/steeple/internal/config"
	"github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/guard"
	"github.com/steeplefin/steeple/internal/log"
	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/role"
	"github.com/steeplefin/steeple/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "steeple",
	Short: "Admin console for the Steeple giving platform",
	Long: `steeple is the administration console for Steeple, the financial
platform for faith-based organizations. It manages your organization's
account, team members, QuickBooks connection, and (for platform
operators) the admin command center and audit log.

Run 'steeple console' for the interactive console, or use the
subcommands directly for scripting.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Steeple API base URL (overrides config and STEEPLE_API_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// consoleEnv is everything a command needs to talk to the platform.
type consoleEnv struct {
	cfg    config.Config
	store  session.Store
	client *platform.Client
}

// newEnv loads configuration, opens the session store, and builds an
// API client carrying any stored token.
func newEnv(cmd *cobra.Command) (*consoleEnv, error) {
	dir := session.DefaultDir()

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if url, _ := cmd.Flags().GetString("api-url"); url != "" {
		cfg.APIBaseURL = url
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = log.ParseFormat(cfg.LogFormat)
	log.SetDefaultLogger(log.New(logCfg))

	store := session.NewFileStore(dir)
	client := platform.NewClient(cfg.APIBaseURL)
	if tok, ok := store.Token(); ok {
		client.SetToken(tok)
	}

	return &consoleEnv{cfg: cfg, store: store, client: client}, nil
}

// requireSession enforces the client-side token gate the way the
// console does before rendering a protected screen.
func (e *consoleEnv) requireSession() error {
	switch state := guard.Evaluate(e.store, time.Now()); state {
	case guard.Valid:
		return nil
	case guard.Expired:
		return errors.NewAuthRequiredError("your session has expired")
	case guard.NotYetValid:
		return errors.NewAuthRequiredError("your session token is not yet valid, check the system clock")
	case guard.InvalidToken:
		return errors.NewAuthRequiredError("the stored session token is malformed")
	default:
		return errors.NewAuthRequiredError("no session found")
	}
}

// requireRole resolves the caller's company role and verifies it with
// check. The check runs against the member list, never against the
// cached admin hint.
func (e *consoleEnv) requireRole(check func(role.Role) bool, capability string) (*role.Resolution, error) {
	res, err := role.NewResolver(e.client, e.store).Resolve()
	if err != nil {
		return nil, err
	}
	if !check(res.Role) {
		return nil, errors.NewForbiddenError(capability)
	}
	return res, nil
}
