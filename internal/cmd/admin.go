package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/steeplefin/steeple/internal/role"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Platform operator tools",
	Long: `Platform operator tools: business metrics, system health, client
accounts, payments, and scheduled jobs.

Access requires the Owner or Admin role on the member list; the
platform enforces the same check server-side.

Subcommands:
  summary    Business summary (clients, MRR, ARPU)
  health     Container uptime, scheduler status, job schedule
  logs       Recent platform log lines
  users        List client accounts
  add-user     Create a client account
  remove-user  Remove a client account
  payments     List payments across clients
  retry        Retry a failed payment
  run-job      Trigger a scheduled job now

Examples:
  steeple admin summary
  steeple admin retry 1041
  steeple admin run-job daily_sync`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// adminEnv gates every admin subcommand on the resolved role.
func adminEnv(cmd *cobra.Command) (*consoleEnv, error) {
	env, err := newEnv(cmd)
	if err != nil {
		return nil, err
	}
	if err := env.requireSession(); err != nil {
		return nil, err
	}
	if _, err := env.requireRole(role.Role.CanViewAuditLog, "the admin command center"); err != nil {
		return nil, err
	}
	return env, nil
}

var adminSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Business summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		sum, err := env.client.GetBusinessSummary()
		if err != nil {
			return err
		}

		fmt.Printf("Clients:  %d (%d paying)\n", sum.TotalClients, sum.PayingClients)
		fmt.Printf("MRR:      $%.2f\n", sum.MRR)
		fmt.Printf("ARPU:     $%.2f\n", sum.ARPU)
		return nil
	},
}

var adminHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "System health and job schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		h, err := env.client.GetSystemHealth()
		if err != nil {
			return err
		}

		fmt.Printf("Uptime:    %s\n", h.ContainerUptime)
		fmt.Printf("Scheduler: %s\n", h.SchedulerStatus)
		for _, job := range h.Jobs {
			fmt.Printf("  %-16s %-12s next %s\n", job.Name, job.Status, job.NextRun)
		}
		return nil
	},
}

var adminLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Recent platform log lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		lines, err := env.client.GetAdminLogs()
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List client accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		users, err := env.client.GetAdminUsers()
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %-24s %-32s %-12s %s\n", "ID", "NAME", "EMAIL", "PLAN", "ROLE")
		for _, u := range users {
			fmt.Printf("%-6d %-24s %-32s %-12s %s\n", u.ID, u.Name, u.Email, u.Plan, u.Role)
		}
		return nil
	},
}

var adminPaymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "List payments across clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		payments, err := env.client.GetPayments()
		if err != nil {
			return err
		}
		fmt.Printf("%-6s %-32s %-10s %-10s %-10s %-10s %s\n",
			"ID", "EMAIL", "PROVIDER", "PLAN", "FEE", "STATUS", "NEXT DUE")
		for _, p := range payments {
			fmt.Printf("%-6d %-32s %-10s %-10s $%-9.2f %-10s %s\n",
				p.ID, p.Email, p.Provider, p.Plan, p.MonthlyFee, p.Status, p.NextPaymentDue)
		}
		return nil
	},
}

var adminAddUserCmd = &cobra.Command{
	Use:   "add-user",
	Short: "Create a client account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		if err := env.client.AddAdminUser(name, email); err != nil {
			return err
		}
		fmt.Printf("Created account for %s (%s)\n", name, email)
		return nil
	},
}

var adminRemoveUserCmd = &cobra.Command{
	Use:   "remove-user <user-id>",
	Short: "Remove a client account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		if err := env.client.DeleteAdminUser(id); err != nil {
			return err
		}
		fmt.Printf("Removed account %d\n", id)
		return nil
	},
}

var adminRetryCmd = &cobra.Command{
	Use:   "retry <payment-id>",
	Short: "Retry a failed payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid payment id %q", args[0])
		}

		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		if err := env.client.RetryPayment(id); err != nil {
			return err
		}
		fmt.Printf("Retry requested for payment %d\n", id)
		return nil
	},
}

var adminRunJobCmd = &cobra.Command{
	Use:   "run-job <job>",
	Short: "Trigger a scheduled job now",
	Long: `Trigger a scheduled platform job immediately.

Known jobs:
  token_refresh   Refresh stored QuickBooks OAuth tokens
  daily_sync      Run the daily accounting sync

Examples:
  steeple admin run-job token_refresh`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := args[0]
		if job != "token_refresh" && job != "daily_sync" {
			return fmt.Errorf("unknown job %q (known: token_refresh, daily_sync)", job)
		}

		env, err := adminEnv(cmd)
		if err != nil {
			return err
		}

		if err := env.client.RunJob(job); err != nil {
			return err
		}
		fmt.Printf("Job %q started\n", job)
		return nil
	},
}

func init() {
	adminAddUserCmd.Flags().String("name", "", "account name")
	adminAddUserCmd.Flags().String("email", "", "account email")

	adminCmd.AddCommand(adminSummaryCmd)
	adminCmd.AddCommand(adminAddUserCmd)
	adminCmd.AddCommand(adminRemoveUserCmd)
	adminCmd.AddCommand(adminHealthCmd)
	adminCmd.AddCommand(adminLogsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminPaymentsCmd)
	adminCmd.AddCommand(adminRetryCmd)
	adminCmd.AddCommand(adminRunJobCmd)
	rootCmd.AddCommand(adminCmd)
}
