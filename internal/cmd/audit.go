package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/steeplefin/steeple/internal/platform"
	"github.com/steeplefin/steeple/internal/role"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the company audit log",
	Long: `View the company audit log, newest first.

The audit log requires the Owner or Admin role on the member list; the
role is verified before any audit query is issued, and the platform
enforces the same check server-side.

Examples:
  steeple audit
  steeple audit --email pat@grace.org --start 2026-08-01 --end 2026-08-31
  steeple audit --export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}
		if _, err := env.requireRole(role.Role.CanViewAuditLog, "viewing the audit log"); err != nil {
			return err
		}

		filter := platform.AuditFilter{}
		filter.Email, _ = cmd.Flags().GetString("email")
		filter.Start, _ = cmd.Flags().GetString("start")
		filter.End, _ = cmd.Flags().GetString("end")

		events, err := env.client.GetAuditLog(filter)
		if err != nil {
			return err
		}

		if export, _ := cmd.Flags().GetBool("export"); export {
			name := platform.AuditExportFilename(time.Now())
			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()
			if err := platform.WriteAuditCSV(f, events); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Printf("Exported %d events to %s\n", len(events), name)
			return nil
		}

		if len(events) == 0 {
			fmt.Println("No events match.")
			return nil
		}
		fmt.Printf("%-24s %-28s %-20s %s\n", "TIMESTAMP", "USER", "ACTION", "DETAILS")
		for _, e := range events {
			fmt.Printf("%-24s %-28s %-20s %s\n", e.Shown(), e.UserEmail, e.Action, e.Details)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().String("email", "", "only events by this user")
	auditCmd.Flags().String("start", "", "only events on or after this date (YYYY-MM-DD)")
	auditCmd.Flags().String("end", "", "only events on or before this date (YYYY-MM-DD)")
	auditCmd.Flags().Bool("export", false, "write the result as CSV instead of printing")

	rootCmd.AddCommand(auditCmd)
}
