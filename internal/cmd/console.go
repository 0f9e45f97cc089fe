package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/steeplefin/steeple/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Launch the interactive console",
	Long: `Launch the interactive Steeple console.

The console opens on the dashboard when a valid session is stored and
on the login screen otherwise. Navigation:

  g  dashboard        t  team
  a  admin center     u  audit log
  o  logout           ctrl+c  quit

Examples:
  steeple console`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}

		model := tui.NewModel(env.store, env.client)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("console failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
