package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the organization overview",
	Long: `Show the organization overview: company profile, subscription, and
member count. This is the same information as the console's dashboard
screen.

Examples:
  steeple dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}

		info, err := env.client.GetCompanyInfo()
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", info.CompanyName)
		fmt.Printf("  Plan:     %s (%s)\n", info.SubscriptionPlan, info.Status)
		fmt.Printf("  Members:  %d\n", info.UserCount)
		fmt.Printf("  Industry: %s\n", info.Industry)
		fmt.Printf("  Timezone: %s\n", info.Timezone)
		fmt.Printf("  Currency: %s\n", info.Currency)
		if info.Address != "" {
			fmt.Printf("  Address:  %s\n", info.Address)
		}
		if info.Phone != "" {
			fmt.Printf("  Phone:    %s\n", info.Phone)
		}
		if info.Email != "" {
			fmt.Printf("  Email:    %s\n", info.Email)
		}
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Start the QuickBooks connection flow",
	Long: `Start the QuickBooks connection flow. The command prints the OAuth
authorization URL; open it in a browser to finish connecting.

Examples:
  steeple connect`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}

		url, err := env.client.QBConnectURL()
		if err != nil {
			return err
		}

		fmt.Println("Open this URL to connect QuickBooks:")
		fmt.Println("  " + url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(connectCmd)
}
