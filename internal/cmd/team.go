package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steeplefin/steeple/internal/platform"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage company members",
	Long: `Manage the members of your organization.

Subcommands:
  list      List members and their roles
  add       Add a member
  update    Change a member's name, email, or role
  remove    Remove a member

Examples:
  steeple team list
  steeple team add --name "Sam Lee" --email sam@grace.org --role Member
  steeple team update 42 --role Admin
  steeple team remove 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members and their roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}

		members, err := env.client.GetCompanyUsers()
		if err != nil {
			return err
		}

		if len(members) == 0 {
			fmt.Println("No members.")
			return nil
		}
		fmt.Printf("%-6s %-24s %-32s %s\n", "ID", "NAME", "EMAIL", "ROLE")
		for _, m := range members {
			fmt.Printf("%-6d %-24s %-32s %s\n", m.ID, m.Name, m.Email, m.Role)
		}
		return nil
	},
}

var teamAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a member",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		memberRole, _ := cmd.Flags().GetString("role")

		if name == "" {
			return fmt.Errorf("--name is required")
		}
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if memberRole == "" {
			memberRole = "Member"
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}

		// Surface duplicates before the request, the same check the
		// console applies in its add form.
		members, err := env.client.GetCompanyUsers()
		if err != nil {
			return err
		}
		for _, m := range members {
			if strings.EqualFold(m.Email, email) {
				return fmt.Errorf("user already part of company: %s", email)
			}
		}

		if err := env.client.AddCompanyUser(platform.CompanyUserRequest{
			Name:  name,
			Email: email,
			Role:  memberRole,
		}); err != nil {
			return err
		}

		fmt.Printf("Added %s (%s) as %s\n", name, email, memberRole)
		return nil
	},
}

var teamUpdateCmd = &cobra.Command{
	Use:   "update <member-id>",
	Short: "Change a member's name, email, or role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid member id %q", args[0])
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}

		members, err := env.client.GetCompanyUsers()
		if err != nil {
			return err
		}
		var current *platform.CompanyUser
		for i := range members {
			if members[i].ID == id {
				current = &members[i]
				break
			}
		}
		if current == nil {
			return fmt.Errorf("no member with id %d", id)
		}

		req := platform.CompanyUserRequest{
			Name:  current.Name,
			Email: current.Email,
			Role:  current.Role,
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			req.Name = name
		}
		if email, _ := cmd.Flags().GetString("email"); email != "" {
			req.Email = email
		}
		if memberRole, _ := cmd.Flags().GetString("role"); memberRole != "" {
			req.Role = memberRole
		}

		if err := env.client.UpdateCompanyUser(id, req); err != nil {
			return err
		}

		fmt.Printf("Updated member %d\n", id)
		return nil
	},
}

var teamRemoveCmd = &cobra.Command{
	Use:   "remove <member-id>",
	Short: "Remove a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid member id %q", args[0])
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := env.requireSession(); err != nil {
			return err
		}

		if err := env.client.DeleteCompanyUser(id); err != nil {
			return err
		}

		fmt.Printf("Removed member %d\n", id)
		return nil
	},
}

func init() {
	teamAddCmd.Flags().String("name", "", "member name")
	teamAddCmd.Flags().String("email", "", "member email")
	teamAddCmd.Flags().String("role", "Member", "member role: Owner, Admin, Member, Analyst")

	teamUpdateCmd.Flags().String("name", "", "new name")
	teamUpdateCmd.Flags().String("email", "", "new email")
	teamUpdateCmd.Flags().String("role", "", "new role")

	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamUpdateCmd)
	teamCmd.AddCommand(teamRemoveCmd)
	rootCmd.AddCommand(teamCmd)
}
