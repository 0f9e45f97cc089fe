package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/steeplefin/steeple/internal/errors"
	"github.com/steeplefin/steeple/internal/guard"
	"github.com/steeplefin/steeple/internal/token"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the login session",
	Long: `Manage the Steeple login session.

The session token is stored in ~/.steeple/session.json and attached to
every API request as a bearer token.

Subcommands:
  signup    Create a new organization account
  login     Sign in with email and password
  logout    Sign out and remove the stored session
  status    Show the current session state

Examples:
  steeple auth signup --company "Grace Chapel" --email pat@grace.org --password secret
  steeple auth login --email pat@grace.org --password secret
  steeple auth status
  steeple auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new organization account",
	Long: `Create a new Steeple organization account.

Signup does not sign you in: run 'steeple auth login' afterward.

Examples:
  steeple auth signup --company "Grace Chapel" --email pat@grace.org --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		company, _ := cmd.Flags().GetString("company")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if company == "" {
			return fmt.Errorf("--company is required")
		}
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}

		if err := env.client.Register(company, email, password); err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		fmt.Println("Account created. Please log in to continue:")
		fmt.Printf("  steeple auth login --email %s\n", email)
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Steeple",
	Long: `Sign in to Steeple with your email and password.

On success the session token is saved to ~/.steeple/session.json.
A failed attempt never touches the stored session.

Examples:
  steeple auth login --email pat@grace.org --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}

		resp, err := env.client.Login(email, password)
		if err != nil {
			return errors.NewLoginFailedError(err)
		}
		if resp.Token == "" {
			// A success response without a token is still a failure;
			// nothing is stored.
			return errors.NewLoginFailedError(nil)
		}

		if err := env.store.SetToken(resp.Token); err != nil {
			return errors.Wrap(errors.ErrCodeSessionWriteFailed, "saving session", err)
		}
		env.client.SetToken(resp.Token)

		// Refresh the admin hint so the console navigation is right
		// from the first launch.
		if me, err := env.client.CurrentUser(); err == nil {
			_ = env.store.SetAdminHint(me.IsAdmin)
		}

		fmt.Printf("Signed in as %s\n", email)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}

		if _, ok := env.store.Token(); !ok {
			fmt.Println("Not signed in.")
			return nil
		}

		if err := env.store.Clear(); err != nil {
			return errors.Wrap(errors.ErrCodeSessionWriteFailed, "removing session", err)
		}

		fmt.Println("Signed out.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	Long: `Show the current session state as the console's route guard sees
it: whether a token is stored, whether it decodes, and whether its
validity window covers the current time. No request is made to the
platform.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}

		state := guard.Evaluate(env.store, time.Now())
		fmt.Printf("Session: %s\n", state)

		tok, ok := env.store.Token()
		if !ok {
			fmt.Println("No token stored. Run 'steeple auth login' to sign in.")
			return nil
		}

		if claims, ok := token.Decode(tok); ok {
			if exp, ok := claims.ExpiresAt(); ok {
				fmt.Printf("Expires: %s\n", time.Unix(exp, 0).Format(time.RFC3339))
			}
			if nbf, ok := claims.NotBefore(); ok {
				fmt.Printf("Not before: %s\n", time.Unix(nbf, 0).Format(time.RFC3339))
			}
		}
		if env.store.AdminHint() {
			fmt.Println("Admin: yes (advisory, verified on use)")
		}
		return nil
	},
}

func init() {
	authSignupCmd.Flags().String("company", "", "organization name")
	authSignupCmd.Flags().String("email", "", "account email")
	authSignupCmd.Flags().String("password", "", "account password")

	authLoginCmd.Flags().String("email", "", "account email")
	authLoginCmd.Flags().String("password", "", "account password")

	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
