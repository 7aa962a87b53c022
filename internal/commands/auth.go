package commands

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"specter/internal/api"
	"specter/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a one-time code",
	Long: `Request a one-time code by email, then wait until it is entered on the
verification page. The session is saved to ~/.specter/auth.json and is valid for 24 hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			var err error
			email, err = promptText("Email", validateEmail)
			if err != nil {
				return err
			}
		}
		email = strings.TrimSpace(email)
		if err := validateEmail(email); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		client := api.NewAuthClient(globalConfig.AuthBaseURL(), nil, logger)

		if err := client.RequestCode(ctx, email); err != nil {
			return fmt.Errorf("error requesting login code: %w", err)
		}
		fmt.Fprintf(out, "A one-time code was sent to %s\n", email)

		if code, _ := cmd.Flags().GetString("code"); code != "" {
			if err := client.VerifyOTP(ctx, email, code); err != nil {
				return fmt.Errorf("error verifying code: %w", err)
			}
		} else {
			fmt.Fprintf(out, "Enter it at %s\n", color.CyanString(globalConfig.VerifyURL()))
		}

		fmt.Fprintln(out, "Waiting for verification...")
		status, err := client.WaitForLogin(ctx, email, api.DefaultPollInterval, api.DefaultLoginTimeout)
		if errors.Is(err, models.ErrLoginTimeout) {
			return fmt.Errorf("%w: the code was not verified within %s", err, api.DefaultLoginTimeout)
		}
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if _, err := tokenStore().SaveSession(status.Token, status.ID, time.Now()); err != nil {
			return fmt.Errorf("error saving session: %w", err)
		}

		printSuccess(out, "Successfully logged in as %s", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out",
	Long:  "Remove the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tokenStore().ClearToken(); err != nil {
			return fmt.Errorf("error during logout: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user information",
	Long:  "Ask the backend who the saved session belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if _, err := tokenStore().GetToken(); err != nil {
			if errors.Is(err, models.ErrNotLoggedIn) {
				fmt.Fprintln(out, "You are not logged in")
				return nil
			}
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		me, err := client.WhoAmI(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching user: %w", err)
		}

		if me.Username != "" {
			fmt.Fprintf(out, "Logged in as: %s <%s>\n", me.Username, me.Email)
		} else {
			fmt.Fprintf(out, "Logged in as: %s\n", me.Email)
		}
		fmt.Fprintf(out, "User ID: %s\n", me.UserID)
		fmt.Fprintf(out, "Server: %s\n", globalConfig.BackendURL())
		return nil
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication helpers",
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a one-time code",
	Long: `Submit an emailed one-time code directly instead of using the verification page.
A pending 'specter login' completes once the code is accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		email, _ := cmd.Flags().GetString("email")
		if err := validateEmail(email); err != nil {
			return err
		}

		code, _ := cmd.Flags().GetString("code")
		if code == "" {
			var err error
			code, err = promptText("Code", required("code"))
			if err != nil {
				return err
			}
		}

		client := api.NewAuthClient(globalConfig.AuthBaseURL(), nil, logger)
		if err := client.VerifyOTP(cmd.Context(), email, code); err != nil {
			return fmt.Errorf("error verifying code: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Code accepted for %s", email)
		return nil
	},
}

func validateEmail(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(input); err != nil {
		return fmt.Errorf("invalid email %q", input)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authVerifyCmd)

	loginCmd.Flags().String("email", "", "Email address to log in with")
	loginCmd.Flags().String("code", "", "One-time code, if already received")

	authVerifyCmd.Flags().String("email", "", "Email address the code was sent to")
	authVerifyCmd.Flags().String("code", "", "One-time code from the email")
}
