package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Look up users",
}

var userSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by name or email",
	Long:  "Search users by name or email. Queries must be at least 2 characters.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		users, err := client.SearchUsers(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error searching users: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}
		fmt.Fprintf(out, "%-36s %-20s %s\n", "ID", "USERNAME", "EMAIL")
		for _, u := range users {
			fmt.Fprintf(out, "%-36s %-20s %s\n", u.ID, u.Username, u.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSearchCmd)
}
