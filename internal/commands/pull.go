package commands

import (
	"encoding/json"
	"fmt"

	"specter/internal/api"
	"specter/internal/models"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch projects as JSON",
	Long:  "Fetch the project list from the API and print it as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			token, err := tokenStore().GetToken()
			if err != nil {
				return err
			}
			client = api.NewBearerClient(cmd.Context(), host, token, api.WithLogger(logger))
		}
		logger.Debug("pulling projects", "host", client.BaseURL)

		projects, err := client.ListProjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("error fetching projects: %w", err)
		}

		if projects == nil {
			projects = []models.Project{}
		}
		data, err := json.MarshalIndent(projects, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().String("host", "", "Base URL of the API (default from config)")
}
