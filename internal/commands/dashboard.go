package commands

import (
	"specter/internal/ui"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the terminal dashboard",
	Long: `Open the interactive dashboard. Pages are addressed by route:
  /                 projects
  /configurations   project configurations
  /reports          reports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		route, _ := cmd.Flags().GetString("route")
		return ui.Run(cmd.Context(), client, themeStore(), ui.Options{
			Logger:      logger,
			Route:       route,
			DownloadDir: globalConfig.DownloadDir,
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().String("route", ui.RouteProjects, "Page to open first")
}
