package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"specter/internal/models"
	"specter/internal/ui/components"
	"specter/internal/util"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var configurationCmd = &cobra.Command{
	Use:     "configuration",
	Aliases: []string{"configurations", "conf"},
	Short:   "Manage project configurations",
	Long: `Create, list, update and delete the free-text configurations attached to a project.
Context text is read from --context, from --file, or from standard input when it is piped.`,
}

var configurationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configurations of a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := projectFlag(cmd)
		if err != nil {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		configs, err := client.ListProjectConfigurations(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("error listing configurations: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(configs) == 0 {
			fmt.Fprintln(out, "No configurations found.")
			return nil
		}

		full, _ := cmd.Flags().GetBool("full")
		if full {
			for _, c := range configs {
				printConfiguration(out, c)
			}
			return nil
		}

		fmt.Fprintf(out, "%-8s %-20s %s\n", "ID", "AUTHOR", "CONTEXT")
		for _, c := range configs {
			fmt.Fprintf(out, "%-8d %-20s %s\n", c.ID, util.Truncate(c.User.DisplayName(), 20), util.Truncate(util.FirstLine(c.Context), 60))
		}
		return nil
	},
}

var configurationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a configuration to a project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := projectFlag(cmd)
		if err != nil {
			return err
		}
		text, err := contextInput(cmd)
		if err != nil {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		created, err := client.CreateConfiguration(cmd.Context(), projectID, text)
		if err != nil {
			return fmt.Errorf("error creating configuration: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Configuration created (id %d)", created.ID)
		return nil
	},
}

var configurationUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace the context of a configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		text, err := contextInput(cmd)
		if err != nil {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := client.UpdateConfiguration(cmd.Context(), id, text); err != nil {
			return fmt.Errorf("error updating configuration: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Configuration updated")
		return nil
	},
}

var configurationDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}

		ok, err := confirmDelete(cmd, fmt.Sprintf("configuration %d", id))
		if err != nil || !ok {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.DeleteConfiguration(cmd.Context(), id); err != nil {
			return fmt.Errorf("error deleting configuration: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Configuration deleted")
		return nil
	},
}

func projectFlag(cmd *cobra.Command) (int64, error) {
	raw, _ := cmd.Flags().GetString("project")
	if raw == "" {
		return 0, fmt.Errorf("--project is required")
	}
	return util.ParseID(raw)
}

// contextInput reads the configuration text from --context, --file or piped stdin
func contextInput(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("context")
	path, _ := cmd.Flags().GetString("file")

	switch {
	case text != "" && path != "":
		return "", fmt.Errorf("use either --context or --file, not both")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", path, err)
		}
		text = string(data)
	case text == "":
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
			return "", models.ErrEmptyContext
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("error reading standard input: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", models.ErrEmptyContext
	}
	return text, nil
}

func printConfiguration(w io.Writer, c models.Configuration) {
	fmt.Fprintf(w, "Configuration #%d by %s\n", c.ID, c.User.DisplayName())
	dark := themeStore().Mode().IsDark()
	fmt.Fprintln(w, components.RenderMarkdown(c.Context, 80, dark))
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationListCmd)
	configurationCmd.AddCommand(configurationCreateCmd)
	configurationCmd.AddCommand(configurationUpdateCmd)
	configurationCmd.AddCommand(configurationDeleteCmd)

	configurationListCmd.Flags().String("project", "", "Project id")
	configurationListCmd.Flags().Bool("full", false, "Render the full context as markdown")

	configurationCreateCmd.Flags().String("project", "", "Project id")
	for _, c := range []*cobra.Command{configurationCreateCmd, configurationUpdateCmd} {
		c.Flags().String("context", "", "Configuration text")
		c.Flags().String("file", "", "Read the configuration text from a file")
	}

	configurationDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")
}
