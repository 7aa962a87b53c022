package commands

import (
	"fmt"
	"io"
	"strings"

	"specter/internal/models"
	"specter/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
	Long:    "Create, list, update and delete projects and manage their members",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}

		projects, err := client.ListProjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing projects: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects found.")
			return nil
		}

		fmt.Fprintf(out, "%-8s %-40s %s\n", "ID", "TITLE", "MEMBERS")
		for _, p := range projects {
			fmt.Fprintf(out, "%-8d %-40s %d\n", p.ID, util.Truncate(p.Title, 40), len(p.Users))
		}
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, "")
		if title == "" {
			var err error
			title, err = promptText("Project title", required("title"))
			if err != nil {
				return err
			}
		}
		if strings.TrimSpace(title) == "" {
			return models.ErrEmptyTitle
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		project, err := client.CreateProject(cmd.Context(), strings.TrimSpace(title))
		if err != nil {
			return fmt.Errorf("error creating project: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Project created (id %d)", project.ID)
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project and its members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		project, err := client.GetProject(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("error fetching project: %w", err)
		}

		printProject(cmd.OutOrStdout(), project)
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id> <title>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}
		title := strings.TrimSpace(args[1])
		if title == "" {
			return models.ErrEmptyTitle
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := client.UpdateProject(cmd.Context(), id, title); err != nil {
			return fmt.Errorf("error updating project: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Project updated")
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}

		ok, err := confirmDelete(cmd, fmt.Sprintf("project %d", id))
		if err != nil || !ok {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.DeleteProject(cmd.Context(), id); err != nil {
			return fmt.Errorf("error deleting project: %w", err)
		}

		printSuccess(cmd.OutOrStdout(), "Project deleted")
		return nil
	},
}

var projectAddUserCmd = &cobra.Command{
	Use:   "add-user <project-id> <user-id>",
	Short: "Add a user to a project",
	Long:  "Add a user to a project. Use 'specter user search' to find user ids.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		project, err := client.AddUserToProject(cmd.Context(), id, args[1])
		if err != nil {
			return fmt.Errorf("error adding user to project: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "User added to project")
		if project != nil && project.ID != 0 {
			printProject(out, project)
		}
		return nil
	},
}

var projectRemoveUserCmd = &cobra.Command{
	Use:   "remove-user <project-id> <user-id>",
	Short: "Remove a user from a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := util.ParseID(args[0])
		if err != nil {
			return err
		}

		client, err := authedClient(cmd.Context())
		if err != nil {
			return err
		}
		project, err := client.RemoveUserFromProject(cmd.Context(), id, args[1])
		if err != nil {
			return fmt.Errorf("error removing user from project: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "User removed from project")
		if project != nil && project.ID != 0 {
			printProject(out, project)
		}
		return nil
	},
}

func printProject(w io.Writer, p *models.Project) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprintf("#%d", p.ID), p.Title)
	if len(p.Users) == 0 {
		fmt.Fprintln(w, "No members.")
		return
	}
	fmt.Fprintln(w, "Members:")
	for _, u := range p.Users {
		fmt.Fprintf(w, "  %-36s %-20s %s\n", u.ID, u.Username, u.Email)
	}
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectAddUserCmd)
	projectCmd.AddCommand(projectRemoveUserCmd)

	projectDeleteCmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")
}
