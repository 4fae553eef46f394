package cli

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, update and remove the projects documents are imported into.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a project",
	Example: heredoc.Doc(`
		scopeiq project add "Harbour Tower" --code HT-01 --location "12 Quay St"
	`),
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update [project-id]",
	Short: "Update project fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUpdate,
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove [project-id]",
	Short: "Remove a project and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRemove,
}

func init() {
	for _, c := range []*cobra.Command{projectAddCmd, projectUpdateCmd} {
		c.Flags().String("code", "", "job number, e.g. HT-01")
		c.Flags().String("location", "", "site address")
		c.Flags().String("description", "", "free-form notes")
	}
	projectUpdateCmd.Flags().String("name", "", "project name")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	code, _ := cmd.Flags().GetString("code")
	location, _ := cmd.Flags().GetString("location")
	description, _ := cmd.Flags().GetString("description")

	project, err := projectService.Add(cmd.Context(), domain.Project{
		Name:        args[0],
		Code:        code,
		Location:    location,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}

	cmd.Printf("Project created: %s\n", project.DisplayName())
	cmd.Printf("  ID: %s\n", project.ID)
	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	projects, err := projectService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		cmd.Println("No projects. Create one with 'scopeiq project add <name>'.")
		return nil
	}

	cmd.Println("Projects:")
	cmd.Println()
	for i := range projects {
		cmd.Printf("  %s\n", projects[i].DisplayName())
		cmd.Printf("    ID: %s\n", projects[i].ID)
		if projects[i].Location != "" {
			cmd.Printf("    Location: %s\n", projects[i].Location)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d projects\n", len(projects))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	project, err := projectService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	cmd.Printf("Project: %s\n\n", project.DisplayName())
	cmd.Printf("  ID:          %s\n", project.ID)
	cmd.Printf("  Name:        %s\n", project.Name)
	cmd.Printf("  Code:        %s\n", project.Code)
	cmd.Printf("  Location:    %s\n", project.Location)
	cmd.Printf("  Description: %s\n", project.Description)
	cmd.Printf("  Created:     %s\n", project.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:     %s\n", project.UpdatedAt.Format("2006-01-02 15:04:05"))

	if documentService != nil {
		docs, err := documentService.ListByProject(cmd.Context(), project.ID)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		cmd.Printf("  Documents:   %d\n", len(docs))
	}
	return nil
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	project, err := projectService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	flags := cmd.Flags()
	fields := map[string]*string{
		"name":        &project.Name,
		"code":        &project.Code,
		"location":    &project.Location,
		"description": &project.Description,
	}
	changed := 0
	for name, field := range fields {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
			changed++
		}
	}
	if changed == 0 {
		return fmt.Errorf("nothing to update, pass --name, --code, --location or --description: %w",
			domain.ErrInvalidInput)
	}

	if err := projectService.Update(cmd.Context(), *project); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	cmd.Printf("Project %s updated.\n", project.ID)
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	if err := projectService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove project: %w", err)
	}

	cmd.Printf("Project %s removed.\n", args[0])
	return nil
}
