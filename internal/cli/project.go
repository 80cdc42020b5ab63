package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	"github.com/stagehand-sh/stagehand/internal/errors"
)

// AddProjectCommand adds the project command group to the root command.
func AddProjectCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectAddCmd())
	cmd.AddCommand(newProjectListCmd())
	root.AddCommand(cmd)
}

func newProjectAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add [path]",
		Short: "Register a project working directory",
		Long: `Register a working directory as a stagehand project.

The directory must contain the project's TODO.md task document when
execution starts. Defaults to the current directory.

Examples:
  stagehand project add
  stagehand project add ~/src/payments --name payments`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runProjectAdd(cmd.Context(), cmd, os.Stdout, path, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (defaults to the directory name)")
	return cmd
}

func runProjectAdd(ctx context.Context, cmd *cobra.Command, w io.Writer, path, name string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", errors.ErrValidation, abs)
	}
	if name == "" {
		name = filepath.Base(abs)
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	project := &domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      abs,
		CreatedAt: time.Now().UTC(),
	}
	if err := svc.store.CreateProject(ctx, project); err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, project)
	}
	_, _ = fmt.Fprintf(w, "Registered project %s (%s) at %s\n", project.Name, project.ID, project.Path)
	return nil
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProjectList(cmd.Context(), cmd, os.Stdout)
		},
	}
}

func runProjectList(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	projects, err := svc.store.ListProjects(ctx)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, projects)
	}

	if len(projects) == 0 {
		_, _ = fmt.Fprintln(w, "No projects registered. Run 'stagehand project add' first.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Path", "Created"})
	for _, p := range projects {
		t.AppendRow(table.Row{p.ID, p.Name, p.Path, p.CreatedAt.Format(time.RFC3339)})
	}
	t.Render()
	return nil
}
