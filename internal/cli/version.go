package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	"github.com/stagehand-sh/stagehand/internal/statemachine"
)

// AddVersionCommand adds the version command group to the root command.
func AddVersionCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Manage project versions through the development flow",
	}
	cmd.AddCommand(newVersionNewCmd())
	cmd.AddCommand(newVersionListCmd())
	cmd.AddCommand(newVersionEventCmd("submit", "Submit a drafted version for review",
		constants.EventSubmit, constants.EventScaffold))
	cmd.AddCommand(newVersionEventCmd("approve", "Approve a reviewed version for execution",
		constants.EventApprove))
	cmd.AddCommand(newVersionEventCmd("reject", "Send a reviewed version back to drafting",
		constants.EventReject))
	root.AddCommand(cmd)
}

func newVersionNewCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "new <project-id>",
		Short: "Create a new drafting version for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersionNew(cmd.Context(), cmd, os.Stdout, args[0], branch)
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "main", "git branch the version targets")
	return cmd
}

func runVersionNew(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID, branch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.store.FindProject(ctx, projectID); err != nil {
		return err
	}

	m, err := machineFor(svc, constants.MachineDevelopment)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	version := &domain.Version{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Branch:    branch,
		DevStatus: constants.VersionStatus(m.Initial()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.store.CreateVersion(ctx, version); err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, version)
	}
	_, _ = fmt.Fprintf(w, "Created version %s (%s) on branch %s\n", version.ID, version.DevStatus, version.Branch)
	return nil
}

// newVersionEventCmd builds a command that fires one or more
// development-flow events in sequence. Submit chains SUBMIT and
// SCAFFOLD because scaffolding has no separate operator step here.
func newVersionEventCmd(use, short string, events ...string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <version-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersionEvents(cmd.Context(), cmd, os.Stdout, args[0], events)
		},
	}
}

func runVersionEvents(ctx context.Context, cmd *cobra.Command, w io.Writer, versionID string, events []string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	version, err := svc.store.FindVersion(ctx, versionID)
	if err != nil {
		return err
	}

	m, err := machineFor(svc, constants.MachineDevelopment)
	if err != nil {
		return err
	}

	for _, event := range events {
		next, err := m.Transition(string(version.DevStatus), event)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := svc.store.UpdateVersionStatus(ctx, version.ID, constants.VersionStatus(next), now); err != nil {
			return err
		}
		version.DevStatus = constants.VersionStatus(next)
		version.UpdatedAt = now
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, version)
	}
	_, _ = fmt.Fprintf(w, "Version %s is now %s\n", version.ID, version.DevStatus)
	return nil
}

func newVersionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersionList(cmd.Context(), cmd, os.Stdout, args[0])
		},
	}
}

func runVersionList(ctx context.Context, cmd *cobra.Command, w io.Writer, projectID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	versions, err := svc.store.ListVersionsByProject(ctx, projectID)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, versions)
	}

	if len(versions) == 0 {
		_, _ = fmt.Fprintln(w, "No versions for this project.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Branch", "Status", "Updated"})
	for _, v := range versions {
		t.AppendRow(table.Row{v.ID, v.Branch, v.DevStatus, v.UpdatedAt.Format(time.RFC3339)})
	}
	t.Render()
	return nil
}

// machineFor returns a compiled machine from the loaded source.
func machineFor(svc *services, name string) (*statemachine.Machine, error) {
	return svc.machines.Machine(name)
}
