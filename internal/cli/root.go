// Package cli provides the command-line interface for todo-this-week.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupSchedule = "schedule"
	groupSync     = "sync"
)

// NewRootCommand creates the root command for todo-this-week.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo-this-week",
		Short: "Weekly task planner",
		Long: `todo-this-week keeps a prioritized task list and a weekly schedule.

Tasks live in three lanes (CRITICAL, IMPORTANT, SOMEDAY) and can be placed
into time blocks of the coming seven days. The collection can be mirrored
to a remote table service, and one instance can host that service itself.

The data directory defaults to $XDG_DATA_HOME/todo-this-week and can be
overridden with TODO_DATA_DIR.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupSchedule, Title: "Weekly Schedule:"},
		&cobra.Group{ID: groupSync, Title: "Sync and Backup:"},
	)

	grouped := []struct {
		group string
		cmds  []*cobra.Command
	}{
		{groupSetup, []*cobra.Command{
			newInitCommand(c),
			newConfigCommand(c),
			newServeCommand(c),
			newMigrateCommand(c),
		}},
		{groupTask, []*cobra.Command{
			newAddCommand(c),
			newListCommand(c),
			newShowCommand(c),
			newEditCommand(c),
			newRmCommand(c),
			newDoneCommand(c),
			newUndoCommand(c),
			newMoveLaneCommand(c, "up"),
			newMoveLaneCommand(c, "down"),
			newReorderCommand(c),
		}},
		{groupSchedule, []*cobra.Command{
			newAssignCommand(c),
			newUnassignCommand(c),
			newUnassignAllCommand(c),
			newMoveCommand(c),
			newScheduleCommand(c),
			newWeekCommand(c),
			newBlocksCommand(c),
		}},
		{groupSync, []*cobra.Command{
			newRemoteCommand(c),
			newBackupCommand(c),
		}},
	}
	for _, g := range grouped {
		for _, cmd := range g.cmds {
			cmd.GroupID = g.group
			root.AddCommand(cmd)
		}
	}

	return root
}
