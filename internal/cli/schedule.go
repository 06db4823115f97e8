package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/blocks"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

// parseSlotArgs reads a <day> <block> argument pair.
func parseSlotArgs(day, block string) (domain.Slot, error) {
	d, err := domain.ParseDay(day)
	if err != nil {
		return domain.Slot{}, err
	}
	return domain.Slot{Day: d, BlockID: block}, nil
}

// newAssignCommand creates the assign command.
func newAssignCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <day> <block>",
		Short: "Place a task into a time block",
		Long: `Place a task into a (day, block) slot of the week.

Blocks with capacity "none" accept nothing, "single" blocks hold one
task, and "multiple" blocks hold any number. Assigning a slot the task
already holds changes nothing.

Examples:
  todo-this-week assign task_1 monday deep-work-1
  todo-this-week assign task_2 tue admin`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlotArgs(args[1], args[2])
			if err != nil {
				return err
			}
			out, err := c.AssignSlotUseCase().Execute(cmd.Context(), usecase.AssignSlotInput{
				TaskID: args[0], Day: slot.Day, BlockID: slot.BlockID,
			})
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s already holds %s\n", args[0], slot)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Assigned task %s to %s\n", args[0], slot)
			return nil
		},
	}
}

// newUnassignCommand creates the unassign command.
func newUnassignCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <id> <day> <block>",
		Short: "Remove a task from a time block",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlotArgs(args[1], args[2])
			if err != nil {
				return err
			}
			_, err = c.UnassignSlotUseCase().Execute(cmd.Context(), usecase.UnassignSlotInput{
				TaskID: args[0], Day: slot.Day, BlockID: slot.BlockID,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s from %s\n", args[0], slot)
			return nil
		},
	}
}

// newUnassignAllCommand creates the unassign-all command.
func newUnassignAllCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign-all",
		Short: "Clear the schedule of every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.UnassignAllUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared the schedule of %d tasks\n", len(out.Tasks))
			return nil
		},
	}
}

// newMoveCommand creates the move command.
func newMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <from-day> <from-block> <to-day> <to-block>",
		Short: "Move a task from one slot to another",
		Long: `Move a task from one slot to another, keeping the slot's completion.

The destination is checked against its capacity as if the source slot
were already free. Moving to the same slot changes nothing.

Example:
  todo-this-week move task_1 mon deep-work-1 wed deep-work-2`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseSlotArgs(args[1], args[2])
			if err != nil {
				return err
			}
			to, err := parseSlotArgs(args[3], args[4])
			if err != nil {
				return err
			}
			out, err := c.MoveSlotUseCase().Execute(cmd.Context(), usecase.MoveSlotInput{
				TaskID:    args[0],
				FromDay:   from.Day,
				FromBlock: from.BlockID,
				ToDay:     to.Day,
				ToBlock:   to.BlockID,
			})
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s from %s to %s\n", args[0], from, to)
			return nil
		},
	}
}

// newScheduleCommand creates the schedule command.
func newScheduleCommand(c *app.Container) *cobra.Command {
	var slots []string

	cmd := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Replace a task's schedule",
		Long: `Replace a task's schedule with the given slots.

Slots that stay keep their completion; new slots start incomplete.
Passing no --slot clears the schedule.

Example:
  todo-this-week schedule task_1 --slot mon/admin --slot thu/admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]domain.Slot, 0, len(slots))
			for _, s := range slots {
				day, block, ok := strings.Cut(s, "/")
				if !ok || block == "" {
					return &domain.ValidationError{Field: "slot", Err: fmt.Errorf("%q is not day/block", s)}
				}
				slot, err := parseSlotArgs(day, block)
				if err != nil {
					return err
				}
				parsed = append(parsed, slot)
			}
			out, err := c.SetScheduleUseCase().Execute(cmd.Context(), usecase.SetScheduleInput{TaskID: args[0], Slots: parsed})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s now holds %d slots\n", out.Task.ID, len(out.Task.Schedule))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&slots, "slot", nil, "Slot as day/block (can specify multiple)")

	return cmd
}

// newWeekCommand creates the week command.
func newWeekCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "List the week's assignments",
		Long: `List the assignments of the seven days starting today.

Days run from today; within a day, blocks follow the catalog order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListWeekUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), out.Days)
			return nil
		},
	}
}

// printWeek prints one section per day.
func printWeek(w io.Writer, days []usecase.WeekDay) {
	for i, d := range days {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, headingStyle.Render(strings.ToUpper(string(d.Day))))
		if len(d.Entries) == 0 {
			_, _ = fmt.Fprintln(w, "  "+mutedStyle.Render("(nothing scheduled)"))
			continue
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, e := range d.Entries {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s %s\n",
				e.Block.Time, e.Block.Label, e.TaskID, checkbox(e.Completed), e.Title)
		}
		_ = tw.Flush()
	}
}

// newBlocksCommand creates the blocks command.
func newBlocksCommand(c *app.Container) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List the time block catalog",
		Long: `List the time blocks of a day.

Use --yaml to print the catalog in the format read by [blocks] file,
which is a convenient starting point for a custom catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := c.Grid.Catalog()
			if asYAML {
				return blocks.Encode(cmd.OutOrStdout(), catalog)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tLABEL\tTIME\tCAPACITY")
			for _, b := range catalog.Blocks() {
				capacity := string(b.Capacity)
				if !b.Schedulable() {
					capacity = mutedStyle.Render(capacity)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Label, b.Time, capacity)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as YAML")

	return cmd
}
