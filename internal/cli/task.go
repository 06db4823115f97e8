package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SubhasisDutta/todo-this-week/internal/app"
	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

// taskFlags holds the editable task fields shared by add and edit.
type taskFlags struct {
	Title    string
	URL      string
	Priority string
	Deadline string
	Type     string
	Energy   string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&f.URL, "url", "", "Related link")
	cmd.Flags().StringVarP(&f.Priority, "priority", "p", "", "Lane: CRITICAL, IMPORTANT or SOMEDAY")
	cmd.Flags().StringVar(&f.Deadline, "deadline", "", "Deadline as YYYY-MM-DD (CRITICAL only)")
	cmd.Flags().StringVar(&f.Type, "type", "", "Task type: home or work")
	cmd.Flags().StringVar(&f.Energy, "energy", "", "Energy: low or high")
}

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var flags taskFlags
	var opts struct {
		FromFile string
		DryRun   bool
	}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a new task",
		Long: `Create a new task.

New tasks go to the end of their lane with an empty schedule. The
lane defaults to SOMEDAY, the type to home and the energy to low.
CRITICAL tasks need a deadline.

Examples:
  # Create a task in the SOMEDAY lane
  todo-this-week add "Read the book club pick"

  # Create a critical task with a deadline
  todo-this-week add "File taxes" -p critical --deadline 2026-04-15 --type home

  # Create tasks from a YAML file (one document per task)
  todo-this-week add --from-file tasks.yaml

  # Validate a file without creating anything
  todo-this-week add --from-file tasks.yaml --dry-run

File format for --from-file:
  title: Task 1
  priority: IMPORTANT
  ---
  title: Task 2
  priority: CRITICAL
  deadline: 2026-04-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.FromFile != "" {
				return createTasksFromFile(cmd, c, opts.FromFile, opts.DryRun)
			}
			if opts.DryRun {
				return fmt.Errorf("--dry-run requires --from-file")
			}
			if len(args) == 1 {
				flags.Title = args[0]
			}
			if flags.Title == "" {
				return fmt.Errorf("a title is required")
			}

			input := usecase.CreateTaskInput{
				Title:    flags.Title,
				URL:      flags.URL,
				Deadline: flags.Deadline,
			}
			var err error
			if input.Priority, input.Type, input.Energy, err = parseEnumFlags(flags); err != nil {
				return err
			}

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&opts.FromFile, "from-file", "", "Create tasks from a YAML file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview tasks without creating (requires --from-file)")

	return cmd
}

// createTasksFromFile creates tasks from a YAML file.
func createTasksFromFile(cmd *cobra.Command, c *app.Container, filePath string, dryRun bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	out, err := c.CreateTasksFromFileUseCase().Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
		Content: string(content),
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintf(w, "Would create %d tasks:\n", len(out.Tasks))
		for i, t := range out.Tasks {
			_, _ = fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, t.Priority, t.Title)
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "Created %d tasks:\n", len(out.Tasks))
	for _, t := range out.Tasks {
		_, _ = fmt.Fprintf(w, "  %s %s\n", t.ID, t.Title)
	}
	return nil
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Priority      string
		Type          string
		HideCompleted bool
		Unscheduled   bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display tasks ordered by lane, then by their position in the lane.

Output columns:
  ID, LANE, DONE, TYPE, ENERGY, DEADLINE, SLOTS, TITLE

Overdue deadlines are highlighted.

Examples:
  # Everything
  todo-this-week list

  # Open work tasks in the IMPORTANT lane
  todo-this-week list -p important --type work --hide-completed

  # Tasks not yet placed in the week
  todo-this-week list --unscheduled`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				HideCompleted: opts.HideCompleted,
				Unscheduled:   opts.Unscheduled,
			}
			if opts.Priority != "" {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				input.Priority = p
			}
			if opts.Type != "" {
				t, err := domain.ParseTaskType(opts.Type)
				if err != nil {
					return err
				}
				input.Type = t
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			printTaskList(cmd.OutOrStdout(), out.Tasks, c.Clock.Now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Show only this lane")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Show only this type (home or work)")
	cmd.Flags().BoolVar(&opts.HideCompleted, "hide-completed", false, "Hide completed tasks")
	cmd.Flags().BoolVar(&opts.Unscheduled, "unscheduled", false, "Show only tasks with an empty schedule")

	return cmd
}

// printTaskList prints tasks as aligned columns.
func printTaskList(w io.Writer, tasks []domain.Task, now time.Time) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("No tasks"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tLANE\tDONE\tTYPE\tENERGY\tDEADLINE\tSLOTS\tTITLE")
	for i := range tasks {
		t := &tasks[i]
		deadline := t.Deadline
		if deadline == "" {
			deadline = "-"
		} else if t.IsOverdue(now) {
			deadline = overdueStyle.Render(deadline)
		}
		title := t.Title
		if t.Completed {
			title = doneStyle.Render(title)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			t.ID, laneLabel(t.Priority), checkbox(t.Completed), t.Type, t.Energy, deadline, len(t.Schedule), title)
	}
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			printTaskDetails(cmd.OutOrStdout(), out.Task, c.Clock.Now())
			return nil
		},
	}
}

// printTaskDetails prints a single task with its schedule.
func printTaskDetails(w io.Writer, t *domain.Task, now time.Time) {
	_, _ = fmt.Fprintln(w, headingStyle.Render(t.Title))
	_, _ = fmt.Fprintf(w, "ID:        %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "Lane:      %s (position %d)\n", laneLabel(t.Priority), t.DisplayOrder)
	if t.Deadline != "" {
		deadline := t.Deadline
		if t.IsOverdue(now) {
			deadline = overdueStyle.Render(deadline + " (overdue)")
		}
		_, _ = fmt.Fprintf(w, "Deadline:  %s\n", deadline)
	}
	_, _ = fmt.Fprintf(w, "Type:      %s\n", t.Type)
	_, _ = fmt.Fprintf(w, "Energy:    %s\n", t.Energy)
	if t.URL != "" {
		_, _ = fmt.Fprintf(w, "URL:       %s\n", t.URL)
	}
	_, _ = fmt.Fprintf(w, "Completed: %s\n", checkbox(t.Completed))

	if len(t.Schedule) == 0 {
		_, _ = fmt.Fprintln(w, "Schedule:  "+mutedStyle.Render("(none)"))
		return
	}
	_, _ = fmt.Fprintln(w, "Schedule:")
	for _, a := range t.Schedule {
		_, _ = fmt.Fprintf(w, "  %s %s\n", checkbox(a.Completed), a.Slot())
	}
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task's fields.

Only the flags given are changed. Moving a task to another lane puts it
at the end of that lane; leaving the CRITICAL lane drops its deadline.

Without any flag the task is opened in $EDITOR as YAML, and the saved
document replaces the task.

Examples:
  # Rename a task
  todo-this-week edit task_1 --title "Renew passport"

  # Promote a task to CRITICAL
  todo-this-week edit task_1 -p critical --deadline 2026-05-01

  # Edit every field in an editor
  todo-this-week edit task_1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := args[0]
			fs := cmd.Flags()
			if !fs.Changed("title") && !fs.Changed("url") && !fs.Changed("priority") &&
				!fs.Changed("deadline") && !fs.Changed("type") && !fs.Changed("energy") {
				return editTaskWithEditor(cmd, c, taskID)
			}

			input := usecase.EditTaskInput{TaskID: taskID}
			if fs.Changed("title") {
				input.Title = &flags.Title
			}
			if fs.Changed("url") {
				input.URL = &flags.URL
			}
			if fs.Changed("deadline") {
				input.Deadline = &flags.Deadline
			}
			if fs.Changed("priority") {
				p, err := domain.ParsePriority(flags.Priority)
				if err != nil {
					return err
				}
				input.Priority = &p
			}
			if fs.Changed("type") {
				t, err := domain.ParseTaskType(flags.Type)
				if err != nil {
					return err
				}
				input.Type = &t
			}
			if fs.Changed("energy") {
				e, err := domain.ParseEnergy(flags.Energy)
				if err != nil {
					return err
				}
				input.Energy = &e
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// editTaskWithEditor opens the task as YAML in the user's editor and saves the result.
func editTaskWithEditor(cmd *cobra.Command, c *app.Container, taskID string) error {
	showOut, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(showOut.Task.Stored()); err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	original := buf.String()

	tmpFile, err := os.CreateTemp("", "todo-"+taskID+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, writeErr := tmpFile.WriteString(original); writeErr != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	if editorErr := openEditorFunc(tmpPath); editorErr != nil {
		return editorErr
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	if string(edited) == original {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
		return nil
	}

	var stored domain.StoredTask
	if err := yaml.Unmarshal(edited, &stored); err != nil {
		return &domain.ValidationError{Field: "edited task", Err: err}
	}
	// The id is fixed by the command line.
	stored.ID = taskID
	tasks, _ := domain.MigrateTasks([]domain.StoredTask{stored}, func() string { return taskID })

	out, err := c.UpdateTaskUseCase().Execute(cmd.Context(), usecase.UpdateTaskInput{Task: tasks[0]})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
	return nil
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task.

When a remote mirror is connected, the task is archived to the
deleted list and removed from the active list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}
}

// newDoneCommand creates the done command.
func newDoneCommand(c *app.Container) *cobra.Command {
	return newCompletionCommand(c, "done", "Mark a task or one of its slots complete", true)
}

// newUndoCommand creates the undo command.
func newUndoCommand(c *app.Container) *cobra.Command {
	return newCompletionCommand(c, "undo", "Mark a task or one of its slots incomplete", false)
}

func newCompletionCommand(c *app.Container, use, short string, completed bool) *cobra.Command {
	var opts struct {
		Day   string
		Block string
	}

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Long: short + `.

Without --day and --block the whole task and every slot change together.
With them only that slot changes, and the task counts as complete once
all of its slots are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.Day == "") != (opts.Block == "") {
				return fmt.Errorf("--day and --block must be used together")
			}

			var task *domain.Task
			if opts.Day == "" {
				out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{
					TaskID:    args[0],
					Completed: completed,
				})
				if err != nil {
					return err
				}
				task = out.Task
			} else {
				day, err := domain.ParseDay(opts.Day)
				if err != nil {
					return err
				}
				out, err := c.CompleteAssignmentUseCase().Execute(cmd.Context(), usecase.CompleteAssignmentInput{
					TaskID:    args[0],
					Day:       day,
					BlockID:   opts.Block,
					Completed: completed,
				})
				if err != nil {
					return err
				}
				task = out.Task
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(task.Completed), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Day, "day", "", "Day of the slot")
	cmd.Flags().StringVar(&opts.Block, "block", "", "Time block id of the slot")

	return cmd
}

// newMoveLaneCommand creates the up and down commands.
func newMoveLaneCommand(c *app.Container, direction string) *cobra.Command {
	return &cobra.Command{
		Use:   direction + " <id>",
		Short: "Move a task " + direction + " within its lane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := domain.ParseDirection(direction)
			if err != nil {
				return err
			}
			out, err := c.SwapTaskUseCase().Execute(cmd.Context(), usecase.SwapTaskInput{TaskID: args[0], Direction: dir})
			if err != nil {
				return err
			}
			if out.Result == domain.SwapAtBoundary {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already at the %s of its lane\n", args[0], boundaryName(dir))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s %s\n", args[0], direction)
			return nil
		},
	}
}

func boundaryName(dir domain.Direction) string {
	if dir == domain.DirectionUp {
		return "top"
	}
	return "bottom"
}

// newReorderCommand creates the reorder command.
func newReorderCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <lane> <id>...",
		Short: "Set the order of tasks in a lane",
		Long: `Set the order of tasks in a lane.

The listed tasks get positions 0, 1, 2... in the order given.

Example:
  todo-this-week reorder important task_3 task_1 task_2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lane, err := domain.ParsePriority(args[0])
			if err != nil {
				return err
			}
			out, err := c.ReorderLaneUseCase().Execute(cmd.Context(), usecase.ReorderLaneInput{Lane: lane, TaskIDs: args[1:]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reordered %s (%d tasks changed)\n", lane, len(out.Changed))
			return nil
		},
	}
}

func parseEnumFlags(f taskFlags) (domain.Priority, domain.TaskType, domain.Energy, error) {
	var (
		p   domain.Priority
		t   domain.TaskType
		e   domain.Energy
		err error
	)
	if f.Priority != "" {
		if p, err = domain.ParsePriority(f.Priority); err != nil {
			return "", "", "", err
		}
	}
	if f.Type != "" {
		if t, err = domain.ParseTaskType(f.Type); err != nil {
			return "", "", "", err
		}
	}
	if f.Energy != "" {
		if e, err = domain.ParseEnergy(f.Energy); err != nil {
			return "", "", "", err
		}
	}
	return p, t, e, nil
}
