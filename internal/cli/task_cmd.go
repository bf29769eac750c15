package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskStartCmd(app),
		newTaskFinishCmd(app),
		newTaskProgressCmd(app),
	)

	return cmd
}

var (
	errTaskNameRequired = errors.New("task name is required")
	errDueDateRequired  = errors.New("a due date is required unless the task depends on another")
)

type taskAddFlags struct {
	name        string
	site        string
	phase       string
	section     string
	subsection  string
	after       string
	due         time.Time
	end         time.Time
	progress    int
	interactive bool
}

func newTaskAddCmd(app *App) *cobra.Command {
	var f taskAddFlags

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add a task to a site, phase, section or subsection",
		Long: `Add a task. The task attaches to the lowest level given.

With --after the due date is the referenced task's end date plus one day,
and --due is ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				f.name = args[0]
			}

			siteID, err := resolveSiteOrSelected(ctx, app, f.site)
			if err != nil {
				return err
			}

			var req contract.CreateTaskRequest
			if f.interactive || (app.interactive() && f.name == "") {
				r, err := runTaskForm(ctx, app, siteID, f)
				if err != nil {
					return err
				}
				req = r
			} else {
				r, err := taskRequestFromFlags(cmd, app, siteID, f)
				if err != nil {
					return err
				}
				req = r
			}

			task, err := app.Tracker.CreateTask(ctx, req)
			if err != nil && task == nil {
				return err
			}
			msg := fmt.Sprintf("Task '%s' added! (%s, %s to %s)", task.Name, task.DisplayID(),
				formatter.FormatDate(task.DueDate), formatter.FormatDate(task.EndDate))
			return finish(cmd, err, msg)
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "Task name")
	cmd.Flags().StringVar(&f.site, "site", "", "Site (default: selected site)")
	cmd.Flags().StringVar(&f.phase, "phase", "", "Phase")
	cmd.Flags().StringVar(&f.section, "section", "", "Section")
	cmd.Flags().StringVar(&f.subsection, "subsection", "", "Subsection")
	cmd.Flags().StringVar(&f.after, "after", "", "Task this one depends on")
	dateVar(cmd.Flags(), &f.due, "due", "Planned start date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &f.end, "end", "Planned end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.progress, "progress", 0, "Declared progress percentage")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Fill in the task with a form")

	return cmd
}

func taskRequestFromFlags(cmd *cobra.Command, app *App, siteID string, f taskAddFlags) (contract.CreateTaskRequest, error) {
	ctx := cmd.Context()
	req := contract.CreateTaskRequest{
		SiteID:   siteID,
		Name:     f.name,
		DueDate:  f.due,
		EndDate:  f.end,
		Progress: f.progress,
	}
	if strings.TrimSpace(req.Name) == "" {
		return req, errTaskNameRequired
	}
	if f.after == "" && req.DueDate.IsZero() {
		return req, fmt.Errorf("--due is required unless --after is given")
	}
	if req.EndDate.IsZero() {
		return req, fmt.Errorf("--end is required")
	}

	var err error
	if f.phase != "" {
		if req.PhaseID, err = resolveNodeID(ctx, app, domain.LevelPhase, f.phase, siteID); err != nil {
			return req, err
		}
	}
	if f.section != "" {
		if req.SectionID, err = resolveNodeID(ctx, app, domain.LevelSection, f.section, siteID); err != nil {
			return req, err
		}
	}
	if f.subsection != "" {
		if req.SubsectionID, err = resolveNodeID(ctx, app, domain.LevelSubsection, f.subsection, siteID); err != nil {
			return req, err
		}
	}
	if f.after != "" {
		if req.DependentOnTaskID, err = resolveTaskID(ctx, app, f.after, siteID); err != nil {
			return req, err
		}
	}
	return req, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	var siteRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks for a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			siteID, err := resolveSiteOrSelected(ctx, app, siteRef)
			if err != nil {
				return err
			}
			tasks, err := app.Tracker.ListTasks(ctx, siteID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No tasks yet."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteRef, "site", "", "Site (default: selected site)")

	return cmd
}

func newTaskStartCmd(app *App) *cobra.Command {
	var at time.Time

	cmd := &cobra.Command{
		Use:   "start TASK",
		Short: "Record the actual start of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			task, err := app.Tracker.StartTask(ctx, taskID, at)
			if err != nil && task == nil {
				return err
			}
			return finish(cmd, err, fmt.Sprintf("Started '%s' on %s.", task.Name, formatter.FormatOptionalDate(task.ActualStartDate)))
		},
	}

	dateVar(cmd.Flags(), &at, "at", "Start date (default: today)")

	return cmd
}

func newTaskFinishCmd(app *App) *cobra.Command {
	var at time.Time

	cmd := &cobra.Command{
		Use:   "finish TASK",
		Short: "Record the actual end of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID, err := resolveTaskID(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			task, err := app.Tracker.FinishTask(ctx, taskID, at)
			if err != nil && task == nil {
				return err
			}
			return finish(cmd, err, fmt.Sprintf("Finished '%s' on %s.", task.Name, formatter.FormatOptionalDate(task.ActualEndDate)))
		},
	}

	dateVar(cmd.Flags(), &at, "at", "End date (default: today)")

	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress TASK PERCENT",
		Short: "Set the declared progress of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pct, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("invalid percentage %q", args[1])
			}
			taskID, err := resolveTaskID(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			task, err := app.Tracker.UpdateProgress(ctx, taskID, pct)
			if err != nil && task == nil {
				return err
			}
			return finish(cmd, err, fmt.Sprintf("'%s' is %d%% complete.", task.Name, task.Progress))
		},
	}
}
