package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
)

type addOptions struct {
	Name     string
	Goal     string
	Category string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a habit",
		Example: `  habits add --name "Read 20 pages" --goal 30
  habits add -n Run -g 12 -c weekly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := dashboard.HabitForm{Name: opts.Name, Goal: opts.Goal, Category: opts.Category}
			return runAction(cmd, rootOpts, func(ctx context.Context, d *dashboard.Dashboard) (string, error) {
				return d.AddHabit(ctx, form)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "habit name")
	cmd.Flags().StringVarP(&opts.Goal, "goal", "g", "", "goal in days")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "daily, weekly or custom (default daily)")
	return cmd
}

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return habitCommand(rootOpts, "complete <habit-id>", "Mark a habit done for today", (*dashboard.Dashboard).Complete)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return habitCommand(rootOpts, "delete <habit-id>", "Delete a habit and its history", (*dashboard.Dashboard).Delete)
}

// NewRemindCommand creates the remind command.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	return habitCommand(rootOpts, "remind <habit-id>", "Queue a reminder for a habit", (*dashboard.Dashboard).Remind)
}

// NewGoalCommand creates the goal command.
func NewGoalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "goal <habit-id> <days>",
		Short: "Change the goal of a habit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseHabitID(args[0])
			if err != nil {
				return rootOpts.formatter(cmd).Fail(err)
			}
			return runAction(cmd, rootOpts, func(ctx context.Context, d *dashboard.Dashboard) (string, error) {
				return d.EditGoal(ctx, id, args[1])
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func habitCommand(rootOpts *RootOptions, use, short string, action func(*dashboard.Dashboard, context.Context, int64) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseHabitID(args[0])
			if err != nil {
				return rootOpts.formatter(cmd).Fail(err)
			}
			return runAction(cmd, rootOpts, func(ctx context.Context, d *dashboard.Dashboard) (string, error) {
				return action(d, ctx, id)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runAction(cmd *cobra.Command, opts *RootOptions, action func(context.Context, *dashboard.Dashboard) (string, error)) error {
	out := opts.formatter(cmd)

	d, err := opts.openDashboard(cmd)
	if err != nil {
		return out.Fail(asExitError(err))
	}

	msg, err := action(cmd.Context(), d)
	if err != nil {
		var vErr *dashboard.ValidationError
		if errors.As(err, &vErr) {
			return out.Fail(NewExitError(ExitCommandError, vErr.Message))
		}
		return out.Fail(WrapExitError(ExitFailure, err.Error(), errors.Unwrap(err)))
	}
	return out.Message(msg)
}

func parseHabitID(raw string) (int64, *ExitError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, "invalid habit id "+strconv.Quote(raw))
	}
	return id, nil
}

func asExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return WrapExitError(ExitFailure, err.Error(), err)
}
