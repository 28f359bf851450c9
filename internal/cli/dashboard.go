package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/client"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
	"github.com/comitanigiacomo/kanso-habits/internal/tui"
)

type sliceJSON[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

type dashboardJSON struct {
	Username string                           `json:"username"`
	Today    domain.Date                      `json:"today"`
	Habits   sliceJSON[[]domain.HabitStat]    `json:"habits"`
	Summary  domain.Summary                   `json:"summary"`
	Missed   sliceJSON[[]domain.MissedEntry]  `json:"missed"`
	History  sliceJSON[[]domain.HistoryEntry] `json:"history"`
}

func toSliceJSON[T any](s dashboard.SliceState[T]) sliceJSON[T] {
	return sliceJSON[T]{Status: s.Status.String(), Data: s.Data, Error: s.Err}
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"show"},
		Short:   "Print habits, missed days and completion history",
		Long: `Load the three dashboard sections concurrently and print them.

A section that fails to load shows its own error; the others are still
printed and the command exits 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			d, err := rootOpts.openDashboard(cmd)
			if err != nil {
				return out.Fail(asExitError(err))
			}

			d.Refresh(cmd.Context())
			v := d.View()

			data := dashboardJSON{
				Username: v.Username,
				Today:    v.Today,
				Habits:   toSliceJSON(v.Habits),
				Summary:  v.Summary,
				Missed:   toSliceJSON(v.Missed),
				History:  toSliceJSON(v.History),
			}
			return out.Success(data, func(w io.Writer) error {
				return dashboard.Render(w, v)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show best and worst performing habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			sess, err := rootOpts.currentSession()
			if err != nil {
				return out.Fail(asExitError(err))
			}

			perf, err := rootOpts.client(cmd, sess.Token).Performance(cmd.Context(), sess.UserID)
			if err != nil {
				return out.Fail(WrapExitError(ExitFailure, client.UserMessage(err, dashboard.MsgHabitsFailed), err))
			}

			return out.Success(perf, func(w io.Writer) error {
				return renderPerformance(w, perf)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func renderPerformance(w io.Writer, perf *domain.Performance) error {
	fmt.Fprintf(w, "Best: %s (%s)\n", perf.Best.Name, dashboard.FormatPercent(perf.Best.ConsistencyPercent))
	fmt.Fprintf(w, "Worst: %s (%s)\n\n", perf.Worst.Name, dashboard.FormatPercent(perf.Worst.ConsistencyPercent))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDONE\tSTREAK\tLONGEST\tCONSISTENCY")
	for _, h := range perf.All {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", h.Name, h.CompletedDays, h.CurrentStreak, h.LongestStreak, dashboard.FormatPercent(h.ConsistencyPercent))
	}
	return tw.Flush()
}

// NewTUICommand creates the interactive dashboard command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rootOpts.openDashboard(cmd)
			if err != nil {
				return rootOpts.formatter(cmd).Fail(asExitError(err))
			}
			if err := tui.Run(cmd.Context(), d); err != nil {
				return WrapExitError(ExitFailure, "dashboard stopped", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
