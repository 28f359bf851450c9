package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

const displayDateLayout = "Jan 2, 2006"

// FormatDate renders a day the way the dashboard shows it.
func FormatDate(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Time().Format(displayDateLayout)
}

// FormatPercent drops trailing zeros: 50 → "50%", 42.5 → "42.5%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func FormatGoal(goal int) string {
	if goal <= 0 {
		return "N/A"
	}
	return strconv.Itoa(goal)
}

// Render writes the dashboard as plain text. The output depends on v alone.
func Render(w io.Writer, v View) error {
	p := &printer{w: w}

	p.linef("Habit Tracker: %s", v.Username)
	if !v.Today.IsZero() {
		p.linef("Today: %s", FormatDate(&v.Today))
	}
	p.line("")

	p.line("Your Current Habits")
	renderHabits(p, v)
	p.line("")

	p.line("Missed Habits")
	renderMissed(p, v.Missed)
	p.line("")

	p.line("Completion History")
	renderHistory(p, v.History)

	return p.err
}

func renderHabits(p *printer, v View) {
	if !sliceBody(p, v.Habits.Status, v.Habits.Err, len(v.Habits.Data), "No habits yet.") {
		return
	}

	tw := tabwriter.NewWriter(p, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tCREATED\tGOAL\tSTREAK\tCONSISTENCY")
	for _, h := range v.Habits.Data {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%d\t%s\n",
			h.HabitID, h.Name, FormatDate(h.CreatedAt), FormatGoal(h.Goal), h.CurrentStreak, FormatPercent(h.ConsistencyPercent))
	}
	if err := tw.Flush(); err != nil && p.err == nil {
		p.err = err
	}

	if v.Summary.Best != nil {
		p.line("")
		p.linef("Best Habit: %s - %s consistency", v.Summary.Best.Name, FormatPercent(v.Summary.Best.ConsistencyPercent))
	}
	if v.Summary.Worst != nil {
		p.linef("Needs Improvement: %s - %s consistency", v.Summary.Worst.Name, FormatPercent(v.Summary.Worst.ConsistencyPercent))
	}
}

func renderMissed(p *printer, s SliceState[[]domain.MissedEntry]) {
	if !sliceBody(p, s.Status, s.Err, len(s.Data), "Nothing missed.") {
		return
	}
	for _, m := range s.Data {
		if m.MissedDate != nil {
			p.linef("  %s (on %s)", m.Name, FormatDate(m.MissedDate))
			continue
		}
		p.linef("  %s", m.Name)
	}
}

func renderHistory(p *printer, s SliceState[[]domain.HistoryEntry]) {
	if !sliceBody(p, s.Status, s.Err, len(s.Data), "No completions yet.") {
		return
	}
	for _, h := range s.Data {
		p.linef("  %s completed on %s", h.Name, FormatDate(&h.Date))
	}
}

// sliceBody prints the placeholder for a slice that has no rows to show and
// reports whether the caller should print rows.
func sliceBody(p *printer, status Status, errMsg string, rows int, empty string) bool {
	switch status {
	case StatusError:
		p.linef("  %s", errMsg)
		return false
	case StatusReady:
		if rows == 0 {
			p.linef("  %s", empty)
			return false
		}
		return true
	default:
		p.line("  Loading...")
		return false
	}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	n, err := p.w.Write(b)
	p.err = err
	return n, err
}

func (p *printer) line(s string) {
	_, _ = io.WriteString(p, s+"\n")
}

func (p *printer) linef(format string, args ...any) {
	_, _ = fmt.Fprintf(p, format+"\n", args...)
}
