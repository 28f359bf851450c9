package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/client"
	"github.com/comitanigiacomo/kanso-habits/internal/config"
	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
	applog "github.com/comitanigiacomo/kanso-habits/internal/log"
	"github.com/comitanigiacomo/kanso-habits/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	APIURL      string
	SessionFile string
	Timeout     time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the habits client.
func NewRootCommand() *cobra.Command {
	defaults := config.LoadClient()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Track daily habits from the terminal",
		Long: `A terminal client for the Kanso habit service.

Register or log in once; the session is kept in a local file and every
other command acts on behalf of that user.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				err := NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Message)
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", defaults.APIURL, "habit service base URL")
	cmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", defaults.SessionFile, "where the login session is kept")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", defaults.Timeout, "per-request timeout")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewGoalCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func (o *RootOptions) logger(cmd *cobra.Command) *applog.Logger {
	if !o.Verbose {
		return applog.Discard()
	}
	return applog.New(applog.Config{Level: slog.LevelDebug, Output: cmd.ErrOrStderr()})
}

func (o *RootOptions) store() session.Store {
	return session.NewFileStore(o.SessionFile)
}

func (o *RootOptions) client(cmd *cobra.Command, token string) *client.Client {
	return client.New(o.APIURL, o.Timeout, o.logger(cmd)).WithToken(token)
}

// currentSession loads the saved session or explains how to create one.
func (o *RootOptions) currentSession() (session.Session, error) {
	sess, err := o.store().Load()
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, NewExitError(ExitCommandError, "not logged in: run `habits login` or `habits register` first")
	}
	if err != nil {
		return session.Session{}, WrapExitError(ExitCommandError, "cannot read session", err)
	}
	return sess, nil
}

// openDashboard builds the view-model aggregator for the saved session.
func (o *RootOptions) openDashboard(cmd *cobra.Command) (*dashboard.Dashboard, error) {
	sess, err := o.currentSession()
	if err != nil {
		return nil, err
	}
	return dashboard.New(o.client(cmd, sess.Token), sess, nil, o.logger(cmd)), nil
}
