package cli

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-habits/internal/client"
	"github.com/comitanigiacomo/kanso-habits/internal/dashboard"
	"github.com/comitanigiacomo/kanso-habits/internal/session"
)

type credentialOptions struct {
	Username string
	Password string
}

// authenticate is Register or Login on the client.
type authenticate func(c *client.Client, ctx context.Context, username, password string) (*client.AuthResult, error)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentialOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, rootOpts, creds, (*client.Client).Register, dashboard.MsgRegistered, func(err error) string {
				return client.UserMessage(err, dashboard.MsgRegistrationFailed)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addCredentialFlags(cmd, creds)
	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentialOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, rootOpts, creds, (*client.Client).Login, "Logged in.", func(err error) string {
				if client.IsStatus(err, http.StatusUnauthorized) {
					return dashboard.MsgInvalidLogin
				}
				return client.UserMessage(err, dashboard.MsgInvalidLogin)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addCredentialFlags(cmd, creds)
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			if err := rootOpts.store().Clear(); err != nil {
				return out.Fail(WrapExitError(ExitCommandError, "cannot remove session", err))
			}
			return out.Message("Logged out.")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func addCredentialFlags(cmd *cobra.Command, creds *credentialOptions) {
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account name (prompted when empty)")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password (prompted when empty)")
}

func runAuth(cmd *cobra.Command, opts *RootOptions, creds *credentialOptions, call authenticate, okMsg string, failMsg func(error) string) error {
	out := opts.formatter(cmd)

	if creds.Username == "" || creds.Password == "" {
		if err := promptCredentials(creds); err != nil {
			return out.Fail(WrapExitError(ExitCommandError, "credentials required", err))
		}
	}

	res, err := call(opts.client(cmd, ""), cmd.Context(), creds.Username, creds.Password)
	if err != nil {
		return out.Fail(WrapExitError(ExitFailure, failMsg(err), err))
	}

	sess := session.New(res.UserID, creds.Username, res.Token)
	if err := opts.store().Save(sess); err != nil {
		return out.Fail(WrapExitError(ExitCommandError, "cannot save session", err))
	}

	return out.Success(map[string]string{"user_id": sess.UserID, "username": sess.Username}, func(w io.Writer) error {
		_, err := io.WriteString(w, okMsg+"\n")
		return err
	})
}

func promptCredentials(creds *credentialOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&creds.Username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&creds.Password),
		),
	).Run()
}
