package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gemach/admin-console/internal/core/ports"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := prompt(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			user, err := app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.New(app.Session.State().Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.FullName(), user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var in ports.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				p, err := prompt(cmd, "Password: ")
				if err != nil {
					return err
				}
				in.Password = p
			}

			user, err := app.Session.Register(cmd.Context(), in)
			if err != nil {
				return errors.New(app.Session.State().Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Password, "password", "", "password, at least 8 characters (prompted if omitted)")
	f.StringVar(&in.Role, "role", "", "requested role; the backend only accepts volunteer for self-registration")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.requireRole(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", user.FullName(), user.Email)
			fmt.Fprintf(out, "role:    %s\n", user.Role)

			access, ok, err := app.Tokens.AccessToken(cmd.Context())
			if err != nil || !ok {
				return err
			}
			if p, ok := app.Tokens.TokenPayload(access); ok {
				exp := p.Expiry()
				verb := "expires"
				if exp.Before(time.Now()) {
					verb = "expired"
				}
				fmt.Fprintf(out, "session: %s %s\n", verb, humanize.Time(exp))
			}
			return nil
		},
	}
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.API.Auth.Health(cmd.Context()); err != nil {
				return fmt.Errorf("backend %s unhealthy: %w", app.Config.APIURL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", app.Config.APIURL)
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
