package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/tokenstore"
)

// newWatchCmd keeps one session alive and reports sign-ins and sign-outs made
// by other console processes sharing the token store.
func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the stored session until interrupted",
		Long: "watch restores the session, then reports every change made to the stored " +
			"tokens by other console processes, such as a login or logout in another terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			updates, unsubscribe := app.Session.Subscribe()
			defer unsubscribe()

			if _, err := app.Session.Restore(ctx); err != nil {
				return fmt.Errorf("read stored session: %w", err)
			}

			watchErr := make(chan error, 1)
			go func() { watchErr <- app.Session.WatchTokens(ctx, app.Tokens) }()

			out := cmd.OutOrStdout()
			last := describeSession(app.Session.State())
			fmt.Fprintln(out, last)

			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-watchErr:
					if errors.Is(err, tokenstore.ErrWatchUnsupported) {
						return fmt.Errorf("token store %q cannot be watched, use --token-store file", app.Config.TokenStore)
					}
					if err != nil && !errors.Is(err, context.Canceled) {
						return fmt.Errorf("watch token store: %w", err)
					}
					return nil
				case s := <-updates:
					if s.IsLoading {
						continue
					}
					if line := describeSession(s); line != last {
						last = line
						fmt.Fprintln(out, line)
					}
				}
			}
		},
	}
}

func describeSession(s domain.Session) string {
	switch {
	case s.IsAuthenticated:
		return fmt.Sprintf("signed in as %s (%s)", s.User.FullName(), s.User.Role)
	case s.Error != "":
		return "signed out: " + s.Error
	default:
		return "signed out"
	}
}
