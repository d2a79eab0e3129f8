package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
)

type callbackParams struct {
	token, name, email string
}

// awaitCallback serves one OAuth redirect on addr and returns its query.
func awaitCallback(ctx context.Context, addr string) (callbackParams, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return callbackParams{}, err
	}
	got := make(chan callbackParams, 1)
	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("token") == "" {
				http.Error(w, "missing token", http.StatusBadRequest)
				return
			}
			fmt.Fprintln(w, "Signed in. You can close this window.")
			select {
			case got <- callbackParams{token: q.Get("token"), name: q.Get("name"), email: q.Get("email")}:
			default:
			}
		}),
	}
	go srv.Serve(ln)
	defer srv.Close()

	select {
	case p := <-got:
		return p, nil
	case <-ctx.Done():
		return callbackParams{}, ctx.Err()
	}
}

func newLoginCommand(e *env) *cobra.Command {
	var p callbackParams
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google through the backend",
		Long: "Prints the backend login URL and waits for the OAuth redirect on the callback address.\n" +
			"Pass --token, --name and --email to store a session obtained elsewhere.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := e.load(ctx)
			if err != nil {
				return err
			}

			if p.token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Open this URL to sign in:")
				fmt.Fprintln(cmd.OutOrStdout(), "  "+a.Auth.LoginURL())
				fmt.Fprintf(cmd.OutOrStdout(), "Waiting for the redirect on http://%s/ ...\n", a.Config.Studio.CallbackAddr)

				waitCtx, cancel := context.WithTimeout(ctx, wait)
				defer cancel()
				if p, err = awaitCallback(waitCtx, a.Config.Studio.CallbackAddr); err != nil {
					if errors.Is(err, context.DeadlineExceeded) {
						return errors.New("timed out waiting for the login redirect")
					}
					return err
				}
			}

			u, err := a.Auth.CompleteLogin(ctx, p.token, p.name, p.email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s> (%s)\n", u.Name, u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&p.token, "token", "", "auth token from the callback")
	cmd.Flags().StringVar(&p.name, "name", "", "display name from the callback")
	cmd.Flags().StringVar(&p.email, "email", "", "email from the callback")
	cmd.Flags().DurationVar(&wait, "wait", 5*time.Minute, "how long to wait for the redirect")
	return cmd
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and the stored resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

type whoami struct {
	models.CurrentUser
	Token *services.TokenInfo `json:"token,omitempty"`
}

func newWhoamiCommand(e *env) *cobra.Command {
	var sync bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := e.load(ctx)
			if err != nil {
				return err
			}

			var u models.CurrentUser
			if sync {
				u, err = a.Auth.SyncRole(ctx)
			} else {
				u, err = a.Auth.Current(ctx)
			}
			if err != nil {
				return err
			}
			out := whoami{CurrentUser: u}
			if tok, _ := a.Sessions.Token(ctx); tok != "" {
				if info, err := services.InspectToken(tok); err == nil {
					out.Token = &info
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&sync, "sync", false, "re-read the role from the backend")
	return cmd
}
