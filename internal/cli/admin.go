package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/models"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/services"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/workers"
)

func printUsers(cmd *cobra.Command, users []models.User, all []models.User) {
	st := services.Stats(all)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d users, %d admins, %d regular\n", st.TotalUsers, st.Admins, st.RegularUsers)
}

func newAdminCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage users (ADMIN role required)",
	}

	var query string
	var asJSON bool
	users := &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := a.Admin.Verify(cmd.Context()); err != nil {
				return err
			}
			all, err := a.Admin.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			found := services.Search(all, query)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), found)
			}
			printUsers(cmd, found, all)
			return nil
		},
	}
	users.Flags().StringVarP(&query, "query", "q", "", "filter by name or email")
	users.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	action := func(use, short string, run func(services.AdminService) func(context.Context, string) ([]models.User, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <user-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := e.load(cmd.Context())
				if err != nil {
					return err
				}
				if _, err := a.Admin.Verify(cmd.Context()); err != nil {
					return err
				}
				list, err := run(a.Admin)(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printUsers(cmd, list, list)
				return nil
			},
		}
	}

	grant := action("grant", "Grant the ADMIN role", func(s services.AdminService) func(context.Context, string) ([]models.User, error) { return s.Grant })
	revoke := action("revoke", "Revoke the ADMIN role", func(s services.AdminService) func(context.Context, string) ([]models.User, error) { return s.Revoke })
	del := action("delete", "Delete a user", func(s services.AdminService) func(context.Context, string) ([]models.User, error) { return s.Delete })
	var yes bool
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	del.PreRunE = func(cmd *cobra.Command, args []string) error {
		if yes {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Delete user %s? This cannot be undone. [y/N] ", args[0])
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			return errors.New("aborted")
		}
		return nil
	}

	var interval time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the user table periodically until access is lost or Ctrl-C",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := e.load(cmd.Context())
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.Config.Timing.AdminPoll
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w := &workers.AdminWatcher{
				Source:   a.Admin,
				Interval: interval,
				Logger:   a.Log,
				OnSnapshot: func(s models.AdminSnapshot) {
					fmt.Fprintf(cmd.OutOrStdout(), "\n-- %s --\n", s.FetchedAt.Local().Format(time.TimeOnly))
					printUsers(cmd, s.Users, s.Users)
				},
				OnError: func(err error) {
					fmt.Fprintln(cmd.ErrOrStderr(), "refresh failed:", err)
				},
			}
			return w.Run(ctx)
		},
	}
	watch.Flags().DurationVar(&interval, "interval", 0, "poll interval (default from config)")

	cmd.AddCommand(users, grant, revoke, del, watch)
	return cmd
}
