package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"agri_advisor/internal/domain"
	"agri_advisor/internal/session"
	"agri_advisor/internal/views"
)

func loginCommand() *cobra.Command {
	var in views.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			form := views.NewLoginForm(a.client, a.session, a.logger)

			state := form.Submit(cmd.Context(), in)
			if err := printForm(cmd.OutOrStdout(), state); err != nil {
				return err
			}

			a.session.Wait()
			printIdentity(cmd.OutOrStdout(), a.session.State())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	return cmd
}

func registerCommand() *cobra.Command {
	var in views.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			form := views.NewRegisterForm(a.client, a.session, a.logger)

			state := form.Submit(cmd.Context(), in)
			if err := printForm(cmd.OutOrStdout(), state); err != nil {
				return err
			}

			a.session.Wait()
			printIdentity(cmd.OutOrStdout(), a.session.State())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, 8+ characters with letters and numbers")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number (optional)")
	cmd.Flags().StringVar(&in.Location, "location", "", "farm location (optional)")
	return cmd
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fromCommand(cmd).session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := fromCommand(cmd)
			a.session.Wait()

			state := a.session.State()
			out := cmd.OutOrStdout()
			if !state.Authenticated() {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}

			printIdentity(out, state)

			claims, err := session.Inspect(state.Token)
			if err != nil {
				a.logger.Debug("token is not a readable JWT", "error", err)
				return nil
			}
			if claims.Subject != "" {
				fmt.Fprintf(out, "Subject: %s\n", claims.Subject)
			}
			if claims.ExpiresAt != nil {
				status := "valid"
				if claims.Expired(time.Now()) {
					status = "expired"
				}
				fmt.Fprintf(out, "Expires: %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), status)
			}
			return nil
		},
	}
}

func printIdentity(w io.Writer, state domain.SessionState) {
	switch {
	case state.User != nil:
		fmt.Fprintf(w, "Signed in as %s <%s>\n", state.User.Name, state.User.Email)
		if state.User.Location != "" {
			fmt.Fprintf(w, "Location: %s\n", state.User.Location)
		}
	case state.Authenticated():
		fmt.Fprintln(w, "Signed in, but the profile could not be loaded.")
	}
}

// printForm writes the outcome of a form. Any problem becomes the command
// error so the process exits non-zero.
func printForm(w io.Writer, state views.FormState) error {
	if len(state.Fields) > 0 {
		printFields(w, state.Fields)
		return errors.New("invalid input")
	}
	if state.Error != "" {
		return errors.New(state.Error)
	}
	fmt.Fprintln(w, state.Success)
	return nil
}

func printFields(w io.Writer, fields domain.FieldErrors) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, fields[name])
	}
}
