package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/forms"
	"github.com/alfredjeanlab/granja/internal/ui"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in and store the session",
		GroupID:     "session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}
			form := forms.Login()
			if err := form.SetAll(map[string]string{"email": email, "password": password}); err != nil {
				return err
			}
			return form.Submit(cmd.Context(), func(ctx context.Context, c forms.Credentials) error {
				sess, err := a.state.Login(ctx, c.Email, c.Password)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, alert.Alert{Color: alert.Success,
					Message: fmt.Sprintf("Bienvenido %s (%s)", sess.User.Name, sess.User.Role)}.Render())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(err, "reading password")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	f, ok := stdinFile(cmd)
	if !ok || !ui.IsTerminal(f) {
		return "", errors.New("no terminal to prompt for the password, use --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Contraseña: ")
	defer fmt.Fprintln(cmd.ErrOrStderr())
	return ui.ReadSecret(f)
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session",
		GroupID:     "session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.state.Logout()
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the logged-in user",
		GroupID:     "session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if a.json {
				return printJSON(a.out, sess.User)
			}
			fmt.Fprintf(a.out, "%s <%s>\n", sess.User.Name, sess.User.Email)
			fmt.Fprintf(a.out, "rol:    %s\n", sess.User.Role)
			if sess.User.Farm != "" {
				fmt.Fprintf(a.out, "granja: %s\n", sess.User.Farm)
			}
			return nil
		},
	}
}
