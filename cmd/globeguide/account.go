package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joefazee/globeguide/internal/backend"
	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/models"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func newRegisterCmd() *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client) error {
				out := cmd.OutOrStdout()
				if email == "" {
					var err error
					if email, err = promptLine(cmd.InOrStdin(), out, "Email: "); err != nil {
						return err
					}
				}
				password, err := promptPassword(out)
				if err != nil {
					return err
				}
				profile, err := c.api.Register(ctx, backend.RegisterRequest{
					DisplayName: name,
					Email:       email,
					Password:    password,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Registered %s. Run `globeguide login` to sign in.\n", profile.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client) error {
				out := cmd.OutOrStdout()
				if email == "" {
					var err error
					if email, err = promptLine(cmd.InOrStdin(), out, "Email: "); err != nil {
						return err
					}
				}
				password, err := promptPassword(out)
				if err != nil {
					return err
				}
				id, err := c.identity.SignIn(ctx, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed in as %s.\n", describeIdentity(id))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

// settledSession mounts a synchronizer and waits for its first state.
func settledSession(ctx context.Context, c *client) (*session.Synchronizer, session.State, error) {
	sess := session.New(c.identity, c.log)
	if err := sess.Mount(); err != nil {
		return nil, session.State{}, err
	}
	st, err := sess.Await(ctx)
	if err != nil {
		_ = sess.Unmount()
		return nil, st, err
	}
	return sess, st, nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client) error {
				sess, st, err := settledSession(ctx, c)
				if err != nil {
					return err
				}
				defer sess.Unmount()

				if st.Status != session.StatusAuthenticated {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				if err := sess.SignOut(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client) error {
				sess, st, err := settledSession(ctx, c)
				if err != nil {
					return err
				}
				defer sess.Unmount()

				if st.Status != session.StatusAuthenticated {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", describeIdentity(st.Identity))
				return nil
			})
		},
	}
}

func describeIdentity(id *models.Identity) string {
	if id.DisplayName == "" {
		return id.Email
	}
	return fmt.Sprintf("%s <%s>", id.DisplayName, id.Email)
}
