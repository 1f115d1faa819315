package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/internal/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "globeguide",
		Short: "Browse countries of the world from the terminal",
		Long: `globeguide lists, searches and compares countries, and keeps a list of
favorite countries for the signed-in user.

Run without arguments to start the interactive interface.

Environment:
  GLOBEGUIDE_API_URL        GlobeGuide API (default http://localhost:8080)
  GLOBEGUIDE_COUNTRIES_URL  country data source (default: the API's country proxy)
  GLOBEGUIDE_SESSION_FILE   stored session (default ~/.globeguide/session.json)
  GLOBEGUIDE_LOG_FILE       client log (default ~/.globeguide/client.log)
  GLOBEGUIDE_LOG_LEVEL      debug, info, error or off`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	root.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newListCmd(),
		newFavoritesCmd(),
	)
	return root
}

// runInteractive runs the TUI. Session changes reach the program through a
// synchronizer watcher, including sign-ins and sign-outs made by other
// globeguide processes.
func runInteractive(cmd *cobra.Command, _ []string) error {
	return withClient(cmd, func(ctx context.Context, c *client) error {
		sess := session.New(c.identity, c.log)

		model := tui.New(ctx, tui.Deps{
			Countries: c.countries,
			Session:   sess,
			Auth:      c.identity,
			Favorites: c.favorites,
			Log:       c.log,
			Formatter: c.format,
		})
		prog := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)

		stopWatching := sess.Watch(func(st session.State) {
			prog.Send(tui.SessionChanged{State: st})
		})
		defer stopWatching()

		if err := sess.Mount(); err != nil {
			return err
		}
		defer func() {
			if err := sess.Unmount(); err != nil {
				c.log.Error(err, map[string]interface{}{"op": "unmount_session"})
			}
		}()

		_, err := prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
}
