package main

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/pages"
	"github.com/alfredjeanlab/granja/internal/tui"
	"github.com/alfredjeanlab/granja/internal/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "browse [resource]",
		Aliases: []string{"ui"},
		Short:   "Open the interactive console",
		GroupID: "views",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if f, ok := stdinFile(cmd); !ok || !ui.IsTerminal(f) {
				return errors.New("browse needs an interactive terminal")
			}
			// The console owns the screen; log lines would tear it.
			a.log = zerolog.Nop()
			route := ""
			if len(args) == 1 {
				route = args[0]
			}
			return tui.Run(cmd.Context(), tui.RunOptions{
				Session:      sess,
				Route:        route,
				AlertTimeout: a.cfg.AlertTimeout,
				Build: func(alerts pages.Alerter) *pages.Router {
					return a.router(0, alerts)
				},
			})
		},
	}
}
