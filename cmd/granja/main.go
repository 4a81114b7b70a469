package main

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/ui"
)

// annotation marking commands that only need the stored session, not the
// configuration fetched from the backend.
const offline = "offline"

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "granja <command>",
		Short:         "Administrative console for the farm backend",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().BoolVar(&a.json, "json", false, "output as JSON")

	root.AddGroup(
		&cobra.Group{ID: "resources", Title: "Resources:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	root.SetHelpFunc(colorizedHelpFunc())

	// Resources
	root.AddCommand(newResourcesCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))

	// Configuration
	root.AddCommand(newConfigCmd(a))

	// Session
	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newWhoamiCmd(a))

	// Views
	root.AddCommand(newViewCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(newChartCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newReportCmd(a))

	// System
	root.AddCommand(newUploadCmd(a))
	root.AddCommand(newWatchCmd(a))
	return root
}

// errorMessage is what the user sees for err: the alert text for known
// failures and the error itself otherwise.
func errorMessage(err error) alert.Alert {
	al := alert.FromError(err)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		al.Message = alert.MsgValidation + ": " + verrs.Error()
	case al.Message == alert.MsgUnexpected:
		al.Message = err.Error()
	}
	return al
}

func main() {
	ui.Setup()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err).Render())
		os.Exit(1)
	}
}
