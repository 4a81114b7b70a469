package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/export"
	"github.com/alfredjeanlab/granja/internal/logging"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		f      listFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export the filtered, sorted rows of a resource",
		Long: `Export every row matching the filter, not only the current page.
Files go to --out, or to the configured S3 bucket when no directory is given.`,
		GroupID: "views",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ff, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			dest, err := a.exportDestination(cmd.Context(), out)
			if err != nil {
				return err
			}
			pg, err := a.open(cmd.Context(), args[0], 0, true)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := f.view("", pg.Name()).Apply(pg.Table()); err != nil {
				return err
			}
			loc, err := export.NewExporter(dest, logging.Subsystem(a.log, "export")).
				Export(cmd.Context(), pg.Name(), ff, pg.Table())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, loc)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.Flags().MarkHidden("page")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.CSV), "csv, jsonl or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to write to")
	return cmd
}

func (a *app) exportDestination(ctx context.Context, dir string) (export.Destination, error) {
	if dir != "" || !a.cfg.ExportToS3() {
		return export.FileDestination{Dir: dir}, nil
	}
	d, err := export.NewS3Destination(ctx, a.cfg.ExportS3Bucket, a.cfg.ExportS3Prefix,
		a.cfg.ExportS3Region, a.cfg.ExportS3Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "configuring S3 export")
	}
	return d, nil
}
