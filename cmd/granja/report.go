package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "report <name> <id>",
		Short:   "Download a rendered report, e.g. report income <id>",
		GroupID: "views",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			blob, err := a.client().Report(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if out == "" {
				ext := ".pdf"
				if mt := mimetype.Lookup(blob.ContentType); mt != nil {
					ext = mt.Extension()
				}
				out = fmt.Sprintf("%s-%s%s", args[0], args[1], ext)
			}
			if err := os.WriteFile(out, blob.Data, 0o644); err != nil {
				return errors.Wrap(err, "writing report")
			}
			fmt.Fprintln(a.out, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <name>-<id>.<ext>)")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "upload <image>",
		Short:   "Upload an image and print its storage id",
		GroupID: "system",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			id, err := a.client().UploadImage(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
}
