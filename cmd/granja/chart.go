package main

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/charts"
)

func newChartCmd(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:     "chart <stat>",
		Short:   "Draw a statistic as horizontal bars",
		GroupID: "views",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			q := url.Values{}
			for _, p := range params {
				k, v, ok := strings.Cut(p, "=")
				if !ok {
					return errors.Errorf("expected key=value, got %q", p)
				}
				q.Add(k, v)
			}
			aggs, err := a.client().Stats(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			series := charts.Build(aggs)
			if a.json {
				return printJSON(a.out, series)
			}
			return charts.Render(a.out, series, termWidth())
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter key=value (repeatable)")
	return cmd
}
