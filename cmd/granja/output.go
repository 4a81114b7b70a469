package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/granja/internal/pages"
	"github.com/alfredjeanlab/granja/internal/table"
	"github.com/alfredjeanlab/granja/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printSnapshot(w io.Writer, s table.Snapshot) error {
	return table.RenderSnapshot(w, s)
}

func printRecord(w io.Writer, rec pages.Record) error {
	fmt.Fprintln(w, ui.RenderBold(rec.Title))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", rec.ID)
	for _, l := range rec.Lines {
		fmt.Fprintf(tw, "%s:\t%s\n", l.Label, l.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(rec.Items) == 0 {
		if rec.Totals != nil {
			fmt.Fprintln(w, ui.RenderMuted("\nsin productos"))
		}
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PRODUCTO\tCANTIDAD\tPRECIO\tIVA %\tSUBTOTAL\t")
	for _, it := range rec.Items {
		name := it.Name
		if name == "" {
			name = it.Product
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", name,
			table.Format(table.TypeNumber, it.Quantity),
			table.Format(table.TypeCurrency, it.UnitPrice),
			it.Tax.String(),
			table.Format(table.TypeCurrency, it.Subtotal()))
	}
	if t := rec.Totals; t != nil {
		fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\t\n", table.Format(table.TypeCurrency, t.Subtotal))
		fmt.Fprintf(tw, "\t\t\tIVA\t%s\t\n", table.Format(table.TypeCurrency, t.Tax))
		fmt.Fprintf(tw, "\t\t\tTotal\t%s\t\n", table.Format(table.TypeCurrency, t.Total))
	}
	return tw.Flush()
}
