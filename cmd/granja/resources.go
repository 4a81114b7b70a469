package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alfredjeanlab/granja/internal/views"
)

// listFlags are the table settings shared by list and view save.
type listFlags struct {
	page     int
	pageSize int
	search   string
	filter   string
	option   string
	sort     string
	columns  []string
	cards    bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "rows per page (default from GRANJA_PAGE_SIZE)")
	cmd.Flags().StringVar(&f.search, "search", "", "search text for the filter column")
	cmd.Flags().StringVar(&f.filter, "filter", "", "column to filter on")
	cmd.Flags().StringVar(&f.option, "option", "", "option to match in the filter column")
	cmd.Flags().StringVar(&f.sort, "sort", "", "column to sort by, prefix with - for descending")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "columns to show, in order")
}

// view expresses the flags as a saved-view preset.
func (f *listFlags) view(name, resource string) views.View {
	v := views.View{
		Name:     name,
		Resource: resource,
		Columns:  f.columns,
		Filter:   f.filter,
		Search:   f.search,
		Option:   f.option,
		PageSize: f.pageSize,
	}
	v.Sort, v.Desc = strings.CutPrefix(f.sort, "-")
	return v
}

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func newResourcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "resources",
		Short:   "List the resources available to the current user",
		GroupID: "resources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			routes := a.router(0, nil).Allowed(sess)
			if a.json {
				names := make([]string, len(routes))
				for i, r := range routes {
					names[i] = r.Name
				}
				return printJSON(a.out, names)
			}
			for _, r := range routes {
				fmt.Fprintf(a.out, "%-15s %s\n", r.Name, r.Title)
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:     "list [resource]",
		Short:   "List records of a resource",
		GroupID: "resources",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.search != "" && f.option != "" {
				return errors.New("--search and --option cannot be combined")
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runList(cmd.Context(), f.view("", name), f.page, f.cards)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.cards, "cards", false, "show records as cards")
	return cmd
}

// runList opens the resource of v, applies the preset and prints one page.
func (a *app) runList(ctx context.Context, v views.View, page int, asCards bool) error {
	pg, err := a.open(ctx, v.Resource, v.PageSize, true)
	if err != nil {
		return err
	}
	defer pg.Close()

	tbl := pg.Table()
	if err := v.Apply(tbl); err != nil {
		return err
	}
	tbl.SetPage(page)

	switch {
	case a.json:
		return printJSON(a.out, tbl.Export().Records)
	case asCards:
		return pg.RenderCards(a.out, termWidth())
	}
	snap, err := views.Project(tbl.Snapshot(), v.Columns)
	if err != nil {
		return err
	}
	return printSnapshot(a.out, snap)
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <resource> <id>",
		Short:   "Show one record, with its products for movements",
		GroupID: "resources",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := a.open(cmd.Context(), args[0], 0, false)
			if err != nil {
				return err
			}
			defer pg.Close()
			rec, err := pg.Show(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if a.json {
				return printJSON(a.out, struct {
					Record any `json:"record"`
					Items  any `json:"items,omitempty"`
					Totals any `json:"totals,omitempty"`
				}{rec.Data, rec.Items, rec.Totals})
			}
			return printRecord(a.out, rec)
		},
	}
}

// parseAssignments turns name=value arguments into form values.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("expected name=value, got %q", arg)
		}
		values[k] = v
	}
	return values, nil
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <resource> [name=value...]",
		Short: "Create a record",
		Long: `Create a record from name=value pairs. Run without pairs to list the
fields of the resource.`,
		GroupID: "resources",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := a.open(cmd.Context(), args[0], 0, false)
			if err != nil {
				return err
			}
			defer pg.Close()
			if len(args) == 1 {
				fmt.Fprintln(a.out, pg.Fields())
				return nil
			}
			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			id, err := pg.Create(cmd.Context(), values)
			if err != nil {
				return err
			}
			if a.json {
				return printJSON(a.out, map[string]string{"id": id})
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "update <resource> <id> name=value...",
		Short:   "Update fields of a record",
		GroupID: "resources",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			pg, err := a.open(cmd.Context(), args[0], 0, false)
			if err != nil {
				return err
			}
			defer pg.Close()
			return pg.Update(cmd.Context(), args[1], values)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <resource> <id>...",
		Short:   "Delete records",
		GroupID: "resources",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := a.open(cmd.Context(), args[0], 0, false)
			if err != nil {
				return err
			}
			defer pg.Close()
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("¿Eliminar %d registro(s) de %s?", len(args)-1, pg.Title()))
				if err != nil || !ok {
					return err
				}
			}
			for _, id := range args[1:] {
				if err := pg.Delete(cmd.Context(), id); err != nil {
					return errors.Wrapf(err, "deleting %s", id)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [s/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, errors.New("no answer, use --yes to skip the confirmation")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true, nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "cancelado")
	return false, nil
}
