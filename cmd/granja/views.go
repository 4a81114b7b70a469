package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/views"
)

func (a *app) viewStore() (*views.Store, error) {
	path := a.cfg.ViewsFile
	if path == "" {
		p, err := views.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return views.NewStore(path), nil
}

func newViewCmd(a *app) *cobra.Command {
	var (
		page    int
		asCards bool
	)
	cmd := &cobra.Command{
		Use:     "view <name>",
		Short:   "List a resource through a saved view",
		GroupID: "views",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.viewStore()
			if err != nil {
				return err
			}
			v, err := store.Get(args[0])
			if err != nil {
				return err
			}
			return a.runList(cmd.Context(), v, page, asCards)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&asCards, "cards", false, "show records as cards")

	var f listFlags
	save := &cobra.Command{
		Use:         "save <name> <resource>",
		Short:       "Save table settings as a named view",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.viewStore()
			if err != nil {
				return err
			}
			return store.Put(f.view(args[0], args[1]))
		},
	}
	f.register(save)
	_ = save.Flags().MarkHidden("page")

	ls := &cobra.Command{
		Use:         "ls",
		Aliases:     []string{"list"},
		Short:       "List saved views",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.viewStore()
			if err != nil {
				return err
			}
			all, err := store.List()
			if err != nil {
				return err
			}
			if a.json {
				return printJSON(a.out, all)
			}
			for _, v := range all {
				fmt.Fprintf(a.out, "%-20s %s\n", v.Name, v.Resource)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:         "rm <name>",
		Short:       "Delete a saved view",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.viewStore()
			if err != nil {
				return err
			}
			return store.Delete(args[0])
		},
	}

	cmd.AddCommand(save, ls, rm)
	return cmd
}
