package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/configedit"
	"github.com/alfredjeanlab/granja/internal/logging"
	"github.com/alfredjeanlab/granja/internal/model"
)

// groupEditor is a configuration group edited through text arguments.
type groupEditor interface {
	Items() []string
	Add(ctx context.Context, raw string) error
	Edit(ctx context.Context, index int, raw string) error
	Delete(ctx context.Context, index int) error
}

type textEditor[T any] struct {
	ed    *configedit.Editor[T]
	parse func(string) (T, error)
	show  func(T) string
}

func (t textEditor[T]) Items() []string {
	items := t.ed.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = t.show(it)
	}
	return out
}

func (t textEditor[T]) Add(ctx context.Context, raw string) error {
	v, err := t.parse(raw)
	if err != nil {
		return err
	}
	return t.ed.Add(ctx, v)
}

func (t textEditor[T]) Edit(ctx context.Context, index int, raw string) error {
	v, err := t.parse(raw)
	if err != nil {
		return err
	}
	return t.ed.Edit(ctx, index, v)
}

func (t textEditor[T]) Delete(ctx context.Context, index int) error {
	return t.ed.Delete(ctx, index)
}

func (a *app) groupEditor(group string) (groupEditor, error) {
	opts := []configedit.Option{
		configedit.WithPublisher(a.pub, a.by()),
		configedit.WithLogger(logging.Subsystem(a.log, "config")),
	}
	switch {
	case group == model.GroupTaxes:
		ed, err := configedit.New(configedit.TaxConfig(), a.client(), a.state, opts...)
		if err != nil {
			return nil, err
		}
		return textEditor[model.TaxEntry]{ed: ed, parse: configedit.ParseTax, show: func(t model.TaxEntry) string {
			return t.Name + "=" + t.Rate.String()
		}}, nil
	case model.IsStringGroup(group):
		ed, err := configedit.New(configedit.StringConfig(group), a.client(), a.state, opts...)
		if err != nil {
			return nil, err
		}
		ident := func(s string) (string, error) { return s, nil }
		return textEditor[string]{ed: ed, parse: ident, show: func(s string) string { return s }}, nil
	}
	return nil, errors.Errorf("unknown configuration group %q", group)
}

// position parses a 1-based item position into an index.
func position(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.Errorf("invalid position %q", s)
	}
	return n - 1, nil
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "View and edit the farm configuration",
		GroupID: "config",
	}

	groups := &cobra.Command{
		Use:   "groups",
		Short: "List configuration groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := append(append([]string{}, model.StringGroups...), model.GroupTaxes)
			if a.json {
				return printJSON(a.out, names)
			}
			for _, g := range names {
				fmt.Fprintln(a.out, g)
			}
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <group>",
		Short: "List the items of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.groupEditor(args[0])
			if err != nil {
				return err
			}
			items := ed.Items()
			if a.json {
				return printJSON(a.out, items)
			}
			for i, it := range items {
				fmt.Fprintf(a.out, "%3d  %s\n", i+1, it)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <group> <value>",
		Short: "Add an item to a group (taxes take NAME=RATE)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.groupEditor(args[0])
			if err != nil {
				return err
			}
			return ed.Add(cmd.Context(), args[1])
		},
	}

	edit := &cobra.Command{
		Use:   "edit <group> <position> <value>",
		Short: "Replace the item at a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := position(args[1])
			if err != nil {
				return err
			}
			ed, err := a.groupEditor(args[0])
			if err != nil {
				return err
			}
			return ed.Edit(cmd.Context(), i, args[2])
		},
	}

	var yes bool
	rm := &cobra.Command{
		Use:     "rm <group> <position>",
		Aliases: []string{"remove"},
		Short:   "Remove the item at a position",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := position(args[1])
			if err != nil {
				return err
			}
			ed, err := a.groupEditor(args[0])
			if err != nil {
				return err
			}
			if items := ed.Items(); i < len(items) && !yes {
				ok, err := confirm(cmd, fmt.Sprintf("¿Eliminar %q de %s?", items[i], args[0]))
				if err != nil || !ok {
					return err
				}
			}
			return ed.Delete(cmd.Context(), i)
		},
	}
	rm.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(groups, list, add, edit, rm)
	return cmd
}
