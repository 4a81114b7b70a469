package pages

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alfredjeanlab/granja/internal/model"
)

// Detail is a record with its product lines and their totals.
type Detail[R any] struct {
	Record R
	Items  []model.LineItem
	Totals model.Totals
}

// ItemsFunc fetches the product lines of a movement.
type ItemsFunc func(ctx context.Context, id string) ([]model.LineItem, error)

// LoadDetail fetches the record and its product lines concurrently. The
// first failure cancels the other request.
func LoadDetail[R any](ctx context.Context, store Store[R], items ItemsFunc, id string) (Detail[R], error) {
	var d Detail[R]
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := store.Get(ctx, id)
		d.Record = r
		return err
	})
	g.Go(func() error {
		its, err := items(ctx, id)
		d.Items = its
		return err
	})
	if err := g.Wait(); err != nil {
		return Detail[R]{}, err
	}
	if d.Items == nil {
		d.Items = []model.LineItem{}
	}
	d.Totals = model.Total(d.Items)
	return d, nil
}
