package pages

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/alfredjeanlab/granja/internal/cards"
	"github.com/alfredjeanlab/granja/internal/forms"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/table"
)

// ErrNoRow is returned by Act for an index outside the current table page.
var ErrNoRow = errors.New("no row at that position")

// View is the page surface the command line and the terminal UI drive,
// independent of the row type.
type View interface {
	Name() string
	Title() string
	Load(ctx context.Context) error
	Table() table.Controller
	IDs() []string
	Fields() string
	Show(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, values map[string]string) (string, error)
	Update(ctx context.Context, id string, values map[string]string) error
	Delete(ctx context.Context, id string) error
	RenderCards(w io.Writer, width int) error
	Act(ctx context.Context, index int, kind cards.Kind) (*Record, error)
	Close()
}

// Record is one record prepared for display. Items and Totals are set only
// for resources with product lines.
type Record struct {
	ID     string
	Title  string
	Lines  []cards.Line
	Items  []model.LineItem
	Totals *model.Totals
	Data   any
}

// ConfigSource provides the configuration and its changes;
// *appstate.State satisfies it.
type ConfigSource interface {
	Config() model.Configuration
	Subscribe(fn func(model.Configuration)) func()
}

// Definition describes one resource page.
type Definition[R any] struct {
	Name  string
	Title string
	Path  string
	Roles []string
	// Items marks movements whose product lines live under /{id}/products.
	Items bool

	ID       func(R) string
	Columns  func(forms.Catalog) []table.Column[R]
	Fields   func() []forms.Field[R]
	Validate func(forms.Catalog) func(*R) error
	// New returns the initial record of a create form.
	New func() R
}

func fixed[R any](fn func(*R) error) func(forms.Catalog) func(*R) error {
	return func(forms.Catalog) func(*R) error { return fn }
}

type resourcePage[R any] struct {
	def    Definition[R]
	list   *ListPage[R]
	store  Store[R]
	items  ItemsFunc
	alerts Alerter
	opts   []table.Setting

	mu          sync.Mutex
	catalog     forms.Catalog
	columns     []table.Column[R]
	unsubscribe func()
}

func newResourcePage[R any](def Definition[R], store Store[R], items ItemsFunc, d Deps) *resourcePage[R] {
	alerts := d.Alerts
	if alerts == nil {
		alerts = discardAlerts{}
	}
	var cfg model.Configuration
	if d.Config != nil {
		cfg = d.Config.Config()
	}
	p := &resourcePage[R]{
		def:     def,
		store:   store,
		items:   items,
		alerts:  alerts,
		catalog: forms.NewCatalog(cfg),
	}
	if d.PageSize > 0 {
		p.opts = append(p.opts, table.WithPageSize(d.PageSize))
	}
	p.columns = def.Columns(p.catalog)
	listOpts := []ListOption{WithLogger(d.Log), WithAlerts(alerts)}
	if d.Events != nil {
		listOpts = append(listOpts, WithEvents(d.Events, d.By))
	}
	p.list = NewListPage(def.Name, store, def.ID, table.New(p.columns, p.opts...), listOpts...)
	if d.Config != nil {
		p.unsubscribe = d.Config.Subscribe(p.configChanged)
	}
	return p
}

// configChanged rebuilds the columns so option filters follow the
// configured choices.
func (p *resourcePage[R]) configChanged(cfg model.Configuration) {
	p.mu.Lock()
	p.catalog = forms.NewCatalog(cfg)
	p.columns = p.def.Columns(p.catalog)
	cols := p.columns
	p.mu.Unlock()
	p.list.replaceTable(table.New(cols, p.opts...))
}

func (p *resourcePage[R]) snapshot() (forms.Catalog, []table.Column[R]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.catalog, p.columns
}

func (p *resourcePage[R]) Name() string                   { return p.def.Name }
func (p *resourcePage[R]) Title() string                  { return p.def.Title }
func (p *resourcePage[R]) Load(ctx context.Context) error { return p.list.Load(ctx) }
func (p *resourcePage[R]) Table() table.Controller        { return p.list.Table() }
func (p *resourcePage[R]) IDs() []string                  { return p.list.IDs() }
func (p *resourcePage[R]) Fields() string                 { return forms.Describe(p.def.Fields()) }

func (p *resourcePage[R]) Delete(ctx context.Context, id string) error {
	return p.list.Delete(ctx, id)
}

func (p *resourcePage[R]) Show(ctx context.Context, id string) (Record, error) {
	if p.def.Items && p.items != nil {
		d, err := LoadDetail(ctx, p.store, p.items, id)
		if err != nil {
			p.alerts.ShowError(err)
			return Record{}, err
		}
		rec := p.record(d.Record)
		rec.Items = d.Items
		rec.Totals = &d.Totals
		return rec, nil
	}
	r, err := p.store.Get(ctx, id)
	if err != nil {
		p.alerts.ShowError(err)
		return Record{}, err
	}
	return p.record(r), nil
}

func (p *resourcePage[R]) record(r R) Record {
	_, cols := p.snapshot()
	rec := Record{ID: p.def.ID(r), Data: r}
	for i, col := range cols {
		v := table.Cell(col, r)
		if i == 0 {
			rec.Title = v
		}
		rec.Lines = append(rec.Lines, cards.Line{Label: col.Header, Value: v})
	}
	return rec
}

func (p *resourcePage[R]) form(initial R) *forms.Form[R] {
	catalog, _ := p.snapshot()
	return forms.New(initial, p.def.Fields(), p.def.Validate(catalog))
}

func (p *resourcePage[R]) Create(ctx context.Context, values map[string]string) (string, error) {
	var initial R
	if p.def.New != nil {
		initial = p.def.New()
	}
	var id string
	err := p.submit(ctx, p.form(initial), values, func(ctx context.Context, v R) error {
		saved, err := p.list.Save(ctx, "", v)
		id = p.def.ID(saved)
		return err
	})
	return id, err
}

func (p *resourcePage[R]) Update(ctx context.Context, id string, values map[string]string) error {
	current, err := p.store.Get(ctx, id)
	if err != nil {
		p.alerts.ShowError(err)
		return err
	}
	return p.submit(ctx, p.form(current), values, func(ctx context.Context, v R) error {
		_, err := p.list.Save(ctx, id, v)
		return err
	})
}

// submit applies values and saves only a valid record. Field errors are
// reported as a warning alert.
func (p *resourcePage[R]) submit(ctx context.Context, f *forms.Form[R], values map[string]string, save func(context.Context, R) error) error {
	if err := f.SetAll(values); err != nil {
		p.alerts.ShowError(err)
		return err
	}
	err := f.Submit(ctx, save)
	if err != nil && f.Errors() != nil {
		p.alerts.ShowError(err)
	}
	return err
}

func (p *resourcePage[R]) cardList(actions cards.Actions[R]) *cards.List[R] {
	_, cols := p.snapshot()
	return cards.NewList(cols, actions)
}

func (p *resourcePage[R]) RenderCards(w io.Writer, width int) error {
	noop := func(R) error { return nil }
	l := p.cardList(cards.Actions[R]{Details: noop, Edit: noop, Delete: noop})
	return cards.Render(w, l.Build(p.list.Rows()), width, table.DefaultEmptyMessage)
}

// Act runs a card action on the row at index of the current table page.
// Details and Edit return the record; Delete removes it and returns nil.
func (p *resourcePage[R]) Act(ctx context.Context, index int, kind cards.Kind) (*Record, error) {
	rows := p.list.Rows()
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("%w: %d", ErrNoRow, index+1)
	}
	var out *Record
	show := func(r R) error {
		rec, err := p.Show(ctx, p.def.ID(r))
		if err != nil {
			return err
		}
		out = &rec
		return nil
	}
	l := p.cardList(cards.Actions[R]{
		Details: show,
		Edit:    show,
		Delete:  func(r R) error { return p.list.Delete(ctx, p.def.ID(r)) },
	})
	card := l.Build(rows[index : index+1])[0]
	if err := l.Invoke(card, kind); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *resourcePage[R]) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.list.Close()
}
