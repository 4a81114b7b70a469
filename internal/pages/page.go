// Package pages holds the page containers: each one fetches its rows
// through the API client, hands them to a table, turns table/card callbacks
// into HTTP calls and re-fetches after every mutation.
package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/events"
	"github.com/alfredjeanlab/granja/internal/table"
)

// ErrDiscarded is returned by Load when its response arrived after a newer
// load started or the page was closed. The response is not applied.
var ErrDiscarded = errors.New("stale response discarded")

// ErrClosed is returned by operations on a closed page.
var ErrClosed = errors.New("page closed")

// Alert messages for successful mutations.
const (
	MsgSaved   = "Registro guardado"
	MsgCreated = "Registro creado"
	MsgDeleted = "Registro eliminado"
)

// Store is the REST surface of one resource; *client.Resource[R] satisfies it.
type Store[R any] interface {
	List(ctx context.Context) ([]R, error)
	Get(ctx context.Context, id string) (R, error)
	Create(ctx context.Context, v any) (R, error)
	Update(ctx context.Context, id string, v any) (R, error)
	Delete(ctx context.Context, id string) error
}

// Alerter shows notifications; *alert.Presenter satisfies it.
type Alerter interface {
	Show(alert.Alert)
	ShowError(error)
}

// ListPage is the container of one resource list.
type ListPage[R any] struct {
	name  string
	store Store[R]
	idOf  func(R) string

	alerts Alerter
	pub    events.Publisher
	by     string
	log    zerolog.Logger

	mu      sync.Mutex
	tbl     *table.Table[R]
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	loaded  bool
	loadErr error
}

// ListOption configures a ListPage.
type ListOption func(*listOptions)

type listOptions struct {
	pub    events.Publisher
	by     string
	log    zerolog.Logger
	alerts Alerter
}

// WithEvents publishes record changes as by.
func WithEvents(pub events.Publisher, by string) ListOption {
	return func(o *listOptions) { o.pub, o.by = pub, by }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) ListOption {
	return func(o *listOptions) { o.log = l }
}

// WithAlerts sets where outcomes are reported.
func WithAlerts(a Alerter) ListOption {
	return func(o *listOptions) { o.alerts = a }
}

// NewListPage creates a page over store, displaying rows with tbl.
func NewListPage[R any](name string, store Store[R], idOf func(R) string, tbl *table.Table[R], opts ...ListOption) *ListPage[R] {
	o := listOptions{pub: &events.NoopPublisher{}, log: zerolog.Nop(), alerts: discardAlerts{}}
	for _, fn := range opts {
		fn(&o)
	}
	return &ListPage[R]{
		name:   name,
		store:  store,
		idOf:   idOf,
		tbl:    tbl,
		alerts: o.alerts,
		pub:    o.pub,
		by:     o.by,
		log:    o.log.With().Str("page", name).Logger(),
	}
}

// Name returns the page name.
func (p *ListPage[R]) Name() string { return p.name }

// Table returns the page's table guarded by the page lock.
func (p *ListPage[R]) Table() table.Controller {
	return &lockedTable[R]{p: p}
}

// Rows returns the rows of the current table page.
func (p *ListPage[R]) Rows() []R {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tbl.View().Rows
}

// IDs returns the ids of the rows of the current table page.
func (p *ListPage[R]) IDs() []string {
	rows := p.Rows()
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = p.idOf(r)
	}
	return ids
}

// Loaded reports whether a load has been applied, and the error of the
// last failed one.
func (p *ListPage[R]) Loaded() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded, p.loadErr
}

// Load fetches the rows. A newer Load or Close supersedes this one: its
// request is cancelled and its response discarded.
func (p *ListPage[R]) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	start := time.Now()
	rows, err := p.store.List(ctx)

	p.mu.Lock()
	if gen != p.gen || p.closed {
		p.mu.Unlock()
		p.log.Debug().Uint64("gen", gen).Msg("discarding stale response")
		return ErrDiscarded
	}
	p.cancel = nil
	if err != nil {
		p.loadErr = err
		p.mu.Unlock()
		p.log.Error().Err(err).Msg("loading rows")
		p.alerts.ShowError(err)
		return err
	}
	p.tbl.SetData(rows)
	p.loaded, p.loadErr = true, nil
	p.mu.Unlock()
	p.log.Debug().Int("rows", len(rows)).Dur("took", time.Since(start)).Msg("rows loaded")
	return nil
}

// Get fetches one record.
func (p *ListPage[R]) Get(ctx context.Context, id string) (R, error) {
	return p.store.Get(ctx, id)
}

// Delete removes the record and re-fetches the list.
func (p *ListPage[R]) Delete(ctx context.Context, id string) error {
	if err := p.store.Delete(ctx, id); err != nil {
		p.log.Error().Err(err).Str("id", id).Msg("deleting record")
		p.alerts.ShowError(err)
		return err
	}
	p.publish(ctx, events.TopicRecordDeleted, id)
	p.alerts.Show(alert.Alert{Color: alert.Success, Message: MsgDeleted})
	return p.reload(ctx)
}

// Save creates v when id is empty and updates record id otherwise, then
// re-fetches the list. It returns the record as stored by the server.
func (p *ListPage[R]) Save(ctx context.Context, id string, v R) (R, error) {
	var (
		saved R
		err   error
		topic = events.TopicRecordUpdated
		msg   = MsgSaved
	)
	if id == "" {
		saved, err = p.store.Create(ctx, v)
		topic, msg = events.TopicRecordCreated, MsgCreated
	} else {
		saved, err = p.store.Update(ctx, id, v)
	}
	if err != nil {
		p.log.Error().Err(err).Str("id", id).Msg("saving record")
		p.alerts.ShowError(err)
		return saved, err
	}
	p.publish(ctx, topic, p.idOf(saved))
	p.alerts.Show(alert.Alert{Color: alert.Success, Message: msg})
	return saved, p.reload(ctx)
}

// reload re-fetches after a mutation; a discarded response is not an error
// since a newer load is already in flight.
func (p *ListPage[R]) reload(ctx context.Context) error {
	if err := p.Load(ctx); err != nil && !errors.Is(err, ErrDiscarded) && !errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}

func (p *ListPage[R]) publish(ctx context.Context, topic, id string) {
	ev := events.RecordChanged{Resource: p.name, ID: id, By: p.by, At: time.Now().UTC()}
	if err := p.pub.Publish(ctx, topic, ev); err != nil {
		p.log.Warn().Err(err).Str("topic", topic).Msg("publishing record change")
	}
}

// replaceTable swaps the table, keeping the rows and the view state.
func (p *ListPage[R]) replaceTable(t *table.Table[R]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t.SetData(p.tbl.Data())
	t.Restore(p.tbl)
	p.tbl = t
}

// Close cancels any in-flight load. Responses arriving later are discarded.
func (p *ListPage[R]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

type discardAlerts struct{}

func (discardAlerts) Show(alert.Alert) {}
func (discardAlerts) ShowError(error)  {}
