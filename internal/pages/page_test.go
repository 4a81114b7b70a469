package pages

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/client"
	"github.com/alfredjeanlab/granja/internal/forms"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore serves farms from memory. List call n returns results[n] (the
// last entry repeats) and, when gates[n] is set, waits for it to close.
type fakeStore struct {
	mu       sync.Mutex
	results  [][]model.Farm
	gates    []chan struct{}
	started  chan int
	calls    int
	listErr  error
	writeErr error
	deleted  []string
	created  []model.Farm
	updated  map[string]model.Farm
}

func (s *fakeStore) List(ctx context.Context) ([]model.Farm, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	var gate chan struct{}
	if n < len(s.gates) {
		gate = s.gates[n]
	}
	var rows []model.Farm
	if len(s.results) > 0 {
		rows = s.results[min(n, len(s.results)-1)]
	}
	err, started := s.listErr, s.started
	s.mu.Unlock()
	if started != nil {
		started <- n
	}
	if gate != nil {
		<-gate
	}
	return rows, err
}

func (s *fakeStore) Get(ctx context.Context, id string) (model.Farm, error) {
	return model.Farm{ID: id, Name: "Granja " + id, Status: true}, nil
}

func (s *fakeStore) Create(ctx context.Context, v any) (model.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return model.Farm{}, s.writeErr
	}
	f := v.(model.Farm)
	f.ID = "f-new"
	s.created = append(s.created, f)
	return f, nil
}

func (s *fakeStore) Update(ctx context.Context, id string, v any) (model.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return model.Farm{}, s.writeErr
	}
	f := v.(model.Farm)
	f.ID = id
	if s.updated == nil {
		s.updated = map[string]model.Farm{}
	}
	s.updated[id] = f
	return f, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeStore) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingAlerts struct {
	mu    sync.Mutex
	shown []alert.Alert
}

func (r *recordingAlerts) Show(a alert.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, a)
}

func (r *recordingAlerts) ShowError(err error) { r.Show(alert.FromError(err)) }

func (r *recordingAlerts) last() alert.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shown) == 0 {
		return alert.Alert{}
	}
	return r.shown[len(r.shown)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, ev any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return nil
}

func farms(ids ...string) []model.Farm {
	out := make([]model.Farm, len(ids))
	for i, id := range ids {
		out[i] = model.Farm{ID: id, Name: "Granja " + id, Status: true}
	}
	return out
}

func newFarmPage(s *fakeStore, opts ...ListOption) *ListPage[model.Farm] {
	return NewListPage("farms", Store[model.Farm](s), func(f model.Farm) string { return f.ID },
		table.New(FarmColumns(forms.Catalog{})), opts...)
}

func TestLoadAppliesRows(t *testing.T) {
	s := &fakeStore{results: [][]model.Farm{farms("a", "b")}}
	p := newFarmPage(s)
	defer p.Close()

	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, []string{"a", "b"}, p.IDs())
	loaded, err := p.Loaded()
	assert.True(t, loaded)
	assert.NoError(t, err)
	assert.Equal(t, 2, p.Table().Snapshot().Total)
}

func TestLateResponseIsDiscarded(t *testing.T) {
	first, second := make(chan struct{}), make(chan struct{})
	s := &fakeStore{
		results: [][]model.Farm{farms("old"), farms("new")},
		gates:   []chan struct{}{first, second},
		started: make(chan int, 2),
	}
	p := newFarmPage(s)
	defer p.Close()

	errs := make(chan error, 2)
	go func() { errs <- p.Load(context.Background()) }()
	<-s.started
	go func() { errs <- p.Load(context.Background()) }()
	<-s.started

	close(second)
	require.NoError(t, <-errs)
	close(first)
	assert.ErrorIs(t, <-errs, ErrDiscarded)

	assert.Equal(t, []string{"new"}, p.IDs())
}

func TestCloseDiscardsInFlightLoad(t *testing.T) {
	gate := make(chan struct{})
	s := &fakeStore{
		results: [][]model.Farm{farms("a")},
		gates:   []chan struct{}{gate},
		started: make(chan int, 1),
	}
	p := newFarmPage(s)

	errs := make(chan error, 1)
	go func() { errs <- p.Load(context.Background()) }()
	<-s.started
	p.Close()
	close(gate)

	assert.ErrorIs(t, <-errs, ErrDiscarded)
	assert.Empty(t, p.IDs())
	assert.ErrorIs(t, p.Load(context.Background()), ErrClosed)
}

func TestLoadErrorShowsAlert(t *testing.T) {
	alerts := &recordingAlerts{}
	s := &fakeStore{listErr: errors.Wrap(client.ErrUnreachable, "dial tcp")}
	p := newFarmPage(s, WithAlerts(alerts))
	defer p.Close()

	err := p.Load(context.Background())
	require.ErrorIs(t, err, client.ErrUnreachable)
	assert.Equal(t, alert.Alert{Color: alert.Danger, Message: alert.MsgUnreachable}, alerts.last())
	loaded, lastErr := p.Loaded()
	assert.False(t, loaded)
	assert.Error(t, lastErr)
}

func TestDeleteRefetches(t *testing.T) {
	alerts := &recordingAlerts{}
	pub := &recordingPublisher{}
	s := &fakeStore{results: [][]model.Farm{farms("a", "b"), farms("b")}}
	p := newFarmPage(s, WithAlerts(alerts), WithEvents(pub, "ana"))
	defer p.Close()

	require.NoError(t, p.Load(context.Background()))
	require.NoError(t, p.Delete(context.Background(), "a"))

	assert.Equal(t, []string{"a"}, s.deleted)
	assert.Equal(t, 2, s.listCalls())
	assert.Equal(t, []string{"b"}, p.IDs())
	assert.Equal(t, alert.Alert{Color: alert.Success, Message: MsgDeleted}, alerts.last())
	assert.Equal(t, []string{"granja.record.deleted"}, pub.topics)
}

func TestSaveCreatesOrUpdates(t *testing.T) {
	alerts := &recordingAlerts{}
	s := &fakeStore{results: [][]model.Farm{farms("a")}}
	p := newFarmPage(s, WithAlerts(alerts))
	defer p.Close()
	ctx := context.Background()

	saved, err := p.Save(ctx, "", model.Farm{Name: "Nueva"})
	require.NoError(t, err)
	assert.Equal(t, "f-new", saved.ID)
	assert.Equal(t, MsgCreated, alerts.last().Message)

	_, err = p.Save(ctx, "a", model.Farm{Name: "Renombrada"})
	require.NoError(t, err)
	assert.Equal(t, "Renombrada", s.updated["a"].Name)
	assert.Equal(t, MsgSaved, alerts.last().Message)
	assert.Equal(t, 2, s.listCalls())
}

func TestFailedMutationDoesNotRefetch(t *testing.T) {
	alerts := &recordingAlerts{}
	s := &fakeStore{writeErr: &client.APIError{StatusCode: 409, Message: "nombre duplicado"}}
	p := newFarmPage(s, WithAlerts(alerts))
	defer p.Close()

	_, err := p.Save(context.Background(), "", model.Farm{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, 0, s.listCalls())
	assert.Equal(t, alert.Alert{Color: alert.Danger, Message: "nombre duplicado"}, alerts.last())
}

func TestLoadDetailFetchesConcurrently(t *testing.T) {
	itemsStarted := make(chan struct{})
	store := &gatedGet{wait: itemsStarted}
	items := func(ctx context.Context, id string) ([]model.LineItem, error) {
		close(itemsStarted)
		return []model.LineItem{
			{Product: "p1", Quantity: dec("2"), UnitPrice: dec("10"), Tax: dec("12")},
		}, nil
	}

	d, err := LoadDetail[model.Farm](context.Background(), store, items, "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", d.Record.ID)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "22.4", d.Totals.Total.String())
}

func TestLoadDetailFailureCancelsOther(t *testing.T) {
	store := &gatedGet{wait: make(chan struct{})}
	items := func(ctx context.Context, id string) ([]model.LineItem, error) {
		return nil, errors.New("boom")
	}
	_, err := LoadDetail[model.Farm](context.Background(), store, items, "f1")
	assert.EqualError(t, err, "boom")
}

func TestLoadDetailEmptyItems(t *testing.T) {
	store := &fakeStore{}
	items := func(ctx context.Context, id string) ([]model.LineItem, error) { return nil, nil }
	d, err := LoadDetail[model.Farm](context.Background(), store, items, "f1")
	require.NoError(t, err)
	assert.NotNil(t, d.Items)
	assert.True(t, d.Totals.Total.IsZero())
}

// gatedGet blocks Get until wait is closed or the context ends.
type gatedGet struct {
	fakeStore
	wait chan struct{}
}

func (g *gatedGet) Get(ctx context.Context, id string) (model.Farm, error) {
	select {
	case <-g.wait:
		return model.Farm{ID: id}, nil
	case <-ctx.Done():
		return model.Farm{}, ctx.Err()
	case <-time.After(5 * time.Second):
		return model.Farm{}, errors.New("items were not fetched concurrently")
	}
}
