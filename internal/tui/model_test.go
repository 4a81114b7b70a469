package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/cards"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/pages"
	"github.com/alfredjeanlab/granja/internal/table"
)

// fakeView serves records from memory through a real table.
type fakeView struct {
	name   string
	rows   []table.Record
	tbl    *table.Table[table.Record]
	loads  int
	closed bool
	acts   []cards.Kind
}

func newFakeView(name string, n int) *fakeView {
	rows := make([]table.Record, n)
	for i := range rows {
		rows[i] = table.Record{"_id": fmt.Sprint(i), "name": fmt.Sprintf("%s-%02d", name, i), "status": i%2 == 0}
	}
	return &fakeView{
		name: name,
		rows: rows,
		tbl: table.New([]table.Column[table.Record]{
			{Accessor: "name", Header: "Nombre", Filterable: true},
			{Accessor: "status", Header: "Estado", Type: table.TypeStatus, Filterable: true, Options: table.StatusOptions},
		}),
	}
}

func (f *fakeView) Name() string  { return f.name }
func (f *fakeView) Title() string { return strings.ToUpper(f.name) }
func (f *fakeView) Load(context.Context) error {
	f.loads++
	f.tbl.SetData(f.rows)
	return nil
}
func (f *fakeView) Table() table.Controller { return f.tbl }
func (f *fakeView) IDs() []string           { return nil }
func (f *fakeView) Fields() string          { return "" }
func (f *fakeView) Show(context.Context, string) (pages.Record, error) {
	return pages.Record{}, nil
}
func (f *fakeView) Create(context.Context, map[string]string) (string, error) { return "", nil }
func (f *fakeView) Update(context.Context, string, map[string]string) error   { return nil }
func (f *fakeView) Delete(context.Context, string) error                      { return nil }
func (f *fakeView) RenderCards(w io.Writer, width int) error {
	_, err := io.WriteString(w, "CARDS\n")
	return err
}
func (f *fakeView) Act(_ context.Context, i int, k cards.Kind) (*pages.Record, error) {
	f.acts = append(f.acts, k)
	rows := f.tbl.View().Rows
	if rows[i]["status"] != true {
		return nil, cards.ErrActionDisabled
	}
	if k == cards.Delete {
		return nil, nil
	}
	return &pages.Record{ID: rows[i]["_id"].(string), Title: rows[i]["name"].(string),
		Lines: []cards.Line{{Label: "Nombre", Value: rows[i]["name"].(string)}}}, nil
}
func (f *fakeView) Close() { f.closed = true }

type fixture struct {
	views map[string]*fakeView
	opened []*fakeView
	router *pages.Router
}

func newFixture() *fixture {
	fx := &fixture{views: map[string]*fakeView{}}
	fx.router = pages.NewRouter()
	for _, name := range []string{pages.DefaultRoute, "pigs", "users"} {
		roles := []string(nil)
		if name == "users" {
			roles = []string{model.RoleAdmin}
		}
		fx.router.Add(pages.Route{Name: name, Title: strings.ToUpper(name), Roles: roles, Open: func() pages.View {
			v := newFakeView(name, 15)
			fx.views[name] = v
			fx.opened = append(fx.opened, v)
			return v
		}})
	}
	return fx
}

func operator() *model.Session {
	return &model.Session{Token: "t", User: model.SessionUser{Role: model.RoleOperator}}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to m and runs the returned command chain until it
// produces no message.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(Model)
		msg = nil
		if cmd != nil {
			msg = cmd()
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			return m
		}
	}
	return m
}

func started(t *testing.T, fx *fixture, route string) Model {
	t.Helper()
	m, err := New(Options{Router: fx.router, Session: operator(), Route: route})
	require.NoError(t, err)
	return drive(t, m, m.Init()())
}

func TestStartLoadsDefaultPage(t *testing.T) {
	fx := newFixture()
	m := started(t, fx, "")

	assert.Equal(t, pages.DefaultRoute, m.Page().Name())
	assert.Equal(t, 1, fx.views[pages.DefaultRoute].loads)
	assert.Len(t, m.table.Rows(), table.DefaultPageSize)
	out := m.View()
	assert.Contains(t, out, "Página 1 de 2 · 15 de 15 registros")
	assert.Contains(t, out, "inventory-00")
	assert.NotContains(t, out, "USERS")
}

func TestUnknownRouteRedirects(t *testing.T) {
	m := started(t, newFixture(), "nowhere")
	assert.Equal(t, pages.DefaultRoute, m.Page().Name())
	assert.Contains(t, m.View(), MsgRedirected)
}

func TestForbiddenStart(t *testing.T) {
	fx := newFixture()
	_, err := New(Options{Router: fx.router, Session: operator(), Route: "users"})
	assert.ErrorIs(t, err, pages.ErrForbidden)
}

func TestSearchFiltersRows(t *testing.T) {
	m := started(t, newFixture(), "")
	m = drive(t, m, keys("/"))
	for _, r := range "-1" {
		m = drive(t, m, keys(string(r)))
	}
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	s := m.Page().Table().Snapshot()
	assert.Equal(t, 5, s.Filtered)
	assert.Len(t, m.table.Rows(), 5)

	m = drive(t, m, keys("x"))
	assert.Equal(t, 15, m.Page().Table().Snapshot().Filtered)
}

func TestOptionSearchReportsUnknownLabel(t *testing.T) {
	m := started(t, newFixture(), "")
	m = drive(t, m, keys("f"))
	assert.Equal(t, "status", m.Page().Table().SelectedFilter())

	m = drive(t, m, keys("/"))
	m = drive(t, m, keys("z"))
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.alert)
	assert.Equal(t, alert.Warning, m.alert.Color)
}

func TestPagingAndSort(t *testing.T) {
	m := started(t, newFixture(), "")
	m = drive(t, m, keys("]"))
	s := m.Page().Table().Snapshot()
	assert.Equal(t, 2, s.Number)
	assert.Len(t, m.table.Rows(), 5)

	m = drive(t, m, keys("["))
	m = drive(t, m, keys("s"))
	m = drive(t, m, keys("s"))
	s = m.Page().Table().Snapshot()
	assert.Equal(t, "name", s.SortKey)
	assert.Equal(t, table.SortDesc, s.SortDir)
	assert.Equal(t, "inventory-14", s.Cells[0][0])
	assert.Contains(t, m.View(), "↓")
}

func TestTabSwitchesAndClosesPage(t *testing.T) {
	fx := newFixture()
	m := started(t, fx, "")
	first := fx.views[pages.DefaultRoute]

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "pigs", m.Page().Name())
	assert.True(t, first.closed)
	assert.Equal(t, 1, fx.views["pigs"].loads)

	// operators cannot reach users, so tab wraps around
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, pages.DefaultRoute, m.Page().Name())
}

func TestStaleLoadIsIgnored(t *testing.T) {
	fx := newFixture()
	m, err := New(Options{Router: fx.router, Session: operator()})
	require.NoError(t, err)
	stale := m.Init()

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	rows := len(m.table.Rows())
	m = drive(t, m, stale())
	assert.Equal(t, "pigs", m.Page().Name())
	assert.Len(t, m.table.Rows(), rows)
}

func TestDetailsAndBack(t *testing.T) {
	m := started(t, newFixture(), "")
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.detail)
	assert.Contains(t, m.View(), "Nombre: inventory-00")

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.detail)
}

func TestInactiveRecordRaisesAlert(t *testing.T) {
	fx := newFixture()
	m := started(t, fx, "")
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.detail)
	require.NotNil(t, m.alert)
	assert.Equal(t, MsgInactive, m.alert.Message)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	fx := newFixture()
	m := started(t, fx, "")
	v := fx.views[pages.DefaultRoute]

	m = drive(t, m, keys("d"))
	assert.Contains(t, m.View(), "¿Eliminar")
	m = drive(t, m, keys("n"))
	assert.Empty(t, v.acts)

	m = drive(t, m, keys("d"))
	m = drive(t, m, keys("y"))
	assert.Equal(t, []cards.Kind{cards.Delete}, v.acts)
}

func TestCardsToggle(t *testing.T) {
	m := started(t, newFixture(), "")
	m = drive(t, m, keys("c"))
	assert.Contains(t, m.View(), "CARDS")
}

func TestAlertMessages(t *testing.T) {
	m := started(t, newFixture(), "")
	m = drive(t, m, AlertMsg{Alert: &alert.Alert{Color: alert.Success, Message: "Registro guardado"}})
	assert.Contains(t, m.View(), "Registro guardado")
	m = drive(t, m, AlertMsg{})
	assert.NotContains(t, m.View(), "Registro guardado")
}

func TestQuitClosesPage(t *testing.T) {
	fx := newFixture()
	m := started(t, fx, "")
	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, fx.views[pages.DefaultRoute].closed)
}
