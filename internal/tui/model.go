// Package tui is the interactive console: a bubbletea program with one tab
// per page the session may open, a searchable table of the page's rows,
// card and detail views and timed alerts.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/cards"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/pages"
	"github.com/alfredjeanlab/granja/internal/table"
	"github.com/alfredjeanlab/granja/internal/ui"
)

const (
	maxColumnWidth = 28
	tableHeight    = 12
	// MsgRedirected is shown when the requested page does not exist.
	MsgRedirected = "Página no encontrada"
	// MsgInactive is shown when acting on an inactive record.
	MsgInactive = "El registro está inactivo"
)

const help = "tab página · / buscar · f filtro · x limpiar · ←/→ columna · s ordenar · [/] página · enter ver · d eliminar · c tarjetas · r recargar · q salir"

type loadedMsg struct {
	view pages.View
	err  error
}

type detailMsg struct {
	rec *pages.Record
	err error
}

type deletedMsg struct{ err error }

// AlertMsg replaces the visible alert; a nil Alert clears it.
type AlertMsg struct{ Alert *alert.Alert }

// Options configure a Model.
type Options struct {
	Context context.Context
	Router  *pages.Router
	Session *model.Session
	// Route is the page opened first; empty opens the default page.
	Route string
	// Alerts receives alerts raised by the model itself. When nil they are
	// shown directly.
	Alerts pages.Alerter
}

// Model is the bubbletea model of the console.
type Model struct {
	ctx    context.Context
	router *pages.Router
	sess   *model.Session
	alerts pages.Alerter

	routes []pages.Route
	active int
	view   pages.View

	table     btable.Model
	search    textinput.Model
	searching bool
	sortCol   int
	cards     bool
	confirm   bool
	detail    *pages.Record
	alert     *alert.Alert
	loading   bool
	width     int
}

// New opens the first page. It fails when the session may not open any
// page.
func New(opts Options) (Model, error) {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	routes := opts.Router.Allowed(opts.Session)
	if len(routes) == 0 {
		return Model{}, pages.ErrForbidden
	}

	search := textinput.New()
	search.Cursor.SetMode(cursor.CursorStatic)
	search.Placeholder = "buscar..."
	search.CharLimit = 80
	search.Width = 40

	m := Model{
		ctx:    opts.Context,
		router: opts.Router,
		sess:   opts.Session,
		alerts: opts.Alerts,
		routes: routes,
		search: search,
		table: btable.New(
			btable.WithFocused(true),
			btable.WithHeight(tableHeight),
		),
		width: 80,
	}
	redirected, err := m.open(opts.Route)
	if err != nil {
		return Model{}, err
	}
	if redirected {
		m.alert = &alert.Alert{Color: alert.Warning, Message: MsgRedirected}
	}
	return m, nil
}

func (m *Model) open(name string) (bool, error) {
	v, redirected, err := m.router.Open(name, m.sess)
	if err != nil {
		return redirected, err
	}
	if m.view != nil {
		m.view.Close()
	}
	m.view = v
	for i, r := range m.routes {
		if r.Name == v.Name() {
			m.active = i
		}
	}
	m.sortCol, m.detail, m.confirm, m.searching = 0, nil, false, false
	m.search.SetValue("")
	m.search.Blur()
	m.table.SetRows(nil)
	m.table.SetColumns(nil)
	m.loading = true
	return redirected, nil
}

// Page returns the page being shown.
func (m Model) Page() pages.View { return m.view }

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	v, ctx := m.view, m.ctx
	return func() tea.Msg {
		return loadedMsg{view: v, err: v.Load(ctx)}
	}
}

func (m Model) act(kind cards.Kind) tea.Cmd {
	v, ctx, idx := m.view, m.ctx, m.table.Cursor()
	return func() tea.Msg {
		rec, err := v.Act(ctx, idx, kind)
		if kind == cards.Delete {
			return deletedMsg{err: err}
		}
		return detailMsg{rec: rec, err: err}
	}
}

// raise shows a, through the alerter when there is one.
func (m *Model) raise(a alert.Alert) tea.Cmd {
	if m.alerts == nil {
		m.alert = &a
		return nil
	}
	alerts := m.alerts
	return func() tea.Msg {
		alerts.Show(a)
		return nil
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetWidth(msg.Width)
		return m, nil

	case AlertMsg:
		m.alert = msg.Alert
		return m, nil

	case loadedMsg:
		if msg.view != m.view || errors.Is(msg.err, pages.ErrDiscarded) || errors.Is(msg.err, pages.ErrClosed) {
			return m, nil
		}
		m.loading = false
		m.sync()
		return m, nil

	case detailMsg:
		if errors.Is(msg.err, cards.ErrActionDisabled) {
			return m, m.raise(alert.Alert{Color: alert.Warning, Message: MsgInactive})
		}
		if msg.err == nil {
			m.detail = msg.rec
		}
		return m, nil

	case deletedMsg:
		m.sync()
		if errors.Is(msg.err, cards.ErrActionDisabled) {
			return m, m.raise(alert.Alert{Color: alert.Warning, Message: MsgInactive})
		}
		return m, nil

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.view.Close()
		return m, tea.Quit
	}

	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			err := m.view.Table().Search(m.search.Value())
			m.sync()
			if err != nil {
				return m, m.raise(alert.Alert{Color: alert.Warning, Message: err.Error()})
			}
			return m, nil
		case "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		// Partial option labels do not match yet; keep the last filter.
		if err := m.view.Table().Search(m.search.Value()); err == nil {
			m.sync()
		}
		return m, cmd
	}

	if m.confirm {
		m.confirm = false
		if msg.String() == "y" || msg.String() == "s" {
			return m, m.act(cards.Delete)
		}
		return m, nil
	}

	if m.detail != nil {
		if msg.String() == "esc" || msg.String() == "enter" || msg.String() == "q" {
			m.detail = nil
		}
		return m, nil
	}

	tbl := m.view.Table()
	switch msg.String() {
	case "q":
		m.view.Close()
		return m, tea.Quit
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.routes) - 1
		}
		next := m.routes[(m.active+step)%len(m.routes)]
		if _, err := m.open(next.Name); err != nil {
			return m, m.raise(alert.FromError(err))
		}
		return m, m.load()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f":
		cols := tbl.FilterColumns()
		if len(cols) > 0 {
			i := indexOf(cols, tbl.SelectedFilter())
			_ = tbl.SelectFilter(cols[(i+1)%len(cols)])
			m.search.SetValue("")
			m.sync()
		}
	case "x":
		tbl.ClearFilter()
		m.search.SetValue("")
		m.sync()
	case "left":
		if m.sortCol > 0 {
			m.sortCol--
			m.sync()
		}
	case "right":
		if m.sortCol < len(tbl.Accessors())-1 {
			m.sortCol++
			m.sync()
		}
	case "s":
		if acc := tbl.Accessors(); m.sortCol < len(acc) {
			_ = tbl.ToggleSort(acc[m.sortCol])
			m.sync()
		}
	case "]":
		tbl.NextPage()
		m.sync()
	case "[":
		tbl.PrevPage()
		m.sync()
	case "c":
		m.cards = !m.cards
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if len(m.table.Rows()) > 0 {
			return m, m.act(cards.Details)
		}
	case "d":
		if len(m.table.Rows()) > 0 {
			m.confirm = true
		}
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// sync copies the current table page into the bubbles table.
func (m *Model) sync() {
	s := m.view.Table().Snapshot()
	cols := make([]btable.Column, len(s.Headers))
	for i, h := range s.Headers {
		title := h
		if s.SortKey == s.Accessors[i] {
			switch s.SortDir {
			case table.SortAsc:
				title += " ↑"
			case table.SortDesc:
				title += " ↓"
			}
		}
		if i == m.sortCol {
			title = "›" + title
		}
		w := lipgloss.Width(title)
		for _, row := range s.Cells {
			if i < len(row) {
				w = max(w, lipgloss.Width(row[i]))
			}
		}
		cols[i] = btable.Column{Title: title, Width: min(w, maxColumnWidth)}
	}
	rows := make([]btable.Row, len(s.Cells))
	for i, r := range s.Cells {
		rows[i] = btable.Row(r)
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

var (
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ui.ANSI256("accent"))).Underline(true)
	inactiveTab = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ANSI256("muted")))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ANSI256("muted")))
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	tabs := make([]string, len(m.routes))
	for i, r := range m.routes {
		if i == m.active {
			tabs[i] = activeTab.Render(r.Title)
		} else {
			tabs[i] = inactiveTab.Render(r.Title)
		}
	}
	b.WriteString(strings.Join(tabs, mutedStyle.Render(" │ ")))
	b.WriteString("\n\n")

	switch {
	case m.detail != nil:
		b.WriteString(renderDetail(*m.detail))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("esc volver"))
	case m.loading:
		b.WriteString(mutedStyle.Render("Cargando..."))
	default:
		m.writeList(&b)
	}

	if m.alert != nil {
		b.WriteString("\n\n")
		b.WriteString(m.alert.Render())
	}
	return b.String()
}

func (m Model) writeList(b *strings.Builder) {
	tbl := m.view.Table()
	s := tbl.Snapshot()
	fmt.Fprintf(b, "%s %s  %s\n\n", labelStyle.Render("Filtro:"), tbl.SelectedFilter(), m.search.View())
	switch {
	case s.Filtered == 0:
		b.WriteString(s.EmptyMessage)
		b.WriteString("\n")
	case m.cards:
		var buf bytes.Buffer
		if err := m.view.RenderCards(&buf, m.width); err != nil {
			buf.WriteString(err.Error())
		}
		b.WriteString(buf.String())
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "\nPágina %d de %d · %d de %d registros\n", s.Number, s.Pages, s.Filtered, s.Total)
	if m.confirm {
		b.WriteString(labelStyle.Render("¿Eliminar el registro seleccionado? (y/n)"))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(help))
}

func renderDetail(r pages.Record) string {
	var b strings.Builder
	b.WriteString(activeTab.Render(r.Title))
	b.WriteString("\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(l.Label+":"), l.Value)
	}
	if r.Totals != nil {
		b.WriteString("\n")
		for _, it := range r.Items {
			name := it.Name
			if name == "" {
				name = it.Product
			}
			fmt.Fprintf(&b, "  %s  %s x %s  %s\n", name, it.Quantity, it.UnitPrice, table.Format(table.TypeCurrency, it.Total()))
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Subtotal:"), table.Format(table.TypeCurrency, r.Totals.Subtotal))
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Impuestos:"), table.Format(table.TypeCurrency, r.Totals.Tax))
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Total:"), table.Format(table.TypeCurrency, r.Totals.Total))
	}
	return b.String()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
