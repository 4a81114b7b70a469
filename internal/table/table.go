package table

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// DefaultEmptyMessage is shown when there is nothing to render.
const DefaultEmptyMessage = "No hay registros"

// SortDir is the direction of the active sort.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// UnknownColumnError is returned for accessors that name no column.
type UnknownColumnError struct {
	Accessor string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Accessor)
}

// NotFilterableError is returned when selecting a column that does not
// participate in filtering.
type NotFilterableError struct {
	Accessor string
}

func (e *NotFilterableError) Error() string {
	return fmt.Sprintf("column %q is not filterable", e.Accessor)
}

// UnknownOptionError is returned when an option label matches none of the
// selected column's options.
type UnknownOptionError struct {
	Accessor string
	Label    string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("column %q has no option %q", e.Accessor, e.Label)
}

// Setting configures a Table.
type Setting func(*settings)

type settings struct {
	pageSize     int
	emptyMessage string
	filter       string
	language     language.Tag
}

// WithPageSize sets the fixed page size. Values below 1 are ignored.
func WithPageSize(n int) Setting {
	return func(s *settings) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithEmptyMessage sets the empty-state message.
func WithEmptyMessage(msg string) Setting {
	return func(s *settings) { s.emptyMessage = msg }
}

// WithFilter preselects the filter column instead of the first filterable one.
func WithFilter(accessor string) Setting {
	return func(s *settings) { s.filter = accessor }
}

// WithLanguage sets the collation language used for sorting.
func WithLanguage(tag language.Tag) Setting {
	return func(s *settings) { s.language = tag }
}

// Table holds the view state over a slice of rows: selected filter column,
// search text or option, sort and page. It never modifies the rows.
type Table[R any] struct {
	columns []Column[R]
	index   map[string]int
	cfg     settings

	data []R

	selected string
	search   string
	option   *Option
	sortKey  string
	sortDir  SortDir
	page     int
}

// New creates a table over columns. Duplicate accessors are collapsed: the
// last descriptor wins.
func New[R any](columns []Column[R], opts ...Setting) *Table[R] {
	cfg := settings{
		pageSize:     DefaultPageSize,
		emptyMessage: DefaultEmptyMessage,
		language:     language.Spanish,
	}
	for _, o := range opts {
		o(&cfg)
	}
	cols, index := dedupe(columns)
	t := &Table[R]{
		columns: cols,
		index:   index,
		cfg:     cfg,
		page:    1,
	}
	if i, ok := index[cfg.filter]; ok && cols[i].Filterable {
		t.selected = cfg.filter
	} else {
		for _, c := range cols {
			if c.Filterable {
				t.selected = c.Accessor
				break
			}
		}
	}
	return t
}

// SetData replaces the rows. The slice is not copied or modified.
func (t *Table[R]) SetData(rows []R) {
	t.data = rows
}

// Data returns the rows as given to SetData.
func (t *Table[R]) Data() []R { return t.data }

// Columns returns the (deduplicated) column descriptors.
func (t *Table[R]) Columns() []Column[R] { return t.columns }

// Column looks up a descriptor by accessor.
func (t *Table[R]) Column(accessor string) (Column[R], bool) {
	i, ok := t.index[accessor]
	if !ok {
		return Column[R]{}, false
	}
	return t.columns[i], true
}

// FilterColumns returns the accessors offered by the filter selector.
func (t *Table[R]) FilterColumns() []string {
	var out []string
	for _, c := range t.columns {
		if c.Filterable {
			out = append(out, c.Accessor)
		}
	}
	return out
}

// SelectedFilter returns the accessor of the column searches apply to.
func (t *Table[R]) SelectedFilter() string { return t.selected }

// SelectFilter changes the filter column. The search text and option are
// cleared and the table returns to page 1.
func (t *Table[R]) SelectFilter(accessor string) error {
	col, ok := t.Column(accessor)
	if !ok {
		return &UnknownColumnError{Accessor: accessor}
	}
	if !col.Filterable {
		return &NotFilterableError{Accessor: accessor}
	}
	t.selected = accessor
	t.search = ""
	t.option = nil
	t.page = 1
	return nil
}

// Search sets the free text applied to the selected column. When the
// selected column has options the text must be one of the option labels
// (case-insensitive) and selects that option; empty text clears the filter.
func (t *Table[R]) Search(text string) error {
	col, ok := t.Column(t.selected)
	if ok && len(col.Options) > 0 {
		if strings.TrimSpace(text) == "" {
			t.ClearFilter()
			return nil
		}
		return t.SelectOption(text)
	}
	t.search = text
	t.option = nil
	t.page = 1
	return nil
}

// SearchText returns the active free text.
func (t *Table[R]) SearchText() string { return t.search }

// SelectOption sets an exact-match filter on the selected column's option
// with the given label.
func (t *Table[R]) SelectOption(label string) error {
	col, ok := t.Column(t.selected)
	if !ok {
		return &UnknownColumnError{Accessor: t.selected}
	}
	for _, o := range col.Options {
		if strings.EqualFold(o.Label, strings.TrimSpace(label)) {
			opt := o
			t.option = &opt
			t.search = ""
			t.page = 1
			return nil
		}
	}
	return &UnknownOptionError{Accessor: t.selected, Label: label}
}

// SelectedOption returns the active option, if any.
func (t *Table[R]) SelectedOption() (Option, bool) {
	if t.option == nil {
		return Option{}, false
	}
	return *t.option, true
}

// ClearFilter removes the search text and option.
func (t *Table[R]) ClearFilter() {
	t.search = ""
	t.option = nil
	t.page = 1
}

// ToggleSort cycles the sort on accessor: ascending, descending, then back
// to the data order. Sorting a different column starts at ascending.
func (t *Table[R]) ToggleSort(accessor string) error {
	if _, ok := t.Column(accessor); !ok {
		return &UnknownColumnError{Accessor: accessor}
	}
	if t.sortKey != accessor {
		t.sortKey, t.sortDir = accessor, SortAsc
		return nil
	}
	switch t.sortDir {
	case SortAsc:
		t.sortDir = SortDesc
	default:
		t.sortKey, t.sortDir = "", SortNone
	}
	return nil
}

// SetSort sets the sort directly. SortNone clears it.
func (t *Table[R]) SetSort(accessor string, dir SortDir) error {
	if dir == SortNone {
		t.sortKey, t.sortDir = "", SortNone
		return nil
	}
	if _, ok := t.Column(accessor); !ok {
		return &UnknownColumnError{Accessor: accessor}
	}
	t.sortKey, t.sortDir = accessor, dir
	return nil
}

// Sort returns the active sort column and direction.
func (t *Table[R]) Sort() (string, SortDir) { return t.sortKey, t.sortDir }

// PageSize returns the fixed page size.
func (t *Table[R]) PageSize() int { return t.cfg.pageSize }

// SetPage moves to page n (1-based). Out-of-range pages clamp to 1 when
// the view is computed.
func (t *Table[R]) SetPage(n int) { t.page = n }

// NextPage advances one page, staying on the last page.
func (t *Table[R]) NextPage() {
	if t.page < t.pages(len(t.Filtered())) {
		t.page++
	}
}

// PrevPage goes back one page, staying on the first page.
func (t *Table[R]) PrevPage() {
	if t.page > 1 {
		t.page--
	}
}

// Restore copies the filter, sort and page of prev onto t, for a table
// rebuilt with new columns. State naming a column or option t no longer
// has is dropped.
func (t *Table[R]) Restore(prev *Table[R]) {
	if prev == nil {
		return
	}
	if col, ok := t.Column(prev.selected); ok && col.Filterable {
		t.selected = prev.selected
		t.search = prev.search
		if prev.option != nil {
			for _, o := range col.Options {
				if o.Label == prev.option.Label {
					opt := o
					t.option = &opt
					break
				}
			}
		}
	}
	if _, ok := t.Column(prev.sortKey); ok {
		t.sortKey, t.sortDir = prev.sortKey, prev.sortDir
	}
	t.page = prev.page
}

// Filtered returns the rows that pass the active filter, in sort order.
// The result is a new slice; the input rows are never reordered.
func (t *Table[R]) Filtered() []R {
	out := make([]R, 0, len(t.data))
	col, hasCol := t.Column(t.selected)
	needle := strings.ToLower(t.search)
	for _, row := range t.data {
		if hasCol {
			switch {
			case t.option != nil:
				if !equalValues(ValueOf(col, row), t.option.Value) {
					continue
				}
			case needle != "":
				if !strings.Contains(strings.ToLower(stringify(ValueOf(col, row))), needle) &&
					!strings.Contains(strings.ToLower(Cell(col, row)), needle) {
					continue
				}
			}
		}
		out = append(out, row)
	}
	t.sortRows(out)
	return out
}

func (t *Table[R]) sortRows(rows []R) {
	if t.sortDir == SortNone {
		return
	}
	col, ok := t.Column(t.sortKey)
	if !ok {
		return
	}
	keys := make(map[int]string, len(rows))
	idx := make([]int, len(rows))
	for i, row := range rows {
		idx[i] = i
		keys[i] = stringify(ValueOf(col, row))
	}
	coll := collate.New(t.cfg.language)
	sort.SliceStable(idx, func(a, b int) bool {
		c := coll.CompareString(keys[idx[a]], keys[idx[b]])
		if t.sortDir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	sorted := make([]R, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}

func (t *Table[R]) pages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + t.cfg.pageSize - 1) / t.cfg.pageSize
}

// Page is one computed page of the table.
type Page[R any] struct {
	Headers      []string
	Rows         []R
	Cells        [][]string
	Number       int
	Pages        int
	Filtered     int
	Total        int
	EmptyMessage string
}

// Empty reports whether the page has no rows.
func (p Page[R]) Empty() bool { return len(p.Rows) == 0 }

// View computes the current page. A page beyond the filtered range resets
// the table to page 1.
func (t *Table[R]) View() Page[R] {
	filtered := t.Filtered()
	pages := t.pages(len(filtered))
	if t.page < 1 || t.page > pages {
		t.page = 1
	}
	start := (t.page - 1) * t.cfg.pageSize
	end := min(start+t.cfg.pageSize, len(filtered))

	p := Page[R]{
		Headers:      t.headers(),
		Rows:         filtered[start:end],
		Number:       t.page,
		Pages:        pages,
		Filtered:     len(filtered),
		Total:        len(t.data),
		EmptyMessage: t.cfg.emptyMessage,
	}
	p.Cells = make([][]string, len(p.Rows))
	for i, row := range p.Rows {
		p.Cells[i] = t.cells(row)
	}
	return p
}

func (t *Table[R]) headers() []string {
	h := make([]string, len(t.columns))
	for i, c := range t.columns {
		h[i] = c.Header
		if h[i] == "" {
			h[i] = c.Accessor
		}
	}
	return h
}

func (t *Table[R]) cells(row R) []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = Cell(c, row)
	}
	return out
}

// equalValues is the exact match used by option filters. Numbers compare
// by value regardless of their Go type.
func equalValues(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}
