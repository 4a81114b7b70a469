package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// maxCellWidth truncates long cells in text output.
const maxCellWidth = 50

// Controller is the type-erased surface of a Table, used by callers that
// hold tables of different row types (CLI commands, the TUI, exporters).
type Controller interface {
	FilterColumns() []string
	SelectedFilter() string
	SelectFilter(accessor string) error
	Search(text string) error
	SelectOption(label string) error
	ClearFilter()
	ToggleSort(accessor string) error
	SetSort(accessor string, dir SortDir) error
	SetPage(n int)
	NextPage()
	PrevPage()
	Accessors() []string
	Snapshot() Snapshot
	Export() Export
	Render(w io.Writer) error
}

var _ Controller = (*Table[Record])(nil)

// Snapshot is the current page with cells already formatted.
type Snapshot struct {
	Accessors    []string
	Headers      []string
	Cells        [][]string
	Number       int
	Pages        int
	Filtered     int
	Total        int
	EmptyMessage string
	SortKey      string
	SortDir      SortDir
}

// Export is every filtered row, sorted, with formatted cells and raw values.
type Export struct {
	Accessors []string
	Headers   []string
	Cells     [][]string
	Records   []map[string]any
}

// Accessors returns the column accessors in display order.
func (t *Table[R]) Accessors() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Accessor
	}
	return out
}

// Snapshot computes the current page without exposing row values.
func (t *Table[R]) Snapshot() Snapshot {
	p := t.View()
	return Snapshot{
		Accessors:    t.Accessors(),
		Headers:      p.Headers,
		Cells:        p.Cells,
		Number:       p.Number,
		Pages:        p.Pages,
		Filtered:     p.Filtered,
		Total:        p.Total,
		EmptyMessage: p.EmptyMessage,
		SortKey:      t.sortKey,
		SortDir:      t.sortDir,
	}
}

// Export returns all filtered rows, ignoring pagination.
func (t *Table[R]) Export() Export {
	rows := t.Filtered()
	e := Export{
		Accessors: t.Accessors(),
		Headers:   t.headers(),
		Cells:     make([][]string, len(rows)),
		Records:   make([]map[string]any, len(rows)),
	}
	for i, row := range rows {
		e.Cells[i] = t.cells(row)
		rec := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			rec[c.Accessor] = ValueOf(c, row)
		}
		e.Records[i] = rec
	}
	return e
}

// Render writes the current page as an aligned text table followed by a
// page footer, or the empty-state message.
func (t *Table[R]) Render(w io.Writer) error {
	return RenderSnapshot(w, t.Snapshot())
}

// RenderSnapshot writes s as an aligned text table.
func RenderSnapshot(w io.Writer, s Snapshot) error {
	if len(s.Cells) == 0 {
		_, err := fmt.Fprintln(w, s.EmptyMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(s.Headers))
	for i, h := range s.Headers {
		headers[i] = strings.ToUpper(h)
		if i < len(s.Accessors) && s.Accessors[i] == s.SortKey {
			switch s.SortDir {
			case SortAsc:
				headers[i] += " ↑"
			case SortDesc:
				headers[i] += " ↓"
			}
		}
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range s.Cells {
		vals := make([]string, len(row))
		for i, v := range row {
			vals[i] = truncate(v)
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nPágina %d de %d · %d de %d registros\n", s.Number, s.Pages, s.Filtered, s.Total)
	return err
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > maxCellWidth {
		return string(r[:maxCellWidth-3]) + "..."
	}
	return s
}
