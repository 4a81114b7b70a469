package pages

import (
	"io"

	"github.com/alfredjeanlab/granja/internal/table"
)

// lockedTable serializes access to the page's current table, which the
// loader and configuration changes update from other goroutines.
type lockedTable[R any] struct {
	p *ListPage[R]
}

var _ table.Controller = (*lockedTable[table.Record])(nil)

func (l *lockedTable[R]) FilterColumns() []string {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.FilterColumns()
}

func (l *lockedTable[R]) SelectedFilter() string {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.SelectedFilter()
}

func (l *lockedTable[R]) SelectFilter(accessor string) error {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.SelectFilter(accessor)
}

func (l *lockedTable[R]) Search(text string) error {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.Search(text)
}

func (l *lockedTable[R]) SelectOption(label string) error {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.SelectOption(label)
}

func (l *lockedTable[R]) ClearFilter() {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.tbl.ClearFilter()
}

func (l *lockedTable[R]) ToggleSort(accessor string) error {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.ToggleSort(accessor)
}

func (l *lockedTable[R]) SetSort(accessor string, dir table.SortDir) error {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.SetSort(accessor, dir)
}

func (l *lockedTable[R]) SetPage(n int) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.tbl.SetPage(n)
}

func (l *lockedTable[R]) NextPage() {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.tbl.NextPage()
}

func (l *lockedTable[R]) PrevPage() {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.tbl.PrevPage()
}

func (l *lockedTable[R]) Accessors() []string {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.Accessors()
}

func (l *lockedTable[R]) Snapshot() table.Snapshot {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.Snapshot()
}

func (l *lockedTable[R]) Export() table.Export {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	return l.p.tbl.Export()
}

func (l *lockedTable[R]) Render(w io.Writer) error {
	s := l.Snapshot()
	return table.RenderSnapshot(w, s)
}
