// Package cards renders rows as cards instead of table lines. It takes the
// same column descriptors as package table: the first column becomes the
// card title, the next two the subtitles and the rest body lines.
package cards

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/granja/internal/table"
	"github.com/alfredjeanlab/granja/internal/ui"
)

// ErrActionDisabled is returned when invoking an action of an inactive row.
var ErrActionDisabled = errors.New("action disabled for inactive record")

// ErrNoAction is returned when the card has no action of the given kind.
var ErrNoAction = errors.New("no such action")

// Kind names a card action.
type Kind string

const (
	Details Kind = "details"
	Edit    Kind = "edit"
	Delete  Kind = "delete"
)

// Label is the button text of k.
func (k Kind) Label() string {
	switch k {
	case Details:
		return "Ver"
	case Edit:
		return "Editar"
	case Delete:
		return "Eliminar"
	}
	return string(k)
}

// Action is one button of a card.
type Action struct {
	Kind     Kind
	Disabled bool
}

// Line is a labelled body line.
type Line struct {
	Label string
	Value string
}

// Card is one rendered row.
type Card[R any] struct {
	Row       R
	Title     string
	Subtitles []string
	Body      []Line
	Actions   []Action
}

// Action returns the card's action of kind k.
func (c Card[R]) Action(k Kind) (Action, bool) {
	for _, a := range c.Actions {
		if a.Kind == k {
			return a, true
		}
	}
	return Action{}, false
}

// Actions are the optional callbacks of a card list. A nil callback means
// the card shows no such button.
type Actions[R any] struct {
	Details func(R) error
	Edit    func(R) error
	Delete  func(R) error

	// Status decides whether actions are enabled. When nil the row's
	// "status" value is used; a missing status counts as inactive.
	Status func(R) bool
}

// List builds and drives cards for rows of type R.
type List[R any] struct {
	columns []table.Column[R]
	actions Actions[R]
}

// NewList creates a card list. Duplicate accessors collapse the same way
// they do in a table.
func NewList[R any](columns []table.Column[R], actions Actions[R]) *List[R] {
	return &List[R]{columns: table.New(columns).Columns(), actions: actions}
}

// Build turns rows into cards, in the given order. Rows are not filtered.
func (l *List[R]) Build(rows []R) []Card[R] {
	out := make([]Card[R], len(rows))
	for i, row := range rows {
		out[i] = l.card(row)
	}
	return out
}

func (l *List[R]) card(row R) Card[R] {
	c := Card[R]{Row: row}
	for i, col := range l.columns {
		v := table.Cell(col, row)
		switch {
		case i == 0:
			c.Title = v
		case i <= 2:
			c.Subtitles = append(c.Subtitles, v)
		default:
			label := col.Header
			if label == "" {
				label = col.Accessor
			}
			c.Body = append(c.Body, Line{Label: label, Value: v})
		}
	}
	enabled := l.active(row)
	for _, a := range []struct {
		kind Kind
		fn   func(R) error
	}{
		{Details, l.actions.Details},
		{Edit, l.actions.Edit},
		{Delete, l.actions.Delete},
	} {
		if a.fn != nil {
			c.Actions = append(c.Actions, Action{Kind: a.kind, Disabled: !enabled})
		}
	}
	return c
}

func (l *List[R]) active(row R) bool {
	if l.actions.Status != nil {
		return l.actions.Status(row)
	}
	for _, col := range l.columns {
		if col.Accessor == "status" {
			return table.Truthy(table.ValueOf(col, row))
		}
	}
	if k, ok := any(row).(table.Keyed); ok {
		v, _ := k.Field("status")
		return table.Truthy(v)
	}
	return false
}

// Invoke runs the callback of kind k for the card's row.
func (l *List[R]) Invoke(c Card[R], k Kind) error {
	a, ok := c.Action(k)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoAction, k)
	}
	if a.Disabled {
		return ErrActionDisabled
	}
	switch k {
	case Details:
		return l.actions.Details(c.Row)
	case Edit:
		return l.actions.Edit(c.Row)
	case Delete:
		return l.actions.Delete(c.Row)
	}
	return fmt.Errorf("%w: %s", ErrNoAction, k)
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ui.ANSI256("muted"))).
			Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ui.ANSI256("accent")))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ANSI256("muted")))
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// View renders one card.
func View[R any](c Card[R], width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title))
	for _, s := range c.Subtitles {
		if s == "" {
			continue
		}
		b.WriteString("\n" + subtitleStyle.Render(s))
	}
	for _, ln := range c.Body {
		fmt.Fprintf(&b, "\n%s: %s", ln.Label, ln.Value)
	}
	if len(c.Actions) > 0 {
		labels := make([]string, len(c.Actions))
		for i, a := range c.Actions {
			labels[i] = "[" + a.Kind.Label() + "]"
			if a.Disabled {
				labels[i] = disabledStyle.Render(labels[i])
			}
		}
		b.WriteString("\n\n" + strings.Join(labels, " "))
	}
	style := cardStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(b.String())
}

// Render writes the cards one under the other, or emptyMessage when there
// are none.
func Render[R any](w io.Writer, cards []Card[R], width int, emptyMessage string) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, emptyMessage)
		return err
	}
	for _, c := range cards {
		if _, err := fmt.Fprintln(w, View(c, width)); err != nil {
			return err
		}
	}
	return nil
}
