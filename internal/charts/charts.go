// Package charts turns grouped aggregates from the statistics endpoints
// into series and draws them as horizontal bar charts.
package charts

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/table"
	"github.com/alfredjeanlab/granja/internal/ui"
)

// Point is one bar.
type Point struct {
	Label string
	Value float64
}

// Series is the bars of one group.
type Series struct {
	Name   string
	Points []Point
}

// Total sums the series.
func (s Series) Total() float64 {
	var t float64
	for _, p := range s.Points {
		t += p.Value
	}
	return t
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() float64 {
	var m float64
	for i, p := range s.Points {
		if i == 0 || p.Value > m {
			m = p.Value
		}
	}
	return m
}

// Build groups aggregates into series. Groups and labels keep the order in
// which they first appear; repeated (group, label) pairs are summed.
func Build(aggs []model.Aggregate) []Series {
	var out []Series
	groupIdx := map[string]int{}
	pointIdx := map[string]map[string]int{}
	for _, a := range aggs {
		gi, ok := groupIdx[a.Group]
		if !ok {
			gi = len(out)
			groupIdx[a.Group] = gi
			pointIdx[a.Group] = map[string]int{}
			out = append(out, Series{Name: a.Group})
		}
		if pi, ok := pointIdx[a.Group][a.Label]; ok {
			out[gi].Points[pi].Value += a.Value
			continue
		}
		pointIdx[a.Group][a.Label] = len(out[gi].Points)
		out[gi].Points = append(out[gi].Points, Point{Label: a.Label, Value: a.Value})
	}
	return out
}

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ANSI256("accent")))
	negStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ANSI256("danger")))
)

// Render draws every series with bars scaled to width cells. The largest
// absolute value of a series fills the width.
func Render(w io.Writer, series []Series, width int) error {
	if width < 1 {
		width = 40
	}
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "Sin datos")
		return err
	}
	for i, s := range series {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, nameStyle.Render(s.Name))
		labelWidth := 0
		var scale float64
		for _, p := range s.Points {
			labelWidth = max(labelWidth, utf8.RuneCountInString(p.Label))
			scale = math.Max(scale, math.Abs(p.Value))
		}
		for _, p := range s.Points {
			n := 0
			if scale > 0 {
				n = int(math.Round(math.Abs(p.Value) / scale * float64(width)))
			}
			bar := strings.Repeat("█", n)
			if p.Value < 0 {
				bar = negStyle.Render(bar)
			} else {
				bar = barStyle.Render(bar)
			}
			pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(p.Label))
			if _, err := fmt.Fprintf(w, "%s%s │%s %s\n", p.Label, pad, bar, table.Format(table.TypeNumber, p.Value)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Total: %s\n", table.Format(table.TypeNumber, s.Total())); err != nil {
			return err
		}
	}
	return nil
}
