package tui

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/pages"
)

// RunOptions configure Run.
type RunOptions struct {
	Session      *model.Session
	Route        string
	AlertTimeout time.Duration
	// Build creates the router; pages report through alerts.
	Build func(alerts pages.Alerter) *pages.Router
}

// Run starts the full-screen console and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	var prog atomic.Pointer[tea.Program]
	presenter := alert.NewPresenter(opts.AlertTimeout, func(a *alert.Alert) {
		if p := prog.Load(); p != nil {
			p.Send(AlertMsg{Alert: a})
		}
	})
	defer presenter.Close()

	m, err := New(Options{
		Context: ctx,
		Router:  opts.Build(presenter),
		Session: opts.Session,
		Route:   opts.Route,
		Alerts:  presenter,
	})
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	prog.Store(p)
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.view != nil {
		fm.view.Close()
	}
	return err
}
