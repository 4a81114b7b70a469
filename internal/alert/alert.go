// Package alert presents transient notifications: one visible alert at a
// time, replaced by newer ones and dismissed automatically after a timeout.
package alert

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alfredjeanlab/granja/internal/client"
	"github.com/alfredjeanlab/granja/internal/ui"
)

// Color is the severity of an alert.
type Color string

const (
	Success Color = "success"
	Danger  Color = "danger"
	Warning Color = "warning"
	Info    Color = "info"
)

// Icon returns the glyph shown before the message.
func (c Color) Icon() string {
	switch c {
	case Success:
		return "✔"
	case Danger:
		return "✖"
	case Warning:
		return "⚠"
	}
	return "ℹ"
}

// Messages shown for well-known failures.
const (
	MsgUnreachable        = "No se pudo conectar con el servidor, intente más tarde"
	MsgInvalidCredentials = "usuario o contraseña inválidos"
	MsgUnexpected         = "Ocurrió un error inesperado"
	MsgValidation         = "Revise los campos"
)

// DefaultTimeout is how long an alert stays visible.
const DefaultTimeout = 4 * time.Second

// Alert is one notification.
type Alert struct {
	Color   Color
	Message string
}

// String renders the alert as plain text.
func (a Alert) String() string {
	return a.Color.Icon() + " " + a.Message
}

// Render renders the alert with the terminal palette.
func (a Alert) Render() string {
	s := a.String()
	switch a.Color {
	case Success:
		return ui.RenderSuccess(s)
	case Danger:
		return ui.RenderDanger(s)
	case Warning:
		return ui.RenderWarning(s)
	}
	return ui.RenderInfo(s)
}

// FromError maps err to the alert a user should see.
func FromError(err error) Alert {
	var verrs validation.Errors
	var apiErr *client.APIError
	switch {
	case err == nil:
		return Alert{Color: Success, Message: "OK"}
	case errors.Is(err, client.ErrUnreachable):
		return Alert{Color: Danger, Message: MsgUnreachable}
	case errors.Is(err, client.ErrInvalidCredentials):
		return Alert{Color: Danger, Message: MsgInvalidCredentials}
	case errors.As(err, &verrs):
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return Alert{Color: Warning, Message: fmt.Sprintf("%s: %s", MsgValidation, strings.Join(fields, ", "))}
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return Alert{Color: Danger, Message: apiErr.Message}
	}
	return Alert{Color: Danger, Message: MsgUnexpected}
}

// Presenter holds the visible alert. It is safe for concurrent use.
type Presenter struct {
	timeout  time.Duration
	onChange func(*Alert)

	mu      sync.Mutex
	current *Alert
	gen     uint64
	timer   *time.Timer
	closed  bool
}

// NewPresenter creates a presenter. onChange, when non-nil, is called with
// the new visible alert (nil on dismissal); it runs on the timer goroutine
// for automatic dismissals and must not call back into the presenter.
func NewPresenter(timeout time.Duration, onChange func(*Alert)) *Presenter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Presenter{timeout: timeout, onChange: onChange}
}

// Show replaces the visible alert and restarts the dismiss timer.
func (p *Presenter) Show(a Alert) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.gen++
	gen := p.gen
	p.current = &a
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.timeout, func() { p.expire(gen) })
	p.mu.Unlock()
	p.changed(&a)
}

// ShowError shows FromError(err).
func (p *Presenter) ShowError(err error) {
	p.Show(FromError(err))
}

// Current returns the visible alert, if any.
func (p *Presenter) Current() (Alert, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Alert{}, false
	}
	return *p.current, true
}

// Dismiss hides the visible alert.
func (p *Presenter) Dismiss() {
	p.mu.Lock()
	p.gen++
	had := p.current != nil
	p.current = nil
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	if had {
		p.changed(nil)
	}
}

// Close dismisses the alert and ignores later calls to Show.
func (p *Presenter) Close() {
	p.Dismiss()
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Presenter) expire(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.current == nil {
		p.mu.Unlock()
		return
	}
	p.current = nil
	p.timer = nil
	p.mu.Unlock()
	p.changed(nil)
}

func (p *Presenter) changed(a *Alert) {
	if p.onChange != nil {
		p.onChange(a)
	}
}
