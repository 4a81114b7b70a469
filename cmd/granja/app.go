package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/alert"
	"github.com/alfredjeanlab/granja/internal/appstate"
	"github.com/alfredjeanlab/granja/internal/client"
	"github.com/alfredjeanlab/granja/internal/config"
	"github.com/alfredjeanlab/granja/internal/events"
	"github.com/alfredjeanlab/granja/internal/logging"
	"github.com/alfredjeanlab/granja/internal/model"
	"github.com/alfredjeanlab/granja/internal/pages"
	"github.com/alfredjeanlab/granja/internal/session"
)

// errNoSession is returned by commands that need a logged-in user.
var errNoSession = errors.Wrap(appstate.ErrNotLoggedIn, "run granja login first")

// app is the state shared by one command invocation.
type app struct {
	json bool

	cfg    *config.Config
	log    zerolog.Logger
	state  *appstate.State
	pub    events.Publisher
	out    io.Writer
	errOut io.Writer

	closers []func() error
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out, a.errOut = cmd.OutOrStdout(), cmd.ErrOrStderr()
	if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(a.errOut, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	a.log = log

	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		return err
	}
	a.state = appstate.New(store, func(token string) appstate.Backend {
		return a.clientFor(token)
	}, logging.Subsystem(log, "state"))

	a.pub = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL, logging.Subsystem(log, "events"))
		if err != nil {
			log.Warn().Err(err).Msg("event bus unavailable, changes will not be announced")
		} else {
			a.pub = pub
			a.closers = append(a.closers, pub.Flush, pub.Close)
		}
	}

	if cmd.Annotations[offline] == "true" {
		return a.state.Restore()
	}
	return a.state.Init(cmd.Context())
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Debug().Err(err).Msg("closing")
		}
	}
	a.closers = nil
}

func (a *app) clientFor(token string) *client.Client {
	return client.New(a.cfg.APIURL, token, client.WithLogger(logging.Subsystem(a.log, "client")))
}

// client returns an API client authenticated as the current session.
func (a *app) client() *client.Client {
	return a.clientFor(a.state.Token())
}

func (a *app) session() (*model.Session, error) {
	sess := a.state.Session()
	if sess == nil {
		return nil, errNoSession
	}
	return sess, nil
}

// by names the current user in published events.
func (a *app) by() string {
	if sess := a.state.Session(); sess != nil {
		return sess.User.Email
	}
	return ""
}

func (a *app) router(pageSize int, alerts pages.Alerter) *pages.Router {
	if pageSize <= 0 {
		pageSize = a.cfg.PageSize
	}
	return pages.Routes(pages.Deps{
		Client:   a.client(),
		Config:   a.state,
		Alerts:   alerts,
		Events:   a.pub,
		By:       a.by(),
		Log:      logging.Subsystem(a.log, "pages"),
		PageSize: pageSize,
	})
}

// open resolves the page called name, loading its rows when load is set.
// When listing, unknown names fall back to the default page with a
// warning; record commands reject them instead.
func (a *app) open(ctx context.Context, name string, pageSize int, load bool) (pages.View, error) {
	sess, err := a.session()
	if err != nil {
		return nil, err
	}
	v, redirected, err := a.router(pageSize, cliAlerts{w: a.errOut}).Open(name, sess)
	if err != nil {
		return nil, err
	}
	if redirected && !load {
		v.Close()
		return nil, errors.Errorf("unknown resource %q", name)
	}
	if redirected {
		fmt.Fprintln(a.errOut, alert.Alert{Color: alert.Warning,
			Message: fmt.Sprintf("no existe %q, se muestra %s", name, v.Title())}.Render())
	}
	if !load {
		return v, nil
	}
	if err := v.Load(ctx); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// cliAlerts prints success and warning alerts. Errors are returned by the
// commands and printed once by main.
type cliAlerts struct {
	w io.Writer
}

func (c cliAlerts) Show(al alert.Alert) {
	if al.Color == alert.Danger {
		return
	}
	fmt.Fprintln(c.w, al.Render())
}

func (cliAlerts) ShowError(error) {}

func stdinFile(cmd *cobra.Command) (*os.File, bool) {
	f, ok := cmd.InOrStdin().(*os.File)
	return f, ok
}
