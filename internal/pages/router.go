package pages

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/alfredjeanlab/granja/internal/model"
)

// DefaultRoute is where unknown routes land.
const DefaultRoute = "inventory"

var (
	// ErrNotLoggedIn is returned when opening a page without a session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrForbidden is returned when the session role may not open a page.
	ErrForbidden = errors.New("forbidden")
)

// Route is one navigable page.
type Route struct {
	Name  string
	Title string
	// Roles allowed to open the page; empty means every logged-in user.
	Roles []string
	Open  func() View
}

// Router maps route names to pages.
type Router struct {
	routes map[string]Route
	order  []string
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{routes: map[string]Route{}}
}

// Add registers route, replacing any route of the same name.
func (r *Router) Add(route Route) {
	if _, ok := r.routes[route.Name]; !ok {
		r.order = append(r.order, route.Name)
	}
	r.routes[route.Name] = route
}

// Routes returns the routes in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.routes[n])
	}
	return out
}

// Allowed returns the routes sess may open.
func (r *Router) Allowed(sess *model.Session) []Route {
	var out []Route
	for _, rt := range r.Routes() {
		if sess.HasRole(rt.Roles...) {
			out = append(out, rt)
		}
	}
	return out
}

// Resolve finds the route for name. An empty or unknown name resolves to
// DefaultRoute; redirected reports the latter.
func (r *Router) Resolve(name string, sess *model.Session) (route Route, redirected bool, err error) {
	if sess == nil {
		return Route{}, false, ErrNotLoggedIn
	}
	route, ok := r.routes[name]
	if !ok {
		redirected = name != ""
		route, ok = r.routes[DefaultRoute]
		if !ok {
			return Route{}, redirected, fmt.Errorf("no route %q", name)
		}
	}
	if !sess.HasRole(route.Roles...) {
		return Route{}, redirected, fmt.Errorf("%w: %s", ErrForbidden, route.Name)
	}
	return route, redirected, nil
}

// Open resolves name and opens its page.
func (r *Router) Open(name string, sess *model.Session) (View, bool, error) {
	route, redirected, err := r.Resolve(name, sess)
	if err != nil {
		return nil, redirected, err
	}
	return route.Open(), redirected, nil
}
