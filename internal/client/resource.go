package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/alfredjeanlab/granja/internal/model"
)

// Backend collection paths.
const (
	PathFarms         = "/farms"
	PathWarehouses    = "/warehouses"
	PathSubwarehouses = "/subwarehouses"
	PathProducts      = "/products"
	PathIncomes       = "/incomes"
	PathOutcomes      = "/outcomes"
	PathOrders        = "/orders"
	PathSuppliers     = "/suppliers"
	PathUsers         = "/users"
	PathPigs          = "/pigs"
	PathLitters       = "/litters"
	PathMedications   = "/medications"
	PathFeedings      = "/feedings"
)

// Resource is a typed view over one REST collection.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds the collection at path (e.g. PathWarehouses).
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string { return r.path }

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.ListWhere(ctx, nil)
}

// ListWhere fetches the collection with query parameters.
func (r *Resource[T]) ListWhere(ctx context.Context, q url.Values) ([]T, error) {
	path := r.path
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	items, err := GetData[[]T](ctx, r.c, path)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	return GetData[T](ctx, r.c, r.itemPath(id))
}

// Create posts a new record and returns the stored version.
func (r *Resource[T]) Create(ctx context.Context, v any) (T, error) {
	return sendData[T](ctx, r.c, http.MethodPost, r.path, v)
}

// Update patches a record and returns the stored version.
func (r *Resource[T]) Update(ctx context.Context, id string, v any) (T, error) {
	return sendData[T](ctx, r.c, http.MethodPatch, r.itemPath(id), v)
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, r.itemPath(id))
}

// Items fetches the product lines of a movement (income, outcome, order).
func (r *Resource[T]) Items(ctx context.Context, id string) ([]model.LineItem, error) {
	items, err := GetData[[]model.LineItem](ctx, r.c, r.itemPath(id)+"/products")
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.LineItem{}
	}
	return items, nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// --- Session ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. 401 and 404 responses are
// reported as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := sendData[model.Session](ctx, c, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if sess.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	if sess.IssuedAt.IsZero() {
		sess.IssuedAt = time.Now().UTC()
	}
	return &sess, nil
}

// --- Configuration ---

// Configuration fetches every configuration group.
func (c *Client) Configuration(ctx context.Context) (model.Configuration, error) {
	cfg, err := GetData[model.Configuration](ctx, c, "/configuration")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = model.Configuration{}
	}
	return cfg, nil
}

// PutConfigurationGroup replaces the whole value of group. The server
// replies with the stored group alone, e.g. {"units": [...]}, so callers
// merge the result into their own copy of the document.
func (c *Client) PutConfigurationGroup(ctx context.Context, group string, value any) (model.Configuration, error) {
	body := map[string]any{"value": value}
	cfg, err := sendData[model.Configuration](ctx, c, http.MethodPut, "/configuration/"+url.PathEscape(group), body)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = model.Configuration{}
	}
	return cfg, nil
}

// --- Reports and statistics ---

// Report downloads a rendered report, e.g. Report(ctx, "income", id) for
// the PDF of one income.
func (c *Client) Report(ctx context.Context, name, id string) (*Blob, error) {
	return c.Download(ctx, "/reports/"+url.PathEscape(name)+"/"+url.PathEscape(id))
}

// Stats fetches grouped aggregates for charting.
func (c *Client) Stats(ctx context.Context, name string, q url.Values) ([]model.Aggregate, error) {
	path := "/stats/" + url.PathEscape(name)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return GetData[[]model.Aggregate](ctx, c, path)
}
