// Package configedit edits one configuration group as a list. The backend
// has no per-item endpoint, so every mutation replaces the whole group.
package configedit

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/alfredjeanlab/granja/internal/events"
	"github.com/alfredjeanlab/granja/internal/model"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicate       = errors.New("item already exists")
)

// Saver replaces a configuration group on the server.
type Saver interface {
	PutConfigurationGroup(ctx context.Context, group string, value any) (model.Configuration, error)
}

// Sink receives the configuration after a successful save, typically
// *appstate.State.
type Sink interface {
	Config() model.Configuration
	SetConfig(model.Configuration)
}

// Config describes the items of one group.
type Config[T any] struct {
	Group    string
	Equal    func(a, b T) bool
	Validate func(T) error
	// Normalize, when set, rewrites an item before it is validated or saved.
	Normalize func(T) T
}

// Option configures an Editor.
type Option func(*options)

type options struct {
	pub events.Publisher
	by  string
	log zerolog.Logger
}

// WithPublisher announces successful saves on the event bus as by.
func WithPublisher(pub events.Publisher, by string) Option {
	return func(o *options) { o.pub, o.by = pub, by }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Editor holds the current list of one group.
type Editor[T any] struct {
	cfg   Config[T]
	saver Saver
	sink  Sink
	opts  options
	items []T
}

// New creates an editor seeded with the group's value from the sink's
// current configuration.
func New[T any](cfg Config[T], saver Saver, sink Sink, opts ...Option) (*Editor[T], error) {
	o := options{pub: &events.NoopPublisher{}, log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	items, err := model.GroupValue[T](sink.Config(), cfg.Group)
	if err != nil {
		return nil, err
	}
	return &Editor[T]{cfg: cfg, saver: saver, sink: sink, opts: o, items: items}, nil
}

// Group returns the group name.
func (e *Editor[T]) Group() string { return e.cfg.Group }

// Items returns a copy of the current list.
func (e *Editor[T]) Items() []T { return slices.Clone(e.items) }

// Add appends item.
func (e *Editor[T]) Add(ctx context.Context, item T) error {
	item = e.normalize(item)
	if err := e.validate(item, -1); err != nil {
		return err
	}
	return e.save(ctx, append(slices.Clone(e.items), item))
}

// Edit replaces the item at index. Saving an unchanged value does nothing.
func (e *Editor[T]) Edit(ctx context.Context, index int, item T) error {
	if index < 0 || index >= len(e.items) {
		return errors.Wrapf(ErrIndexOutOfRange, "edit %d of %d", index, len(e.items))
	}
	item = e.normalize(item)
	if e.cfg.Equal(e.items[index], item) {
		return nil
	}
	if err := e.validate(item, index); err != nil {
		return err
	}
	next := slices.Clone(e.items)
	next[index] = item
	return e.save(ctx, next)
}

// Delete removes the item at index.
func (e *Editor[T]) Delete(ctx context.Context, index int) error {
	if index < 0 || index >= len(e.items) {
		return errors.Wrapf(ErrIndexOutOfRange, "delete %d of %d", index, len(e.items))
	}
	return e.save(ctx, slices.Delete(slices.Clone(e.items), index, index+1))
}

func (e *Editor[T]) normalize(item T) T {
	if e.cfg.Normalize == nil {
		return item
	}
	return e.cfg.Normalize(item)
}

func (e *Editor[T]) validate(item T, skip int) error {
	if e.cfg.Validate != nil {
		if err := e.cfg.Validate(item); err != nil {
			return err
		}
	}
	for i, existing := range e.items {
		if i != skip && e.cfg.Equal(existing, item) {
			return ErrDuplicate
		}
	}
	return nil
}

func (e *Editor[T]) save(ctx context.Context, next []T) error {
	stored, err := e.saver.PutConfigurationGroup(ctx, e.cfg.Group, next)
	if err != nil {
		e.opts.log.Error().Err(err).Str("group", e.cfg.Group).Msg("saving configuration group")
		return err
	}

	// Groups missing from the reply keep their current value.
	merged := maps.Clone(e.sink.Config())
	if merged == nil {
		merged = model.Configuration{}
	}
	maps.Copy(merged, stored)
	if _, ok := stored[e.cfg.Group]; !ok {
		raw, err := json.Marshal(next)
		if err != nil {
			return errors.Wrap(err, "encode group")
		}
		merged[e.cfg.Group] = raw
	}
	stored = merged
	items, err := model.GroupValue[T](stored, e.cfg.Group)
	if err != nil {
		return err
	}
	e.items = items
	e.sink.SetConfig(stored)

	ev := events.ConfigUpdated{Group: e.cfg.Group, Value: stored[e.cfg.Group], By: e.opts.by, At: time.Now().UTC()}
	if err := e.opts.pub.Publish(ctx, events.TopicConfigUpdated, ev); err != nil {
		e.opts.log.Warn().Err(err).Str("group", e.cfg.Group).Msg("publishing configuration change")
	}
	e.opts.log.Info().Str("group", e.cfg.Group).Int("items", len(items)).Msg("configuration group saved")
	return nil
}

// StringConfig is the config of a flat string group. Items are trimmed
// before saving and must not be blank.
func StringConfig(group string) Config[string] {
	return Config[string]{
		Group:     group,
		Normalize: strings.TrimSpace,
		Equal: func(a, b string) bool {
			return strings.TrimSpace(a) == strings.TrimSpace(b)
		},
		Validate: func(s string) error {
			return validation.Validate(strings.TrimSpace(s), validation.Required, validation.Length(1, 80))
		},
	}
}

// TaxConfig is the config of the tax table. Entries are equal when name
// and rate match; names must be set and rates lie in [0, 100].
func TaxConfig() Config[model.TaxEntry] {
	return Config[model.TaxEntry]{
		Group: model.GroupTaxes,
		Equal: model.TaxEntry.Equal,
		Validate: func(t model.TaxEntry) error {
			return validation.ValidateStruct(&t,
				validation.Field(&t.Name, validation.Required, validation.Length(1, 40)),
				validation.Field(&t.Rate, validation.By(rateInRange)),
			)
		},
	}
}

var hundred = decimal.NewFromInt(100)

func rateInRange(v any) error {
	d, _ := v.(decimal.Decimal)
	if d.IsNegative() || d.GreaterThan(hundred) {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

// ParseTax parses "NAME=RATE", e.g. "IVA=12".
func ParseTax(s string) (model.TaxEntry, error) {
	name, rate, ok := strings.Cut(s, "=")
	if !ok {
		return model.TaxEntry{}, errors.Errorf("tax %q: want NAME=RATE", s)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil {
		return model.TaxEntry{}, errors.Wrapf(err, "tax %q: rate", s)
	}
	return model.TaxEntry{Name: strings.TrimSpace(name), Rate: d}, nil
}
