// Package views stores named list presets in a YAML file: which resource to
// open and how to filter, sort and project its table.
package views

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/granja/internal/table"
)

// ErrNotFound is returned for an unknown view name.
var ErrNotFound = errors.New("view not found")

// View is one saved preset.
type View struct {
	Name     string   `yaml:"name"`
	Resource string   `yaml:"resource"`
	Columns  []string `yaml:"columns,omitempty"`
	Filter   string   `yaml:"filter,omitempty"`
	Search   string   `yaml:"search,omitempty"`
	Option   string   `yaml:"option,omitempty"`
	Sort     string   `yaml:"sort,omitempty"`
	Desc     bool     `yaml:"desc,omitempty"`
	PageSize int      `yaml:"page_size,omitempty"`
}

// Validate checks the preset can be applied.
func (v View) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&v.Resource, validation.Required),
		validation.Field(&v.PageSize, validation.Min(0), validation.Max(100)),
		validation.Field(&v.Option, validation.When(v.Search != "",
			validation.Empty.Error("cannot combine search and option"))),
	)
}

// Apply configures c: filter column, then search text or option, then
// sort. A view without a filter column keeps the table's default.
func (v View) Apply(c table.Controller) error {
	if v.Filter != "" {
		if err := c.SelectFilter(v.Filter); err != nil {
			return errors.Wrapf(err, "view %s", v.Name)
		}
	}
	switch {
	case v.Option != "":
		if err := c.SelectOption(v.Option); err != nil {
			return errors.Wrapf(err, "view %s", v.Name)
		}
	case v.Search != "":
		if err := c.Search(v.Search); err != nil {
			return errors.Wrapf(err, "view %s", v.Name)
		}
	}
	if v.Sort != "" {
		dir := table.SortAsc
		if v.Desc {
			dir = table.SortDesc
		}
		if err := c.SetSort(v.Sort, dir); err != nil {
			return errors.Wrapf(err, "view %s", v.Name)
		}
	}
	return nil
}

// Project keeps only the named columns of s, in that order. No columns
// keeps s unchanged.
func Project(s table.Snapshot, columns []string) (table.Snapshot, error) {
	if len(columns) == 0 {
		return s, nil
	}
	idx := make([]int, len(columns))
	for i, c := range columns {
		j := slices.Index(s.Accessors, c)
		if j < 0 {
			return s, &table.UnknownColumnError{Accessor: c}
		}
		idx[i] = j
	}
	out := s
	out.Accessors = pick(s.Accessors, idx)
	out.Headers = pick(s.Headers, idx)
	out.Cells = make([][]string, len(s.Cells))
	for r, row := range s.Cells {
		out.Cells[r] = pick(row, idx)
	}
	return out, nil
}

func pick(in []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		if j < len(in) {
			out[i] = in[j]
		}
	}
	return out
}

type file struct {
	Views []View `yaml:"views"`
}

// DefaultPath returns ~/.config/granja/views.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating config dir")
	}
	return filepath.Join(dir, "granja", "views.yaml"), nil
}

// Store reads and writes the views file.
type Store struct {
	path string
}

// NewStore creates a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file location.
func (s *Store) Path() string { return s.path }

// List returns every view sorted by name. A missing file has no views.
func (s *Store) List() ([]View, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []View{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading views")
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", s.path)
	}
	if f.Views == nil {
		f.Views = []View{}
	}
	slices.SortFunc(f.Views, func(a, b View) int { return strings.Compare(a.Name, b.Name) })
	return f.Views, nil
}

// Get returns the view called name.
func (s *Store) Get(name string) (View, error) {
	all, err := s.List()
	if err != nil {
		return View{}, err
	}
	for _, v := range all {
		if v.Name == name {
			return v, nil
		}
	}
	return View{}, errors.Wrap(ErrNotFound, name)
}

// Put adds v or replaces the view with the same name.
func (s *Store) Put(v View) error {
	if err := v.Validate(); err != nil {
		return err
	}
	all, err := s.List()
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(all, func(o View) bool { return o.Name == v.Name }); i >= 0 {
		all[i] = v
	} else {
		all = append(all, v)
	}
	return s.write(all)
}

// Delete removes the view called name.
func (s *Store) Delete(name string) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(o View) bool { return o.Name == name })
	if i < 0 {
		return errors.Wrap(ErrNotFound, name)
	}
	return s.write(slices.Delete(all, i, i+1))
}

func (s *Store) write(all []View) error {
	slices.SortFunc(all, func(a, b View) int { return strings.Compare(a.Name, b.Name) })
	data, err := yaml.Marshal(file{Views: all})
	if err != nil {
		return errors.Wrap(err, "encoding views")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating views dir")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0o644), "writing views")
}
