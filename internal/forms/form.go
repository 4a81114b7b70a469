// Package forms edits one record at a time: string inputs are parsed into
// typed fields, the record is validated with ozzo-validation and only a
// valid record is handed to the save callback.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field is one input of a form over T.
type Field[T any] struct {
	Name  string // JSON name, used as the error key
	Label string
	Get   func(T) string
	Set   func(*T, string) error
}

// Form holds the working copy of a record.
type Form[T any] struct {
	fields   []Field[T]
	validate func(*T) error
	original T
	value    T
	errs     validation.Errors
}

// New creates a form editing initial.
func New[T any](initial T, fields []Field[T], validate func(*T) error) *Form[T] {
	return &Form[T]{fields: fields, validate: validate, original: initial, value: initial}
}

// Fields returns the inputs in display order.
func (f *Form[T]) Fields() []Field[T] { return f.fields }

// Field looks up an input by name.
func (f *Form[T]) Field(name string) (Field[T], bool) {
	for _, fl := range f.fields {
		if fl.Name == name {
			return fl, true
		}
	}
	return Field[T]{}, false
}

// Value returns the working copy.
func (f *Form[T]) Value() T { return f.value }

// Errors returns the field errors of the last Set or Validate.
func (f *Form[T]) Errors() validation.Errors { return f.errs }

// Set parses raw into the named field. A parse failure is kept as that
// field's error and returned.
func (f *Form[T]) Set(name, raw string) error {
	fl, ok := f.Field(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if err := fl.Set(&f.value, raw); err != nil {
		f.setErr(name, err)
		return validation.Errors{name: err}
	}
	delete(f.errs, name)
	return nil
}

// SetAll applies every name=value pair, collecting all field errors.
func (f *Form[T]) SetAll(values map[string]string) error {
	errs := validation.Errors{}
	for name, raw := range values {
		if err := f.Set(name, raw); err != nil {
			var ve validation.Errors
			if errors.As(err, &ve) {
				for k, v := range ve {
					errs[k] = v
				}
				continue
			}
			return err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the working copy. The returned error is
// validation.Errors when fields are invalid.
func (f *Form[T]) Validate() error {
	if f.validate == nil {
		f.errs = nil
		return nil
	}
	err := f.validate(&f.value)
	var ve validation.Errors
	switch {
	case err == nil:
		f.errs = nil
	case errors.As(err, &ve):
		f.errs = ve
	default:
		f.errs = nil
	}
	return err
}

// Submit validates and, when the record is valid, calls save. Invalid
// records never reach save.
func (f *Form[T]) Submit(ctx context.Context, save func(context.Context, T) error) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := save(ctx, f.value); err != nil {
		return err
	}
	f.original = f.value
	return nil
}

// Cancel discards edits and errors.
func (f *Form[T]) Cancel() {
	f.value = f.original
	f.errs = nil
}

// Dirty reports whether any field differs from the initial record.
func (f *Form[T]) Dirty() bool {
	for _, fl := range f.fields {
		if fl.Get(f.value) != fl.Get(f.original) {
			return true
		}
	}
	return false
}

// Values renders every field as a string, keyed by name.
func (f *Form[T]) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fl := range f.fields {
		out[fl.Name] = fl.Get(f.value)
	}
	return out
}

// Describe lists the fields as "name (Label)" for help output.
func Describe[T any](fields []Field[T]) string {
	parts := make([]string, len(fields))
	for i, fl := range fields {
		parts[i] = fmt.Sprintf("%s (%s)", fl.Name, fl.Label)
	}
	return strings.Join(parts, ", ")
}

func (f *Form[T]) setErr(name string, err error) {
	if f.errs == nil {
		f.errs = validation.Errors{}
	}
	f.errs[name] = err
}
