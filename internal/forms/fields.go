package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alfredjeanlab/granja/internal/model"
)

const dateLayout = "2006-01-02"

// Text binds a string field.
func Text[T any](name, label string, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(v T) string { return *ptr(&v) },
		Set: func(v *T, s string) error {
			*ptr(v) = strings.TrimSpace(s)
			return nil
		},
	}
}

// Decimal binds a decimal field. Both "1234.5" and "1234,5" are accepted.
func Decimal[T any](name, label string, ptr func(*T) *decimal.Decimal) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(v T) string { return ptr(&v).String() },
		Set: func(v *T, s string) error {
			d, err := parseDecimal(s)
			if err != nil {
				return err
			}
			*ptr(v) = d
			return nil
		},
	}
}

// Int binds an integer field.
func Int[T any](name, label string, ptr func(*T) *int) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(v T) string { return strconv.Itoa(*ptr(&v)) },
		Set: func(v *T, s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("must be a whole number")
			}
			*ptr(v) = n
			return nil
		},
	}
}

// Date binds a date field in YYYY-MM-DD form.
func Date[T any](name, label string, ptr func(*T) *time.Time) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get: func(v T) string {
			if t := *ptr(&v); !t.IsZero() {
				return t.Format(dateLayout)
			}
			return ""
		},
		Set: func(v *T, s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				*ptr(v) = time.Time{}
				return nil
			}
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				return fmt.Errorf("must be a date like 2026-01-31")
			}
			*ptr(v) = t
			return nil
		},
	}
}

// Bool binds a boolean field. Accepts true/false, si/no, 1/0 and
// activo/inactivo.
func Bool[T any](name, label string, ptr func(*T) *bool) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(v T) string { return strconv.FormatBool(*ptr(&v)) },
		Set: func(v *T, s string) error {
			b, err := parseBool(s)
			if err != nil {
				return err
			}
			*ptr(v) = b
			return nil
		},
	}
}

// Items binds product lines written as "product:qty:price[:tax]" separated
// by semicolons, e.g. "p1:10:2.5:12;p2:1:40".
func Items[T any](name, label string, ptr func(*T) *[]model.LineItem) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get: func(v T) string {
			items := *ptr(&v)
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = fmt.Sprintf("%s:%s:%s:%s", it.Product, it.Quantity, it.UnitPrice, it.Tax)
			}
			return strings.Join(parts, ";")
		},
		Set: func(v *T, s string) error {
			items, err := ParseItems(s)
			if err != nil {
				return err
			}
			*ptr(v) = items
			return nil
		},
	}
}

// ParseItems parses the product line syntax used by Items.
func ParseItems(s string) ([]model.LineItem, error) {
	var out []model.LineItem
	for i, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f := strings.Split(part, ":")
		if len(f) < 3 || len(f) > 4 {
			return nil, fmt.Errorf("line %d: want product:qty:price[:tax]", i+1)
		}
		it := model.LineItem{Product: strings.TrimSpace(f[0])}
		var err error
		if it.Quantity, err = parseDecimal(f[1]); err != nil {
			return nil, fmt.Errorf("line %d quantity: %w", i+1, err)
		}
		if it.UnitPrice, err = parseDecimal(f[2]); err != nil {
			return nil, fmt.Errorf("line %d price: %w", i+1, err)
		}
		if len(f) == 4 {
			if it.Tax, err = parseDecimal(f[3]); err != nil {
				return nil, fmt.Errorf("line %d tax: %w", i+1, err)
			}
		}
		out = append(out, it)
	}
	return out, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("must be a number")
	}
	return d, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "si", "sí", "yes", "activo":
		return true, nil
	case "false", "0", "no", "inactivo":
		return false, nil
	}
	return false, fmt.Errorf("must be si or no")
}
