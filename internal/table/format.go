package table

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status labels used by TypeStatus columns and the default status options.
const (
	StatusActive   = "Activo"
	StatusInactive = "Inactivo"
)

// StatusOptions is the usual option list of a boolean status column.
var StatusOptions = []Option{
	{Label: StatusActive, Value: true},
	{Label: StatusInactive, Value: false},
}

const dateLayout = "2006-01-02"

// Format renders v with the default formatter of typ. nil renders as "".
func Format(typ Type, v any) string {
	if v == nil {
		return ""
	}
	switch typ {
	case TypeNumber:
		if d, ok := toDecimal(v); ok {
			return group(d.String())
		}
	case TypeCurrency:
		if d, ok := toDecimal(v); ok {
			s := group(d.Abs().StringFixed(2))
			if d.IsNegative() {
				return "-$" + s
			}
			return "$" + s
		}
	case TypePercentage:
		if d, ok := toDecimal(v); ok {
			return d.Round(2).String() + "%"
		}
	case TypeDate:
		if t, ok := toTime(v); ok {
			if t.IsZero() {
				return ""
			}
			return t.Format(dateLayout)
		}
	case TypeStatus:
		if b, ok := v.(bool); ok {
			if b {
				return StatusActive
			}
			return StatusInactive
		}
	}
	return stringify(v)
}

// stringify is the string coercion used for search and sort.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ""
		}
		return x.String()
	}
	return fmt.Sprint(v)
}

// group inserts thousands separators into the integer part of a plain
// decimal string such as "-1234567.89".
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case *decimal.Decimal:
		if x == nil {
			return decimal.Decimal{}, false
		}
		return *x, true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	case float32:
		return decimal.NewFromFloat32(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromUint64(rv.Uint()), true
	}
	return decimal.Decimal{}, false
}

func toFloat(v any) (float64, bool) {
	if _, isString := v.(string); isString {
		return 0, false
	}
	d, ok := toDecimal(v)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, dateLayout} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
