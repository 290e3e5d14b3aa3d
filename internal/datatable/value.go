package datatable

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type kind int

const (
	kindNull kind = iota
	kindBool
	kindNumber
	kindTime
	kindString
)

// value is a column value reduced to something comparable.
type value struct {
	kind kind
	str  string
	num  decimal.Decimal
	b    bool
	t    time.Time
}

var (
	decimalType     = reflect.TypeOf(decimal.Decimal{})
	nullDecimalType = reflect.TypeOf(decimal.NullDecimal{})
	timeType        = reflect.TypeOf(time.Time{})
)

func normalize(v any) value {
	if v == nil {
		return value{kind: kindNull}
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return value{kind: kindNull}
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case decimalType:
		return value{kind: kindNumber, num: rv.Interface().(decimal.Decimal)}
	case nullDecimalType:
		nd := rv.Interface().(decimal.NullDecimal)
		if !nd.Valid {
			return value{kind: kindNull}
		}
		return value{kind: kindNumber, num: nd.Decimal}
	case timeType:
		t := rv.Interface().(time.Time)
		if t.IsZero() {
			return value{kind: kindNull}
		}
		return value{kind: kindTime, t: t}
	}

	switch rv.Kind() {
	case reflect.String:
		return value{kind: kindString, str: rv.String()}
	case reflect.Bool:
		return value{kind: kindBool, b: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value{kind: kindNumber, num: decimal.NewFromInt(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value{kind: kindNumber, num: decimal.NewFromUint64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return value{kind: kindNumber, num: decimal.NewFromFloat(rv.Float())}
	}

	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return value{kind: kindString, str: s.String()}
	}
	return value{kind: kindString, str: fmt.Sprint(rv.Interface())}
}

// text is the representation used by search and the text operators.
func (v value) text() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return v.num.String()
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

func (v value) empty() bool {
	return v.kind == kindNull || (v.kind == kindString && strings.TrimSpace(v.str) == "")
}

// coerce converts a filter operand to the kind of the record value it is compared with.
func coerce(operand value, target kind) (value, error) {
	if operand.kind == target || operand.kind == kindNull || target == kindNull {
		return operand, nil
	}

	raw := strings.TrimSpace(operand.text())
	switch target {
	case kindString:
		return value{kind: kindString, str: operand.text()}, nil
	case kindNumber:
		n, err := decimal.NewFromString(raw)
		if err != nil {
			return value{}, fmt.Errorf("%w: %q is not a number", ErrInvalidFilterValue, raw)
		}
		return value{kind: kindNumber, num: n}, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return value{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidFilterValue, raw)
		}
		return value{kind: kindBool, b: b}, nil
	case kindTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return value{kind: kindTime, t: t}, nil
			}
		}
		return value{}, fmt.Errorf("%w: %q is not a date", ErrInvalidFilterValue, raw)
	}
	return operand, nil
}

// compare orders two non-null values. Values of different kinds order by kind.
func compare(a, b value) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	switch a.kind {
	case kindString:
		if c := strings.Compare(strings.ToLower(a.str), strings.ToLower(b.str)); c != 0 {
			return c
		}
		return strings.Compare(a.str, b.str)
	case kindNumber:
		return a.num.Cmp(b.num)
	case kindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case kindTime:
		return a.t.Compare(b.t)
	}
	return 0
}

func equal(a, b value) bool {
	if a.kind == kindString && b.kind == kindString {
		return strings.EqualFold(a.str, b.str)
	}
	return a.kind == b.kind && compare(a, b) == 0
}

// list expands an operand into the members of an in/not_in set.
func list(v any) []value {
	if s, ok := v.(string); ok {
		parts := strings.Split(s, ",")
		out := make([]value, 0, len(parts))
		for _, p := range parts {
			out = append(out, value{kind: kindString, str: strings.TrimSpace(p)})
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, normalize(rv.Index(i).Interface()))
		}
		return out
	}
	return []value{normalize(v)}
}

// typeKind reports the kind a column holds, judged by the dynamic type of one of its
// values whether or not that value is null. Untyped nils and unknown types report kindNull.
func typeKind(v any) kind {
	if v == nil {
		return kindNull
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case decimalType, nullDecimalType:
		return kindNumber
	case timeType:
		return kindTime
	}

	switch t.Kind() {
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumber
	}
	return kindNull
}
