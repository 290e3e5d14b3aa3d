package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var (
	percentMin = 0.0
	percentMax = 100.0
)

func normalizeField(field Field, raw any) (any, error) {
	switch field.Type {
	case TypeText, TypeTextarea:
		s, err := asString(raw)
		if err != nil {
			return nil, err
		}
		if field.MaxLength > 0 && utf8.RuneCountInString(s) > field.MaxLength {
			return nil, fmt.Errorf("must be at most %d characters", field.MaxLength)
		}
		return s, nil

	case TypeEmail, TypeURL:
		s, err := asString(raw)
		if err != nil {
			return nil, err
		}
		tag, msg := "email", "must be a valid email address"
		if field.Type == TypeURL {
			tag, msg = "url", "must be a valid URL"
		}
		if err := validate.Var(s, tag); err != nil {
			return nil, errors.New(msg)
		}
		if field.MaxLength > 0 && utf8.RuneCountInString(s) > field.MaxLength {
			return nil, fmt.Errorf("must be at most %d characters", field.MaxLength)
		}
		return s, nil

	case TypeNumber, TypeCurrency, TypePercentage:
		return normalizeNumber(field, raw)

	case TypeSelect:
		s, err := asString(raw)
		if err != nil {
			return nil, err
		}
		if !field.allows(s) {
			return nil, fmt.Errorf("must be one of %s", field.optionValues())
		}
		return s, nil

	case TypeMultiselect:
		items, ok := raw.([]any)
		if !ok {
			return nil, errors.New("must be a list")
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, err := asOptionValue(item)
			if err != nil {
				return nil, err
			}
			if !field.allows(s) {
				return nil, fmt.Errorf("%q is not one of %s", s, field.optionValues())
			}
			out = append(out, s)
		}
		return out, nil

	case TypeCheckbox:
		switch t := raw.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(t)
			if err != nil {
				return nil, errors.New("must be true or false")
			}
			return b, nil
		}
		return nil, errors.New("must be true or false")

	case TypeDate:
		s, err := asString(raw)
		if err != nil {
			return nil, err
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02"), nil
			}
		}
		return nil, errors.New("must be a date (YYYY-MM-DD)")

	case TypeRelation:
		id, err := asID(raw)
		if err != nil {
			return nil, err
		}
		return id, nil
	}

	return nil, fmt.Errorf("unsupported field type %q", field.Type)
}

func normalizeNumber(field Field, raw any) (any, error) {
	var d decimal.Decimal
	switch t := raw.(type) {
	case float64:
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return nil, errors.New("must be a number")
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return nil, errors.New("must be a number")
		}
		d = parsed
	case decimal.Decimal:
		d = t
	default:
		return nil, errors.New("must be a number")
	}

	lo, hi := field.Min, field.Max
	if field.Type == TypePercentage {
		if lo == nil {
			lo = &percentMin
		}
		if hi == nil {
			hi = &percentMax
		}
	}
	if field.Type == TypeCurrency && lo == nil {
		lo = &percentMin
	}

	if lo != nil && d.LessThan(decimal.NewFromFloat(*lo)) {
		return nil, fmt.Errorf("must be at least %s", strconv.FormatFloat(*lo, 'f', -1, 64))
	}
	if hi != nil && d.GreaterThan(decimal.NewFromFloat(*hi)) {
		return nil, fmt.Errorf("must be at most %s", strconv.FormatFloat(*hi, 'f', -1, 64))
	}
	if field.Integer {
		if !d.IsInteger() {
			return nil, errors.New("must be a whole number")
		}
		return d.IntPart(), nil
	}
	return d, nil
}

func asString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errors.New("must be a string")
	}
	return strings.TrimSpace(s), nil
}

// asOptionValue accepts option values sent as strings or as numeric ids.
func asOptionValue(raw any) (string, error) {
	switch t := raw.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	}
	return asString(raw)
}

func asID(raw any) (uint64, error) {
	switch t := raw.(type) {
	case float64:
		if t >= 1 && t == math.Trunc(t) && t <= math.MaxInt64 {
			return uint64(t), nil
		}
	case int:
		if t >= 1 {
			return uint64(t), nil
		}
	case uint64:
		if t >= 1 {
			return t, nil
		}
	case json.Number:
		if id, err := strconv.ParseUint(t.String(), 10, 64); err == nil && id >= 1 {
			return id, nil
		}
	case string:
		if id, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil && id >= 1 {
			return id, nil
		}
	}
	return 0, errors.New("must reference an existing record id")
}

func (f Field) allows(v string) bool {
	if len(f.Options) == 0 {
		return true
	}
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

func (f Field) optionValues() string {
	values := make([]string, len(f.Options))
	for i, o := range f.Options {
		values[i] = o.Value
	}
	return strings.Join(values, ", ")
}

// ZeroValue is what a cleared field stores.
func (f Field) ZeroValue() any {
	switch f.Type {
	case TypeNumber, TypeCurrency, TypePercentage:
		if f.Integer {
			return int64(0)
		}
		return decimal.Zero
	case TypeMultiselect:
		return []string{}
	case TypeCheckbox:
		return false
	case TypeRelation:
		return uint64(0)
	}
	return ""
}
