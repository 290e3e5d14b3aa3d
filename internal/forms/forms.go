// Package forms describes entity forms as field metadata and validates
// submissions against them. Clients render forms from the same descriptors.
package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
)

type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeEmail       FieldType = "email"
	TypeURL         FieldType = "url"
	TypeNumber      FieldType = "number"
	TypeCurrency    FieldType = "currency"
	TypePercentage  FieldType = "percentage"
	TypeSelect      FieldType = "select"
	TypeMultiselect FieldType = "multiselect"
	TypeCheckbox    FieldType = "checkbox"
	TypeDate        FieldType = "date"
	TypeRelation    FieldType = "relation"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Name          string    `json:"name"`
	Label         string    `json:"label"`
	Type          FieldType `json:"type"`
	Required      bool      `json:"required"`
	Placeholder   string    `json:"placeholder,omitempty"`
	HelpText      string    `json:"help_text,omitempty"`
	Options       []Option  `json:"options,omitempty"`
	OptionsSource string    `json:"options_source,omitempty"`
	Min           *float64  `json:"min,omitempty"`
	Max           *float64  `json:"max,omitempty"`
	MaxLength     int       `json:"max_length,omitempty"`
	Integer       bool      `json:"integer,omitempty"`
	Default       any       `json:"default,omitempty"`
	VisibleWhen   string    `json:"visible_when,omitempty"`
}

type Form struct {
	Entity string  `json:"entity"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`

	conditions map[string]*govaluate.EvaluableExpression
}

// FieldErrors maps field names to messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// New builds a form and compiles its visible_when expressions.
func New(entity, title string, fields ...Field) (*Form, error) {
	f := &Form{Entity: entity, Title: title, Fields: fields, conditions: map[string]*govaluate.EvaluableExpression{}}
	seen := map[string]bool{}
	for _, field := range fields {
		if seen[field.Name] {
			return nil, fmt.Errorf("form %s: duplicate field %s", entity, field.Name)
		}
		seen[field.Name] = true
		if field.VisibleWhen == "" {
			continue
		}
		expr, err := govaluate.NewEvaluableExpression(field.VisibleWhen)
		if err != nil {
			return nil, fmt.Errorf("form %s: field %s: invalid visible_when: %w", entity, field.Name, err)
		}
		f.conditions[field.Name] = expr
	}
	return f, nil
}

// Field returns the named field descriptor.
func (f *Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Validate checks a full submission. Defaults fill missing fields, required
// fields must then be non-empty, and unknown keys are dropped.
func (f *Form) Validate(input map[string]any) (map[string]any, error) {
	return f.validate(input, false)
}

// ValidatePartial checks only the keys present in input, as used by updates.
func (f *Form) ValidatePartial(input map[string]any) (map[string]any, error) {
	return f.validate(input, true)
}

func (f *Form) validate(input map[string]any, partial bool) (map[string]any, error) {
	params := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		params[field.Name] = field.Default
		if v, ok := input[field.Name]; ok {
			params[field.Name] = v
		}
	}

	out := map[string]any{}
	errs := FieldErrors{}

	for _, field := range f.Fields {
		raw, present := input[field.Name]
		if partial && !present {
			continue
		}

		visible, err := f.visible(field, params)
		if err != nil {
			errs[field.Name] = err.Error()
			continue
		}
		if !visible {
			continue
		}

		if !present && field.Default != nil {
			raw = field.Default
		}
		if isEmpty(raw) {
			if field.Required {
				errs[field.Name] = "is required"
			} else if present {
				out[field.Name] = nil
			}
			continue
		}

		v, err := normalizeField(field, raw)
		if err != nil {
			errs[field.Name] = err.Error()
			continue
		}
		out[field.Name] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (f *Form) visible(field Field, params map[string]any) (bool, error) {
	expr, ok := f.conditions[field.Name]
	if !ok {
		return true, nil
	}
	result, err := expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("cannot evaluate visibility: %w", err)
	}
	b, ok := result.(bool)
	return ok && b, nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// WithZeroes returns values with cleared (nil) fields replaced by their zero value.
func (f *Form) WithZeroes(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if v == nil {
			if field, ok := f.Field(k); ok {
				v = field.ZeroValue()
			}
		}
		out[k] = v
	}
	return out
}
