// Package datatable filters, searches and sorts in-memory record lists.
//
// A Table is declared once per entity with the columns the list views expose.
// Apply runs search, then filters, then sort, and never mutates its input.
package datatable

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownColumn      = errors.New("unknown column")
	ErrUnknownOperator    = errors.New("unknown filter operator")
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrInvalidDirection   = errors.New("sort direction must be asc or desc")
)

type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpGT          Operator = "gt"
	OpGTE         Operator = "gte"
	OpLT          Operator = "lt"
	OpLTE         Operator = "lte"
	OpIsEmpty     Operator = "is_empty"
	OpIsNotEmpty  Operator = "is_not_empty"
)

var operators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true, OpContains: true, OpNotContains: true,
	OpStartsWith: true, OpIn: true, OpNotIn: true, OpGT: true, OpGTE: true,
	OpLT: true, OpLTE: true, OpIsEmpty: true, OpIsNotEmpty: true,
}

// Valid reports whether op is a supported filter operator.
func (op Operator) Valid() bool {
	return operators[op]
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Filter struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

type Query struct {
	Search       string    `json:"search,omitempty"`
	SearchFields []string  `json:"search_fields,omitempty"`
	Filters      []Filter  `json:"filters,omitempty"`
	SortBy       string    `json:"sort,omitempty"`
	Direction    Direction `json:"direction,omitempty"`
}

type Column[T any] struct {
	Key        string
	Label      string
	Value      func(T) any
	Searchable bool
}

type Table[T any] struct {
	columns []Column[T]
	index   map[string]int
}

func New[T any](columns ...Column[T]) *Table[T] {
	t := &Table[T]{columns: columns, index: make(map[string]int, len(columns))}
	for i, col := range columns {
		t.index[col.Key] = i
	}
	return t
}

func (t *Table[T]) Columns() []Column[T] {
	return slices.Clone(t.columns)
}

func (t *Table[T]) column(key string) (Column[T], error) {
	i, ok := t.index[key]
	if !ok {
		return Column[T]{}, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	return t.columns[i], nil
}

// Apply runs search, filters and sort in that order.
func (t *Table[T]) Apply(records []T, q Query) ([]T, error) {
	out, err := t.Search(records, q.Search, q.SearchFields...)
	if err != nil {
		return nil, err
	}
	if out, err = t.Filter(out, q.Filters...); err != nil {
		return nil, err
	}
	if q.SortBy == "" {
		return out, nil
	}
	return t.Sort(out, q.SortBy, q.Direction)
}

// Search keeps records where any of the given fields contains term, ignoring case.
// With no fields, all searchable columns are used.
func (t *Table[T]) Search(records []T, term string, fields ...string) ([]T, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(records), nil
	}

	var cols []Column[T]
	if len(fields) == 0 {
		for _, col := range t.columns {
			if col.Searchable {
				cols = append(cols, col)
			}
		}
	} else {
		for _, f := range fields {
			col, err := t.column(f)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		}
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, col := range cols {
			if strings.Contains(strings.ToLower(normalize(col.Value(rec)).text()), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}

// Filter keeps records matching every filter.
func (t *Table[T]) Filter(records []T, filters ...Filter) ([]T, error) {
	cols := make([]Column[T], len(filters))
	for i, f := range filters {
		col, err := t.column(f.Column)
		if err != nil {
			return nil, err
		}
		if !f.Operator.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, f.Operator)
		}
		if err := checkOperand(col, f); err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Column, err)
		}
		cols[i] = col
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		keep := true
		for i, f := range filters {
			ok, err := match(normalize(cols[i].Value(rec)), f)
			if err != nil {
				return nil, fmt.Errorf("filter %s: %w", f.Column, err)
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Sort orders records by the column, stable, with empty values last in both directions.
func (t *Table[T]) Sort(records []T, key string, dir Direction) ([]T, error) {
	col, err := t.column(key)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = Asc
	}
	if dir != Asc && dir != Desc {
		return nil, ErrInvalidDirection
	}

	type keyed struct {
		rec T
		val value
	}
	rows := make([]keyed, len(records))
	for i, rec := range records {
		rows[i] = keyed{rec: rec, val: normalize(col.Value(rec))}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		switch {
		case a.val.kind == kindNull && b.val.kind == kindNull:
			return 0
		case a.val.kind == kindNull:
			return 1
		case b.val.kind == kindNull:
			return -1
		}
		c := compare(a.val, b.val)
		if dir == Desc {
			return -c
		}
		return c
	})

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

// Rows returns column labels and the raw cell values of every record.
func (t *Table[T]) Rows(records []T) ([]string, [][]any) {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Label
	}
	rows := make([][]any, len(records))
	for r, rec := range records {
		row := make([]any, len(t.columns))
		for i, col := range t.columns {
			row[i] = col.Value(rec)
		}
		rows[r] = row
	}
	return headers, rows
}

func match(v value, f Filter) (bool, error) {
	switch f.Operator {
	case OpIsEmpty:
		return v.empty(), nil
	case OpIsNotEmpty:
		return !v.empty(), nil
	case OpIn, OpNotIn:
		found, err := member(v, f.Value)
		if err != nil {
			return false, err
		}
		return found == (f.Operator == OpIn), nil
	}

	operand := normalize(f.Value)
	if v.kind == kindNull {
		// a missing value only satisfies the negated operators
		switch f.Operator {
		case OpNotEquals, OpNotContains:
			return operand.kind != kindNull, nil
		case OpEquals:
			return operand.kind == kindNull, nil
		}
		return false, nil
	}

	switch f.Operator {
	case OpContains, OpNotContains, OpStartsWith:
		haystack := strings.ToLower(v.text())
		needle := strings.ToLower(operand.text())
		switch f.Operator {
		case OpContains:
			return strings.Contains(haystack, needle), nil
		case OpNotContains:
			return !strings.Contains(haystack, needle), nil
		default:
			return strings.HasPrefix(haystack, needle), nil
		}
	}

	operand, err := coerce(operand, v.kind)
	if err != nil {
		return false, err
	}
	switch f.Operator {
	case OpEquals:
		return equal(v, operand), nil
	case OpNotEquals:
		return !equal(v, operand), nil
	}

	if operand.kind == kindNull {
		return false, nil
	}
	c := compare(v, operand)
	switch f.Operator {
	case OpGT:
		return c > 0, nil
	case OpGTE:
		return c >= 0, nil
	case OpLT:
		return c < 0, nil
	case OpLTE:
		return c <= 0, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownOperator, f.Operator)
}

// checkOperand rejects operands that cannot be read as the column's type, independent of
// the records being filtered.
func checkOperand[T any](col Column[T], f Filter) error {
	switch f.Operator {
	case OpIsEmpty, OpIsNotEmpty, OpContains, OpNotContains, OpStartsWith:
		return nil
	}

	var zero T
	target := typeKind(col.Value(zero))
	if target == kindNull || target == kindString {
		return nil
	}

	operands := []value{normalize(f.Value)}
	if f.Operator == OpIn || f.Operator == OpNotIn {
		operands = list(f.Value)
	}
	for _, operand := range operands {
		if _, err := coerce(operand, target); err != nil {
			return err
		}
	}
	return nil
}

func member(v value, set any) (bool, error) {
	if v.kind == kindNull {
		return false, nil
	}
	for _, candidate := range list(set) {
		c, err := coerce(candidate, v.kind)
		if err != nil {
			return false, err
		}
		if equal(v, c) {
			return true, nil
		}
	}
	return false, nil
}
