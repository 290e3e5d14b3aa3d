package datatable

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseQuery reads a Query from list endpoint parameters:
//
//	?search=acme&search_fields=name,email&sort=name&direction=desc
//	&filter=status:in:draft,sent&filter=budget:gte:1000&filter=email:is_empty
//
// Filter values may contain colons; only the first two separate the parts.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		Search:    values.Get("search"),
		SortBy:    values.Get("sort"),
		Direction: Direction(strings.ToLower(values.Get("direction"))),
	}

	if fields := strings.TrimSpace(values.Get("search_fields")); fields != "" {
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.SearchFields = append(q.SearchFields, f)
			}
		}
	}

	switch q.Direction {
	case "", Asc, Desc:
	default:
		return Query{}, ErrInvalidDirection
	}

	for _, raw := range values["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidFilterValue, raw)
		}
		op := Operator(parts[1])
		if !op.Valid() {
			return Query{}, fmt.Errorf("%w: %s", ErrUnknownOperator, parts[1])
		}
		f := Filter{Column: parts[0], Operator: op}
		if len(parts) == 3 {
			f.Value = parts[2]
		} else if op != OpIsEmpty && op != OpIsNotEmpty {
			return Query{}, fmt.Errorf("%w: %s needs a value", ErrInvalidFilterValue, op)
		}
		q.Filters = append(q.Filters, f)
	}

	return q, nil
}
