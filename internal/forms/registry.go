package forms

import (
	"context"
	"fmt"
	"sort"
)

// OptionResolver loads select options for fields declaring an options_source.
type OptionResolver interface {
	Options(ctx context.Context, source string) ([]Option, error)
}

type Registry struct {
	forms map[string]*Form
}

func NewRegistry(forms ...*Form) *Registry {
	r := &Registry{forms: make(map[string]*Form, len(forms))}
	for _, f := range forms {
		r.forms[f.Entity] = f
	}
	return r
}

func (r *Registry) Get(entity string) (*Form, bool) {
	f, ok := r.forms[entity]
	return f, ok
}

func (r *Registry) Entities() []string {
	out := make([]string, 0, len(r.forms))
	for name := range r.forms {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve returns a copy of the entity form with options_source fields populated.
func (r *Registry) Resolve(ctx context.Context, entity string, resolver OptionResolver) (*Form, error) {
	f, ok := r.forms[entity]
	if !ok {
		return nil, fmt.Errorf("unknown form %q", entity)
	}

	resolved := *f
	resolved.Fields = make([]Field, len(f.Fields))
	copy(resolved.Fields, f.Fields)

	for i, field := range resolved.Fields {
		if field.OptionsSource == "" || resolver == nil {
			continue
		}
		options, err := resolver.Options(ctx, field.OptionsSource)
		if err != nil {
			return nil, fmt.Errorf("failed to load options for %s.%s: %w", entity, field.Name, err)
		}
		resolved.Fields[i].Options = options
	}
	return &resolved, nil
}
