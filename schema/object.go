package schema

import (
	"context"
	"sort"
)

// Fields maps field names to their schemas when declaring an object.
type Fields map[string]Schema

// ObjectSchema validates string-keyed objects field by field. Undeclared
// keys are stripped from the parsed value; absent optional fields are
// omitted; absent defaulted fields receive their default.
type ObjectSchema struct {
	fields []Field
	desc   string
}

// Object returns a schema for an object with the given fields. Field order
// is normalized to sorted-by-name so that documents generated from the
// schema are deterministic.
func Object(fields Fields) *ObjectSchema {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]Field, len(names))
	for i, name := range names {
		ordered[i] = Field{Name: name, Schema: fields[name]}
	}
	return &ObjectSchema{fields: ordered}
}

// Describe attaches a human-readable description.
func (s *ObjectSchema) Describe(text string) *ObjectSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *ObjectSchema) Kind() Kind { return KindObject }

// Node implements Schema.
func (s *ObjectSchema) Node() Node {
	return Node{Kind: KindObject, Fields: s.fields, Description: s.desc}
}

// Parse implements Schema.
func (s *ObjectSchema) Parse(ctx context.Context, v any) (any, error) {
	m, ok := toStringMap(v)
	if !ok {
		return nil, issue(CodeInvalidType, "expected object, got %s", typeName(v))
	}

	out := make(map[string]any, len(s.fields))
	var iss Issues
	for _, f := range s.fields {
		raw, present := m[f.Name]
		if !present {
			if def, ok := findDefault(f.Schema); ok {
				out[f.Name] = def
				continue
			}
			if IsOptional(f.Schema) {
				continue
			}
			iss = append(iss, Issue{Path: "/" + f.Name, Code: CodeRequired, Message: "required"})
			continue
		}

		parsed, err := f.Schema.Parse(ctx, raw)
		if err != nil {
			child, _ := AsIssues(prefixIssues(err, "/"+f.Name))
			iss = append(iss, child...)
			continue
		}
		out[f.Name] = parsed
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// toStringMap widens the map shapes the pipeline produces (decoded JSON
// bodies, query/param/header maps) to map[string]any.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

// findDefault unwraps wrapper layers looking for a default value. Lazy
// layers are not followed.
func findDefault(s Schema) (any, bool) {
	for s != nil {
		k := s.Kind()
		if k == KindDefault {
			return s.Node().Default, true
		}
		if !k.IsWrapper() || k == KindLazy {
			return nil, false
		}
		s = s.Node().Inner
	}
	return nil, false
}
