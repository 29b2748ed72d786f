package schema

import (
	"context"
	"reflect"
)

// LiteralSchema accepts exactly one value.
type LiteralSchema struct {
	value any
	desc  string
}

// Literal returns a schema accepting only the given value.
func Literal(value any) *LiteralSchema { return &LiteralSchema{value: value} }

// Value returns the accepted value.
func (s *LiteralSchema) Value() any { return s.value }

// Describe attaches a human-readable description.
func (s *LiteralSchema) Describe(text string) *LiteralSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *LiteralSchema) Kind() Kind { return KindLiteral }

// Node implements Schema.
func (s *LiteralSchema) Node() Node {
	return Node{Kind: KindLiteral, Values: []any{s.value}, Description: s.desc}
}

// Parse implements Schema.
func (s *LiteralSchema) Parse(_ context.Context, v any) (any, error) {
	if literalEqual(v, s.value) {
		return s.value, nil
	}
	return nil, issue(CodeInvalidEnum, "expected literal %v, got %v", s.value, v)
}

// literalEqual compares a candidate against a literal, tolerating the
// int-vs-float64 mismatch between declared Go literals and JSON numbers.
func literalEqual(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	gf, gok := toFloat(got)
	wf, wok := toFloat(want)
	if _, isStr := got.(string); isStr {
		return false
	}
	return gok && wok && gf == wf
}

// EnumSchema accepts one of a fixed set of strings.
type EnumSchema struct {
	values []string
	desc   string
}

// Enum returns a schema accepting one of the given strings.
func Enum(values ...string) *EnumSchema { return &EnumSchema{values: values} }

// Describe attaches a human-readable description.
func (s *EnumSchema) Describe(text string) *EnumSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *EnumSchema) Kind() Kind { return KindEnum }

// Node implements Schema.
func (s *EnumSchema) Node() Node {
	values := make([]any, len(s.values))
	for i, v := range s.values {
		values[i] = v
	}
	return Node{Kind: KindEnum, Values: values, Description: s.desc}
}

// Parse implements Schema.
func (s *EnumSchema) Parse(_ context.Context, v any) (any, error) {
	str, ok := v.(string)
	if !ok {
		return nil, issue(CodeInvalidType, "expected string, got %s", typeName(v))
	}
	for _, allowed := range s.values {
		if str == allowed {
			return str, nil
		}
	}
	return nil, issue(CodeInvalidEnum, "expected one of %v", s.values)
}

// ValuesSchema accepts one of a fixed set of arbitrary values, for
// enumerations whose members are not all strings.
type ValuesSchema struct {
	values []any
	desc   string
}

// Values returns a schema accepting one of the given values.
func Values(values ...any) *ValuesSchema { return &ValuesSchema{values: values} }

// Describe attaches a human-readable description.
func (s *ValuesSchema) Describe(text string) *ValuesSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *ValuesSchema) Kind() Kind { return KindValues }

// Node implements Schema.
func (s *ValuesSchema) Node() Node {
	return Node{Kind: KindValues, Values: s.values, Description: s.desc}
}

// Parse implements Schema.
func (s *ValuesSchema) Parse(_ context.Context, v any) (any, error) {
	for _, allowed := range s.values {
		if literalEqual(v, allowed) {
			return allowed, nil
		}
	}
	return nil, issue(CodeInvalidEnum, "expected one of %v", s.values)
}
