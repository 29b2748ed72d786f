package schema

import (
	"context"
	"sync"
)

// TransformFunc reworks a parsed value. Returning an error fails the parse
// at the transform layer.
type TransformFunc func(ctx context.Context, v any) (any, error)

// wrapSchema implements all wrapper kinds except lazy. Exactly one inner
// schema, one extra semantic.
type wrapSchema struct {
	kind     Kind
	inner    Schema
	def      any           // default wrapper
	fallback any           // catch wrapper
	fn       TransformFunc // transform wrapper
	out      Schema        // pipeline wrapper output stage
	desc     string
}

// Optional marks a value as allowed to be absent. Object schemas omit
// absent optional fields instead of reporting them as required.
func Optional(inner Schema) Schema { return &wrapSchema{kind: KindOptional, inner: inner} }

// Nullable allows null in place of the inner value.
func Nullable(inner Schema) Schema { return &wrapSchema{kind: KindNullable, inner: inner} }

// Nullish allows the value to be absent or null.
func Nullish(inner Schema) Schema { return &wrapSchema{kind: KindNullish, inner: inner} }

// Default substitutes value when the input is absent or null.
func Default(inner Schema, value any) Schema {
	return &wrapSchema{kind: KindDefault, inner: inner, def: value}
}

// Transform runs fn on the value parsed by inner. Downstream consumers of
// the parsed segment observe fn's result, not the raw input.
func Transform(inner Schema, fn TransformFunc) Schema {
	return &wrapSchema{kind: KindTransform, inner: inner, fn: fn}
}

// Brand tags the inner schema as a distinct nominal type. Parsing is
// unaffected.
func Brand(inner Schema) Schema { return &wrapSchema{kind: KindBranded, inner: inner} }

// ReadOnly marks the inner schema as read-only in generated documents.
// Parsing is unaffected.
func ReadOnly(inner Schema) Schema { return &wrapSchema{kind: KindReadOnly, inner: inner} }

// Catch substitutes fallback when the inner parse fails.
func Catch(inner Schema, fallback any) Schema {
	return &wrapSchema{kind: KindCatch, inner: inner, fallback: fallback}
}

// Pipe parses through in, then feeds the result to out. The output stage
// determines the produced shape.
func Pipe(in, out Schema) Schema {
	return &wrapSchema{kind: KindPipeline, inner: in, out: out}
}

// Describe attaches a human-readable description to this wrapper layer.
func (s *wrapSchema) Describe(text string) Schema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *wrapSchema) Kind() Kind { return s.kind }

// Node implements Schema.
func (s *wrapSchema) Node() Node {
	node := Node{Kind: s.kind, Inner: s.inner, Description: s.desc}
	switch s.kind {
	case KindDefault:
		node.Default = s.def
	case KindPipeline:
		// The pipeline's observable output shape is its output stage.
		node.Inner = s.out
	}
	return node
}

// Parse implements Schema.
func (s *wrapSchema) Parse(ctx context.Context, v any) (any, error) {
	switch s.kind {
	case KindOptional, KindNullable, KindNullish:
		if v == nil {
			return nil, nil
		}
		return s.inner.Parse(ctx, v)

	case KindDefault:
		if v == nil {
			return s.def, nil
		}
		return s.inner.Parse(ctx, v)

	case KindTransform:
		parsed, err := s.inner.Parse(ctx, v)
		if err != nil {
			return nil, err
		}
		return s.fn(ctx, parsed)

	case KindCatch:
		parsed, err := s.inner.Parse(ctx, v)
		if err != nil {
			return s.fallback, nil
		}
		return parsed, nil

	case KindPipeline:
		parsed, err := s.inner.Parse(ctx, v)
		if err != nil {
			return nil, err
		}
		return s.out.Parse(ctx, parsed)
	}

	// Branded, read-only: annotation only.
	return s.inner.Parse(ctx, v)
}

// LazySchema resolves its inner schema on first use, enabling
// self-referential definitions:
//
//	var category schema.Schema
//	category = schema.Lazy(func() schema.Schema {
//	    return schema.Object(schema.Fields{
//	        "name":     schema.String(),
//	        "children": schema.Optional(schema.Array(category)),
//	    })
//	})
type LazySchema struct {
	resolve func() Schema
	once    sync.Once
	inner   Schema
	desc    string
}

// Lazy returns a schema resolved by fn on first parse.
func Lazy(fn func() Schema) *LazySchema { return &LazySchema{resolve: fn} }

// Describe attaches a human-readable description.
func (s *LazySchema) Describe(text string) *LazySchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *LazySchema) Kind() Kind { return KindLazy }

// Node implements Schema. The inner schema is deliberately not exposed:
// consumers walking nodes would otherwise recurse forever on
// self-referential definitions.
func (s *LazySchema) Node() Node {
	return Node{Kind: KindLazy, Description: s.desc}
}

// Parse implements Schema.
func (s *LazySchema) Parse(ctx context.Context, v any) (any, error) {
	s.once.Do(func() { s.inner = s.resolve() })
	return s.inner.Parse(ctx, v)
}
