package schema

import "context"

// UnionSchema accepts a value matching any of its alternatives, tried in
// declaration order.
type UnionSchema struct {
	alts []Schema
	desc string
}

// Union returns a schema accepting a value matching any alternative.
func Union(alts ...Schema) *UnionSchema { return &UnionSchema{alts: alts} }

// Describe attaches a human-readable description.
func (s *UnionSchema) Describe(text string) *UnionSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *UnionSchema) Kind() Kind { return KindUnion }

// Node implements Schema.
func (s *UnionSchema) Node() Node {
	return Node{Kind: KindUnion, Items: s.alts, Description: s.desc}
}

// Parse implements Schema.
func (s *UnionSchema) Parse(ctx context.Context, v any) (any, error) {
	for _, alt := range s.alts {
		if parsed, err := alt.Parse(ctx, v); err == nil {
			return parsed, nil
		}
	}
	return nil, issue(CodeInvalidUnion, "no union alternative matched")
}

// DiscriminatedUnionSchema routes a value to one alternative by the value
// of a shared discriminating field. Every alternative must be an object
// schema whose discriminator field is a literal.
type DiscriminatedUnionSchema struct {
	discriminator string
	alts          []Schema
	desc          string
}

// DiscriminatedUnion returns a union whose alternative is selected by the
// named field.
func DiscriminatedUnion(discriminator string, alts ...Schema) *DiscriminatedUnionSchema {
	return &DiscriminatedUnionSchema{discriminator: discriminator, alts: alts}
}

// Describe attaches a human-readable description.
func (s *DiscriminatedUnionSchema) Describe(text string) *DiscriminatedUnionSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *DiscriminatedUnionSchema) Kind() Kind { return KindDiscriminatedUnion }

// Node implements Schema.
func (s *DiscriminatedUnionSchema) Node() Node {
	return Node{
		Kind:          KindDiscriminatedUnion,
		Items:         s.alts,
		Discriminator: s.discriminator,
		Description:   s.desc,
	}
}

// Parse implements Schema.
func (s *DiscriminatedUnionSchema) Parse(ctx context.Context, v any) (any, error) {
	m, ok := toStringMap(v)
	if !ok {
		return nil, issue(CodeInvalidType, "expected object, got %s", typeName(v))
	}
	tag, present := m[s.discriminator]
	if !present {
		return nil, Issues{{
			Path:    "/" + s.discriminator,
			Code:    CodeDiscriminatorMissing,
			Message: "missing discriminator",
		}}
	}

	for _, alt := range s.alts {
		if discriminatorMatches(alt, s.discriminator, tag) {
			return alt.Parse(ctx, v)
		}
	}
	return nil, Issues{{
		Path:    "/" + s.discriminator,
		Code:    CodeDiscriminatorUnknown,
		Message: "unknown discriminator value",
	}}
}

// discriminatorMatches reports whether alt is an object whose named field
// is a literal equal to tag. Wrapper layers around the alternative and the
// field are unwrapped.
func discriminatorMatches(alt Schema, field string, tag any) bool {
	node := unwrapNode(alt)
	if node.Kind != KindObject {
		return false
	}
	for _, f := range node.Fields {
		if f.Name != field {
			continue
		}
		fieldNode := unwrapNode(f.Schema)
		if fieldNode.Kind == KindLiteral && len(fieldNode.Values) == 1 {
			return literalEqual(tag, fieldNode.Values[0])
		}
		return false
	}
	return false
}

// unwrapNode peels wrapper layers off a schema and returns the first
// non-wrapper node. Lazy layers terminate the walk.
func unwrapNode(s Schema) Node {
	node := s.Node()
	for node.Kind.IsWrapper() && node.Kind != KindLazy && node.Inner != nil {
		node = node.Inner.Node()
	}
	return node
}

// IntersectionSchema accepts values matching both of its operands. Object
// results merge, with the second operand winning on shared keys.
type IntersectionSchema struct {
	left  Schema
	right Schema
	desc  string
}

// Intersection returns a schema accepting values matching both operands.
func Intersection(left, right Schema) *IntersectionSchema {
	return &IntersectionSchema{left: left, right: right}
}

// Describe attaches a human-readable description.
func (s *IntersectionSchema) Describe(text string) *IntersectionSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *IntersectionSchema) Kind() Kind { return KindIntersection }

// Node implements Schema.
func (s *IntersectionSchema) Node() Node {
	return Node{Kind: KindIntersection, Items: []Schema{s.left, s.right}, Description: s.desc}
}

// Parse implements Schema.
func (s *IntersectionSchema) Parse(ctx context.Context, v any) (any, error) {
	lv, err := s.left.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	rv, err := s.right.Parse(ctx, v)
	if err != nil {
		return nil, err
	}

	lm, lok := lv.(map[string]any)
	rm, rok := rv.(map[string]any)
	if lok && rok {
		merged := make(map[string]any, len(lm)+len(rm))
		for k, val := range lm {
			merged[k] = val
		}
		for k, val := range rm {
			merged[k] = val
		}
		return merged, nil
	}
	return rv, nil
}

// PromiseSchema defers to an inner schema for the eventually-produced
// value.
type PromiseSchema struct {
	inner Schema
	desc  string
}

// Promise returns a schema validating an eventually-produced value against
// inner.
func Promise(inner Schema) *PromiseSchema { return &PromiseSchema{inner: inner} }

// Describe attaches a human-readable description.
func (s *PromiseSchema) Describe(text string) *PromiseSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *PromiseSchema) Kind() Kind { return KindPromise }

// Node implements Schema.
func (s *PromiseSchema) Node() Node {
	return Node{Kind: KindPromise, Inner: s.inner, Description: s.desc}
}

// Parse implements Schema.
func (s *PromiseSchema) Parse(ctx context.Context, v any) (any, error) {
	return s.inner.Parse(ctx, v)
}
