package schema

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// ArraySchema validates arrays of one element schema with optional
// element-count bounds.
type ArraySchema struct {
	elem     Schema
	minItems *int
	maxItems *int
	desc     string
}

// Array returns a schema for arrays of elem.
func Array(elem Schema) *ArraySchema { return &ArraySchema{elem: elem} }

// Min requires at least n elements.
func (s *ArraySchema) Min(n int) *ArraySchema {
	s.minItems = &n
	return s
}

// Max allows at most n elements.
func (s *ArraySchema) Max(n int) *ArraySchema {
	s.maxItems = &n
	return s
}

// Describe attaches a human-readable description.
func (s *ArraySchema) Describe(text string) *ArraySchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *ArraySchema) Kind() Kind { return KindArray }

// Node implements Schema.
func (s *ArraySchema) Node() Node {
	return Node{Kind: KindArray, Elem: s.elem, MinItems: s.minItems, MaxItems: s.maxItems, Description: s.desc}
}

// Parse implements Schema.
func (s *ArraySchema) Parse(ctx context.Context, v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, issue(CodeInvalidType, "expected array, got %s", typeName(v))
	}

	var iss Issues
	if s.minItems != nil && len(arr) < *s.minItems {
		iss = append(iss, issue(CodeTooSmall, "must contain at least %d element(s)", *s.minItems)...)
	}
	if s.maxItems != nil && len(arr) > *s.maxItems {
		iss = append(iss, issue(CodeTooBig, "must contain at most %d element(s)", *s.maxItems)...)
	}

	out := make([]any, len(arr))
	for i, elem := range arr {
		parsed, err := s.elem.Parse(ctx, elem)
		if err != nil {
			child, _ := AsIssues(prefixIssues(err, fmt.Sprintf("/%d", i)))
			iss = append(iss, child...)
			continue
		}
		out[i] = parsed
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// TupleSchema validates fixed-length arrays with one schema per position.
type TupleSchema struct {
	items []Schema
	desc  string
}

// Tuple returns a schema for a fixed-length array with positional schemas.
func Tuple(items ...Schema) *TupleSchema { return &TupleSchema{items: items} }

// Describe attaches a human-readable description.
func (s *TupleSchema) Describe(text string) *TupleSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *TupleSchema) Kind() Kind { return KindTuple }

// Node implements Schema.
func (s *TupleSchema) Node() Node {
	return Node{Kind: KindTuple, Items: s.items, Description: s.desc}
}

// Parse implements Schema.
func (s *TupleSchema) Parse(ctx context.Context, v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, issue(CodeInvalidType, "expected array, got %s", typeName(v))
	}
	if len(arr) != len(s.items) {
		return nil, issue(CodeInvalidType, "expected %d element(s), got %d", len(s.items), len(arr))
	}

	var iss Issues
	out := make([]any, len(arr))
	for i, item := range s.items {
		parsed, err := item.Parse(ctx, arr[i])
		if err != nil {
			child, _ := AsIssues(prefixIssues(err, fmt.Sprintf("/%d", i)))
			iss = append(iss, child...)
			continue
		}
		out[i] = parsed
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// SetSchema validates arrays whose elements must be unique.
type SetSchema struct {
	elem Schema
	desc string
}

// Set returns a schema for arrays of unique elements.
func Set(elem Schema) *SetSchema { return &SetSchema{elem: elem} }

// Describe attaches a human-readable description.
func (s *SetSchema) Describe(text string) *SetSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *SetSchema) Kind() Kind { return KindSet }

// Node implements Schema.
func (s *SetSchema) Node() Node {
	return Node{Kind: KindSet, Elem: s.elem, Description: s.desc}
}

// Parse implements Schema.
func (s *SetSchema) Parse(ctx context.Context, v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, issue(CodeInvalidType, "expected array, got %s", typeName(v))
	}

	var iss Issues
	seen := make(map[string]bool, len(arr))
	out := make([]any, 0, len(arr))
	for i, elem := range arr {
		parsed, err := s.elem.Parse(ctx, elem)
		if err != nil {
			child, _ := AsIssues(prefixIssues(err, fmt.Sprintf("/%d", i)))
			iss = append(iss, child...)
			continue
		}
		key, err := json.Marshal(parsed)
		if err == nil && seen[string(key)] {
			iss = append(iss, Issue{Path: fmt.Sprintf("/%d", i), Code: CodeNotUnique, Message: "duplicate element"})
			continue
		}
		seen[string(key)] = true
		out = append(out, parsed)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// RecordSchema validates string-keyed maps whose values all share one
// schema.
type RecordSchema struct {
	elem Schema
	desc string
}

// Record returns a schema for string-keyed maps with values of elem.
func Record(elem Schema) *RecordSchema { return &RecordSchema{elem: elem} }

// Describe attaches a human-readable description.
func (s *RecordSchema) Describe(text string) *RecordSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *RecordSchema) Kind() Kind { return KindRecord }

// Node implements Schema.
func (s *RecordSchema) Node() Node {
	return Node{Kind: KindRecord, Elem: s.elem, Description: s.desc}
}

// Parse implements Schema.
func (s *RecordSchema) Parse(ctx context.Context, v any) (any, error) {
	m, ok := toStringMap(v)
	if !ok {
		return nil, issue(CodeInvalidType, "expected object, got %s", typeName(v))
	}

	var iss Issues
	out := make(map[string]any, len(m))
	for key, val := range m {
		parsed, err := s.elem.Parse(ctx, val)
		if err != nil {
			child, _ := AsIssues(prefixIssues(err, "/"+key))
			iss = append(iss, child...)
			continue
		}
		out[key] = parsed
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
