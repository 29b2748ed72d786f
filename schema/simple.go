package schema

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"
)

// SimpleSchema is the shared implementation for kinds without refinements
// or nested schemas: boolean, date, big-integer, null, any, unknown, never,
// function and map.
type SimpleSchema struct {
	kind Kind
	desc string
}

// Bool returns a boolean schema. The strings "true" and "false" coerce.
func Bool() *SimpleSchema { return &SimpleSchema{kind: KindBoolean} }

// Date returns a date schema. Accepts time.Time values, RFC 3339
// timestamps and ISO 8601 calendar dates; parses to time.Time.
func Date() *SimpleSchema { return &SimpleSchema{kind: KindDate} }

// BigInt returns a big-integer schema. Accepts *big.Int values, integral
// numbers and decimal strings; parses to *big.Int.
func BigInt() *SimpleSchema { return &SimpleSchema{kind: KindBigInt} }

// Null returns a schema accepting only null.
func Null() *SimpleSchema { return &SimpleSchema{kind: KindNull} }

// Any returns a schema accepting every value.
func Any() *SimpleSchema { return &SimpleSchema{kind: KindAny} }

// Unknown returns a schema accepting every value. It differs from Any only
// in intent: the value's shape is unknown rather than irrelevant.
func Unknown() *SimpleSchema { return &SimpleSchema{kind: KindUnknown} }

// Never returns a schema accepting no value at all.
func Never() *SimpleSchema { return &SimpleSchema{kind: KindNever} }

// Function returns a schema accepting callable values. Not representable
// in transport formats; it exists so declared contracts can carry it and
// document consumers can degrade gracefully.
func Function() *SimpleSchema { return &SimpleSchema{kind: KindFunction} }

// Map returns a schema accepting any string-keyed map without inspecting
// its values. Use Record to validate values against a schema.
func Map() *SimpleSchema { return &SimpleSchema{kind: KindMap} }

// Describe attaches a human-readable description.
func (s *SimpleSchema) Describe(text string) *SimpleSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *SimpleSchema) Kind() Kind { return s.kind }

// Node implements Schema.
func (s *SimpleSchema) Node() Node {
	return Node{Kind: s.kind, Description: s.desc}
}

// Parse implements Schema.
func (s *SimpleSchema) Parse(_ context.Context, v any) (any, error) {
	switch s.kind {
	case KindBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if b == "true" {
				return true, nil
			}
			if b == "false" {
				return false, nil
			}
		}
		return nil, issue(CodeInvalidType, "expected boolean, got %s", typeName(v))

	case KindDate:
		switch d := v.(type) {
		case time.Time:
			return d, nil
		case string:
			if t, err := time.Parse(time.RFC3339, d); err == nil {
				return t, nil
			}
			if t, err := time.Parse(time.DateOnly, d); err == nil {
				return t, nil
			}
		}
		return nil, issue(CodeInvalidType, "expected date, got %s", typeName(v))

	case KindBigInt:
		return parseBigInt(v)

	case KindNull:
		if v == nil {
			return nil, nil
		}
		return nil, issue(CodeInvalidType, "expected null, got %s", typeName(v))

	case KindAny, KindUnknown:
		return v, nil

	case KindNever:
		return nil, issue(CodeInvalidType, "no value is accepted")

	case KindFunction:
		if v != nil && reflect.ValueOf(v).Kind() == reflect.Func {
			return v, nil
		}
		return nil, issue(CodeInvalidType, "expected function, got %s", typeName(v))

	case KindMap:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return nil, issue(CodeInvalidType, "expected map, got %s", typeName(v))
	}

	return nil, issue(CodeInvalidType, "unparseable kind %s", s.kind)
}

func parseBigInt(v any) (any, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case float64:
		if n == math.Trunc(n) {
			return big.NewInt(int64(n)), nil
		}
	case string:
		if b, ok := new(big.Int).SetString(n, 10); ok {
			return b, nil
		}
	}
	return nil, issue(CodeInvalidType, "expected bigint, got %s", typeName(v))
}

// typeName names a value's dynamic type for error messages.
func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
