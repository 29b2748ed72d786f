package schema

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
)

// NumberSchema validates numeric values with optional refinements. Parsed
// values are normalized to float64. String input is coerced, so number
// schemas work for path, query and header fields.
type NumberSchema struct {
	desc   string
	checks []Check
}

// Number returns a new number schema.
func Number() *NumberSchema { return &NumberSchema{} }

// Min requires the value to be >= n.
func (s *NumberSchema) Min(n float64) *NumberSchema {
	s.checks = append(s.checks, Check{Kind: CheckMin, Number: n})
	return s
}

// Max requires the value to be <= n.
func (s *NumberSchema) Max(n float64) *NumberSchema {
	s.checks = append(s.checks, Check{Kind: CheckMax, Number: n})
	return s
}

// Gt requires the value to be strictly greater than n.
func (s *NumberSchema) Gt(n float64) *NumberSchema {
	s.checks = append(s.checks, Check{Kind: CheckMin, Number: n, Exclusive: true})
	return s
}

// Lt requires the value to be strictly less than n.
func (s *NumberSchema) Lt(n float64) *NumberSchema {
	s.checks = append(s.checks, Check{Kind: CheckMax, Number: n, Exclusive: true})
	return s
}

// Int requires the value to be an integer.
func (s *NumberSchema) Int() *NumberSchema {
	s.checks = append(s.checks, Check{Kind: CheckInt})
	return s
}

// MultipleOf requires the value to be a multiple of n.
func (s *NumberSchema) MultipleOf(n float64) *NumberSchema {
	s.checks = append(s.checks, Check{Kind: CheckMultipleOf, Number: n})
	return s
}

// Describe attaches a human-readable description.
func (s *NumberSchema) Describe(text string) *NumberSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *NumberSchema) Kind() Kind { return KindNumber }

// Node implements Schema.
func (s *NumberSchema) Node() Node {
	return Node{Kind: KindNumber, Description: s.desc, Checks: s.checks}
}

// Parse implements Schema.
func (s *NumberSchema) Parse(_ context.Context, v any) (any, error) {
	n, ok := toFloat(v)
	if !ok {
		return nil, issue(CodeInvalidType, "expected number, got %s", typeName(v))
	}

	var iss Issues
	for _, c := range s.checks {
		switch c.Kind {
		case CheckMin:
			if c.Exclusive && n <= c.Number {
				iss = append(iss, issue(CodeTooSmall, "must be greater than %v", c.Number)...)
			} else if !c.Exclusive && n < c.Number {
				iss = append(iss, issue(CodeTooSmall, "must be at least %v", c.Number)...)
			}
		case CheckMax:
			if c.Exclusive && n >= c.Number {
				iss = append(iss, issue(CodeTooBig, "must be less than %v", c.Number)...)
			} else if !c.Exclusive && n > c.Number {
				iss = append(iss, issue(CodeTooBig, "must be at most %v", c.Number)...)
			}
		case CheckInt:
			if n != math.Trunc(n) {
				iss = append(iss, issue(CodeInvalidType, "expected integer, got %v", n)...)
			}
		case CheckMultipleOf:
			if c.Number != 0 && math.Abs(math.Mod(n, c.Number)) > 1e-9 {
				iss = append(iss, issue(CodeNotMultipleOf, "must be a multiple of %v", c.Number)...)
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return n, nil
}

// toFloat converts the numeric types produced by JSON decoding plus string
// forms to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
