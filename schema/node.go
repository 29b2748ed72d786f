package schema

import "context"

// Kind identifies what a schema accepts. Kinds fall into three families:
// leaves (primitives, literals, enumerations), composites (objects, arrays,
// unions and friends) and wrappers, each of which decorates exactly one
// inner schema with one additional semantic.
type Kind int

const (
	KindInvalid Kind = iota

	// Leaf kinds.
	KindString
	KindNumber
	KindBoolean
	KindDate
	KindBigInt
	KindNull
	KindAny
	KindUnknown
	KindNever
	KindLiteral
	KindEnum
	KindValues

	// Composite kinds.
	KindObject
	KindArray
	KindTuple
	KindRecord
	KindMap
	KindSet
	KindUnion
	KindDiscriminatedUnion
	KindIntersection
	KindFunction
	KindPromise

	// Wrapper kinds.
	KindOptional
	KindNullable
	KindNullish
	KindDefault
	KindTransform
	KindBranded
	KindReadOnly
	KindCatch
	KindPipeline
	KindLazy
)

var kindNames = map[Kind]string{
	KindInvalid:            "invalid",
	KindString:             "string",
	KindNumber:             "number",
	KindBoolean:            "boolean",
	KindDate:               "date",
	KindBigInt:             "bigint",
	KindNull:               "null",
	KindAny:                "any",
	KindUnknown:            "unknown",
	KindNever:              "never",
	KindLiteral:            "literal",
	KindEnum:               "enum",
	KindValues:             "values",
	KindObject:             "object",
	KindArray:              "array",
	KindTuple:              "tuple",
	KindRecord:             "record",
	KindMap:                "map",
	KindSet:                "set",
	KindUnion:              "union",
	KindDiscriminatedUnion: "discriminated union",
	KindIntersection:       "intersection",
	KindFunction:           "function",
	KindPromise:            "promise",
	KindOptional:           "optional",
	KindNullable:           "nullable",
	KindNullish:            "nullish",
	KindDefault:            "default",
	KindTransform:          "transform",
	KindBranded:            "branded",
	KindReadOnly:           "readonly",
	KindCatch:              "catch",
	KindPipeline:           "pipeline",
	KindLazy:               "lazy",
}

// String returns the kind's name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsWrapper reports whether the kind decorates exactly one inner schema.
func (k Kind) IsWrapper() bool {
	return k >= KindOptional && k <= KindLazy
}

// Schema is a validation schema. All schema values validate input via Parse
// and describe their own structure via Node.
type Schema interface {
	// Kind returns the schema's kind tag.
	Kind() Kind

	// Node returns the schema's introspectable description. For wrapper
	// kinds the returned node carries the wrapped inner schema, except
	// for lazy schemas, which are deliberately opaque to avoid infinite
	// recursion on self-referential definitions.
	Node() Node

	// Parse validates v and returns the normalized value. Coercion and
	// defaulting apply, so the returned value may differ from the input.
	// On failure the returned error is an Issues value.
	Parse(ctx context.Context, v any) (any, error)
}

// Node is the introspectable description of one schema. Kind is always set;
// the remaining fields are populated per kind. Unknown kinds must be
// tolerated by consumers: a node that fits no known shape still describes
// a schema that accepts something.
type Node struct {
	Kind Kind

	// Inner is the wrapped schema for wrapper kinds and the deferred
	// schema for promise kinds. Nil for lazy nodes.
	Inner Schema

	// Fields lists an object's fields in stable (sorted) order.
	Fields []Field

	// Elem is the element schema for array, set and record kinds.
	Elem Schema

	// Items holds positional schemas for tuples, alternatives for unions
	// and the two operands for intersections.
	Items []Schema

	// Discriminator is the discriminating field name for discriminated
	// unions.
	Discriminator string

	// Values holds the accepted values for literal, enum and values
	// kinds. Literals always hold exactly one value.
	Values []any

	// Default is the substitute value carried by a default wrapper.
	Default any

	// Description is the human-readable description attached to this
	// layer, if any.
	Description string

	// Checks lists the refinements attached to string, number and array
	// schemas.
	Checks []Check

	// MinItems and MaxItems are the element-count bounds for arrays.
	MinItems *int
	MaxItems *int
}

// Field is one named member of an object schema.
type Field struct {
	Name   string
	Schema Schema
}

// CheckKind identifies a refinement attached to a schema.
type CheckKind int

const (
	CheckMinLen CheckKind = iota
	CheckMaxLen
	CheckLen
	CheckPattern
	CheckEmail
	CheckUUID
	CheckURL
	CheckDateTime
	CheckDate
	CheckTime
	CheckMin
	CheckMax
	CheckInt
	CheckMultipleOf
)

// Check is one refinement. Number carries the bound for numeric checks and
// multipleOf; Length carries the bound for length checks; Pattern carries
// the source text of a pattern check; Exclusive marks numeric bounds as
// strict.
type Check struct {
	Kind      CheckKind
	Number    float64
	Length    int
	Pattern   string
	Exclusive bool
}

// IsOptional reports whether s tolerates an absent value: any wrapper layer
// is optional or nullish, or a default is present. Lazy layers are not
// followed.
func IsOptional(s Schema) bool {
	for s != nil {
		k := s.Kind()
		switch k {
		case KindOptional, KindNullish, KindDefault:
			return true
		case KindLazy:
			return false
		}
		if !k.IsWrapper() {
			return false
		}
		s = s.Node().Inner
	}
	return false
}
