package openapi

import (
	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

// Parameter locations.
//
// See: https://spec.openapis.org/oas/v3.1.0#parameter-locations
const (
	InQuery  = "query"
	InPath   = "path"
	InHeader = "header"
	InCookie = "cookie"
)

// TranslateSchema converts a schema declaration into a JSON Schema Draft
// 2020-12 fragment. Wrapper layers fold into the inner fragment: nullable
// widens the type, default populates the "default" keyword, read-only sets
// "readOnly", and transform, branded, catch and pipeline delegate to the
// schema they decorate. The outermost description wins.
//
// Translation is total. A schema with no JSON Schema equivalent degrades
// to an unconstrained string fragment instead of failing, so a document
// can always be produced for whatever a route declares.
func TranslateSchema(s schema.Schema) *Schema {
	if s == nil {
		return nil
	}

	var (
		nullable bool
		readOnly bool
		def      any
		hasDef   bool
		desc     string
	)

	for s.Kind().IsWrapper() {
		n := s.Node()
		if desc == "" {
			desc = n.Description
		}
		switch s.Kind() {
		case schema.KindNullable, schema.KindNullish:
			nullable = true
		case schema.KindDefault:
			if !hasDef {
				def, hasDef = n.Default, true
			}
		case schema.KindReadOnly:
			readOnly = true
		case schema.KindLazy:
			// Lazy nodes are opaque, so self-referential schemas
			// surface as a plain object fragment.
			return finishFragment(&Schema{Type: TypeString("object")}, desc, def, hasDef, readOnly, nullable)
		}
		s = n.Inner
		if s == nil {
			return finishFragment(&Schema{}, desc, def, hasDef, readOnly, nullable)
		}
	}

	n := s.Node()
	if desc == "" {
		desc = n.Description
	}
	return finishFragment(translateNode(n), desc, def, hasDef, readOnly, nullable)
}

func finishFragment(frag *Schema, desc string, def any, hasDef, readOnly, nullable bool) *Schema {
	if desc != "" {
		frag.Description = desc
	}
	if hasDef {
		frag.Default = def
	}
	if readOnly {
		frag.ReadOnly = true
	}
	if nullable {
		applyNullable(frag)
	}
	return frag
}

func translateNode(n schema.Node) *Schema {
	switch n.Kind {
	case schema.KindString:
		return stringFragment(n)
	case schema.KindNumber:
		return numberFragment(n)
	case schema.KindBoolean:
		return &Schema{Type: TypeString("boolean")}
	case schema.KindDate:
		return &Schema{Type: TypeString("string"), Format: "date-time"}
	case schema.KindBigInt:
		return &Schema{Type: TypeString("integer"), Format: "int64"}
	case schema.KindNull:
		return &Schema{Type: TypeString("null")}
	case schema.KindAny, schema.KindUnknown:
		return &Schema{}
	case schema.KindNever:
		return &Schema{Not: &Schema{}}
	case schema.KindLiteral:
		return literalFragment(n)
	case schema.KindEnum:
		return &Schema{Type: TypeString("string"), Enum: n.Values}
	case schema.KindValues:
		return valuesFragment(n)
	case schema.KindObject:
		return objectFragment(n)
	case schema.KindArray:
		frag := &Schema{Type: TypeString("array"), Items: TranslateSchema(n.Elem)}
		frag.MinItems = n.MinItems
		frag.MaxItems = n.MaxItems
		return frag
	case schema.KindTuple:
		frag := &Schema{Type: TypeString("array")}
		for _, item := range n.Items {
			frag.PrefixItems = append(frag.PrefixItems, TranslateSchema(item))
		}
		count := len(n.Items)
		frag.MinItems = &count
		frag.MaxItems = &count
		return frag
	case schema.KindRecord:
		return &Schema{Type: TypeString("object"), AdditionalProperties: TranslateSchema(n.Elem)}
	case schema.KindMap:
		return &Schema{Type: TypeString("object"), AdditionalProperties: true}
	case schema.KindSet:
		return &Schema{Type: TypeString("array"), Items: TranslateSchema(n.Elem), UniqueItems: true}
	case schema.KindUnion:
		frag := &Schema{}
		for _, alt := range n.Items {
			frag.OneOf = append(frag.OneOf, TranslateSchema(alt))
		}
		return frag
	case schema.KindDiscriminatedUnion:
		frag := &Schema{Discriminator: &Discriminator{PropertyName: n.Discriminator}}
		for _, alt := range n.Items {
			frag.OneOf = append(frag.OneOf, TranslateSchema(alt))
		}
		return frag
	case schema.KindIntersection:
		frag := &Schema{}
		for _, part := range n.Items {
			frag.AllOf = append(frag.AllOf, TranslateSchema(part))
		}
		return frag
	case schema.KindPromise:
		return TranslateSchema(n.Inner)
	case schema.KindFunction:
		// Callable values have no wire representation, so the fragment
		// is an opaque object carrying a note.
		return &Schema{Type: TypeString("object"), Description: "callable value with no serialized form"}
	default:
		// No JSON Schema equivalent. Degrade to an unconstrained
		// string rather than fail the whole document.
		return &Schema{Type: TypeString("string")}
	}
}

func stringFragment(n schema.Node) *Schema {
	frag := &Schema{Type: TypeString("string")}
	for _, c := range n.Checks {
		switch c.Kind {
		case schema.CheckMinLen:
			v := c.Length
			frag.MinLength = &v
		case schema.CheckMaxLen:
			v := c.Length
			frag.MaxLength = &v
		case schema.CheckLen:
			v := c.Length
			frag.MinLength = &v
			frag.MaxLength = &v
		case schema.CheckPattern:
			frag.Pattern = c.Pattern
		case schema.CheckEmail:
			frag.Format = "email"
		case schema.CheckUUID:
			frag.Format = "uuid"
		case schema.CheckURL:
			frag.Format = "uri"
		case schema.CheckDateTime:
			frag.Format = "date-time"
		case schema.CheckDate:
			frag.Format = "date"
		case schema.CheckTime:
			frag.Format = "time"
		}
	}
	return frag
}

func numberFragment(n schema.Node) *Schema {
	frag := &Schema{Type: TypeString("number")}
	for _, c := range n.Checks {
		switch c.Kind {
		case schema.CheckInt:
			frag.Type = TypeString("integer")
		case schema.CheckMin:
			v := c.Number
			if c.Exclusive {
				frag.ExclusiveMinimum = &v
			} else {
				frag.Minimum = &v
			}
		case schema.CheckMax:
			v := c.Number
			if c.Exclusive {
				frag.ExclusiveMaximum = &v
			} else {
				frag.Maximum = &v
			}
		case schema.CheckMultipleOf:
			v := c.Number
			frag.MultipleOf = &v
		}
	}
	return frag
}

// valuesFragment builds the enumeration fragment for a value set. A type
// is emitted only when every member shares one, so heterogeneous sets stay
// untyped.
func valuesFragment(n schema.Node) *Schema {
	frag := &Schema{Enum: n.Values}
	var shared string
	for _, v := range n.Values {
		var t string
		switch v.(type) {
		case string:
			t = "string"
		case bool:
			t = "boolean"
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			t = "number"
		default:
			return frag
		}
		if shared == "" {
			shared = t
		} else if shared != t {
			return frag
		}
	}
	if shared != "" {
		frag.Type = TypeString(shared)
	}
	return frag
}

func literalFragment(n schema.Node) *Schema {
	if len(n.Values) == 0 {
		return &Schema{}
	}
	frag := &Schema{Const: n.Values[0]}
	switch n.Values[0].(type) {
	case string:
		frag.Type = TypeString("string")
	case bool:
		frag.Type = TypeString("boolean")
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		frag.Type = TypeString("integer")
	case float32, float64:
		frag.Type = TypeString("number")
	case nil:
		frag.Type = TypeString("null")
	}
	return frag
}

func objectFragment(n schema.Node) *Schema {
	frag := &Schema{Type: TypeString("object"), Properties: map[string]*Schema{}}
	for _, f := range n.Fields {
		frag.Properties[f.Name] = TranslateSchema(f.Schema)
		if !schema.IsOptional(f.Schema) {
			frag.Required = append(frag.Required, f.Name)
		}
	}
	return frag
}

// applyNullable widens frag to also accept null. Fragments with a type get
// "null" appended to the type array, oneOf compositions get a null branch,
// and fragments that already accept everything are left alone. A const
// becomes a two-value enum so the value set widens along with the type.
func applyNullable(frag *Schema) {
	if frag.Const != nil {
		frag.Enum = []any{frag.Const, nil}
		frag.Const = nil
	} else if len(frag.Enum) > 0 {
		frag.Enum = append(append([]any{}, frag.Enum...), nil)
	}
	if !frag.Type.IsEmpty() {
		for _, t := range frag.Type.Values() {
			if t == "null" {
				return
			}
		}
		frag.Type = TypeArray(append(frag.Type.Values(), "null")...)
		return
	}
	if len(frag.OneOf) > 0 {
		frag.OneOf = append(frag.OneOf, &Schema{Type: TypeString("null")})
		return
	}
	if len(frag.AllOf) > 0 {
		*frag = Schema{OneOf: []*Schema{{AllOf: frag.AllOf}, {Type: TypeString("null")}}, Description: frag.Description}
	}
}

// ParametersFromSchema flattens an object schema into one Parameter per
// field for the given location. Non-object schemas produce no parameters.
// Path parameters are always required; query and header parameters follow
// the field's declared optionality.
func ParametersFromSchema(s schema.Schema, in string) []*Parameter {
	if s == nil {
		return nil
	}
	for s.Kind().IsWrapper() {
		inner := s.Node().Inner
		if inner == nil {
			return nil
		}
		s = inner
	}
	n := s.Node()
	if n.Kind != schema.KindObject {
		return nil
	}

	params := make([]*Parameter, 0, len(n.Fields))
	for _, f := range n.Fields {
		frag := TranslateSchema(f.Schema)
		p := &Parameter{
			Name:     f.Name,
			In:       in,
			Required: in == InPath || !schema.IsOptional(f.Schema),
			Schema:   frag,
		}
		if frag != nil && frag.Description != "" {
			p.Description = frag.Description
			frag.Description = ""
		}
		params = append(params, p)
	}
	return params
}
