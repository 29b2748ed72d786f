// Package schema implements declarative validation schemas with runtime
// introspection.
//
// A schema describes the shape a value must have. Schemas are built from
// constructors and fluent refinement builders, validate arbitrary input via
// Parse, and expose their own structure via Node for consumers that need to
// project a schema into another representation (for example a JSON Schema
// fragment in an OpenAPI document).
//
// # Building Schemas
//
// Primitive constructors return fluent builders:
//
//	name := schema.String().Min(1).Max(100)
//	age  := schema.Number().Int().Min(0)
//	id   := schema.String().UUID()
//
// Composite constructors combine schemas:
//
//	user := schema.Object(schema.Fields{
//	    "id":    schema.String().UUID(),
//	    "name":  schema.String().Min(1),
//	    "email": schema.Optional(schema.String().Email()),
//	})
//
//	tags := schema.Array(schema.String()).Max(10)
//
// # Wrappers
//
// Wrappers decorate exactly one inner schema with one additional semantic:
//
//	schema.Optional(s)      // value may be absent
//	schema.Nullable(s)      // value may be null
//	schema.Nullish(s)       // absent or null
//	schema.Default(s, v)    // v substitutes an absent value
//	schema.Transform(s, fn) // fn runs on the parsed value
//	schema.Catch(s, v)      // v substitutes a failed parse
//	schema.Pipe(in, out)    // parse through in, then out
//	schema.Lazy(fn)         // self-referential schemas
//
// # Parsing
//
// Parse validates input and returns the normalized value. Path, query and
// header values arrive as strings, so number, boolean, date and big-integer
// schemas coerce from their string forms:
//
//	v, err := schema.Number().Int().Parse(ctx, "42") // float64(42)
//
// Validation failures are reported as Issues, a structured error carrying a
// JSON-Pointer path and a stable code per entry:
//
//	if iss, ok := schema.AsIssues(err); ok {
//	    fieldErrors := iss.Flatten()
//	}
package schema
