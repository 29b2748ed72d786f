// Package openapi defines an OpenAPI v3.1.0 document model and translates
// declared schemas into JSON Schema Draft 2020-12 fragments.
//
// The package targets the generator direction only: it builds documents from
// route contracts and marshals them to JSON and YAML, it does not load or
// validate foreign OpenAPI documents.
//
// See: https://spec.openapis.org/oas/v3.1.0
// See: https://json-schema.org/draft/2020-12/json-schema-core
// See: https://json-schema.org/draft/2020-12/json-schema-validation
//
// # Schema Translation
//
// TranslateSchema converts a schema declaration into a JSON Schema fragment:
//
//	user := schema.Object(schema.Fields{
//	    "name":  schema.String().Min(1),
//	    "email": schema.String().Email(),
//	    "age":   schema.Optional(schema.Number().Int().Min(0)),
//	})
//	frag := openapi.TranslateSchema(user)
//	// → {type: "object", properties: {...}, required: ["email", "name"]}
//
// Wrapper layers fold into the inner fragment rather than nesting:
// nullable widens the type to a type array (or adds a null branch to a
// oneOf composition), default populates the "default" keyword, read-only
// sets "readOnly", and transform, branded, catch, and pipeline delegate to
// the schema they decorate. Translation never fails: a construct with no
// JSON Schema equivalent degrades to an unconstrained permissive fragment.
//
// # Parameter Extraction
//
// ParametersFromSchema flattens an object schema into per-field Parameter
// objects for the query, path, or header sections of an operation:
//
//	params := openapi.ParametersFromSchema(querySchema, openapi.InQuery)
//
// Path parameters are always required regardless of declared optionality.
// For query and header parameters, optional, nullish, and defaulted fields
// are emitted as not required.
//
// # Serving
//
// Handle registers document endpoints and an interactive docs UI on a chi
// router. The config parameter is optional, pass nil for defaults:
//
//	openapi.Handle(r, "/docs", buildDoc, nil)
//
// This registers three routes:
//
//	/docs/             - interactive HTML docs
//	/docs/openapi.json - document as JSON
//	/docs/openapi.yaml - document as YAML
//
// Both /docs and /docs/ serve the docs UI. Serialized forms are rendered
// once on first request using sync.Once.
package openapi
