package typedapi

import (
	"net/http"
	"strings"

	"github.com/GabrielCenteioFreitas/typedapi/openapi"
	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

// Route declares one route's contract: input schemas per segment, output
// schemas per status code, and documentation metadata. The zero value is a
// valid contract that validates nothing.
type Route struct {
	// Params, Query and Headers are object schemas validated against the
	// corresponding request segment. Non-object schemas produce no
	// documented parameters but are still enforced at runtime.
	Params  schema.Schema
	Query   schema.Schema
	Headers schema.Schema

	// Body is validated against the decoded JSON request body, or against
	// the multipart form values when Files is declared.
	Body schema.Schema

	// Files declares expected multipart file fields by field name.
	Files map[string]FileField

	// Responses maps status codes to the schema their body must satisfy.
	// Statuses absent from the map pass through unvalidated.
	Responses map[int]schema.Schema

	// Documentation metadata for the generated operation object.
	Summary     string
	Description string
	Tags        []string
	OperationID string
	Deprecated  bool
	Security    []openapi.SecurityRequirement

	// Hide excludes the route from the generated document. Validation is
	// still enforced.
	Hide bool

	// OnError handles validation failures for this route only, taking
	// precedence over the API-level and default handlers.
	OnError ErrorHandler
}

// FileField declares one expected multipart file field.
type FileField struct {
	// Required rejects requests that upload no file for this field.
	Required bool

	// MaxCount caps how many files the field accepts. Zero means no cap.
	MaxCount int

	// Description documents the field in the generated document.
	Description string
}

// Contract is the immutable record of one declared route, kept in
// declaration order for document generation.
type Contract struct {
	// Method is the HTTP method the route was declared with.
	Method string

	// Path is the route's path template in bracket notation.
	Path string

	// Route is the declaration the contract was created from.
	Route Route
}

// ErrorHandler produces the outgoing response for a validation failure.
// The error is a *RequestError or *ResponseError for the two classified
// failure kinds; anything else reaching a handler is passed through from
// the default resolution chain unmodified.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// normalizePath rewrites Express-style colon segments into bracket
// notation and ensures a leading slash: /users/:id becomes /users/{id}.
// Bracket segments are left untouched.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.Contains(path, ":") {
		return path
	}
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			segs[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}
