// Package typedapi declares typed contracts for HTTP routes and derives
// three things from each declaration: runtime request validation, runtime
// response validation, and an OpenAPI v3.1.0 document.
//
// A route is declared once with its schemas and metadata:
//
//	r := chi.NewRouter()
//	api := typedapi.New(r, openapi.Info{Title: "Users", Version: "1.0.0"})
//
//	api.Post("/users", typedapi.Route{
//	    Body: schema.Object(schema.Fields{
//	        "name":  schema.String().Min(1),
//	        "email": schema.String().Email(),
//	    }),
//	    Responses: map[int]schema.Schema{
//	        http.StatusCreated: userSchema,
//	    },
//	    Summary: "Create a user",
//	    Tags:    []string{"users"},
//	}, createUser)
//
// The declaration produces two artifacts: an immutable contract recorded
// for document generation, and a validating handler mounted on the router.
// Handlers read the parsed, coerced values from the request context:
//
//	func createUser(w http.ResponseWriter, r *http.Request) {
//	    body := typedapi.Body(r).(map[string]any)
//	    ...
//	}
//
// # Validation
//
// Declared segments validate in fixed order: files, body, query, path
// params, headers. The first failing segment stops the pipeline and routes
// a RequestError to the error handler chain; the handler is never invoked.
// On success each segment is replaced by its parsed value, so handlers
// observe coerced data (a query field declared as a number arrives as a
// float64, not a string).
//
// When a route declares per-status response schemas, the handler's
// ResponseWriter is wrapped: bodies emitted for a status with a declared
// schema are validated before they reach the transport, and a
// non-conforming body is suppressed and routed to the error handler chain
// as a ResponseError. Statuses without a declared schema pass through
// untouched.
//
// # Error resolution
//
// Precedence, first match wins: the route's OnError handler, then the
// API-level handler set with SetErrorHandler, then the built-in default
// (400 with per-segment message and flattened field errors for request
// failures, 500 with a generic message for response failures).
//
// # Documents
//
// Document assembles an OpenAPI v3.1.0 document from every visible
// contract. HandleDocs additionally serves it as JSON and YAML along with
// an interactive docs UI:
//
//	doc := api.Document(nil)
//	api.HandleDocs("/docs", nil)
//
// Path templates accept both colon segments (/users/:id) and bracket
// segments (/users/{id}); both normalize to bracket form for routing and
// for document path keys.
package typedapi
