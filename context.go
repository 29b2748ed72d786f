package typedapi

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	ctxParams ctxKey = iota
	ctxQuery
	ctxHeaders
	ctxBody
)

// Params returns the parsed path parameters for a request that passed
// validation, or nil when the route declares no params schema.
func Params(r *http.Request) any {
	return r.Context().Value(ctxParams)
}

// Query returns the parsed query values, or nil when the route declares
// no query schema.
func Query(r *http.Request) any {
	return r.Context().Value(ctxQuery)
}

// Headers returns the parsed header values keyed by lowercased header
// name, or nil when the route declares no headers schema.
func Headers(r *http.Request) any {
	return r.Context().Value(ctxHeaders)
}

// Body returns the parsed request body, or nil when the route declares no
// body schema. The value reflects coercion and defaulting, not the raw
// input.
func Body(r *http.Request) any {
	return r.Context().Value(ctxBody)
}

func withSegment(r *http.Request, key ctxKey, v any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), key, v))
}
