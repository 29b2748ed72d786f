package typedapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

const maxMultipartMemory = 32 << 20

// validate builds the per-route middleware enforcing the contract.
// Declared segments validate in fixed order (files, body, query, params,
// headers), short-circuiting on the first failure. Successful segments are
// committed to the request context before the next segment runs, so the
// handler observes coerced values.
func (a *API) validate(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if len(route.Files) > 0 {
				if err := checkFiles(r, route.Files); err != nil {
					a.resolve(route, w, r, err)
					return
				}
			}

			if route.Body != nil {
				raw, reqErr := decodeBody(r, len(route.Files) > 0)
				if reqErr != nil {
					a.resolve(route, w, r, reqErr)
					return
				}
				parsed, err := route.Body.Parse(ctx, raw)
				if err != nil {
					a.resolve(route, w, r, &RequestError{Segment: SegmentBody, Issues: toIssues(err)})
					return
				}
				r = withSegment(r, ctxBody, parsed)
			}

			if route.Query != nil {
				parsed, err := route.Query.Parse(ctx, multiValueMap(r.URL.Query(), false))
				if err != nil {
					a.resolve(route, w, r, &RequestError{Segment: SegmentQuery, Issues: toIssues(err)})
					return
				}
				r = withSegment(r, ctxQuery, parsed)
			}

			if route.Params != nil {
				parsed, err := route.Params.Parse(ctx, pathParams(r))
				if err != nil {
					a.resolve(route, w, r, &RequestError{Segment: SegmentParams, Issues: toIssues(err)})
					return
				}
				r = withSegment(r, ctxParams, parsed)
			}

			if route.Headers != nil {
				parsed, err := route.Headers.Parse(ctx, multiValueMap(r.Header, true))
				if err != nil {
					a.resolve(route, w, r, &RequestError{Segment: SegmentHeaders, Issues: toIssues(err)})
					return
				}
				r = withSegment(r, ctxHeaders, parsed)
			}

			if len(route.Responses) > 0 {
				iw := &interceptor{
					ResponseWriter: w,
					responses:      route.Responses,
					req:            r,
					resolve: func(w http.ResponseWriter, r *http.Request, err error) {
						a.resolve(route, w, r, err)
					},
				}
				next.ServeHTTP(iw, r)
				iw.finish(ctx)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolve routes a classified validation error through the handler chain:
// per-route OnError, then the API-level handler, then the built-in
// default. Resolution is terminal for the request.
func (a *API) resolve(route Route, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case route.OnError != nil:
		route.OnError(w, r, err)
	case a.errorHandler != nil:
		a.errorHandler(w, r, err)
	default:
		DefaultErrorHandler(w, r, err)
	}
}

// checkFiles verifies presence and count for every declared file field.
// All violations are collected into a single request error on the
// synthetic files segment.
func checkFiles(r *http.Request, fields map[string]FileField) error {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return &RequestError{
				Segment: SegmentFiles,
				Issues:  schema.Issues{{Code: schema.CodeInvalidType, Message: "invalid multipart form: " + err.Error()}},
			}
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues schema.Issues
	for _, name := range names {
		fld := fields[name]
		var count int
		if r.MultipartForm != nil {
			count = len(r.MultipartForm.File[name])
		}
		if fld.Required && count == 0 {
			issues = append(issues, schema.Issue{
				Path:    "/" + name,
				Code:    schema.CodeRequired,
				Message: "file is required",
			})
		}
		if fld.MaxCount > 0 && count > fld.MaxCount {
			issues = append(issues, schema.Issue{
				Path:    "/" + name,
				Code:    schema.CodeTooBig,
				Message: fmt.Sprintf("expected at most %d files, got %d", fld.MaxCount, count),
			})
		}
	}
	if len(issues) > 0 {
		return &RequestError{Segment: SegmentFiles, Issues: issues}
	}
	return nil
}

// decodeBody produces the raw body value handed to the body schema. For
// multipart requests the form values stand in for the body; otherwise the
// body is decoded as JSON. An empty body yields nil so the schema decides
// whether absence is acceptable.
func decodeBody(r *http.Request, multipart bool) (any, *RequestError) {
	if multipart || strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				return nil, &RequestError{
					Segment: SegmentBody,
					Issues:  schema.Issues{{Code: schema.CodeInvalidType, Message: "invalid multipart form: " + err.Error()}},
				}
			}
		}
		vals := make(map[string]any, len(r.MultipartForm.Value))
		for k, v := range r.MultipartForm.Value {
			vals[k] = singleOrSlice(v)
		}
		return vals, nil
	}

	if r.Body == nil {
		return nil, nil
	}
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &RequestError{
			Segment: SegmentBody,
			Issues:  schema.Issues{{Code: schema.CodeInvalidType, Message: "invalid JSON: " + err.Error()}},
		}
	}
	return raw, nil
}

// multiValueMap converts a multi-valued string map (query values, headers)
// into the shape object schemas expect: single values flatten to a string,
// repeated values become a slice.
func multiValueMap(src map[string][]string, lowercase bool) map[string]any {
	out := make(map[string]any, len(src))
	for k, vals := range src {
		if lowercase {
			k = strings.ToLower(k)
		}
		switch len(vals) {
		case 0:
		case 1:
			out[k] = vals[0]
		default:
			many := make([]any, len(vals))
			for i, v := range vals {
				many[i] = v
			}
			out[k] = many
		}
	}
	return out
}

// singleOrSlice flattens a multi-valued form field the same way
// multiValueMap does for query values and headers.
func singleOrSlice(vals []string) any {
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return vals[0]
	default:
		many := make([]any, len(vals))
		for i, v := range vals {
			many[i] = v
		}
		return many
	}
}

// pathParams collects the chi route parameters for the current request.
func pathParams(r *http.Request) map[string]any {
	out := make(map[string]any)
	if rc := chi.RouteContext(r.Context()); rc != nil {
		for i, key := range rc.URLParams.Keys {
			if key == "*" {
				continue
			}
			out[key] = rc.URLParams.Values[i]
		}
	}
	return out
}

func toIssues(err error) schema.Issues {
	if iss, ok := schema.AsIssues(err); ok {
		return iss
	}
	return schema.Issues{{Code: schema.CodeInvalidType, Message: err.Error()}}
}

// interceptor decorates the handler's ResponseWriter so bodies emitted for
// a status with a declared schema are buffered and validated before they
// reach the transport. Statuses without a declared schema pass through
// untouched.
type interceptor struct {
	http.ResponseWriter
	responses map[int]schema.Schema
	req       *http.Request
	resolve   ErrorHandler

	status int
	buf    *bytes.Buffer
}

func (w *interceptor) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	if _, ok := w.responses[code]; ok {
		// Defer the header until the body has been validated.
		w.buf = &bytes.Buffer{}
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *interceptor) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	if w.buf != nil {
		return w.buf.Write(p)
	}
	return w.ResponseWriter.Write(p)
}

// finish validates and flushes a buffered body after the handler returns.
// A non-conforming body is suppressed; resolution emits the failure
// response on the underlying writer instead.
func (w *interceptor) finish(ctx context.Context) {
	if w.buf == nil {
		return
	}
	if w.buf.Len() == 0 {
		w.ResponseWriter.WriteHeader(w.status)
		return
	}

	sch := w.responses[w.status]
	var body any
	if err := json.Unmarshal(w.buf.Bytes(), &body); err != nil {
		w.resolve(w.ResponseWriter, w.req, &ResponseError{
			Status: w.status,
			Issues: schema.Issues{{Code: schema.CodeInvalidType, Message: "response body is not valid JSON"}},
			Body:   w.buf.String(),
		})
		return
	}
	if _, err := sch.Parse(ctx, body); err != nil {
		w.resolve(w.ResponseWriter, w.req, &ResponseError{
			Status: w.status,
			Issues: toIssues(err),
			Body:   body,
		})
		return
	}

	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(w.buf.Bytes())
}
