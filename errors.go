package typedapi

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

// Segment names used by RequestError. SegmentFiles is synthetic: file
// presence checks have no schema of their own but fail like any other
// request segment.
const (
	SegmentFiles   = "files"
	SegmentBody    = "body"
	SegmentQuery   = "query"
	SegmentParams  = "params"
	SegmentHeaders = "headers"
)

// RequestError classifies a request segment that failed validation.
type RequestError struct {
	// Segment names the failing request part: files, body, query, params
	// or headers.
	Segment string

	// Issues holds the structured field-level failures.
	Issues schema.Issues
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request validation failed on %s: %v", e.Segment, e.Issues)
}

func (e *RequestError) Unwrap() error {
	return e.Issues
}

// ResponseError classifies a response body that violates the schema
// declared for its status code. It indicates a service-side contract
// breach and is treated as more severe than a request error.
type ResponseError struct {
	// Status is the status code the handler emitted the body for.
	Status int

	// Issues holds the structured field-level failures.
	Issues schema.Issues

	// Body is the offending decoded body.
	Body any
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response validation failed for status %d: %v", e.Status, e.Issues)
}

func (e *ResponseError) Unwrap() error {
	return e.Issues
}

var segmentMessages = map[string]string{
	SegmentFiles:   "invalid file upload",
	SegmentBody:    "invalid request body",
	SegmentQuery:   "invalid query parameters",
	SegmentParams:  "invalid path parameters",
	SegmentHeaders: "invalid request headers",
}

type errorBody struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// DefaultErrorHandler is the built-in terminal error handler. Request
// failures produce a 400 with a segment-specific message and flattened
// field errors; response failures produce a 500 with a generic message,
// withholding the structured detail from the client. Unclassified errors
// produce a bare 500.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	switch e := err.(type) {
	case *RequestError:
		msg := segmentMessages[e.Segment]
		if msg == "" {
			msg = "invalid request"
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Status:  http.StatusBadRequest,
			Message: msg,
			Errors:  e.Issues.Flatten(),
		})
	case *ResponseError:
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Status:  http.StatusInternalServerError,
			Message: "internal server error",
		})
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
