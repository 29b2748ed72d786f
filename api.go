package typedapi

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/GabrielCenteioFreitas/typedapi/openapi"
	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

// API mounts contract-validated routes on a chi router and assembles an
// OpenAPI document from the accumulated contracts. Configure it with the
// setter methods during startup; setters are not safe to race with live
// traffic.
type API struct {
	router chi.Router
	info   openapi.Info

	mu        sync.Mutex
	contracts []*Contract

	errorHandler     ErrorHandler
	defaultResponses map[int]schema.Schema
	servers          []openapi.Server
	tags             []openapi.Tag
}

// New wraps r so that routes declared through the returned API carry
// typed contracts. The info block becomes the generated document's info.
func New(r chi.Router, info openapi.Info) *API {
	return &API{router: r, info: info}
}

// Router returns the underlying chi router, for mounting middleware or
// plain routes alongside contract-validated ones.
func (a *API) Router() chi.Router {
	return a.router
}

// ServeHTTP dispatches to the underlying router.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// SetErrorHandler sets the API-level validation error handler. Routes with
// their own OnError take precedence over it.
func (a *API) SetErrorHandler(h ErrorHandler) {
	a.errorHandler = h
}

// SetDefaultResponses sets per-status response schemas applied, for
// documentation purposes, to every route that does not declare its own
// schema for that status. Defaults are not enforced at runtime.
func (a *API) SetDefaultResponses(responses map[int]schema.Schema) {
	a.defaultResponses = responses
}

// AddServer appends a server entry to the generated document.
func (a *API) AddServer(s openapi.Server) {
	a.servers = append(a.servers, s)
}

// AddTag appends a tag definition to the generated document.
func (a *API) AddTag(t openapi.Tag) {
	a.tags = append(a.tags, t)
}

// Get declares a GET route with the given contract.
func (a *API) Get(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodGet, path, route, handler)
}

// Post declares a POST route with the given contract.
func (a *API) Post(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodPost, path, route, handler)
}

// Put declares a PUT route with the given contract.
func (a *API) Put(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodPut, path, route, handler)
}

// Patch declares a PATCH route with the given contract.
func (a *API) Patch(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodPatch, path, route, handler)
}

// Delete declares a DELETE route with the given contract.
func (a *API) Delete(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodDelete, path, route, handler)
}

// Head declares a HEAD route with the given contract.
func (a *API) Head(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodHead, path, route, handler)
}

// Options declares an OPTIONS route with the given contract.
func (a *API) Options(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodOptions, path, route, handler)
}

// Trace declares a TRACE route with the given contract.
func (a *API) Trace(path string, route Route, handler http.HandlerFunc) *Contract {
	return a.handle(http.MethodTrace, path, route, handler)
}

// handle produces the declaration's two artifacts: the immutable contract
// appended to the registry and the validating handler mounted on chi.
func (a *API) handle(method, path string, route Route, handler http.HandlerFunc) *Contract {
	path = normalizePath(path)
	c := &Contract{Method: method, Path: path, Route: route}

	a.mu.Lock()
	a.contracts = append(a.contracts, c)
	a.mu.Unlock()

	a.router.Method(method, path, a.validate(route)(handler))
	return c
}

// Contracts returns the declared contracts in declaration order.
func (a *API) Contracts() []*Contract {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Contract, len(a.contracts))
	copy(out, a.contracts)
	return out
}
