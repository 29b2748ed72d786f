package typedapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/GabrielCenteioFreitas/typedapi/openapi"
	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

// DocumentConfig configures document assembly. The zero value is valid.
type DocumentConfig struct {
	// PathPrefix is prepended to every contract path in the document
	// (e.g. "/api/v1").
	PathPrefix string

	// Overlay supplies low-level document fragments merged into the
	// assembled output: object-valued parts (components, webhooks, paths)
	// merge key-by-key with the overlay winning on conflict, everything
	// else replaces the assembled value outright when set.
	Overlay *openapi.Document
}

// Document assembles the OpenAPI v3.1.0 document from every visible
// contract, in declaration order. Output depends only on the contracts
// and configuration, so repeated calls with the same state produce
// identical documents.
func (a *API) Document(cfg *DocumentConfig) *openapi.Document {
	if cfg == nil {
		cfg = &DocumentConfig{}
	}
	prefix := strings.TrimRight(cfg.PathPrefix, "/")

	doc := &openapi.Document{
		OpenAPI: "3.1.0",
		Info:    a.info,
		Servers: append([]openapi.Server(nil), a.servers...),
		Tags:    append([]openapi.Tag(nil), a.tags...),
	}

	paths := make(map[string]*openapi.PathItem)
	for _, c := range a.Contracts() {
		if c.Route.Hide {
			continue
		}
		key := prefix + c.Path
		item := paths[key]
		if item == nil {
			item = &openapi.PathItem{}
			paths[key] = item
		}
		setOperation(item, c.Method, a.operation(c.Route))
	}
	if len(paths) > 0 {
		doc.Paths = paths
	}

	if cfg.Overlay != nil {
		mergeDocument(doc, cfg.Overlay)
	}
	return doc
}

// HandleDocs registers the generated document as JSON and YAML endpoints
// plus an interactive docs UI under basePath. The document is assembled
// once, on first request. Pass nil for default config.
func (a *API) HandleDocs(basePath string, cfg *openapi.HandleConfig) {
	openapi.Handle(a.router, basePath, func() *openapi.Document {
		return a.Document(nil)
	}, cfg)
}

func setOperation(item *openapi.PathItem, method string, op *openapi.Operation) {
	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPost:
		item.Post = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodOptions:
		item.Options = op
	case http.MethodHead:
		item.Head = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodTrace:
		item.Trace = op
	}
}

func (a *API) operation(route Route) *openapi.Operation {
	op := &openapi.Operation{
		Tags:        route.Tags,
		Summary:     route.Summary,
		Description: route.Description,
		OperationID: route.OperationID,
		Deprecated:  route.Deprecated,
		Security:    route.Security,
	}
	op.Parameters = append(op.Parameters, openapi.ParametersFromSchema(route.Params, openapi.InPath)...)
	op.Parameters = append(op.Parameters, openapi.ParametersFromSchema(route.Query, openapi.InQuery)...)
	op.Parameters = append(op.Parameters, openapi.ParametersFromSchema(route.Headers, openapi.InHeader)...)
	op.RequestBody = requestBody(route)
	op.Responses = a.responses(route)
	return op
}

// requestBody builds the operation's request body fragment. Declared
// files make the body multipart; otherwise a declared body schema is
// documented as JSON.
func requestBody(route Route) *openapi.RequestBody {
	if len(route.Files) > 0 {
		return &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {Schema: multipartFragment(route)},
			},
		}
	}
	if route.Body != nil {
		return &openapi.RequestBody{
			Required: !schema.IsOptional(route.Body),
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.TranslateSchema(route.Body)},
			},
		}
	}
	return nil
}

// multipartFragment merges declared file fields and body fields into one
// form fragment. File fields become binary string properties; body object
// fields are translated in place, with a combined required list.
func multipartFragment(route Route) *openapi.Schema {
	frag := &openapi.Schema{
		Type:       openapi.TypeString("object"),
		Properties: make(map[string]*openapi.Schema),
	}
	var required []string

	names := make([]string, 0, len(route.Files))
	for name := range route.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fld := route.Files[name]
		frag.Properties[name] = &openapi.Schema{
			Type:        openapi.TypeString("string"),
			Format:      "binary",
			Description: fld.Description,
		}
		if fld.Required {
			required = append(required, name)
		}
	}

	if route.Body != nil {
		if body := openapi.TranslateSchema(route.Body); body != nil {
			for name, prop := range body.Properties {
				frag.Properties[name] = prop
			}
			required = append(required, body.Required...)
		}
	}

	if len(required) > 0 {
		sort.Strings(required)
		frag.Required = required
	}
	return frag
}

// responses merges the API-level default response schemas with the
// route's own, the route winning per status code. A bare generic 200 is
// emitted only when neither source declares anything.
func (a *API) responses(route Route) map[string]*openapi.Response {
	merged := make(map[int]schema.Schema, len(a.defaultResponses)+len(route.Responses))
	for code, s := range a.defaultResponses {
		merged[code] = s
	}
	for code, s := range route.Responses {
		merged[code] = s
	}

	if len(merged) == 0 {
		return map[string]*openapi.Response{
			"200": {Description: http.StatusText(http.StatusOK)},
		}
	}

	out := make(map[string]*openapi.Response, len(merged))
	for code, s := range merged {
		desc := http.StatusText(code)
		if desc == "" {
			desc = "Response"
		}
		out[strconv.Itoa(code)] = &openapi.Response{
			Description: desc,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.TranslateSchema(s)},
			},
		}
	}
	return out
}

// mergeDocument merges overlay into doc. Map-valued parts merge
// key-by-key with the overlay winning on conflict; everything else
// replaces the assembled value outright when the overlay sets it.
func mergeDocument(doc, overlay *openapi.Document) {
	if overlay.JSONSchemaDialect != "" {
		doc.JSONSchemaDialect = overlay.JSONSchemaDialect
	}
	if overlay.Info.Title != "" || overlay.Info.Version != "" {
		doc.Info = overlay.Info
	}
	if overlay.Servers != nil {
		doc.Servers = overlay.Servers
	}
	if overlay.Tags != nil {
		doc.Tags = overlay.Tags
	}
	if overlay.Security != nil {
		doc.Security = overlay.Security
	}
	if overlay.ExternalDocs != nil {
		doc.ExternalDocs = overlay.ExternalDocs
	}

	if overlay.Webhooks != nil {
		if doc.Webhooks == nil {
			doc.Webhooks = make(map[string]*openapi.PathItem, len(overlay.Webhooks))
		}
		for k, v := range overlay.Webhooks {
			doc.Webhooks[k] = v
		}
	}
	if overlay.Paths != nil {
		if doc.Paths == nil {
			doc.Paths = make(map[string]*openapi.PathItem, len(overlay.Paths))
		}
		for k, v := range overlay.Paths {
			doc.Paths[k] = v
		}
	}
	if overlay.Components != nil {
		if doc.Components == nil {
			doc.Components = &openapi.Components{}
		}
		mergeComponents(doc.Components, overlay.Components)
	}
}

func mergeComponents(dst, src *openapi.Components) {
	if src.Schemas != nil {
		if dst.Schemas == nil {
			dst.Schemas = make(map[string]*openapi.Schema, len(src.Schemas))
		}
		for k, v := range src.Schemas {
			dst.Schemas[k] = v
		}
	}
	if src.Responses != nil {
		if dst.Responses == nil {
			dst.Responses = make(map[string]*openapi.Response, len(src.Responses))
		}
		for k, v := range src.Responses {
			dst.Responses[k] = v
		}
	}
	if src.Parameters != nil {
		if dst.Parameters == nil {
			dst.Parameters = make(map[string]*openapi.Parameter, len(src.Parameters))
		}
		for k, v := range src.Parameters {
			dst.Parameters[k] = v
		}
	}
	if src.RequestBodies != nil {
		if dst.RequestBodies == nil {
			dst.RequestBodies = make(map[string]*openapi.RequestBody, len(src.RequestBodies))
		}
		for k, v := range src.RequestBodies {
			dst.RequestBodies[k] = v
		}
	}
	if src.Headers != nil {
		if dst.Headers == nil {
			dst.Headers = make(map[string]*openapi.Header, len(src.Headers))
		}
		for k, v := range src.Headers {
			dst.Headers[k] = v
		}
	}
	if src.SecuritySchemes != nil {
		if dst.SecuritySchemes == nil {
			dst.SecuritySchemes = make(map[string]*openapi.SecurityScheme, len(src.SecuritySchemes))
		}
		for k, v := range src.SecuritySchemes {
			dst.SecuritySchemes[k] = v
		}
	}
	if src.PathItems != nil {
		if dst.PathItems == nil {
			dst.PathItems = make(map[string]*openapi.PathItem, len(src.PathItems))
		}
		for k, v := range src.PathItems {
			dst.PathItems[k] = v
		}
	}
}
