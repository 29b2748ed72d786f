package openapi

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

// DocsUI selects which interactive documentation UI to serve.
// The UI renders the OpenAPI Document as interactive HTML documentation.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// HandleConfig configures the endpoints registered by Handle.
// JSON and YAML endpoints serve the serialized OpenAPI Document.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: document info.title).
	Title string

	// JSONFilename is the path for the JSON document endpoint
	// (default: "openapi.json"). Set to "-" to disable.
	//
	// Relative paths are joined with the base path:
	//
	//	"openapi.json"      -> <basePath>/openapi.json
	//	"data/openapi.json" -> <basePath>/data/openapi.json
	//
	// Absolute paths (starting with "/") are used as-is:
	//
	//	"/api/v1/openapi.json" -> /api/v1/openapi.json
	JSONFilename string

	// YAMLFilename is the path for the YAML document endpoint
	// (default: "openapi.yaml"). Set to "-" to disable.
	// Follows the same absolute/relative rules as JSONFilename.
	YAMLFilename string

	// DisableDocs disables the interactive HTML docs UI endpoint.
	DisableDocs bool

	// SwaggerUIConfig provides additional SwaggerUIBundle configuration options.
	// These are rendered as JavaScript object properties alongside the url and
	// dom_id defaults. For example, {"docExpansion": "none"} produces:
	//
	//	SwaggerUIBundle({url: "...", dom_id: "#swagger-ui", "docExpansion": "none"});
	//
	// Only used when UI is DocsSwaggerUI (the default).
	//
	// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
	SwaggerUIConfig map[string]any
}

// jsonFilename returns the configured JSON filename, defaulting to "openapi.json".
func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "openapi.json"
	}
	return cfg.JSONFilename
}

// yamlFilename returns the configured YAML filename, defaulting to "openapi.yaml".
func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "openapi.yaml"
	}
	return cfg.YAMLFilename
}

// resolvePath returns the full route path for a filename.
// Absolute filenames (starting with "/") are returned as-is.
// Relative filenames are joined under basePath.
func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	if basePath == "" {
		return "/" + filename
	}
	return basePath + "/" + filename
}

// docBuilder assembles the document once, on first use, and caches both
// the document and any panic raised during assembly.
type docBuilder struct {
	build func() *Document

	once sync.Once
	doc  *Document
	err  error
}

func (b *docBuilder) get() (*Document, error) {
	b.once.Do(func() {
		defer func() {
			if rv := recover(); rv != nil {
				b.err = fmt.Errorf("%v", rv)
			}
		}()
		b.doc = b.build()
	})
	return b.doc, b.err
}

// Handle registers OpenAPI endpoints under the given base path on the router.
// The build function assembles the document; it runs once, on first request,
// and the result is cached. The base path is normalized (trailing slash
// stripped). Depending on config, the following routes are registered:
//
//	<basePath>/            - interactive HTML docs (unless DisableDocs)
//	<JSONFilename path>    - document as JSON      (unless JSONFilename is "-")
//	<YAMLFilename path>    - document as YAML      (unless YAMLFilename is "-")
//
// The config parameter is optional; pass nil for defaults:
//
//	openapi.Handle(r, "/docs", buildDoc, nil)
//
// Filenames are relative to basePath by default. Use an absolute path
// (starting with "/") to serve the document at an independent location:
//
//	openapi.Handle(r, "/docs", buildDoc, &HandleConfig{
//	    JSONFilename: "/api/v1/openapi.json",
//	    YAMLFilename: "-",
//	})
//	// /docs/                 -> docs UI pointing to /api/v1/openapi.json
//	// /api/v1/openapi.json   -> JSON document
//
// Both <basePath> and <basePath>/ serve the docs UI.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
func Handle(r chi.Router, basePath string, build func() *Document, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	basePath = strings.TrimRight(basePath, "/")

	builder := &docBuilder{build: build}

	jsonFile := cfg.jsonFilename()
	yamlFile := cfg.yamlFilename()

	var jsonPath, yamlPath string

	if jsonFile != "-" {
		jsonPath = resolvePath(basePath, jsonFile)
		registerJSON(r, jsonPath, builder)
	}

	if yamlFile != "-" {
		yamlPath = resolvePath(basePath, yamlFile)
		registerYAML(r, yamlPath, builder)
	}

	if !cfg.DisableDocs {
		// The docs UI references the JSON or YAML document path.
		specURL := jsonPath
		if specURL == "" {
			specURL = yamlPath
		}

		// Skip docs registration when no document endpoint is available.
		if specURL != "" {
			registerDocs(r, basePath, cfg, specURL, builder)
		}
	}
}

// registerJSON registers a handler that serves the OpenAPI Document as JSON.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
func registerJSON(r chi.Router, path string, builder *docBuilder) {
	var (
		once sync.Once
		data []byte
		err  error
	)
	r.Get(path, func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			var doc *Document
			doc, err = builder.get()
			if err != nil {
				return
			}
			data, err = json.MarshalIndent(doc, "", "  ")
		})
		if err != nil {
			http.Error(w, "failed to serialize OpenAPI document as JSON", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// registerYAML registers a handler that serves the OpenAPI Document as YAML.
//
// See: https://spec.openapis.org/oas/v3.1.0#openapi-document
func registerYAML(r chi.Router, path string, builder *docBuilder) {
	var (
		once sync.Once
		data []byte
		err  error
	)
	r.Get(path, func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			var doc *Document
			doc, err = builder.get()
			if err != nil {
				return
			}
			data, err = yaml.Marshal(doc)
		})
		if err != nil {
			http.Error(w, "failed to serialize OpenAPI document as YAML", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// registerDocs registers a handler that serves the interactive HTML documentation UI.
func registerDocs(r chi.Router, basePath string, cfg *HandleConfig, specURL string, builder *docBuilder) {
	var (
		once sync.Once
		data []byte
	)
	handler := func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			title := cfg.Title
			if title == "" {
				if doc, err := builder.get(); err == nil && doc != nil {
					title = doc.Info.Title
				}
			}

			var page string
			switch cfg.UI {
			case DocsRapiDoc:
				page = rapidocTemplate(title, specURL)
			case DocsRedoc:
				page = redocTemplate(title, specURL)
			default:
				page = swaggerUITemplate(title, specURL, cfg.SwaggerUIConfig)
			}
			data = []byte(page)
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
	if basePath == "" {
		// Root base path: register only "/" to avoid empty path "".
		r.Get("/", handler)
	} else {
		r.Get(basePath, handler)
		r.Get(basePath+"/", handler)
	}
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra string
	if len(config) > 0 {
		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf strings.Builder
		for _, k := range keys {
			v, err := json.Marshal(config[k])
			if err != nil {
				continue
			}
			fmt.Fprintf(&buf, ", %s: %s", k, v)
		}
		extra = buf.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra)
}

func rapidocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q></rapi-doc>
</body>
</html>`, html.EscapeString(title), specPath)
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
