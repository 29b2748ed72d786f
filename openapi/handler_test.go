package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *Document {
	return &Document{
		OpenAPI: "3.1.0",
		Info:    Info{Title: "Test API", Version: "1.0.0"},
	}
}

func TestHandleEndpoints(t *testing.T) {
	r := chi.NewRouter()
	builds := 0
	Handle(r, "/docs", func() *Document {
		builds++
		return testDocument()
	}, nil)

	t.Run("json endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "3.1.0", doc["openapi"])
	})

	t.Run("yaml endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "openapi: 3.1.0")
	})

	t.Run("docs ui", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "swagger-ui")
		assert.Contains(t, rec.Body.String(), "/docs/openapi.json")
		assert.Contains(t, rec.Body.String(), "Test API")
	})

	t.Run("document built once", func(t *testing.T) {
		assert.Equal(t, 1, builds)
	})
}

func TestHandleConfig(t *testing.T) {
	t.Run("absolute json path", func(t *testing.T) {
		r := chi.NewRouter()
		Handle(r, "/docs", testDocument, &HandleConfig{
			JSONFilename: "/api/v1/openapi.json",
			YAMLFilename: "-",
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/", nil))
		assert.Contains(t, rec.Body.String(), "/api/v1/openapi.json")
	})

	t.Run("disabled docs ui", func(t *testing.T) {
		r := chi.NewRouter()
		Handle(r, "/docs", testDocument, &HandleConfig{DisableDocs: true})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("redoc ui", func(t *testing.T) {
		r := chi.NewRouter()
		Handle(r, "/docs", testDocument, &HandleConfig{UI: DocsRedoc})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/", nil))
		assert.Contains(t, rec.Body.String(), "redoc")
	})
}
