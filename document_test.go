package typedapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielCenteioFreitas/typedapi/openapi"
	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

func noopHandler(http.ResponseWriter, *http.Request) {}

func TestDocumentPaths(t *testing.T) {
	api := newTestAPI()
	api.Get("/items/:id", Route{
		Params: schema.Object(schema.Fields{
			"id": schema.Optional(schema.String()),
		}),
		Summary:     "Get an item",
		OperationID: "getItem",
		Tags:        []string{"items"},
	}, noopHandler)

	doc := api.Document(nil)

	t.Run("colon segments become brackets", func(t *testing.T) {
		require.Contains(t, doc.Paths, "/items/{id}")
		assert.NotContains(t, doc.Paths, "/items/:id")
	})

	t.Run("path parameter is always required", func(t *testing.T) {
		op := doc.Paths["/items/{id}"].Get
		require.NotNil(t, op)
		require.Len(t, op.Parameters, 1)
		assert.Equal(t, "id", op.Parameters[0].Name)
		assert.Equal(t, openapi.InPath, op.Parameters[0].In)
		assert.True(t, op.Parameters[0].Required)
	})

	t.Run("metadata carries over", func(t *testing.T) {
		op := doc.Paths["/items/{id}"].Get
		assert.Equal(t, "Get an item", op.Summary)
		assert.Equal(t, "getItem", op.OperationID)
		assert.Equal(t, []string{"items"}, op.Tags)
	})

	t.Run("methods share one path item", func(t *testing.T) {
		api.Delete("/items/:id", Route{}, noopHandler)
		doc := api.Document(nil)
		item := doc.Paths["/items/{id}"]
		assert.NotNil(t, item.Get)
		assert.NotNil(t, item.Delete)
	})

	t.Run("path prefix", func(t *testing.T) {
		doc := api.Document(&DocumentConfig{PathPrefix: "/api/v1"})
		assert.Contains(t, doc.Paths, "/api/v1/items/{id}")
	})
}

func TestDocumentIdempotence(t *testing.T) {
	api := newTestAPI()
	api.AddServer(openapi.Server{URL: "https://api.example.com"})
	api.AddTag(openapi.Tag{Name: "items"})
	api.Get("/items", Route{
		Query: schema.Object(schema.Fields{
			"limit":  schema.Optional(schema.Number().Int()),
			"search": schema.Optional(schema.String()),
		}),
		Responses: map[int]schema.Schema{
			http.StatusOK: schema.Array(schema.Object(schema.Fields{
				"id":   schema.String().UUID(),
				"name": schema.String(),
			})),
		},
	}, noopHandler)

	first, err := json.Marshal(api.Document(nil))
	require.NoError(t, err)
	second, err := json.Marshal(api.Document(nil))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestDocumentResponses(t *testing.T) {
	t.Run("bare 200 fallback when nothing is declared", func(t *testing.T) {
		api := newTestAPI()
		api.Get("/ping", Route{}, noopHandler)

		op := api.Document(nil).Paths["/ping"].Get
		require.Len(t, op.Responses, 1)
		require.Contains(t, op.Responses, "200")
		assert.Nil(t, op.Responses["200"].Content)
	})

	t.Run("any response source suppresses the fallback", func(t *testing.T) {
		api := newTestAPI()
		api.SetDefaultResponses(map[int]schema.Schema{
			http.StatusInternalServerError: schema.Object(schema.Fields{
				"message": schema.String(),
			}),
		})
		api.Get("/ping", Route{}, noopHandler)

		op := api.Document(nil).Paths["/ping"].Get
		require.Len(t, op.Responses, 1)
		assert.Contains(t, op.Responses, "500")
		assert.NotContains(t, op.Responses, "200")
	})

	t.Run("route schemas win over defaults per status", func(t *testing.T) {
		api := newTestAPI()
		api.SetDefaultResponses(map[int]schema.Schema{
			http.StatusOK:       schema.Object(schema.Fields{"generic": schema.Bool()}),
			http.StatusNotFound: schema.Object(schema.Fields{"message": schema.String()}),
		})
		api.Get("/items", Route{
			Responses: map[int]schema.Schema{
				http.StatusOK: schema.Object(schema.Fields{"items": schema.Array(schema.String())}),
			},
		}, noopHandler)

		op := api.Document(nil).Paths["/items"].Get
		require.Contains(t, op.Responses, "200")
		require.Contains(t, op.Responses, "404")

		ok := op.Responses["200"].Content["application/json"].Schema
		assert.Contains(t, ok.Properties, "items")
		assert.NotContains(t, ok.Properties, "generic")
	})
}

func TestDocumentRequestBodies(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		api := newTestAPI()
		api.Post("/users", Route{
			Body: schema.Object(schema.Fields{"name": schema.String()}),
		}, noopHandler)

		rb := api.Document(nil).Paths["/users"].Post.RequestBody
		require.NotNil(t, rb)
		assert.True(t, rb.Required)
		require.Contains(t, rb.Content, "application/json")
		assert.Contains(t, rb.Content["application/json"].Schema.Properties, "name")
	})

	t.Run("optional body is not required", func(t *testing.T) {
		api := newTestAPI()
		api.Post("/notes", Route{
			Body: schema.Optional(schema.Object(schema.Fields{"text": schema.String()})),
		}, noopHandler)

		rb := api.Document(nil).Paths["/notes"].Post.RequestBody
		require.NotNil(t, rb)
		assert.False(t, rb.Required)
	})

	t.Run("files merge body fields into multipart", func(t *testing.T) {
		api := newTestAPI()
		api.Post("/upload", Route{
			Files: map[string]FileField{
				"avatar": {Required: true, Description: "Profile image"},
				"banner": {},
			},
			Body: schema.Object(schema.Fields{
				"caption": schema.String().Min(1),
				"notes":   schema.Optional(schema.String()),
			}),
		}, noopHandler)

		rb := api.Document(nil).Paths["/upload"].Post.RequestBody
		require.NotNil(t, rb)
		require.Contains(t, rb.Content, "multipart/form-data")

		form := rb.Content["multipart/form-data"].Schema
		require.Len(t, form.Properties, 4)
		assert.Equal(t, openapi.TypeString("string"), form.Properties["avatar"].Type)
		assert.Equal(t, "binary", form.Properties["avatar"].Format)
		assert.Equal(t, "Profile image", form.Properties["avatar"].Description)
		assert.Contains(t, form.Properties, "caption")
		assert.Equal(t, []string{"avatar", "caption"}, form.Required)
	})
}

func TestDocumentOverlay(t *testing.T) {
	api := newTestAPI()
	api.AddServer(openapi.Server{URL: "https://api.example.com"})
	api.Get("/items", Route{}, noopHandler)

	overlay := &openapi.Document{
		JSONSchemaDialect: "https://json-schema.org/draft/2020-12/schema",
		Servers:           []openapi.Server{{URL: "https://override.example.com"}},
		Security:          []openapi.SecurityRequirement{{"bearerAuth": {}}},
		Components: &openapi.Components{
			SecuritySchemes: map[string]*openapi.SecurityScheme{
				"bearerAuth": {Type: "http", Scheme: "bearer"},
			},
		},
		Webhooks: map[string]*openapi.PathItem{
			"newItem": {Post: &openapi.Operation{Summary: "New item event"}},
		},
	}

	doc := api.Document(&DocumentConfig{Overlay: overlay})

	t.Run("scalar and list values replace", func(t *testing.T) {
		assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc.JSONSchemaDialect)
		require.Len(t, doc.Servers, 1)
		assert.Equal(t, "https://override.example.com", doc.Servers[0].URL)
		assert.Len(t, doc.Security, 1)
	})

	t.Run("map values merge by key", func(t *testing.T) {
		require.NotNil(t, doc.Components)
		assert.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
		assert.Contains(t, doc.Webhooks, "newItem")
		assert.Contains(t, doc.Paths, "/items")
	})
}

func TestContracts(t *testing.T) {
	api := newTestAPI()
	api.Get("/a", Route{}, noopHandler)
	api.Post("/b", Route{Hide: true}, noopHandler)

	contracts := api.Contracts()
	require.Len(t, contracts, 2)
	assert.Equal(t, http.MethodGet, contracts[0].Method)
	assert.Equal(t, "/a", contracts[0].Path)
	assert.True(t, contracts[1].Route.Hide)
}

func TestHandleDocs(t *testing.T) {
	r := chi.NewRouter()
	api := New(r, openapi.Info{Title: "Docs API", Version: "2.0.0"})
	api.Get("/items", Route{}, noopHandler)
	api.HandleDocs("/docs", nil)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])

	info := doc["info"].(map[string]any)
	assert.Equal(t, "Docs API", info["title"])
	assert.Contains(t, doc["paths"].(map[string]any), "/items")
}
