package typedapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielCenteioFreitas/typedapi/openapi"
	"github.com/GabrielCenteioFreitas/typedapi/schema"
)

func newTestAPI() *API {
	return New(chi.NewRouter(), openapi.Info{Title: "Test API", Version: "1.0.0"})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBodyValidation(t *testing.T) {
	api := newTestAPI()
	calls := 0
	api.Post("/users", Route{
		Body: schema.Object(schema.Fields{
			"name":  schema.String().Min(1),
			"email": schema.String().Email(),
		}),
	}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("invalid body never reaches the handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":""}`))
		api.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, calls)

		body := decodeError(t, rec)
		assert.Equal(t, "invalid request body", body.Message)
		assert.Contains(t, body.Errors, "name")
		assert.Contains(t, body.Errors, "email")
	})

	t.Run("malformed json is a body failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{not json`))
		api.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("valid body invokes the handler exactly once", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Alice","email":"alice@example.com"}`))
		api.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, calls)
	})
}

func TestSegmentCoercion(t *testing.T) {
	api := newTestAPI()

	var gotParams, gotQuery, gotHeaders, gotBody any
	api.Post("/items/:id", Route{
		Params: schema.Object(schema.Fields{
			"id": schema.Number().Int(),
		}),
		Query: schema.Object(schema.Fields{
			"limit": schema.Default(schema.Number().Int(), float64(20)),
			"dry":   schema.Optional(schema.Bool()),
		}),
		Headers: schema.Object(schema.Fields{
			"x-tenant": schema.String().Min(1),
		}),
		Body: schema.Object(schema.Fields{
			"amount": schema.Transform(schema.Number(), func(_ context.Context, v any) (any, error) {
				return v.(float64) * 2, nil
			}),
		}),
	}, func(w http.ResponseWriter, r *http.Request) {
		gotParams = Params(r)
		gotQuery = Query(r)
		gotHeaders = Headers(r)
		gotBody = Body(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items/42?dry=true", strings.NewReader(`{"amount":3}`))
	req.Header.Set("X-Tenant", "acme")
	api.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("path params coerce", func(t *testing.T) {
		assert.Equal(t, float64(42), gotParams.(map[string]any)["id"])
	})

	t.Run("query defaults and coerces", func(t *testing.T) {
		q := gotQuery.(map[string]any)
		assert.Equal(t, float64(20), q["limit"])
		assert.Equal(t, true, q["dry"])
	})

	t.Run("headers are lowercased", func(t *testing.T) {
		assert.Equal(t, "acme", gotHeaders.(map[string]any)["x-tenant"])
	})

	t.Run("transforms are visible downstream", func(t *testing.T) {
		assert.Equal(t, float64(6), gotBody.(map[string]any)["amount"])
	})
}

func TestSegmentFailures(t *testing.T) {
	api := newTestAPI()
	api.Get("/items/:id", Route{
		Params: schema.Object(schema.Fields{
			"id": schema.Number().Int(),
		}),
		Query: schema.Object(schema.Fields{
			"limit": schema.Number().Int(),
		}),
	}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("bad query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/1?limit=abc", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid query parameters", decodeError(t, rec).Message)
	})

	t.Run("bad path param", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc?limit=1", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid path parameters", decodeError(t, rec).Message)
	})
}

func TestResponseInterception(t *testing.T) {
	success := schema.Object(schema.Fields{
		"success": schema.Bool(),
	})

	t.Run("conforming body passes through", func(t *testing.T) {
		api := newTestAPI()
		api.Get("/ok", Route{
			Responses: map[int]schema.Schema{http.StatusOK: success},
		}, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true}`))
		})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})

	t.Run("breaching body is suppressed", func(t *testing.T) {
		api := newTestAPI()
		api.Get("/bad", Route{
			Responses: map[int]schema.Schema{http.StatusOK: success},
		}, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":"yes"}`))
		})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "yes")
		assert.Equal(t, "internal server error", decodeError(t, rec).Message)
	})

	t.Run("undeclared status passes through unchecked", func(t *testing.T) {
		api := newTestAPI()
		api.Get("/other", Route{
			Responses: map[int]schema.Schema{http.StatusOK: success},
		}, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"foo":1}`))
		})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"foo":1}`, rec.Body.String())
	})

	t.Run("status without body forwards the header", func(t *testing.T) {
		api := newTestAPI()
		api.Delete("/gone", Route{
			Responses: map[int]schema.Schema{http.StatusNoContent: schema.Null()},
		}, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/gone", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestFileChecks(t *testing.T) {
	api := newTestAPI()
	api.Post("/upload", Route{
		Files: map[string]FileField{
			"avatar": {Required: true},
			"extras": {MaxCount: 1},
		},
	}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	multipartRequest := func(t *testing.T, files map[string][]string) *http.Request {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for field, names := range files {
			for _, name := range names {
				fw, err := mw.CreateFormFile(field, name)
				require.NoError(t, err)
				_, err = fw.Write([]byte("data"))
				require.NoError(t, err)
			}
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("missing required file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, multipartRequest(t, map[string][]string{
			"extras": {"a.txt"},
		}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "invalid file upload", body.Message)
		assert.Contains(t, body.Errors, "avatar")
	})

	t.Run("too many files", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, multipartRequest(t, map[string][]string{
			"avatar": {"a.png"},
			"extras": {"a.txt", "b.txt"},
		}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Errors, "extras")
	})

	t.Run("all declared files present", func(t *testing.T) {
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, multipartRequest(t, map[string][]string{
			"avatar": {"a.png"},
		}))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("malformed multipart payload is a parse failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not a form"))
		req.Header.Set("Content-Type", "multipart/form-data")

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "invalid file upload", body.Message)
		assert.NotContains(t, body.Errors, "avatar")
	})
}

func TestMalformedMultipartBody(t *testing.T) {
	api := newTestAPI()
	calls := 0
	api.Post("/notes", Route{
		Body: schema.Object(schema.Fields{
			"text": schema.String(),
		}),
	}, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("--broken--"))
	req.Header.Set("Content-Type", "multipart/form-data")

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, calls)
	assert.Equal(t, "invalid request body", decodeError(t, rec).Message)
}

func TestMultipartBodyValues(t *testing.T) {
	api := newTestAPI()
	var gotBody any
	api.Post("/upload", Route{
		Files: map[string]FileField{
			"doc": {Required: true},
		},
		Body: schema.Object(schema.Fields{
			"title": schema.String().Min(1),
		}),
	}, func(w http.ResponseWriter, r *http.Request) {
		gotBody = Body(r)
		w.WriteHeader(http.StatusNoContent)
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("doc", "report.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("title", "Q3 report"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Q3 report", gotBody.(map[string]any)["title"])
}

func TestErrorHandlerPrecedence(t *testing.T) {
	badBody := Route{
		Body: schema.Object(schema.Fields{"n": schema.Number()}),
	}

	t.Run("api-level handler overrides the default", func(t *testing.T) {
		api := newTestAPI()
		api.SetErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			w.WriteHeader(http.StatusUnprocessableEntity)
		})
		api.Post("/a", badBody, func(http.ResponseWriter, *http.Request) {})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/a", strings.NewReader(`{"n":"x"}`)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("per-route handler overrides the api-level one", func(t *testing.T) {
		api := newTestAPI()
		api.SetErrorHandler(func(w http.ResponseWriter, _ *http.Request, _ error) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})

		route := badBody
		route.OnError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			w.WriteHeader(http.StatusTeapot)
		}
		api.Post("/b", route, func(http.ResponseWriter, *http.Request) {})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/b", strings.NewReader(`{"n":"x"}`)))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("response errors reach the handler chain", func(t *testing.T) {
		api := newTestAPI()
		var got *ResponseError
		api.SetErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			_ = json.NewEncoder(w).Encode(map[string]string{"handled": "yes"})
			var respErr *ResponseError
			if assert.ErrorAs(t, err, &respErr) {
				got = respErr
			}
		})
		api.Get("/c", Route{
			Responses: map[int]schema.Schema{
				http.StatusOK: schema.Object(schema.Fields{"ok": schema.Bool()}),
			},
		}, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ok":"nope"}`))
		})

		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/c", nil))

		require.NotNil(t, got)
		assert.Equal(t, http.StatusOK, got.Status)
		assert.NotEmpty(t, got.Issues)
	})
}

func TestHiddenRouteStillValidates(t *testing.T) {
	api := newTestAPI()
	api.Post("/internal", Route{
		Hide: true,
		Body: schema.Object(schema.Fields{"key": schema.String()}),
	}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	doc := api.Document(nil)
	assert.NotContains(t, doc.Paths, "/internal")
}
