package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SintaW245/unsplash-gallery/internal/gallery"
	"github.com/SintaW245/unsplash-gallery/internal/history"
	"github.com/SintaW245/unsplash-gallery/internal/query"
	"github.com/SintaW245/unsplash-gallery/internal/session"
	"github.com/SintaW245/unsplash-gallery/internal/suggest"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/photos" && r.URL.Query().Get("query") == "forbidden":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
		case r.URL.Path == "/search/photos":
			w.Write([]byte(`{"total": 1, "total_pages": 1, "results": [{"id": "p1", "likes": 5, "user": {"name": "Ann"}}]}`))
		case r.URL.Path == "/photos/p1":
			w.Write([]byte(`{"id": "p1", "exif": {"iso": 200}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	client := unsplash.NewClient("key", upstream.URL, unsplash.WithTimeout(2*time.Second))
	svc := gallery.NewService(client, query.NewValidator(), history.New(session.NewMemoryStore(0, time.Hour)), suggest.Default())
	return newRouter(svc, false)
}

func do(t *testing.T, h http.Handler, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestServer_SearchAndHistory(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/search?q=ocean&per_page=5&color=teal")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var page gallery.SearchPage
	decode(t, rec, &page)
	assert.Equal(t, "ocean", page.Query)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Untitled", page.Items[0].Description)
	assert.Equal(t, 5, page.Pagination.PerPage)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)

	rec = do(t, h, http.MethodGet, "/api/search?q=ocean", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "existing session is reused")

	rec = do(t, h, http.MethodGet, "/api/history", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist struct {
		History history.Log `json:"history"`
	}
	decode(t, rec, &hist)
	assert.Equal(t, []string{"ocean"}, hist.History.Queries())

	rec = do(t, h, http.MethodDelete, "/api/history", cookies...)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/history", cookies...)
	decode(t, rec, &hist)
	assert.Empty(t, hist.History)
}

func TestServer_ValidationError(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/search?q=a")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]errorBody
	decode(t, rec, &body)
	assert.Equal(t, "too_short", body["error"].Kind)

	rec = do(t, h, http.MethodGet, "/api/search?q=ocean&orientation=round")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, "invalid_option", body["error"].Kind)
}

func TestServer_UpstreamError(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/search?q=forbidden")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]errorBody
	decode(t, rec, &body)
	assert.Equal(t, "upstream_error", body["error"].Kind)
	assert.Equal(t, http.StatusForbidden, body["error"].Status)
	assert.Equal(t, []string{"OAuth error: The access token is invalid"}, body["error"].Messages)

	rec = do(t, h, http.MethodGet, "/api/photos/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Photo(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/photos/p1")
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	decode(t, rec, &raw)
	exif, ok := raw["exif"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(200), exif["iso"])
	assert.NotContains(t, exif, "make", "absent exif fields are omitted")
}

func TestServer_SuggestAndPopular(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/suggest?q=mount")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	decode(t, rec, &body)
	assert.Contains(t, body["suggestions"], "mountains")

	rec = do(t, h, http.MethodGet, "/api/popular")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []suggest.PopularGroup
	decode(t, rec, &groups)
	assert.NotEmpty(t, groups)
}

func TestServer_BrotliResponse(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/popular", nil)
	req.Header.Set("Accept-Encoding", "br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
}

func TestServer_NotFoundAndMetrics(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
