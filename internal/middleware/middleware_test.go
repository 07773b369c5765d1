package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeoDefaultsToUS(t *testing.T) {
	var got string
	h := Geo("CF-IPCountry")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = Country(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "US", got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-IPCountry", "de")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "de", got, "country is passed through without normalisation")
}

func TestGeoCustomHeader(t *testing.T) {
	var got string
	h := Geo("X-Country")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = Country(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Country", "JP")
	req.Header.Set("CF-IPCountry", "BR")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "JP", got)
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", "en-US"},
		{"pt-BR,pt;q=0.9", "pt-BR"},
		{" fr-CH , fr;q=0.9", "fr-CH"},
		{",de", "en-US"},
	}
	for _, tc := range cases {
		var got string
		h := ResolveLocale(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = Locale(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Accept-Language", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, tc.want, got, tc.header)
		require.Equal(t, tc.want, rec.Header().Get("Content-Language"))
	}
}

func TestVaryAddsRequestHeaders(t *testing.T) {
	h := Vary("CF-IPCountry")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"Accept-Language", "CF-IPCountry"}, rec.Header().Values("Vary"))
}

func TestHTMXFlag(t *testing.T) {
	var is bool
	h := HTMX(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		is = IsHTMX(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/gallery/hero", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, is)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gallery/hero", nil))
	require.False(t, is)
}

func TestAssetsWithCacheETag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))

	h := http.StripPrefix("/assets", AssetsWithCache(dir, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}
