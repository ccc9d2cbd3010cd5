package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEdge(t *testing.T) {
	body := strings.Repeat("pedigree ", 512)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})

	handler, err := Edge(EdgeConfig{
		AllowedOrigins: []string{"https://traba.example"},
		Compress:       true,
	}, next)
	require.NoError(t, err)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/pedigree.v1.PedigreeService/ListIndividuals", nil)
		r.Header.Set("Origin", "https://traba.example")
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		r.Header.Set("Access-Control-Request-Headers", "authorization")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, "https://traba.example", w.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("cross-site post from untrusted origin is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pedigree.v1.PedigreeService/CreateIndividual", strings.NewReader("{}"))
		r.Header.Set("Origin", "https://evil.example")
		r.Header.Set("Sec-Fetch-Site", "cross-site")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cross-site post from trusted origin passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pedigree.v1.PedigreeService/CreateIndividual", strings.NewReader("{}"))
		r.Header.Set("Origin", "https://traba.example")
		r.Header.Set("Sec-Fetch-Site", "cross-site")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("compresses large responses", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/pedigree.v1.PedigreeService/ListReferenceData", nil)
		r.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
		require.Less(t, w.Body.Len(), len(body))
	})
}

func TestEdge_invalidOrigin(t *testing.T) {
	_, err := Edge(EdgeConfig{AllowedOrigins: []string{"not a url"}}, http.NotFoundHandler())
	require.Error(t, err)
}
