package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/httpapi"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h := httpapi.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpapi.RequestIDFromContext(r.Context())
	}))

	t.Run("keeps valid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(httpapi.RequestIDHeader, "abc_123-XYZ")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc_123-XYZ", seen)
		assert.Equal(t, "abc_123-XYZ", rec.Header().Get(httpapi.RequestIDHeader))
	})

	for name, id := range map[string]string{
		"missing":   "",
		"spaces":    "a b",
		"injection": "id\r\nSet-Cookie: x",
		"too long":  strings.Repeat("a", 129),
	} {
		t.Run("replaces "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if id != "" {
				req.Header[httpapi.RequestIDHeader] = []string{id}
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, rec.Header().Get(httpapi.RequestIDHeader))
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, httpapi.RequestIDFromContext(t.Context()))
	assert.Equal(t, "x", httpapi.RequestIDFromContext(httpapi.WithRequestID(t.Context(), "x")))
}
