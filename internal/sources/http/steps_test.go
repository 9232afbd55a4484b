package http

import (
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, server *httptest.Server, cfg Config) *Source {
	t.Helper()
	if cfg.BaseURL == "" {
		cfg.BaseURL = server.URL
	}

	source, err := NewSource(cfg, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return source
}

func TestNewSource_Validation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{
			name:        "missing base_url",
			cfg:         Config{},
			errContains: "base_url is required",
		},
		{
			name:        "unsupported scheme",
			cfg:         Config{BaseURL: "ftp://example.com"},
			errContains: "must use http or https",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.cfg)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}

func TestGetStep_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("limit"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "custom-value", r.Header.Get("X-Custom"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [1, 2, 3]}`))
	}))
	defer server.Close()

	source := newTestSource(t, server, Config{})

	step, err := NewGetStep(source, GetConfig{
		Path:    "/api/items",
		Headers: map[string]string{"X-Custom": "custom-value"},
		Params:  map[string]string{"limit": "42"},
	})
	require.NoError(t, err)

	result, err := step.Resolve(t.Context())
	require.NoError(t, err)

	expected := map[string]any{"items": []any{float64(1), float64(2), float64(3)}}
	assert.Equal(t, expected, result.Data)
}

func TestGetStep_Raw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text body"))
	}))
	defer server.Close()

	source := newTestSource(t, server, Config{})

	step, err := NewGetStep(source, GetConfig{Path: "/", ResponseType: "raw"})
	require.NoError(t, err)

	result, err := step.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "plain text body", result.Data)
}

func TestGetStep_GzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		_, _ = gw.Write([]byte(`{"compressed": true}`))
		_ = gw.Close()
	}))
	defer server.Close()

	source := newTestSource(t, server, Config{})

	step, err := NewGetStep(source, GetConfig{Path: "/"})
	require.NoError(t, err)

	result, err := step.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"compressed": true}, result.Data)
}

func TestGetStep_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	source := newTestSource(t, server, Config{
		Auth: &AuthConfig{Basic: &BasicAuthConfig{Username: "admin", Password: "secret"}},
	})

	step, err := NewGetStep(source, GetConfig{Path: "/"})
	require.NoError(t, err)

	_, err = step.Resolve(t.Context())
	require.NoError(t, err)
}

func TestGetStep_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	source := newTestSource(t, server, Config{})

	step, err := NewGetStep(source, GetConfig{Path: "/missing"})
	require.NoError(t, err)

	_, err = step.Resolve(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 404")
}

func TestGetStep_UnknownResponseType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	source := newTestSource(t, server, Config{})

	step, err := NewGetStep(source, GetConfig{Path: "/", ResponseType: "xml"})
	require.NoError(t, err)

	_, err = step.Resolve(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown response_type: xml")
}
