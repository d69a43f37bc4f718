package strict_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strictproc/strict-go/pkg/strict"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "client.toml", `
base_url = "https://api.example.com/"
api_key = "abc123"
timeout_seconds = 10.0
user_agent = "my-app/2.0"
`)

	cfg, err := strict.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/", cfg.BaseURL)
	assert.Equal(t, "abc123", cfg.APIKey)
	assert.Equal(t, 10.0, cfg.TimeoutSeconds)
	assert.Equal(t, "my-app/2.0", cfg.UserAgent)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "client.yaml", `
base_url: https://api.example.com
api_key: abc123
timeout_seconds: 5
`)

	cfg, err := strict.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 5.0, cfg.TimeoutSeconds)
}

func TestLoadConfig_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "client.ini", "base_url = x")

	_, err := strict.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadConfig_MissingBaseURL(t *testing.T) {
	path := writeFile(t, "client.toml", `api_key = "abc123"`)

	_, err := strict.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := strict.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestConfig_Client(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.Header.Get("X-API-Key"))
		assert.Equal(t, "my-app/2.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(successBody))
	}))
	defer ts.Close()

	cfg := &strict.Config{
		BaseURL:        ts.URL,
		APIKey:         "abc123",
		TimeoutSeconds: 10,
		UserAgent:      "my-app/2.0",
	}

	client := cfg.Client()
	_, err := client.ProcessRequest(context.Background(), processingRequest())
	require.NoError(t, err)
}
