package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"inventory-adapter/internal/apperr"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_url": "https://inventory.example.com",
		"group_items_timeout_seconds": 5,
		"otlp": { "traces": { "http_endpoint": "http://localhost:4318/v1/traces" } },
	}`), 0600))

	config, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://inventory.example.com", config.BaseURL)
	require.Equal(t, 5*time.Second, config.GroupItemsTimeout())
	require.Equal(t, 30*time.Second, config.ConnectTimeout())
	require.Equal(t, 60*time.Second, config.TotalTimeout())
	require.Equal(t, "inventoryapp", config.CallbackScheme)
	require.NotEmpty(t, config.LoginMarkers)
	require.Equal(t, "http://localhost:4318/v1/traces", config.Otlp.Traces.HttpEndpoint)
	require.NoError(t, config.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, Default(), config)
}

func TestValidate(t *testing.T) {
	table := []struct {
		baseURL string
		valid   bool
	}{
		{baseURL: "https://inventory.example.com", valid: true},
		{baseURL: "http://localhost:5000", valid: true},
		{baseURL: ""},
		{baseURL: "inventory.example.com"},
		{baseURL: "ftp://inventory.example.com"},
		{baseURL: "://bad"},
	}

	for _, test := range table {
		config := Default()
		config.BaseURL = test.baseURL
		err := config.Validate()
		if test.valid {
			require.NoError(t, err, test.baseURL)
			continue
		}
		require.ErrorIs(t, err, apperr.ErrInvalidURL, test.baseURL)
	}
}
