package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/pkg/configutil"
)

const FileName = "inventory.json5"

type Config struct {
	BaseURL        string `json:"base_url"`
	CallbackScheme string `json:"callback_scheme"`
	UserAgent      string `json:"user_agent"`

	ConnectTimeoutSeconds    int `json:"connect_timeout_seconds"`
	TotalTimeoutSeconds      int `json:"total_timeout_seconds"`
	GroupItemsTimeoutSeconds int `json:"group_items_timeout_seconds"`

	// RequestsPerSecond <= 0 disables client side rate limiting.
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`

	// SessionDB is the sqlite file the cli keeps its login in.
	SessionDB    string   `json:"session_db"`
	LoginMarkers []string `json:"login_markers"`
	// Timezone decides what "today" is for date defaults, "" is the local zone.
	Timezone string `json:"timezone"`

	Otlp telemetry.OtlpConfig `json:"otlp"`
}

func Default() Config {
	return Config{
		CallbackScheme:           "inventoryapp",
		UserAgent:                "InventoryAdapter/1.0 (+https://github.com/inventory-adapter)",
		ConnectTimeoutSeconds:    30,
		TotalTimeoutSeconds:      60,
		GroupItemsTimeoutSeconds: 15,
		SessionDB:                "session.db",
		LoginMarkers: []string{
			"<title>Login",
			`class="login-form"`,
			`id="login-form"`,
			`action="/login"`,
		},
	}
}

func (c Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

func (c Config) TotalTimeout() time.Duration {
	return time.Duration(c.TotalTimeoutSeconds) * time.Second
}

func (c Config) GroupItemsTimeout() time.Duration {
	return time.Duration(c.GroupItemsTimeoutSeconds) * time.Second
}

// Validate checks the fields that have no usable default.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url is not set", apperr.ErrInvalidURL)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidURL, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidURL, c.BaseURL)
	}
	return nil
}

// Load reads the configuration at path, or searches up from the working
// directory for FileName when path is empty. Anything the file leaves unset
// keeps its default, and a missing file is not an error.
func Load(path string) (Config, error) {
	var (
		file Config
		err  error
	)
	if path == "" {
		file, err = configutil.ReadRecursively[Config](FileName)
	} else {
		file, err = configutil.ReadConfig[Config](path)
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Merge(Default(), file)
}

// Merge lays the non zero fields of override over base.
func Merge(base, override Config) (Config, error) {
	if err := configutil.Merge(&base, override); err != nil {
		return Config{}, err
	}
	return base, nil
}
