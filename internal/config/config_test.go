package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnvVars = []string{
	"CHAINS_LIST_URL",
	"POOLS_LIST_URL",
	"TOKENS_PAGE_URL",
	"ICONS_BASE_URL",
	"ICON_SIZE",
	"CHAINS_DIR",
	"PROTOCOLS_DIR",
	"TOKENS_DIR",
	"USER_AGENT",
	"REQUEST_TIMEOUT",
}

// clearEnv unsets every recognised variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		if old, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

// Run from an empty directory so a stray config.yaml is not picked up
func chdirTemp(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ChainsListURL", cfg.ChainsListURL, "https://api.llama.fi/v2/chains"},
		{"PoolsListURL", cfg.PoolsListURL, "https://yields.llama.fi/pools"},
		{"TokensPageURL", cfg.TokensPageURL, "https://swap.defillama.com/"},
		{"IconsBaseURL", cfg.IconsBaseURL, "https://icons.llamao.fi/icons"},
		{"ChainsDir", cfg.ChainsDir, "./chainPicturesWebp"},
		{"ProtocolsDir", cfg.ProtocolsDir, "./projectPictures"},
		{"TokensDir", cfg.TokensDir, "./tokenPictures"},
		{"UserAgent", cfg.UserAgent, DefaultUserAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if cfg.IconSize != 48 {
		t.Errorf("IconSize = %d, want 48", cfg.IconSize)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)

	envVars := map[string]string{
		"CHAINS_LIST_URL": "http://127.0.0.1:1/chains",
		"POOLS_LIST_URL":  "http://127.0.0.1:1/pools",
		"TOKENS_PAGE_URL": "http://127.0.0.1:1/",
		"ICONS_BASE_URL":  "http://127.0.0.1:1/icons",
		"ICON_SIZE":       "64",
		"CHAINS_DIR":      "/tmp/c",
		"PROTOCOLS_DIR":   "/tmp/p",
		"TOKENS_DIR":      "/tmp/t",
		"USER_AGENT":      "test-agent",
		"REQUEST_TIMEOUT": "15s",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ChainsListURL", cfg.ChainsListURL, "http://127.0.0.1:1/chains"},
		{"PoolsListURL", cfg.PoolsListURL, "http://127.0.0.1:1/pools"},
		{"TokensPageURL", cfg.TokensPageURL, "http://127.0.0.1:1/"},
		{"IconsBaseURL", cfg.IconsBaseURL, "http://127.0.0.1:1/icons"},
		{"ChainsDir", cfg.ChainsDir, "/tmp/c"},
		{"ProtocolsDir", cfg.ProtocolsDir, "/tmp/p"},
		{"TokensDir", cfg.TokensDir, "/tmp/t"},
		{"UserAgent", cfg.UserAgent, "test-agent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if cfg.IconSize != 64 {
		t.Errorf("IconSize = %d, want 64", cfg.IconSize)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", cfg.RequestTimeout)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)

	path := filepath.Join(t.TempDir(), "icons.yaml")
	content := "tokens_dir: ./tok\nicon_size: 32\nrequest_timeout: 1m\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() returned unexpected error: %v", err)
	}

	// environment still wins over the file
	t.Setenv("ICON_SIZE", "96")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.TokensDir != "./tok" {
		t.Errorf("TokensDir = %q, want %q", cfg.TokensDir, "./tok")
	}
	if cfg.IconSize != 96 {
		t.Errorf("IconSize = %d, want 96", cfg.IconSize)
	}
	if cfg.RequestTimeout != time.Minute {
		t.Errorf("RequestTimeout = %v, want 1m", cfg.RequestTimeout)
	}
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())

	if err := os.WriteFile("config.yaml", []byte("chains_dir: ./chains\n"), 0644); err != nil {
		t.Fatalf("WriteFile() returned unexpected error: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.ChainsDir != "./chains" {
		t.Errorf("ChainsDir = %q, want %q", cfg.ChainsDir, "./chains")
	}
}

func TestLoad_MalformedDefaultConfigFile(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())

	if err := os.WriteFile("config.yaml", []byte("chains_dir: [unclosed\n"), 0644); err != nil {
		t.Fatalf("WriteFile() returned unexpected error: %v", err)
	}

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() expected error for malformed config.yaml, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %q", err.Error())
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing config file, got nil")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    map[string]string
		wantErrText string
	}{
		{
			name:        "relative listing URL",
			setupEnv:    map[string]string{"CHAINS_LIST_URL": "/v2/chains"},
			wantErrText: "CHAINS_LIST_URL",
		},
		{
			name:        "icon size zero",
			setupEnv:    map[string]string{"ICON_SIZE": "0"},
			wantErrText: "ICON_SIZE",
		},
		{
			name:        "negative timeout",
			setupEnv:    map[string]string{"REQUEST_TIMEOUT": "-1s"},
			wantErrText: "REQUEST_TIMEOUT",
		},
		{
			name:        "blank directory",
			setupEnv:    map[string]string{"TOKENS_DIR": "  "},
			wantErrText: "TOKENS_DIR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			chdirTemp(t)

			for key, value := range tt.setupEnv {
				t.Setenv(key, value)
			}

			_, err := Load("")
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}

			if !strings.Contains(err.Error(), tt.wantErrText) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrText)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for empty config, got nil")
	}

	for _, key := range allEnvVars {
		if key == "USER_AGENT" || key == "REQUEST_TIMEOUT" {
			continue
		}
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Validate() error = %q, missing %s", err.Error(), key)
		}
	}
}
