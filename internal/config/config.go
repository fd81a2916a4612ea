package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultUserAgent is sent with every request; the listing hosts reject
// clients without a browser agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Config holds all configuration for the icon fetcher.
type Config struct {
	// Listing endpoints
	ChainsListURL string `mapstructure:"chains_list_url"`
	PoolsListURL  string `mapstructure:"pools_list_url"`
	TokensPageURL string `mapstructure:"tokens_page_url"`

	// Icon host for chains and protocols
	IconsBaseURL string `mapstructure:"icons_base_url"`
	IconSize     int    `mapstructure:"icon_size"`

	// Output directories; each must already exist
	ChainsDir    string `mapstructure:"chains_dir"`
	ProtocolsDir string `mapstructure:"protocols_dir"`
	TokensDir    string `mapstructure:"tokens_dir"`

	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over config file values. Every key has a
// default, so an empty environment yields a working configuration.
//
// Recognised environment variables:
//   - CHAINS_LIST_URL, POOLS_LIST_URL, TOKENS_PAGE_URL
//   - ICONS_BASE_URL, ICON_SIZE
//   - CHAINS_DIR, PROTOCOLS_DIR, TOKENS_DIR
//   - USER_AGENT, REQUEST_TIMEOUT (Go duration, 0 disables the timeout)
//
// configFile, when non-empty, replaces the search for config.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("chains_list_url", "https://api.llama.fi/v2/chains")
	v.SetDefault("pools_list_url", "https://yields.llama.fi/pools")
	v.SetDefault("tokens_page_url", "https://swap.defillama.com/")
	v.SetDefault("icons_base_url", "https://icons.llamao.fi/icons")
	v.SetDefault("icon_size", 48)
	v.SetDefault("chains_dir", "./chainPicturesWebp")
	v.SetDefault("protocols_dir", "./projectPictures")
	v.SetDefault("tokens_dir", "./tokenPictures")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("request_timeout", "0s")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.iconfetcher")

		// Read config file (ignore if not found)
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("chains_list_url", "CHAINS_LIST_URL")
	v.BindEnv("pools_list_url", "POOLS_LIST_URL")
	v.BindEnv("tokens_page_url", "TOKENS_PAGE_URL")
	v.BindEnv("icons_base_url", "ICONS_BASE_URL")
	v.BindEnv("icon_size", "ICON_SIZE")

	v.BindEnv("chains_dir", "CHAINS_DIR")
	v.BindEnv("protocols_dir", "PROTOCOLS_DIR")
	v.BindEnv("tokens_dir", "TOKENS_DIR")

	v.BindEnv("user_agent", "USER_AGENT")
	v.BindEnv("request_timeout", "REQUEST_TIMEOUT")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports every invalid key at once
func (c *Config) Validate() error {
	var invalid []string

	urls := []struct {
		env   string
		value string
	}{
		{"CHAINS_LIST_URL", c.ChainsListURL},
		{"POOLS_LIST_URL", c.PoolsListURL},
		{"TOKENS_PAGE_URL", c.TokensPageURL},
		{"ICONS_BASE_URL", c.IconsBaseURL},
	}
	for _, u := range urls {
		if !validURL(u.value) {
			invalid = append(invalid, u.env)
		}
	}

	dirs := []struct {
		env   string
		value string
	}{
		{"CHAINS_DIR", c.ChainsDir},
		{"PROTOCOLS_DIR", c.ProtocolsDir},
		{"TOKENS_DIR", c.TokensDir},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.value) == "" {
			invalid = append(invalid, d.env)
		}
	}

	if c.IconSize <= 0 {
		invalid = append(invalid, "ICON_SIZE")
	}
	if c.RequestTimeout < 0 {
		invalid = append(invalid, "REQUEST_TIMEOUT")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
