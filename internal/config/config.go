// Package config loads cardlink settings from a YAML file and the
// environment. Flags applied by the commands override both.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults carried over from the original handheld app.
const (
	DefaultRelayURL      = "http://localhost:3000"
	DefaultAppIdentifier = "MVP_PWA_App_01"
	DefaultListenAddr    = ":3000"
	DefaultDBPath        = "cardlink-relay.db"
	DefaultLogLevel      = "info"

	minSealSecretLen = 16
)

// Config is the whole configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Client   Client `yaml:"client"`
	Server   Server `yaml:"server"`
}

// Client configures the handheld CLI.
type Client struct {
	RelayURL      string        `yaml:"relay_url"`
	AppIdentifier string        `yaml:"app_identifier"`
	Timeout       time.Duration `yaml:"timeout"` // 0 disables the client deadline
	CardFile      string        `yaml:"card_file"`
}

// Server configures the development relay.
type Server struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	SealSecret string `yaml:"seal_secret"`
}

func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Client: Client{
			RelayURL:      DefaultRelayURL,
			AppIdentifier: DefaultAppIdentifier,
		},
		Server: Server{
			ListenAddr: DefaultListenAddr,
			DBPath:     DefaultDBPath,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, errors.Wrap(err, "read config")
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = envStr("CARDLINK_LOG_LEVEL", c.LogLevel)
	c.Client.RelayURL = envStr("CARDLINK_RELAY_URL", c.Client.RelayURL)
	c.Client.AppIdentifier = envStr("CARDLINK_APP_ID", c.Client.AppIdentifier)
	c.Client.CardFile = envStr("CARDLINK_CARD_FILE", c.Client.CardFile)
	c.Server.ListenAddr = envStr("CARDLINK_LISTEN", c.Server.ListenAddr)
	c.Server.DBPath = envStr("CARDLINK_DB_PATH", c.Server.DBPath)
	c.Server.SealSecret = envStr("CARDLINK_SEAL_SECRET", c.Server.SealSecret)
	if v := os.Getenv("CARDLINK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "CARDLINK_TIMEOUT")
		}
		c.Client.Timeout = d
	}
	return nil
}

// ValidateClient checks the settings the handheld needs.
func (c *Config) ValidateClient() error {
	u, err := url.Parse(c.Client.RelayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("relay_url must be an http(s) URL, got %q", c.Client.RelayURL)
	}
	if strings.TrimSpace(c.Client.AppIdentifier) == "" {
		return errors.New("app_identifier must not be empty")
	}
	if c.Client.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %s", c.Client.Timeout)
	}
	return nil
}

// ValidateServer checks the settings the relay server needs.
func (c *Config) ValidateServer() error {
	if c.Server.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.Server.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if len(c.Server.SealSecret) < minSealSecretLen {
		return errors.Errorf("seal_secret must be at least %d bytes", minSealSecretLen)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
