package config

import (
	"errors"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPrompt     = "blisp> "
	DefaultLogLevel   = "info"
	DefaultProgramTTL = 5 * time.Minute
	DefaultHistoryCap = 500
	DefaultSSHAddress = "localhost:2222"
)

type History struct {
	Dir   string `yaml:"dir"`   // empty keeps history in memory only
	Limit int    `yaml:"limit"` // number of lines restored into a new session
}

type Cache struct {
	ProgramTTL time.Duration `yaml:"programTTL"`
}

type RateLimiterConfig struct {
	Limit float64 `yaml:"limit"` // Evaluations per second
	Burst int     `yaml:"burst"` // Burst size
}

type SSH struct {
	Address        string            `yaml:"address"`
	HostKeyPath    string            `yaml:"hostKeyPath"`
	AuthorizedKeys []string          `yaml:"authorizedKeys"`
	RateLimit      RateLimiterConfig `yaml:"rateLimit"`
}

type Config struct {
	Prompt   string  `yaml:"prompt"`
	LogLevel string  `yaml:"logLevel"`
	History  History `yaml:"history"`
	Cache    Cache   `yaml:"cache"`
	SSH      SSH     `yaml:"ssh"`
}

var (
	ErrConfigFileUnreadable     = errors.New("config file is unreadable")
	ErrConfigFileUnmarshallable = errors.New("config file is unmarshallable")
	ErrPromptMissing            = errors.New("prompt is missing in config")
	ErrLogLevelInvalid          = errors.New("logLevel must be one of debug, info, warn, error")
	ErrHistoryLimitInvalid      = errors.New("history.limit must not be negative")
	ErrCacheProgramTTLInvalid   = errors.New("cache.programTTL must not be negative")
	ErrSSHAddressMissing        = errors.New("ssh.address is missing in config")
	ErrSSHHostKeyPathMissing    = errors.New("ssh.hostKeyPath is missing in config")
	ErrSSHRateLimitInvalid      = errors.New("ssh.rateLimit.limit and ssh.rateLimit.burst must not be negative")
	ErrSSHAuthorizedKeysMissing = errors.New("ssh.authorizedKeys must list at least one public key")
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns the configuration used when no file is given.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return &Config{
		Prompt:   DefaultPrompt,
		LogLevel: DefaultLogLevel,
		History: History{
			Limit: DefaultHistoryCap,
		},
		Cache: Cache{
			ProgramTTL: DefaultProgramTTL,
		},
		SSH: SSH{
			Address:     DefaultSSHAddress,
			HostKeyPath: home + "/.blisp/ssh_host_ed25519",
			RateLimit: RateLimiterConfig{
				Limit: 10,
				Burst: 20,
			},
		},
	}
}

// LoadConfig reads configFile over the defaults and validates the result.
func LoadConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrConfigFileUnreadable, err.Error())
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, pkgerrors.Wrap(ErrConfigFileUnmarshallable, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Prompt == "" {
		return ErrPromptMissing
	}
	if !validLogLevels[cfg.LogLevel] {
		return ErrLogLevelInvalid
	}
	if cfg.History.Limit < 0 {
		return ErrHistoryLimitInvalid
	}
	if cfg.Cache.ProgramTTL < 0 {
		return ErrCacheProgramTTLInvalid
	}
	if cfg.SSH.Address == "" {
		return ErrSSHAddressMissing
	}
	if cfg.SSH.HostKeyPath == "" {
		return ErrSSHHostKeyPathMissing
	}
	if cfg.SSH.RateLimit.Limit < 0 || cfg.SSH.RateLimit.Burst < 0 {
		return ErrSSHRateLimitInvalid
	}
	return nil
}

// ValidateServe applies the extra checks needed before serving over SSH.
func (cfg *Config) ValidateServe() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.SSH.AuthorizedKeys) == 0 {
		return ErrSSHAuthorizedKeysMissing
	}
	return nil
}
