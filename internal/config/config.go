package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/Dallionking/talenthub/internal/application"
)

// Config is the talenthub.{yaml,json} schema.
type Config struct {
	DataDir    string           `json:"dataDir" yaml:"dataDir" mapstructure:"dataDir"`
	Draft      DraftConfig      `json:"draft" yaml:"draft" mapstructure:"draft"`
	Uploads    UploadsConfig    `json:"uploads" yaml:"uploads" mapstructure:"uploads"`
	Submission SubmissionConfig `json:"submission" yaml:"submission" mapstructure:"submission"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`

	// Source is the config file that was read, empty when running on
	// defaults and environment only.
	Source string `json:"-" yaml:"-" mapstructure:"-"`
}

// DraftConfig controls where the autosaved draft lives.
type DraftConfig struct {
	Dir        string `json:"dir" yaml:"dir" mapstructure:"dir"`
	QuotaBytes int64  `json:"quotaBytes" yaml:"quotaBytes" mapstructure:"quotaBytes"`
}

// UploadsConfig bounds attached documents.
type UploadsConfig struct {
	MaxBytes          int64    `json:"maxBytes" yaml:"maxBytes" mapstructure:"maxBytes"`
	AllowedTypes      []string `json:"allowedTypes" yaml:"allowedTypes" mapstructure:"allowedTypes"`
	AllowedExtensions []string `json:"allowedExtensions" yaml:"allowedExtensions" mapstructure:"allowedExtensions"`
}

// SubmissionConfig tunes the stub submitter and the outbox.
type SubmissionConfig struct {
	Delay      time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
	ResetDelay time.Duration `json:"resetDelay" yaml:"resetDelay" mapstructure:"resetDelay"`
	OutboxDir  string        `json:"outboxDir" yaml:"outboxDir" mapstructure:"outboxDir"`
}

// LogConfig configures the log file.
type LogConfig struct {
	File  string `json:"file" yaml:"file" mapstructure:"file"`
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
}

// EnvPrefix is prepended to every environment override, e.g.
// TALENTHUB_UPLOADS_MAXBYTES.
const EnvPrefix = "TALENTHUB"

// DefaultDataDir returns ~/.talenthub, or .talenthub when the home directory
// cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".talenthub"
	}
	return filepath.Join(home, ".talenthub")
}

func setDefaults(v *viper.Viper) {
	policy := application.DefaultUploadPolicy()

	v.SetDefault("dataDir", DefaultDataDir())
	v.SetDefault("draft.dir", "")
	v.SetDefault("draft.quotaBytes", int64(5*1024*1024))
	v.SetDefault("uploads.maxBytes", policy.MaxBytes)
	v.SetDefault("uploads.allowedTypes", policy.AllowedTypes)
	v.SetDefault("uploads.allowedExtensions", policy.AllowedExtensions)
	v.SetDefault("submission.delay", "2s")
	v.SetDefault("submission.resetDelay", "3s")
	v.SetDefault("submission.outboxDir", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		// Defaults are static; a decode failure is a programming error.
		panic(fmt.Sprintf("decoding default config: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	return &cfg, nil
}

// Load reads the config file and applies TALENTHUB_* environment overrides
// on top of the defaults. An explicit cfgFile must exist; otherwise
// talenthub.{yaml,json} is looked up in the working directory and in the
// default data directory, and a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("talenthub")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return decode(v)
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// UploadPolicy converts the uploads section into the policy the validator
// enforces. Extensions are lowercased and given a leading dot.
func (c *Config) UploadPolicy() application.UploadPolicy {
	exts := make([]string, 0, len(c.Uploads.AllowedExtensions))
	for _, e := range c.Uploads.AllowedExtensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	types := make([]string, 0, len(c.Uploads.AllowedTypes))
	for _, t := range c.Uploads.AllowedTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}
	return application.UploadPolicy{
		MaxBytes:          c.Uploads.MaxBytes,
		AllowedTypes:      types,
		AllowedExtensions: exts,
	}
}
