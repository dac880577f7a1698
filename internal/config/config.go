// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type APIConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"` // sqlite db and scratch space
	TempDir string `yaml:"temp_dir"` // exported clips and downloaded results
}

type PollConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxWait     time.Duration `yaml:"max_wait"`
	LogInterval time.Duration `yaml:"log_interval"`
}

type RenderConfig struct {
	Format  string        `yaml:"format"`
	Codec   string        `yaml:"codec"`
	Timeout time.Duration `yaml:"timeout"`
}

type GrokConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type LumaConfig struct {
	BaseURL string `yaml:"base_url"`
}

type ElevenLabsConfig struct {
	BaseURL      string  `yaml:"base_url"`
	OutputFormat string  `yaml:"output_format"`
	Influence    float64 `yaml:"prompt_influence"`
}

type VeoConfig struct {
	Model string `yaml:"model"`
}

type VendorsConfig struct {
	Default    string           `yaml:"default"`
	Grok       GrokConfig       `yaml:"grok"`
	Luma       LumaConfig       `yaml:"luma"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Veo        VeoConfig        `yaml:"veo"`
}

type TransferConfig struct {
	UploadURL string `yaml:"upload_url"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Poll     PollConfig     `yaml:"poll"`
	Render   RenderConfig   `yaml:"render"`
	Vendors  VendorsConfig  `yaml:"vendors"`
	Transfer TransferConfig `yaml:"transfer"`

	Runtime RuntimeConfig `yaml:"-"`
}

// Credentials are read from the process environment only, never from the
// config file. An absent key fails fast before any network call.
type Credentials struct {
	GrokKey       string
	LumaKey       string
	ElevenLabsKey string
	GeminiKey     string
}

func LoadCredentials() Credentials {
	return Credentials{
		GrokKey:       os.Getenv("GROK_API_KEY"),
		LumaKey:       os.Getenv("LUMA_API_KEY"),
		ElevenLabsKey: os.Getenv("ELEVENLABS_API_KEY"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
	}
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Port <= 0 {
		cfg.API.Port = 8873
	}
	if cfg.Storage.DataDir == "" {
		home, _ := os.UserHomeDir()
		cfg.Storage.DataDir = filepath.Join(home, ".resolve-ai-agent")
	}
	if cfg.Storage.TempDir == "" {
		cfg.Storage.TempDir = os.TempDir()
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = time.Second
	}
	if cfg.Poll.MaxWait <= 0 {
		cfg.Poll.MaxWait = 10 * time.Minute
	}
	if cfg.Poll.LogInterval <= 0 {
		cfg.Poll.LogInterval = 10 * time.Second
	}
	if cfg.Render.Format == "" {
		cfg.Render.Format = "MP4"
	}
	if cfg.Render.Codec == "" {
		cfg.Render.Codec = "H264"
	}
	if cfg.Render.Timeout <= 0 {
		cfg.Render.Timeout = 5 * time.Minute
	}
	if cfg.Vendors.Default == "" {
		cfg.Vendors.Default = "grok"
	}
	if cfg.Vendors.Grok.BaseURL == "" {
		cfg.Vendors.Grok.BaseURL = "https://api.x.ai/v1"
	}
	if cfg.Vendors.Grok.Model == "" {
		cfg.Vendors.Grok.Model = "grok-imagine-video"
	}
	if cfg.Vendors.Luma.BaseURL == "" {
		cfg.Vendors.Luma.BaseURL = "https://api.lumalabs.ai/dream-machine/v1"
	}
	if cfg.Vendors.ElevenLabs.BaseURL == "" {
		cfg.Vendors.ElevenLabs.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if cfg.Vendors.ElevenLabs.OutputFormat == "" {
		cfg.Vendors.ElevenLabs.OutputFormat = "mp3_44100_128"
	}
	if cfg.Vendors.ElevenLabs.Influence <= 0 {
		cfg.Vendors.ElevenLabs.Influence = 0.3
	}
	if cfg.Vendors.Veo.Model == "" {
		cfg.Vendors.Veo.Model = "veo-2.0-generate-001"
	}
	if cfg.Transfer.UploadURL == "" {
		cfg.Transfer.UploadURL = "https://tmpfiles.org/api/v1/upload"
	}
}
