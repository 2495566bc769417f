package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	OpenAI        OpenAIConfig        `yaml:"openai"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Paths         PathsConfig         `yaml:"paths"`
}

// OpenAIConfig holds the remote backend settings
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

// TranscriptionConfig holds per-call limits and pacing
type TranscriptionConfig struct {
	MaxFileSizeMB      int    `yaml:"max_file_size_mb"`
	Timeout            string `yaml:"timeout"`
	Delay              string `yaml:"delay"`
	Language           string `yaml:"language,omitempty"`
	ConvertUnsupported bool   `yaml:"convert_unsupported"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	Workers       int      `yaml:"workers"`
	Reload        bool     `yaml:"reload"`
	AuthToken     string   `yaml:"auth_token,omitempty"`
	MaxUploadMB   int      `yaml:"max_upload_mb"`
	ShutdownGrace string   `yaml:"shutdown_grace"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
	Save   bool   `yaml:"save"`
	Debug  bool   `yaml:"debug"`
}

// PathsConfig holds folder and binary overrides
type PathsConfig struct {
	AudioFolder  string `yaml:"audio_folder"`
	OutputFolder string `yaml:"output_folder"`
	FFmpeg       string `yaml:"ffmpeg,omitempty"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model: "whisper-1",
		},
		Transcription: TranscriptionConfig{
			MaxFileSizeMB: 25,
			Timeout:       "30s",
			Delay:         "500ms",
		},
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          8000,
			Workers:       1,
			MaxUploadMB:   100,
			ShutdownGrace: "10s",
			CORSOrigins:   []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Paths: PathsConfig{
			AudioFolder:  "./audios",
			OutputFolder: ".",
		},
	}
}

// SecretPath is the Docker secret consulted when no API key is configured
var SecretPath = "/run/secrets/openai_api_key"

// AppDir returns the application directory (~/.audio-transcriber)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".audio-transcriber"
	}
	return filepath.Join(home, ".audio-transcriber")
}

// BinDir returns the bin directory for bundled tools
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"openai.api_key":                    "OPENAI_API_KEY",
	"openai.base_url":                   "OPENAI_BASE_URL",
	"openai.model":                      "WHISPER_MODEL",
	"transcription.max_file_size_mb":    "MAX_FILE_SIZE_MB",
	"transcription.timeout":             "API_TIMEOUT",
	"transcription.delay":               "API_DELAY",
	"transcription.language":            "DEFAULT_LANGUAGE",
	"transcription.convert_unsupported": "CONVERT_UNSUPPORTED",
	"server.host":                       "SERVER_HOST",
	"server.port":                       "SERVER_PORT",
	"server.workers":                    "SERVER_WORKERS",
	"server.reload":                     "SERVER_RELOAD",
	"server.auth_token":                 "AUTH_TOKEN",
	"log.level":                         "LOG_LEVEL",
	"log.format":                        "LOG_FORMAT",
	"log.save":                          "SAVE_LOGS",
	"log.debug":                         "DEBUG",
	"paths.audio_folder":                "DEFAULT_AUDIO_FOLDER",
	"paths.output_folder":               "DEFAULT_OUTPUT_FOLDER",
	"paths.ffmpeg":                      "FFMPEG_PATH",
}

// LoadWithEnv loads .env files, the yaml config at path, then environment overrides
func LoadWithEnv(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = readSecret(SecretPath)
	}
	return cfg, nil
}

// ApplyEnv overrides fields with any bound environment variable that is set
func (c *Config) ApplyEnv() error {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	setInt := func(key string, dst *int) error {
		if !v.IsSet(key) {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envBindings[key], err)
		}
		*dst = n
		return nil
	}

	setString("openai.api_key", &c.OpenAI.APIKey)
	setString("openai.base_url", &c.OpenAI.BaseURL)
	setString("openai.model", &c.OpenAI.Model)
	setString("transcription.timeout", &c.Transcription.Timeout)
	setString("transcription.delay", &c.Transcription.Delay)
	setString("transcription.language", &c.Transcription.Language)
	setBool("transcription.convert_unsupported", &c.Transcription.ConvertUnsupported)
	setString("server.host", &c.Server.Host)
	setBool("server.reload", &c.Server.Reload)
	setString("server.auth_token", &c.Server.AuthToken)
	setString("log.level", &c.Log.Level)
	setString("log.format", &c.Log.Format)
	setBool("log.save", &c.Log.Save)
	setBool("log.debug", &c.Log.Debug)
	setString("paths.audio_folder", &c.Paths.AudioFolder)
	setString("paths.output_folder", &c.Paths.OutputFolder)
	setString("paths.ffmpeg", &c.Paths.FFmpeg)

	for key, dst := range map[string]*int{
		"transcription.max_file_size_mb": &c.Transcription.MaxFileSizeMB,
		"server.port":                    &c.Server.Port,
		"server.workers":                 &c.Server.Workers,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func readSecret(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	out := *c
	out.OpenAI.APIKey = mask(c.OpenAI.APIKey)
	out.Server.AuthToken = mask(c.Server.AuthToken)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// Validate checks the values components rely on
func (c *Config) Validate() error {
	if c.Transcription.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive, got %d", c.Transcription.MaxFileSizeMB)
	}
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Transcription.Timeout)
	}
	delay, err := c.DelayDuration()
	if err != nil {
		return err
	}
	if delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Transcription.Delay)
	}
	if err := domain.ValidateLanguage(c.Transcription.Language); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Server.Workers)
	}
	return nil
}

// TimeoutDuration returns the per-call timeout
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := ParseDuration(c.Transcription.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	return d, nil
}

// DelayDuration returns the pause between consecutive calls
func (c *Config) DelayDuration() (time.Duration, error) {
	d, err := ParseDuration(c.Transcription.Delay)
	if err != nil {
		return 0, fmt.Errorf("delay: %w", err)
	}
	return d, nil
}

// ShutdownGraceDuration returns how long the server waits for in-flight requests
func (c *Config) ShutdownGraceDuration() time.Duration {
	d, err := ParseDuration(c.Server.ShutdownGrace)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

var durationPattern = regexp.MustCompile(`^(\d+)(h|d)$`)

// ParseDuration parses Go durations ("500ms", "30s"), bare seconds ("0.5", "30")
// and the day shorthand ("7d")
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if matches := durationPattern.FindStringSubmatch(s); len(matches) == 3 {
		value, _ := strconv.Atoi(matches[1])
		if matches[2] == "d" {
			return time.Duration(value) * 24 * time.Hour, nil
		}
		return time.Duration(value) * time.Hour, nil
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 500ms, 30s, 0.5, 7d)", s)
	}
	return d, nil
}
