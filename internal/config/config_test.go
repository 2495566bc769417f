package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Transcription.MaxFileSizeMB != 25 {
		t.Errorf("Default max size = %d, want 25", cfg.Transcription.MaxFileSizeMB)
	}
	if cfg.OpenAI.Model != "whisper-1" {
		t.Errorf("Default model = %s, want whisper-1", cfg.OpenAI.Model)
	}
	if d, _ := cfg.TimeoutDuration(); d != 30*time.Second {
		t.Errorf("Default timeout = %v, want 30s", d)
	}
	if d, _ := cfg.DelayDuration(); d != 500*time.Millisecond {
		t.Errorf("Default delay = %v, want 500ms", d)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8000 {
		t.Errorf("Default server = %s:%d, want 127.0.0.1:8000", cfg.Server.Host, cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"24h", 24 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"30s", 30 * time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{"0.5", 500 * time.Millisecond, false},
		{"30", 30 * time.Second, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dur, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDuration(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if err == nil && dur != tt.want {
				t.Errorf("ParseDuration(%s) = %v, want %v", tt.input, dur, tt.want)
			}
		})
	}
}

func TestConfig_Save_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Transcription.MaxFileSizeMB = 10
	cfg.Transcription.Language = "pt"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Transcription.MaxFileSizeMB != 10 {
		t.Errorf("Loaded max size = %d, want 10", loaded.Transcription.MaxFileSizeMB)
	}
	if loaded.Transcription.Language != "pt" {
		t.Errorf("Loaded language = %s, want pt", loaded.Transcription.Language)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Transcription.MaxFileSizeMB != 25 {
		t.Errorf("max size = %d, want default 25", cfg.Transcription.MaxFileSizeMB)
	}
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	SecretPath = filepath.Join(t.TempDir(), "missing-secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAX_FILE_SIZE_MB", "10")
	t.Setenv("API_DELAY", "0.25")
	t.Setenv("API_TIMEOUT", "45")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SAVE_LOGS", "true")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "config.yaml"), filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("LoadWithEnv() error = %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", cfg.OpenAI.APIKey)
	}
	if cfg.Transcription.MaxFileSizeMB != 10 {
		t.Errorf("MaxFileSizeMB = %d, want 10", cfg.Transcription.MaxFileSizeMB)
	}
	if d, _ := cfg.DelayDuration(); d != 250*time.Millisecond {
		t.Errorf("delay = %v, want 250ms", d)
	}
	if d, _ := cfg.TimeoutDuration(); d != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", d)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if !cfg.Log.Save {
		t.Error("Log.Save = false, want true")
	}
}

func TestLoadWithEnv_DotEnvFile(t *testing.T) {
	SecretPath = filepath.Join(t.TempDir(), "missing-secret")
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("AUTH_TOKEN=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("AUTH_TOKEN") })

	cfg, err := LoadWithEnv(filepath.Join(dir, "config.yaml"), envFile)
	if err != nil {
		t.Fatalf("LoadWithEnv() error = %v", err)
	}
	if cfg.Server.AuthToken != "from-dotenv" {
		t.Errorf("AuthToken = %q, want from-dotenv", cfg.Server.AuthToken)
	}
}

func TestLoadWithEnv_SecretFallback(t *testing.T) {
	dir := t.TempDir()
	SecretPath = filepath.Join(dir, "openai_api_key")
	if err := os.WriteFile(SecretPath, []byte("sk-secret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadWithEnv(filepath.Join(dir, "config.yaml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("LoadWithEnv() error = %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-secret" {
		t.Errorf("APIKey = %q, want sk-secret", cfg.OpenAI.APIKey)
	}
}

func TestApplyEnv_InvalidInt(t *testing.T) {
	t.Setenv("SERVER_WORKERS", "many")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("ApplyEnv() should reject a non-numeric SERVER_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero size", func(c *Config) { c.Transcription.MaxFileSizeMB = 0 }},
		{"bad timeout", func(c *Config) { c.Transcription.Timeout = "soon" }},
		{"zero timeout", func(c *Config) { c.Transcription.Timeout = "0s" }},
		{"negative delay", func(c *Config) { c.Transcription.Delay = "-1s" }},
		{"bad language", func(c *Config) { c.Transcription.Language = "PT" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"no workers", func(c *Config) { c.Server.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-1234567890abcdef"

	red := cfg.Redacted()
	if red.OpenAI.APIKey == cfg.OpenAI.APIKey {
		t.Error("Redacted() left the API key in clear text")
	}
	if cfg.OpenAI.APIKey != "sk-1234567890abcdef" {
		t.Error("Redacted() modified the original config")
	}
}

func TestAppDir(t *testing.T) {
	dir := AppDir()
	if dir == "" {
		t.Error("AppDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".audio-transcriber")
	if dir != expected {
		t.Errorf("AppDir() = %s, want %s", dir, expected)
	}
}
