package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "hello")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "hello"},
		{"${TEST_VAR:default}", "hello"},
		{"${UNSET_VAR:fallback}", "fallback"},
		{"${UNSET_VAR}", ""},
		{"no vars here", "no vars here"},
		{"prefix-${TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "0.0.0.0"
  port: 9999
ai:
  model: gemini-2.0-flash
  timeout: 5s
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	cfg := DefaultConfig()
	if err := LoadFile(tmpFile.Name(), cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.AI.ModelName() != "gemini-2.0-flash" {
		t.Errorf("expected model gemini-2.0-flash, got %s", cfg.AI.ModelName())
	}
	if cfg.AI.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.AI.Timeout)
	}
	// untouched sections keep their defaults
	if cfg.Server.MaxBodyBytes != 100<<10 {
		t.Errorf("expected default body limit, got %d", cfg.Server.MaxBodyBytes)
	}
}

func TestLoadFile_WithEnvVars(t *testing.T) {
	os.Setenv("TEST_PORT", "7777")
	defer os.Unsetenv("TEST_PORT")

	tmpFile, err := os.CreateTemp("", "test-config-env-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
server:
  host: "${TEST_HOST:127.0.0.1}"
  port: ${TEST_PORT}
`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	var cfg Config
	if err := LoadFile(tmpFile.Name(), &cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1 (default), got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("expected port 7777, got %d", cfg.Server.Port)
	}
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	l := NewLoader(t.TempDir(), discardLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := l.Config()
	if cfg.Identity.OfficialEmail != DefaultOfficialEmail {
		t.Errorf("expected default email, got %q", cfg.Identity.OfficialEmail)
	}
	if l.AI().ModelName() != DefaultModel {
		t.Errorf("expected default model, got %q", l.AI().ModelName())
	}
}

func TestLoader_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	content := "ai:\n  backend: claude\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(dir, discardLogger())
	err := l.Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "ai.backend") {
		t.Errorf("expected error to mention ai.backend, got %v", err)
	}
}

func TestLoader_ReadsDotEnvBeforeYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BFHL_TEST_KEY", "")
	os.Unsetenv("BFHL_TEST_KEY")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BFHL_TEST_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	yml := "ai:\n  api_key: \"${BFHL_TEST_KEY}\"\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, discardLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := l.AI().Credential(); got != "from-dotenv" {
		t.Errorf("expected credential from .env, got %q", got)
	}
}

func writeDotEnv(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_ReloadFollowsDotEnvEdits(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BFHL_TEST_ROTATE", "")
	os.Unsetenv("BFHL_TEST_ROTATE")
	t.Setenv("BFHL_TEST_DROPPED", "")
	os.Unsetenv("BFHL_TEST_DROPPED")

	writeDotEnv(t, dir, "BFHL_TEST_ROTATE=old\nBFHL_TEST_DROPPED=gone-soon\n")
	yml := "ai:\n  api_key: \"${BFHL_TEST_ROTATE}\"\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, discardLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := l.AI().Credential(); got != "old" {
		t.Fatalf("expected old credential, got %q", got)
	}

	writeDotEnv(t, dir, "BFHL_TEST_ROTATE=new\n")
	if err := l.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := l.AI().Credential(); got != "new" {
		t.Errorf("expected rotated credential, got %q", got)
	}
	if _, set := os.LookupEnv("BFHL_TEST_DROPPED"); set {
		t.Error("expected key removed from .env to be unset")
	}
}

func TestLoader_ReloadKeepsRealEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BFHL_TEST_PINNED", "from-env")

	writeDotEnv(t, dir, "BFHL_TEST_PINNED=first\n")
	yml := "ai:\n  api_key: \"${BFHL_TEST_PINNED}\"\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, discardLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	writeDotEnv(t, dir, "BFHL_TEST_PINNED=second\n")
	if err := l.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	writeDotEnv(t, dir, "")
	if err := l.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if got := os.Getenv("BFHL_TEST_PINNED"); got != "from-env" {
		t.Errorf("real environment overwritten: %q", got)
	}
	if got := l.AI().Credential(); got != "from-env" {
		t.Errorf("expected credential from environment, got %q", got)
	}
}

func TestAIConfig_Credential(t *testing.T) {
	tests := []struct {
		primary, fallback, want string
	}{
		{"key-a", "key-b", "key-a"},
		{"", "key-b", "key-b"},
		{"  ", " key-b ", "key-b"},
		{"", "", ""},
	}
	for _, tt := range tests {
		got := AIConfig{APIKey: tt.primary, APIKeyFallback: tt.fallback}.Credential()
		if got != tt.want {
			t.Errorf("Credential(%q, %q) = %q, want %q", tt.primary, tt.fallback, got, tt.want)
		}
	}
}

func TestValidate_OpenAIRequiresBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.Backend = "openai"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without base_url")
	}
	cfg.AI.BaseURL = "http://localhost:8000/v1"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoader_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("server:\n  port: 4000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, discardLogger())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	reloaded := make(chan struct{}, 1)
	l.OnReload(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := l.Watch(ctx); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("server:\n  port: 5000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	if got := l.Config().Server.Port; got != 5000 {
		t.Errorf("expected port 5000 after reload, got %d", got)
	}
}
