package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "site.yaml")
	mustWriteFile(t, configPath, []byte("output: server\n"))

	cfg, err := Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Adapter.ImageService != "compile" {
		t.Fatalf("ImageService = %q, want compile", cfg.Adapter.ImageService)
	}
	if cfg.Adapter.Assets.Binding != "PROJECT_ASSETS" {
		t.Fatalf("Binding = %q, want PROJECT_ASSETS", cfg.Adapter.Assets.Binding)
	}
	if !cfg.PlatformProxyEnabled() {
		t.Fatal("PlatformProxyEnabled() = false, want true")
	}
	if cfg.Content.Concurrency != 4 {
		t.Fatalf("Concurrency = %d, want 4", cfg.Content.Concurrency)
	}
	if cfg.Content.Reviews.Pattern != "**/*.json" {
		t.Fatalf("Reviews.Pattern = %q, want **/*.json", cfg.Content.Reviews.Pattern)
	}
	if cfg.Dev.ReloadInterval.Std() != DefaultReloadInterval {
		t.Fatalf("ReloadInterval = %s, want %s", cfg.Dev.ReloadInterval, DefaultReloadInterval)
	}

	wantRoot := filepath.Join(tmpDir, "src", "content")
	if cfg.Content.Root != wantRoot {
		t.Fatalf("Content.Root = %q, want %q", cfg.Content.Root, wantRoot)
	}
	if got := cfg.CollectionDir("reviews", cfg.Content.Reviews); got != filepath.Join(wantRoot, "reviews") {
		t.Fatalf("CollectionDir(reviews) = %q", got)
	}
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "site.yaml")
	mustWriteFile(t, configPath, []byte(strings.TrimSpace(`
output: static
adapter:
  image_service: passthrough
  assets:
    binding: SITE_FILES
  platform_proxy:
    enabled: false
content:
  root: /srv/content
  decks:
    base: gallery
  fail_fast: true
  concurrency: 2
dev:
  port: 8080
  metrics_enabled: true
  reload_interval: 500ms
`)))

	cfg, err := Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "static" {
		t.Fatalf("Output = %q, want static", cfg.Output)
	}
	if cfg.PlatformProxyEnabled() {
		t.Fatal("PlatformProxyEnabled() = true, want false")
	}
	if cfg.Content.Root != "/srv/content" {
		t.Fatalf("Content.Root = %q, want /srv/content", cfg.Content.Root)
	}
	if got := cfg.CollectionDir("decks", cfg.Content.Decks); got != filepath.Join("/srv/content", "gallery") {
		t.Fatalf("CollectionDir(decks) = %q", got)
	}
	if !cfg.Content.FailFast || cfg.Content.Concurrency != 2 {
		t.Fatalf("Content = %+v", cfg.Content)
	}
	if cfg.Dev.ReloadInterval.Std() != 500*time.Millisecond {
		t.Fatalf("ReloadInterval = %s, want 500ms", cfg.Dev.ReloadInterval)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "unknown output",
			body:    "output: hybrid\n",
			wantErr: ErrSchemaValidation,
		},
		{
			name:    "unknown image service",
			body:    "adapter:\n  image_service: squoosh\n",
			wantErr: ErrSchemaValidation,
		},
		{
			name:    "reserved binding",
			body:    "adapter:\n  assets:\n    binding: ASSETS\n",
			wantErr: ErrReservedBinding,
		},
		{
			name:    "binding not an identifier",
			body:    "adapter:\n  assets:\n    binding: project-assets\n",
			wantErr: ErrSchemaValidation,
		},
		{
			name:    "bad duration",
			body:    "dev:\n  reload_interval: soon\n",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "site.yaml")
			mustWriteFile(t, configPath, []byte(tt.body))

			_, err := Load(context.Background(), configPath)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("Load() error = %v, want ErrConfigNotFound", err)
	}

	_, err = Load(context.Background(), t.TempDir())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load(dir) error = %v, want ErrInvalidConfig", err)
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	exp := cfg.Export()
	if exp.Output != "server" {
		t.Fatalf("Output = %q, want server", exp.Output)
	}
	if exp.Adapter.Name != AdapterName {
		t.Fatalf("Adapter.Name = %q, want %q", exp.Adapter.Name, AdapterName)
	}
	if exp.Adapter.ImageService != "compile" {
		t.Fatalf("ImageService = %q, want compile", exp.Adapter.ImageService)
	}
	if exp.Adapter.Assets.Binding != "PROJECT_ASSETS" {
		t.Fatalf("Binding = %q, want PROJECT_ASSETS", exp.Adapter.Assets.Binding)
	}
	if !exp.Adapter.PlatformProxy.Enabled {
		t.Fatal("PlatformProxy.Enabled = false, want true")
	}
}

func mustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
