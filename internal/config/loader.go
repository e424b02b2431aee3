package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog/log"
	jamle "github.com/woozymasta/jamle"

	"github.com/woozymasta/decksite/internal/schemas"
	"github.com/woozymasta/decksite/static"
)

const (
	// DefaultReloadInterval is used when dev.reload_interval is not set.
	DefaultReloadInterval = 2 * time.Second

	// DefaultShutdownTimeout is used when dev.shutdown_timeout is not set.
	DefaultShutdownTimeout = 10 * time.Second
)

// reservedBindings are binding names the hosting platform claims for itself.
var reservedBindings = []string{"ASSETS"}

var siteSchema = schemas.NewLazy(static.SiteSchema, "embedded://site-schema", ErrSchemaLoad, schemas.Options{})

// Load reads, parses and validates configuration from the given path.
// The path must point to a YAML or JSON file. Environment variables inside
// the configuration are expanded by jamle. A relative content root is
// resolved against the directory of the configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrConfigNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("stat config %q: %w", path, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory, expected file", ErrInvalidConfig, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Content.Root) {
		cfg.Content.Root = filepath.Join(filepath.Dir(path), cfg.Content.Root)
	}

	log.Info().
		Str("config_path", path).
		Str("output", cfg.Output).
		Str("image_service", cfg.Adapter.ImageService).
		Str("assets_binding", cfg.Adapter.Assets.Binding).
		Str("content_root", cfg.Content.Root).
		Msg("Configuration loaded and validated")

	return cfg, nil
}

// Parse decodes raw YAML or JSON configuration, applies defaults and
// validates the result. Paths are left as written.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := jamle.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidConfig, err)
	}

	return finish(&cfg)
}

// Default returns the configuration used when no file is given. The content
// root is relative to the working directory.
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	// Apply default values for fields that weren't set in the config.
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("%w: apply defaults: %v", ErrInvalidConfig, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks configuration against the embedded JSON schema and then
// applies the rules a schema cannot express.
func validate(cfg *Config) error {
	schema, err := siteSchema.Get()
	if err != nil {
		return err
	}

	// Marshal config to JSON, then unmarshal to interface{} so Validate receives
	// a valid JSON value (map/slice), not a Go struct.
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: marshal for validation: %v", ErrInvalidConfig, err)
	}

	var cfgDoc interface{}
	if err := json.Unmarshal(data, &cfgDoc); err != nil {
		return fmt.Errorf("%w: unmarshal for validation: %v", ErrInvalidConfig, err)
	}

	if err := schema.Validate(cfgDoc); err != nil {
		return fmt.Errorf("%w: %s", ErrSchemaValidation, describe(err))
	}

	for _, name := range reservedBindings {
		if strings.EqualFold(cfg.Adapter.Assets.Binding, name) {
			return fmt.Errorf("%w: %q, choose another name such as PROJECT_ASSETS", ErrReservedBinding, cfg.Adapter.Assets.Binding)
		}
	}

	return nil
}

func describe(err error) string {
	violations := schemas.Violations(err)
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		ptr := v.Pointer
		if ptr == "" {
			ptr = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", ptr, v.Message))
	}
	return strings.Join(parts, "; ")
}

// CollectionDir returns the directory of a collection: the configured base
// joined to the content root, or the collection name when no base is set.
func (c *Config) CollectionDir(name string, cc CollectionConfig) string {
	base := cc.Base
	if base == "" {
		base = name
	}
	if filepath.IsAbs(base) {
		return base
	}
	return filepath.Join(c.Content.Root, base)
}
