package config

// Config is the site build and deploy configuration.
type Config struct {
	// Output selects the rendering mode: pre-rendered at build time ("static")
	// or rendered per request ("server").
	Output string `yaml:"output,omitempty" json:"output,omitempty" default:"server" jsonschema:"enum=static,enum=server,default=server"`

	// Adapter configures the hosting adapter.
	Adapter Adapter `yaml:"adapter,omitempty" json:"adapter,omitempty"`

	// Content describes where collection documents live.
	Content Content `yaml:"content,omitempty" json:"content,omitempty"`

	// Dev configures the content watcher and dev server.
	Dev Dev `yaml:"dev,omitempty" json:"dev,omitempty"`
}

// Adapter configures the hosting adapter.
type Adapter struct {
	// ImageService selects the image optimization strategy. "compile"
	// transcodes images at build time, "cloudflare" uses the runtime image
	// service, "passthrough" serves originals and "custom" defers to the
	// site's own service.
	ImageService string `yaml:"image_service,omitempty" json:"image_service,omitempty" default:"compile" jsonschema:"required,enum=compile,enum=cloudflare,enum=passthrough,enum=custom,default=compile"`

	// Assets configures the static asset binding.
	Assets Assets `yaml:"assets,omitempty" json:"assets,omitempty" jsonschema:"required"`

	// PlatformProxy configures local emulation of platform bindings.
	PlatformProxy PlatformProxy `yaml:"platform_proxy,omitempty" json:"platform_proxy,omitempty"`
}

// Assets configures the static asset binding.
type Assets struct {
	// Binding names the static asset binding exposed to the runtime.
	// It must not be the platform-reserved name.
	Binding string `yaml:"binding,omitempty" json:"binding,omitempty" default:"PROJECT_ASSETS" jsonschema:"required,pattern=^[A-Za-z_][A-Za-z0-9_]*$,default=PROJECT_ASSETS"`
}

// PlatformProxy configures local emulation of platform bindings.
type PlatformProxy struct {
	// Enabled toggles local emulation of platform bindings in the dev server.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty" default:"true" jsonschema:"default=true"`
}

// Content describes where collection documents live and how they are loaded.
type Content struct {
	// Root is the directory containing collection directories. Relative paths
	// are resolved against the configuration file location.
	Root string `yaml:"root,omitempty" json:"root,omitempty" default:"./src/content" jsonschema:"required,minLength=1,default=./src/content"`

	// Reviews configures the reviews collection.
	Reviews CollectionConfig `yaml:"reviews,omitempty" json:"reviews,omitempty"`

	// Decks configures the decks collection.
	Decks CollectionConfig `yaml:"decks,omitempty" json:"decks,omitempty"`

	// FailFast stops the build on the first invalid document instead of
	// collecting every failure.
	FailFast bool `yaml:"fail_fast,omitempty" json:"fail_fast,omitempty" default:"false" jsonschema:"default=false"`

	// Concurrency limits how many documents are validated in parallel.
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty" default:"4" jsonschema:"required,minimum=1,default=4"`
}

// CollectionConfig overrides discovery settings of a single collection.
type CollectionConfig struct {
	// Base is the collection directory, relative to the content root.
	// Defaults to the collection name.
	Base string `yaml:"base,omitempty" json:"base,omitempty"`

	// Pattern is the glob matching collection documents.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty" default:"**/*.json" jsonschema:"minLength=1,default=**/*.json"`
}

// Dev configures the content watcher and dev server.
type Dev struct {
	// Port is the dev server listen port.
	Port int `yaml:"port,omitempty" json:"port,omitempty" default:"4322" jsonschema:"minimum=1,maximum=65535,default=4322"`

	// MetricsEnabled exposes Prometheus metrics on the dev server.
	MetricsEnabled bool `yaml:"metrics_enabled,omitempty" json:"metrics_enabled,omitempty" default:"false" jsonschema:"default=false"`

	// ReloadInterval defines how often content directories are polled.
	ReloadInterval Duration `yaml:"reload_interval,omitempty" json:"reload_interval,omitempty"`

	// ShutdownTimeout defines the timeout for graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout,omitempty" json:"shutdown_timeout,omitempty"`
}

// SetDefaults implements defaults.Setter for duration fields.
func (d *Dev) SetDefaults() {
	if d.ReloadInterval.Duration <= 0 {
		d.ReloadInterval.Duration = DefaultReloadInterval
	}
	if d.ShutdownTimeout.Duration <= 0 {
		d.ShutdownTimeout.Duration = DefaultShutdownTimeout
	}
}

// PlatformProxyEnabled reports whether platform proxy emulation is on.
func (c *Config) PlatformProxyEnabled() bool {
	return c.Adapter.PlatformProxy.Enabled == nil || *c.Adapter.PlatformProxy.Enabled
}
