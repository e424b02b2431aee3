package config

// AdapterName is the hosting adapter the exported configuration targets.
const AdapterName = "cloudflare"

// Export is the defined-export configuration object handed to downstream
// build tooling.
type Export struct {
	Output  string        `json:"output" yaml:"output"`
	Adapter ExportAdapter `json:"adapter" yaml:"adapter"`
}

// ExportAdapter is the adapter section of Export.
type ExportAdapter struct {
	Name          string              `json:"name" yaml:"name"`
	ImageService  string              `json:"imageService" yaml:"imageService"`
	Assets        ExportAssets        `json:"assets" yaml:"assets"`
	PlatformProxy ExportPlatformProxy `json:"platformProxy" yaml:"platformProxy"`
}

// ExportAssets is the asset binding section of ExportAdapter.
type ExportAssets struct {
	Binding string `json:"binding" yaml:"binding"`
}

// ExportPlatformProxy is the platform proxy section of ExportAdapter.
type ExportPlatformProxy struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Export converts the configuration into its exported form.
func (c *Config) Export() Export {
	return Export{
		Output: c.Output,
		Adapter: ExportAdapter{
			Name:          AdapterName,
			ImageService:  c.Adapter.ImageService,
			Assets:        ExportAssets{Binding: c.Adapter.Assets.Binding},
			PlatformProxy: ExportPlatformProxy{Enabled: c.PlatformProxyEnabled()},
		},
	}
}
