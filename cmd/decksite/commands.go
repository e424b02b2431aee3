package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/decksite/internal/app"
	"github.com/woozymasta/decksite/internal/build"
	"github.com/woozymasta/decksite/internal/config"
	"github.com/woozymasta/decksite/internal/content"
	"github.com/woozymasta/decksite/internal/report"
	"github.com/woozymasta/decksite/internal/signals"
	"github.com/woozymasta/decksite/internal/vars"
)

func loadConfig(ctx context.Context) (*config.Config, error) {
	if opts.Config == "" {
		log.Debug().Msg("No config file given, using defaults")
		return config.Default()
	}
	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

type validateCommand struct {
	//nolint:staticcheck // allow duplicate struct tags
	Format      string `short:"f" long:"format" description:"Report format" default:"table" choice:"table" choice:"json"`
	FailFast    bool   `long:"fail-fast" description:"Stop at the first invalid document"`
	Concurrency int    `long:"concurrency" description:"Parallel document workers (0 uses the config value)"`
}

func (c *validateCommand) Execute(_ []string) error {
	ctx, cancel := signals.WithSignalContext(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	lo := app.LoadOptions(cfg)
	if c.FailFast {
		lo.FailFast = true
	}
	if c.Concurrency > 0 {
		lo.Concurrency = c.Concurrency
	}

	builder := build.New(content.NewRegistry(cfg), lo, nil)
	snap, runErr := builder.Run(ctx)
	if snap == nil {
		return runErr
	}

	if err := report.Write(os.Stdout, snap, c.Format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return runErr
}

type watchCommand struct {
	Host     string        `long:"host" description:"Dev server listen host" default:"127.0.0.1"`
	Port     int           `short:"p" long:"port" description:"Dev server listen port (0 uses the config value)"`
	Interval time.Duration `long:"interval" description:"Content poll interval (0 uses the config value)"`
}

func (c *watchCommand) Execute(_ []string) error {
	ctx, cancel := signals.WithSignalContext(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if c.Port > 0 {
		cfg.Dev.Port = c.Port
	}
	if c.Interval > 0 {
		cfg.Dev.ReloadInterval.Duration = c.Interval
	}

	a, err := app.New(ctx, cfg, c.Host)
	if err != nil {
		return err
	}
	defer signals.GracefulShutdown(cfg.Dev.ShutdownTimeout.Std(), a)

	return a.Run(ctx)
}

type configCommand struct {
	//nolint:staticcheck // allow duplicate struct tags
	Format string `short:"f" long:"format" description:"Output format" default:"json" choice:"json" choice:"yaml"`
}

func (c *configCommand) Execute(_ []string) error {
	cfg, err := loadConfig(context.Background())
	if err != nil {
		return err
	}

	export := cfg.Export()
	switch c.Format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		return nil
	}
}

type versionCommand struct{}

func (versionCommand) Execute(_ []string) error {
	vars.Print(os.Stdout)
	return nil
}
