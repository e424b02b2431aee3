package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/decksite/internal/logger"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	Config string `short:"c" long:"config" env:"DECKSITE_CONFIG" description:"Path to site configuration file (YAML or JSON); built-in defaults when empty"`

	logger.Logger `group:"Logging"`
}

var opts globalOptions

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	parser := newParser()
	if _, err := parser.ParseArgs(args); err != nil {
		// go-flags returns an error for --help too; print it and exit cleanly.
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, ferr.Message)
			return nil
		}
		return err
	}
	return nil
}

func newParser() *flags.Parser {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "decksite"
	parser.LongDescription = "Build-time content toolchain: validates site configuration and content collections."

	mustAddCommand(parser, "validate", "Validate all content collections",
		"Load every collection once and report invalid documents. Exits non-zero when any document fails.",
		&validateCommand{})
	mustAddCommand(parser, "watch", "Rebuild content on change and serve it",
		"Poll collection directories, rebuild on change and serve the last good snapshot over HTTP.",
		&watchCommand{})
	mustAddCommand(parser, "config", "Print the exported build configuration",
		"Print the configuration object consumed by downstream build tooling.",
		&configCommand{})
	mustAddCommand(parser, "version", "Print build information", "", &versionCommand{})

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	return parser
}

func mustAddCommand(p *flags.Parser, name, short, long string, data any) {
	if _, err := p.AddCommand(name, short, long, data); err != nil {
		panic(fmt.Sprintf("register command %q: %v", name, err))
	}
}
