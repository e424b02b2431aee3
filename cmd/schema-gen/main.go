// Command schema-gen regenerates the JSON schemas embedded in static/schemas
// from the Go types they describe.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/woozymasta/decksite/internal/config"
	"github.com/woozymasta/decksite/internal/content"
)

// draft07 is the draft every embedded schema declares.
const draft07 = "http://json-schema.org/draft-07/schema#"

type target struct {
	out         string
	title       string
	description string
	value       any
	open        bool
}

// targets lists every embedded schema with its output path.
func targets(siteOut, reviewOut, deckOut string) []target {
	return []target{
		{out: siteOut, title: "Decksite Build Configuration", description: "Build and deploy configuration schema for decksite", value: new(config.Config)},
		{out: reviewOut, title: "Customer Review", description: "Review document schema for the reviews collection", value: new(content.Review), open: true},
		{out: deckOut, title: "Deck Gallery Item", description: "Deck document schema for the decks collection", value: new(content.Deck), open: true},
	}
}

func main() {
	var (
		siteOut    string
		reviewOut  string
		deckOut    string
		modulePath string
		pretty     bool
	)
	flag.StringVar(&siteOut, "site-out", "static/schemas/site.json", "output path for the site configuration schema")
	flag.StringVar(&reviewOut, "review-out", "static/schemas/review.json", "output path for the review document schema")
	flag.StringVar(&deckOut, "deck-out", "static/schemas/deck.json", "output path for the deck document schema")
	flag.StringVar(&modulePath, "module", "github.com/woozymasta/decksite", "go module path (for extracting comments)")
	flag.BoolVar(&pretty, "pretty", true, "pretty print JSON output")
	flag.Parse()

	for _, t := range targets(siteOut, reviewOut, deckOut) {
		schema := reflectSchema(modulePath, t)
		if err := writeSchema(t.out, schema, pretty); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write %s schema: %v\n", t.title, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%s schema written to: %s\n", t.title, t.out)
	}
}

// reflectSchema builds the schema of t. Comments are read from the package
// sources, so it must run from the module root.
func reflectSchema(modulePath string, t target) *jsonschema.Schema {
	// Content documents allow unknown keys, configuration does not.
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  t.open,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}

	for _, pkg := range []string{"internal/config", "internal/content"} {
		if err := r.AddGoComments(modulePath, pkg, jsonschema.WithFullComment()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to add Go comments from %s: %v\n", pkg, err)
		}
	}

	schema := r.Reflect(t.value)
	schema.Version = draft07
	schema.ID = ""
	schema.Title = t.title
	schema.Description = t.description
	return schema
}

func writeSchema(outFile string, schema *jsonschema.Schema, pretty bool) error {
	output := os.Stdout
	if outFile != "" && outFile != "-" {
		if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to close output file %s: %v\n", outFile, cerr)
			}
		}()
		output = f
	}

	enc := json.NewEncoder(output)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return nil
}
