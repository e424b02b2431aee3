// Package schemas compiles the JSON schemas embedded in the binary and keeps
// them cached for the lifetime of the process.
package schemas

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrEmptySchema is returned when the embedded schema has no content.
var ErrEmptySchema = errors.New("empty schema")

// Options control how a schema is compiled.
type Options struct {
	// AssertFormat makes "format" keywords (uri, date-time, ...) fail
	// validation instead of being annotations only.
	AssertFormat bool
}

// Compile decodes raw and compiles it as a standalone schema registered under url.
func Compile(raw []byte, url string, opts Options) (*jschema.Schema, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySchema
	}

	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jschema.NewCompiler()
	if opts.AssertFormat {
		compiler.AssertFormat()
	}

	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	return schema, nil
}

// Lazy compiles a schema once on first use.
type Lazy struct {
	once    sync.Once
	raw     []byte
	url     string
	opts    Options
	wrapErr error
	schema  *jschema.Schema
	err     error
}

// NewLazy returns a Lazy schema. Compilation errors are wrapped with loadErr.
func NewLazy(raw []byte, url string, loadErr error, opts Options) *Lazy {
	return &Lazy{raw: raw, url: url, wrapErr: loadErr, opts: opts}
}

// Get returns the compiled schema.
func (l *Lazy) Get() (*jschema.Schema, error) {
	l.once.Do(func() {
		l.schema, l.err = Compile(l.raw, l.url, l.opts)
		if l.err != nil && l.wrapErr != nil {
			l.err = fmt.Errorf("%w: %s: %v", l.wrapErr, l.url, l.err)
		}
	})

	return l.schema, l.err
}
