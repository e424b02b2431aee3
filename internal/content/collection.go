package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/decksite/internal/schemas"
)

// DefaultPattern matches every JSON document below a collection base.
const DefaultPattern = "**/*.json"

// Collection is a named set of documents sharing one schema and one
// discovery pattern.
type Collection[T any] struct {
	// Name is the collection name.
	Name string
	// Base is the directory documents are discovered in.
	Base string
	// Pattern is the glob, relative to Base, matching documents.
	Pattern string

	schema    *schemas.Lazy
	transform func(map[string]any) []FieldError
	decode    func(map[string]any) (T, error)
	// key returns the field pointer and value that must be unique across
	// the collection. Nil when the collection has no such invariant.
	key func(T) (string, string)
}

// Entry is a validated document.
type Entry[T any] struct {
	// ID is derived from the document path relative to the collection base,
	// without extension.
	ID string `json:"id"`
	// File is the document path.
	File string `json:"file"`
	// Data is the validated record.
	Data T `json:"data"`
}

// LoadOptions control how a collection is loaded.
type LoadOptions struct {
	// Concurrency limits parallel document validation. Values below 1 mean 1.
	Concurrency int
	// FailFast stops loading on the first invalid document.
	FailFast bool
}

// Result is the outcome of loading a collection.
type Result[T any] struct {
	Collection string
	// Files is the number of discovered documents.
	Files int
	// Entries holds valid documents in discovery order.
	Entries []Entry[T]
	// Errors holds invalid documents ordered by file, duplicates included.
	Errors []*DocumentError
}

// Validate validates a single document. On failure the returned error is a
// *DocumentError listing every offending field.
func (c *Collection[T]) Validate(file string, raw []byte) (T, error) {
	var zero T

	schema, err := c.schema.Get()
	if err != nil {
		return zero, err
	}

	decoded, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return zero, c.invalid(file, ErrDocumentInvalid, FieldError{Message: fmt.Sprintf("malformed JSON: %v", err)})
	}

	doc, ok := decoded.(map[string]any)
	if !ok {
		return zero, c.invalid(file, ErrDocumentInvalid, FieldError{Message: fmt.Sprintf("document must be a JSON object, got %s", jsonKind(decoded))})
	}

	var problems []FieldError
	if c.transform != nil {
		problems = c.transform(doc)
	}

	if err := schema.Validate(doc); err != nil {
		problems = mergeViolations(problems, schemas.Violations(err))
	}

	if len(problems) > 0 {
		return zero, c.invalid(file, ErrDocumentInvalid, problems...)
	}

	rec, err := c.decode(doc)
	if err != nil {
		return zero, c.invalid(file, ErrDocumentInvalid, FieldError{Message: err.Error()})
	}

	return rec, nil
}

// Load discovers and validates every document of the collection. Documents
// are validated in parallel. Unless opts.FailFast is set, every invalid
// document is collected into the result and the returned error is nil; with
// FailFast the first *DocumentError is returned alongside the partial result.
func (c *Collection[T]) Load(ctx context.Context, opts LoadOptions) (*Result[T], error) {
	files, err := c.Discover()
	if err != nil {
		return nil, err
	}

	res := &Result[T]{Collection: c.Name, Files: len(files)}
	entries := make([]*Entry[T], len(files))
	docErrs := make([]*DocumentError, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			entry, err := c.loadFile(rel)
			if err != nil {
				var de *DocumentError
				if !errors.As(err, &de) {
					return err
				}
				docErrs[i] = de
				if opts.FailFast {
					return de
				}
				return nil
			}

			entries[i] = &entry
			return nil
		})
	}

	waitErr := g.Wait()

	for i := range files {
		switch {
		case entries[i] != nil:
			res.Entries = append(res.Entries, *entries[i])
		case docErrs[i] != nil:
			res.Errors = append(res.Errors, docErrs[i])
		}
	}

	if waitErr != nil {
		return res, waitErr
	}

	c.checkUnique(res)
	slices.SortStableFunc(res.Errors, func(a, b *DocumentError) int {
		return strings.Compare(a.File, b.File)
	})

	if opts.FailFast && len(res.Errors) > 0 {
		return res, res.Errors[0]
	}

	log.Debug().
		Str("collection", c.Name).
		Str("base", c.Base).
		Int("files", res.Files).
		Int("valid", len(res.Entries)).
		Int("invalid", len(res.Errors)).
		Msg("Collection loaded")

	return res, nil
}

func (c *Collection[T]) loadFile(rel string) (Entry[T], error) {
	file := filepath.Join(c.Base, filepath.FromSlash(rel))

	raw, err := os.ReadFile(file)
	if err != nil {
		return Entry[T]{}, c.invalid(file, ErrDocumentInvalid, FieldError{Message: fmt.Sprintf("read document: %v", err)})
	}

	rec, err := c.Validate(file, raw)
	if err != nil {
		return Entry[T]{}, err
	}

	return Entry[T]{
		ID:   strings.TrimSuffix(rel, filepath.Ext(rel)),
		File: file,
		Data: rec,
	}, nil
}

// checkUnique moves entries whose unique key was already taken by an earlier
// entry into the result errors.
func (c *Collection[T]) checkUnique(res *Result[T]) {
	if c.key == nil {
		return
	}

	seen := make(map[string]string, len(res.Entries))
	kept := res.Entries[:0]

	for _, entry := range res.Entries {
		field, value := c.key(entry.Data)
		if prev, exists := seen[value]; exists {
			res.Errors = append(res.Errors, c.invalid(entry.File, ErrDuplicateID, FieldError{
				Field:   field,
				Message: fmt.Sprintf("duplicate id %q, already used by %s", value, prev),
			}))
			continue
		}
		seen[value] = entry.File
		kept = append(kept, entry)
	}

	res.Entries = kept
}

func (c *Collection[T]) invalid(file string, kind error, fields ...FieldError) *DocumentError {
	return &DocumentError{
		Collection: c.Name,
		File:       file,
		Fields:     fields,
		Err:        kind,
	}
}

// mergeViolations appends schema violations to transform problems, skipping
// fields a transform has already reported.
func mergeViolations(problems []FieldError, violations []schemas.Violation) []FieldError {
	reported := make(map[string]struct{}, len(problems))
	for _, p := range problems {
		reported[p.Field] = struct{}{}
	}

	for _, v := range violations {
		if _, ok := reported[v.Pointer]; ok {
			continue
		}
		problems = append(problems, FieldError{Field: v.Pointer, Message: v.Message})
	}

	return problems
}
