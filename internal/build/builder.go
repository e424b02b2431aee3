// Package build runs a content build: every collection of the registry is
// discovered and validated, and the valid records are gathered into a
// snapshot consumed by page rendering and the dev server.
package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/decksite/internal/content"
	"github.com/woozymasta/decksite/internal/metrics"
)

// ErrBuildFailed is returned when at least one document is invalid.
var ErrBuildFailed = errors.New("content build failed")

// Snapshot is the outcome of one build.
type Snapshot struct {
	BuiltAt  time.Time                       `json:"built_at"`
	Duration time.Duration                   `json:"duration"`
	Files    int                             `json:"files"`
	Reviews  []content.Entry[content.Review] `json:"reviews"`
	Decks    []content.Entry[content.Deck]   `json:"decks"`
	Failures []*content.DocumentError        `json:"failures,omitempty"`
}

// OK reports whether every document was valid.
func (s *Snapshot) OK() bool {
	return s != nil && len(s.Failures) == 0
}

// Builder runs content builds.
type Builder struct {
	registry *content.Registry
	opts     content.LoadOptions
	metrics  *metrics.Metrics
}

// New creates a Builder. m may be nil.
func New(registry *content.Registry, opts content.LoadOptions, m *metrics.Metrics) *Builder {
	return &Builder{registry: registry, opts: opts, metrics: m}
}

// Run loads every collection. When documents are invalid the snapshot is
// still returned, holding the valid records and the failures, together with
// an error wrapping ErrBuildFailed. Other errors (discovery, schema, context)
// return a nil snapshot.
func (b *Builder) Run(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	var (
		reviews *content.Result[content.Review]
		decks   *content.Result[content.Deck]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = b.registry.Reviews.Load(gctx, b.opts)
		return err
	})
	g.Go(func() error {
		var err error
		decks, err = b.registry.Decks.Load(gctx, b.opts)
		return err
	})

	if err := g.Wait(); err != nil {
		var de *content.DocumentError
		if !errors.As(err, &de) {
			b.metrics.ObserveBuild("error", time.Since(start))
			return nil, fmt.Errorf("build: %w", err)
		}
	}

	snap := &Snapshot{BuiltAt: start.UTC()}
	if reviews != nil {
		snap.Files += reviews.Files
		snap.Reviews = reviews.Entries
		snap.Failures = append(snap.Failures, reviews.Errors...)
		b.metrics.ObserveCollection(reviews.Collection, len(reviews.Entries), len(reviews.Errors))
	}
	if decks != nil {
		snap.Files += decks.Files
		snap.Decks = decks.Entries
		snap.Failures = append(snap.Failures, decks.Errors...)
		b.metrics.ObserveCollection(decks.Collection, len(decks.Entries), len(decks.Errors))
	}
	snap.Duration = time.Since(start)

	if !snap.OK() {
		b.metrics.ObserveBuild("failed", snap.Duration)
		log.Error().
			Int("files", snap.Files).
			Int("invalid", len(snap.Failures)).
			Dur("duration", snap.Duration).
			Msg("Content build failed")
		return snap, fmt.Errorf("%w: %d invalid document(s)", ErrBuildFailed, len(snap.Failures))
	}

	b.metrics.ObserveBuild("success", snap.Duration)
	log.Info().
		Int("files", snap.Files).
		Int("reviews", len(snap.Reviews)).
		Int("decks", len(snap.Decks)).
		Dur("duration", snap.Duration).
		Msg("Content build succeeded")

	return snap, nil
}
