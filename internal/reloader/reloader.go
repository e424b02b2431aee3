// Package reloader watches content directories and triggers a rebuild when
// a collection document changes.
package reloader

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Target is a directory whose matching files are watched.
type Target struct {
	// Dir is the directory to scan recursively.
	Dir string
	// Match reports whether a slash-separated path relative to Dir is watched.
	Match func(rel string) bool
}

// Reloader polls targets and calls onChange when their content changes.
type Reloader struct {
	onChange func(context.Context) error
	targets  []Target
	interval time.Duration

	mu         sync.Mutex
	lastSig    [sha256.Size]byte
	hasLastSig bool
}

// New creates a new content reloader.
func New(targets []Target, interval time.Duration, onChange func(context.Context) error) (*Reloader, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("reloader: no targets to watch")
	}
	for _, t := range targets {
		if t.Dir == "" {
			return nil, fmt.Errorf("reloader: empty target directory")
		}
		if t.Match == nil {
			return nil, fmt.Errorf("reloader: target %q has no matcher", t.Dir)
		}
	}
	if interval <= 0 {
		return nil, fmt.Errorf("reloader: interval must be greater than zero")
	}
	if onChange == nil {
		return nil, fmt.Errorf("reloader: onChange callback is required")
	}

	r := &Reloader{
		targets:  targets,
		interval: interval,
		onChange: onChange,
	}

	// The baseline is taken here so changes made before Start still count.
	if sig, err := calcSignature(targets); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize content watcher signature")
	} else {
		r.lastSig = sig
		r.hasLastSig = true
	}

	return r, nil
}

// Start polls targets until ctx is canceled. It blocks.
func (r *Reloader) Start(ctx context.Context) error {
	if r == nil {
		return nil
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("reloader: new scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.tick(ctx) }),
		gocron.WithName("content-reload"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("reloader: add job: %w", err)
	}

	s.Start()
	log.Info().
		Int("targets", len(r.targets)).
		Dur("interval", r.interval).
		Msg("Content auto-reload watcher started")

	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("Content watcher scheduler shutdown failed")
	}
	log.Info().Msg("Content auto-reload watcher stopped")
	return nil
}

func (r *Reloader) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	sig, err := calcSignature(r.targets)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read content directory state")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasLastSig && sig == r.lastSig {
		return
	}

	log.Info().Msg("Detected content change, rebuilding")
	if err := r.onChange(ctx); err != nil {
		log.Error().Err(err).Msg("Content rebuild failed, keeping previous snapshot")
	} else {
		log.Info().Msg("Content rebuild applied")
	}

	r.lastSig = sig
	r.hasLastSig = true
}

// calcSignature hashes names and contents of every watched file. Missing
// directories contribute nothing.
func calcSignature(targets []Target) ([sha256.Size]byte, error) {
	hasher := sha256.New()

	for _, t := range targets {
		var files []string
		err := filepath.WalkDir(t.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == t.Dir {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(t.Dir, path)
			if err != nil {
				return err
			}
			if t.Match(filepath.ToSlash(rel)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return [sha256.Size]byte{}, fmt.Errorf("walk %q: %w", t.Dir, err)
		}

		sort.Strings(files)
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return [sha256.Size]byte{}, fmt.Errorf("read file %q: %w", path, err)
			}

			if _, err := hasher.Write([]byte(path)); err != nil {
				return [sha256.Size]byte{}, fmt.Errorf("hash filename %q: %w", path, err)
			}
			if _, err := hasher.Write([]byte{0}); err != nil {
				return [sha256.Size]byte{}, fmt.Errorf("hash separator for %q: %w", path, err)
			}
			if _, err := hasher.Write(data); err != nil {
				return [sha256.Size]byte{}, fmt.Errorf("hash file %q: %w", path, err)
			}
			if _, err := hasher.Write([]byte{0}); err != nil {
				return [sha256.Size]byte{}, fmt.Errorf("hash tail separator for %q: %w", path, err)
			}
		}
	}

	var sum [sha256.Size]byte
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}
