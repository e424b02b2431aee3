package content

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// Discover lists documents matching the collection pattern, relative to
// Base and slash-separated, in lexical order. A missing base directory
// yields no documents.
func (c *Collection[T]) Discover() ([]string, error) {
	pattern := c.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %s: invalid pattern %q", ErrDiscover, c.Name, pattern)
	}

	info, err := os.Stat(c.Base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().
				Str("collection", c.Name).
				Str("base", c.Base).
				Msg("Collection directory does not exist, no documents loaded")
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDiscover, c.Name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s: %s is not a directory", ErrDiscover, c.Name, c.Base)
	}

	matches, err := doublestar.Glob(os.DirFS(c.Base), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDiscover, c.Name, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// Match reports whether a slash-separated path relative to Base is a
// document of the collection.
func (c *Collection[T]) Match(rel string) bool {
	pattern := c.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}
