package content

import (
	"path/filepath"
	"testing"

	"github.com/woozymasta/decksite/internal/config"
)

func TestNewRegistryResolvesCollectionDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	cfg.Content.Root = root
	cfg.Content.Decks.Base = "gallery"
	cfg.Content.Decks.Pattern = "*.json"

	reg := NewRegistry(cfg)
	sources := reg.Sources()
	if len(sources) != 2 {
		t.Fatalf("Sources() len = %d, want 2", len(sources))
	}

	want := []Source{
		{Name: ReviewsCollection, Base: filepath.Join(root, "reviews"), Pattern: DefaultPattern},
		{Name: DecksCollection, Base: filepath.Join(root, "gallery"), Pattern: "*.json"},
	}
	for i, w := range want {
		if sources[i] != w {
			t.Fatalf("Sources()[%d] = %+v, want %+v", i, sources[i], w)
		}
	}

	if !reg.Decks.Match("a.json") || reg.Decks.Match("nested/a.json") {
		t.Fatal("decks pattern override not applied")
	}
	if !reg.Reviews.Match("2024/a.json") {
		t.Fatal("reviews default pattern should match nested documents")
	}
}
