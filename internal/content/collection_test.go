package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeckValidate(t *testing.T) {
	t.Parallel()

	decks := NewDecks(t.TempDir(), DefaultPattern)

	rec, err := decks.Validate("cedar.json", []byte(`{"id":"cedar","title":"Cedar","description":"Wraparound cedar deck","image":"/images/cedar.jpg","extra":true}`))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.ID != "cedar" || rec.Image != "/images/cedar.jpg" {
		t.Fatalf("Validate() = %+v", rec)
	}

	_, err = decks.Validate("bad.json", []byte(`{"id":"","title":"Cedar","image":7}`))
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("Validate() error = %v, want *DocumentError", err)
	}
	for _, field := range []string{"/id", "/description", "/image"} {
		if !de.HasField(field) {
			t.Fatalf("Fields = %v, missing %s", de.Fields, field)
		}
	}
}

func TestLoadDiscoversNestedDocuments(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	mustWriteDoc(t, filepath.Join(base, "b.json"), `{"id":"b","title":"B","description":"B","image":"b.jpg"}`)
	mustWriteDoc(t, filepath.Join(base, "2024", "a.json"), `{"id":"a","title":"A","description":"A","image":"a.jpg"}`)
	mustWriteDoc(t, filepath.Join(base, "notes.txt"), `ignored`)

	decks := NewDecks(base, DefaultPattern)
	res, err := decks.Load(context.Background(), LoadOptions{Concurrency: 2})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if res.Files != 2 {
		t.Fatalf("Files = %d, want 2", res.Files)
	}
	if len(res.Entries) != 2 || len(res.Errors) != 0 {
		t.Fatalf("Entries = %d, Errors = %d, want 2 and 0", len(res.Entries), len(res.Errors))
	}
	if res.Entries[0].ID != "2024/a" || res.Entries[1].ID != "b" {
		t.Fatalf("entry ids = %q, %q, want 2024/a, b", res.Entries[0].ID, res.Entries[1].ID)
	}
}

func TestLoadRejectsDuplicateDeckIDs(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	mustWriteDoc(t, filepath.Join(base, "a.json"), `{"id":"same","title":"A","description":"A","image":"a.jpg"}`)
	mustWriteDoc(t, filepath.Join(base, "b.json"), `{"id":"same","title":"B","description":"B","image":"b.jpg"}`)
	mustWriteDoc(t, filepath.Join(base, "c.json"), `{"id":"other","title":"C","description":"C","image":"c.jpg"}`)

	decks := NewDecks(base, DefaultPattern)
	res, err := decks.Load(context.Background(), LoadOptions{Concurrency: 4})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(res.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(res.Entries))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %d, want 1", len(res.Errors))
	}

	dup := res.Errors[0]
	if !errors.Is(dup, ErrDuplicateID) {
		t.Fatalf("error = %v, want ErrDuplicateID", dup)
	}
	if dup.File != filepath.Join(base, "b.json") {
		t.Fatalf("duplicate reported on %q, want b.json", dup.File)
	}
	if !strings.Contains(dup.Error(), "a.json") {
		t.Fatalf("error = %v, want it to name the first file", dup)
	}

	_, err = decks.Load(context.Background(), LoadOptions{FailFast: true})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Load(FailFast) error = %v, want ErrDuplicateID", err)
	}
}

func TestLoadAccumulatesErrors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	mustWriteDoc(t, filepath.Join(base, "good.json"), `{"author":"A","rating":5,"text":"T","date":"2024-01-01"}`)
	mustWriteDoc(t, filepath.Join(base, "bad-rating.json"), `{"author":"A","rating":0,"text":"T","date":"2024-01-01"}`)
	mustWriteDoc(t, filepath.Join(base, "no-text.json"), `{"author":"A","rating":3,"date":"2024-01-01"}`)

	reviews := NewReviews(base, DefaultPattern)

	res, err := reviews.Load(context.Background(), LoadOptions{Concurrency: 3})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(res.Entries) != 1 || len(res.Errors) != 2 {
		t.Fatalf("Entries = %d, Errors = %d, want 1 and 2", len(res.Entries), len(res.Errors))
	}
	if res.Errors[0].File != filepath.Join(base, "bad-rating.json") || res.Errors[1].File != filepath.Join(base, "no-text.json") {
		t.Fatalf("errors out of discovery order: %v", res.Errors)
	}

	res, err = reviews.Load(context.Background(), LoadOptions{Concurrency: 1, FailFast: true})
	if !errors.Is(err, ErrDocumentInvalid) {
		t.Fatalf("Load(FailFast) error = %v, want ErrDocumentInvalid", err)
	}
	if res == nil || len(res.Errors) == 0 {
		t.Fatal("Load(FailFast) returned no partial result")
	}
}

func TestLoadOrdersErrorsByFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	mustWriteDoc(t, filepath.Join(base, "a.json"), `{"id":"x","title":"A","description":"A","image":"a.jpg"}`)
	mustWriteDoc(t, filepath.Join(base, "b.json"), `{"id":"x","title":"B","description":"B","image":"b.jpg"}`)
	mustWriteDoc(t, filepath.Join(base, "c.json"), `{"id":"c","title":""}`)

	res, err := NewDecks(base, DefaultPattern).Load(context.Background(), LoadOptions{Concurrency: 3})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2", res.Errors)
	}

	if got := filepath.Base(res.Errors[0].File); got != "b.json" || !errors.Is(res.Errors[0], ErrDuplicateID) {
		t.Fatalf("Errors[0] = %v, want duplicate id in b.json", res.Errors[0])
	}
	if got := filepath.Base(res.Errors[1].File); got != "c.json" || !errors.Is(res.Errors[1], ErrDocumentInvalid) {
		t.Fatalf("Errors[1] = %v, want invalid c.json", res.Errors[1])
	}
}

func TestLoadMissingBaseYieldsNothing(t *testing.T) {
	t.Parallel()

	reviews := NewReviews(filepath.Join(t.TempDir(), "missing"), DefaultPattern)

	res, err := reviews.Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Files != 0 || len(res.Entries) != 0 {
		t.Fatalf("Load() = %+v, want empty result", res)
	}
}

func TestLoadInvalidPattern(t *testing.T) {
	t.Parallel()

	reviews := NewReviews(t.TempDir(), "[")

	_, err := reviews.Load(context.Background(), LoadOptions{})
	if !errors.Is(err, ErrDiscover) {
		t.Fatalf("Load() error = %v, want ErrDiscover", err)
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	reviews := NewReviews(t.TempDir(), DefaultPattern)

	if !reviews.Match("a.json") || !reviews.Match("x/y/a.json") {
		t.Fatal("Match() = false for json documents")
	}
	if reviews.Match("a.yaml") {
		t.Fatal("Match(a.yaml) = true")
	}
}

func mustWriteDoc(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
