package app

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/woozymasta/decksite/internal/config"
)

func TestRunServesContentAndRebuildsOnChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	decksDir := filepath.Join(root, "decks")
	if err := os.MkdirAll(decksDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeDeck := func(name, id string) {
		t.Helper()
		body := `{"id":"` + id + `","title":"T","description":"D","image":"i.jpg"}`
		if err := os.WriteFile(filepath.Join(decksDir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write deck: %v", err)
		}
	}
	writeDeck("a.json", "a")

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	cfg.Content.Root = root
	cfg.Dev.Port = freePort(t)
	cfg.Dev.ReloadInterval.Duration = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, cfg, "127.0.0.1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	waitFor(t, func() bool {
		snap := a.Store().Snapshot()
		return snap != nil && len(snap.Decks) == 1
	})

	resp, err := http.Get("http://" + a.webServer.Addr() + "/content/decks/a")
	if err != nil {
		t.Fatalf("GET entry: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET entry status = %d", resp.StatusCode)
	}

	writeDeck("b.json", "b")
	waitFor(t, func() bool {
		snap := a.Store().Snapshot()
		return snap != nil && len(snap.Decks) == 2
	})

	// A duplicate id fails the build; the last good snapshot stays served.
	writeDeck("c.json", "a")
	waitFor(t, func() bool {
		latest := a.Store().Latest()
		return latest != nil && !latest.OK()
	})
	if got := len(a.Store().Snapshot().Decks); got != 2 {
		t.Fatalf("served decks = %d, want 2 from last good build", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestRunReleasesListenerWhenInitialBuildFails(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	decksDir := filepath.Join(root, "decks")
	if err := os.MkdirAll(decksDir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"id":"a","title":"T","description":"D","image":"i.jpg"}`
	if err := os.WriteFile(filepath.Join(decksDir, "a.json"), []byte(body), 0o600); err != nil {
		t.Fatalf("write deck: %v", err)
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	cfg.Content.Root = root
	cfg.Dev.Port = freePort(t)

	a, err := New(context.Background(), cfg, "127.0.0.1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	addr := a.webServer.Addr()

	// A canceled context aborts the build with a non-content error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err == nil {
		t.Fatal("Run() error = nil, want initial build error")
	}

	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		t.Fatalf("listen on released address %s: %v", addr, err)
	}
	_ = ln.Close()

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
