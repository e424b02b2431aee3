package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/woozymasta/decksite/internal/build"
	"github.com/woozymasta/decksite/internal/content"
	"github.com/woozymasta/decksite/internal/report"
	"github.com/woozymasta/decksite/internal/vars"
)

type handlers struct {
	store *build.Store
}

type errorResponse struct {
	Error string `json:"error"`
}

// healthHandler returns "OK" for liveness endpoints.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// buildInfoHandler returns build metadata as JSON.
func buildInfoHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, vars.Info())
}

func (h *handlers) ready(w http.ResponseWriter, _ *http.Request) {
	if h.store.Snapshot() == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}

func (h *handlers) latestBuild(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Latest()
	if snap == nil {
		fail(w, r, http.StatusServiceUnavailable, "no build has finished yet")
		return
	}
	render.JSON(w, r, report.Summarize(snap))
}

func (h *handlers) listEntries(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	switch chi.URLParam(r, "collection") {
	case content.ReviewsCollection:
		render.JSON(w, r, nonNil(snap.Reviews))
	case content.DecksCollection:
		render.JSON(w, r, nonNil(snap.Decks))
	default:
		fail(w, r, http.StatusNotFound, "unknown collection")
	}
}

func (h *handlers) getEntry(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "*")
	switch chi.URLParam(r, "collection") {
	case content.ReviewsCollection:
		writeEntry(w, r, snap.Reviews, id)
	case content.DecksCollection:
		writeEntry(w, r, snap.Decks, id)
	default:
		fail(w, r, http.StatusNotFound, "unknown collection")
	}
}

func (h *handlers) snapshot(w http.ResponseWriter, r *http.Request) (*build.Snapshot, bool) {
	snap := h.store.Snapshot()
	if snap == nil {
		fail(w, r, http.StatusServiceUnavailable, "content has not been built successfully yet")
		return nil, false
	}
	return snap, true
}

func writeEntry[T any](w http.ResponseWriter, r *http.Request, entries []content.Entry[T], id string) {
	for _, e := range entries {
		if e.ID == id {
			render.JSON(w, r, e)
			return
		}
	}
	fail(w, r, http.StatusNotFound, "entry not found")
}

func nonNil[T any](entries []content.Entry[T]) []content.Entry[T] {
	if entries == nil {
		return []content.Entry[T]{}
	}
	return entries
}

func fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
