package content

import "github.com/woozymasta/decksite/internal/config"

// Registry holds every collection of the site.
type Registry struct {
	Reviews *Collection[Review]
	Decks   *Collection[Deck]
}

// NewRegistry builds the collections from site configuration.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		Reviews: NewReviews(cfg.CollectionDir(ReviewsCollection, cfg.Content.Reviews), cfg.Content.Reviews.Pattern),
		Decks:   NewDecks(cfg.CollectionDir(DecksCollection, cfg.Content.Decks), cfg.Content.Decks.Pattern),
	}
}

// Source describes where a collection's documents live.
type Source struct {
	Name    string
	Base    string
	Pattern string
}

// Sources lists the locations of every collection.
func (r *Registry) Sources() []Source {
	return []Source{
		{Name: r.Reviews.Name, Base: r.Reviews.Base, Pattern: r.Reviews.Pattern},
		{Name: r.Decks.Name, Base: r.Decks.Base, Pattern: r.Decks.Pattern},
	}
}
