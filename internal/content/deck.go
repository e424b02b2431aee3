package content

import (
	"encoding/json"
	"fmt"

	"github.com/woozymasta/decksite/internal/schemas"
	"github.com/woozymasta/decksite/static"
)

// DecksCollection is the name of the decks collection.
const DecksCollection = "decks"

// Deck is a validated photo-gallery item.
type Deck struct {
	// ID uniquely identifies the deck across the collection.
	ID string `json:"id" jsonschema:"required,minLength=1,example=cedar-wraparound"`

	// Title is the gallery caption.
	Title string `json:"title" jsonschema:"required,minLength=1"`

	// Description is the gallery body text.
	Description string `json:"description" jsonschema:"required,minLength=1"`

	// Image is a path or URL of the deck photo.
	Image string `json:"image" jsonschema:"required,minLength=1,example=/images/decks/cedar-wraparound.jpg"`
}

var deckSchema = schemas.NewLazy(static.DeckSchema, "embedded://deck-schema", ErrSchemaLoad, schemas.Options{AssertFormat: true})

// NewDecks returns the decks collection rooted at base.
func NewDecks(base, pattern string) *Collection[Deck] {
	return &Collection[Deck]{
		Name:    DecksCollection,
		Base:    base,
		Pattern: pattern,
		schema:  deckSchema,
		decode:  decodeDeck,
		key: func(d Deck) (string, string) {
			return "/id", d.ID
		},
	}
}

func decodeDeck(doc map[string]any) (Deck, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Deck{}, fmt.Errorf("marshal deck: %w", err)
	}

	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("decode deck: %w", err)
	}

	return d, nil
}
