package static

import _ "embed"

// SiteSchema contains the JSON schema for site build configuration.
// It is embedded at build time from schemas/site.json.
//
//go:embed schemas/site.json
var SiteSchema []byte

// ReviewSchema contains the JSON schema for review documents.
// It is embedded at build time from schemas/review.json.
//
//go:embed schemas/review.json
var ReviewSchema []byte

// DeckSchema contains the JSON schema for deck gallery documents.
// It is embedded at build time from schemas/deck.json.
//
//go:embed schemas/deck.json
var DeckSchema []byte
