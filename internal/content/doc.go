// Package content implements the content schema registry: the reviews and
// decks collections, their discovery over the filesystem and per-document
// validation.
//
// Every document goes through the same pipeline:
//
//  1. decode the JSON object;
//  2. apply collection transforms (string normalization, empty-to-absent
//     coercion, date coercion);
//  3. validate against the collection's embedded JSON schema;
//  4. decode into the typed record and apply declared defaults.
//
// All field failures of a document are reported together in a
// *DocumentError. Documents are validated independently; collection-level
// invariants such as unique deck ids are checked after every document of the
// collection has been validated.
package content
