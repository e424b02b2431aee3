package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaLoad is returned when an embedded collection schema cannot be compiled.
	ErrSchemaLoad = errors.New("failed to load collection schema")

	// ErrDocumentInvalid is returned when a document violates its collection schema.
	ErrDocumentInvalid = errors.New("invalid document")

	// ErrDuplicateID is returned when two documents of a collection share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDiscover is returned when collection documents cannot be listed.
	ErrDiscover = errors.New("failed to discover documents")
)

// FieldError describes a single field failure.
type FieldError struct {
	// Field is the JSON pointer of the field, "" for the whole document.
	Field string `json:"field"`
	// Message describes the failure.
	Message string `json:"message"`
}

func (f FieldError) String() string {
	field := f.Field
	if field == "" {
		field = "/"
	}
	return field + ": " + f.Message
}

// DocumentError reports every failure of one document.
type DocumentError struct {
	Collection string       `json:"collection"`
	File       string       `json:"file"`
	Fields     []FieldError `json:"fields"`
	// Err is ErrDocumentInvalid or ErrDuplicateID.
	Err error `json:"-"`
}

func (e *DocumentError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: %s: %v: %s", e.Collection, e.File, e.Err, strings.Join(parts, "; "))
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// HasField reports whether the error names the given field pointer.
func (e *DocumentError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
