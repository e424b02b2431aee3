package schemas

import (
	"errors"
	"strings"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Violation is a single leaf failure of a schema validation.
type Violation struct {
	// Pointer is the JSON pointer of the offending value ("" is the document root).
	Pointer string
	// Message describes the failure.
	Message string
}

// Violations flattens a validation error into leaf violations. Missing
// required properties are reported at the pointer of the property itself.
// Errors that are not *jsonschema.ValidationError yield a single root violation.
func Violations(err error) []Violation {
	if err == nil {
		return nil
	}

	var ve *jschema.ValidationError
	if !errors.As(err, &ve) {
		return []Violation{{Message: err.Error()}}
	}

	var out []Violation
	collect(ve, &out)
	return out
}

func collect(ve *jschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collect(cause, out)
		}
		return
	}

	ptr := Pointer(ve.InstanceLocation)
	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, name := range req.Missing {
			*out = append(*out, Violation{
				Pointer: ptr + "/" + escape(name),
				Message: "required field is missing",
			})
		}
		return
	}

	*out = append(*out, Violation{
		Pointer: ptr,
		Message: ve.ErrorKind.LocalizedString(printer),
	})
}

// Pointer joins instance location tokens into a JSON pointer.
func Pointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(escape(tok))
	}
	return b.String()
}

func escape(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}
