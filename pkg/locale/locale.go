// Package locale holds the message templates used to format parse errors.
// Templates are plain fmt format strings; the arguments each template
// receives are fixed by the error category that uses it.
package locale

// Templates is the message-template table for one locale.
type Templates struct {
	// Arguments: expected kind, found description.
	ExpectedTokenKind string
	// Arguments: comma-joined expected kinds, found description.
	ExpectedAnyTokenKind string
	// Arguments: the offending identifier.
	InvalidPrimitiveType string
	// Arguments: the first unused token.
	UnusedTokensRemain string
	// No arguments.
	UnterminatedParentheses string
	UnterminatedBracket     string
	// Arguments: the parameter name.
	RequiredParameterAfterOptional string
	// Arguments: detail text.
	Invariant string
	// Describes the end of the document; used as the found description when
	// no token remains.
	EndOfDocument string
}

// DefaultLocale is used when a requested locale has no table.
const DefaultLocale = "en-US"

var tables = map[string]Templates{
	"en-US": {
		ExpectedTokenKind:              "expected %s, found %s",
		ExpectedAnyTokenKind:           "expected any of %s, found %s",
		InvalidPrimitiveType:           "%q is not a primitive type",
		UnusedTokensRemain:             "document parsed, but tokens remain starting at %s",
		UnterminatedParentheses:        "parentheses are not terminated",
		UnterminatedBracket:            "bracket is not terminated",
		RequiredParameterAfterOptional: "required parameter %q follows an optional parameter",
		Invariant:                      "invariant violated: %s",
		EndOfDocument:                  "end of document",
	},
	"de-DE": {
		ExpectedTokenKind:              "%s erwartet, %s gefunden",
		ExpectedAnyTokenKind:           "eines von %s erwartet, %s gefunden",
		InvalidPrimitiveType:           "%q ist kein primitiver Typ",
		UnusedTokensRemain:             "Dokument gelesen, aber ab %s folgen weitere Token",
		UnterminatedParentheses:        "Klammern sind nicht geschlossen",
		UnterminatedBracket:            "eckige Klammer ist nicht geschlossen",
		RequiredParameterAfterOptional: "erforderlicher Parameter %q folgt auf einen optionalen",
		Invariant:                      "Invariante verletzt: %s",
		EndOfDocument:                  "Ende des Dokuments",
	},
}

// For returns the template table for the named locale, falling back to
// [DefaultLocale] for unknown names.
func For(name string) Templates {
	if t, ok := tables[name]; ok {
		return t
	}
	return tables[DefaultLocale]
}

// Known lists the locales with a template table.
func Known() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	return names
}
