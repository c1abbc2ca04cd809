package token

var keywords = map[string]Kind{
	"and":       KeywordAnd,
	"as":        KeywordAs,
	"each":      KeywordEach,
	"else":      KeywordElse,
	"error":     KeywordError,
	"false":     KeywordFalse,
	"if":        KeywordIf,
	"in":        KeywordIn,
	"is":        KeywordIs,
	"let":       KeywordLet,
	"meta":      KeywordMeta,
	"not":       KeywordNot,
	"or":        KeywordOr,
	"otherwise": KeywordOtherwise,
	"section":   KeywordSection,
	"shared":    KeywordShared,
	"then":      KeywordThen,
	"true":      KeywordTrue,
	"try":       KeywordTry,
	"type":      KeywordType,
}

var hashKeywords = map[string]Kind{
	"#binary":       KeywordHashBinary,
	"#date":         KeywordHashDate,
	"#datetime":     KeywordHashDateTime,
	"#datetimezone": KeywordHashDateTimeZone,
	"#duration":     KeywordHashDuration,
	"#infinity":     KeywordHashInfinity,
	"#nan":          KeywordHashNan,
	"#sections":     KeywordHashSections,
	"#shared":       KeywordHashShared,
	"#table":        KeywordHashTable,
	"#time":         KeywordHashTime,
}

var keywordTexts = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords)+len(hashKeywords))
	for text, kind := range keywords {
		m[kind] = text
	}
	for text, kind := range hashKeywords {
		m[kind] = text
	}
	return m
}()

// IsKeyword reports whether k is a keyword kind, including the #-keywords.
func IsKeyword(k Kind) bool {
	_, ok := keywordTexts[k]
	return ok
}

// KeywordText returns the source text of a keyword kind, and "" if k is not
// a keyword kind.
func KeywordText(k Kind) string {
	return keywordTexts[k]
}

// ExpressionStartKeywords lists the keyword kinds that may start an
// expression. Used by the parser for its expected-token errors and by
// keyword autocomplete.
var ExpressionStartKeywords = []Kind{
	KeywordEach,
	KeywordError,
	KeywordFalse,
	KeywordIf,
	KeywordLet,
	KeywordNot,
	KeywordTrue,
	KeywordTry,
	KeywordType,
	KeywordHashBinary,
	KeywordHashDate,
	KeywordHashDateTime,
	KeywordHashDateTimeZone,
	KeywordHashDuration,
	KeywordHashInfinity,
	KeywordHashNan,
	KeywordHashSections,
	KeywordHashShared,
	KeywordHashTable,
	KeywordHashTime,
}
