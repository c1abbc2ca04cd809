package inspect

import (
	"sort"
	"strings"

	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/parse"
	"src.mql.sh/pkg/token"
)

// AutocompleteKeyword suggests the keywords admissible at the given
// code-unit offset, filtered by the partial word ending there.
//
// On a failed parse the expected token kinds of the parse error drive the
// suggestions: `if 1 t` expects `then`, so the only suggestion for the
// partial word "t" is then. On a successful parse, an identifier under the
// cursor may still be a keyword prefix ("t" completes to true, try and
// type), so the expression-starting keywords are offered.
func AutocompleteKeyword(snapshot *token.Snapshot, result *parse.Result, parseErr error, offset int) []string {
	prefix := wordEndingAt(snapshot.Text, offset)

	var candidates []string
	switch {
	case parseErr != nil:
		candidates = expectedKeywords(parseErr)
	case result != nil:
		if leafIsIdentifierEndingAt(snapshot, result, offset) {
			candidates = keywordTexts(token.ExpressionStartKeywords)
		}
	}

	var suggestions []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, prefix) {
			suggestions = append(suggestions, candidate)
		}
	}
	sort.Strings(suggestions)
	return suggestions
}

// expectedKeywords extracts keyword candidates from the expected token
// kinds of a parse error.
func expectedKeywords(err error) []string {
	pe, ok := parse.AsError(err)
	if !ok {
		return nil
	}
	switch inner := pe.Inner.(type) {
	case *parse.ExpectedTokenKindError:
		return keywordTexts([]token.Kind{inner.Expected})
	case *parse.ExpectedAnyTokenKindError:
		return keywordTexts(inner.Expected)
	}
	return nil
}

func keywordTexts(kinds []token.Kind) []string {
	var texts []string
	for _, kind := range kinds {
		if text := token.KeywordText(kind); text != "" && text[0] != '#' {
			texts = append(texts, text)
		}
	}
	return texts
}

// wordEndingAt returns the identifier-shaped word that ends exactly at
// offset, or "".
func wordEndingAt(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}
	start := offset
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	return text[start:offset]
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// leafIsIdentifierEndingAt reports whether the rightmost leaf is an
// identifier whose text ends at the given offset, i.e. the cursor sits
// directly after a word that could still grow into a keyword.
func leafIsIdentifierEndingAt(snapshot *token.Snapshot, result *parse.Result, offset int) bool {
	leafID := result.Nodes.RightmostLeaf
	leaf, ok := result.Nodes.AST(leafID)
	if !ok {
		return false
	}
	if leaf.Base().Kind != ast.KindIdentifier {
		return false
	}
	span := leaf.Base().Tokens
	if span.To != span.From+1 {
		return false
	}
	return snapshot.Tokens[span.From].End.Offset == offset
}
