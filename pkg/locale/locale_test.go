package locale

import "testing"

func TestForKnownLocale(t *testing.T) {
	if got := For("de-DE"); got.UnterminatedBracket == tables["en-US"].UnterminatedBracket {
		t.Error("de-DE table is identical to en-US")
	}
}

func TestForUnknownLocaleFallsBack(t *testing.T) {
	if got := For("xx-XX"); got != tables[DefaultLocale] {
		t.Error("unknown locale does not fall back to the default")
	}
}

func TestTablesAreComplete(t *testing.T) {
	for name, table := range tables {
		for field, value := range map[string]string{
			"ExpectedTokenKind":              table.ExpectedTokenKind,
			"ExpectedAnyTokenKind":           table.ExpectedAnyTokenKind,
			"InvalidPrimitiveType":           table.InvalidPrimitiveType,
			"UnusedTokensRemain":             table.UnusedTokensRemain,
			"UnterminatedParentheses":        table.UnterminatedParentheses,
			"UnterminatedBracket":            table.UnterminatedBracket,
			"RequiredParameterAfterOptional": table.RequiredParameterAfterOptional,
			"Invariant":                      table.Invariant,
			"EndOfDocument":                  table.EndOfDocument,
		} {
			if value == "" {
				t.Errorf("locale %s is missing %s", name, field)
			}
		}
	}
}
