package token

import (
	"strings"
	"testing"
)

func kindsOf(t *testing.T, code string) []Kind {
	t.Helper()
	snapshot, err := Tokenize("[test]", code)
	if err != nil {
		t.Fatalf("Tokenize(%q) -> error %v", code, err)
	}
	kinds := make([]Kind, len(snapshot.Tokens))
	for i, tok := range snapshot.Tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func dataOf(t *testing.T, code string) []string {
	t.Helper()
	snapshot, err := Tokenize("[test]", code)
	if err != nil {
		t.Fatalf("Tokenize(%q) -> error %v", code, err)
	}
	data := make([]string, len(snapshot.Tokens))
	for i, tok := range snapshot.Tokens {
		data[i] = tok.Data
	}
	return data
}

var tokenizeTests = []struct {
	name string
	code string
	want []Kind
}{
	{
		name: "keywords and literals",
		code: "if true then 1 else null",
		want: []Kind{KeywordIf, KeywordTrue, KeywordThen, NumericLiteral, KeywordElse, NullLiteral},
	},
	{
		name: "punctuation",
		code: "( ) [ ] { } , ; ? @",
		want: []Kind{LeftParenthesis, RightParenthesis, LeftBracket, RightBracket,
			LeftBrace, RightBrace, Comma, Semicolon, QuestionMark, AtSign},
	},
	{
		name: "multi-rune operators",
		code: "=> <> <= >= .. ...",
		want: []Kind{FatArrow, NotEqual, LessThanEqualTo, GreaterThanEqualTo, DotDot, Ellipsis},
	},
	{
		name: "arithmetic and comparison",
		code: "+ - * / & = < >",
		want: []Kind{Plus, Minus, Asterisk, Division, Ampersand, Equal, LessThan, GreaterThan},
	},
	{
		name: "numbers",
		code: "1 1.5 .5 1e3 1.5e-3 0xFF",
		want: []Kind{NumericLiteral, NumericLiteral, NumericLiteral,
			NumericLiteral, NumericLiteral, HexLiteral},
	},
	{
		name: "number followed by range",
		code: "1..2",
		want: []Kind{NumericLiteral, DotDot, NumericLiteral},
	},
	{
		name: "text with escaped quote",
		code: `"a""b"`,
		want: []Kind{TextLiteral},
	},
	{
		name: "hash keywords",
		code: "#table #sections #shared #binary #date #datetime #datetimezone #duration #time #nan #infinity",
		want: []Kind{KeywordHashTable, KeywordHashSections, KeywordHashShared,
			KeywordHashBinary, KeywordHashDate, KeywordHashDateTime,
			KeywordHashDateTimeZone, KeywordHashDuration, KeywordHashTime,
			KeywordHashNan, KeywordHashInfinity},
	},
	{
		name: "quoted identifier",
		code: `#"with space"`,
		want: []Kind{Identifier},
	},
	{
		name: "dotted identifier",
		code: "Table.AddColumn",
		want: []Kind{Identifier},
	},
	{
		name: "comments are trivia",
		code: "1 // line\n/* block\nstill block */ 2",
		want: []Kind{NumericLiteral, NumericLiteral},
	},
	{
		name: "contextual names are identifiers",
		code: "optional nullable table function",
		want: []Kind{Identifier, Identifier, Identifier, Identifier},
	},
	{
		name: "empty input",
		code: "  \t\n",
		want: []Kind{},
	},
}

func TestTokenize(t *testing.T) {
	for _, test := range tokenizeTests {
		t.Run(test.name, func(t *testing.T) {
			got := kindsOf(t, test.code)
			if len(got) != len(test.want) {
				t.Fatalf("Tokenize(%q) -> %v, want %v", test.code, got, test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %v, want %v", test.code, i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestTokenizeData(t *testing.T) {
	got := dataOf(t, `x = "a""b" // trailing`)
	want := []string{"x", "=", `"a""b"`}
	if len(got) != len(want) {
		t.Fatalf("data = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("data[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	snapshot, err := Tokenize("[test]", "a\n  bb\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(snapshot.Tokens))
	}
	a, bb := snapshot.Tokens[0], snapshot.Tokens[1]
	if a.Start != (Position{Offset: 0, Line: 1, Col: 0}) {
		t.Errorf("a starts at %+v", a.Start)
	}
	if a.End != (Position{Offset: 1, Line: 1, Col: 1}) {
		t.Errorf("a ends at %+v", a.End)
	}
	if bb.Start != (Position{Offset: 4, Line: 2, Col: 2}) {
		t.Errorf("bb starts at %+v", bb.Start)
	}
	if got := snapshot.GraphemePositionStart(bb); got != (GraphemePosition{Line: 2, Column: 3}) {
		t.Errorf("GraphemePositionStart(bb) = %v", got)
	}
}

var tokenizeErrorTests = []struct {
	name    string
	code    string
	wantMsg string
}{
	{"unterminated text", `"abc`, "text literal not terminated"},
	{"unterminated block comment", "1 /* abc", "comment not terminated"},
	{"unterminated quoted identifier", `#"abc`, "quoted identifier not terminated"},
	{"unknown hash keyword", "#foo", "unknown #-keyword"},
	{"empty hex literal", "0x", "hex literal has no digits"},
	{"empty exponent", "1e", "exponent has no digits"},
	{"lone dot", "a . b", "'.' must be part of a number"},
	{"stray rune", "1 ! 2", "unexpected rune"},
}

func TestTokenizeErrors(t *testing.T) {
	for _, test := range tokenizeErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Tokenize("[test]", test.code)
			if err == nil {
				t.Fatalf("Tokenize(%q) -> no error", test.code)
			}
			if !strings.Contains(err.Error(), test.wantMsg) {
				t.Errorf("Tokenize(%q) -> %q, want it to contain %q", test.code, err, test.wantMsg)
			}
		})
	}
}
