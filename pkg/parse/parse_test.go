package parse

import (
	"reflect"
	"strings"
	"testing"

	"src.mql.sh/pkg/ast"
)

var parseTests = []struct {
	name string
	code string
	want shape
}{
	{
		name: "if expression",
		code: "if 1 then 2 else 3",
		want: shape{"IfExpression", fs{
			"If": "if", "Condition": "1",
			"Then": "then", "TrueBranch": "2",
			"Else": "else", "FalseBranch": "3",
		}},
	},
	{
		name: "function expression with one parameter",
		code: "(x) => x + 1",
		want: shape{"FunctionExpression", fs{
			"Parameters": shape{"ParameterList", fs{
				"Params": []any{shape{"Csv/Parameter", fs{"Name": "x", "Optional": nil, "Type": nil}}},
			}},
			"ReturnType": nil,
			"Body": shape{"ArithmeticExpression", fs{
				"Left": "x", "Operator": "+", "Right": "1",
			}},
		}},
	},
	{
		name: "function expression with typed parameter and return type",
		code: "(x as number) as number => x",
		want: shape{"FunctionExpression", fs{
			"Parameters": shape{"ParameterList", fs{
				"Params": []any{shape{"Csv/Parameter", fs{
					"Name": "x",
					"Type": shape{"AsNullablePrimitiveType", fs{"Type": "number"}},
				}}},
			}},
			"ReturnType": shape{"AsNullablePrimitiveType", fs{"Type": "number"}},
		}},
	},
	{
		name: "record with two fields",
		code: "[a = 1, b = 2]",
		want: shape{"RecordExpression", fs{
			"Fields": []any{
				shape{"Csv", fs{
					"Value": shape{"GeneralizedIdentifierPairedExpression", fs{"Key": "a", "Value": "1"}},
					"Comma": ",",
				}},
				shape{"Csv", fs{
					"Value": shape{"GeneralizedIdentifierPairedExpression", fs{"Key": "b", "Value": "2"}},
					"Comma": nil,
				}},
			},
		}},
	},
	{
		name: "try with otherwise",
		code: "try f() otherwise g()",
		want: shape{"ErrorHandlingExpression", fs{
			"Try": "try",
			"Protected": shape{"RecursivePrimaryExpression", fs{
				"Head":      "f",
				"Recursive": []any{shape{"InvokeExpression", fs{"Args": []any{}}}},
			}},
			"Otherwise": shape{"OtherwiseExpression", fs{
				"Otherwise": "otherwise",
				"Fallback": shape{"RecursivePrimaryExpression", fs{
					"Head": "g",
				}},
			}},
		}},
	},
	{
		name: "try without otherwise",
		code: "try 1",
		want: shape{"ErrorHandlingExpression", fs{"Protected": "1", "Otherwise": nil}},
	},
	{
		name: "arithmetic folds left",
		code: "1 + 2 * 3",
		want: shape{"ArithmeticExpression", fs{
			"Left": shape{"ArithmeticExpression", fs{
				"Left": "1", "Operator": "+", "Right": "2",
			}},
			"Operator": "*",
			"Right":    "3",
		}},
	},
	{
		name: "logical binds looser than equality",
		code: "1 = 2 and true",
		want: shape{"LogicalExpression", fs{
			"Left":     shape{"EqualityExpression", fs{"Left": "1", "Operator": "=", "Right": "2"}},
			"Operator": "and",
			"Right":    "true",
		}},
	},
	{
		name: "as expression over a parenthesized head",
		code: "(x) as number",
		want: shape{"AsExpression", fs{
			"Left":     shape{"ParenthesizedExpression", fs{"Content": "x"}},
			"Operator": "as",
			"Right":    shape{"PrimitiveType", fs{}},
		}},
	},
	{
		name: "is with nullable primitive type",
		code: "x is nullable number",
		want: shape{"IsExpression", fs{
			"Left":     "x",
			"Operator": "is",
			"Right":    shape{"NullablePrimitiveType", fs{"Nullable": "nullable", "Type": "number"}},
		}},
	},
	{
		name: "metadata expression",
		code: "1 meta [x = 1]",
		want: shape{"MetadataExpression", fs{
			"Left": "1", "Meta": "meta",
			"Right": shape{"RecordExpression", fs{}},
		}},
	},
	{
		name: "unary run",
		code: "- - 1",
		want: shape{"UnaryExpression", fs{
			"Operators": []any{"-", "-"},
			"Operand":   "1",
		}},
	},
	{
		name: "not is unary",
		code: "not true",
		want: shape{"UnaryExpression", fs{"Operators": []any{"not"}, "Operand": "true"}},
	},
	{
		name: "let expression",
		code: "let x = 1 in x",
		want: shape{"LetExpression", fs{
			"Bindings": []any{shape{"Csv/IdentifierPairedExpression", fs{"Key": "x", "Value": "1"}}},
			"Body":     "x",
		}},
	},
	{
		name: "each with field selection",
		code: "each [a]",
		want: shape{"EachExpression", fs{
			"Body": shape{"FieldSelector", fs{"Field": "a", "OptionalMark": nil}},
		}},
	},
	{
		name: "list with range item",
		code: "{1, 2..3}",
		want: shape{"ListExpression", fs{
			"Items": []any{
				shape{"Csv", fs{"Value": "1", "Comma": ","}},
				shape{"Csv/RangeExpression", fs{"Left": "2", "Right": "3"}},
			},
		}},
	},
	{
		name: "item access with optional mark",
		code: "x{0}?",
		want: shape{"RecursivePrimaryExpression", fs{
			"Head": "x",
			"Recursive": []any{shape{"ItemAccessExpression", fs{
				"Key": "0", "OptionalMark": "?",
			}}},
		}},
	},
	{
		name: "field projection",
		code: "x[[a], [b]]",
		want: shape{"RecursivePrimaryExpression", fs{
			"Head": "x",
			"Recursive": []any{shape{"FieldProjection", fs{
				"Selectors": []any{
					shape{"Csv", fs{"Value": shape{"FieldSelector", fs{"Field": "a"}}, "Comma": ","}},
					shape{"Csv/FieldSelector", fs{"Field": "b"}},
				},
			}}},
		}},
	},
	{
		name: "hash keyword heads an invocation",
		code: "#table({}, {})",
		want: shape{"RecursivePrimaryExpression", fs{
			"Head":      shape{"IdentifierExpression", fs{"Identifier": "#table", "Inclusive": nil}},
			"Recursive": []any{shape{"InvokeExpression", fs{}}},
		}},
	},
	{
		name: "inclusive identifier",
		code: "@f(1)",
		want: shape{"RecursivePrimaryExpression", fs{
			"Head": shape{"IdentifierExpression", fs{"Inclusive": "@", "Identifier": "f"}},
		}},
	},
	{
		name: "error raising",
		code: `error "boom"`,
		want: shape{"ErrorRaisingExpression", fs{"Payload": `"boom"`}},
	},
	{
		name: "not implemented expression",
		code: "...",
		want: shape{"NotImplementedExpression", fs{"Ellipsis": "..."}},
	},
	{
		name: "type of a primitive",
		code: "type number",
		want: shape{"TypePrimaryType", fs{"Type": "type", "Primary": shape{"PrimitiveType", fs{}}}},
	},
	{
		name: "record type with optional field",
		code: "type [a = number, optional b = text]",
		want: shape{"TypePrimaryType", fs{
			"Primary": shape{"RecordType", fs{
				"Fields": shape{"FieldSpecificationList", fs{
					"Fields": []any{
						shape{"Csv", fs{"Value": shape{"FieldSpecification", fs{"Name": "a", "Optional": nil}}, "Comma": ","}},
						shape{"Csv/FieldSpecification", fs{"Name": "b", "Optional": "optional"}},
					},
					"OpenRecordMark": nil,
				}},
			}},
		}},
	},
	{
		name: "open record type",
		code: "type [a = number, ...]",
		want: shape{"TypePrimaryType", fs{
			"Primary": shape{"RecordType", fs{
				"Fields": shape{"FieldSpecificationList", fs{"OpenRecordMark": "..."}},
			}},
		}},
	},
	{
		name: "list type falls back to expression item",
		code: "type {x}",
		want: shape{"TypePrimaryType", fs{
			"Primary": shape{"ListType", fs{
				"Item": shape{"IdentifierExpression", fs{"Identifier": "x"}},
			}},
		}},
	},
	{
		name: "table type",
		code: "type table [a = number]",
		want: shape{"TypePrimaryType", fs{
			"Primary": shape{"TableType", fs{"Table": "table"}},
		}},
	},
	{
		name: "function type",
		code: "type function (a as number) as number",
		want: shape{"TypePrimaryType", fs{
			"Primary": shape{"FunctionType", fs{
				"Function":   "function",
				"ReturnType": shape{"AsNullablePrimitiveType", fs{}},
			}},
		}},
	},
	{
		name: "keyword as generalized identifier key",
		code: "[if = 1]",
		want: shape{"RecordExpression", fs{
			"Fields": []any{shape{"Csv/GeneralizedIdentifierPairedExpression", fs{
				"Key": "if", "Value": "1",
			}}},
		}},
	},
	{
		name: "digits-only generalized identifier",
		code: "[1 = 2]",
		want: shape{"RecordExpression", fs{
			"Fields": []any{shape{"Csv/GeneralizedIdentifierPairedExpression", fs{
				"Key": "1", "Value": "2",
			}}},
		}},
	},
	{
		name: "section document",
		code: "section foo; shared x = 1; y = 2;",
		want: shape{"Section", fs{
			"Name": "foo",
			"Members": []any{
				shape{"SectionMember", fs{
					"Shared": "shared",
					"Name":   shape{"IdentifierPairedExpression", fs{"Key": "x", "Value": "1"}},
				}},
				shape{"SectionMember", fs{
					"Shared": nil,
					"Name":   shape{"IdentifierPairedExpression", fs{"Key": "y", "Value": "2"}},
				}},
			},
		}},
	},
	{
		name: "anonymous section",
		code: "section;",
		want: shape{"Section", fs{"Name": nil, "Members": []any{}}},
	},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			result := mustParse(t, test.code)
			if err := checkShape(result.Root, test.want); err != nil {
				t.Errorf("parse(%q): %v", test.code, err)
			}
			if err := result.Nodes.Check(); err != nil {
				t.Errorf("parse(%q) violates collection invariants: %v", test.code, err)
			}
			checkSiblingOrder(t, result)

			// A re-parse yields a structurally equal tree.
			again := mustParse(t, test.code)
			if !ast.Equal(result.Root, again.Root) {
				t.Errorf("parse(%q) is not idempotent", test.code)
			}
		})
	}
}

func mustParse(t *testing.T, code string) *Result {
	t.Helper()
	result, err := TryParseText(Settings{}, "[test]", code)
	if err != nil {
		t.Fatalf("parse(%q) -> error %v", code, err)
	}
	return result
}

// checkSiblingOrder verifies that within every child list, ids and token
// starts increase together: the sibling starting earlier has the smaller id.
func checkSiblingOrder(t *testing.T, result *Result) {
	t.Helper()
	for parent, children := range result.Nodes.ChildIDs {
		prevID, prevStart := -1, -1
		for _, id := range children {
			n, ok := result.Nodes.AST(id)
			if !ok {
				t.Errorf("child %d of %d is not an ast node after a successful parse", id, parent)
				continue
			}
			start := n.Base().Tokens.From
			if id <= prevID || start < prevStart {
				t.Errorf("children of %d are out of order at %d", parent, id)
			}
			prevID, prevStart = id, start
		}
	}
}

var parseErrorTests = []struct {
	name string
	code string
	// wantInner is a pointer to the zero value of the expected category.
	wantInner any
	// wantAt is the expected start offset of the error, -1 to skip.
	wantAt int
	// wantRootKind is the expected kind of the root of the surviving
	// context tree, ast.KindInvalid to skip.
	wantRootKind ast.Kind
}{
	{
		name:         "section member name missing",
		code:         "section; shared ;",
		wantInner:    &ExpectedTokenKindError{},
		wantAt:       16,
		wantRootKind: ast.KindSection,
	},
	{
		name:      "if without then",
		code:      "if 1 t",
		wantInner: &ExpectedTokenKindError{},
		wantAt:    5,
	},
	{
		name:      "trailing tokens",
		code:      "1 2",
		wantInner: &UnusedTokensRemainError{},
		wantAt:    2,
	},
	{
		name:      "unterminated parenthesis in list",
		code:      "{(1",
		wantInner: &UnterminatedParenthesesError{},
		wantAt:    1,
	},
	{
		name:      "unterminated bracket in list",
		code:      "{[a",
		wantInner: &UnterminatedBracketError{},
		wantAt:    1,
	},
	{
		name:      "required parameter after optional",
		code:      "(optional x, y) => 1",
		wantInner: &RequiredParameterAfterOptionalError{},
		wantAt:    -1,
	},
	{
		name:      "empty document",
		code:      "",
		wantInner: &ExpectedTokenKindError{},
		wantAt:    0,
	},
}

func TestParseErrors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := TryParseText(Settings{}, "[test]", test.code)
			if err == nil {
				t.Fatalf("parse(%q) -> no error", test.code)
			}
			pe, ok := AsError(err)
			if !ok {
				t.Fatalf("parse(%q) -> error of type %T", test.code, err)
			}
			if got, want := typeName(pe.Inner), typeName(test.wantInner); got != want {
				t.Errorf("parse(%q) -> %s error (%v), want %s", test.code, got, pe.Inner, want)
			}
			if test.wantAt != -1 && pe.Range().From != test.wantAt {
				t.Errorf("parse(%q) -> error at %d, want %d", test.code, pe.Range().From, test.wantAt)
			}
			if test.wantRootKind != ast.KindInvalid {
				root, ok := pe.State.Context(pe.State.RootID)
				if !ok {
					t.Fatalf("parse(%q) -> no root context", test.code)
				}
				if root.Kind != test.wantRootKind {
					t.Errorf("parse(%q) -> root context %s, want %s", test.code, root.Kind, test.wantRootKind)
				}
				if len(pe.State.ContextNodes) == 0 {
					t.Errorf("parse(%q) -> empty context tree", test.code)
				}
			}
		})
	}
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

var unterminatedString = "\"abc"

func TestParseTextLexError(t *testing.T) {
	_, err := TryParseText(Settings{}, "[test]", unterminatedString)
	if err == nil {
		t.Fatal("lexing an unterminated text literal -> no error")
	}
	if _, isParseError := AsError(err); isParseError {
		t.Errorf("lex failure surfaced as a parse error: %v", err)
	}
}

func TestParseLocaleFallsBack(t *testing.T) {
	_, err := TryParseText(Settings{Locale: "xx-XX"}, "[test]", "if 1 t")
	if err == nil {
		t.Fatal("parse of malformed input -> no error")
	}
	if !strings.Contains(err.Error(), "then") {
		t.Errorf("error message does not mention the expected keyword: %v", err)
	}
}

func TestBackupRestoreLeavesCursorUntouched(t *testing.T) {
	// The parenthesis disambiguator probes a nullable primitive type after
	// `as` with a saved state; a successful parse of the whole document
	// shows the probe restored the cursor and the context tree.
	result := mustParse(t, "(x as number) => x")
	if err := result.Nodes.Check(); err != nil {
		t.Errorf("collection invariants violated after lookahead: %v", err)
	}
	if kind := result.Root.Base().Kind; kind != ast.KindFunctionExpression {
		t.Errorf("root kind is %s, want FunctionExpression", kind)
	}
}
