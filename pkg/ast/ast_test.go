package ast

import (
	"strings"
	"testing"

	"src.mql.sh/pkg/tt"
)

// Node construction helpers for tests. The parser normally seals headers
// via its context tree; here they are filled in directly.

func leaf(kind Kind, literal string, from int) Node {
	var n Node
	switch kind {
	case KindConstant:
		n = &Constant{Value: literal}
	case KindIdentifier:
		n = &Identifier{Literal: literal}
	case KindLiteralExpression:
		n = &LiteralExpression{Literal: literal, LiteralKind: LiteralNumeric}
	default:
		panic("unsupported leaf kind")
	}
	b := n.Base()
	b.Kind = kind
	b.Leaf = true
	b.Tokens = TokenSpan{From: from, To: from + 1}
	return n
}

func ifNode(condition, trueBranch, falseBranch Node) *IfExpression {
	n := &IfExpression{
		If:        leaf(KindConstant, "if", 0).(*Constant),
		Condition: condition,
		Then:      leaf(KindConstant, "then", 2).(*Constant),
		TrueBranch: trueBranch,
		Else:       leaf(KindConstant, "else", 4).(*Constant),
		FalseBranch: falseBranch,
	}
	n.Base().Kind = KindIfExpression
	n.Base().Tokens = TokenSpan{From: 0, To: 6}
	return n
}

func TestChildrenOrder(t *testing.T) {
	n := ifNode(
		leaf(KindLiteralExpression, "1", 1),
		leaf(KindLiteralExpression, "2", 3),
		leaf(KindLiteralExpression, "3", 5))
	children := Children(n)
	want := []string{"if", "1", "then", "2", "else", "3"}
	if len(children) != len(want) {
		t.Fatalf("got %d children, want %d", len(children), len(want))
	}
	for i, child := range children {
		literal, ok := Literal(child)
		if !ok || literal != want[i] {
			t.Errorf("child %d is %q, want %q", i, literal, want[i])
		}
	}
}

func TestChildrenSkipsAbsentOptionals(t *testing.T) {
	n := &ErrorHandlingExpression{
		Try:       leaf(KindConstant, "try", 0).(*Constant),
		Protected: leaf(KindLiteralExpression, "1", 1),
	}
	n.Base().Kind = KindErrorHandlingExpression
	if got := len(Children(n)); got != 2 {
		t.Errorf("got %d children, want 2", got)
	}
}

func TestLiteral(t *testing.T) {
	tt.Test(t, tt.Fn("Literal", func(n Node) (string, bool) { return Literal(n) }), tt.Table{
		tt.Args(leaf(KindIdentifier, "x", 0)).Rets("x", true),
		tt.Args(leaf(KindConstant, "=>", 0)).Rets("=>", true),
		tt.Args(Node(&ListExpression{})).Rets("", false),
	})
}

func TestEqualIgnoresIDs(t *testing.T) {
	a := ifNode(
		leaf(KindLiteralExpression, "1", 1),
		leaf(KindLiteralExpression, "2", 3),
		leaf(KindLiteralExpression, "3", 5))
	b := ifNode(
		leaf(KindLiteralExpression, "1", 1),
		leaf(KindLiteralExpression, "2", 3),
		leaf(KindLiteralExpression, "3", 5))
	b.Base().ID = 42
	b.Condition.Base().ID = 43
	if !Equal(a, b) {
		t.Error("structurally equal trees with different ids compare unequal")
	}

	c := ifNode(
		leaf(KindLiteralExpression, "1", 1),
		leaf(KindLiteralExpression, "9", 3),
		leaf(KindLiteralExpression, "3", 5))
	if Equal(a, c) {
		t.Error("trees with different literals compare equal")
	}
}

func TestPprint(t *testing.T) {
	n := ifNode(
		leaf(KindLiteralExpression, "1", 1),
		leaf(KindLiteralExpression, "2", 3),
		leaf(KindLiteralExpression, "3", 5))
	out := Pprint(n)
	for _, want := range []string{"IfExpression", `Condition=LiteralExpression "1"`, `Else=Constant "else"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Pprint output does not contain %q:\n%s", want, out)
		}
	}
}

func TestKindStrings(t *testing.T) {
	tt.Test(t, tt.Fn("Kind.String", Kind.String), tt.Table{
		tt.Args(KindIfExpression).Rets("IfExpression"),
		tt.Args(KindArrayWrapper).Rets("ArrayWrapper"),
		tt.Args(KindInvalid).Rets("Invalid"),
	})
}
