package parse

import (
	"fmt"
	"reflect"
	"strings"

	"src.mql.sh/pkg/ast"
)

// Tree checking utilities. Used in test cases.

// shape is a tree specification. The name part identifies the kind of the
// node, e.g. "IfExpression". When a node contains exactly one child, it can
// be coalesced with its child by adding "/ChildKind" in the name part.
//
// The fields part specifies children to check by struct field name; see
// checkField for the checking rules.
type shape struct {
	name   string
	fields fs
}

// fs specifies fields of a node to check. For the value of field $f in the
// node, fs[$f] is used to check against it:
//
//   - a nil wanted value checks that the field is absent;
//   - a shape applies the checking algorithm of shape recursively;
//   - a string checks the literal of a leaf node, or the space-joined leaf
//     literals of an interior node;
//   - a []any checks the elements of an ArrayWrapper or node slice;
//   - anything else is checked with reflect.DeepEqual.
type fs map[string]any

func checkShape(n ast.Node, want shape) error {
	names := strings.Split(want.name, "/")
	for i, name := range names {
		if got := n.Base().Kind.String(); got != name {
			return fmt.Errorf("want %s, got %s", name, got)
		}
		if i == len(names)-1 {
			break
		}
		children := ast.Children(n)
		if len(children) != 1 {
			return fmt.Errorf("cannot coalesce %s with %d children", name, len(children))
		}
		n = children[0]
	}
	for fieldName, wantValue := range want.fields {
		fv := reflect.ValueOf(n).Elem().FieldByName(fieldName)
		if !fv.IsValid() {
			return fmt.Errorf("%s has no field %s", n.Base().Kind, fieldName)
		}
		if err := checkField(fv.Interface(), wantValue); err != nil {
			return fmt.Errorf("field %s of %s: %w", fieldName, n.Base().Kind, err)
		}
	}
	return nil
}

func checkField(got any, want any) error {
	if want == nil {
		if got == nil || reflect.ValueOf(got).IsNil() {
			return nil
		}
		return fmt.Errorf("want absent, got %v", got)
	}

	if wrapper, ok := got.(*ast.ArrayWrapper); ok {
		if _, isSlice := want.([]any); isSlice {
			got = wrapper.Elements
		}
	}

	switch want := want.(type) {
	case shape:
		n, ok := got.(ast.Node)
		if !ok {
			return fmt.Errorf("want node, got %T", got)
		}
		return checkShape(n, want)
	case string:
		n, ok := got.(ast.Node)
		if !ok {
			return fmt.Errorf("want node, got %T", got)
		}
		if text := flatten(n); text != want {
			return fmt.Errorf("want %q, got %q", want, text)
		}
		return nil
	case []any:
		gv := reflect.ValueOf(got)
		if gv.Kind() != reflect.Slice {
			return fmt.Errorf("want slice, got %T", got)
		}
		if gv.Len() != len(want) {
			return fmt.Errorf("want %d elements, got %d", len(want), gv.Len())
		}
		for i, wantElement := range want {
			if err := checkField(gv.Index(i).Interface(), wantElement); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	default:
		if !reflect.DeepEqual(got, want) {
			return fmt.Errorf("want %v, got %v", want, got)
		}
		return nil
	}
}

// flatten joins the leaf literals under n with single spaces.
func flatten(n ast.Node) string {
	if literal, ok := ast.Literal(n); ok {
		return literal
	}
	var parts []string
	for _, child := range ast.Children(n) {
		parts = append(parts, flatten(child))
	}
	return strings.Join(parts, " ")
}
