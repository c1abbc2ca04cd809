package inspect

import (
	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/nodemap"
	"src.mql.sh/pkg/parse"
	"src.mql.sh/pkg/types"
)

// TryType computes the static type of the given node reference. Context
// nodes of a partial parse yield the unknown type.
func TryType(settings parse.Settings, nodes *nodemap.Collection, leafIDs map[int]struct{},
	x nodemap.XorNode, cache *TypeCache) (types.T, error) {

	s := newState(inspector{nodes, leafIDs}, cache)
	t, err := s.typeOf(x)
	if err != nil {
		return types.T{}, err
	}
	s.commit()
	return t, nil
}

func (s *state) typeOf(x nodemap.XorNode) (types.T, error) {
	id := x.ID()
	if t, ok := s.typeFor(id); ok {
		return t, nil
	}
	if s.computing[id] {
		// Reference cycle, e.g. `let x = x in x`.
		return types.Of(types.Unknown), nil
	}
	s.computing[id] = true
	defer delete(s.computing, id)

	t, err := s.computeType(x)
	if err != nil {
		return types.T{}, err
	}
	s.deltaType[id] = t
	return t, nil
}

func (s *state) computeType(x nodemap.XorNode) (types.T, error) {
	if !x.IsAST() {
		return types.Of(types.Unknown), nil
	}

	switch n := x.AST.(type) {
	case *ast.Constant:
		return types.Of(types.NotApplicable), nil
	case *ast.LiteralExpression:
		return literalType(n.LiteralKind), nil
	case *ast.PrimitiveType:
		return primitiveType(n.Name), nil
	case *ast.NullablePrimitiveType:
		t := primitiveType(n.Type.Name)
		t.Nullable = true
		return t, nil
	case *ast.IdentifierExpression:
		return s.identifierType(x, n)
	case *ast.ParenthesizedExpression:
		return s.typeOf(nodemap.AstXor(n.Content))
	case *ast.IfExpression:
		return s.branchType(n.TrueBranch, n.FalseBranch)
	case *ast.RecordExpression:
		return types.Of(types.Record), nil
	case *ast.ListExpression:
		return types.Of(types.List), nil
	case *ast.FunctionExpression, *ast.EachExpression:
		return types.Of(types.Function), nil
	case *ast.LetExpression:
		return s.typeOf(nodemap.AstXor(n.Body))
	case *ast.MetadataExpression:
		return s.typeOf(nodemap.AstXor(n.Left))
	case *ast.ErrorHandlingExpression:
		if n.Otherwise == nil {
			return s.typeOf(nodemap.AstXor(n.Protected))
		}
		return s.branchType(n.Protected, n.Otherwise.Fallback)
	case *ast.ErrorRaisingExpression:
		return types.Of(types.None), nil
	case *ast.NotImplementedExpression:
		return types.Of(types.None), nil
	case *ast.UnaryExpression:
		return unaryType(n), nil
	case *ast.BinOpExpression:
		return s.binOpType(n)
	case *ast.RecursivePrimaryExpression:
		// Invocations and accesses are not evaluated statically.
		return types.Of(types.Any), nil
	case *ast.TypePrimaryType:
		return types.Of(types.Type), nil
	case *ast.RecordType, *ast.ListType, *ast.TableType, *ast.FunctionType, *ast.NullableType:
		return types.Of(types.Type), nil
	case *ast.Parameter:
		return parameterType(n), nil
	default:
		return types.Of(types.Unknown), nil
	}
}

func literalType(k ast.LiteralKind) types.T {
	switch k {
	case ast.LiteralLogical:
		return types.Of(types.Logical)
	case ast.LiteralNull:
		return types.Of(types.Null)
	case ast.LiteralNumeric:
		return types.Of(types.Number)
	case ast.LiteralText:
		return types.Of(types.Text)
	}
	return types.Of(types.Unknown)
}

func primitiveType(name string) types.T {
	switch name {
	case "type":
		return types.Of(types.Type)
	case "null":
		return types.Of(types.Null)
	}
	if kind, ok := types.PrimitiveKind(name); ok {
		return types.Of(kind)
	}
	return types.Of(types.Unknown)
}

func parameterType(n *ast.Parameter) types.T {
	if n.Type == nil {
		return types.Of(types.Any)
	}
	t := astNullablePrimitiveType(n.Type.Type)
	if n.Optional != nil {
		t.Nullable = true
	}
	return t
}

func astNullablePrimitiveType(n ast.Node) types.T {
	switch n := n.(type) {
	case *ast.PrimitiveType:
		return primitiveType(n.Name)
	case *ast.NullablePrimitiveType:
		t := primitiveType(n.Type.Name)
		t.Nullable = true
		return t
	}
	return types.Of(types.Unknown)
}

func unaryType(n *ast.UnaryExpression) types.T {
	for _, op := range n.Operators.Elements {
		if constant, ok := op.(*ast.Constant); ok && constant.Value == "not" {
			return types.Of(types.Logical)
		}
	}
	return types.Of(types.Number)
}

// identifierType resolves an identifier through the scope visible at its
// use site.
func (s *state) identifierType(x nodemap.XorNode, n *ast.IdentifierExpression) (types.T, error) {
	scope, err := s.scopeOf(x.ID())
	if err != nil {
		return types.T{}, err
	}
	name := normalizeIdentifier(n.Identifier.Literal)
	item, ok := scope[name]
	if !ok || item.Value == (nodemap.XorNode{}) {
		return types.Of(types.Unknown), nil
	}
	return s.typeOf(item.Value)
}

// branchType is the type of a two-way branch: the common type when both
// sides agree, any otherwise.
func (s *state) branchType(a, b ast.Node) (types.T, error) {
	ta, err := s.typeOf(nodemap.AstXor(a))
	if err != nil {
		return types.T{}, err
	}
	tb, err := s.typeOf(nodemap.AstXor(b))
	if err != nil {
		return types.T{}, err
	}
	if ta == tb {
		return ta, nil
	}
	return types.Of(types.Any), nil
}

func (s *state) binOpType(n *ast.BinOpExpression) (types.T, error) {
	switch n.Base().Kind {
	case ast.KindLogicalExpression, ast.KindIsExpression,
		ast.KindEqualityExpression, ast.KindRelationalExpression:
		return types.Of(types.Logical), nil
	case ast.KindAsExpression:
		return astNullablePrimitiveType(n.Right), nil
	case ast.KindArithmeticExpression:
		if n.Operator.Value == "&" {
			return s.concatenationType(n)
		}
		return types.Of(types.Number), nil
	}
	return types.Of(types.Unknown), nil
}

// concatenationType resolves `&`, which concatenates text, lists and
// records; the operand types decide.
func (s *state) concatenationType(n *ast.BinOpExpression) (types.T, error) {
	left, err := s.typeOf(nodemap.AstXor(n.Left))
	if err != nil {
		return types.T{}, err
	}
	right, err := s.typeOf(nodemap.AstXor(n.Right))
	if err != nil {
		return types.T{}, err
	}
	if left == right {
		return left, nil
	}
	return types.Of(types.Any), nil
}
