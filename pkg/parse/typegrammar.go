package parse

import (
	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/token"
	"src.mql.sh/pkg/types"
)

// Type grammar. "table", "function" and "nullable" are contextual
// identifiers, not keywords; the dispatch below inspects their text.

// readType attempts a primary type, and on failure rewinds and falls back to
// a primary expression.
func (p *parser) readType() (ast.Node, error) {
	backup := p.backup()
	primary, err := p.readPrimaryType()
	if err == nil {
		return primary, nil
	}
	p.restore(backup)
	return p.readPrimaryExpression()
}

func (p *parser) readPrimaryType() (ast.Node, error) {
	switch {
	case p.currentKind == token.LeftBracket:
		return p.readRecordType()
	case p.currentKind == token.LeftBrace:
		return p.readListType()
	case p.isOnIdentifier("table") && startsTableRowType(p.kindAt(p.tokenIndex+1)):
		return p.readTableType()
	case p.isOnIdentifier("function") && p.kindAt(p.tokenIndex+1) == token.LeftParenthesis:
		return p.readFunctionType()
	case p.isOnIdentifier("nullable"):
		return p.readNullableType()
	default:
		return p.readPrimitiveType()
	}
}

func startsTableRowType(k token.Kind) bool {
	return k == token.LeftBracket || k == token.Identifier || k == token.AtSign
}

func (p *parser) readRecordType() (ast.Node, error) {
	p.startContext(ast.KindRecordType)
	fields, err := p.readFieldSpecificationList()
	if err != nil {
		return nil, err
	}
	n := &ast.RecordType{Fields: fields}
	p.endContext(n)
	return n, nil
}

func (p *parser) readListType() (ast.Node, error) {
	p.startContext(ast.KindListType)
	open, err := p.readTokenKindAsConstant(token.LeftBrace)
	if err != nil {
		return nil, err
	}
	item, err := p.readType()
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightBrace)
	if err != nil {
		return nil, err
	}
	n := &ast.ListType{Open: open, Item: item, Close: closeConstant}
	p.endContext(n)
	return n, nil
}

func (p *parser) readTableType() (ast.Node, error) {
	p.startContext(ast.KindTableType)
	table := p.readConstant()
	var rows ast.Node
	var err error
	if p.currentKind == token.LeftBracket {
		rows, err = p.readFieldSpecificationList()
	} else {
		rows, err = p.readPrimaryExpression()
	}
	if err != nil {
		return nil, err
	}
	n := &ast.TableType{Table: table, Rows: rows}
	p.endContext(n)
	return n, nil
}

func (p *parser) readFunctionType() (ast.Node, error) {
	p.startContext(ast.KindFunctionType)
	function := p.readConstant()
	parameters, err := p.readParameterList()
	if err != nil {
		return nil, err
	}
	returnType, err := p.readAsNullablePrimitiveType()
	if err != nil {
		return nil, err
	}
	n := &ast.FunctionType{Function: function, Parameters: parameters, ReturnType: returnType}
	p.endContext(n)
	return n, nil
}

func (p *parser) readNullableType() (ast.Node, error) {
	p.startContext(ast.KindNullableType)
	nullable := p.readConstant()
	nullableType, err := p.readType()
	if err != nil {
		return nil, err
	}
	n := &ast.NullableType{Nullable: nullable, Type: nullableType}
	p.endContext(n)
	return n, nil
}

// readPrimitiveType reads a primitive type: an identifier from the closed
// whitelist, the `type` keyword or the null literal. A non-whitelisted
// identifier fails with InvalidPrimitiveType without consuming anything, so
// the caller can try alternatives.
func (p *parser) readPrimitiveType() (ast.Node, error) {
	switch p.currentKind {
	case token.Identifier:
		if _, ok := types.PrimitiveKind(p.current.Data); !ok {
			return nil, p.invalidPrimitiveTypeError(*p.current)
		}
	case token.KeywordType, token.NullLiteral:
	default:
		return nil, p.expectedAnyKindError([]token.Kind{
			token.Identifier, token.KeywordType, token.NullLiteral,
		})
	}
	p.startContext(ast.KindPrimitiveType)
	n := &ast.PrimitiveType{Name: p.readToken()}
	p.endContext(n)
	return n, nil
}

// readNullablePrimitiveType reads `nullable? primitive-type`.
func (p *parser) readNullablePrimitiveType() (ast.Node, error) {
	if !p.isOnIdentifier("nullable") {
		return p.readPrimitiveType()
	}
	p.startContext(ast.KindNullablePrimitiveType)
	nullable := p.readConstant()
	primitive, err := p.readPrimitiveType()
	if err != nil {
		return nil, err
	}
	n := &ast.NullablePrimitiveType{Nullable: nullable, Type: primitive.(*ast.PrimitiveType)}
	p.endContext(n)
	return n, nil
}

// readAsNullablePrimitiveType reads `as nullable? primitive-type`.
func (p *parser) readAsNullablePrimitiveType() (*ast.AsNullablePrimitiveType, error) {
	p.startContext(ast.KindAsNullablePrimitiveType)
	as, err := p.readTokenKindAsConstant(token.KeywordAs)
	if err != nil {
		return nil, err
	}
	asType, err := p.readNullablePrimitiveType()
	if err != nil {
		return nil, err
	}
	n := &ast.AsNullablePrimitiveType{As: as, Type: asType}
	p.endContext(n)
	return n, nil
}

// readFieldSpecificationList reads `[ field-spec (, field-spec)* ...? ]`.
func (p *parser) readFieldSpecificationList() (*ast.FieldSpecificationList, error) {
	p.startContext(ast.KindFieldSpecificationList)
	open, err := p.readTokenKindAsConstant(token.LeftBracket)
	if err != nil {
		return nil, err
	}
	fields, err := p.readCsvArray(p.readFieldSpecification, func() bool {
		return p.currentKind == token.RightBracket || p.currentKind == token.Ellipsis
	})
	if err != nil {
		return nil, err
	}
	openRecordMark := p.maybeReadTokenKindAsConstant(token.Ellipsis)
	closeConstant, err := p.readTokenKindAsConstant(token.RightBracket)
	if err != nil {
		return nil, err
	}
	n := &ast.FieldSpecificationList{
		Open: open, Fields: fields, OpenRecordMark: openRecordMark, Close: closeConstant,
	}
	p.endContext(n)
	return n, nil
}

func (p *parser) readFieldSpecification() (ast.Node, error) {
	p.startContext(ast.KindFieldSpecification)
	var optional *ast.Constant
	if p.isOnIdentifier("optional") && p.kindAt(p.tokenIndex+1) != token.Equal {
		optional = p.readConstant()
	} else {
		p.incrementAttributeCounter()
	}
	name, err := p.readGeneralizedIdentifier()
	if err != nil {
		return nil, err
	}
	var fieldType *ast.FieldTypeSpecification
	if p.currentKind == token.Equal {
		p.startContext(ast.KindFieldTypeSpecification)
		equal := p.readConstant()
		typeNode, err := p.readType()
		if err != nil {
			return nil, err
		}
		fieldType = &ast.FieldTypeSpecification{Equal: equal, Type: typeNode}
		p.endContext(fieldType)
	} else {
		p.incrementAttributeCounter()
	}
	n := &ast.FieldSpecification{Optional: optional, Name: name, Type: fieldType}
	p.endContext(n)
	return n, nil
}
