package parse

import (
	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/token"
)

// The grammar is implemented by mutually recursive reader methods. Each
// reader opens a context, reads its children in order, and either closes the
// context with an AST node of the declared kind, or deletes it to collapse
// into its single child. A reader either returns a node or fails the whole
// attempt; failed speculative reads are covered by backup/restore pairs.

// expressionStartKinds is the expected set reported when no reader can make
// sense of the current token in expression position.
var expressionStartKinds = func() []token.Kind {
	kinds := []token.Kind{
		token.Identifier,
		token.AtSign,
		token.LeftParenthesis,
		token.LeftBracket,
		token.LeftBrace,
		token.Ellipsis,
		token.NumericLiteral,
		token.HexLiteral,
		token.TextLiteral,
		token.NullLiteral,
	}
	return append(kinds, token.ExpressionStartKeywords...)
}()

func (p *parser) readExpression() (ast.Node, error) {
	switch p.currentKind {
	case token.KeywordEach:
		return p.readEachExpression()
	case token.KeywordLet:
		return p.readLetExpression()
	case token.KeywordIf:
		return p.readIfExpression()
	case token.KeywordError:
		return p.readErrorRaisingExpression()
	case token.KeywordTry:
		return p.readErrorHandlingExpression()
	case token.LeftParenthesis:
		d, err := p.disambiguateParenthesis()
		if err != nil {
			return nil, err
		}
		if d == parenFunction {
			return p.readFunctionExpression()
		}
		return p.readLogicalExpression()
	default:
		return p.readLogicalExpression()
	}
}

// Binary operator ladder. Levels fold left-associatively: each time an
// operator is found, a new context of the level's kind opens and the node
// parsed so far is re-parented under it as the left operand.

func (p *parser) readBinOp(kind ast.Kind, isOp func(token.Kind) bool,
	readLeft, readRight func() (ast.Node, error)) (ast.Node, error) {

	left, err := readLeft()
	if err != nil {
		return nil, err
	}
	for p.current != nil && isOp(p.currentKind) {
		parent := p.currentContext
		ctx := p.startContext(kind)
		p.nodes.ReparentUnderContext(left, ctx, parent)
		operator := p.readConstant()
		right, err := readRight()
		if err != nil {
			return nil, err
		}
		n := &ast.BinOpExpression{Left: left, Operator: operator, Right: right}
		p.endContext(n)
		left = n
	}
	return left, nil
}

func (p *parser) readLogicalExpression() (ast.Node, error) {
	return p.readBinOp(ast.KindLogicalExpression,
		func(k token.Kind) bool { return k == token.KeywordAnd || k == token.KeywordOr },
		p.readIsExpression, p.readIsExpression)
}

func (p *parser) readIsExpression() (ast.Node, error) {
	return p.readBinOp(ast.KindIsExpression,
		func(k token.Kind) bool { return k == token.KeywordIs },
		p.readAsExpression, p.readNullablePrimitiveType)
}

func (p *parser) readAsExpression() (ast.Node, error) {
	return p.readBinOp(ast.KindAsExpression,
		func(k token.Kind) bool { return k == token.KeywordAs },
		p.readEqualityExpression, p.readNullablePrimitiveType)
}

func (p *parser) readEqualityExpression() (ast.Node, error) {
	return p.readBinOp(ast.KindEqualityExpression,
		func(k token.Kind) bool { return k == token.Equal || k == token.NotEqual },
		p.readRelationalExpression, p.readRelationalExpression)
}

func (p *parser) readRelationalExpression() (ast.Node, error) {
	return p.readBinOp(ast.KindRelationalExpression,
		func(k token.Kind) bool {
			switch k {
			case token.LessThan, token.LessThanEqualTo, token.GreaterThan, token.GreaterThanEqualTo:
				return true
			}
			return false
		},
		p.readArithmeticExpression, p.readArithmeticExpression)
}

func (p *parser) readArithmeticExpression() (ast.Node, error) {
	return p.readBinOp(ast.KindArithmeticExpression,
		func(k token.Kind) bool {
			switch k {
			case token.Plus, token.Minus, token.Ampersand, token.Asterisk, token.Division:
				return true
			}
			return false
		},
		p.readMetadataExpression, p.readMetadataExpression)
}

// readMetadataExpression reads `unary (meta unary)?`. The context opens
// before the operand; with no meta suffix it collapses into the operand.
func (p *parser) readMetadataExpression() (ast.Node, error) {
	p.startContext(ast.KindMetadataExpression)
	left, err := p.readUnaryExpression()
	if err != nil {
		return nil, err
	}
	if p.currentKind != token.KeywordMeta {
		p.deleteContext()
		return left, nil
	}
	meta := p.readConstant()
	right, err := p.readUnaryExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.MetadataExpression{Left: left, Meta: meta, Right: right}
	p.endContext(n)
	return n, nil
}

func isUnaryOperator(k token.Kind) bool {
	return k == token.Plus || k == token.Minus || k == token.KeywordNot
}

func (p *parser) readUnaryExpression() (ast.Node, error) {
	if !isUnaryOperator(p.currentKind) {
		return p.readTypeExpression()
	}
	p.startContext(ast.KindUnaryExpression)
	p.startContext(ast.KindArrayWrapper)
	var operators []ast.Node
	for isUnaryOperator(p.currentKind) {
		operators = append(operators, p.readConstant())
	}
	wrapper := &ast.ArrayWrapper{Elements: operators}
	p.endContext(wrapper)
	operand, err := p.readTypeExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.UnaryExpression{Operators: wrapper, Operand: operand}
	p.endContext(n)
	return n, nil
}

// readTypeExpression reads `type primary-type`, or falls through to a
// primary expression.
func (p *parser) readTypeExpression() (ast.Node, error) {
	if p.currentKind != token.KeywordType {
		return p.readPrimaryExpression()
	}
	p.startContext(ast.KindTypePrimaryType)
	typeConstant := p.readConstant()
	primary, err := p.readPrimaryType()
	if err != nil {
		return nil, err
	}
	n := &ast.TypePrimaryType{Type: typeConstant, Primary: primary}
	p.endContext(n)
	return n, nil
}

// Primary expressions.

func (p *parser) readPrimaryExpression() (ast.Node, error) {
	var head ast.Node
	var err error
	switch {
	case p.currentKind == token.AtSign || p.currentKind == token.Identifier:
		head, err = p.readIdentifierExpression()
	case p.currentKind == token.LeftParenthesis:
		head, err = p.readParenthesizedExpression()
	case p.currentKind == token.LeftBracket:
		head, err = p.readBracketExpression()
	case p.currentKind == token.LeftBrace:
		head, err = p.readListExpression()
	case p.currentKind == token.Ellipsis:
		head, err = p.readNotImplementedExpression()
	case token.IsKeyword(p.currentKind) && token.KeywordText(p.currentKind)[0] == '#':
		head, err = p.readKeywordExpression()
	default:
		head, err = p.readLiteralExpression()
	}
	if err != nil {
		return nil, err
	}

	switch p.currentKind {
	case token.LeftParenthesis, token.LeftBracket, token.LeftBrace:
		return p.readRecursivePrimaryExpression(head)
	}
	return head, nil
}

// readRecursivePrimaryExpression wraps an already finished head primary in a
// RecursivePrimaryExpression and reads the invoke / item-access /
// field-access suffixes. The enclosing node's kind is only known after the
// head has been parsed, so the head is re-parented under a context that
// opens after it closed.
func (p *parser) readRecursivePrimaryExpression(head ast.Node) (ast.Node, error) {
	parent := p.currentContext
	ctx := p.startContext(ast.KindRecursivePrimaryExpression)
	p.nodes.ReparentUnderContext(head, ctx, parent)

	p.startContext(ast.KindArrayWrapper)
	var suffixes []ast.Node
loop:
	for {
		switch p.currentKind {
		case token.LeftParenthesis:
			invoke, err := p.readInvokeExpression()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, invoke)
		case token.LeftBrace:
			item, err := p.readItemAccessExpression()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, item)
		case token.LeftBracket:
			d, err := p.disambiguateBracket()
			if err != nil {
				return nil, err
			}
			switch d {
			case bracketFieldSelection:
				selector, err := p.readFieldSelector(true)
				if err != nil {
					return nil, err
				}
				suffixes = append(suffixes, selector)
			case bracketFieldProjection:
				projection, err := p.readFieldProjection()
				if err != nil {
					return nil, err
				}
				suffixes = append(suffixes, projection)
			default:
				// A record literal cannot continue a primary expression.
				break loop
			}
		default:
			break loop
		}
	}
	wrapper := &ast.ArrayWrapper{Elements: suffixes}
	p.endContext(wrapper)

	n := &ast.RecursivePrimaryExpression{Head: head, Recursive: wrapper}
	p.endContext(n)
	return n, nil
}

func (p *parser) readIdentifierExpression() (ast.Node, error) {
	p.startContext(ast.KindIdentifierExpression)
	inclusive := p.maybeReadTokenKindAsConstant(token.AtSign)
	identifier, err := p.readIdentifier()
	if err != nil {
		return nil, err
	}
	n := &ast.IdentifierExpression{Inclusive: inclusive, Identifier: identifier}
	p.endContext(n)
	return n, nil
}

// readKeywordExpression reads a #-keyword like #table or #sections as an
// identifier expression.
func (p *parser) readKeywordExpression() (ast.Node, error) {
	p.startContext(ast.KindIdentifierExpression)
	p.incrementAttributeCounter() // no inclusive-scope constant
	p.startContext(ast.KindIdentifier)
	identifier := &ast.Identifier{Literal: p.readToken()}
	p.endContext(identifier)
	n := &ast.IdentifierExpression{Identifier: identifier}
	p.endContext(n)
	return n, nil
}

func (p *parser) readLiteralExpression() (ast.Node, error) {
	var literalKind ast.LiteralKind
	switch p.currentKind {
	case token.KeywordTrue, token.KeywordFalse:
		literalKind = ast.LiteralLogical
	case token.NullLiteral:
		literalKind = ast.LiteralNull
	case token.NumericLiteral, token.HexLiteral:
		literalKind = ast.LiteralNumeric
	case token.TextLiteral:
		literalKind = ast.LiteralText
	default:
		return nil, p.expectedAnyKindError(expressionStartKinds)
	}
	p.startContext(ast.KindLiteralExpression)
	n := &ast.LiteralExpression{Literal: p.readToken(), LiteralKind: literalKind}
	p.endContext(n)
	return n, nil
}

func (p *parser) readParenthesizedExpression() (ast.Node, error) {
	p.startContext(ast.KindParenthesizedExpression)
	open, err := p.readTokenKindAsConstant(token.LeftParenthesis)
	if err != nil {
		return nil, err
	}
	content, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightParenthesis)
	if err != nil {
		return nil, err
	}
	n := &ast.ParenthesizedExpression{Open: open, Content: content, Close: closeConstant}
	p.endContext(n)
	return n, nil
}

func (p *parser) readNotImplementedExpression() (ast.Node, error) {
	p.startContext(ast.KindNotImplementedExpression)
	ellipsis, err := p.readTokenKindAsConstant(token.Ellipsis)
	if err != nil {
		return nil, err
	}
	n := &ast.NotImplementedExpression{Ellipsis: ellipsis}
	p.endContext(n)
	return n, nil
}

func (p *parser) readInvokeExpression() (ast.Node, error) {
	p.startContext(ast.KindInvokeExpression)
	open, err := p.readTokenKindAsConstant(token.LeftParenthesis)
	if err != nil {
		return nil, err
	}
	args, err := p.readCsvArray(p.readExpression, func() bool {
		return p.currentKind == token.RightParenthesis
	})
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightParenthesis)
	if err != nil {
		return nil, err
	}
	n := &ast.InvokeExpression{Open: open, Args: args, Close: closeConstant}
	p.endContext(n)
	return n, nil
}

func (p *parser) readListExpression() (ast.Node, error) {
	p.startContext(ast.KindListExpression)
	open, err := p.readTokenKindAsConstant(token.LeftBrace)
	if err != nil {
		return nil, err
	}
	items, err := p.readCsvArray(p.readListItem, func() bool {
		return p.currentKind == token.RightBrace
	})
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightBrace)
	if err != nil {
		return nil, err
	}
	n := &ast.ListExpression{Open: open, Items: items, Close: closeConstant}
	p.endContext(n)
	return n, nil
}

// readListItem reads an expression, possibly extended into a range
// `left..right`.
func (p *parser) readListItem() (ast.Node, error) {
	left, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	if p.currentKind != token.DotDot {
		return left, nil
	}
	parent := p.currentContext
	ctx := p.startContext(ast.KindRangeExpression)
	p.nodes.ReparentUnderContext(left, ctx, parent)
	dotDot := p.readConstant()
	right, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.RangeExpression{Left: left, DotDot: dotDot, Right: right}
	p.endContext(n)
	return n, nil
}

func (p *parser) readRecordExpression() (ast.Node, error) {
	p.startContext(ast.KindRecordExpression)
	open, err := p.readTokenKindAsConstant(token.LeftBracket)
	if err != nil {
		return nil, err
	}
	fields, err := p.readCsvArray(p.readGeneralizedIdentifierPairedExpression, func() bool {
		return p.currentKind == token.RightBracket
	})
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightBracket)
	if err != nil {
		return nil, err
	}
	n := &ast.RecordExpression{Open: open, Fields: fields, Close: closeConstant}
	p.endContext(n)
	return n, nil
}

// readBracketExpression dispatches a `[` opening in primary-expression
// position.
func (p *parser) readBracketExpression() (ast.Node, error) {
	d, err := p.disambiguateBracket()
	if err != nil {
		return nil, err
	}
	switch d {
	case bracketRecord:
		return p.readRecordExpression()
	case bracketFieldProjection:
		return p.readFieldProjection()
	default:
		return p.readFieldSelector(true)
	}
}

// readFieldSelector reads `[name]`, with an optional trailing ? when
// allowOptional is set.
func (p *parser) readFieldSelector(allowOptional bool) (ast.Node, error) {
	p.startContext(ast.KindFieldSelector)
	open, err := p.readTokenKindAsConstant(token.LeftBracket)
	if err != nil {
		return nil, err
	}
	field, err := p.readGeneralizedIdentifier()
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightBracket)
	if err != nil {
		return nil, err
	}
	var optionalMark *ast.Constant
	if allowOptional {
		optionalMark = p.maybeReadTokenKindAsConstant(token.QuestionMark)
	} else {
		p.incrementAttributeCounter()
	}
	n := &ast.FieldSelector{Open: open, Field: field, Close: closeConstant, OptionalMark: optionalMark}
	p.endContext(n)
	return n, nil
}

func (p *parser) readFieldProjection() (ast.Node, error) {
	p.startContext(ast.KindFieldProjection)
	open, err := p.readTokenKindAsConstant(token.LeftBracket)
	if err != nil {
		return nil, err
	}
	selectors, err := p.readCsvArray(
		func() (ast.Node, error) { return p.readFieldSelector(false) },
		func() bool { return p.currentKind == token.RightBracket })
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightBracket)
	if err != nil {
		return nil, err
	}
	optionalMark := p.maybeReadTokenKindAsConstant(token.QuestionMark)
	n := &ast.FieldProjection{Open: open, Selectors: selectors, Close: closeConstant, OptionalMark: optionalMark}
	p.endContext(n)
	return n, nil
}

func (p *parser) readItemAccessExpression() (ast.Node, error) {
	p.startContext(ast.KindItemAccessExpression)
	open, err := p.readTokenKindAsConstant(token.LeftBrace)
	if err != nil {
		return nil, err
	}
	key, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	closeConstant, err := p.readTokenKindAsConstant(token.RightBrace)
	if err != nil {
		return nil, err
	}
	optionalMark := p.maybeReadTokenKindAsConstant(token.QuestionMark)
	n := &ast.ItemAccessExpression{Open: open, Key: key, Close: closeConstant, OptionalMark: optionalMark}
	p.endContext(n)
	return n, nil
}

// Structured expressions.

func (p *parser) readIfExpression() (ast.Node, error) {
	p.startContext(ast.KindIfExpression)
	ifConstant, err := p.readTokenKindAsConstant(token.KeywordIf)
	if err != nil {
		return nil, err
	}
	condition, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	thenConstant, err := p.readTokenKindAsConstant(token.KeywordThen)
	if err != nil {
		return nil, err
	}
	trueBranch, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	elseConstant, err := p.readTokenKindAsConstant(token.KeywordElse)
	if err != nil {
		return nil, err
	}
	falseBranch, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.IfExpression{
		If: ifConstant, Condition: condition,
		Then: thenConstant, TrueBranch: trueBranch,
		Else: elseConstant, FalseBranch: falseBranch,
	}
	p.endContext(n)
	return n, nil
}

func (p *parser) readEachExpression() (ast.Node, error) {
	p.startContext(ast.KindEachExpression)
	each, err := p.readTokenKindAsConstant(token.KeywordEach)
	if err != nil {
		return nil, err
	}
	body, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.EachExpression{Each: each, Body: body}
	p.endContext(n)
	return n, nil
}

func (p *parser) readLetExpression() (ast.Node, error) {
	p.startContext(ast.KindLetExpression)
	let, err := p.readTokenKindAsConstant(token.KeywordLet)
	if err != nil {
		return nil, err
	}
	bindings, err := p.readCsvArray(p.readIdentifierPairedExpression, func() bool {
		return p.currentKind == token.KeywordIn || p.current == nil
	})
	if err != nil {
		return nil, err
	}
	if len(bindings.Elements) == 0 {
		return nil, p.expectedKindError(token.Identifier)
	}
	in, err := p.readTokenKindAsConstant(token.KeywordIn)
	if err != nil {
		return nil, err
	}
	body, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.LetExpression{Let: let, Bindings: bindings, In: in, Body: body}
	p.endContext(n)
	return n, nil
}

func (p *parser) readErrorRaisingExpression() (ast.Node, error) {
	p.startContext(ast.KindErrorRaisingExpression)
	errorConstant, err := p.readTokenKindAsConstant(token.KeywordError)
	if err != nil {
		return nil, err
	}
	payload, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.ErrorRaisingExpression{Error: errorConstant, Payload: payload}
	p.endContext(n)
	return n, nil
}

func (p *parser) readErrorHandlingExpression() (ast.Node, error) {
	p.startContext(ast.KindErrorHandlingExpression)
	try, err := p.readTokenKindAsConstant(token.KeywordTry)
	if err != nil {
		return nil, err
	}
	protected, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	var otherwise *ast.OtherwiseExpression
	if p.currentKind == token.KeywordOtherwise {
		p.startContext(ast.KindOtherwiseExpression)
		otherwiseConstant := p.readConstant()
		fallback, err := p.readExpression()
		if err != nil {
			return nil, err
		}
		otherwise = &ast.OtherwiseExpression{Otherwise: otherwiseConstant, Fallback: fallback}
		p.endContext(otherwise)
	} else {
		p.incrementAttributeCounter()
	}
	n := &ast.ErrorHandlingExpression{Try: try, Protected: protected, Otherwise: otherwise}
	p.endContext(n)
	return n, nil
}

func (p *parser) readFunctionExpression() (ast.Node, error) {
	p.startContext(ast.KindFunctionExpression)
	parameters, err := p.readParameterList()
	if err != nil {
		return nil, err
	}
	var returnType *ast.AsNullablePrimitiveType
	if p.currentKind == token.KeywordAs {
		returnType, err = p.readAsNullablePrimitiveType()
		if err != nil {
			return nil, err
		}
	} else {
		p.incrementAttributeCounter()
	}
	arrow, err := p.readTokenKindAsConstant(token.FatArrow)
	if err != nil {
		return nil, err
	}
	body, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.FunctionExpression{
		Parameters: parameters, ReturnType: returnType, Arrow: arrow, Body: body,
	}
	p.endContext(n)
	return n, nil
}

// readParameterList reads `( param (, param)* )`. Once an optional
// parameter has been seen, every following parameter must be optional too.
func (p *parser) readParameterList() (*ast.ParameterList, error) {
	p.startContext(ast.KindParameterList)
	open, err := p.readTokenKindAsConstant(token.LeftParenthesis)
	if err != nil {
		return nil, err
	}

	seenOptional := false
	params, err := p.readCsvArray(
		func() (ast.Node, error) {
			param, err := p.readParameter()
			if err != nil {
				return nil, err
			}
			if param.Optional != nil {
				seenOptional = true
			} else if seenOptional {
				var name *token.Token
				if param.Name != nil {
					span := param.Name.Base().Tokens
					name = &p.snapshot.Tokens[span.From]
				}
				return nil, p.requiredParameterAfterOptionalError(name)
			}
			return param, nil
		},
		func() bool { return p.currentKind == token.RightParenthesis })
	if err != nil {
		return nil, err
	}

	closeConstant, err := p.readTokenKindAsConstant(token.RightParenthesis)
	if err != nil {
		return nil, err
	}
	n := &ast.ParameterList{Open: open, Params: params, Close: closeConstant}
	p.endContext(n)
	return n, nil
}

func (p *parser) readParameter() (*ast.Parameter, error) {
	p.startContext(ast.KindParameter)
	var optional *ast.Constant
	// "optional" is a contextual name: it marks the parameter only when
	// another identifier follows.
	if p.isOnIdentifier("optional") && p.kindAt(p.tokenIndex+1) == token.Identifier {
		optional = p.readConstant()
	} else {
		p.incrementAttributeCounter()
	}
	name, err := p.readIdentifier()
	if err != nil {
		return nil, err
	}
	var parameterType *ast.AsNullablePrimitiveType
	if p.currentKind == token.KeywordAs {
		parameterType, err = p.readAsNullablePrimitiveType()
		if err != nil {
			return nil, err
		}
	} else {
		p.incrementAttributeCounter()
	}
	n := &ast.Parameter{Optional: optional, Name: name, Type: parameterType}
	p.endContext(n)
	return n, nil
}

// Key-value readers.

func (p *parser) readIdentifierPairedExpression() (ast.Node, error) {
	p.startContext(ast.KindIdentifierPairedExpression)
	key, err := p.readIdentifier()
	if err != nil {
		return nil, err
	}
	equal, err := p.readTokenKindAsConstant(token.Equal)
	if err != nil {
		return nil, err
	}
	value, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.IdentifierPairedExpression{Key: key, Equal: equal, Value: value}
	p.endContext(n)
	return n, nil
}

func (p *parser) readGeneralizedIdentifierPairedExpression() (ast.Node, error) {
	p.startContext(ast.KindGeneralizedIdentifierPairedExpression)
	key, err := p.readGeneralizedIdentifier()
	if err != nil {
		return nil, err
	}
	equal, err := p.readTokenKindAsConstant(token.Equal)
	if err != nil {
		return nil, err
	}
	value, err := p.readExpression()
	if err != nil {
		return nil, err
	}
	n := &ast.GeneralizedIdentifierPairedExpression{Key: key, Equal: equal, Value: value}
	p.endContext(n)
	return n, nil
}

// readGeneralizedIdentifier accepts contiguous identifier-like tokens with
// no whitespace between them, reconstructing the literal by slicing the
// source text between the first token's start and the last token's end. A
// generalized identifier consisting solely of digits is consumed as one
// numeric-literal token.
func (p *parser) readGeneralizedIdentifier() (*ast.GeneralizedIdentifier, error) {
	p.startContext(ast.KindGeneralizedIdentifier)

	first := p.tokenIndex
	if p.currentKind == token.NumericLiteral && allDigits(p.current.Data) {
		p.readToken()
	} else {
		endOffset := -1
		for p.current != nil && isGeneralizedIdentifierToken(p.currentKind) &&
			(p.tokenIndex == first || p.current.Start.Offset == endOffset) {
			endOffset = p.current.End.Offset
			p.readToken()
		}
	}
	if p.tokenIndex == first {
		return nil, p.expectedKindError(token.Identifier)
	}

	startOffset := p.snapshot.Tokens[first].Start.Offset
	lastEnd := p.snapshot.Tokens[p.tokenIndex-1].End.Offset
	n := &ast.GeneralizedIdentifier{Literal: p.snapshot.Text[startOffset:lastEnd]}
	p.endContext(n)
	return n, nil
}

func isGeneralizedIdentifierToken(k token.Kind) bool {
	return k == token.Identifier || k == token.NullLiteral || token.IsKeyword(k)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// readCsvArray reads `value (',' value)*` with an optional trailing comma,
// wrapping each value in a Csv node that records its comma. The terminator
// check decides both when the sequence ends and whether a trailing comma was
// final.
func (p *parser) readCsvArray(readValue func() (ast.Node, error), isOnTerminator func() bool) (*ast.ArrayWrapper, error) {
	p.startContext(ast.KindArrayWrapper)
	var elements []ast.Node
	for p.current != nil && !isOnTerminator() {
		p.startContext(ast.KindCsv)
		value, err := readValue()
		if err != nil {
			return nil, err
		}
		comma := p.maybeReadTokenKindAsConstant(token.Comma)
		csv := &ast.Csv{Value: value, Comma: comma}
		p.endContext(csv)
		elements = append(elements, csv)
		if comma == nil {
			break
		}
	}
	wrapper := &ast.ArrayWrapper{Elements: elements}
	p.endContext(wrapper)
	return wrapper, nil
}
