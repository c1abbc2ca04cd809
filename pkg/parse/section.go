package parse

import (
	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/token"
)

// Section documents: `section name? ; member*` where each member is
// `shared? name = expression ;`.

func (p *parser) readSection() (ast.Node, error) {
	p.startContext(ast.KindSection)
	section, err := p.readTokenKindAsConstant(token.KeywordSection)
	if err != nil {
		return nil, err
	}
	var name *ast.Identifier
	if p.currentKind == token.Identifier {
		name, err = p.readIdentifier()
		if err != nil {
			return nil, err
		}
	} else {
		p.incrementAttributeCounter()
	}
	semicolon, err := p.readTokenKindAsConstant(token.Semicolon)
	if err != nil {
		return nil, err
	}

	p.startContext(ast.KindArrayWrapper)
	var members []ast.Node
	for p.current != nil {
		member, err := p.readSectionMember()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	wrapper := &ast.ArrayWrapper{Elements: members}
	p.endContext(wrapper)

	n := &ast.Section{Section: section, Name: name, Semicolon: semicolon, Members: wrapper}
	p.endContext(n)
	return n, nil
}

func (p *parser) readSectionMember() (ast.Node, error) {
	p.startContext(ast.KindSectionMember)
	shared := p.maybeReadTokenKindAsConstant(token.KeywordShared)
	pair, err := p.readIdentifierPairedExpression()
	if err != nil {
		return nil, err
	}
	semicolon, err := p.readTokenKindAsConstant(token.Semicolon)
	if err != nil {
		return nil, err
	}
	n := &ast.SectionMember{
		Shared: shared, Name: pair.(*ast.IdentifierPairedExpression), Semicolon: semicolon,
	}
	p.endContext(n)
	return n, nil
}
