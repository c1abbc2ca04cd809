package parse

import (
	"src.mql.sh/pkg/token"
)

// The two lookahead procedures for ambiguous openings. Both scan raw tokens
// by index and leave the parser cursor untouched on return; the parenthesis
// probe that reads a real nullable primitive type is covered by a state
// backup.

type parenDisambiguation uint8

const (
	parenExpression parenDisambiguation = iota
	parenFunction
)

// disambiguateParenthesis decides whether a `(` opens a function-expression
// head `(params) =>` or a parenthesized expression. It scans forward
// matching balanced parentheses; at the matching `)` the decision falls on
// the next token: `=>` means a function, and `as` means a function if a
// nullable primitive type followed by `=>` comes after it.
func (p *parser) disambiguateParenthesis() (parenDisambiguation, error) {
	open := *p.current
	depth := 0
	for index := p.tokenIndex; index < len(p.snapshot.Tokens); index++ {
		switch p.snapshot.Tokens[index].Kind {
		case token.LeftParenthesis:
			depth++
		case token.RightParenthesis:
			depth--
			if depth > 0 {
				continue
			}
			switch p.kindAt(index + 1) {
			case token.FatArrow:
				return parenFunction, nil
			case token.KeywordAs:
				backup := p.backup()
				p.tokenIndex = index + 2
				p.syncCurrent()
				_, err := p.readNullablePrimitiveType()
				next := p.currentKind
				p.restore(backup)
				if err == nil && next == token.FatArrow {
					return parenFunction, nil
				}
				return parenExpression, nil
			default:
				return parenExpression, nil
			}
		}
	}
	return 0, p.unterminatedParenthesesError(open)
}

type bracketDisambiguation uint8

const (
	bracketRecord bracketDisambiguation = iota
	bracketFieldSelection
	bracketFieldProjection
)

// disambiguateBracket decides among a record `[key = value, ...]`, a field
// selection `[name]` and a field projection `[[name], ...]`. A `[` directly
// after the opening bracket means projection and a `]` means an empty
// record; otherwise the first `=` or `]` encountered decides.
func (p *parser) disambiguateBracket() (bracketDisambiguation, error) {
	open := *p.current
	switch p.kindAt(p.tokenIndex + 1) {
	case token.LeftBracket:
		return bracketFieldProjection, nil
	case token.RightBracket:
		return bracketRecord, nil
	}
	for index := p.tokenIndex + 1; index < len(p.snapshot.Tokens); index++ {
		switch p.snapshot.Tokens[index].Kind {
		case token.Equal:
			return bracketRecord, nil
		case token.RightBracket:
			return bracketFieldSelection, nil
		}
	}
	return 0, p.unterminatedBracketError(open)
}
