package parse

import (
	"fmt"
	"strings"

	"src.mql.sh/pkg/diag"
	"src.mql.sh/pkg/nodemap"
	"src.mql.sh/pkg/token"
)

const errorType = "parse error"

// Error is a parse error. It carries the category error, the position
// context, the context tree at failure for tooling, and the number of tokens
// consumed before failing, which the document driver uses to rank competing
// errors.
type Error struct {
	Inner   error
	Context diag.Context
	// State is the node collection at the point of failure. Context nodes
	// of unfinished productions remain in it, so tooling can inspect the
	// partial parse.
	State *nodemap.Collection
	// Consumed is the token-index cursor at the point of failure.
	Consumed int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d-%d in %s: %s",
		errorType, e.Context.From, e.Context.To, e.Context.Name, e.Inner)
}

func (e *Error) Unwrap() error { return e.Inner }

// Range returns the source range of the error.
func (e *Error) Range() diag.Ranging { return e.Context.Range() }

// Show shows the error with the source excerpt.
func (e *Error) Show(indent string) string {
	d := diag.Error{Type: errorType, Message: e.Inner.Error(), Context: e.Context}
	return d.Show(indent)
}

// AsError unpacks err into a *Error, if it is one.
func AsError(err error) (*Error, bool) {
	pe, ok := err.(*Error)
	return pe, ok
}

// Category errors. Each carries machine-readable fields plus a message
// formatted from the locale templates at construction time.

// ExpectedTokenKindError reports that the parser expected one token kind but
// found another, or the end of the document.
type ExpectedTokenKindError struct {
	Expected token.Kind
	// Found is nil when the document ended instead.
	Found *token.Token
	msg   string
}

func (e *ExpectedTokenKindError) Error() string { return e.msg }

// ExpectedAnyTokenKindError is the disjunctive form of
// [ExpectedTokenKindError].
type ExpectedAnyTokenKindError struct {
	Expected []token.Kind
	Found    *token.Token
	msg      string
}

func (e *ExpectedAnyTokenKindError) Error() string { return e.msg }

// InvalidPrimitiveTypeError reports an identifier outside the primitive-type
// whitelist.
type InvalidPrimitiveTypeError struct {
	Found token.Token
	msg   string
}

func (e *InvalidPrimitiveTypeError) Error() string { return e.msg }

// UnusedTokensRemainError reports a parse that succeeded with tokens left
// over.
type UnusedTokensRemainError struct {
	First token.Token
	msg   string
}

func (e *UnusedTokensRemainError) Error() string { return e.msg }

// UnterminatedParenthesesError reports that the parenthesis disambiguator
// reached the end of the document without finding the matching parenthesis.
type UnterminatedParenthesesError struct {
	msg string
}

func (e *UnterminatedParenthesesError) Error() string { return e.msg }

// UnterminatedBracketError reports that the bracket disambiguator reached
// the end of the document before resolving the bracket.
type UnterminatedBracketError struct {
	msg string
}

func (e *UnterminatedBracketError) Error() string { return e.msg }

// RequiredParameterAfterOptionalError reports a required parameter following
// an optional one.
type RequiredParameterAfterOptionalError struct {
	Name string
	msg  string
}

func (e *RequiredParameterAfterOptionalError) Error() string { return e.msg }

// InvariantError is a should-never-happen assertion failure. It is always
// fatal and is surfaced unmodified.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: %s", e.Detail)
}

// Error construction helpers on the parser. Messages are formatted with the
// locale templates; positions point at the current token, or just past the
// source when the document has ended.

func (p *parser) errRange() diag.Ranging {
	if p.current != nil {
		return p.current.Range()
	}
	return diag.PointRanging(len(p.snapshot.Text))
}

func (p *parser) foundDesc() string {
	if p.current == nil {
		return p.locale.EndOfDocument
	}
	pos := p.snapshot.GraphemePositionStart(*p.current)
	return fmt.Sprintf("%q at %s", p.current.Data, pos)
}

// wrap packages a category error into a full parse error at the given range.
func (p *parser) wrap(inner error, r diag.Ranger) *Error {
	return &Error{
		Inner:    inner,
		Context:  *diag.NewContext(p.snapshot.Name, p.snapshot.Text, r),
		State:    p.nodes,
		Consumed: p.tokenIndex,
	}
}

func (p *parser) expectedKindError(kind token.Kind) *Error {
	inner := &ExpectedTokenKindError{
		Expected: kind,
		Found:    p.current,
		msg:      fmt.Sprintf(p.locale.ExpectedTokenKind, kindDesc(kind), p.foundDesc()),
	}
	return p.wrap(inner, p.errRange())
}

func (p *parser) expectedAnyKindError(kinds []token.Kind) *Error {
	descs := make([]string, len(kinds))
	for i, k := range kinds {
		descs[i] = kindDesc(k)
	}
	inner := &ExpectedAnyTokenKindError{
		Expected: kinds,
		Found:    p.current,
		msg:      fmt.Sprintf(p.locale.ExpectedAnyTokenKind, strings.Join(descs, ", "), p.foundDesc()),
	}
	return p.wrap(inner, p.errRange())
}

func (p *parser) invalidPrimitiveTypeError(t token.Token) *Error {
	inner := &InvalidPrimitiveTypeError{
		Found: t,
		msg:   fmt.Sprintf(p.locale.InvalidPrimitiveType, t.Data),
	}
	return p.wrap(inner, t.Range())
}

func (p *parser) unusedTokensRemainError() *Error {
	first := *p.current
	inner := &UnusedTokensRemainError{
		First: first,
		msg:   fmt.Sprintf(p.locale.UnusedTokensRemain, p.foundDesc()),
	}
	return p.wrap(inner, first.Range())
}

func (p *parser) unterminatedParenthesesError(open token.Token) *Error {
	inner := &UnterminatedParenthesesError{msg: p.locale.UnterminatedParentheses}
	return p.wrap(inner, open.Range())
}

func (p *parser) unterminatedBracketError(open token.Token) *Error {
	inner := &UnterminatedBracketError{msg: p.locale.UnterminatedBracket}
	return p.wrap(inner, open.Range())
}

func (p *parser) requiredParameterAfterOptionalError(name *token.Token) *Error {
	data := ""
	if name != nil {
		data = name.Data
	}
	inner := &RequiredParameterAfterOptionalError{
		Name: data,
		msg:  fmt.Sprintf(p.locale.RequiredParameterAfterOptional, data),
	}
	return p.wrap(inner, p.errRange())
}

// invariant panics with an InvariantError; the panic is recovered at the
// TryParse boundary and surfaced unmodified.
func invariant(format string, args ...any) {
	panic(&InvariantError{Detail: fmt.Sprintf(format, args...)})
}

// kindDesc returns a human-readable description of a token kind for
// expected-token messages.
func kindDesc(k token.Kind) string {
	if text := token.KeywordText(k); text != "" {
		return fmt.Sprintf("%q", text)
	}
	if sym, ok := kindSymbols[k]; ok {
		return fmt.Sprintf("%q", sym)
	}
	return k.String()
}

var kindSymbols = map[token.Kind]string{
	token.Ampersand:          "&",
	token.Asterisk:           "*",
	token.AtSign:             "@",
	token.Comma:              ",",
	token.Division:           "/",
	token.DotDot:             "..",
	token.Ellipsis:           "...",
	token.Equal:              "=",
	token.FatArrow:           "=>",
	token.GreaterThan:        ">",
	token.GreaterThanEqualTo: ">=",
	token.LeftBrace:          "{",
	token.LeftBracket:        "[",
	token.LeftParenthesis:    "(",
	token.LessThan:           "<",
	token.LessThanEqualTo:    "<=",
	token.Minus:              "-",
	token.NotEqual:           "<>",
	token.Plus:               "+",
	token.QuestionMark:       "?",
	token.RightBrace:         "}",
	token.RightBracket:       "]",
	token.RightParenthesis:   ")",
	token.Semicolon:          ";",
}
