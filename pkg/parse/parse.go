// Package parse implements the recursive descent parser for the M formula
// language.
//
// The parser produces a typed syntax tree (package ast) while maintaining a
// parallel tree of context nodes for in-progress productions; both are
// indexed by stable numeric id in a nodemap.Collection. On failure the
// surviving context nodes describe the partial parse, which inspection
// tooling consumes through the same collection.
//
// A document is parsed first as an expression document; if that fails the
// parser retries from the first token as a section document. Of two failed
// attempts, the error that consumed more tokens is reported, with ties going
// to the section error.
package parse

import (
	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/locale"
	"src.mql.sh/pkg/nodemap"
	"src.mql.sh/pkg/token"
)

// Settings configures a parse or inspection invocation.
type Settings struct {
	// Locale names the message-template table used to format errors.
	Locale string
}

// Result is a successful parse.
type Result struct {
	// Root is the document root.
	Root ast.Node
	// Nodes indexes the finished tree by node id.
	Nodes *nodemap.Collection
	// LeafIDs is the set of ids of leaf nodes, shared with Nodes.
	LeafIDs map[int]struct{}
}

// TryParse parses a token snapshot into a document. The returned error, if
// not nil, has type *Error except for invariant violations, which are
// returned as *InvariantError.
func TryParse(settings Settings, snapshot *token.Snapshot) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InvariantError); ok {
				result, err = nil, ie
				return
			}
			panic(r)
		}
	}()

	tmpl := locale.For(settings.Locale)

	exprParser := newParser(snapshot, tmpl)
	root, exprErr := exprParser.readDocument(exprParser.readExpression)
	if exprErr == nil {
		return newResult(exprParser, root), nil
	}

	sectionParser := newParser(snapshot, tmpl)
	root, sectionErr := sectionParser.readDocument(sectionParser.readSection)
	if sectionErr == nil {
		return newResult(sectionParser, root), nil
	}

	if consumedTokens(exprErr) > consumedTokens(sectionErr) {
		return nil, exprErr
	}
	return nil, sectionErr
}

// TryParseText lexes and parses source text in one call.
func TryParseText(settings Settings, name, src string) (*Result, error) {
	snapshot, err := token.Tokenize(name, src)
	if err != nil {
		return nil, err
	}
	return TryParse(settings, snapshot)
}

// readDocument runs a start production and requires that no tokens remain.
func (p *parser) readDocument(read func() (ast.Node, error)) (ast.Node, error) {
	root, err := read()
	if err != nil {
		return nil, err
	}
	if p.current != nil {
		return nil, p.unusedTokensRemainError()
	}
	return root, nil
}

func newResult(p *parser, root ast.Node) *Result {
	return &Result{Root: root, Nodes: p.nodes, LeafIDs: p.nodes.LeafIDs}
}

func consumedTokens(err error) int {
	if pe, ok := err.(*Error); ok {
		return pe.Consumed
	}
	return 0
}
