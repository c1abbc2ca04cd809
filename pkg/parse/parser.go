package parse

import (
	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/locale"
	"src.mql.sh/pkg/nodemap"
	"src.mql.sh/pkg/token"
)

// parser maintains the mutable state of one parse attempt: the token cursor
// and the context tree of in-progress productions. A parser is exclusively
// owned by one invocation and must not be shared.
type parser struct {
	snapshot *token.Snapshot
	locale   locale.Templates

	tokenIndex int
	// current and currentKind denormalize the token under the cursor for
	// hot reads. current is nil once the document has ended.
	current     *token.Token
	currentKind token.Kind

	// idCounter issues node ids; ids are monotone in context-open order.
	idCounter int
	nodes     *nodemap.Collection
	// currentContext is the innermost open production, nil before the root
	// opens and after it closes.
	currentContext *nodemap.ContextNode
}

func newParser(snapshot *token.Snapshot, tmpl locale.Templates) *parser {
	p := &parser{snapshot: snapshot, locale: tmpl, nodes: nodemap.NewCollection()}
	p.syncCurrent()
	return p
}

func (p *parser) syncCurrent() {
	if p.tokenIndex < len(p.snapshot.Tokens) {
		p.current = &p.snapshot.Tokens[p.tokenIndex]
		p.currentKind = p.current.Kind
	} else {
		p.current = nil
		p.currentKind = token.Invalid
	}
}

// Context tree operations.

// startContext opens a new production as a child of the current context and
// makes it current.
func (p *parser) startContext(kind ast.Kind) *nodemap.ContextNode {
	p.idCounter++
	ctx := &nodemap.ContextNode{ID: p.idCounter, Kind: kind, TokenStart: p.tokenIndex}
	if parent := p.currentContext; parent != nil {
		ctx.ParentID = parent.ID
		ctx.Attribute = parent.AttributeCounter
		parent.AttributeCounter++
		p.nodes.ParentIDs[ctx.ID] = parent.ID
		p.nodes.ChildIDs[parent.ID] = append(p.nodes.ChildIDs[parent.ID], ctx.ID)
	} else {
		ctx.Attribute = ast.NoAttribute
		p.nodes.RootID = ctx.ID
	}
	p.nodes.ContextNodes[ctx.ID] = ctx
	p.currentContext = ctx
	return ctx
}

// endContext closes the current production: it seals the node header,
// promotes the context entry to an AST entry, and restores the parent as the
// current context.
func (p *parser) endContext(n ast.Node) {
	ctx := p.currentContext
	if ctx == nil {
		invariant("endContext with no open context")
	}
	b := n.Base()
	b.ID = ctx.ID
	b.Kind = ctx.Kind
	b.Attribute = ctx.Attribute
	b.Tokens = ast.TokenSpan{From: ctx.TokenStart, To: p.tokenIndex}
	if _, isLeaf := ast.Literal(n); isLeaf {
		b.Leaf = true
	}

	ctx.Node = n
	delete(p.nodes.ContextNodes, ctx.ID)
	p.nodes.ASTNodes[ctx.ID] = n
	if b.Leaf {
		p.nodes.LeafIDs[ctx.ID] = struct{}{}
		p.nodes.RightmostLeaf = ctx.ID
	}
	p.currentContext = p.parentContext(ctx)
}

// deleteContext discards the current production, splicing its single child
// (if any) into its slot in the parent. Used when a production collapses
// into its operand, like a metadata expression with no meta suffix.
func (p *parser) deleteContext() {
	ctx := p.currentContext
	if ctx == nil {
		invariant("deleteContext with no open context")
	}
	children := p.nodes.ChildIDs[ctx.ID]
	if len(children) > 1 {
		invariant("deleteContext of %s#%d with %d children", ctx.Kind, ctx.ID, len(children))
	}
	parent := p.parentContext(ctx)
	delete(p.nodes.ContextNodes, ctx.ID)
	delete(p.nodes.ChildIDs, ctx.ID)
	delete(p.nodes.ParentIDs, ctx.ID)

	if parent == nil {
		if len(children) == 1 {
			p.spliceRoot(children[0])
		} else {
			p.nodes.RootID = 0
		}
		p.currentContext = nil
		return
	}

	siblings := p.nodes.ChildIDs[parent.ID]
	if len(children) == 1 {
		// The context is the parent's last child; its child inherits the
		// slot.
		child := children[0]
		siblings[len(siblings)-1] = child
		p.nodes.ParentIDs[child] = parent.ID
		p.setSlot(child, parent.ID, ctx.Attribute)
	} else {
		p.nodes.ChildIDs[parent.ID] = siblings[:len(siblings)-1]
		parent.AttributeCounter--
	}
	p.currentContext = parent
}

func (p *parser) spliceRoot(child int) {
	delete(p.nodes.ParentIDs, child)
	p.nodes.RootID = child
	p.setSlot(child, 0, ast.NoAttribute)
}

func (p *parser) setSlot(id, parentID, attribute int) {
	if n, ok := p.nodes.ASTNodes[id]; ok {
		n.Base().Attribute = attribute
		return
	}
	if c, ok := p.nodes.ContextNodes[id]; ok {
		c.ParentID = parentID
		c.Attribute = attribute
		return
	}
	invariant("node %d in neither map", id)
}

func (p *parser) parentContext(ctx *nodemap.ContextNode) *nodemap.ContextNode {
	if ctx.ParentID == 0 {
		return nil
	}
	parent, ok := p.nodes.ContextNodes[ctx.ParentID]
	if !ok {
		invariant("parent %d of context %d is not open", ctx.ParentID, ctx.ID)
	}
	return parent
}

// incrementAttributeCounter advances the next-slot counter without creating
// a child. Called when an optional grammar element is absent, so that the
// slot indices of the following children stay stable.
func (p *parser) incrementAttributeCounter() {
	p.currentContext.AttributeCounter++
}

// Reader primitives.

// readToken returns the raw text of the current token and advances the
// cursor.
func (p *parser) readToken() string {
	if p.current == nil {
		invariant("readToken past the end of the document")
	}
	data := p.current.Data
	p.tokenIndex++
	p.syncCurrent()
	return data
}

// readConstant wraps the current token in a single-token Constant node.
func (p *parser) readConstant() *ast.Constant {
	p.startContext(ast.KindConstant)
	c := &ast.Constant{Value: p.readToken()}
	p.endContext(c)
	return c
}

// readTokenKindAsConstant asserts the kind of the current token, then wraps
// it in a Constant node.
func (p *parser) readTokenKindAsConstant(kind token.Kind) (*ast.Constant, error) {
	if p.currentKind != kind {
		return nil, p.expectedKindError(kind)
	}
	return p.readConstant(), nil
}

// maybeReadTokenKindAsConstant reads the current token as a Constant if it
// has the given kind; otherwise it advances the attribute counter and
// returns nil.
func (p *parser) maybeReadTokenKindAsConstant(kind token.Kind) *ast.Constant {
	if p.currentKind == kind {
		return p.readConstant()
	}
	p.incrementAttributeCounter()
	return nil
}

func (p *parser) readIdentifier() (*ast.Identifier, error) {
	if p.currentKind != token.Identifier {
		return nil, p.expectedKindError(token.Identifier)
	}
	p.startContext(ast.KindIdentifier)
	n := &ast.Identifier{Literal: p.readToken()}
	p.endContext(n)
	return n, nil
}

// isOnIdentifier reports whether the current token is an identifier with the
// given text. Contextual names like "optional" and "nullable" are ordinary
// identifiers to the lexer.
func (p *parser) isOnIdentifier(text string) bool {
	return p.currentKind == token.Identifier && p.current.Data == text
}

func (p *parser) kindAt(index int) token.Kind {
	if index < len(p.snapshot.Tokens) {
		return p.snapshot.Tokens[index].Kind
	}
	return token.Invalid
}

// State backup.

// stateBackup captures enough of the parser state to rewind a speculative
// read: the cursor, the id watermark and the current context. Restoring
// removes every node issued after the watermark and truncates the child
// lists that referenced them.
type stateBackup struct {
	tokenIndex       int
	idCounter        int
	contextID        int
	attributeCounter int
}

func (p *parser) backup() stateBackup {
	b := stateBackup{tokenIndex: p.tokenIndex, idCounter: p.idCounter}
	if p.currentContext != nil {
		b.contextID = p.currentContext.ID
		b.attributeCounter = p.currentContext.AttributeCounter
	}
	return b
}

func (p *parser) restore(b stateBackup) {
	p.tokenIndex = b.tokenIndex
	p.syncCurrent()
	p.idCounter = b.idCounter

	nodes := p.nodes
	for id := range nodes.ASTNodes {
		if id > b.idCounter {
			delete(nodes.ASTNodes, id)
			delete(nodes.LeafIDs, id)
		}
	}
	for id := range nodes.ContextNodes {
		if id > b.idCounter {
			delete(nodes.ContextNodes, id)
		}
	}
	for id := range nodes.ParentIDs {
		if id > b.idCounter {
			delete(nodes.ParentIDs, id)
		}
	}
	for id, kids := range nodes.ChildIDs {
		if id > b.idCounter {
			delete(nodes.ChildIDs, id)
			continue
		}
		// Children are appended in id order, so stale ids form a suffix.
		for len(kids) > 0 && kids[len(kids)-1] > b.idCounter {
			kids = kids[:len(kids)-1]
		}
		if len(kids) == 0 {
			delete(nodes.ChildIDs, id)
		} else {
			nodes.ChildIDs[id] = kids
		}
	}
	if nodes.RightmostLeaf > b.idCounter {
		rightmost := 0
		for id := range nodes.LeafIDs {
			if id > rightmost {
				rightmost = id
			}
		}
		nodes.RightmostLeaf = rightmost
	}
	if nodes.RootID > b.idCounter {
		nodes.RootID = 0
	}

	if b.contextID == 0 {
		p.currentContext = nil
		return
	}
	ctx, ok := nodes.ContextNodes[b.contextID]
	if !ok {
		invariant("restore to context %d which is no longer open", b.contextID)
	}
	ctx.AttributeCounter = b.attributeCounter
	p.currentContext = ctx
}
