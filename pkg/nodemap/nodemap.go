// Package nodemap indexes a syntax tree by stable node id.
//
// The parser maintains two parallel trees: the finished AST and a tree of
// context nodes for productions still being built. Both live in a single
// [Collection], with ids as the only cross-references; the maps own all
// storage and there are no back-pointers inside nodes. After a successful
// parse only AST entries remain; after a failed parse the surviving context
// entries describe the partial parse for tooling.
package nodemap

import (
	"src.mql.sh/pkg/ast"
)

// ContextNode mirrors an AST node while it is being built.
type ContextNode struct {
	ID int
	Kind ast.Kind
	// ParentID is 0 for the root context.
	ParentID int
	// Attribute is the slot of this node within its parent.
	Attribute int
	// AttributeCounter is the next child slot to fill.
	AttributeCounter int
	// TokenStart is the tentative first token index.
	TokenStart int
	// Node is the produced AST node, set at promotion and nil while open.
	Node ast.Node
}

// Collection is the id-indexed view of a document's trees.
type Collection struct {
	ASTNodes     map[int]ast.Node
	ContextNodes map[int]*ContextNode
	ChildIDs     map[int][]int
	ParentIDs    map[int]int
	// LeafIDs is the set of ids of leaf AST nodes.
	LeafIDs map[int]struct{}
	// RightmostLeaf is the id of the last-ended leaf, or 0 when none has
	// ended yet.
	RightmostLeaf int
	// RootID is the id of the document root, or 0 before one exists.
	RootID int
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		ASTNodes:     make(map[int]ast.Node),
		ContextNodes: make(map[int]*ContextNode),
		ChildIDs:     make(map[int][]int),
		ParentIDs:    make(map[int]int),
		LeafIDs:      make(map[int]struct{}),
	}
}

// AST returns the finished AST node with the given id.
func (c *Collection) AST(id int) (ast.Node, bool) {
	n, ok := c.ASTNodes[id]
	return n, ok
}

// Context returns the open context node with the given id.
func (c *Collection) Context(id int) (*ContextNode, bool) {
	n, ok := c.ContextNodes[id]
	return n, ok
}

// Xor returns the node with the given id, from whichever tree currently
// claims it.
func (c *Collection) Xor(id int) (XorNode, bool) {
	if n, ok := c.ASTNodes[id]; ok {
		return AstXor(n), true
	}
	if n, ok := c.ContextNodes[id]; ok {
		return ContextXor(n), true
	}
	return XorNode{}, false
}

// Parent returns the parent id of the given node.
func (c *Collection) Parent(id int) (int, bool) {
	p, ok := c.ParentIDs[id]
	return p, ok
}

// Children returns the ordered child ids of the given node. The returned
// slice is owned by the collection.
func (c *Collection) Children(id int) []int {
	return c.ChildIDs[id]
}

// ChildXors resolves the children of the given node.
func (c *Collection) ChildXors(id int) []XorNode {
	ids := c.ChildIDs[id]
	xors := make([]XorNode, 0, len(ids))
	for _, childID := range ids {
		if x, ok := c.Xor(childID); ok {
			xors = append(xors, x)
		}
	}
	return xors
}

// Ancestry returns the chain of ancestors of the given node, innermost
// first, not including the node itself.
func (c *Collection) Ancestry(id int) []XorNode {
	var ancestors []XorNode
	for {
		parent, ok := c.ParentIDs[id]
		if !ok {
			return ancestors
		}
		x, ok := c.Xor(parent)
		if !ok {
			return ancestors
		}
		ancestors = append(ancestors, x)
		id = parent
	}
}

// ReparentUnderContext re-parents head, an already finished node, under the
// open context ctx. This is the tree surgery required by recursive primary
// expressions and by left-associative operator folding: the head is parsed
// before the kind of its enclosing node is known, so the enclosing context
// opens after the head has closed.
//
// ctx must have no children yet, and head must be the last child of parent
// before ctx itself, with parent also being ctx's parent. parent is nil when
// the head was the document root; ctx then becomes the root. ctx takes over
// head's child slot and widens its token start to the head's.
func (c *Collection) ReparentUnderContext(head ast.Node, ctx, parent *ContextNode) {
	headID := head.Base().ID

	if parent != nil {
		siblings := c.ChildIDs[parent.ID]
		// Drop head from the parent's child list; it is the second to last
		// entry, right before ctx itself.
		for i := len(siblings) - 1; i >= 0; i-- {
			if siblings[i] == headID {
				siblings = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		c.ChildIDs[parent.ID] = siblings
		ctx.Attribute = head.Base().Attribute
		parent.AttributeCounter--
	}

	c.ParentIDs[headID] = ctx.ID
	c.ChildIDs[ctx.ID] = []int{headID}

	ctx.TokenStart = head.Base().Tokens.From
	ctx.AttributeCounter = 1
	head.Base().Attribute = 0
}
