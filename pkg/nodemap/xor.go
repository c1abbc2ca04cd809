package nodemap

import (
	"fmt"

	"src.mql.sh/pkg/ast"
)

// XorNode is a reference to either a finished AST node or an open context
// node. Inspection operates on XorNodes so that it works on partial parses.
type XorNode struct {
	AST     ast.Node
	Context *ContextNode
}

// AstXor wraps a finished AST node.
func AstXor(n ast.Node) XorNode { return XorNode{AST: n} }

// ContextXor wraps an open context node.
func ContextXor(n *ContextNode) XorNode { return XorNode{Context: n} }

// IsAST reports whether the reference points into the AST tree.
func (x XorNode) IsAST() bool { return x.AST != nil }

// ID returns the node id of the referenced node.
func (x XorNode) ID() int {
	if x.AST != nil {
		return x.AST.Base().ID
	}
	return x.Context.ID
}

// Kind returns the node kind of the referenced node.
func (x XorNode) Kind() ast.Kind {
	if x.AST != nil {
		return x.AST.Base().Kind
	}
	return x.Context.Kind
}

func (x XorNode) String() string {
	if x.AST != nil {
		return fmt.Sprintf("ast:%s#%d", x.Kind(), x.ID())
	}
	return fmt.Sprintf("context:%s#%d", x.Kind(), x.ID())
}
