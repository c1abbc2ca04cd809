package nodemap

import (
	"fmt"

	"src.mql.sh/pkg/ast"
)

// Check verifies the structural invariants of the collection and returns the
// first violation found, if any. It is meant for tests and debugging; the
// parser maintains the invariants by construction.
//
// The invariants checked:
//  1. every id reachable from the root via ChildIDs resolves to a node, and
//     every AST node is reachable from the root;
//  2. parent symmetry: ParentIDs[child] = parent exactly when child appears
//     in ChildIDs[parent], and attribute indices strictly increase along
//     ChildIDs[parent] (an absent optional element leaves a gap, so an index
//     may exceed the child's position but never falls below it);
//  3. sibling token spans are disjoint and increase monotonically, and a
//     parent's span covers the union of its children's spans;
//  4. LeafIDs is exactly the set of leaf AST nodes.
func (c *Collection) Check() error {
	if c.RootID == 0 {
		return nil
	}

	reachable := make(map[int]bool)
	if err := c.checkNode(c.RootID, reachable); err != nil {
		return err
	}

	for id := range c.ASTNodes {
		if !reachable[id] {
			return fmt.Errorf("ast node %d not reachable from root", id)
		}
	}
	for child, parent := range c.ParentIDs {
		if !contains(c.ChildIDs[parent], child) {
			return fmt.Errorf("node %d has parent %d but is not among its children", child, parent)
		}
	}
	for id := range c.LeafIDs {
		n, ok := c.ASTNodes[id]
		if !ok {
			return fmt.Errorf("leaf id %d has no ast node", id)
		}
		if !n.Base().Leaf {
			return fmt.Errorf("node %d in leaf set but not a leaf", id)
		}
	}
	for id, n := range c.ASTNodes {
		if n.Base().Leaf {
			if _, ok := c.LeafIDs[id]; !ok {
				return fmt.Errorf("leaf node %d missing from leaf set", id)
			}
		}
	}
	return nil
}

func (c *Collection) checkNode(id int, reachable map[int]bool) error {
	reachable[id] = true
	x, ok := c.Xor(id)
	if !ok {
		return fmt.Errorf("id %d in tree but in neither node map", id)
	}
	if _, ok := c.ASTNodes[id]; ok {
		if _, both := c.ContextNodes[id]; both {
			return fmt.Errorf("id %d claimed by both ast and context", id)
		}
	}

	children := c.ChildIDs[id]
	prevEnd := -1
	prevAttribute := -1
	for i, childID := range children {
		childX, ok := c.Xor(childID)
		if !ok {
			return fmt.Errorf("child %d of %d resolves to no node", childID, id)
		}
		if parent, ok := c.ParentIDs[childID]; !ok || parent != id {
			return fmt.Errorf("child %d of %d has parent entry %d", childID, id, parent)
		}
		// Attribute indices increase with position; absent optional
		// elements may leave gaps.
		var attribute int
		if childX.IsAST() {
			attribute = childX.AST.Base().Attribute
		} else {
			attribute = childX.Context.Attribute
		}
		if attribute <= prevAttribute || attribute < i {
			return fmt.Errorf("child %d of %d at position %d has attribute %d after %d",
				childID, id, i, attribute, prevAttribute)
		}
		prevAttribute = attribute
		if childX.IsAST() {
			b := childX.AST.Base()
			if b.Tokens.From < prevEnd {
				return fmt.Errorf("child %d of %d overlaps its preceding sibling", childID, id)
			}
			prevEnd = b.Tokens.To
			if parentAst, ok := c.ASTNodes[id]; ok {
				ps := parentAst.Base().Tokens
				if b.Tokens.From < ps.From || b.Tokens.To > ps.To {
					return fmt.Errorf("child %d span %v outside parent %d span %v",
						childID, b.Tokens, id, ps)
				}
			}
		}
		if err := c.checkNode(childID, reachable); err != nil {
			return err
		}
	}

	if x.IsAST() {
		if _, isWrapper := x.AST.(*ast.ArrayWrapper); !isWrapper && !x.AST.Base().Leaf {
			if len(children) == 0 {
				return fmt.Errorf("interior node %d has no children", id)
			}
		}
	}
	return nil
}

func contains(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
