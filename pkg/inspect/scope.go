package inspect

import (
	"strings"

	"src.mql.sh/pkg/ast"
	"src.mql.sh/pkg/nodemap"
	"src.mql.sh/pkg/parse"
	"src.mql.sh/pkg/types"
)

// ScopeItemKind classifies how a name came into scope.
type ScopeItemKind uint8

const (
	ScopeUndefined ScopeItemKind = iota
	// ScopeEach is the implicit `_` of an each-expression.
	ScopeEach
	// ScopeKey is a let binding.
	ScopeKey
	// ScopeParameter is a function parameter.
	ScopeParameter
	// ScopeRecordField is a record member.
	ScopeRecordField
	// ScopeSectionMember is a section member.
	ScopeSectionMember
)

var scopeItemKindNames = [...]string{
	ScopeUndefined:     "undefined",
	ScopeEach:          "each",
	ScopeKey:           "key",
	ScopeParameter:     "parameter",
	ScopeRecordField:   "record field",
	ScopeSectionMember: "section member",
}

func (k ScopeItemKind) String() string { return scopeItemKindNames[k] }

// ScopeItem is one name visible at a node.
type ScopeItem struct {
	Kind ScopeItemKind
	// Value is the bound value, when the binding has one; the implicit `_`
	// of each-expressions has none.
	Value nodemap.XorNode
}

// NodeScope maps visible names to their scope items.
type NodeScope map[string]ScopeItem

// inspector is the read-only half of an inspection: the document's node
// collection and leaf set.
type inspector struct {
	nodes   *nodemap.Collection
	leafIDs map[int]struct{}
}

// TryScope computes the names visible at the node with the given id. The
// scope is accumulated by walking ancestors through the node-id collection;
// shadowing is innermost-wins.
func TryScope(settings parse.Settings, nodes *nodemap.Collection, leafIDs map[int]struct{},
	nodeID int, cache *TypeCache) (NodeScope, error) {

	s := newState(inspector{nodes, leafIDs}, cache)
	scope, err := s.scopeOf(nodeID)
	if err != nil {
		return nil, err
	}
	s.commit()
	return scope, nil
}

// TryScopeType computes the type of every name visible at the node with the
// given id.
func TryScopeType(settings parse.Settings, nodes *nodemap.Collection, leafIDs map[int]struct{},
	nodeID int, cache *TypeCache) (map[string]types.T, error) {

	s := newState(inspector{nodes, leafIDs}, cache)
	scope, err := s.scopeOf(nodeID)
	if err != nil {
		return nil, err
	}
	scopeTypes := make(map[string]types.T, len(scope))
	for name, item := range scope {
		if item.Value == (nodemap.XorNode{}) {
			scopeTypes[name] = types.Of(types.Unknown)
			continue
		}
		t, err := s.typeOf(item.Value)
		if err != nil {
			return nil, err
		}
		scopeTypes[name] = t
	}
	s.commit()
	return scopeTypes, nil
}

func (s *state) scopeOf(nodeID int) (NodeScope, error) {
	if scope, ok := s.scopeFor(nodeID); ok {
		return scope, nil
	}
	if _, ok := s.nodes.Xor(nodeID); !ok {
		return nil, commonErrorf("no node with id %d", nodeID)
	}

	scope := make(NodeScope)
	for _, ancestor := range s.nodes.Ancestry(nodeID) {
		switch ancestor.Kind() {
		case ast.KindEachExpression:
			bind(scope, "_", ScopeItem{Kind: ScopeEach})
		case ast.KindFunctionExpression:
			s.addParameters(scope, ancestor)
		case ast.KindLetExpression:
			s.addPairedBindings(scope, ancestor, 1, ScopeKey)
		case ast.KindRecordExpression:
			s.addPairedBindings(scope, ancestor, 1, ScopeRecordField)
		case ast.KindSection:
			s.addSectionMembers(scope, ancestor)
		}
	}
	s.deltaScope[nodeID] = scope
	return scope, nil
}

// bind adds a name unless an inner binding already shadows it.
func bind(scope NodeScope, name string, item ScopeItem) {
	if _, ok := scope[name]; !ok {
		scope[name] = item
	}
}

// childAt finds the child of x occupying the given attribute slot. Slots of
// absent optional elements are skipped, so lookup goes by attribute index,
// not list position.
func (s *state) childAt(x nodemap.XorNode, attribute int) (nodemap.XorNode, bool) {
	for _, child := range s.nodes.ChildXors(x.ID()) {
		var childAttribute int
		if child.IsAST() {
			childAttribute = child.AST.Base().Attribute
		} else {
			childAttribute = child.Context.Attribute
		}
		if childAttribute == attribute {
			return child, true
		}
	}
	return nodemap.XorNode{}, false
}

// addPairedBindings collects the key-value pairs of a let expression or
// record expression: the csv wrapper at the given slot holds paired
// expressions whose key is slot 0 and value slot 2.
func (s *state) addPairedBindings(scope NodeScope, x nodemap.XorNode, wrapperSlot int, kind ScopeItemKind) {
	wrapper, ok := s.childAt(x, wrapperSlot)
	if !ok {
		return
	}
	for _, csv := range s.nodes.ChildXors(wrapper.ID()) {
		pair, ok := s.childAt(csv, 0)
		if !ok {
			continue
		}
		key, ok := s.childAt(pair, 0)
		if !ok {
			continue
		}
		name, ok := leafLiteral(key)
		if !ok {
			continue
		}
		value, _ := s.childAt(pair, 2)
		bind(scope, name, ScopeItem{Kind: kind, Value: value})
	}
}

func (s *state) addParameters(scope NodeScope, x nodemap.XorNode) {
	parameterList, ok := s.childAt(x, 0)
	if !ok {
		return
	}
	wrapper, ok := s.childAt(parameterList, 1)
	if !ok {
		return
	}
	for _, csv := range s.nodes.ChildXors(wrapper.ID()) {
		parameter, ok := s.childAt(csv, 0)
		if !ok {
			continue
		}
		name, ok := s.childAt(parameter, 1)
		if !ok {
			continue
		}
		literal, ok := leafLiteral(name)
		if !ok {
			continue
		}
		bind(scope, literal, ScopeItem{Kind: ScopeParameter, Value: parameter})
	}
}

func (s *state) addSectionMembers(scope NodeScope, x nodemap.XorNode) {
	wrapper, ok := s.childAt(x, 3)
	if !ok {
		return
	}
	for _, member := range s.nodes.ChildXors(wrapper.ID()) {
		pair, ok := s.childAt(member, 1)
		if !ok {
			continue
		}
		key, ok := s.childAt(pair, 0)
		if !ok {
			continue
		}
		name, ok := leafLiteral(key)
		if !ok {
			continue
		}
		value, _ := s.childAt(pair, 2)
		bind(scope, name, ScopeItem{Kind: ScopeSectionMember, Value: value})
	}
}

// leafLiteral returns the normalized literal of a leaf, so that binding keys
// agree with the normalized lookup in identifierType: a #"quoted" binding
// must be found by its unquoted references.
func leafLiteral(x nodemap.XorNode) (string, bool) {
	if !x.IsAST() {
		return "", false
	}
	literal, ok := ast.Literal(x.AST)
	if !ok {
		return "", false
	}
	return normalizeIdentifier(literal), true
}

// normalizeIdentifier strips the inclusive-scope @ prefix and unquotes a
// #"quoted" identifier.
func normalizeIdentifier(literal string) string {
	literal = strings.TrimPrefix(literal, "@")
	if strings.HasPrefix(literal, `#"`) && strings.HasSuffix(literal, `"`) {
		inner := literal[2 : len(literal)-1]
		return strings.ReplaceAll(inner, `""`, `"`)
	}
	return literal
}
