// Package inspect provides the editor-facing inspection services of the
// toolkit: scope and type queries over a parsed (or partially parsed)
// document, and keyword autocomplete. All queries work through the node-id
// collection so they operate equally on finished trees and on the context
// trees of failed parses.
package inspect

import (
	"fmt"

	"src.mql.sh/pkg/types"
)

// TypeCache memoizes scope and type results per document. Entries are only
// ever added; reuse a cache across calls on the same document, and start a
// new one for a new document. A cache has a single owner: callers must
// serialize inspection calls that share one.
type TypeCache struct {
	scopeByID map[int]NodeScope
	typeByID  map[int]types.T
}

// NewTypeCache returns an empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{
		scopeByID: make(map[int]NodeScope),
		typeByID:  make(map[int]types.T),
	}
}

// Stats reports the number of cached scope and type entries.
func (c *TypeCache) Stats() (scopes, typesCount int) {
	return len(c.scopeByID), len(c.typeByID)
}

// state is one inspection computation. New results go into the delta half;
// only a successful computation merges its delta into the given cache, so an
// abandoned computation never pollutes it.
type state struct {
	inspector
	given      *TypeCache
	deltaScope map[int]NodeScope
	deltaType  map[int]types.T
	// computing guards against reference cycles such as `let x = x in x`.
	computing map[int]bool
}

func newState(insp inspector, cache *TypeCache) *state {
	if cache == nil {
		cache = NewTypeCache()
	}
	return &state{
		inspector:  insp,
		given:      cache,
		deltaScope: make(map[int]NodeScope),
		deltaType:  make(map[int]types.T),
		computing:  make(map[int]bool),
	}
}

func (s *state) scopeFor(id int) (NodeScope, bool) {
	if sc, ok := s.deltaScope[id]; ok {
		return sc, true
	}
	sc, ok := s.given.scopeByID[id]
	return sc, ok
}

func (s *state) typeFor(id int) (types.T, bool) {
	if t, ok := s.deltaType[id]; ok {
		return t, true
	}
	t, ok := s.given.typeByID[id]
	return t, ok
}

// commit merges the delta into the given cache.
func (s *state) commit() {
	for id, sc := range s.deltaScope {
		s.given.scopeByID[id] = sc
	}
	for id, t := range s.deltaType {
		s.given.typeByID[id] = t
	}
}

// CommonError is a should-never-happen failure during inspection.
type CommonError struct {
	Detail string
}

func (e *CommonError) Error() string {
	return fmt.Sprintf("inspection invariant violated: %s", e.Detail)
}

func commonErrorf(format string, args ...any) error {
	return &CommonError{Detail: fmt.Sprintf(format, args...)}
}
