package domain

import "strconv"

// Scope is an ordered, immutable set of variables with O(1) membership
// and O(1) index-of-variable lookup (§3). Scopes are cheap to share: a
// DagFun's scope, a contractor's scope, and a search node's splitting
// candidates are all Scope values copied by reference to the same
// backing arrays.
type Scope struct {
	vars  []Variable
	index map[int]int // variable ID -> position in vars
}

// NewScope builds a Scope over vars, in the given order. Panics on a
// duplicate variable ID — this is a programmer error (two callers
// building a scope out of the same problem should never collide),
// so a constructor panic on malformed configuration is preferable to
// threading an error through every call site.
func NewScope(vars ...Variable) Scope {
	idx := make(map[int]int, len(vars))
	for i, v := range vars {
		if _, dup := idx[v.ID]; dup {
			panic("domain: NewScope: duplicate variable id " + strconv.Itoa(v.ID))
		}
		idx[v.ID] = i
	}
	return Scope{vars: vars, index: idx}
}

// Len returns the number of variables in the scope.
func (s Scope) Len() int { return len(s.vars) }

// Vars returns the scope's variables in scope order. The returned
// slice shares the scope's backing array and must not be mutated.
func (s Scope) Vars() []Variable { return s.vars }

// At returns the i-th variable in scope order.
func (s Scope) At(i int) Variable { return s.vars[i] }

// Contains reports whether id is a member of the scope.
func (s Scope) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// IndexOf returns the position of id within the scope.
func (s Scope) IndexOf(id int) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Union returns the scope containing every variable in s or t, s's
// variables first in their original order followed by any of t's
// variables not already present. Used when composing a contractor
// pool's combined scope (§4.5 Composition).
func Union(s, t Scope) Scope {
	out := make([]Variable, 0, s.Len()+t.Len())
	out = append(out, s.vars...)
	for _, v := range t.vars {
		if !s.Contains(v.ID) {
			out = append(out, v)
		}
	}
	return NewScope(out...)
}
