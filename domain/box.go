package domain

import "github.com/realpaver-go/ncsp/interval"

// DomainBox is a scope plus one Domain per variable, in scope order
// (§3). It is a value type; Clone performs the slice copy that lets a
// failed search branch discard its box without disturbing its parent's.
type DomainBox struct {
	scope Scope
	doms  []Domain
}

// NewDomainBox builds a box over scope, each variable starting at its
// own Initial domain.
func NewDomainBox(scope Scope) DomainBox {
	doms := make([]Domain, scope.Len())
	for i, v := range scope.Vars() {
		doms[i] = v.Initial
	}
	return DomainBox{scope: scope, doms: doms}
}

// Scope returns the box's scope.
func (b DomainBox) Scope() Scope { return b.scope }

// Clone returns an independent copy of b; mutating the clone's domains
// via SetAt never affects b.
func (b DomainBox) Clone() DomainBox {
	doms := make([]Domain, len(b.doms))
	copy(doms, b.doms)
	return DomainBox{scope: b.scope, doms: doms}
}

// At returns the domain of the variable with the given ID.
func (b DomainBox) At(id int) (Domain, error) {
	i, ok := b.scope.IndexOf(id)
	if !ok {
		return Domain{}, ErrUnknownVariable
	}
	return b.doms[i], nil
}

// AtIndex returns the domain at scope position i, without the lookup
// At needs; contractors holding a pre-resolved index list use this on
// the hot path.
func (b DomainBox) AtIndex(i int) Domain { return b.doms[i] }

// SetAt mutates the domain of the variable with the given ID in place.
// Callers must Clone before mutating a box they do not own exclusively.
func (b DomainBox) SetAt(id int, d Domain) error {
	i, ok := b.scope.IndexOf(id)
	if !ok {
		return ErrUnknownVariable
	}
	b.doms[i] = d
	return nil
}

// SetAtIndex mutates the domain at scope position i in place.
func (b DomainBox) SetAtIndex(i int, d Domain) { b.doms[i] = d }

// IsEmpty reports whether any variable's domain in b is empty.
func (b DomainBox) IsEmpty() bool {
	for _, d := range b.doms {
		if d.IsEmpty() {
			return true
		}
	}
	return false
}

// BelowTolerance reports whether every variable's domain is within its
// own tolerance (§4.7's stop criterion).
func (b DomainBox) BelowTolerance() bool {
	for i, d := range b.doms {
		if !d.BelowTolerance(b.scope.At(i).Tol) {
			return false
		}
	}
	return true
}

// IntersectHull narrows every domain in b by intersecting it with the
// matching interval of hull (keyed by variable ID, not position, since
// a contractor's scope may be a sub-scope of b's), reintroducing
// discreteness/gaps via Domain.IntersectHull (§9, §4.9's "re-rounding"
// note; see DESIGN.md Open Question #3 for when this is called: once,
// after the propagator reaches a fixpoint, not inside each contractor).
// Variables absent from hull's scope are left untouched.
func (b DomainBox) IntersectHull(hull IntervalBox) DomainBox {
	out := b.Clone()
	for i, v := range out.scope.Vars() {
		x, err := hull.At(v.ID)
		if err != nil {
			continue
		}
		out.doms[i] = out.doms[i].IntersectHull(x)
	}
	return out
}

// Hull projects b to an IntervalBox.
func (b DomainBox) Hull() IntervalBox {
	ivs := make([]interval.Interval, len(b.doms))
	for i, d := range b.doms {
		ivs[i] = d.Hull()
	}
	return IntervalBox{scope: b.scope, ivs: ivs}
}

// IntervalBox is the hull projection of a DomainBox: a scope plus one
// interval per variable (§3). Every contractor operates on, and
// returns, IntervalBox values; DomainBox.IntersectHull re-threads a
// contracted IntervalBox back through discrete re-rounding once the
// propagator reaches a fixpoint (see domain.go's IntersectHull doc and
// DESIGN.md Open Question #3).
type IntervalBox struct {
	scope Scope
	ivs   []interval.Interval
}

// NewIntervalBox builds a box over scope, each variable starting at its
// own Initial domain's hull.
func NewIntervalBox(scope Scope) IntervalBox {
	ivs := make([]interval.Interval, scope.Len())
	for i, v := range scope.Vars() {
		ivs[i] = v.Initial.Hull()
	}
	return IntervalBox{scope: scope, ivs: ivs}
}

// Scope returns the box's scope.
func (b IntervalBox) Scope() Scope { return b.scope }

// Clone returns an independent copy of b.
func (b IntervalBox) Clone() IntervalBox {
	ivs := make([]interval.Interval, len(b.ivs))
	copy(ivs, b.ivs)
	return IntervalBox{scope: b.scope, ivs: ivs}
}

// At returns the interval of the variable with the given ID.
func (b IntervalBox) At(id int) (interval.Interval, error) {
	i, ok := b.scope.IndexOf(id)
	if !ok {
		return interval.Empty(), ErrUnknownVariable
	}
	return b.ivs[i], nil
}

// AtIndex returns the interval at scope position i.
func (b IntervalBox) AtIndex(i int) interval.Interval { return b.ivs[i] }

// SetAt mutates the interval of the variable with the given ID in
// place. Callers must Clone before mutating a box they do not own
// exclusively.
func (b IntervalBox) SetAt(id int, x interval.Interval) error {
	i, ok := b.scope.IndexOf(id)
	if !ok {
		return ErrUnknownVariable
	}
	b.ivs[i] = x
	return nil
}

// SetAtIndex mutates the interval at scope position i in place.
func (b IntervalBox) SetAtIndex(i int, x interval.Interval) { b.ivs[i] = x }

// IsEmpty reports whether any variable's interval in b is empty.
func (b IntervalBox) IsEmpty() bool {
	for _, x := range b.ivs {
		if x.IsEmpty() {
			return true
		}
	}
	return false
}

// IsSubset reports whether b is contained in other, variable by
// variable, over their shared scope (§8 Propagator monotonicity).
func (b IntervalBox) IsSubset(other IntervalBox) bool {
	for i, x := range b.ivs {
		id := b.scope.At(i).ID
		j, ok := other.scope.IndexOf(id)
		if !ok || !x.IsSubset(other.ivs[j]) {
			return false
		}
	}
	return true
}

// WidestIndex returns the scope position of the widest interval among
// the given candidate indices (the largest-width splitter, §4.7).
// Candidates with a zero-width interval are skipped; returns -1 if
// every candidate is degenerate.
func (b IntervalBox) WidestIndex(candidates []int) int {
	best, bestWidth := -1, 0.0
	for _, i := range candidates {
		w := b.ivs[i].Width()
		if w > bestWidth {
			best, bestWidth = i, w
		}
	}
	return best
}
