package vm

import "github.com/dolthub/swiss"

// MethodTable is a class's method dictionary. It is backed by
// dolthub/swiss rather than a builtin Go map, using the same
// fast-hashing structure as the compiler's intern tables, since every
// message send consults it (a cache miss on the inline cache in vm.go
// falls all the way through to here).
type MethodTable struct {
	m *swiss.Map[string, *Method]
}

// NewMethodTable creates an empty method table sized for a typical
// class's method count.
func NewMethodTable() *MethodTable {
	return &MethodTable{m: swiss.NewMap[string, *Method](8)}
}

// Get looks up selector, returning (method, true) if declared directly
// on this table's owning class (not the superclass chain — see
// Class.LookupMethod for the walking version).
func (t *MethodTable) Get(selector string) (*Method, bool) {
	return t.m.Get(selector)
}

// Put installs or replaces the method for selector.
func (t *MethodTable) Put(selector string, m *Method) {
	t.m.Put(selector, m)
}

// Len returns the number of declared selectors.
func (t *MethodTable) Len() int {
	return t.m.Count()
}

// Each calls fn once per (selector, method) pair. Iteration order is
// unspecified by swiss.Map itself; callers that need determinism (the
// debugger's class dump) should collect and sort first.
func (t *MethodTable) Each(fn func(selector string, m *Method)) {
	t.m.Iter(func(k string, v *Method) bool {
		fn(k, v)
		return false
	})
}
