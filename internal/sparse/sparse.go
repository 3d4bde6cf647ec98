// Package sparse provides the small integer-set structures used by the NFA.
//
// SparseSet supports O(1) insert, membership and clear while keeping a dense
// list of members in insertion order. Stamps is the per-state "last list"
// table of the simulator: each element remembers the generation in which it
// was last marked, so clearing between generations costs nothing.
package sparse

// SparseSet is a set of uint32 values drawn from [0, capacity).
type SparseSet struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32
}

// NewSparseSet creates a new sparse set for values below capacity.
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set. It reports whether the value was new.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense)) //nolint:gosec // bounded by capacity
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return uint64(idx) < uint64(len(s.dense)) && s.dense[idx] == value
}

// Clear removes all elements in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no elements.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the members in insertion order.
// The slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}

// Stamps maps element indices to the generation that last marked them.
//
// Generation 0 means "never marked"; callers start generations at 1.
type Stamps struct {
	gen []uint32
}

// NewStamps creates a table for n elements.
func NewStamps(n int) *Stamps {
	return &Stamps{gen: make([]uint32, n)}
}

// Mark records that element i belongs to generation g.
func (s *Stamps) Mark(i, g uint32) {
	s.gen[i] = g
}

// Marked reports whether element i was last marked in generation g.
func (s *Stamps) Marked(i, g uint32) bool {
	return s.gen[i] == g
}

// Len returns the number of elements covered by the table.
func (s *Stamps) Len() int {
	return len(s.gen)
}

// Reset forgets every mark.
func (s *Stamps) Reset() {
	clear(s.gen)
}

// Resize makes the table cover n elements and forgets every mark.
func (s *Stamps) Resize(n int) {
	if cap(s.gen) < n {
		s.gen = make([]uint32, n)
		return
	}
	s.gen = s.gen[:n]
	clear(s.gen)
}
