package hub

// orderedSet keeps the first occurrence of each value in insertion order.
type orderedSet[T comparable] struct {
	seen   map[T]struct{}
	values []T
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{seen: make(map[T]struct{})}
}

// Add records value unless it was already recorded and reports whether it was new.
func (set *orderedSet[T]) Add(value T) bool {
	if _, exists := set.seen[value]; exists {
		return false
	}
	set.seen[value] = struct{}{}
	set.values = append(set.values, value)
	return true
}

// Values returns the recorded values in first-seen order.
func (set *orderedSet[T]) Values() []T {
	duplicatedValues := make([]T, len(set.values))
	copy(duplicatedValues, set.values)
	return duplicatedValues
}
