package rules

// orderedStore keeps records keyed for lookup and ordered by first insertion.
type orderedStore[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

func newOrderedStore[K comparable, V any]() *orderedStore[K, V] {
	return &orderedStore[K, V]{items: make(map[K]V)}
}

func (s *orderedStore[K, V]) get(key K) (V, bool) {
	v, ok := s.items[key]
	return v, ok
}

// add stores v under key unless the key exists. It never reorders.
func (s *orderedStore[K, V]) add(key K, v V) bool {
	if _, exists := s.items[key]; exists {
		return false
	}
	s.keys = append(s.keys, key)
	s.items[key] = v
	return true
}

func (s *orderedStore[K, V]) values() []V {
	out := make([]V, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.items[k])
	}
	return out
}

func (s *orderedStore[K, V]) len() int {
	return len(s.keys)
}
