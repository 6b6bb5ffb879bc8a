package s11n

import "reflect"

// OrderedMap is a map that iterates in insertion order. The zero value is
// ready to use.
type OrderedMap[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{}
}

// Set stores v under k. An existing key keeps its position.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if m.vals == nil {
		m.vals = make(map[K]V)
	}
	if _, exists := m.vals[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, exists := m.vals[k]
	return v, exists
}

func (m *OrderedMap[K, V]) Has(k K) bool {
	_, exists := m.vals[k]
	return exists
}

func (m *OrderedMap[K, V]) Delete(k K) bool {
	if _, exists := m.vals[k]; !exists {
		return false
	}
	delete(m.vals, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(K, V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

func (m *OrderedMap[K, V]) Clear() {
	m.keys = nil
	m.vals = nil
}

// -------------------------------

// orderedMapLike lets the map codec drive any OrderedMap instantiation
// through reflection.
type orderedMapLike interface {
	keyType() reflect.Type
	valueType() reflect.Type
	rangeValues(fn func(k, v reflect.Value) bool)
	hasValue(k reflect.Value) bool
	setValue(k, v reflect.Value)
	Len() int
	Clear()
}

var orderedMapLikeType = typeOf[orderedMapLike]()

func (m *OrderedMap[K, V]) keyType() reflect.Type {
	return typeOf[K]()
}

func (m *OrderedMap[K, V]) valueType() reflect.Type {
	return typeOf[V]()
}

func (m *OrderedMap[K, V]) rangeValues(fn func(k, v reflect.Value) bool) {
	m.Range(func(k K, v V) bool {
		return fn(reflect.ValueOf(&k).Elem(), reflect.ValueOf(&v).Elem())
	})
}

func (m *OrderedMap[K, V]) hasValue(k reflect.Value) bool {
	key, _ := k.Interface().(K)
	return m.Has(key)
}

func (m *OrderedMap[K, V]) setValue(k, v reflect.Value) {
	key, _ := k.Interface().(K)
	val, _ := v.Interface().(V)
	m.Set(key, val)
}
