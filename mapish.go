package s11n

import (
	"reflect"
	"sort"

	"go.uber.org/zap"
)

const (
	mapClass        = "map"
	orderedMapClass = "ordered_map"
	pairNodeName    = "pair"
)

// MapTraits describes how the map codec walks and rebuilds an associative
// container. Only the traits differ between container types; the
// serialize, deserialize and cleanup algorithms are shared.
type MapTraits interface {
	Type() reflect.Type
	ClassName() string
	KeyType() reflect.Type
	ValueType() reflect.Type

	// Range visits the entries of m in the container's order.
	Range(m reflect.Value, fn func(k, v reflect.Value) bool)
	// MakeBuffer returns a settable, empty container.
	MakeBuffer() reflect.Value
	Has(buf, k reflect.Value) bool
	Insert(buf, k, v reflect.Value)
	// Assign replaces dst with buf in one step.
	Assign(dst, buf reflect.Value)
	Clear(m reflect.Value)
}

// RegisterMapTraits registers the map codec for a custom container type.
func RegisterMapTraits(r *Registry, tr MapTraits) error {
	if err := checkKeyType(tr.KeyType()); err != nil {
		return err
	}
	p := mapProxy(tr)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.proxies[p.typ]; exists {
		return errorf(ErrAlreadyRegistered, "register", p.className, "type %s", p.typ)
	}
	r.proxies[p.typ] = p
	return nil
}

func mapProxy(tr MapTraits) *proxy {
	return &proxy{
		typ:       tr.Type(),
		className: tr.ClassName(),
		serialize: func(r *Registry, dst *Node, v reflect.Value) error {
			return serializeMapish(r, dst, tr, v)
		},
		deserialize: func(r *Registry, src *Node, dst reflect.Value) error {
			return deserializeMapish(r, src, tr, dst)
		},
		cleanup: func(r *Registry, v reflect.Value) {
			cleanupMapish(r, tr, v)
		},
	}
}

// checkKeyType enforces that map keys are non-owning: cleanup only ever
// releases the value side of an entry.
func checkKeyType(kt reflect.Type) error {
	switch kt.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan,
		reflect.Interface, reflect.UnsafePointer:
		return errorf(ErrTypeRejected, "register", "", "map key type %s may own a value", kt)
	}
	if kt.Implements(destroyerType) || reflect.PointerTo(kt).Implements(destroyerType) {
		return errorf(ErrTypeRejected, "register", "", "map key type %s is a Destroyer", kt)
	}
	return nil
}

// -------------------------------

func serializeMapish(r *Registry, dst *Node, tr MapTraits, src reflect.Value) error {
	if !dst.IsEmpty() {
		return errorf(ErrStructural, "serialize_map", dst.name, "target node is not empty")
	}
	dst.SetClassName(tr.ClassName())

	var err error
	tr.Range(src, func(k, v reflect.Value) bool {
		ch := NewNode(pairNodeName)
		if perr := serializePair(r, ch, k, v); perr != nil {
			r.log.Debug("map child failed to serialize",
				zap.String("node", dst.name), zap.Error(perr))
			err = newError(ErrPartialChildFailure, "serialize_map", dst.name, perr)
			return false
		}
		_ = dst.Push(ch)
		return true
	})
	return err
}

// deserializeMapish rebuilds the container in a buffer and assigns it to dst
// only when every child succeeded. On failure, including a panic raised by a
// child proxy, the buffer is cleaned up and dst is untouched.
func deserializeMapish(r *Registry, src *Node, tr MapTraits, dst reflect.Value) error {
	if len(src.children) == 0 {
		return nil
	}

	buf := tr.MakeBuffer()
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("panic while deserializing map, cleaning up",
				zap.String("node", src.name), zap.Any("panic", rec))
			cleanupMapish(r, tr, buf)
			panic(rec)
		}
	}()

	for _, ch := range src.children {
		k := reflect.New(tr.KeyType()).Elem()
		v := reflect.New(tr.ValueType()).Elem()
		err := deserializePair(r, ch, k, v)
		if err == nil && tr.Has(buf, k) {
			r.cleanupValue(v)
			err = errorf(ErrMalformedNode, "deserialize_map", ch.name, "duplicate key %v", k.Interface())
		}
		if err != nil {
			r.log.Debug("map child failed to deserialize, cleaning up",
				zap.String("node", src.name), zap.String("child", ch.name), zap.Error(err))
			cleanupMapish(r, tr, buf)
			return newError(ErrPartialChildFailure, "deserialize_map", src.name, err)
		}
		tr.Insert(buf, k, v)
	}
	tr.Assign(dst, buf)
	return nil
}

// cleanupMapish releases every value of m, never the keys, then empties m.
func cleanupMapish(r *Registry, tr MapTraits, m reflect.Value) {
	tr.Range(m, func(_, v reflect.Value) bool {
		tmp := reflect.New(v.Type()).Elem()
		tmp.Set(v)
		r.cleanupValue(tmp)
		return true
	})
	tr.Clear(m)
}

// -------------------------------

type builtinMapTraits struct {
	t reflect.Type
}

var _ MapTraits = builtinMapTraits{}

func builtinMapShape(_ *Registry, t reflect.Type) (*proxy, error) {
	if t.Kind() != reflect.Map {
		return nil, nil
	}
	if err := checkKeyType(t.Key()); err != nil {
		return nil, err
	}
	return mapProxy(builtinMapTraits{t: t}), nil
}

func (tr builtinMapTraits) Type() reflect.Type      { return tr.t }
func (tr builtinMapTraits) ClassName() string       { return mapClass }
func (tr builtinMapTraits) KeyType() reflect.Type   { return tr.t.Key() }
func (tr builtinMapTraits) ValueType() reflect.Type { return tr.t.Elem() }

// Range visits keys in ascending order when the key kind is ordered. Go maps
// have no order of their own, so any other key kind is visited unordered.
func (tr builtinMapTraits) Range(m reflect.Value, fn func(k, v reflect.Value) bool) {
	if m.IsNil() {
		return
	}
	keys := m.MapKeys()
	sortKeys(keys)
	for _, k := range keys {
		if !fn(k, m.MapIndex(k)) {
			return
		}
	}
}

func (tr builtinMapTraits) MakeBuffer() reflect.Value {
	buf := reflect.New(tr.t).Elem()
	buf.Set(reflect.MakeMap(tr.t))
	return buf
}

func (tr builtinMapTraits) Has(buf, k reflect.Value) bool {
	return buf.MapIndex(k).IsValid()
}

func (tr builtinMapTraits) Insert(buf, k, v reflect.Value) {
	buf.SetMapIndex(k, v)
}

func (tr builtinMapTraits) Assign(dst, buf reflect.Value) {
	dst.Set(buf)
}

func (tr builtinMapTraits) Clear(m reflect.Value) {
	if m.IsNil() {
		return
	}
	for _, k := range m.MapKeys() {
		m.SetMapIndex(k, reflect.Value{})
	}
}

func sortKeys(keys []reflect.Value) {
	if len(keys) == 0 {
		return
	}
	var less func(a, b reflect.Value) bool
	switch keys[0].Kind() {
	case reflect.String:
		less = func(a, b reflect.Value) bool { return a.String() < b.String() }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		less = func(a, b reflect.Value) bool { return a.Int() < b.Int() }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		less = func(a, b reflect.Value) bool { return a.Uint() < b.Uint() }
	case reflect.Float32, reflect.Float64:
		less = func(a, b reflect.Value) bool { return a.Float() < b.Float() }
	case reflect.Bool:
		less = func(a, b reflect.Value) bool { return !a.Bool() && b.Bool() }
	default:
		return
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
}

// -------------------------------

type orderedMapTraits struct {
	t    reflect.Type
	kt   reflect.Type
	vt   reflect.Type
	name string
}

var _ MapTraits = orderedMapTraits{}

func orderedMapShape(_ *Registry, t reflect.Type) (*proxy, error) {
	if t.Kind() != reflect.Struct || !reflect.PointerTo(t).Implements(orderedMapLikeType) {
		return nil, nil
	}
	like := reflect.New(t).Interface().(orderedMapLike)
	tr := orderedMapTraits{
		t:    t,
		kt:   like.keyType(),
		vt:   like.valueType(),
		name: orderedMapClass,
	}
	if err := checkKeyType(tr.kt); err != nil {
		return nil, err
	}
	return mapProxy(tr), nil
}

func (tr orderedMapTraits) like(m reflect.Value) orderedMapLike {
	return addressOf(m).Interface().(orderedMapLike)
}

func (tr orderedMapTraits) Type() reflect.Type      { return tr.t }
func (tr orderedMapTraits) ClassName() string       { return tr.name }
func (tr orderedMapTraits) KeyType() reflect.Type   { return tr.kt }
func (tr orderedMapTraits) ValueType() reflect.Type { return tr.vt }

func (tr orderedMapTraits) Range(m reflect.Value, fn func(k, v reflect.Value) bool) {
	tr.like(m).rangeValues(fn)
}

func (tr orderedMapTraits) MakeBuffer() reflect.Value {
	return reflect.New(tr.t).Elem()
}

func (tr orderedMapTraits) Has(buf, k reflect.Value) bool {
	return tr.like(buf).hasValue(k)
}

func (tr orderedMapTraits) Insert(buf, k, v reflect.Value) {
	tr.like(buf).setValue(k, v)
}

func (tr orderedMapTraits) Assign(dst, buf reflect.Value) {
	dst.Set(buf)
}

func (tr orderedMapTraits) Clear(m reflect.Value) {
	tr.like(m).Clear()
}

// -------------------------------

func mapTraitsFor(t reflect.Type) (MapTraits, error) {
	if err := checkKeyType(t.Key()); err != nil {
		return nil, err
	}
	return builtinMapTraits{t: t}, nil
}

// SerializeMap writes m into dst, which must be empty, as one "pair" child
// per entry.
func SerializeMap[M ~map[K]V, K comparable, V any](r *Registry, dst *Node, m M) error {
	tr, err := mapTraitsFor(typeOf[M]())
	if err != nil {
		return err
	}
	return serializeMapish(r, dst, tr, reflect.ValueOf(m))
}

// DeserializeMap restores *dst from src. On failure *dst is untouched.
func DeserializeMap[M ~map[K]V, K comparable, V any](r *Registry, src *Node, dst *M) error {
	if dst == nil {
		return errorf(ErrStructural, "deserialize_map", src.name, "nil destination")
	}
	tr, err := mapTraitsFor(typeOf[M]())
	if err != nil {
		return err
	}
	return deserializeMapish(r, src, tr, reflect.ValueOf(dst).Elem())
}

func SerializeMapSubnode[M ~map[K]V, K comparable, V any](r *Registry, dst *Node, name string, m M) error {
	ch := NewNode(name)
	if err := SerializeMap(r, ch, m); err != nil {
		return err
	}
	return dst.Push(ch)
}

func DeserializeMapSubnode[M ~map[K]V, K comparable, V any](r *Registry, src *Node, name string, dst *M) error {
	ch, exists := src.FindChild(name)
	if !exists {
		return errorf(ErrMalformedNode, "deserialize_map", src.name, "missing child %q", name)
	}
	return DeserializeMap(r, ch, dst)
}
