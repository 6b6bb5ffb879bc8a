package s11n

import (
	"fmt"
	"reflect"
)

// Proxy is the serialize/deserialize function pair registered for T.
//
// Serialize writes v into an empty node. Deserialize must either fully
// populate dst or leave it untouched. Cleanup releases owned values held by
// a T that is being abandoned; it may be nil for non-owning types. New
// returns a fresh T for class-name driven creation; nil means the zero value.
type Proxy[T any] struct {
	ClassName   string
	Serialize   func(r *Registry, dst *Node, v T) error
	Deserialize func(r *Registry, src *Node, dst *T) error
	Cleanup     func(r *Registry, v *T)
	New         func() T
}

// proxy is the type-erased form stored in a Registry.
type proxy struct {
	typ       reflect.Type
	className string

	serialize   func(r *Registry, dst *Node, v reflect.Value) error
	deserialize func(r *Registry, src *Node, dst reflect.Value) error
	cleanup     func(r *Registry, v reflect.Value)
	create      func() reflect.Value
}

func (p Proxy[T]) erase() *proxy {
	t := typeOf[T]()
	ep := &proxy{
		typ:       t,
		className: p.ClassName,
		serialize: func(r *Registry, dst *Node, v reflect.Value) error {
			return p.Serialize(r, dst, v.Interface().(T))
		},
		deserialize: func(r *Registry, src *Node, dst reflect.Value) error {
			return p.Deserialize(r, src, addressOf(dst).Interface().(*T))
		},
		create: func() reflect.Value {
			v := reflect.New(t).Elem()
			if p.New != nil {
				v.Set(reflect.ValueOf(p.New()))
			}
			return v
		},
	}
	if p.Cleanup != nil {
		ep.cleanup = func(r *Registry, v reflect.Value) {
			p.Cleanup(r, addressOf(v).Interface().(*T))
		}
	}
	return ep
}

// Register adds the proxy for T. Registering a type or class name twice is
// an error; proxies are never unregistered.
func Register[T any](r *Registry, p Proxy[T]) error {
	if p.Serialize == nil || p.Deserialize == nil {
		return errorf(ErrTypeRejected, "register", p.ClassName, "proxy for %s is incomplete", typeOf[T]())
	}
	return r.add(p.erase())
}

func MustRegister[T any](r *Registry, p Proxy[T]) {
	if err := Register(r, p); err != nil {
		panic(fmt.Sprintf("s11n: %v", err))
	}
}

// -------------------------------

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// valueOf returns the reflect.Value of v, resolving interfaces to their
// dynamic value so dispatch follows the runtime type.
func valueOf[T any](v T) reflect.Value {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}

// addressOf returns a pointer to v, copying v into fresh storage when it is
// not addressable.
func addressOf(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}
