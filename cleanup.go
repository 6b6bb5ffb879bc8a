package s11n

import (
	"reflect"
)

// Destroyer marks a value that owns resources and must be released when an
// aggregate holding it is abandoned.
type Destroyer interface {
	Destroy()
}

var destroyerType = typeOf[Destroyer]()

// Cleanup releases the owned values held by *v and leaves it empty. Maps
// release their values but never their keys.
func Cleanup[T any](r *Registry, v *T) {
	if v == nil {
		return
	}
	r.cleanupValue(reflect.ValueOf(v).Elem())
}

func destroyIfOwning(v reflect.Value) {
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return
	}
	if d, ok := v.Interface().(Destroyer); ok {
		d.Destroy()
	} else if v.CanAddr() {
		if d, ok := v.Addr().Interface().(Destroyer); ok {
			d.Destroy()
		}
	}
}

// -------------------------------

// pointerShape serves *T for any serializable T. A deserialized *T is a
// freshly allocated, owned value; its cleanup destroys it and resets the
// pointer. A pointer to a type without a proxy is rejected when derived.
func pointerShape(r *Registry, t reflect.Type) (*proxy, error) {
	if t.Kind() != reflect.Pointer {
		return nil, nil
	}
	elem := t.Elem()
	ep, err := r.lookup(elem)
	if err != nil {
		return nil, err
	}
	return &proxy{
		typ:       t,
		className: ep.className,
		serialize: func(r *Registry, dst *Node, v reflect.Value) error {
			if v.IsNil() {
				return errorf(ErrTypeRejected, "serialize", dst.name, "nil %s", t)
			}
			dst.SetClassName(ep.className)
			return ep.serialize(r, dst, v.Elem())
		},
		deserialize: func(r *Registry, src *Node, dst reflect.Value) error {
			obj := ep.create()
			if err := ep.deserialize(r, src, obj); err != nil {
				return err
			}
			ptr := reflect.New(elem)
			ptr.Elem().Set(obj)
			dst.Set(ptr)
			return nil
		},
		cleanup: func(r *Registry, v reflect.Value) {
			if v.IsNil() {
				return
			}
			if d, ok := v.Interface().(Destroyer); ok {
				d.Destroy()
			} else {
				r.cleanupValue(v.Elem())
			}
			if v.CanSet() {
				v.Set(reflect.Zero(t))
			}
		},
	}, nil
}
