// Package s11n converts objects to and from a named, class-tagged tree of
// string-keyed nodes. Proxies are looked up per type in a Registry; maps,
// pairs, pointers and scalar kinds are served structurally so each new
// instantiation needs no proxy of its own.
package s11n

import (
	"reflect"
)

// Serialize writes v into dst. dst must be empty; on failure it holds at
// most the class name tag.
func Serialize[T any](r *Registry, dst *Node, v T) error {
	return r.serializeValue(dst, valueOf(v))
}

// Deserialize restores *dst from src. On failure *dst is left unchanged.
// When T is an interface type the concrete type is chosen by the node's
// class name.
func Deserialize[T any](r *Registry, src *Node, dst *T) error {
	if dst == nil {
		return errorf(ErrStructural, "deserialize", "", "nil destination")
	}
	return r.deserializeValue(src, reflect.ValueOf(dst).Elem())
}

// SerializeSubnode serializes v into a new child of dst named name.
func SerializeSubnode[T any](r *Registry, dst *Node, name string, v T) error {
	return r.serializeSubnode(dst, name, valueOf(v))
}

// DeserializeSubnode restores *dst from the first child of src named name.
func DeserializeSubnode[T any](r *Registry, src *Node, name string, dst *T) error {
	if dst == nil {
		return errorf(ErrStructural, "deserialize", src.name, "nil destination")
	}
	return r.deserializeSubnode(src, name, reflect.ValueOf(dst).Elem())
}

// Save serializes v into a new detached node named after its class.
func Save[T any](r *Registry, v T) (*Node, error) {
	n := NewNode("")
	if err := Serialize(r, n, v); err != nil {
		return nil, err
	}
	n.SetName(n.ClassName())
	return n, nil
}

// Load deserializes a fresh T from n.
func Load[T any](r *Registry, n *Node) (T, error) {
	var v T
	err := Deserialize(r, n, &v)
	return v, err
}

// LoadAny creates the object named by n's class name and deserializes it.
func LoadAny(r *Registry, n *Node) (any, error) {
	if n == nil {
		return nil, errorf(ErrMalformedNode, "load", "", "nil node")
	}
	var v any
	if err := Deserialize(r, n, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Create returns a new, not yet deserialized object of the registered class.
func Create(r *Registry, className string) (any, error) {
	p, err := r.lookupClass(className)
	if err != nil {
		return nil, err
	}
	return p.create().Interface(), nil
}
