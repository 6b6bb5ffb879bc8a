package s11n

import (
	"reflect"
)

const pairClass = "pair"

type Pair[T1, T2 any] struct {
	First  T1
	Second T2
}

func NewPair[T1, T2 any](first T1, second T2) Pair[T1, T2] {
	return Pair[T1, T2]{
		First:  first,
		Second: second,
	}
}

func (Pair[T1, T2]) pair() {}

type pairLike interface {
	pair()
}

var pairLikeType = typeOf[pairLike]()

// pairShape serves every Pair instantiation with one codec.
func pairShape(_ *Registry, t reflect.Type) (*proxy, error) {
	if t.Kind() != reflect.Struct || !t.Implements(pairLikeType) {
		return nil, nil
	}
	return &proxy{
		typ:       t,
		className: pairClass,
		serialize: func(r *Registry, dst *Node, v reflect.Value) error {
			return serializePair(r, dst, v.Field(0), v.Field(1))
		},
		deserialize: func(r *Registry, src *Node, dst reflect.Value) error {
			first := reflect.New(t.Field(0).Type).Elem()
			second := reflect.New(t.Field(1).Type).Elem()
			if err := deserializePair(r, src, first, second); err != nil {
				return err
			}
			dst.Field(0).Set(first)
			dst.Field(1).Set(second)
			return nil
		},
		cleanup: func(r *Registry, v reflect.Value) {
			r.cleanupValue(v.Field(1))
		},
	}, nil
}

func serializePair(r *Registry, dst *Node, first, second reflect.Value) error {
	dst.SetClassName(pairClass)
	if err := r.serializeSubnode(dst, "first", first); err != nil {
		return err
	}
	return r.serializeSubnode(dst, "second", second)
}

// deserializePair fills first and second, which must be fresh zero values.
// When the second half fails the first one is cleaned up again.
func deserializePair(r *Registry, src *Node, first, second reflect.Value) error {
	fn, exists := src.FindChild("first")
	if !exists {
		return errorf(ErrMalformedNode, "deserialize_pair", src.name, "missing child \"first\"")
	}
	sn, exists := src.FindChild("second")
	if !exists {
		return errorf(ErrMalformedNode, "deserialize_pair", src.name, "missing child \"second\"")
	}
	if err := r.deserializeValue(fn, first); err != nil {
		return err
	}
	if err := r.deserializeValue(sn, second); err != nil {
		r.cleanupValue(first)
		return err
	}
	return nil
}
