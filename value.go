package s11n

import (
	"fmt"
	"reflect"
)

// Kind tags the scalar held by a Value. The tag text doubles as the class
// name of the Value's node, so a Value node reads like the plain scalar.
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Int
	Float
	String
	PointKind
	SizeKind
	RectKind
)

var kindNames = map[Kind]string{
	Bool:      "bool",
	Int:       "int",
	Float:     "float64",
	String:    "string",
	PointKind: pointClass,
	SizeKind:  sizeClass,
	RectKind:  rectClass,
}

var kindTypes = map[Kind]reflect.Type{
	Bool:      typeOf[bool](),
	Int:       typeOf[int](),
	Float:     typeOf[float64](),
	String:    typeOf[string](),
	PointKind: typeOf[Point](),
	SizeKind:  typeOf[Size](),
	RectKind:  typeOf[Rect](),
}

func (k Kind) String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return "invalid"
}

func kindOf(tag string) Kind {
	for k, name := range kindNames {
		if name == tag {
			return k
		}
	}
	return Invalid
}

// Value is the tagged scalar union used for dynamic properties.
type Value struct {
	kind Kind
	v    any
}

// ValueOf wraps x. Integer and float kinds are widened to int and float64;
// anything outside the union is rejected.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case bool:
		return Value{Bool, v}, nil
	case int:
		return Value{Int, v}, nil
	case int8:
		return Value{Int, int(v)}, nil
	case int16:
		return Value{Int, int(v)}, nil
	case int32:
		return Value{Int, int(v)}, nil
	case int64:
		return Value{Int, int(v)}, nil
	case uint8:
		return Value{Int, int(v)}, nil
	case uint16:
		return Value{Int, int(v)}, nil
	case uint32:
		return Value{Int, int(v)}, nil
	case float32:
		return Value{Float, float64(v)}, nil
	case float64:
		return Value{Float, v}, nil
	case string:
		return Value{String, v}, nil
	case Point:
		return Value{PointKind, v}, nil
	case Size:
		return Value{SizeKind, v}, nil
	case Rect:
		return Value{RectKind, v}, nil
	}
	return Value{}, errorf(ErrTypeRejected, "value", "", "unsupported type %T", x)
}

func MustValueOf(x any) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}

// CanHandle reports whether x fits the Value union.
func CanHandle(x any) bool {
	_, err := ValueOf(x)
	return err == nil
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != Invalid
}

// Interface returns the wrapped Go value.
func (v Value) Interface() any {
	return v.v
}

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.v == o.v
}

func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

func (v Value) AsInt() (int, bool) {
	i, ok := v.v.(int)
	return i, ok
}

func (v Value) AsFloat() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok
}

func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

func (v Value) AsPoint() (Point, bool) {
	p, ok := v.v.(Point)
	return p, ok
}

func (v Value) AsSize() (Size, bool) {
	s, ok := v.v.(Size)
	return s, ok
}

func (v Value) AsRect() (Rect, bool) {
	r, ok := v.v.(Rect)
	return r, ok
}

func (v Value) String() string {
	if !v.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s(%v)", v.kind, v.v)
}

// -------------------------------

const valueClass = "value"

func registerValue(r *Registry) {
	MustRegister(r, Proxy[Value]{
		ClassName: valueClass,
		Serialize: func(r *Registry, dst *Node, v Value) error {
			if !v.IsValid() {
				return errorf(ErrTypeRejected, "serialize", dst.name, "invalid value")
			}
			p, err := r.lookup(kindTypes[v.kind])
			if err != nil {
				return err
			}
			if err := p.serialize(r, dst, reflect.ValueOf(v.v)); err != nil {
				return err
			}
			dst.SetClassName(v.kind.String())
			return nil
		},
		Deserialize: func(r *Registry, src *Node, dst *Value) error {
			kind := kindOf(src.className)
			if kind == Invalid {
				return errorf(ErrMalformedNode, "deserialize", src.name, "unknown value tag %q", src.className)
			}
			p, err := r.lookup(kindTypes[kind])
			if err != nil {
				return err
			}
			tmp := reflect.New(p.typ).Elem()
			if err := p.deserialize(r, src, tmp); err != nil {
				return err
			}
			*dst = Value{kind: kind, v: tmp.Interface()}
			return nil
		},
	})
}
