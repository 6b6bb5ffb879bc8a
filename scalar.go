package s11n

import (
	"reflect"
)

// scalarAttr is the attribute holding the text of a scalar node.
const scalarAttr = "v"

// scalarShape serves every bool, integer, float and string kind, named or
// not, with one codec. A named scalar type is tagged with its type name.
func scalarShape(_ *Registry, t reflect.Type) (*proxy, error) {
	if !isScalarKind(t.Kind()) {
		return nil, nil
	}
	className := t.Kind().String()
	if t.PkgPath() != "" {
		className = t.Name()
	}
	return &proxy{
		typ:         t,
		className:   className,
		serialize:   serializeScalar,
		deserialize: deserializeScalar,
	}, nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func serializeScalar(_ *Registry, dst *Node, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		return dst.Set(scalarAttr, v.Bool())
	case reflect.String:
		return dst.Set(scalarAttr, v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return dst.Set(scalarAttr, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return dst.Set(scalarAttr, v.Uint())
	case reflect.Float32, reflect.Float64:
		return dst.Set(scalarAttr, v.Float())
	default:
		return errorf(ErrTypeRejected, "serialize", dst.name, "%s is not a scalar", v.Type())
	}
}

// deserializeScalar parses the whole value before touching dst.
func deserializeScalar(_ *Registry, src *Node, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Bool:
		b, err := src.GetBool(scalarAttr)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.String:
		s, err := src.GetString(scalarAttr)
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := src.GetInt64(scalarAttr)
		if err != nil {
			return err
		}
		if dst.OverflowInt(i) {
			return errorf(ErrMalformedNode, "deserialize", src.name, "%d overflows %s", i, dst.Type())
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := src.GetUint64(scalarAttr)
		if err != nil {
			return err
		}
		if dst.OverflowUint(u) {
			return errorf(ErrMalformedNode, "deserialize", src.name, "%d overflows %s", u, dst.Type())
		}
		dst.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := src.GetFloat(scalarAttr)
		if err != nil {
			return err
		}
		if dst.OverflowFloat(f) {
			return errorf(ErrMalformedNode, "deserialize", src.name, "%g overflows %s", f, dst.Type())
		}
		dst.SetFloat(f)
	default:
		return errorf(ErrTypeRejected, "deserialize", src.name, "%s is not a scalar", dst.Type())
	}
	return nil
}

// registerScalars registers the unnamed scalar types up front so their class
// names resolve in LoadAny and Create.
func registerScalars(r *Registry) {
	for _, t := range []reflect.Type{
		typeOf[bool](), typeOf[string](),
		typeOf[int](), typeOf[int8](), typeOf[int16](), typeOf[int32](), typeOf[int64](),
		typeOf[uint](), typeOf[uint8](), typeOf[uint16](), typeOf[uint32](), typeOf[uint64](),
		typeOf[float32](), typeOf[float64](),
	} {
		p, _ := scalarShape(r, t)
		if err := r.add(p); err != nil {
			panic("s11n: " + err.Error())
		}
	}
}
