package s11n

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Celsius float64

type Direction int

func roundTrip[T any](t *testing.T, r *Registry, v T) T {
	t.Helper()

	n := NewNode("n")
	require.NoError(t, Serialize(r, n, v))

	var got T
	require.NoError(t, Deserialize(r, n, &got))
	return got
}

func TestScalarRoundTrip(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, true, roundTrip(t, r, true))
	assert.Equal(t, -42, roundTrip(t, r, -42))
	assert.Equal(t, int8(-8), roundTrip(t, r, int8(-8)))
	assert.Equal(t, uint16(65535), roundTrip(t, r, uint16(65535)))
	assert.Equal(t, uint64(1<<40), roundTrip(t, r, uint64(1<<40)))
	assert.Equal(t, uint64(math.MaxInt64+1), roundTrip(t, r, uint64(math.MaxInt64+1)))
	assert.Equal(t, uint64(math.MaxUint64), roundTrip(t, r, uint64(math.MaxUint64)))
	assert.Equal(t, uint(math.MaxUint), roundTrip(t, r, uint(math.MaxUint)))
	assert.Equal(t, int64(math.MinInt64), roundTrip(t, r, int64(math.MinInt64)))
	assert.Equal(t, 3.25, roundTrip(t, r, 3.25))
	assert.Equal(t, float32(0.5), roundTrip(t, r, float32(0.5)))
	assert.Equal(t, "hello world", roundTrip(t, r, "hello world"))
	assert.Equal(t, "", roundTrip(t, r, ""))
}

func TestNamedScalarClassName(t *testing.T) {
	r := NewRegistry()

	n := NewNode("temp")
	require.NoError(t, Serialize(r, n, Celsius(21.5)))
	assert.Equal(t, "Celsius", n.ClassName())

	var c Celsius
	require.NoError(t, Deserialize(r, n, &c))
	assert.Equal(t, Celsius(21.5), c)

	n = NewNode("i")
	require.NoError(t, Serialize(r, n, 7))
	assert.Equal(t, "int", n.ClassName())
}

func TestScalarOverflow(t *testing.T) {
	r := NewRegistry()

	n := NewNode("n")
	require.NoError(t, Serialize(r, n, 300))

	v := int8(1)
	err := Deserialize(r, n, &v)
	assert.ErrorIs(t, err, ErrMalformedNode)
	assert.Equal(t, int8(1), v)
}

func TestGeometryRoundTrip(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, Point{X: 3, Y: -4}, roundTrip(t, r, Point{X: 3, Y: -4}))
	assert.Equal(t, Size{W: 10, H: 20}, roundTrip(t, r, Size{W: 10, H: 20}))
	assert.Equal(t, Rect{X: 1, Y: 2, W: 3, H: 4}, roundTrip(t, r, Rect{X: 1, Y: 2, W: 3, H: 4}))

	n := NewNode("p")
	require.NoError(t, Serialize(r, n, Point{X: 1, Y: 2}))
	assert.Equal(t, "point", n.ClassName())
	assert.Equal(t, []string{"x", "y"}, n.Keys())
}

// -------------------------------

func TestSerializeRejectsNonEmptyTarget(t *testing.T) {
	r := NewRegistry()

	n := NewNode("n")
	n.Set("junk", 1)
	err := Serialize(r, n, 5)
	assert.ErrorIs(t, err, ErrStructural)
	assert.Equal(t, []string{"junk"}, n.Keys())
}

func TestSerializeUnknownType(t *testing.T) {
	r := NewRegistry()

	n := NewNode("n")
	err := Serialize(r, n, []int{1, 2})
	assert.ErrorIs(t, err, ErrTypeRejected)
	assert.True(t, n.IsEmpty())

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "lookup", e.Op)
}

func TestDeserializeLeavesTargetOnFailure(t *testing.T) {
	r := NewRegistry()

	n := NewNodeOfClass("p", "point")
	n.Set("x", 9)

	p := Point{X: 1, Y: 1}
	err := Deserialize(r, n, &p)
	assert.ErrorIs(t, err, ErrMalformedNode)
	assert.Equal(t, Point{X: 1, Y: 1}, p)
}

func TestRegisterTwice(t *testing.T) {
	r := NewRegistry()

	err := Register(r, Proxy[Point]{
		ClassName:   "other_point",
		Serialize:   func(*Registry, *Node, Point) error { return nil },
		Deserialize: func(*Registry, *Node, *Point) error { return nil },
	})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	err = Register(r, Proxy[Celsius]{
		ClassName:   "point",
		Serialize:   func(*Registry, *Node, Celsius) error { return nil },
		Deserialize: func(*Registry, *Node, *Celsius) error { return nil },
	})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	err = Register(r, Proxy[Direction]{ClassName: "direction"})
	assert.ErrorIs(t, err, ErrTypeRejected)
}

func TestExactProxyWinsOverShape(t *testing.T) {
	r := NewRegistry()
	MustRegister(r, Proxy[Direction]{
		ClassName: "direction",
		Serialize: func(_ *Registry, dst *Node, d Direction) error {
			dst.Set("deg", int(d)*90)
			return nil
		},
		Deserialize: func(_ *Registry, src *Node, dst *Direction) error {
			deg, err := src.GetInt("deg")
			if err != nil {
				return err
			}
			*dst = Direction(deg / 90)
			return nil
		},
	})

	n := NewNode("d")
	require.NoError(t, Serialize(r, n, Direction(3)))
	assert.Equal(t, "direction", n.ClassName())
	v, _ := n.Get("deg")
	assert.Equal(t, "270", v)

	assert.Equal(t, Direction(2), roundTrip(t, r, Direction(2)))
}

func TestLoadAnyByClassName(t *testing.T) {
	r := NewRegistry()

	n, err := Save(r, Rect{X: 1, Y: 2, W: 3, H: 4})
	require.NoError(t, err)
	assert.Equal(t, "rect", n.Name())

	v, err := LoadAny(r, n)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 1, Y: 2, W: 3, H: 4}, v)

	n.SetClassName("no_such_class")
	_, err = LoadAny(r, n)
	assert.ErrorIs(t, err, ErrTypeRejected)

	obj, err := Create(r, "size")
	require.NoError(t, err)
	assert.Equal(t, Size{}, obj)
}

func TestSubnodes(t *testing.T) {
	r := NewRegistry()

	root := NewNode("root")
	require.NoError(t, SerializeSubnode(r, root, "origin", Point{X: 5, Y: 6}))
	require.NoError(t, SerializeSubnode(r, root, "label", "board"))

	var p Point
	require.NoError(t, DeserializeSubnode(r, root, "origin", &p))
	assert.Equal(t, Point{X: 5, Y: 6}, p)

	var s string
	err := DeserializeSubnode(r, root, "missing", &s)
	assert.ErrorIs(t, err, ErrMalformedNode)
}

// -------------------------------

func TestValueRoundTrip(t *testing.T) {
	r := NewRegistry()

	for _, x := range []any{true, 12, 2.5, "text", Point{X: 1, Y: 2}, Size{W: 3, H: 4}, Rect{X: 1, Y: 2, W: 3, H: 4}} {
		v := MustValueOf(x)
		n := NewNode("v")
		require.NoError(t, Serialize(r, n, v))
		assert.Equal(t, v.Kind().String(), n.ClassName())

		var got Value
		require.NoError(t, Deserialize(r, n, &got))
		assert.True(t, v.Equal(got), "%v != %v", v, got)
	}
}

func TestValueOf(t *testing.T) {
	v, err := ValueOf(int32(7))
	require.NoError(t, err)
	i, ok := v.AsInt()
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	v, err = ValueOf(float32(1.5))
	require.NoError(t, err)
	assert.Equal(t, Float, v.Kind())

	_, err = ValueOf(uint64(1))
	assert.ErrorIs(t, err, ErrTypeRejected)
	_, err = ValueOf([]string{"x"})
	assert.ErrorIs(t, err, ErrTypeRejected)
	_, err = ValueOf(nil)
	assert.ErrorIs(t, err, ErrTypeRejected)

	assert.False(t, CanHandle(struct{}{}))
	assert.True(t, CanHandle("ok"))
}

func TestValueUnknownTag(t *testing.T) {
	r := NewRegistry()

	n := NewNodeOfClass("v", "complex128")
	n.Set("v", "1+2i")

	v := MustValueOf(1)
	err := Deserialize(r, n, &v)
	assert.ErrorIs(t, err, ErrMalformedNode)
	assert.True(t, v.Equal(MustValueOf(1)))
}

func TestInterfaceValuesResolveByClassName(t *testing.T) {
	r := NewRegistry()

	m := map[string]any{"n": 3, "s": "x", "p": Point{X: 1, Y: 1}, "ok": true}
	assert.Equal(t, m, roundTrip(t, r, m))

	err := Serialize(r, NewNode("m"), map[string]any{"nil": nil})
	assert.ErrorIs(t, err, ErrTypeRejected)
}
