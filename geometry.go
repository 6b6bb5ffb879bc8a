package s11n

import "fmt"

type Point struct {
	X, Y int
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

type Size struct {
	W, H int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

type Rect struct {
	X, Y, W, H int
}

func NewRect(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: size.W, H: size.H}
}

func (r Rect) Pos() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

func (r Rect) String() string {
	return fmt.Sprintf("%v+%v", r.Pos(), r.Size())
}

// -------------------------------

const (
	pointClass = "point"
	sizeClass  = "size"
	rectClass  = "rect"
)

func registerGeometry(r *Registry) {
	MustRegister(r, Proxy[Point]{
		ClassName: pointClass,
		Serialize: func(_ *Registry, dst *Node, p Point) error {
			dst.Set("x", p.X)
			dst.Set("y", p.Y)
			return nil
		},
		Deserialize: func(_ *Registry, src *Node, dst *Point) error {
			x, err := src.GetInt("x")
			if err != nil {
				return err
			}
			y, err := src.GetInt("y")
			if err != nil {
				return err
			}
			*dst = Point{X: x, Y: y}
			return nil
		},
	})
	MustRegister(r, Proxy[Size]{
		ClassName: sizeClass,
		Serialize: func(_ *Registry, dst *Node, s Size) error {
			dst.Set("w", s.W)
			dst.Set("h", s.H)
			return nil
		},
		Deserialize: func(_ *Registry, src *Node, dst *Size) error {
			w, err := src.GetInt("w")
			if err != nil {
				return err
			}
			h, err := src.GetInt("h")
			if err != nil {
				return err
			}
			*dst = Size{W: w, H: h}
			return nil
		},
	})
	MustRegister(r, Proxy[Rect]{
		ClassName: rectClass,
		Serialize: func(_ *Registry, dst *Node, rc Rect) error {
			dst.Set("x", rc.X)
			dst.Set("y", rc.Y)
			dst.Set("w", rc.W)
			dst.Set("h", rc.H)
			return nil
		},
		Deserialize: func(_ *Registry, src *Node, dst *Rect) error {
			var rc Rect
			for _, f := range []struct {
				key string
				ptr *int
			}{{"x", &rc.X}, {"y", &rc.Y}, {"w", &rc.W}, {"h", &rc.H}} {
				i, err := src.GetInt(f.key)
				if err != nil {
					return err
				}
				*f.ptr = i
			}
			*dst = rc
			return nil
		},
	})
}
