package piece

import (
	"github.com/KumKeeHyun/s11n"
)

const (
	ClipboardClass = "clipboard"

	clipPieces = "pieces"
)

// Copy writes pieces into a clipboard node. origin is stored with them so a
// later Paste can keep their relative layout.
func Copy(r *s11n.Registry, origin s11n.Point, pieces ...*Piece) (*s11n.Node, error) {
	n := s11n.NewNodeOfClass(ClipboardClass, ClipboardClass)
	n.Set("x", origin.X)
	n.Set("y", origin.Y)

	list := s11n.NewNodeOfClass(clipPieces, ListClass)
	for _, p := range pieces {
		if err := s11n.SerializeSubnode(r, list, pieceNode, p); err != nil {
			return nil, err
		}
	}
	if err := n.Push(list); err != nil {
		return nil, err
	}
	return n, nil
}

// Paste restores the pieces of a clipboard node and moves each one by
// at minus the copied origin. On failure no piece survives.
func Paste(r *s11n.Registry, n *s11n.Node, at s11n.Point) (*List, error) {
	if n == nil || n.ClassName() != ClipboardClass {
		return nil, s11n.ErrMalformedNode
	}
	x, err := n.GetInt("x")
	if err != nil {
		return nil, err
	}
	y, err := n.GetInt("y")
	if err != nil {
		return nil, err
	}
	delta := at.Sub(s11n.Point{X: x, Y: y})

	var l *List
	if err := s11n.DeserializeSubnode(r, n, clipPieces, &l); err != nil {
		return nil, err
	}
	for _, p := range l.order {
		pos, _ := p.Property(PropPos)
		origin, _ := pos.(s11n.Point)
		if err := p.SetProperty(PropPos, origin.Add(delta)); err != nil {
			l.ClearPieces()
			return nil, err
		}
	}
	return l, nil
}
