package piece

import (
	"errors"

	"github.com/KumKeeHyun/s11n"
)

func init() {
	if err := Register(s11n.Default); err != nil {
		panic(err)
	}
}

// Register adds the *Piece and *List proxies to r. opts apply to every piece
// the registry creates while deserializing.
func Register(r *s11n.Registry, opts ...PieceOption) error {
	err := s11n.Register(r, s11n.Proxy[*Piece]{
		ClassName: PieceClass,
		Serialize: func(r *s11n.Registry, dst *s11n.Node, v *Piece) error {
			if v == nil {
				return &s11n.Error{Kind: s11n.ErrTypeRejected, Op: "serialize", Node: dst.Name(),
					Err: errors.New("nil piece")}
			}
			return v.serialize(r, dst)
		},
		Deserialize: func(r *s11n.Registry, src *s11n.Node, dst **Piece) error {
			if *dst != nil {
				return (*dst).deserialize(r, src)
			}
			p := NewPiece(opts...)
			if err := p.deserialize(r, src); err != nil {
				p.Destroy()
				return err
			}
			*dst = p
			return nil
		},
		Cleanup: func(_ *s11n.Registry, v **Piece) {
			if *v == nil {
				return
			}
			(*v).Destroy()
			*v = nil
		},
		New: func() *Piece {
			return NewPiece(opts...)
		},
	})
	if err != nil {
		return err
	}

	return s11n.Register(r, s11n.Proxy[*List]{
		ClassName: ListClass,
		Serialize: func(r *s11n.Registry, dst *s11n.Node, v *List) error {
			if v == nil {
				return &s11n.Error{Kind: s11n.ErrTypeRejected, Op: "serialize", Node: dst.Name(),
					Err: errors.New("nil piece list")}
			}
			return v.serialize(r, dst)
		},
		Deserialize: func(r *s11n.Registry, src *s11n.Node, dst **List) error {
			if *dst != nil {
				return (*dst).deserialize(r, src, opts)
			}
			l := NewList()
			if err := l.deserialize(r, src, opts); err != nil {
				return err
			}
			*dst = l
			return nil
		},
		Cleanup: func(_ *s11n.Registry, v **List) {
			if *v == nil {
				return
			}
			(*v).Destroy()
			*v = nil
		},
		New: func() *List {
			return NewList()
		},
	})
}

// -------------------------------

func Save(r *s11n.Registry, p *Piece) (*s11n.Node, error) {
	return s11n.Save(r, p)
}

func Load(r *s11n.Registry, n *s11n.Node) (*Piece, error) {
	return s11n.Load[*Piece](r, n)
}

func SaveList(r *s11n.Registry, l *List) (*s11n.Node, error) {
	return s11n.Save(r, l)
}

func LoadList(r *s11n.Registry, n *s11n.Node) (*List, error) {
	return s11n.Load[*List](r, n)
}
