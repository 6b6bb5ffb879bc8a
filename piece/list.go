package piece

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KumKeeHyun/s11n"
)

const (
	ListClass = "GamePieceList"

	pieceNode = "piece"
)

// List owns a set of pieces. It watches each member's Destructing signal so
// a piece destroyed elsewhere drops out of the set on its own; members hold
// no reference back to the list.
type List struct {
	order []*Piece
	subs  map[*Piece]Subscription
	log   *zap.Logger

	Added   Signal[*Piece]
	Removed Signal[*Piece]
}

var _ s11n.Destroyer = &List{}

type ListOption func(*List)

func WithListLogger(log *zap.Logger) ListOption {
	return func(l *List) {
		if log == nil {
			return
		}
		l.log = log
	}
}

func NewList(opts ...ListOption) *List {
	l := &List{
		subs: make(map[*Piece]Subscription),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddPiece takes ownership of p. It returns false for nil and for pieces
// already in the list.
func (l *List) AddPiece(p *Piece) bool {
	if p == nil {
		return false
	}
	if _, exists := l.subs[p]; exists {
		return false
	}
	l.subs[p] = p.Destructing.Connect(func(p *Piece) {
		l.RemovePiece(p)
	})
	l.order = append(l.order, p)
	l.Added.Emit(p)
	return true
}

// RemovePiece forgets p without destroying it. Removing a piece that is not
// in the list returns false.
func (l *List) RemovePiece(p *Piece) bool {
	sub, exists := l.subs[p]
	if !exists {
		return false
	}
	p.Destructing.Disconnect(sub)
	delete(l.subs, p)
	for i, member := range l.order {
		if member == p {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			break
		}
	}
	l.Removed.Emit(p)
	return true
}

// ClearPieces destroys every member.
func (l *List) ClearPieces() {
	pieces := l.detachAll()
	for _, p := range pieces {
		p.Destroy()
	}
	if len(pieces) > 0 {
		l.log.Debug("cleared piece list", zap.Int("destroyed", len(pieces)))
	}
}

// ClearNoDelete empties the list without destroying the members, handing
// their ownership to the caller.
func (l *List) ClearNoDelete() {
	l.detachAll()
}

// TakePieces moves every member of other into l and leaves other empty.
func (l *List) TakePieces(other *List) {
	if other == nil || other == l {
		return
	}
	for _, p := range other.detachAll() {
		l.AddPiece(p)
	}
}

func (l *List) detachAll() []*Piece {
	pieces := l.order
	for _, p := range pieces {
		p.Destructing.Disconnect(l.subs[p])
	}
	l.order = nil
	l.subs = make(map[*Piece]Subscription)
	return pieces
}

// Pieces returns the members in insertion order.
func (l *List) Pieces() []*Piece {
	return append([]*Piece(nil), l.order...)
}

func (l *List) Len() int {
	return len(l.order)
}

func (l *List) Contains(p *Piece) bool {
	_, exists := l.subs[p]
	return exists
}

func (l *List) Destroy() {
	l.ClearPieces()
}

// -------------------------------

func (l *List) serialize(r *s11n.Registry, dst *s11n.Node) error {
	for _, p := range l.order {
		if err := s11n.SerializeSubnode(r, dst, pieceNode, p); err != nil {
			return err
		}
	}
	return nil
}

// deserialize builds every piece before touching l. If any piece fails the
// ones already built are destroyed and l keeps its members.
func (l *List) deserialize(r *s11n.Registry, src *s11n.Node, opts []PieceOption) error {
	built := make([]*Piece, 0, src.NumChildren())
	abort := func(err error) error {
		for _, p := range built {
			p.Destroy()
		}
		l.log.Debug("piece list deserialization aborted",
			zap.Int("destroyed", len(built)), zap.Error(err))
		return err
	}

	for _, ch := range src.Children() {
		if ch.Name() != pieceNode {
			return abort(&s11n.Error{Kind: s11n.ErrMalformedNode, Op: "deserialize", Node: src.Name(),
				Err: fmt.Errorf("unexpected child %q", ch.Name())})
		}
		p := NewPiece(opts...)
		if err := p.deserialize(r, ch); err != nil {
			p.Destroy()
			return abort(err)
		}
		built = append(built, p)
	}

	l.ClearPieces()
	for _, p := range built {
		l.AddPiece(p)
	}
	return nil
}
