// Package piece holds the game-piece aggregates persisted through s11n: the
// property-bearing Piece, the owning List and the clipboard form.
package piece

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KumKeeHyun/s11n"
)

const (
	PieceClass = "GamePiece"

	PropPos  = "pos"
	PropSize = "size"

	propertiesNode = "properties"
)

var ErrDestroyed = errors.New("piece: destroyed")

type PropertyChange struct {
	Piece *Piece
	Name  string
}

// Piece is a game object with an open-ended set of named properties. Its
// identity is the pointer; ID exists for logs and store keys.
type Piece struct {
	id    uuid.UUID
	props s11n.Properties
	loop  *Loop
	log   *zap.Logger

	viewCount   int
	destructing bool
	destroyed   bool
	condemned   bool

	Destructing Signal[*Piece]
	Destroyed   Signal[*Piece]
	PropertySet Signal[PropertyChange]
}

var (
	_ s11n.PropertyObject = &Piece{}
	_ s11n.Destroyer      = &Piece{}
	_ Condemnable         = &Piece{}
)

type PieceOption func(*Piece)

func WithLoop(loop *Loop) PieceOption {
	return func(p *Piece) {
		if loop == nil {
			return
		}
		p.loop = loop
	}
}

func WithID(id uuid.UUID) PieceOption {
	return func(p *Piece) {
		p.id = id
	}
}

func WithLogger(log *zap.Logger) PieceOption {
	return func(p *Piece) {
		if log == nil {
			return
		}
		p.log = log
	}
}

func NewPiece(opts ...PieceOption) *Piece {
	p := &Piece{
		id:   uuid.New(),
		loop: DefaultLoop,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Piece) ID() uuid.UUID {
	return p.id
}

func (p *Piece) Alive() bool {
	return !p.destroyed
}

// -------------------------------

func (p *Piece) PropertyNames() []string {
	return p.props.PropertyNames()
}

func (p *Piece) Property(name string) (any, bool) {
	return p.props.Property(name)
}

func (p *Piece) HasProperty(name string) bool {
	_, exists := p.props.Property(name)
	return exists
}

// SetProperty stores any Go value under name, serializable or not. A nil v
// removes the property.
func (p *Piece) SetProperty(name string, v any) error {
	if p.destroyed {
		return ErrDestroyed
	}
	return p.props.SetProperty(name, v)
}

// SetPieceProperty stores v only if it can be serialized, and announces the
// change on PropertySet.
func (p *Piece) SetPieceProperty(name string, v any) bool {
	if !s11n.CanHandle(v) {
		p.log.Warn("rejecting piece property",
			zap.Stringer("piece", p.id), zap.String("key", name))
		return false
	}
	if err := p.SetProperty(name, v); err != nil {
		return false
	}
	p.PropertySet.Emit(PropertyChange{Piece: p, Name: name})
	return true
}

// Geom is the rectangle spanned by the pos and size properties. Missing or
// mistyped properties count as zero.
func (p *Piece) Geom() s11n.Rect {
	var (
		pos  s11n.Point
		size s11n.Size
	)
	if v, exists := p.props.Property(PropPos); exists {
		pos, _ = v.(s11n.Point)
	}
	if v, exists := p.props.Property(PropSize); exists {
		size, _ = v.(s11n.Size)
	}
	return s11n.NewRect(pos, size)
}

// -------------------------------

func (p *Piece) AddViewRef() {
	p.viewCount++
	p.condemned = false
}

// RemoveViewRef drops one view reference. Releasing the last one schedules
// the piece for destruction on its loop; it is never destroyed inline.
func (p *Piece) RemoveViewRef() {
	if p.destructing {
		return
	}
	if p.viewCount == 0 {
		p.log.Warn("unbalanced view ref release", zap.Stringer("piece", p.id))
		return
	}
	p.viewCount--
	if p.viewCount > 0 || p.condemned {
		return
	}
	p.condemned = true
	p.loop.DeleteLater(p)
}

func (p *Piece) ViewCount() int {
	return p.viewCount
}

func (p *Piece) Condemned() bool {
	return p.condemned && !p.destroyed
}

// Destroy broadcasts Destructing and then Destroyed while the piece is still
// queryable, and releases its properties afterwards. Repeated calls are
// no-ops.
func (p *Piece) Destroy() {
	if p.destructing || p.destroyed {
		return
	}
	p.destructing = true

	p.Destructing.Emit(p)
	p.Destroyed.Emit(p)

	p.props.Clear()
	p.Destructing.DisconnectAll()
	p.Destroyed.DisconnectAll()
	p.PropertySet.DisconnectAll()
	p.destroyed = true
	p.condemned = false
	p.log.Debug("piece destroyed", zap.Stringer("piece", p.id))
}

// -------------------------------

func (p *Piece) serialize(r *s11n.Registry, dst *s11n.Node) error {
	ch := s11n.NewNode(propertiesNode)
	if err := s11n.SerializeProperties(r, ch, p); err != nil {
		return err
	}
	return dst.Push(ch)
}

func (p *Piece) deserialize(r *s11n.Registry, src *s11n.Node) error {
	if p.destroyed {
		return ErrDestroyed
	}
	ch, exists := src.FindChild(propertiesNode)
	if !exists {
		return &s11n.Error{Kind: s11n.ErrMalformedNode, Op: "deserialize", Node: src.Name(),
			Err: errors.New("missing properties child")}
	}
	return s11n.DeserializeProperties(r, ch, p)
}
