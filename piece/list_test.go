package piece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KumKeeHyun/s11n"
)

func TestListAddRemove(t *testing.T) {
	l := NewList()
	p := NewPiece()

	var added, removed int
	l.Added.Connect(func(*Piece) { added++ })
	l.Removed.Connect(func(*Piece) { removed++ })

	assert.True(t, l.AddPiece(p))
	assert.False(t, l.AddPiece(p))
	assert.False(t, l.AddPiece(nil))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, p.Destructing.Len())

	assert.True(t, l.RemovePiece(p))
	assert.False(t, l.RemovePiece(p))
	assert.Equal(t, 0, p.Destructing.Len())
	assert.True(t, p.Alive())

	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestListDropsDestroyedPiece(t *testing.T) {
	l := NewList()
	a, b := NewPiece(), NewPiece()
	l.AddPiece(a)
	l.AddPiece(b)

	var removed []*Piece
	l.Removed.Connect(func(p *Piece) { removed = append(removed, p) })

	a.Destroy()
	a.Destroy()
	assert.Equal(t, []*Piece{b}, l.Pieces())
	assert.Equal(t, []*Piece{a}, removed)
	assert.False(t, l.RemovePiece(a))
}

func TestListDeferredDestructionRemovesPiece(t *testing.T) {
	loop := NewLoop()
	l := NewList()
	p := NewPiece(WithLoop(loop))
	l.AddPiece(p)

	p.AddViewRef()
	p.RemoveViewRef()
	assert.True(t, l.Contains(p))

	loop.Tick()
	assert.False(t, l.Contains(p))
}

func TestListClearPieces(t *testing.T) {
	l := NewList()
	pieces := []*Piece{NewPiece(), NewPiece(), NewPiece()}
	for _, p := range pieces {
		l.AddPiece(p)
	}

	var removed int
	l.Removed.Connect(func(*Piece) { removed++ })

	l.ClearPieces()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, removed)
	for _, p := range pieces {
		assert.False(t, p.Alive())
	}
}

func TestListClearNoDelete(t *testing.T) {
	l := NewList()
	p := NewPiece()
	l.AddPiece(p)

	l.ClearNoDelete()
	assert.Equal(t, 0, l.Len())
	assert.True(t, p.Alive())
	assert.Equal(t, 0, p.Destructing.Len())
}

func TestListTakePieces(t *testing.T) {
	donor, l := NewList(), NewList()
	a, b := NewPiece(), NewPiece()
	donor.AddPiece(a)
	donor.AddPiece(b)

	l.TakePieces(donor)
	assert.Equal(t, 0, donor.Len())
	assert.Equal(t, []*Piece{a, b}, l.Pieces())
	assert.Equal(t, 1, a.Destructing.Len())

	// destruction notifies only the new owner
	a.Destroy()
	assert.Equal(t, []*Piece{b}, l.Pieces())

	l.TakePieces(l)
	assert.Equal(t, 1, l.Len())
}

// -------------------------------

func TestListRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	l := NewList()
	for i := 0; i < 3; i++ {
		p := NewPiece()
		p.SetPieceProperty("index", i)
		l.AddPiece(p)
	}

	n, err := SaveList(r, l)
	require.NoError(t, err)
	assert.Equal(t, ListClass, n.ClassName())
	assert.Equal(t, 3, n.NumChildren())

	got, err := LoadList(r, n)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	for i, p := range got.Pieces() {
		v, _ := p.Property("index")
		assert.Equal(t, i, v)
	}
}

func TestListDeserializeFailureKeepsMembers(t *testing.T) {
	r := newTestRegistry(t)

	src := NewList()
	for i := 0; i < 3; i++ {
		p := NewPiece()
		p.SetPieceProperty("index", i)
		src.AddPiece(p)
	}
	n, err := SaveList(r, src)
	require.NoError(t, err)

	props, _ := n.Child(2).FindChild("properties")
	props.Child(0).Unset("key")

	core, logs := observer.New(zap.DebugLevel)
	keep := NewPiece()
	dst := NewList(WithListLogger(zap.New(core)))
	dst.AddPiece(keep)

	err = s11n.Deserialize(r, n, &dst)
	assert.ErrorIs(t, err, s11n.ErrMalformedNode)
	assert.Equal(t, []*Piece{keep}, dst.Pieces())
	assert.True(t, keep.Alive())

	aborted := logs.FilterMessage("piece list deserialization aborted").All()
	require.Len(t, aborted, 1)
	assert.EqualValues(t, 2, aborted[0].ContextMap()["destroyed"])
}

func TestListDeserializeRejectsForeignChild(t *testing.T) {
	r := newTestRegistry(t)

	src := NewList()
	src.AddPiece(NewPiece())
	src.AddPiece(NewPiece())
	n, err := SaveList(r, src)
	require.NoError(t, err)
	n.CreateChild("note").Set("text", "not a piece")

	core, logs := observer.New(zap.DebugLevel)
	keep := NewPiece()
	dst := NewList(WithListLogger(zap.New(core)))
	dst.AddPiece(keep)

	err = s11n.Deserialize(r, n, &dst)
	assert.ErrorIs(t, err, s11n.ErrMalformedNode)
	assert.Equal(t, []*Piece{keep}, dst.Pieces())

	aborted := logs.FilterMessage("piece list deserialization aborted").All()
	require.Len(t, aborted, 1)
	assert.EqualValues(t, 2, aborted[0].ContextMap()["destroyed"])
}

func TestListDestroyViaCleanup(t *testing.T) {
	r := newTestRegistry(t)

	l := NewList()
	p := NewPiece()
	l.AddPiece(p)

	s11n.Cleanup(r, &l)
	assert.Nil(t, l)
	assert.False(t, p.Alive())
}
