package s11n

import (
	"strconv"

	"github.com/spf13/cast"
)

// Node is a named, class-tagged tree node holding ordered string attributes
// and an ordered list of owned children.
type Node struct {
	name      string
	className string

	keys  []string
	attrs map[string]string

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		name:  name,
		attrs: map[string]string{},
	}
}

func NewNodeOfClass(name, className string) *Node {
	n := NewNode(name)
	n.className = className
	return n
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) SetName(name string) {
	n.name = name
}

func (n *Node) ClassName() string {
	return n.className
}

func (n *Node) SetClassName(className string) {
	n.className = className
}

// Parent returns the owning node, or nil for a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// -------------------------------

// Set stores the textual form of v under key. A new key keeps its position
// at the end of the attribute order, an existing key keeps its position.
// Only scalars have a textual form; anything else is rejected and leaves
// the node unchanged.
func (n *Node) Set(key string, v any) error {
	s, err := cast.ToStringE(v)
	if err != nil {
		return newError(ErrTypeRejected, "set", n.name, err)
	}
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	if _, exists := n.attrs[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.attrs[key] = s
	return nil
}

func (n *Node) Get(key string) (string, bool) {
	v, exists := n.attrs[key]
	return v, exists
}

func (n *Node) Has(key string) bool {
	_, exists := n.attrs[key]
	return exists
}

func (n *Node) Unset(key string) bool {
	if _, exists := n.attrs[key]; !exists {
		return false
	}
	delete(n.attrs, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the attribute names in insertion order.
func (n *Node) Keys() []string {
	return append([]string(nil), n.keys...)
}

func (n *Node) GetString(key string) (string, error) {
	v, exists := n.attrs[key]
	if !exists {
		return "", errorf(ErrMalformedNode, "get", n.name, "missing attribute %q", key)
	}
	return v, nil
}

func (n *Node) GetInt(key string) (int, error) {
	s, err := n.GetString(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil {
		return 0, newError(ErrMalformedNode, "get", n.name, err)
	}
	return int(i), nil
}

func (n *Node) GetInt64(key string) (int64, error) {
	s, err := n.GetString(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, newError(ErrMalformedNode, "get", n.name, err)
	}
	return i, nil
}

func (n *Node) GetUint64(key string) (uint64, error) {
	s, err := n.GetString(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, newError(ErrMalformedNode, "get", n.name, err)
	}
	return i, nil
}

func (n *Node) GetFloat(key string) (float64, error) {
	s, err := n.GetString(key)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, newError(ErrMalformedNode, "get", n.name, err)
	}
	return f, nil
}

func (n *Node) GetBool(key string) (bool, error) {
	s, err := n.GetString(key)
	if err != nil {
		return false, err
	}
	b, err := cast.ToBoolE(s)
	if err != nil {
		return false, newError(ErrMalformedNode, "get", n.name, err)
	}
	return b, nil
}

// -------------------------------

// Children returns a snapshot of the child list. Mutating the returned slice
// does not change the node.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

func (n *Node) NumChildren() int {
	return len(n.children)
}

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Push appends child and makes n its owner. A child that already has an
// owner, or that would create a cycle, is rejected.
func (n *Node) Push(child *Node) error {
	if child == nil {
		return errorf(ErrStructural, "push", n.name, "nil child")
	}
	if child.parent != nil {
		return errorf(ErrStructural, "push", n.name, "child %q is owned by %q", child.name, child.parent.name)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return errorf(ErrStructural, "push", n.name, "child %q is an ancestor", child.name)
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// Release detaches child from n. The caller becomes its owner.
func (n *Node) Release(child *Node) bool {
	for i, ch := range n.children {
		if ch == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) CreateChild(name string) *Node {
	ch := NewNode(name)
	ch.parent = n
	n.children = append(n.children, ch)
	return ch
}

// FindChild returns the first child named name in document order.
func (n *Node) FindChild(name string) (*Node, bool) {
	for _, ch := range n.children {
		if ch.name == name {
			return ch, true
		}
	}
	return nil, false
}

// IsEmpty reports whether n has neither attributes nor children.
func (n *Node) IsEmpty() bool {
	return len(n.keys) == 0 && len(n.children) == 0
}

// Clear drops attributes and children. Name and class name are kept.
func (n *Node) Clear() {
	for _, ch := range n.children {
		ch.parent = nil
	}
	n.children = nil
	n.keys = nil
	n.attrs = map[string]string{}
}

// Clone returns a detached deep copy of n.
func (n *Node) Clone() *Node {
	c := NewNodeOfClass(n.name, n.className)
	for _, k := range n.keys {
		c.keys = append(c.keys, k)
		c.attrs[k] = n.attrs[k]
	}
	for _, ch := range n.children {
		cc := ch.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Equal compares name, class name, attributes (including their order) and
// children recursively. Ownership is not compared.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.name != o.name || n.className != o.className {
		return false
	}
	if len(n.keys) != len(o.keys) || len(n.children) != len(o.children) {
		return false
	}
	for i, k := range n.keys {
		if o.keys[i] != k || o.attrs[k] != n.attrs[k] {
			return false
		}
	}
	for i, ch := range n.children {
		if !ch.Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// moveInto transfers attributes and children of n to dst, leaving n empty.
func (n *Node) moveInto(dst *Node) {
	for _, k := range n.keys {
		dst.Set(k, n.attrs[k])
	}
	for _, ch := range n.children {
		ch.parent = dst
		dst.children = append(dst.children, ch)
	}
	n.children = nil
	n.keys = nil
	n.attrs = map[string]string{}
}
