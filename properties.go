package s11n

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	listClass  = "list"
	entryName  = "entry"
	entryKey   = "key"
	entryValue = "value"
)

type PropertyEntry struct {
	Key   string
	Value Value
}

// PropertyObject is a stateful object carrying an open-ended set of named
// properties. Setting a property to nil removes it.
type PropertyObject interface {
	PropertyNames() []string
	Property(name string) (any, bool)
	SetProperty(name string, v any) error
}

// SerializeProperties writes every property of obj into dst as a "list"
// node with one "entry" child per property. Properties whose value does not
// fit the Value union are skipped and logged; they do not fail the object.
func SerializeProperties(r *Registry, dst *Node, obj PropertyObject) error {
	if !dst.IsEmpty() {
		return errorf(ErrStructural, "serialize_properties", dst.name, "target node is not empty")
	}
	dst.SetClassName(listClass)

	for _, name := range obj.PropertyNames() {
		raw, exists := obj.Property(name)
		if !exists {
			continue
		}
		v, err := ValueOf(raw)
		if err != nil {
			r.log.Warn("skipping property with unsupported type",
				zap.String("key", name), zap.String("type", fmt.Sprintf("%T", raw)))
			continue
		}
		ch := NewNodeOfClass(entryName, entryName)
		ch.Set(entryKey, name)
		if err := SerializeSubnode(r, ch, entryValue, v); err != nil {
			r.log.Warn("skipping property that failed to serialize",
				zap.String("key", name), zap.Error(err))
			continue
		}
		_ = dst.Push(ch)
	}
	return nil
}

// ParseProperties reads every entry of a property list. Any malformed entry
// fails the whole list.
func ParseProperties(r *Registry, src *Node) ([]PropertyEntry, error) {
	entries := make([]PropertyEntry, 0, src.NumChildren())
	for _, ch := range src.children {
		key, err := ch.GetString(entryKey)
		if err != nil {
			return nil, newError(ErrMalformedNode, "deserialize_properties", src.name, err)
		}
		var v Value
		if err := DeserializeSubnode(r, ch, entryValue, &v); err != nil {
			return nil, newError(ErrMalformedNode, "deserialize_properties", src.name, err)
		}
		entries = append(entries, PropertyEntry{Key: key, Value: v})
	}
	return entries, nil
}

// DeserializeProperties parses the whole list first and replays it through
// SetProperty only when every entry is well formed, so a malformed list
// leaves obj untouched.
func DeserializeProperties(r *Registry, src *Node, obj PropertyObject) error {
	entries, err := ParseProperties(r, src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := obj.SetProperty(e.Key, e.Value.Interface()); err != nil {
			return newError(ErrTypeRejected, "deserialize_properties", src.name, err)
		}
	}
	return nil
}

// CopyProperties sets every property of src on dst and returns how many
// dst accepted. Properties dst already has but src lacks are kept.
func CopyProperties(src, dst PropertyObject) int {
	copied := 0
	for _, name := range src.PropertyNames() {
		v, exists := src.Property(name)
		if !exists {
			continue
		}
		if err := dst.SetProperty(name, v); err == nil {
			copied++
		}
	}
	return copied
}

// ClearProperties removes every property of obj by setting it to nil and
// returns how many were removed.
func ClearProperties(obj PropertyObject) int {
	cleared := 0
	for _, name := range obj.PropertyNames() {
		if err := obj.SetProperty(name, nil); err == nil {
			cleared++
		}
	}
	return cleared
}

// -------------------------------

// Properties is an insertion-ordered property set. It accepts any value;
// whether a value survives serialization is decided by the codec.
type Properties struct {
	m OrderedMap[string, any]
}

var _ PropertyObject = &Properties{}

func (p *Properties) PropertyNames() []string {
	return p.m.Keys()
}

func (p *Properties) Property(name string) (any, bool) {
	return p.m.Get(name)
}

// SetProperty stores v under name. A nil v removes the property.
func (p *Properties) SetProperty(name string, v any) error {
	if v == nil {
		p.m.Delete(name)
		return nil
	}
	p.m.Set(name, v)
	return nil
}

func (p *Properties) Len() int {
	return p.m.Len()
}

func (p *Properties) Clear() {
	p.m.Clear()
}
