// Package encoding turns s11n node trees into bytes and back.
package encoding

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/KumKeeHyun/s11n"
)

var ErrUnknownCodec = errors.New("encoding: unknown codec")

type Codec interface {
	Name() string
	Marshal(n *s11n.Node) ([]byte, error)
	Unmarshal(data []byte) (*s11n.Node, error)
}

var codecs = map[string]Codec{
	JSON.Name(): JSON,
	YAML.Name(): YAML,
}

func Lookup(name string) (Codec, error) {
	c, exists := codecs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// -------------------------------

// attr is one node attribute. Attributes travel as a list so their order
// survives formats whose objects are unordered. A value that is not valid
// UTF-8 travels base64 encoded with Enc set.
type attr struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Enc   string `json:"enc,omitempty" yaml:"enc,omitempty"`
}

const encBase64 = "base64"

type document struct {
	Name     string      `json:"name" yaml:"name"`
	Class    string      `json:"class,omitempty" yaml:"class,omitempty"`
	Attrs    []attr      `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []*document `json:"children,omitempty" yaml:"children,omitempty"`
}

func toDocument(n *s11n.Node) (*document, error) {
	if !utf8.ValidString(n.Name()) || !utf8.ValidString(n.ClassName()) {
		return nil, fmt.Errorf("%w: node name or class of %q is not valid UTF-8", s11n.ErrMalformedNode, n.Name())
	}
	d := &document{
		Name:  n.Name(),
		Class: n.ClassName(),
	}
	for _, k := range n.Keys() {
		if !utf8.ValidString(k) {
			return nil, fmt.Errorf("%w: attribute name %q in %q is not valid UTF-8", s11n.ErrMalformedNode, k, d.Name)
		}
		v, _ := n.Get(k)
		a := attr{Key: k, Value: v}
		if !utf8.ValidString(v) {
			a.Value = base64.StdEncoding.EncodeToString([]byte(v))
			a.Enc = encBase64
		}
		d.Attrs = append(d.Attrs, a)
	}
	for _, ch := range n.Children() {
		cd, err := toDocument(ch)
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, cd)
	}
	return d, nil
}

func fromDocument(d *document) (*s11n.Node, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: empty document", s11n.ErrMalformedNode)
	}
	n := s11n.NewNodeOfClass(d.Name, d.Class)
	for _, a := range d.Attrs {
		if n.Has(a.Key) {
			return nil, fmt.Errorf("%w: duplicate attribute %q in %q", s11n.ErrMalformedNode, a.Key, d.Name)
		}
		v := a.Value
		switch a.Enc {
		case "":
		case encBase64:
			raw, err := base64.StdEncoding.DecodeString(a.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute %q in %q: %v", s11n.ErrMalformedNode, a.Key, d.Name, err)
			}
			v = string(raw)
		default:
			return nil, fmt.Errorf("%w: unknown encoding %q of attribute %q in %q", s11n.ErrMalformedNode, a.Enc, a.Key, d.Name)
		}
		if err := n.Set(a.Key, v); err != nil {
			return nil, err
		}
	}
	for _, cd := range d.Children {
		ch, err := fromDocument(cd)
		if err != nil {
			return nil, err
		}
		if err := n.Push(ch); err != nil {
			return nil, err
		}
	}
	return n, nil
}
