package encoding

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/KumKeeHyun/s11n"
)

var YAML Codec = yamlCodec{}

type yamlCodec struct{}

func (yamlCodec) Name() string {
	return "yaml"
}

func (yamlCodec) Marshal(n *s11n.Node) ([]byte, error) {
	if n == nil {
		return nil, s11n.ErrMalformedNode
	}
	d, err := toDocument(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) (*s11n.Node, error) {
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return fromDocument(&d)
}
