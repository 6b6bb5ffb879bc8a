package encoding

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/KumKeeHyun/s11n"
)

var JSON Codec = jsonCodec{
	api: jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze(),
}

type jsonCodec struct {
	api jsoniter.API
}

func (jsonCodec) Name() string {
	return "json"
}

func (c jsonCodec) Marshal(n *s11n.Node) ([]byte, error) {
	if n == nil {
		return nil, s11n.ErrMalformedNode
	}
	d, err := toDocument(n)
	if err != nil {
		return nil, err
	}
	return c.api.MarshalIndent(d, "", "  ")
}

func (c jsonCodec) Unmarshal(data []byte) (*s11n.Node, error) {
	var d document
	if err := c.api.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return fromDocument(&d)
}
