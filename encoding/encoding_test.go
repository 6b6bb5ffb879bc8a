package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KumKeeHyun/s11n"
)

func sampleTree(t *testing.T) *s11n.Node {
	t.Helper()

	r := s11n.NewRegistry()
	n, err := s11n.Save(r, map[string]s11n.Point{"b": {X: 1, Y: 2}, "a": {X: 3, Y: 4}})
	require.NoError(t, err)
	// attribute order must survive, including non-alphabetical order
	n.Set("zeta", 1)
	n.Set("alpha", "two words")
	return n
}

func TestCodecsRoundTrip(t *testing.T) {
	for _, c := range []Codec{JSON, YAML} {
		t.Run(c.Name(), func(t *testing.T) {
			n := sampleTree(t)

			data, err := c.Marshal(n)
			require.NoError(t, err)

			got, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, n.Equal(got))
			assert.Equal(t, []string{"zeta", "alpha"}, got.Keys())
		})
	}
}

func TestCodecsKeepInvalidUTF8Values(t *testing.T) {
	for _, c := range []Codec{JSON, YAML} {
		t.Run(c.Name(), func(t *testing.T) {
			r := s11n.NewRegistry()
			n, err := s11n.Save(r, map[string]string{"raw": "a\xffb", "text": "plain"})
			require.NoError(t, err)

			data, err := c.Marshal(n)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "\ufffd")

			got, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, n.Equal(got))

			m, err := s11n.Load[map[string]string](r, got)
			require.NoError(t, err)
			assert.Equal(t, "a\xffb", m["raw"])
			assert.Equal(t, "plain", m["text"])
		})
	}
}

func TestMarshalRejectsInvalidUTF8Names(t *testing.T) {
	for _, c := range []Codec{JSON, YAML} {
		n := s11n.NewNode("root")
		n.CreateChild("bad\xfename")
		_, err := c.Marshal(n)
		assert.ErrorIs(t, err, s11n.ErrMalformedNode, c.Name())

		n = s11n.NewNode("root")
		n.Set("k\xfe", 1)
		_, err = c.Marshal(n)
		assert.ErrorIs(t, err, s11n.ErrMalformedNode, c.Name())
	}
}

func TestUnmarshalRejectsBadEncoding(t *testing.T) {
	data := []byte(`{"name":"n","attrs":[{"key":"a","value":"!!","enc":"base64"}]}`)
	_, err := JSON.Unmarshal(data)
	assert.ErrorIs(t, err, s11n.ErrMalformedNode)

	data = []byte(`{"name":"n","attrs":[{"key":"a","value":"x","enc":"rot13"}]}`)
	_, err = JSON.Unmarshal(data)
	assert.ErrorIs(t, err, s11n.ErrMalformedNode)

	data = []byte(`{"name":"n","attrs":[{"key":"a","value":"Yf9i","enc":"base64"}]}`)
	n, err := JSON.Unmarshal(data)
	require.NoError(t, err)
	v, _ := n.Get("a")
	assert.Equal(t, "a\xffb", v)
}

func TestUnmarshalRejectsDuplicateAttributes(t *testing.T) {
	data := []byte(`{"name":"n","attrs":[{"key":"a","value":"1"},{"key":"a","value":"2"}]}`)
	_, err := JSON.Unmarshal(data)
	assert.ErrorIs(t, err, s11n.ErrMalformedNode)
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := JSON.Unmarshal([]byte("{"))
	assert.Error(t, err)

	_, err = YAML.Unmarshal([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	c, err := Lookup("yaml")
	require.NoError(t, err)
	assert.Equal(t, YAML, c)

	_, err = Lookup("xml")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}
