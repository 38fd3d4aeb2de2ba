package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodec_RoundTrip(t *testing.T) {
	type record struct {
		ID    string  `json:"id"`
		Value float64 `json:"value"`
	}

	in := record{ID: "S07", Value: 12.25}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		data, err := c.Marshal(in)
		require.NoError(t, err, c.Name())

		var out record
		require.NoError(t, c.Unmarshal(data, &out), c.Name())
		assert.Equal(t, in, out, c.Name())
	}
}
