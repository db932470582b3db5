package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_UnmarshalJSON(t *testing.T) {
	t.Run("text leaf", func(t *testing.T) {
		var n Node
		err := json.Unmarshal([]byte(`{"type":"text","text":"hello"}`), &n)
		require.NoError(t, err)
		assert.True(t, n.IsText())
		assert.Equal(t, "hello", n.Text)
	})

	t.Run("nested containers", func(t *testing.T) {
		raw := `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"}]}]}`
		var n Node
		err := json.Unmarshal([]byte(raw), &n)
		require.NoError(t, err)
		assert.Equal(t, "doc", n.Type)
		require.Len(t, n.Content, 1)
		require.Len(t, n.Content[0].Content, 1)
		assert.Equal(t, "a", n.Content[0].Content[0].Text)
	})

	t.Run("unknown fields are preserved", func(t *testing.T) {
		raw := `{"type":"text","text":"x","marks":[{"type":"bold"}]}`
		var n Node
		require.NoError(t, json.Unmarshal([]byte(raw), &n))

		out, err := json.Marshal(n)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})

	t.Run("non-object content is rejected", func(t *testing.T) {
		var n Node
		err := json.Unmarshal([]byte(`"just a string"`), &n)
		assert.ErrorIs(t, err, ErrMalformedContent)
	})
}

func TestBody_Parse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		body, err := NewBody(NewContainer("doc", NewText("hello")))
		require.NoError(t, err)

		root, err := body.Parse()
		require.NoError(t, err)
		assert.Equal(t, "doc", root.Type)
		require.Len(t, root.Content, 1)
		assert.Equal(t, "hello", root.Content[0].Text)
	})

	t.Run("empty body is malformed", func(t *testing.T) {
		_, err := Body(nil).Parse()
		assert.ErrorIs(t, err, ErrMalformedContent)
	})

	t.Run("invalid JSON is malformed", func(t *testing.T) {
		_, err := Body(`{"type":`).Parse()
		assert.ErrorIs(t, err, ErrMalformedContent)
	})
}

func TestBody_ScanValue(t *testing.T) {
	body := Body(`{"type":"text","text":"x"}`)

	v, err := body.Value()
	require.NoError(t, err)

	var scanned Body
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, body, scanned)

	var fromString Body
	require.NoError(t, fromString.Scan(`{"type":"text","text":"y"}`))
	assert.Equal(t, Body(`{"type":"text","text":"y"}`), fromString)

	var nilBody Body
	require.NoError(t, nilBody.Scan(nil))
	assert.Nil(t, nilBody)
}
