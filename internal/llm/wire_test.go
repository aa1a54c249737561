package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponseShapes(t *testing.T) {
	resp, err := decodeResponse([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Content)
	assert.Equal(t, ShapeChat, resp.Shape)

	resp, err = decodeResponse([]byte(`{"choices":[{"text":"legacy"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "legacy", resp.Content)
	assert.Equal(t, ShapeText, resp.Shape)
}

func TestDecodeResponseMissingChoices(t *testing.T) {
	_, err := decodeResponse([]byte(`{"object":"chat.completion"}`))
	assert.True(t, errors.Is(err, ErrMalformedResponse))
	assert.Contains(t, err.Error(), "no choices")
}

func TestDecodeChoicePrefersMessage(t *testing.T) {
	gen, err := decodeChoice([]byte(`{"text":"t","message":{"content":"m"}}`))
	require.NoError(t, err)
	assert.Equal(t, chatChoice{Content: "m"}, gen)
}

func TestUpstreamMessage(t *testing.T) {
	assert.Equal(t, "bad key", upstreamMessage([]byte(`{"error":{"message":"bad key","type":"auth"}}`)))
	assert.Equal(t, "flat", upstreamMessage([]byte(`{"error":"flat"}`)))
	assert.Equal(t, "Internal Server Error", upstreamMessage([]byte("  Internal Server Error \n")))
	assert.Equal(t, "", upstreamMessage(nil))
}

func TestInputShapes(t *testing.T) {
	p := Prompt("hello")
	assert.False(t, p.IsMessages())
	assert.Equal(t, "hello", p.Text())
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hello"}}, p.ChatMessages(""))

	m := Messages(Message{Role: RoleSystem, Content: "s"}, Message{Role: RoleUser, Content: "u"})
	assert.True(t, m.IsMessages())
	assert.Equal(t, "system: s\nuser: u", m.Text())
	assert.Len(t, m.ChatMessages("ignored"), 2)
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "upstream_error", KindUpstream.String())
	assert.Equal(t, "malformed_response", KindMalformedResponse.String())
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, errors.Is(upstreamError(500, "x"), ErrTransport))
}
