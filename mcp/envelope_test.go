package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyEnvelopeSuccess(t *testing.T) {
	envelope := Success("file contents").legacyEnvelope()

	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"file contents","error":null}`, string(data))
}

func TestLegacyEnvelopeStructuredPayload(t *testing.T) {
	envelope := Success([]string{"/a.txt", "/b.txt"}).legacyEnvelope()

	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":["/a.txt","/b.txt"],"error":null}`, string(data))
}

func TestLegacyEnvelopeFailure(t *testing.T) {
	envelope := Failure("boom").legacyEnvelope()

	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":null,"error":"boom"}`, string(data))
}

func TestCallToolResultSuccessString(t *testing.T) {
	result := Success("plain text").callToolResult()

	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, "plain text", result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestCallToolResultSuccessStructured(t *testing.T) {
	result := Success(map[string]any{"b": 1, "a": 2}).callToolResult()

	require.Len(t, result.Content, 1)
	// encoding/json sorts map keys, so the rendering is deterministic.
	assert.Equal(t, `{"a":2,"b":1}`, result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestCallToolResultFailure(t *testing.T) {
	result := Failure("tool exploded").callToolResult()

	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, "tool exploded", result.Content[0].Text)
	assert.True(t, result.IsError)
}

func TestCallToolResultUnencodablePayload(t *testing.T) {
	result := Success(make(chan int)).callToolResult()

	require.Len(t, result.Content, 1)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "encode payload")
}

func TestStringifyPayloadDeterministic(t *testing.T) {
	payload := map[string]any{"z": "last", "a": "first", "m": "middle"}

	first, err := stringifyPayload(payload)
	require.NoError(t, err)
	second, err := stringifyPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, `{"a":"first","m":"middle","z":"last"}`, first)
}

func TestIsErrorAlwaysSerialized(t *testing.T) {
	data, err := json.Marshal(Success("ok").callToolResult())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isError":false`)
}
