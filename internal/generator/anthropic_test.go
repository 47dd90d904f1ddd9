package generator

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
)

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	_, err := NewAnthropicClient("", "")
	assert.Error(t, err)

	client, err := NewAnthropicClient("sk-test", "")
	assert.NoError(t, err)
	assert.Equal(t, defaultModel, client.model)

	client, err = NewAnthropicClient("sk-test", "claude-opus-4-20250514")
	assert.NoError(t, err)
	assert.Equal(t, "claude-opus-4-20250514", client.model)
}

func TestCollectText(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []anthropic.ContentBlockUnion
		expected string
	}{
		{name: "empty content", blocks: nil, expected: ""},
		{
			name: "single text block",
			blocks: []anthropic.ContentBlockUnion{
				{Type: "text", Text: `{"title": "X"}`},
			},
			expected: `{"title": "X"}`,
		},
		{
			name: "text blocks concatenated",
			blocks: []anthropic.ContentBlockUnion{
				{Type: "text", Text: `{"title": `},
				{Type: "text", Text: `"X"}`},
			},
			expected: `{"title": "X"}`,
		},
		{
			name: "non-text variants skipped",
			blocks: []anthropic.ContentBlockUnion{
				{Type: "thinking", Thinking: "planning the response"},
				{Type: "text", Text: "payload"},
				{Type: "tool_use"},
			},
			expected: "payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, collectText(tt.blocks))
		})
	}
}
