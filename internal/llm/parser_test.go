package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare json passes through",
			content: `{"people": []}`,
			want:    `{"people": []}`,
		},
		{
			name:    "json fence stripped",
			content: "```json\n{\"people\": []}\n```",
			want:    `{"people": []}`,
		},
		{
			name:    "plain fence stripped",
			content: "```\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  \n{\"a\": 1}\n  ",
			want:    `{"a": 1}`,
		},
		{
			name:    "trailing blank line inside fence",
			content: "```json\n{\"a\": 1}\n\n```\n",
			want:    `{"a": 1}`,
		},
		{
			name:    "missing closing fence tolerated",
			content: "```json\n{\"a\": 1}",
			want:    `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdownWrapper(tt.content))
		})
	}
}

func TestClampConfidence(t *testing.T) {
	assert.InDelta(t, 0.0, ClampConfidence(-0.5), 0.001)
	assert.InDelta(t, 1.0, ClampConfidence(1.7), 0.001)
	assert.InDelta(t, 0.42, ClampConfidence(0.42), 0.001)
}
