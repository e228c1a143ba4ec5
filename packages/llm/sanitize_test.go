package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeModelJSONRoundTrip(t *testing.T) {
	clean := `{"title":"#PR_corrigido","comment":"SQLi found","patches":[]}`
	fenced := "\uFEFF```json\n" + clean + "\n```"

	var fromClean, fromFenced map[string]any
	require.NoError(t, json.Unmarshal([]byte(SanitizeModelJSON(clean)), &fromClean))
	require.NoError(t, json.Unmarshal([]byte(SanitizeModelJSON(fenced)), &fromFenced))
	assert.Equal(t, fromClean, fromFenced)
}

func TestSanitizeModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain fences", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json tagged fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading json word", "json {\"a\":1}", `{"a":1}`},
		{"control characters", "{\"a\": 1}", `{"a": 1}`},
		{"replacement character", "{\"a\":�1}", `{"a":1}`},
		{"surrounding whitespace", "  \n {\"a\":1} \n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeModelJSON(tt.in))
		})
	}
}
