package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	const obj = `{"riskLevel":"URGENT","confidence":88}`

	tests := []struct {
		name string
		in   string
	}{
		{"bare", obj},
		{"padded", "\n  " + obj + "  \n"},
		{"json fence", "```json\n" + obj + "\n```"},
		{"plain fence", "```\n" + obj + "\n```"},
		{"single line fence", "```json " + obj + "```"},
		{"prose", "Here is the assessment: " + obj + " Let me know."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, obj, ExtractJSON(tt.in))
		})
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	assert.Equal(t, "no json here", ExtractJSON("  no json here "))
}
