package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{"markdown", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, ModeMarkdown, NewRenderer(&buf, &buf, ModeAuto).EffectiveMode(), "non-terminal auto is markdown")
	assert.Equal(t, ModeText, NewRenderer(&buf, &buf, ModeText).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRenderer(&buf, &buf, ModeJSON).EffectiveMode())
}

func TestRenderer_Header(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeMarkdown)
	r.Header(2, "Rules")
	assert.Equal(t, "## Rules\n\n", buf.String())

	buf.Reset()
	r = NewRenderer(&buf, &buf, ModeText)
	r.Header(1, "Rules")
	assert.Equal(t, "Rules\n\n", buf.String(), "styles render plain on a non-terminal")
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)

	require.NoError(t, r.JSON(RuleInfo{Kind: "model", Target: "model-1", Output: "m/1.tflite"}))
	assert.JSONEq(t, `{"kind":"model","target":"model-1","output":"m/1.tflite"}`, buf.String())
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **Targets:** 4", FormatKeyValue("Targets", "4"))
}
