package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"", "auto", "text", "markdown", "json"} {
		_, err := ParseMode(valid)
		assert.NoError(t, err, "mode %q", valid)
	}

	_, err := ParseMode("xml")
	assert.Error(t, err)
}

func TestNewRenderer_AutoResolvesToMarkdownOffTTY(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.Mode())
}

func TestTable_TextAndMarkdown(t *testing.T) {
	header := []string{"index", "field"}
	rows := [][]string{{"0", "a:1"}}

	var text bytes.Buffer
	NewRenderer(&text, &text, ModeText).Table(header, rows)
	assert.Contains(t, text.String(), "a:1")

	var md bytes.Buffer
	NewRenderer(&md, &md, ModeMarkdown).Table(header, rows)
	assert.Contains(t, md.String(), "| a:1 |")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)
	require.True(t, r.IsJSON())

	require.NoError(t, r.JSON(map[string]int{"diffs": 2}))
	assert.Equal(t, "{\n  \"diffs\": 2\n}", strings.TrimSpace(buf.String()))
}

func TestPrintfAndErrorf(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Printf("ok %d\n", 1)
	r.Errorf("bad %d\n", 2)

	assert.Equal(t, "ok 1\n", out.String())
	assert.Equal(t, "bad 2\n", errOut.String())
}
