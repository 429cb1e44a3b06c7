package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"zero width keeps text", "hello", 0, "hello"},
		{"wide runes", "日本語テキスト", 7, "日本語…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestDiff(t *testing.T) {
	d, err := Diff("out/a.md", "one\ntwo\n", "one\nthree\n")
	require.NoError(t, err)

	assert.Contains(t, d, "--- out/a.md (previous)")
	assert.Contains(t, d, "+++ out/a.md")
	assert.Contains(t, d, "-two")
	assert.Contains(t, d, "+three")
}

func TestDiff_Identical(t *testing.T) {
	d, err := Diff("a.md", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "999", Tokens(999))
	assert.Equal(t, "1.5k", Tokens(1500))
	assert.Equal(t, "2.0M", Tokens(2_000_000))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "1.5s", Duration(1500*time.Millisecond))
	assert.Equal(t, "2m 5s", Duration(125*time.Second))
}

func TestRenderMarkdown_FallsBackToText(t *testing.T) {
	out := RenderMarkdown("plain words", 40)
	assert.Contains(t, out, "plain words")
}
