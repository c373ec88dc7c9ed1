package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/keshon/server-herald/internal/storage"
)

func lines(texts ...string) []storage.Line {
	out := make([]storage.Line, len(texts))
	for i, s := range texts {
		out[i] = storage.Line{No: i + 1, Text: s}
	}
	return out
}

func TestParseCustomCountsWellFormedLines(t *testing.T) {
	wellFormed := []string{
		`a;x;;false`,
		`b;\1 and \2;http://x/1.png,http://x/2.png;true`,
		`c;;;`,
	}
	malformed := []string{
		`d;only three;`,
		`e;too;many;fields;here`,
		`;nameless;;false`,
	}

	got := ParseCustom(lines(wellFormed...), "!bot", zaptest.NewLogger(t))
	assert.Len(t, got, len(wellFormed))

	mixed := append(append([]string{}, malformed[:1]...), wellFormed...)
	mixed = append(mixed, malformed[1:]...)
	mixed = append(mixed, "")
	got = ParseCustom(lines(mixed...), "!bot", zaptest.NewLogger(t))
	require.Len(t, got, len(wellFormed))
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestParseCustomFields(t *testing.T) {
	got := ParseCustom(lines(`b;\1 and \2;http://x/1.png, ,http://x/2.png;TRUE`), "!bot", nil)
	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, Custom, c.Kind)
	assert.Equal(t, "Custom command.", c.Description)
	assert.Equal(t, "``!bot b [name 1] [name 2]``", c.Syntax)
	assert.True(t, c.AdminOnly)
	assert.Equal(t, 2, c.Template.ParamCount)
	assert.Equal(t, []string{"http://x/1.png", "http://x/2.png"}, c.Template.Images)
}

func TestParseAdmin(t *testing.T) {
	assert.False(t, parseAdmin("false"))
	assert.False(t, parseAdmin(" False "))
	assert.False(t, parseAdmin("0"))
	assert.True(t, parseAdmin("true"))
	assert.True(t, parseAdmin(""))
	assert.True(t, parseAdmin("nope"))
}

func TestCountParams(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{`hello`, 0},
		{`\0 waves`, 0},
		{`\1`, 1},
		{`\1 \2 \3`, 3},
		{`\1 \3`, 1},
		{`\2 only`, 0},
		{`\1\2\3\4\5\6\7\8\9`, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountParams(tt.text), tt.text)
	}
}

func TestSubstituteReplacesEveryPlaceholder(t *testing.T) {
	text := `\0: \1 \2 \3 (\1 again)`
	got := Substitute(text, "Alice", []string{"x", "y", "z"})
	assert.Equal(t, "Alice: x y z (x again)", got)
	assert.False(t, strings.Contains(got, `\`))
}

func TestSubstituteDoesNotExpandArguments(t *testing.T) {
	assert.Equal(t, `Bob says \2 and hi`, Substitute(`\0 says \1 and \2`, "Bob", []string{`\2`, "hi"}))
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"https://example.com/a.png", "https://example.com/a.png", true},
		{"HTTP://Example.com:80/a.png", "http://example.com/a.png", true},
		{"ftp://example.com/a.png", "", false},
		{"/relative.png", "", false},
		{`"Banana"`, "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeImageURL(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
