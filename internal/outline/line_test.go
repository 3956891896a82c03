package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single terminated", "a\n", []string{"a\n"}},
		{"missing final terminator", "a\nb", []string{"a\n", "b\n"}},
		{"crlf and cr", "a\r\nb\rc", []string{"a\n", "b\n", "c\n"}},
		{"trailing blank line", "a\n\n", []string{"a\n", "\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestIndentLevel(t *testing.T) {
	tests := []struct {
		line     string
		tabWidth int
		want     float64
	}{
		{"x\n", 4, 0},
		{"\tx\n", 4, 1},
		{"    x\n", 4, 1},
		{"  x\n", 4, 0.5},
		{"\t  x\n", 4, 1.5},
		{"\t\tx\n", 4, 2},
		{"    \n", 4, 0},
		{"\t\n", 4, 0},
		{"\tx\n", 2, 1},
		{"  x\n", 2, 1},
		{"\tx\n", 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndentLevel(tt.line, tt.tabWidth), "line %q tab width %d", tt.line, tt.tabWidth)
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("\n"))
	assert.True(t, IsBlank(" \t \n"))
	assert.False(t, IsBlank("  x\n"))
	assert.False(t, IsBlank("-\n"))
}

func TestIsCheckbox(t *testing.T) {
	assert.True(t, IsCheckbox("[ ] open\n"))
	assert.True(t, IsCheckbox("\t[x] done\n"))
	assert.True(t, IsCheckbox("[*] starred\n"))
	assert.True(t, IsCheckbox("[ ]\n"))
	assert.False(t, IsCheckbox("[link](url)\n"))
	assert.False(t, IsCheckbox("[y] no\n"))
}

func TestFindTags(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"no tags here\n", nil},
		{"@proj top line\n", []string{"@proj"}},
		{"a @one and @two, @one.\n", []string{"@one", "@two", "@one"}},
		{"mail me at a@b.com\n", []string{"@b"}},
		{"@ alone\n", nil},
		{"punct @tag-name\n", []string{"@tag"}},
		{"unicode @café\n", []string{"@café"}},
		{"under @snake_case2\n", []string{"@snake_case2"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FindTags(tt.line), "line %q", tt.line)
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, " \n", StripTags("@a @b\n"))
	assert.Equal(t, "call bob \n", StripTags("call bob @errand\n"))
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "@proj", NormalizeTag("proj"))
	assert.Equal(t, "@proj", NormalizeTag("@proj"))
	assert.Equal(t, "@proj", NormalizeTag("  proj "))
}

func TestNewDocument_Classification(t *testing.T) {
	text := "# Title\n\n\tchild @a\n![x](y.png)\n[ ] todo\n"
	doc := NewDocument(text, Markdown, 4)
	require.Equal(t, 5, doc.Len())

	assert.True(t, doc.Lines[0].Heading)
	assert.True(t, doc.Lines[1].Blank)
	assert.Equal(t, 1.0, doc.Lines[2].Level)
	assert.Equal(t, []string{"@a"}, doc.Lines[2].Tags)
	assert.True(t, doc.Lines[2].HasTag("@a"))
	assert.False(t, doc.Lines[2].HasTag("@b"))
	assert.True(t, doc.Lines[3].Image)
	assert.True(t, doc.Lines[4].Checkbox)
	assert.False(t, doc.Lines[4].HasTags())
}

func TestNewDocument_DefaultTabWidth(t *testing.T) {
	doc := NewDocument("\tx\n", Zim, 0)
	assert.Equal(t, DefaultTabWidth, doc.TabWidth)
	assert.Equal(t, 1.0, doc.Lines[0].Level)
}
