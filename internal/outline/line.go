package outline

import (
	"regexp"
	"strings"
)

// DefaultTabWidth is the number of columns a tab counts for when measuring indentation.
const DefaultTabWidth = 4

var (
	tagRe      = regexp.MustCompile(`@([\p{L}\p{M}\p{N}_]+)`)
	checkboxRe = regexp.MustCompile(`\[[ *x]\]`)
)

// Line is one line of a Document with its classification memoised.
type Line struct {
	Text     string   // Raw text including the trailing "\n"
	Level    float64  // Indentation level in tab units
	Blank    bool     // Empty or whitespace-only
	Heading  bool     // Heading in the document's dialect
	Image    bool     // Image or embed reference
	Checkbox bool     // Contains a [ ], [*] or [x] marker
	Tags     []string // Tag keys found on the line, with the leading "@"
}

// HasTags reports whether the line defines at least one tag.
func (l Line) HasTags() bool {
	return len(l.Tags) > 0
}

// HasTag reports whether the line carries the given tag key.
func (l Line) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Document is an immutable, 0-indexed sequence of classified lines.
type Document struct {
	Lines    []Line
	Dialect  Dialect
	TabWidth int
}

// NewDocument splits text into lines and classifies each one.
// A non-positive tabWidth falls back to DefaultTabWidth.
func NewDocument(text string, d Dialect, tabWidth int) *Document {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	raw := SplitLines(text)
	doc := &Document{
		Lines:    make([]Line, len(raw)),
		Dialect:  d,
		TabWidth: tabWidth,
	}
	for i, s := range raw {
		doc.Lines[i] = Line{
			Text:     s,
			Level:    IndentLevel(s, tabWidth),
			Blank:    IsBlank(s),
			Heading:  d.IsHeading(raw, i),
			Image:    d.IsImage(s),
			Checkbox: IsCheckbox(s),
			Tags:     FindTags(s),
		}
	}
	return doc
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.Lines)
}

// SplitLines normalises line terminators to "\n" and splits text into lines
// that each keep their terminator. A final line without one gets it appended.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if last := lines[len(lines)-1]; last == "" {
		lines = lines[:len(lines)-1]
	} else if !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}

// IndentLevel measures the leading spaces and tabs of a line in tab units.
// Whitespace-only lines are level 0. Fractional levels are kept as is.
func IndentLevel(line string, tabWidth int) float64 {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	cols := leadingColumns(line, tabWidth)
	if cols == 0 || IsBlank(line) {
		return 0
	}
	return float64(cols) / float64(tabWidth)
}

// leadingColumns counts the width of the leading space/tab run.
func leadingColumns(line string, tabWidth int) int {
	cols := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			cols++
		case '\t':
			cols += tabWidth
		default:
			return cols
		}
	}
	return cols
}

// IsBlank reports whether a line is empty, a bare terminator, or only spaces and tabs.
func IsBlank(line string) bool {
	return strings.Trim(line, " \t\n") == ""
}

// IsCheckbox reports whether a line contains a checkbox marker.
func IsCheckbox(line string) bool {
	return checkboxRe.MatchString(line)
}

// FindTags returns the tag keys on a line in order of appearance.
// The same tag may appear more than once.
func FindTags(line string) []string {
	matches := tagRe.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}
	return matches
}

// StripTags removes every tag token from a line.
func StripTags(line string) string {
	return tagRe.ReplaceAllString(line, "")
}

// NormalizeTag turns a user-supplied tag name into its canonical key.
// Names that do not already contain a tag token get the "@" sigil prepended.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tagRe.MatchString(tag) {
		return tag
	}
	return "@" + tag
}
