package outline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// Dialect holds the syntax rules that differ between markup flavours.
type Dialect interface {
	// Name is the dialect identifier used in configuration and flags.
	Name() string
	// IsHeading reports whether lines[i] is a heading. It gets the whole
	// line slice because some heading forms depend on the following line.
	IsHeading(lines []string, i int) bool
	// IsImage reports whether the line contains an image or embed.
	IsImage(line string) bool
	// Heading renders a heading of the given level (1 is outermost).
	Heading(level int, text string) string
	// Image renders an image reference.
	Image(alt, src string) string
	// SummaryHeader renders the header line of a summary file.
	SummaryHeader(tag string) string
}

var (
	atxHeadingRe      = regexp.MustCompile(`^#{1,6}[ \t]+\S`)
	setextUnderlineRe = regexp.MustCompile(`^(=+|-+)[ \t]*$`)
	markdownImageRe   = regexp.MustCompile(`!\[[^\]\n]*\]\([^)\n]+\)`)

	// Both sides must carry the same number of "=" characters.
	zimHeadingRe = regexp2.MustCompile(`^(={1,6})(?!=)[ \t]*(.+?)[ \t]*(?<!=)\1[ \t]*$`, regexp2.None)
	zimImageRe   = regexp.MustCompile(`\{\{[^{}\n]+\}\}`)
)

// Markdown is the markdown dialect: ATX and Setext headings, ![alt](url) images.
var Markdown Dialect = markdown{}

// Zim is the zim wiki dialect: "=== Heading ===" headings, {{path}} embeds.
var Zim Dialect = zim{}

// DialectByName returns the dialect registered under name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return Markdown, nil
	case "zim", "wiki":
		return Zim, nil
	default:
		return nil, fmt.Errorf("unknown dialect: %q", name)
	}
}

type markdown struct{}

func (markdown) Name() string { return "markdown" }

func (markdown) IsHeading(lines []string, i int) bool {
	line := strings.TrimRight(lines[i], "\n")
	if atxHeadingRe.MatchString(line) {
		return true
	}
	if IsBlank(line) || setextUnderlineRe.MatchString(line) || i+1 >= len(lines) {
		return false
	}
	return setextUnderlineRe.MatchString(strings.TrimRight(lines[i+1], "\n"))
}

func (markdown) IsImage(line string) bool {
	return markdownImageRe.MatchString(line)
}

func (markdown) Heading(level int, text string) string {
	level = clampHeading(level)
	return strings.Repeat("#", level) + " " + text
}

func (markdown) Image(alt, src string) string {
	return "![" + alt + "](" + src + ")"
}

func (markdown) SummaryHeader(tag string) string {
	return fmt.Sprintf("# Summary of tag: %s #", tag)
}

type zim struct{}

func (zim) Name() string { return "zim" }

func (zim) IsHeading(lines []string, i int) bool {
	ok, err := zimHeadingRe.MatchString(strings.TrimRight(lines[i], "\n"))
	return err == nil && ok
}

func (zim) IsImage(line string) bool {
	return zimImageRe.MatchString(line)
}

// Heading maps level 1 to six "=" characters, level 6 to one.
func (zim) Heading(level int, text string) string {
	marks := strings.Repeat("=", 7-clampHeading(level))
	return marks + " " + text + " " + marks
}

func (zim) Image(_, src string) string {
	return "{{" + src + "}}"
}

func (zim) SummaryHeader(tag string) string {
	return fmt.Sprintf("===== Summary of tag: %s =====", tag)
}

func clampHeading(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
