package outline

import "strings"

// LeftJustify shifts a block of lines left so its shallowest non-blank line
// starts at column 0. Relative depth is kept. A tab straddling the cut is
// replaced by the spaces that remain of it.
func LeftJustify(lines []string, tabWidth int) []string {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	shift := -1
	for _, l := range lines {
		if IsBlank(l) {
			continue
		}
		if c := leadingColumns(l, tabWidth); shift < 0 || c < shift {
			shift = c
		}
	}

	out := make([]string, len(lines))
	if shift <= 0 {
		copy(out, lines)
		return out
	}
	for i, l := range lines {
		out[i] = dedent(l, shift, tabWidth)
	}
	return out
}

// dedent removes up to cols columns of leading whitespace.
func dedent(line string, cols, tabWidth int) string {
	removed := 0
	i := 0
	for i < len(line) && removed < cols {
		switch line[i] {
		case ' ':
			removed++
		case '\t':
			removed += tabWidth
		default:
			return line[i:]
		}
		i++
	}
	if removed > cols {
		return strings.Repeat(" ", removed-cols) + line[i:]
	}
	return line[i:]
}
