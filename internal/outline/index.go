package outline

// Occurrence is one appearance of a tag on a line.
type Occurrence struct {
	Line  int     `json:"line"`
	Level float64 `json:"level"`
	Tag   string  `json:"tag"`
}

// TagIndex maps tag keys to their occurrences in document order.
type TagIndex struct {
	byTag map[string][]Occurrence
	order []string
}

// BuildIndex scans the document once and records every tag occurrence.
func BuildIndex(doc *Document) *TagIndex {
	idx := &TagIndex{byTag: make(map[string][]Occurrence)}
	for i, line := range doc.Lines {
		for _, tag := range line.Tags {
			if _, seen := idx.byTag[tag]; !seen {
				idx.order = append(idx.order, tag)
			}
			idx.byTag[tag] = append(idx.byTag[tag], Occurrence{
				Line:  i,
				Level: line.Level,
				Tag:   tag,
			})
		}
	}
	return idx
}

// Lookup returns the occurrences of tag, or nil if it is absent.
func (x *TagIndex) Lookup(tag string) []Occurrence {
	return x.byTag[tag]
}

// Has reports whether the tag occurs at least once.
func (x *TagIndex) Has(tag string) bool {
	return len(x.byTag[tag]) > 0
}

// Tags lists every tag key in order of first appearance.
func (x *TagIndex) Tags() []string {
	out := make([]string, len(x.order))
	copy(out, x.order)
	return out
}

// Len returns the number of distinct tags.
func (x *TagIndex) Len() int {
	return len(x.order)
}

// TagSummary describes one tag for listings.
type TagSummary struct {
	Tag       string `json:"tag"`
	Count     int    `json:"count"`
	FirstLine int    `json:"first_line"`
}

// Summaries lists every tag with its occurrence count and first line,
// in order of first appearance.
func (x *TagIndex) Summaries() []TagSummary {
	out := make([]TagSummary, 0, len(x.order))
	for _, tag := range x.order {
		occs := x.byTag[tag]
		out = append(out, TagSummary{Tag: tag, Count: len(occs), FirstLine: occs[0].Line})
	}
	return out
}
