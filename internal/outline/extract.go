package outline

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrTagNotFound is matched by every *TagNotFoundError.
var ErrTagNotFound = errors.New("tag not found")

// TagNotFoundError reports a tag absent from the document together with
// the tags that do exist, in order of first appearance.
type TagNotFoundError struct {
	Tag       string
	Available []string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found (%d tags in document)", e.Tag, len(e.Available))
}

func (e *TagNotFoundError) Is(target error) bool {
	return target == ErrTagNotFound
}

// Result is the outcome of extracting one tag.
type Result struct {
	Tag         string       // Normalised tag key
	Occurrences []Occurrence // Every occurrence that contributed
	Lines       []int        // Selected line indices, ascending
	Text        string       // Left-justified text of the selected lines
}

// Extractor runs a Strategy over every occurrence of a tag.
type Extractor struct {
	strategy Strategy
}

// NewExtractor returns an Extractor using s, or IndentStrategy when s is nil.
func NewExtractor(s Strategy) *Extractor {
	if s == nil {
		s = IndentStrategy{}
	}
	return &Extractor{strategy: s}
}

// Strategy returns the configured strategy.
func (e *Extractor) Strategy() Strategy {
	return e.strategy
}

// Extract collects the lines belonging to tag. An absent tag yields a
// *TagNotFoundError and no result.
func (e *Extractor) Extract(doc *Document, tag string) (*Result, error) {
	tag = NormalizeTag(tag)
	idx := BuildIndex(doc)
	return e.ExtractIndexed(doc, idx, tag)
}

// ExtractIndexed is Extract with a prebuilt index and an already normalised tag.
// Callers extracting many tags from one document share the index this way.
func (e *Extractor) ExtractIndexed(doc *Document, idx *TagIndex, tag string) (*Result, error) {
	if !idx.Has(tag) {
		return nil, &TagNotFoundError{Tag: tag, Available: idx.Tags()}
	}
	occs := idx.Lookup(tag)

	selected := make(map[int]struct{})
	for _, occ := range occs {
		above := e.strategy.SearchUp(doc, occ)
		slices.Reverse(above)
		merge(selected, above)
		merge(selected, e.strategy.SearchDown(doc, occ))
	}

	lines := make([]int, 0, len(selected))
	for i := range selected {
		lines = append(lines, i)
	}
	slices.Sort(lines)

	texts := make([]string, len(lines))
	for i, n := range lines {
		texts[i] = doc.Lines[n].Text
	}

	return &Result{
		Tag:         tag,
		Occurrences: occs,
		Lines:       lines,
		Text:        strings.Join(LeftJustify(texts, doc.TabWidth), ""),
	}, nil
}

// merge adds indices to set unless all of them are already present.
func merge(set map[int]struct{}, indices []int) {
	if subset(indices, set) {
		return
	}
	for _, i := range indices {
		set[i] = struct{}{}
	}
}

func subset(indices []int, set map[int]struct{}) bool {
	for _, i := range indices {
		if _, ok := set[i]; !ok {
			return false
		}
	}
	return true
}
