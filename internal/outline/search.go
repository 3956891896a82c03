package outline

import (
	"fmt"
	"math"
	"strings"
)

// Strategy decides which lines around a tag occurrence belong to it.
// Implementations are stateless and safe for concurrent use.
type Strategy interface {
	Name() string
	// SearchUp returns line indices at or above the occurrence, nearest first.
	SearchUp(doc *Document, occ Occurrence) []int
	// SearchDown returns line indices strictly below the occurrence, in order.
	SearchDown(doc *Document, occ Occurrence) []int
}

// StrategyByName returns the strategy registered under name.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "indent", "indentation":
		return IndentStrategy{}, nil
	case "checkbox", "flat":
		return CheckboxStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// IndentStrategy scopes a tag by indentation depth. Going up it takes lines
// at the same depth or one level shallower until a heading, a skip-level
// ancestor, or a foreign tag once the contiguous block has ended. Going down
// it takes lines at the same depth or deeper until the indentation rises
// above the tag or a heading is hit. Blank and image lines are always taken.
type IndentStrategy struct{}

func (IndentStrategy) Name() string { return "indent" }

func (IndentStrategy) SearchUp(doc *Document, occ Occurrence) []int {
	result := []int{occ.Line}
	level := occ.Level
	sameBlock := true

	for i := occ.Line - 1; i >= 0; i-- {
		line := doc.Lines[i]

		if line.Blank || line.Image {
			result = append(result, i)
			continue
		}
		if line.Heading {
			return append(result, i)
		}

		if sameBlock && math.Abs(line.Level-level) > 1 {
			sameBlock = false
		}
		if line.Level-level >= 1 && !sameBlock {
			return result
		}

		if line.HasTags() {
			if !sameBlock {
				return result
			}
			result = append(result, i)
			continue
		}

		if level-line.Level >= 2 {
			return result
		}
		if level-line.Level <= 1 || level == 0 {
			result = append(result, i)
		}
	}
	return result
}

func (IndentStrategy) SearchDown(doc *Document, occ Occurrence) []int {
	var result []int
	level := occ.Level
	sameBlock := true

	for i := occ.Line + 1; i < doc.Len(); i++ {
		line := doc.Lines[i]

		if line.Blank || line.Image {
			result = append(result, i)
			continue
		}
		if line.Heading {
			return result
		}

		if sameBlock && math.Abs(line.Level-level) >= 1 {
			sameBlock = false
		}
		if level-line.Level > 0 {
			return result
		}

		// A nested tag definition inside the same block belongs to its own sub-block.
		if line.HasTags() && sameBlock {
			continue
		}
		if line.Level >= level {
			result = append(result, i)
		}
	}
	return result
}

// CheckboxStrategy ignores indentation and scopes a tag to the surrounding
// run of checklist items, for documents whose items are not reliably indented.
type CheckboxStrategy struct{}

func (CheckboxStrategy) Name() string { return "checkbox" }

func (CheckboxStrategy) SearchUp(doc *Document, occ Occurrence) []int {
	var result []int

	for i := occ.Line; i >= 0; i-- {
		line := doc.Lines[i]

		if line.Checkbox || line.Image {
			result = append(result, i)
			continue
		}
		if line.HasTag(occ.Tag) {
			// A line holding nothing but tag markers is skipped.
			if !IsBlank(StripTags(line.Text)) {
				result = append(result, i)
			}
			continue
		}
		if line.Heading {
			return append(result, i)
		}
		if line.Blank {
			return result
		}
	}
	return result
}

func (CheckboxStrategy) SearchDown(doc *Document, occ Occurrence) []int {
	var result []int

	for i := occ.Line + 1; i < doc.Len(); i++ {
		line := doc.Lines[i]

		if line.Blank {
			return append(result, i)
		}
		if line.Image {
			result = append(result, i)
			continue
		}
		if line.Heading {
			return result
		}
	}
	return result
}
