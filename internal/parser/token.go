// Package parser implements a non-regex tokenization and keyword
// identification engine for fan-subtitled media filenames.
package parser

import (
	"fmt"

	"github.com/google/uuid"
)

// BracketType distinguishes an opening bracket atom from a closing one.
type BracketType int

const (
	BracketOpening BracketType = iota
	BracketClosing
)

// CategoryKind discriminates the variant stored in an Atom's Category.
type CategoryKind int

const (
	CategoryBracket CategoryKind = iota
	CategoryDelimiter
	CategorySeparator
	CategoryUnknown
	CategoryKeyword
	CategoryKnown
	CategoryParts
)

// Category is a tagged union over the possible classifications of an atom.
// Only the fields relevant to Kind are populated.
type Category struct {
	Kind    CategoryKind
	Bracket BracketType   // valid when Kind == CategoryBracket
	Keyword KeywordEntry  // valid when Kind == CategoryKeyword
	Known   MetadataKind  // valid when Kind == CategoryKnown
	Parts   []Atom        // valid when Kind == CategoryParts
}

func (c Category) String() string {
	switch c.Kind {
	case CategoryBracket:
		return fmt.Sprintf("bracket(%d)", c.Bracket)
	case CategoryDelimiter:
		return "delimiter"
	case CategorySeparator:
		return "separator"
	case CategoryUnknown:
		return "unknown"
	case CategoryKeyword:
		return fmt.Sprintf("keyword(%s)", c.Keyword.Value)
	case CategoryKnown:
		return fmt.Sprintf("known(%s)", c.Known)
	case CategoryParts:
		return fmt.Sprintf("parts(%d)", len(c.Parts))
	default:
		return "?"
	}
}

// Shape is a syntactic pre-classification of an atom's literal, computed
// once and independent of category.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeSingleCharacter
	ShapeString
	ShapeNumber
	ShapeNumberLike
	ShapeYear
)

// Atom is the indivisible, categorized unit of a token stream.
type Atom struct {
	ID       uuid.UUID
	Value    string
	Enclosed bool
	Category Category
	Shape    Shape
}

func newAtom(value string, category Category) Atom {
	return Atom{
		ID:       uuid.New(),
		Value:    value,
		Enclosed: false,
		Category: category,
		Shape:    ShapeUnknown,
	}
}

func bracketCategory(t BracketType) Category {
	return Category{Kind: CategoryBracket, Bracket: t}
}

func delimiterCategory() Category {
	return Category{Kind: CategoryDelimiter}
}

func separatorCategory() Category {
	return Category{Kind: CategorySeparator}
}

func unknownCategory() Category {
	return Category{Kind: CategoryUnknown}
}

func keywordCategory(entry KeywordEntry) Category {
	return Category{Kind: CategoryKeyword, Keyword: entry}
}

func knownCategory(kind MetadataKind) Category {
	return Category{Kind: CategoryKnown, Known: kind}
}

func partsCategory(children []Atom) Category {
	return Category{Kind: CategoryParts, Parts: children}
}

// IsKnown reports whether the atom already carries a terminal metadata label.
func (a Atom) IsKnown() bool {
	return a.Category.Kind == CategoryKnown
}

// IsUnknown reports whether the atom has not yet been classified.
func (a Atom) IsUnknown() bool {
	return a.Category.Kind == CategoryUnknown
}

// IsDelimiter reports whether the atom is a delimiter character.
func (a Atom) IsDelimiter() bool {
	return a.Category.Kind == CategoryDelimiter
}
