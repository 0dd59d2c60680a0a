package parser

import "github.com/google/uuid"

// Stream is the mutable, ordered sequence of atoms produced by the lexer.
// It exclusively owns its atoms; callers read and mutate through the
// methods below rather than holding slice indices across structural
// changes (see flattenAt).
type Stream struct {
	atoms []Atom
}

func newStream(atoms []Atom) *Stream {
	return &Stream{atoms: atoms}
}

// Atoms returns the stream's current atoms in order. The returned slice
// is a snapshot; mutating it does not affect the stream.
func (s *Stream) Atoms() []Atom {
	out := make([]Atom, len(s.atoms))
	copy(out, s.atoms)
	return out
}

func (s *Stream) Len() int { return len(s.atoms) }

func (s *Stream) realIndexByID(id uuid.UUID) (int, bool) {
	for i := range s.atoms {
		if s.atoms[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// filteredIndices returns the real slice indices of atoms that pass the
// delimiter-skipping filter, in stream order. Brackets and separators are
// never skipped by this flag.
func (s *Stream) filteredIndices(skipDelimiters bool) []int {
	out := make([]int, 0, len(s.atoms))
	for i := range s.atoms {
		if skipDelimiters && s.atoms[i].Category.Kind == CategoryDelimiter {
			continue
		}
		out = append(out, i)
	}
	return out
}

// IndexOf returns the atom's position among atoms filtered by
// skipDelimiters.
func (s *Stream) IndexOf(id uuid.UUID, skipDelimiters bool) (int, bool) {
	filtered := s.filteredIndices(skipDelimiters)
	for pos, real := range filtered {
		if s.atoms[real].ID == id {
			return pos, true
		}
	}
	return 0, false
}

// TokenAfter returns the next atom after the real index realIndex,
// honoring the delimiter-skipping filter.
func (s *Stream) TokenAfter(realIndex int, skipDelimiters bool) (Atom, bool) {
	for i := realIndex + 1; i < len(s.atoms); i++ {
		if skipDelimiters && s.atoms[i].Category.Kind == CategoryDelimiter {
			continue
		}
		return s.atoms[i], true
	}
	return Atom{}, false
}

// TokenBefore returns the nearest preceding atom before the real index
// realIndex, honoring the delimiter-skipping filter.
func (s *Stream) TokenBefore(realIndex int, skipDelimiters bool) (Atom, bool) {
	for i := realIndex - 1; i >= 0; i-- {
		if skipDelimiters && s.atoms[i].Category.Kind == CategoryDelimiter {
			continue
		}
		return s.atoms[i], true
	}
	return Atom{}, false
}

// MatchingTokensAfter returns the next len(kinds) atoms after realIndex
// (under the filter) iff their category kinds match kinds exactly in
// order; otherwise it returns nil, false.
func (s *Stream) MatchingTokensAfter(realIndex int, kinds []CategoryKind, skipDelimiters bool) ([]Atom, bool) {
	matched := make([]Atom, 0, len(kinds))
	cur := realIndex
	for _, want := range kinds {
		next, ok := s.TokenAfter(cur, skipDelimiters)
		if !ok || next.Category.Kind != want {
			return nil, false
		}
		matched = append(matched, next)
		idx, ok := s.realIndexByID(next.ID)
		if !ok {
			return nil, false
		}
		cur = idx
	}
	return matched, true
}

// UpdateCategory replaces the category of the atom identified by id,
// preserving its shape.
func (s *Stream) UpdateCategory(id uuid.UUID, newCategory Category) bool {
	idx, ok := s.realIndexByID(id)
	if !ok {
		return false
	}
	s.atoms[idx].Category = newCategory
	return true
}

// FlattenAt replaces the atom at real index realIndex with the ordered
// children, which are assigned fresh identities if they don't already
// have one. Subsequent indices shift by len(children)-1; callers must not
// hold real indices across a FlattenAt call.
func (s *Stream) FlattenAt(realIndex int, children []Atom) bool {
	if realIndex < 0 || realIndex >= len(s.atoms) {
		return false
	}
	out := make([]Atom, 0, len(s.atoms)+len(children)-1)
	out = append(out, s.atoms[:realIndex]...)
	out = append(out, children...)
	out = append(out, s.atoms[realIndex+1:]...)
	s.atoms = out
	return true
}

// HasTokenWithMetadataKind reports whether any atom currently carries the
// given terminal metadata kind.
func (s *Stream) HasTokenWithMetadataKind(kind MetadataKind) bool {
	_, ok := s.GetTokenByMetadataKind(kind)
	return ok
}

// GetTokenByMetadataKind returns the first atom carrying the given
// terminal metadata kind.
func (s *Stream) GetTokenByMetadataKind(kind MetadataKind) (Atom, bool) {
	for _, a := range s.atoms {
		if a.Category.Kind == CategoryKnown && a.Category.Known == kind {
			return a, true
		}
	}
	return Atom{}, false
}

// realIndex exposes an atom's position in the backing slice, needed by
// the driver to call FlattenAt without re-deriving it by identity.
func (s *Stream) realIndex(id uuid.UUID) (int, bool) {
	return s.realIndexByID(id)
}
