// File: methods.go
// Role: word/edge/root lifecycle and deterministic queries.
// Determinism:
//   - Words() sorts by index; Edges(), OutgoingEdges(), IncomingEdges()
//     sort by edge ID, so traversal order is stable across runs.

package deptree

import "sort"

// AddWord inserts w into the tree. Re-adding an existing index replaces
// the stored word (last write wins) and is not an error.
// Complexity: O(1).
func (t *Tree) AddWord(w Word) error {
	if w.Index < 0 {
		return ErrNegativeIndex
	}
	cp := w
	t.words[w.Index] = &cp
	if _, ok := t.out[w.Index]; !ok {
		t.out[w.Index] = make(map[int]struct{})
	}
	if _, ok := t.in[w.Index]; !ok {
		t.in[w.Index] = make(map[int]struct{})
	}
	return nil
}

// HasWord reports whether a word with the given index is present.
func (t *Tree) HasWord(index int) bool {
	_, ok := t.words[index]
	return ok
}

// WordAt returns the word at index, or false if absent.
func (t *Tree) WordAt(index int) (Word, bool) {
	w, ok := t.words[index]
	if !ok {
		return Word{}, false
	}
	return *w, true
}

// Words returns all words sorted by index.
// Complexity: O(V log V).
func (t *Tree) Words() []Word {
	out := make([]Word, 0, len(t.words))
	for _, w := range t.words {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Len returns the number of words in the tree.
func (t *Tree) Len() int { return len(t.words) }

// RemoveWord deletes the word at index together with every incident edge.
// Removing a root also removes it from the root set.
// Complexity: O(deg(v)).
func (t *Tree) RemoveWord(index int) error {
	if _, ok := t.words[index]; !ok {
		return ErrWordNotFound
	}
	for id := range t.out[index] {
		t.detachEdge(id)
	}
	for id := range t.in[index] {
		t.detachEdge(id)
	}
	delete(t.out, index)
	delete(t.in, index)
	delete(t.roots, index)
	delete(t.words, index)
	return nil
}

// AddEdge inserts a governor→dependent edge and returns its new ID.
// Both endpoints must already exist. No structural constraints are
// enforced here: pre-canonical graphs may contain self-loops and
// multiply-governed words; Canonicalize is what establishes the tree
// invariant.
// Complexity: O(1).
func (t *Tree) AddEdge(governor, dependent int, relation string, weight float64, extra bool) (int, error) {
	if !t.HasWord(governor) || !t.HasWord(dependent) {
		return 0, ErrWordNotFound
	}
	id := t.nextEdgeID
	t.nextEdgeID++
	t.insertEdge(&Edge{ID: id, Governor: governor, Dependent: dependent, Relation: relation, Weight: weight, Extra: extra})
	return id, nil
}

// insertEdge stores e under its own ID, updating adjacency. The caller
// guarantees the ID is unused and both endpoints exist.
func (t *Tree) insertEdge(e *Edge) {
	t.edges[e.ID] = e
	t.out[e.Governor][e.ID] = struct{}{}
	t.in[e.Dependent][e.ID] = struct{}{}
}

// detachEdge removes edge id from the catalogs without touching words.
func (t *Tree) detachEdge(id int) {
	e, ok := t.edges[id]
	if !ok {
		return
	}
	delete(t.out[e.Governor], id)
	delete(t.in[e.Dependent], id)
	delete(t.edges, id)
}

// RemoveEdge deletes the edge with the given ID.
func (t *Tree) RemoveEdge(id int) error {
	if _, ok := t.edges[id]; !ok {
		return ErrEdgeNotFound
	}
	t.detachEdge(id)
	return nil
}

// EdgeByID returns the edge with the given ID, or false if absent.
// The returned copy is safe to retain.
func (t *Tree) EdgeByID(id int) (Edge, bool) {
	e, ok := t.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Edges returns all edges sorted by ID.
// Complexity: O(E log E).
func (t *Tree) Edges() []Edge {
	return t.collectEdges(t.edges, nil)
}

// OutgoingEdges returns the edges governed by the word at index,
// sorted by ID. Unknown indices yield an empty slice.
func (t *Tree) OutgoingEdges(index int) []Edge {
	return t.collectEdges(nil, t.out[index])
}

// IncomingEdges returns the edges whose dependent is the word at index,
// sorted by ID. Unknown indices yield an empty slice.
func (t *Tree) IncomingEdges(index int) []Edge {
	return t.collectEdges(nil, t.in[index])
}

// collectEdges snapshots either a full edge catalog or an ID set into a
// sorted slice of edge copies.
func (t *Tree) collectEdges(all map[int]*Edge, ids map[int]struct{}) []Edge {
	var out []Edge
	if all != nil {
		out = make([]Edge, 0, len(all))
		for _, e := range all {
			out = append(out, *e)
		}
	} else {
		out = make([]Edge, 0, len(ids))
		for id := range ids {
			out = append(out, *t.edges[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddRoot designates the word at index as a root. The word must exist.
func (t *Tree) AddRoot(index int) error {
	if !t.HasWord(index) {
		return ErrWordNotFound
	}
	t.roots[index] = struct{}{}
	return nil
}

// SetRoot replaces the entire root set with the single word at index.
func (t *Tree) SetRoot(index int) error {
	if !t.HasWord(index) {
		return ErrWordNotFound
	}
	t.roots = map[int]struct{}{index: {}}
	return nil
}

// IsRoot reports whether the word at index is a designated root.
func (t *Tree) IsRoot(index int) bool {
	_, ok := t.roots[index]
	return ok
}

// Roots returns the designated root indices in ascending order.
func (t *Tree) Roots() []int {
	out := make([]int, 0, len(t.roots))
	for idx := range t.roots {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// FirstRoot returns the lowest-indexed root, or an error on an empty
// root set.
func (t *Tree) FirstRoot() (Word, error) {
	roots := t.Roots()
	if len(roots) == 0 {
		return Word{}, ErrNoRoots
	}
	return *t.words[roots[0]], nil
}

// SentenceLength returns one past the highest word index, i.e. the token
// length of the originating sentence. Zero for an empty tree.
func (t *Tree) SentenceLength() int {
	max := -1
	for idx := range t.words {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

// Clone returns a deep copy of the tree: words, edges, adjacency, and
// roots. Edge IDs are preserved and the ID counter is carried over, so
// future AddEdge calls on the clone never collide with IDs of the
// original.
// Complexity: O(V + E).
func (t *Tree) Clone() *Tree {
	clone := NewTree()
	clone.nextEdgeID = t.nextEdgeID
	for _, w := range t.words {
		_ = clone.AddWord(*w)
	}
	for _, e := range t.edges {
		cp := *e
		clone.insertEdge(&cp)
	}
	for idx := range t.roots {
		clone.roots[idx] = struct{}{}
	}
	return clone
}

// Equal reports whether two trees hold identical words, edges, and
// roots. Edge IDs participate in the comparison, so Equal distinguishes
// a tree from a re-built lookalike; Clone output is always Equal to its
// source.
func (t *Tree) Equal(other *Tree) bool {
	if other == nil {
		return false
	}
	if len(t.words) != len(other.words) || len(t.edges) != len(other.edges) || len(t.roots) != len(other.roots) {
		return false
	}
	for idx, w := range t.words {
		ow, ok := other.words[idx]
		if !ok || *w != *ow {
			return false
		}
	}
	for id, e := range t.edges {
		oe, ok := other.edges[id]
		if !ok || *e != *oe {
			return false
		}
	}
	for idx := range t.roots {
		if _, ok := other.roots[idx]; !ok {
			return false
		}
	}
	return true
}

// IsWellFormed reports whether the tree invariant holds: a non-empty
// root set, roots with zero incoming edges, and every non-root word with
// exactly one incoming edge.
// Complexity: O(V).
func (t *Tree) IsWellFormed() bool {
	if len(t.roots) == 0 {
		return false
	}
	for idx := range t.words {
		if t.IsRoot(idx) {
			if len(t.in[idx]) != 0 {
				return false
			}
		} else if len(t.in[idx]) != 1 {
			return false
		}
	}
	return true
}
