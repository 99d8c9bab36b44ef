// File: primitives.go
// Role: the two structural clause edits — SimpleClause (detach-as-root)
//       and AddSubtree (graft-disjoint-subtree). Both either preserve the
//       tree invariant or decline to act; neither ever half-mutates.

package deptree

import "math"

// SimpleClause detaches the subtree below keepEdgeID and makes it the
// whole tree: every word reachable from the roots without traversing the
// kept edge is removed by breadth-first expansion, and the kept edge's
// dependent becomes the single new root. The kept edge itself disappears
// with its governor.
//
// This is the basic clause-isolation step. Postcondition: t satisfies
// the tree invariant with exactly one root.
//
// Complexity: O(V + E).
func SimpleClause(t *Tree, keepEdgeID int) error {
	keep, ok := t.EdgeByID(keepEdgeID)
	if !ok {
		return ErrEdgeNotFound
	}

	// Breadth-first from the roots, never crossing the kept edge.
	fringe := make([]int, 0, t.Len())
	toRemove := make([]int, 0, t.Len())
	for _, root := range t.Roots() {
		toRemove = append(toRemove, root)
		for _, out := range t.OutgoingEdges(root) {
			if out.ID != keepEdgeID {
				fringe = append(fringe, out.Dependent)
			}
		}
	}
	for len(fringe) > 0 {
		node := fringe[0]
		fringe = fringe[1:]
		toRemove = append(toRemove, node)
		for _, out := range t.OutgoingEdges(node) {
			if out.ID != keepEdgeID {
				fringe = append(fringe, out.Dependent)
			}
		}
	}

	for _, idx := range toRemove {
		_ = t.RemoveWord(idx)
	}
	return t.SetRoot(keep.Dependent)
}

// AddSubtree grafts a copy of the subtree rooted at subtreeRoot (as
// found in src, excluding the edge IDs in ignored) into dst, attached
// under attachPoint with the given relation. The synthetic attachment
// edge has weight negative infinity and is not marked extra.
//
// Safety invariant: before any mutation, the full source subtree is
// scanned; if subtreeRoot or any of its descendants is already present
// in dst, AddSubtree is a complete no-op and returns nil. Overlap is
// normal control flow (e.g. re-grafting a cloned subject, or an extra
// edge that would break tree-ness), not an error.
//
// Copied edges receive fresh IDs from dst's counter; words keep their
// indices.
//
// Complexity: O(V + E) over the source subtree.
func AddSubtree(dst *Tree, attachPoint int, relation string, src *Tree, subtreeRoot int, ignored map[int]struct{}) error {
	if !dst.HasWord(attachPoint) {
		return ErrWordNotFound
	}
	if !src.HasWord(subtreeRoot) {
		return ErrWordNotFound
	}
	if dst.HasWord(subtreeRoot) {
		return nil // already grafted; explicitly safe
	}

	// Scan the whole source subtree before touching dst.
	fringe := []int{subtreeRoot}
	var wordsToAdd []int
	var edgesToAdd []Edge
	for len(fringe) > 0 {
		node := fringe[0]
		fringe = fringe[1:]
		wordsToAdd = append(wordsToAdd, node)
		for _, e := range src.OutgoingEdges(node) {
			if _, skip := ignored[e.ID]; skip {
				continue
			}
			if dst.HasWord(e.Dependent) {
				return nil // not disjoint from dst; decline entirely
			}
			edgesToAdd = append(edgesToAdd, e)
			fringe = append(fringe, e.Dependent)
		}
	}

	// Commit: words first, then the attachment edge, then the copies.
	for _, idx := range wordsToAdd {
		w, _ := src.WordAt(idx)
		_ = dst.AddWord(w)
	}
	if _, err := dst.AddEdge(attachPoint, subtreeRoot, relation, math.Inf(-1), false); err != nil {
		return err
	}
	for _, e := range edgesToAdd {
		if _, err := dst.AddEdge(e.Governor, e.Dependent, e.Relation, e.Weight, e.Extra); err != nil {
			return err
		}
	}
	return nil
}
