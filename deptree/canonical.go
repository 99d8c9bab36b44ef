// File: canonical.go
// Role: normalize a raw parser graph into a strict rooted tree, returning
//       the secondary ("extra") edges removed along the way.

package deptree

import "fmt"

// punctuationTag reports whether a part-of-speech tag marks punctuation.
func punctuationTag(tag string) bool {
	if tag == "" {
		return false
	}
	switch tag[0] {
	case '.', ',', '(', ')', ':':
		return true
	}
	return false
}

// Canonicalize rewrites t in place into a strict rooted tree and returns
// the extra edges that were removed, so callers can index them by
// governor and attempt reattachment on derived fragments later.
//
// Order of operations (each step sees the output of the previous):
//  1. Delete punctuation words with no outgoing edges.
//  2. Delete self-loop edges, and "punct" edges whose dependent has no
//     outgoing edges.
//  3. Remove edges marked Extra whose dependent is multiply governed;
//     record them as extra edges.
//  4. Apposition augmentation: for every recorded extra edge, any
//     "appos" edge at its dependent synthesizes an additional extra
//     edge from the recorded edge's governor to the apposed word,
//     modelling "X's dependent, also known as Y" as if the governor
//     also pointed at Y. Synthesized edges carry ID -1: they exist only
//     in the returned slice, never in the tree.
//  5. Delete edges incoming to a designated root.
//  6. Iterate to a fixpoint: delete dangling non-root words (no
//     incoming edge); for multiply-governed words keep only the
//     incoming edge with the smallest ID (insertion order) and delete
//     the rest.
//
// Postcondition: t.IsWellFormed(). Failure to converge within a bounded
// number of passes returns ErrNotATree; this indicates malformed input,
// not a recoverable condition.
//
// Canonicalize is idempotent: running it on its own output removes
// nothing and returns no extra edges.
//
// Complexity: O((V + E) * passes); passes is bounded by V + E.
func Canonicalize(t *Tree) ([]*Edge, error) {
	// 1) Punctuation leaves.
	for _, w := range t.Words() {
		if punctuationTag(w.Tag) && len(t.out[w.Index]) == 0 {
			_ = t.RemoveWord(w.Index)
		}
	}

	// 2) Self-loops and punctuation edges.
	for _, e := range t.Edges() {
		if e.Governor == e.Dependent {
			_ = t.RemoveEdge(e.ID)
		} else if e.Relation == "punct" && len(t.out[e.Dependent]) == 0 {
			_ = t.RemoveEdge(e.ID)
		}
	}

	// 3) Extra edges on multiply-governed dependents.
	var extras []*Edge
	for _, e := range t.Edges() {
		if e.Extra && len(t.in[e.Dependent]) > 1 {
			cp := e
			extras = append(extras, &cp)
		}
	}
	for _, e := range extras {
		_ = t.RemoveEdge(e.ID)
	}

	// 4) Apposition augmentation. Iterate over a snapshot: synthesized
	// edges do not themselves spawn further candidates.
	for _, e := range snapshot(extras) {
		for _, appos := range t.IncomingEdges(e.Dependent) {
			if appos.Relation == "appos" {
				extras = append(extras, &Edge{ID: -1, Governor: e.Governor, Dependent: appos.Governor, Relation: e.Relation, Weight: e.Weight, Extra: e.Extra})
			}
		}
		for _, appos := range t.OutgoingEdges(e.Dependent) {
			if appos.Relation == "appos" {
				extras = append(extras, &Edge{ID: -1, Governor: e.Governor, Dependent: appos.Dependent, Relation: e.Relation, Weight: e.Weight, Extra: e.Extra})
			}
		}
	}

	// 5) Roots must never have parents.
	for _, root := range t.Roots() {
		for _, in := range t.IncomingEdges(root) {
			_ = t.RemoveEdge(in.ID)
		}
	}

	// 6) Fixpoint: prune dangling words, resolve multiple governors.
	maxPasses := len(t.words) + len(t.edges) + 1
	changed := true
	for pass := 0; changed; pass++ {
		if pass > maxPasses {
			return nil, fmt.Errorf("%w: no fixpoint after %d passes", ErrNotATree, pass)
		}
		changed = false
		for _, w := range t.Words() {
			incoming := t.IncomingEdges(w.Index)
			switch {
			case len(incoming) == 0 && !t.IsRoot(w.Index):
				_ = t.RemoveWord(w.Index)
				changed = true
			case len(incoming) > 1:
				// Smallest edge ID wins: deterministic first-inserted
				// tie-break for multiply-governed words.
				for _, e := range incoming[1:] {
					_ = t.RemoveEdge(e.ID)
				}
				changed = true
			}
		}
	}

	if !t.IsWellFormed() {
		return nil, fmt.Errorf("%w: invariant check failed after canonicalization", ErrNotATree)
	}
	return extras, nil
}

// snapshot copies a slice header so appends during iteration cannot
// disturb the loop.
func snapshot(edges []*Edge) []*Edge {
	out := make([]*Edge, len(edges))
	copy(out, edges)
	return out
}
