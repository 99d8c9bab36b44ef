// Package deptree models sentence dependency trees and the structural
// edits used to carve standalone clauses out of them.
//
// A Tree starts life as the raw graph emitted by a dependency parser:
// words with position indices and part-of-speech tags, directed labeled
// edges, and one or more designated roots. Raw graphs are messy — they
// may contain punctuation leaves, self-loops, and multiply-governed
// words carrying secondary ("extra") edges. Canonicalize normalizes a
// raw graph into a strict rooted tree and hands back the extra edges it
// removed, so that derived fragments can try to reattach them later.
//
// Two edit primitives operate on canonical trees:
//
//   - SimpleClause detaches the subtree below an edge and re-roots the
//     tree there: the basic clause-isolation step.
//   - AddSubtree grafts a disjoint copy of a subtree from one tree into
//     another (e.g. cloning a subject into a detached clause). If the
//     graft would overlap the destination it declines entirely, which
//     is what keeps reattachment of extra edges safe.
//
// Both primitives preserve the tree invariant: designated roots have no
// incoming edges and every other word has exactly one.
//
// Words are identified by their integer sentence position and edges by
// stable integer IDs assigned at insertion; IDs survive Clone, so edits
// planned against one copy of a tree can be replayed against another.
//
// Example:
//
//	t := deptree.NewTree()
//	_ = t.AddWord(deptree.Word{Index: 0, Tag: "NNP", Text: "John"})
//	_ = t.AddWord(deptree.Word{Index: 1, Tag: "VBD", Text: "left"})
//	_ = t.AddRoot(1)
//	id, _ := t.AddEdge(1, 0, "nsubj", 1.0, false)
//	extras, err := deptree.Canonicalize(t)
//	_ = id
//	_ = extras
//	_ = err
package deptree
