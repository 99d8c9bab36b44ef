// Package deptree defines the Word, Edge, and Tree types for dependency
// trees, and the structural operations used to carve clauses out of them.
//
// This file declares the data model, sentinel errors, and the NewTree
// constructor. Canonicalization lives in canonical.go; the clause edit
// primitives (SimpleClause, AddSubtree) live in primitives.go.
package deptree

import (
	"errors"
	"strings"
)

// Sentinel errors for dependency-tree operations.
var (
	// ErrNegativeIndex indicates a word with a negative position index.
	ErrNegativeIndex = errors.New("deptree: word index is negative")

	// ErrWordNotFound indicates an operation referenced a non-existent word.
	ErrWordNotFound = errors.New("deptree: word not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("deptree: edge not found")

	// ErrNoRoots indicates a tree with an empty root set where one is required.
	ErrNoRoots = errors.New("deptree: tree has no roots")

	// ErrNotATree indicates canonicalization failed to reach the tree
	// invariant. This is an internal-invariant violation: it should never
	// occur for well-formed parser output.
	ErrNotATree = errors.New("deptree: graph did not converge to a tree")
)

// Word is a single token of the sentence.
//
// Index is the token's stable position in the sentence and identifies the
// word within its Tree; all other structures reference words by index,
// never by pointer identity.
type Word struct {
	// Index is the token position, unique within the tree.
	Index int

	// Tag is the part-of-speech tag.
	Tag string

	// Lemma is the lemmatized form.
	Lemma string

	// Text is the surface form.
	Text string

	// Synthetic marks words that were not part of the original sentence
	// (e.g. mock tokens grafted in during clause construction).
	Synthetic bool
}

// Edge is a directed grammatical dependency: governor → dependent.
//
// Each Edge carries a stable integer ID assigned at insertion time; IDs
// survive Clone, so an edge can be named across tree copies.
type Edge struct {
	// ID uniquely identifies this edge within its Tree.
	ID int

	// Governor is the head word's index.
	Governor int

	// Dependent is the tail word's index.
	Dependent int

	// Relation is the dependency label, e.g. "nsubj" or "prep_for".
	Relation string

	// Weight is the parser's confidence for this edge. Synthetic edges
	// added by AddSubtree use negative infinity.
	Weight float64

	// Extra marks a secondary (non-tree) attachment.
	Extra bool
}

// ShortRelation returns the relation label truncated at the first
// subtype separator: "prep_for" → "prep", "nsubj" → "nsubj".
// Used for feature bucketing.
func ShortRelation(rel string) string {
	if i := strings.IndexByte(rel, '_'); i >= 0 {
		return rel[:i]
	}
	return rel
}

// Tree is an in-memory dependency graph with designated roots.
//
// Before Canonicalize it may be an arbitrary directed graph (self-loops,
// multiply-governed words, extra edges); afterwards it satisfies the tree
// invariant: every root has zero incoming edges, every other word exactly
// one, and the edges form a forest rooted at the designated roots.
//
// Tree is not safe for concurrent mutation. Searchers defensively copy
// their input at construction and instances share no state, so distinct
// trees may be used from distinct goroutines without coordination.
type Tree struct {
	words map[int]*Word
	edges map[int]*Edge
	roots map[int]struct{}

	// out[governor] and in[dependent] hold incident edge IDs.
	out map[int]map[int]struct{}
	in  map[int]map[int]struct{}

	// nextEdgeID is the monotonic edge ID generator; carried by Clone so
	// IDs never collide across copies of the same tree.
	nextEdgeID int
}

// NewTree creates an empty dependency tree.
func NewTree() *Tree {
	return &Tree{
		words: make(map[int]*Word),
		edges: make(map[int]*Edge),
		roots: make(map[int]struct{}),
		out:   make(map[int]map[int]struct{}),
		in:    make(map[int]map[int]struct{}),
	}
}
