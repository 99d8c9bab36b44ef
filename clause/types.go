// Package clause declares the search state machine types, scorer
// contract, sentinel errors, and options for clause splitting.
package clause

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/clausekit/clausekit/deptree"
)

// Sentinel errors for clause search.
var (
	// ErrNilTree indicates a nil dependency tree was supplied.
	ErrNilTree = errors.New("clause: tree is nil")

	// ErrNoClassifier indicates inference search was requested on a
	// searcher constructed without a classifier.
	ErrNoClassifier = errors.New("clause: no classifier configured")

	// ErrUnsupportedClassifier indicates the configured classifier is not
	// a linear scorer. Raised before any search work begins.
	ErrUnsupportedClassifier = errors.New("clause: only linear classifiers are supported")

	// ErrNilCallback indicates Search was invoked without a callback.
	ErrNilCallback = errors.New("clause: callback is nil")

	// ErrOptionViolation indicates an invalid search option was supplied.
	ErrOptionViolation = errors.New("clause: invalid option supplied")
)

// DefaultMaxTicks bounds one search: one tick is one pop-and-expand
// cycle of the priority queue. Exceeding the budget terminates the
// search with a logged warning, never an error.
const DefaultMaxTicks = 10000

// initialSubjectDistance is the distance-from-subject sentinel of the
// virtual root state, before any subject edge has been observed.
const initialSubjectDistance = -9000

// FeatureVector is a sparse bag of named feature counts.
type FeatureVector map[string]float64

// Add increments the named feature by one.
func (f FeatureVector) Add(name string) { f[name]++ }

// Dot returns the dot product of the feature counts with a weight map.
// Summation runs in sorted name order: float addition is not
// associative, and scores must reproduce exactly across runs.
func (f FeatureVector) Dot(weights map[string]float64) float64 {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	var sum float64
	for _, name := range names {
		sum += f[name] * weights[name]
	}
	return sum
}

// sigmoid is the logistic function.
func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// Classifier scores whether a search transition opens a clause
// boundary. The only supported implementation at search time is
// LinearClassifier; the interface exists as the seam for pluggable
// training backends.
type Classifier interface {
	// ScoreDecision maps a transition's features to a probability in [0,1].
	ScoreDecision(FeatureVector) float64
}

// LinearClassifier is a binary linear scorer: probability is the
// sigmoid of the dot product of features with per-feature weights.
type LinearClassifier struct {
	Weights map[string]float64 `json:"weights"`
}

// ScoreDecision implements Classifier.
func (c *LinearClassifier) ScoreDecision(f FeatureVector) float64 {
	return sigmoid(f.Dot(c.Weights))
}

// State is one node of the clause search: the edge most recently taken
// into the candidate clause (nil at the virtual root), the subject edge
// carried forward from the nearest ancestor clause boundary, the most
// recent preposition attachment considered, and the deferred plan of
// tree edits that materializes this candidate.
//
// States are immutable once created; actions derive new states and
// never mutate their source.
type State struct {
	// Edge is the edge most recently taken, nil at the virtual root.
	Edge *deptree.Edge

	// Subject is the subject edge inherited from the nearest ancestor
	// boundary, nil if none has been seen.
	Subject *deptree.Edge

	// DistanceFromSubject counts edges taken since Subject was last set.
	DistanceFromSubject int

	// Prep is the preposition-attachment edge chosen for this step, may
	// be nil.
	Prep *deptree.Edge

	// Done marks terminal states: no further splitting below them.
	Done bool

	// plan is the ordered list of deferred tree edits. Applied against a
	// fresh copy of the canonical tree only when a fragment is
	// materialized, which keeps long-lived states free of live tree
	// references and makes replay deterministic.
	plan []treeEdit
}

// editKind tags a deferred tree edit.
type editKind int

const (
	// editDetach re-roots the working tree at an edge's dependent.
	editDetach editKind = iota

	// editGraft copies a subject subtree under the working tree's root.
	editGraft
)

// treeEdit is one deferred, replayable command against a tree copy.
// Edges and words are named by canonical-tree IDs, never by reference.
type treeEdit struct {
	kind editKind

	// edgeID names the split edge: the edge kept by a detach, and the
	// edge ignored (and whose dependent is the attachment point) by a
	// graft.
	edgeID int

	// relation labels the graft attachment edge.
	relation string

	// subtreeRoot is the word index rooting the grafted subtree.
	subtreeRoot int
}

// apply replays the edit against working, reading subtree material from
// the canonical original.
func (ed treeEdit) apply(working, original *deptree.Tree) error {
	switch ed.kind {
	case editDetach:
		return deptree.SimpleClause(working, ed.edgeID)
	case editGraft:
		split, ok := original.EdgeByID(ed.edgeID)
		if !ok {
			return fmt.Errorf("%w: graft split edge %d", deptree.ErrEdgeNotFound, ed.edgeID)
		}
		return deptree.AddSubtree(working, split.Dependent, ed.relation, original, ed.subtreeRoot, map[int]struct{}{ed.edgeID: {}})
	}
	return fmt.Errorf("clause: unknown edit kind %d", ed.kind)
}

// Fragment is a materialized candidate clause: a standalone dependency
// tree plus its plausibility score in [0,1]. The final output unit.
type Fragment struct {
	Tree  *deptree.Tree
	Score float64
}

// Length returns the number of words in the fragment.
func (f *Fragment) Length() int { return f.Tree.Len() }

// Candidate is one emitted search result. Fragment construction is
// relatively expensive, so it is deferred behind a supplier the caller
// invokes only when the tree is actually needed.
type Candidate struct {
	// LogProb is the cumulative log-probability of the path to this
	// candidate.
	LogProb float64

	// Features holds the per-step feature vectors along the path; the
	// last element is the most recent step.
	Features []FeatureVector

	// Fragment lazily materializes the candidate clause: a fresh copy of
	// the canonical tree with the state's edit plan applied and extra
	// edges reattached where tree-ness allows.
	Fragment func() (*Fragment, error)
}

// Callback receives candidates best-first. Returning false terminates
// the entire search immediately; no further candidate is constructed or
// evaluated.
type Callback func(Candidate) bool

// Option configures a search invocation.
type Option func(*searchOptions)

type searchOptions struct {
	maxTicks int
	err      error
}

func defaultSearchOptions() searchOptions {
	return searchOptions{maxTicks: DefaultMaxTicks}
}

// WithMaxTicks caps the number of pop-and-expand cycles per search.
//
//	n > 0: limit to n ticks
//	n <= 0: invalid option → ErrOptionViolation
func WithMaxTicks(n int) Option {
	return func(o *searchOptions) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxTicks must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.maxTicks = n
	}
}
