package clause_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausekit/clausekit/clause"
	"github.com/clausekit/clausekit/deptree"
)

// newSentenceTree builds "John signed ; left Mary" as a dependency
// tree:
//
//	signed(1) -nsubj-> John(0)
//	signed(1) -ccomp-> left(2)
//	left(2)   -nsubj-> Mary(3)
func newSentenceTree(t *testing.T) *deptree.Tree {
	t.Helper()
	tr := deptree.NewTree()
	require.NoError(t, tr.AddWord(deptree.Word{Index: 0, Tag: "NNP", Lemma: "John", Text: "John"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 1, Tag: "VBD", Lemma: "sign", Text: "signed"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 2, Tag: "VBD", Lemma: "leave", Text: "left"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 3, Tag: "NNP", Lemma: "Mary", Text: "Mary"}))
	require.NoError(t, tr.AddRoot(1))
	_, err := tr.AddEdge(1, 0, "nsubj", 1.0, false)
	require.NoError(t, err)
	_, err = tr.AddEdge(1, 2, "ccomp", 1.0, false)
	require.NoError(t, err)
	_, err = tr.AddEdge(2, 3, "nsubj", 1.0, false)
	require.NoError(t, err)
	return tr
}

func uniformSearcher(t *testing.T) *clause.Searcher {
	t.Helper()
	s, err := clause.NewSearcher(newSentenceTree(t), &clause.LinearClassifier{Weights: map[string]float64{}}, nil)
	require.NoError(t, err)
	return s
}

func TestNewSearcher_NilTree(t *testing.T) {
	_, err := clause.NewExhaustiveSearcher(nil)
	assert.ErrorIs(t, err, clause.ErrNilTree)
}

func TestSearch_NoClassifier(t *testing.T) {
	s, err := clause.NewExhaustiveSearcher(newSentenceTree(t))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Search(func(clause.Candidate) bool { return true }), clause.ErrNoClassifier)
}

type constantClassifier struct{}

func (constantClassifier) ScoreDecision(clause.FeatureVector) float64 { return 0.5 }

func TestSearch_UnsupportedClassifier(t *testing.T) {
	s, err := clause.NewSearcher(newSentenceTree(t), constantClassifier{}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Search(func(clause.Candidate) bool { return true }), clause.ErrUnsupportedClassifier)
}

func TestSearch_NilCallback(t *testing.T) {
	s := uniformSearcher(t)
	assert.ErrorIs(t, s.Search(nil), clause.ErrNilCallback)
}

func TestSearch_BadOption(t *testing.T) {
	s := uniformSearcher(t)
	err := s.Search(func(clause.Candidate) bool { return true }, clause.WithMaxTicks(0))
	assert.ErrorIs(t, err, clause.ErrOptionViolation)
}

// TestSearch_MonotoneLogProb checks the best-first order: cumulative
// log-probabilities are non-increasing over emitted candidates.
func TestSearch_MonotoneLogProb(t *testing.T) {
	s, err := clause.NewSearcher(newSentenceTree(t), &clause.LinearClassifier{
		Weights: map[string]float64{
			"simple&edge:ccomp": 2.0,
			"simple&edge:nsubj": -1.0,
		},
	}, nil)
	require.NoError(t, err)

	prev := math.Inf(1)
	count := 0
	require.NoError(t, s.Search(func(c clause.Candidate) bool {
		assert.LessOrEqual(t, c.LogProb, prev, "candidate %d out of order", count)
		prev = c.LogProb
		count++
		return true
	}))
	assert.Greater(t, count, 1)
}

// TestSearch_EarlyStop verifies a false return from the callback ends
// the search immediately: no further candidate is delivered.
func TestSearch_EarlyStop(t *testing.T) {
	s := uniformSearcher(t)
	count := 0
	require.NoError(t, s.Search(func(clause.Candidate) bool {
		count++
		return count < 2
	}))
	assert.Equal(t, 2, count)
}

// TestSearch_FrontierUniqueness checks that each subtree root is
// emitted at most once, even when several actions queue states for the
// same dependent.
func TestSearch_FrontierUniqueness(t *testing.T) {
	s := uniformSearcher(t)
	rootsSeen := make(map[int]int)
	require.NoError(t, s.Search(func(c clause.Candidate) bool {
		frag, err := c.Fragment()
		require.NoError(t, err)
		roots := frag.Tree.Roots()
		require.Len(t, roots, 1)
		rootsSeen[roots[0]]++
		return true
	}))
	for root, n := range rootsSeen {
		assert.Equal(t, 1, n, "root %d emitted %d times", root, n)
	}
	// Every word of the sentence is reachable as a fragment root.
	assert.Len(t, rootsSeen, 4)
}

// TestSearch_TickBudget verifies the budget is a soft termination: the
// search stops without error and already-emitted candidates stand.
func TestSearch_TickBudget(t *testing.T) {
	s := uniformSearcher(t)
	count := 0
	require.NoError(t, s.Search(func(clause.Candidate) bool {
		count++
		return true
	}, clause.WithMaxTicks(1)))
	assert.Equal(t, 1, count)
}

// TestSearch_SimpleSplitFragment steers the search toward the plain
// detach at the ccomp edge and inspects the materialized fragment: the
// embedded clause {left, Mary}, its own subject intact, no residue of
// the outer clause.
func TestSearch_SimpleSplitFragment(t *testing.T) {
	s, err := clause.NewSearcher(newSentenceTree(t), &clause.LinearClassifier{
		Weights: map[string]float64{
			"simple&edge:ccomp":      5.0,
			"clone_nsubj&edge:ccomp": -5.0,
		},
	}, nil)
	require.NoError(t, err)

	var frag *clause.Fragment
	require.NoError(t, s.Search(func(c clause.Candidate) bool {
		f, ferr := c.Fragment()
		require.NoError(t, ferr)
		if roots := f.Tree.Roots(); len(roots) == 1 && roots[0] == 2 {
			frag = f
			return false
		}
		return true
	}))
	require.NotNil(t, frag)

	assert.Equal(t, 2, frag.Length())
	assert.True(t, frag.Tree.HasWord(3), "Mary stays attached")
	assert.False(t, frag.Tree.HasWord(0), "John belongs to the outer clause")
	assert.False(t, frag.Tree.HasWord(1))
	out := frag.Tree.OutgoingEdges(2)
	require.Len(t, out, 1)
	assert.Equal(t, "nsubj", out[0].Relation)
	assert.Equal(t, 3, out[0].Dependent)
}

// TestSearch_CloneSubjectFragment steers the search toward the
// subject-borrowing action at the ccomp edge: the fragment re-roots at
// "left" and additionally carries a copy of the outer subject under a
// synthetic nsubj edge.
func TestSearch_CloneSubjectFragment(t *testing.T) {
	s, err := clause.NewSearcher(newSentenceTree(t), &clause.LinearClassifier{
		Weights: map[string]float64{
			"clone_nsubj&edge:ccomp": 5.0,
			"simple&edge:ccomp":      -5.0,
		},
	}, nil)
	require.NoError(t, err)

	var frag *clause.Fragment
	require.NoError(t, s.Search(func(c clause.Candidate) bool {
		f, ferr := c.Fragment()
		require.NoError(t, ferr)
		if roots := f.Tree.Roots(); len(roots) == 1 && roots[0] == 2 {
			frag = f
			return false
		}
		return true
	}))
	require.NotNil(t, frag)

	assert.Equal(t, 3, frag.Length())
	assert.True(t, frag.Tree.HasWord(0), "borrowed subject grafted in")
	assert.True(t, frag.Tree.HasWord(3))
	assert.True(t, frag.Tree.IsWellFormed())

	var graft *deptree.Edge
	for _, e := range frag.Tree.OutgoingEdges(2) {
		if e.Dependent == 0 {
			e := e
			graft = &e
		}
	}
	require.NotNil(t, graft)
	assert.Equal(t, "nsubj", graft.Relation)
	assert.True(t, math.IsInf(graft.Weight, -1))
}

// TestSearch_ExtraEdgeReattachment builds a sentence with a secondary
// governance edge, lets canonicalization strip and record it, and
// checks the searcher restores it when the fragment re-roots at its
// governor.
//
//	asked(0) -nsubj-> staff(1)
//	asked(0) -xcomp-> leave(2)
//	leave(2) -nsubj-> staff(1)   [extra]
func TestSearch_ExtraEdgeReattachment(t *testing.T) {
	tr := deptree.NewTree()
	require.NoError(t, tr.AddWord(deptree.Word{Index: 0, Tag: "VBD", Text: "asked"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 1, Tag: "NN", Text: "staff"}))
	require.NoError(t, tr.AddWord(deptree.Word{Index: 2, Tag: "VB", Text: "leave"}))
	require.NoError(t, tr.AddRoot(0))
	_, err := tr.AddEdge(0, 1, "nsubj", 1.0, false)
	require.NoError(t, err)
	_, err = tr.AddEdge(0, 2, "xcomp", 1.0, false)
	require.NoError(t, err)
	_, err = tr.AddEdge(2, 1, "nsubj", 1.0, true)
	require.NoError(t, err)

	s, err := clause.NewSearcher(tr, &clause.LinearClassifier{Weights: map[string]float64{}}, nil)
	require.NoError(t, err)

	var frag *clause.Fragment
	require.NoError(t, s.Search(func(c clause.Candidate) bool {
		f, ferr := c.Fragment()
		require.NoError(t, ferr)
		if roots := f.Tree.Roots(); len(roots) == 1 && roots[0] == 2 {
			frag = f
			return false
		}
		return true
	}))
	require.NotNil(t, frag)

	// "staff leave": the stripped controlled-subject edge comes back.
	assert.Equal(t, 2, frag.Length())
	assert.True(t, frag.Tree.HasWord(1))
	out := frag.Tree.OutgoingEdges(2)
	require.Len(t, out, 1)
	assert.Equal(t, "nsubj", out[0].Relation)
	assert.Equal(t, 1, out[0].Dependent)
	assert.True(t, frag.Tree.IsWellFormed())
}

// TestTopClauses collects fragments above a probability threshold,
// best first, and stops at the first candidate below it.
func TestTopClauses(t *testing.T) {
	s := uniformSearcher(t)

	// Uniform weights: the root candidate has probability 1, every
	// deeper candidate at most 0.5.
	frags, err := s.TopClauses(0.8)
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.InDelta(t, 1.0, frags[0].Score, 1e-12)
	assert.Equal(t, 4, frags[0].Length())

	scores := make([]float64, 0)
	frags, err = s.TopClauses(0.1)
	require.NoError(t, err)
	require.NotEmpty(t, frags)
	for _, f := range frags {
		scores = append(scores, f.Score)
	}
	assert.True(t, sort.IsSorted(sort.Reverse(sort.Float64Slice(scores))), "fragments arrive best first: %v", scores)
}

// TestSearcher_TreeIsPrivate ensures the searcher works on its own
// canonical copy: mutating the input afterwards does not disturb it.
func TestSearcher_TreeIsPrivate(t *testing.T) {
	input := newSentenceTree(t)
	s, err := clause.NewExhaustiveSearcher(input)
	require.NoError(t, err)
	require.NoError(t, input.RemoveWord(2))
	assert.Equal(t, 4, s.Tree().Len())
	assert.True(t, s.Tree().IsWellFormed())
}
