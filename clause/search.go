// File: search.go
// Role: the Searcher — best-first search over clause candidates using a
//       max-priority queue keyed by cumulative log-probability.
//
// Notes on implementation choices:
//
//   - Transitions are always generated against the original canonical
//     tree, never a partially-mutated copy; candidate trees exist only
//     behind the lazy fragment supplier.
//   - A global seen-word set deduplicates re-discovery of the same
//     subtree root via different paths, bounding the branching factor.
//   - For each (action, edge) pair every preposition-context candidate
//     is scored and only the best survives: a deliberate branching
//     reduction, not a completeness guarantee.

package clause

import (
	"container/heap"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/clausekit/clausekit/deptree"
)

// Searcher finds clauses in one sentence. It owns a private canonical
// copy of its input tree and a private extra-edge index; instances
// share no mutable state, so distinct sentences may be searched
// concurrently on independent instances.
type Searcher struct {
	tree       *deptree.Tree
	extraByGov map[int][]*deptree.Edge
	classifier Classifier
	featurizer Featurizer
}

// NewSearcher builds a searcher for inference: candidates are scored by
// the classifier over the featurizer's output. The input tree is
// defensively copied and canonicalized in place; canonicalization
// failure is propagated as a fatal error.
func NewSearcher(tree *deptree.Tree, classifier Classifier, featurizer Featurizer) (*Searcher, error) {
	s, err := NewExhaustiveSearcher(tree)
	if err != nil {
		return nil, err
	}
	s.classifier = classifier
	s.featurizer = featurizer
	return s, nil
}

// NewExhaustiveSearcher builds a searcher with no classifier: every
// transition scores equally and all branches are explored up to the
// tick budget. For an end user this is almost never what you want; it
// is the searcher the training pipeline drives.
func NewExhaustiveSearcher(tree *deptree.Tree) (*Searcher, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	private := tree.Clone()
	extras, err := deptree.Canonicalize(private)
	if err != nil {
		return nil, err
	}
	byGov := make(map[int][]*deptree.Edge)
	for _, e := range extras {
		byGov[e.Governor] = append(byGov[e.Governor], e)
	}
	return &Searcher{tree: private, extraByGov: byGov}, nil
}

// Tree exposes the canonical tree the searcher operates on. Callers
// must treat it as read-only ground truth.
func (s *Searcher) Tree() *deptree.Tree { return s.tree }

// Search runs best-first clause search and hands each candidate to cb,
// highest cumulative log-probability first. The callback returning
// false terminates the search across all roots; exceeding the tick
// budget logs a warning and stops, leaving already-delivered candidates
// valid.
//
// Returns ErrNoClassifier or ErrUnsupportedClassifier before any search
// work when the searcher is not configured for inference.
func (s *Searcher) Search(cb Callback, opts ...Option) error {
	if s.classifier == nil {
		return ErrNoClassifier
	}
	lin, ok := s.classifier.(*LinearClassifier)
	if !ok {
		return ErrUnsupportedClassifier
	}
	featurizer := s.featurizer
	if featurizer == nil {
		featurizer = DefaultFeaturizer
	}
	return s.searchWith(cb, lin.Weights, featurizer, opts)
}

// SearchExhaustive runs the search with uniform weights: every
// transition scores sigmoid(0) = 0.5, so the queue degenerates to
// breadth-ordered exploration of every branch. Used at training time to
// enumerate candidate boundaries.
func (s *Searcher) SearchExhaustive(cb Callback, featurizer Featurizer, opts ...Option) error {
	return s.searchWith(cb, map[string]float64{}, featurizer, opts)
}

// TopClauses collects fragments whose probability is at least
// threshold, best first. The cutoff is cooperative: the first candidate
// below threshold stops the search.
func (s *Searcher) TopClauses(threshold float64) ([]*Fragment, error) {
	var results []*Fragment
	var materr error
	err := s.Search(func(c Candidate) bool {
		if math.Exp(c.LogProb) < threshold {
			return false
		}
		frag, err := c.Fragment()
		if err != nil {
			materr = err
			return false
		}
		results = append(results, frag)
		return true
	})
	if err != nil {
		return nil, err
	}
	if materr != nil {
		return nil, materr
	}
	return results, nil
}

func (s *Searcher) searchWith(cb Callback, weights map[string]float64, featurizer Featurizer, opts []Option) error {
	if cb == nil {
		return ErrNilCallback
	}
	o := defaultSearchOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return o.err
	}
	if featurizer == nil {
		featurizer = DefaultFeaturizer
	}
	// Each sentence root is searched independently; a callback-initiated
	// stop at any root ends the whole search.
	for _, root := range s.tree.Roots() {
		if stopped := s.searchRoot(root, cb, weights, featurizer, defaultActionSpace, o.maxTicks); stopped {
			break
		}
	}
	return nil
}

// fringeItem pairs a state with its feature path and cumulative
// log-probability.
type fringeItem struct {
	state    *State
	features []FeatureVector
	logProb  float64
}

// fringeHeap is a max-heap over cumulative log-probability.
type fringeHeap []fringeItem

func (h fringeHeap) Len() int            { return len(h) }
func (h fringeHeap) Less(i, j int) bool  { return h[i].logProb > h[j].logProb }
func (h fringeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *fringeHeap) Push(x interface{}) { *h = append(*h, x.(fringeItem)) }
func (h *fringeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// searchRoot runs the best-first loop from one sentence root. The
// return value reports whether the caller's callback stopped the
// search (true), as opposed to fringe exhaustion or tick budget (false
// either way: those are soft terminations, not caller intent).
func (s *Searcher) searchRoot(root int, cb Callback, weights map[string]float64, featurizer Featurizer, actions []ActionKind, maxTicks int) bool {
	fringe := &fringeHeap{}
	heap.Init(fringe)
	seen := make(map[int]struct{}, s.tree.Len())

	// Virtual root state: no edge taken, empty plan, priority log(1)=0.
	heap.Push(fringe, fringeItem{
		state:   &State{DistanceFromSubject: initialSubjectDistance},
		logProb: 0,
	})

	ticks := 0
	for fringe.Len() > 0 {
		ticks++
		if ticks > maxTicks {
			log.Warn().Int("ticks", ticks).Int("root", root).Msg("clause search exceeded tick budget; returning fragments emitted so far")
			return false
		}
		item := heap.Pop(fringe).(fringeItem)
		frontier := root
		if item.state.Edge != nil {
			frontier = item.state.Edge.Dependent
		}
		// Distinct actions may queue states for the same dependent before
		// either is popped; only the first reaching the top is emitted.
		if _, dup := seen[frontier]; dup {
			continue
		}

		if !cb(Candidate{
			LogProb:  item.logProb,
			Features: item.features,
			Fragment: s.supplier(item.state, item.logProb),
		}) {
			return true
		}

		// Context at the frontier word: preposition attachments (plus the
		// explicit none option) and the subject edge, if any.
		ppEdges := []*deptree.Edge{nil}
		var subject *deptree.Edge
		for _, e := range s.tree.OutgoingEdges(frontier) {
			e := e
			if strings.HasPrefix(e.Relation, "prep") {
				ppEdges = append(ppEdges, &e)
			} else if strings.Contains(e.Relation, "subj") {
				subject = &e
			}
		}

		for _, action := range actions {
			for _, outgoing := range s.tree.OutgoingEdges(frontier) {
				if !action.prerequisitesMet(s.tree, outgoing) {
					continue
				}
				// Keep only the best-scoring preposition context for this
				// (action, edge) pair.
				best := math.Inf(-1)
				var bestItem fringeItem
				found := false
				for _, pp := range ppEdges {
					next, ok := action.apply(item.state, outgoing, subject, pp)
					if !ok {
						continue
					}
					feats := featurizer(item.state, action, next, s.tree)
					prob := sigmoid(feats.Dot(weights))
					if prob > best {
						best = prob
						path := make([]FeatureVector, len(item.features), len(item.features)+1)
						copy(path, item.features)
						bestItem = fringeItem{
							state:    next,
							features: append(path, feats),
							logProb:  item.logProb + math.Log(prob),
						}
						found = true
					}
				}
				if found {
					if _, dup := seen[bestItem.state.Edge.Dependent]; !dup {
						heap.Push(fringe, bestItem)
					}
				}
			}
		}

		seen[frontier] = struct{}{}
	}
	return false
}

// supplier defers fragment materialization: a fresh copy of the
// canonical tree, the state's edit plan replayed in order, then every
// extra edge registered for each resulting root reattached where doing
// so keeps the fragment a tree.
func (s *Searcher) supplier(st *State, logProb float64) func() (*Fragment, error) {
	return func() (*Fragment, error) {
		working := s.tree.Clone()
		for _, ed := range st.plan {
			if err := ed.apply(working, s.tree); err != nil {
				return nil, err
			}
		}
		for _, root := range working.Roots() {
			ignored := make(map[int]struct{})
			for _, in := range s.tree.IncomingEdges(root) {
				ignored[in.ID] = struct{}{}
			}
			for _, extra := range s.extraByGov[root] {
				// AddSubtree declines overlapping grafts on its own, which
				// is exactly the skip-if-it-breaks-tree-ness rule.
				if err := deptree.AddSubtree(working, root, extra.Relation, s.tree, extra.Dependent, ignored); err != nil {
					return nil, err
				}
			}
		}
		return &Fragment{Tree: working, Score: math.Exp(logProb)}, nil
	}
}
