// Package clause decomposes a sentence's dependency parse into a ranked
// set of independent, grammatically valid sub-clauses, each scored by
// how likely it is to stand alone as a faithful proposition.
//
// The search is best-first over an implicit space of "clause so far"
// states. From each frontier word, every registered action is applied
// to every outgoing edge of the original canonical tree; successors are
// scored by a linear classifier over a sparse featurization of the
// transition and queued by cumulative log-probability. Tree edits are
// deferred: a state carries a replayable plan of commands, applied to a
// fresh tree copy only when the caller materializes a fragment.
//
// The control flow is single-threaded and cooperative: the engine
// yields once per candidate through the Callback and resumes based on
// its boolean return. The only bound is the per-search tick budget,
// making termination deterministic given the same tree and weights.
//
// Inference:
//
//	searcher, err := clause.NewSearcher(tree, classifier, clause.DefaultFeaturizer)
//	if err != nil { ... }
//	fragments, err := searcher.TopClauses(0.5)
//
// Training drives the same engine exhaustively; see package train.
package clause
