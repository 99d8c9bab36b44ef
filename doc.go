// Package clausekit splits sentences into independent, standalone
// clauses by searching over their dependency parses — the first stage
// of an open-domain relation-extraction pipeline.
//
// 🚀 What is clausekit?
//
//	A pure-Go toolkit that brings together:
//		• Dependency trees: words, labeled edges, roots, structural edits
//		• Canonicalization: raw parser graphs → strict rooted trees
//		• Clause search: best-first over splitting actions, classifier-scored
//		• Featurization: the sparse transition schema trained weights key off
//		• Training: oracle labeling, weighted datums, logistic SGD, k-fold CV
//
// Everything is organized under three subpackages plus one command:
//
//	deptree/      — Tree, Canonicalize, SimpleClause, AddSubtree
//	clause/       — Searcher, actions, DefaultFeaturizer, LinearClassifier
//	train/        — Train, LoadModel/SaveModel, LogisticTrainer, Dataset
//	cmd/clausekit — the train/split command-line front end
//
// Quick example, for the sentence "John signed that he left":
//
//	factory, err := train.LoadModel("model.json")
//	if err != nil { ... }
//	searcher, err := factory(tree)
//	if err != nil { ... }
//	fragments, err := searcher.TopClauses(0.5)
//	// fragments now holds standalone clauses such as "he left",
//	// each with a plausibility score in [0,1].
//
// Searchers share no mutable state: distinct sentences may be processed
// concurrently on independent instances.
//
//	go get github.com/clausekit/clausekit
package clausekit
