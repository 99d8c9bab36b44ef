// Package train converts labeled (sentence, subject-span, object-span)
// examples into a weighted dataset and fits the linear scorer that
// drives clause search.
//
// The pipeline closes the loop around package clause: for each example
// it runs the search engine in exhaustive mode (uniform weights, every
// edge a candidate boundary), asks the external relation-extraction
// oracle whether each emitted fragment yields the gold extraction, and
// turns every feature vector along a labeled fragment's path into one
// weighted datum. Negatives are subsampled, positives up-weighted, and
// the resulting dataset feeds a pluggable Trainer — LogisticTrainer by
// default — followed by a training-set accuracy report and k-fold
// cross-validation.
//
// Everything downstream of the seed is deterministic: subsampling,
// shuffling, fold boundaries, and the default trainer all derive from
// Options.Seed, so repeated runs over the same inputs reproduce the
// same folds and metrics.
//
//	factory, err := train.Train(examples, oracle, clause.DefaultFeaturizer, train.DefaultOptions())
//	if err != nil { ... }
//	searcher, err := factory(tree)
//
// Trained models round-trip through SaveModel and LoadModel as a JSON
// (weights, featurizer-id) pair; loading yields the same Factory shape.
package train
