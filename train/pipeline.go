// File: pipeline.go
// Role: the supervised-training loop — exhaustive search over labeled
//       examples, oracle labeling, weighted-dataset assembly, training,
//       metrics, and k-fold cross-validation.

package train

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/clausekit/clausekit/clause"
	"github.com/clausekit/clausekit/deptree"
)

// progressEvery controls how often example progress is logged.
const progressEvery = 100

// Train runs the full supervised pipeline over the given examples and
// returns a Factory bound to the trained classifier and featurizer.
//
// Per example: an exhaustive searcher (uniform weights, every edge a
// valid boundary) enumerates candidate fragments; the oracle labels
// each fragment by comparing its extraction guesses against the gold
// spans (exact match or one span containing the other, checked with
// subject and object in both orders); every feature vector on a labeled
// fragment's path becomes one datum. Negative datums are subsampled by
// NegativeSubsampleRatio, positive datums weighted by
// PositiveDatumWeight.
//
// Examples whose gold spans never match degrade to zero positive labels
// for that example; they do not abort the pipeline. A failed model
// write is logged, not returned: the in-memory factory is still valid.
//
// After assembly: the Trainer fits the full classifier, precision/
// recall/F1 are reported on the training set, and a fresh classifier is
// trained and evaluated per cross-validation fold. Given the same
// inputs and Seed, folds and metrics are identical across runs.
func Train(examples []TrainingExample, oracle Oracle, featurizer clause.Featurizer, opts Options) (Factory, error) {
	if oracle == nil {
		return nil, ErrNilOracle
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if featurizer == nil {
		featurizer = clause.DefaultFeaturizer
	}

	dump, closeDump, err := openDump(opts.DumpPath)
	if err != nil {
		return nil, err
	}

	// Step 1: inference over training sentences.
	rng := rand.New(rand.NewSource(opts.Seed))
	var dataset Dataset
	for i, ex := range examples {
		if err := searchExample(ex, oracle, featurizer, opts, rng, dump, &dataset); err != nil {
			_ = closeDump()
			return nil, fmt.Errorf("train: example %d: %w", i, err)
		}
		if (i+1)%progressEvery == 0 {
			log.Info().Int("examples", i+1).Int("datums", len(dataset)).Msg("training inference progress")
		}
	}
	if err := closeDump(); err != nil {
		return nil, err
	}

	// Step 2: train the full classifier.
	classifier, err := opts.Trainer.Train(dataset)
	if err != nil {
		return nil, err
	}

	// Step 3: persist. Write failure does not abort a successful run.
	if opts.ModelPath != "" {
		if err := SaveModel(opts.ModelPath, classifier); err != nil {
			log.Error().Err(err).Str("path", opts.ModelPath).Msg("failed to save model")
		} else {
			log.Info().Str("path", opts.ModelPath).Msg("wrote model")
		}
	}

	// Step 4: training-set accuracy.
	shuffled := dataset.Shuffled(opts.Seed)
	logMetrics("training accuracy", Evaluate(classifier, shuffled))

	// Step 5: k-fold cross-validation, a fresh classifier per fold.
	for fold := 0; fold < opts.Folds; fold++ {
		trainDs, testDs := shuffled.Fold(fold, opts.Folds)
		foldClassifier, err := opts.Trainer.Train(trainDs)
		if err != nil {
			return nil, fmt.Errorf("train: fold %d: %w", fold+1, err)
		}
		logMetrics(fmt.Sprintf("fold %d/%d", fold+1, opts.Folds), Evaluate(foldClassifier, testDs))
	}

	return func(tree *deptree.Tree) (*clause.Searcher, error) {
		return clause.NewSearcher(tree, classifier, featurizer)
	}, nil
}

// searchExample runs one exhaustive search and appends its labeled
// datums to the dataset.
func searchExample(ex TrainingExample, oracle Oracle, featurizer clause.Featurizer, opts Options, rng *rand.Rand, dump *bufio.Writer, dataset *Dataset) error {
	searcher, err := clause.NewExhaustiveSearcher(ex.Tree)
	if err != nil {
		return err
	}
	var cbErr error
	searchErr := searcher.SearchExhaustive(func(c clause.Candidate) bool {
		// Fragments with empty feature paths (the virtual root) are
		// skipped entirely.
		if len(c.Features) == 0 {
			return true
		}
		frag, err := c.Fragment()
		if err != nil {
			cbErr = err
			return false
		}
		extractions := oracle.RelationsInClause(frag.Tree)
		correct := false
		for _, ext := range extractions {
			if spansMatch(ext, ex.Subject, ex.Object) {
				correct = true
				break
			}
		}
		// Label only fragments the oracle produced a guess for, plus
		// single-word fragments (trivially complete clauses).
		if len(extractions) == 0 && frag.Length() != 1 {
			return true
		}
		for i, decision := range c.Features {
			if dump != nil {
				writeDatumLine(dump, correct, i == len(c.Features)-1, decision)
			}
			// Subsample negatives; keep every positive.
			if correct || rng.Float64() > 1.0-opts.NegativeSubsampleRatio {
				weight := 1.0
				if correct {
					weight = opts.PositiveDatumWeight
				}
				*dataset = append(*dataset, WeightedDatum{Features: decision, Label: correct, Weight: weight})
			}
		}
		return true
	}, featurizer, clause.WithMaxTicks(opts.MaxTicks))
	if cbErr != nil {
		return cbErr
	}
	return searchErr
}

// spansMatch checks one extraction guess against the gold spans, in
// both subject/object orders to allow swapped roles.
func spansMatch(guess RelationMention, goldSubject, goldObject Span) bool {
	return (guess.Subject.Matches(goldSubject) && guess.Object.Matches(goldObject)) ||
		(guess.Subject.Matches(goldObject) && guess.Object.Matches(goldSubject))
}

// writeDatumLine emits one dump line: label, is-final-feature-in-path,
// and semicolon-joined name->count pairs, tab-separated. Feature names
// are sorted so dumps are byte-stable across runs.
func writeDatumLine(w *bufio.Writer, label, isFinal bool, feats clause.FeatureVector) {
	names := make([]string, 0, len(feats))
	for name := range feats {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s->%g", name, feats[name]))
	}
	fmt.Fprintf(w, "%t\t%t\t%s\n", label, isFinal, strings.Join(pairs, ";"))
}

// openDump opens the gzip-compressed datum dump, returning a nil writer
// and a no-op closer when no path is configured.
func openDump(path string) (*bufio.Writer, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("train: opening datum dump: %w", err)
	}
	gz := gzip.NewWriter(f)
	buf := bufio.NewWriter(gz)
	closer := func() error {
		if err := buf.Flush(); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		return f.Close()
	}
	return buf, closer, nil
}

// logMetrics reports one evaluation block in the standard shape.
func logMetrics(stage string, m Metrics) {
	log.Info().
		Str("stage", stage).
		Int("size", m.Size).
		Int("positives", m.Positives).
		Str("precision", fmt.Sprintf("%.3f", m.Precision)).
		Str("recall", fmt.Sprintf("%.3f", m.Recall)).
		Str("f1", fmt.Sprintf("%.3f", m.F1)).
		Msg("classifier evaluation")
}
