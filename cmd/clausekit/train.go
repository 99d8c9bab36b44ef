package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clausekit/clausekit/clause"
	"github.com/clausekit/clausekit/deptree"
	"github.com/clausekit/clausekit/train"
)

// trainCmd fits a clause scorer from labeled examples.
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a clause scorer from labeled examples",
	Long: `Train reads JSON-lines training examples — one object per line with a
dependency tree and gold subject/object token spans — runs exhaustive
clause search over each, and fits the linear boundary scorer.

Labeling uses a built-in span oracle that reads subject/object guesses
off each candidate clause's nsubj and object subtrees. Programs with a
full relation extractor should call the train package directly and
supply their own oracle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := viper.GetString("train.input")
		if inputPath == "" {
			return fmt.Errorf("--input is required")
		}
		examples, err := readExamples(inputPath)
		if err != nil {
			return err
		}
		log.Info().Int("examples", len(examples)).Str("input", inputPath).Msg("loaded training examples")

		opts := train.DefaultOptions()
		opts.NegativeSubsampleRatio = viper.GetFloat64("train.negative_subsample_ratio")
		opts.PositiveDatumWeight = viper.GetFloat64("train.positive_datum_weight")
		opts.Seed = viper.GetInt64("train.seed")
		opts.Folds = viper.GetInt("train.folds")
		opts.ModelPath = viper.GetString("train.model")
		opts.DumpPath = viper.GetString("train.dump")

		_, err = train.Train(examples, train.OracleFunc(spanOracle), clause.DefaultFeaturizer, opts)
		return err
	},
}

func init() {
	trainCmd.Flags().String("input", "", "JSON-lines training examples (required)")
	trainCmd.Flags().String("model", "clause-model.json", "output model path")
	trainCmd.Flags().String("dump", "", "optional gzip training-datum dump path")
	trainCmd.Flags().Float64("negative-ratio", 0.10, "fraction of negative datums to keep")
	trainCmd.Flags().Float64("positive-weight", 50.0, "weight assigned to every positive datum")
	trainCmd.Flags().Int64("seed", 42, "random seed")
	trainCmd.Flags().Int("folds", 5, "cross-validation fold count")

	_ = viper.BindPFlag("train.input", trainCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("train.model", trainCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("train.dump", trainCmd.Flags().Lookup("dump"))
	_ = viper.BindPFlag("train.negative_subsample_ratio", trainCmd.Flags().Lookup("negative-ratio"))
	_ = viper.BindPFlag("train.positive_datum_weight", trainCmd.Flags().Lookup("positive-weight"))
	_ = viper.BindPFlag("train.seed", trainCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("train.folds", trainCmd.Flags().Lookup("folds"))
}

// readExamples decodes one TrainingExample per non-empty line.
func readExamples(path string) ([]train.TrainingExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening examples: %w", err)
	}
	defer f.Close()

	var examples []train.TrainingExample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var ex train.TrainingExample
		if err := json.Unmarshal([]byte(text), &ex); err != nil {
			return nil, fmt.Errorf("examples line %d: %w", line, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading examples: %w", err)
	}
	return examples, nil
}

// spanOracle is the CLI's stand-in relation extractor: it guesses the
// subject span from the clause root's subject subtree and the object
// span from its object subtree. One guess per clause, none when either
// subtree is missing.
func spanOracle(tree *deptree.Tree) []train.RelationMention {
	roots := tree.Roots()
	if len(roots) != 1 {
		return nil
	}
	var subject, object *train.Span
	for _, e := range tree.OutgoingEdges(roots[0]) {
		switch {
		case subject == nil && strings.Contains(e.Relation, "subj"):
			s := subtreeSpan(tree, e.Dependent)
			subject = &s
		case object == nil && strings.Contains(e.Relation, "obj"):
			s := subtreeSpan(tree, e.Dependent)
			object = &s
		}
	}
	if subject == nil || object == nil {
		return nil
	}
	return []train.RelationMention{{Subject: *subject, Object: *object}}
}

// subtreeSpan returns the half-open token interval covered by the
// subtree rooted at index.
func subtreeSpan(tree *deptree.Tree, index int) train.Span {
	lo, hi := index, index
	fringe := []int{index}
	for len(fringe) > 0 {
		node := fringe[0]
		fringe = fringe[1:]
		if node < lo {
			lo = node
		}
		if node > hi {
			hi = node
		}
		for _, e := range tree.OutgoingEdges(node) {
			fringe = append(fringe, e.Dependent)
		}
	}
	return train.Span{Start: lo, End: hi + 1}
}
