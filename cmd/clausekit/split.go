package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clausekit/clausekit/deptree"
	"github.com/clausekit/clausekit/train"
)

// splitCmd runs inference: load a model, split one tree into clauses.
var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a dependency tree into scored clauses",
	Long: `Split loads a trained model, reads one dependency tree as JSON from a
file or stdin, and prints each candidate clause with its plausibility
score, best first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		factory, err := train.LoadModel(viper.GetString("split.model"))
		if err != nil {
			return err
		}

		tree, err := readTree(viper.GetString("split.input"))
		if err != nil {
			return err
		}
		searcher, err := factory(tree)
		if err != nil {
			return err
		}
		fragments, err := searcher.TopClauses(viper.GetFloat64("split.threshold"))
		if err != nil {
			return err
		}

		if viper.GetBool("split.json") {
			enc := json.NewEncoder(os.Stdout)
			for _, frag := range fragments {
				if err := enc.Encode(struct {
					Score float64       `json:"score"`
					Tree  *deptree.Tree `json:"tree"`
				}{frag.Score, frag.Tree}); err != nil {
					return err
				}
			}
			return nil
		}
		for i, frag := range fragments {
			fmt.Printf("# clause %d  score=%.4f\n%s", i+1, frag.Score, frag.Tree)
		}
		return nil
	},
}

func init() {
	splitCmd.Flags().String("model", "clause-model.json", "trained model path")
	splitCmd.Flags().String("input", "-", "tree JSON file, or - for stdin")
	splitCmd.Flags().Float64("threshold", 0.5, "minimum clause probability")
	splitCmd.Flags().Bool("json", false, "emit fragments as JSON lines")

	_ = viper.BindPFlag("split.model", splitCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("split.input", splitCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("split.threshold", splitCmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("split.json", splitCmd.Flags().Lookup("json"))
}

// readTree decodes a single wire-format tree from path or stdin.
func readTree(path string) (*deptree.Tree, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	tree := deptree.NewTree()
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, err
	}
	return tree, nil
}
