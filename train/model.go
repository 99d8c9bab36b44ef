// File: model.go
// Role: model persistence — a serialized (weights, featurizer-id) pair —
//       and the searcher Factory bound to a loaded or trained model.

package train

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clausekit/clausekit/clause"
	"github.com/clausekit/clausekit/deptree"
)

// Factory builds a ready-to-search inference searcher for one sentence
// tree, bound to a trained classifier and featurizer.
type Factory func(tree *deptree.Tree) (*clause.Searcher, error)

// modelFile is the persisted shape: the featurizer identifier and the
// linear weight vector.
type modelFile struct {
	Featurizer string             `json:"featurizer"`
	Weights    map[string]float64 `json:"weights"`
}

// SaveModel persists a linear classifier with the default-featurizer
// identifier at path. Only linear classifiers are serializable.
func SaveModel(path string, c clause.Classifier) error {
	lin, ok := c.(*clause.LinearClassifier)
	if !ok {
		return clause.ErrUnsupportedClassifier
	}
	data, err := json.Marshal(modelFile{Featurizer: clause.DefaultFeaturizerID, Weights: lin.Weights})
	if err != nil {
		return fmt.Errorf("train: encoding model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("train: writing model: %w", err)
	}
	return nil
}

// LoadModel reads a persisted model and returns a searcher factory
// bound to it. A missing or unreadable file, or an unrecognized
// serialized shape, is ErrModelLoad: there is no default scorer to fall
// back to.
func LoadModel(path string) (Factory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if mf.Featurizer != clause.DefaultFeaturizerID || mf.Weights == nil {
		return nil, fmt.Errorf("%w: unrecognized model shape in %s", ErrModelLoad, path)
	}
	classifier := &clause.LinearClassifier{Weights: mf.Weights}
	return func(tree *deptree.Tree) (*clause.Searcher, error) {
		return clause.NewSearcher(tree, classifier, clause.DefaultFeaturizer)
	}, nil
}
