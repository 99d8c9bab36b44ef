// File: classifier.go
// Role: the default pluggable trainer — seeded stochastic gradient
//       descent for L2-regularized logistic regression, producing a
//       clause.LinearClassifier.

package train

import (
	"math"
	"math/rand"

	"github.com/clausekit/clausekit/clause"
)

// LogisticTrainer fits a linear classifier by stochastic gradient
// descent on the weighted logistic loss. Zero values select defaults;
// training is deterministic given Seed.
type LogisticTrainer struct {
	// Epochs is the number of passes over the dataset (default 30).
	Epochs int

	// LearningRate is the SGD step size (default 0.1).
	LearningRate float64

	// L2 is the regularization strength (default 1e-4).
	L2 float64

	// Seed drives the per-epoch example order.
	Seed int64
}

// Train implements Trainer. Datum importance weights scale the
// per-example gradient, so a positive weighted 50 pulls as hard as
// fifty unweighted copies.
func (t LogisticTrainer) Train(ds Dataset) (clause.Classifier, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	epochs := t.Epochs
	if epochs <= 0 {
		epochs = 30
	}
	lr := t.LearningRate
	if lr <= 0 {
		lr = 0.1
	}
	l2 := t.L2
	if l2 <= 0 {
		l2 = 1e-4
	}

	weights := make(map[string]float64)
	rng := rand.New(rand.NewSource(t.Seed))
	for epoch := 0; epoch < epochs; epoch++ {
		for _, idx := range rng.Perm(len(ds)) {
			d := ds[idx]
			p := 1.0 / (1.0 + math.Exp(-d.Features.Dot(weights)))
			y := 0.0
			if d.Label {
				y = 1.0
			}
			grad := (p - y) * d.Weight
			for name, count := range d.Features {
				weights[name] -= lr * (grad*count + l2*weights[name])
			}
		}
	}
	return &clause.LinearClassifier{Weights: weights}, nil
}
