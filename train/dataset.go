// File: dataset.go
// Role: the weighted dataset, seeded shuffling, k-fold partitioning, and
//       precision/recall/F1 evaluation.

package train

import (
	"math/rand"

	"github.com/clausekit/clausekit/clause"
)

// Dataset is an ordered collection of weighted datums.
type Dataset []WeightedDatum

// Positives returns the number of positively labeled datums.
func (ds Dataset) Positives() int {
	n := 0
	for _, d := range ds {
		if d.Label {
			n++
		}
	}
	return n
}

// Shuffled returns a copy of the dataset in seeded random order.
// The same seed always produces the same permutation.
func (ds Dataset) Shuffled(seed int64) Dataset {
	out := make(Dataset, len(ds))
	copy(out, ds)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Fold splits out contiguous fold i of k: the second return value is the
// held-out test partition, the first is everything else. Partition
// boundaries depend only on len(ds), i, and k, so a pre-shuffled dataset
// yields identical folds across runs.
func (ds Dataset) Fold(i, k int) (training, test Dataset) {
	lo := len(ds) * i / k
	hi := len(ds) * (i + 1) / k
	test = make(Dataset, hi-lo)
	copy(test, ds[lo:hi])
	training = make(Dataset, 0, len(ds)-len(test))
	training = append(training, ds[:lo]...)
	training = append(training, ds[hi:]...)
	return training, test
}

// Metrics reports classifier quality over the positive class.
type Metrics struct {
	Size      int
	Positives int
	Precision float64
	Recall    float64
	F1        float64
}

// Evaluate scores every datum with c (decision threshold 0.5) and
// returns precision, recall, and F1 against the positive class.
func Evaluate(c clause.Classifier, ds Dataset) Metrics {
	m := Metrics{Size: len(ds), Positives: ds.Positives()}
	var tp, fp, fn float64
	for _, d := range ds {
		predicted := c.ScoreDecision(d.Features) >= 0.5
		switch {
		case predicted && d.Label:
			tp++
		case predicted && !d.Label:
			fp++
		case !predicted && d.Label:
			fn++
		}
	}
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
