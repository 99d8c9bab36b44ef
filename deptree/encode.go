// File: encode.go
// Role: JSON wire codec for the parser input contract, plus an indented
//       debug renderer.
//
// Wire shape:
//
//	{
//	  "words": [{"index":0,"tag":"NNP","lemma":"John","word":"John"}, ...],
//	  "edges": [{"governor":1,"dependent":0,"relation":"nsubj","weight":1.0,"extra":false}, ...],
//	  "roots": [1]
//	}
//
// Edges are decoded in wire order, so edge IDs reproduce the parser's
// emission order; the canonicalization tie-break (smallest ID wins)
// therefore keeps the first-emitted governor.

package deptree

import (
	"encoding/json"
	"fmt"
	"strings"
)

type wireWord struct {
	Index     int    `json:"index"`
	Tag       string `json:"tag"`
	Lemma     string `json:"lemma"`
	Word      string `json:"word"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

type wireEdge struct {
	Governor  int     `json:"governor"`
	Dependent int     `json:"dependent"`
	Relation  string  `json:"relation"`
	Weight    float64 `json:"weight"`
	Extra     bool    `json:"extra,omitempty"`
}

type wireTree struct {
	Words []wireWord `json:"words"`
	Edges []wireEdge `json:"edges"`
	Roots []int      `json:"roots"`
}

// MarshalJSON encodes the tree in the wire shape, with words sorted by
// index and edges by ID.
func (t *Tree) MarshalJSON() ([]byte, error) {
	wt := wireTree{Roots: t.Roots()}
	for _, w := range t.Words() {
		wt.Words = append(wt.Words, wireWord{Index: w.Index, Tag: w.Tag, Lemma: w.Lemma, Word: w.Text, Synthetic: w.Synthetic})
	}
	for _, e := range t.Edges() {
		wt.Edges = append(wt.Edges, wireEdge{Governor: e.Governor, Dependent: e.Dependent, Relation: e.Relation, Weight: e.Weight, Extra: e.Extra})
	}
	return json.Marshal(wt)
}

// UnmarshalJSON decodes the wire shape into t, replacing any previous
// contents. Edges referencing unknown word indices and roots missing
// from the word list are rejected.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var wt wireTree
	if err := json.Unmarshal(data, &wt); err != nil {
		return fmt.Errorf("deptree: decoding tree: %w", err)
	}
	fresh := NewTree()
	for _, w := range wt.Words {
		if err := fresh.AddWord(Word{Index: w.Index, Tag: w.Tag, Lemma: w.Lemma, Text: w.Word, Synthetic: w.Synthetic}); err != nil {
			return fmt.Errorf("deptree: word %d: %w", w.Index, err)
		}
	}
	for _, e := range wt.Edges {
		if _, err := fresh.AddEdge(e.Governor, e.Dependent, e.Relation, e.Weight, e.Extra); err != nil {
			return fmt.Errorf("deptree: edge %d->%d: %w", e.Governor, e.Dependent, err)
		}
	}
	for _, r := range wt.Roots {
		if err := fresh.AddRoot(r); err != nil {
			return fmt.Errorf("deptree: root %d: %w", r, err)
		}
	}
	*t = *fresh
	return nil
}

// String renders the tree as an indented outline, one word per line,
// children under parents. Intended for debugging and log output only;
// the format is not stable.
func (t *Tree) String() string {
	var b strings.Builder
	seen := make(map[int]struct{}, t.Len())
	for _, root := range t.Roots() {
		t.render(&b, root, "root", 0, seen)
	}
	return b.String()
}

func (t *Tree) render(b *strings.Builder, index int, rel string, depth int, seen map[int]struct{}) {
	if _, dup := seen[index]; dup {
		return // cycle guard for pre-canonical graphs
	}
	seen[index] = struct{}{}
	w, ok := t.WordAt(index)
	if !ok {
		return
	}
	fmt.Fprintf(b, "%s-%s-> %s/%s [%d]\n", strings.Repeat("  ", depth), rel, w.Text, w.Tag, w.Index)
	for _, e := range t.OutgoingEdges(index) {
		t.render(b, e.Dependent, e.Relation, depth+1, seen)
	}
}
