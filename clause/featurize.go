// File: featurize.go
// Role: the featurizer — a pure function from a search transition to a
//       sparse named feature vector.

package clause

import (
	"fmt"
	"strings"

	"github.com/clausekit/clausekit/deptree"
)

// Featurizer maps one search transition (from, action, to), in the
// context of the original canonical tree, to named feature counts. It
// must be pure and deterministic: trained weight vectors are keyed by
// the exact strings it produces.
type Featurizer func(from *State, action ActionKind, to *State, tree *deptree.Tree) FeatureVector

// DefaultFeaturizerID names DefaultFeaturizer in persisted models.
const DefaultFeaturizerID = "default"

// DefaultFeaturizer is the standard feature schema. All keys are
// prefixed by the action signature. The string formatting is
// load-bearing: it reproduces the schema existing trained weights were
// fit against, bit for bit.
//
// Schema, for a transition taking edge E = governor→dependent:
//
//  1. the edge taken: edge:<relation>, edge_type:<shortRelation>
//  2. position: at_root (+ at_root&root_pos:<tag>) on the first step,
//     else not_root and last_edge:<shortRelation of the previous edge>
//  3. sibling edges at E's governor (excluding E): parent_neighbor:<rel>
//     and the edge_type-qualified variant
//  4. edges below E's dependent: child_neighbor:<rel> and the
//     edge_type-qualified variant
//  5. aggregates: parent_neighbor_subj/obj, child_neighbor_subj/obj
//  6. part of speech: parent_pos, child_pos, pos_signature and its
//     edge_type-qualified variant
//
// DefaultFeaturizer is a stateless function value, safe to share across
// goroutines.
var DefaultFeaturizer Featurizer = func(from *State, action ActionKind, to *State, tree *deptree.Tree) FeatureVector {
	sig := action.Signature()
	edgeRelTaken := "root"
	edgeRelShort := "root"
	if to.Edge != nil {
		edgeRelTaken = to.Edge.Relation
		edgeRelShort = deptree.ShortRelation(to.Edge.Relation)
	}

	feats := make(FeatureVector)

	// 1. Edge taken.
	feats.Add(sig + "&edge:" + edgeRelTaken)
	feats.Add(sig + "&edge_type:" + edgeRelShort)

	// 2. Last edge taken.
	if from.Edge == nil {
		feats.Add(sig + "&at_root")
		if root, err := tree.FirstRoot(); err == nil {
			feats.Add(sig + "&at_root&root_pos:" + root.Tag)
		}
	} else {
		feats.Add(sig + "&not_root")
		feats.Add(sig + "&last_edge:" + deptree.ShortRelation(from.Edge.Relation))
	}

	if to.Edge == nil {
		return feats
	}

	parentHasSubj, parentHasObj := false, false
	childHasSubj, childHasObj := false, false

	// 3. Other edges at the parent.
	for _, neighbor := range tree.OutgoingEdges(to.Edge.Governor) {
		if neighbor.ID == to.Edge.ID {
			continue
		}
		rel := neighbor.Relation
		if strings.Contains(rel, "subj") {
			parentHasSubj = true
		}
		if strings.Contains(rel, "obj") {
			parentHasObj = true
		}
		feats.Add(sig + "&parent_neighbor:" + rel)
		feats.Add(sig + "&edge_type:" + edgeRelShort + "&parent_neighbor:" + rel)
	}

	// 4. Other edges at the child.
	for _, neighbor := range tree.OutgoingEdges(to.Edge.Dependent) {
		rel := neighbor.Relation
		if strings.Contains(rel, "subj") {
			childHasSubj = true
		}
		if strings.Contains(rel, "obj") {
			childHasObj = true
		}
		feats.Add(sig + "&child_neighbor:" + rel)
		feats.Add(sig + "&edge_type:" + edgeRelShort + "&child_neighbor:" + rel)
	}

	// 5. Subject/object aggregates.
	feats.Add(fmt.Sprintf("%s&parent_neighbor_subj:%t", sig, parentHasSubj))
	feats.Add(fmt.Sprintf("%s&parent_neighbor_obj:%t", sig, parentHasObj))
	feats.Add(fmt.Sprintf("%s&child_neighbor_subj:%t", sig, childHasSubj))
	feats.Add(fmt.Sprintf("%s&child_neighbor_obj:%t", sig, childHasObj))

	// 6. Part-of-speech info.
	gov, _ := tree.WordAt(to.Edge.Governor)
	dep, _ := tree.WordAt(to.Edge.Dependent)
	feats.Add(sig + "&parent_pos:" + gov.Tag)
	feats.Add(sig + "&child_pos:" + dep.Tag)
	feats.Add(sig + "&pos_signature:" + gov.Tag + "->" + dep.Tag)
	feats.Add(sig + "&edge_type:" + edgeRelShort + "&pos_signature:" + gov.Tag + "->" + dep.Tag)

	return feats
}
