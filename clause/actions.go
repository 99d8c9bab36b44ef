// File: actions.go
// Role: the closed set of clause-splitting actions. Each action is a
//       stateless strategy with a prerequisite check and an apply step
//       deriving at most one successor state.

package clause

import "github.com/clausekit/clausekit/deptree"

// ActionKind enumerates the clause-splitting strategies. The action
// space is small and fixed; extending it means adding a constant here
// and arms to the switches below.
type ActionKind int

const (
	// ActionSimpleSplit detaches the subtree below the taken edge as a
	// standalone clause. Always applicable, never terminal.
	ActionSimpleSplit ActionKind = iota

	// ActionCloneSubject detaches the subtree and grafts a copy of the
	// nearest ancestor subject under the new root as "nsubj". Requires
	// an inherited subject; terminal, since a clause that has been given
	// an explicit borrowed subject should not be split further.
	ActionCloneSubject
)

// defaultActionSpace is the action set used by every search.
var defaultActionSpace = []ActionKind{ActionSimpleSplit, ActionCloneSubject}

// Signature returns the action's name as used in feature strings.
// The values are load-bearing: trained weight vectors key off them.
func (a ActionKind) Signature() string {
	switch a {
	case ActionSimpleSplit:
		return "simple"
	case ActionCloneSubject:
		return "clone_nsubj"
	}
	return "unknown"
}

// prerequisitesMet checks the action against an outgoing edge of the
// original canonical tree, before apply is attempted.
func (a ActionKind) prerequisitesMet(_ *deptree.Tree, _ deptree.Edge) bool {
	// Both current actions gate inside apply; the hook exists for action
	// kinds whose applicability depends on tree shape alone.
	return true
}

// apply derives the successor state for taking outgoing under this
// action, or ok=false when the action does not apply in this context.
//
// subject and prep are the frontier word's context edges: its single
// subject-relation outgoing edge (nil if none) and one candidate
// preposition attachment (nil for the explicit no-preposition option).
func (a ActionKind) apply(source *State, outgoing deptree.Edge, subject, prep *deptree.Edge) (*State, bool) {
	switch a {
	case ActionSimpleSplit:
		next := &State{
			Edge:                &outgoing,
			Subject:             source.Subject,
			DistanceFromSubject: source.DistanceFromSubject + 1,
			Prep:                prep,
			plan:                appendEdit(source.plan, treeEdit{kind: editDetach, edgeID: outgoing.ID}),
		}
		if subject != nil {
			next.Subject = subject
			next.DistanceFromSubject = 0
		}
		return next, true

	case ActionCloneSubject:
		if subject == nil || outgoing.ID == subject.ID {
			return nil, false
		}
		plan := appendEdit(source.plan, treeEdit{kind: editDetach, edgeID: outgoing.ID})
		plan = append(plan, treeEdit{kind: editGraft, edgeID: outgoing.ID, relation: "nsubj", subtreeRoot: subject.Dependent})
		return &State{
			Edge:                &outgoing,
			Subject:             subject,
			DistanceFromSubject: 0,
			Prep:                prep,
			Done:                true,
			plan:                plan,
		}, true
	}
	return nil, false
}

// appendEdit copies the plan before appending, so sibling states never
// share backing arrays.
func appendEdit(plan []treeEdit, ed treeEdit) []treeEdit {
	out := make([]treeEdit, len(plan), len(plan)+2)
	copy(out, plan)
	return append(out, ed)
}
