package engine

import "fmt"

// Action is a bulk status transition applied to alerts by id
type Action string

const (
	ActionAcknowledge Action = "acknowledge"
	ActionSuppress    Action = "suppress"
	ActionResolve     Action = "resolve"
	ActionDismiss     Action = "dismiss"
	ActionAssign      Action = "assign"
)

// annotationAssignedTo records who an alert was assigned to
const annotationAssignedTo = "assigned_to"

var actionTargets = map[Action]Status{
	ActionAcknowledge: StatusAcknowledged,
	ActionSuppress:    StatusSuppressed,
	ActionResolve:     StatusResolved,
	ActionDismiss:     StatusDismissed,
}

// ParseAction validates an action string
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionAcknowledge, ActionSuppress, ActionResolve, ActionDismiss, ActionAssign:
		return a, nil
	}
	return "", &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", s)}
}

// BulkFailure reports why one id in a bulk operation was skipped
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult summarizes a bulk operation. Partial failure is expected and
// reported per id; the batch is never atomic.
type BulkResult struct {
	Updated int           `json:"updated"`
	Failed  []BulkFailure `json:"failed"`
}

// transitionAllowed decides whether an action is valid for the alert's
// current status. Terminal states accept no further transitions except
// assignment, which only annotates.
func transitionAllowed(current Status, action Action) bool {
	if action == ActionAssign {
		return true
	}
	target, ok := actionTargets[action]
	if !ok {
		return false
	}
	if current == target {
		return false // no-op transition is a conflict, not an update
	}
	if current.IsTerminal() {
		return false
	}
	return true
}
