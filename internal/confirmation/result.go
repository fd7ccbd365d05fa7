package confirmation

import "fmt"

// Action is what the manager did with an update.
type Action int

const (
	// ActionIgnored means the update did not touch any draft.
	ActionIgnored Action = iota
	// ActionCollected means content was added without issuing a prompt.
	ActionCollected
	// ActionPrompted means content was added and the confirmation prompt was sent.
	ActionPrompted
	// ActionDispatched means the draft was confirmed and published.
	ActionDispatched
	// ActionRejected means the draft was rejected and discarded.
	ActionRejected
	// ActionFailed means the step failed; Err holds the cause.
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionIgnored:
		return "ignored"
	case ActionCollected:
		return "collected"
	case ActionPrompted:
		return "prompted"
	case ActionDispatched:
		return "dispatched"
	case ActionRejected:
		return "rejected"
	case ActionFailed:
		return "failed"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Result is the outcome of handling one message or callback.
// Err may be set alongside a successful action when only a
// secondary step (notice, keyboard cleanup, post log) failed.
type Result struct {
	Action Action
	Err    error
}

func failed(err error) Result {
	return Result{Action: ActionFailed, Err: err}
}
