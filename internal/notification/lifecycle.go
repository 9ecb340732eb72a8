package notification

import (
	"context"

	"github.com/looplab/fsm"
)

const (
	EventSubmit  = "submit"
	EventApprove = "approve"
	EventReject  = "reject"
)

func newLifecycle(current Status) *fsm.FSM {
	return fsm.NewFSM(
		string(current),
		fsm.Events{
			{Name: EventSubmit, Src: []string{string(StatusDraft)}, Dst: string(StatusPendingApproval)},
			{Name: EventApprove, Src: []string{string(StatusPendingApproval)}, Dst: string(StatusApproved)},
			{Name: EventReject, Src: []string{string(StatusPendingApproval)}, Dst: string(StatusRejected)},
		},
		fsm.Callbacks{},
	)
}

// Transition applies event to from and returns the resulting status.
// Approved and Rejected accept no events.
func Transition(ctx context.Context, from Status, event string) (Status, error) {
	f := newLifecycle(from)
	if err := f.Event(ctx, event); err != nil {
		return from, ErrInvalidTransition
	}
	return Status(f.Current()), nil
}

// moderationEvent maps a requested moderation outcome to its event.
func moderationEvent(to Status) (string, bool) {
	switch to {
	case StatusApproved:
		return EventApprove, true
	case StatusRejected:
		return EventReject, true
	}
	return "", false
}
