package output

import (
	"context"
	"time"
)

// LifecycleEvent describes a guest reaching an approval outcome.
type LifecycleEvent struct {
	Code       string    `json:"code"`
	PartyName  string    `json:"partyName,omitempty"`
	GuestID    string    `json:"guestId"`
	Username   string    `json:"username,omitempty"`
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurredAt"`
}

// LifecycleNotifier forwards lifecycle outcomes to an outside channel.
type LifecycleNotifier interface {
	Notify(ctx context.Context, event LifecycleEvent) error
}
