package input

import "context"

// GuestState is a step of the join and approval flow.
type GuestState string

const (
	GuestIdle       GuestState = "idle"
	GuestSubmitting GuestState = "submitting"
	GuestPending    GuestState = "pending"
	GuestApproved   GuestState = "approved"
	GuestRejected   GuestState = "rejected"
	GuestError      GuestState = "error"
)

// Terminal reports whether the moderator has decided.
func (s GuestState) Terminal() bool {
	return s == GuestApproved || s == GuestRejected
}

type GuestSnapshot struct {
	State     GuestState
	Code      string
	GuestID   string
	Username  string
	PartyName string
	// Err is the failure behind the error state, or a session that could not
	// be cleared on rejection.
	Err        error
	MessageKey string
	Message    string
}

type GuestTransition struct {
	From     GuestState
	To       GuestState
	Snapshot GuestSnapshot
}

type GuestLifecycleUseCase interface {
	Submit(ctx context.Context, code, name string) error
	Resume(ctx context.Context, code string) error
	Cancel(ctx context.Context) error
	Leave(ctx context.Context, code string) error
	Snapshot() GuestSnapshot
	Await(ctx context.Context, cond func(GuestSnapshot) bool) (GuestSnapshot, error)
	Close()
}
