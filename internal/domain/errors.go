package domain

import "errors"

// Domain errors.
var (
	ErrInvalidCode     = errors.New("party code must be six letters or digits")
	ErrInvalidName     = errors.New("display name is required")
	ErrNotJoined       = errors.New("no guest session for this party")
	ErrVotingClosed    = errors.New("voting is closed for this party")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrAlreadyStarted  = errors.New("already started")
	ErrClosed          = errors.New("coordinator closed")

	// ErrPartyNotFound matches failures marked by PartyLookup.
	ErrPartyNotFound = errors.New("party not found")
)

type partyLookupError struct{ err error }

func (e *partyLookupError) Error() string        { return e.err.Error() }
func (e *partyLookupError) Unwrap() error        { return e.err }
func (e *partyLookupError) Is(target error) bool { return target == ErrPartyNotFound }

// PartyLookup marks a not-found failure of a join or party code lookup so it
// gets the "party not found" message. Other errors are returned unchanged.
func PartyLookup(err error) error {
	if KindOf(err) != KindNotFound || errors.Is(err, ErrPartyNotFound) {
		return err
	}
	return &partyLookupError{err: err}
}

// Kind classifies a failure for message selection and retry decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindServerFailure
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServerFailure:
		return "server_failure"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind carried by err or anything it wraps.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrUnauthenticated) {
		return KindUnauthenticated
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// IsNotFound reports whether err means the remote resource does not exist.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// Message keys of the translation catalogs.
const (
	MsgJoinNotFound    = "join.not_found"
	MsgJoinInvalidCode = "join.invalid_code"
	MsgJoinInvalidName = "join.invalid_name"
	MsgGeneric         = "error.generic"
	MsgUnauthenticated = "error.unauthenticated"
	MsgNotJoined       = "party.not_joined"
	MsgVotingClosed    = "vote.closed"
	MsgWaitingPending  = "waiting.pending"
	MsgWaitingApproved = "waiting.approved"
	MsgWaitingRejected = "waiting.rejected"
)

// MessageKey maps an error to the catalog key shown to the guest.
// A party lookup that found nothing gets its own message; other remote
// failures share the generic one.
func MessageKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCode):
		return MsgJoinInvalidCode
	case errors.Is(err, ErrInvalidName):
		return MsgJoinInvalidName
	case errors.Is(err, ErrNotJoined):
		return MsgNotJoined
	case errors.Is(err, ErrVotingClosed):
		return MsgVotingClosed
	case errors.Is(err, ErrPartyNotFound):
		return MsgJoinNotFound
	}
	switch KindOf(err) {
	case KindUnauthenticated:
		return MsgUnauthenticated
	default:
		return MsgGeneric
	}
}
