package domain

// PartyStatus is the lifecycle state of a party. It only ever moves from
// active to closed.
type PartyStatus string

const (
	PartyStatusActive PartyStatus = "active"
	PartyStatusClosed PartyStatus = "closed"
)

func (s PartyStatus) IsValid() bool {
	switch s {
	case PartyStatusActive, PartyStatusClosed:
		return true
	default:
		return false
	}
}

// GuestStatus is the moderation state of a guest.
type GuestStatus string

const (
	GuestStatusPending  GuestStatus = "pending"
	GuestStatusApproved GuestStatus = "approved"
	GuestStatusRejected GuestStatus = "rejected"
)

func (s GuestStatus) IsValid() bool {
	switch s {
	case GuestStatusPending, GuestStatusApproved, GuestStatusRejected:
		return true
	default:
		return false
	}
}

// EventType selects the show a party watches, and with it the list of acts.
type EventType string

const (
	EventSemifinal1 EventType = "semifinal1"
	EventSemifinal2 EventType = "semifinal2"
	EventGrandFinal EventType = "grandfinal"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventSemifinal1, EventSemifinal2, EventGrandFinal:
		return true
	default:
		return false
	}
}
