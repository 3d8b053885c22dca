package entities

import (
	"time"

	"voteparty/internal/domain"
)

// Guest is a participant of a party. Only the moderator changes its status.
type Guest struct {
	ID        string             `json:"id"`
	PartyID   string             `json:"partyId"`
	Username  string             `json:"username"`
	Status    domain.GuestStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt,omitempty"`
}

func (g *Guest) IsApproved() bool {
	return g.Status == domain.GuestStatusApproved
}

type JoinPartyRequest struct {
	Username string `json:"username"`
}

// FilterApproved keeps approved guests, preserving order.
func FilterApproved(guests []Guest) []Guest {
	out := make([]Guest, 0, len(guests))
	for _, g := range guests {
		if g.IsApproved() {
			out = append(out, g)
		}
	}
	return out
}
