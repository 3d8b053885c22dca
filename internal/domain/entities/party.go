package entities

import (
	"time"

	"voteparty/internal/domain"
)

// Party is a voting event guests join with its short code.
type Party struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Code      string             `json:"code"`
	EventType domain.EventType   `json:"eventType"`
	AdminID   string             `json:"adminId,omitempty"`
	Status    domain.PartyStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt,omitempty"`
}

func (p *Party) IsActive() bool {
	return p.Status == domain.PartyStatusActive
}

type CreatePartyRequest struct {
	Name      string           `json:"name"`
	EventType domain.EventType `json:"eventType"`
}

type EndVotingResponse struct {
	ID     string             `json:"id"`
	Status domain.PartyStatus `json:"status"`
}

type StatusOKResponse struct {
	Status string `json:"status"`
}
