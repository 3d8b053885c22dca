package input

import (
	"context"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

type ModeratorUseCase interface {
	CreateParty(ctx context.Context, name string, event domain.EventType) (*entities.Party, error)
	ListParties(ctx context.Context) ([]entities.Party, error)
	GetParty(ctx context.Context, id string) (*entities.Party, error)
	DeleteParty(ctx context.Context, id string) error
	ListGuests(ctx context.Context, partyID string) ([]entities.Guest, error)
	ListJoinRequests(ctx context.Context, partyID string) ([]entities.Guest, error)
	ApproveGuest(ctx context.Context, partyID, guestID string) error
	RejectGuest(ctx context.Context, partyID, guestID string) error
	RemoveGuest(ctx context.Context, partyID, guestID string) error
	EndVoting(ctx context.Context, partyID string) (domain.PartyStatus, error)
	Profile(ctx context.Context) (*entities.User, error)
	UpdateProfile(ctx context.Context, username string) (*entities.User, error)
}
