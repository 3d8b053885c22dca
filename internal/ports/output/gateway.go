package output

import (
	"context"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

// GuestGateway is the part of the party service used while joining.
type GuestGateway interface {
	JoinParty(ctx context.Context, code string, req entities.JoinPartyRequest) (*entities.Guest, error)
	GetGuestStatus(ctx context.Context, code, guestID string) (*entities.Guest, error)
	GetPartyByCode(ctx context.Context, code string) (*entities.Party, error)
}

// PartyReader is the read side used to keep an approved guest in sync.
type PartyReader interface {
	GetPartyByCode(ctx context.Context, code string) (*entities.Party, error)
	ListApprovedGuests(ctx context.Context, partyID string) ([]entities.Guest, error)
	ListActs(ctx context.Context, event domain.EventType) ([]entities.Act, error)
	GetGuestVote(ctx context.Context, partyID, guestID string) (*entities.Vote, error)
}

// VoteGateway submits and reads votes.
type VoteGateway interface {
	GetPartyByCode(ctx context.Context, code string) (*entities.Party, error)
	GetGuestVote(ctx context.Context, partyID, guestID string) (*entities.Vote, error)
	SubmitVote(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error)
	UpdateVote(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error)
	GetResults(ctx context.Context, partyID string) (*entities.PartyResults, error)
}

// ModeratorGateway holds the credentialed operations of a party owner.
type ModeratorGateway interface {
	CreateParty(ctx context.Context, req entities.CreatePartyRequest) (*entities.Party, error)
	ListParties(ctx context.Context) ([]entities.Party, error)
	GetPartyByID(ctx context.Context, id string) (*entities.Party, error)
	DeleteParty(ctx context.Context, id string) error
	ListGuests(ctx context.Context, partyID string) ([]entities.Guest, error)
	ListJoinRequests(ctx context.Context, partyID string) ([]entities.Guest, error)
	ApproveGuest(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error)
	RejectGuest(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error)
	RemoveGuest(ctx context.Context, partyID, guestID string) error
	EndVoting(ctx context.Context, partyID string) (*entities.EndVotingResponse, error)
	GetProfile(ctx context.Context) (*entities.User, error)
	UpdateProfile(ctx context.Context, req entities.UpdateProfileRequest) (*entities.User, error)
}
