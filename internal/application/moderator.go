package application

import (
	"context"
	"fmt"
	"strings"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
	"voteparty/internal/ports/input"
	"voteparty/internal/ports/output"
)

var _ input.ModeratorUseCase = (*ModeratorService)(nil)

type ModeratorService struct {
	gw output.ModeratorGateway
}

func NewModeratorService(gw output.ModeratorGateway) *ModeratorService {
	return &ModeratorService{gw: gw}
}

func (s *ModeratorService) CreateParty(ctx context.Context, name string, event domain.EventType) (*entities.Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create party: %w", domain.ErrInvalidName)
	}
	if !event.IsValid() {
		return nil, fmt.Errorf("create party: unknown event type %q", event)
	}
	party, err := s.gw.CreateParty(ctx, entities.CreatePartyRequest{Name: name, EventType: event})
	if err != nil {
		return nil, fmt.Errorf("create party: %w", err)
	}
	return party, nil
}

func (s *ModeratorService) ListParties(ctx context.Context) ([]entities.Party, error) {
	parties, err := s.gw.ListParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return parties, nil
}

func (s *ModeratorService) GetParty(ctx context.Context, id string) (*entities.Party, error) {
	party, err := s.gw.GetPartyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}
	return party, nil
}

func (s *ModeratorService) DeleteParty(ctx context.Context, id string) error {
	if err := s.gw.DeleteParty(ctx, id); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}

func (s *ModeratorService) ListGuests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	guests, err := s.gw.ListGuests(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}

// ListJoinRequests returns the guests waiting for a decision.
func (s *ModeratorService) ListJoinRequests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	guests, err := s.gw.ListJoinRequests(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}
	return guests, nil
}

func (s *ModeratorService) ApproveGuest(ctx context.Context, partyID, guestID string) error {
	if _, err := s.gw.ApproveGuest(ctx, partyID, guestID); err != nil {
		return fmt.Errorf("approve guest: %w", err)
	}
	return nil
}

func (s *ModeratorService) RejectGuest(ctx context.Context, partyID, guestID string) error {
	if _, err := s.gw.RejectGuest(ctx, partyID, guestID); err != nil {
		return fmt.Errorf("reject guest: %w", err)
	}
	return nil
}

func (s *ModeratorService) RemoveGuest(ctx context.Context, partyID, guestID string) error {
	if err := s.gw.RemoveGuest(ctx, partyID, guestID); err != nil {
		return fmt.Errorf("remove guest: %w", err)
	}
	return nil
}

// EndVoting closes the party. Closing is one-way.
func (s *ModeratorService) EndVoting(ctx context.Context, partyID string) (domain.PartyStatus, error) {
	resp, err := s.gw.EndVoting(ctx, partyID)
	if err != nil {
		return "", fmt.Errorf("end voting: %w", err)
	}
	if resp == nil {
		return domain.PartyStatusClosed, nil
	}
	return resp.Status, nil
}

func (s *ModeratorService) Profile(ctx context.Context) (*entities.User, error) {
	user, err := s.gw.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

func (s *ModeratorService) UpdateProfile(ctx context.Context, username string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("update profile: %w", domain.ErrInvalidName)
	}
	user, err := s.gw.UpdateProfile(ctx, entities.UpdateProfileRequest{Username: username})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
