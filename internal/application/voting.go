package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
	"voteparty/internal/domain/vote"
	"voteparty/internal/ports/input"
	"voteparty/internal/ports/output"
)

var _ input.VotingUseCase = (*VotingService)(nil)

type VotingService struct {
	gw       output.VoteGateway
	sessions output.SessionStore
	log      zerolog.Logger
}

func NewVotingService(gw output.VoteGateway, sessions output.SessionStore, log zerolog.Logger) *VotingService {
	return &VotingService{
		gw:       gw,
		sessions: sessions,
		log:      log.With().Str("component", "voting").Logger(),
	}
}

// Cast stores the guest's allocation, creating the vote on first use and
// replacing it afterwards. A partial allocation is accepted here; the service
// decides whether to take it.
func (s *VotingService) Cast(ctx context.Context, code string, a vote.Assignment) (*entities.Vote, error) {
	code, err := domain.ParseCode(code)
	if err != nil {
		return nil, err
	}
	guestID, ok, err := s.sessions.Lookup(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotJoined
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	party, err := s.party(ctx, code)
	if err != nil {
		return nil, err
	}
	if !party.IsActive() {
		return nil, domain.ErrVotingClosed
	}

	req := entities.SubmitVoteRequest{GuestID: guestID, Votes: vote.Encode(a)}
	existing, err := s.gw.GetGuestVote(ctx, party.ID, guestID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("get vote: %w", err)
	}

	var saved *entities.Vote
	if err == nil && existing != nil {
		saved, err = s.gw.UpdateVote(ctx, party.ID, req)
	} else {
		saved, err = s.gw.SubmitVote(ctx, party.ID, req)
	}
	if err != nil {
		return nil, fmt.Errorf("save vote: %w", err)
	}
	s.log.Info().Str("code", code).Int("points", len(req.Votes)).Bool("update", existing != nil).Msg("vote saved")
	return saved, nil
}

// Results returns the tally of a closed party.
func (s *VotingService) Results(ctx context.Context, code string) (*entities.PartyResults, error) {
	code, err := domain.ParseCode(code)
	if err != nil {
		return nil, err
	}
	party, err := s.party(ctx, code)
	if err != nil {
		return nil, err
	}
	res, err := s.gw.GetResults(ctx, party.ID)
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}
	return res, nil
}

func (s *VotingService) party(ctx context.Context, code string) (*entities.Party, error) {
	party, err := s.gw.GetPartyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get party %s: %w", code, domain.PartyLookup(err))
	}
	if party == nil {
		return nil, fmt.Errorf("get party %s: empty response", code)
	}
	return party, nil
}
