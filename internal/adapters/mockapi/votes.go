package mockapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"voteparty/internal/domain/entities"
	"voteparty/internal/domain/vote"
)

func (s *Server) submitVote(c echo.Context) error {
	return s.storeVote(c, false)
}

func (s *Server) updateVote(c echo.Context) error {
	return s.storeVote(c, true)
}

func (s *Server) storeVote(c echo.Context, update bool) error {
	var req entities.SubmitVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	g := p.guest(req.GuestID)
	if g == nil {
		return echo.NewHTTPError(http.StatusNotFound, "guest not found")
	}
	if !g.IsApproved() {
		return echo.NewHTTPError(http.StatusConflict, "guest is not approved")
	}
	if !p.party.IsActive() {
		return echo.NewHTTPError(http.StatusConflict, "voting is closed")
	}
	if err := s.checkBallot(p, req.Votes); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	existing, voted := p.votes[g.ID]
	switch {
	case update && !voted:
		return echo.NewHTTPError(http.StatusNotFound, "vote not found")
	case !update && voted:
		return echo.NewHTTPError(http.StatusConflict, "guest already voted")
	}

	v := &entities.Vote{
		ID:        uuid.NewString(),
		GuestID:   g.ID,
		PartyID:   p.party.ID,
		Votes:     req.Votes,
		CreatedAt: s.now().UTC(),
	}
	status := http.StatusCreated
	if update {
		v.ID, v.CreatedAt = existing.ID, existing.CreatedAt
		status = http.StatusOK
	}
	p.votes[g.ID] = v
	return c.JSON(status, v)
}

// checkBallot accepts only complete ballots over acts of the party's show.
func (s *Server) checkBallot(p *partyState, wire map[string]string) error {
	a, err := vote.Decode(wire)
	if err != nil {
		return err
	}
	if !a.IsComplete() {
		return errors.New("every point value must be assigned")
	}
	if err := a.Validate(); err != nil {
		return err
	}
	known := make(map[string]bool)
	for _, act := range s.actsOf(p.party.EventType) {
		known[act.ID] = true
	}
	for _, e := range a.Entries() {
		if !known[e.ActID] {
			return fmt.Errorf("unknown act %q", e.ActID)
		}
	}
	return nil
}

func (s *Server) getVote(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	v, ok := p.votes[c.Param("guest")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vote not found")
	}
	return c.JSON(http.StatusOK, v)
}

func (s *Server) results(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	if p.party.IsActive() {
		return echo.NewHTTPError(http.StatusConflict, "voting is still open")
	}
	return c.JSON(http.StatusOK, tally(p.party, s.actsOf(p.party.EventType), p.votes))
}
