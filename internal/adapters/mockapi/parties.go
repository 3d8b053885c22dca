package mockapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

func (s *Server) createParty(c echo.Context) error {
	var req entities.CreatePartyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !req.EventType.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown event")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := &partyState{
		party: entities.Party{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Code:      s.newCodeLocked(),
			EventType: req.EventType,
			AdminID:   subject(c),
			Status:    domain.PartyStatusActive,
			CreatedAt: s.now().UTC(),
		},
		votes: make(map[string]*entities.Vote),
	}
	s.parties[p.party.ID] = p
	s.byCode[p.party.Code] = p.party.ID
	s.log.Info().Str("party", p.party.ID).Str("code", p.party.Code).Msg("party created")
	return c.JSON(http.StatusCreated, p.party)
}

func (s *Server) listParties(c echo.Context) error {
	sub := subject(c)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Party, 0)
	for _, p := range s.parties {
		if p.party.AdminID == sub {
			out = append(out, p.party)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getParty(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	party := p.party
	if party.AdminID != subject(c) {
		party.AdminID = ""
	}
	return c.JSON(http.StatusOK, party)
}

func (s *Server) deleteParty(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.ownedLocked(c)
	if err != nil {
		return err
	}
	delete(s.parties, p.party.ID)
	delete(s.byCode, p.party.Code)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) endVoting(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.ownedLocked(c)
	if err != nil {
		return err
	}
	p.party.Status = domain.PartyStatusClosed
	return c.JSON(http.StatusOK, entities.EndVotingResponse{ID: p.party.ID, Status: p.party.Status})
}
