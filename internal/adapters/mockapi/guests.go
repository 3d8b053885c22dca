package mockapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

func (s *Server) joinParty(c echo.Context) error {
	var req entities.JoinPartyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	name, err := domain.ParseName(req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	if !p.party.IsActive() {
		return echo.NewHTTPError(http.StatusConflict, "party is closed")
	}
	for _, g := range p.guests {
		if g.Status != domain.GuestStatusRejected && strings.EqualFold(g.Username, name) {
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
	}
	g := &entities.Guest{
		ID:        uuid.NewString(),
		PartyID:   p.party.ID,
		Username:  name,
		Status:    domain.GuestStatusPending,
		CreatedAt: s.now().UTC(),
	}
	p.guests = append(p.guests, g)
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) guestStatus(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	g := p.guest(c.QueryParam("guestId"))
	if g == nil {
		return echo.NewHTTPError(http.StatusNotFound, "guest not found")
	}
	return c.JSON(http.StatusOK, g)
}

// listGuests shows every guest to the owner and approved guests to anyone else.
func (s *Server) listGuests(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return err
	}
	owner := p.party.AdminID == subject(c)
	out := make([]entities.Guest, 0, len(p.guests))
	for _, g := range p.guests {
		if owner || g.IsApproved() {
			out = append(out, *g)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listJoinRequests(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.ownedLocked(c)
	if err != nil {
		return err
	}
	out := make([]entities.Guest, 0)
	for _, g := range p.guests {
		if g.Status == domain.GuestStatusPending {
			out = append(out, *g)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) approveGuest(c echo.Context) error {
	return s.moderate(c, domain.GuestStatusApproved)
}

func (s *Server) rejectGuest(c echo.Context) error {
	return s.moderate(c, domain.GuestStatusRejected)
}

func (s *Server) moderate(c echo.Context, status domain.GuestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.ownedLocked(c)
	if err != nil {
		return err
	}
	g := p.guest(c.Param("guest"))
	if g == nil {
		return echo.NewHTTPError(http.StatusNotFound, "guest not found")
	}
	g.Status = status
	if status == domain.GuestStatusRejected {
		delete(p.votes, g.ID)
	}
	return c.JSON(http.StatusOK, entities.StatusOKResponse{Status: "ok"})
}

func (s *Server) removeGuest(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.ownedLocked(c)
	if err != nil {
		return err
	}
	id := c.Param("guest")
	for i, g := range p.guests {
		if g.ID == id {
			p.guests = append(p.guests[:i], p.guests[i+1:]...)
			delete(p.votes, id)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "guest not found")
}
