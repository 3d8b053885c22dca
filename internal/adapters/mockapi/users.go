package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

// profileLocked creates the profile of a subject on first use.
func (s *Server) profileLocked(sub string) *entities.User {
	u, ok := s.users[sub]
	if !ok {
		u = &entities.User{ID: sub, Username: sub, Email: sub + "@voteparty.local"}
		s.users[sub] = u
	}
	return u
}

func (s *Server) getProfile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.profileLocked(subject(c)))
}

func (s *Server) updateProfile(c echo.Context) error {
	var req entities.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	name, err := domain.ParseName(req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.profileLocked(subject(c))
	u.Username = name
	return c.JSON(http.StatusOK, u)
}
