// Package mockapi is an in-memory implementation of the party service used
// for local development and end-to-end tests.
package mockapi

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ23456789"

type partyState struct {
	party  entities.Party
	guests []*entities.Guest
	votes  map[string]*entities.Vote
}

// Server holds every party in memory. It is safe for concurrent use.
type Server struct {
	secret []byte
	acts   []entities.Act
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	parties map[string]*partyState
	byCode  map[string]string
	users   map[string]*entities.User
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log.With().Str("component", "mockapi").Logger() }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New returns a server that accepts bearer tokens signed with secret.
func New(secret string, opts ...Option) (*Server, error) {
	acts, err := loadActs()
	if err != nil {
		return nil, err
	}
	s := &Server{
		secret:  []byte(secret),
		acts:    acts,
		log:     zerolog.Nop(),
		now:     time.Now,
		parties: make(map[string]*partyState),
		byCode:  make(map[string]string),
		users:   make(map[string]*entities.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Echo builds the router.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.requestLog)

	e.GET("/health", health)

	api := e.Group("/api")
	api.GET("/acts", s.listActs)

	api.POST("/parties", s.createParty, s.requireAuth)
	api.GET("/parties", s.listParties, s.requireAuth)
	api.GET("/parties/:ref", s.getParty, s.optionalAuth)
	api.DELETE("/parties/:ref", s.deleteParty, s.requireAuth)
	api.POST("/parties/:ref/end-voting", s.endVoting, s.requireAuth)

	api.POST("/parties/:ref/join", s.joinParty)
	api.GET("/parties/:ref/guest-status", s.guestStatus)
	api.GET("/parties/:ref/guests", s.listGuests, s.optionalAuth)
	api.GET("/parties/:ref/join-requests", s.listJoinRequests, s.requireAuth)
	api.PUT("/parties/:ref/guests/:guest/approve", s.approveGuest, s.requireAuth)
	api.PUT("/parties/:ref/guests/:guest/reject", s.rejectGuest, s.requireAuth)
	api.DELETE("/parties/:ref/guests/:guest", s.removeGuest, s.requireAuth)

	api.POST("/parties/:ref/votes", s.submitVote)
	api.PUT("/parties/:ref/votes", s.updateVote)
	api.GET("/parties/:ref/votes/:guest", s.getVote)
	api.GET("/parties/:ref/results", s.results)

	api.GET("/users/profile", s.getProfile, s.requireAuth)
	api.PUT("/users/profile", s.updateProfile, s.requireAuth)
	return e
}

func health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// handleError renders every failure as {"error": message}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("took", time.Since(start)).
			Msg("request")
		return nil
	}
}

// lookupLocked resolves a party by id or by code.
func (s *Server) lookupLocked(ref string) (*partyState, error) {
	if p, ok := s.parties[ref]; ok {
		return p, nil
	}
	if id, ok := s.byCode[strings.ToUpper(ref)]; ok {
		return s.parties[id], nil
	}
	return nil, echo.NewHTTPError(http.StatusNotFound, "party not found")
}

// ownedLocked hides parties of other moderators behind a 404.
func (s *Server) ownedLocked(c echo.Context) (*partyState, error) {
	p, err := s.lookupLocked(c.Param("ref"))
	if err != nil {
		return nil, err
	}
	if p.party.AdminID != subject(c) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "party not found")
	}
	return p, nil
}

func (p *partyState) guest(id string) *entities.Guest {
	for _, g := range p.guests {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *Server) newCodeLocked() string {
	b := make([]byte, domain.CodeLength)
	for {
		for i := range b {
			b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
		}
		if _, taken := s.byCode[string(b)]; !taken {
			return string(b)
		}
	}
}
