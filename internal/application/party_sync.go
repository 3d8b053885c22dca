package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
	"voteparty/internal/domain/vote"
	"voteparty/internal/ports/input"
	"voteparty/internal/ports/output"
	"voteparty/pkg/schedule"
)

var _ input.PartySyncUseCase = (*PartySync)(nil)

const DefaultPartySyncInterval = 10 * time.Second

type PartySyncConfig struct {
	Interval time.Duration
	// Observer receives every published read model, oldest first.
	Observer func(input.ReadModel)
	Logger   zerolog.Logger
	Now      func() time.Time
}

// PartySync keeps the read model of one party fresh for an approved guest.
type PartySync struct {
	reader   output.PartyReader
	sessions output.SessionStore
	cfg      PartySyncConfig
	log      zerolog.Logger

	root       context.Context
	cancelRoot context.CancelFunc
	tasks      *schedule.Group
	observers  *fanout[input.ReadModel]

	mu       sync.Mutex
	code     string
	guestID  string
	started  bool
	closed   bool
	model    input.ReadModel
	hasModel bool
	lastErr  error
	seq      uint64
	applied  uint64
}

func NewPartySync(reader output.PartyReader, sessions output.SessionStore, cfg PartySyncConfig) *PartySync {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPartySyncInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	root, cancel := context.WithCancel(context.Background())
	return &PartySync{
		reader:     reader,
		sessions:   sessions,
		cfg:        cfg,
		log:        cfg.Logger.With().Str("component", "party_sync").Logger(),
		root:       root,
		cancelRoot: cancel,
		tasks:      schedule.NewGroup(root),
		observers:  newFanout(cfg.Observer),
	}
}

// Start requires a stored session for code. The first cycle runs right away,
// then one per interval until Close.
func (s *PartySync) Start(ctx context.Context, code string) error {
	code, err := s.attach(ctx, code)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	s.tasks.Every(s.cfg.Interval, func(ctx context.Context) {
		if _, err := s.cycle(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn().Err(err).Str("code", code).Msg("sync cycle failed")
		}
	})
	return nil
}

// Sync binds code like Start but runs a single cycle and schedules nothing.
func (s *PartySync) Sync(ctx context.Context, code string) (input.ReadModel, error) {
	if _, err := s.attach(ctx, code); err != nil {
		return input.ReadModel{}, err
	}
	return s.Refresh(ctx)
}

func (s *PartySync) attach(ctx context.Context, code string) (string, error) {
	code, err := domain.ParseCode(code)
	if err != nil {
		return "", err
	}
	guestID, ok, err := s.sessions.Lookup(ctx, code)
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if !ok {
		return "", domain.ErrNotJoined
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", domain.ErrClosed
	}
	if s.started {
		return "", domain.ErrAlreadyStarted
	}
	s.started = true
	s.code, s.guestID = code, guestID
	return code, nil
}

// Refresh runs one cycle outside the schedule.
func (s *PartySync) Refresh(ctx context.Context) (input.ReadModel, error) {
	s.mu.Lock()
	started, closed := s.started, s.closed
	s.mu.Unlock()
	if closed {
		return input.ReadModel{}, domain.ErrClosed
	}
	if !started {
		return input.ReadModel{}, domain.ErrNotJoined
	}
	ctx, cancel := bind(ctx, s.root)
	defer cancel()
	return s.cycle(ctx)
}

func (s *PartySync) Snapshot() (input.ReadModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, s.hasModel
}

// LastError is the failure of the latest cycle, or nil once a cycle succeeds.
func (s *PartySync) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *PartySync) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.observers.stop()
	s.mu.Unlock()

	s.cancelRoot()
	s.tasks.Close()
}

func (s *PartySync) cycle(ctx context.Context) (input.ReadModel, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	code, guestID := s.code, s.guestID
	s.mu.Unlock()

	model, err := s.fetch(ctx, code, guestID)

	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			err = domain.ErrClosed
		}
		return input.ReadModel{}, err
	}
	if err != nil {
		if seq > s.applied {
			s.lastErr = err
		}
		s.mu.Unlock()
		return input.ReadModel{}, err
	}
	if seq < s.applied {
		// A newer cycle already published.
		current := s.model
		s.mu.Unlock()
		return current, nil
	}
	s.applied = seq
	s.model, s.hasModel = model, true
	s.lastErr = nil
	s.observers.push(model)
	s.mu.Unlock()
	s.observers.flush()
	return model, nil
}

func (s *PartySync) fetch(ctx context.Context, code, guestID string) (input.ReadModel, error) {
	party, err := s.reader.GetPartyByCode(ctx, code)
	if err != nil {
		return input.ReadModel{}, fmt.Errorf("get party %s: %w", code, domain.PartyLookup(err))
	}
	if party == nil {
		return input.ReadModel{}, fmt.Errorf("get party %s: empty response", code)
	}

	var (
		guests []entities.Guest
		acts   []entities.Act
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		g, err := s.reader.ListApprovedGuests(gctx, party.ID)
		if err != nil {
			return fmt.Errorf("list guests: %w", err)
		}
		guests = entities.FilterApproved(g)
		return nil
	})
	eg.Go(func() error {
		a, err := s.reader.ListActs(gctx, party.EventType)
		if err != nil {
			return fmt.Errorf("list acts: %w", err)
		}
		acts = a
		return nil
	})
	if err := eg.Wait(); err != nil {
		return input.ReadModel{}, err
	}

	v, err := s.reader.GetGuestVote(ctx, party.ID, guestID)
	if err != nil {
		if !domain.IsNotFound(err) {
			return input.ReadModel{}, fmt.Errorf("get vote: %w", err)
		}
		v = nil
	}

	model, err := buildReadModel(*party, guests, acts, v, s.cfg.Now())
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("stored vote has invalid entries")
	}
	return model, nil
}

// buildReadModel never drops the model: invalid wire entries of the stored
// vote are skipped and reported.
func buildReadModel(party entities.Party, guests []entities.Guest, acts []entities.Act, v *entities.Vote, now time.Time) (input.ReadModel, error) {
	sorted := entities.SortByRunningOrder(acts)
	byID := make(map[string]*entities.Act, len(sorted))
	for i := range sorted {
		byID[sorted[i].ID] = &sorted[i]
	}

	model := input.ReadModel{
		Party:      party,
		Guests:     guests,
		Acts:       sorted,
		Vote:       v,
		Assignment: vote.Assignment{},
		VotingOpen: party.IsActive(),
		HasVoted:   v != nil,
		SyncedAt:   now,
	}
	if guests == nil {
		model.Guests = []entities.Guest{}
	}

	var decodeErr error
	if v != nil {
		model.Assignment, decodeErr = vote.Decode(v.Votes)
	}
	for _, e := range model.Assignment.Entries() {
		model.VoteEntries = append(model.VoteEntries, input.VoteEntry{
			Points: e.Points,
			ActID:  e.ActID,
			Act:    byID[e.ActID],
		})
	}
	model.Complete = model.Assignment.IsComplete()
	if decodeErr != nil {
		return model, errors.Join(fmt.Errorf("decode vote %s", v.ID), decodeErr)
	}
	return model, nil
}
