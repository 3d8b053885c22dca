package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
	"voteparty/internal/ports/input"
	"voteparty/internal/ports/output"
	"voteparty/pkg/schedule"
)

var _ input.GuestLifecycleUseCase = (*GuestLifecycle)(nil)

const (
	DefaultGuestPollInterval  = 3 * time.Second
	DefaultRejectionExitDelay = 3 * time.Second
)

type GuestLifecycleConfig struct {
	PollInterval       time.Duration
	RejectionExitDelay time.Duration
	Locale             string
	// Observer receives every transition in order. It runs on a coordinator
	// goroutine and must not call Close.
	Observer func(input.GuestTransition)
	Notifier output.LifecycleNotifier
	Logger   zerolog.Logger
}

// GuestLifecycle drives a guest from joining a party to the moderator's
// decision.
type GuestLifecycle struct {
	gw         output.GuestGateway
	sessions   output.SessionStore
	translator output.T
	cfg        GuestLifecycleConfig
	log        zerolog.Logger

	root       context.Context
	cancelRoot context.CancelFunc
	tasks      *schedule.Group
	observers  *fanout[input.GuestTransition]

	mu      sync.Mutex
	snap    input.GuestSnapshot
	epoch   uint64
	poll    *schedule.Task
	exit    *schedule.Task
	abort   context.CancelFunc
	changed chan struct{}
	closed  bool
}

func NewGuestLifecycle(
	gw output.GuestGateway,
	sessions output.SessionStore,
	translator output.T,
	cfg GuestLifecycleConfig,
) *GuestLifecycle {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultGuestPollInterval
	}
	if cfg.RejectionExitDelay <= 0 {
		cfg.RejectionExitDelay = DefaultRejectionExitDelay
	}
	root, cancel := context.WithCancel(context.Background())
	return &GuestLifecycle{
		gw:         gw,
		sessions:   sessions,
		translator: translator,
		cfg:        cfg,
		log:        cfg.Logger.With().Str("component", "guest_lifecycle").Logger(),
		root:       root,
		cancelRoot: cancel,
		tasks:      schedule.NewGroup(root),
		observers:  newFanout(cfg.Observer),
		snap:       input.GuestSnapshot{State: input.GuestIdle},
		changed:    make(chan struct{}),
	}
}

// Submit joins the party identified by code under name. Invalid input is
// rejected without a state change.
func (g *GuestLifecycle) Submit(ctx context.Context, code, name string) error {
	code, err := domain.ParseCode(code)
	if err != nil {
		return err
	}
	name, err = domain.ParseName(name)
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.ErrClosed
	}
	if s := g.snap.State; s != input.GuestIdle && s != input.GuestError {
		g.mu.Unlock()
		return fmt.Errorf("submit in state %s: %w", s, domain.ErrAlreadyStarted)
	}
	g.epoch++
	ep := g.epoch
	reqCtx, cancel := bind(ctx, g.root)
	defer cancel()
	g.abort = cancel
	g.transitionLocked(input.GuestSubmitting, func(s *input.GuestSnapshot) {
		*s = input.GuestSnapshot{Code: code, Username: name}
	})
	g.mu.Unlock()
	g.observers.flush()

	guest, err := g.gw.JoinParty(reqCtx, code, entities.JoinPartyRequest{Username: name})
	err = domain.PartyLookup(err)
	if err == nil && guest == nil {
		err = errors.New("empty join response")
	}
	saved := false
	if err == nil {
		if !g.current(ep) {
			return fmt.Errorf("join party %s: %w", code, context.Canceled)
		}
		saved = true
		err = g.sessions.Save(reqCtx, code, guest.ID)
		if err != nil {
			err = fmt.Errorf("save session: %w", err)
		}
	}

	g.mu.Lock()
	if g.closed || g.epoch != ep {
		g.mu.Unlock()
		if saved {
			// Cancel or Close ran while the session was being written.
			g.forget(ctx, code, guest.ID)
		}
		return fmt.Errorf("join party %s: %w", code, context.Canceled)
	}
	g.abort = nil
	if err != nil {
		g.transitionLocked(input.GuestError, func(s *input.GuestSnapshot) { s.Err = err })
		g.mu.Unlock()
		g.observers.flush()
		g.log.Debug().Err(err).Str("code", code).Msg("join failed")
		return fmt.Errorf("join party %s: %w", code, err)
	}
	g.transitionLocked(input.GuestPending, func(s *input.GuestSnapshot) {
		s.GuestID = guest.ID
		s.Err = nil
	})
	g.activateLocked(ep)
	g.mu.Unlock()
	g.observers.flush()
	return nil
}

// Resume re-enters the waiting flow from a stored session.
func (g *GuestLifecycle) Resume(ctx context.Context, code string) error {
	code, err := domain.ParseCode(code)
	if err != nil {
		return err
	}
	guestID, ok, err := g.sessions.Lookup(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if !ok {
		return domain.ErrNotJoined
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.ErrClosed
	}
	if s := g.snap.State; s != input.GuestIdle && s != input.GuestError {
		same := s == input.GuestPending && g.snap.Code == code && g.snap.GuestID == guestID
		g.mu.Unlock()
		if same {
			return nil
		}
		return fmt.Errorf("resume in state %s: %w", s, domain.ErrAlreadyStarted)
	}
	g.epoch++
	g.transitionLocked(input.GuestPending, func(s *input.GuestSnapshot) {
		*s = input.GuestSnapshot{Code: code, GuestID: guestID}
	})
	g.activateLocked(g.epoch)
	g.mu.Unlock()
	g.observers.flush()
	return nil
}

// Cancel stops waiting, forgets the session and returns to idle.
func (g *GuestLifecycle) Cancel(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return domain.ErrClosed
	}
	g.epoch++
	ep := g.epoch
	g.stopLocked()
	code := g.snap.Code
	g.mu.Unlock()

	var err error
	if code != "" {
		if err = g.sessions.Delete(ctx, code); err != nil {
			err = fmt.Errorf("delete session: %w", err)
		}
	}

	g.mu.Lock()
	if !g.closed && g.epoch == ep && g.snap.State != input.GuestIdle {
		g.transitionLocked(input.GuestIdle, func(s *input.GuestSnapshot) { *s = input.GuestSnapshot{} })
	}
	g.mu.Unlock()
	g.observers.flush()
	return err
}

// Leave forgets the stored session for code without polling its status. An
// active flow for the same code is cancelled instead.
func (g *GuestLifecycle) Leave(ctx context.Context, code string) error {
	code, err := domain.ParseCode(code)
	if err != nil {
		return err
	}
	g.mu.Lock()
	closed := g.closed
	active := g.snap.State != input.GuestIdle && g.snap.Code == code
	g.mu.Unlock()
	if closed {
		return domain.ErrClosed
	}
	if active {
		return g.Cancel(ctx)
	}

	_, ok, err := g.sessions.Lookup(ctx, code)
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if !ok {
		return domain.ErrNotJoined
	}
	if err := g.sessions.Delete(ctx, code); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close releases every timer and aborts in-flight requests. No transition is
// published afterwards.
func (g *GuestLifecycle) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.stopLocked()
	g.observers.stop()
	close(g.changed)
	g.mu.Unlock()

	g.cancelRoot()
	g.tasks.Close()
}

func (g *GuestLifecycle) Snapshot() input.GuestSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

// Await blocks until cond holds for the current snapshot.
func (g *GuestLifecycle) Await(ctx context.Context, cond func(input.GuestSnapshot) bool) (input.GuestSnapshot, error) {
	for {
		g.mu.Lock()
		snap, changed, closed := g.snap, g.changed, g.closed
		g.mu.Unlock()
		if cond(snap) {
			return snap, nil
		}
		if closed {
			return snap, domain.ErrClosed
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-changed:
		}
	}
}

// forget removes the session written for guestID unless a later join
// replaced it.
func (g *GuestLifecycle) forget(ctx context.Context, code, guestID string) {
	ctx = context.WithoutCancel(ctx)
	stored, ok, err := g.sessions.Lookup(ctx, code)
	if err == nil && (!ok || stored != guestID) {
		return
	}
	if err := g.sessions.Delete(ctx, code); err != nil {
		g.log.Warn().Err(err).Str("code", code).Msg("delete abandoned session")
	}
}

func (g *GuestLifecycle) current(ep uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed && g.epoch == ep
}

// activateLocked starts status polling and resolves the party name for the
// pending session.
func (g *GuestLifecycle) activateLocked(ep uint64) {
	code, guestID := g.snap.Code, g.snap.GuestID
	g.poll = g.tasks.Every(g.cfg.PollInterval, func(ctx context.Context) {
		g.pollOnce(ctx, ep, code, guestID)
	})
	g.tasks.After(0, func(ctx context.Context) {
		g.resolvePartyName(ctx, ep, code)
	})
}

func (g *GuestLifecycle) stopLocked() {
	g.poll.Stop()
	g.exit.Stop()
	g.poll, g.exit = nil, nil
	if g.abort != nil {
		g.abort()
		g.abort = nil
	}
}

func (g *GuestLifecycle) pollOnce(ctx context.Context, ep uint64, code, guestID string) {
	guest, err := g.gw.GetGuestStatus(ctx, code, guestID)
	if err != nil {
		if ctx.Err() == nil {
			g.log.Debug().Err(err).Str("code", code).Msg("status check failed")
		}
		return
	}
	if guest == nil {
		return
	}
	switch guest.Status {
	case domain.GuestStatusApproved:
		g.approve(ctx, ep, guest)
	case domain.GuestStatusRejected:
		g.reject(ctx, ep, guest)
	}
}

func (g *GuestLifecycle) pendingCode(ctx context.Context, ep uint64) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ctx.Err() != nil || g.closed || g.epoch != ep || g.snap.State != input.GuestPending {
		return "", false
	}
	return g.snap.Code, true
}

func (g *GuestLifecycle) approve(ctx context.Context, ep uint64, guest *entities.Guest) {
	g.mu.Lock()
	if ctx.Err() != nil || g.closed || g.epoch != ep || g.snap.State != input.GuestPending {
		g.mu.Unlock()
		return
	}
	g.poll.Stop()
	g.poll = nil
	g.transitionLocked(input.GuestApproved, func(s *input.GuestSnapshot) {
		if guest.Username != "" {
			s.Username = guest.Username
		}
	})
	snap := g.snap
	g.mu.Unlock()
	g.observers.flush()
	g.notify(snap)
}

// reject forgets the session before publishing the rejection, then returns
// to idle after RejectionExitDelay.
func (g *GuestLifecycle) reject(ctx context.Context, ep uint64, guest *entities.Guest) {
	code, ok := g.pendingCode(ctx, ep)
	if !ok {
		return
	}
	// One retry, then the failure stays on the snapshot.
	var deleteErr error
	for range 2 {
		if deleteErr = g.sessions.Delete(ctx, code); deleteErr == nil || ctx.Err() != nil {
			break
		}
	}
	if deleteErr != nil {
		deleteErr = fmt.Errorf("delete session: %w", deleteErr)
		g.log.Warn().Err(deleteErr).Str("code", code).Msg("rejected session kept")
	}

	g.mu.Lock()
	if ctx.Err() != nil || g.closed || g.epoch != ep || g.snap.State != input.GuestPending {
		g.mu.Unlock()
		return
	}
	g.poll.Stop()
	g.poll = nil
	g.transitionLocked(input.GuestRejected, func(s *input.GuestSnapshot) {
		if guest.Username != "" {
			s.Username = guest.Username
		}
		s.Err = deleteErr
	})
	g.exit = g.tasks.After(g.cfg.RejectionExitDelay, func(ctx context.Context) {
		g.leaveRejected(ctx, ep)
	})
	snap := g.snap
	g.mu.Unlock()
	g.observers.flush()
	g.notify(snap)
}

func (g *GuestLifecycle) leaveRejected(ctx context.Context, ep uint64) {
	g.mu.Lock()
	if ctx.Err() != nil || g.closed || g.epoch != ep || g.snap.State != input.GuestRejected {
		g.mu.Unlock()
		return
	}
	g.exit = nil
	g.transitionLocked(input.GuestIdle, func(s *input.GuestSnapshot) { *s = input.GuestSnapshot{} })
	g.mu.Unlock()
	g.observers.flush()
}

func (g *GuestLifecycle) resolvePartyName(ctx context.Context, ep uint64, code string) {
	party, err := g.gw.GetPartyByCode(ctx, code)
	if err != nil || party == nil {
		if err != nil && ctx.Err() == nil {
			g.log.Debug().Err(err).Str("code", code).Msg("party name lookup failed")
		}
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.epoch != ep || g.snap.Code != code {
		return
	}
	g.snap.PartyName = party.Name
	g.snap.MessageKey, g.snap.Message = g.message(g.snap)
	g.broadcastLocked()
}

func (g *GuestLifecycle) notify(snap input.GuestSnapshot) {
	if g.cfg.Notifier == nil {
		return
	}
	event := output.LifecycleEvent{
		Code:       snap.Code,
		PartyName:  snap.PartyName,
		GuestID:    snap.GuestID,
		Username:   snap.Username,
		State:      string(snap.State),
		OccurredAt: time.Now().UTC(),
	}
	if err := g.cfg.Notifier.Notify(g.root, event); err != nil {
		g.log.Warn().Err(err).Str("code", snap.Code).Str("state", event.State).Msg("lifecycle notification failed")
	}
}

func (g *GuestLifecycle) transitionLocked(to input.GuestState, mutate func(*input.GuestSnapshot)) {
	from := g.snap.State
	if to != input.GuestError {
		g.snap.Err = nil
	}
	if mutate != nil {
		mutate(&g.snap)
	}
	g.snap.State = to
	g.snap.MessageKey, g.snap.Message = g.message(g.snap)
	g.observers.push(input.GuestTransition{From: from, To: to, Snapshot: g.snap})
	g.broadcastLocked()
	g.log.Debug().Str("from", string(from)).Str("to", string(to)).Str("code", g.snap.Code).Msg("transition")
}

func (g *GuestLifecycle) broadcastLocked() {
	close(g.changed)
	g.changed = make(chan struct{})
}

func (g *GuestLifecycle) message(s input.GuestSnapshot) (string, string) {
	var key string
	switch s.State {
	case input.GuestPending:
		key = domain.MsgWaitingPending
	case input.GuestApproved:
		key = domain.MsgWaitingApproved
	case input.GuestRejected:
		key = domain.MsgWaitingRejected
	case input.GuestError:
		key = domain.MessageKey(s.Err)
	default:
		return "", ""
	}
	if g.translator == nil {
		return key, key
	}
	return key, g.translator.T(g.cfg.Locale, key, map[string]any{"Party": s.PartyName, "Code": s.Code})
}
