package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"voteparty/internal/application"
	"voteparty/internal/domain/vote"
	"voteparty/internal/ports/input"
)

func (a *App) lifecycle() *application.GuestLifecycle {
	return application.NewGuestLifecycle(a.guests, a.store, a.tr, application.GuestLifecycleConfig{
		PollInterval:       a.cfg.GuestPollInterval,
		RejectionExitDelay: a.cfg.RejectionExitDelay,
		Locale:             a.cfg.Locale,
		Observer:           func(t input.GuestTransition) { a.printTransition(t) },
		Notifier:           a.notifier,
		Logger:             a.log,
	})
}

func (a *App) join(ctx context.Context, args []string) error {
	fs := a.flags("join")
	code := fs.String("code", "", "party code")
	name := fs.String("name", "", "display name")
	if err := parse(fs, args, "code", "name"); err != nil {
		return err
	}
	lc := a.lifecycle()
	defer lc.Close()
	if err := lc.Submit(ctx, *code, *name); err != nil {
		return err
	}
	return a.wait(ctx, lc)
}

func (a *App) resume(ctx context.Context, args []string) error {
	fs := a.flags("resume")
	code := fs.String("code", "", "party code")
	if err := parse(fs, args, "code"); err != nil {
		return err
	}
	lc := a.lifecycle()
	defer lc.Close()
	if err := lc.Resume(ctx, *code); err != nil {
		return err
	}
	return a.wait(ctx, lc)
}

// wait blocks until the host decides. A rejection returns once the client
// is back to idle.
func (a *App) wait(ctx context.Context, lc *application.GuestLifecycle) error {
	snap, err := lc.Await(ctx, func(s input.GuestSnapshot) bool {
		return s.State.Terminal() || s.State == input.GuestError
	})
	if err != nil {
		return err
	}
	switch snap.State {
	case input.GuestError:
		return snap.Err
	case input.GuestRejected:
		if _, err = lc.Await(ctx, func(s input.GuestSnapshot) bool { return s.State == input.GuestIdle }); err != nil {
			return err
		}
		return snap.Err
	}
	return nil
}

func (a *App) cancel(ctx context.Context, args []string) error {
	fs := a.flags("cancel")
	code := fs.String("code", "", "party code")
	if err := parse(fs, args, "code"); err != nil {
		return err
	}
	lc := a.lifecycle()
	defer lc.Close()
	return lc.Leave(ctx, *code)
}

func (a *App) watch(ctx context.Context, args []string) error {
	fs := a.flags("watch")
	code := fs.String("code", "", "party code")
	once := fs.Bool("once", false, "print one snapshot and exit")
	if err := parse(fs, args, "code"); err != nil {
		return err
	}

	cfg := application.PartySyncConfig{Interval: a.cfg.PartySyncInterval, Logger: a.log}
	if !*once {
		cfg.Observer = func(m input.ReadModel) { a.printModel(m) }
	}
	ps := application.NewPartySync(a.guests, a.store, cfg)
	defer ps.Close()
	if *once {
		m, err := ps.Sync(ctx, *code)
		if err != nil {
			return err
		}
		a.printModel(m)
		return nil
	}
	if err := ps.Start(ctx, *code); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (a *App) vote(ctx context.Context, args []string) error {
	fs := a.flags("vote")
	code := fs.String("code", "", "party code")
	points := fs.String("points", "", "comma separated POINTS=ACT pairs")
	if err := parse(fs, args, "code", "points"); err != nil {
		return err
	}
	ballot, err := ParseBallot(*points)
	if err != nil {
		return err
	}
	svc := application.NewVotingService(a.guests, a.store, a.log)
	v, err := svc.Cast(ctx, *code, ballot)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "vote %s saved (%d/%d points assigned)\n", v.ID, len(ballot), len(vote.Points))
	return nil
}

func (a *App) results(ctx context.Context, args []string) error {
	fs := a.flags("results")
	code := fs.String("code", "", "party code")
	if err := parse(fs, args, "code"); err != nil {
		return err
	}
	res, err := application.NewVotingService(a.guests, a.store, a.log).Results(ctx, *code)
	if err != nil {
		return err
	}
	a.printResults(res)
	return nil
}

// ParseBallot reads "12=act,10=act,..." into an assignment.
func ParseBallot(s string) (vote.Assignment, error) {
	out := vote.Assignment{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, actID, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(actID) == "" {
			return nil, fmt.Errorf("%w: bad pair %q", ErrUsage, pair)
		}
		p, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: bad points %q", ErrUsage, key)
		}
		if _, taken := out.Lookup(p); taken {
			return nil, fmt.Errorf("%w: %d points given twice", ErrUsage, p)
		}
		actID = strings.TrimSpace(actID)
		for _, e := range out.Entries() {
			if e.ActID == actID {
				return nil, fmt.Errorf("%w: %q has %d and %d points", vote.ErrDuplicateAct, actID, e.Points, p)
			}
		}
		if err := out.Set(p, actID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
