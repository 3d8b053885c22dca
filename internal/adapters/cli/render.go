package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"voteparty/internal/domain/entities"
	"voteparty/internal/domain/vote"
	"voteparty/internal/ports/input"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *App) printTransition(t input.GuestTransition) {
	line := t.Snapshot.Message
	if line == "" {
		line = string(t.To)
	}
	_, _ = fmt.Fprintf(a.out, "[%s] %s\n", t.To, line)
}

func (a *App) printModel(m input.ReadModel) {
	state := "voting open"
	if !m.VotingOpen {
		state = "voting closed"
	}
	_, _ = fmt.Fprintf(a.out, "%s (%s) - %s - %d guests - synced %s\n",
		m.Party.Name, m.Party.Code, state, len(m.Guests), m.SyncedAt.Format(time.TimeOnly))

	points := make(map[string]int, len(m.VoteEntries))
	for _, e := range m.VoteEntries {
		points[e.ActID] = e.Points
	}
	w := a.table()
	_, _ = fmt.Fprintln(w, "#\tACT\tCOUNTRY\tARTIST\tSONG\tPOINTS")
	for _, act := range m.Acts {
		p := ""
		if v, ok := points[act.ID]; ok {
			p = fmt.Sprint(v)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", act.RunningOrder, act.ID, act.Country, act.Artist, act.Song, p)
	}
	_ = w.Flush()

	switch {
	case !m.HasVoted:
		_, _ = fmt.Fprintln(a.out, "no vote yet")
	case m.Complete:
		_, _ = fmt.Fprintln(a.out, "vote complete")
	default:
		_, _ = fmt.Fprintf(a.out, "vote incomplete (%d/%d)\n", len(m.VoteEntries), len(vote.Points))
	}
}

func (a *App) printResults(res *entities.PartyResults) {
	_, _ = fmt.Fprintf(a.out, "%s - %d voters\n", res.PartyName, res.TotalVoters)
	w := a.table()
	_, _ = fmt.Fprintln(w, "RANK\tCOUNTRY\tARTIST\tSONG\tPOINTS")
	for _, r := range res.Results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", r.Rank, r.Country, r.Artist, r.Song, r.TotalPoints)
	}
	_ = w.Flush()
}

func (a *App) printParties(parties ...entities.Party) {
	w := a.table()
	_, _ = fmt.Fprintln(w, "ID\tCODE\tNAME\tEVENT\tSTATUS")
	for _, p := range parties {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Code, p.Name, p.EventType, p.Status)
	}
	_ = w.Flush()
}

func (a *App) printGuests(guests []entities.Guest) {
	if len(guests) == 0 {
		_, _ = fmt.Fprintln(a.out, "no guests")
		return
	}
	w := a.table()
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	for _, g := range guests {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", g.ID, strings.TrimSpace(g.Username), g.Status)
	}
	_ = w.Flush()
}
