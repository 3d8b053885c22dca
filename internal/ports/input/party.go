package input

import (
	"context"
	"time"

	"voteparty/internal/domain/entities"
	"voteparty/internal/domain/vote"
)

// VoteEntry is one assigned point value with its act, when the act is known.
type VoteEntry struct {
	Points int
	ActID  string
	Act    *entities.Act
}

// ReadModel is what an approved guest sees of a party.
type ReadModel struct {
	Party  entities.Party
	Guests []entities.Guest
	// Acts are sorted by running order.
	Acts        []entities.Act
	Vote        *entities.Vote
	Assignment  vote.Assignment
	VoteEntries []VoteEntry
	VotingOpen  bool
	HasVoted    bool
	Complete    bool
	SyncedAt    time.Time
}

type PartySyncUseCase interface {
	Start(ctx context.Context, code string) error
	Sync(ctx context.Context, code string) (ReadModel, error)
	Refresh(ctx context.Context) (ReadModel, error)
	Snapshot() (ReadModel, bool)
	LastError() error
	Close()
}

type VotingUseCase interface {
	Cast(ctx context.Context, code string, a vote.Assignment) (*entities.Vote, error)
	Results(ctx context.Context, code string) (*entities.PartyResults, error)
}
