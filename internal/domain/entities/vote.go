package entities

import "time"

// Vote is the stored allocation of a guest. Votes is the wire form: decimal
// point value -> act id.
type Vote struct {
	ID        string            `json:"id"`
	GuestID   string            `json:"guestId"`
	PartyID   string            `json:"partyId"`
	Votes     map[string]string `json:"votes"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
}

type SubmitVoteRequest struct {
	GuestID string            `json:"guestId"`
	Votes   map[string]string `json:"votes"`
}

// VoteResult is the aggregated outcome of one act, computed server-side.
type VoteResult struct {
	ActID       string `json:"actId"`
	Country     string `json:"country"`
	Artist      string `json:"artist"`
	Song        string `json:"song"`
	TotalPoints int    `json:"totalPoints"`
	Rank        int    `json:"rank"`
}

type PartyResults struct {
	PartyID     string       `json:"partyId"`
	PartyName   string       `json:"partyName"`
	TotalVoters int          `json:"totalVoters"`
	Results     []VoteResult `json:"results"`
}
