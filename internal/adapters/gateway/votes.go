package gateway

import (
	"context"
	"net/http"

	"voteparty/internal/domain/entities"
)

func (c *Client) SubmitVote(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error) {
	return Request[entities.Vote](ctx, c, "/api/parties/"+seg(partyID)+"/votes", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

func (c *Client) UpdateVote(ctx context.Context, partyID string, req entities.SubmitVoteRequest) (*entities.Vote, error) {
	return Request[entities.Vote](ctx, c, "/api/parties/"+seg(partyID)+"/votes", RequestOptions{
		Method: http.MethodPut,
		Body:   req,
	})
}

// GetGuestVote fails with a not-found error when the guest has not voted.
func (c *Client) GetGuestVote(ctx context.Context, partyID, guestID string) (*entities.Vote, error) {
	return Request[entities.Vote](ctx, c, "/api/parties/"+seg(partyID)+"/votes/"+seg(guestID), RequestOptions{})
}

func (c *Client) GetResults(ctx context.Context, partyID string) (*entities.PartyResults, error) {
	return Request[entities.PartyResults](ctx, c, "/api/parties/"+seg(partyID)+"/results", RequestOptions{})
}
