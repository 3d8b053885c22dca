package gateway

import (
	"context"
	"net/http"

	"voteparty/internal/domain/entities"
	"voteparty/internal/ports/output"
)

var (
	_ output.GuestGateway     = (*Client)(nil)
	_ output.PartyReader      = (*Client)(nil)
	_ output.VoteGateway      = (*Client)(nil)
	_ output.ModeratorGateway = (*Client)(nil)
)

func (c *Client) CreateParty(ctx context.Context, req entities.CreatePartyRequest) (*entities.Party, error) {
	return Request[entities.Party](ctx, c, "/api/parties", RequestOptions{
		Method:        http.MethodPost,
		Body:          req,
		Authenticated: true,
	})
}

// ListParties returns the parties owned by the authenticated moderator.
func (c *Client) ListParties(ctx context.Context) ([]entities.Party, error) {
	resp, err := Request[[]entities.Party](ctx, c, "/api/parties", RequestOptions{Authenticated: true})
	if err != nil || resp == nil {
		return nil, err
	}
	return *resp, nil
}

func (c *Client) GetPartyByCode(ctx context.Context, code string) (*entities.Party, error) {
	return Request[entities.Party](ctx, c, "/api/parties/"+seg(code), RequestOptions{})
}

func (c *Client) GetPartyByID(ctx context.Context, id string) (*entities.Party, error) {
	return Request[entities.Party](ctx, c, "/api/parties/"+seg(id), RequestOptions{Authenticated: true})
}

func (c *Client) DeleteParty(ctx context.Context, id string) error {
	return c.send(ctx, "/api/parties/"+seg(id), RequestOptions{
		Method:        http.MethodDelete,
		Authenticated: true,
	})
}

func (c *Client) EndVoting(ctx context.Context, partyID string) (*entities.EndVotingResponse, error) {
	return Request[entities.EndVotingResponse](ctx, c, "/api/parties/"+seg(partyID)+"/end-voting", RequestOptions{
		Method:        http.MethodPost,
		Authenticated: true,
	})
}
