package gateway

import (
	"context"
	"net/http"
	"net/url"

	"voteparty/internal/domain/entities"
)

func (c *Client) JoinParty(ctx context.Context, code string, req entities.JoinPartyRequest) (*entities.Guest, error) {
	return Request[entities.Guest](ctx, c, "/api/parties/"+seg(code)+"/join", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
}

func (c *Client) GetGuestStatus(ctx context.Context, code, guestID string) (*entities.Guest, error) {
	return Request[entities.Guest](ctx, c, "/api/parties/"+seg(code)+"/guest-status", RequestOptions{
		Query: url.Values{"guestId": {guestID}},
	})
}

// ListGuests returns every guest of the party, whatever their status.
func (c *Client) ListGuests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	return c.listGuests(ctx, "/api/parties/"+seg(partyID)+"/guests", true)
}

// ListApprovedGuests is the anonymous roster. The service only exposes
// approved guests to it, and the result is filtered again locally.
func (c *Client) ListApprovedGuests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	guests, err := c.listGuests(ctx, "/api/parties/"+seg(partyID)+"/guests", false)
	if err != nil {
		return nil, err
	}
	return entities.FilterApproved(guests), nil
}

func (c *Client) ListJoinRequests(ctx context.Context, partyID string) ([]entities.Guest, error) {
	return c.listGuests(ctx, "/api/parties/"+seg(partyID)+"/join-requests", true)
}

func (c *Client) ApproveGuest(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error) {
	return Request[entities.StatusOKResponse](ctx, c, guestPath(partyID, guestID)+"/approve", RequestOptions{
		Method:        http.MethodPut,
		Authenticated: true,
	})
}

func (c *Client) RejectGuest(ctx context.Context, partyID, guestID string) (*entities.StatusOKResponse, error) {
	return Request[entities.StatusOKResponse](ctx, c, guestPath(partyID, guestID)+"/reject", RequestOptions{
		Method:        http.MethodPut,
		Authenticated: true,
	})
}

func (c *Client) RemoveGuest(ctx context.Context, partyID, guestID string) error {
	return c.send(ctx, guestPath(partyID, guestID), RequestOptions{
		Method:        http.MethodDelete,
		Authenticated: true,
	})
}

func (c *Client) listGuests(ctx context.Context, path string, auth bool) ([]entities.Guest, error) {
	resp, err := Request[[]entities.Guest](ctx, c, path, RequestOptions{Authenticated: auth})
	if err != nil || resp == nil {
		return nil, err
	}
	return *resp, nil
}

func guestPath(partyID, guestID string) string {
	return "/api/parties/" + seg(partyID) + "/guests/" + seg(guestID)
}
