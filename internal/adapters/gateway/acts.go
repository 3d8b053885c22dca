package gateway

import (
	"context"
	"net/url"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

func (c *Client) ListActs(ctx context.Context, event domain.EventType) ([]entities.Act, error) {
	resp, err := Request[entities.ActsResponse](ctx, c, "/api/acts", RequestOptions{
		Query: url.Values{"event": {string(event)}},
	})
	if err != nil || resp == nil {
		return nil, err
	}
	return resp.Acts, nil
}
