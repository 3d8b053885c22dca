package gateway

import (
	"context"
	"net/http"

	"voteparty/internal/domain/entities"
)

func (c *Client) GetProfile(ctx context.Context) (*entities.User, error) {
	return Request[entities.User](ctx, c, "/api/users/profile", RequestOptions{Authenticated: true})
}

func (c *Client) UpdateProfile(ctx context.Context, req entities.UpdateProfileRequest) (*entities.User, error) {
	return Request[entities.User](ctx, c, "/api/users/profile", RequestOptions{
		Method:        http.MethodPut,
		Body:          req,
		Authenticated: true,
	})
}
