package apiclient

import (
	"context"
	"net/url"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

type UsersClient struct {
	api *transport.Client
}

func (c *UsersClient) List(ctx context.Context, p ListParams) (*domain.Page[domain.User], error) {
	return list[domain.User](ctx, c.api, "/users", p.values())
}

func (c *UsersClient) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := c.api.Get(ctx, "/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetActive enables or disables an account.
func (c *UsersClient) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	var u domain.User
	body := map[string]bool{"isActive": active}
	if err := c.api.Patch(ctx, "/users/"+url.PathEscape(id), body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
