// Package apiclient holds thin request builders for the equipment library
// REST API, one per resource, on top of the shared transport.
package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

// Clients bundles every resource client around one transport.
type Clients struct {
	Auth       *AuthClient
	Users      *UsersClient
	Products   *ProductsClient
	Loans      *LoansClient
	Volunteers *VolunteersClient
	Audit      *AuditClient
}

func New(api *transport.Client) *Clients {
	return &Clients{
		Auth:       NewAuthClient(api),
		Users:      &UsersClient{api: api},
		Products:   &ProductsClient{api: api},
		Loans:      &LoansClient{api: api},
		Volunteers: &VolunteersClient{api: api},
		Audit:      &AuditClient{api: api},
	}
}

// ListParams are the paging and search parameters shared by list endpoints.
// Zero values are omitted from the query string.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

func list[T any](ctx context.Context, api *transport.Client, path string, q url.Values) (*domain.Page[T], error) {
	var page domain.Page[T]
	if err := api.Get(ctx, path, q, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return &page, nil
}
