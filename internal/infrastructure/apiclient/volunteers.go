package apiclient

import (
	"context"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

type VolunteersClient struct {
	api *transport.Client
}

// ActivityFilter narrows GET /volunteers/activities.
type ActivityFilter struct {
	ListParams
	VolunteerID string
}

func (c *VolunteersClient) Activities(ctx context.Context, f ActivityFilter) (*domain.Page[domain.VolunteerActivity], error) {
	q := f.values()
	if f.VolunteerID != "" {
		q.Set("volunteerId", f.VolunteerID)
	}
	return list[domain.VolunteerActivity](ctx, c.api, "/volunteers/activities", q)
}
