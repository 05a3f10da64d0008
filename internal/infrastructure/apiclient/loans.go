package apiclient

import (
	"context"
	"net/url"
	"time"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

type LoansClient struct {
	api *transport.Client
}

// LoanFilter narrows GET /loans.
type LoanFilter struct {
	ListParams
	Status domain.LoanStatus
}

// CreateLoanInput is the body of POST /loans.
type CreateLoanInput struct {
	InstanceID    string    `json:"instanceId"`
	BorrowerName  string    `json:"borrowerName"`
	BorrowerPhone string    `json:"borrowerPhone,omitempty"`
	DueAt         time.Time `json:"dueAt"`
}

func (c *LoansClient) List(ctx context.Context, f LoanFilter) (*domain.Page[domain.Loan], error) {
	q := f.values()
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	return list[domain.Loan](ctx, c.api, "/loans", q)
}

func (c *LoansClient) Create(ctx context.Context, in CreateLoanInput) (*domain.Loan, error) {
	var l domain.Loan
	if err := c.api.Post(ctx, "/loans", in, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Return marks a loan as returned and frees its instance.
func (c *LoansClient) Return(ctx context.Context, id string) (*domain.Loan, error) {
	var l domain.Loan
	if err := c.api.Post(ctx, "/loans/"+url.PathEscape(id)+"/return", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
