package apiclient

import (
	"context"
	"net/url"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

type ProductsClient struct {
	api *transport.Client
}

func (c *ProductsClient) List(ctx context.Context, p ListParams) (*domain.Page[domain.Product], error) {
	return list[domain.Product](ctx, c.api, "/products", p.values())
}

func (c *ProductsClient) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.api.Get(ctx, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Instances lists the physical units of a product.
func (c *ProductsClient) Instances(ctx context.Context, productID string, p ListParams) (*domain.Page[domain.ProductInstance], error) {
	return list[domain.ProductInstance](ctx, c.api, "/products/"+url.PathEscape(productID)+"/instances", p.values())
}
