package backend

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

type ProductFilter struct {
	Category string
	Search   string
}

// Products lists the catalog, optionally filtered.
func (c *Client) Products(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", requestOpts{rawQuery: q.Encode()}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), requestOpts{}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists the catalog's categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/products/categories", requestOpts{}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
