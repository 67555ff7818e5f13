package backend

import (
	"context"
	"net/http"
	"net/url"
)

type favoritesResponse struct {
	ProductIDs []string `json:"productIds"`
}

// Favorites lists the user's favorite product ids. The backend has no
// batch product endpoint; hydration is the caller's problem.
func (c *Client) Favorites(ctx context.Context, token, userID string) ([]string, error) {
	var out favoritesResponse
	path := "/favorites/user/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, requestOpts{token: token}, nil, &out); err != nil {
		return nil, err
	}
	return out.ProductIDs, nil
}

type addFavoriteInput struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// AddFavorite registers the product as a favorite. A 409 surfaces as
// domain.ErrAlreadyExists via the error's Unwrap.
func (c *Client) AddFavorite(ctx context.Context, token, userID, productID string) error {
	in := addFavoriteInput{UserID: userID, ProductID: productID}
	return c.do(ctx, http.MethodPost, "/favorites", requestOpts{token: token}, in, nil)
}

// RemoveFavorite deletes the favorite.
func (c *Client) RemoveFavorite(ctx context.Context, token, userID, productID string) error {
	path := "/favorites/" + url.PathEscape(userID) + "/" + url.PathEscape(productID)
	return c.do(ctx, http.MethodDelete, path, requestOpts{token: token}, nil, nil)
}
