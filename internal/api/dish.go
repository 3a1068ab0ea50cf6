package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
)

// Categories fetches the dish categories for the browse page.
func (c *Client) Categories(ctx context.Context, token string) ([]model.Category, error) {
	var out []model.Category
	if err := c.do(ctx, "GET", "/dish/categories", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dishes fetches the full menu.  The confirmation view joins order lines
// against this list to recover names, prices and pictures.
func (c *Client) Dishes(ctx context.Context, token string) ([]model.Dish, error) {
	var out []model.Dish
	if err := c.do(ctx, "GET", "/dish/dishes", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DishesByCategory fetches the dishes of a single category.
func (c *Client) DishesByCategory(ctx context.Context, token, categoryID string) ([]model.Dish, error) {
	var out []model.Dish
	path := fmt.Sprintf("/dish/dishes/%s", url.PathEscape(categoryID))
	if err := c.do(ctx, "GET", path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitRatings pushes one rating per distinct dish right before checkout.
func (c *Client) SubmitRatings(ctx context.Context, token string, ratings []model.DishRating) error {
	return c.do(ctx, "POST", "/review/d", token, ratings, nil)
}
