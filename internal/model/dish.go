package model

// Category is read-only reference data used to lay out the browse page.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Dish is read-only reference data.  Price is in whole rupees; the upstream
// menu does not carry fractional prices.
type Dish struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Picture    string `json:"picture"`
	CategoryID string `json:"dish_category_id"`
	Available  bool   `json:"is_available"`
	NonVeg     bool   `json:"is_non_veg"`
}

// DishRating is one guest rating for one dish, submitted in a batch right
// before checkout.
type DishRating struct {
	DishID string `json:"dish_id"`
	Rating int    `json:"rating"`
}
