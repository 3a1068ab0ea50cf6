// Package cart maintains the working set of dish selections prior to
// submission.  The cart lives in the session store between requests and is
// cleared once the finish-order flow completes.
package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/LakshmiSureshChandra/jeevicqrmenu/internal/model"
)

// Item is one selected dish with its display fields snapshotted at selection
// time so the cart renders without re-fetching the menu.
type Item struct {
	DishID       string `json:"dish_id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	Quantity     int    `json:"quantity"`
	Image        string `json:"image,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Cart accumulates items in selection order.  Policy notes:
//   - Add inserts with quantity 1 and is a no-op when the dish is already in
//     the cart; quantity changes only go through UpdateQuantity.
//   - UpdateQuantity removes the item when the quantity reaches zero and
//     never lets it go negative.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

// New returns an empty cart.
func New() *Cart { return &Cart{} }

// FromJSON restores a cart from a stored snapshot.  An empty snapshot yields
// an empty cart.
func FromJSON(snapshot string) (*Cart, error) {
	c := New()
	if snapshot == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(snapshot), &c.items); err != nil {
		return nil, fmt.Errorf("cart: decode snapshot: %w", err)
	}
	return c, nil
}

// JSON serializes the cart for the session store.
func (c *Cart) JSON() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(c.items)
	if err != nil {
		return "", fmt.Errorf("cart: encode snapshot: %w", err)
	}
	return string(raw), nil
}

// Add puts a dish in the cart with quantity 1.  Adding a dish that is
// already present does nothing.
func (c *Cart) Add(d model.Dish) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].DishID == d.ID {
			return
		}
	}
	c.items = append(c.items, Item{
		DishID:   d.ID,
		Name:     d.Name,
		Price:    d.Price,
		Quantity: 1,
		Image:    d.Picture,
	})
}

// UpdateQuantity applies a delta to an item's quantity.  A resulting
// quantity of zero (or below) removes the item.  Unknown dish ids are
// ignored.
func (c *Cart) UpdateQuantity(dishID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].DishID != dishID {
			continue
		}
		q := c.items[i].Quantity + delta
		if q <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity = q
		}
		return
	}
}

// SetInstructions attaches free-text instructions to an item, independent of
// its quantity.
func (c *Cart) SetInstructions(dishID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].DishID == dishID {
			c.items[i].Instructions = text
			return
		}
	}
}

// ClearInstructions removes an item's instructions.
func (c *Cart) ClearInstructions(dishID string) {
	c.SetInstructions(dishID, "")
}

// Total sums price times quantity across the cart.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		total += it.Price * it.Quantity
	}
	return total
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Empty reports whether nothing is selected.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Items returns a copy of the current selection.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Summary builds the bottom-bar label: "2x Margherita Pizza + 1 more item".
func (c *Cart) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return ""
	}
	first := c.items[0]
	label := fmt.Sprintf("%dx %s", first.Quantity, first.Name)
	remaining := len(c.items) - 1
	if remaining == 0 {
		return label
	}
	plural := ""
	if remaining > 1 {
		plural = "s"
	}
	return fmt.Sprintf("%s + %d more item%s", label, remaining, plural)
}

// OrderItems converts the cart to the wire shape the order controller needs.
func (c *Cart) OrderItems() []model.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.OrderItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, model.OrderItem{
			DishID:       it.DishID,
			Quantity:     it.Quantity,
			Instructions: it.Instructions,
		})
	}
	return out
}

// MergeItems folds newly selected items into a previously ordered set: same
// dish lines sum their quantities and new non-empty instructions win.  Used
// to keep the display snapshot in step with the replace-the-whole-list
// update the upstream expects.
func MergeItems(previous, added []Item) []Item {
	out := make([]Item, len(previous))
	copy(out, previous)
	for _, in := range added {
		found := false
		for i := range out {
			if out[i].DishID == in.DishID {
				out[i].Quantity += in.Quantity
				if in.Instructions != "" {
					out[i].Instructions = in.Instructions
				}
				found = true
				break
			}
		}
		if !found {
			out = append(out, in)
		}
	}
	return out
}
