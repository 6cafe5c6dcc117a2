// Package cart implements the customer's ordered list of line items.
package cart

import (
	"errors"
	"fmt"
	"time"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("cart item not found")

// Item is one cart line. Price is the final unit price of the configured item.
type Item struct {
	ID           string          `json:"id"`
	Type         models.ItemType `json:"type"`
	RefID        string          `json:"ref_id,omitempty"` // product or combo id
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Flavors      []string        `json:"flavors,omitempty"`
	SizeInfo     string          `json:"size_info,omitempty"`
	FreeDelivery bool            `json:"free_delivery,omitempty"`
}

// Subtotal is price × quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of lines. Lines are never merged: adding the same
// configuration twice yields two lines.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty cart with a fresh id.
func New() *Cart {
	return &Cart{ID: uuid.New().String(), Items: []Item{}, UpdatedAt: time.Now()}
}

// Add appends item under a fresh id and returns the stored line.
func (c *Cart) Add(item Item) Item {
	item.ID = uuid.New().String()
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	c.Items = append(c.Items, item)
	c.touch()
	return item
}

// UpdateQuantity sets the quantity of a line. A quantity below 1 removes it.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	idx := c.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if quantity < 1 {
		c.removeAt(idx)
		return nil
	}
	c.Items[idx].Quantity = quantity
	c.touch()
	return nil
}

// Remove deletes a line.
func (c *Cart) Remove(id string) error {
	idx := c.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	c.removeAt(idx)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.touch()
}

// Total is the sum of price × quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// FreeDelivery reports whether any line grants free delivery.
func (c *Cart) FreeDelivery() bool {
	for _, it := range c.Items {
		if it.FreeDelivery {
			return true
		}
	}
	return false
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c *Cart) index(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
