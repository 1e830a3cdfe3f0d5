package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cart struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"user" bson:"user_id"`
	Items       []CartItem `json:"items" bson:"items"`
	TotalAmount float64    `json:"totalAmount" bson:"total_amount"`
	IsActive    bool       `json:"isActive" bson:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}

// CartItem holds a recipe selection priced at the moment it was added or
// last updated.
type CartItem struct {
	ID         string    `json:"id" bson:"_id"`
	RecipeID   string    `json:"recipe" bson:"recipe_id"`
	Servings   int       `json:"servings" bson:"servings"`
	TotalPrice float64   `json:"totalPrice" bson:"total_price"`
	AddedAt    time.Time `json:"addedAt" bson:"added_at"`
}

// NewCart returns an empty active cart for userID.
func NewCart(userID string, now time.Time) *Cart {
	return &Cart{
		ID:        primitive.NewObjectID().Hex(),
		UserID:    userID,
		Items:     []CartItem{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Recalculate resets TotalAmount to the sum of item prices. Every mutator
// calls it before returning.
func (c *Cart) Recalculate() {
	var total float64
	for _, it := range c.Items {
		total += it.TotalPrice
	}
	c.TotalAmount = total
}

// UpsertRecipe replaces the servings and price of the item for recipeID, or
// appends a new item when the recipe is not in the cart yet.
func (c *Cart) UpsertRecipe(recipeID string, servings int, price float64, now time.Time) *CartItem {
	defer c.touch(now)
	for i := range c.Items {
		if c.Items[i].RecipeID == recipeID {
			c.Items[i].Servings = servings
			c.Items[i].TotalPrice = price
			return &c.Items[i]
		}
	}
	c.Items = append(c.Items, CartItem{
		ID:         primitive.NewObjectID().Hex(),
		RecipeID:   recipeID,
		Servings:   servings,
		TotalPrice: price,
		AddedAt:    now,
	})
	return &c.Items[len(c.Items)-1]
}

// Item returns the item with itemID, or nil.
func (c *Cart) Item(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// UpdateItem sets servings and price on an existing item.
func (c *Cart) UpdateItem(itemID string, servings int, price float64, now time.Time) error {
	it := c.Item(itemID)
	if it == nil {
		return KindErrorf(ErrNotFound, "item %s not found in cart", itemID)
	}
	it.Servings = servings
	it.TotalPrice = price
	c.touch(now)
	return nil
}

// RemoveItem drops the item with itemID. It reports whether anything was
// removed; removing an absent item is not an error.
func (c *Cart) RemoveItem(itemID string, now time.Time) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch(now)
			return true
		}
	}
	return false
}

func (c *Cart) Clear(now time.Time) {
	c.Items = []CartItem{}
	c.touch(now)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) touch(now time.Time) {
	c.Recalculate()
	c.UpdatedAt = now
}
