// Package cart holds the cart transformations and the service that
// persists them on the owning user document.
package cart

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/model"
)

// Add increments the quantity of an existing line for productID, or appends
// a new line with quantity 1. Existing line order is preserved and a new
// line always lands at the end. The input cart is not mutated.
func Add(c model.Cart, productID primitive.ObjectID) model.Cart {
	items := make([]model.CartItem, len(c.Items))
	copy(items, c.Items)

	for i, item := range items {
		if item.ProductID == productID {
			items[i].Quantity++
			return model.Cart{Items: items, Version: c.Version}
		}
	}
	items = append(items, model.CartItem{ProductID: productID, Quantity: 1})
	return model.Cart{Items: items, Version: c.Version}
}

// Remove drops the line matching productID entirely. A cart without such a
// line is returned unchanged.
func Remove(c model.Cart, productID primitive.ObjectID) model.Cart {
	items := make([]model.CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return model.Cart{Items: items, Version: c.Version}
}

func Clear(c model.Cart) model.Cart {
	return model.Cart{Items: []model.CartItem{}, Version: c.Version}
}
