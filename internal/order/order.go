// Package order converts a user's cart into an immutable order record.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/model"
)

type OrderStore interface {
	Insert(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
}

type UserStore interface {
	SaveCart(ctx context.Context, userID primitive.ObjectID, cart model.Cart, expectedVersion int64) error
}

type CartResolver interface {
	Resolve(ctx context.Context, c model.Cart) ([]cart.ResolvedItem, error)
}

type Converter struct {
	orders OrderStore
	users  UserStore
	carts  CartResolver
}

func NewConverter(orders OrderStore, users UserStore, carts CartResolver) *Converter {
	return &Converter{orders: orders, users: users, carts: carts}
}

// Place snapshots the user's resolved cart into a new order and clears the
// cart. The order insert comes first: if it fails, the cart is left intact.
func (c *Converter) Place(ctx context.Context, user *model.User) (*model.Order, error) {
	items, err := c.carts.Resolve(ctx, user.Cart)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.NewValidationError("cart", "cart is empty")
	}

	order := &model.Order{
		Items:     make([]model.OrderItem, 0, len(items)),
		User:      model.OrderUser{Email: user.Email, UserID: user.ID},
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range items {
		order.Items = append(order.Items, model.OrderItem{
			Product:  item.Product,
			Quantity: item.Quantity,
		})
	}

	if err := c.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	cleared := cart.Clear(user.Cart)
	if err := c.users.SaveCart(ctx, user.ID, cleared, user.Cart.Version); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	cleared.Version = user.Cart.Version + 1
	user.Cart = cleared

	return order, nil
}

func (c *Converter) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return c.orders.ListByUser(ctx, userID)
}

func (c *Converter) Find(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	return c.orders.FindByID(ctx, id)
}

// Total sums quantity times unit price across the order's lines.
func Total(o *model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
