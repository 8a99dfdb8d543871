package cart

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/model"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	SaveCart(ctx context.Context, userID primitive.ObjectID, cart model.Cart, expectedVersion int64) error
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error)
}

// ResolvedItem is a cart line joined to its full product record.
type ResolvedItem struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

type Service struct {
	users    UserStore
	products ProductStore
}

func NewService(users UserStore, products ProductStore) *Service {
	return &Service{users: users, products: products}
}

// Add puts one unit of productID into the user's cart. The product must
// exist; a stale cart version is retried once against a fresh read.
func (s *Service) Add(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return model.Cart{}, err
	}
	return s.mutate(ctx, userID, func(c model.Cart) model.Cart {
		return Add(c, productID)
	})
}

func (s *Service) Remove(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error) {
	return s.mutate(ctx, userID, func(c model.Cart) model.Cart {
		return Remove(c, productID)
	})
}

func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) ([]ResolvedItem, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, user.Cart)
}

// Resolve joins the cart lines to full product records, keeping line order.
// Lines whose product has been deleted are dropped.
func (s *Service) Resolve(ctx context.Context, c model.Cart) ([]ResolvedItem, error) {
	if len(c.Items) == 0 {
		return []ResolvedItem{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart: %w", err)
	}

	byID := make(map[primitive.ObjectID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	resolved := make([]ResolvedItem, 0, len(c.Items))
	for _, item := range c.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		resolved = append(resolved, ResolvedItem{Product: p, Quantity: item.Quantity})
	}
	return resolved, nil
}

func (s *Service) mutate(ctx context.Context, userID primitive.ObjectID, fn func(model.Cart) model.Cart) (model.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return model.Cart{}, err
		}

		updated := fn(user.Cart)
		err = s.users.SaveCart(ctx, userID, updated, user.Cart.Version)
		if err == nil {
			updated.Version = user.Cart.Version + 1
			return updated, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return model.Cart{}, err
		}
		lastErr = err
	}
	return model.Cart{}, lastErr
}
