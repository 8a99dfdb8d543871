// Package web wires the HTTP surface: routes, middleware, and handlers.
package web

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/model"
	"storefront-backend/internal/payment"
)

const (
	sessionCookie = "session"

	userKey    = "currentUser"
	sessionKey = "currentSession"
)

type AuthService interface {
	Signup(ctx context.Context, in auth.SignupInput) (*model.User, error)
	Login(ctx context.Context, in auth.LoginInput) (*model.User, string, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	RequestReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, token, newPassword string) error
}

type CatalogService interface {
	List(ctx context.Context, page int) (catalog.Page, error)
	ListOwned(ctx context.Context, ownerID primitive.ObjectID, page int) (catalog.Page, error)
	Find(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Create(ctx context.Context, in catalog.ProductInput, ownerID primitive.ObjectID) (*model.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, in catalog.ProductInput, requester primitive.ObjectID) (*model.Product, error)
	Delete(ctx context.Context, id, requester primitive.ObjectID) error
}

type CartService interface {
	Add(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error)
	Remove(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error)
	Get(ctx context.Context, userID primitive.ObjectID) ([]cart.ResolvedItem, error)
	Resolve(ctx context.Context, c model.Cart) ([]cart.ResolvedItem, error)
}

type OrderService interface {
	Place(ctx context.Context, user *model.User) (*model.Order, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
}

type InvoiceRenderer interface {
	Render(ctx context.Context, orderID, requester primitive.ObjectID, w io.Writer) error
}

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Session, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

type Handler struct {
	Auth     AuthService
	Catalog  CatalogService
	Cart     CartService
	Orders   OrderService
	Invoices InvoiceRenderer
	Payments payment.Provider
	Sessions SessionResolver
	Users    UserFinder
	BaseURL  string
	Log      *slog.Logger
}

func currentUser(c *gin.Context) *model.User {
	return c.MustGet(userKey).(*model.User)
}

func currentSession(c *gin.Context) *model.Session {
	return c.MustGet(sessionKey).(*model.Session)
}
