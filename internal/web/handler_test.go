package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/model"
	"storefront-backend/internal/payment"
)

type authServiceMock struct {
	SignupFunc func(ctx context.Context, in auth.SignupInput) (*model.User, error)
}

func (m *authServiceMock) Signup(ctx context.Context, in auth.SignupInput) (*model.User, error) {
	return m.SignupFunc(ctx, in)
}

func (m *authServiceMock) Login(ctx context.Context, in auth.LoginInput) (*model.User, string, *model.Session, error) {
	panic("not used")
}

func (m *authServiceMock) Logout(ctx context.Context, sessionID string) error { panic("not used") }

func (m *authServiceMock) RequestReset(ctx context.Context, email string) error { panic("not used") }

func (m *authServiceMock) CompleteReset(ctx context.Context, token, newPassword string) error {
	panic("not used")
}

type cartServiceMock struct {
	AddFunc     func(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error)
	RemoveFunc  func(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error)
	GetFunc     func(ctx context.Context, userID primitive.ObjectID) ([]cart.ResolvedItem, error)
	ResolveFunc func(ctx context.Context, c model.Cart) ([]cart.ResolvedItem, error)
}

func (m *cartServiceMock) Add(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error) {
	return m.AddFunc(ctx, userID, productID)
}

func (m *cartServiceMock) Remove(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error) {
	return m.RemoveFunc(ctx, userID, productID)
}

func (m *cartServiceMock) Get(ctx context.Context, userID primitive.ObjectID) ([]cart.ResolvedItem, error) {
	return m.GetFunc(ctx, userID)
}

func (m *cartServiceMock) Resolve(ctx context.Context, c model.Cart) ([]cart.ResolvedItem, error) {
	return m.ResolveFunc(ctx, c)
}

type orderServiceMock struct {
	PlaceFunc       func(ctx context.Context, user *model.User) (*model.Order, error)
	ListForUserFunc func(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
}

func (m *orderServiceMock) Place(ctx context.Context, user *model.User) (*model.Order, error) {
	return m.PlaceFunc(ctx, user)
}

func (m *orderServiceMock) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return m.ListForUserFunc(ctx, userID)
}

type invoiceRendererMock struct {
	RenderFunc func(ctx context.Context, orderID, requester primitive.ObjectID, w io.Writer) error
}

func (m *invoiceRendererMock) Render(ctx context.Context, orderID, requester primitive.ObjectID, w io.Writer) error {
	return m.RenderFunc(ctx, orderID, requester, w)
}

type paymentProviderMock struct {
	CreateFunc func(ctx context.Context, items []payment.LineItem, successURL, cancelURL string) (string, error)
}

func (m *paymentProviderMock) CreateCheckoutSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL string) (string, error) {
	return m.CreateFunc(ctx, items, successURL, cancelURL)
}

func authedContext(t *testing.T, user *model.User, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(userKey, user)
	return c, w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAddToCart(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}

	t.Run("missing product id in the body", func(t *testing.T) {
		h := &Handler{Log: slog.Default()}
		c, w := authedContext(t, user, jsonRequest(http.MethodPost, "/api/cart", `{}`))

		h.AddToCart(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "productId")
	})

	t.Run("unknown product", func(t *testing.T) {
		h := &Handler{
			Cart: &cartServiceMock{
				AddFunc: func(ctx context.Context, userID, productID primitive.ObjectID) (model.Cart, error) {
					return model.Cart{}, model.ErrNotFound
				},
			},
			Log: slog.Default(),
		}
		body := `{"productId":"` + primitive.NewObjectID().Hex() + `"}`
		c, w := authedContext(t, user, jsonRequest(http.MethodPost, "/api/cart", body))

		h.AddToCart(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed product id", func(t *testing.T) {
		h := &Handler{Log: slog.Default()}
		c, w := authedContext(t, user, jsonRequest(http.MethodPost, "/api/cart", `{"productId":"nope"}`))

		h.AddToCart(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns the updated cart", func(t *testing.T) {
		productID := primitive.NewObjectID()
		h := &Handler{
			Cart: &cartServiceMock{
				AddFunc: func(ctx context.Context, userID, pid primitive.ObjectID) (model.Cart, error) {
					assert.Equal(t, user.ID, userID)
					assert.Equal(t, productID, pid)
					return model.Cart{Items: []model.CartItem{{ProductID: pid, Quantity: 1}}, Version: 1}, nil
				},
			},
			Log: slog.Default(),
		}
		body := `{"productId":"` + productID.Hex() + `"}`
		c, w := authedContext(t, user, jsonRequest(http.MethodPost, "/api/cart", body))

		h.AddToCart(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), productID.Hex())
	})
}

func TestCheckout(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}

	t.Run("empty cart is rejected", func(t *testing.T) {
		h := &Handler{
			Cart: &cartServiceMock{
				ResolveFunc: func(ctx context.Context, c model.Cart) ([]cart.ResolvedItem, error) {
					return nil, nil
				},
			},
			Log: slog.Default(),
		}
		c, w := authedContext(t, user, httptest.NewRequest(http.MethodPost, "/api/checkout", nil))

		h.Checkout(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "cart is empty")
	})

	t.Run("opens a payment session over the resolved items", func(t *testing.T) {
		items := []cart.ResolvedItem{
			{Product: model.Product{ID: primitive.NewObjectID(), Title: "Book", Price: 12.50}, Quantity: 2},
		}
		h := &Handler{
			Cart: &cartServiceMock{
				ResolveFunc: func(ctx context.Context, c model.Cart) ([]cart.ResolvedItem, error) {
					return items, nil
				},
			},
			Payments: &paymentProviderMock{
				CreateFunc: func(ctx context.Context, lineItems []payment.LineItem, successURL, cancelURL string) (string, error) {
					require.Len(t, lineItems, 1)
					assert.Equal(t, int64(1250), lineItems[0].UnitAmountCents)
					assert.Equal(t, "http://shop.test/checkout/success", successURL)
					assert.Equal(t, "http://shop.test/checkout/cancel", cancelURL)
					return "cs_test_123", nil
				},
			},
			BaseURL: "http://shop.test",
			Log:     slog.Default(),
		}
		c, w := authedContext(t, user, httptest.NewRequest(http.MethodPost, "/api/checkout", nil))

		h.Checkout(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cs_test_123")
		assert.Contains(t, w.Body.String(), `"total":25`)
	})
}

func TestCheckoutSuccess(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	placed := &model.Order{ID: primitive.NewObjectID()}

	h := &Handler{
		Orders: &orderServiceMock{
			PlaceFunc: func(ctx context.Context, u *model.User) (*model.Order, error) {
				assert.Equal(t, user.ID, u.ID)
				return placed, nil
			},
		},
		Log: slog.Default(),
	}
	c, w := authedContext(t, user, httptest.NewRequest(http.MethodGet, "/api/checkout/success", nil))

	h.CheckoutSuccess(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), placed.ID.Hex())
}

func TestGetInvoice(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID()}
	orderID := primitive.NewObjectID()

	t.Run("someone else's order yields a JSON error, not a PDF", func(t *testing.T) {
		h := &Handler{
			Invoices: &invoiceRendererMock{
				RenderFunc: func(ctx context.Context, oid, requester primitive.ObjectID, w io.Writer) error {
					return model.ErrUnauthorized
				},
			},
			Log: slog.Default(),
		}
		c, w := authedContext(t, user, httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.Hex()+"/invoice", nil))
		c.Params = gin.Params{{Key: "orderId", Value: orderID.Hex()}}

		h.GetInvoice(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("malformed order id", func(t *testing.T) {
		h := &Handler{Log: slog.Default()}
		c, w := authedContext(t, user, httptest.NewRequest(http.MethodGet, "/api/orders/nope/invoice", nil))
		c.Params = gin.Params{{Key: "orderId", Value: "nope"}}

		h.GetInvoice(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("streams the document inline", func(t *testing.T) {
		h := &Handler{
			Invoices: &invoiceRendererMock{
				RenderFunc: func(ctx context.Context, oid, requester primitive.ObjectID, w io.Writer) error {
					assert.Equal(t, orderID, oid)
					assert.Equal(t, user.ID, requester)
					_, err := w.Write([]byte("%PDF-1.3 fake"))
					return err
				},
			},
			Log: slog.Default(),
		}
		c, w := authedContext(t, user, httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.Hex()+"/invoice", nil))
		c.Params = gin.Params{{Key: "orderId", Value: orderID.Hex()}}

		h.GetInvoice(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-"+orderID.Hex()+".pdf")
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	})
}

func TestSignupHandler(t *testing.T) {
	t.Run("binding failures list the offending fields", func(t *testing.T) {
		h := &Handler{Log: slog.Default()}
		c, w := authedContext(t, nil, jsonRequest(http.MethodPut, "/api/signup", `{"email":"not-an-email","password":"secret123","confirmPassword":"secret123"}`))

		h.Signup(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "email")
	})

	t.Run("created user is echoed back", func(t *testing.T) {
		h := &Handler{
			Auth: &authServiceMock{
				SignupFunc: func(ctx context.Context, in auth.SignupInput) (*model.User, error) {
					return &model.User{ID: primitive.NewObjectID(), Email: in.Email}, nil
				},
			},
			Log: slog.Default(),
		}
		c, w := authedContext(t, nil, jsonRequest(http.MethodPut, "/api/signup", `{"email":"a@b.test","password":"secret123","confirmPassword":"secret123"}`))

		h.Signup(c)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "a@b.test")
	})
}

func TestPageParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?page=3", 3},
		{"?page=0", 1},
		{"?page=-2", 1},
		{"?page=abc", 1},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/products"+tc.query, nil)
		assert.Equal(t, tc.want, pageParam(c), "query %q", tc.query)
	}
}
