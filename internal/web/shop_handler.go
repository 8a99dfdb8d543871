package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/invoice"
	"storefront-backend/internal/model"
	"storefront-backend/internal/payment"
)

func (h *Handler) ListProducts(c *gin.Context) {
	page := pageParam(c)
	result, err := h.Catalog.List(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := objectID(c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	product, err := h.Catalog.Find(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) GetCart(c *gin.Context) {
	user := currentUser(c)
	items, err := h.Cart.Get(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type addToCartInput struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *Handler) AddToCart(c *gin.Context) {
	var in addToCartInput
	if !h.bind(c, &in) {
		return
	}
	productID, err := objectID(in.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := currentUser(c)
	updated, err := h.Cart.Add(c.Request.Context(), user.ID, productID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": updated})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	productID, err := objectID(c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	user := currentUser(c)
	updated, err := h.Cart.Remove(c.Request.Context(), user.ID, productID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": updated})
}

// Checkout resolves the cart, opens a hosted payment session, and hands the
// opaque session id back for the client redirect.
func (h *Handler) Checkout(c *gin.Context) {
	user := currentUser(c)
	items, err := h.Cart.Resolve(c.Request.Context(), user.Cart)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(items) == 0 {
		h.fail(c, model.NewValidationError("cart", "cart is empty"))
		return
	}

	lineItems := payment.LineItemsFromCart(items)
	sessionID, err := h.Payments.CreateCheckoutSession(
		c.Request.Context(),
		lineItems,
		h.BaseURL+"/checkout/success",
		h.BaseURL+"/checkout/cancel",
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     items,
		"total":     cartTotal(items).InexactFloat64(),
		"sessionId": sessionID,
	})
}

// CheckoutSuccess converts the cart into an order. The converter persists
// the order before it touches the cart.
func (h *Handler) CheckoutSuccess(c *gin.Context) {
	user := currentUser(c)
	placed, err := h.Orders.Place(c.Request.Context(), user)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": placed})
}

func (h *Handler) ListOrders(c *gin.Context) {
	user := currentUser(c)
	orders, err := h.Orders.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetInvoice streams the PDF inline. The renderer writes nothing to the
// response until the ownership check has passed, so early failures can
// still produce a JSON error body.
func (h *Handler) GetInvoice(c *gin.Context) {
	orderID, err := objectID(c.Param("orderId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	user := currentUser(c)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+invoice.Filename(orderID)+`"`)

	if err := h.Invoices.Render(c.Request.Context(), orderID, user.ID, c.Writer); err != nil {
		if c.Writer.Written() {
			h.Log.Error("invoice stream failed", "orderId", orderID.Hex(), "err", err)
			return
		}
		c.Writer.Header().Del("Content-Disposition")
		c.Writer.Header().Del("Content-Type")
		h.fail(c, err)
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// objectID treats malformed ids the same as missing documents.
func objectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, model.ErrNotFound
	}
	return id, nil
}

func cartTotal(items []cart.ResolvedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
