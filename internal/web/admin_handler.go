package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/catalog"
)

// AdminListProducts shows only the requesting user's own products.
func (h *Handler) AdminListProducts(c *gin.Context) {
	user := currentUser(c)
	result, err := h.Catalog.ListOwned(c.Request.Context(), user.ID, pageParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if !h.bind(c, &in) {
		return
	}

	user := currentUser(c)
	product, err := h.Catalog.Create(c.Request.Context(), in, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := objectID(c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	var in catalog.ProductInput
	if !h.bind(c, &in) {
		return
	}

	user := currentUser(c)
	product, err := h.Catalog.Update(c.Request.Context(), id, in, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := objectID(c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	user := currentUser(c)
	if err := h.Catalog.Delete(c.Request.Context(), id, user.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
