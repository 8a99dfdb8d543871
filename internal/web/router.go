package web

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, corsOrigin string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")

	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/reset", h.RequestReset)
	api.POST("/auth/new-password", h.NewPassword)

	api.GET("/products", h.ListProducts)
	api.GET("/products/:productId", h.GetProduct)

	authed := api.Group("", h.RequireAuth, h.VerifyCSRF)
	{
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/cart", h.GetCart)
		authed.POST("/cart", h.AddToCart)
		authed.DELETE("/cart/:productId", h.RemoveFromCart)

		authed.GET("/checkout", h.Checkout)
		authed.POST("/checkout/success", h.CheckoutSuccess)

		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:orderId/invoice", h.GetInvoice)

		admin := authed.Group("/admin")
		{
			admin.GET("/products", h.AdminListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:productId", h.UpdateProduct)
			admin.DELETE("/products/:productId", h.DeleteProduct)
		}
	}

	return r
}
