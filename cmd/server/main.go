package main

import (
	"context"
	"log"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/config"
	"storefront-backend/internal/invoice"
	"storefront-backend/internal/logger"
	"storefront-backend/internal/mail"
	"storefront-backend/internal/order"
	"storefront-backend/internal/payment"
	"storefront-backend/internal/store"
	"storefront-backend/internal/web"
)

func main() {
	cfg := config.Load()
	logg := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx := context.Background()
	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close(ctx)

	users := db.Users()
	products := db.Products()
	orders := db.Orders()

	sessions := auth.NewSessionManager(db.Sessions(), []byte(cfg.JWTSecret), cfg.SessionTTL)
	mailer := mail.NewSendGrid(cfg.SendGridKey, "Storefront")
	authSvc := auth.NewService(users, sessions, mailer, cfg.MailFrom, cfg.BaseURL, logg)

	cartSvc := cart.NewService(users, products)
	catalogSvc := catalog.NewService(products, cfg.PageSize)
	converter := order.NewConverter(orders, users, cartSvc)
	invoices := invoice.NewRenderer(orders, cfg.InvoiceDir)
	payments := payment.NewStripe(cfg.StripeKey)

	h := &web.Handler{
		Auth:     authSvc,
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Orders:   converter,
		Invoices: invoices,
		Payments: payments,
		Sessions: sessions,
		Users:    users,
		BaseURL:  cfg.BaseURL,
		Log:      logg,
	}

	r := web.NewRouter(h, cfg.CORSOrigin)
	logg.Info("listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
