package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"`
	ResetToken       string             `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiry time.Time          `bson:"resetTokenExpiration,omitempty" json:"-"`
	Cart             Cart               `bson:"cart" json:"cart"`
}

// Cart is embedded in the user document. Version guards the
// read-modify-write cycle: saves are conditional on the version that was
// read, so two concurrent updates cannot silently overwrite each other.
type Cart struct {
	Items   []CartItem `bson:"items" json:"items"`
	Version int64      `bson:"version" json:"-"`
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
}

// Order is immutable once inserted. Items carry full product copies taken
// at purchase time, so later product edits never change an order.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Items     []OrderItem        `bson:"products" json:"products"`
	User      OrderUser          `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type OrderItem struct {
	Product  Product `bson:"product" json:"product"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

type OrderUser struct {
	Email  string             `bson:"email" json:"email"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
}

// Session holds only an identity plus the per-session CSRF token; the user
// document is re-fetched on every request.
type Session struct {
	ID        string             `bson:"_id" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	CSRFToken string             `bson:"csrfToken" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"-"`
}
