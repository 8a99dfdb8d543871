package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-backend/internal/model"
)

type Users struct {
	coll *mongo.Collection
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *Users) FindByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	filter := bson.M{
		"resetToken":           token,
		"resetTokenExpiration": bson.M{"$gt": now},
	}
	var user model.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}
	return &user, nil
}

func (r *Users) Insert(ctx context.Context, user *model.User) error {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Users) Save(ctx context.Context, user *model.User) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// SaveCart replaces the embedded cart only if nobody else has updated it
// since expectedVersion was read. A lost race surfaces as ErrVersionConflict
// so the caller can reload and reapply.
func (r *Users) SaveCart(ctx context.Context, userID primitive.ObjectID, cart model.Cart, expectedVersion int64) error {
	cart.Version = expectedVersion + 1
	filter := bson.M{"_id": userID, "cart.version": expectedVersion}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"cart": cart}})
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrVersionConflict
	}
	return nil
}
