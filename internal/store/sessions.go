package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-backend/internal/model"
)

type Sessions struct {
	coll *mongo.Collection
}

func (r *Sessions) Insert(ctx context.Context, session *model.Session) error {
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindActive returns the session only while it has not expired.
func (r *Sessions) FindActive(ctx context.Context, id string, now time.Time) (*model.Session, error) {
	filter := bson.M{"_id": id, "expiresAt": bson.M{"$gt": now}}
	var session model.Session
	err := r.coll.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

func (r *Sessions) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
