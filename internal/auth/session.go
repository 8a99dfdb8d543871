package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/model"
)

type SessionStore interface {
	Insert(ctx context.Context, session *model.Session) error
	FindActive(ctx context.Context, id string, now time.Time) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// sessionClaims carries only the server-side session id; everything else
// about the user is re-fetched per request.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

type SessionManager struct {
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
}

func NewSessionManager(sessions SessionStore, secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{sessions: sessions, secret: secret, ttl: ttl}
}

// Create stores a new session document and returns the signed cookie value
// alongside it.
func (m *SessionManager) Create(ctx context.Context, userID primitive.ObjectID) (string, *model.Session, error) {
	csrf, err := randomToken()
	if err != nil {
		return "", nil, fmt.Errorf("csrf token: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CSRFToken: csrf,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.sessions.Insert(ctx, session); err != nil {
		return "", nil, err
	}

	claims := sessionClaims{
		SessionID: session.ID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: session.ExpiresAt.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, session, nil
}

// Resolve validates the signed cookie value and loads the live session.
// Any failure collapses to ErrUnauthorized.
func (m *SessionManager) Resolve(ctx context.Context, tokenStr string) (*model.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, model.ErrUnauthorized
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, model.ErrUnauthorized
	}

	session, err := m.sessions.FindActive(ctx, claims.SessionID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrUnauthorized
		}
		return nil, err
	}
	return session, nil
}

func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}
