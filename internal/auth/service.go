package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/mail"
	"storefront-backend/internal/model"
)

// ErrInvalidCredentials deliberately does not distinguish an unknown email
// from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

const resetTokenTTL = time.Hour

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	Insert(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
}

type SignupInput struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Service struct {
	users    UserStore
	sessions *SessionManager
	mailer   mail.Sender
	from     string
	baseURL  string
	log      *slog.Logger
}

func NewService(users UserStore, sessions *SessionManager, mailer mail.Sender, from, baseURL string, log *slog.Logger) *Service {
	return &Service{users: users, sessions: sessions, mailer: mailer, from: from, baseURL: baseURL, log: log}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, model.NewValidationError("confirmPassword", "passwords have to match")
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, model.NewValidationError("email", "e-mail exists already, please pick a different one")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Email:    in.Email,
		Password: hashed,
		Cart:     model.Cart{Items: []model.CartItem{}},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Signup succeeded!",
		HTML:    "<h1>You successfully signed up!</h1>",
	})
	return user, nil
}

// Login checks the credentials and opens a session. The returned string is
// the signed cookie value.
func (s *Service) Login(ctx context.Context, in LoginInput) (*model.User, string, *model.Session, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", nil, ErrInvalidCredentials
		}
		return nil, "", nil, err
	}
	if !CheckPassword(user.Password, in.Password) {
		return nil, "", nil, ErrInvalidCredentials
	}

	token, session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", nil, err
	}
	return user, token, session, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// RequestReset stores a one-hour reset token on the user document and mails
// the reset link.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	user.ResetToken = token
	user.ResetTokenExpiry = time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Password Reset",
		HTML: fmt.Sprintf(
			`<p>You requested a password reset</p><p>Click this <a href="%s/reset/%s">link</a> to set a new password.</p>`,
			s.baseURL, token,
		),
	})
	return nil
}

// CompleteReset validates the token and its expiry, rehashes the password,
// and clears the token fields.
func (s *Service) CompleteReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return model.NewValidationError("password", "password must be at least 6 characters")
	}

	user, err := s.users.FindByResetToken(ctx, token, time.Now().UTC())
	if err != nil {
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExpiry = time.Time{}
	return s.users.Save(ctx, user)
}

// send is fire-and-forget: mail failures are logged, never surfaced.
func (s *Service) send(ctx context.Context, msg mail.Message) {
	msg.From = s.from
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn("send mail failed", "to", msg.To, "subject", msg.Subject, "err", err)
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
