package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/auth"
)

func (h *Handler) Signup(c *gin.Context) {
	var in auth.SignupInput
	if !h.bind(c, &in) {
		return
	}

	user, err := h.Auth.Signup(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var in auth.LoginInput
	if !h.bind(c, &in) {
		return
	}

	user, token, session, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user, "csrfToken": session.CSRFToken})
}

func (h *Handler) Logout(c *gin.Context) {
	session := currentSession(c)
	if err := h.Auth.Logout(c.Request.Context(), session.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

type resetInput struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) RequestReset(c *gin.Context) {
	var in resetInput
	if !h.bind(c, &in) {
		return
	}
	if err := h.Auth.RequestReset(c.Request.Context(), in.Email); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset email sent"})
}

type newPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) NewPassword(c *gin.Context) {
	var in newPasswordInput
	if !h.bind(c, &in) {
		return
	}
	if err := h.Auth.CompleteReset(c.Request.Context(), in.Token, in.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password updated"})
}
