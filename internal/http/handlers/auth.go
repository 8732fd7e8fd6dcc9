package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/cinemate/internal/auth"
	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/geocoder89/cinemate/internal/security"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Signup(ctx context.Context, email, password string) (auth.Session, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

type AuthHandler struct {
	auth Authenticator
	prom *observability.Prom
}

func NewAuthHandler(a Authenticator, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{auth: a, prom: prom}
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req CredentialsRequest

	if !BindJSON(ctx, &req) {
		h.prom.ObserveAuth("signup", "invalid")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	session, err := h.auth.Signup(cctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			h.prom.ObserveAuth("signup", "conflict")
			RespondConflict(ctx, "email_taken", "An account with this email already exists")
		case errors.Is(err, auth.ErrInvalidInput):
			h.prom.ObserveAuth("signup", "invalid")
			RespondBadRequest(ctx, "Email and password are required", nil)
		case errors.Is(err, auth.ErrPasswordTooLong):
			h.prom.ObserveAuth("signup", "invalid")
			RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{{
				Field:   "password",
				Rule:    "max",
				Param:   strconv.Itoa(security.MaxPasswordBytes),
				Message: fmt.Sprintf("must be at most %d bytes", security.MaxPasswordBytes),
			}}})
		default:
			h.prom.ObserveAuth("signup", "error")
			slog.Default().ErrorContext(ctx.Request.Context(), "signup failed", "err", err)
			RespondInternal(ctx, "Could not create account")
		}
		return
	}

	h.prom.ObserveAuth("signup", "ok")
	ctx.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		h.prom.ObserveAuth("login", "invalid")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	session, err := h.auth.Login(cctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.prom.ObserveAuth("login", "denied")
			RespondUnauthorized(ctx, "invalid_credentials", "Invalid email or password")
		case errors.Is(err, auth.ErrInvalidInput):
			h.prom.ObserveAuth("login", "invalid")
			RespondBadRequest(ctx, "Email and password are required", nil)
		default:
			h.prom.ObserveAuth("login", "error")
			slog.Default().ErrorContext(ctx.Request.Context(), "login failed", "err", err)
			RespondInternal(ctx, "Could not log in")
		}
		return
	}

	h.prom.ObserveAuth("login", "ok")
	ctx.JSON(http.StatusOK, session)
}
