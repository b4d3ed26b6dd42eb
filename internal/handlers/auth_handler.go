package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/apiclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (apiclient.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (apiclient.Tokens, error)
}

type AuthHandler struct {
	auth Authenticator
	log  *logrus.Logger
}

func NewAuthHandler(auth Authenticator, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	tokens, err := h.auth.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		h.fail(c, "invalid_credentials", err)
		return
	}

	httpresp.OK(c, tokenResponse(tokens))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.fail(c, "session_expired", err)
		return
	}
	if tokens.Refresh == "" {
		tokens.Refresh = req.Refresh
	}

	httpresp.OK(c, tokenResponse(tokens))
}

// fail maps a rejected credential to rejectedCode and anything else to
// an upstream failure.
func (h *AuthHandler) fail(c *gin.Context, rejectedCode string, err error) {
	switch apiclient.StatusOf(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		httperr.Respond(c, httperr.Wrap(rejectedCode, err))
	default:
		h.log.WithError(err).Warn("auth upstream failed")
		httperr.Respond(c, httperr.Wrap("upstream_unavailable", err))
	}
}

func tokenResponse(t apiclient.Tokens) TokenResponse {
	return TokenResponse{
		Access:  t.Access,
		Refresh: t.Refresh,
		Subject: session.New(t.Access, t.Refresh).Subject(),
	}
}
