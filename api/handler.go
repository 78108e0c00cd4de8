// Package api provides the inbound HTTP handlers for the concierge.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hireloop/concierge/assistant"
	"github.com/hireloop/concierge/store"
)

// SessionCookie carries the opaque client token that maps to an assistant
// session.
const SessionCookie = "concierge_session"

// TurnRunner executes one conversational turn and always returns a
// user-visible reply.
type TurnRunner interface {
	RunTurn(ctx context.Context, sessionID, query string) string
}

// Handler handles HTTP requests.
type Handler struct {
	store     store.Store
	transport assistant.Transport
	runner    TurnRunner
	logger    *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(store store.Store, transport assistant.Transport, runner TurnRunner, logger *zap.Logger) *Handler {
	return &Handler{
		store:     store,
		transport: transport,
		runner:    runner,
		logger:    logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/session", h.CreateSession)
	e.POST("/query", h.Query)
	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// QueryRequest is the inbound query body.
type QueryRequest struct {
	Query struct {
		Text string `json:"text"`
	} `json:"query"`
}

// QueryResponse is the reply envelope for the conversational endpoints.
type QueryResponse struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

// CreateSession bootstraps a conversation: it creates an assistant session,
// persists the token mapping and sets the session cookie.
// POST /session
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID, err := h.transport.CreateSession(ctx)
	if err != nil {
		h.logger.Error("failed to create assistant session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	token := uuid.NewString()
	if err := h.store.CreateSession(ctx, token, sessionID); err != nil {
		h.logger.Error("failed to persist session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusCreated, map[string]string{"status": "created"})
}

// Query runs one conversational turn for the session identified by the
// cookie. A missing or unknown cookie is a client error; sessions are never
// created inline here.
// POST /query
func (h *Handler) Query(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session cookie is required"})
	}

	sessionID, err := h.store.GetSession(ctx, cookie.Value)
	if errors.Is(err, store.ErrSessionNotFound) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown session"})
	}
	if err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to resolve session"})
	}

	var req QueryRequest
	if err := c.Bind(&req); err != nil || req.Query.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query.text is required"})
	}

	reply := h.runner.RunTurn(ctx, sessionID, req.Query.Text)
	return c.JSON(http.StatusOK, QueryResponse{Text: reply, Role: "bot"})
}
