package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kelasku/kelasku-backend/internal/middleware"
	"github.com/kelasku/kelasku-backend/internal/realtime"
	"github.com/kelasku/kelasku-backend/internal/service"
	"github.com/kelasku/kelasku-backend/pkg/feed"
	"github.com/rs/zerolog"
)

const feedWriteTimeout = 10 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler streams scoped change events over WebSocket.
type FeedHandler struct {
	dispatcher    *realtime.Dispatcher
	memberService *service.MemberService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(dispatcher *realtime.Dispatcher, memberService *service.MemberService, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		dispatcher:    dispatcher,
		memberService: memberService,
		log:           log.With().Str("component", "feed_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/feed?token=...
// Upgrades to WebSocket. The client subscribes to feed scopes and receives
// every change on them until it unsubscribes or disconnects.
func (h *FeedHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	wsLog := h.log.With().Str("user_id", claims.UserID.String()).Logger()
	wsLog.Info().Msg("Feed consumer connected")

	// All writes funnel through one goroutine; gorilla permits a single
	// concurrent writer.
	send := make(chan feed.ServerMessage, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-send:
				conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
				if err := conn.WriteJSON(msg); err != nil {
					wsLog.Debug().Err(err).Msg("Feed write failed")
					cancel()
					return
				}
			}
		}
	}()

	push := func(msg feed.ServerMessage) {
		select {
		case send <- msg:
		case <-ctx.Done():
		}
	}

	subscriptions := make(map[string]func())
	defer func() {
		for _, cleanup := range subscriptions {
			cleanup()
		}
	}()

	for {
		var msg feed.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Feed consumer disconnected")
			}
			return
		}

		switch msg.Action {
		case feed.ActionSubscribe:
			h.handleSubscribe(ctx, wsLog, claims, subscriptions, push, msg.Scopes)
		case feed.ActionUnsubscribe:
			for _, scope := range msg.Scopes {
				if cleanup, ok := subscriptions[scope]; ok {
					cleanup()
					delete(subscriptions, scope)
				}
			}
		case feed.ActionPing:
			push(feed.ServerMessage{Type: feed.MessagePong})
		default:
			push(feed.ServerMessage{Type: feed.MessageError, Error: "unknown action: " + string(msg.Action)})
		}
	}
}

// handleSubscribe authorizes and registers each requested scope, then
// acknowledges the ones that succeeded.
func (h *FeedHandler) handleSubscribe(ctx context.Context, wsLog zerolog.Logger, claims *service.Claims, subscriptions map[string]func(), push func(feed.ServerMessage), scopes []string) {
	var accepted []string
	for _, scope := range scopes {
		if _, ok := subscriptions[scope]; ok {
			accepted = append(accepted, scope)
			continue
		}

		if err := h.authorizeScope(ctx, claims.UserID, scope); err != nil {
			wsLog.Warn().Str("scope", scope).Err(err).Msg("Scope subscription denied")
			push(feed.ServerMessage{Type: feed.MessageError, Error: "subscription denied: " + scope})
			continue
		}

		stream, cleanup := h.dispatcher.Subscribe(ctx, scope)
		subscriptions[scope] = cleanup
		go func() {
			for ev := range stream {
				push(feed.ServerMessage{Type: feed.MessageChange, Event: &ev})
			}
		}()
		accepted = append(accepted, scope)
	}

	if len(accepted) > 0 {
		push(feed.ServerMessage{Type: feed.MessageSubscribed, Scopes: accepted})
	}
}

// authorizeScope checks the user may read a feed scope. Class scopes require
// creator or approved-member access; the notification scope is self-only.
func (h *FeedHandler) authorizeScope(ctx context.Context, userID uuid.UUID, scope string) error {
	parts := strings.Split(scope, ":")
	if len(parts) != 3 {
		return errInvalidScope
	}

	switch feed.Table(parts[0]) {
	case feed.TableSchedules, feed.TableClassMembers:
		if parts[1] != "class" {
			return errInvalidScope
		}
		classID, err := uuid.Parse(parts[2])
		if err != nil {
			return errInvalidScope
		}
		return h.memberService.CanAccessClass(ctx, classID, userID)
	case feed.TableNotifications:
		if parts[1] != "user" || parts[2] != userID.String() {
			return errInvalidScope
		}
		return nil
	default:
		return errInvalidScope
	}
}
