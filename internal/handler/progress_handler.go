package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"

	"ai-outfit-planner-be/internal/pkg/logger"
	internalWS "ai-outfit-planner-be/internal/websocket"
)

// ProgressHandler upgrades websocket connections that follow one
// session's pipeline progress (stage changes, completed plans).
type ProgressHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewProgressHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *ProgressHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/planner/:sessionId", h.ServeWs)
}

// ServeWs validates the handshake and hands the connection to the hub.
// With auth enabled the session token must match the requested session.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session id"})
	}

	if h.jwtSecret != "" {
		// Browsers cannot set headers on the WS handshake, so the token
		// rides a query parameter.
		tokenStr := c.Query("token")
		if tokenStr == "" {
			authHeader := c.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			h.logger.Warn("ProgressHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
		}
		if tokenSession, _ := claims["session_id"].(string); tokenSession != sessionId {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Token does not match session"})
		}
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ProgressHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionId})
			internalWS.ServeWs(h.hub, conn, sessionId)
			h.logger.Info("ProgressHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
