package serverutils

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IssueSessionToken signs a bearer token bound to one planner session.
// Clients present it on closet and plan-archive routes.
func IssueSessionToken(secret, sessionId string) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionId,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// SessionTokenMiddleware validates the bearer token and exposes its
// session id via Locals("session_id"). An empty secret disables the
// check entirely; handlers then fall back to explicit session ids.
func SessionTokenMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(http.StatusUnauthorized).JSON(ErrorResponse("Missing token", "unauthorized", nil))
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(http.StatusUnauthorized).JSON(ErrorResponse("Invalid token", "unauthorized", nil))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(http.StatusUnauthorized).JSON(ErrorResponse("Invalid claims", "unauthorized", nil))
		}

		if sessionId, ok := claims["session_id"].(string); ok {
			ctx.Locals("session_id", sessionId)
		}
		return ctx.Next()
	}
}
