package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/praxis-api/internal/service"
	"github.com/noah-isme/praxis-api/internal/utils"
)

const callerLocalKey = "caller"

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the resolved caller to the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		caller := service.Caller{}
		if userID := extractUserIDFromClaims(claims); userID != nil {
			caller.ID = *userID
		}
		caller.Roles = extractRolesFromClaims(claims)
		if caller.ID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals(callerLocalKey, caller)

		return c.Next()
	}
}

// CallerFromCtx returns the caller bound by JWTProtected, if any.
func CallerFromCtx(c *fiber.Ctx) (service.Caller, bool) {
	value := c.Locals(callerLocalKey)
	caller, ok := value.(service.Caller)

	return caller, ok
}

// WithCaller binds a caller directly; used by tests to bypass token parsing.
func WithCaller(caller service.Caller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(callerLocalKey, caller)
		return c.Next()
	}
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		value, exists := claims[key]
		if !exists {
			continue
		}

		switch v := value.(type) {
		case float64:
			if v > 0 {
				id := uint(v)
				return &id
			}
		case string:
			if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
				id := uint(parsed)
				return &id
			}
		}
	}

	return nil
}

func extractRolesFromClaims(claims jwt.MapClaims) []string {
	value, exists := claims["roles"]
	if !exists {
		if role, ok := claims["role"].(string); ok && role != "" {
			return []string{strings.ToLower(role)}
		}
		return nil
	}

	switch v := value.(type) {
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if role, ok := item.(string); ok && role != "" {
				roles = append(roles, strings.ToLower(role))
			}
		}
		return roles
	case string:
		if v == "" {
			return nil
		}
		return []string{strings.ToLower(v)}
	default:
		return nil
	}
}
