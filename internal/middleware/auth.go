// Package middleware provides the Fiber middleware of the API: the auth gates,
// request context propagation, logging, metrics and tracing.
package middleware

import (
	"log/slog"
	"strings"

	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// LocalsUserID is the Fiber locals key holding the authenticated user id.
const LocalsUserID = "userID"

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate describes how a route group rejects unauthenticated requests.
type Gate struct {
	Name   string
	Status int
	Body   fiber.Map
}

var (
	// BlogGate guards the post routes.
	BlogGate = Gate{
		Name:   "blog",
		Status: fiber.StatusForbidden,
		Body:   fiber.Map{"message": "Please log in to continue"},
	}
	// UserGate guards the profile routes.
	UserGate = Gate{
		Name:   "user",
		Status: fiber.StatusUnauthorized,
		Body:   fiber.Map{"error": "Unauthorized"},
	}
)

// AuthGate admits requests whose Authorization header carries a valid token.
// The raw token and the "Bearer <token>" form are both accepted. Any failure
// short-circuits with the gate's status and body.
func AuthGate(verifier TokenVerifier, gate Gate, log *slog.Logger) fiber.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return deny(c, gate, log, "missing_token")
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			return deny(c, gate, log, "invalid_token")
		}

		c.Locals(LocalsUserID, userID)
		c.SetUserContext(observability.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// UserID returns the id stored by AuthGate.
func UserID(c *fiber.Ctx) (string, bool) {
	uid, ok := c.Locals(LocalsUserID).(string)
	return uid, ok && uid != ""
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func deny(c *fiber.Ctx, gate Gate, log *slog.Logger, reason string) error {
	observability.AuthDenials.WithLabelValues(gate.Name, reason).Inc()
	log.WarnContext(c.UserContext(), "request denied by auth gate",
		slog.String("gate", gate.Name),
		slog.String("reason", reason),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
	)
	return c.Status(gate.Status).JSON(gate.Body)
}
