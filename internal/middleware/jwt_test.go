package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praxis-api/internal/service"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTProtected(testSecret), func(c *fiber.Ctx) error {
		caller, ok := CallerFromCtx(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"id": caller.ID, "staff": caller.IsStaff()})
	})

	return app
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	app := newProtectedApp()

	response, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}

func TestJWTProtectedRejectsBadToken(t *testing.T) {
	app := newProtectedApp()

	request := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}

func TestJWTProtectedRejectsWrongSecret(t *testing.T) {
	app := newProtectedApp()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	request := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+signed)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}

func TestJWTProtectedBindsCaller(t *testing.T) {
	app := newProtectedApp()

	signed := signToken(t, jwt.MapClaims{
		"sub":   "7",
		"roles": []string{"Instructor"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	request := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+signed)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, response.StatusCode)
}

func TestJWTProtectedRejectsZeroSubject(t *testing.T) {
	app := newProtectedApp()

	signed := signToken(t, jwt.MapClaims{"roles": []string{"client"}})

	request := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	request.Header.Set("Authorization", "Bearer "+signed)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}

func TestRequireStaff(t *testing.T) {
	app := fiber.New()
	app.Get("/staff-only",
		WithCaller(service.Caller{ID: 7, Roles: []string{service.RoleClient}}),
		RequireStaff(),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	app.Get("/staff-ok",
		WithCaller(service.Caller{ID: 50, Roles: []string{service.RoleCoach}}),
		RequireStaff(),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	response, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/staff-only", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, response.StatusCode)

	response, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/staff-ok", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, response.StatusCode)
}
