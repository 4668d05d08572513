package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/sopheaklaing/pharmacy/internal/config"
	"github.com/sopheaklaing/pharmacy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newProtectedApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	protected := app.Group("/api", JWTMiddleware(cfg))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals(CtxUserIDKey),
			"role":    c.Locals(CtxUserRoleKey),
		})
	})
	protected.Post("/admin-only", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func tokenFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, err := GenerateToken(testSecret, &models.User{Email: "staff@pharmacy.local", Role: role})
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	app := newProtectedApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	app := newProtectedApp()

	token, err := GenerateToken("another-secret-another-secret-ok", &models.User{Role: models.RolePharmacist})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RolePharmacist))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("POST", "/api/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RolePharmacist))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleAdmin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
