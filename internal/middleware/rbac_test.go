package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func roleApp(role interface{}, required ...string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(required...))
	app.Get("/guarded", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	app := roleApp(models.RoleTeacher, models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	app := roleApp(models.RoleStudent, models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	app := roleApp(nil, models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleNormalizesCase(t *testing.T) {
	app := roleApp(" Teacher ", models.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
