package authRoutes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHistoryRequiresAuthBeforeValidation(t *testing.T) {
	app := fiber.New()
	SetupAuthRoutes(app)

	// No Authorization header and an out-of-range page: the auth gate must
	// answer first, not the query validator
	req := httptest.NewRequest("GET", "/api/auth/login/history?page=0", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
