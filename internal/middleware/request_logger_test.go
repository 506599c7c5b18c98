package middleware

import (
	"net/http/httptest"
	"os"
	"testing"

	"cognitive-profiler/internal/config"
	"cognitive-profiler/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "info", Env: "development"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	os.Exit(m.Run())
}

func TestRequestLogger_AssignsULIDRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDHeader)
	require.NotEmpty(t, id)
	_, err = ulid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestLogger_PreservesIncomingRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-supplied-id", resp.Header.Get(RequestIDHeader))
}
