package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNormalizesStatusAndMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error { return OK(c, "", map[string]string{"k": "v"}) })
	app.Get("/weird", func(c fiber.Ctx) error { return Error(c, 42, "", nil) })
	app.Get("/limited", func(c fiber.Ctx) error { return Error(c, fiber.StatusTooManyRequests, "", nil) })

	cases := []struct {
		path   string
		status int
		msg    string
	}{
		{"/ok", 200, MessageOK},
		{"/weird", 500, MessageInternalServerError},
		{"/limited", 429, MessageTooManyRequests},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)

		var body SemanticResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, tc.msg, body.Message)
	}
}
