package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// send issues a request with the given cookies and no Authorization header.
func send(t *testing.T, method, url, body string, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func collectKeys(v any, into map[string]bool) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			into[strings.ToLower(k)] = true
			collectKeys(child, into)
		}
	case []any:
		for _, child := range t {
			collectKeys(child, into)
		}
	}
}

func TestIntegration_CookieSession(t *testing.T) {
	users := newServer(t) + "/api/v1/users"
	creds := `{"email":"grace@example.com","password":"pw123456"}`

	resp, _ := send(t, http.MethodPost, users+"/signup", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := send(t, http.MethodPost, users+"/login", `{"email":"grace@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid password", env["message"])
	assert.Empty(t, resp.Header.Values("Set-Cookie"))

	resp, _ = send(t, http.MethodPost, users+"/login", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	access := cookieNamed(resp, "accessToken")
	refresh := cookieNamed(resp, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/", access.Path)

	// the access cookie alone authenticates
	resp, env = send(t, http.MethodGet, users+"/get-profile", "", access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	keys := map[string]bool{}
	collectKeys(env["data"], keys)
	assert.True(t, keys["email"])
	for k := range keys {
		assert.NotContains(t, k, "password")
		assert.NotContains(t, k, "refresh")
	}

	// refresh with no body reads the refresh cookie and rotates both cookies
	resp, _ = send(t, http.MethodPost, users+"/refresh", "", refresh)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotatedAccess := cookieNamed(resp, "accessToken")
	rotatedRefresh := cookieNamed(resp, "refreshToken")
	require.NotNil(t, rotatedAccess)
	require.NotNil(t, rotatedRefresh)
	assert.NotEqual(t, refresh.Value, rotatedRefresh.Value)

	resp, env = send(t, http.MethodPost, users+"/refresh", "", refresh)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Invalid refresh token", env["message"])

	resp, _ = send(t, http.MethodPost, users+"/logout", "", rotatedAccess)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, name := range []string{"accessToken", "refreshToken"} {
		c := cookieNamed(resp, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value, name)
		assert.True(t, c.Expires.Before(time.Now()), name)
	}

	// access tokens stay valid until they expire; logout only kills the refresh side
	resp, _ = send(t, http.MethodGet, users+"/get-profile", "", rotatedAccess)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = send(t, http.MethodPost, users+"/refresh", "", rotatedRefresh)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}
