package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"profile-hub/internal/delivery/http/dto"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

const (
	pathRefresh = "/refresh"
	pathLogin   = "/login"
	pathSignup  = "/signup"
)

// ErrSessionExpired means the refresh token was rejected and the stored
// session has been cleared; the user must log in again.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type envelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
}

// Client talks to the users API. Every request carries the stored access
// token; a 401 triggers one refresh and one replay of the request.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	loading *Loading
	log     zerolog.Logger

	refreshMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.store = s }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for baseURL, e.g. "http://localhost:5008/api/v1/users".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   &MemoryStore{},
		loading: NewLoading(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Loading() *Loading {
	return c.loading
}

// Subscribe is shorthand for Loading().Subscribe.
func (c *Client) Subscribe(fn func(loading bool)) (unsubscribe func()) {
	return c.loading.Subscribe(fn)
}

func (c *Client) Session() (Session, error) {
	return c.store.Load()
}

// body builds a fresh request body each call so a request can be replayed.
type body func() (io.Reader, string, error)

func jsonBody(v any) body {
	return func() (io.Reader, string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// Upload is a file sent as a multipart part.
type Upload struct {
	Filename string
	Data     []byte
}

// Fields are the form values of a create or update call. Values are sent as
// JSON, or formatted with fmt.Sprint when a file forces a multipart body.
type Fields map[string]any

func multipartBody(fields Fields, fileField string, file *Upload) body {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range fields {
			if err := w.WriteField(k, fmt.Sprint(v)); err != nil {
				return nil, "", err
			}
		}
		if file != nil {
			part, err := w.CreateFormFile(fileField, file.Filename)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(file.Data); err != nil {
				return nil, "", err
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}
}

func fieldsBody(fields Fields, fileField string, file *Upload) body {
	if file != nil {
		return multipartBody(fields, fileField, file)
	}
	return jsonBody(fields)
}

func (c *Client) call(ctx context.Context, method, path string, b body, out any) error {
	c.loading.Start()
	defer c.loading.Stop()

	sess, err := c.store.Load()
	if err != nil {
		return err
	}

	status, env, err := c.do(ctx, method, path, b, sess.AccessToken)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && retryable(path) {
		fresh, err := c.refresh(ctx, sess.AccessToken)
		if err != nil {
			return err
		}
		status, env, err = c.do(ctx, method, path, b, fresh.AccessToken)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return &APIError{Status: status, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func retryable(path string) bool {
	switch path {
	case pathRefresh, pathLogin, pathSignup:
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, method, path string, b body, accessToken string) (int, envelope, error) {
	var rdr io.Reader
	contentType := ""
	if b != nil {
		r, ct, err := b()
		if err != nil {
			return 0, envelope{}, err
		}
		rdr, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return 0, envelope{}, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, envelope{}, err
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			env.Message = strings.TrimSpace(string(raw))
		}
	}
	return resp.StatusCode, env, nil
}

// refresh rotates the token pair. Callers that saw the same stale access
// token share one rotation: whoever takes the lock second finds a newer token
// in the store and reuses it.
func (c *Client) refresh(ctx context.Context, stale string) (Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cur, err := c.store.Load()
	if err != nil {
		return Session{}, err
	}
	if cur.AccessToken != "" && cur.AccessToken != stale {
		return cur, nil
	}
	if cur.RefreshToken == "" {
		_ = c.store.Clear()
		return Session{}, ErrSessionExpired
	}

	status, env, err := c.do(ctx, http.MethodPost, pathRefresh, jsonBody(map[string]string{"refresh_token": cur.RefreshToken}), "")
	if err != nil {
		return Session{}, err
	}
	if status != http.StatusOK {
		c.log.Debug().Int("status", status).Str("message", env.Message).Msg("refresh rejected")
		_ = c.store.Clear()
		return Session{}, ErrSessionExpired
	}

	var pair dto.TokenPair
	if err := json.Unmarshal(env.Data, &pair); err != nil || pair.AccessToken == "" {
		_ = c.store.Clear()
		return Session{}, ErrSessionExpired
	}

	next := Session{IsAuthenticated: true, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	if err := c.store.Save(next); err != nil {
		return Session{}, err
	}
	return next, nil
}

func (c *Client) Signup(ctx context.Context, email, password string) (dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.call(ctx, http.MethodPost, pathSignup, jsonBody(map[string]string{"email": email, "password": password}), &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (dto.UserResponse, error) {
	var out dto.AuthResponse
	if err := c.call(ctx, http.MethodPost, pathLogin, jsonBody(map[string]string{"email": email, "password": password}), &out); err != nil {
		return dto.UserResponse{}, err
	}
	err := c.store.Save(Session{IsAuthenticated: true, AccessToken: out.AccessToken, RefreshToken: out.RefreshToken})
	return out.User, err
}

// Logout always clears the local session, even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/logout", nil, nil)
	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) VerifyToken(ctx context.Context) (uuid.UUID, error) {
	var out dto.VerifyResponse
	err := c.call(ctx, http.MethodGet, "/verify-token", nil, &out)
	return out.UserID, err
}

func (c *Client) Profile(ctx context.Context) (dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	err := c.call(ctx, http.MethodGet, "/get-profile", nil, &out)
	return out, err
}

// UpdateProfile sends only the given fields; avatar is optional.
func (c *Client) UpdateProfile(ctx context.Context, fields Fields, avatar *Upload) (dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.call(ctx, http.MethodPut, "/update-profile", fieldsBody(fields, "avatar", avatar), &out)
	return out, err
}
