package jkdapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/order-sheet-sync/internal/domain/apperr"
	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// envelope backend javob konverti
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Client is the shared HTTP transport for all backend calls. It owns the
// session token, stamps it on every request and fires the expiry hook on
// any 401-class response.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger

	mu        sync.RWMutex
	token     string
	onExpired []func()
}

// NewClient yangi transport yaratish
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout * time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SetToken sessiya tokenini o'rnatish
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token, "" when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ClearToken tokenni o'chirish
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// OnSessionExpired registers a hook invoked whenever the backend rejects
// the token. Hooks run on the calling goroutine.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	c.onExpired = append(c.onExpired, fn)
	c.mu.Unlock()
}

func (c *Client) fireExpired() {
	c.mu.RLock()
	hooks := make([]func(), len(c.onExpired))
	copy(hooks, c.onExpired)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// GetJSON issues a GET with query parameters and decodes the envelope.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// PostForm issues a form-encoded POST and decodes the envelope.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-CN")
	// Login ham shu transportdan o'tadi; token bo'lmasa header bo'sh qoladi.
	req.Header.Set(constants.AuthHeader, c.Token())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.ClearToken()
		c.fireExpired()
		return nil, &apperr.AuthError{Message: "登录已过期，请重新登录"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &apperr.RemoteError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &apperr.TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return &env, nil
}
