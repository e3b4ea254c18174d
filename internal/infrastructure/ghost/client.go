// Package ghost is a thin client for the Ghost Admin API.
//
// Every call is one authenticated HTTP round trip: a fresh HS256 token is
// signed per request, the status code is classified into the domain error
// taxonomy and the JSON body is decoded into typed records. The client never
// retries and never caches responses.
package ghost

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

const (
	defaultAPIVersion = "v5.0"
	defaultUserAgent  = "ghost-admin-go/1.0"
)

// Client talks to one Ghost site with one Admin API key.
type Client struct {
	baseURL    string
	credential atomic.Pointer[string]
	apiVersion string
	userAgent  string

	sess    session
	factory func() *http.Client

	now func() time.Time
	log zerolog.Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient makes the client borrow hc. A borrowed client is never
// closed by Close.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.sess.state = sessionBorrowed
			c.sess.client = hc
		}
	}
}

// WithSessionFactory sets how owned sessions are created on first use.
func WithSessionFactory(f func() *http.Client) Option {
	return func(c *Client) {
		if f != nil {
			c.factory = f
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithClock overrides the wall clock used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAPIVersion sets the Accept-Version header value.
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New validates the base URL and returns a client. No network activity
// happens here; a malformed credential surfaces on the first request.
func New(baseURL, credential string, opts ...Option) (*Client, error) {
	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: base url must use https", domain.ErrConfig)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: defaultAPIVersion,
		userAgent:  defaultUserAgent,
		factory:    newPooledSession,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	c.credential.Store(&credential)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// With builds a client, runs fn with it and closes the client on every exit
// path.
func With(baseURL, credential string, fn func(*Client) error, opts ...Option) error {
	c, err := New(baseURL, credential, opts...)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// BaseURL returns the site URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetCredential swaps the Admin API key. The next request signs with it.
func (c *Client) SetCredential(credential string) {
	c.credential.Store(&credential)
}

// Close releases the owned session, if any. Borrowed sessions stay open.
func (c *Client) Close() error {
	c.sess.release()
	return nil
}

func (c *Client) session() *http.Client {
	return c.sess.acquire(c.factory)
}

// ── session lifecycle ─────────────────────────────────────────────────────────

type sessionState int

const (
	sessionUninitialized sessionState = iota
	sessionBorrowed
	sessionOwned
)

// session holds the HTTP client in one of three states. Only acquire and
// release change the state.
type session struct {
	mu     sync.Mutex
	state  sessionState
	client *http.Client
}

func (s *session) acquire(factory func() *http.Client) *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == sessionUninitialized {
		s.client = factory()
		s.state = sessionOwned
	}
	return s.client
}

func (s *session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != sessionOwned {
		return
	}
	s.client.CloseIdleConnections()
	s.client = nil
	s.state = sessionUninitialized
}

func newPooledSession() *http.Client {
	return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
}

var _ ports.AdminAPI = (*Client)(nil)
