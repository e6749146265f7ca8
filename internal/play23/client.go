// Package play23 implements the upstream integration client for the
// Play23-style sportsbook backend: session login over a cookie jar, odds
// normalization from the dual-shape schedule endpoint, the selection token
// codec and the three-phase (compile/confirm/post) wager protocol.
package play23

import (
	"sync"

	"github.com/luiso2/betbridge/internal/pkg/config"
	"github.com/luiso2/betbridge/internal/pkg/models"
)

// Upstream paths. These are fixed by the backend, not configuration.
const (
	pathLogin    = "/Login.aspx"
	pathLogout   = "/Logout.aspx"
	pathWelcome  = "/wager/Welcome.aspx"
	pathSchedule = "/wager/NewScheduleHelper.aspx"
	pathCompile  = "/wager/CreateWagerHelper.aspx"
	pathConfirm  = "/wager/ConfirmWagerHelper.aspx"
	pathPost     = "/wager/PostWagerMultipleHelper.aspx"
	pathPlayer   = "/wager/PlayerInfoHelper.aspx"
	pathOpenBets = "/wager/OpenBets.aspx"
)

// Client owns one logical user session against the upstream. It is created
// unauthenticated; Login flips it. A Client must not run two wager
// placements at once (the compiled descriptor is the only state between
// phases and upstream cross-talk is otherwise possible), so PlaceBet holds
// wagerMu for the full three-phase sequence. Odds fetches and balance reads
// are read-only and may run concurrently.
type Client struct {
	http *httpClient

	mu            sync.Mutex
	authenticated bool
	username      string

	wagerMu sync.Mutex
}

// New builds an unauthenticated client with a fresh cookie jar.
func New(cfg *config.UpstreamConfig) (*Client, error) {
	hc, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// Authenticated reports whether a login has succeeded and not been
// invalidated since.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// Username returns the account this session is logged in as.
func (c *Client) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

func (c *Client) setAuthenticated(username string) {
	c.mu.Lock()
	c.authenticated = true
	c.username = username
	c.mu.Unlock()
}

func (c *Client) clearAuthenticated() {
	c.mu.Lock()
	c.authenticated = false
	c.username = ""
	c.mu.Unlock()
}

// requireAuth fails fast before any network I/O when the session is not
// authenticated.
func (c *Client) requireAuth() *ClientError {
	if !c.Authenticated() {
		return newClientError(KindNotAuthenticated, "not authenticated", nil)
	}
	return nil
}

// ListLeagues returns the leagues with active betting lines. Static
// reference data, immutable for the process lifetime.
func (c *Client) ListLeagues() []models.League {
	return leagues()
}
