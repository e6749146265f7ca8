package play23

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// ASP.NET hidden form fields the login form requires back.
var (
	viewStatePattern       = regexp.MustCompile(`id="__VIEWSTATE"\s+value="([^"]+)"`)
	viewStateGenPattern    = regexp.MustCompile(`id="__VIEWSTATEGENERATOR"\s+value="([^"]+)"`)
	eventValidationPattern = regexp.MustCompile(`id="__EVENTVALIDATION"\s+value="([^"]+)"`)
)

// Markers used to classify the post-login response. Upstream returns no
// structured success code, so classification stays tolerant of several
// variants: redirect destination, greeting, logout link.
var signedInMarkers = []string{"Welcome Back", "HELLO,", "Logout"}

// Login performs the two-step handshake: fetch the login page for its
// anti-forgery tokens, then submit credentials. On success the balance is
// parsed opportunistically from the landing page, then from the login
// response body; a zeroed balance never fails the login.
func (c *Client) Login(ctx context.Context, username, password string) (models.Balance, error) {
	page, err := c.http.get(ctx, pathLogin, nil, nil)
	if err != nil {
		return models.Balance{}, newClientError(KindNetworkError, "failed to fetch login page", err)
	}
	pageHTML := string(page.Body)

	form := url.Values{}
	if m := viewStatePattern.FindStringSubmatch(pageHTML); m != nil {
		form.Set("__VIEWSTATE", m[1])
	}
	if m := viewStateGenPattern.FindStringSubmatch(pageHTML); m != nil {
		form.Set("__VIEWSTATEGENERATOR", m[1])
	}
	if m := eventValidationPattern.FindStringSubmatch(pageHTML); m != nil {
		form.Set("__EVENTVALIDATION", m[1])
	}
	form.Set("Account", username)
	form.Set("Password", password)
	form.Set("BtnSubmit", "Sign in")

	resp, err := c.http.postForm(ctx, pathLogin, form, map[string]string{
		"Origin":  c.http.baseURL,
		"Referer": c.http.baseURL + pathLogin,
	})
	if err != nil {
		return models.Balance{}, newClientError(KindNetworkError, "login request failed", err)
	}

	if !loginSucceeded(resp) {
		body := string(resp.Body)
		if strings.Contains(body, "Invalid") || strings.Contains(body, "incorrect") {
			return models.Balance{}, newClientError(KindAuthError, "invalid username or password", nil)
		}
		slog.Debug("login classification failed", "final_url", resp.FinalURL)
		return models.Balance{}, newClientError(KindAuthError, "login failed - please check credentials", nil)
	}

	c.setAuthenticated(username)
	slog.Info("logged in", "username", username)

	balance := models.Balance{}
	if welcome, err := c.http.get(ctx, pathWelcome, nil, nil); err == nil {
		balance = parseBalanceHTML(string(welcome.Body))
	} else {
		balance = parseBalanceHTML(string(resp.Body))
	}
	return balance, nil
}

// loginSucceeded is the heuristic success check: where did the redirect
// land, and does the body carry a signed-in marker.
func loginSucceeded(resp *upstreamResponse) bool {
	if strings.Contains(resp.FinalURL, "Welcome.aspx") || strings.Contains(resp.FinalURL, "wager") {
		return true
	}
	body := string(resp.Body)
	for _, marker := range signedInMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// Logout ends the upstream session best-effort. Local state is invalidated
// regardless of what upstream answers.
func (c *Client) Logout(ctx context.Context) {
	if _, err := c.http.get(ctx, pathLogout, nil, nil); err != nil {
		slog.Warn("logout request failed", "error", err)
	}
	c.clearAuthenticated()
}

// sessionExpired invalidates local state after a login-page-shaped response
// mid-operation.
func (c *Client) sessionExpired() {
	slog.Warn("upstream session expired", "username", c.Username())
	c.clearAuthenticated()
}

// looksLikeLoginPage detects the silent-expiry case: a helper endpoint that
// should answer JSON replies with the login page instead.
func looksLikeLoginPage(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return false
	}
	return strings.Contains(trimmed, "Login")
}
