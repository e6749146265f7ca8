package play23

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// Label-anchored balance patterns for the HTML fallback. Two variants each:
// a css-class anchor and the visible label.
var (
	currentBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)current-balance[^>]*>([0-9,]+)`),
		regexp.MustCompile(`(?i)Current Balance[:\s]*<[^>]*>?\s*([0-9,]+)`),
	}
	availBalancePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)avail-balance[^>]*>([0-9,]+)`),
		regexp.MustCompile(`(?i)Available Balance[:\s]*<[^>]*>?\s*([0-9,]+)`),
	}
	atRiskPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)at-risk[^>]*>([0-9,]+)`),
		regexp.MustCompile(`(?i)Amount at Risk[:\s]*<[^>]*>?\s*([0-9,]+)`),
	}
)

// GetBalance fetches the account figures. The endpoint normally answers
// JSON; older revisions serve markup, which falls through to the
// label-anchored parse. Missing fields are zero, never an error.
func (c *Client) GetBalance(ctx context.Context) (models.Balance, error) {
	if err := c.requireAuth(); err != nil {
		return models.Balance{}, err
	}

	resp, err := c.http.get(ctx, pathPlayer, nil, xhrHeaders(""))
	if err != nil {
		return models.Balance{}, newClientError(KindNetworkError, "balance fetch failed", err)
	}

	var doc playerInfoResponse
	if err := json.Unmarshal(resp.Body, &doc); err == nil && doc.Result != nil {
		return models.Balance{
			Current:   parseAmount(doc.Result.CurrentBalance.String()),
			Available: parseAmount(doc.Result.RealAvailBalance.String()),
			AtRisk:    parseAmount(doc.Result.AmountAtRisk.String()),
		}, nil
	}
	return parseBalanceHTML(string(resp.Body)), nil
}

// OpenBets fetches the open-wagers page. Upstream only serves this as
// markup; until a structured parse exists the report carries a snippet.
func (c *Client) OpenBets(ctx context.Context) (models.OpenBets, error) {
	if err := c.requireAuth(); err != nil {
		return models.OpenBets{}, err
	}
	resp, err := c.http.get(ctx, pathOpenBets, nil, nil)
	if err != nil {
		return models.OpenBets{}, newClientError(KindNetworkError, "open bets fetch failed", err)
	}
	raw := string(resp.Body)
	if len(raw) > 500 {
		raw = raw[:500]
	}
	return models.OpenBets{Bets: []string{}, Raw: raw}, nil
}

// parseAmount strips thousands separators; anything unreadable is zero.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		s = s[:dot]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseBalanceHTML(html string) models.Balance {
	return models.Balance{
		Current:   firstAmount(currentBalancePatterns, html),
		Available: firstAmount(availBalancePatterns, html),
		AtRisk:    firstAmount(atRiskPatterns, html),
	}
}

func firstAmount(patterns []*regexp.Regexp, html string) int64 {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(html); m != nil {
			return parseAmount(m[1])
		}
	}
	return 0
}
