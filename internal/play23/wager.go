package play23

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// Outcome is the result of one placement attempt: either a placed ticket or
// a typed rejection. Nothing in the engine panics or retries; a caller
// seeing OddsChanged or SessionExpired re-fetches, re-authenticates and
// starts over from compile.
type Outcome struct {
	Placed      bool      `json:"placed"`
	Ticket      string    `json:"ticketNumber,omitempty"`
	Risk        int64     `json:"riskAmount,omitempty"`
	Win         int64     `json:"winAmount,omitempty"`
	Description string    `json:"description,omitempty"`
	Kind        ErrorKind `json:"errorKind,omitempty"`
	Detail      string    `json:"error,omitempty"`
}

func rejected(kind ErrorKind, detail string) Outcome {
	return Outcome{Kind: kind, Detail: detail}
}

// compiledWager is the immutable value the compile phase produces and the
// confirm and post phases consume. The protocol threads no other state
// between phases beyond the session cookie.
type compiledWager struct {
	IDWT        string
	Description string
	GameID      int64
	Play        string
	Pitcher     int
}

// confirmedWager carries the provisional figures the confirm phase returns.
type confirmedWager struct {
	Risk int64
	Win  int64
}

// PlaceBet drives the three-phase protocol: compile validates the selection
// is still a live line, confirm re-validates funds and freshness against the
// credential, post commits. Any phase's rejection short-circuits the rest.
// One wager at a time per client; concurrent calls serialize here.
func (c *Client) PlaceBet(ctx context.Context, req models.WagerRequest) Outcome {
	if err := c.requireAuth(); err != nil {
		return rejected(KindNotAuthenticated, err.Msg)
	}
	if _, err := DecodeSelection(req.Selection); err != nil {
		return rejected(KindInvalidSelection, err.Error())
	}

	c.wagerMu.Lock()
	defer c.wagerMu.Unlock()

	compiled, out := c.compileWager(ctx, req)
	if out != nil {
		return *out
	}
	confirmed, out := c.confirmWager(ctx, req, compiled)
	if out != nil {
		return *out
	}
	return c.postWager(ctx, req, compiled, confirmed)
}

// compileWager submits the selection for upstream validation and extracts
// the internal identifiers the later phases need.
func (c *Client) compileWager(ctx context.Context, req models.WagerRequest) (compiledWager, *Outcome) {
	form := url.Values{
		"open": {"0"},
		"WT":   {strconv.Itoa(int(req.WagerType))},
		"sel":  {req.Selection},
	}
	resp, err := c.http.postForm(ctx, pathCompile, form, xhrHeaders(""))
	if err != nil {
		out := rejected(KindNetworkError, err.Error())
		return compiledWager{}, &out
	}
	if looksLikeLoginPage(resp.Body) {
		c.sessionExpired()
		out := rejected(KindSessionExpired, "session expired, please login again")
		return compiledWager{}, &out
	}

	var doc compileResponse
	if err := json.Unmarshal(resp.Body, &doc); err != nil || doc.Result == nil {
		out := rejected(KindCompileError, "unreadable compile response")
		return compiledWager{}, &out
	}
	if doc.Result.ErrorMessage != "" {
		out := rejected(KindCompileError, doc.Result.ErrorMessage)
		return compiledWager{}, &out
	}
	if doc.Result.WagerCompile == nil || len(doc.Result.WagerCompile.Details) == 0 {
		out := rejected(KindCompileError, "could not compile wager - invalid selection")
		return compiledWager{}, &out
	}

	detail := doc.Result.WagerCompile.Details[0]
	if len(detail.Details) == 0 || detail.Details[0].IDGame == 0 {
		slog.Debug("compile response missing leg descriptor", "selection", req.Selection)
		out := rejected(KindInvalidSelection, "invalid bet selection - please refresh odds and try again")
		return compiledWager{}, &out
	}

	leg := detail.Details[0]
	compiled := compiledWager{
		IDWT:        detail.IDWT.String(),
		Description: leg.Description,
		GameID:      leg.IDGame,
		Play:        leg.Play.String(),
		Pitcher:     leg.Pitcher,
	}
	slog.Info("wager compiled", "description", compiled.Description, "game", compiled.GameID)
	return compiled, nil
}

// confirmWager submits stake and credential with the compiled descriptor.
// Upstream answers with provisional risk/win figures or a free-text error
// that gets classified through the substring table.
func (c *Client) confirmWager(ctx context.Context, req models.WagerRequest, compiled compiledWager) (confirmedWager, *Outcome) {
	form := c.wagerForm(req, compiled)
	form.Set("password", req.Password)

	resp, err := c.http.postForm(ctx, pathConfirm, form, xhrHeaders(""))
	if err != nil {
		out := rejected(KindNetworkError, err.Error())
		return confirmedWager{}, &out
	}
	// A login page here means the session silently expired; it must not be
	// mistaken for a credential failure.
	if looksLikeLoginPage(resp.Body) {
		c.sessionExpired()
		out := rejected(KindSessionExpired, "session expired, please login again")
		return confirmedWager{}, &out
	}

	var doc confirmResponse
	if err := json.Unmarshal(resp.Body, &doc); err != nil || doc.Result == nil {
		out := rejected(KindConfirmError, "unreadable confirm response")
		return confirmedWager{}, &out
	}
	if doc.Result.ErrorMessage != "" {
		out := rejected(classifyConfirmMessage(doc.Result.ErrorMessage), doc.Result.ErrorMessage)
		return confirmedWager{}, &out
	}

	confirmed := confirmedWager{
		Risk: req.Amount,
		Win:  int64(math.Round(float64(req.Amount) * 0.91)),
	}
	if len(doc.Result.Details) > 0 {
		d := doc.Result.Details[0]
		if d.Risk > 0 {
			confirmed.Risk = int64(math.Round(d.Risk))
		}
		if d.Win > 0 {
			confirmed.Win = int64(math.Round(d.Win))
		}
	}
	return confirmed, nil
}

// postWager commits the wager. The "line changed since confirm" error code
// maps to OddsChanged; other non-empty codes are post errors.
func (c *Client) postWager(ctx context.Context, req models.WagerRequest, compiled compiledWager, confirmed confirmedWager) Outcome {
	postRequest := postWagerRequest{
		WT:                     int(req.WagerType),
		Open:                   0,
		IDWT:                   compiled.IDWT,
		Sel:                    req.Selection,
		SameAmount:             true,
		AmountType:             1,
		DetailData:             c.detailData(req, compiled),
		ConfirmPassword:        req.Password,
		SameAmountNumber:       strconv.FormatInt(req.Amount, 10),
		UseFreePlayAmount:      false,
		RoundRobinCombinations: "0",
	}
	encoded, err := json.Marshal([]postWagerRequest{postRequest})
	if err != nil {
		return rejected(KindPostError, fmt.Sprintf("failed to encode post request: %v", err))
	}

	form := url.Values{"postWagerRequests": {string(encoded)}}
	resp, err := c.http.postForm(ctx, pathPost, form, xhrHeaders(""))
	if err != nil {
		return rejected(KindNetworkError, err.Error())
	}
	if looksLikeLoginPage(resp.Body) {
		c.sessionExpired()
		return rejected(KindSessionExpired, "session expired, please login again")
	}

	var doc postResponse
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return rejected(KindPostError, "unreadable post response")
	}
	result := doc.firstResult()
	if result == nil {
		return rejected(KindPostError, "post response missing wager result")
	}
	if result.ErrorMsgKey != "" {
		if result.ErrorMsgKey == "GAMELINECHANGE" {
			return rejected(KindOddsChanged, "odds have changed")
		}
		return rejected(KindPostError, result.ErrorMsgKey)
	}

	outcome := Outcome{
		Placed:      true,
		Ticket:      "Unknown",
		Risk:        confirmed.Risk,
		Win:         confirmed.Win,
		Description: compiled.Description,
	}
	if len(result.Details) > 0 {
		d := result.Details[0]
		if d.TicketNumber != "" {
			outcome.Ticket = d.TicketNumber.String()
		}
		if d.Risk > 0 {
			outcome.Risk = int64(math.Round(d.Risk))
		}
		if d.Win > 0 {
			outcome.Win = int64(math.Round(d.Win))
		}
	}
	slog.Info("wager placed", "ticket", outcome.Ticket, "risk", outcome.Risk, "win", outcome.Win)
	return outcome
}

// wagerForm builds the confirm-phase form. amountType=1 and the detailData
// shape are upstream protocol constants.
func (c *Client) wagerForm(req models.WagerRequest, compiled compiledWager) url.Values {
	return url.Values{
		"WT":                     {strconv.Itoa(int(req.WagerType))},
		"open":                   {"0"},
		"IDWT":                   {compiled.IDWT},
		"sel":                    {req.Selection},
		"amountType":             {"1"},
		"sameAmount":             {"true"},
		"detailData":             {c.detailData(req, compiled)},
		"sameAmountNumber":       {strconv.FormatInt(req.Amount, 10)},
		"useFreePlayAmount":      {"false"},
		"roundRobinCombinations": {"0"},
	}
}

// detailData is the JSON-encoded per-leg payload both later phases carry.
func (c *Client) detailData(req models.WagerRequest, compiled compiledWager) string {
	detail := []wagerDetailData{{
		IDGame:  compiled.GameID,
		Play:    compiled.Play,
		Amount:  req.Amount,
		RiskWin: 0,
		Pitcher: compiled.Pitcher,
		Points:  wagerPointsData{Selected: true},
	}}
	encoded, _ := json.Marshal(detail)
	return string(encoded)
}
