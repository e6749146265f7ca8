package models

// WagerType is the upstream wager-type id.
type WagerType int

const (
	WagerStraight WagerType = 0
	WagerParlay   WagerType = 1
	WagerTeaser   WagerType = 2
)

func (w WagerType) String() string {
	switch w {
	case WagerStraight:
		return "straight"
	case WagerParlay:
		return "parlay"
	case WagerTeaser:
		return "teaser"
	}
	return "unknown"
}

// WagerRequest is one placement attempt. Password is the account credential
// upstream demands as a confirmation factor; it is forwarded, never stored.
type WagerRequest struct {
	Selection string    `json:"selection"`
	Amount    int64     `json:"amount"`
	Password  string    `json:"password"`
	WagerType WagerType `json:"wagerType"`
	LeagueID  int       `json:"leagueId,omitempty"`
}

// OpenBets is the normalized open-wagers report. Upstream only exposes this
// page as markup, so Raw keeps a snippet for display until a structured
// parse exists.
type OpenBets struct {
	Bets []string `json:"bets"`
	Raw  string   `json:"raw,omitempty"`
}
