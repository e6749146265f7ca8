package models

// League is static reference data for a bettable league.
type League struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

// Team is one side of a game: display name plus the sportsbook rotation number.
type Team struct {
	Name     string `json:"name"`
	Rotation string `json:"rotation"`
}

// Spread holds the point-handicap market for both sides. Line values are
// machine-readable decimals ("4.5"); Display keeps the upstream string
// verbatim (half points rendered as the ½ glyph).
type Spread struct {
	VisitorLine    string `json:"visitorLine"`
	VisitorOdds    string `json:"visitorOdds"`
	VisitorDisplay string `json:"visitorDisplay,omitempty"`
	HomeLine       string `json:"homeLine"`
	HomeOdds       string `json:"homeOdds"`
	HomeDisplay    string `json:"homeDisplay,omitempty"`
}

// Total holds the combined-score market. Over and under share one line.
type Total struct {
	Line      string `json:"line"`
	Display   string `json:"display,omitempty"`
	OverOdds  string `json:"overOdds"`
	UnderOdds string `json:"underOdds"`
}

// Moneyline holds win-only odds for both sides.
type Moneyline struct {
	VisitorOdds string `json:"visitorOdds"`
	HomeOdds    string `json:"homeOdds"`
}

// SelectionTokens carries the six encoded bet lines of a game in upstream
// wire format (side_gameId_line_odds).
type SelectionTokens struct {
	SpreadVisitor    string `json:"spreadVisitor"`
	SpreadHome       string `json:"spreadHome"`
	Over             string `json:"over"`
	Under            string `json:"under"`
	MoneylineVisitor string `json:"moneylineVisitor"`
	MoneylineHome    string `json:"moneylineHome"`
}

// Complete reports whether all six tokens are populated. A game is only
// surfaced when this holds.
func (s SelectionTokens) Complete() bool {
	return s.SpreadVisitor != "" && s.SpreadHome != "" &&
		s.Over != "" && s.Under != "" &&
		s.MoneylineVisitor != "" && s.MoneylineHome != ""
}

// Game is one normalized upstream game with all three main markets.
// Date and Time stay display strings: upstream gives no timezone guarantee.
type Game struct {
	ID         string          `json:"id"`
	PeriodID   int             `json:"periodId,omitempty"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Visiting   Team            `json:"visitingTeam"`
	Home       Team            `json:"homeTeam"`
	Spread     Spread          `json:"spread"`
	Total      Total           `json:"total"`
	Moneyline  Moneyline       `json:"moneyline"`
	Selections SelectionTokens `json:"selectionTokens"`
}

// ScheduleSource tags where a schedule came from.
type ScheduleSource string

const (
	// SourceLive means games were parsed from an upstream response.
	SourceLive ScheduleSource = "live"
	// SourceFallback means no games could be recovered. Fallback communicates
	// absence; it never carries synthetic games.
	SourceFallback ScheduleSource = "fallback"
)

// Schedule is the canonical odds result for one league fetch.
type Schedule struct {
	LeagueID int            `json:"leagueId"`
	Games    []Game         `json:"games"`
	Source   ScheduleSource `json:"source"`
	Message  string         `json:"message,omitempty"`
}

// FallbackSchedule builds the explicit empty result for a league.
func FallbackSchedule(leagueID int, message string) Schedule {
	return Schedule{
		LeagueID: leagueID,
		Games:    []Game{},
		Source:   SourceFallback,
		Message:  message,
	}
}

// Balance is an account snapshot in minor currency units.
type Balance struct {
	Current   int64 `json:"current"`
	Available int64 `json:"available"`
	AtRisk    int64 `json:"atRisk"`
}
