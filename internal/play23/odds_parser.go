package play23

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// Documented odds defaults for lines upstream sends without a price.
const (
	defaultSpreadOdds       = "-110"
	defaultTotalOdds        = "-110"
	defaultVisitorMoneyline = "+100"
	defaultHomeMoneyline    = "-100"
)

var (
	spreadFigurePattern = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)([+-]\d+)`)
	totalFigurePattern  = regexp.MustCompile(`(?i)[ou]?(\d+(?:\.\d+)?)([+-]\d+)`)
	totalPrefixPattern  = regexp.MustCompile(`(?i)^[ou]`)
)

// FetchSchedule retrieves and normalizes the odds board for one league.
// Parse failures never surface as errors: they become a fallback schedule
// with empty games. Only transport failures return an error.
func (c *Client) FetchSchedule(ctx context.Context, leagueID int, wagerType models.WagerType) (models.Schedule, error) {
	if err := c.requireAuth(); err != nil {
		return models.Schedule{}, err
	}

	query := url.Values{
		"WT": {strconv.Itoa(int(wagerType))},
		"lg": {strconv.Itoa(leagueID)},
	}
	headers := xhrHeaders("application/json, text/html, */*")
	headers["Referer"] = c.http.baseURL + "/wager/NewSchedule.aspx"

	resp, err := c.http.get(ctx, pathSchedule, query, headers)
	if err != nil {
		return models.Schedule{}, newClientError(KindNetworkError, "schedule fetch failed", err)
	}
	return normalizeSchedule(resp, leagueID), nil
}

// SearchSchedule applies the upstream quickfilter to one league's board.
func (c *Client) SearchSchedule(ctx context.Context, queryText string, leagueID int) (models.Schedule, error) {
	if err := c.requireAuth(); err != nil {
		return models.Schedule{}, err
	}

	query := url.Values{
		"WT":          {strconv.Itoa(int(models.WagerStraight))},
		"lg":          {strconv.Itoa(leagueID)},
		"quickfilter": {queryText},
	}
	resp, err := c.http.get(ctx, pathSchedule, query, xhrHeaders("text/html, */*"))
	if err != nil {
		return models.Schedule{}, newClientError(KindNetworkError, "schedule search failed", err)
	}
	return normalizeSchedule(resp, leagueID), nil
}

// normalizeSchedule dispatches on the response shape, never on caller input:
// JSON bodies go through the canonical parser, anything else through the
// best-effort markup parser.
func normalizeSchedule(resp *upstreamResponse, leagueID int) models.Schedule {
	trimmed := strings.TrimSpace(string(resp.Body))

	var (
		schedule models.Schedule
		ok       bool
	)
	if strings.HasPrefix(trimmed, "{") || strings.Contains(resp.ContentType, "json") {
		schedule, ok = parseScheduleJSON(resp.Body, leagueID)
	} else {
		schedule, ok = parseScheduleMarkup(trimmed, leagueID)
	}
	if !ok {
		return models.FallbackSchedule(leagueID, fallbackMessage(leagueID))
	}
	return schedule
}

// parseScheduleJSON walks the nested schedule document, keeps the primary
// game-lines section and normalizes each game. Games whose six selection
// tokens cannot all be derived are dropped, not partially emitted.
func parseScheduleJSON(data []byte, leagueID int) (models.Schedule, bool) {
	var doc scheduleResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Debug("schedule JSON unmarshal failed", "league", leagueID, "error", err)
		return models.Schedule{}, false
	}
	if doc.Result == nil || len(doc.Result.ListLeagues) == 0 {
		return models.Schedule{}, false
	}

	games := []models.Game{}
	for _, section := range doc.Result.ListLeagues[0] {
		if !strings.Contains(section.Description, "GAME LINES") || len(section.Games) == 0 {
			continue
		}
		for _, sg := range section.Games {
			game, ok := normalizeGame(sg)
			if !ok {
				slog.Debug("dropping game without derivable lines", "league", leagueID, "game", sg.IDGame)
				continue
			}
			games = append(games, game)
		}
		break // only the first game-lines section carries the main markets
	}

	if len(games) == 0 {
		return models.Schedule{}, false
	}
	slog.Info("parsed schedule", "league", leagueID, "games", len(games))
	return models.Schedule{LeagueID: leagueID, Games: games, Source: models.SourceLive}, true
}

func normalizeGame(sg scheduleGame) (models.Game, bool) {
	if len(sg.GameLines) == 0 || sg.IDGame == 0 {
		return models.Game{}, false
	}
	line := sg.GameLines[0]

	vSpread := parseSpreadFigure(line.VisitorSpread, line.VisitorSpreadPoints)
	hSpread := parseSpreadFigure(line.HomeSpread, line.HomeSpreadPoints)
	over := parseTotalFigure(line.Over, line.TotalPoints)
	under := parseTotalFigure(line.Under, line.TotalPoints)

	vML := line.VisitorMoneyline
	if vML == "" {
		vML = defaultVisitorMoneyline
	}
	hML := line.HomeMoneyline
	if hML == "" {
		hML = defaultHomeMoneyline
	}

	game := models.Game{
		ID:       strconv.FormatInt(sg.IDGame, 10),
		PeriodID: sg.IDPeriod,
		Date:     formatGameDate(sg.GameDate.String()),
		Time:     formatGameTime(sg.GameTime.String()),
		Visiting: models.Team{Name: sg.Visitor, Rotation: sg.VisitorNum.String()},
		Home:     models.Team{Name: sg.Home, Rotation: sg.HomeNum.String()},
		Spread: models.Spread{
			VisitorLine:    vSpread.Line,
			VisitorOdds:    vSpread.Odds,
			VisitorDisplay: vSpread.Display,
			HomeLine:       hSpread.Line,
			HomeOdds:       hSpread.Odds,
			HomeDisplay:    hSpread.Display,
		},
		Total: models.Total{
			Line:      over.Line,
			Display:   over.Display,
			OverOdds:  over.Odds,
			UnderOdds: under.Odds,
		},
		Moneyline: models.Moneyline{VisitorOdds: vML, HomeOdds: hML},
	}

	tokens, ok := selectionTokensFor(game)
	if !ok {
		return models.Game{}, false
	}
	game.Selections = tokens
	return game, true
}

// marketFigure is one parsed market string: the machine line, the american
// odds and the verbatim display form.
type marketFigure struct {
	Line    string
	Odds    string
	Display string
}

// parseSpreadFigure reads strings like "+4½-108" or "-3-108". The half-point
// glyph and its HTML-entity form both normalize to .5. When the separate
// numeric points field is present it is authoritative for the line value.
func parseSpreadFigure(raw string, points *float64) marketFigure {
	if raw == "" {
		return marketFigure{Line: "0", Odds: defaultSpreadOdds, Display: "0"}
	}
	clean := normalizeHalfGlyph(raw)
	m := spreadFigurePattern.FindStringSubmatch(clean)
	if m == nil {
		return marketFigure{Line: "0", Odds: defaultSpreadOdds, Display: "0"}
	}
	line := strings.TrimPrefix(m[1], "+")
	if points != nil {
		line = formatPoints(*points)
	}
	return marketFigure{
		Line:    line,
		Odds:    m[2],
		Display: strings.ReplaceAll(raw, "&frac12;", "½"),
	}
}

// parseTotalFigure reads strings like "o222-110" / "u222½+105".
func parseTotalFigure(raw string, points *float64) marketFigure {
	if raw == "" {
		return marketFigure{Line: "220", Odds: defaultTotalOdds, Display: "220"}
	}
	clean := normalizeHalfGlyph(raw)
	m := totalFigurePattern.FindStringSubmatch(clean)
	if m == nil {
		return marketFigure{Line: "220", Odds: defaultTotalOdds, Display: "220"}
	}
	line := m[1]
	if points != nil {
		line = formatPoints(*points)
	}
	display := strings.ReplaceAll(raw, "&frac12;", "½")
	display = totalPrefixPattern.ReplaceAllString(display, "")
	return marketFigure{Line: line, Odds: m[2], Display: display}
}

func normalizeHalfGlyph(s string) string {
	s = strings.ReplaceAll(s, "&frac12;", ".5")
	return strings.ReplaceAll(s, "½", ".5")
}

// formatGameDate turns "20260203" into "02/03". Anything shorter stays a
// relative label.
func formatGameDate(raw string) string {
	if len(raw) >= 8 {
		return raw[4:6] + "/" + raw[6:8]
	}
	return "Today"
}

func formatGameTime(raw string) string {
	if len(raw) >= 5 {
		return raw[:5]
	}
	return "TBD"
}

// fallbackMessage is the human-readable explanation attached to an empty
// fallback schedule.
func fallbackMessage(leagueID int) string {
	switch leagueID {
	case 4029:
		return "No NFL games available (check if off-season)"
	case 535:
		return "No NBA games available at this time"
	case 43:
		return "No College Basketball games available at this time"
	case 430:
		return "No NFL 1st Half games available"
	case 3, 1278, 1566:
		return "No soccer games available"
	}
	if name := leagueName(leagueID); name != "" {
		return fmt.Sprintf("No %s games available at this time", name)
	}
	return fmt.Sprintf("No games available for league %d", leagueID)
}
