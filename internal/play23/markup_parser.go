package play23

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// The markup path recovers games positionally from loosely structured
// tables: rotation numbers, bolded team names and line figures appear in
// document order, two teams (away, home) per game. It is best-effort by
// nature, so every game is count-validated before it is emitted; a game
// with missing paired data is dropped, never guessed.
var (
	markupRotPattern    = regexp.MustCompile(`>(\d{3,4})<`)
	markupTeamPattern   = regexp.MustCompile(`^[A-Z][A-Z0-9\s\.]+$`)
	markupSpreadPattern = regexp.MustCompile(`([+-]\d+(?:[½.]\d*)?)\s*(?:<[^>]*>)?\s*([+-]\d{3})`)
	markupTotalPattern  = regexp.MustCompile(`(?i)([ou])(\d+(?:[½.]\d*)?)\s*(?:<[^>]*>)?\s*([+-]\d{3})`)
	markupMLPattern     = regexp.MustCompile(`>([+-]\d{3})<`)
	markupTimePattern   = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:AM|PM)?)`)
	markupDatePattern   = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2}`)
)

func parseScheduleMarkup(html string, leagueID int) (models.Schedule, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Debug("markup parse failed", "league", leagueID, "error", err)
		return models.Schedule{}, false
	}

	rotations := submatches(markupRotPattern, html)

	var teams []string
	doc.Find("b").Each(func(_ int, sel *goquery.Selection) {
		name := strings.ToUpper(strings.TrimSpace(sel.Text()))
		if markupTeamPattern.MatchString(name) {
			teams = append(teams, name)
		}
	})

	spreads := markupSpreadPattern.FindAllStringSubmatch(html, -1)
	totals := markupTotalPattern.FindAllStringSubmatch(html, -1)
	moneylines := submatches(markupMLPattern, html)
	times := submatches(markupTimePattern, html)
	dates := markupDatePattern.FindAllString(html, -1)

	games := []models.Game{}
	for i := 0; i+1 < len(rotations); i += 2 {
		gameIdx := i / 2

		// Count-matching: both teams, both spreads and the game's total must
		// exist at the expected positions.
		if i+1 >= len(teams) || i+1 >= len(spreads) || gameIdx >= len(totals) {
			slog.Debug("dropping markup game with unpaired data",
				"league", leagueID, "rotation", rotations[i])
			continue
		}

		awaySpread := markupFigure(spreads[i][1], spreads[i][2])
		homeSpread := markupFigure(spreads[i+1][1], spreads[i+1][2])

		total := totals[gameIdx]
		totalLine := normalizeHalfGlyph(total[2])
		overOdds, underOdds := defaultTotalOdds, defaultTotalOdds
		if strings.EqualFold(total[1], "o") {
			overOdds = total[3]
		} else {
			underOdds = total[3]
		}

		awayML, homeML := defaultVisitorMoneyline, defaultHomeMoneyline
		if i+1 < len(moneylines) {
			awayML, homeML = moneylines[i], moneylines[i+1]
		}

		game := models.Game{
			// No upstream game id in markup; rotation numbers disambiguate.
			ID:       rotations[i] + rotations[i+1],
			Date:     pick(dates, gameIdx, "Today"),
			Time:     pick(times, gameIdx, "TBD"),
			Visiting: models.Team{Name: teams[i], Rotation: rotations[i]},
			Home:     models.Team{Name: teams[i+1], Rotation: rotations[i+1]},
			Spread: models.Spread{
				VisitorLine:    awaySpread.Line,
				VisitorOdds:    awaySpread.Odds,
				VisitorDisplay: awaySpread.Display,
				HomeLine:       homeSpread.Line,
				HomeOdds:       homeSpread.Odds,
				HomeDisplay:    homeSpread.Display,
			},
			Total: models.Total{
				Line:      totalLine,
				Display:   total[2],
				OverOdds:  overOdds,
				UnderOdds: underOdds,
			},
			Moneyline: models.Moneyline{VisitorOdds: awayML, HomeOdds: homeML},
		}

		tokens, ok := selectionTokensFor(game)
		if !ok {
			slog.Debug("dropping markup game without derivable tokens", "league", leagueID, "game", game.ID)
			continue
		}
		game.Selections = tokens
		games = append(games, game)
	}

	if len(games) == 0 {
		return models.Schedule{}, false
	}
	slog.Info("parsed schedule from markup", "league", leagueID, "games", len(games))
	return models.Schedule{LeagueID: leagueID, Games: games, Source: models.SourceLive}, true
}

func markupFigure(line, odds string) marketFigure {
	return marketFigure{
		Line:    strings.TrimPrefix(normalizeHalfGlyph(line), "+"),
		Odds:    odds,
		Display: line,
	}
}

func submatches(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

func pick(values []string, idx int, fallback string) string {
	if idx < len(values) {
		return values[idx]
	}
	return fallback
}
