package play23

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

// Market identifies one of the three main wagering markets.
type Market string

const (
	MarketSpread    Market = "spread"
	MarketTotal     Market = "total"
	MarketMoneyline Market = "moneyline"
)

// Side selects one half of a market. The numeric values are a fixed upstream
// convention: 0 is the visiting spread, the over and the visiting moneyline;
// 1 is the home spread, the under and the home moneyline.
type Side int

const (
	SidePrimary   Side = 0
	SideSecondary Side = 1
)

// Selection is a decoded bet line. Line is a decimal-as-string ("4.5",
// "0" for moneylines); Odds is a signed american price ("-108", "+100").
type Selection struct {
	Side   Side
	GameID string
	Line   string
	Odds   string
}

var (
	lineValuePattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	oddsValuePattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// Token serializes the selection into upstream wire format, e.g.
// "0_5421290_4.5_-108".
func (s Selection) Token() string {
	return fmt.Sprintf("%d_%s_%s_%s", s.Side, s.GameID, s.Line, s.Odds)
}

// DecodeSelection parses a selection token back into its fields. It is the
// inverse of Selection.Token for every token this package produces.
func DecodeSelection(token string) (Selection, error) {
	parts := strings.Split(token, "_")
	if len(parts) != 4 {
		return Selection{}, fmt.Errorf("selection %q: want 4 fields, got %d", token, len(parts))
	}

	side, err := strconv.Atoi(parts[0])
	if err != nil || (side != 0 && side != 1) {
		return Selection{}, fmt.Errorf("selection %q: bad side %q", token, parts[0])
	}
	if parts[1] == "" {
		return Selection{}, fmt.Errorf("selection %q: empty game id", token)
	}
	if !lineValuePattern.MatchString(parts[2]) {
		return Selection{}, fmt.Errorf("selection %q: bad line %q", token, parts[2])
	}
	if !oddsValuePattern.MatchString(parts[3]) {
		return Selection{}, fmt.Errorf("selection %q: bad odds %q", token, parts[3])
	}

	return Selection{
		Side:   Side(side),
		GameID: parts[1],
		Line:   parts[2],
		Odds:   parts[3],
	}, nil
}

// EncodeSelection builds the token for one (game, market, side) triple.
// Moneyline tokens always carry line 0.
func EncodeSelection(g models.Game, market Market, side Side) (string, error) {
	sel := Selection{Side: side, GameID: g.ID}

	switch market {
	case MarketSpread:
		if side == SidePrimary {
			sel.Line, sel.Odds = g.Spread.VisitorLine, g.Spread.VisitorOdds
		} else {
			sel.Line, sel.Odds = g.Spread.HomeLine, g.Spread.HomeOdds
		}
	case MarketTotal:
		sel.Line = g.Total.Line
		if side == SidePrimary {
			sel.Odds = g.Total.OverOdds
		} else {
			sel.Odds = g.Total.UnderOdds
		}
	case MarketMoneyline:
		sel.Line = "0"
		if side == SidePrimary {
			sel.Odds = g.Moneyline.VisitorOdds
		} else {
			sel.Odds = g.Moneyline.HomeOdds
		}
	default:
		return "", fmt.Errorf("unknown market %q", market)
	}

	if g.ID == "" || sel.Line == "" || sel.Odds == "" {
		return "", fmt.Errorf("game %q: %s/%d not derivable", g.ID, market, side)
	}
	return sel.Token(), nil
}

// selectionTokensFor derives all six tokens for a game. The second return is
// false when any token is missing; such a game must be dropped.
func selectionTokensFor(g models.Game) (models.SelectionTokens, bool) {
	var tokens models.SelectionTokens
	fields := []struct {
		dst    *string
		market Market
		side   Side
	}{
		{&tokens.SpreadVisitor, MarketSpread, SidePrimary},
		{&tokens.SpreadHome, MarketSpread, SideSecondary},
		{&tokens.Over, MarketTotal, SidePrimary},
		{&tokens.Under, MarketTotal, SideSecondary},
		{&tokens.MoneylineVisitor, MarketMoneyline, SidePrimary},
		{&tokens.MoneylineHome, MarketMoneyline, SideSecondary},
	}
	for _, f := range fields {
		token, err := EncodeSelection(g, f.market, f.side)
		if err != nil {
			return models.SelectionTokens{}, false
		}
		*f.dst = token
	}
	return tokens, true
}
