package play23

import (
	"testing"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

func TestParseSpreadFigure(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		raw      string
		points   *float64
		wantLine string
		wantOdds string
	}{
		{"+4½-108", nil, "4.5", "-108"},
		{"+4&frac12;-108", nil, "4.5", "-108"},
		{"-3-108", nil, "-3", "-108"},
		{"-3.5-110", nil, "-3.5", "-110"},
		{"+7½+100", nil, "7.5", "+100"},
		// Numeric points field is authoritative over the display string.
		{"+4-105", f(4.5), "4.5", "-105"},
		{"-3-108", f(-3), "-3", "-108"},
		// Unreadable input falls back to the documented defaults.
		{"", nil, "0", "-110"},
		{"garbage", nil, "0", "-110"},
	}
	for _, tt := range tests {
		got := parseSpreadFigure(tt.raw, tt.points)
		if got.Line != tt.wantLine || got.Odds != tt.wantOdds {
			t.Errorf("parseSpreadFigure(%q) = {%s %s}, want {%s %s}",
				tt.raw, got.Line, got.Odds, tt.wantLine, tt.wantOdds)
		}
	}
}

func TestParseSpreadFigureDisplay(t *testing.T) {
	got := parseSpreadFigure("+4&frac12;-108", nil)
	if got.Display != "+4½-108" {
		t.Errorf("display = %q, want +4½-108", got.Display)
	}
}

func TestParseTotalFigure(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		raw      string
		points   *float64
		wantLine string
		wantOdds string
	}{
		{"o222-110", nil, "222", "-110"},
		{"u222-110", nil, "222", "-110"},
		{"o221½-105", nil, "221.5", "-105"},
		{"u221&frac12;+102", nil, "221.5", "+102"},
		{"o48-110", f(48.5), "48.5", "-110"},
		{"", nil, "220", "-110"},
	}
	for _, tt := range tests {
		got := parseTotalFigure(tt.raw, tt.points)
		if got.Line != tt.wantLine || got.Odds != tt.wantOdds {
			t.Errorf("parseTotalFigure(%q) = {%s %s}, want {%s %s}",
				tt.raw, got.Line, got.Odds, tt.wantLine, tt.wantOdds)
		}
	}
}

const scheduleFixture = `{
  "result": {
    "listLeagues": [[
      {"Description": "NBA - FUTURES", "Games": []},
      {"Description": "NBA - GAME LINES", "Games": [
        {
          "idgm": 5421290, "idgp": 1,
          "gmdt": "20260203", "gmtm": "22:10:00",
          "vtm": "LA LAKERS", "htm": "BOSTON CELTICS",
          "vnum": 501, "hnum": "502",
          "GameLines": [{
            "vsprdh": "+4½-108", "hsprdh": "-4½-112",
            "ovh": "o222-110", "unh": "u222-110", "unt": 222,
            "voddsh": "+160", "hoddsh": "-180"
          }]
        },
        {
          "idgm": 5421291,
          "gmdt": "20260204", "gmtm": "19:30:00",
          "vtm": "MIAMI HEAT", "htm": "NY KNICKS",
          "vnum": "503", "hnum": "504",
          "GameLines": [{
            "vsprdh": "+2-105", "vsprdt": 2.5,
            "hsprdh": "-2-115", "hsprdt": -2.5,
            "ovh": "o215-110", "unh": "u215-110",
            "voddsh": "", "hoddsh": ""
          }]
        },
        {"idgm": 5421292, "vtm": "NO LINES", "htm": "YET", "GameLines": []}
      ]}
    ]]
  }
}`

func TestParseScheduleJSON(t *testing.T) {
	schedule, ok := parseScheduleJSON([]byte(scheduleFixture), 535)
	if !ok {
		t.Fatal("expected schedule to parse")
	}
	if schedule.Source != models.SourceLive {
		t.Fatalf("source = %q, want live", schedule.Source)
	}
	if len(schedule.Games) != 2 {
		t.Fatalf("got %d games, want 2 (game without lines dropped)", len(schedule.Games))
	}

	g := schedule.Games[0]
	if g.ID != "5421290" {
		t.Errorf("game id = %q", g.ID)
	}
	if g.Date != "02/03" || g.Time != "22:10" {
		t.Errorf("date/time = %q %q, want 02/03 22:10", g.Date, g.Time)
	}
	if g.Visiting.Rotation != "501" || g.Home.Rotation != "502" {
		t.Errorf("rotations = %q %q", g.Visiting.Rotation, g.Home.Rotation)
	}
	if g.Spread.VisitorLine != "4.5" || g.Spread.VisitorOdds != "-108" {
		t.Errorf("visitor spread = %q %q", g.Spread.VisitorLine, g.Spread.VisitorOdds)
	}
	if g.Total.Line != "222" || g.Total.OverOdds != "-110" || g.Total.UnderOdds != "-110" {
		t.Errorf("total = %+v", g.Total)
	}
	if g.Moneyline.VisitorOdds != "+160" || g.Moneyline.HomeOdds != "-180" {
		t.Errorf("moneyline = %+v", g.Moneyline)
	}
	if !g.Selections.Complete() {
		t.Errorf("selection tokens incomplete: %+v", g.Selections)
	}
	if g.Selections.SpreadVisitor != "0_5421290_4.5_-108" {
		t.Errorf("spread visitor token = %q", g.Selections.SpreadVisitor)
	}
	if g.Selections.Under != "1_5421290_222_-110" {
		t.Errorf("under token = %q", g.Selections.Under)
	}

	// Second game: numeric points win, missing moneylines get the defaults.
	g = schedule.Games[1]
	if g.Spread.VisitorLine != "2.5" || g.Spread.HomeLine != "-2.5" {
		t.Errorf("numeric points not authoritative: %+v", g.Spread)
	}
	if g.Moneyline.VisitorOdds != "+100" || g.Moneyline.HomeOdds != "-100" {
		t.Errorf("moneyline defaults not applied: %+v", g.Moneyline)
	}
}

func TestParseScheduleJSONEmpty(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"result": {"listLeagues": []}}`,
		`{"result": {"listLeagues": [[{"Description": "NBA - GAME LINES", "Games": []}]]}}`,
		`not json at all`,
	} {
		if _, ok := parseScheduleJSON([]byte(body), 535); ok {
			t.Errorf("parseScheduleJSON(%q) succeeded, want failure", body)
		}
	}
}

func TestNormalizeScheduleFallback(t *testing.T) {
	resp := &upstreamResponse{Body: []byte(`{"result":{"listLeagues":[]}}`), ContentType: "application/json"}
	schedule := normalizeSchedule(resp, 4029)
	if schedule.Source != models.SourceFallback {
		t.Fatalf("source = %q, want fallback", schedule.Source)
	}
	if len(schedule.Games) != 0 {
		t.Fatalf("fallback schedule carries %d games, want 0", len(schedule.Games))
	}
	if schedule.Message == "" {
		t.Error("fallback schedule has no message")
	}
}

func TestFallbackMessages(t *testing.T) {
	tests := []struct {
		leagueID int
		want     string
	}{
		{4029, "No NFL games available (check if off-season)"},
		{535, "No NBA games available at this time"},
		{3, "No soccer games available"},
		{99999, "No games available for league 99999"},
	}
	for _, tt := range tests {
		if got := fallbackMessage(tt.leagueID); got != tt.want {
			t.Errorf("fallbackMessage(%d) = %q, want %q", tt.leagueID, got, tt.want)
		}
	}
}

func TestFormatGameDateTime(t *testing.T) {
	if got := formatGameDate("20260203"); got != "02/03" {
		t.Errorf("formatGameDate = %q", got)
	}
	if got := formatGameDate(""); got != "Today" {
		t.Errorf("formatGameDate empty = %q", got)
	}
	if got := formatGameTime("22:10:00"); got != "22:10" {
		t.Errorf("formatGameTime = %q", got)
	}
	if got := formatGameTime(""); got != "TBD" {
		t.Errorf("formatGameTime empty = %q", got)
	}
}
