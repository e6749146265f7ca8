package play23

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString decodes a JSON field that upstream emits as either a string or
// a bare number, depending on endpoint revision.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

// Schedule endpoint envelope. listLeagues holds one list per requested
// league; each list is split into sections ("GAME LINES", props, futures).
type scheduleResponse struct {
	Result *scheduleResult `json:"result"`
}

type scheduleResult struct {
	ListLeagues [][]scheduleSection `json:"listLeagues"`
}

type scheduleSection struct {
	Description string         `json:"Description"`
	Games       []scheduleGame `json:"Games"`
}

type scheduleGame struct {
	IDGame     int64      `json:"idgm"`
	IDPeriod   int        `json:"idgp"`
	GameDate   flexString `json:"gmdt"` // "20260203"
	GameTime   flexString `json:"gmtm"` // "22:10:00"
	Visitor    string     `json:"vtm"`
	Home       string     `json:"htm"`
	VisitorNum flexString `json:"vnum"`
	HomeNum    flexString `json:"hnum"`
	GameLines  []gameLine `json:"GameLines"`
}

// gameLine holds the display strings plus, where present, the authoritative
// numeric points. The numeric field wins for machine-readable line values;
// the display string is kept verbatim for humans.
type gameLine struct {
	VisitorSpread       string   `json:"vsprdh"` // "+4½-108"
	VisitorSpreadPoints *float64 `json:"vsprdt"`
	HomeSpread          string   `json:"hsprdh"`
	HomeSpreadPoints    *float64 `json:"hsprdt"`
	Over                string   `json:"ovh"` // "o222-110"
	Under               string   `json:"unh"` // "u222-110"
	TotalPoints         *float64 `json:"unt"`
	VisitorMoneyline    string   `json:"voddsh"`
	HomeMoneyline       string   `json:"hoddsh"`
}

// Wager compile envelope.
type compileResponse struct {
	Result *compileResult `json:"result"`
}

type compileResult struct {
	ErrorMessage string        `json:"ErrorMessage"`
	WagerCompile *wagerCompile `json:"WagerCompile"`
}

type wagerCompile struct {
	Details []compileDetail `json:"details"`
}

type compileDetail struct {
	IDWT    flexString  `json:"IDWT"`
	Details []legDetail `json:"details"`
}

type legDetail struct {
	Description string     `json:"Description"`
	IDGame      int64      `json:"IdGame"`
	Play        flexString `json:"Play"`
	Pitcher     int        `json:"Pitcher"`
}

// Wager confirm envelope.
type confirmResponse struct {
	Result *confirmResult `json:"result"`
}

type confirmResult struct {
	ErrorMessage string          `json:"ErrorMessage"`
	Details      []confirmDetail `json:"details"`
}

type confirmDetail struct {
	Risk float64 `json:"Risk"`
	Win  float64 `json:"Win"`
}

// Wager post envelope. result is usually an array of per-request results,
// but one upstream revision returns a single object; postResults handles both.
type postResponse struct {
	Result json.RawMessage `json:"result"`
}

type postResultItem struct {
	WagerPostResult *wagerPostResult `json:"WagerPostResult"`
}

type wagerPostResult struct {
	ErrorMsgKey string       `json:"ErrorMsgKey"`
	Details     []postDetail `json:"details"`
}

type postDetail struct {
	TicketNumber flexString `json:"TicketNumber"`
	Risk         float64    `json:"Risk"`
	Win          float64    `json:"Win"`
}

func (r *postResponse) firstResult() *wagerPostResult {
	if len(r.Result) == 0 {
		return nil
	}
	var items []postResultItem
	if err := json.Unmarshal(r.Result, &items); err == nil {
		if len(items) > 0 && items[0].WagerPostResult != nil {
			return items[0].WagerPostResult
		}
		return nil
	}
	var item postResultItem
	if err := json.Unmarshal(r.Result, &item); err == nil {
		return item.WagerPostResult
	}
	return nil
}

// Player info envelope (balance endpoint).
type playerInfoResponse struct {
	Result *playerInfo `json:"result"`
}

type playerInfo struct {
	CurrentBalance   flexString `json:"CurrentBalance"`
	RealAvailBalance flexString `json:"RealAvailBalance"`
	AmountAtRisk     flexString `json:"AmountAtRisk"`
}

// detailData is the JSON-encoded per-leg payload the confirm and post
// phases both require, built from the compiled descriptor.
type wagerDetailData struct {
	IDGame                int64           `json:"IdGame"`
	Play                  string          `json:"Play"`
	Amount                int64           `json:"Amount"`
	RiskWin               int             `json:"RiskWin"`
	Pitcher               int             `json:"Pitcher"`
	TeaserPointsPurchased int             `json:"TeaserPointsPurchased"`
	Points                wagerPointsData `json:"Points"`
}

// postWagerRequest is the JSON element of the postWagerRequests form field.
// Field types match what the upstream frontend sends: amountType is an
// integer and the password travels as confirmPassword at this phase.
type postWagerRequest struct {
	WT                     int    `json:"WT"`
	Open                   int    `json:"open"`
	IDWT                   string `json:"IDWT"`
	Sel                    string `json:"sel"`
	SameAmount             bool   `json:"sameAmount"`
	AmountType             int    `json:"amountType"`
	DetailData             string `json:"detailData"`
	ConfirmPassword        string `json:"confirmPassword"`
	SameAmountNumber       string `json:"sameAmountNumber"`
	UseFreePlayAmount      bool   `json:"useFreePlayAmount"`
	RoundRobinCombinations string `json:"roundRobinCombinations"`
}

type wagerPointsData struct {
	BuyPoints     int    `json:"BuyPoints"`
	BuyPointsDesc string `json:"BuyPointsDesc"`
	LineDesc      string `json:"LineDesc"`
	Selected      bool   `json:"selected"`
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
