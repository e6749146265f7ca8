package play23

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luiso2/betbridge/internal/pkg/models"
)

const testSelection = "0_5421290_4.5_-108"

const compileOKBody = `{"result":{"ErrorMessage":"","WagerCompile":{"details":[
	{"IDWT":123,"details":[{"Description":"Pistons +4.5 -108","IdGame":5421290,"Play":"1","Pitcher":0}]}
]}}}`

const confirmOKBody = `{"result":{"ErrorMessage":"","details":[{"Risk":108,"Win":100}]}}`

const postOKBody = `{"result":[{"WagerPostResult":{"ErrorMsgKey":"","details":[
	{"TicketNumber":987654321,"Risk":108,"Win":100}
]}}]}`

// fakeUpstream serves the three wager phases with configurable bodies and
// records the forms each phase received.
type fakeUpstream struct {
	compileBody string
	confirmBody string
	postBody    string

	compileForm map[string]string
	confirmForm map[string]string
	postForm    map[string]string
}

func (f *fakeUpstream) server(t *testing.T) *httptest.Server {
	t.Helper()
	capture := func(r *http.Request) map[string]string {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("bad form: %v", err)
		}
		out := map[string]string{}
		for k := range r.PostForm {
			out[k] = r.PostForm.Get(k)
		}
		return out
	}

	mux := http.NewServeMux()
	mux.HandleFunc(pathCompile, func(w http.ResponseWriter, r *http.Request) {
		f.compileForm = capture(r)
		w.Write([]byte(f.compileBody))
	})
	mux.HandleFunc(pathConfirm, func(w http.ResponseWriter, r *http.Request) {
		f.confirmForm = capture(r)
		w.Write([]byte(f.confirmBody))
	})
	mux.HandleFunc(pathPost, func(w http.ResponseWriter, r *http.Request) {
		f.postForm = capture(r)
		w.Write([]byte(f.postBody))
	})
	return httptest.NewServer(mux)
}

func placeTestBet(t *testing.T, upstream *fakeUpstream) (Outcome, *Client) {
	t.Helper()
	srv := upstream.server(t)
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL)
	client.setAuthenticated("wwplayer1")
	outcome := client.PlaceBet(context.Background(), models.WagerRequest{
		Selection: testSelection,
		Amount:    100,
		Password:  "secret",
		WagerType: models.WagerStraight,
		LeagueID:  535,
	})
	return outcome, client
}

func TestPlaceBetHappyPath(t *testing.T) {
	upstream := &fakeUpstream{
		compileBody: compileOKBody,
		confirmBody: confirmOKBody,
		postBody:    postOKBody,
	}
	outcome, _ := placeTestBet(t, upstream)

	if !outcome.Placed {
		t.Fatalf("not placed: kind=%s detail=%s", outcome.Kind, outcome.Detail)
	}
	if outcome.Ticket != "987654321" {
		t.Errorf("ticket = %q", outcome.Ticket)
	}
	if outcome.Risk != 108 || outcome.Win != 100 {
		t.Errorf("figures = %d/%d, want 108/100", outcome.Risk, outcome.Win)
	}
	if outcome.Description != "Pistons +4.5 -108" {
		t.Errorf("description = %q", outcome.Description)
	}

	if upstream.compileForm["sel"] != testSelection || upstream.compileForm["WT"] != "0" || upstream.compileForm["open"] != "0" {
		t.Errorf("compile form = %v", upstream.compileForm)
	}
	if upstream.confirmForm["password"] != "secret" {
		t.Error("confirm form missing password")
	}
	if upstream.confirmForm["IDWT"] != "123" || upstream.confirmForm["amountType"] != "1" {
		t.Errorf("confirm form = %v", upstream.confirmForm)
	}
	if upstream.confirmForm["sameAmountNumber"] != "100" {
		t.Errorf("sameAmountNumber = %q", upstream.confirmForm["sameAmountNumber"])
	}

	var posted []postWagerRequest
	if err := json.Unmarshal([]byte(upstream.postForm["postWagerRequests"]), &posted); err != nil {
		t.Fatalf("postWagerRequests not decodable: %v", err)
	}
	if len(posted) != 1 {
		t.Fatalf("got %d post requests", len(posted))
	}
	p := posted[0]
	if p.IDWT != "123" || p.Sel != testSelection || p.ConfirmPassword != "secret" || p.AmountType != 1 {
		t.Errorf("post request = %+v", p)
	}
	var details []wagerDetailData
	if err := json.Unmarshal([]byte(p.DetailData), &details); err != nil || len(details) != 1 {
		t.Fatalf("detailData = %q: %v", p.DetailData, err)
	}
	if details[0].IDGame != 5421290 || details[0].Amount != 100 || !details[0].Points.Selected {
		t.Errorf("detail leg = %+v", details[0])
	}
}

func TestPlaceBetConfirmFigureFallback(t *testing.T) {
	// Confirm answers without figure details and post without a detail
	// block: risk falls back to the stake, win to the -110 approximation,
	// ticket to the placeholder.
	upstream := &fakeUpstream{
		compileBody: compileOKBody,
		confirmBody: `{"result":{"ErrorMessage":"","details":[]}}`,
		postBody:    `{"result":[{"WagerPostResult":{"ErrorMsgKey":"","details":[]}}]}`,
	}
	outcome, _ := placeTestBet(t, upstream)
	if !outcome.Placed {
		t.Fatalf("not placed: %s", outcome.Detail)
	}
	if outcome.Ticket != "Unknown" {
		t.Errorf("ticket = %q", outcome.Ticket)
	}
	if outcome.Risk != 100 || outcome.Win != 91 {
		t.Errorf("figures = %d/%d, want 100/91", outcome.Risk, outcome.Win)
	}
}

func TestPlaceBetPostObjectResult(t *testing.T) {
	upstream := &fakeUpstream{
		compileBody: compileOKBody,
		confirmBody: confirmOKBody,
		postBody:    `{"result":{"WagerPostResult":{"ErrorMsgKey":"","details":[{"TicketNumber":"T-42","Risk":108,"Win":100}]}}}`,
	}
	outcome, _ := placeTestBet(t, upstream)
	if !outcome.Placed || outcome.Ticket != "T-42" {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestPlaceBetCompileError(t *testing.T) {
	upstream := &fakeUpstream{
		compileBody: `{"result":{"ErrorMessage":"Game is not available for wagering"}}`,
	}
	outcome, _ := placeTestBet(t, upstream)
	if outcome.Placed || outcome.Kind != KindCompileError {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Detail != "Game is not available for wagering" {
		t.Errorf("detail = %q", outcome.Detail)
	}
}

func TestPlaceBetCompileMissingLeg(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind ErrorKind
	}{
		{"no compile block", `{"result":{"ErrorMessage":""}}`, KindCompileError},
		{"empty details", `{"result":{"ErrorMessage":"","WagerCompile":{"details":[]}}}`, KindCompileError},
		{"leg without game", `{"result":{"ErrorMessage":"","WagerCompile":{"details":[{"IDWT":"1","details":[]}]}}}`, KindInvalidSelection},
		{"not json", `<html>oops</html>`, KindCompileError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := &fakeUpstream{compileBody: tt.body}
			outcome, _ := placeTestBet(t, upstream)
			if outcome.Placed || outcome.Kind != tt.kind {
				t.Errorf("outcome = %+v, want kind %s", outcome, tt.kind)
			}
		})
	}
}

func TestPlaceBetConfirmRejections(t *testing.T) {
	tests := []struct {
		message string
		kind    ErrorKind
	}{
		{"Insufficient balance for this wager", KindInsufficientBalance},
		{"Invalid password", KindInvalidPassword},
		{"Wager below minimum amount", KindMinBetNotMet},
		{"The odds have changed", KindOddsChanged},
		{"This market is closed", KindMarketClosed},
		{"Something else went wrong", KindConfirmError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			upstream := &fakeUpstream{
				compileBody: compileOKBody,
				confirmBody: `{"result":{"ErrorMessage":"` + tt.message + `"}}`,
			}
			outcome, _ := placeTestBet(t, upstream)
			if outcome.Placed || outcome.Kind != tt.kind {
				t.Errorf("outcome = %+v, want kind %s", outcome, tt.kind)
			}
		})
	}
}

func TestPlaceBetOddsChangedAtPost(t *testing.T) {
	upstream := &fakeUpstream{
		compileBody: compileOKBody,
		confirmBody: confirmOKBody,
		postBody:    `{"result":[{"WagerPostResult":{"ErrorMsgKey":"GAMELINECHANGE"}}]}`,
	}
	outcome, _ := placeTestBet(t, upstream)
	if outcome.Placed || outcome.Kind != KindOddsChanged {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestPlaceBetPostErrorKey(t *testing.T) {
	upstream := &fakeUpstream{
		compileBody: compileOKBody,
		confirmBody: confirmOKBody,
		postBody:    `{"result":[{"WagerPostResult":{"ErrorMsgKey":"WAGERREJECTED"}}]}`,
	}
	outcome, _ := placeTestBet(t, upstream)
	if outcome.Placed || outcome.Kind != KindPostError || outcome.Detail != "WAGERREJECTED" {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestPlaceBetSessionExpiredMidFlow(t *testing.T) {
	loginPage := `<html><body><form action="/Login.aspx">Login</form></body></html>`
	tests := []struct {
		name     string
		upstream *fakeUpstream
	}{
		{"at compile", &fakeUpstream{compileBody: loginPage}},
		{"at confirm", &fakeUpstream{compileBody: compileOKBody, confirmBody: loginPage}},
		{"at post", &fakeUpstream{compileBody: compileOKBody, confirmBody: confirmOKBody, postBody: loginPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, client := placeTestBet(t, tt.upstream)
			if outcome.Placed || outcome.Kind != KindSessionExpired {
				t.Fatalf("outcome = %+v", outcome)
			}
			if client.Authenticated() {
				t.Error("expired session not invalidated locally")
			}
		})
	}
}

func TestPlaceBetInvalidTokenNoNetwork(t *testing.T) {
	// Unreachable base URL: a malformed token must be rejected before any
	// request goes out.
	client := newTestClient(t, "http://127.0.0.1:1")
	client.setAuthenticated("wwplayer1")
	outcome := client.PlaceBet(context.Background(), models.WagerRequest{
		Selection: "5_abc",
		Amount:    100,
		Password:  "secret",
	})
	if outcome.Placed || outcome.Kind != KindInvalidSelection {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestPlaceBetNotAuthenticated(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	outcome := client.PlaceBet(context.Background(), models.WagerRequest{
		Selection: testSelection,
		Amount:    100,
		Password:  "secret",
	})
	if outcome.Placed || outcome.Kind != KindNotAuthenticated {
		t.Fatalf("outcome = %+v", outcome)
	}
}
