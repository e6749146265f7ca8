package play23

import "github.com/luiso2/betbridge/internal/pkg/models"

// leagues is the upstream's current offering. No discovery endpoint exists;
// the ids come from the schedule page's league selector.
func leagues() []models.League {
	return []models.League{
		{ID: 535, Name: "NBA", Sport: "Basketball"},
		{ID: 43, Name: "College Basketball", Sport: "Basketball"},
		{ID: 4029, Name: "NFL", Sport: "Football"},
		{ID: 430, Name: "NFL 1st Half", Sport: "Football"},
		{ID: 3, Name: "Soccer - Premier League", Sport: "Soccer"},
		{ID: 1278, Name: "Soccer - Argentina", Sport: "Soccer"},
		{ID: 1566, Name: "Soccer - Costa Rica", Sport: "Soccer"},
		{ID: 1729, Name: "Brazil Basketball", Sport: "Basketball"},
	}
}

// leagueName resolves an id for fallback messages.
func leagueName(id int) string {
	for _, lg := range leagues() {
		if lg.ID == id {
			return lg.Name
		}
	}
	return ""
}
