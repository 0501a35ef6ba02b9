package testutils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// FakeSleeperServer serves a small two-season dynasty: league 822 (2022)
// followed by league 923 (2023). Player 4034 is drafted by roster 1 in 2022,
// traded to roster 2 in week 8, and kept into 2023 with no transaction.
// A 2023 2nd-round pick moves in the same trade.
type FakeSleeperServer struct {
	s *httptest.Server

	mu          sync.Mutex
	flakyCalls  int
	leagueCalls int
}

func NewFakeSleeperServer() *FakeSleeperServer {
	f := &FakeSleeperServer{}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/players/nfl", playersHandler)
		r.Get("/state/nfl", stateHandler)
		r.Get("/draft/{draftID}/picks", draftPicksHandler)

		r.Route("/league/{leagueID}", func(r chi.Router) {
			r.Get("/", f.leagueHandler)
			r.Get("/rosters", rostersHandler)
			r.Get("/users", usersHandler)
			r.Get("/drafts", draftsHandler)
			r.Get("/traded_picks", tradedPicksHandler)
			r.Get("/transactions/{week}", transactionsHandler)
			r.Get("/matchups/{week}", matchupsHandler)
		})
	})

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeSleeperServer) Close() {
	f.s.Close()
}

func (f *FakeSleeperServer) URL() string {
	return f.s.URL
}

// LeagueCalls reports how many league metadata requests were served.
func (f *FakeSleeperServer) LeagueCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leagueCalls
}

func (f *FakeSleeperServer) leagueHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	f.mu.Lock()
	f.leagueCalls++
	if leagueID == "flaky500" {
		f.flakyCalls++
		if f.flakyCalls <= 2 {
			f.mu.Unlock()
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	f.mu.Unlock()

	switch leagueID {
	case "822":
		serveJSON(w, `{"league_id":"822","name":"Footclan Dynasty","season":"2022","status":"complete","previous_league_id":null,"total_rosters":2}`)
	case "923":
		serveJSON(w, `{"league_id":"923","name":"Footclan Dynasty","season":"2023","status":"in_season","previous_league_id":"822","total_rosters":2}`)
	case "flaky500":
		serveJSON(w, `{"league_id":"flaky500","name":"Flaky League","season":"2023","status":"in_season","previous_league_id":null,"total_rosters":2}`)
	case "badloop-a":
		serveJSON(w, `{"league_id":"badloop-a","name":"Loop A","season":"2023","status":"in_season","previous_league_id":"badloop-b","total_rosters":2}`)
	case "badloop-b":
		serveJSON(w, `{"league_id":"badloop-b","name":"Loop B","season":"2022","status":"complete","previous_league_id":"badloop-a","total_rosters":2}`)
	default:
		// An unknown league is a 200 with a "null" body.
		serveJSON(w, "null")
	}
}

func rostersHandler(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, `[
		{"roster_id":1,"owner_id":"100001"},
		{"roster_id":2,"owner_id":"100002"}
	]`)
}

func usersHandler(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, `[
		{"user_id":"100001","username":"alice","display_name":"Alice"},
		{"user_id":"100002","username":"bob","display_name":"Bob"}
	]`)
}

func draftsHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case "822":
		serveJSON(w, `[{"draft_id":"d822","league_id":"822","season":"2022"}]`)
	case "923":
		serveJSON(w, `[{"draft_id":"d923","league_id":"923","season":"2023"}]`)
	default:
		serveJSON(w, "[]")
	}
}

func draftPicksHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "draftID") {
	case "d822":
		serveJSON(w, `[
			{"draft_id":"d822","round":1,"pick_no":1,"roster_id":1,"player_id":"4034"},
			{"draft_id":"d822","round":1,"pick_no":2,"roster_id":2,"player_id":"6786"}
		]`)
	case "d923":
		// The round 2 slot originally belonged to roster 1; roster 2
		// acquired it in the 2022 trade.
		serveJSON(w, `[
			{"draft_id":"d923","round":1,"pick_no":1,"roster_id":2,"player_id":"8155"},
			{"draft_id":"d923","round":2,"pick_no":4,"roster_id":2,"player_id":"9509"}
		]`)
	default:
		serveJSON(w, "[]")
	}
}

func tradedPicksHandler(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "leagueID") {
	case "822", "923":
		serveJSON(w, `[
			{"season":"2023","round":2,"roster_id":1,"previous_owner_id":1,"owner_id":2}
		]`)
	default:
		serveJSON(w, "[]")
	}
}

func transactionsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	week := chi.URLParam(r, "week")

	if leagueID == "822" && week == "8" {
		serveJSON(w, `[{
			"transaction_id":"t100",
			"type":"trade",
			"leg":8,
			"status_updated":1667088000000,
			"adds":{"4034":2},
			"drops":{"4034":1},
			"draft_picks":[
				{"season":"2023","round":2,"roster_id":1,"previous_owner_id":1,"owner_id":2}
			]
		}]`)
		return
	}
	if leagueID == "822" && week == "3" {
		serveJSON(w, `[{
			"transaction_id":"t050",
			"type":"waiver",
			"leg":3,
			"status_updated":1664064000000,
			"adds":{"5850":1},
			"drops":null,
			"draft_picks":[]
		}]`)
		return
	}
	serveJSON(w, "[]")
}

// matchupsHandler generates weekly scores: player 4034 is on roster 1 for
// 2022 weeks 1-7 and on roster 2 afterwards, always starting. Player 6786
// stays on roster 2 and sits with a zero in week 6 (its synthetic bye).
func matchupsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week > 17 {
		serveJSON(w, "[]")
		return
	}

	type matchup struct {
		RosterID      int                `json:"roster_id"`
		Starters      []string           `json:"starters"`
		PlayersPoints map[string]float64 `json:"players_points"`
	}

	var matchups []matchup
	switch leagueID {
	case "822":
		m1 := matchup{RosterID: 1, Starters: []string{}, PlayersPoints: map[string]float64{}}
		m2 := matchup{RosterID: 2, Starters: []string{}, PlayersPoints: map[string]float64{}}

		if week <= 7 {
			m1.PlayersPoints["4034"] = 20.0
			m1.Starters = append(m1.Starters, "4034")
		} else {
			m2.PlayersPoints["4034"] = 22.0
			m2.Starters = append(m2.Starters, "4034")
		}

		m2.PlayersPoints["6786"] = 15.0
		if week == 6 {
			m2.PlayersPoints["6786"] = 0
		} else {
			m2.Starters = append(m2.Starters, "6786")
		}
		matchups = []matchup{m1, m2}
	case "923":
		if week > 10 {
			// 2023 has only been played through week 10.
			serveJSON(w, "[]")
			return
		}
		m2 := matchup{
			RosterID:      2,
			Starters:      []string{"4034"},
			PlayersPoints: map[string]float64{"4034": 25.0, "8155": 9.0},
		}
		matchups = []matchup{m2}
	default:
		serveJSON(w, "[]")
		return
	}

	b, err := json.Marshal(matchups)
	if err != nil {
		log.Printf("error encoding matchups: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func playersHandler(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, `{
		"4034":{"player_id":"4034","first_name":"Patrick","last_name":"Mahomes","position":"QB","team":"KC","status":"Active"},
		"6786":{"player_id":"6786","first_name":"CeeDee","last_name":"Lamb","position":"WR","team":"DAL","status":"Active"},
		"5850":{"player_id":"5850","first_name":"Josh","last_name":"Jacobs","position":"RB","team":"GB","status":"Active"},
		"8155":{"player_id":"8155","first_name":"Breece","last_name":"Hall","position":"RB","team":"NYJ","status":"Active"},
		"9509":{"player_id":"9509","first_name":"De'Von","last_name":"Achane","position":"RB","team":"MIA","status":"Active"},
		"0000":{"player_id":"0000","first_name":"Practice","last_name":"Squad","position":"OL","team":"","status":"Inactive"}
	}`)
}

func stateHandler(w http.ResponseWriter, r *http.Request) {
	serveJSON(w, `{"week":10,"season":"2023","season_type":"regular"}`)
}

func serveJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, body)
}
