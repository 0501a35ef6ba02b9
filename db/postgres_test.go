package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"

	"github.com/itbasis/go-clock"
	"github.com/jrygrande/dynasty-dna/containers"
	"github.com/jrygrande/dynasty-dna/model"
)

var (
	// A test global db instance to use for all of the tests instead of setting up a new one each time.
	testDB DB

	// The container's connection string, for tests that need their own
	// handle with a different clock.
	testConnString string
)

// TestMain controls the main for the tests and allows for setup and shutdown of the tests
func TestMain(m *testing.M) {
	container := containers.NewDBContainer()

	clock := clock.New()

	defer func() {
		// Catch all panics to make sure the shutdown is successfully run
		if r := recover(); r != nil {
			if container != nil {
				container.Shutdown()
			}
			fmt.Println("panic")
		}
	}()

	testConnString = container.ConnectionString()

	var err error
	testDB, err = New(context.Background(), testConnString, clock)
	if err != nil {
		fmt.Printf("error connecting to db: %v", err)
		os.Exit(-1)
	}

	code := m.Run()
	container.Shutdown()
	os.Exit(code)
}

func TestLeagues_saveAndLoad(t *testing.T) {
	ctx := context.Background()

	l := &model.League{
		ID:               "lg-100",
		Name:             "Save Load Dynasty",
		Season:           "2023",
		PreviousLeagueID: "lg-099",
		Status:           "in_season",
		TotalRosters:     12,
	}

	if err := testDB.SaveLeague(ctx, l); err != nil {
		t.Fatalf("error saving league: %v", err)
	}

	res, err := testDB.GetLeague(ctx, "lg-100")
	if err != nil {
		t.Fatalf("error getting league: %v", err)
	}
	if !reflect.DeepEqual(l, res) {
		t.Errorf("league not as expected - wanted: %+v, got: %+v", l, res)
	}

	// Saving again updates in place.
	l.Status = "complete"
	if err := testDB.SaveLeague(ctx, l); err != nil {
		t.Fatalf("error updating league: %v", err)
	}
	res, err = testDB.GetLeague(ctx, "lg-100")
	if err != nil {
		t.Fatalf("error getting updated league: %v", err)
	}
	if res.Status != "complete" {
		t.Errorf("expected updated status, got %q", res.Status)
	}
}

func TestGetLeague_notFound(t *testing.T) {
	res, err := testDB.GetLeague(context.Background(), "lg-missing")
	if !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("expected ErrLeagueNotFound, got %v", err)
	}
	if res != nil {
		t.Errorf("expected nil league, got %+v", res)
	}
}

func TestListLeagues_orderedBySeason(t *testing.T) {
	ctx := context.Background()

	leagues := []model.League{
		{ID: "lg-list-1", Name: "List Dynasty", Season: "2022"},
		{ID: "lg-list-2", Name: "List Dynasty", Season: "2024"},
		{ID: "lg-list-3", Name: "List Dynasty", Season: "2023"},
	}
	for i := range leagues {
		if err := testDB.SaveLeague(ctx, &leagues[i]); err != nil {
			t.Fatalf("error saving league: %v", err)
		}
	}

	all, err := testDB.ListLeagues(ctx)
	if err != nil {
		t.Fatalf("error listing leagues: %v", err)
	}

	var got []string
	for _, l := range all {
		if l.Name == "List Dynasty" {
			got = append(got, l.ID)
		}
	}
	expected := []string{"lg-list-2", "lg-list-3", "lg-list-1"}
	if !reflect.DeepEqual(expected, got) {
		t.Errorf("expected order %v, got %v", expected, got)
	}
}

func TestRosters_replaceSemantics(t *testing.T) {
	ctx := context.Background()

	first := []model.Roster{
		{LeagueID: "lg-rosters", RosterID: 1, OwnerID: "u1"},
		{LeagueID: "lg-rosters", RosterID: 2, OwnerID: "u2"},
		{LeagueID: "lg-rosters", RosterID: 3, OwnerID: "u3"},
	}
	if err := testDB.SaveRosters(ctx, "lg-rosters", first); err != nil {
		t.Fatalf("error saving rosters: %v", err)
	}

	owners, err := testDB.GetRosterOwners(ctx, "lg-rosters")
	if err != nil {
		t.Fatalf("error getting roster owners: %v", err)
	}
	expected := map[int]string{1: "u1", 2: "u2", 3: "u3"}
	if !reflect.DeepEqual(expected, owners) {
		t.Errorf("expected owners %v, got %v", expected, owners)
	}

	// A later save replaces the whole set; roster 3 is gone and roster 2
	// has a new owner.
	second := []model.Roster{
		{LeagueID: "lg-rosters", RosterID: 1, OwnerID: "u1"},
		{LeagueID: "lg-rosters", RosterID: 2, OwnerID: "u9"},
	}
	if err := testDB.SaveRosters(ctx, "lg-rosters", second); err != nil {
		t.Fatalf("error replacing rosters: %v", err)
	}

	owners, err = testDB.GetRosterOwners(ctx, "lg-rosters")
	if err != nil {
		t.Fatalf("error getting roster owners: %v", err)
	}
	expected = map[int]string{1: "u1", 2: "u9"}
	if !reflect.DeepEqual(expected, owners) {
		t.Errorf("expected owners %v, got %v", expected, owners)
	}
}

func TestManagers_upsert(t *testing.T) {
	ctx := context.Background()

	managers := []model.Manager{
		{ID: "mgr-1", Username: "alice", DisplayName: "Alice"},
		{ID: "mgr-2", Username: "bob", DisplayName: "Bob"},
	}
	if err := testDB.SaveManagers(ctx, managers); err != nil {
		t.Fatalf("error saving managers: %v", err)
	}

	// Saving again with changed names must not error or duplicate.
	managers[0].DisplayName = "Alice A."
	if err := testDB.SaveManagers(ctx, managers); err != nil {
		t.Fatalf("error re-saving managers: %v", err)
	}
}

func TestPlayers_upsertAndGet(t *testing.T) {
	ctx := context.Background()

	players := []model.Player{
		{ID: "pl-1", FirstName: "Tyler", LastName: "Lockett", Position: model.POS_WR, Team: "SEA", Status: "Active"},
		{ID: "pl-2", FirstName: "Jalen", LastName: "Hurts", Position: model.POS_QB, Team: "PHI", Status: "Active"},
	}
	if err := testDB.UpsertPlayers(ctx, players); err != nil {
		t.Fatalf("error upserting players: %v", err)
	}

	p, err := testDB.GetPlayer(ctx, "pl-1")
	if err != nil {
		t.Fatalf("error getting player: %v", err)
	}
	if p.FirstName != "Tyler" || p.LastName != "Lockett" || p.Position != model.POS_WR || p.Team != "SEA" {
		t.Errorf("player not as expected: %+v", p)
	}
	if p.Created.IsZero() {
		t.Error("expected created time to be set")
	}

	// An update flows through the conflict branch.
	players[0].Team = "FA"
	players[0].Status = "Inactive"
	if err := testDB.UpsertPlayers(ctx, players); err != nil {
		t.Fatalf("error updating players: %v", err)
	}

	p, err = testDB.GetPlayer(ctx, "pl-1")
	if err != nil {
		t.Fatalf("error getting updated player: %v", err)
	}
	if p.Team != "FA" || p.Status != "Inactive" {
		t.Errorf("player update not persisted: %+v", p)
	}
	if p.Updated.IsZero() {
		t.Error("expected updated time to be set after an update")
	}
}

func TestGetPlayer_notFound(t *testing.T) {
	p, err := testDB.GetPlayer(context.Background(), "pl-missing")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
	if p != nil {
		t.Errorf("expected nil player, got %+v", p)
	}
}

func TestTransactions_saveIsIdempotent(t *testing.T) {
	ctx := context.Background()

	txns := []model.Transaction{
		{
			ID:       "txn-1",
			LeagueID: "lg-txn",
			Week:     8,
			Type:     model.TransactionTrade,
			Adds:     map[string]int{"pl-1": 2},
			Drops:    map[string]int{"pl-1": 1},
			DraftPicks: []model.TradedPick{
				{Season: "2024", Round: 1, OriginalRosterID: 1, NewOwner: model.OwnerRef{RosterID: 2}},
			},
		},
	}

	if err := testDB.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("error saving transactions: %v", err)
	}
	// Raw records are immutable; replays are no-ops.
	if err := testDB.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("error re-saving transactions: %v", err)
	}
}

func TestPlayerScores(t *testing.T) {
	ctx := context.Background()

	scores := []model.PlayerScore{
		{LeagueID: "lg-scores", Season: "2023", Week: 2, PlayerID: "pl-1", RosterID: 1, Points: 12.5, Started: true},
		{LeagueID: "lg-scores", Season: "2023", Week: 1, PlayerID: "pl-1", RosterID: 1, Points: 9.0, Started: false},
		{LeagueID: "lg-scores", Season: "2023", Week: 3, PlayerID: "pl-1", RosterID: 2, Points: 20.0, Started: true},
		{LeagueID: "lg-scores", Season: "2023", Week: 1, PlayerID: "pl-2", RosterID: 2, Points: 22.0, Started: true},
	}
	if err := testDB.SavePlayerScores(ctx, scores); err != nil {
		t.Fatalf("error saving scores: %v", err)
	}

	got, err := testDB.GetPlayerSeasonScores(ctx, "lg-scores", "pl-1", "2023")
	if err != nil {
		t.Fatalf("error getting season scores: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(got))
	}
	// Ordered by week.
	if got[0].Week != 1 || got[1].Week != 2 || got[2].Week != 3 {
		t.Errorf("scores not ordered by week: %+v", got)
	}
	if got[0].Points != 9.0 || got[0].Started {
		t.Errorf("week 1 score not as expected: %+v", got[0])
	}

	// A re-save with a corrected stat line updates in place.
	update := []model.PlayerScore{
		{LeagueID: "lg-scores", Season: "2023", Week: 1, PlayerID: "pl-1", RosterID: 1, Points: 9.6, Started: false},
	}
	if err := testDB.SavePlayerScores(ctx, update); err != nil {
		t.Fatalf("error updating score: %v", err)
	}
	got, err = testDB.GetPlayerSeasonScores(ctx, "lg-scores", "pl-1", "2023")
	if err != nil {
		t.Fatalf("error getting updated scores: %v", err)
	}
	if len(got) != 3 || got[0].Points != 9.6 {
		t.Errorf("score update not persisted: %+v", got)
	}

	week, err := testDB.LastPlayedWeek(ctx, "lg-scores", "2023")
	if err != nil {
		t.Fatalf("error getting last played week: %v", err)
	}
	if week != 3 {
		t.Errorf("expected last played week 3, got %d", week)
	}

	week, err = testDB.LastPlayedWeek(ctx, "lg-no-scores", "2023")
	if err != nil {
		t.Fatalf("error getting last played week for empty league: %v", err)
	}
	if week != 0 {
		t.Errorf("expected week 0 for a league with no scores, got %d", week)
	}
}

func TestGetStarterScores(t *testing.T) {
	ctx := context.Background()

	// Position comes from the players table; seed three RBs and a QB.
	players := []model.Player{
		{ID: "rb-1", FirstName: "A", LastName: "One", Position: model.POS_RB, Team: "SEA"},
		{ID: "rb-2", FirstName: "B", LastName: "Two", Position: model.POS_RB, Team: "DET"},
		{ID: "rb-3", FirstName: "C", LastName: "Three", Position: model.POS_RB, Team: "KC"},
		{ID: "qb-1", FirstName: "D", LastName: "Four", Position: model.POS_QB, Team: "PHI"},
	}
	if err := testDB.UpsertPlayers(ctx, players); err != nil {
		t.Fatalf("error seeding players: %v", err)
	}

	scores := []model.PlayerScore{
		{LeagueID: "lg-bench-1", Season: "2023", Week: 5, PlayerID: "rb-1", RosterID: 1, Points: 10, Started: true},
		{LeagueID: "lg-bench-2", Season: "2023", Week: 5, PlayerID: "rb-2", RosterID: 2, Points: 20, Started: true},
		{LeagueID: "lg-bench-1", Season: "2023", Week: 5, PlayerID: "rb-3", RosterID: 3, Points: 30, Started: false}, // benched
		{LeagueID: "lg-bench-1", Season: "2023", Week: 5, PlayerID: "qb-1", RosterID: 1, Points: 25, Started: true},  // wrong position
		{LeagueID: "lg-other", Season: "2023", Week: 5, PlayerID: "rb-1", RosterID: 1, Points: 40, Started: true},    // outside family
	}
	if err := testDB.SavePlayerScores(ctx, scores); err != nil {
		t.Fatalf("error seeding scores: %v", err)
	}

	got, err := testDB.GetStarterScores(ctx, []string{"lg-bench-1", "lg-bench-2"}, model.POS_RB, "2023", 5)
	if err != nil {
		t.Fatalf("error getting starter scores: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 starter scores, got %d: %v", len(got), got)
	}
	total := got[0] + got[1]
	if total != 30 {
		t.Errorf("expected scores 10 and 20, got %v", got)
	}
}
