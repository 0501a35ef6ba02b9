package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrygrande/dynasty-dna/db/mockdb"
	"github.com/jrygrande/dynasty-dna/model"
	"github.com/stretchr/testify/mock"
)

func TestTriggerSync_unknownMode(t *testing.T) {
	ctrl := newMockedController(t, &mockdb.DB{})

	if _, err := ctrl.TriggerSync(context.Background(), "L1", model.SyncMode("bogus")); err == nil {
		t.Error("expected an error for an unknown sync mode")
	}
}

func TestTriggerSync_alreadyInProgress(t *testing.T) {
	running := &model.SyncJob{
		LeagueID: "L1",
		RunID:    "other-run",
		Mode:     model.SyncFull,
		Status:   model.SyncStatusInProgress,
	}

	mockDB := &mockdb.DB{}
	mockDB.On("GetLeague", mock.Anything, "L1").
		Return(&model.League{ID: "L1", Season: "2023"}, nil)
	mockDB.On("ClaimSyncJob", mock.Anything, "L1", mock.Anything, model.SyncFull, staleJobThreshold).
		Return(false, nil)
	mockDB.On("GetSyncJob", mock.Anything, "L1").Return(running, nil)

	ctrl := newMockedController(t, mockDB)

	job, err := ctrl.TriggerSync(context.Background(), "L1", model.SyncFull)
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	if job == nil || job.RunID != "other-run" {
		t.Errorf("expected the running job to be returned, got %+v", job)
	}
}

// waitForSync polls until the background run finishes or the timeout hits.
func waitForSync(t *testing.T, ctrl C, leagueID string) *model.SyncJob {
	t.Helper()

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		job, err := ctrl.GetSyncStatus(context.Background(), leagueID)
		if err != nil {
			t.Fatalf("error polling sync status: %v", err)
		}
		if job.Status != model.SyncStatusInProgress {
			return job
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("sync did not finish in time")
	return nil
}

// Full pipeline: sync a two-season family from the fake upstream, then read
// back timelines, periods, graph and event counts.
func TestSync_endToEnd(t *testing.T) {
	ctrl, fakeSleeper := newTestController(t)
	defer fakeSleeper.Close()
	ctx := context.Background()

	job, err := ctrl.TriggerSync(ctx, "923", model.SyncFull)
	if err != nil {
		t.Fatalf("error triggering sync: %v", err)
	}
	if job.Status != model.SyncStatusInProgress {
		t.Errorf("expected an in-progress job, got %+v", job)
	}

	job = waitForSync(t, ctrl, "923")
	if job.Status != model.SyncStatusDone {
		t.Fatalf("expected sync to finish cleanly, got %+v", job)
	}
	if job.LeaguesSynced != 2 {
		t.Errorf("expected 2 leagues synced, got %d", job.LeaguesSynced)
	}
	if job.EventsWritten != 11 {
		t.Errorf("expected 11 events written, got %d", job.EventsWritten)
	}
	if job.Message != "" {
		t.Errorf("expected no skip message, got %q", job.Message)
	}

	t.Run("player timeline with continuation", func(t *testing.T) {
		events, periods, err := ctrl.GetTimeline(ctx, "923", model.PlayerAsset("4034"))
		if err != nil {
			t.Fatalf("error getting timeline: %v", err)
		}

		if len(events) != 3 {
			t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
		}
		if events[0].Type != model.EventDraftSelected || events[0].Season != "2022" || events[0].ToRosterID != 1 {
			t.Errorf("draft event not as expected: %+v", events[0])
		}
		if events[1].Type != model.EventTrade || events[1].Week != 8 ||
			events[1].FromRosterID != 1 || events[1].ToRosterID != 2 || events[1].TransactionID != "t100" {
			t.Errorf("trade event not as expected: %+v", events[1])
		}
		cont := events[2]
		if cont.Type != model.EventSeasonContinuation || !cont.IsContinuation {
			t.Fatalf("expected a continuation event, got %+v", cont)
		}
		if cont.LeagueID != "923" || cont.Season != "2023" || cont.Week != 0 || cont.ToRosterID != 2 {
			t.Errorf("continuation not as expected: %+v", cont)
		}

		if len(periods) != 3 {
			t.Fatalf("expected 3 periods, got %d: %+v", len(periods), periods)
		}

		p1 := periods[0]
		if p1.RosterID != 1 || p1.StartWeek != 1 || p1.EndWeek != 7 || p1.Current {
			t.Errorf("first period not as expected: %+v", p1)
		}
		if p1.Metrics.GamesPlayed != 7 || p1.Metrics.PPG != 20 || p1.Metrics.StarterPct != 100 {
			t.Errorf("first period metrics not as expected: %+v", p1.Metrics)
		}

		p2 := periods[1]
		if p2.RosterID != 2 || p2.StartWeek != 8 || p2.EndWeek != 17 || p2.Current {
			t.Errorf("second period not as expected: %+v", p2)
		}
		if p2.Metrics.GamesPlayed != 10 || p2.Metrics.PPG != 22 {
			t.Errorf("second period metrics not as expected: %+v", p2.Metrics)
		}

		p3 := periods[2]
		if p3.LeagueID != "923" || p3.Season != "2023" || p3.RosterID != 2 {
			t.Errorf("continuation period not as expected: %+v", p3)
		}
		if !p3.Current || !p3.IsContinuation || p3.StartWeek != 1 || p3.EndWeek != 10 {
			t.Errorf("continuation period window not as expected: %+v", p3)
		}
		if p3.Metrics.GamesPlayed != 10 || p3.Metrics.PPG != 25 {
			t.Errorf("continuation period metrics not as expected: %+v", p3.Metrics)
		}
	})

	t.Run("bye week excluded from metrics", func(t *testing.T) {
		_, periods, err := ctrl.GetTimeline(ctx, "923", model.PlayerAsset("6786"))
		if err != nil {
			t.Fatalf("error getting timeline: %v", err)
		}
		if len(periods) == 0 {
			t.Fatal("expected at least one period")
		}

		// 17 scored weeks minus the scoreless benched week 6.
		p := periods[0]
		if p.Season != "2022" || p.RosterID != 2 {
			t.Fatalf("first period not as expected: %+v", p)
		}
		if p.Metrics.GamesPlayed != 16 || p.Metrics.PPG != 15 || p.Metrics.StarterPct != 100 {
			t.Errorf("metrics with bye excluded not as expected: %+v", p.Metrics)
		}
	})

	t.Run("pick timeline", func(t *testing.T) {
		events, periods, err := ctrl.GetTimeline(ctx, "923", model.PickAsset("2023", 2, 1))
		if err != nil {
			t.Fatalf("error getting timeline: %v", err)
		}

		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
		}
		if events[0].Type != model.EventPickTrade || events[0].Season != "2022" ||
			events[0].FromRosterID != 1 || events[0].ToRosterID != 2 {
			t.Errorf("pick trade event not as expected: %+v", events[0])
		}
		if events[1].Type != model.EventPickSelected || events[1].Season != "2023" ||
			events[1].Details["player_id"] != "9509" {
			t.Errorf("pick selected event not as expected: %+v", events[1])
		}

		if len(periods) != 2 {
			t.Fatalf("expected 2 periods, got %d: %+v", len(periods), periods)
		}
		if periods[0].RosterID != 2 || periods[0].StartWeek != 8 || periods[0].EndWeek != 17 {
			t.Errorf("first pick period not as expected: %+v", periods[0])
		}
		if periods[1].RosterID != 2 || !periods[1].Current {
			t.Errorf("second pick period not as expected: %+v", periods[1])
		}
	})

	t.Run("graph shares the trade node", func(t *testing.T) {
		assets := []model.AssetID{model.PlayerAsset("4034"), model.PickAsset("2023", 2, 1)}
		g, err := ctrl.GetGraph(ctx, "923", assets)
		if err != nil {
			t.Fatalf("error getting graph: %v", err)
		}

		if len(g.Nodes) != 5 {
			t.Errorf("expected 5 nodes, got %d: %+v", len(g.Nodes), g.Nodes)
		}
		if len(g.Edges) != 4 {
			t.Errorf("expected 4 edges, got %d: %+v", len(g.Edges), g.Edges)
		}

		var tradeEdges int
		for _, e := range g.Edges {
			if e.To == "tx-t100" {
				tradeEdges++
			}
		}
		if tradeEdges != 2 {
			t.Errorf("expected both lanes to connect to tx-t100, got %d edges", tradeEdges)
		}
	})

	t.Run("top assets", func(t *testing.T) {
		counts, err := ctrl.TopAssets(ctx, "923", model.AssetPlayer, 5)
		if err != nil {
			t.Fatalf("error getting top assets: %v", err)
		}
		if len(counts) == 0 {
			t.Fatal("expected some asset counts")
		}
		if counts[0].Asset != model.PlayerAsset("4034") || counts[0].Count != 2 {
			t.Errorf("expected player 4034 on top with 2 events, got %+v", counts[0])
		}
	})

	t.Run("incremental resync writes nothing new", func(t *testing.T) {
		if _, err := ctrl.TriggerSync(ctx, "923", model.SyncIncremental); err != nil {
			t.Fatalf("error triggering incremental sync: %v", err)
		}

		job := waitForSync(t, ctrl, "923")
		if job.Status != model.SyncStatusDone {
			t.Fatalf("expected incremental sync to finish, got %+v", job)
		}
		if job.LeaguesSynced != 1 {
			t.Errorf("incremental sync should only touch the root league, got %d", job.LeaguesSynced)
		}
		if job.EventsWritten != 0 {
			t.Errorf("expected all events to dedup, got %d written", job.EventsWritten)
		}

		// The timeline is unchanged.
		events, _, err := ctrl.GetTimeline(ctx, "923", model.PlayerAsset("4034"))
		if err != nil {
			t.Fatalf("error getting timeline after resync: %v", err)
		}
		if len(events) != 3 {
			t.Errorf("expected 3 events after resync, got %d", len(events))
		}
	})

	t.Run("leagues listed", func(t *testing.T) {
		leagues, err := ctrl.ListLeagues(ctx)
		if err != nil {
			t.Fatalf("error listing leagues: %v", err)
		}

		seen := make(map[string]bool, len(leagues))
		for _, l := range leagues {
			seen[l.ID] = true
		}
		if !seen["923"] || !seen["822"] {
			t.Errorf("expected both family leagues to be listed, got %+v", leagues)
		}
	})
}
