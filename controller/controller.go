package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/jrygrande/dynasty-dna/db"
	"github.com/jrygrande/dynasty-dna/model"
	"github.com/jrygrande/dynasty-dna/sleeper"
)

var ErrSyncInProgress = errors.New("a sync is already in progress for this league")

// C encapsulates business logic without worrying about any web layers
type C interface {
	// ResolveFamily walks the previous-league chain from root and returns
	// the family's league ids, root first, oldest last.
	ResolveFamily(ctx context.Context, rootLeagueID string) ([]string, error)

	// GetTimeline returns an asset's chronological event chain across the
	// root league's family, with season continuations synthesized, plus
	// the derived per-owner performance periods.
	GetTimeline(ctx context.Context, rootLeagueID string, asset model.AssetID) ([]model.AssetEvent, []model.PerformancePeriod, error)

	// GetBenchmarks computes weekly starter-score distributions at a
	// position across the family. Weeks with fewer than three qualifying
	// starters are omitted.
	GetBenchmarks(ctx context.Context, rootLeagueID string, pos model.Position, season string, weeks []int) ([]model.WeeklyBenchmark, error)

	// GetGraph merges the timelines of the given assets into one
	// deduplicated transaction/asset graph.
	GetGraph(ctx context.Context, rootLeagueID string, assets []model.AssetID) (*model.Graph, error)

	// TriggerSync starts a background sync of the league's family and
	// returns the claimed job. Returns ErrSyncInProgress if a fresh run
	// is already going.
	TriggerSync(ctx context.Context, rootLeagueID string, mode model.SyncMode) (*model.SyncJob, error)
	GetSyncStatus(ctx context.Context, rootLeagueID string) (*model.SyncJob, error)

	ListLeagues(ctx context.Context) ([]model.League, error)
	TopAssets(ctx context.Context, rootLeagueID string, kind model.AssetKind, limit int) ([]model.AssetCount, error)

	UpdatePlayers(ctx context.Context) error
	RunPeriodicPlayerUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)
}

type controller struct {
	clock   clock.Clock
	sleeper sleeper.Client
	db      db.DB

	byeWeeks   *cache[byeWeekKey, int]
	benchmarks *cache[benchmarkKey, model.WeeklyBenchmark]
}

func New(clock clock.Clock, sleeper sleeper.Client, db db.DB) (C, error) {
	c := &controller{
		clock:      clock,
		sleeper:    sleeper,
		db:         db,
		byeWeeks:   newCache[byeWeekKey, int](),
		benchmarks: newCache[benchmarkKey, model.WeeklyBenchmark](),
	}
	return c, nil
}

func (c *controller) ListLeagues(ctx context.Context) ([]model.League, error) {
	return c.db.ListLeagues(ctx)
}

func (c *controller) TopAssets(ctx context.Context, rootLeagueID string, kind model.AssetKind, limit int) ([]model.AssetCount, error) {
	family, err := c.ResolveFamily(ctx, rootLeagueID)
	if err != nil {
		return nil, err
	}
	return c.db.TopAssetsByEventCount(ctx, family, kind, limit)
}

func (c *controller) UpdatePlayers(ctx context.Context) error {
	start := time.Now()
	log.Printf("update players starting at %v", start.Format(time.DateTime))

	players, err := c.sleeper.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("error loading players: %w", err)
	}

	if err := c.db.UpsertPlayers(ctx, players); err != nil {
		return fmt.Errorf("error saving players: %w", err)
	}

	log.Printf("update players finished, took %v", time.Since(start))
	return nil
}

func (c *controller) RunPeriodicPlayerUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	ticker := time.NewTicker(frequency)
	defer wg.Done()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			if err := c.UpdatePlayers(ctx); err != nil {
				log.Printf("%v", err)
			}
			cancel()
		}
	}
}
