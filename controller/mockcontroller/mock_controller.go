package mockcontroller

import (
	"context"
	"sync"
	"time"

	"github.com/jrygrande/dynasty-dna/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) ResolveFamily(ctx context.Context, rootLeagueID string) ([]string, error) {
	args := c.Called(ctx, rootLeagueID)

	var r []string
	if args.Get(0) != nil {
		r = args.Get(0).([]string)
	}
	return r, args.Error(1)
}

func (c *C) GetTimeline(ctx context.Context, rootLeagueID string, asset model.AssetID) ([]model.AssetEvent, []model.PerformancePeriod, error) {
	args := c.Called(ctx, rootLeagueID, asset)

	var events []model.AssetEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]model.AssetEvent)
	}
	var periods []model.PerformancePeriod
	if args.Get(1) != nil {
		periods = args.Get(1).([]model.PerformancePeriod)
	}
	return events, periods, args.Error(2)
}

func (c *C) GetBenchmarks(ctx context.Context, rootLeagueID string, pos model.Position, season string, weeks []int) ([]model.WeeklyBenchmark, error) {
	args := c.Called(ctx, rootLeagueID, pos, season, weeks)

	var r []model.WeeklyBenchmark
	if args.Get(0) != nil {
		r = args.Get(0).([]model.WeeklyBenchmark)
	}
	return r, args.Error(1)
}

func (c *C) GetGraph(ctx context.Context, rootLeagueID string, assets []model.AssetID) (*model.Graph, error) {
	args := c.Called(ctx, rootLeagueID, assets)

	var g *model.Graph
	if args.Get(0) != nil {
		g = args.Get(0).(*model.Graph)
	}
	return g, args.Error(1)
}

func (c *C) TriggerSync(ctx context.Context, rootLeagueID string, mode model.SyncMode) (*model.SyncJob, error) {
	args := c.Called(ctx, rootLeagueID, mode)

	var j *model.SyncJob
	if args.Get(0) != nil {
		j = args.Get(0).(*model.SyncJob)
	}
	return j, args.Error(1)
}

func (c *C) GetSyncStatus(ctx context.Context, rootLeagueID string) (*model.SyncJob, error) {
	args := c.Called(ctx, rootLeagueID)

	var j *model.SyncJob
	if args.Get(0) != nil {
		j = args.Get(0).(*model.SyncJob)
	}
	return j, args.Error(1)
}

func (c *C) ListLeagues(ctx context.Context) ([]model.League, error) {
	args := c.Called(ctx)

	var r []model.League
	if args.Get(0) != nil {
		r = args.Get(0).([]model.League)
	}
	return r, args.Error(1)
}

func (c *C) TopAssets(ctx context.Context, rootLeagueID string, kind model.AssetKind, limit int) ([]model.AssetCount, error) {
	args := c.Called(ctx, rootLeagueID, kind, limit)

	var r []model.AssetCount
	if args.Get(0) != nil {
		r = args.Get(0).([]model.AssetCount)
	}
	return r, args.Error(1)
}

func (c *C) UpdatePlayers(ctx context.Context) error {
	args := c.Called(ctx)
	return args.Error(0)
}

func (c *C) RunPeriodicPlayerUpdates(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	c.Called(frequency, shutdown, wg)
}
