package mockdb

import (
	"context"
	"time"

	"github.com/jrygrande/dynasty-dna/model"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) GetLeague(ctx context.Context, id string) (*model.League, error) {
	args := db.Called(ctx, id)

	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func (db *DB) SaveLeague(ctx context.Context, l *model.League) error {
	args := db.Called(ctx, l)
	return args.Error(0)
}

func (db *DB) ListLeagues(ctx context.Context) ([]model.League, error) {
	args := db.Called(ctx)

	var r []model.League
	if args.Get(0) != nil {
		r = args.Get(0).([]model.League)
	}
	return r, args.Error(1)
}

func (db *DB) SaveRosters(ctx context.Context, leagueID string, rosters []model.Roster) error {
	args := db.Called(ctx, leagueID, rosters)
	return args.Error(0)
}

func (db *DB) GetRosterOwners(ctx context.Context, leagueID string) (map[int]string, error) {
	args := db.Called(ctx, leagueID)

	var r map[int]string
	if args.Get(0) != nil {
		r = args.Get(0).(map[int]string)
	}
	return r, args.Error(1)
}

func (db *DB) SaveManagers(ctx context.Context, managers []model.Manager) error {
	args := db.Called(ctx, managers)
	return args.Error(0)
}

func (db *DB) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	args := db.Called(ctx, id)

	var p *model.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Player)
	}
	return p, args.Error(1)
}

func (db *DB) UpsertPlayers(ctx context.Context, players []model.Player) error {
	args := db.Called(ctx, players)
	return args.Error(0)
}

func (db *DB) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	args := db.Called(ctx, txns)
	return args.Error(0)
}

func (db *DB) SavePlayerScores(ctx context.Context, scores []model.PlayerScore) error {
	args := db.Called(ctx, scores)
	return args.Error(0)
}

func (db *DB) GetPlayerSeasonScores(ctx context.Context, leagueID, playerID, season string) ([]model.PlayerScore, error) {
	args := db.Called(ctx, leagueID, playerID, season)

	var r []model.PlayerScore
	if args.Get(0) != nil {
		r = args.Get(0).([]model.PlayerScore)
	}
	return r, args.Error(1)
}

func (db *DB) GetStarterScores(ctx context.Context, leagueIDs []string, pos model.Position, season string, week int) ([]float64, error) {
	args := db.Called(ctx, leagueIDs, pos, season, week)

	var r []float64
	if args.Get(0) != nil {
		r = args.Get(0).([]float64)
	}
	return r, args.Error(1)
}

func (db *DB) LastPlayedWeek(ctx context.Context, leagueID, season string) (int, error) {
	args := db.Called(ctx, leagueID, season)
	return args.Int(0), args.Error(1)
}

func (db *DB) ReplaceEvents(ctx context.Context, leagueIDs []string, events []model.AssetEvent) error {
	args := db.Called(ctx, leagueIDs, events)
	return args.Error(0)
}

func (db *DB) InsertEventsIncremental(ctx context.Context, events []model.AssetEvent) (int, error) {
	args := db.Called(ctx, events)
	return args.Int(0), args.Error(1)
}

func (db *DB) QueryTimeline(ctx context.Context, asset model.AssetID, leagueIDs []string) ([]model.AssetEvent, error) {
	args := db.Called(ctx, asset, leagueIDs)

	var r []model.AssetEvent
	if args.Get(0) != nil {
		r = args.Get(0).([]model.AssetEvent)
	}
	return r, args.Error(1)
}

func (db *DB) TopAssetsByEventCount(ctx context.Context, leagueIDs []string, kind model.AssetKind, limit int) ([]model.AssetCount, error) {
	args := db.Called(ctx, leagueIDs, kind, limit)

	var r []model.AssetCount
	if args.Get(0) != nil {
		r = args.Get(0).([]model.AssetCount)
	}
	return r, args.Error(1)
}

func (db *DB) GetSyncJob(ctx context.Context, leagueID string) (*model.SyncJob, error) {
	args := db.Called(ctx, leagueID)

	var j *model.SyncJob
	if args.Get(0) != nil {
		j = args.Get(0).(*model.SyncJob)
	}
	return j, args.Error(1)
}

func (db *DB) ClaimSyncJob(ctx context.Context, leagueID, runID string, mode model.SyncMode, staleAfter time.Duration) (bool, error) {
	args := db.Called(ctx, leagueID, runID, mode, staleAfter)
	return args.Bool(0), args.Error(1)
}

func (db *DB) FinishSyncJob(ctx context.Context, job *model.SyncJob) error {
	args := db.Called(ctx, job)
	return args.Error(0)
}
