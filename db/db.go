package db

import (
	"context"
	"time"

	"github.com/jrygrande/dynasty-dna/model"
)

type DB interface {
	GetLeague(ctx context.Context, id string) (*model.League, error)
	SaveLeague(ctx context.Context, l *model.League) error
	ListLeagues(ctx context.Context) ([]model.League, error)

	// SaveRosters replaces a league's roster rows; roster numbering is
	// rebuilt from scratch on every sync.
	SaveRosters(ctx context.Context, leagueID string, rosters []model.Roster) error
	// GetRosterOwners returns the rosterID -> ownerUserID map for one league.
	GetRosterOwners(ctx context.Context, leagueID string) (map[int]string, error)

	SaveManagers(ctx context.Context, managers []model.Manager) error

	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	UpsertPlayers(ctx context.Context, players []model.Player) error

	SaveTransactions(ctx context.Context, txns []model.Transaction) error

	SavePlayerScores(ctx context.Context, scores []model.PlayerScore) error
	// GetPlayerSeasonScores returns all of a player's weekly scores in one
	// league season, ordered by week.
	GetPlayerSeasonScores(ctx context.Context, leagueID, playerID, season string) ([]model.PlayerScore, error)
	// GetStarterScores returns the scores of every starter at the position
	// across the given leagues for one week.
	GetStarterScores(ctx context.Context, leagueIDs []string, pos model.Position, season string, week int) ([]float64, error)
	// LastPlayedWeek is the highest week with recorded scores for a league
	// season, 0 when nothing has been played.
	LastPlayedWeek(ctx context.Context, leagueID, season string) (int, error)

	// ReplaceEvents deletes all events for the given leagues and bulk
	// inserts the new set. An empty league list is a no-op; it never
	// deletes globally.
	ReplaceEvents(ctx context.Context, leagueIDs []string, events []model.AssetEvent) error
	// InsertEventsIncremental inserts events, silently skipping rows that
	// collide on the natural key. Returns the number actually inserted.
	InsertEventsIncremental(ctx context.Context, events []model.AssetEvent) (int, error)
	QueryTimeline(ctx context.Context, asset model.AssetID, leagueIDs []string) ([]model.AssetEvent, error)
	TopAssetsByEventCount(ctx context.Context, leagueIDs []string, kind model.AssetKind, limit int) ([]model.AssetCount, error)

	GetSyncJob(ctx context.Context, leagueID string) (*model.SyncJob, error)
	// ClaimSyncJob marks a sync as in progress for the league. It fails to
	// claim when another run is in progress and fresher than staleAfter.
	ClaimSyncJob(ctx context.Context, leagueID, runID string, mode model.SyncMode, staleAfter time.Duration) (bool, error)
	FinishSyncJob(ctx context.Context, job *model.SyncJob) error
}
