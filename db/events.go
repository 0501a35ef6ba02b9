package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jrygrande/dynasty-dna/model"
)

// eventChunkSize bounds the size of a single bulk write. Chunks are
// independent; a problem in one does not abort the ones after it.
const eventChunkSize = 500

const insertEventQuery = `INSERT INTO asset_events (
		league_id, season, week, event_time, event_type, asset_kind,
		player_id, pick_season, pick_round, pick_original_roster_id,
		from_roster_id, from_user_id, to_roster_id, to_user_id,
		transaction_id, details
	) VALUES (
		@leagueID, @season, @week, @eventTime, @eventType, @assetKind,
		@playerID, @pickSeason, @pickRound, @pickOriginalRosterID,
		@fromRosterID, @fromUserID, @toRosterID, @toUserID,
		@transactionID, @details
	) ON CONFLICT ON CONSTRAINT uq_asset_events_natural DO NOTHING`

func (db *postgresDB) ReplaceEvents(ctx context.Context, leagueIDs []string, events []model.AssetEvent) error {
	// Guard against an unscoped delete. An empty family means there is
	// nothing to replace, not "replace everything".
	if len(leagueIDs) == 0 {
		return nil
	}

	const del = `DELETE FROM asset_events WHERE league_id = ANY(@leagueIDs)`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"leagueIDs": leagueIDs}); err != nil {
		return fmt.Errorf("error deleting events for replace: %w", err)
	}

	for _, e := range events {
		args, err := namedArgsForEvent(&e)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertEventQuery, args); err != nil {
			return fmt.Errorf("error inserting event for %s: %w", e.Asset(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing event replace: %w", err)
	}
	return nil
}

func (db *postgresDB) InsertEventsIncremental(ctx context.Context, events []model.AssetEvent) (int, error) {
	inserted := 0
	for start := 0; start < len(events); start += eventChunkSize {
		end := min(start+eventChunkSize, len(events))

		n, err := db.insertEventChunk(ctx, events[start:end])
		inserted += n
		if err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

func (db *postgresDB) insertEventChunk(ctx context.Context, events []model.AssetEvent) (int, error) {
	inserted := 0
	for i := range events {
		args, err := namedArgsForEvent(&events[i])
		if err != nil {
			return inserted, err
		}
		tag, err := db.pool.Exec(ctx, insertEventQuery, args)
		if err != nil {
			return inserted, fmt.Errorf("error inserting event for %s: %w", events[i].Asset(), err)
		}
		// A duplicate natural key means the event is already synced.
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (db *postgresDB) QueryTimeline(ctx context.Context, asset model.AssetID, leagueIDs []string) ([]model.AssetEvent, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if len(leagueIDs) == 0 {
		return nil, nil
	}

	const playerQuery = `SELECT ` + eventColumns + `
		FROM asset_events
		WHERE league_id = ANY(@leagueIDs) AND asset_kind='player' AND player_id=@playerID
		ORDER BY season, week, event_time, id`

	const pickQuery = `SELECT ` + eventColumns + `
		FROM asset_events
		WHERE league_id = ANY(@leagueIDs) AND asset_kind='pick'
			AND pick_season=@pickSeason AND pick_round=@pickRound
			AND pick_original_roster_id=@pickOriginalRosterID
		ORDER BY season, week, event_time, id`

	query := playerQuery
	args := pgx.NamedArgs{"leagueIDs": leagueIDs, "playerID": asset.PlayerID}
	if asset.Kind == model.AssetPick {
		query = pickQuery
		args = pgx.NamedArgs{
			"leagueIDs":            leagueIDs,
			"pickSeason":           asset.PickSeason,
			"pickRound":            asset.PickRound,
			"pickOriginalRosterID": asset.PickOriginalRosterID,
		}
	}

	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying timeline for %s: %w", asset, err)
	}
	defer rows.Close()

	events := make([]model.AssetEvent, 0, 8)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (db *postgresDB) TopAssetsByEventCount(ctx context.Context, leagueIDs []string, kind model.AssetKind, limit int) ([]model.AssetCount, error) {
	if len(leagueIDs) == 0 {
		return nil, nil
	}

	const query = `SELECT player_id, pick_season, pick_round, pick_original_roster_id, COUNT(*) AS events
					FROM asset_events
					WHERE league_id = ANY(@leagueIDs) AND asset_kind=@kind
					GROUP BY player_id, pick_season, pick_round, pick_original_roster_id
					ORDER BY events DESC
					LIMIT @limit`

	args := pgx.NamedArgs{
		"leagueIDs": leagueIDs,
		"kind":      string(kind),
		"limit":     limit,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying top assets: %w", err)
	}
	defer rows.Close()

	counts := make([]model.AssetCount, 0, limit)
	for rows.Next() {
		var playerID, pickSeason string
		var pickRound, pickOrig, count int
		if err := rows.Scan(&playerID, &pickSeason, &pickRound, &pickOrig, &count); err != nil {
			return nil, fmt.Errorf("error scanning asset count: %w", err)
		}

		asset := model.PlayerAsset(playerID)
		if kind == model.AssetPick {
			asset = model.PickAsset(pickSeason, pickRound, pickOrig)
		}
		counts = append(counts, model.AssetCount{Asset: asset, Count: count})
	}
	return counts, rows.Err()
}

const eventColumns = `id, league_id, season, week, event_time, event_type, asset_kind,
	player_id, pick_season, pick_round, pick_original_roster_id,
	from_roster_id, from_user_id, to_roster_id, to_user_id, transaction_id, details`

func scanEvent(row pgx.Row) (*model.AssetEvent, error) {
	var e model.AssetEvent
	var eventType, assetKind string
	var eventTime pgtype.Timestamptz
	var details []byte
	err := row.Scan(
		&e.ID,
		&e.LeagueID,
		&e.Season,
		&e.Week,
		&eventTime,
		&eventType,
		&assetKind,
		&e.PlayerID,
		&e.PickSeason,
		&e.PickRound,
		&e.PickOriginalRosterID,
		&e.FromRosterID,
		&e.FromUserID,
		&e.ToRosterID,
		&e.ToUserID,
		&e.TransactionID,
		&details)
	if err != nil {
		return nil, fmt.Errorf("error scanning event: %w", err)
	}

	e.Type = model.EventType(eventType)
	e.Kind = model.AssetKind(assetKind)
	e.EventTime = eventTime.Time
	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("error decoding event details: %w", err)
		}
	}
	return &e, nil
}

func namedArgsForEvent(e *model.AssetEvent) (pgx.NamedArgs, error) {
	details := e.Details
	if details == nil {
		details = map[string]string{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("error encoding event details: %w", err)
	}

	return pgx.NamedArgs{
		"leagueID":  e.LeagueID,
		"season":    e.Season,
		"week":      e.Week,
		"eventTime": pgtype.Timestamptz{Time: e.EventTime.UTC(), Valid: true},
		"eventType": string(e.Type),
		"assetKind": string(e.Kind),

		"playerID":             e.PlayerID,
		"pickSeason":           e.PickSeason,
		"pickRound":            e.PickRound,
		"pickOriginalRosterID": e.PickOriginalRosterID,

		"fromRosterID":  e.FromRosterID,
		"fromUserID":    e.FromUserID,
		"toRosterID":    e.ToRosterID,
		"toUserID":      e.ToUserID,
		"transactionID": e.TransactionID,
		"details":       detailsJSON,
	}, nil
}
