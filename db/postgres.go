package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrygrande/dynasty-dna/model"
)

var (
	ErrLeagueNotFound error = errors.New("league not found")
	ErrPlayerNotFound error = errors.New("player not found")
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) GetLeague(ctx context.Context, id string) (*model.League, error) {
	const query = `SELECT id, name, season, previous_league_id, status, total_rosters
					FROM leagues WHERE id=@id`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	l, err := scanLeague(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("error scanning league %s: %w", id, err)
	}
	return l, nil
}

func (db *postgresDB) SaveLeague(ctx context.Context, l *model.League) error {
	const query = `INSERT INTO leagues (id, name, season, previous_league_id, status, total_rosters)
					VALUES (@id, @name, @season, @prev, @status, @totalRosters)
					ON CONFLICT (id) DO UPDATE
						SET name=@name,
							season=@season,
							previous_league_id=@prev,
							status=@status,
							total_rosters=@totalRosters,
							updated=@updated`

	args := pgx.NamedArgs{
		"id":           l.ID,
		"name":         l.Name,
		"season":       l.Season,
		"prev":         l.PreviousLeagueID,
		"status":       l.Status,
		"totalRosters": l.TotalRosters,
		"updated":      db.now(),
	}
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("error saving league (%s): %w", l.ID, err)
	}
	return nil
}

func (db *postgresDB) ListLeagues(ctx context.Context) ([]model.League, error) {
	const query = `SELECT id, name, season, previous_league_id, status, total_rosters
					FROM leagues ORDER BY season DESC, name`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]model.League, 0, 8)
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning league: %w", err)
		}
		leagues = append(leagues, *l)
	}
	return leagues, rows.Err()
}

func scanLeague(row pgx.Row) (*model.League, error) {
	var l model.League
	err := row.Scan(&l.ID, &l.Name, &l.Season, &l.PreviousLeagueID, &l.Status, &l.TotalRosters)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (db *postgresDB) SaveRosters(ctx context.Context, leagueID string, rosters []model.Roster) error {
	const del = `DELETE FROM rosters WHERE league_id=@leagueID`
	const insert = `INSERT INTO rosters (league_id, roster_id, owner_id)
					VALUES (@leagueID, @rosterID, @ownerID)`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"leagueID": leagueID}); err != nil {
		return fmt.Errorf("error clearing rosters for %s: %w", leagueID, err)
	}

	for _, r := range rosters {
		args := pgx.NamedArgs{
			"leagueID": leagueID,
			"rosterID": r.RosterID,
			"ownerID":  r.OwnerID,
		}
		if _, err := tx.Exec(ctx, insert, args); err != nil {
			return fmt.Errorf("error inserting roster %d for %s: %w", r.RosterID, leagueID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing rosters for %s: %w", leagueID, err)
	}
	return nil
}

func (db *postgresDB) GetRosterOwners(ctx context.Context, leagueID string) (map[int]string, error) {
	const query = `SELECT roster_id, owner_id FROM rosters WHERE league_id=@leagueID`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"leagueID": leagueID})
	if err != nil {
		return nil, fmt.Errorf("error loading rosters for %s: %w", leagueID, err)
	}
	defer rows.Close()

	owners := make(map[int]string)
	for rows.Next() {
		var rosterID int
		var ownerID string
		if err := rows.Scan(&rosterID, &ownerID); err != nil {
			return nil, fmt.Errorf("error scanning roster: %w", err)
		}
		owners[rosterID] = ownerID
	}
	return owners, rows.Err()
}

func (db *postgresDB) SaveManagers(ctx context.Context, managers []model.Manager) error {
	const query = `INSERT INTO managers (id, username, display_name)
					VALUES (@id, @username, @displayName)
					ON CONFLICT (id) DO UPDATE
						SET username=@username, display_name=@displayName`

	for _, m := range managers {
		args := pgx.NamedArgs{
			"id":          m.ID,
			"username":    m.Username,
			"displayName": m.DisplayName,
		}
		if _, err := db.pool.Exec(ctx, query, args); err != nil {
			return fmt.Errorf("error saving manager (%s): %w", m.ID, err)
		}
	}
	return nil
}

func (db *postgresDB) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	const query = `SELECT id, name_first, name_last, position, team, status, created, updated
					FROM players WHERE id=@id`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})

	var p model.Player
	var pos string
	var created, updated pgtype.Timestamptz
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &pos, &p.Team, &p.Status, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error scanning player %s: %w", id, err)
	}
	p.Position = model.ParsePosition(pos)
	p.Created = created.Time
	p.Updated = updated.Time
	return &p, nil
}

func (db *postgresDB) UpsertPlayers(ctx context.Context, players []model.Player) error {
	const query = `INSERT INTO players (id, name_first, name_last, position, team, status)
					VALUES (@id, @nameFirst, @nameLast, @position, @team, @status)
					ON CONFLICT (id) DO UPDATE
						SET name_first=@nameFirst,
							name_last=@nameLast,
							position=@position,
							team=@team,
							status=@status,
							updated=@updated`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range players {
		p := &players[i]
		args := pgx.NamedArgs{
			"id":        p.ID,
			"nameFirst": p.FirstName,
			"nameLast":  p.LastName,
			"position":  string(p.Position),
			"team":      p.Team,
			"status":    p.Status,
			"updated":   db.now(),
		}
		if _, err := tx.Exec(ctx, query, args); err != nil {
			return fmt.Errorf("error upserting player (%s): %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing player upserts: %w", err)
	}
	return nil
}

func (db *postgresDB) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	const query = `INSERT INTO transactions (id, league_id, week, type, status_updated, payload)
					VALUES (@id, @leagueID, @week, @type, @statusUpdated, @payload)
					ON CONFLICT (id) DO NOTHING`

	for i := range txns {
		t := &txns[i]
		payload, err := json.Marshal(map[string]any{
			"adds":        t.Adds,
			"drops":       t.Drops,
			"draft_picks": t.DraftPicks,
		})
		if err != nil {
			return fmt.Errorf("error encoding transaction payload (%s): %w", t.ID, err)
		}

		args := pgx.NamedArgs{
			"id":       t.ID,
			"leagueID": t.LeagueID,
			"week":     t.Week,
			"type":     string(t.Type),
			"statusUpdated": pgtype.Timestamptz{
				Time:  t.StatusUpdated,
				Valid: !t.StatusUpdated.IsZero(),
			},
			"payload": payload,
		}
		if _, err := db.pool.Exec(ctx, query, args); err != nil {
			return fmt.Errorf("error saving transaction (%s): %w", t.ID, err)
		}
	}
	return nil
}

func (db *postgresDB) SavePlayerScores(ctx context.Context, scores []model.PlayerScore) error {
	const query = `INSERT INTO player_scores (league_id, season, week, player_id, roster_id, points, started)
					VALUES (@leagueID, @season, @week, @playerID, @rosterID, @points, @started)
					ON CONFLICT (league_id, season, week, player_id) DO UPDATE
						SET roster_id=@rosterID, points=@points, started=@started`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range scores {
		args := pgx.NamedArgs{
			"leagueID": s.LeagueID,
			"season":   s.Season,
			"week":     s.Week,
			"playerID": s.PlayerID,
			"rosterID": s.RosterID,
			"points":   s.Points,
			"started":  s.Started,
		}
		if _, err := tx.Exec(ctx, query, args); err != nil {
			return fmt.Errorf("error saving score for %s week %d: %w", s.PlayerID, s.Week, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing player scores: %w", err)
	}
	return nil
}

func (db *postgresDB) GetPlayerSeasonScores(ctx context.Context, leagueID, playerID, season string) ([]model.PlayerScore, error) {
	const query = `SELECT league_id, season, week, player_id, roster_id, points, started
					FROM player_scores
					WHERE league_id=@leagueID AND player_id=@playerID AND season=@season
					ORDER BY week`

	args := pgx.NamedArgs{
		"leagueID": leagueID,
		"playerID": playerID,
		"season":   season,
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error loading scores for %s: %w", playerID, err)
	}
	defer rows.Close()

	scores := make([]model.PlayerScore, 0, 18)
	for rows.Next() {
		var s model.PlayerScore
		if err := rows.Scan(&s.LeagueID, &s.Season, &s.Week, &s.PlayerID, &s.RosterID, &s.Points, &s.Started); err != nil {
			return nil, fmt.Errorf("error scanning score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (db *postgresDB) GetStarterScores(ctx context.Context, leagueIDs []string, pos model.Position, season string, week int) ([]float64, error) {
	const query = `SELECT s.points
					FROM player_scores s JOIN players p ON p.id = s.player_id
					WHERE s.league_id = ANY(@leagueIDs)
						AND s.season=@season
						AND s.week=@week
						AND s.started
						AND p.position=@pos`

	args := pgx.NamedArgs{
		"leagueIDs": leagueIDs,
		"season":    season,
		"week":      week,
		"pos":       string(pos),
	}
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error loading starter scores: %w", err)
	}
	defer rows.Close()

	scores := make([]float64, 0, 24)
	for rows.Next() {
		var points float64
		if err := rows.Scan(&points); err != nil {
			return nil, fmt.Errorf("error scanning starter score: %w", err)
		}
		scores = append(scores, points)
	}
	return scores, rows.Err()
}

func (db *postgresDB) LastPlayedWeek(ctx context.Context, leagueID, season string) (int, error) {
	const query = `SELECT COALESCE(MAX(week), 0) FROM player_scores
					WHERE league_id=@leagueID AND season=@season`

	args := pgx.NamedArgs{"leagueID": leagueID, "season": season}
	var week int
	if err := db.pool.QueryRow(ctx, query, args).Scan(&week); err != nil {
		return 0, fmt.Errorf("error finding last played week for %s: %w", leagueID, err)
	}
	return week, nil
}

func (db *postgresDB) now() pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:             db.clock.Now().UTC(),
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}
