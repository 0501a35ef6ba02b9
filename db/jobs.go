package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jrygrande/dynasty-dna/model"
)

var ErrJobNotFound = errors.New("sync job not found")

func (db *postgresDB) GetSyncJob(ctx context.Context, leagueID string) (*model.SyncJob, error) {
	const query = `SELECT league_id, run_id, mode, status, message, leagues_synced, events_written, started, updated
					FROM sync_jobs WHERE league_id=@leagueID`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"leagueID": leagueID})

	var j model.SyncJob
	var mode, status string
	var started, updated pgtype.Timestamptz
	err := row.Scan(&j.LeagueID, &j.RunID, &mode, &status, &j.Message,
		&j.LeaguesSynced, &j.EventsWritten, &started, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("error scanning sync job for %s: %w", leagueID, err)
	}

	j.Mode = model.SyncMode(mode)
	j.Status = model.SyncStatus(status)
	j.Started = started.Time
	j.Updated = updated.Time
	return &j, nil
}

// ClaimSyncJob takes the job slot for a league. The conditional upsert only
// succeeds when no run is in progress, or when the in-progress marker is
// older than staleAfter and is presumed stuck.
func (db *postgresDB) ClaimSyncJob(ctx context.Context, leagueID, runID string, mode model.SyncMode, staleAfter time.Duration) (bool, error) {
	const query = `INSERT INTO sync_jobs (league_id, run_id, mode, status, message, leagues_synced, events_written, started, updated)
					VALUES (@leagueID, @runID, @mode, 'in_progress', '', 0, 0, @now, @now)
					ON CONFLICT (league_id) DO UPDATE
						SET run_id=@runID,
							mode=@mode,
							status='in_progress',
							message='',
							leagues_synced=0,
							events_written=0,
							started=@now,
							updated=@now
						WHERE sync_jobs.status <> 'in_progress' OR sync_jobs.updated < @stale`

	now := db.clock.Now().UTC()
	args := pgx.NamedArgs{
		"leagueID": leagueID,
		"runID":    runID,
		"mode":     string(mode),
		"now":      pgtype.Timestamptz{Time: now, Valid: true},
		"stale":    pgtype.Timestamptz{Time: now.Add(-staleAfter), Valid: true},
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return false, fmt.Errorf("error claiming sync job for %s: %w", leagueID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *postgresDB) FinishSyncJob(ctx context.Context, job *model.SyncJob) error {
	const query = `UPDATE sync_jobs
					SET status=@status,
						message=@message,
						leagues_synced=@leaguesSynced,
						events_written=@eventsWritten,
						updated=@now
					WHERE league_id=@leagueID AND run_id=@runID`

	args := pgx.NamedArgs{
		"leagueID":      job.LeagueID,
		"runID":         job.RunID,
		"status":        string(job.Status),
		"message":       job.Message,
		"leaguesSynced": job.LeaguesSynced,
		"eventsWritten": job.EventsWritten,
		"now":           db.now(),
	}
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("error finishing sync job for %s: %w", job.LeagueID, err)
	}
	return nil
}
