package controller

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrygrande/dynasty-dna/model"
	"github.com/jrygrande/dynasty-dna/parallel"
)

const (
	// staleJobThreshold is how old an in-progress marker must be before a
	// new trigger may assume the run is stuck and take over.
	staleJobThreshold = 15 * time.Minute

	// maxTransactionWeek is the last week the platform paginates
	// transactions and matchups by.
	maxTransactionWeek = 18

	// syncFanOut bounds concurrent upstream fetches for per-week data.
	syncFanOut = 4

	syncTimeout = 30 * time.Minute
)

func (c *controller) TriggerSync(ctx context.Context, rootLeagueID string, mode model.SyncMode) (*model.SyncJob, error) {
	if mode != model.SyncFull && mode != model.SyncIncremental {
		return nil, fmt.Errorf("unknown sync mode: %s", mode)
	}

	// Make sure the root league exists before claiming a job for it.
	if _, err := c.lookupLeague(ctx, rootLeagueID); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	claimed, err := c.db.ClaimSyncJob(ctx, rootLeagueID, runID, mode, staleJobThreshold)
	if err != nil {
		return nil, err
	}
	if !claimed {
		job, err := c.db.GetSyncJob(ctx, rootLeagueID)
		if err != nil {
			return nil, err
		}
		return job, ErrSyncInProgress
	}

	// The rebuild runs outside the request lifetime; status is polled via
	// GetSyncStatus.
	go c.runSync(rootLeagueID, runID, mode)

	return c.db.GetSyncJob(ctx, rootLeagueID)
}

func (c *controller) GetSyncStatus(ctx context.Context, rootLeagueID string) (*model.SyncJob, error) {
	return c.db.GetSyncJob(ctx, rootLeagueID)
}

func (c *controller) runSync(rootLeagueID, runID string, mode model.SyncMode) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	job := &model.SyncJob{
		LeagueID: rootLeagueID,
		RunID:    runID,
		Mode:     mode,
		Status:   model.SyncStatusDone,
	}

	written, synced, failures, err := c.sync(ctx, rootLeagueID, mode)
	job.LeaguesSynced = synced
	job.EventsWritten = written
	if err != nil {
		job.Status = model.SyncStatusFailed
		job.Message = err.Error()
	} else if len(failures) > 0 {
		// Partial success: the leagues that synced are fully written.
		job.Message = fmt.Sprintf("skipped leagues: %s", strings.Join(failures, "; "))
	}

	if err := c.db.FinishSyncJob(context.Background(), job); err != nil {
		log.Printf("error recording sync result for %s: %v", rootLeagueID, err)
	}
	log.Printf("sync %s for %s finished: %s (%d leagues, %d events)",
		mode, rootLeagueID, job.Status, job.LeaguesSynced, job.EventsWritten)
}

// sync pulls raw data for the family (or just the root league for
// incremental mode), normalizes it, and writes events. Leagues that fail to
// sync are skipped and reported; they never fabricate data.
func (c *controller) sync(ctx context.Context, rootLeagueID string, mode model.SyncMode) (written, synced int, failures []string, err error) {
	family, err := c.ResolveFamily(ctx, rootLeagueID)
	if err != nil {
		return 0, 0, nil, err
	}

	toSync := family
	if mode == model.SyncIncremental {
		// Older seasons are immutable; only the root league can change.
		toSync = family[:1]
	}

	datas := make([]leagueData, 0, len(toSync))
	var syncedIDs []string
	for _, id := range toSync {
		ld, err := c.syncLeague(ctx, id)
		if err != nil {
			log.Printf("error syncing league %s: %v", id, err)
			failures = append(failures, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		datas = append(datas, *ld)
		syncedIDs = append(syncedIDs, id)
	}

	events := normalizeFamily(datas)

	switch mode {
	case model.SyncFull:
		if err := c.db.ReplaceEvents(ctx, syncedIDs, events); err != nil {
			return 0, len(syncedIDs), failures, err
		}
		written = len(events)
	case model.SyncIncremental:
		n, err := c.db.InsertEventsIncremental(ctx, events)
		if err != nil {
			return n, len(syncedIDs), failures, err
		}
		written = n
	}

	// Scores may have changed; cached derivations are no longer trustworthy.
	c.byeWeeks.clear()
	c.benchmarks.clear()

	return written, len(syncedIDs), failures, nil
}

// syncLeague refreshes one league's rosters, managers, transactions, drafts
// and scores, and returns the raw material for normalization.
func (c *controller) syncLeague(ctx context.Context, leagueID string) (*leagueData, error) {
	l, err := c.lookupLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	rosters, err := c.sleeper.GetRosters(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("error fetching rosters: %w", err)
	}
	if err := c.db.SaveRosters(ctx, leagueID, rosters); err != nil {
		return nil, err
	}

	managers, err := c.sleeper.GetUsers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	if err := c.db.SaveManagers(ctx, managers); err != nil {
		return nil, err
	}

	drafts, err := c.sleeper.GetDrafts(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("error fetching drafts: %w", err)
	}
	draftPicks := make(map[string][]model.DraftPick, len(drafts))
	for _, d := range drafts {
		picks, err := c.sleeper.GetDraftPicks(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("error fetching picks for draft %s: %w", d.ID, err)
		}
		draftPicks[d.ID] = picks
	}

	tradedPicks, err := c.sleeper.GetTradedPicks(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("error fetching traded picks: %w", err)
	}

	weeks := make([]int, maxTransactionWeek)
	for i := range weeks {
		weeks[i] = i + 1
	}

	weeklyTxns, err := parallel.Map(ctx, syncFanOut, weeks, func(ctx context.Context, week int) ([]model.Transaction, error) {
		return c.sleeper.GetTransactions(ctx, leagueID, week)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching transactions: %w", err)
	}

	var txns []model.Transaction
	for _, wt := range weeklyTxns {
		txns = append(txns, wt...)
	}
	if err := c.db.SaveTransactions(ctx, txns); err != nil {
		return nil, err
	}

	weeklyScores, err := parallel.Map(ctx, syncFanOut, weeks, func(ctx context.Context, week int) ([]model.PlayerScore, error) {
		return c.sleeper.GetMatchups(ctx, leagueID, week)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching matchups: %w", err)
	}

	var scores []model.PlayerScore
	for _, ws := range weeklyScores {
		for i := range ws {
			ws[i].Season = l.Season
		}
		scores = append(scores, ws...)
	}
	if err := c.db.SavePlayerScores(ctx, scores); err != nil {
		return nil, err
	}

	owners := make(map[int]string, len(rosters))
	for _, r := range rosters {
		owners[r.RosterID] = r.OwnerID
	}

	return &leagueData{
		league:       *l,
		rosterOwners: owners,
		transactions: txns,
		drafts:       drafts,
		draftPicks:   draftPicks,
		tradedPicks:  tradedPicks,
	}, nil
}
