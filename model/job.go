package model

import "time"

type SyncMode string

const (
	SyncFull        SyncMode = "full"
	SyncIncremental SyncMode = "incremental"
)

type SyncStatus string

const (
	SyncStatusInProgress SyncStatus = "in_progress"
	SyncStatusDone       SyncStatus = "done"
	SyncStatusFailed     SyncStatus = "failed"
)

// SyncJob is the coarse-grained status of the most recent sync for a root
// league. One row per root league; a new trigger replaces the previous run
// unless one is still in progress and not stale.
type SyncJob struct {
	LeagueID      string
	RunID         string
	Mode          SyncMode
	Status        SyncStatus
	Message       string
	LeaguesSynced int
	EventsWritten int
	Started       time.Time
	Updated       time.Time
}
