package model

import "time"

type TransactionType string

const (
	TransactionTrade        TransactionType = "trade"
	TransactionWaiver       TransactionType = "waiver"
	TransactionFreeAgent    TransactionType = "free_agent"
	TransactionCommissioner TransactionType = "commissioner"
)

// Transaction is a raw, immutable record of a roster move as reported by the
// platform. Adds and Drops map player IDs to the roster gaining or losing
// them. For trades, DraftPicks lists the picks that changed hands.
type Transaction struct {
	ID            string
	LeagueID      string
	Week          int
	Type          TransactionType
	StatusUpdated time.Time
	Adds          map[string]int
	Drops         map[string]int
	DraftPicks    []TradedPick
}

// TradedPick is one draft pick changing hands. OriginalRosterID is the roster
// that would have held the pick absent any trade; it is invariant for the
// life of the pick and is how the pick is tracked across trades.
type TradedPick struct {
	Season           string
	Round            int
	OriginalRosterID int
	PreviousOwner    OwnerRef
	NewOwner         OwnerRef
}

// OwnerRef identifies one side of a pick trade. The platform reports owners
// inconsistently: sometimes as a roster number, sometimes as a user id
// string. Exactly one of the fields is set; both zero means the source
// provided nothing usable.
type OwnerRef struct {
	RosterID int
	UserID   string
}

func (o OwnerRef) IsZero() bool {
	return o.RosterID == 0 && o.UserID == ""
}

// Draft is a league's draft. Picks are fetched separately by draft ID.
type Draft struct {
	ID       string
	LeagueID string
	Season   string
}

// DraftPick is a single selection in a draft. PlayerID is empty until the
// pick has been made.
type DraftPick struct {
	DraftID  string
	Round    int
	PickNo   int
	RosterID int
	PlayerID string
}
