package model

// League is one season of a dynasty lineage. Seasons link backwards through
// PreviousLeagueID; the full chain reachable from a root league is a family.
type League struct {
	ID               string
	Name             string
	Season           string
	PreviousLeagueID string
	Status           string
	TotalRosters     int
}

// Roster maps a league-scoped slot number to a durable manager identity.
// Roster numbering is not comparable across leagues, even within a family.
type Roster struct {
	LeagueID string
	RosterID int
	OwnerID  string
}

// Manager is a league member. The ID is stable across seasons even as the
// manager's roster number changes from league to league.
type Manager struct {
	ID          string
	Username    string
	DisplayName string
}
