package model

import "time"

type Player struct {
	ID        string
	FirstName string
	LastName  string
	Position  Position
	Team      string
	Status    string
	Created   time.Time
	Updated   time.Time
}

func (p *Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// PlayerScore is how many fantasy points a player scored in a single week of
// a single league, and whether they were in the starting lineup that week.
type PlayerScore struct {
	LeagueID string
	Season   string
	Week     int
	PlayerID string
	RosterID int
	Points   float64
	Started  bool
}
