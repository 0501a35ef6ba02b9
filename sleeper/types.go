package sleeper

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jrygrande/dynasty-dna/model"
)

type sleeperLeague struct {
	LeagueID         string `json:"league_id"`
	Name             string `json:"name"`
	Season           string `json:"season"`
	Status           string `json:"status"`
	PreviousLeagueID string `json:"previous_league_id"`
	TotalRosters     int    `json:"total_rosters"`
}

func (l *sleeperLeague) toLeague() *model.League {
	return &model.League{
		ID:               l.LeagueID,
		Name:             l.Name,
		Season:           l.Season,
		Status:           l.Status,
		PreviousLeagueID: l.PreviousLeagueID,
		TotalRosters:     l.TotalRosters,
	}
}

type sleeperRoster struct {
	RosterID int    `json:"roster_id"`
	OwnerID  string `json:"owner_id"`
	LeagueID string `json:"league_id"`
}

type sleeperUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// ownerRef decodes the loosely typed owner fields on traded picks. The
// upstream sends either a roster number or a user id string in the same
// field depending on the record.
type ownerRef struct {
	ref model.OwnerRef
}

func (o *ownerRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		o.ref.RosterID = n
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Some records put a stringified roster number in the field.
	if n, err := strconv.Atoi(s); err == nil && n < 100 {
		o.ref.RosterID = n
		return nil
	}
	o.ref.UserID = s
	return nil
}

type sleeperTradedPick struct {
	Season          string   `json:"season"`
	Round           int      `json:"round"`
	RosterID        int      `json:"roster_id"`
	PreviousOwnerID ownerRef `json:"previous_owner_id"`
	OwnerID         ownerRef `json:"owner_id"`
}

func (p *sleeperTradedPick) toTradedPick() model.TradedPick {
	return model.TradedPick{
		Season:           p.Season,
		Round:            p.Round,
		OriginalRosterID: p.RosterID,
		PreviousOwner:    p.PreviousOwnerID.ref,
		NewOwner:         p.OwnerID.ref,
	}
}

type sleeperTransaction struct {
	TransactionID string              `json:"transaction_id"`
	Type          string              `json:"type"`
	Leg           int                 `json:"leg"`
	StatusUpdated int64               `json:"status_updated"`
	Adds          map[string]int      `json:"adds"`
	Drops         map[string]int      `json:"drops"`
	DraftPicks    []sleeperTradedPick `json:"draft_picks"`
}

func (t *sleeperTransaction) toTransaction(leagueID string) model.Transaction {
	picks := make([]model.TradedPick, 0, len(t.DraftPicks))
	for i := range t.DraftPicks {
		picks = append(picks, t.DraftPicks[i].toTradedPick())
	}
	return model.Transaction{
		ID:            t.TransactionID,
		LeagueID:      leagueID,
		Week:          t.Leg,
		Type:          model.TransactionType(t.Type),
		StatusUpdated: time.UnixMilli(t.StatusUpdated).UTC(),
		Adds:          t.Adds,
		Drops:         t.Drops,
		DraftPicks:    picks,
	}
}

type sleeperDraft struct {
	DraftID  string `json:"draft_id"`
	LeagueID string `json:"league_id"`
	Season   string `json:"season"`
}

type sleeperDraftPick struct {
	DraftID  string `json:"draft_id"`
	Round    int    `json:"round"`
	PickNo   int    `json:"pick_no"`
	RosterID int    `json:"roster_id"`
	PlayerID string `json:"player_id"`
}

type sleeperMatchup struct {
	RosterID      int                `json:"roster_id"`
	Starters      []string           `json:"starters"`
	PlayersPoints map[string]float64 `json:"players_points"`
}

func (m *sleeperMatchup) toScores(leagueID string, week int) []model.PlayerScore {
	starters := make(map[string]bool, len(m.Starters))
	for _, s := range m.Starters {
		starters[s] = true
	}

	scores := make([]model.PlayerScore, 0, len(m.PlayersPoints))
	for playerID, points := range m.PlayersPoints {
		scores = append(scores, model.PlayerScore{
			LeagueID: leagueID,
			Week:     week,
			PlayerID: playerID,
			RosterID: m.RosterID,
			Points:   points,
			Started:  starters[playerID],
		})
	}
	return scores
}

type sleeperPlayer struct {
	ID        string `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
	Status    string `json:"status"`
}

func (p *sleeperPlayer) toPlayer() *model.Player {
	return &model.Player{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Position:  model.ParsePosition(p.Position),
		Team:      p.Team,
		Status:    p.Status,
	}
}

// State is the platform's view of where the NFL season currently stands.
type State struct {
	Week       int    `json:"week"`
	Season     string `json:"season"`
	SeasonType string `json:"season_type"`
}
