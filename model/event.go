package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type AssetKind string

const (
	AssetPlayer AssetKind = "player"
	AssetPick   AssetKind = "pick"
)

type EventType string

const (
	EventDraftSelected      EventType = "draft_selected"
	EventPickSelected       EventType = "pick_selected"
	EventTrade              EventType = "trade"
	EventPickTrade          EventType = "pick_trade"
	EventWaiverAdd          EventType = "waiver_add"
	EventWaiverDrop         EventType = "waiver_drop"
	EventFreeAgentAdd       EventType = "free_agent_add"
	EventFreeAgentDrop      EventType = "free_agent_drop"
	EventAdd                EventType = "add"
	EventDrop               EventType = "drop"
	EventSeasonContinuation EventType = "season_continuation"
)

var ErrInvalidAsset = errors.New("invalid asset identity")

// AssetID identifies a player or a draft pick. Picks have no surrogate id;
// their identity is the (season, round, original roster) tuple.
type AssetID struct {
	Kind                 AssetKind
	PlayerID             string
	PickSeason           string
	PickRound            int
	PickOriginalRosterID int
}

func PlayerAsset(playerID string) AssetID {
	return AssetID{Kind: AssetPlayer, PlayerID: playerID}
}

func PickAsset(season string, round, originalRosterID int) AssetID {
	return AssetID{
		Kind:                 AssetPick,
		PickSeason:           season,
		PickRound:            round,
		PickOriginalRosterID: originalRosterID,
	}
}

func (a AssetID) Validate() error {
	switch a.Kind {
	case AssetPlayer:
		if a.PlayerID == "" {
			return fmt.Errorf("%w: player asset without player id", ErrInvalidAsset)
		}
	case AssetPick:
		if a.PickSeason == "" || a.PickRound <= 0 || a.PickOriginalRosterID <= 0 {
			return fmt.Errorf("%w: pick asset needs season, round and original roster", ErrInvalidAsset)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAsset, a.Kind)
	}
	return nil
}

func (a AssetID) String() string {
	if a.Kind == AssetPick {
		return fmt.Sprintf("pick:%s-%d-%d", a.PickSeason, a.PickRound, a.PickOriginalRosterID)
	}
	return fmt.Sprintf("player:%s", a.PlayerID)
}

// MarshalText serializes the asset as the same compact form that
// ParseAssetID accepts, so JSON payloads carry "player:4034" rather
// than the struct fields.
func (a AssetID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AssetID) UnmarshalText(text []byte) error {
	parsed, err := ParseAssetID(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAssetID parses the format produced by String.
func ParseAssetID(s string) (AssetID, error) {
	kind, rest, found := strings.Cut(s, ":")
	if !found {
		return AssetID{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	switch AssetKind(kind) {
	case AssetPlayer:
		a := PlayerAsset(rest)
		return a, a.Validate()
	case AssetPick:
		parts := strings.Split(rest, "-")
		if len(parts) != 3 {
			return AssetID{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
		}
		round, err := strconv.Atoi(parts[1])
		if err != nil {
			return AssetID{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
		}
		orig, err := strconv.Atoi(parts[2])
		if err != nil {
			return AssetID{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
		}
		a := PickAsset(parts[0], round, orig)
		return a, a.Validate()
	}
	return AssetID{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidAsset, kind)
}

// AssetEvent is one normalized, immutable record of an ownership-affecting
// action on an asset. Roster ids of 0 and empty strings mean "not known";
// the natural key treats them as concrete values so duplicate rows collide.
type AssetEvent struct {
	ID                   int64
	LeagueID             string
	Season               string
	Week                 int
	EventTime            time.Time
	Type                 EventType
	Kind                 AssetKind
	PlayerID             string
	PickSeason           string
	PickRound            int
	PickOriginalRosterID int
	FromRosterID         int
	FromUserID           string
	ToRosterID           int
	ToUserID             string
	TransactionID        string
	Details              map[string]string

	// IsContinuation marks events synthesized at read time to carry
	// ownership across a season boundary. They are never persisted.
	IsContinuation bool
}

func (e *AssetEvent) Asset() AssetID {
	if e.Kind == AssetPick {
		return PickAsset(e.PickSeason, e.PickRound, e.PickOriginalRosterID)
	}
	return PlayerAsset(e.PlayerID)
}

// Compare orders events chronologically by (season, week, event time).
// EventTime is the tiebreaker for two transactions in the same week.
func (e *AssetEvent) Compare(o *AssetEvent) int {
	if e.Season != o.Season {
		return strings.Compare(e.Season, o.Season)
	}
	if e.Week != o.Week {
		return e.Week - o.Week
	}
	return e.EventTime.Compare(o.EventTime)
}

// AssetCount is a diagnostic aggregate: an asset and how many events it has.
type AssetCount struct {
	Asset AssetID
	Count int
}
