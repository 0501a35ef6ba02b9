package controller

import (
	"sort"
	"strconv"

	"github.com/jrygrande/dynasty-dna/model"
)

// leagueData is the raw material the normalizer consumes for one league:
// its transactions, drafts and the roster -> owner map. Roster numbering is
// league-scoped, so each league carries its own map.
type leagueData struct {
	league       model.League
	rosterOwners map[int]string
	transactions []model.Transaction
	drafts       []model.Draft
	draftPicks   map[string][]model.DraftPick
	tradedPicks  []model.TradedPick
}

// normalizeFamily converts a family's raw records into asset events. It is a
// pure function: running it twice over the same inputs yields the same
// multiset of events, which is what makes both full-rebuild and incremental
// writes safe.
func normalizeFamily(family []leagueData) []model.AssetEvent {
	var events []model.AssetEvent
	for i := range family {
		events = append(events, normalizeLeague(&family[i])...)
	}
	return events
}

func normalizeLeague(ld *leagueData) []model.AssetEvent {
	var events []model.AssetEvent

	for _, d := range ld.drafts {
		events = append(events, normalizeDraft(ld, d)...)
	}
	for i := range ld.transactions {
		events = append(events, normalizeTransaction(ld, &ld.transactions[i])...)
	}
	return events
}

// normalizeDraft emits two events per completed selection: one for the
// player entering the drafting roster and one consuming the pick asset.
func normalizeDraft(ld *leagueData, d model.Draft) []model.AssetEvent {
	var events []model.AssetEvent

	for _, pick := range ld.draftPicks[d.ID] {
		if pick.PlayerID == "" {
			continue
		}

		details := map[string]string{
			"round":   strconv.Itoa(pick.Round),
			"pick_no": strconv.Itoa(pick.PickNo),
		}

		events = append(events, model.AssetEvent{
			LeagueID:   ld.league.ID,
			Season:     d.Season,
			Week:       0,
			Type:       model.EventDraftSelected,
			Kind:       model.AssetPlayer,
			PlayerID:   pick.PlayerID,
			ToRosterID: pick.RosterID,
			ToUserID:   ld.rosterOwners[pick.RosterID],
			Details:    details,
		})

		events = append(events, model.AssetEvent{
			LeagueID:             ld.league.ID,
			Season:               d.Season,
			Week:                 0,
			Type:                 model.EventPickSelected,
			Kind:                 model.AssetPick,
			PickSeason:           d.Season,
			PickRound:            pick.Round,
			PickOriginalRosterID: originalRosterForPick(ld, d.Season, pick),
			ToRosterID:           pick.RosterID,
			ToUserID:             ld.rosterOwners[pick.RosterID],
			Details:              map[string]string{"player_id": pick.PlayerID},
		})
	}
	return events
}

// originalRosterForPick recovers the pre-trade owning roster of a drafted
// pick. If the traded-pick records show the drafting roster acquired this
// (season, round) pick from someone, the original owner comes from there;
// otherwise the pick was never traded and the drafting roster is original.
func originalRosterForPick(ld *leagueData, season string, pick model.DraftPick) int {
	for _, tp := range ld.tradedPicks {
		if tp.Season != season || tp.Round != pick.Round {
			continue
		}
		toRoster, _ := resolveOwnerRef(tp.NewOwner, ld.rosterOwners)
		if toRoster == pick.RosterID {
			return tp.OriginalRosterID
		}
	}
	return pick.RosterID
}

func normalizeTransaction(ld *leagueData, t *model.Transaction) []model.AssetEvent {
	if t.Type == model.TransactionTrade {
		return normalizeTrade(ld, t)
	}
	return normalizeAddDrop(ld, t)
}

// normalizeTrade emits exactly one event per moved player, carrying both
// sides of the move: the from fields are filled from the same transaction's
// drop of that player when present. Pick movements become pick_trade events.
func normalizeTrade(ld *leagueData, t *model.Transaction) []model.AssetEvent {
	var events []model.AssetEvent

	for _, playerID := range sortedKeys(t.Adds) {
		e := model.AssetEvent{
			LeagueID:      ld.league.ID,
			Season:        ld.league.Season,
			Week:          t.Week,
			EventTime:     t.StatusUpdated,
			Type:          model.EventTrade,
			Kind:          model.AssetPlayer,
			PlayerID:      playerID,
			ToRosterID:    t.Adds[playerID],
			ToUserID:      ld.rosterOwners[t.Adds[playerID]],
			TransactionID: t.ID,
		}
		if fromRoster, ok := t.Drops[playerID]; ok {
			e.FromRosterID = fromRoster
			e.FromUserID = ld.rosterOwners[fromRoster]
		}
		events = append(events, e)
	}

	for _, tp := range t.DraftPicks {
		fromRoster, fromUser := resolveOwnerRef(tp.PreviousOwner, ld.rosterOwners)
		toRoster, toUser := resolveOwnerRef(tp.NewOwner, ld.rosterOwners)

		events = append(events, model.AssetEvent{
			LeagueID:             ld.league.ID,
			Season:               ld.league.Season,
			Week:                 t.Week,
			EventTime:            t.StatusUpdated,
			Type:                 model.EventPickTrade,
			Kind:                 model.AssetPick,
			PickSeason:           tp.Season,
			PickRound:            tp.Round,
			PickOriginalRosterID: tp.OriginalRosterID,
			FromRosterID:         fromRoster,
			FromUserID:           fromUser,
			ToRosterID:           toRoster,
			ToUserID:             toUser,
			TransactionID:        t.ID,
		})
	}
	return events
}

func normalizeAddDrop(ld *leagueData, t *model.Transaction) []model.AssetEvent {
	addType, dropType := addDropEventTypes(t.Type)

	var events []model.AssetEvent
	for _, playerID := range sortedKeys(t.Adds) {
		rosterID := t.Adds[playerID]
		events = append(events, model.AssetEvent{
			LeagueID:      ld.league.ID,
			Season:        ld.league.Season,
			Week:          t.Week,
			EventTime:     t.StatusUpdated,
			Type:          addType,
			Kind:          model.AssetPlayer,
			PlayerID:      playerID,
			ToRosterID:    rosterID,
			ToUserID:      ld.rosterOwners[rosterID],
			TransactionID: t.ID,
		})
	}
	for _, playerID := range sortedKeys(t.Drops) {
		rosterID := t.Drops[playerID]
		events = append(events, model.AssetEvent{
			LeagueID:      ld.league.ID,
			Season:        ld.league.Season,
			Week:          t.Week,
			EventTime:     t.StatusUpdated,
			Type:          dropType,
			Kind:          model.AssetPlayer,
			PlayerID:      playerID,
			FromRosterID:  rosterID,
			FromUserID:    ld.rosterOwners[rosterID],
			TransactionID: t.ID,
		})
	}
	return events
}

func addDropEventTypes(t model.TransactionType) (model.EventType, model.EventType) {
	switch t {
	case model.TransactionWaiver:
		return model.EventWaiverAdd, model.EventWaiverDrop
	case model.TransactionFreeAgent:
		return model.EventFreeAgentAdd, model.EventFreeAgentDrop
	default:
		return model.EventAdd, model.EventDrop
	}
}

// resolveOwnerRef turns a loosely typed owner reference into a roster id and
// user id. A user-shaped ref is used directly; a roster-shaped ref resolves
// through the league's roster map. When the source provided neither, both
// returns are zero and the event side stays unattributed.
func resolveOwnerRef(ref model.OwnerRef, owners map[int]string) (int, string) {
	if ref.UserID != "" {
		return rosterForOwner(owners, ref.UserID), ref.UserID
	}
	if ref.RosterID != 0 {
		return ref.RosterID, owners[ref.RosterID]
	}
	return 0, ""
}

func rosterForOwner(owners map[int]string, userID string) int {
	for rosterID, ownerID := range owners {
		if ownerID == userID {
			return rosterID
		}
	}
	return 0
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
