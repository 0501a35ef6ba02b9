package controller

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/jrygrande/dynasty-dna/model"
)

// regularSeasonMaxWeek is the last week that counts toward performance
// metrics; later weeks are postseason placeholders.
const regularSeasonMaxWeek = 17

// maxGamesPerSeason caps the raw game counts in period metrics.
const maxGamesPerSeason = 16

func (c *controller) GetTimeline(ctx context.Context, rootLeagueID string, asset model.AssetID) ([]model.AssetEvent, []model.PerformancePeriod, error) {
	if err := asset.Validate(); err != nil {
		return nil, nil, err
	}

	family, err := c.ResolveFamily(ctx, rootLeagueID)
	if err != nil {
		return nil, nil, err
	}

	events, err := c.db.QueryTimeline(ctx, asset, family)
	if err != nil {
		return nil, nil, err
	}
	if len(events) == 0 {
		return []model.AssetEvent{}, []model.PerformancePeriod{}, nil
	}

	// Oldest season first, so continuation scans walk forward in time.
	leagues, err := c.familyLeagues(ctx, family)
	if err != nil {
		return nil, nil, err
	}

	events, err = c.addContinuations(ctx, events, leagues)
	if err != nil {
		return nil, nil, err
	}

	periods, err := c.segment(ctx, asset, events)
	if err != nil {
		return nil, nil, err
	}
	return events, periods, nil
}

// familyLeagues loads the family's league rows ordered oldest season first.
func (c *controller) familyLeagues(ctx context.Context, family []string) ([]model.League, error) {
	leagues := make([]model.League, 0, len(family))
	for i := len(family) - 1; i >= 0; i-- {
		l, err := c.db.GetLeague(ctx, family[i])
		if err != nil {
			return nil, fmt.Errorf("error loading league %s: %w", family[i], err)
		}
		leagues = append(leagues, *l)
	}
	return leagues, nil
}

// addContinuations inserts synthetic season_continuation events wherever the
// asset crossed a season boundary while held, so later seasons still get an
// attributable period even without a triggering transaction. The synthetic
// events are never persisted.
func (c *controller) addContinuations(ctx context.Context, events []model.AssetEvent, leagues []model.League) ([]model.AssetEvent, error) {
	out := make([]model.AssetEvent, 0, len(events)+2)

	for i := range events {
		out = append(out, events[i])

		e := &events[i]
		if e.ToRosterID == 0 {
			// Not a holding event; nothing to carry forward.
			continue
		}

		var next *model.AssetEvent
		if i+1 < len(events) {
			next = &events[i+1]
		}

		for _, l := range leagues {
			if l.Season <= e.Season {
				continue
			}
			if next != nil {
				if l.Season > next.Season {
					break
				}
				// The next event already marks this season's start.
				if l.Season == next.Season && next.Week <= 1 {
					break
				}
			}

			cont, err := c.continuationEvent(ctx, e, l)
			if err != nil {
				return nil, err
			}
			out = append(out, *cont)

			if next != nil && l.Season == next.Season {
				break
			}
		}
	}

	return out, nil
}

func (c *controller) continuationEvent(ctx context.Context, held *model.AssetEvent, l model.League) (*model.AssetEvent, error) {
	cont := *held
	cont.ID = 0
	cont.LeagueID = l.ID
	cont.Season = l.Season
	cont.Week = 0
	cont.EventTime = held.EventTime
	cont.Type = model.EventSeasonContinuation
	cont.TransactionID = ""
	cont.FromRosterID = 0
	cont.FromUserID = ""
	cont.Details = nil
	cont.IsContinuation = true

	// Roster numbering changes between leagues; re-resolve the owner's slot
	// in the new league and fall back to the old number if they're gone.
	owners, err := c.db.GetRosterOwners(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if rosterID := rosterForOwner(owners, held.ToUserID); rosterID != 0 {
		cont.ToRosterID = rosterID
	}
	return &cont, nil
}

// segment derives ownership periods from a chronological timeline. Every
// event with a to-side opens a period; the next event closes it, or the
// season/current week does when there is no next event in the same season.
func (c *controller) segment(ctx context.Context, asset model.AssetID, events []model.AssetEvent) ([]model.PerformancePeriod, error) {
	periods := make([]model.PerformancePeriod, 0, len(events))

	for i := range events {
		e := &events[i]
		if e.ToRosterID == 0 {
			continue
		}

		p := model.PerformancePeriod{
			Asset:          asset,
			LeagueID:       e.LeagueID,
			Season:         e.Season,
			RosterID:       e.ToRosterID,
			OwnerUserID:    e.ToUserID,
			StartWeek:      max(e.Week, 1), // week 0 is the draft
			IsContinuation: e.IsContinuation,
		}

		var next *model.AssetEvent
		if i+1 < len(events) {
			next = &events[i+1]
		}

		switch {
		case next == nil:
			lastWeek, err := c.db.LastPlayedWeek(ctx, e.LeagueID, e.Season)
			if err != nil {
				return nil, err
			}
			p.EndWeek = max(lastWeek, p.StartWeek)
			p.Current = true
		case next.Season == e.Season:
			p.EndWeek = next.Week - 1
		default:
			lastWeek, err := c.db.LastPlayedWeek(ctx, e.LeagueID, e.Season)
			if err != nil {
				return nil, err
			}
			p.EndWeek = max(lastWeek, p.StartWeek)
		}

		if p.EndWeek < p.StartWeek && !p.Current {
			// Zero-length window, e.g. acquired and moved in the same week.
			continue
		}

		if asset.Kind == model.AssetPlayer {
			metrics, err := c.periodMetrics(ctx, &p)
			if err != nil {
				return nil, err
			}
			p.Metrics = metrics
		}

		periods = append(periods, p)
	}
	return periods, nil
}

func (c *controller) periodMetrics(ctx context.Context, p *model.PerformancePeriod) (model.PeriodMetrics, error) {
	var m model.PeriodMetrics

	scores, err := c.db.GetPlayerSeasonScores(ctx, p.LeagueID, p.Asset.PlayerID, p.Season)
	if err != nil {
		return m, err
	}
	if len(scores) == 0 {
		return m, nil
	}

	bye := c.byeWeek(p.LeagueID, p.Asset.PlayerID, p.Season, scores)

	var total, starterPoints, benchPoints float64
	var played, started int
	for _, s := range scores {
		if s.Week < p.StartWeek || s.Week > p.EndWeek || s.Week > regularSeasonMaxWeek {
			continue
		}
		if s.Week == bye {
			continue
		}
		if s.RosterID != 0 && s.RosterID != p.RosterID {
			continue
		}

		played++
		total += s.Points
		if s.Started {
			started++
			starterPoints += s.Points
		} else {
			benchPoints += s.Points
		}
	}

	if played == 0 {
		return m, nil
	}

	m.PPG = total / float64(played)
	m.StarterPct = float64(started) / float64(played) * 100
	if started > 0 {
		m.PPGStarter = starterPoints / float64(started)
	}
	if bench := played - started; bench > 0 {
		m.PPGBench = benchPoints / float64(bench)
	}
	m.GamesPlayed = min(played, maxGamesPerSeason)
	m.GamesStarted = min(started, maxGamesPerSeason)
	return m, nil
}

// byeWeek finds a player's bye in one league season: the first week in 4-14
// where they scored exactly zero while benched. This is a heuristic, not
// ground truth; a healthy scratch with zero points looks identical. Results
// are cached per (league, player, season). Returns 0 when nothing matches.
func (c *controller) byeWeek(leagueID, playerID, season string, scores []model.PlayerScore) int {
	key := byeWeekKey{leagueID: leagueID, playerID: playerID, season: season}
	if week, ok := c.byeWeeks.get(key); ok {
		return week
	}

	ordered := slices.Clone(scores)
	slices.SortFunc(ordered, func(a, b model.PlayerScore) int { return a.Week - b.Week })

	week := 0
	for _, s := range ordered {
		if s.Week < 4 || s.Week > 14 {
			continue
		}
		if s.Points == 0 && !s.Started {
			week = s.Week
			break
		}
	}

	c.byeWeeks.put(key, week)
	if week > 0 {
		log.Printf("detected bye week %d for player %s in %s/%s", week, playerID, leagueID, season)
	}
	return week
}
