package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/itbasis/go-clock"
	"github.com/jrygrande/dynasty-dna/model"
)

const SleeperURL = "https://api.sleeper.app"

const (
	defaultTimeout    = 1 * time.Minute
	defaultRetries    = 3
	defaultRetryWait  = 500 * time.Millisecond
	defaultBackoffCap = 8 * time.Second
)

var ErrNotFound = errors.New("not found")

type Client interface {
	GetLeague(ctx context.Context, leagueID string) (*model.League, error)
	GetRosters(ctx context.Context, leagueID string) ([]model.Roster, error)
	GetUsers(ctx context.Context, leagueID string) ([]model.Manager, error)
	GetTransactions(ctx context.Context, leagueID string, week int) ([]model.Transaction, error)
	GetDrafts(ctx context.Context, leagueID string) ([]model.Draft, error)
	GetDraftPicks(ctx context.Context, draftID string) ([]model.DraftPick, error)
	GetTradedPicks(ctx context.Context, leagueID string) ([]model.TradedPick, error)
	GetMatchups(ctx context.Context, leagueID string, week int) ([]model.PlayerScore, error)
	LoadPlayers(ctx context.Context) ([]model.Player, error)
	GetState(ctx context.Context) (*State, error)
}

type client struct {
	http    *resty.Client
	limiter *Limiter
}

func New(limiter *Limiter) (Client, error) {
	if limiter == nil {
		return nil, errors.New("limiter must be provided")
	}
	return newClient(SleeperURL, limiter, defaultRetryWait), nil
}

// NewForTest returns a client pointed at url with no rate limiting and no
// retry delays.
func NewForTest(url string) Client {
	return newClient(url, NewLimiter(clock.New(), 0), 0)
}

func newClient(url string, limiter *Limiter, retryWait time.Duration) *client {
	hc := resty.New().
		SetBaseURL(url).
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetries).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(defaultBackoffCap).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &client{http: hc, limiter: limiter}
}

func (c *client) GetLeague(ctx context.Context, leagueID string) (*model.League, error) {
	var raw sleeperLeague
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s", leagueID), &raw); err != nil {
		return nil, err
	}
	if raw.LeagueID == "" {
		// The API returns a 200 with "null" for unknown leagues.
		return nil, ErrNotFound
	}
	return raw.toLeague(), nil
}

func (c *client) GetRosters(ctx context.Context, leagueID string) ([]model.Roster, error) {
	var raw []sleeperRoster
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s/rosters", leagueID), &raw); err != nil {
		return nil, err
	}

	rosters := make([]model.Roster, 0, len(raw))
	for _, r := range raw {
		rosters = append(rosters, model.Roster{
			LeagueID: leagueID,
			RosterID: r.RosterID,
			OwnerID:  r.OwnerID,
		})
	}
	return rosters, nil
}

func (c *client) GetUsers(ctx context.Context, leagueID string) ([]model.Manager, error) {
	var raw []sleeperUser
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s/users", leagueID), &raw); err != nil {
		return nil, err
	}

	managers := make([]model.Manager, 0, len(raw))
	for _, u := range raw {
		managers = append(managers, model.Manager{
			ID:          u.UserID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
		})
	}
	return managers, nil
}

func (c *client) GetTransactions(ctx context.Context, leagueID string, week int) ([]model.Transaction, error) {
	var raw []sleeperTransaction
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s/transactions/%d", leagueID, week), &raw); err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(raw))
	for i := range raw {
		t := raw[i].toTransaction(leagueID)
		if t.Week == 0 {
			t.Week = week
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func (c *client) GetDrafts(ctx context.Context, leagueID string) ([]model.Draft, error) {
	var raw []sleeperDraft
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s/drafts", leagueID), &raw); err != nil {
		return nil, err
	}

	drafts := make([]model.Draft, 0, len(raw))
	for _, d := range raw {
		drafts = append(drafts, model.Draft{ID: d.DraftID, LeagueID: d.LeagueID, Season: d.Season})
	}
	return drafts, nil
}

func (c *client) GetDraftPicks(ctx context.Context, draftID string) ([]model.DraftPick, error) {
	var raw []sleeperDraftPick
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/draft/%s/picks", draftID), &raw); err != nil {
		return nil, err
	}

	picks := make([]model.DraftPick, 0, len(raw))
	for _, p := range raw {
		picks = append(picks, model.DraftPick{
			DraftID:  draftID,
			Round:    p.Round,
			PickNo:   p.PickNo,
			RosterID: p.RosterID,
			PlayerID: p.PlayerID,
		})
	}
	return picks, nil
}

func (c *client) GetTradedPicks(ctx context.Context, leagueID string) ([]model.TradedPick, error) {
	var raw []sleeperTradedPick
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s/traded_picks", leagueID), &raw); err != nil {
		return nil, err
	}

	picks := make([]model.TradedPick, 0, len(raw))
	for i := range raw {
		picks = append(picks, raw[i].toTradedPick())
	}
	return picks, nil
}

func (c *client) GetMatchups(ctx context.Context, leagueID string, week int) ([]model.PlayerScore, error) {
	var raw []sleeperMatchup
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/league/%s/matchups/%d", leagueID, week), &raw); err != nil {
		return nil, err
	}

	var scores []model.PlayerScore
	for i := range raw {
		scores = append(scores, raw[i].toScores(leagueID, week)...)
	}
	return scores, nil
}

func (c *client) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	var raw map[string]sleeperPlayer
	if err := c.getJSON(ctx, "/v1/players/nfl", &raw); err != nil {
		return nil, err
	}

	players := make([]model.Player, 0, len(raw))
	for _, p := range raw {
		if model.ParsePosition(p.Position) == model.POS_UNKNOWN {
			continue
		}
		players = append(players, *p.toPlayer())
	}
	return players, nil
}

func (c *client) GetState(ctx context.Context) (*State, error) {
	var state State
	if err := c.getJSON(ctx, "/v1/state/nfl", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return fmt.Errorf("error sending http request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	// Missing entities come back as a 200 with a "null" body; leave out as
	// its zero value in that case.
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("error parsing response from sleeper: %w", err)
	}
	return nil
}
