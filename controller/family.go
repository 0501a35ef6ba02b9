package controller

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jrygrande/dynasty-dna/db"
	"github.com/jrygrande/dynasty-dna/model"
)

// maxFamilyDepth bounds chain traversal even if the upstream data is
// malformed in a way the visited set doesn't catch.
const maxFamilyDepth = 50

// ResolveFamily walks the previous-league references starting at root and
// returns the ordered family, index 0 = root (newest season). Leagues not
// known locally are fetched from the platform and persisted as a byproduct.
// A fetch failure truncates the chain rather than failing the resolution.
func (c *controller) ResolveFamily(ctx context.Context, rootLeagueID string) ([]string, error) {
	if rootLeagueID == "" {
		return nil, errors.New("rootLeagueID must be provided")
	}

	family := make([]string, 0, 4)
	visited := make(map[string]bool)

	id := rootLeagueID
	for id != "" && len(family) < maxFamilyDepth {
		if visited[id] {
			log.Printf("league chain from %s loops back to %s, stopping", rootLeagueID, id)
			break
		}
		visited[id] = true

		l, err := c.lookupLeague(ctx, id)
		if err != nil {
			if id == rootLeagueID {
				return nil, fmt.Errorf("error resolving root league %s: %w", id, err)
			}
			// Degrade gracefully: keep the part of the chain we have.
			log.Printf("error resolving league %s in family of %s, truncating chain: %v", id, rootLeagueID, err)
			break
		}

		family = append(family, l.ID)
		id = l.PreviousLeagueID
	}

	return family, nil
}

// lookupLeague reads a league locally, falling back to the platform and
// persisting a minimal projection when it isn't known yet.
func (c *controller) lookupLeague(ctx context.Context, id string) (*model.League, error) {
	l, err := c.db.GetLeague(ctx, id)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, db.ErrLeagueNotFound) {
		return nil, err
	}

	l, err = c.sleeper.GetLeague(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching league %s: %w", id, err)
	}

	if err := c.db.SaveLeague(ctx, l); err != nil {
		return nil, fmt.Errorf("error saving league %s: %w", id, err)
	}
	return l, nil
}
