package controller

import (
	"context"
	"fmt"
	"sort"

	"github.com/jrygrande/dynasty-dna/model"
)

func (c *controller) GetGraph(ctx context.Context, rootLeagueID string, assets []model.AssetID) (*model.Graph, error) {
	timelines := make([][]model.AssetEvent, 0, len(assets))
	for _, asset := range assets {
		events, _, err := c.GetTimeline(ctx, rootLeagueID, asset)
		if err != nil {
			return nil, err
		}
		timelines = append(timelines, filterGraphEvents(events))
	}
	return assembleGraph(assets, timelines), nil
}

// filterGraphEvents drops events that would clutter or double-count the
// graph: synthetic continuations, and add/drop events that shadow a trade
// event from the same transaction (the trade event already carries both
// sides of the movement).
func filterGraphEvents(events []model.AssetEvent) []model.AssetEvent {
	tradeTxns := make(map[string]bool)
	for i := range events {
		e := &events[i]
		if e.TransactionID == "" {
			continue
		}
		if e.Type == model.EventTrade || e.Type == model.EventPickTrade {
			tradeTxns[e.TransactionID] = true
		}
	}

	out := make([]model.AssetEvent, 0, len(events))
	for i := range events {
		e := &events[i]
		if e.IsContinuation || e.Type == model.EventSeasonContinuation {
			continue
		}
		if e.Type != model.EventTrade && e.Type != model.EventPickTrade &&
			e.TransactionID != "" && tradeTxns[e.TransactionID] {
			continue
		}
		out = append(out, *e)
	}
	return out
}

// assembleGraph merges the filtered timelines into a bipartite graph of
// asset lanes and transaction nodes. A transaction shared by two timelines
// collapses to a single node with one edge per asset.
func assembleGraph(assets []model.AssetID, timelines [][]model.AssetEvent) *model.Graph {
	g := &model.Graph{
		Nodes: make([]model.GraphNode, 0, 16),
		Edges: make([]model.GraphEdge, 0, 16),
	}
	txNodes := make(map[string]int) // transaction identity -> index in g.Nodes

	for lane, asset := range assets {
		assetNodeID := asset.String()
		g.Nodes = append(g.Nodes, model.GraphNode{
			ID:    assetNodeID,
			Kind:  model.NodeAsset,
			Label: asset.String(),
			Asset: &assets[lane],
			Lane:  lane,
		})

		for i := range timelines[lane] {
			e := &timelines[lane][i]

			txID := transactionIdentity(asset, e, i)
			idx, seen := txNodes[txID]
			if !seen {
				g.Nodes = append(g.Nodes, model.GraphNode{
					ID:        txID,
					Kind:      model.NodeTransaction,
					Label:     string(e.Type),
					EventType: e.Type,
					Season:    e.Season,
					Week:      e.Week,
				})
				idx = len(g.Nodes) - 1
				txNodes[txID] = idx
			}

			g.Edges = append(g.Edges, model.GraphEdge{
				From: assetNodeID,
				To:   g.Nodes[idx].ID,
			})
		}
	}

	orderTransactionNodes(g)
	return g
}

// transactionIdentity is the dedup key for a transaction node. Events
// without a transaction (drafts) get a synthetic per-event identity, so
// they never merge across assets.
func transactionIdentity(asset model.AssetID, e *model.AssetEvent, i int) string {
	if e.TransactionID != "" {
		return "tx-" + e.TransactionID
	}
	return fmt.Sprintf("ev-%s-%d", asset, i)
}

// orderTransactionNodes assigns chronological positions along the time axis.
func orderTransactionNodes(g *model.Graph) {
	txIdx := make([]int, 0, len(g.Nodes))
	for i := range g.Nodes {
		if g.Nodes[i].Kind == model.NodeTransaction {
			txIdx = append(txIdx, i)
		}
	}

	sort.SliceStable(txIdx, func(a, b int) bool {
		na, nb := &g.Nodes[txIdx[a]], &g.Nodes[txIdx[b]]
		if na.Season != nb.Season {
			return na.Season < nb.Season
		}
		return na.Week < nb.Week
	})

	for order, i := range txIdx {
		g.Nodes[i].Order = order
	}
}
