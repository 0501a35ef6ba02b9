package model

type GraphNodeKind string

const (
	NodeAsset       GraphNodeKind = "asset"
	NodeTransaction GraphNodeKind = "transaction"
)

// GraphNode is either an asset lane or a transaction point. Transaction
// nodes are shared: a trade that moved two visualized assets appears once.
type GraphNode struct {
	ID        string
	Kind      GraphNodeKind
	Label     string
	Asset     *AssetID
	EventType EventType
	Season    string
	Week      int
	// Lane is the parallel track an asset node occupies; Order is the
	// chronological position of a transaction node along the time axis.
	Lane  int
	Order int
}

type GraphEdge struct {
	From string
	To   string
}

type Graph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}
