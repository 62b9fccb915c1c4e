// Package trace provides growth and sampling trace recording for lineage tree runs.
// This package has no dependencies on sim/; it only holds data types.
package trace

// GrowthRecord captures one synchronous growth round.
type GrowthRecord struct {
	Round     int
	Births    int // children created this round
	SNVs      int // births carrying a new SNV
	CNVs      int // births carrying a new CNV
	Deaths    int // populations that died this round
	Nodes     int // node count after the round
	DeadNodes int // dead node count after the round
}

// SampleRecord captures how one tumor sample was drawn.
type SampleRecord struct {
	Strategy    string // "random" or "localized"
	Index       int    // sample index within its batch (0-based)
	SubtreeRoot int    // localized only: population ID of the subtree root; -1 otherwise
	Subclones   []int  // selected population IDs in selection order
	TumorCells  int
	NormalCells int
}
