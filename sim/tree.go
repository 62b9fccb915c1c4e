package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lineage-sim/lineage-sim/sim/trace"
)

// Edge is a parent → child link in the lineage tree.
type Edge struct {
	Parent PopulationID
	Child  PopulationID
}

// Tree is a simulated cell lineage tree.
//
// Each node is a cell population carrying one newly acquired mutation on top of
// its parent's; the path from the germline root to a node lists every mutation
// present in that population. The tree only grows: nodes and edges are never
// removed, and dead nodes stay in place as leaves.
//
// A Tree owns its RNG streams and mutation counter, so independent trees can be
// grown on separate goroutines. A single Tree is not safe for concurrent use, and
// sampling must not interleave with Grow.
type Tree struct {
	nodes    []*CellPopulation
	children [][]PopulationID // indexed by parent ID, creation order
	numDead  int
	round    int

	growth   GrowthConfig
	sampling SamplingConfig

	mutations   *MutationFactory
	growthRNG   *rand.Rand
	samplingRNG *rand.Rand

	trace *trace.SimulationTrace
}

// NewTree creates a tree holding only the germline root.
func NewTree(cfg Config, rng *PartitionedRNG) *Tree {
	t := &Tree{
		growth:      cfg.Growth,
		sampling:    cfg.Sampling,
		mutations:   NewMutationFactory(rng.ForSubsystem(SubsystemMutation)),
		growthRNG:   rng.ForSubsystem(SubsystemGrowth),
		samplingRNG: rng.ForSubsystem(SubsystemSampling),
	}
	t.nodes = append(t.nodes, &CellPopulation{ID: RootID, Parent: NoParent, Germline: true})
	t.children = append(t.children, nil)
	return t
}

// SetTrace attaches a trace that receives one record per round and per sample.
// A nil trace disables recording.
func (t *Tree) SetTrace(st *trace.SimulationTrace) {
	t.trace = st
}

// Grow applies one synchronous generation to every living node.
//
// Each living node first rolls for death (the root is exempt) and otherwise
// rolls for division, producing at most one child carrying a new SNV or CNV.
// Children created in this round are appended only after all rolls, so they
// take part from the next round on.
func (t *Tree) Grow() trace.GrowthRecord {
	t.round++
	rec := trace.GrowthRecord{Round: t.round}

	snapshot := len(t.nodes)
	var born []*CellPopulation
	for i := 0; i < snapshot; i++ {
		node := t.nodes[i]
		if node.Dead {
			continue
		}

		if t.growthRNG.Float64() < t.growth.ProbDeath && !node.Germline {
			node.Dead = true
			t.numDead++
			rec.Deaths++
			continue
		}

		m, ok := t.divide(node)
		if !ok {
			continue
		}
		child := t.newChild(node, m, t.growthRNG.Intn(t.growth.MaxPopulationSize), snapshot+len(born))
		born = append(born, child)
		if m.IsCNV() {
			rec.CNVs++
		} else {
			rec.SNVs++
		}
	}
	for _, c := range born {
		t.attach(c)
	}

	rec.Births = len(born)
	rec.Nodes = len(t.nodes)
	rec.DeadNodes = t.numDead
	if t.trace.Enabled() {
		t.trace.RecordRound(rec)
	}
	return rec
}

// divide rolls for division and draws the child's new mutation.
func (t *Tree) divide(node *CellPopulation) (Mutation, bool) {
	roll := t.growthRNG.Float64()
	last, hasLast := node.LastMutation()
	switch {
	case roll < t.growth.ProbSNV:
		if hasLast && last.IsCNV() && t.growth.UpstreamCNVEffect {
			return t.mutations.NewSNVFrom(last), true
		}
		return t.mutations.NewSNV(), true
	case roll < t.growth.ProbSNV+t.growth.ProbCNV:
		if hasLast && last.IsSNV() && !node.Germline && t.growth.UpstreamCNVEffect {
			return t.mutations.NewCNVFrom(last), true
		}
		return t.mutations.NewCNV(), true
	default:
		return Mutation{}, false
	}
}

// newChild builds a child of parent without linking it into the tree.
func (t *Tree) newChild(parent *CellPopulation, m Mutation, size int, id int) *CellPopulation {
	muts := make([]Mutation, len(parent.Mutations), len(parent.Mutations)+1)
	copy(muts, parent.Mutations)
	return &CellPopulation{
		ID:        PopulationID(id),
		Parent:    parent.ID,
		Size:      size,
		Mutations: append(muts, m),
	}
}

// attach links a child built by newChild into the arena.
func (t *Tree) attach(c *CellPopulation) {
	t.nodes = append(t.nodes, c)
	t.children = append(t.children, nil)
	t.children[c.Parent] = append(t.children[c.Parent], c.ID)
}

// NodeCount returns the number of nodes, root and dead nodes included.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// DeadNodeCount returns the number of dead nodes.
func (t *Tree) DeadNodeCount() int {
	return t.numDead
}

// LiveNodeCount returns the number of living non-root nodes.
func (t *Tree) LiveNodeCount() int {
	return len(t.nodes) - t.numDead - 1
}

// Rounds returns the number of completed Grow calls.
func (t *Tree) Rounds() int {
	return t.round
}

// Root returns the germline root.
func (t *Tree) Root() *CellPopulation {
	return t.nodes[RootID]
}

// Population returns the node with the given ID. The result must be treated as read-only.
func (t *Tree) Population(id PopulationID) *CellPopulation {
	return t.nodes[id]
}

// Populations returns every node in creation order.
func (t *Tree) Populations() []*CellPopulation {
	out := make([]*CellPopulation, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Children returns the children of id in creation order.
func (t *Tree) Children(id PopulationID) []PopulationID {
	out := make([]PopulationID, len(t.children[id]))
	copy(out, t.children[id])
	return out
}

// Edges returns every parent → child link, ordered by parent ID then creation order.
func (t *Tree) Edges() []Edge {
	var edges []Edge
	for parent, kids := range t.children {
		for _, c := range kids {
			edges = append(edges, Edge{Parent: PopulationID(parent), Child: c})
		}
	}
	return edges
}

// MutationCounts returns the number of SNV and CNV nodes in the tree.
func (t *Tree) MutationCounts() (snvs, cnvs int) {
	for _, n := range t.nodes {
		switch {
		case n.IsSNV():
			snvs++
		case n.IsCNV():
			cnvs++
		}
	}
	return snvs, cnvs
}

// SubtreeSizes returns, for every node, the number of living cells in the
// subtree rooted at it (the node itself included; dead nodes contribute zero).
// The map is computed fresh on each call.
func (t *Tree) SubtreeSizes() map[PopulationID]int {
	acc := make([]int, len(t.nodes))
	// children always have larger IDs than their parent
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := t.nodes[i]
		if !n.Dead {
			acc[i] += n.Size
		}
		if n.Parent != NoParent {
			acc[n.Parent] += acc[i]
		}
	}
	sizes := make(map[PopulationID]int, len(acc))
	for i, s := range acc {
		sizes[PopulationID(i)] = s
	}
	return sizes
}

// SubtreeNodes returns every node under root, root included, in breadth-first order.
func (t *Tree) SubtreeNodes(root PopulationID) []PopulationID {
	out := []PopulationID{root}
	for i := 0; i < len(out); i++ {
		out = append(out, t.children[out[i]]...)
	}
	return out
}

// TextDump renders the tree as a tab-separated edge list of population names
// ("GL" for the root) followed by one description line per mutated population.
func (t *Tree) TextDump() string {
	var b strings.Builder
	for _, e := range t.Edges() {
		fmt.Fprintf(&b, "%s\t%s\n", t.nodes[e.Parent].Name(), t.nodes[e.Child].Name())
	}
	for _, n := range t.nodes {
		if m, ok := n.LastMutation(); ok {
			b.WriteString(m.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
