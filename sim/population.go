package sim

// PopulationID addresses a CellPopulation in its tree's arena.
// IDs are assigned in creation order, so a child's ID is always greater than its parent's.
type PopulationID int

// RootID is the germline root of every tree.
const RootID PopulationID = 0

// NoParent is the Parent of the germline root.
const NoParent PopulationID = -1

// CellPopulation is a set of genetically identical cells.
//
// Mutations is the root-to-node path, oldest first; acquisition order matters
// for CNV-aware frequencies. Every node owns its slice and nothing mutates it
// after creation.
type CellPopulation struct {
	ID        PopulationID
	Parent    PopulationID
	Size      int
	Mutations []Mutation
	Dead      bool // monotonic
	Germline  bool // root only
}

// LastMutation returns the most recently acquired mutation.
// ok is false for the germline root.
func (p *CellPopulation) LastMutation() (m Mutation, ok bool) {
	if len(p.Mutations) == 0 {
		return Mutation{}, false
	}
	return p.Mutations[len(p.Mutations)-1], true
}

// Name is the name of the last mutation, or "GL" for the germline root.
func (p *CellPopulation) Name() string {
	if m, ok := p.LastMutation(); ok {
		return m.Name
	}
	return "GL"
}

// IsCNV reports whether the population was founded by a CNV.
func (p *CellPopulation) IsCNV() bool {
	m, ok := p.LastMutation()
	return ok && m.IsCNV()
}

// IsSNV reports whether the population was founded by an SNV.
func (p *CellPopulation) IsSNV() bool {
	m, ok := p.LastMutation()
	return ok && m.IsSNV()
}

// Eligible reports whether the population may be drawn into a sample.
func (p *CellPopulation) Eligible() bool {
	return !p.Dead && !p.Germline
}

// indexOf returns the acquisition index of m, or -1.
func (p *CellPopulation) indexOf(m Mutation) int {
	for i, x := range p.Mutations {
		if x.ID == m.ID {
			return i
		}
	}
	return -1
}
