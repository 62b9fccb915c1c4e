package sim

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/lineage-sim/lineage-sim/sim/trace"
)

var (
	// ErrRootOnly is returned by LocalizedSamples when the root has no children.
	ErrRootOnly = errors.New("cannot collect samples from the tree, only the root node is present")

	// ErrNoLiveSubtree is returned by LocalizedSamples when every subtree under the root is empty.
	ErrNoLiveSubtree = errors.New("no subtree under the root contains living cells")

	// ErrNoEligibleSubclones is returned when subclone selection finds no living non-germline population.
	ErrNoEligibleSubclones = errors.New("no living non-germline population available to sample")
)

const (
	strategyRandom    = "random"
	strategyLocalized = "localized"
)

// SelectSubclones picks a random subset of living non-germline populations from ids.
//
// The subset size is drawn uniformly from [1, maxSubclones-1] (1 when
// maxSubclones <= 1); fewer are returned when ids holds fewer eligible nodes.
// ids itself is left untouched.
func (t *Tree) SelectSubclones(ids []PopulationID, maxSubclones int) []PopulationID {
	shuffled := slices.Clone(ids)
	t.samplingRNG.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	want := 1
	if maxSubclones > 1 {
		want += t.samplingRNG.Intn(maxSubclones - 1)
	}
	subclones := make([]PopulationID, 0, want)
	for _, id := range shuffled {
		if len(subclones) >= want {
			break
		}
		if !t.nodes[id].Eligible() {
			continue
		}
		subclones = append(subclones, id)
	}
	return subclones
}

// RandomSample draws one sample from subclones chosen anywhere in the tree.
func (t *Tree) RandomSample() (*TumorSample, error) {
	return t.randomSample(0)
}

func (t *Tree) randomSample(index int) (*TumorSample, error) {
	all := make([]PopulationID, len(t.nodes))
	for i := range all {
		all[i] = PopulationID(i)
	}
	subclones := t.SelectSubclones(all, t.sampling.MaxSubclones)
	s, err := t.createSample(subclones)
	if err != nil {
		return nil, err
	}
	t.recordSample(strategyRandom, index, NoParent, s)
	return s, nil
}

// DrawSamples draws n tumor samples with the configured strategy.
func (t *Tree) DrawSamples(n int) ([]*TumorSample, error) {
	if t.sampling.Localized {
		return t.LocalizedSamples(n)
	}
	samples := make([]*TumorSample, 0, n)
	for i := 0; i < n; i++ {
		s, err := t.randomSample(i)
		if err != nil {
			return nil, fmt.Errorf("random sample %d: %w", i, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// LocalizedSamples draws k samples from k disjoint subtrees.
//
// Candidate subtree roots start as the root's children with living cells; while
// fewer than k candidates exist, the first candidate that has children with
// living cells is replaced by those children. If the tree cannot be split into
// k disjoint subtrees, the largest subtrees are reused and some samples overlap.
// Subtree sizes are recomputed on every call.
func (t *Tree) LocalizedSamples(k int) ([]*TumorSample, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: localized sample count must be positive, got %d", ErrInvalidConfig, k)
	}
	if len(t.children[RootID]) == 0 {
		return nil, ErrRootOnly
	}

	sizes := t.SubtreeSizes()
	roots := t.liveChildren(RootID, sizes)
	for len(roots) < k {
		split := -1
		var kids []PopulationID
		for i, r := range roots {
			if kids = t.liveChildren(r, sizes); len(kids) > 0 {
				split = i
				break
			}
		}
		if split < 0 {
			break
		}
		next := make([]PopulationID, 0, len(roots)-1+len(kids))
		next = append(next, kids...)
		next = append(next, roots[:split]...)
		next = append(next, roots[split+1:]...)
		roots = next
	}
	if len(roots) == 0 {
		return nil, ErrNoLiveSubtree
	}
	sort.SliceStable(roots, func(a, b int) bool {
		return sizes[roots[a]] > sizes[roots[b]]
	})
	if len(roots) < k {
		logrus.Debugf("[sampling] only %d disjoint subtrees for %d samples, reusing the largest", len(roots), k)
	}

	subtrees := make([][]PopulationID, k)
	for i := range subtrees {
		subtrees[i] = t.SubtreeNodes(roots[i%len(roots)])
	}

	samples := make([]*TumorSample, 0, k)
	for i := 0; i < k; i++ {
		subclones := t.SelectSubclones(subtrees[i], t.sampling.MaxSubclones)
		if t.sampling.MixNeighborSubtree {
			nbr := i - 1
			if i == 0 {
				nbr = k - 1
			}
			subclones = append(subclones, t.SelectSubclones(subtrees[nbr], 1)...)
		}
		s, err := t.createSample(subclones)
		if err != nil {
			return nil, fmt.Errorf("localized sample %d: %w", i, err)
		}
		t.recordSample(strategyLocalized, i, roots[i%len(roots)], s)
		samples = append(samples, s)
	}
	return samples, nil
}

// liveChildren returns the children of id whose subtrees hold living cells.
func (t *Tree) liveChildren(id PopulationID, sizes map[PopulationID]int) []PopulationID {
	var out []PopulationID
	for _, c := range t.children[id] {
		if sizes[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}

// createSample allocates the sample's tumor cells across subclones with a
// multinomial draw weighted by population size.
func (t *Tree) createSample(subclones []PopulationID) (*TumorSample, error) {
	if len(subclones) == 0 {
		return nil, ErrNoEligibleSubclones
	}
	s := &TumorSample{
		tree:        t,
		subclones:   subclones,
		counts:      make(map[PopulationID]int, len(subclones)),
		normalCells: t.normalContamination(),
		color:       t.sampleColor(),
	}

	total := 0
	for _, id := range subclones {
		total += t.nodes[id].Size
	}
	limits := make([]float64, len(subclones))
	cum := 0.0
	for i := 0; i < len(subclones)-1; i++ {
		if total > 0 {
			cum += float64(t.nodes[subclones[i]].Size) / float64(total)
		}
		limits[i] = cum
	}
	limits[len(limits)-1] = 1

	for c := 0; c < t.sampling.CellsPerSample-s.normalCells; c++ {
		roll := t.samplingRNG.Float64()
		for j, limit := range limits {
			if roll < limit {
				s.counts[subclones[j]]++
				break
			}
		}
	}
	return s, nil
}

// normalContamination draws the number of normal cells for one sample.
func (t *Tree) normalContamination() int {
	percent := t.sampling.MinNormalPercent
	if t.sampling.MaxNormalPercent > t.sampling.MinNormalPercent {
		percent += t.samplingRNG.Float64() * (t.sampling.MaxNormalPercent - t.sampling.MinNormalPercent)
	}
	return int(percent * float64(t.sampling.CellsPerSample) / 100.0)
}

func (t *Tree) sampleColor() string {
	r, g, b := t.samplingRNG.Intn(256), t.samplingRNG.Intn(256), t.samplingRNG.Intn(256)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (t *Tree) recordSample(strategy string, index int, subtreeRoot PopulationID, s *TumorSample) {
	if !t.trace.Enabled() {
		return
	}
	ids := make([]int, len(s.subclones))
	for i, id := range s.subclones {
		ids[i] = int(id)
	}
	t.trace.RecordSample(trace.SampleRecord{
		Strategy:    strategy,
		Index:       index,
		SubtreeRoot: int(subtreeRoot),
		Subclones:   ids,
		TumorCells:  s.TumorCells(),
		NormalCells: s.normalCells,
	})
}
