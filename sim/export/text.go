package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lineage-sim/lineage-sim/sim"
)

// TreeText is a tree read back from its plain text dump.
type TreeText struct {
	Edges     [][2]string    // parent name, child name
	Mutations []sim.Mutation // one per mutated population, in file order
}

// NodeCount returns the number of distinct populations named by the edges,
// the germline root included. A root-only tree has one node.
func (tt *TreeText) NodeCount() int {
	names := map[string]bool{"GL": true}
	for _, e := range tt.Edges {
		names[e[0]] = true
		names[e[1]] = true
	}
	return len(names)
}

// MutationCounts returns the number of SNV and CNV description lines.
func (tt *TreeText) MutationCounts() (snvs, cnvs int) {
	for _, m := range tt.Mutations {
		if m.IsCNV() {
			cnvs++
		} else {
			snvs++
		}
	}
	return snvs, cnvs
}

// WriteTreeText writes the plain text dump of tr to path.
func WriteTreeText(path string, tr *sim.Tree) error {
	if err := os.WriteFile(path, []byte(tr.TextDump()), 0644); err != nil {
		return fmt.Errorf("writing tree text: %w", err)
	}
	return nil
}

// ReadTreeText parses the plain text dump stored at path.
func ReadTreeText(path string) (*TreeText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tree text: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseTreeText(f)
}

// ParseTreeText parses a plain text dump.
func ParseTreeText(r io.Reader) (*TreeText, error) {
	tt := &TreeText{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if parent, child, ok := strings.Cut(text, "\t"); ok {
			tt.Edges = append(tt.Edges, [2]string{parent, child})
			continue
		}
		m, err := parseMutation(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tt.Mutations = append(tt.Mutations, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading tree text: %w", err)
	}
	return tt, nil
}

// parseMutation reads a line produced by sim.Mutation.String.
func parseMutation(text string) (sim.Mutation, error) {
	name, rest, ok := strings.Cut(text, ": ")
	if !ok {
		return sim.Mutation{}, fmt.Errorf("malformed mutation line %q", text)
	}
	m := sim.Mutation{Name: name, Kind: sim.KindSNV}
	idText := strings.TrimPrefix(name, "M")
	if strings.HasPrefix(name, "CNV_") {
		m.Kind = sim.KindCNV
		idText = strings.TrimPrefix(name, "CNV_M")
	}
	id, err := strconv.Atoi(idText)
	if err != nil {
		return sim.Mutation{}, fmt.Errorf("malformed mutation name %q", name)
	}
	m.ID = id

	var chr int
	if m.IsCNV() {
		_, err = fmt.Sscanf(rest, "chr=%d, arm=%d, haplotype=%d", &chr, &m.Arm, &m.Haplotype)
	} else {
		_, err = fmt.Sscanf(rest, "chr=%d, pos=%d, haplotype=%d", &chr, &m.Position, &m.Haplotype)
	}
	if err != nil {
		return sim.Mutation{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	m.Chromosome = chr - 1
	return m, nil
}
