package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lineage-sim/lineage-sim/sim"
)

// vafDecimals is the number of fractional digits kept in VAF files.
const vafDecimals = 4

// vafColumns returns the header row for a table with numSamples columns.
func vafColumns(numSamples int, withProfile bool) []string {
	cols := []string{"#chrom", "pos", "desc"}
	if withProfile {
		cols = append(cols, "profile")
	}
	cols = append(cols, "normal")
	for i := 1; i < numSamples; i++ {
		cols = append(cols, "sample"+strconv.Itoa(i))
	}
	return cols
}

// WriteVAFTable writes tbl as a tab-separated table with a 1-based chromosome
// column. When profiles is non-nil a binary presence column is added, taken
// from the matching row of profiles; noisy tables pass their true table so
// both files share one profile per SNV.
func WriteVAFTable(w io.Writer, tbl *sim.VAFTable, profiles *sim.VAFTable) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(vafColumns(tbl.NumSamples(), profiles != nil)); err != nil {
		return fmt.Errorf("writing VAF header: %w", err)
	}
	for _, r := range tbl.Rows() {
		row := []string{
			strconv.Itoa(r.SNV.Chromosome + 1),
			strconv.Itoa(r.SNV.Position),
			r.SNV.Name,
		}
		if profiles != nil {
			profile := r.Profile()
			if vals, ok := profiles.Lookup(r.SNV); ok {
				profile = sim.VAFRow{SNV: r.SNV, Values: vals}.Profile()
			}
			row = append(row, profile)
		}
		for _, v := range r.Values {
			row = append(row, formatDecimal(v, vafDecimals))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing VAF row %s: %w", r.SNV.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteVAFFile writes tbl to path; see WriteVAFTable.
func WriteVAFFile(path string, tbl *sim.VAFTable, profiles *sim.VAFTable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating VAF file: %w", err)
	}
	if err := WriteVAFTable(file, tbl, profiles); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
