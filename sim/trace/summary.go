package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Rounds            int
	TotalBirths       int
	TotalDeaths       int
	SNVBirths         int
	CNVBirths         int
	PeakBirths        int // largest number of births in a single round
	SamplesDrawn      int
	MeanSubclones     float64
	StrategyBreakdown map[string]int // strategy → samples drawn
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		StrategyBreakdown: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.Rounds = len(st.Rounds)
	for _, r := range st.Rounds {
		summary.TotalBirths += r.Births
		summary.TotalDeaths += r.Deaths
		summary.SNVBirths += r.SNVs
		summary.CNVBirths += r.CNVs
		if r.Births > summary.PeakBirths {
			summary.PeakBirths = r.Births
		}
	}

	if len(st.Samples) > 0 {
		totalSubclones := 0
		for _, s := range st.Samples {
			summary.StrategyBreakdown[s.Strategy]++
			totalSubclones += len(s.Subclones)
		}
		summary.SamplesDrawn = len(st.Samples)
		summary.MeanSubclones = float64(totalSubclones) / float64(len(st.Samples))
	}

	return summary
}
