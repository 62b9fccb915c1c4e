package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRounds captures every growth round and every drawn sample.
	TraceLevelRounds TraceLevel = "rounds"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelRounds: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects growth and sampling records for one tree.
type SimulationTrace struct {
	Config  TraceConfig
	Rounds  []GrowthRecord
	Samples []SampleRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Rounds:  make([]GrowthRecord, 0),
		Samples: make([]SampleRecord, 0),
	}
}

// Enabled reports whether records should be collected.
// Safe to call on a nil trace.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelRounds
}

// RecordRound appends a growth round record.
func (st *SimulationTrace) RecordRound(record GrowthRecord) {
	st.Rounds = append(st.Rounds, record)
}

// RecordSample appends a sampling record.
func (st *SimulationTrace) RecordSample(record SampleRecord) {
	st.Samples = append(st.Samples, record)
}
