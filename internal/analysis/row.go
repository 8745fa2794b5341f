package analysis

// PacketAnalysis is one analyzer pass's results over a single message,
// aligned 1:1 with that pass's analyzer slots. Absent events are holes
// (nil) rather than omitted entries, so downstream consumers can
// address detectors by column index (spec.md §3, testable property 3).
type PacketAnalysis struct {
	Timestamp uint64 // row timestamp for raw-message passes, message timestamp for element passes
	Events    []*Event
}

// AnalysisRow is the per-container result: a wall-clock-stamped
// sequence of skip reasons plus the sequence of PacketAnalysis entries
// produced while walking that container's messages.
type AnalysisRow struct {
	Timestamp             int64 // host wall clock, fixed offset, at row allocation
	SkippedMessageReasons []string
	Analysis              []PacketAnalysis
}

// IsEmpty reports whether the row carries neither skips nor analyses.
func (r AnalysisRow) IsEmpty() bool {
	return len(r.SkippedMessageReasons) == 0 && len(r.Analysis) == 0
}

// ContainsWarnings reports whether any event in any analysis is a
// QualitativeWarning of any severity.
func (r AnalysisRow) ContainsWarnings() bool {
	for _, pa := range r.Analysis {
		for _, e := range pa.Events {
			if e != nil && e.IsWarning() {
				return true
			}
		}
	}
	return false
}
