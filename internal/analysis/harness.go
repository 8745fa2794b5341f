package analysis

import (
	"time"

	"diagwatch/internal/buildinfo"
	"diagwatch/internal/diag/container"
	"diagwatch/internal/logging"
	"diagwatch/internal/signaling"
)

// Harness hosts the ordered analyzer slots and turns one
// MessagesContainer at a time into an AnalysisRow. A Harness is scoped
// to a single capture session and owns all analyzer state exclusively;
// analyzers are never shared across harnesses.
//
// Element analyzer slots occupy the first positions, raw-message
// analyzer slots the following positions — matching the slot order
// Metadata reports, so elems and raw must be constructed in that same
// relative order by the caller (internal/detectors.Build does this).
type Harness struct {
	raw   []RawAnalyzer
	elems []ElementAnalyzer
	now   func() time.Time
	log   logging.Logger
}

// Option configures a Harness at construction.
type Option func(*Harness)

// WithClock overrides the row-timestamp source; tests use this for a
// deterministic clock.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) { h.now = now }
}

// WithLogger attaches a logger to the harness. The harness itself
// writes nothing to it: parse-failure skip reasons are returned in the
// row, not logged.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHarness constructs a Harness from already-built, slot-ordered
// analyzer lists.
func NewHarness(raw []RawAnalyzer, elems []ElementAnalyzer, opts ...Option) *Harness {
	h := &Harness{
		raw:   raw,
		elems: elems,
		now:   time.Now,
		log:   logging.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Metadata returns the analyzer name/description list in the same
// order used by the events arrays, plus runtime build info.
func (h *Harness) Metadata() ReportMetadata {
	meta := make([]AnalyzerMetadata, 0, len(h.raw)+len(h.elems))
	for _, a := range h.elems {
		meta = append(meta, AnalyzerMetadata{Name: a.Name(), Description: a.Description()})
	}
	for _, a := range h.raw {
		meta = append(meta, AnalyzerMetadata{Name: a.Name(), Description: a.Description()})
	}
	return ReportMetadata{Analyzers: meta, Runtime: buildinfo.Current()}
}

// ProcessContainer implements spec.md §4.F's per-container processing:
// allocate a row stamped with the current wall clock, then walk each
// message, recording skip reasons for parse failures and running the
// raw-message and element analyzer passes for everything that decodes.
func (h *Harness) ProcessContainer(mc container.MessagesContainer) AnalysisRow {
	row := AnalysisRow{Timestamp: h.now().UnixNano()}

	for _, result := range mc.Messages {
		if !result.Ok() {
			row.SkippedMessageReasons = append(row.SkippedMessageReasons, result.Err.Error())
			continue
		}
		msg := result.Message

		if len(h.raw) > 0 {
			events := h.runRaw(msg)
			if anySet(events) {
				row.Analysis = append(row.Analysis, PacketAnalysis{Timestamp: uint64(row.Timestamp), Events: events})
			}
		}

		frame, ok, err := signaling.ExtractFrame(*msg)
		if err != nil {
			row.SkippedMessageReasons = append(row.SkippedMessageReasons, err.Error())
			continue
		}
		if !ok {
			continue
		}

		ie, err := signaling.BuildElement(frame)
		if err != nil {
			row.SkippedMessageReasons = append(row.SkippedMessageReasons, err.Error())
			continue
		}

		if len(h.elems) > 0 {
			events := h.runElements(&ie)
			if anySet(events) {
				row.Analysis = append(row.Analysis, PacketAnalysis{Timestamp: msg.Timestamp, Events: events})
			}
		}
	}

	return row
}

func (h *Harness) runRaw(msg *container.Message) []*Event {
	events := make([]*Event, len(h.raw))
	for i, a := range h.raw {
		events[i] = a.OnMessage(msg)
	}
	return events
}

func (h *Harness) runElements(ie *signaling.InformationElement) []*Event {
	events := make([]*Event, len(h.elems))
	for i, a := range h.elems {
		events[i] = a.OnElement(ie)
	}
	return events
}

func anySet(events []*Event) bool {
	for _, e := range events {
		if e != nil {
			return true
		}
	}
	return false
}
