package detectors

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"diagwatch/internal/analysis"
	"diagwatch/internal/diag/container"
	"diagwatch/internal/diag/logcodes"
)

// cellHistoryLimit bounds per-cell measurement history by sample count
// rather than wall time, so a multi-hour session can't grow this
// detector's memory unboundedly (spec.md's bounded-mutable-state note).
const cellHistoryLimit = 20

// jumpSigma is how many standard deviations a new reading must clear
// the per-cell running mean by before it is considered implausible.
const jumpSigma = 4.0

// cellularNetwork is a raw-message (QMDL-level) analyzer: it reads
// serving-cell signal measurements directly off the log payload,
// keyed by cell ID, and flags a jump too large to be a normal fade —
// consistent with a sudden, forced cell reselection onto a rogue
// station.
type cellularNetwork struct {
	history map[uint32][]float64
}

func newCellularNetwork() *cellularNetwork {
	return &cellularNetwork{history: make(map[uint32][]float64)}
}

func (*cellularNetwork) Name() string { return "cellular_network" }

func (*cellularNetwork) Description() string {
	return "flags implausible serving-cell signal-strength jumps"
}

// OnMessage expects the LTE ML1 serving-cell measurement payload:
// cell_id (u32 LE) followed by one signed byte of RSRP in dBm. Any
// other log code, or a payload too short to hold this shape, produces
// no event rather than an error — raw-message analyzers are infallible
// by contract.
func (c *cellularNetwork) OnMessage(msg *container.Message) *analysis.Event {
	if msg.Kind != container.KindLog || msg.LogCode != logcodes.LTEML1ServingCellMeasAndEval {
		return nil
	}
	if len(msg.Payload) < 5 {
		return nil
	}
	cellID := binary.LittleEndian.Uint32(msg.Payload[0:4])
	rsrp := float64(int8(msg.Payload[4]))

	samples := c.history[cellID]
	event := c.evaluate(cellID, rsrp, samples)
	c.history[cellID] = appendBounded(samples, rsrp, cellHistoryLimit)
	return event
}

func (c *cellularNetwork) evaluate(cellID uint32, rsrp float64, samples []float64) *analysis.Event {
	if len(samples) < 3 {
		return nil
	}
	mean, std := stat.MeanStdDev(samples, nil)
	if std == 0 {
		return nil
	}
	if math.Abs(rsrp-mean) < jumpSigma*std {
		return nil
	}
	return &analysis.Event{
		Type:     analysis.QualitativeWarning,
		Severity: analysis.Low,
		Message: fmt.Sprintf("cell %d signal jumped to %.0f dBm against a running mean of %.1f (stddev %.1f)",
			cellID, rsrp, mean, std),
	}
}

func appendBounded(samples []float64, v float64, limit int) []float64 {
	samples = append(samples, v)
	if len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples
}
