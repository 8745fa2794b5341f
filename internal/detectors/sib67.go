package detectors

import (
	"diagwatch/internal/analysis"
	"diagwatch/internal/signaling"
)

// lteSib6And7Downgrade flags an LTE System Information Block Type 6/7
// that advertises GSM cell-reselection priorities — the network is
// steering the handset toward GSM before it even drops the LTE
// connection (spec.md S3).
type lteSib6And7Downgrade struct{}

func newLteSib6And7Downgrade() *lteSib6And7Downgrade { return &lteSib6And7Downgrade{} }

func (*lteSib6And7Downgrade) Name() string { return "lte_sib6_and_7_downgrade" }

func (*lteSib6And7Downgrade) Description() string {
	return "flags LTE SIB6/7 broadcasts advertising GSM reselection priorities"
}

func (*lteSib6And7Downgrade) OnElement(ie *signaling.InformationElement) *analysis.Event {
	sib, ok := ie.Content.(signaling.SystemInformation67)
	if !ok || (sib.SIBType != 6 && sib.SIBType != 7) || !sib.HasGSMReselPriorities {
		return nil
	}
	return &analysis.Event{
		Type:     analysis.QualitativeWarning,
		Severity: analysis.Medium,
		Message:  "LTE SIB advertises GSM reselection priorities",
	}
}
