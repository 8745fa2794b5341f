package detectors

import (
	"diagwatch/internal/analysis"
	"diagwatch/internal/signaling"
)

// imsiRequested flags an unencrypted Paging Request Type 1 that
// addresses a subscriber by IMSI rather than a temporary identity — a
// legitimate network almost never needs to do this, and a stingray
// does it to force an identity response (spec.md S2).
type imsiRequested struct{}

func newImsiRequested() *imsiRequested { return &imsiRequested{} }

func (*imsiRequested) Name() string { return "imsi_requested" }

func (*imsiRequested) Description() string {
	return "flags GSM/GPRS paging requests that address a subscriber by IMSI"
}

func (*imsiRequested) OnElement(ie *signaling.InformationElement) *analysis.Event {
	pr, ok := ie.Content.(signaling.PagingRequestType1)
	if !ok || !pr.IdentityIsIMSI {
		return nil
	}
	return &analysis.Event{
		Type:     analysis.QualitativeWarning,
		Severity: analysis.Medium,
		Message:  "IMSI requested via unencrypted paging identity",
	}
}
