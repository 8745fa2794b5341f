package detectors

import (
	"diagwatch/internal/analysis"
	"diagwatch/internal/signaling"
)

// connectionRedirect2GDowngrade flags a connection release that
// redirects the handset to GSM: a stingray forces a downgrade to the
// weakest available RAT before it attempts other tricks.
type connectionRedirect2GDowngrade struct{}

func newConnectionRedirect2GDowngrade() *connectionRedirect2GDowngrade {
	return &connectionRedirect2GDowngrade{}
}

func (*connectionRedirect2GDowngrade) Name() string { return "connection_redirect_2g_downgrade" }

func (*connectionRedirect2GDowngrade) Description() string {
	return "flags connection releases that redirect the handset to GSM"
}

func (*connectionRedirect2GDowngrade) OnElement(ie *signaling.InformationElement) *analysis.Event {
	redirect, ok := ie.Content.(signaling.ConnectionReleaseRedirect)
	if !ok || redirect.TargetRAT != signaling.RATGSM {
		return nil
	}
	return &analysis.Event{
		Type:     analysis.QualitativeWarning,
		Severity: analysis.High,
		Message:  "connection released with redirect to GSM",
	}
}
