package detectors

import (
	"diagwatch/internal/analysis"
	"diagwatch/internal/signaling"
)

// nullCipher flags a Cipher Mode Command negotiating A5/0 (no
// encryption at all) — the clearest possible signal of an
// interception-friendly cell.
type nullCipher struct{}

func newNullCipher() *nullCipher { return &nullCipher{} }

func (*nullCipher) Name() string { return "null_cipher" }

func (*nullCipher) Description() string {
	return "flags cipher mode commands negotiating no encryption (A5/0)"
}

func (*nullCipher) OnElement(ie *signaling.InformationElement) *analysis.Event {
	cmd, ok := ie.Content.(signaling.CipherModeCommand)
	if !ok || cmd.Algorithm != "A5/0" {
		return nil
	}
	return &analysis.Event{
		Type:     analysis.QualitativeWarning,
		Severity: analysis.High,
		Message:  "cipher mode command negotiated no encryption",
	}
}
