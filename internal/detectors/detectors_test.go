package detectors

import (
	"testing"

	"diagwatch/internal/analysis"
	"diagwatch/internal/diag/container"
	"diagwatch/internal/signaling"
)

func TestBuildSlotOrderWithinEachGroup(t *testing.T) {
	raw, elems := Build(analysis.DefaultConfig())
	if len(raw) != 1 {
		t.Fatalf("expected 1 raw analyzer, got %d", len(raw))
	}
	if raw[0].Name() != "cellular_network" {
		t.Fatalf("unexpected raw analyzer: %s", raw[0].Name())
	}
	wantElems := []string{"imsi_requested", "connection_redirect_2g_downgrade", "lte_sib6_and_7_downgrade", "null_cipher"}
	if len(elems) != len(wantElems) {
		t.Fatalf("expected %d element analyzers, got %d", len(wantElems), len(elems))
	}
	for i, name := range wantElems {
		if elems[i].Name() != name {
			t.Fatalf("slot %d: got %q want %q", i, elems[i].Name(), name)
		}
	}
}

func TestBuildOnlyImsiRequested(t *testing.T) {
	cfg := analysis.Config{ImsiRequested: true}
	raw, elems := Build(cfg)
	if len(raw) != 0 {
		t.Fatalf("expected no raw analyzers, got %d", len(raw))
	}
	if len(elems) != 1 || elems[0].Name() != "imsi_requested" {
		t.Fatalf("unexpected element analyzers: %+v", elems)
	}
}

func TestImsiRequestedFlagsIMSIPaging(t *testing.T) {
	a := newImsiRequested()
	ie := &signaling.InformationElement{
		RAT:     signaling.RATGSM,
		Content: signaling.PagingRequestType1{IdentityIsIMSI: true, IMSI: "123456789012345"},
	}
	ev := a.OnElement(ie)
	if ev == nil || ev.Type != analysis.QualitativeWarning || ev.Severity != analysis.Medium {
		t.Fatalf("expected a medium warning, got %+v", ev)
	}
}

func TestImsiRequestedIgnoresTMSIPaging(t *testing.T) {
	a := newImsiRequested()
	ie := &signaling.InformationElement{Content: signaling.PagingRequestType1{IdentityIsIMSI: false}}
	if ev := a.OnElement(ie); ev != nil {
		t.Fatalf("expected no event for a TMSI-addressed paging request, got %+v", ev)
	}
}

func TestConnectionRedirect2GDowngrade(t *testing.T) {
	a := newConnectionRedirect2GDowngrade()
	ie := &signaling.InformationElement{Content: signaling.ConnectionReleaseRedirect{TargetRAT: signaling.RATGSM}}
	if ev := a.OnElement(ie); ev == nil || ev.Severity != analysis.High {
		t.Fatalf("expected a high-severity warning, got %+v", ev)
	}
	ie = &signaling.InformationElement{Content: signaling.ConnectionReleaseRedirect{TargetRAT: signaling.RATLTE}}
	if ev := a.OnElement(ie); ev != nil {
		t.Fatalf("expected no event for a non-GSM redirect, got %+v", ev)
	}
}

func TestLteSib67Downgrade(t *testing.T) {
	a := newLteSib6And7Downgrade()
	ie := &signaling.InformationElement{Content: signaling.SystemInformation67{SIBType: 7, HasGSMReselPriorities: true}}
	if ev := a.OnElement(ie); ev == nil {
		t.Fatal("expected a warning for SIB7 advertising GSM reselection")
	}
	ie = &signaling.InformationElement{Content: signaling.SystemInformation67{SIBType: 7, HasGSMReselPriorities: false}}
	if ev := a.OnElement(ie); ev != nil {
		t.Fatalf("expected no event without GSM reselection priorities, got %+v", ev)
	}
}

func TestNullCipher(t *testing.T) {
	a := newNullCipher()
	ie := &signaling.InformationElement{Content: signaling.CipherModeCommand{Algorithm: "A5/0"}}
	if ev := a.OnElement(ie); ev == nil || ev.Severity != analysis.High {
		t.Fatalf("expected a high-severity warning for A5/0, got %+v", ev)
	}
	ie = &signaling.InformationElement{Content: signaling.CipherModeCommand{Algorithm: "A5/3"}}
	if ev := a.OnElement(ie); ev != nil {
		t.Fatalf("expected no event for a real cipher, got %+v", ev)
	}
}

func TestCellularNetworkFlagsImplausibleJump(t *testing.T) {
	a := newCellularNetwork()
	payload := func(cellID uint32, rsrp int8) []byte {
		b := make([]byte, 5)
		b[0] = byte(cellID)
		b[1] = byte(cellID >> 8)
		b[2] = byte(cellID >> 16)
		b[3] = byte(cellID >> 24)
		b[4] = byte(rsrp)
		return b
	}

	steady := []int8{-90, -91, -89, -90, -92, -90}
	var last *analysis.Event
	for _, rsrp := range steady {
		msg := &container.Message{Kind: container.KindLog, LogCode: 0xB0E0, Payload: payload(7, rsrp)}
		last = a.OnMessage(msg)
	}
	if last != nil {
		t.Fatalf("steady readings must not warn, got %+v", last)
	}

	jump := &container.Message{Kind: container.KindLog, LogCode: 0xB0E0, Payload: payload(7, -40)}
	if ev := a.OnMessage(jump); ev == nil {
		t.Fatal("expected a warning for an implausible signal jump")
	}
}

func TestCellularNetworkIgnoresOtherLogCodes(t *testing.T) {
	a := newCellularNetwork()
	msg := &container.Message{Kind: container.KindLog, LogCode: 0x512F, Payload: []byte{1, 2, 3, 4, 5}}
	if ev := a.OnMessage(msg); ev != nil {
		t.Fatalf("expected no event for an unrelated log code, got %+v", ev)
	}
}
