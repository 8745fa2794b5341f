package signaling

import (
	"testing"

	"diagwatch/internal/diag/container"
)

func TestExtractAndBuildPagingRequestIMSI(t *testing.T) {
	// header byte: CCCH (nibble 2), downlink
	header := byte(0x20)
	imsiDigits := []byte{0x21, 0x43, 0x65} // BCD-packed digits
	payload := append([]byte{header, msgTypePagingRequestType1, 0x01, byte(len(imsiDigits))}, imsiDigits...)

	msg := container.Message{Kind: container.KindLog, LogCode: 0x512F, Payload: payload}

	frame, ok, err := ExtractFrame(msg)
	if err != nil || !ok {
		t.Fatalf("ExtractFrame: ok=%v err=%v", ok, err)
	}
	if frame.RAT != RATGSM || frame.Channel != ChannelCCCH || frame.Direction != DirectionDownlink {
		t.Fatalf("unexpected frame header: %+v", frame)
	}

	ie, err := BuildElement(frame)
	if err != nil {
		t.Fatalf("BuildElement: %v", err)
	}
	pr, ok := ie.Content.(PagingRequestType1)
	if !ok {
		t.Fatalf("expected PagingRequestType1, got %T", ie.Content)
	}
	if !pr.IdentityIsIMSI {
		t.Fatal("expected IMSI identity")
	}
	if pr.IMSI != "123456" {
		t.Fatalf("unexpected IMSI digits: %q", pr.IMSI)
	}
}

func TestUnrecognizedLogCodeSkipsSilently(t *testing.T) {
	msg := container.Message{Kind: container.KindLog, LogCode: 0x11EB, Payload: []byte{0x00, 0x01, 0x02}}
	_, ok, err := ExtractFrame(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a log code with no layer-3 decode")
	}
}

func TestMalformedPayloadIsSkipError(t *testing.T) {
	msg := container.Message{Kind: container.KindLog, LogCode: 0x512F, Payload: []byte{}}
	_, _, err := ExtractFrame(msg)
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, ok := err.(*SkipError); !ok {
		t.Fatalf("expected *SkipError, got %T", err)
	}
}

func TestSIB67GSMReselection(t *testing.T) {
	payload := []byte{0x10, msgTypeSystemInformation, 7, 1}
	msg := container.Message{Kind: container.KindLog, LogCode: 0xB0C0, Payload: payload}

	frame, ok, err := ExtractFrame(msg)
	if err != nil || !ok {
		t.Fatalf("ExtractFrame: ok=%v err=%v", ok, err)
	}
	ie, err := BuildElement(frame)
	if err != nil {
		t.Fatalf("BuildElement: %v", err)
	}
	sib, ok := ie.Content.(SystemInformation67)
	if !ok {
		t.Fatalf("expected SystemInformation67, got %T", ie.Content)
	}
	if sib.SIBType != 7 || !sib.HasGSMReselPriorities {
		t.Fatalf("unexpected sib content: %+v", sib)
	}
}
