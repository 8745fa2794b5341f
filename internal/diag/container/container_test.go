package container

import "testing"

func TestOneOkOneErrInOrder(t *testing.T) {
	good := Message{Kind: KindLog, Timestamp: 42, LogCode: 0x512F, Payload: []byte{0x01, 0x02}}
	mc := MessagesContainer{DataType: DataTypeUserSpace, Messages: []Result{
		{Message: &good},
	}}
	raw := EncodeMessagesContainer(mc)

	// Bump the declared count to 2 and append a second, deliberately
	// malformed message: a Log header truncated right after the kind byte.
	raw[4] = 2
	badBody := []byte{byte(KindLog)} // far too short to contain a log header
	raw = append(raw, byte(len(badBody)), 0, 0, 0)
	raw = append(raw, badBody...)

	got, err := ParseMessagesContainer(raw)
	if err != nil {
		t.Fatalf("ParseMessagesContainer: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Messages))
	}
	if !got.Messages[0].Ok() {
		t.Fatalf("expected entry 0 to be Ok, got err %v", got.Messages[0].Err)
	}
	if got.Messages[1].Ok() {
		t.Fatalf("expected entry 1 to be an error")
	}
	if got.Messages[0].Message.LogCode != 0x512F {
		t.Fatalf("entry 0 log code mismatch: %x", got.Messages[0].Message.LogCode)
	}
}

func TestRetrieveIdRangesRoundTrip(t *testing.T) {
	var sizes [16]uint32
	sizes[3] = 128
	m := Message{
		Kind:   KindResponse,
		Status: 0,
		ResponsePayload: ResponsePayload{
			Kind:         RespRetrieveIdRanges,
			LogMaskSizes: sizes,
		},
	}
	mc := MessagesContainer{DataType: DataTypeUserSpace, Messages: []Result{{Message: &m}}}
	raw := EncodeMessagesContainer(mc)

	got, err := ParseMessagesContainer(raw)
	if err != nil {
		t.Fatalf("ParseMessagesContainer: %v", err)
	}
	decoded := got.Messages[0].Message
	if decoded.Status != 0 {
		t.Fatalf("status mismatch: %d", decoded.Status)
	}
	if decoded.ResponsePayload.LogMaskSizes[3] != 128 {
		t.Fatalf("log mask size mismatch: %+v", decoded.ResponsePayload.LogMaskSizes)
	}
}

func TestRequestContainerFieldOrder(t *testing.T) {
	req := Request{Op: OpRetrieveIdRanges}
	rc := NewRequestContainer(req, true)
	rc.MdmField = -1
	buf := rc.Bytes()

	if len(buf) < 13 {
		t.Fatalf("container too short: %d", len(buf))
	}
	if buf[4] != 1 {
		t.Fatalf("use_mdm not serialized at offset 4: %x", buf[4])
	}
}
