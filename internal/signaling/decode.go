package signaling

import (
	"fmt"

	"diagwatch/internal/diag/container"
	"diagwatch/internal/diag/logcodes"
)

// message type tags within the layer-3 payload, following the one-byte
// channel/direction header. These are this decoder's own compact
// encoding, not a full 3GPP layer-3 message set: just enough structure
// for the example detectors in internal/detectors.
const (
	msgTypePagingRequestType1        byte = 0x21
	msgTypeConnectionReleaseRedirect byte = 0x0C
	msgTypeSystemInformation         byte = 0x1B
	msgTypeCipherModeCommand         byte = 0x0D
)

// ratForLogCode reports which RAT a given log code's payloads belong
// to, and whether this decoder extracts a Frame from it at all. Log
// codes outside this table (measurement reports, data-protocol
// traffic, etc.) are legitimately left undecoded: decoding is total,
// but not every subscribed code carries a layer-3 signaling PDU this
// core needs to understand.
func ratForLogCode(logCode uint16) (RAT, bool) {
	switch uint32(logCode) {
	case logcodes.GSMRRSignaling, logcodes.GPRSMACSignaling:
		return RATGSM, true
	case logcodes.WCDMASignaling:
		return RATWCDMA, true
	case logcodes.LTERRCOTAMessage:
		return RATLTE, true
	case logcodes.NRRRCOTAMessage:
		return RATNR, true
	case logcodes.UMTSNASOTAMessage:
		return RATWCDMA, true
	default:
		return RATUnknown, false
	}
}

// ExtractFrame decodes a Log message's payload into a Frame. ok is
// false when the log code is one this decoder intentionally leaves
// unparsed (not a failure — the harness simply moves on). err is
// non-nil only for a recognized, malformed payload.
func ExtractFrame(msg container.Message) (frame *Frame, ok bool, err error) {
	if msg.Kind != container.KindLog {
		return nil, false, nil
	}

	rat, recognized := ratForLogCode(msg.LogCode)
	if !recognized {
		return nil, false, nil
	}

	if len(msg.Payload) < 1 {
		return nil, false, skip("empty payload for log code %#x", msg.LogCode)
	}
	ch, dir := decodeHeader(msg.Payload[0])

	return &Frame{
		Timestamp: msg.Timestamp,
		RAT:       rat,
		Channel:   ch,
		Direction: dir,
		Payload:   msg.Payload[1:],
	}, true, nil
}

// BuildElement decodes a Frame's layer-3 payload into an
// InformationElement. An unrecognized message type yields an Unparsed
// content value rather than an error: only a payload too short to
// contain its own message type is malformed.
func BuildElement(f *Frame) (InformationElement, error) {
	if len(f.Payload) < 1 {
		return InformationElement{}, skip("empty layer-3 payload")
	}

	msgType := f.Payload[0]
	body := f.Payload[1:]

	content, err := decodeContent(msgType, body)
	if err != nil {
		return InformationElement{}, err
	}

	return InformationElement{
		RAT:       f.RAT,
		Channel:   f.Channel,
		Direction: f.Direction,
		Content:   content,
	}, nil
}

func decodeContent(msgType byte, body []byte) (Content, error) {
	switch msgType {
	case msgTypePagingRequestType1:
		return decodePagingRequestType1(body)
	case msgTypeConnectionReleaseRedirect:
		return decodeConnectionReleaseRedirect(body)
	case msgTypeSystemInformation:
		return decodeSystemInformation(body)
	case msgTypeCipherModeCommand:
		return decodeCipherModeCommand(body)
	default:
		return Unparsed{MessageType: msgType, Raw: append([]byte(nil), body...)}, nil
	}
}

// decodePagingRequestType1 expects a mobile-identity TLV: [idType][len][digits...].
// idType 0x01 denotes IMSI, matching the low-order "type of identity"
// bits of the real 3GPP mobile identity IE.
func decodePagingRequestType1(body []byte) (Content, error) {
	if len(body) < 2 {
		return nil, skip("truncated paging request mobile identity")
	}
	idType := body[0]
	n := int(body[1])
	if 2+n > len(body) {
		return nil, skip("truncated mobile identity digits")
	}
	digits := body[2 : 2+n]

	isIMSI := idType == 0x01
	var imsi string
	if isIMSI {
		imsi = bcdDigits(digits)
	}
	return PagingRequestType1{IdentityIsIMSI: isIMSI, IMSI: imsi}, nil
}

func decodeConnectionReleaseRedirect(body []byte) (Content, error) {
	if len(body) < 1 {
		return nil, skip("truncated connection release redirect target")
	}
	return ConnectionReleaseRedirect{TargetRAT: RAT(body[0])}, nil
}

func decodeSystemInformation(body []byte) (Content, error) {
	if len(body) < 2 {
		return nil, skip("truncated system information block")
	}
	return SystemInformation67{
		SIBType:               int(body[0]),
		HasGSMReselPriorities: body[1] != 0,
	}, nil
}

func decodeCipherModeCommand(body []byte) (Content, error) {
	if len(body) < 1 {
		return nil, skip("truncated cipher mode command")
	}
	algo := "A5/0"
	if body[0] != 0 {
		algo = fmt.Sprintf("A5/%d", body[0])
	}
	return CipherModeCommand{Algorithm: algo}, nil
}

// bcdDigits renders each nibble of raw as a decimal digit, matching
// how IMSI digits are packed in the real mobile-identity IE.
func bcdDigits(raw []byte) string {
	out := make([]byte, 0, len(raw)*2)
	for _, b := range raw {
		lo := b & 0x0F
		hi := b >> 4
		if lo <= 9 {
			out = append(out, '0'+lo)
		}
		if hi <= 9 {
			out = append(out, '0'+hi)
		}
	}
	return string(out)
}
