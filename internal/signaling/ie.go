// Package signaling decodes diagnostic log payloads into a RAT-neutral
// InformationElement: the decoded form the analyzer harness fans out to
// element analyzers (spec.md §3, §4.E). Raw-message analyzers receive
// the undecoded message instead.
package signaling

import "fmt"

// RAT identifies a radio access technology.
type RAT int

const (
	RATUnknown RAT = iota
	RATGSM
	RATGPRS
	RATWCDMA
	RATLTE
	RATNR
)

func (r RAT) String() string {
	switch r {
	case RATGSM:
		return "GSM"
	case RATGPRS:
		return "GPRS"
	case RATWCDMA:
		return "WCDMA"
	case RATLTE:
		return "LTE"
	case RATNR:
		return "NR"
	default:
		return "unknown"
	}
}

// Channel identifies the logical control/traffic channel a PDU rode on.
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelBCCH
	ChannelCCCH
	ChannelDCCH
	ChannelPCCH
	ChannelSACCH
	ChannelFACCH
)

func (c Channel) String() string {
	switch c {
	case ChannelBCCH:
		return "BCCH"
	case ChannelCCCH:
		return "CCCH"
	case ChannelDCCH:
		return "DCCH"
	case ChannelPCCH:
		return "PCCH"
	case ChannelSACCH:
		return "SACCH"
	case ChannelFACCH:
		return "FACCH"
	default:
		return "unknown"
	}
}

// Direction is uplink or downlink relative to the handset.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionUplink
	DirectionDownlink
)

func (d Direction) String() string {
	switch d {
	case DirectionUplink:
		return "UL"
	case DirectionDownlink:
		return "DL"
	default:
		return "unknown"
	}
}

// Content is the carrier-neutral decoded body of an InformationElement.
// It is a small closed set of structs rather than a full ASN.1/layer-3
// decode tree; the set here is exactly what the example detectors in
// internal/detectors need, per spec.md's framing that detector math is
// out of scope for this core.
type Content interface {
	isContent()
}

// PagingRequestType1 models a GSM/GPRS RR Paging Request Type 1 that
// addresses a subscriber by an unencrypted mobile identity.
type PagingRequestType1 struct {
	IdentityIsIMSI bool
	IMSI           string
}

func (PagingRequestType1) isContent() {}

// ConnectionReleaseRedirect models an RRC/RR connection release carrying
// a redirection target, e.g. an LTE RRCConnectionRelease with
// redirectedCarrierInfo pointing at GERAN.
type ConnectionReleaseRedirect struct {
	TargetRAT RAT
}

func (ConnectionReleaseRedirect) isContent() {}

// SystemInformation67 models the subset of LTE SIB Type 6/7 content the
// downgrade detector needs: whether GSM cell reselection priorities are
// advertised.
type SystemInformation67 struct {
	SIBType               int
	HasGSMReselPriorities bool
}

func (SystemInformation67) isContent() {}

// CipherModeCommand models a GSM RR Ciphering Mode Command / UMTS RRC
// Security Mode Command, carrying the negotiated algorithm.
type CipherModeCommand struct {
	Algorithm string // "A5/0" denotes null/no encryption
}

func (CipherModeCommand) isContent() {}

// Unparsed is used when the PDU's message type isn't one the decoder
// recognizes; the raw bytes are preserved for downstream inspection but
// no detector can act on them.
type Unparsed struct {
	MessageType byte
	Raw         []byte
}

func (Unparsed) isContent() {}

// InformationElement is a RAT-neutral, decoded signaling PDU.
type InformationElement struct {
	RAT       RAT
	Channel   Channel
	Direction Direction
	Content   Content
}

// SkipError explains why a frame could not produce an InformationElement;
// it is never a panic, only a recorded skip reason.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

func skip(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}
