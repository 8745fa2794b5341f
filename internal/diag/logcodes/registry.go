// Package logcodes enumerates the diagnostic log identifiers the device
// driver subscribes to. The set is fixed at compile time: adding or
// removing an entry changes what the analyzer harness can ever see.
package logcodes

// Log identifiers, grouped by the log-mask range the baseband reports
// them under (see lib/src/log_codes.rs in the vendor tooling this table
// was copied from). Comments mark the RAT/interface each code belongs to.
const (
	// GPRS L2
	GPRSMACSignaling = 0x5226

	// GSM L3 / L2
	GSMRRSignaling     = 0x512F
	GSML1BurstMetrics  = 0x5134
	GSML1SCellBAList   = 0x5135
	GSML1NCellAcq      = 0x5136
	GSML1NCellBAList   = 0x5137
	GSMCellOptions     = 0x5138
	GSMPowerScan       = 0x5139
	GSML1CellID        = 0x513A
	GSMRRCellInfo      = 0x513B

	// WCDMA L3 / cell info
	WCDMASignaling          = 0x412F
	WCDMACellID             = 0x4127
	WCDMARRCStates          = 0x4128
	WCDMAPLMNSearch         = 0x4129
	WCDMAServingCellInfo    = 0x412A
	WCDMANeighborCellInfo   = 0x412B

	// LTE RRC
	LTERRCOTAMessage    = 0xB0C0
	LTERRCMeasCfg       = 0xB0C1
	LTERRCCellInfo      = 0xB0C2
	LTERRCState         = 0xB0C3
	LTERRCPLMNSearch    = 0xB0C4

	// LTE ML1 (serving cell / neighbor measurement) and LTE NAS ESM/EMM
	LTEML1ServingCellMeasAndEval = 0xB0E0
	LTEML1NeighborMeasurements   = 0xB0E1
	LTENASESMOTAIn               = 0xB0E2
	LTENASESMOTAOut               = 0xB0E3
	LTEML1ServingCellInfo        = 0xB0E4
	LTEML1IntraFreqMeas          = 0xB0E5
	LTEML1InterFreqMeas          = 0xB0E6
	LTEML1InterRATMeas           = 0xB0E7
	LTEML1CellReselCandidates    = 0xB0E8
	LTEML1CommonDLConfig         = 0xB0EA
	LTEML1ServingCellComLoop     = 0xB0EB
	LTENASEMMOTAIn               = 0xB0EC
	LTENASEMMOTAOut               = 0xB0ED
	LTENASEMMState               = 0xB0EE
	LTENASESMState               = 0xB0EF

	// LTE PHY measurement reports
	LTEPHYServCellMeasurement  = 0xB0F0
	LTEPHYNeighCellMeasurement = 0xB0F1
	LTEPHYInterFreqMeasurement = 0xB0F2
	LTEPHYInterRATMeasurement  = 0xB0F3

	// NR RRC
	NRRRCOTAMessage = 0xB821

	// UMTS NAS
	UMTSNASOTAMessage = 0x713A

	// Data protocol (user IP traffic)
	DataProtocolLogging = 0x11EB

	// NAS registration events
	NASRegistrationEvent0 = 0x713F
	NASRegistrationEvent1 = 0x7140
	NASRegistrationEvent2 = 0x7141
	NASRegistrationEvent3 = 0x7142
	NASRegistrationEvent4 = 0x7143
	NASRegistrationEvent5 = 0x7144
)

// All is the externally-visible subscription set: every code the driver
// asks the baseband to emit. Order matters only for readability; mask
// construction groups codes by their log-type range.
var All = []uint32{
	GPRSMACSignaling,
	GSMRRSignaling,
	WCDMASignaling,
	LTERRCOTAMessage,
	NRRRCOTAMessage,
	UMTSNASOTAMessage,
	LTENASESMOTAIn,
	LTENASESMOTAOut,
	LTENASEMMOTAIn,
	LTENASEMMOTAOut,
	LTENASEMMState,
	LTENASESMState,
	DataProtocolLogging,

	LTEML1ServingCellMeasAndEval,
	LTEML1NeighborMeasurements,
	LTEML1ServingCellInfo,
	LTEML1IntraFreqMeas,
	LTEML1InterFreqMeas,
	LTEML1InterRATMeas,
	LTEML1CellReselCandidates,
	LTEML1CommonDLConfig,
	LTEML1ServingCellComLoop,

	LTERRCMeasCfg,
	LTERRCCellInfo,
	LTERRCState,
	LTERRCPLMNSearch,

	GSML1BurstMetrics,
	GSML1SCellBAList,
	GSML1NCellAcq,
	GSML1NCellBAList,
	GSMCellOptions,
	GSMPowerScan,
	GSML1CellID,
	GSMRRCellInfo,

	WCDMACellID,
	WCDMARRCStates,
	WCDMAPLMNSearch,
	WCDMAServingCellInfo,
	WCDMANeighborCellInfo,

	LTEPHYServCellMeasurement,
	LTEPHYNeighCellMeasurement,
	LTEPHYInterFreqMeasurement,
	LTEPHYInterRATMeasurement,

	NASRegistrationEvent0,
	NASRegistrationEvent1,
	NASRegistrationEvent2,
	NASRegistrationEvent3,
	NASRegistrationEvent4,
	NASRegistrationEvent5,
}

// BitmaskForRange builds the mask to enable exactly the registered codes
// that fall within [0, bitsize) of the given log type's own numbering
// space. logType selects which range table a code belongs to; the wire
// format addresses codes within a range by their low bits.
func BitmaskForRange(logType uint32, bitsize uint32) []byte {
	words := (bitsize + 31) / 32
	mask := make([]uint32, words)

	for _, code := range All {
		if (code>>12)&0xF != logType {
			continue
		}
		bit := code & 0xFFF
		if uint32(bit) >= bitsize {
			continue
		}
		mask[bit/32] |= 1 << (bit % 32)
	}

	out := make([]byte, words*4)
	for i, w := range mask {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}
