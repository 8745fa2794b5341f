package analysis

import (
	"diagwatch/internal/diag/container"
	"diagwatch/internal/signaling"
)

// ElementAnalyzer consumes RAT-neutral decoded signaling elements.
// Implementations are synchronous, pure functions of their own bounded
// state and the element they are given, and MUST NOT block.
type ElementAnalyzer interface {
	Name() string
	Description() string
	OnElement(ie *signaling.InformationElement) *Event
}

// RawAnalyzer consumes the undecoded Message, for signals that don't
// survive signaling decode (e.g. physical-layer measurements riding
// log codes this core never parses into an InformationElement).
type RawAnalyzer interface {
	Name() string
	Description() string
	OnMessage(msg *container.Message) *Event
}
