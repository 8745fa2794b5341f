package analysis

import (
	"testing"
	"time"

	"diagwatch/internal/diag/container"
	"diagwatch/internal/signaling"
)

type fixedElement struct {
	name  string
	event *Event
}

func (f fixedElement) Name() string                                          { return f.name }
func (f fixedElement) Description() string                                   { return f.name }
func (f fixedElement) OnElement(*signaling.InformationElement) *Event { return f.event }

type fixedRaw struct {
	name  string
	event *Event
}

func (f fixedRaw) Name() string                               { return f.name }
func (f fixedRaw) Description() string                        { return f.name }
func (f fixedRaw) OnMessage(*container.Message) *Event { return f.event }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEmptyContainerProducesEmptyRow(t *testing.T) {
	h := NewHarness(nil, nil, WithClock(fixedClock(time.Unix(0, 1000))))
	row := h.ProcessContainer(container.MessagesContainer{})
	if !row.IsEmpty() {
		t.Fatalf("expected empty row, got %+v", row)
	}
}

func TestParseFailureRecordsSkipReason(t *testing.T) {
	h := NewHarness(nil, nil)
	mc := container.MessagesContainer{
		Messages: []container.Result{
			{Err: &container.ParseError{Reason: "bad crc"}},
		},
	}
	row := h.ProcessContainer(mc)
	if len(row.SkippedMessageReasons) != 1 || row.SkippedMessageReasons[0] != "bad crc" {
		t.Fatalf("unexpected skip reasons: %+v", row.SkippedMessageReasons)
	}
	if len(row.Analysis) != 0 {
		t.Fatalf("expected no analysis, got %+v", row.Analysis)
	}
	if row.IsEmpty() {
		t.Fatal("a row with a skip reason must not be empty")
	}
}

func TestSlotAlignmentAndOrdering(t *testing.T) {
	warn := &Event{Type: QualitativeWarning, Severity: Medium, Message: "warn"}
	elems := []ElementAnalyzer{
		fixedElement{name: "a", event: nil},
		fixedElement{name: "b", event: warn},
		fixedElement{name: "c", event: nil},
	}
	h := NewHarness(nil, elems)

	msg := container.Message{Kind: container.KindLog, LogCode: 0x512F, Timestamp: 42, Payload: []byte{0x20, 0x21, 0x01, 0x01, 0x12}}
	mc := container.MessagesContainer{Messages: []container.Result{{Message: &msg}}}

	row := h.ProcessContainer(mc)
	if len(row.Analysis) != 1 {
		t.Fatalf("expected exactly one PacketAnalysis, got %d", len(row.Analysis))
	}
	pa := row.Analysis[0]
	if len(pa.Events) != len(elems) {
		t.Fatalf("slot alignment violated: got %d events, want %d", len(pa.Events), len(elems))
	}
	if pa.Events[0] != nil || pa.Events[2] != nil {
		t.Fatalf("expected holes at slots 0 and 2, got %+v", pa.Events)
	}
	if pa.Events[1] != warn {
		t.Fatalf("expected warning at slot 1, got %+v", pa.Events[1])
	}
	if pa.Timestamp != msg.Timestamp {
		t.Fatalf("element analysis must use the message's embedded timestamp, got %d want %d", pa.Timestamp, msg.Timestamp)
	}
}

func TestContainsWarnings(t *testing.T) {
	row := AnalysisRow{}
	if row.ContainsWarnings() {
		t.Fatal("empty row must not contain warnings")
	}
	row.Analysis = []PacketAnalysis{{Events: []*Event{nil, {Type: Informational, Message: "info"}}}}
	if row.ContainsWarnings() {
		t.Fatal("informational-only row must not contain warnings")
	}
	row.Analysis = append(row.Analysis, PacketAnalysis{Events: []*Event{{Type: QualitativeWarning, Severity: High}}})
	if !row.ContainsWarnings() {
		t.Fatal("expected ContainsWarnings to be true once a QualitativeWarning is present")
	}
}

func TestMetadataOrdersElementsBeforeRaw(t *testing.T) {
	raw := []RawAnalyzer{fixedRaw{name: "cellular_network"}}
	elems := []ElementAnalyzer{fixedElement{name: "imsi_requested"}, fixedElement{name: "null_cipher"}}
	h := NewHarness(raw, elems)

	meta := h.Metadata()
	if len(meta.Analyzers) != 3 {
		t.Fatalf("expected 3 analyzer metadata entries, got %d", len(meta.Analyzers))
	}
	want := []string{"imsi_requested", "null_cipher", "cellular_network"}
	for i, name := range want {
		if meta.Analyzers[i].Name != name {
			t.Fatalf("slot %d: got %q want %q", i, meta.Analyzers[i].Name, name)
		}
	}
}
