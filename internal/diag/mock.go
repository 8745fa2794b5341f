package diag

import (
	"io"
	"sync"
)

// MockHandle is an in-memory stand-in for the kernel diagnostic device,
// used by tests and by cmd/diagwatch's -mock flag. It mirrors the shape
// of internal/sdr.MockSDR in the reference SDR tooling this driver was
// adapted from: a hand-built fake behind the same interface as the real
// hardware backend, rather than a generated one.
type MockHandle struct {
	mu sync.Mutex

	// switchLoggingFailures, set via NewMockOpener, is the number of
	// switchLogging calls that fail before one succeeds; each failing
	// call consumes one.
	switchLoggingFailures int
	remoteDevErr           error
	useMdm                 bool

	writeZero bool
	writeErr  error

	// reads is a queue of raw bytes to hand back from Read, one slice
	// per call. shortReadBytes, if > 0, is returned before any queued
	// entry to simulate the hardware's undersized-frame quirk.
	reads          [][]byte
	shortReadBytes int
	closed         bool
}

// NewMockHandle returns a ready-to-use mock with no induced faults.
func NewMockHandle() *MockHandle {
	return &MockHandle{}
}

// NewMockOpener returns an openFunc whose handle fails its
// DIAG_IOCTL_SWITCH_LOGGING step failures times before succeeding, used
// to exercise the retry/backoff path deterministically (see scenario S5
// in spec.md §8).
func NewMockOpener(failures int) (openFunc, *MockHandle) {
	m := NewMockHandle()
	m.switchLoggingFailures = failures
	return func() (handle, error) {
		return m, nil
	}, m
}

// QueueContainer enqueues raw, already-encoded MessagesContainer bytes
// to be returned by the next Read call.
func (m *MockHandle) QueueContainer(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, raw)
}

// InduceShortReads makes the next Read return only n bytes (undersized
// when n <= 8) before any queued container is served, simulating the
// hardware's transient undersized-frame behavior. It induces one short
// read, not n of them.
func (m *MockHandle) InduceShortReads(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortReadBytes = n
}

// InduceWriteZero makes subsequent Write calls report 0 bytes written
// with a nil error, matching real /dev/diag behavior.
func (m *MockHandle) InduceWriteZero(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeZero = enabled
}

// SetUseMdm controls what remoteDev() reports.
func (m *MockHandle) SetUseMdm(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.useMdm = v
}

func (m *MockHandle) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shortReadBytes > 0 {
		n := m.shortReadBytes
		if n > len(p) {
			n = len(p)
		}
		m.shortReadBytes = 0
		return n, nil
	}

	if len(m.reads) == 0 {
		// No more containers queued: tests drive the mock explicitly,
		// so treat a drained queue the same as device closure rather
		// than blocking forever.
		return 0, io.EOF
	}
	next := m.reads[0]
	m.reads = m.reads[1:]
	n := copy(p, next)
	return n, nil
}

func (m *MockHandle) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	if m.writeZero {
		return 0, nil
	}
	return len(p), nil
}

func (m *MockHandle) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockHandle) switchLogging(mode uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.switchLoggingFailures > 0 {
		m.switchLoggingFailures--
		return errInit("simulated SWITCH_LOGGING failure")
	}
	return nil
}

func (m *MockHandle) remoteDev() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.remoteDevErr != nil {
		return false, m.remoteDevErr
	}
	return m.useMdm, nil
}
