// Package diag owns the kernel diagnostic character device: the init
// handshake (mode switch and MDM detection, retried with exponential
// backoff), log-mask configuration, and the steady-state read loop that
// turns raw device reads into a stream of container.MessagesContainer
// values.
package diag

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"

	"diagwatch/internal/diag/container"
	"diagwatch/internal/diag/logcodes"
	"diagwatch/internal/logging"
)

const (
	memoryDeviceMode = 2
	readBufferSize   = 1024 * 1024 * 10 // ~10 MiB, per spec.md §4.C

	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
	defaultInitDeadline   = 30 * time.Second
)

// Device owns a single open diagnostic handle for the lifetime of one
// capture session. Only one Device may hold /dev/diag open per process;
// the kernel node is a process-global singleton.
type Device struct {
	h       handle
	useMdm  bool
	readBuf []byte
	log     logging.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	initDeadline time.Duration
	logger       logging.Logger
	open         openFunc
}

// WithInitDeadline overrides the default 30s initialization deadline.
func WithInitDeadline(d time.Duration) Option {
	return func(o *options) { o.initDeadline = d }
}

// WithLogger overrides the default, process-wide logging.Default()
// logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// withOpener is unexported: only tests and cmd/diagwatch's -mock flag
// may bypass the real kernel device.
func withOpener(f openFunc) Option {
	return func(o *options) { o.open = f }
}

// WithMockHandle wires a pre-built MockHandle in directly, for tests
// that want to queue containers onto a handle they already hold a
// reference to.
func WithMockHandle(m *MockHandle) Option {
	return withOpener(func() (handle, error) { return m, nil })
}

func resolveOptions(opts []Option) options {
	o := options{
		initDeadline: defaultInitDeadline,
		logger:       logging.Default(),
		open:         openLinuxHandle,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// New opens /dev/diag, performs the mode-switch/MDM handshake, and
// retries the whole sequence with exponential backoff (100ms doubling
// to a 5s ceiling) until it succeeds or the init deadline elapses.
func New(ctx context.Context, opts ...Option) (*Device, error) {
	o := resolveOptions(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialBackoff
	b.MaxInterval = defaultMaxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0 // delays must form the exact 100ms,200ms,400ms,... sequence
	b.MaxElapsedTime = o.initDeadline

	var dev *Device
	retries := 0
	operation := func() error {
		d, err := tryNew(o)
		if err != nil {
			return err
		}
		dev = d
		return nil
	}
	notify := func(err error, delay time.Duration) {
		retries++
		o.logger.Info("diag device initialization failed, retrying",
			logging.Field{Key: "attempt", Value: retries},
			logging.Field{Key: "delay", Value: delay},
			logging.Field{Key: "error", Value: err},
		)
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		o.logger.Error("diag device initialization failed permanently",
			logging.Field{Key: "retries", Value: retries},
			logging.Field{Key: "error", Value: err},
		)
		return nil, errInit(err.Error())
	}

	o.logger.Info("diag device initialization succeeded",
		logging.Field{Key: "retries", Value: retries},
	)
	return dev, nil
}

func tryNew(o options) (*Device, error) {
	h, err := o.open()
	if err != nil {
		return nil, err
	}
	if err := h.switchLogging(memoryDeviceMode); err != nil {
		_ = h.Close()
		return nil, err
	}
	useMdm, err := h.remoteDev()
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	return &Device{
		h:       h,
		useMdm:  useMdm,
		readBuf: make([]byte, readBufferSize),
		log:     o.logger,
	}, nil
}

// Close releases the underlying file descriptor. Safe to call multiple
// times.
func (d *Device) Close() error {
	return d.h.Close()
}

// nextContainer reads until it gets more than 8 bytes (the hardware
// emits undersized frames transiently; those reads are retried rather
// than surfaced) and parses the result into a MessagesContainer.
func (d *Device) nextContainer() (container.MessagesContainer, error) {
	var n int
	var err error
	for n <= 8 {
		n, err = d.h.Read(d.readBuf)
		if err != nil {
			return container.MessagesContainer{}, errRead(err)
		}
	}

	mc, err := container.ParseMessagesContainer(d.readBuf[:n])
	if err != nil {
		return container.MessagesContainer{}, errParseContainer(err)
	}
	return mc, nil
}

// writeRequest serializes and HDLC-frames req, wraps it in a
// RequestContainer, and writes it to the device. A write returning 0
// bytes is the device's normal behavior and is not an error.
func (d *Device) writeRequest(req container.Request) error {
	rc := container.NewRequestContainer(req, d.useMdm)
	_, err := d.h.Write(rc.Bytes())
	if err != nil {
		return errWrite(err)
	}
	return nil
}

// readResponse reads containers, skipping any that aren't addressed to
// user space, and returns the first one's messages.
func (d *Device) readResponse() ([]container.Result, error) {
	for {
		mc, err := d.nextContainer()
		if err != nil {
			return nil, err
		}
		if mc.DataType != container.DataTypeUserSpace {
			continue
		}
		return mc.Messages, nil
	}
}

func (d *Device) retrieveIDRanges() ([16]uint32, error) {
	req := container.Request{Op: container.OpRetrieveIdRanges}
	if err := d.writeRequest(req); err != nil {
		return [16]uint32{}, err
	}

	results, err := d.readResponse()
	if err != nil {
		return [16]uint32{}, err
	}

	for _, r := range results {
		if !r.Ok() {
			d.log.Info("error parsing message during handshake", logging.Field{Key: "error", Value: r.Err})
			continue
		}
		m := r.Message
		if m.Kind == container.KindLog {
			continue // ignored during handshake
		}
		if m.Kind == container.KindResponse && m.ResponsePayload.Kind == container.RespRetrieveIdRanges {
			if m.Status != 0 {
				return [16]uint32{}, errRequestFailed(m.Status, req)
			}
			return m.ResponsePayload.LogMaskSizes, nil
		}
	}
	return [16]uint32{}, errNoResponse(req)
}

func (d *Device) setLogMask(logType uint32, bitsize uint32) error {
	req := container.Request{
		Op:      container.OpSetMask,
		LogType: logType,
		Bitmask: logcodes.BitmaskForRange(logType, bitsize),
	}
	if err := d.writeRequest(req); err != nil {
		return err
	}

	results, err := d.readResponse()
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.Ok() {
			d.log.Info("error parsing message during handshake", logging.Field{Key: "error", Value: r.Err})
			continue
		}
		m := r.Message
		if m.Kind == container.KindLog {
			continue
		}
		if m.Kind == container.KindResponse && m.ResponsePayload.Kind == container.RespSetMask {
			if m.Status != 0 {
				return errRequestFailed(m.Status, req)
			}
			return nil
		}
	}
	return errNoResponse(req)
}

// ConfigLogs retrieves the baseband's supported log-mask range sizes
// and issues a SetMask request for every non-empty range, enabling
// exactly the identifiers in the log code registry. Idempotent:
// configuring twice in a row succeeds both times.
func (d *Device) ConfigLogs() error {
	d.log.Info("retrieving diag logging capabilities")
	sizes, err := d.retrieveIDRanges()
	if err != nil {
		return err
	}

	for logType, bitsize := range sizes {
		if bitsize == 0 {
			continue
		}
		if err := d.setLogMask(uint32(logType), bitsize); err != nil {
			return err
		}
		d.log.Info("enabled logging for log type", logging.Field{Key: "log_type", Value: logType})
	}
	return nil
}

// Stream delivers MessagesContainer values to out until ctx is
// cancelled or a fatal error occurs, at which point it sends the error
// and closes out. A partially parsed container is never emitted.
func (d *Device) Stream(ctx context.Context, out chan<- container.MessagesContainer, errs chan<- error) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		mc, err := d.nextContainer()
		if err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}

		select {
		case out <- mc:
		case <-ctx.Done():
			return
		}
	}
}
