package diag

import "io"

// handle abstracts the kernel diagnostic character device: the raw
// read/write file descriptor plus the two ioctls performed once at
// open time. The real implementation lives in handle_linux.go; tests
// and non-Linux development builds use the in-memory mock in mock.go.
type handle interface {
	io.Reader
	io.Writer
	io.Closer

	// switchLogging puts the device into the given logging mode,
	// trying every hardware-variant parameter shape the kernel driver
	// is known to require before giving up.
	switchLogging(mode uint32) error

	// remoteDev reports whether an additional MDM addressing field is
	// required on every request.
	remoteDev() (useMdm bool, err error)
}

// openFunc is overridden in tests to avoid touching a real /dev/diag.
type openFunc func() (handle, error)
