//go:build linux

package diag

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const devicePath = "/dev/diag"

// ioctl request codes for the diag char device. The request number's
// integer width has to match the target C ABI; unix.Syscall always
// takes uintptr, so the width concern is handled at the call site by
// how the constant is declared, not by this type.
const (
	diagIoctlSwitchLogging = 7
	diagIoctlRemoteDev     = 32
)

// diagLoggingModeParam mirrors struct diag_logging_mode_param_t from
// the kernel header: mode_param is only 8 bits wide. Sending a wider
// field causes the ioctl to be rejected on some hardware revisions.
type diagLoggingModeParam struct {
	ReqMode        uint32
	PeripheralMask uint32
	ModeParam      uint8
	_              [3]byte // padding to match C struct alignment
}

type linuxHandle struct {
	f *os.File
}

func openLinuxHandle() (handle, error) {
	f, err := os.OpenFile(devicePath, os.O_RDWR, 0)
	if err != nil {
		return nil, errInit(fmt.Sprintf("open %s: %v", devicePath, err))
	}
	return &linuxHandle{f: f}, nil
}

func (h *linuxHandle) Read(p []byte) (int, error)  { return h.f.Read(p) }
func (h *linuxHandle) Write(p []byte) (int, error) { return h.f.Write(p) }
func (h *linuxHandle) Close() error                { return h.f.Close() }

// switchLogging tries the short 5-arg ioctl form first; if the kernel
// rejects it, it falls back to the struct form, iterating the known
// hardware-variant parameter table. The table is a list, not a branch,
// so a new hardware revision can be supported by appending a row.
func (h *linuxHandle) switchLogging(mode uint32) error {
	fd := h.f.Fd()

	_, _, errno := unix.Syscall6(unix.SYS_IOCTL, fd, diagIoctlSwitchLogging,
		uintptr(mode), 0, 0, 0)
	if errno == 0 {
		return nil
	}

	variants := []diagLoggingModeParam{
		{ReqMode: mode, PeripheralMask: 0, ModeParam: 1},
		{ReqMode: mode, PeripheralMask: 0xFFFFFFFF, ModeParam: 0},
	}

	var lastErrno unix.Errno
	for _, v := range variants {
		params := v
		_, _, errno = unix.Syscall6(unix.SYS_IOCTL, fd, diagIoctlSwitchLogging,
			uintptr(unsafe.Pointer(&params)), unsafe.Sizeof(params), 0, 0)
		if errno == 0 {
			return nil
		}
		lastErrno = errno
	}

	return errInit(fmt.Sprintf("DIAG_IOCTL_SWITCH_LOGGING failed: %v", lastErrno))
}

func (h *linuxHandle) remoteDev() (bool, error) {
	var useMdm int32
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, h.f.Fd(), diagIoctlRemoteDev,
		uintptr(unsafe.Pointer(&useMdm)))
	if errno != 0 {
		return false, errInit(fmt.Sprintf("DIAG_IOCTL_REMOTE_DEV failed: %v", errno))
	}
	return useMdm > 0, nil
}
