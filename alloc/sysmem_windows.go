//go:build windows

package alloc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// sysAlloc reserves and commits n bytes of zero-filled memory via
// VirtualAlloc, the Windows counterpart to sysAlloc's mmap on unix.
func sysAlloc(n uintptr) ([]byte, error) {
	if n == 0 {
		n = 1
	}
	addr, err := windows.VirtualAlloc(0, n, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

// sysFree releases memory obtained from sysAlloc.
func sysFree(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return windows.VirtualFree(uintptr(unsafe.Pointer(&buf[0])), 0, windows.MEM_RELEASE)
}

func sysPageSize() uintptr {
	return 4096
}
