//go:build unix

package alloc

import "golang.org/x/sys/unix"

// sysAlloc reserves n bytes of anonymous, zero-filled memory directly
// from the kernel, mirroring the teacher's mmfile.Map (which maps a real
// file) but for anonymous pages: GlobalAllocator's "system heap" is a
// real mmap-backed region, not a make([]byte, n) simulation.
func sysAlloc(n uintptr) ([]byte, error) {
	if n == 0 {
		n = 1
	}
	return unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// sysFree releases memory obtained from sysAlloc.
func sysFree(buf []byte) error {
	return unix.Munmap(buf)
}

// sysPageSize is used to decide when GlobalAllocator must over-allocate
// to satisfy an alignment request larger than what mmap guarantees.
func sysPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
