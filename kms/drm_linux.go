// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package kms

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DRM ioctl request numbers are _IOWR('d', nr, struct).
const (
	drmIoctlBase = 'd'

	drmNrPrimeHandleToFD = 0x2d
	drmNrModeCreateDumb  = 0xb2
	drmNrModeDestroyDumb = 0xb4

	drmCloexec = unix.O_CLOEXEC
	drmRDWR    = unix.O_RDWR
)

type drmModeCreateDumb struct {
	Height uint32
	Width  uint32
	BPP    uint32
	Flags  uint32
	Handle uint32
	Pitch  uint32
	Size   uint64
}

type drmModeDestroyDumb struct {
	Handle uint32
}

type drmPrimeHandle struct {
	Handle uint32
	Flags  uint32
	FD     int32
}

var (
	ioctlModeCreateDumb  = iowr(drmNrModeCreateDumb, unsafe.Sizeof(drmModeCreateDumb{}))
	ioctlModeDestroyDumb = iowr(drmNrModeDestroyDumb, unsafe.Sizeof(drmModeDestroyDumb{}))
	ioctlPrimeHandleToFD = iowr(drmNrPrimeHandleToFD, unsafe.Sizeof(drmPrimeHandle{}))
)

func iowr(nr, size uintptr) uintptr {
	const (
		dirRead  = 2
		dirWrite = 1
	)
	return (dirRead|dirWrite)<<30 | size<<16 | drmIoctlBase<<8 | nr
}

// DRM allocates dumb buffers on a DRM device node.
type DRM struct {
	fd   int
	path string
}

// OpenDRM opens a DRM node such as /dev/dri/card0.
func OpenDRM(path string) (*DRM, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("kms: open %s: %w", path, err)
	}
	return &DRM{fd: fd, path: path}, nil
}

// FD returns the device file descriptor.
func (d *DRM) FD() int { return d.fd }

// CreateDumb implements Allocator.
func (d *DRM) CreateDumb(width, height, bpp int) (DumbBuffer, error) {
	if err := checkSize(width, height, bpp); err != nil {
		return DumbBuffer{}, err
	}
	arg := drmModeCreateDumb{Width: uint32(width), Height: uint32(height), BPP: uint32(bpp)}
	if err := d.ioctl(ioctlModeCreateDumb, unsafe.Pointer(&arg)); err != nil {
		return DumbBuffer{}, fmt.Errorf("kms: create dumb %dx%d on %s: %w", width, height, d.path, err)
	}
	return DumbBuffer{
		Handle: arg.Handle,
		Width:  width,
		Height: height,
		BPP:    bpp,
		Pitch:  int(arg.Pitch),
		Size:   arg.Size,
	}, nil
}

// ExportDMABuf implements Allocator.
func (d *DRM) ExportDMABuf(b DumbBuffer) (int, error) {
	arg := drmPrimeHandle{Handle: b.Handle, Flags: drmCloexec | drmRDWR, FD: -1}
	if err := d.ioctl(ioctlPrimeHandleToFD, unsafe.Pointer(&arg)); err != nil {
		return -1, fmt.Errorf("kms: export handle %d: %w", b.Handle, err)
	}
	return int(arg.FD), nil
}

// DestroyDumb implements Allocator.
func (d *DRM) DestroyDumb(b DumbBuffer) error {
	arg := drmModeDestroyDumb{Handle: b.Handle}
	if err := d.ioctl(ioctlModeDestroyDumb, unsafe.Pointer(&arg)); err != nil {
		return fmt.Errorf("kms: destroy handle %d: %w", b.Handle, err)
	}
	return nil
}

// Close closes the device node.
func (d *DRM) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// ioctl restarts interrupted requests the way libdrm's drmIoctl does.
func (d *DRM) ioctl(req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
		if errno == 0 {
			return nil
		}
		if !errors.Is(errno, unix.EINTR) && !errors.Is(errno, unix.EAGAIN) {
			return errno
		}
	}
}
