// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build linux

// Package mii reaches the management bus behind a Linux network interface
// with the SIOCGMIIREG and SIOCSMIIREG ioctls.
package mii

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl data of linux/mii.h
type data struct {
	phy    uint16
	reg    uint16
	valIn  uint16
	valOut uint16
}

type ifreq struct {
	name [unix.IFNAMSIZ]byte
	data data
	_    [24 - unsafe.Sizeof(data{})]byte
}

type Bus struct {
	name string
	fd   int
}

// Open a socket for MII ioctls on the named interface.
func Open(name string) (*Bus, error) {
	if len(name) == 0 || len(name) >= unix.IFNAMSIZ {
		return nil, fmt.Errorf("mii: %q: invalid interface name", name)
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC,
		0)
	if err != nil {
		return nil, fmt.Errorf("mii: socket: %w", err)
	}
	b := &Bus{name: name, fd: fd}
	if _, err = b.ioctl(unix.SIOCGMIIPHY, 0, 0, 0); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return b, nil
}

func (b *Bus) String() string { return b.name }

func (b *Bus) Close() error { return unix.Close(b.fd) }

func (b *Bus) ioctl(op uintptr, phy, reg uint8, v uint16) (uint16, error) {
	var r ifreq
	copy(r.name[:], b.name)
	r.data.phy = uint16(phy)
	r.data.reg = uint16(reg)
	r.data.valIn = v
	_, _, e := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), op,
		uintptr(unsafe.Pointer(&r)))
	if e != 0 {
		return 0, fmt.Errorf("mii: %s: ioctl %#x: %w", b.name, op, e)
	}
	return r.data.valOut, nil
}

func (b *Bus) Read(phy, reg uint8) (uint16, error) {
	return b.ioctl(unix.SIOCGMIIREG, phy, reg, 0)
}

func (b *Bus) Write(phy, reg uint8, v uint16) error {
	_, err := b.ioctl(unix.SIOCSMIIREG, phy, reg, v)
	return err
}
