// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build !linux

package mii

import "errors"

var ErrUnsupported = errors.New("mii: unsupported on this platform")

type Bus struct{}

func Open(name string) (*Bus, error) { return nil, ErrUnsupported }

func (*Bus) String() string { return "mii" }

func (*Bus) Close() error { return nil }

func (*Bus) Read(phy, reg uint8) (uint16, error) { return 0, ErrUnsupported }

func (*Bus) Write(phy, reg uint8, v uint16) error { return ErrUnsupported }
