// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package smi

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/platinasystems/swreg/external/poll"
	"github.com/platinasystems/swreg/external/swerr"
)

const (
	dev = uint8(0x1b)
	reg = uint8(0x1d)
	phy = uint8(0x04)
)

var errBus = errors.New("mdio timeout")

func TestDirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := NewMockBus(ctrl)
	tr, err := New(bus, Direct(), poll.Policy{})
	if err != nil {
		t.Fatal(err)
	}
	t.Run("read", func(t *testing.T) {
		bus.EXPECT().Read(dev, reg).Return(uint16(0x1234), nil)
		v, err := tr.ReadReg(dev, reg)
		if err != nil {
			t.Fatal(err)
		}
		if v != 0x1234 {
			t.Errorf("%#x != 0x1234", v)
		}
	})
	t.Run("write", func(t *testing.T) {
		bus.EXPECT().Write(dev, reg, uint16(0xbeef)).Return(nil)
		if err := tr.WriteReg(dev, reg, 0xbeef); err != nil {
			t.Fatal(err)
		}
	})
	t.Run("transport-error", func(t *testing.T) {
		bus.EXPECT().Read(dev, reg).Return(uint16(0), errBus)
		_, err := tr.ReadReg(dev, reg)
		if !errors.Is(err, swerr.ErrTransport) {
			t.Fatalf("got %v", err)
		}
		bus.EXPECT().Write(dev, reg, uint16(1)).Return(errBus)
		if err = tr.WriteReg(dev, reg, 1); !errors.Is(err, swerr.ErrTransport) {
			t.Fatalf("got %v", err)
		}
	})
	t.Run("bad-address", func(t *testing.T) {
		// any bus call fails the mock controller
		if _, err := tr.ReadReg(0x20, 0); !errors.Is(err, swerr.ErrBadParameter) {
			t.Fatalf("got %v", err)
		}
		if err := tr.WriteReg(0, 0x20, 0); !errors.Is(err, swerr.ErrBadParameter) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestChainedRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := NewMockBus(ctrl)
	tr, err := New(bus, Chained(phy), poll.Policy{Attempts: 4})
	if err != nil {
		t.Fatal(err)
	}
	gomock.InOrder(
		bus.EXPECT().Read(phy, CommandReg).Return(uint16(0), nil),
		bus.EXPECT().Write(phy, CommandReg,
			Command(CommandRead, dev, reg)).Return(nil),
		bus.EXPECT().Read(phy, CommandReg).Return(CommandBusy, nil).Times(2),
		bus.EXPECT().Read(phy, CommandReg).Return(uint16(0), nil),
		bus.EXPECT().Read(phy, DataReg).Return(uint16(0x5a5a), nil),
	)
	v, err := tr.ReadReg(dev, reg)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x5a5a {
		t.Errorf("%#x != 0x5a5a", v)
	}
}

func TestChainedWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := NewMockBus(ctrl)
	tr, err := New(bus, Chained(phy), poll.Policy{})
	if err != nil {
		t.Fatal(err)
	}
	gomock.InOrder(
		bus.EXPECT().Read(phy, CommandReg).Return(uint16(0), nil),
		bus.EXPECT().Write(phy, DataReg, uint16(0x8000)).Return(nil),
		bus.EXPECT().Write(phy, CommandReg,
			Command(CommandWrite, dev, reg)).Return(nil),
		bus.EXPECT().Read(phy, CommandReg).Return(uint16(0), nil),
	)
	if err := tr.WriteReg(dev, reg, 0x8000); err != nil {
		t.Fatal(err)
	}
}

func TestChainedBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := NewMockBus(ctrl)
	tr, err := New(bus, Chained(phy), poll.Policy{Attempts: 3})
	if err != nil {
		t.Fatal(err)
	}
	bus.EXPECT().Read(phy, CommandReg).Return(CommandBusy, nil).Times(3)
	if _, err = tr.ReadReg(dev, reg); !errors.Is(err, swerr.ErrBusy) {
		t.Fatalf("got %v", err)
	}
}

func TestChainedPhy(t *testing.T) {
	_, err := New(nil, Chained(0x20), poll.Policy{})
	if !errors.Is(err, swerr.ErrBadParameter) {
		t.Fatalf("got %v", err)
	}
}

func TestCommand(t *testing.T) {
	for _, x := range []struct {
		op       uint16
		dev, reg uint8
		want     uint16
	}{
		{CommandRead, 0x1b, 0x1d, 0x9b7d},
		{CommandWrite, 0x1c, 0x09, 0x9789},
		{CommandRead, 0, 0, 0x9800},
	} {
		if got := Command(x.op, x.dev, x.reg); got != x.want {
			t.Errorf("Command(%#x, %#x, %#x) %#x != %#x",
				x.op, x.dev, x.reg, got, x.want)
		}
	}
}
