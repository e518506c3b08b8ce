// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pirl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/poll"
	"github.com/platinasystems/swreg/external/rate"
	"github.com/platinasystems/swreg/external/smi"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
	"github.com/platinasystems/swreg/internal/simbus"
)

var ops = map[indirect.Opcode]simbus.Action{
	OpInitAll:      simbus.FlushAll,
	OpInitResource: simbus.FlushEntry,
	OpWrite:        simbus.Store,
	OpRead:         simbus.Load,
}

func newPIRL(t *testing.T, mode smi.Mode) (*PIRL, *simbus.Switch,
	*variant.Variant) {
	t.Helper()
	v, err := variant.Lookup(variant.Amethyst)
	require.NoError(t, err)
	sw := simbus.New().Table(v.PIRL, ops)
	if mode.IsChained() {
		sw.Chain(mode.Phy())
	}
	sw.Latency = 1
	tr, err := smi.New(sw, mode, poll.Policy{})
	require.NoError(t, err)
	return New(indirect.NewDevice(tr, poll.Policy{}), v), sw, v
}

var (
	zero = Resource{}
	full = Resource{
		BktTypeMask:     0xffff,
		TCAMFlows:       true,
		PriAndPt:        true,
		UseFPri:         true,
		AccountQConf:    true,
		AccountFiltered: true,
		SamplingMode:    true,
		ColorAware:      true,
		PriSelect:       0xff,
		BktIncrement:    0x1fff,
		CountMode:       CountL3Bytes,
		ActionMode:      true,
		RFGreen:         0xffff,
		RFYellow:        0xffff,
		CBSLimit:        0xffffff,
		FCPriority:      7,
		FCMode:          true,
		EBSLimit:        0xffffff,
		EBSLimitAction:  true,
	}
)

func TestCodecBoundaries(t *testing.T) {
	v, _ := variant.Lookup(variant.Peridot)
	for _, r := range []Resource{zero, full} {
		words, err := codec.Encode(v.PIRLResource, &r)
		require.NoError(t, err)
		require.Len(t, words, 9)
		var got Resource
		require.NoError(t, codec.Decode(v.PIRLResource, words, &got))
		require.Equal(t, r, got)
	}
	words, _ := codec.Encode(v.PIRLResource, &full)
	require.Equal(t, []uint16{
		0xffff, 0xff7f, 0xffff, 0xffff, 0xffff,
		0xffff, 0x0fff, 0xffff, 0x01ff,
	}, words)
}

func TestCodecOverflow(t *testing.T) {
	v, _ := variant.Lookup(variant.Peridot)
	for _, r := range []Resource{
		{CBSLimit: 0x1000000},
		{BktIncrement: 0x2000},
		{FCPriority: 8},
		{CountMode: 4},
	} {
		_, err := codec.Encode(v.PIRLResource, &r)
		require.ErrorIs(t, err, swerr.ErrBadParameter)
	}
}

func TestWriteRead(t *testing.T) {
	for _, mode := range []smi.Mode{smi.Direct(), smi.Chained(3)} {
		t.Run(mode.String(), func(t *testing.T) {
			p, sw, v := newPIRL(t, mode)
			require.NoError(t, p.Write(5, 3, &full))
			require.Len(t, sw.Entry(v.PIRL,
				simbus.Key{Port: 5, Index: 3, Pointer: 8}), 1)
			got, err := p.Read(5, 3)
			require.NoError(t, err)
			require.Equal(t, full, got)
		})
	}
}

func TestInit(t *testing.T) {
	p, sw, v := newPIRL(t, smi.Direct())
	require.NoError(t, p.Write(1, 0, &full))
	require.NoError(t, p.Write(1, 1, &full))
	require.NoError(t, p.InitResource(1, 0))
	require.Equal(t, 9, sw.Entries(v.PIRL))
	got, err := p.Read(1, 0)
	require.NoError(t, err)
	require.Equal(t, zero, got)
	require.NoError(t, p.InitAll())
	require.Zero(t, sw.Entries(v.PIRL))
}

func TestConfigure(t *testing.T) {
	p, _, _ := newPIRL(t, smi.Direct())
	b, err := p.Configure(5, 3, rate.Spec{
		Rate:  1000,
		Burst: 1600,
		Count: rate.Byte,
	}, Resource{BktTypeMask: 0x7f, ColorAware: true})
	require.NoError(t, err)
	require.True(t, b.Valid)
	got, err := p.Read(5, 3)
	require.NoError(t, err)
	require.Equal(t, Resource{
		BktTypeMask:  0x7f,
		ColorAware:   true,
		BktIncrement: 500,
		CountMode:    CountL2Bytes,
		RFGreen:      1,
		CBSLimit:     800000,
		EBSLimit:     800000,
	}, got)
	achieved, c, err := p.Rate(5, 3)
	require.NoError(t, err)
	require.Equal(t, rate.Byte, c)
	require.Equal(t, 1000.0, achieved)
}

func TestUpdate(t *testing.T) {
	p, _, _ := newPIRL(t, smi.Direct())
	require.NoError(t, p.Write(5, 3, &Resource{
		BktTypeMask: 0x7f,
		CountMode:   CountL3Bytes,
		FCPriority:  3,
	}))
	done := make(chan error, 1)
	r, b, err := p.Update(5, 3, rate.Spec{Rate: 1000, Burst: 1600},
		func(r *Resource) {
			r.ActionMode = true
			// another writer waits for the whole update
			go func() { done <- p.Write(5, 3, &zero) }()
			select {
			case err := <-done:
				t.Fatalf("write within update: %v", err)
			case <-time.After(50 * time.Millisecond):
			}
		})
	require.NoError(t, err)
	require.True(t, b.Valid)
	require.Equal(t, Resource{
		BktTypeMask:  0x7f,
		ActionMode:   true,
		BktIncrement: 500,
		CountMode:    CountL3Bytes,
		RFGreen:      1,
		FCPriority:   3,
		CBSLimit:     800000,
		EBSLimit:     800000,
	}, r)
	require.NoError(t, <-done)
	got, err := p.Read(5, 3)
	require.NoError(t, err)
	require.Equal(t, zero, got)
}

func TestUpdateBadParameter(t *testing.T) {
	p, sw, _ := newPIRL(t, smi.Direct())
	_, _, err := p.Update(5, 3, rate.Spec{Rate: 1000, Burst: 100}, nil)
	require.ErrorIs(t, err, swerr.ErrBadParameter)
	_, _, err = p.Update(11, 0, rate.Spec{Rate: 1000, Burst: 1600}, nil)
	require.ErrorIs(t, err, swerr.ErrBadParameter)
	require.Zero(t, sw.Reads())
}

func TestConfigureInfeasible(t *testing.T) {
	p, sw, _ := newPIRL(t, smi.Direct())
	_, err := p.Configure(0, 0, rate.Spec{Rate: 1, Burst: 0xffffff},
		Resource{})
	require.ErrorIs(t, err, swerr.ErrInfeasible)
	_, err = p.Configure(0, 0, rate.Spec{Rate: 0, Burst: 1600},
		Resource{})
	require.ErrorIs(t, err, swerr.ErrBadParameter)
	require.Zero(t, sw.Reads())
}

func TestBadAddress(t *testing.T) {
	p, sw, _ := newPIRL(t, smi.Direct())
	require.ErrorIs(t, p.Write(11, 0, &zero), swerr.ErrBadParameter)
	require.ErrorIs(t, p.InitResource(0, 8), swerr.ErrBadParameter)
	_, err := p.Read(0, 8)
	require.ErrorIs(t, err, swerr.ErrBadParameter)
	require.Zero(t, sw.Reads())
}

func TestBusy(t *testing.T) {
	p, sw, v := newPIRL(t, smi.Direct())
	sw.Hold(v.PIRL, 1000)
	require.ErrorIs(t, p.Write(0, 0, &full), swerr.ErrBusy)
	sw.Hold(v.PIRL, 0)
	require.NoError(t, p.Write(0, 0, &full))
}
