// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ats

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/swreg/external/ats"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/simbus"
)

var ops = map[indirect.Opcode]simbus.Action{
	ats.OpFlushAll:   simbus.FlushAll,
	ats.OpFlushEntry: simbus.FlushEntry,
	ats.OpWrite:      simbus.Store,
	ats.OpRead:       simbus.Load,
}

func emulate(t *testing.T) (*simbus.Switch, *variant.Variant) {
	t.Helper()
	v, err := variant.Lookup(variant.Amethyst)
	require.NoError(t, err)
	sw := simbus.New().Table(v.ATS, ops).Table(v.QCR, ops)
	sw.Latency = 1
	file, open := config.File, config.OpenBus
	config.File = filepath.Join(t.TempDir(), "swreg.env")
	config.OpenBus = func(string) (config.Bus, error) { return sw, nil }
	t.Cleanup(func() { config.File, config.OpenBus = file, open })
	return sw, v
}

func run(t *testing.T, chip string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	args = append([]string{"-chip", chip}, args...)
	err := (&Command{Stdout: buf}).Main(args...)
	return buf.String(), err
}

func TestSetShow(t *testing.T) {
	sw, v := emulate(t)
	s, err := run(t, variant.Amethyst, "set", "-group", "2",
		"-residence", "10", "5", "1000000", "3000")
	require.NoError(t, err)
	assert.Equal(t, "exponent 15 decrement 16384 cbs 3000 "+
		"achieved 1000000.000 error 0.000000\n", s)

	s, err = run(t, variant.Amethyst, "show", "5")
	require.NoError(t, err)
	assert.Equal(t, `decrement: 0x4000
exponent: 0xf
group: 0x2
enable: true
cbsLimit: 0xbb8
maxResidence: 0xa
rate: 1000000.000 kbps
`, s)

	_, err = run(t, variant.Amethyst, "flush", "5")
	require.NoError(t, err)
	assert.Zero(t, sw.Entries(v.ATS))
}

func TestQCR(t *testing.T) {
	sw, v := emulate(t)
	_, err := run(t, variant.Amethyst, "qcr", "set", "255", "maxSDU=1522",
		"maxSDUEnable=1", "atsIndex=5", "atsEnable=1")
	require.NoError(t, err)
	s, err := run(t, variant.Amethyst, "qcr", "show", "255")
	require.NoError(t, err)
	assert.Equal(t, `maxSDU: 0x5f2
maxSDUEnable: true
atsIndex: 0x5
atsEnable: true
`, s)
	_, err = run(t, variant.Amethyst, "qcr", "flush")
	require.NoError(t, err)
	assert.Zero(t, sw.Entries(v.QCR))
}

func TestErrors(t *testing.T) {
	emulate(t)
	for _, args := range [][]string{
		{},
		{"bogus"},
		{"show"},
		{"set", "1", "1000"},
		{"set", "1", "1000", "3000", "2000", "3000"},
		{"qcr", "set", "1", "maxSDU"},
	} {
		_, err := run(t, variant.Amethyst, args...)
		assert.Error(t, err, "%v", args)
	}
	for _, args := range [][]string{
		{"show", "64"},
		{"set", "1", "7", "3000"},
		{"set", "-group", "256", "1", "1000", "3000"},
		{"qcr", "set", "1", "bogus=1"},
		{"qcr", "set", "1", "atsIndex=64"},
	} {
		_, err := run(t, variant.Amethyst, args...)
		assert.ErrorIs(t, err, swerr.ErrBadParameter, "%v", args)
	}
	_, err := run(t, variant.Peridot, "flush")
	assert.ErrorIs(t, err, swerr.ErrBadParameter)
}
