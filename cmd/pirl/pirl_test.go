// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pirl

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/pirl"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/simbus"
)

func emulate(t *testing.T) (*simbus.Switch, *variant.Variant) {
	t.Helper()
	v, err := variant.Lookup(variant.Peridot)
	require.NoError(t, err)
	sw := simbus.New().Table(v.PIRL, map[indirect.Opcode]simbus.Action{
		pirl.OpInitAll:      simbus.FlushAll,
		pirl.OpInitResource: simbus.FlushEntry,
		pirl.OpWrite:        simbus.Store,
		pirl.OpRead:         simbus.Load,
	})
	sw.Latency = 1
	file, open := config.File, config.OpenBus
	config.File = filepath.Join(t.TempDir(), "swreg.env")
	config.OpenBus = func(string) (config.Bus, error) { return sw, nil }
	t.Cleanup(func() { config.File, config.OpenBus = file, open })
	return sw, v
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	args = append([]string{"-chip", variant.Peridot}, args...)
	err := (&Command{Stdout: buf}).Main(args...)
	return buf.String(), err
}

func TestSetShow(t *testing.T) {
	sw, v := emulate(t)
	s, err := run(t, "set", "-drop", "2", "1", "1000", "1600")
	require.NoError(t, err)
	assert.Equal(t, "increment 500 green 1 cbs 800000 ebs 800000 "+
		"achieved 1000.000 error 0.000000\n", s)
	assert.NotZero(t, sw.Entries(v.PIRL))

	s, err = run(t, "show", "2", "1")
	require.NoError(t, err)
	assert.Equal(t, `bktIncrement: 0x1f4
countMode: 0x2
actionMode: true
rfGreen: 0x1
cbsLimit: 0xc3500
ebsLimit: 0xc3500
rate: 1000.000 kbps
`, s)

	_, err = run(t, "init", "2", "1")
	require.NoError(t, err)
	s, err = run(t, "show", "2", "1")
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestInitAll(t *testing.T) {
	sw, v := emulate(t)
	_, err := run(t, "set", "-frame", "0", "0", "125", "1600")
	require.NoError(t, err)
	_, err = run(t, "set", "3", "4", "1000", "1600")
	require.NoError(t, err)
	_, err = run(t, "init")
	require.NoError(t, err)
	assert.Zero(t, sw.Entries(v.PIRL))
}

func TestArgs(t *testing.T) {
	emulate(t)
	for _, args := range [][]string{
		{},
		{"bogus"},
		{"show"},
		{"show", "1"},
		{"show", "1", "2", "3"},
		{"set", "1", "2"},
	} {
		_, err := run(t, args...)
		assert.Error(t, err, "%v", args)
	}
	for _, args := range [][]string{
		{"show", "11", "0"},
		{"show", "0x100", "0"},
		{"set", "1", "2", "0", "1600"},
	} {
		_, err := run(t, args...)
		assert.ErrorIs(t, err, swerr.ErrBadParameter, "%v", args)
	}
}
