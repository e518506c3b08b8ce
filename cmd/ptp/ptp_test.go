// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ptp

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/ptp"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/simbus"
)

func emulate(t *testing.T) {
	v, err := variant.Lookup(variant.Peridot)
	if err != nil {
		t.Fatal(err)
	}
	ops := map[indirect.Opcode]simbus.Action{
		ptp.OpWrite: simbus.Store,
		ptp.OpRead:  simbus.Load,
	}
	sw := simbus.New().Chain(0x10).Table(v.PTP, ops).Table(v.AVB, ops)
	file, open := config.File, config.OpenBus
	config.File = filepath.Join(t.TempDir(), "swreg.env")
	config.OpenBus = func(string) (config.Bus, error) { return sw, nil }
	t.Cleanup(func() { config.File, config.OpenBus = file, open })
}

func run(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	args = append([]string{"-chip", variant.Peridot, "-phy", "0x10"},
		args...)
	err := (&Command{Stdout: buf}).Main(args...)
	return buf.String(), err
}

func TestPort(t *testing.T) {
	emulate(t)
	if _, err := run("set", "3", "transSpec=1", "arrIntEn=1"); err != nil {
		t.Fatal(err)
	}
	if _, err := run("set", "3", "disPTP=1"); err != nil {
		t.Fatal(err)
	}
	s, err := run("show", "3")
	if err != nil {
		t.Fatal(err)
	}
	const want = "disPTP: true\ntransSpec: 0x1\narrIntEn: true\n"
	if s != want {
		t.Errorf("%q != %q", s, want)
	}
	if s, _ = run("show", "4"); len(s) > 0 {
		t.Error("port 4:", s)
	}
}

func TestQav(t *testing.T) {
	emulate(t)
	if _, err := run("qav", "1", "2", "rate=1000", "hiLimit=2000"); err != nil {
		t.Fatal(err)
	}
	s, err := run("qav", "1", "2")
	if err != nil {
		t.Fatal(err)
	}
	const want = "rate: 0x3e8\nhiLimit: 0x7d0\n"
	if s != want {
		t.Errorf("%q != %q", s, want)
	}
}

func TestErrors(t *testing.T) {
	emulate(t)
	for _, args := range [][]string{
		{"show", "11"},
		{"qav", "1", "8"},
		{"set", "1", "bogus=1"},
		{"set", "1", "transSpec=0x100"},
	} {
		if _, err := run(args...); !errors.Is(err, swerr.ErrBadParameter) {
			t.Errorf("%v: %v", args, err)
		}
	}
	for _, args := range [][]string{
		{},
		{"bogus"},
		{"qav", "1"},
		{"show", "1", "2"},
	} {
		if _, err := run(args...); err == nil {
			t.Errorf("%v: no error", args)
		}
	}
}
