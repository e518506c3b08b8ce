// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package quantize

import (
	"errors"
	"os"
	"testing"

	"github.com/platinasystems/swreg/external/swerr"
)

func ExampleCommand() {
	c := &Command{Stdout: os.Stdout}
	c.Main("1000", "1600")
	c.Main("-frame", "125", "1600")
	c.Main("1000", "1600", "2000", "1600")
	c.Main("-ats", "10000000", "1600")
	// Output:
	// increment 500 green 1 cbs 800000 ebs 800000 achieved 1000.000 error 0.000000
	// increment 500 green 1 cbs 800000 ebs 800000 achieved 125.000 error 0.000000
	// increment 500 green 1 yellow 2 cbs 800000 ebs 1600000 achieved 1000.000 error 0.000000
	// exponent 15 decrement 1638 cbs 1600 achieved 10002442.002 error 0.000244
}

func TestErrors(t *testing.T) {
	c := new(Command)
	for _, x := range []struct {
		args []string
		want error
	}{
		{[]string{"0", "1600"}, swerr.ErrBadParameter},
		{[]string{"1000", "100"}, swerr.ErrBadParameter},
		{[]string{"fast", "1600"}, swerr.ErrBadParameter},
		{[]string{"-ats", "-frame", "1000", "1600"}, swerr.ErrBadParameter},
		{[]string{"1", "16777215"}, swerr.ErrInfeasible},
	} {
		if err := c.Main(x.args...); !errors.Is(err, x.want) {
			t.Errorf("%v: %v", x.args, err)
		}
	}
	for _, args := range [][]string{
		{},
		{"1000"},
		{"1000", "1600", "2000"},
		{"1", "2", "3", "4", "5"},
	} {
		if err := c.Main(args...); err == nil {
			t.Errorf("%v: no error", args)
		}
	}
}
