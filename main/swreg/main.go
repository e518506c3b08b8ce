// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Swreg reads and programs the indirect tables of SMI managed switches.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/swreg/cmd/ats"
	"github.com/platinasystems/swreg/cmd/config"
	"github.com/platinasystems/swreg/cmd/pirl"
	"github.com/platinasystems/swreg/cmd/ptp"
	"github.com/platinasystems/swreg/cmd/quantize"
	"github.com/platinasystems/swreg/cmd/rmon"
	"github.com/platinasystems/swreg/cmd/tcam"
	"github.com/platinasystems/swreg/internal/goes"
)

func Goes() goes.ByName {
	g := make(goes.ByName)
	g.Plot(
		new(ats.Command),
		new(config.Command),
		new(pirl.Command),
		new(ptp.Command),
		new(quantize.Command),
		new(rmon.Command),
		new(tcam.Command),
	)
	return g
}

func main() {
	if err := Goes().Main(os.Args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
