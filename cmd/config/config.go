// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/lang"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "config" }

func (*Command) Usage() string { return "config " + config.Usage }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print the switch selection",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the interface, switch variant, addressing mode and busy poll
	budget that the other commands would use with these parameters.

OPTIONS` + config.Man,
	}
}

func (c *Command) Main(args ...string) error {
	cfg, args, err := config.Parse(args...)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	_, err = fmt.Fprint(w, cfg)
	return err
}
