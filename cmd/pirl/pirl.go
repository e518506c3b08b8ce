// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pirl

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/flags"

	"github.com/platinasystems/swreg/cmd/quantize"
	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/pirl"
	"github.com/platinasystems/swreg/external/rate"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/lang"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "pirl" }

func (*Command) Usage() string {
	return "pirl " + config.Usage + ` {
	init [PORT RESOURCE] |
	show PORT RESOURCE |
	set [-frame] [-drop] PORT RESOURCE RATE BURST [EXCESS-RATE EXCESS-BURST]
}`
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "port ingress rate limiter resources",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Initialize, show or set the ingress rate limiter resources of the
	switch ports.

	"init" clears every resource of every port, or just the given one.

	"show" prints the non-zero fields of a resource and its rate.

	"set" quantizes RATE kbps, or with -frame thousand frames per
	second, and BURST bytes into the resource's bucket. Frames over the
	limit are flow controlled unless -drop.

OPTIONS
	-frame	count frames rather than bytes
	-drop	drop, rather than flow control, frames over the limit` +
			config.Man,
	}
}

func (c *Command) Main(args ...string) error {
	cfg, args, err := config.Parse(args...)
	if err != nil {
		return err
	}
	flag, args := flags.New(args, "-frame", "-drop")
	if len(args) == 0 {
		return fmt.Errorf("{init|show|set}: missing")
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "init", "show", "set":
	default:
		return fmt.Errorf("%s: unknown", sub)
	}
	all := sub == "init" && len(args) == 0
	var port, res uint8
	if !all {
		if len(args) < 2 {
			return fmt.Errorf("PORT RESOURCE: missing")
		}
		if port, err = uint8Arg(args[0]); err != nil {
			return err
		}
		if res, err = uint8Arg(args[1]); err != nil {
			return err
		}
		args = args[2:]
	}
	if sub != "set" && len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	dev, err := cfg.Device()
	if err != nil {
		return err
	}
	defer cfg.Close()
	p := pirl.New(dev, cfg.Variant)
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	switch {
	case all:
		return p.InitAll()
	case sub == "init":
		return p.InitResource(port, res)
	case sub == "show":
		return show(w, p, port, res)
	}
	spec, err := quantize.Spec(flag.ByName["-frame"], args...)
	if err != nil {
		return err
	}
	drop := flag.ByName["-drop"]
	_, b, err := p.Update(port, res, spec, func(r *pirl.Resource) {
		r.ActionMode = drop
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, b)
	return err
}

func show(w io.Writer, p *pirl.PIRL, port, res uint8) error {
	r, err := p.Read(port, res)
	if err != nil {
		return err
	}
	if _, err = codec.Fprint(w, &r); err != nil {
		return err
	}
	if r.BktIncrement == 0 {
		return nil
	}
	achieved, count, err := p.Rate(port, res)
	if err != nil {
		return err
	}
	unit := "kbps"
	if count == rate.Frame {
		unit = "kfps"
	}
	_, err = fmt.Fprintf(w, "rate: %.3f %s\n", achieved, unit)
	return err
}

func uint8Arg(s string) (uint8, error) {
	u, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, swerr.Errorf(swerr.ErrBadParameter, "%s: %v", s, err)
	}
	return uint8(u), nil
}
