// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ptp

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/ptp"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/lang"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "ptp" }

func (*Command) Usage() string {
	return "ptp " + config.Usage + ` {
	show PORT |
	set PORT [FIELD=VALUE]... |
	qav PORT QUEUE [FIELD=VALUE]...
}`
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "port time stamping and queue shaper configuration",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	"show" prints the non-zero precision time protocol fields of the
	port.

	"set" changes the given fields of the port's configuration, e.g.
		ptp set 3 transSpec=1 arrIntEn=1

	"qav" prints, or changes the given rate and hiLimit fields of, the
	credit based shaper of a port queue.

OPTIONS` + config.Man,
	}
}

func (c *Command) Main(args ...string) error {
	cfg, args, err := config.Parse(args...)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("{show|set|qav}: missing")
	}
	sub, args := args[0], args[1:]
	n := 1
	switch sub {
	case "show", "set":
	case "qav":
		n = 2
	default:
		return fmt.Errorf("%s: unknown", sub)
	}
	if len(args) < n {
		return fmt.Errorf("PORT: missing")
	}
	var port, queue uint8
	for i, p := range []*uint8{&port, &queue}[:n] {
		u, err := strconv.ParseUint(args[i], 0, 8)
		if err != nil {
			return swerr.Errorf(swerr.ErrBadParameter, "%s: %v",
				args[i], err)
		}
		*p = uint8(u)
	}
	args = args[n:]
	if sub == "show" && len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	dev, err := cfg.Device()
	if err != nil {
		return err
	}
	defer cfg.Close()
	p := ptp.New(dev, cfg.Variant)
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	if sub == "qav" {
		q, err := p.Qav(port, queue)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			_, err = codec.Fprint(w, &q)
			return err
		}
		if err = set(&q, args...); err != nil {
			return err
		}
		return p.SetQav(port, queue, &q)
	}
	pc, err := p.PortConfig(port)
	if err != nil {
		return err
	}
	if sub == "show" {
		_, err = codec.Fprint(w, &pc)
		return err
	}
	if err = set(&pc, args...); err != nil {
		return err
	}
	return p.SetPortConfig(port, &pc)
}

func set(v interface{}, fields ...string) error {
	for _, field := range fields {
		eq := strings.Index(field, "=")
		if eq <= 0 {
			return fmt.Errorf("%s: not FIELD=VALUE", field)
		}
		x, err := strconv.ParseUint(field[eq+1:], 0, 64)
		if err != nil {
			return swerr.Errorf(swerr.ErrBadParameter, "%s: %v",
				field, err)
		}
		found, err := codec.Set(v, field[:eq], x)
		if err != nil {
			return err
		}
		if !found {
			return swerr.Errorf(swerr.ErrBadParameter, "%s: unknown",
				field[:eq])
		}
	}
	return nil
}
