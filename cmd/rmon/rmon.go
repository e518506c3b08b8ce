// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rmon

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"

	"github.com/platinasystems/swreg/external/rmon"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/lang"
	"github.com/platinasystems/swreg/internal/publish"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "rmon" }

func (*Command) Usage() string {
	return "rmon " + config.Usage +
		" [-flush] [-publish] [-histogram rx|tx|rx-tx] [PORT]..."
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print or publish switch port counters",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Capture and print the counters of the given, or every, switch port.
	On a terminal, each port is a table of non-zero counters; otherwise
	each counter is a "PORT.NAME: VALUE" line.

OPTIONS
	-flush	clear, rather than print, the counters
	-publish
		copy the counters to the IFACE.PORT.HISTOGRAM hashes of the
		-redis server
	-histogram rx|tx|rx-tx
		frames counted by the size bins, default rx-tx` + config.Man,
	}
}

func (c *Command) Main(args ...string) error {
	cfg, args, err := config.Parse(args...)
	if err != nil {
		return err
	}
	flag, args := flags.New(args, "-flush", "-publish")
	parm, args := parms.New(args, "-histogram")
	h := rmon.RxTxHistogram
	if s := parm.ByName["-histogram"]; len(s) > 0 {
		if h, err = rmon.ParseHistogram(s); err != nil {
			return err
		}
	}
	ports := make([]uint8, 0, len(args))
	for _, s := range args {
		u, err := strconv.ParseUint(s, 0, 8)
		if err != nil {
			return swerr.Errorf(swerr.ErrBadParameter, "%s: %v",
				s, err)
		}
		ports = append(ports, uint8(u))
	}
	var pub *publish.Publisher
	if flag.ByName["-publish"] {
		if len(cfg.Redis) == 0 {
			return fmt.Errorf("-redis: missing")
		}
		if pub, err = publish.Dial(cfg.Redis, cfg.Iface); err != nil {
			return err
		}
		defer pub.Close()
	}
	dev, err := cfg.Device()
	if err != nil {
		return err
	}
	defer cfg.Close()
	stats := rmon.New(dev, cfg.Variant)
	if len(ports) == 0 {
		for port := 0; port < stats.Ports(); port++ {
			ports = append(ports, uint8(port))
		}
	}
	if flag.ByName["-flush"] {
		if len(args) == 0 {
			return stats.FlushAll()
		}
		for _, port := range ports {
			if err = stats.FlushPort(port); err != nil {
				return err
			}
		}
		return nil
	}
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	for _, port := range ports {
		values, err := stats.Read(port, h)
		if err != nil {
			return err
		}
		if pub != nil {
			if err = pub.Publish(port, h, values); err != nil {
				return err
			}
			continue
		}
		if tty {
			err = table(w, port, h, values)
		} else {
			err = lines(w, port, values)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func table(w io.Writer, port uint8, h rmon.Histogram,
	values []rmon.Value) error {
	if _, err := fmt.Fprintf(w, "port %d (%s):\n", port, h); err != nil {
		return err
	}
	for _, v := range values {
		if v.Value == 0 {
			continue
		}
		_, err := fmt.Fprintf(w, "    %-24s%12d\n", v.Name, v.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func lines(w io.Writer, port uint8, values []rmon.Value) error {
	for _, v := range values {
		_, err := fmt.Fprintf(w, "%d.%s: %d\n", port, v.Name, v.Value)
		if err != nil {
			return err
		}
	}
	return nil
}
