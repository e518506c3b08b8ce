// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ats

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/platinasystems/parms"

	"github.com/platinasystems/swreg/cmd/quantize"
	"github.com/platinasystems/swreg/external/ats"
	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/rate"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/lang"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "ats" }

func (*Command) Usage() string {
	return "ats " + config.Usage + ` {
	flush [INDEX] |
	show INDEX |
	set [-group N] [-residence N] INDEX RATE BURST |
	qcr flush [INDEX] |
	qcr show INDEX |
	qcr set INDEX [FIELD=VALUE]...
}`
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "asynchronous traffic shaper and stream filters",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Flush, show or set the asynchronous traffic shaper buckets and the
	per stream filters (QCR) that feed them. Only some switches have
	these.

	"set" quantizes RATE kbps and BURST bytes into an enabled bucket of
	the scheduler group.

	"qcr set" writes a stream filter of the given fields: maxSDU,
	maxSDUEnable, atsIndex and atsEnable; those not given are zero.

OPTIONS
	-group N	scheduler group of the bucket, default 0
	-residence N	maximum residence time of the bucket, default 0` +
			config.Man,
	}
}

func (c *Command) Main(args ...string) error {
	cfg, args, err := config.Parse(args...)
	if err != nil {
		return err
	}
	parm, args := parms.New(args, "-group", "-residence")
	var group, residence uint8
	for name, p := range map[string]*uint8{
		"-group":     &group,
		"-residence": &residence,
	} {
		if s := parm.ByName[name]; len(s) > 0 {
			if *p, err = uint8Arg(s); err != nil {
				return err
			}
		}
	}
	qcr := len(args) > 0 && args[0] == "qcr"
	if qcr {
		args = args[1:]
	}
	if len(args) == 0 {
		return fmt.Errorf("{flush|show|set}: missing")
	}
	sub, args := args[0], args[1:]
	indexed := len(args) > 0
	switch sub {
	case "flush":
		if len(args) > 1 {
			return fmt.Errorf("%v: unexpected", args[1:])
		}
	case "show", "set":
		if !indexed {
			return fmt.Errorf("INDEX: missing")
		}
		if sub == "show" && len(args) > 1 {
			return fmt.Errorf("%v: unexpected", args[1:])
		}
	default:
		return fmt.Errorf("%s: unknown", sub)
	}
	var index uint16
	if indexed {
		u, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			return swerr.Errorf(swerr.ErrBadParameter, "%s: %v",
				args[0], err)
		}
		index = uint16(u)
		args = args[1:]
	}
	var spec rate.Spec
	if sub == "set" && !qcr {
		if spec, err = quantize.Spec(false, args...); err != nil {
			return err
		}
		if len(args) > 2 {
			return fmt.Errorf("%v: unexpected", args[2:])
		}
	}
	dev, err := cfg.Device()
	if err != nil {
		return err
	}
	defer cfg.Close()
	a, err := ats.New(dev, cfg.Variant)
	if err != nil {
		return err
	}
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	switch {
	case qcr && sub == "flush" && indexed:
		return a.QCRFlush(index)
	case qcr && sub == "flush":
		return a.QCRFlushAll()
	case qcr && sub == "show":
		e, err := a.QCRRead(index)
		if err != nil {
			return err
		}
		_, err = codec.Fprint(w, &e)
		return err
	case qcr:
		var e ats.QCREntry
		for _, field := range args {
			if err = set(&e, field); err != nil {
				return err
			}
		}
		return a.QCRWrite(index, &e)
	case sub == "flush" && indexed:
		return a.Flush(index)
	case sub == "flush":
		return a.FlushAll()
	case sub == "show":
		e, err := a.Read(index)
		if err != nil {
			return err
		}
		if _, err = codec.Fprint(w, &e); err != nil {
			return err
		}
		if e.Decrement == 0 {
			return nil
		}
		r, err := a.Rate(index)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "rate: %.3f kbps\n", r)
		return err
	}
	b, err := a.Configure(index, spec, group, residence)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, b)
	return err
}

func set(v interface{}, field string) error {
	eq := strings.Index(field, "=")
	if eq <= 0 {
		return fmt.Errorf("%s: not FIELD=VALUE", field)
	}
	x, err := strconv.ParseUint(field[eq+1:], 0, 64)
	if err != nil {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: %v", field, err)
	}
	found, err := codec.Set(v, field[:eq], x)
	if err == nil && !found {
		err = swerr.Errorf(swerr.ErrBadParameter, "%s: unknown",
			field[:eq])
	}
	return err
}

func uint8Arg(s string) (uint8, error) {
	u, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, swerr.Errorf(swerr.ErrBadParameter, "%s: %v", s, err)
	}
	return uint8(u), nil
}
