// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package tcam

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/tcam"
	"github.com/platinasystems/swreg/internal/config"
	"github.com/platinasystems/swreg/internal/lang"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "tcam" }

func (*Command) Usage() string {
	return "tcam " + config.Usage + ` [rc] {
	flush [INDEX] |
	show [INDEX] |
	load INDEX [FIELD=VALUE]...
}`
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "frame classification and range check entries",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Flush, show or load the entries of the switch's TCAM; or, with
	"rc", its range check table.

	"flush" invalidates the given, or every, entry.

	"show" prints the non-zero key and action fields of the given, or
	every valid, entry.

	"load" writes an entry of the given key and action fields; those
	not given are zero. Array fields are indexed, e.g. octet[12].

EXAMPLES
	tcam load 3 frameType=0 octet[12]=0x88 mask[12]=0xff \
		octet[13]=0xf7 mask[13]=0xff qpriOverride=1 qpriData=7
	tcam rc load 0 low[0]=100 high[0]=200 select[0]=1

OPTIONS` + config.Man,
	}
}

// entry is either a TCAM or range check entry.
type entry struct {
	key, action interface{}
}

func (e entry) set(field string) error {
	eq := strings.Index(field, "=")
	if eq <= 0 {
		return fmt.Errorf("%s: not FIELD=VALUE", field)
	}
	name := field[:eq]
	x, err := strconv.ParseUint(field[eq+1:], 0, 64)
	if err != nil {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: %v", field, err)
	}
	for _, v := range []interface{}{e.key, e.action} {
		found, err := codec.Set(v, name, x)
		if found || err != nil {
			return err
		}
	}
	return swerr.Errorf(swerr.ErrBadParameter, "%s: unknown", name)
}

func (e entry) fprint(w io.Writer, i uint16) error {
	if _, err := fmt.Fprintf(w, "%d:\n", i); err != nil {
		return err
	}
	for _, v := range []interface{}{e.key, e.action} {
		if _, err := codec.Fprint(w, v); err != nil {
			return err
		}
	}
	return nil
}

// table is the common subset of the TCAM and range check methods.
type table struct {
	flushAll func() error
	flush    func(uint16) error
	load     func(uint16) error
	read     func(uint16) error
	walk     func(func(uint16) error) error
	entry    entry
}

func newTable(t *tcam.TCAM, rc bool) *table {
	if rc {
		e := new(tcam.RCEntry)
		return &table{
			flushAll: t.RCFlushAll,
			flush:    t.RCFlush,
			load:     func(i uint16) error { return t.RCLoad(i, e) },
			read: func(i uint16) (err error) {
				*e, err = t.RCRead(i)
				return
			},
			walk: func(fn func(uint16) error) error {
				return t.RCWalk(func(i uint16, x *tcam.RCEntry) error {
					*e = *x
					return fn(i)
				})
			},
			entry: entry{&e.Key, &e.Action},
		}
	}
	e := new(tcam.Entry)
	return &table{
		flushAll: t.FlushAll,
		flush:    t.Flush,
		load:     func(i uint16) error { return t.Load(i, e) },
		read: func(i uint16) (err error) {
			*e, err = t.Read(i)
			return
		},
		walk: func(fn func(uint16) error) error {
			return t.Walk(func(i uint16, x *tcam.Entry) error {
				*e = *x
				return fn(i)
			})
		},
		entry: entry{&e.Key, &e.Action},
	}
}

func (c *Command) Main(args ...string) error {
	cfg, args, err := config.Parse(args...)
	if err != nil {
		return err
	}
	rc := len(args) > 0 && args[0] == "rc"
	if rc {
		args = args[1:]
	}
	if len(args) == 0 {
		return fmt.Errorf("{flush|show|load}: missing")
	}
	sub, args := args[0], args[1:]
	var index uint16
	indexed := len(args) > 0
	switch sub {
	case "flush", "show":
		if len(args) > 1 {
			return fmt.Errorf("%v: unexpected", args[1:])
		}
	case "load":
		if !indexed {
			return fmt.Errorf("INDEX: missing")
		}
	default:
		return fmt.Errorf("%s: unknown", sub)
	}
	if indexed {
		u, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			return swerr.Errorf(swerr.ErrBadParameter, "%s: %v",
				args[0], err)
		}
		index = uint16(u)
		args = args[1:]
	}
	dev, err := cfg.Device()
	if err != nil {
		return err
	}
	defer cfg.Close()
	t := newTable(tcam.New(dev, cfg.Variant), rc)
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	switch {
	case sub == "flush" && indexed:
		return t.flush(index)
	case sub == "flush":
		return t.flushAll()
	case sub == "show" && indexed:
		if err = t.read(index); err != nil {
			return err
		}
		return t.entry.fprint(w, index)
	case sub == "show":
		return t.walk(func(i uint16) error {
			return t.entry.fprint(w, i)
		})
	}
	for _, field := range args {
		if err = t.entry.set(field); err != nil {
			return err
		}
	}
	return t.load(index)
}
