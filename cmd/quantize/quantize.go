// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package quantize

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/flags"

	"github.com/platinasystems/swreg/external/rate"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/internal/lang"
)

type Command struct {
	// Stdout, if nil, is os.Stdout
	Stdout io.Writer
}

func (*Command) String() string { return "quantize" }

func (*Command) Usage() string {
	return "quantize [-frame | -ats] RATE BURST [EXCESS-RATE EXCESS-BURST]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print the bucket parameters of a rate limit",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the ingress rate limiter bucket that best approximates RATE
	kbps and BURST bytes; or, with -frame, RATE thousand frames per
	second. The optional EXCESS-RATE and EXCESS-BURST make a two rate
	bucket.

	With -ats, print the asynchronous traffic shaper exponent and
	decrement of RATE kbps instead.

	This doesn't access the switch.

OPTIONS
	-frame	count frames rather than bytes
	-ats	quantize an asynchronous traffic shaper rate

EXAMPLES
	quantize 1000 16000
	quantize -frame 125 1600
	quantize 1000 16000 2000 16000
	quantize -ats 100000 3000`,
	}
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-frame", "-ats")
	spec, err := Spec(flag.ByName["-frame"], args...)
	if err != nil {
		return err
	}
	var b rate.Bucket
	if flag.ByName["-ats"] {
		if spec.Count == rate.Frame || spec.ExcessRate > 0 {
			return swerr.Errorf(swerr.ErrBadParameter,
				"-ats is a byte rate without excess")
		}
		b, err = rate.QuantizeATS(spec)
	} else {
		b, err = rate.QuantizePIRL(spec)
	}
	if err != nil {
		return err
	}
	w := c.Stdout
	if w == nil {
		w = os.Stdout
	}
	_, err = fmt.Fprintln(w, b)
	return err
}

// Spec of RATE BURST [EXCESS-RATE EXCESS-BURST] arguments.
func Spec(frame bool, args ...string) (rate.Spec, error) {
	var spec rate.Spec
	if frame {
		spec.Count = rate.Frame
	}
	switch len(args) {
	case 0:
		return spec, fmt.Errorf("RATE: missing")
	case 1:
		return spec, fmt.Errorf("BURST: missing")
	case 2, 4:
	case 3:
		return spec, fmt.Errorf("EXCESS-BURST: missing")
	default:
		return spec, fmt.Errorf("%v: unexpected", args[4:])
	}
	p := []*uint32{&spec.Rate, &spec.Burst, &spec.ExcessRate,
		&spec.ExcessBurst}
	for i, s := range args {
		u, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return spec, swerr.Errorf(swerr.ErrBadParameter,
				"%s: %v", s, err)
		}
		*p[i] = uint32(u)
	}
	return spec, nil
}
