// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package rate maps a target rate and burst to the nearest token bucket
// parameters the switch can hold, and back.
package rate

import (
	"fmt"
	"math"

	"github.com/platinasystems/swreg/external/swerr"
)

type Count uint8

const (
	// Byte counts every frame byte; Rate is in kbps.
	Byte Count = iota
	// Frame counts frames; Rate is in thousands of frames per second.
	Frame
)

func (c Count) String() string {
	switch c {
	case Byte:
		return "byte"
	case Frame:
		return "frame"
	}
	return fmt.Sprint("count(", uint8(c), ")")
}

func ParseCount(s string) (Count, error) {
	switch s {
	case "byte", "bytes", "":
		return Byte, nil
	case "frame", "frames":
		return Frame, nil
	}
	return Byte, swerr.Errorf(swerr.ErrBadParameter,
		"%q isn't byte or frame", s)
}

// Spec is an operator's rate limit.
type Spec struct {
	Rate  uint32
	Burst uint32 // bytes
	Count Count

	// Optional excess (yellow) rate and burst of a two rate PIRL.
	ExcessRate  uint32
	ExcessBurst uint32
}

func (s Spec) String() string {
	unit := "kbps"
	if s.Count == Frame {
		unit = "kfps"
	}
	str := fmt.Sprint(s.Rate, " ", unit, " burst ", s.Burst)
	if s.ExcessRate > 0 {
		str += fmt.Sprint(" excess ", s.ExcessRate, " ", unit,
			" burst ", s.ExcessBurst)
	}
	return str
}

// Bucket is the hardware representation of a Spec. PIRL sets Increment,
// the rate factors and limits; ATS sets Exponent, Decrement and CBSLimit.
type Bucket struct {
	Increment        uint16
	RateFactorGreen  uint16
	RateFactorYellow uint16
	CBSLimit         uint32
	EBSLimit         uint32

	Exponent  uint8
	Decrement uint16

	// Achieved is the rate of the bucket in Spec units; Error is
	// |Rate - Achieved| / Rate.
	Achieved float64
	Error    float64

	// Valid is false if no parameters within the hardware limits exist.
	Valid bool
}

func (b Bucket) String() string {
	if !b.Valid {
		return "infeasible"
	}
	if b.Decrement > 0 {
		return fmt.Sprintf("exponent %d decrement %d cbs %d "+
			"achieved %.3f error %.6f", b.Exponent, b.Decrement,
			b.CBSLimit, b.Achieved, b.Error)
	}
	s := fmt.Sprintf("increment %d green %d", b.Increment,
		b.RateFactorGreen)
	if b.RateFactorYellow > 0 {
		s += fmt.Sprintf(" yellow %d", b.RateFactorYellow)
	}
	return s + fmt.Sprintf(" cbs %d ebs %d achieved %.3f error %.6f",
		b.CBSLimit, b.EBSLimit, b.Achieved, b.Error)
}

func relErr(target, achieved float64) float64 {
	return math.Abs(target-achieved) / target
}
