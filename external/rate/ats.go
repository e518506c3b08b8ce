// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rate

import "github.com/platinasystems/swreg/external/swerr"

const (
	ATSTimeInterval = 16
	ATSTimeFactor   = 8000000 / ATSTimeInterval

	ATSMinRate     = 8
	ATSMaxRate     = 10000000
	ATSMaxExponent = 15

	// bound of ten times the bucket decrement
	atsMaxDec10 = 655350
)

// QuantizeATS returns the largest time scale exponent whose bucket
// decrement is in range. Rate is in kbps.
func QuantizeATS(s Spec) (Bucket, error) {
	var b Bucket
	if s.Rate < ATSMinRate || s.Rate > ATSMaxRate {
		return b, swerr.Errorf(swerr.ErrBadParameter,
			"ats rate %d kbps outside [%d, %d]", s.Rate, ATSMinRate,
			ATSMaxRate)
	}
	if s.Burst > MaxLimit {
		return b, swerr.Errorf(swerr.ErrBadParameter,
			"ats burst %d > %d", s.Burst, MaxLimit)
	}
	for e := ATSMaxExponent; e >= 0; e-- {
		x := uint64(ATSTimeFactor) << uint(e) * 10 / uint64(s.Rate)
		if x == 0 || x >= atsMaxDec10 {
			continue
		}
		dec := (x + 5) / 10
		if dec == 0 {
			continue
		}
		b = Bucket{
			Exponent:  uint8(e),
			Decrement: uint16(dec),
			CBSLimit:  s.Burst,
			Valid:     true,
		}
		b.Achieved, _ = ATSRate(b)
		b.Error = relErr(float64(s.Rate), b.Achieved)
		return b, nil
	}
	return b, swerr.Errorf(swerr.ErrInfeasible, "ats %s", s)
}

// ATSRate is the rate, in kbps, of the bucket's exponent and decrement.
func ATSRate(b Bucket) (float64, error) {
	if b.Decrement == 0 || b.Exponent > ATSMaxExponent {
		return 0, swerr.Errorf(swerr.ErrBadParameter,
			"ats exponent %d decrement %d", b.Exponent, b.Decrement)
	}
	return float64(uint64(ATSTimeFactor)<<b.Exponent) /
		float64(b.Decrement), nil
}
