// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package rate

import "github.com/platinasystems/swreg/external/swerr"

const (
	// PIRLConstant is the bucket update rate, in bps, of byte counting;
	// frame counting uses an eighth of it.
	PIRLConstant = 500000000

	MaxIncrement  = 0x1fff
	MaxRateFactor = 0xffff
	MaxLimit      = 0xffffff
	MinBurst      = 1600
)

func pirlConstant(c Count) uint64 {
	if c == Frame {
		return PIRLConstant / 8
	}
	return PIRLConstant
}

// rateFactor rounds rate*1000*j/k to the nearest integer.
func rateFactor(rate uint32, j uint32, k uint64) uint64 {
	return (uint64(rate)*1000*uint64(j) + k/2) / k
}

// limit returns j*burst in 32 bits and whether it's a usable bucket limit.
func limit(j, burst uint32) (uint32, bool) {
	cbs := j * burst
	if cbs/j < burst || uint64(cbs)+1 > MaxLimit {
		return cbs, false
	}
	return cbs, true
}

// QuantizePIRL searches bucket increments for the rate factor nearest the
// Spec rate. Of equally near candidates, the smallest increment wins; an
// exact match ends the search.
func QuantizePIRL(s Spec) (Bucket, error) {
	var b Bucket
	if s.Rate == 0 {
		return b, swerr.Errorf(swerr.ErrBadParameter, "zero rate")
	}
	if s.Burst < MinBurst {
		return b, swerr.Errorf(swerr.ErrBadParameter,
			"burst %d < %d", s.Burst, MinBurst)
	}
	if s.Count > Frame {
		return b, swerr.Errorf(swerr.ErrBadParameter, "%s", s.Count)
	}
	k := pirlConstant(s.Count)
	target := float64(s.Rate) * 1000
	for j := uint32(1); j < MaxIncrement; j++ {
		cbs, ok := limit(j, s.Burst)
		if !ok {
			continue
		}
		rf := rateFactor(s.Rate, j, k)
		if rf == 0 || rf > MaxRateFactor {
			continue
		}
		achieved := float64(k) * float64(rf) / float64(j)
		e := relErr(target, achieved)
		if b.Valid && e >= b.Error {
			continue
		}
		b = Bucket{
			Increment:       uint16(j),
			RateFactorGreen: uint16(rf),
			CBSLimit:        cbs,
			Achieved:        achieved / 1000,
			Error:           e,
			Valid:           true,
		}
		if k*rf == uint64(s.Rate)*1000*uint64(j) {
			b.Error = 0
			break
		}
	}
	if !b.Valid {
		return b, swerr.Errorf(swerr.ErrInfeasible, "pirl %s", s)
	}
	return b, excess(&b, s, k)
}

// excess sets the yellow rate factor and excess burst limit with the
// increment chosen for the committed rate.
func excess(b *Bucket, s Spec, k uint64) error {
	j := uint32(b.Increment)
	if s.ExcessRate > 0 {
		rf := rateFactor(s.ExcessRate, j, k)
		if rf == 0 || rf > MaxRateFactor {
			b.Valid = false
			return swerr.Errorf(swerr.ErrInfeasible,
				"pirl %s: excess rate with increment %d", s, j)
		}
		b.RateFactorYellow = uint16(rf)
	}
	burst := s.Burst + s.ExcessBurst
	ebs, ok := limit(j, burst)
	if burst < s.Burst || !ok {
		b.Valid = false
		return swerr.Errorf(swerr.ErrInfeasible,
			"pirl %s: excess burst with increment %d", s, j)
	}
	b.EBSLimit = ebs
	return nil
}

// PIRLRate is the rate, in Spec units, of the bucket's green rate factor.
func PIRLRate(b Bucket, c Count) (float64, error) {
	return pirlRate(b.RateFactorGreen, b.Increment, c)
}

// PIRLExcessRate is the rate, in Spec units, of the yellow rate factor.
func PIRLExcessRate(b Bucket, c Count) (float64, error) {
	return pirlRate(b.RateFactorYellow, b.Increment, c)
}

func pirlRate(rf, j uint16, c Count) (float64, error) {
	if j == 0 || j >= MaxIncrement {
		return 0, swerr.Errorf(swerr.ErrBadParameter,
			"bucket increment %d", j)
	}
	return float64(pirlConstant(c)) * float64(rf) / float64(j) / 1000,
		nil
}
