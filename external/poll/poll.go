// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package poll bounds the busy-bit waits of register handshakes.
package poll

import (
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/swreg/external/swerr"
)

// DefaultAttempts is the budget of a zero Policy. There is no authoritative
// hardware timing for these handshakes so this is a knob, not a timeout.
const DefaultAttempts = 100

// Policy is the attempt budget of every busy wait.
type Policy struct {
	// Attempts is the maximum number of busy bit reads per wait.
	Attempts int

	// Interval is the pause after the first busy read; zero spins.
	Interval time.Duration

	// MaxInterval caps the doubling pause; zero holds Interval constant.
	MaxInterval time.Duration
}

func (p Policy) attempts() int {
	if p.Attempts <= 0 {
		return DefaultAttempts
	}
	return p.Attempts
}

func (p Policy) String() string {
	s := fmt.Sprint(p.attempts(), " attempts")
	if p.Interval > 0 {
		s += fmt.Sprint(" every ", p.Interval)
		if p.MaxInterval > p.Interval {
			s += fmt.Sprint(" upto ", p.MaxInterval)
		}
	}
	return s
}

// Wait calls ready until it returns true, returns an error, or the budget is
// spent. The budget is counted in calls of ready, so with Attempts N, a
// ready that first succeeds on its Nth call succeeds and one that would
// succeed on its N+1th call fails with swerr.ErrBusy.
func (p Policy) Wait(what string, ready func() (bool, error)) error {
	var b *backoff.Backoff
	if p.Interval > 0 {
		max := p.MaxInterval
		if max < p.Interval {
			max = p.Interval
		}
		b = &backoff.Backoff{
			Min:    p.Interval,
			Max:    max,
			Factor: 2,
		}
	}
	n := p.attempts()
	for i := 0; i < n; i++ {
		ok, err := ready()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if b != nil && i < n-1 {
			time.Sleep(b.Duration())
		}
	}
	return fmt.Errorf("%s: %w after %d polls", what, swerr.ErrBusy, n)
}
