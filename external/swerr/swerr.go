// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package swerr enumerates the failures of indirect switch table access.
//
// Callers match with errors.Is; every error returned by the swreg packages
// wraps exactly one of these.
package swerr

import (
	"errors"
	"fmt"
)

var (
	// A caller supplied value is out of range. Detected before any bus
	// access.
	ErrBadParameter = errors.New("bad parameter")

	// The busy bit didn't clear within the poll budget.
	ErrBusy = errors.New("busy")

	// The register read/write primitive failed.
	ErrTransport = errors.New("transport")

	// A get-next found no higher valid entry. This terminates iteration;
	// it isn't a failure.
	ErrNoSuchEntry = errors.New("no such entry")

	// The rate quantizer found no parameters within hardware limits.
	ErrInfeasible = errors.New("infeasible")
)

// Errorf wraps kind with formatted context, e.g.
//
//	return swerr.Errorf(swerr.ErrBadParameter, "port %d > %d", port, max)
//
// results in "bad parameter: port 12 > 10".
func Errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
