// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package indirect

import (
	"github.com/platinasystems/swreg/external/poll"
	"github.com/platinasystems/swreg/external/smi"
	"github.com/platinasystems/swreg/external/swerr"
)

// Device is one switch chip with a Transactor per table family.
type Device struct {
	Transport smi.Transport
	families  [NFamily]*Transactor
}

func NewDevice(tr smi.Transport, p poll.Policy) *Device {
	d := &Device{Transport: tr}
	for f := range d.families {
		d.families[f] = NewTransactor(Family(f), tr, p)
	}
	return d
}

// Family returns the transactor of f; nil if f is out of range.
func (d *Device) Family(f Family) *Transactor {
	if f >= NFamily {
		return nil
	}
	return d.families[f]
}

// Transact executes tx under the lock of its table's family.
func (d *Device) Transact(tx *Transaction) error {
	t, err := d.transactor(tx)
	if err != nil {
		return err
	}
	return t.Execute(tx)
}

// TransactSequence executes txs with one hold of their family lock. All txs
// must be of the same family.
func (d *Device) TransactSequence(txs ...*Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	t, err := d.transactor(txs[0])
	if err != nil {
		return err
	}
	for _, tx := range txs[1:] {
		if tx.Table == nil || tx.Table.Family != t.Family {
			return swerr.Errorf(swerr.ErrBadParameter,
				"sequence spans families")
		}
	}
	return t.ExecuteSequence(txs...)
}

func (d *Device) transactor(tx *Transaction) (*Transactor, error) {
	if tx.Table == nil {
		return nil, swerr.Errorf(swerr.ErrBadParameter, "nil table")
	}
	t := d.Family(tx.Table.Family)
	if t == nil {
		return nil, swerr.Errorf(swerr.ErrBadParameter,
			"%s: unknown family", tx.Table)
	}
	return t, nil
}
