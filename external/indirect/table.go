// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package indirect drives the Operation/Data register handshake of switch
// tables too large to address as registers.
//
// Each table family (stats, TCAM, PIRL, PTP/AVB, ATS/QCR) has one register
// pair in hardware and so one Transactor with one lock. Transactions run only
// within Transactor.Do, which holds the family lock for the whole logical
// operation and releases it on every return.
package indirect

import "fmt"

type Family uint8

const (
	Stats Family = iota
	TCAM         // TCAM and TCAM range check
	PIRL
	PTP // PTP and AVB
	ATS // ATS and QCR
	NFamily
)

var familyNames = [...]string{
	Stats: "stats",
	TCAM:  "tcam",
	PIRL:  "pirl",
	PTP:   "ptp",
	ATS:   "ats",
}

func (f Family) String() string {
	if f < NFamily {
		return familyNames[f]
	}
	return fmt.Sprint("family(", uint8(f), ")")
}

// Field is a bit field of the 16 bit operation word. A zero Width field is
// absent from the table.
type Field struct {
	Shift, Width uint8
}

func (f Field) Present() bool { return f.Width > 0 }

// Max is the largest value the field holds, and, for the index field of
// tables with get-next, the "no higher entry" sentinel.
func (f Field) Max() uint16 { return uint16(1)<<f.Width - 1 }

func (f Field) mask() uint16 { return f.Max() << f.Shift }

func (f Field) Get(w uint16) uint16 { return (w >> f.Shift) & f.Max() }

func (f Field) Set(w, v uint16) uint16 {
	return w&^f.mask() | (v&f.Max())<<f.Shift
}

// Flags qualify a table's handshake.
type Flags uint8

const (
	// Issue starts execution; wait for busy to clear before returning
	// even from a write.
	Executes Flags = 1 << iota
)

// Descriptor is the immutable, chip variant specific, description of one
// indirect table.
type Descriptor struct {
	Name   string
	Family Family

	// Device (SMI) address of both the operation and data registers.
	Dev uint8

	OpReg uint8

	// DataReg is the first of DataWords consecutive data registers.
	// Tables that carry their payload in the operation word have
	// DataWords zero and a Payload field.
	DataReg   uint8
	DataWords int

	// Busy is the bit number of busy/start in the operation word.
	Busy uint8

	Op      Field
	Port    Field
	Index   Field
	Pointer Field
	Page    Field
	Payload Field

	Flags Flags
}

func (d *Descriptor) String() string { return d.Name }

// Sentinel is the get-next index meaning "no higher entry"; writing it as a
// get-next start index begins the search from the lowest entry.
func (d *Descriptor) Sentinel() uint16 { return d.Index.Max() }

func (d *Descriptor) busy() uint16 { return 1 << d.Busy }

// Words is the number of payload words a single transaction can move.
func (d *Descriptor) Words() int {
	if d.Payload.Present() {
		return 1
	}
	return d.DataWords
}

// Opcode values are table specific; see the feature packages.
type Opcode uint8

type Dir uint8

const (
	// Read issues the operation and, after it completes, fills Rx.
	Read Dir = iota
	// Write puts Tx in the data registers, then issues the operation.
	Write
	// Select writes the operation word without the start bit to switch
	// the page or pointer context of the data registers.
	Select
	// Next issues a get-next from Index; on completion, Index is the
	// entry found and Rx its data.
	Next
)

func (d Dir) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	case Select:
		return "select"
	case Next:
		return "next"
	}
	return fmt.Sprint("dir(", uint8(d), ")")
}

// Transaction is one operation on an indirect table. It is built per call
// and consumed by Session.Execute.
type Transaction struct {
	Table *Descriptor
	Op    Opcode
	Dir   Dir

	Port    uint8
	Index   uint16
	Pointer uint8
	Page    uint8

	// Data words written before the issue of a Write.
	Tx []uint16

	// Data words read after the completion of a Read or Next.
	Rx []uint16
}

func (tx *Transaction) String() string {
	s := fmt.Sprintf("%s %s op %d", tx.Table, tx.Dir, tx.Op)
	d := tx.Table
	if d.Port.Present() {
		s += fmt.Sprint(" port ", tx.Port)
	}
	if d.Index.Present() {
		s += fmt.Sprint(" index ", tx.Index)
	}
	if d.Pointer.Present() {
		s += fmt.Sprint(" pointer ", tx.Pointer)
	}
	if d.Page.Present() {
		s += fmt.Sprint(" page ", tx.Page)
	}
	return s
}

func (tx *Transaction) opWord(start bool) uint16 {
	d := tx.Table
	w := d.Op.Set(0, uint16(tx.Op))
	w = d.Port.Set(w, uint16(tx.Port))
	w = d.Index.Set(w, tx.Index)
	w = d.Pointer.Set(w, uint16(tx.Pointer))
	w = d.Page.Set(w, uint16(tx.Page))
	if start {
		w |= d.busy()
	}
	return w
}
