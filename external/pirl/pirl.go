// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pirl programs the port ingress rate limiter resources.
//
// A resource is a two rate token bucket of nine words, each at its own
// pointer behind the single PIRL data register.
package pirl

import (
	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/rate"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
)

const (
	OpNop indirect.Opcode = iota
	OpInitAll
	OpInitResource
	OpWrite
	OpRead
)

// CountMode is what the bucket counts.
type CountMode uint8

const (
	CountFrame CountMode = iota
	CountL1Bytes
	CountL2Bytes
	CountL3Bytes
)

// Resource is the logical content of one PIRL bucket.
type Resource struct {
	BktTypeMask     uint16    `field:"bktTypeMask"`
	TCAMFlows       bool      `field:"tcamFlows"`
	PriAndPt        bool      `field:"priAndPt"`
	UseFPri         bool      `field:"useFPri"`
	AccountQConf    bool      `field:"accountQConf"`
	AccountFiltered bool      `field:"accountFiltered"`
	SamplingMode    bool      `field:"samplingMode"`
	ColorAware      bool      `field:"colorAware"`
	PriSelect       uint8     `field:"priSelect"`
	BktIncrement    uint16    `field:"bktIncrement"`
	CountMode       CountMode `field:"countMode"`
	// Drop, rather than flow control, frames over the limit.
	ActionMode     bool   `field:"actionMode"`
	RFGreen        uint16 `field:"rfGreen"`
	RFYellow       uint16 `field:"rfYellow"`
	CBSLimit       uint32 `field:"cbsLimit"`
	FCPriority     uint8  `field:"fcPriority"`
	FCMode         bool   `field:"fcMode"`
	EBSLimit       uint32 `field:"ebsLimit"`
	EBSLimitAction bool   `field:"ebsLimitAction"`
}

type PIRL struct {
	dev    *indirect.Device
	table  *indirect.Descriptor
	layout *codec.Layout
	ports  int
}

func New(dev *indirect.Device, v *variant.Variant) *PIRL {
	return &PIRL{
		dev:    dev,
		table:  v.PIRL,
		layout: v.PIRLResource,
		ports:  v.Ports,
	}
}

func (p *PIRL) check(port, res uint8) error {
	if int(port) >= p.ports {
		return swerr.Errorf(swerr.ErrBadParameter, "port %d >= %d",
			port, p.ports)
	}
	if uint16(res) > p.table.Index.Max() {
		return swerr.Errorf(swerr.ErrBadParameter,
			"resource %d > %d", res, p.table.Index.Max())
	}
	return nil
}

// InitAll returns every resource of every port to its reset state.
func (p *PIRL) InitAll() error {
	return p.dev.Transact(&indirect.Transaction{
		Table: p.table,
		Op:    OpInitAll,
		Dir:   indirect.Write,
	})
}

func (p *PIRL) InitResource(port, res uint8) error {
	if err := p.check(port, res); err != nil {
		return err
	}
	return p.dev.Transact(&indirect.Transaction{
		Table: p.table,
		Op:    OpInitResource,
		Dir:   indirect.Write,
		Port:  port,
		Index: uint16(res),
	})
}

func (p *PIRL) Read(port, res uint8) (Resource, error) {
	var r Resource
	if err := p.check(port, res); err != nil {
		return r, err
	}
	err := p.dev.Family(indirect.PIRL).Do(func(s *indirect.Session) error {
		return p.read(s, port, res, &r)
	})
	return r, err
}

func (p *PIRL) read(s *indirect.Session, port, res uint8, r *Resource) error {
	words := make([]uint16, p.layout.Words)
	err := s.ReadWords(indirect.Transaction{
		Table: p.table,
		Op:    OpRead,
		Port:  port,
		Index: uint16(res),
	}, words)
	if err != nil {
		return err
	}
	return codec.Decode(p.layout, words, r)
}

// Write all words of the resource with one hold of the PIRL family.
func (p *PIRL) Write(port, res uint8, r *Resource) error {
	if err := p.check(port, res); err != nil {
		return err
	}
	words, err := codec.Encode(p.layout, r)
	if err != nil {
		return err
	}
	return p.dev.Family(indirect.PIRL).Do(func(s *indirect.Session) error {
		return p.write(s, port, res, words)
	})
}

func (p *PIRL) write(s *indirect.Session, port, res uint8,
	words []uint16) error {
	return s.WriteWords(indirect.Transaction{
		Table: p.table,
		Op:    OpWrite,
		Port:  port,
		Index: uint16(res),
	}, words)
}

// Configure quantizes spec into the bucket fields of r and writes it. A
// byte counting spec keeps the layer of r's CountMode, L2 if unset.
func (p *PIRL) Configure(port, res uint8, spec rate.Spec,
	r Resource) (rate.Bucket, error) {
	if err := p.check(port, res); err != nil {
		return rate.Bucket{}, err
	}
	b, err := rate.QuantizePIRL(spec)
	if err != nil {
		return b, err
	}
	setBucket(&r, spec, b)
	return b, p.Write(port, res, &r)
}

// Update reads the resource, applies edit, if non-nil, then the quantized
// spec, and writes it back, all with one hold of the PIRL family.
func (p *PIRL) Update(port, res uint8, spec rate.Spec,
	edit func(*Resource)) (Resource, rate.Bucket, error) {
	var r Resource
	if err := p.check(port, res); err != nil {
		return r, rate.Bucket{}, err
	}
	b, err := rate.QuantizePIRL(spec)
	if err != nil {
		return r, b, err
	}
	err = p.dev.Family(indirect.PIRL).Do(func(s *indirect.Session) error {
		if err := p.read(s, port, res, &r); err != nil {
			return err
		}
		if edit != nil {
			edit(&r)
		}
		setBucket(&r, spec, b)
		words, err := codec.Encode(p.layout, &r)
		if err != nil {
			return err
		}
		return p.write(s, port, res, words)
	})
	return r, b, err
}

func setBucket(r *Resource, spec rate.Spec, b rate.Bucket) {
	r.BktIncrement = b.Increment
	r.RFGreen = b.RateFactorGreen
	r.RFYellow = b.RateFactorYellow
	r.CBSLimit = b.CBSLimit
	r.EBSLimit = b.EBSLimit
	switch {
	case spec.Count == rate.Frame:
		r.CountMode = CountFrame
	case r.CountMode == CountFrame:
		r.CountMode = CountL2Bytes
	}
}

// Rate reads the resource's committed rate in the units of its count mode.
func (p *PIRL) Rate(port, res uint8) (float64, rate.Count, error) {
	r, err := p.Read(port, res)
	if err != nil {
		return 0, rate.Byte, err
	}
	c := rate.Byte
	if r.CountMode == CountFrame {
		c = rate.Frame
	}
	achieved, err := rate.PIRLRate(rate.Bucket{
		Increment:       r.BktIncrement,
		RateFactorGreen: r.RFGreen,
	}, c)
	return achieved, c, err
}
