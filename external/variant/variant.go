// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package variant has the indirect table descriptors and data layouts of the
// supported switch chips.
package variant

import (
	"sort"

	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/swerr"
)

// Device addresses of the register blocks holding indirect tables.
const (
	Global1 = 0x1b
	Global2 = 0x1c
	RC      = 0x1e
	TCAM    = 0x1f
)

// Number of data registers in each TCAM page.
const TCAMPageWords = 26

type Variant struct {
	Name  string
	Ports int

	Stats  *indirect.Descriptor
	PIRL   *indirect.Descriptor
	TCAM   *indirect.Descriptor
	TCAMRC *indirect.Descriptor
	PTP    *indirect.Descriptor
	AVB    *indirect.Descriptor
	// ATS and QCR are nil on chips without asynchronous shaping.
	ATS *indirect.Descriptor
	QCR *indirect.Descriptor

	PIRLResource *codec.Layout
	TCAMKey      *codec.Layout
	TCAMAction   *codec.Layout
	RCKey        *codec.Layout
	PTPPort      *codec.Layout
	AVBQav       *codec.Layout
	ATSEntry     *codec.Layout
	QCREntry     *codec.Layout
}

func (v *Variant) String() string { return v.Name }

// Tables lists the variant's descriptors.
func (v *Variant) Tables() []*indirect.Descriptor {
	var l []*indirect.Descriptor
	for _, d := range []*indirect.Descriptor{
		v.Stats, v.PIRL, v.TCAM, v.TCAMRC, v.PTP, v.AVB, v.ATS, v.QCR,
	} {
		if d != nil {
			l = append(l, d)
		}
	}
	return l
}

// Layouts lists the variant's codec layouts.
func (v *Variant) Layouts() []*codec.Layout {
	var l []*codec.Layout
	for _, x := range []*codec.Layout{
		v.PIRLResource, v.TCAMKey, v.TCAMAction, v.RCKey, v.PTPPort,
		v.AVBQav, v.ATSEntry, v.QCREntry,
	} {
		if x != nil {
			l = append(l, x)
		}
	}
	return l
}

var variants = map[string]*Variant{}

func register(v *Variant) { variants[v.Name] = v }

func Lookup(name string) (*Variant, error) {
	if v, found := variants[name]; found {
		return v, nil
	}
	return nil, swerr.Errorf(swerr.ErrBadParameter,
		"%q: unknown chip; have %v", name, Names())
}

func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
