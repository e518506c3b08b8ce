// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package variant

import (
	"fmt"

	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
)

// field of a codec layout; word, shift and width in that order.
func field(name string, word, shift, width uint8) codec.Field {
	return codec.Field{Name: name, Word: word, Shift: shift, Width: width}
}

func opField() indirect.Field { return indirect.Field{Shift: 12, Width: 3} }

func statsTable() *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      "stats",
		Family:    indirect.Stats,
		Dev:       Global1,
		OpReg:     0x1d,
		DataReg:   0x1e,
		DataWords: 2,
		Busy:      15,
		Op:        opField(),
		Page:      indirect.Field{Shift: 10, Width: 2},
		Port:      indirect.Field{Shift: 5, Width: 5},
		Pointer:   indirect.Field{Shift: 0, Width: 5},
		Flags:     indirect.Executes,
	}
}

func pirlTable() *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      "pirl",
		Family:    indirect.PIRL,
		Dev:       Global2,
		OpReg:     0x09,
		DataReg:   0x0a,
		DataWords: 1,
		Busy:      15,
		Op:        opField(),
		Port:      indirect.Field{Shift: 8, Width: 4},
		Index:     indirect.Field{Shift: 5, Width: 3},
		Pointer:   indirect.Field{Shift: 0, Width: 4},
		Flags:     indirect.Executes,
	}
}

func tcamTable(name string, dev uint8) *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      name,
		Family:    indirect.TCAM,
		Dev:       dev,
		OpReg:     0x00,
		DataReg:   0x02,
		DataWords: TCAMPageWords,
		Busy:      15,
		Op:        opField(),
		Page:      indirect.Field{Shift: 10, Width: 2},
		Index:     indirect.Field{Shift: 0, Width: 8},
		Flags:     indirect.Executes,
	}
}

func ptpTable() *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      "ptp",
		Family:    indirect.PTP,
		Dev:       Global2,
		OpReg:     0x16,
		DataReg:   0x17,
		DataWords: 1,
		Busy:      15,
		Op:        opField(),
		Port:      indirect.Field{Shift: 8, Width: 4},
		Page:      indirect.Field{Shift: 5, Width: 3},
		Pointer:   indirect.Field{Shift: 0, Width: 5},
		Flags:     indirect.Executes,
	}
}

func avbTable() *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      "avb",
		Family:    indirect.PTP,
		Dev:       Global2,
		OpReg:     0x0b,
		DataReg:   0x0c,
		DataWords: 1,
		Busy:      15,
		Op:        opField(),
		Port:      indirect.Field{Shift: 8, Width: 4},
		Index:     indirect.Field{Shift: 5, Width: 3},
		Pointer:   indirect.Field{Shift: 0, Width: 4},
		Flags:     indirect.Executes,
	}
}

func atsTable() *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      "ats",
		Family:    indirect.ATS,
		Dev:       Global2,
		OpReg:     0x0d,
		DataReg:   0x0e,
		DataWords: 1,
		Busy:      15,
		Op:        opField(),
		Index:     indirect.Field{Shift: 2, Width: 6},
		Pointer:   indirect.Field{Shift: 0, Width: 2},
		Flags:     indirect.Executes,
	}
}

func qcrTable() *indirect.Descriptor {
	return &indirect.Descriptor{
		Name:      "qcr",
		Family:    indirect.ATS,
		Dev:       Global2,
		OpReg:     0x0f,
		DataReg:   0x10,
		DataWords: 1,
		Busy:      15,
		Op:        opField(),
		Index:     indirect.Field{Shift: 1, Width: 8},
		Pointer:   indirect.Field{Shift: 0, Width: 1},
		Flags:     indirect.Executes,
	}
}

func pirlResource() *codec.Layout {
	return &codec.Layout{
		Name:  "pirl resource",
		Words: 9,
		Fields: []codec.Field{
			field("bktTypeMask", 0, 0, 16),
			field("tcamFlows", 1, 0, 1),
			field("priAndPt", 1, 1, 1),
			field("useFPri", 1, 2, 1),
			field("accountQConf", 1, 3, 1),
			field("accountFiltered", 1, 4, 1),
			field("samplingMode", 1, 5, 1),
			field("colorAware", 1, 6, 1),
			field("priSelect", 1, 8, 8),
			field("bktIncrement", 2, 0, 13),
			field("countMode", 2, 13, 2),
			field("actionMode", 2, 15, 1),
			field("rfGreen", 3, 0, 16),
			field("rfYellow", 4, 0, 16),
			field("cbsLimit", 5, 0, 24),
			field("fcPriority", 6, 8, 3),
			field("fcMode", 6, 11, 1),
			field("ebsLimit", 7, 0, 24),
			field("ebsLimitAction", 8, 8, 1),
		},
	}
}

// octets appends the value and mask bytes of n frame octets, from octet
// first, one per word from word.
func octets(l []codec.Field, first, n int, word uint8) []codec.Field {
	for i := 0; i < n; i++ {
		w := word + uint8(i)
		l = append(l,
			field(fmt.Sprint("octet[", first+i, "]"), w, 0, 8),
			field(fmt.Sprint("mask[", first+i, "]"), w, 8, 8))
	}
	return l
}

// tcamKey spans TCAM pages 0 and 1.
func tcamKey() *codec.Layout {
	l := []codec.Field{
		field("spv", 0, 0, 11),
		field("frameType", 0, 14, 2),
		field("spvMask", 1, 0, 11),
		field("frameTypeMask", 1, 14, 2),
		field("pvid", 2, 0, 12),
		field("ppri", 2, 12, 3),
		field("pvidMask", 3, 0, 12),
		field("ppriMask", 3, 12, 3),
	}
	l = octets(l, 0, TCAMPageWords-4, 4)
	l = octets(l, TCAMPageWords-4, TCAMPageWords, TCAMPageWords)
	return &codec.Layout{
		Name:   "tcam key",
		Words:  2 * TCAMPageWords,
		Fields: l,
	}
}

func rcKey() *codec.Layout {
	l := []codec.Field{
		field("spv", 0, 0, 11),
		field("frameType", 0, 14, 2),
		field("spvMask", 1, 0, 11),
		field("frameTypeMask", 1, 14, 2),
		field("rcIndex", 2, 0, 8),
		field("rcIndexMask", 2, 8, 8),
	}
	for i := 0; i < 4; i++ {
		w := uint8(3 + 2*i)
		l = append(l,
			field(fmt.Sprint("low[", i, "]"), w, 0, 16),
			field(fmt.Sprint("high[", i, "]"), w + 1, 0, 16),
			field(fmt.Sprint("select[", i, "]"), 11, uint8(4 * i), 4))
	}
	return &codec.Layout{
		Name:   "tcam range check key",
		Words:  TCAMPageWords,
		Fields: l,
	}
}

// actionFields are common to the TCAM action of every variant.
func actionFields() []codec.Field {
	return []codec.Field{
		field("vidData", 0, 0, 12),
		field("vidOverride", 0, 12, 1),
		field("continue", 0, 13, 1),
		field("incTcamCtr", 0, 14, 1),
		field("interrupt", 0, 15, 1),
		field("nextId", 1, 0, 8),
		field("tcamCtr", 1, 8, 2),
		field("colorMode", 1, 12, 2),
		field("qpriData", 2, 4, 3),
		field("qpriOverride", 2, 7, 1),
		field("fpriData", 2, 12, 3),
		field("fpriOverride", 2, 15, 1),
		field("dpvData", 3, 0, 11),
		field("dpvMode", 3, 13, 2),
		field("dpvOverride", 3, 15, 1),
		field("factionData", 4, 0, 15),
		field("factionOverride", 4, 15, 1),
		field("dscpData", 5, 0, 6),
		field("dscpOverride", 5, 7, 1),
		field("ldBalanceData", 5, 12, 3),
		field("ldBalanceOverride", 5, 15, 1),
		field("egActPoint", 6, 0, 6),
		field("unknownFilter", 6, 12, 2),
		field("vtuPage", 6, 14, 1),
		field("vtuPageOverride", 6, 15, 1),
	}
}

func rcFields(l []codec.Field, word uint8) []codec.Field {
	return append(l,
		field("rcIndex", word, 0, 8),
		field("rcResult", word + 1, 0, 8),
		field("rcResultMask", word + 1, 8, 8))
}

func flowFields(l []codec.Field, word uint8) []codec.Field {
	return append(l,
		field("flowData", word, 0, 10),
		field("flowOverride", word, 15, 1))
}

func ptpPort() *codec.Layout {
	return &codec.Layout{
		Name:  "ptp port",
		Words: 3,
		Fields: []codec.Field{
			field("disPTP", 0, 0, 1),
			field("disTSOverwrite", 0, 1, 1),
			field("disTSpecCheck", 0, 11, 1),
			field("transSpec", 0, 12, 4),
			field("etJump", 1, 0, 5),
			field("ipJump", 1, 8, 6),
			field("arrIntEn", 2, 0, 1),
			field("depIntEn", 2, 1, 1),
			field("arrTSMode", 2, 8, 8),
		},
	}
}

func avbQav() *codec.Layout {
	return &codec.Layout{
		Name:  "avb qav",
		Words: 2,
		Fields: []codec.Field{
			field("rate", 0, 0, 15),
			field("hiLimit", 1, 0, 14),
		},
	}
}

func atsEntry() *codec.Layout {
	return &codec.Layout{
		Name:  "ats entry",
		Words: 4,
		Fields: []codec.Field{
			field("decrement", 0, 0, 16),
			field("exponent", 1, 0, 4),
			field("group", 1, 8, 4),
			field("enable", 1, 15, 1),
			field("cbsLimit", 2, 0, 24),
			field("maxResidence", 3, 8, 8),
		},
	}
}

func qcrEntry() *codec.Layout {
	return &codec.Layout{
		Name:  "qcr entry",
		Words: 2,
		Fields: []codec.Field{
			field("maxSDU", 0, 0, 14),
			field("maxSDUEnable", 0, 15, 1),
			field("atsIndex", 1, 0, 6),
			field("atsEnable", 1, 15, 1),
		},
	}
}
