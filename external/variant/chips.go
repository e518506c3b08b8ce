// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package variant

import "github.com/platinasystems/swreg/external/codec"

const (
	Peridot  = "88E6390"
	Amethyst = "88E6393X"
)

func init() {
	register(peridot())
	register(amethyst())
}

func peridot() *Variant {
	action := actionFields()
	action = flowFields(action, 7)
	action = rcFields(action, 10)
	return &Variant{
		Name:         Peridot,
		Ports:        11,
		Stats:        statsTable(),
		PIRL:         pirlTable(),
		TCAM:         tcamTable("tcam", TCAM),
		TCAMRC:       tcamTable("tcam rc", RC),
		PTP:          ptpTable(),
		AVB:          avbTable(),
		PIRLResource: pirlResource(),
		TCAMKey:      tcamKey(),
		TCAMAction: &codec.Layout{
			Name:   "tcam action",
			Words:  TCAMPageWords,
			Fields: action,
		},
		RCKey:   rcKey(),
		PTPPort: ptpPort(),
		AVBQav:  avbQav(),
	}
}

// amethyst moves the range check and flow fields of the action to make room
// for the stream filter.
func amethyst() *Variant {
	action := actionFields()
	action = flowFields(action, 8)
	action = rcFields(action, 16)
	action = append(action,
		field("streamFilterId", 18, 0, 8),
		field("streamFilterOverride", 18, 15, 1))
	return &Variant{
		Name:         Amethyst,
		Ports:        11,
		Stats:        statsTable(),
		PIRL:         pirlTable(),
		TCAM:         tcamTable("tcam", TCAM),
		TCAMRC:       tcamTable("tcam rc", RC),
		PTP:          ptpTable(),
		AVB:          avbTable(),
		ATS:          atsTable(),
		QCR:          qcrTable(),
		PIRLResource: pirlResource(),
		TCAMKey:      tcamKey(),
		TCAMAction: &codec.Layout{
			Name:   "tcam action",
			Words:  TCAMPageWords,
			Fields: action,
		},
		RCKey:    rcKey(),
		PTPPort:  ptpPort(),
		AVBQav:   avbQav(),
		ATSEntry: atsEntry(),
		QCREntry: qcrEntry(),
	}
}
