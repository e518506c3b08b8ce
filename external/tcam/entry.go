// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package tcam

// Frame octets matched by a TCAM key.
const Octets = 48

type Key struct {
	FrameType     uint8         `field:"frameType"`
	FrameTypeMask uint8         `field:"frameTypeMask"`
	SPV           uint16        `field:"spv"`
	SPVMask       uint16        `field:"spvMask"`
	PPri          uint8         `field:"ppri"`
	PPriMask      uint8         `field:"ppriMask"`
	PVID          uint16        `field:"pvid"`
	PVIDMask      uint16        `field:"pvidMask"`
	Octet         [Octets]uint8 `field:"octet"`
	Mask          [Octets]uint8 `field:"mask"`
}

// Action is what a TCAM, or range check, hit does to the frame. Each Data
// field applies only with its Override.
type Action struct {
	Interrupt  bool  `field:"interrupt"`
	IncTCAMCtr bool  `field:"incTcamCtr"`
	TCAMCtr    uint8 `field:"tcamCtr"`
	// Continue the lookup at NextID.
	Continue bool  `field:"continue"`
	NextID   uint8 `field:"nextId"`

	VIDOverride       bool   `field:"vidOverride"`
	VIDData           uint16 `field:"vidData"`
	FlowOverride      bool   `field:"flowOverride"`
	FlowData          uint16 `field:"flowData"`
	QPriOverride      bool   `field:"qpriOverride"`
	QPriData          uint8  `field:"qpriData"`
	FPriOverride      bool   `field:"fpriOverride"`
	FPriData          uint8  `field:"fpriData"`
	DPVOverride       bool   `field:"dpvOverride"`
	DPVMode           uint8  `field:"dpvMode"`
	DPVData           uint16 `field:"dpvData"`
	VTUPageOverride   bool   `field:"vtuPageOverride"`
	VTUPage           bool   `field:"vtuPage"`
	LdBalanceOverride bool   `field:"ldBalanceOverride"`
	LdBalanceData     uint8  `field:"ldBalanceData"`
	DSCPOverride      bool   `field:"dscpOverride"`
	DSCPData          uint8  `field:"dscpData"`
	FactionOverride   bool   `field:"factionOverride"`
	FactionData       uint16 `field:"factionData"`

	ColorMode     uint8 `field:"colorMode"`
	UnknownFilter uint8 `field:"unknownFilter"`
	EgActPoint    uint8 `field:"egActPoint"`

	RCIndex      uint8 `field:"rcIndex"`
	RCResult     uint8 `field:"rcResult"`
	RCResultMask uint8 `field:"rcResultMask"`

	// Only chips with stream filters have these.
	StreamFilterOverride bool  `field:"streamFilterOverride"`
	StreamFilterID       uint8 `field:"streamFilterId"`
}

type Entry struct {
	Key    Key
	Action Action
}

// RCKey matches up to four header fields against ranges.
type RCKey struct {
	FrameType     uint8     `field:"frameType"`
	FrameTypeMask uint8     `field:"frameTypeMask"`
	SPV           uint16    `field:"spv"`
	SPVMask       uint16    `field:"spvMask"`
	RCIndex       uint8     `field:"rcIndex"`
	RCIndexMask   uint8     `field:"rcIndexMask"`
	Low           [4]uint16 `field:"low"`
	High          [4]uint16 `field:"high"`
	Select        [4]uint8  `field:"select"`
}

type RCEntry struct {
	Key    RCKey
	Action Action
}
