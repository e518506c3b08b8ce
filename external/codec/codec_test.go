// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package codec

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/platinasystems/swreg/external/swerr"
)

type bucket struct {
	Enable bool     `field:"enable"`
	Mode   uint8    `field:"mode"`
	Limit  uint32   `field:"limit"`
	Pri    [2]uint8 `field:"pri"`
	Scrap  uint16
	Extra  uint16 `field:"extra"`
}

var layout = &Layout{
	Name:  "bucket",
	Words: 3,
	Fields: []Field{
		{"enable", 0, 15, 1},
		{"mode", 0, 12, 2},
		// spills from word 1 bits 8..15 into word 2
		{"limit", 1, 8, 24},
		{"pri[0]", 1, 0, 3},
		{"pri[1]", 0, 0, 3},
	},
}

func TestCheck(t *testing.T) {
	require.NoError(t, layout.Check())
	for _, l := range []*Layout{
		{"dup", 1, []Field{{"a", 0, 0, 1}, {"a", 0, 1, 1}}},
		{"zero", 1, []Field{{"a", 0, 0, 0}}},
		{"shift", 1, []Field{{"a", 0, 16, 1}}},
		{"beyond", 1, []Field{{"a", 0, 8, 9}}},
		{"overlap", 2, []Field{{"a", 0, 8, 12}, {"b", 1, 3, 2}}},
	} {
		require.Error(t, l.Check(), l.Name)
	}
}

func TestEncode(t *testing.T) {
	words, err := Encode(layout, &bucket{
		Enable: true,
		Mode:   2,
		Limit:  0xabcdef,
		Pri:    [2]uint8{5, 7},
		Scrap:  0xffff,
	})
	require.NoError(t, err)
	require.Equal(t, []uint16{
		0x8000 | 2<<12 | 7,
		0xef<<8 | 5,
		0xabcd,
	}, words)

	var b bucket
	b.Extra = 9
	require.NoError(t, Decode(layout, words, &b))
	require.Equal(t, bucket{
		Enable: true,
		Mode:   2,
		Limit:  0xabcdef,
		Pri:    [2]uint8{5, 7},
	}, b)
}

func TestBoundaries(t *testing.T) {
	for _, v := range []bucket{
		{},
		{Enable: true, Mode: 3, Limit: 0xffffff, Pri: [2]uint8{7, 7}},
	} {
		words, err := Encode(layout, v)
		require.NoError(t, err)
		var b bucket
		require.NoError(t, Decode(layout, words, &b))
		require.Equal(t, v, b)
	}
}

func TestEncodeBadParameter(t *testing.T) {
	for _, v := range []*bucket{
		{Mode: 4},
		{Limit: 1 << 24},
		{Pri: [2]uint8{8, 0}},
		// no such field in this layout
		{Extra: 1},
		nil,
	} {
		_, err := Encode(layout, v)
		require.ErrorIs(t, err, swerr.ErrBadParameter)
	}
}

func TestDecodeShort(t *testing.T) {
	var b bucket
	err := Decode(layout, make([]uint16, 2), &b)
	require.ErrorIs(t, err, swerr.ErrBadParameter)
}

func TestDecodeNotPointer(t *testing.T) {
	defer func() {
		require.NotNil(t, recover())
	}()
	Decode(layout, make([]uint16, 3), bucket{})
}

func ExampleFprint() {
	Fprint(os.Stdout, bucket{Enable: true, Limit: 1600, Pri: [2]uint8{0, 3}})
	// Output:
	// enable: true
	// limit: 0x640
	// pri[1]: 0x3
}

func TestSet(t *testing.T) {
	var b bucket
	for _, x := range []struct {
		name string
		v    uint64
	}{
		{"enable", 1},
		{"limit", 0xabcdef},
		{"pri[1]", 6},
	} {
		found, err := Set(&b, x.name, x.v)
		require.NoError(t, err, x.name)
		require.True(t, found, x.name)
	}
	require.Equal(t, bucket{
		Enable: true,
		Limit:  0xabcdef,
		Pri:    [2]uint8{0, 6},
	}, b)

	found, err := Set(&b, "pri[2]", 1)
	require.NoError(t, err)
	require.False(t, found)

	_, err = Set(&b, "mode", 0x100)
	require.ErrorIs(t, err, swerr.ErrBadParameter)
	_, err = Set(&b, "enable", 2)
	require.ErrorIs(t, err, swerr.ErrBadParameter)
}
