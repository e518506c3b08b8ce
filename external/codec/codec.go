// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package codec packs tagged structs into, and out of, the 16 bit data words
// of an indirect table per a chip variant's Layout.
//
// Struct fields name their layout field with a tag,
//
//	type Resource struct {
//		CBSLimit uint32 `field:"cbsLimit"`
//		Flags    [4]bool `field:"flag"`	// flag[0] ... flag[3]
//	}
//
// so one struct serves every variant while the bit positions are data.
package codec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/platinasystems/swreg/external/swerr"
)

// Field places a named value of Width bits at bit Shift of data Word. Bits
// beyond the end of that word continue at bit 0 of the next.
type Field struct {
	Name  string
	Word  uint8
	Shift uint8
	Width uint8
}

func (f Field) Max() uint64 { return uint64(1)<<f.Width - 1 }

// last is the index of the last word holding bits of f.
func (f Field) last() int {
	return int(f.Word) + (int(f.Shift)+int(f.Width)-1)/16
}

func (f Field) put(words []uint16, v uint64) {
	w, shift, left := int(f.Word), uint(f.Shift), uint(f.Width)
	for left > 0 {
		n := 16 - shift
		if n > left {
			n = left
		}
		m := uint16(1)<<n - 1
		words[w] = words[w]&^(m<<shift) | (uint16(v)&m)<<shift
		v >>= n
		left -= n
		w++
		shift = 0
	}
}

func (f Field) get(words []uint16) (v uint64) {
	w, shift, left := int(f.Word), uint(f.Shift), uint(f.Width)
	for at := uint(0); left > 0; w++ {
		n := 16 - shift
		if n > left {
			n = left
		}
		m := uint16(1)<<n - 1
		v |= uint64((words[w]>>shift)&m) << at
		at += n
		left -= n
		shift = 0
	}
	return
}

type Layout struct {
	Name   string
	Words  int
	Fields []Field
}

func (l *Layout) String() string { return l.Name }

func (l *Layout) Lookup(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Check the layout for fields out of range or overlapping.
func (l *Layout) Check() error {
	used := make([]uint16, l.Words)
	names := make(map[string]struct{})
	for _, f := range l.Fields {
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("%s: %s: duplicate", l, f.Name)
		}
		names[f.Name] = struct{}{}
		if f.Width == 0 || f.Width > 32 || f.Shift > 15 {
			return fmt.Errorf("%s: %s: bad shift %d width %d",
				l, f.Name, f.Shift, f.Width)
		}
		if f.last() >= l.Words {
			return fmt.Errorf("%s: %s: beyond word %d",
				l, f.Name, l.Words-1)
		}
		mask := make([]uint16, l.Words)
		f.put(mask, f.Max())
		for i := range mask {
			if used[i]&mask[i] != 0 {
				return fmt.Errorf("%s: %s: overlaps word %d bits %#x",
					l, f.Name, i, used[i]&mask[i])
			}
			used[i] |= mask[i]
		}
	}
	return nil
}

// Encode returns the data words of the struct pointed to, or held by, v.
func Encode(l *Layout, v interface{}) ([]uint16, error) {
	words := make([]uint16, l.Words)
	err := walk(v, false, func(name string, val reflect.Value) error {
		x := value(val)
		f, found := l.Lookup(name)
		if !found {
			if x != 0 {
				return swerr.Errorf(swerr.ErrBadParameter,
					"%s: no %s field", l, name)
			}
			return nil
		}
		if x > f.Max() {
			return swerr.Errorf(swerr.ErrBadParameter,
				"%s: %s %#x > %#x", l, name, x, f.Max())
		}
		if f.last() >= len(words) {
			return fmt.Errorf("%s: %s: beyond word %d", l, name,
				len(words)-1)
		}
		f.put(words, x)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Decode the data words into the struct pointed to by v. Struct fields that
// the layout lacks are zeroed.
func Decode(l *Layout, words []uint16, v interface{}) error {
	if len(words) < l.Words {
		return swerr.Errorf(swerr.ErrBadParameter,
			"%s: %d words < %d", l, len(words), l.Words)
	}
	return walk(v, true, func(name string, val reflect.Value) error {
		var x uint64
		if f, found := l.Lookup(name); found {
			x = f.get(words)
		}
		setValue(val, x)
		return nil
	})
}

// Set the tagged field, or array element, of the struct pointed to by v;
// returning false if v has no such field.
func Set(v interface{}, name string, x uint64) (bool, error) {
	found := false
	err := walk(v, true, func(fname string, val reflect.Value) error {
		if found || fname != name {
			return nil
		}
		found = true
		max := uint64(1)
		if val.Kind() != reflect.Bool {
			max = uint64(1)<<(val.Type().Bits()-1)<<1 - 1
		}
		if x > max {
			return swerr.Errorf(swerr.ErrBadParameter,
				"%s %#x > %#x", name, x, max)
		}
		setValue(val, x)
		return nil
	})
	return found, err
}

// Fprint prints a "name: value" line for each non-zero tagged field of v.
func Fprint(w io.Writer, v interface{}) (int, error) {
	var n int
	err := walk(v, false, func(name string, val reflect.Value) error {
		var err error
		if x := value(val); x != 0 {
			var i int
			if val.Kind() == reflect.Bool {
				i, err = fmt.Fprintln(w, name+":", true)
			} else {
				i, err = fmt.Fprintf(w, "%s: %#x\n", name, x)
			}
			n += i
		}
		return err
	})
	return n, err
}

// walk calls fn with the layout name and value of each tagged field or
// array element.
func walk(v interface{}, settable bool,
	fn func(string, reflect.Value) error) error {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return swerr.Errorf(swerr.ErrBadParameter, "nil %s",
				val.Type())
		}
		val = val.Elem()
	} else if settable {
		panic(fmt.Errorf("type not a pointer: " + val.Type().String()))
	}
	if val.Kind() != reflect.Struct {
		panic(fmt.Errorf("type not a struct: " + val.Type().String()))
	}
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		name, ok := t.Field(i).Tag.Lookup("field")
		if !ok || name == "-" {
			continue
		}
		fv := val.Field(i)
		if fv.Kind() == reflect.Array {
			for j := 0; j < fv.Len(); j++ {
				err := fn(fmt.Sprint(name, "[", j, "]"), fv.Index(j))
				if err != nil {
					return err
				}
			}
			continue
		}
		if err := fn(name, fv); err != nil {
			return err
		}
	}
	return nil
}

func value(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return v.Uint()
	}
	panic(fmt.Errorf("can't encode type: " + v.Type().String()))
}

func setValue(v reflect.Value, x uint64) {
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(x != 0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		v.SetUint(x)
	default:
		panic(fmt.Errorf("can't decode type: " + v.Type().String()))
	}
}
