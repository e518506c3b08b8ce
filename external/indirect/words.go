// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package indirect

// ReadWords fills words from consecutive pointers of tx's entry, starting at
// tx.Pointer, one Read per word.
func (s *Session) ReadWords(tx Transaction, words []uint16) error {
	for i := range words {
		x := tx
		x.Dir = Read
		x.Pointer = tx.Pointer + uint8(i)
		x.Tx, x.Rx = nil, words[i:i+1]
		if err := s.Execute(&x); err != nil {
			return err
		}
	}
	return nil
}

// WriteWords writes words to consecutive pointers of tx's entry, starting
// at tx.Pointer, one Write per word.
func (s *Session) WriteWords(tx Transaction, words []uint16) error {
	for i := range words {
		x := tx
		x.Dir = Write
		x.Pointer = tx.Pointer + uint8(i)
		x.Tx, x.Rx = words[i:i+1], nil
		if err := s.Execute(&x); err != nil {
			return err
		}
	}
	return nil
}
