// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package figaro

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Key represents the 256-bit (32 bytes) key of a storage slot.
type Key [32]byte

// Word represents an arbitrary 256-bit (32 byte) word of account storage.
type Word [32]byte

// Selector represents the leading 4 bytes of call data used to route an
// external call to a registered handler.
type Selector [4]byte

// Data represents the input of a contract invocation.
type Data []byte

// Gas represents the type used to represent gas values.
type Gas int64

func (k Key) String() string {
	return fmt.Sprintf("0x%x", k[:])
}

func (w Word) String() string {
	return fmt.Sprintf("0x%x", w[:])
}

func (s Selector) String() string {
	return fmt.Sprintf("0x%x", s[:])
}

// IsZero reports whether the word holds the all-zero value, the implicit
// content of every slot that was never written.
func (w Word) IsZero() bool {
	return w == Word{}
}

// NewKey creates a new Key instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a key of zero.
func NewKey(args ...uint64) (result Key) {
	return Key(newWord(args))
}

// NewWord creates a new Word instance from up to 4 uint64 arguments, following
// the same convention as NewKey.
func NewWord(args ...uint64) (result Word) {
	return newWord(args)
}

func newWord(args []uint64) (result Word) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args) && i < 4; i++ {
		start := (offset * 8) + i*8
		end := start + 8
		binary.BigEndian.PutUint64(result[start:end], args[i])
	}
	return
}

// ToUint256 converts a word to a *uint256.Int for arithmetic use.
func (w Word) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(w[:])
}

// WordFromUint256 converts a *uint256.Int to a Word.
// If the input is nil, it returns 0.
func WordFromUint256(value *uint256.Int) (result Word) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

func (k Key) MarshalText() ([]byte, error) {
	return bytesToText(k[:])
}

func (k *Key) UnmarshalText(data []byte) error {
	return textToBytes(k[:], data)
}

func (w Word) MarshalText() ([]byte, error) {
	return bytesToText(w[:])
}

func (w *Word) UnmarshalText(data []byte) error {
	return textToBytes(w[:], data)
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	if want, got := len(trg), len(data); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg[:], data)
	return nil
}

// AccessStatus is an enum utilized to indicate cold and warm storage
// slot accesses.
type AccessStatus bool

const (
	ColdAccess AccessStatus = false
	WarmAccess AccessStatus = true
)

// WriteKind is an enum classifying the effect of a storage write in the
// context of a single call simulation. It is the sole input needed to price
// the write: the first coordinate distinguishes first-touch (cold) from
// repeated (warm) accesses, the second whether the slot held the implicit
// zero value before the write.
type WriteKind int

const (
	ColdZeroToNonzero WriteKind = iota
	ColdNonzeroToNonzero
	WarmZeroToNonzero
	WarmNonzeroToNonzero
)

func (k WriteKind) String() string {
	switch k {
	case ColdZeroToNonzero:
		return "ColdZeroToNonzero"
	case ColdNonzeroToNonzero:
		return "ColdNonzeroToNonzero"
	case WarmZeroToNonzero:
		return "WarmZeroToNonzero"
	case WarmNonzeroToNonzero:
		return "WarmNonzeroToNonzero"
	}
	return fmt.Sprintf("WriteKind(%d)", int(k))
}

// GetWriteKind obtains the classification of a storage write given the
// access status of the slot and the value it held before the write.
func GetWriteKind(status AccessStatus, prior Word) WriteKind {
	if status == ColdAccess {
		if prior.IsZero() {
			return ColdZeroToNonzero
		}
		return ColdNonzeroToNonzero
	}
	if prior.IsZero() {
		return WarmZeroToNonzero
	}
	return WarmNonzeroToNonzero
}

// GetAllWriteKinds returns all write classifications, in tariff order from
// the most expensive to the cheapest.
func GetAllWriteKinds() []WriteKind {
	return []WriteKind{
		ColdZeroToNonzero,
		WarmZeroToNonzero,
		ColdNonzeroToNonzero,
		WarmNonzeroToNonzero,
	}
}
