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
	"testing"
)

func TestNewWord_PacksArgumentsBigEndian(t *testing.T) {
	tests := map[string]struct {
		args []uint64
		want Word
	}{
		"empty":    {nil, Word{}},
		"one":      {[]uint64{1}, Word{31: 0x01}},
		"byte":     {[]uint64{0xAB}, Word{31: 0xAB}},
		"two":      {[]uint64{1, 2}, Word{23: 0x01, 31: 0x02}},
		"max-args": {[]uint64{1, 2, 3, 4}, Word{7: 0x01, 15: 0x02, 23: 0x03, 31: 0x04}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, NewWord(test.args...); want != got {
				t.Errorf("unexpected word, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestNewWord_TooManyArgumentsPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for more than 4 arguments")
		}
	}()
	NewWord(1, 2, 3, 4, 5)
}

func TestWord_IsZero(t *testing.T) {
	if !NewWord().IsZero() {
		t.Errorf("default word should be zero")
	}
	if NewWord(1).IsZero() {
		t.Errorf("non-zero word reported as zero")
	}
}

func TestWord_Uint256RoundTrip(t *testing.T) {
	want := NewWord(1, 2, 3, 4)
	if got := WordFromUint256(want.ToUint256()); want != got {
		t.Errorf("round-trip failed, wanted %v, got %v", want, got)
	}
	if want, got := (Word{}), WordFromUint256(nil); want != got {
		t.Errorf("nil should convert to the zero word, got %v", got)
	}
}

func TestWord_MarshalingRoundTrip(t *testing.T) {
	want := NewWord(0xDEAD, 0xBEEF)
	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("failed to marshal word: %v", err)
	}
	var got Word
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("failed to unmarshal word: %v", err)
	}
	if want != got {
		t.Errorf("round-trip failed, wanted %v, got %v", want, got)
	}
}

func TestWord_UnmarshalDetectsInvalidInput(t *testing.T) {
	tests := map[string]string{
		"missing prefix": "ff",
		"odd length":     "0xf",
		"not hex":        "0xzz",
		"too short":      "0x00",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			var word Word
			if err := word.UnmarshalText([]byte(input)); err == nil {
				t.Errorf("expected unmarshaling of %q to fail", input)
			}
		})
	}
}

func TestGetWriteKind_ClassifiesAllCombinations(t *testing.T) {
	tests := map[string]struct {
		status AccessStatus
		prior  Word
		want   WriteKind
	}{
		"cold-zero":    {ColdAccess, NewWord(), ColdZeroToNonzero},
		"cold-nonzero": {ColdAccess, NewWord(1), ColdNonzeroToNonzero},
		"warm-zero":    {WarmAccess, NewWord(), WarmZeroToNonzero},
		"warm-nonzero": {WarmAccess, NewWord(1), WarmNonzeroToNonzero},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, GetWriteKind(test.status, test.prior); want != got {
				t.Errorf("unexpected write kind, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestWriteKind_String(t *testing.T) {
	tests := map[WriteKind]string{
		ColdZeroToNonzero:    "ColdZeroToNonzero",
		ColdNonzeroToNonzero: "ColdNonzeroToNonzero",
		WarmZeroToNonzero:    "WarmZeroToNonzero",
		WarmNonzeroToNonzero: "WarmNonzeroToNonzero",
		WriteKind(42):        "WriteKind(42)",
	}
	for kind, want := range tests {
		if got := kind.String(); want != got {
			t.Errorf("unexpected print of %d, wanted %s, got %s", int(kind), want, got)
		}
	}
}

func TestGetAllWriteKinds_CoversEveryKindOnce(t *testing.T) {
	seen := map[WriteKind]bool{}
	for _, kind := range GetAllWriteKinds() {
		if seen[kind] {
			t.Errorf("kind %v listed twice", kind)
		}
		seen[kind] = true
	}
	if want, got := 4, len(seen); want != got {
		t.Errorf("expected %d kinds, got %d", want, got)
	}
}
