// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dicom

import (
	"encoding/binary"
	"testing"
)

func TestResolveTransferSyntax(t *testing.T) {
	testCases := []struct {
		uid          string
		order        binary.ByteOrder
		implicit     bool
		deflated     bool
		encapsulated bool
	}{
		{ImplicitVRLittleEndianUID, binary.LittleEndian, true, false, false},
		{ImplicitVRLittleEndianUID + "\x00", binary.LittleEndian, true, false, false},
		{ExplicitVRLittleEndianUID, binary.LittleEndian, false, false, false},
		{ExplicitVRLittleEndianUID + " ", binary.LittleEndian, false, false, false},
		{ExplicitVRBigEndianUID, binary.BigEndian, false, false, false},
		{DeflatedExplicitVRLittleEndianUID, binary.LittleEndian, false, true, false},
		{JPEGBaselineUID, binary.LittleEndian, false, false, true},
		{JPEG2000LosslessUID, binary.LittleEndian, false, false, true},
		{HTJ2KUID, binary.LittleEndian, false, false, true},
		{RLELosslessUID, binary.LittleEndian, false, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.uid, func(t *testing.T) {
			ts, err := ResolveTransferSyntax(tc.uid)
			if err != nil {
				t.Fatalf("ResolveTransferSyntax(%q): unexpected error %v", tc.uid, err)
			}
			if ts.ByteOrder != tc.order || ts.Implicit != tc.implicit || ts.Deflated != tc.deflated ||
				ts.Encapsulated != tc.encapsulated {
				t.Fatalf("ResolveTransferSyntax(%q): got %+v", tc.uid, ts)
			}
		})
	}
}

func TestResolveTransferSyntax_unknown(t *testing.T) {
	for _, uid := range []string{"", "1.2.3", "1.2.840.10008.1.2.1.98"} {
		_, err := ResolveTransferSyntax(uid)
		checkKind(t, err, ErrUnknownTransferSyntax)
	}
}

func TestResolveTransferSyntax_customRegistry(t *testing.T) {
	private := TransferSyntax{UID: "1.3.6.1.4.1.99.1", ByteOrder: binary.LittleEndian, Implicit: true}
	registry := transferSyntaxMap{private.UID: private}

	ts, err := resolveTransferSyntax(registry, private.UID)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if ts != private {
		t.Fatalf("got %v, want %v", ts, private)
	}
	if _, err := resolveTransferSyntax(registry, ExplicitVRLittleEndianUID); err == nil {
		t.Fatalf("expected error for a syntax missing from the registry")
	}
}

func TestTransferSyntax_String(t *testing.T) {
	if got, want := ExplicitVRLittleEndian.String(), "Explicit VR Little Endian (1.2.840.10008.1.2.1)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := (TransferSyntax{UID: "1.2.3"}).String(), "1.2.3"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWireSyntax_elementSize(t *testing.T) {
	testCases := []struct {
		syntax   TransferSyntax
		vr       *VR
		expected uint32
	}{
		{ExplicitVRLittleEndian, PNVR, 8},
		{ExplicitVRLittleEndian, OBVR, 12},
		{ExplicitVRBigEndian, SQVR, 12},
		{ImplicitVRLittleEndian, PNVR, 8},
		{ImplicitVRLittleEndian, OBVR, 8},
	}

	for _, tc := range testCases {
		s := newWireSyntax(tc.syntax, newOptions())
		if got := s.elementSize(tc.vr, 0); got != tc.expected {
			t.Errorf("%v elementSize(%v): got %d, want %d", tc.syntax, tc.vr, got, tc.expected)
		}
	}
}
