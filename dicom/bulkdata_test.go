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
	"bytes"
	"reflect"
	"testing"
)

var encapsulatedHeader = []byte{0xE0, 0x7F, 0x10, 0x00, 'O', 'B', 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}

func TestReadEncapsulatedPixelData(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    []byte
		expected [][]byte
	}{
		{
			"empty offset table",
			concat(encapsulatedHeader, itemHeader(0), itemHeader(4), []byte{1, 2, 3, 4}, sequenceDelimitation),
			[][]byte{{}, {1, 2, 3, 4}},
		},
		{
			"offset table",
			concat(encapsulatedHeader,
				itemHeader(8), []byte{0, 0, 0, 0, 10, 0, 0, 0},
				itemHeader(2), []byte{1, 2},
				itemHeader(2), []byte{3, 4},
				sequenceDelimitation),
			[][]byte{{0, 0, 0, 0, 10, 0, 0, 0}, {1, 2}, {3, 4}},
		},
		{
			"no fragments",
			concat(encapsulatedHeader, sequenceDelimitation),
			[][]byte{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			element, err := decodeElement(tc.bytes, ExplicitVRLittleEndian)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			pixelData, err := element.Encapsulated()
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !reflect.DeepEqual(pixelData.Fragments, tc.expected) {
				t.Fatalf("got %v, want %v", pixelData.Fragments, tc.expected)
			}
		})
	}
}

func TestReadEncapsulatedPixelData_bigEndian(t *testing.T) {
	// fragments are framed in the byte order of the syntax and never byte swapped
	b := []byte{
		0x7F, 0xE0, 0x00, 0x10, 'O', 'W', 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFE, 0xE0, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xFF, 0xFE, 0xE0, 0x00, 0x00, 0x00, 0x00, 0x04, 1, 2, 3, 4,
		0xFF, 0xFE, 0xE0, 0xDD, 0x00, 0x00, 0x00, 0x00,
	}
	element, err := decodeElement(b, ExplicitVRBigEndian)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	expected := &EncapsulatedPixelData{Fragments: [][]byte{{}, {1, 2, 3, 4}}}
	if !expected.Equal(element.ValueField.(*EncapsulatedPixelData)) {
		t.Fatalf("got %v, want %v", element.ValueField, expected)
	}

	encoded, err := encodeElement(element, ExplicitVRBigEndian)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !bytes.Equal(encoded, b) {
		t.Fatalf("got % x, want % x", encoded, b)
	}
}

func TestReadEncapsulatedPixelData_errors(t *testing.T) {
	testCases := []struct {
		name  string
		bytes []byte
		kind  error
	}{
		{
			"missing delimiter",
			concat(encapsulatedHeader, itemHeader(0)),
			ErrTruncatedStream,
		},
		{
			"truncated fragment",
			concat(encapsulatedHeader, itemHeader(0), itemHeader(4), []byte{1, 2}),
			ErrTruncatedStream,
		},
		{
			"fragment of undefined length",
			concat(encapsulatedHeader, itemHeader(UndefinedLength)),
			ErrMalformedSequence,
		},
		{
			"fragment of odd length",
			concat(encapsulatedHeader, itemHeader(3), []byte{1, 2, 3}, sequenceDelimitation),
			ErrOddLengthUnpadded,
		},
		{
			"element instead of fragment",
			concat(encapsulatedHeader, referencedInstance, sequenceDelimitation),
			ErrMalformedSequence,
		},
		{
			"item delimitation item",
			concat(encapsulatedHeader, itemDelimitation),
			ErrMalformedSequence,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeElement(tc.bytes, ExplicitVRLittleEndian)
			checkKind(t, err, tc.kind)
		})
	}
}

func TestWriteEncapsulatedPixelData(t *testing.T) {
	testCases := []struct {
		name     string
		element  *DataElement
		expected []byte
	}{
		{
			"odd fragment padded",
			NewEncapsulatedElement(PixelDataTag, OBVR, nil, []byte{1, 2, 3}),
			concat(encapsulatedHeader, itemHeader(0), itemHeader(4), []byte{1, 2, 3, 0}, sequenceDelimitation),
		},
		{
			"offset table",
			NewEncapsulatedElement(PixelDataTag, OBVR, []byte{0, 0, 0, 0}, []byte{1, 2}),
			concat(encapsulatedHeader, itemHeader(4), []byte{0, 0, 0, 0}, itemHeader(2), []byte{1, 2}, sequenceDelimitation),
		},
		{
			"no fragments",
			&DataElement{Tag: PixelDataTag, VR: OBVR, ValueField: &EncapsulatedPixelData{}},
			concat(encapsulatedHeader, itemHeader(0), sequenceDelimitation),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := encodeElement(tc.element, ExplicitVRLittleEndian)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !bytes.Equal(b, tc.expected) {
				t.Fatalf("got % x, want % x", b, tc.expected)
			}
		})
	}
}

func TestEncapsulatedSize(t *testing.T) {
	for _, pixelData := range []*EncapsulatedPixelData{
		{},
		{Fragments: [][]byte{{}}},
		{Fragments: [][]byte{{}, {1, 2, 3}, {4, 5}}},
	} {
		var buf bytes.Buffer
		if err := writeEncapsulatedPixelData(newDcmWriter(&buf), ExplicitVRLittleEndian.ByteOrder, PixelDataTag, pixelData); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if got := encapsulatedSize(pixelData); got != int64(buf.Len()) {
			t.Errorf("encapsulatedSize(%v): got %d, want %d", pixelData, got, buf.Len())
		}
	}
}

func TestParseBasicOffsetTable(t *testing.T) {
	offsets, err := ParseBasicOffsetTable([]byte{0, 0, 0, 0, 0x10, 0x27, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if want := []uint32{0, 10000}; !reflect.DeepEqual(offsets, want) {
		t.Fatalf("got %v, want %v", offsets, want)
	}

	if _, err := ParseBasicOffsetTable([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for table of 3 bytes")
	}
}

func TestEncapsulatedPixelData_accessors(t *testing.T) {
	pixelData := &EncapsulatedPixelData{Fragments: [][]byte{{0, 0, 0, 0}, {1, 2}, {3, 4}}}
	if got := pixelData.BasicOffsetTable(); !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("BasicOffsetTable(): got %v", got)
	}
	if got := pixelData.DataFragments(); !reflect.DeepEqual(got, [][]byte{{1, 2}, {3, 4}}) {
		t.Errorf("DataFragments(): got %v", got)
	}

	empty := &EncapsulatedPixelData{}
	if empty.BasicOffsetTable() != nil || empty.DataFragments() != nil {
		t.Errorf("got %v and %v for empty pixel data, want nil", empty.BasicOffsetTable(), empty.DataFragments())
	}
}
