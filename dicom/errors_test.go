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
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_Error(t *testing.T) {
	testCases := []struct {
		err      *Error
		expected string
	}{
		{
			&Error{Kind: ErrUnknownTransferSyntax, Err: fmt.Errorf("uid %q", "1.2")},
			`unknown transfer syntax: uid "1.2"`,
		},
		{
			newError(ErrUnknownVRCode, PatientNameTag, 10, "code 0x%02X%02X", 'Z', 'Z'),
			"unknown vr code: element (0010,0010) at offset 10: code 0x5A5A",
		},
		{
			newError(ErrDuplicateTag, PatientIDTag, 0, ""),
			"duplicate tag: element (0010,0020) at offset 0",
		},
	}

	for _, tc := range testCases {
		if got := tc.err.Error(); got != tc.expected {
			t.Errorf("got %q, want %q", got, tc.expected)
		}
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	err := fmt.Errorf("decoding file: %w", decodeError(io.ErrUnexpectedEOF, PatientNameTag, 4, "reading value"))

	if !errors.Is(err, ErrTruncatedStream) {
		t.Errorf("errors.Is(%v, ErrTruncatedStream) = false", err)
	}
	if errors.Is(err, ErrMalformedSequence) {
		t.Errorf("errors.Is(%v, ErrMalformedSequence) = true", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("errors.Is(%v, io.ErrUnexpectedEOF) = false", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("errors.As(%v, *Error) = false", err)
	}
	if e.Tag != PatientNameTag || e.Offset != 4 {
		t.Errorf("got tag %v offset %d, want %v offset %d", e.Tag, e.Offset, PatientNameTag, 4)
	}
}

func TestDecodeError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind error
	}{
		{"region overrun", errRegionOverrun, ErrLengthExceedsBounds},
		{"unexpected EOF", io.ErrUnexpectedEOF, ErrTruncatedStream},
		{"EOF", io.EOF, ErrTruncatedStream},
		{"existing error", newError(ErrOddLengthUnpadded, PatientIDTag, 0, ""), ErrOddLengthUnpadded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checkKind(t, decodeError(tc.err, PatientIDTag, 0, "reading"), tc.kind)
		})
	}

	other := errors.New("disk on fire")
	if err := decodeError(other, PatientIDTag, 0, "reading"); !errors.Is(err, other) {
		t.Errorf("got %v, want it to wrap %v", err, other)
	}
	checkKind(t, headerError(errRegionOverrun, PatientIDTag, 0, "reading tag"), ErrMalformedSequence)
}
