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
)

// Kinds of errors reported by the codec. An *Error returned from a decode or encode operation
// matches exactly one of these with errors.Is.
var (
	ErrUnknownTransferSyntax = errors.New("unknown transfer syntax")
	ErrUnknownVRCode         = errors.New("unknown vr code")
	ErrTruncatedStream       = errors.New("truncated stream")
	ErrLengthExceedsBounds   = errors.New("length exceeds bounds")
	ErrMalformedSequence     = errors.New("malformed sequence")
	ErrOddLengthUnpadded     = errors.New("odd length unpadded")
	ErrUndefinedLength       = errors.New("undefined length not allowed")
	ErrValueTooLong          = errors.New("value too long")
	ErrNestingTooDeep        = errors.New("nesting too deep")
	ErrDuplicateTag          = errors.New("duplicate tag")
	ErrMissingVR             = errors.New("missing vr")
	ErrUnsupportedValue      = errors.New("unsupported value")

	// ErrUndictionariedTag, ErrVRMismatch and ErrReservedNotZero are advisories. They are passed
	// to the warning handler and never returned from a decode or encode operation.
	ErrUndictionariedTag = errors.New("undictionaried tag")
	ErrVRMismatch        = errors.New("vr mismatch")
	ErrReservedNotZero   = errors.New("reserved field not zero")
)

// Error describes a failure of the codec at a specific data element.
type Error struct {
	// Kind is one of the Err* values of this package
	Kind error

	// Tag is the tag of the offending data element. It is 0 if the failure happened before the tag
	// was read.
	Tag DataElementTag

	// Offset is the number of bytes of the stream preceding the offending data element header
	Offset int64

	// Err holds the detail of the failure, if any
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v", e.Kind)
	if e.Tag != 0 || e.Offset != 0 {
		msg += fmt.Sprintf(": element %v at offset %d", e.Tag, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the Kind of e
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, tag DataElementTag, offset int64, format string, a ...interface{}) *Error {
	var detail error
	if format != "" {
		detail = fmt.Errorf(format, a...)
	}
	return &Error{Kind: kind, Tag: tag, Offset: offset, Err: detail}
}

// errRegionOverrun is returned by a bounded dcmReader when a read would cross the end of its
// region
var errRegionOverrun = errors.New("read crosses end of enclosing region")

// decodeError converts an error of the underlying dcmReader into an *Error. Errors that already
// are an *Error are returned unchanged.
func decodeError(err error, tag DataElementTag, offset int64, doing string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, errRegionOverrun):
		return &Error{ErrLengthExceedsBounds, tag, offset, fmt.Errorf("%s: %w", doing, err)}
	case err == io.EOF, errors.Is(err, io.ErrUnexpectedEOF):
		return &Error{ErrTruncatedStream, tag, offset, fmt.Errorf("%s: %w", doing, err)}
	default:
		return fmt.Errorf("%s of element %v at offset %d: %w", doing, tag, offset, err)
	}
}

// headerError is decodeError for the fields of a header (tag, VR, length). A header crossing the
// end of a bounded region means the region does not end at an element boundary.
func headerError(err error, tag DataElementTag, offset int64, doing string) error {
	if errors.Is(err, errRegionOverrun) {
		return &Error{ErrMalformedSequence, tag, offset, fmt.Errorf("%s: %w", doing, err)}
	}
	return decodeError(err, tag, offset, doing)
}

// encodeError converts an error of the underlying io.Writer into an error carrying tag and offset
func encodeError(err error, tag DataElementTag, offset int64, doing string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return fmt.Errorf("%s of element %v at offset %d: %w", doing, tag, offset, err)
}
