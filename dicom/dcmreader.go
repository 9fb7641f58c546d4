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
	"encoding/binary"
	"io"
)

// unbounded is the end of a region without a defined length
const unbounded = -1

// dcmReader is a wrapper around io.Reader, providing convenience methods for
// parsing tags, numbers and bytes. A dcmReader reads a region of the stream: either the remainder
// of the stream or a defined number of bytes (e.g. a sequence item of defined length).
type dcmReader struct {
	cr *countReader

	// end is the offset at which the region ends or unbounded
	end int64
}

func newDcmReader(r io.Reader) *dcmReader {
	return &dcmReader{&countReader{r, 0}, unbounded}
}

// Limit returns a dcmReader that shares the same underlying io.Reader and returns io.EOF after
// reading n bytes. It fails with errRegionOverrun if n exceeds the bytes remaining in the region
// of dr.
func (dr *dcmReader) Limit(n int64) (*dcmReader, error) {
	end := dr.cr.bytesRead + n
	if dr.end != unbounded && end > dr.end {
		return nil, errRegionOverrun
	}
	return &dcmReader{dr.cr, end}, nil
}

// Offset returns the number of bytes consumed from the underlying stream
func (dr *dcmReader) Offset() int64 {
	return dr.cr.bytesRead
}

// Remaining returns the number of bytes left in the region or unbounded
func (dr *dcmReader) Remaining() int64 {
	if dr.end == unbounded {
		return unbounded
	}
	return dr.end - dr.cr.bytesRead
}

func (dr *dcmReader) bounded() bool {
	return dr.end != unbounded
}

// fill reads exactly len(p) bytes. io.EOF is returned if and only if the region ended before the
// first byte. Reading across the end of a bounded region fails with errRegionOverrun, and an
// underlying stream that ends early fails with io.ErrUnexpectedEOF.
func (dr *dcmReader) fill(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if dr.end != unbounded {
		remaining := dr.end - dr.cr.bytesRead
		if remaining <= 0 {
			return io.EOF
		}
		if int64(len(p)) > remaining {
			return errRegionOverrun
		}
	}

	_, err := io.ReadFull(dr.cr, p)
	if err == io.EOF && dr.end != unbounded {
		return io.ErrUnexpectedEOF
	}
	return err
}

// fillValue is fill for fields that follow the tag of an element, where the end of the region is
// never a clean end
func (dr *dcmReader) fillValue(p []byte) error {
	err := dr.fill(p)
	if err == io.EOF {
		if dr.bounded() {
			return errRegionOverrun
		}
		return io.ErrUnexpectedEOF
	}
	return err
}

// Tag returns the next tag of the input stream. It returns io.EOF at the end of the region.
func (dr *dcmReader) Tag(order binary.ByteOrder) (DataElementTag, error) {
	var b [4]byte
	if err := dr.fill(b[:]); err != nil {
		return 0, err
	}
	return NewTag(order.Uint16(b[0:2]), order.Uint16(b[2:4])), nil
}

// Bytes returns a byte array of size n from the input stream
func (dr *dcmReader) Bytes(n int64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if dr.bounded() && n > dr.Remaining() {
		return nil, errRegionOverrun
	}

	// grow the buffer with the bytes actually read instead of allocating a length taken from the
	// stream up front
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, dr.cr, n)
	if got != n {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// UInt32 returns a uint32 from the input stream
func (dr *dcmReader) UInt32(order binary.ByteOrder) (uint32, error) {
	var b [4]byte
	if err := dr.fillValue(b[:]); err != nil {
		return 0, err
	}
	return order.Uint32(b[:]), nil
}

// UInt16 returns a uint16 from the input stream
func (dr *dcmReader) UInt16(order binary.ByteOrder) (uint16, error) {
	var b [2]byte
	if err := dr.fillValue(b[:]); err != nil {
		return 0, err
	}
	return order.Uint16(b[:]), nil
}

// countReader is an io.Reader that counts how many bytes read
type countReader struct {
	r         io.Reader
	bytesRead int64 // number of bytes read
}

func (cr *countReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.bytesRead += int64(n)
	return n, err
}
