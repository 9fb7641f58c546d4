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
	"fmt"
	"io"
)

// EncapsulatedPixelData represents image pixel data in encapsulated format as described in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4.
//
// Fragments holds the content of each fragment item in stream order. The first fragment is the
// Basic Offset Table, which is empty when the table is absent. Fragments are opaque to the codec.
type EncapsulatedPixelData struct {
	Fragments [][]byte
}

// BasicOffsetTable returns the first fragment, or nil if there are no fragments
func (p *EncapsulatedPixelData) BasicOffsetTable() []byte {
	if len(p.Fragments) == 0 {
		return nil
	}
	return p.Fragments[0]
}

// DataFragments returns the fragments following the Basic Offset Table
func (p *EncapsulatedPixelData) DataFragments() [][]byte {
	if len(p.Fragments) < 2 {
		return nil
	}
	return p.Fragments[1:]
}

// Equal reports whether both hold the same fragments
func (p *EncapsulatedPixelData) Equal(other *EncapsulatedPixelData) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.Fragments) != len(other.Fragments) {
		return false
	}
	for i := range p.Fragments {
		if !bytes.Equal(p.Fragments[i], other.Fragments[i]) {
			return false
		}
	}
	return true
}

func (p *EncapsulatedPixelData) String() string {
	sizes := make([]int, len(p.Fragments))
	for i, f := range p.Fragments {
		sizes[i] = len(f)
	}
	return fmt.Sprintf("%d fragment(s) of sizes %v", len(p.Fragments), sizes)
}

// ParseBasicOffsetTable returns the frame offsets stored in a Basic Offset Table. The offsets are
// relative to the first byte of the item tag of the first fragment following the table.
func ParseBasicOffsetTable(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("basic offset table length %d is not a multiple of 4", len(b))
	}
	offsets := make([]uint32, len(b)/4)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return offsets, nil
}

// readEncapsulatedPixelData reads the fragment items following the header of an OB or OW element
// of undefined length until the Sequence Delimitation Item. Fragment items are framed in the byte
// order of the transfer syntax and their content is never byte swapped.
func readEncapsulatedPixelData(dr *dcmReader, tag DataElementTag, offset int64, md dicomMetaData) (*EncapsulatedPixelData, error) {
	md.opts.logger.Debug().Str("tag", tag.String()).Msg("reading encapsulated pixel data")

	order := md.byteOrder()
	pixelData := &EncapsulatedPixelData{Fragments: [][]byte{}}
	for {
		itemOffset := dr.Offset()
		itemTag, length, err := readItemHeader(dr, order)
		if err == io.EOF {
			return nil, unterminated(dr, tag, itemOffset, "encapsulated pixel data")
		}
		if err != nil {
			return nil, headerError(err, tag, itemOffset, "reading fragment header")
		}

		switch itemTag {
		case ItemTag:
			if length == UndefinedLength {
				return nil, newError(ErrMalformedSequence, tag, itemOffset, "fragment of undefined length")
			}
			if length%2 != 0 && !md.opts.allowOddLengths {
				return nil, newError(ErrOddLengthUnpadded, tag, itemOffset, "fragment of length %d", length)
			}
			fragment, err := dr.Bytes(int64(length))
			if err != nil {
				return nil, decodeError(err, tag, itemOffset, "reading fragment")
			}
			pixelData.Fragments = append(pixelData.Fragments, fragment)
		case SequenceDelimitationItemTag:
			if length != 0 {
				return nil, newError(ErrMalformedSequence, tag, itemOffset,
					"sequence delimitation item of length %d", length)
			}
			return pixelData, nil
		default:
			return nil, newError(ErrMalformedSequence, tag, itemOffset,
				"found %v where a fragment was expected", itemTag)
		}
	}
}

// writeEncapsulatedPixelData writes the fragments in the encapsulated format. The first fragment
// is assumed to be the basic offset table. Fragments of odd length are padded with a NUL byte.
func writeEncapsulatedPixelData(dw *dcmWriter, order binary.ByteOrder, tag DataElementTag, pixelData *EncapsulatedPixelData) error {
	fragments := pixelData.Fragments
	if len(fragments) == 0 {
		// the Basic Offset Table item is mandatory, even when empty
		fragments = [][]byte{{}}
	}

	for _, fragment := range fragments {
		length := padLength(len(fragment))
		if err := dw.Item(order, ItemTag, uint32(length)); err != nil {
			return encodeError(err, tag, dw.Offset(), "writing fragment header")
		}
		if err := dw.Bytes(fragment); err != nil {
			return encodeError(err, tag, dw.Offset(), "writing fragment")
		}
		if length != len(fragment) {
			if err := dw.Bytes([]byte{0x00}); err != nil {
				return encodeError(err, tag, dw.Offset(), "writing fragment padding")
			}
		}
	}

	if err := dw.Delimiter(order, SequenceDelimitationItemTag); err != nil {
		return encodeError(err, tag, dw.Offset(), "writing fragment delimitation tag")
	}
	return nil
}

// encapsulatedSize returns the number of bytes written by writeEncapsulatedPixelData
func encapsulatedSize(pixelData *EncapsulatedPixelData) int64 {
	size := int64(0)
	fragments := pixelData.Fragments
	if len(fragments) == 0 {
		fragments = [][]byte{{}}
	}
	for _, fragment := range fragments {
		size += tagSize + 4 + int64(padLength(len(fragment)))
	}
	return size + tagSize + 4 /*sequence delimitation item*/
}

func padLength(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}
