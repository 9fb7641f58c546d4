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
	"io"
)

// decodedElement is a DataElement with the offset of its header in the stream
type decodedElement struct {
	*DataElement
	offset int64
}

// readDataElement reads the next data element of the region of dr. It returns io.EOF at the end
// of the region. Delimitation items (and stray item tags) are returned as elements with a nil VR
// for the caller to interpret.
func readDataElement(dr *dcmReader, md dicomMetaData) (*decodedElement, error) {
	order := md.byteOrder()
	offset := dr.Offset()

	tag, err := dr.Tag(order)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, headerError(err, 0, offset, "reading tag")
	}

	if tag.IsDelimiter() {
		return readDelimiter(dr, tag, offset, order)
	}

	vr, err := md.syntax.readVR(dr, tag, offset)
	if err != nil {
		return nil, err
	}

	length, err := md.syntax.readValueLength(dr, tag, offset, vr)
	if err != nil {
		return nil, headerError(err, tag, offset, "reading length")
	}

	value, err := readValue(dr, tag, offset, vr, length, md)
	if err != nil {
		return nil, err
	}

	return &decodedElement{&DataElement{tag, vr, value, length}, offset}, nil
}

// readDelimiter reads the length following an item or delimiter tag. The tags of group FFFE
// carry no VR in any transfer syntax.
func readDelimiter(dr *dcmReader, tag DataElementTag, offset int64, order binary.ByteOrder) (*decodedElement, error) {
	length, err := dr.UInt32(order)
	if err != nil {
		return nil, headerError(err, tag, offset, "reading delimiter length")
	}
	if tag != ItemTag && length != 0 {
		return nil, newError(ErrMalformedSequence, tag, offset, "wrong length for delimiter. got %v, want %v", length, 0)
	}
	return &decodedElement{&DataElement{Tag: tag, ValueLength: length}, offset}, nil
}

func readValue(dr *dcmReader, tag DataElementTag, offset int64, vr *VR, length uint32, md dicomMetaData) (interface{}, error) {
	if length == UndefinedLength {
		if !vr.allowsUndefinedLength() {
			return nil, newError(ErrUndefinedLength, tag, offset, "vr %v", vr)
		}
		switch {
		case vr.kind == sequenceVR:
			return readSequence(dr, tag, offset, length, md)
		case vr == UNVR:
			// Specified in http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.2
			// an undefined length UN element is a sequence encoded in implicit VR little endian
			return readSequence(dr, tag, offset, length, md.implicitLittleEndian())
		default:
			// Specified in http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
			// undefined length OB or OW means pixel data in encapsulated (compressed) format
			return readEncapsulatedPixelData(dr, tag, offset, md)
		}
	}

	if length%2 != 0 && !md.opts.allowOddLengths {
		return nil, newError(ErrOddLengthUnpadded, tag, offset, "length %d of vr %v", length, vr)
	}

	if vr.kind == sequenceVR {
		return readSequence(dr, tag, offset, length, md)
	}

	b, err := dr.Bytes(int64(length))
	if err != nil {
		return nil, decodeError(err, tag, offset, "reading value")
	}

	if vr.isText() && len(b) > 0 && b[len(b)-1] == vr.Padding {
		b = b[:len(b)-1]
	}
	if md.byteOrder() != binary.LittleEndian {
		swapBytes(b, vr.wordSize)
	}

	return b, nil
}

// swapBytes reverses the order of bytes within each word of size wordSize in place. This converts
// binary values between big endian and little endian.
func swapBytes(b []byte, wordSize int) {
	if wordSize < 2 {
		return
	}
	for i := 0; i+wordSize <= len(b); i += wordSize {
		word := b[i : i+wordSize]
		for j, k := 0, wordSize-1; j < k; j, k = j+1, k-1 {
			word[j], word[k] = word[k], word[j]
		}
	}
}
