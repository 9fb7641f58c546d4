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
	"math"
)

// maxDefinedLength is the largest value of a 32 bit length field, as 0xFFFFFFFF is reserved for
// undefined length
const maxDefinedLength = UndefinedLength - 1

// maxShortLength is the largest even value of a 16 bit length field
const maxShortLength = math.MaxUint16 - 1

func writeDataElement(dw *dcmWriter, md dicomMetaData, element *DataElement) error {
	offset := dw.Offset()
	if element == nil {
		return newError(ErrUnsupportedValue, 0, offset, "nil element")
	}
	if element.Tag.IsDelimiter() {
		return newError(ErrUnsupportedValue, element.Tag, offset, "delimitation items are written by the codec")
	}

	vr, err := elementVR(md, element, offset)
	if err != nil {
		return err
	}
	order := md.byteOrder()

	if err := dw.Tag(order, element.Tag); err != nil {
		return encodeError(err, element.Tag, offset, "writing tag")
	}
	if err := md.syntax.writeVR(dw, vr); err != nil {
		return encodeError(err, element.Tag, offset, "writing vr")
	}

	switch v := elementValue(element, vr).(type) {
	case *Sequence:
		return writeSequenceElement(dw, md, element.Tag, vr, v, element.ValueLength, offset)
	case *EncapsulatedPixelData:
		if vr != OBVR && vr != OWVR {
			return newError(ErrUnsupportedValue, element.Tag, offset, "encapsulated pixel data with vr %v", vr)
		}
		if err := md.syntax.writeValueLength(dw, vr, UndefinedLength); err != nil {
			return encodeError(err, element.Tag, offset, "writing length")
		}
		return writeEncapsulatedPixelData(dw, order, element.Tag, v)
	case []byte, nil:
		b, _ := v.([]byte)
		if vr.kind == sequenceVR {
			return newError(ErrUnsupportedValue, element.Tag, offset, "bytes value for vr %v", vr)
		}
		length, err := valueLength(md, vr, len(b), element.Tag, offset)
		if err != nil {
			return err
		}
		if err := md.syntax.writeValueLength(dw, vr, length); err != nil {
			return encodeError(err, element.Tag, offset, "writing length")
		}
		return writeValue(dw, order, vr, b, length, element.Tag, offset)
	default:
		return newError(ErrUnsupportedValue, element.Tag, offset, "value field of type %T", element.ValueField)
	}
}

// elementValue returns the value field of element, with an empty Sequence for a sequence
// element that has no value
func elementValue(element *DataElement, vr *VR) interface{} {
	if element.ValueField == nil && vr.kind == sequenceVR {
		return &Sequence{}
	}
	return element.ValueField
}

// elementVR returns the VR used to encode element and reports an ErrVRMismatch advisory if
// requested
func elementVR(md dicomMetaData, element *DataElement, offset int64) (*VR, error) {
	vr, err := resolveVR(md, element, offset)
	if err != nil {
		return nil, err
	}
	if md.syntax.isImplicit() && md.opts.checkImplicitVRs && element.VR != nil {
		if entry, ok := md.opts.dictionary.ByTag(element.Tag); ok && !entry.allows(vr) {
			md.opts.warn(newError(ErrVRMismatch, element.Tag, offset, "got %v, dictionary has %v", vr, entry.VR))
		}
	}
	return vr, nil
}

// resolveVR returns the VR used to encode element. In the explicit VR syntaxes the VR must be
// given. In the implicit VR syntax a missing VR is taken from the dictionary.
func resolveVR(md dicomMetaData, element *DataElement, offset int64) (*VR, error) {
	if element.VR != nil {
		return element.VR, nil
	}
	if !md.syntax.isImplicit() {
		return nil, newError(ErrMissingVR, element.Tag, offset, "")
	}
	if entry, ok := md.opts.dictionary.ByTag(element.Tag); ok && entry.VR != nil {
		return entry.VR, nil
	}
	return UNVR, nil
}

// valueLength returns the length field of a value of n bytes, padded to even length
func valueLength(md dicomMetaData, vr *VR, n int, tag DataElementTag, offset int64) (uint32, error) {
	length := int64(padLength(n))
	limit := int64(maxDefinedLength)
	if !md.syntax.isImplicit() && vr.HeaderClass == Short8 {
		limit = maxShortLength
	}
	if length > limit {
		return 0, newError(ErrValueTooLong, tag, offset, "%d bytes for vr %v", length, vr)
	}
	return uint32(length), nil
}

// writeValue writes b followed by the padding byte of vr if b has odd length. Binary values are
// held in little endian and converted to the byte order of the syntax.
func writeValue(dw *dcmWriter, order binary.ByteOrder, vr *VR, b []byte, length uint32, tag DataElementTag, offset int64) error {
	if order != binary.LittleEndian && vr.wordSize > 1 {
		swapped := append([]byte(nil), b...)
		swapBytes(swapped, vr.wordSize)
		b = swapped
	}
	if err := dw.Bytes(b); err != nil {
		return encodeError(err, tag, offset, "writing value")
	}
	if uint32(len(b)) != length {
		if err := dw.Bytes([]byte{vr.Padding}); err != nil {
			return encodeError(err, tag, offset, "writing padding")
		}
	}
	return nil
}

func writeSequenceElement(dw *dcmWriter, md dicomMetaData, tag DataElementTag, vr *VR, seq *Sequence, valueLength uint32, offset int64) error {
	switch {
	case vr == UNVR:
		// a sequence held by UN is always of undefined length in implicit VR little endian
		// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.2
		if err := md.syntax.writeValueLength(dw, vr, UndefinedLength); err != nil {
			return encodeError(err, tag, offset, "writing length")
		}
		return writeSequence(dw, md.implicitLittleEndian(), tag, seq, true)
	case vr.kind != sequenceVR:
		return newError(ErrUnsupportedValue, tag, offset, "sequence value for vr %v", vr)
	}

	undefined := md.opts.undefinedSequence(&DataElement{Tag: tag, VR: vr, ValueField: seq, ValueLength: valueLength})
	length := uint32(UndefinedLength)
	if !undefined {
		size, err := sequenceContentSize(seq, md, tag)
		if err != nil {
			return err
		}
		length = size
	}

	if err := md.syntax.writeValueLength(dw, vr, length); err != nil {
		return encodeError(err, tag, offset, "writing length")
	}
	return writeSequence(dw, md, tag, seq, undefined)
}

// writeDataSet writes the elements of ds in order, applying the group length policy
func writeDataSet(dw *dcmWriter, md dicomMetaData, ds *DataSet) error {
	for _, element := range ds.elements {
		if !md.keep(element) {
			continue
		}
		if element.Tag.IsGroupLength() && md.opts.groupLengths == RecomputeGroupLengths {
			recomputed, err := groupLengthElement(ds, element, md)
			if err != nil {
				return err
			}
			element = recomputed
		}
		if err := writeDataElement(dw, md, element); err != nil {
			return err
		}
	}
	return nil
}

// encodedElementSize returns the number of bytes writeDataElement writes for element, including
// the header and the delimitation items of undefined length values
func encodedElementSize(element *DataElement, md dicomMetaData) (int64, error) {
	vr, err := resolveVR(md, element, 0)
	if err != nil {
		return 0, err
	}
	header := int64(md.syntax.elementSize(vr, 0))

	switch v := elementValue(element, vr).(type) {
	case *Sequence:
		if vr == UNVR {
			content, err := sequenceSize(v, md.implicitLittleEndian(), element.Tag, true)
			return header + content, err
		}
		undefined := md.opts.undefinedSequence(element)
		content, err := sequenceSize(v, md, element.Tag, undefined)
		return header + content, err
	case *EncapsulatedPixelData:
		return header + encapsulatedSize(v), nil
	case []byte:
		return header + int64(padLength(len(v))), nil
	case nil:
		return header, nil
	default:
		return 0, newError(ErrUnsupportedValue, element.Tag, 0, "value field of type %T", element.ValueField)
	}
}

// sequenceSize returns the number of bytes of the items of seq, plus the sequence delimitation
// item if undefined
func sequenceSize(seq *Sequence, md dicomMetaData, tag DataElementTag, undefined bool) (int64, error) {
	md, err := md.nested(tag, 0)
	if err != nil {
		return 0, err
	}

	size := int64(0)
	for _, item := range seq.Items {
		if item == nil {
			item = &DataSet{}
		}
		content, err := dataSetSize(item, md)
		if err != nil {
			return 0, err
		}
		size += tagSize + 4 /*32 bit length*/ + content
		if md.opts.undefinedItem(item) {
			size += tagSize + 4 /*item delimitation item*/
		}
	}
	if undefined {
		size += tagSize + 4 /*sequence delimitation item*/
	}
	return size, nil
}

// sequenceContentSize returns the defined length of a sequence
func sequenceContentSize(seq *Sequence, md dicomMetaData, tag DataElementTag) (uint32, error) {
	size, err := sequenceSize(seq, md, tag, false)
	if err != nil {
		return 0, err
	}
	if size > maxDefinedLength {
		return 0, newError(ErrValueTooLong, tag, 0, "sequence of %d bytes", size)
	}
	return uint32(size), nil
}

// itemContentSize returns the defined length of an item. md is the dicomMetaData of the elements
// of the item.
func itemContentSize(item *DataSet, md dicomMetaData) (uint32, error) {
	size, err := dataSetSize(item, md)
	if err != nil {
		return 0, err
	}
	if size > maxDefinedLength {
		return 0, newError(ErrValueTooLong, ItemTag, 0, "item of %d bytes", size)
	}
	return uint32(size), nil
}

func dataSetSize(ds *DataSet, md dicomMetaData) (int64, error) {
	size := int64(0)
	for _, element := range ds.elements {
		if !md.keep(element) {
			continue
		}
		elemSize, err := encodedElementSize(element, md)
		if err != nil {
			return 0, err
		}
		size += elemSize
	}
	return size, nil
}
