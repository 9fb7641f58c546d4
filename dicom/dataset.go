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
	"fmt"
	"sort"
	"strings"
)

// DataElement models a DICOM Data Element as defined in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataElement struct {
	Tag DataElementTag

	// Value Representation
	VR *VR

	// ValueField represents the field within a Data Element that contains its value(s)
	// Can be any of of the following types:
	// []byte, the value with the trailing padding byte removed. Multi-byte binary values are
	//   always little endian, whatever the byte order of the transfer syntax
	// *Sequence, for VR SQ, or for VR UN holding a sequence of undefined length
	// *EncapsulatedPixelData, for VR OB or OW holding compressed fragments
	ValueField interface{}

	// ValueLength is equal to the length of the ValueField in bytes as found on the wire.
	// Can be equal to 0xFFFFFFFF to represent an undefined length:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
	// When encoding, defined lengths are re-calculated and UndefinedLength selects the
	// delimited encoding of a sequence.
	ValueLength uint32
}

func (e *DataElement) String() string {
	return e.string(0)
}

func (e *DataElement) string(indentLvl int) string {
	indent := strings.Repeat("  ", indentLvl)
	vr := "??"
	if e.VR != nil {
		vr = e.VR.Name
	}

	length := fmt.Sprintf("%d", e.ValueLength)
	if e.ValueLength == UndefinedLength {
		length = "u/l"
	}

	var value string
	switch v := e.ValueField.(type) {
	case *Sequence:
		value = fmt.Sprintf("%d item(s)", len(v.Items)) + v.string(indentLvl)
	case *EncapsulatedPixelData:
		value = v.String()
	case []byte:
		value = formatValue(e.VR, v)
	default:
		value = fmt.Sprintf("%v", v)
	}

	return fmt.Sprintf("%s%v %s #%s %s", indent, e.Tag, vr, length, value)
}

// formatValue renders the start of a value for String
func formatValue(vr *VR, b []byte) string {
	const maxLen = 64

	if vr != nil && vr.isText() {
		s := string(b)
		if len(s) > maxLen {
			s = s[:maxLen] + "..."
		}
		return "[" + s + "]"
	}

	if len(b) > maxLen/2 {
		return fmt.Sprintf("% x ...", b[:maxLen/2])
	}
	return fmt.Sprintf("% x", b)
}

// equal reports whether e and other have the same tag, VR and value. Value lengths and the padding
// byte of odd length values are ignored. A sequence element without a value equals an empty
// sequence.
func (e *DataElement) equal(other *DataElement) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Tag != other.Tag || !sameVR(e.VR, other.VR) {
		return false
	}

	a, b := e.ValueField, other.ValueField
	if e.VR != nil {
		a, b = elementValue(e, e.VR), elementValue(other, other.VR)
	}

	switch v := a.(type) {
	case *Sequence:
		o, ok := b.(*Sequence)
		return ok && v.Equal(o)
	case *EncapsulatedPixelData:
		o, ok := b.(*EncapsulatedPixelData)
		return ok && v.Equal(o)
	case []byte, nil:
		if b != nil {
			if _, ok := b.([]byte); !ok {
				return false
			}
		}
		x, _ := a.([]byte)
		y, _ := b.([]byte)
		return bytes.Equal(logicalValue(e.VR, x), logicalValue(e.VR, y))
	}
	return false
}

// logicalValue returns b as written to the value field, padded to even length, without its
// trailing padding byte. Values that differ only by the padding chosen by the encoder compare
// equal.
func logicalValue(vr *VR, b []byte) []byte {
	if vr == nil || len(b) == 0 {
		return b
	}
	if len(b)%2 != 0 {
		return b
	}
	if b[len(b)-1] == vr.Padding {
		return b[:len(b)-1]
	}
	return b
}

func sameVR(a, b *VR) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name
}

// DataSet models a DICOM Data Set as defined
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
//
// A DataSet is an ordered collection of DataElements with unique tags. Elements are kept in the
// order in which they were added, which for a decoded DataSet is the order of the stream.
type DataSet struct {
	elements []*DataElement
	index    map[DataElementTag]int

	// Length is the length of the DataSet in bytes when it is an item of a sequence.
	// Can be equal to 0xFFFFFFFF to represent an undefined length.
	Length uint32
}

// NewDataSet returns a DataSet holding the given elements in order. It fails with ErrDuplicateTag
// if two elements share a tag.
func NewDataSet(elements ...*DataElement) (*DataSet, error) {
	ds := &DataSet{}
	for _, e := range elements {
		if err := ds.Add(e); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Add appends element to the DataSet. It fails with ErrDuplicateTag if the DataSet already holds an
// element with the same tag.
func (ds *DataSet) Add(element *DataElement) error {
	if element == nil {
		return fmt.Errorf("adding nil element")
	}
	if _, ok := ds.index[element.Tag]; ok {
		return &Error{Kind: ErrDuplicateTag, Tag: element.Tag}
	}
	ds.append(element)
	return nil
}

func (ds *DataSet) append(element *DataElement) {
	if ds.index == nil {
		ds.index = map[DataElementTag]int{}
	}
	ds.index[element.Tag] = len(ds.elements)
	ds.elements = append(ds.elements, element)
}

// Set replaces the element with the same tag in place, or appends element if there is none
func (ds *DataSet) Set(element *DataElement) {
	if i, ok := ds.index[element.Tag]; ok {
		ds.elements[i] = element
		return
	}
	ds.append(element)
}

// Get returns the element with the given tag
func (ds *DataSet) Get(tag DataElementTag) (*DataElement, bool) {
	i, ok := ds.index[tag]
	if !ok {
		return nil, false
	}
	return ds.elements[i], true
}

// Remove deletes the element with the given tag and reports whether it was present
func (ds *DataSet) Remove(tag DataElementTag) bool {
	i, ok := ds.index[tag]
	if !ok {
		return false
	}
	ds.elements = append(ds.elements[:i], ds.elements[i+1:]...)
	delete(ds.index, tag)
	for j := i; j < len(ds.elements); j++ {
		ds.index[ds.elements[j].Tag] = j
	}
	return true
}

// Len returns the number of elements in the DataSet
func (ds *DataSet) Len() int {
	return len(ds.elements)
}

// Elements returns the elements of the DataSet in insertion order
func (ds *DataSet) Elements() []*DataElement {
	return append([]*DataElement(nil), ds.elements...)
}

// SortedElements returns the elements of the DataSet in ascending tag order
func (ds *DataSet) SortedElements() []*DataElement {
	elements := ds.Elements()
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Tag < elements[j].Tag
	})
	return elements
}

// Tags returns the tags of the DataSet in insertion order
func (ds *DataSet) Tags() []DataElementTag {
	tags := make([]DataElementTag, len(ds.elements))
	for i, e := range ds.elements {
		tags[i] = e.Tag
	}
	return tags
}

// Equal reports whether ds and other hold structurally equal elements in the same order. Value
// lengths, item lengths and value padding are ignored since they depend on how the DataSet was
// encoded.
func (ds *DataSet) Equal(other *DataSet) bool {
	if ds == nil || other == nil {
		return ds == other
	}
	if len(ds.elements) != len(other.elements) {
		return false
	}
	for i, e := range ds.elements {
		if !e.equal(other.elements[i]) {
			return false
		}
	}
	return true
}

func (ds *DataSet) String() string {
	return ds.string(0)
}

func (ds *DataSet) string(indentLvl int) string {
	lines := make([]string, 0, len(ds.elements))
	for _, e := range ds.elements {
		lines = append(lines, e.string(indentLvl))
	}
	return strings.Join(lines, "\n")
}

// groupLength returns the number of bytes of the elements of group, excluding the group length
// element itself, as encoded with md
func (ds *DataSet) groupLength(group uint16, md dicomMetaData) (uint32, error) {
	size := int64(0)
	for _, e := range ds.elements {
		if e.Tag.GroupNumber() != group || e.Tag.IsGroupLength() {
			continue
		}
		elemSize, err := encodedElementSize(e, md)
		if err != nil {
			return 0, err
		}
		size += elemSize
	}
	if size > maxDefinedLength {
		return 0, newError(ErrValueTooLong, NewTag(group, 0), 0, "group of %d bytes", size)
	}
	return uint32(size), nil
}
