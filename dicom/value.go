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
	"fmt"
	"math"
	"strings"
	"unicode"
)

// NewElement returns a DataElement holding the raw value b. Multi-byte binary values in b must be
// little endian.
func NewElement(tag DataElementTag, vr *VR, b []byte) *DataElement {
	return &DataElement{Tag: tag, VR: vr, ValueField: b, ValueLength: uint32(padLength(len(b)))}
}

// NewStringElement returns a text DataElement. Multiple values are joined with the "\" delimiter.
func NewStringElement(tag DataElementTag, vr *VR, values ...string) *DataElement {
	return NewElement(tag, vr, []byte(strings.Join(values, "\\")))
}

// NewUint16Element returns a DataElement of VR US
func NewUint16Element(tag DataElementTag, values ...uint16) *DataElement {
	b := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return NewElement(tag, USVR, b)
}

// NewUint32Element returns a DataElement of VR UL
func NewUint32Element(tag DataElementTag, values ...uint32) *DataElement {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return NewElement(tag, ULVR, b)
}

// NewInt16Element returns a DataElement of VR SS
func NewInt16Element(tag DataElementTag, values ...int16) *DataElement {
	b := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return NewElement(tag, SSVR, b)
}

// NewInt32Element returns a DataElement of VR SL
func NewInt32Element(tag DataElementTag, values ...int32) *DataElement {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return NewElement(tag, SLVR, b)
}

// NewFloat32Element returns a DataElement of VR FL
func NewFloat32Element(tag DataElementTag, values ...float32) *DataElement {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return NewElement(tag, FLVR, b)
}

// NewFloat64Element returns a DataElement of VR FD
func NewFloat64Element(tag DataElementTag, values ...float64) *DataElement {
	b := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return NewElement(tag, FDVR, b)
}

// NewTagElement returns a DataElement of VR AT
func NewTagElement(tag DataElementTag, values ...DataElementTag) *DataElement {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(b[4*i:], v.GroupNumber())
		binary.LittleEndian.PutUint16(b[4*i+2:], v.ElementNumber())
	}
	return NewElement(tag, ATVR, b)
}

// NewSequenceElement returns a DataElement of VR SQ holding the given items. The sequence has
// undefined length.
func NewSequenceElement(tag DataElementTag, items ...*DataSet) *DataElement {
	return &DataElement{Tag: tag, VR: SQVR, ValueField: &Sequence{Items: items}, ValueLength: UndefinedLength}
}

// NewEncapsulatedElement returns a DataElement holding pixel data in encapsulated format. The
// offset table may be empty.
func NewEncapsulatedElement(tag DataElementTag, vr *VR, offsetTable []byte, fragments ...[]byte) *DataElement {
	all := append([][]byte{offsetTable}, fragments...)
	return &DataElement{Tag: tag, VR: vr, ValueField: &EncapsulatedPixelData{Fragments: all}, ValueLength: UndefinedLength}
}

// Bytes returns the raw value of the element
func (e *DataElement) Bytes() ([]byte, error) {
	switch v := e.ValueField.(type) {
	case []byte:
		return v, nil
	case nil:
		return []byte{}, nil
	}
	return nil, fmt.Errorf("value of %v is %T, not []byte", e.Tag, e.ValueField)
}

// Strings returns the values of a text element. Values are split on the "\" delimiter, except for
// the VRs that do not allow multiple values (LT, ST, UT, UR). Insignificant spaces are removed.
func (e *DataElement) Strings() ([]string, error) {
	b, err := e.Bytes()
	if err != nil {
		return nil, err
	}
	if e.VR == nil || !e.VR.isText() {
		return nil, fmt.Errorf("vr %v of %v is not a text vr", e.VR, e.Tag)
	}
	return splitText(e.VR, string(b)), nil
}

func splitText(vr *VR, valueField string) []string {
	if len(valueField) == 0 {
		return []string{}
	}

	isPadding := unicode.IsSpace
	if vr == UIVR {
		isPadding = func(r rune) bool {
			return r == 0x00 || r == ' '
		}
	}

	switch vr {
	case UTVR, STVR, LTVR, URVR:
		// a single value whose leading spaces are significant
		return []string{strings.TrimRightFunc(valueField, isPadding)}
	}

	// deal with value multiplicity
	strs := strings.Split(valueField, "\\")
	for i, s := range strs {
		strs[i] = strings.TrimFunc(s, isPadding)
	}
	return strs
}

func (e *DataElement) binaryValues(size int) ([]byte, error) {
	b, err := e.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b)%size != 0 {
		return nil, fmt.Errorf("value length %d of %v is not a multiple of %d", len(b), e.Tag, size)
	}
	return b, nil
}

// Uint16s returns the values of an element of VR US, OW or any 16 bit binary VR
func (e *DataElement) Uint16s() ([]uint16, error) {
	b, err := e.binaryValues(2)
	if err != nil {
		return nil, err
	}
	values := make([]uint16, len(b)/2)
	for i := range values {
		values[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return values, nil
}

// Uint32s returns the values of an element of VR UL, OL or any 32 bit binary VR
func (e *DataElement) Uint32s() ([]uint32, error) {
	b, err := e.binaryValues(4)
	if err != nil {
		return nil, err
	}
	values := make([]uint32, len(b)/4)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return values, nil
}

// Int16s returns the values of an element of VR SS
func (e *DataElement) Int16s() ([]int16, error) {
	u, err := e.Uint16s()
	if err != nil {
		return nil, err
	}
	values := make([]int16, len(u))
	for i, v := range u {
		values[i] = int16(v)
	}
	return values, nil
}

// Int32s returns the values of an element of VR SL
func (e *DataElement) Int32s() ([]int32, error) {
	u, err := e.Uint32s()
	if err != nil {
		return nil, err
	}
	values := make([]int32, len(u))
	for i, v := range u {
		values[i] = int32(v)
	}
	return values, nil
}

// Float32s returns the values of an element of VR FL or OF
func (e *DataElement) Float32s() ([]float32, error) {
	u, err := e.Uint32s()
	if err != nil {
		return nil, err
	}
	values := make([]float32, len(u))
	for i, v := range u {
		values[i] = math.Float32frombits(v)
	}
	return values, nil
}

// Float64s returns the values of an element of VR FD or OD
func (e *DataElement) Float64s() ([]float64, error) {
	b, err := e.binaryValues(8)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(b)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return values, nil
}

// Tags returns the values of an element of VR AT
func (e *DataElement) Tags() ([]DataElementTag, error) {
	u, err := e.Uint16s()
	if err != nil {
		return nil, err
	}
	if len(u)%2 != 0 {
		return nil, fmt.Errorf("value of %v is not a list of tags", e.Tag)
	}
	tags := make([]DataElementTag, len(u)/2)
	for i := range tags {
		tags[i] = NewTag(u[2*i], u[2*i+1])
	}
	return tags, nil
}

// Sequence returns the items of an element of VR SQ
func (e *DataElement) Sequence() (*Sequence, error) {
	seq, ok := e.ValueField.(*Sequence)
	if !ok {
		return nil, fmt.Errorf("value of %v is %T, not a sequence", e.Tag, e.ValueField)
	}
	return seq, nil
}

// Encapsulated returns the fragments of pixel data in encapsulated format
func (e *DataElement) Encapsulated() (*EncapsulatedPixelData, error) {
	pixelData, ok := e.ValueField.(*EncapsulatedPixelData)
	if !ok {
		return nil, fmt.Errorf("value of %v is %T, not encapsulated pixel data", e.Tag, e.ValueField)
	}
	return pixelData, nil
}
