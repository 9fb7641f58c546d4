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

import "fmt"

// DataElementTag is a unique identifier for a Data Element composed of an unordered pair
// of numbers called the group number and the element number as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10.
//
// The least significant 16 bits is the element number. The most significant 16 bits is the group
// number. Tags are ordered by unsigned integer comparison, which is the order required on the wire.
type DataElementTag uint32

// NewTag returns the DataElementTag with the given group and element numbers
func NewTag(group, element uint16) DataElementTag {
	return DataElementTag(uint32(group)<<16 | uint32(element))
}

// GroupNumber returns the group number component of the DataElementTag
func (t DataElementTag) GroupNumber() uint16 {
	return uint16(t >> 16)
}

// ElementNumber returns the element number component of the DataElementTag
func (t DataElementTag) ElementNumber() uint16 {
	return uint16(t & 0xFFFF)
}

// IsMetaElement is true if and only if the Data Element belongs to the File Meta group (0002)
func (t DataElementTag) IsMetaElement() bool {
	return t.GroupNumber() == 0x0002
}

// IsPrivate is true for tags of odd group number, which are defined by vendors and are absent
// from the standard data dictionary
func (t DataElementTag) IsPrivate() bool {
	return t.GroupNumber()%2 == 1
}

// IsDelimiter is true for the structural tags of group FFFE (Item, Item Delimitation Item and
// Sequence Delimitation Item)
func (t DataElementTag) IsDelimiter() bool {
	return t.GroupNumber() == delimiterGroup
}

// IsGroupLength is true for group length elements (gggg,0000)
func (t DataElementTag) IsGroupLength() bool {
	return t.ElementNumber() == 0x0000 && !t.IsDelimiter()
}

// String returns the tag in the form (gggg,eeee)
func (t DataElementTag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.GroupNumber(), t.ElementNumber())
}

const delimiterGroup = 0xFFFE

// Structural tags of nested data sets, see
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
const (
	ItemTag                     DataElementTag = 0xFFFEE000
	ItemDelimitationItemTag     DataElementTag = 0xFFFEE00D
	SequenceDelimitationItemTag DataElementTag = 0xFFFEE0DD
)

// Tags the codec itself needs to know about.
const (
	FileMetaInformationGroupLengthTag DataElementTag = 0x00020000
	FileMetaInformationVersionTag     DataElementTag = 0x00020001
	MediaStorageSOPClassUIDTag        DataElementTag = 0x00020002
	MediaStorageSOPInstanceUIDTag     DataElementTag = 0x00020003
	TransferSyntaxUIDTag              DataElementTag = 0x00020010
	ImplementationClassUIDTag         DataElementTag = 0x00020012
	ImplementationVersionNameTag      DataElementTag = 0x00020013
	SpecificCharacterSetTag           DataElementTag = 0x00080005
	SOPClassUIDTag                    DataElementTag = 0x00080016
	SOPInstanceUIDTag                 DataElementTag = 0x00080018
	ReferencedStudySequenceTag        DataElementTag = 0x00081110
	ReferencedImageSequenceTag        DataElementTag = 0x00081140
	ReferencedSOPClassUIDTag          DataElementTag = 0x00081150
	ReferencedSOPInstanceUIDTag       DataElementTag = 0x00081155
	PatientNameTag                    DataElementTag = 0x00100010
	PatientIDTag                      DataElementTag = 0x00100020
	RowsTag                           DataElementTag = 0x00280010
	ColumnsTag                        DataElementTag = 0x00280011
	PixelDataTag                      DataElementTag = 0x7FE00010
)
