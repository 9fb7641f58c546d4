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

// vrType is to group common encodings together
type vrType int

const (
	// textVR is for value fields that will be interpreted as simple text with space padding
	textVR vrType = iota

	// numberBinaryVR is for value fields that are parsed as binary numbers
	numberBinaryVR

	// bulkDataVR groups sequences of binary numbers and opaque bytes
	bulkDataVR

	// uniqueIdentifierVR is for VR: UI. It has null padding
	uniqueIdentifierVR

	// sequenceVR is for VR: SQ
	sequenceVR

	// tagVR is for tags. Distinct from numberBinaryVR due to its 2 x 16-bit layout
	tagVR
)

// HeaderClass is the size of a data element header in the explicit VR syntaxes.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
type HeaderClass int

const (
	// Short8 headers are tag(4) + VR(2) + 16 bit length(2)
	Short8 HeaderClass = iota
	// Long12 headers are tag(4) + VR(2) + reserved(2) + 32 bit length(4)
	Long12
)

// Size returns the header size in bytes
func (h HeaderClass) Size() uint32 {
	if h == Long12 {
		return 12
	}
	return 8
}

// UndefinedLength as specified
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength = 0xffffffff

// VR models the DICOM Value representations (VR)
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
type VR struct {
	// Name represents the 2-character VR Code
	Name string

	// Padding is the byte appended to values of odd length
	Padding byte

	// HeaderClass is the explicit VR header layout used by this VR
	HeaderClass HeaderClass

	kind vrType

	// wordSize is the number of bytes swapped as a unit between byte orders. 0 or 1 means the
	// value is never swapped.
	wordSize int
}

// Code returns the 2 ASCII characters of the VR packed into a uint16, first character in the
// most significant byte.
func (vr *VR) Code() uint16 {
	return vrCode(vr.Name[0], vr.Name[1])
}

func (vr *VR) String() string {
	return vr.Name
}

// isText is true for VRs whose values are character strings
func (vr *VR) isText() bool {
	return vr.kind == textVR || vr.kind == uniqueIdentifierVR
}

// allowsUndefinedLength is true for the VRs that may carry 0xFFFFFFFF as their length: sequences,
// encapsulated pixel data and unknown VRs that hold a sequence (CP-246).
func (vr *VR) allowsUndefinedLength() bool {
	switch vr {
	case SQVR, OBVR, OWVR, UNVR:
		return true
	}
	return false
}

func vrCode(a, b byte) uint16 {
	return uint16(a)<<8 | uint16(b)
}

// VRTable resolves the 2-byte VR code read from the wire into the static properties of the VR.
// Tables must return the VR values of this package (e.g. OBVR), which the codec compares by
// identity.
type VRTable interface {
	ByCode(code uint16) (*VR, bool)
}

type standardVRTable map[uint16]*VR

func (t standardVRTable) ByCode(code uint16) (*VR, bool) {
	vr, ok := t[code]
	return vr, ok
}

// StandardVRs is the VRTable of all VRs defined in PS3.5. It is populated once at package
// initialization and never modified afterwards.
var StandardVRs VRTable = vrLookupMap

var vrLookupMap = standardVRTable{}

func newVR(text string, kind vrType, class HeaderClass, wordSize int) *VR {
	padding := byte(0x00)
	if kind == textVR {
		padding = ' '
	}
	vr := &VR{Name: text, Padding: padding, HeaderClass: class, kind: kind, wordSize: wordSize}
	vrLookupMap[vr.Code()] = vr

	return vr
}

// LookupVR returns the standard VR with the given 2 character name
func LookupVR(name string) (*VR, bool) {
	if len(name) != 2 {
		return nil, false
	}
	return StandardVRs.ByCode(vrCode(name[0], name[1]))
}

// VR list obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	// textual VRs
	CSVR = newVR("CS", textVR, Short8, 0)
	SHVR = newVR("SH", textVR, Short8, 0)
	LOVR = newVR("LO", textVR, Short8, 0)
	STVR = newVR("ST", textVR, Short8, 0)
	LTVR = newVR("LT", textVR, Short8, 0)
	ASVR = newVR("AS", textVR, Short8, 0)

	// person name
	PNVR = newVR("PN", textVR, Short8, 0)

	// application entity
	AEVR = newVR("AE", textVR, Short8, 0)

	// dates/time VR
	DAVR = newVR("DA", textVR, Short8, 0)
	TMVR = newVR("TM", textVR, Short8, 0)
	DTVR = newVR("DT", textVR, Short8, 0)

	// textual numbers
	ISVR = newVR("IS", textVR, Short8, 0)
	DSVR = newVR("DS", textVR, Short8, 0)

	// binary numbers
	SSVR = newVR("SS", numberBinaryVR, Short8, 2)
	USVR = newVR("US", numberBinaryVR, Short8, 2)
	SLVR = newVR("SL", numberBinaryVR, Short8, 4)
	ULVR = newVR("UL", numberBinaryVR, Short8, 4)
	FLVR = newVR("FL", numberBinaryVR, Short8, 4)
	FDVR = newVR("FD", numberBinaryVR, Short8, 8)
	SVVR = newVR("SV", numberBinaryVR, Long12, 8)
	UVVR = newVR("UV", numberBinaryVR, Long12, 8)

	// large binary sequences
	OBVR = newVR("OB", bulkDataVR, Long12, 1)
	ODVR = newVR("OD", bulkDataVR, Long12, 8)
	OLVR = newVR("OL", bulkDataVR, Long12, 4)
	OVVR = newVR("OV", bulkDataVR, Long12, 8)
	OWVR = newVR("OW", bulkDataVR, Long12, 2)
	OFVR = newVR("OF", bulkDataVR, Long12, 4)

	// unlimited char
	UCVR = newVR("UC", textVR, Long12, 0)

	// unknown
	UNVR = newVR("UN", bulkDataVR, Long12, 1)

	// URL
	URVR = newVR("UR", textVR, Long12, 0)

	// unlimited text
	UTVR = newVR("UT", textVR, Long12, 0)

	// attribute tag
	ATVR = newVR("AT", tagVR, Short8, 2)

	// unique identifier
	UIVR = newVR("UI", uniqueIdentifierVR, Short8, 0)

	// sequence
	SQVR = newVR("SQ", sequenceVR, Long12, 0)
)
