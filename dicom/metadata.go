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

import "encoding/binary"

// dicomMetaData represents how the data elements at one nesting level of a stream are stored
type dicomMetaData struct {
	syntax wireSyntax
	opts   *options

	// depth is the number of enclosing sequences
	depth int
}

func newMetaData(ts TransferSyntax, opts *options) dicomMetaData {
	return dicomMetaData{newWireSyntax(ts, opts), opts, 0}
}

func (md dicomMetaData) byteOrder() binary.ByteOrder {
	return md.syntax.byteOrder()
}

// nested returns the dicomMetaData of the items of a sequence found at this level
func (md dicomMetaData) nested(tag DataElementTag, offset int64) (dicomMetaData, error) {
	if md.depth+1 > md.opts.maxDepth {
		return md, newError(ErrNestingTooDeep, tag, offset, "more than %d nested sequences", md.opts.maxDepth)
	}
	return dicomMetaData{md.syntax, md.opts, md.depth + 1}, nil
}

// implicitLittleEndian returns the dicomMetaData of a sequence stored in an element of VR UN,
// which is always encoded in the implicit VR little endian syntax as described in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.2
func (md dicomMetaData) implicitLittleEndian() dicomMetaData {
	return dicomMetaData{newWireSyntax(ImplicitVRLittleEndian, md.opts), md.opts, md.depth}
}

// keep is false for elements excluded by the group length policy
func (md dicomMetaData) keep(element *DataElement) bool {
	return !(md.opts.groupLengths == OmitGroupLengths && element.Tag.IsGroupLength())
}
