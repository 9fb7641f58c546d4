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

type sequenceLengthPolicy int

const (
	// asGivenLengths writes a sequence or item with undefined length if and only if its
	// ValueLength (Length for items) is UndefinedLength
	asGivenLengths sequenceLengthPolicy = iota
	forceExplicitLengths
	forceUndefinedLengths
)

// ExplicitLengths ensures all sequences and sequence items are written with explicit length.
// Encapsulated pixel data is always written with undefined length as required by
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4.
// When used in conjunction with UndefinedLengths, the last option given wins.
var ExplicitLengths Option = func(o *options) {
	o.sequenceLengths = forceExplicitLengths
}

// UndefinedLengths ensures all sequences and sequence items are written with undefined length,
// terminated by delimitation items. When used in conjunction with ExplicitLengths, the last
// option given wins.
var UndefinedLengths Option = func(o *options) {
	o.sequenceLengths = forceUndefinedLengths
}

// undefinedSequence is true if the sequence of elem is written with undefined length
func (o *options) undefinedSequence(elem *DataElement) bool {
	switch o.sequenceLengths {
	case forceExplicitLengths:
		return false
	case forceUndefinedLengths:
		return true
	}
	return elem.ValueLength == UndefinedLength
}

// undefinedItem is true if item is written with undefined length
func (o *options) undefinedItem(item *DataSet) bool {
	switch o.sequenceLengths {
	case forceExplicitLengths:
		return false
	case forceUndefinedLengths:
		return true
	}
	return item.Length == UndefinedLength
}
