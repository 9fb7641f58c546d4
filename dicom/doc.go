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

// Package dicom encodes and decodes DICOM data sets, the binary element stream that follows the
// File Meta Information of a DICOM file.
//
// A data set is decoded for a given TransferSyntax, which selects the byte order, whether VRs are
// explicit on the wire, and deflate compression. The high level API consists of DecodeDataSet,
// ReadDataSet, EncodeDataSet and WriteDataSet, which operate on a whole DataSet buffered in memory.
// The low level API consists of the Decoder and Encoder, which operate on the top level
// DataElements of a stream one at a time.
//
// Values are held with their trailing padding byte removed. Binary values are held little endian
// whatever the byte order of the transfer syntax, so a DataSet can be re-encoded in any syntax.
// Sequences are held as *Sequence and encapsulated pixel data as *EncapsulatedPixelData.
//
// Malformed streams are reported as *Error, whose Kind is one of the Err sentinels:
//
//	_, err := dicom.DecodeDataSet(b, dicom.ExplicitVRLittleEndian)
//	if errors.Is(err, dicom.ErrTruncatedStream) {
//		...
//	}
//
// Recoverable irregularities such as tags missing from the dictionary are logged at warn level and
// passed to the handler set with WithWarningHandler.
package dicom
