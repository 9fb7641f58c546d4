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
	"io"
)

// DecodeDataSet decodes the data set held in b, encoded in the given transfer syntax
func DecodeDataSet(b []byte, ts TransferSyntax, opts ...Option) (*DataSet, error) {
	return ReadDataSet(bytes.NewReader(b), ts, opts...)
}

// ReadDataSet reads a data set encoded in the given transfer syntax from r until the end of the
// stream
func ReadDataSet(r io.Reader, ts TransferSyntax, opts ...Option) (*DataSet, error) {
	d := NewDecoder(r, ts, opts...)
	defer d.Close()

	return collectDataElements(d)
}

// collectDataElements returns the DataSet defined by the remaining elements of the Decoder
func collectDataElements(d *Decoder) (*DataSet, error) {
	ds := &DataSet{}
	for elem, err := d.next(); err != io.EOF; elem, err = d.next() {
		if err != nil {
			return nil, err
		}
		if err := ds.Add(elem.DataElement); err != nil {
			return nil, newError(ErrDuplicateTag, elem.Tag, elem.offset, "")
		}
	}
	return ds, nil
}
