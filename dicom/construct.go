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
	"encoding/binary"
	"io"
)

// EncodeDataSet returns the encoding of ds in the given transfer syntax.
//
// The ValueLength of DataElements is ignored and re-calculated, except that UndefinedLength
// selects the delimited encoding of sequences (see ExplicitLengths and UndefinedLengths).
// By default group length elements are written verbatim, see WithGroupLengths.
func EncodeDataSet(ds *DataSet, ts TransferSyntax, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDataSet(&buf, ds, ts, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDataSet writes the encoding of ds in the given transfer syntax to w
func WriteDataSet(w io.Writer, ds *DataSet, ts TransferSyntax, opts ...Option) error {
	e := NewEncoder(w, ts, opts...)
	if err := e.WriteDataSet(ds); err != nil {
		return err
	}
	return e.Close()
}

// groupLengthElement returns a copy of the group length element with its value replaced by the
// byte count of the other elements of its group in ds.
// Please refer to the DICOM Standard Part 10 for information on the File Meta Information Group
// Length. http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
func groupLengthElement(ds *DataSet, element *DataElement, md dicomMetaData) (*DataElement, error) {
	size, err := ds.groupLength(element.Tag.GroupNumber(), md)
	if err != nil {
		return nil, err
	}

	value := make([]byte, 4) // 4bytes = sizeof uint32
	binary.LittleEndian.PutUint32(value, size)
	return &DataElement{
		Tag:         element.Tag,
		VR:          ULVR,
		ValueField:  value,
		ValueLength: 4,
	}, nil
}
