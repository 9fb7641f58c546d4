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
	"io"
)

// DataElementIterator represents an iterator over a DataSet's DataElements
type DataElementIterator interface {
	// NextElement returns the next DataElement in the DataSet. If there is no next DataElement, the
	// error io.EOF is returned.
	NextElement() (*DataElement, error)
}

var _ DataElementIterator = (*Decoder)(nil)

// Decoder reads the top level DataElements of a data set one at a time. Sequences and
// encapsulated pixel data are read completely as part of the element holding them.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	dr     *dcmReader
	md     dicomMetaData
	closer io.Closer
}

// NewDecoder returns a Decoder reading a data set encoded in the given transfer syntax from r.
// The stream must start at the first element of the data set, i.e. after the File Meta group of a
// DICOM file. For the deflated syntax, r holds the compressed bytes.
func NewDecoder(r io.Reader, ts TransferSyntax, opts ...Option) *Decoder {
	o := newOptions(opts...)
	o.logger.Debug().Str("transferSyntax", ts.UID).Bool("implicit", ts.Implicit).Msg("decoding data set")

	d := &Decoder{md: newMetaData(ts, o)}
	if ts.Deflated {
		o.logger.Debug().Msg("inflating data set")
		rc := inflate(r)
		d.closer = rc
		r = rc
	}
	d.dr = newDcmReader(r)
	return d
}

// NextElement returns the next top level element. It returns io.EOF at the end of the stream.
// Errors are of type *Error for malformed streams. A delimitation item at the top level is
// ErrMalformedSequence.
func (d *Decoder) NextElement() (*DataElement, error) {
	element, err := d.next()
	if err != nil {
		return nil, err
	}
	return element.DataElement, nil
}

func (d *Decoder) next() (*decodedElement, error) {
	for {
		element, err := readDataElement(d.dr, d.md)
		if err != nil {
			return nil, err
		}
		if element.Tag.IsDelimiter() {
			return nil, newError(ErrMalformedSequence, element.Tag, element.offset, "delimiter outside of a sequence")
		}
		if d.md.keep(element.DataElement) {
			return element, nil
		}
	}
}

// Offset returns the number of bytes consumed from the stream, after inflation for the deflated
// syntax
func (d *Decoder) Offset() int64 {
	return d.dr.Offset()
}

// Close releases the inflater of the deflated syntax. It does not close the underlying reader.
func (d *Decoder) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
