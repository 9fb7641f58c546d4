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
	"fmt"
	"io"
)

// DataElementWriter writes DataElements one at a time
type DataElementWriter interface {
	WriteElement(element *DataElement) error
}

var _ DataElementWriter = (*Encoder)(nil)

// Encoder writes DataElements in a transfer syntax one at a time, in the order given. It never
// reorders elements and never substitutes VRs.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	dw     *dcmWriter
	md     dicomMetaData
	closer io.Closer
	err    error
}

// NewEncoder returns an Encoder writing to w in the given transfer syntax. For the deflated
// syntax, the output is compressed and Close must be called to flush it.
func NewEncoder(w io.Writer, ts TransferSyntax, opts ...Option) *Encoder {
	o := newOptions(opts...)
	o.logger.Debug().Str("transferSyntax", ts.UID).Bool("implicit", ts.Implicit).Msg("encoding data set")

	e := &Encoder{md: newMetaData(ts, o)}
	if ts.Deflated {
		o.logger.Debug().Msg("deflating data set")
		wc, err := deflate(w)
		if err != nil {
			e.err = err
		} else {
			e.closer = wc
			w = wc
		}
	}
	e.dw = newDcmWriter(w)
	return e
}

// WriteElement writes a single element. Group length elements are written verbatim unless
// dropped by the DropGroupLengths option, since recomputing them requires the whole DataSet.
func (e *Encoder) WriteElement(element *DataElement) error {
	if e.err != nil {
		return e.err
	}
	if element != nil && !e.md.keep(element) {
		return nil
	}
	return writeDataElement(e.dw, e.md, element)
}

// WriteDataSet writes the elements of ds in order, applying the group length policy
func (e *Encoder) WriteDataSet(ds *DataSet) error {
	if e.err != nil {
		return e.err
	}
	return writeDataSet(e.dw, e.md, ds)
}

// Offset returns the number of bytes written, before compression for the deflated syntax
func (e *Encoder) Offset() int64 {
	return e.dw.Offset()
}

// Close flushes the compressor of the deflated syntax. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.closer == nil {
		return nil
	}
	if err := e.closer.Close(); err != nil {
		return fmt.Errorf("flushing deflated data set: %w", err)
	}
	return nil
}
