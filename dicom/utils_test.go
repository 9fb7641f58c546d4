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
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

var allVRs = []*VR{
	AEVR, ASVR, ATVR, CSVR, DAVR, DSVR, DTVR, FDVR, FLVR, ISVR, LOVR, LTVR, OBVR, ODVR, OFVR, OLVR,
	OVVR, OWVR, PNVR, SHVR, SLVR, SQVR, SSVR, STVR, SVVR, TMVR, UCVR, UIVR, ULVR, UNVR, URVR, USVR,
	UTVR, UVVR,
}

// syntaxes holds the transfer syntaxes that use native (unencapsulated) encoding
var syntaxes = []TransferSyntax{
	ImplicitVRLittleEndian,
	ExplicitVRLittleEndian,
	ExplicitVRBigEndian,
	DeflatedExplicitVRLittleEndian,
}

// dataSet returns a DataSet holding elements, panicking on duplicate tags
func dataSet(elements ...*DataElement) *DataSet {
	ds, err := NewDataSet(elements...)
	if err != nil {
		panic(err)
	}
	return ds
}

// item returns a DataSet to be used as an item of defined length
func item(elements ...*DataElement) *DataSet {
	return dataSet(elements...)
}

// undefinedItem returns a DataSet to be used as an item of undefined length
func undefinedItem(elements ...*DataElement) *DataSet {
	ds := dataSet(elements...)
	ds.Length = UndefinedLength
	return ds
}

func decodeElement(b []byte, ts TransferSyntax, opts ...Option) (*DataElement, error) {
	element, err := readDataElement(newDcmReader(bytes.NewReader(b)), newMetaData(ts, newOptions(opts...)))
	if err != nil {
		return nil, err
	}
	return element.DataElement, nil
}

func encodeElement(element *DataElement, ts TransferSyntax, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDataElement(newDcmWriter(&buf), newMetaData(ts, newOptions(opts...)), element); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// hexBytes parses bytes written as space separated hex pairs, e.g. "08 00 10 00"
func hexBytes(s string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(s), ""))
}

func mustHexBytes(s string) []byte {
	b, err := hexBytes(s)
	if err != nil {
		panic(err)
	}
	return b
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// checkKind fails the test unless err is an *Error of the given kind
func checkKind(t *testing.T, err error, kind error) *Error {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("got error %v, want %v", err, kind)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("got error of type %T, want *Error", err)
	}
	return e
}
