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
	"encoding/binary"
	"fmt"
	"io"
)

// dcmWriter is a wrapper around io.Writer that counts the bytes written
type dcmWriter struct {
	w            io.Writer
	bytesWritten int64
}

func newDcmWriter(w io.Writer) *dcmWriter {
	return &dcmWriter{w: w}
}

func (dw *dcmWriter) Write(p []byte) (int, error) {
	n, err := dw.w.Write(p)
	dw.bytesWritten += int64(n)
	return n, err
}

// Offset returns the number of bytes written so far
func (dw *dcmWriter) Offset() int64 {
	return dw.bytesWritten
}

func (dw *dcmWriter) Tag(order binary.ByteOrder, tag DataElementTag) error {
	if err := dw.UInt16(order, tag.GroupNumber()); err != nil {
		return err
	}
	return dw.UInt16(order, tag.ElementNumber())
}

// Item writes the header of an Item, Item Delimitation Item or Sequence Delimitation Item. These
// never carry a VR and always have a 32 bit length.
func (dw *dcmWriter) Item(order binary.ByteOrder, tag DataElementTag, length uint32) error {
	if err := dw.Tag(order, tag); err != nil {
		return fmt.Errorf("writing %v tag: %w", tag, err)
	}
	if err := dw.UInt32(order, length); err != nil {
		return fmt.Errorf("writing %v length: %w", tag, err)
	}
	return nil
}

// Delimiter writes an Item Delimitation Item or a Sequence Delimitation Item
func (dw *dcmWriter) Delimiter(order binary.ByteOrder, tag DataElementTag) error {
	return dw.Item(order, tag, 0)
}

func (dw *dcmWriter) UInt16(order binary.ByteOrder, v uint16) error {
	var buf [2]byte
	order.PutUint16(buf[:], v)
	return dw.Bytes(buf[:])
}

func (dw *dcmWriter) UInt32(order binary.ByteOrder, v uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	return dw.Bytes(buf[:])
}

func (dw *dcmWriter) String(s string) error {
	_, err := io.WriteString(dw, s)
	return err
}

func (dw *dcmWriter) Bytes(b []byte) error {
	_, err := dw.Write(b)
	return err
}
