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
	"strings"
)

// list of transfer syntaxes obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_A
const (
	// ImplicitVRLittleEndianUID is the Implicit VR Little Endian UID
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	// ExplicitVRLittleEndianUID is the Explicit VR Little Endian UID
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	// ExplicitVRBigEndianUID is the Explicit VR Big Endian UID (retired)
	ExplicitVRBigEndianUID = "1.2.840.10008.1.2.2"
	// DeflatedExplicitVRLittleEndianUID is the Deflated Explicit VR Little Endian UID
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
	// JPEGBaselineUID is the JPEG Baseline (Process 1) transfer syntax UID
	JPEGBaselineUID = "1.2.840.10008.1.2.4.50"
	// JPEGExtendedUID is the JPEG Extended (Process 2 & 4) transfer syntax UID
	JPEGExtendedUID = "1.2.840.10008.1.2.4.51"
	// JPEGLosslessUID is the JPEG Lossless, Non-Hierarchical (Process 14) transfer syntax UID
	JPEGLosslessUID = "1.2.840.10008.1.2.4.57"
	// JPEGLosslessSV1UID is the JPEG Lossless, First-Order Prediction (Process 14, SV1) UID
	JPEGLosslessSV1UID = "1.2.840.10008.1.2.4.70"
	// JPEGLSLosslessUID is the JPEG-LS Lossless Image Compression UID
	JPEGLSLosslessUID = "1.2.840.10008.1.2.4.80"
	// JPEGLSNearLosslessUID is the JPEG-LS Lossy (Near-Lossless) Image Compression UID
	JPEGLSNearLosslessUID = "1.2.840.10008.1.2.4.81"
	// JPEG2000LosslessUID is the JPEG 2000 Image Compression (Lossless Only) UID
	JPEG2000LosslessUID = "1.2.840.10008.1.2.4.90"
	// JPEG2000UID is the JPEG 2000 Image Compression UID
	JPEG2000UID = "1.2.840.10008.1.2.4.91"
	// JPEG2000Part2LosslessUID is the JPEG 2000 Part 2 Multi-component (Lossless Only) UID
	JPEG2000Part2LosslessUID = "1.2.840.10008.1.2.4.92"
	// JPEG2000Part2UID is the JPEG 2000 Part 2 Multi-component Image Compression UID
	JPEG2000Part2UID = "1.2.840.10008.1.2.4.93"
	// HTJ2KLosslessUID is the High-Throughput JPEG 2000 (Lossless Only) UID
	HTJ2KLosslessUID = "1.2.840.10008.1.2.4.201"
	// HTJ2KLosslessRPCLUID is the High-Throughput JPEG 2000 with RPCL Options (Lossless Only) UID
	HTJ2KLosslessRPCLUID = "1.2.840.10008.1.2.4.202"
	// HTJ2KUID is the High-Throughput JPEG 2000 Image Compression UID
	HTJ2KUID = "1.2.840.10008.1.2.4.203"
	// MPEG2MainProfileUID is the MPEG2 Main Profile / Main Level UID
	MPEG2MainProfileUID = "1.2.840.10008.1.2.4.100"
	// MPEG4AVCH264HighProfileUID is the MPEG-4 AVC/H.264 High Profile / Level 4.1 UID
	MPEG4AVCH264HighProfileUID = "1.2.840.10008.1.2.4.102"
	// MPEG4AVCH264BDCompatibleUID is the MPEG-4 AVC/H.264 BD-compatible High Profile UID
	MPEG4AVCH264BDCompatibleUID = "1.2.840.10008.1.2.4.103"
	// HEVCMainProfileUID is the HEVC/H.265 Main Profile / Level 5.1 UID
	HEVCMainProfileUID = "1.2.840.10008.1.2.4.107"
	// RLELosslessUID is the RLE Lossless transfer syntax UID
	RLELosslessUID = "1.2.840.10008.1.2.5"
)

// TransferSyntax fixes the encoding rules of a data set for the lifetime of a decode or encode
// operation. TransferSyntax values are immutable.
type TransferSyntax struct {
	UID  string
	Name string

	// ByteOrder of tags, lengths and binary values. Encapsulated pixel data fragments are framed
	// in this order as well.
	ByteOrder binary.ByteOrder

	// Implicit is true if VRs are absent from the wire and must be looked up in a TagDictionary
	Implicit bool

	// Deflated is true if the data set is compressed with raw DEFLATE (RFC 1951)
	Deflated bool

	// Encapsulated is true if pixel data is stored as compressed fragments
	Encapsulated bool
}

func (ts TransferSyntax) String() string {
	if ts.Name == "" {
		return ts.UID
	}
	return fmt.Sprintf("%s (%s)", ts.Name, ts.UID)
}

// TransferSyntaxRegistry resolves a Transfer Syntax UID into its encoding rules
type TransferSyntaxRegistry interface {
	ByUID(uid string) (TransferSyntax, bool)
}

type transferSyntaxMap map[string]TransferSyntax

func (m transferSyntaxMap) ByUID(uid string) (TransferSyntax, bool) {
	ts, ok := m[uid]
	return ts, ok
}

// Well known transfer syntaxes
var (
	ImplicitVRLittleEndian = TransferSyntax{
		UID: ImplicitVRLittleEndianUID, Name: "Implicit VR Little Endian",
		ByteOrder: binary.LittleEndian, Implicit: true,
	}
	ExplicitVRLittleEndian = TransferSyntax{
		UID: ExplicitVRLittleEndianUID, Name: "Explicit VR Little Endian",
		ByteOrder: binary.LittleEndian,
	}
	ExplicitVRBigEndian = TransferSyntax{
		UID: ExplicitVRBigEndianUID, Name: "Explicit VR Big Endian",
		ByteOrder: binary.BigEndian,
	}
	DeflatedExplicitVRLittleEndian = TransferSyntax{
		UID: DeflatedExplicitVRLittleEndianUID, Name: "Deflated Explicit VR Little Endian",
		ByteOrder: binary.LittleEndian, Deflated: true,
	}
)

// StandardTransferSyntaxes is the registry of all transfer syntaxes understood by the codec. It is
// built once at package initialization and never modified afterwards.
var StandardTransferSyntaxes TransferSyntaxRegistry = newTransferSyntaxMap()

func newTransferSyntaxMap() transferSyntaxMap {
	m := transferSyntaxMap{}
	for _, ts := range []TransferSyntax{
		ImplicitVRLittleEndian, ExplicitVRLittleEndian, ExplicitVRBigEndian, DeflatedExplicitVRLittleEndian,
	} {
		m[ts.UID] = ts
	}

	// any encapsulated syntax is explicit VR little endian according to PS3.5 A.4
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
	encapsulated := map[string]string{
		JPEGBaselineUID:             "JPEG Baseline (Process 1)",
		JPEGExtendedUID:             "JPEG Extended (Process 2 & 4)",
		JPEGLosslessUID:             "JPEG Lossless, Non-Hierarchical (Process 14)",
		JPEGLosslessSV1UID:          "JPEG Lossless, Non-Hierarchical, First-Order Prediction",
		JPEGLSLosslessUID:           "JPEG-LS Lossless Image Compression",
		JPEGLSNearLosslessUID:       "JPEG-LS Lossy (Near-Lossless) Image Compression",
		JPEG2000LosslessUID:         "JPEG 2000 Image Compression (Lossless Only)",
		JPEG2000UID:                 "JPEG 2000 Image Compression",
		JPEG2000Part2LosslessUID:    "JPEG 2000 Part 2 Multi-component Image Compression (Lossless Only)",
		JPEG2000Part2UID:            "JPEG 2000 Part 2 Multi-component Image Compression",
		HTJ2KLosslessUID:            "High-Throughput JPEG 2000 Image Compression (Lossless Only)",
		HTJ2KLosslessRPCLUID:        "High-Throughput JPEG 2000 with RPCL Options Image Compression (Lossless Only)",
		HTJ2KUID:                    "High-Throughput JPEG 2000 Image Compression",
		MPEG2MainProfileUID:         "MPEG2 Main Profile / Main Level",
		MPEG4AVCH264HighProfileUID:  "MPEG-4 AVC/H.264 High Profile / Level 4.1",
		MPEG4AVCH264BDCompatibleUID: "MPEG-4 AVC/H.264 BD-compatible High Profile / Level 4.1",
		HEVCMainProfileUID:          "HEVC/H.265 Main Profile / Level 5.1",
		RLELosslessUID:              "RLE Lossless",
	}
	for uid, name := range encapsulated {
		m[uid] = TransferSyntax{UID: uid, Name: name, ByteOrder: binary.LittleEndian, Encapsulated: true}
	}

	return m
}

// ResolveTransferSyntax returns the TransferSyntax of the given UID from StandardTransferSyntaxes.
// Trailing NUL and space padding of the UID is ignored. An unknown UID is an error matching
// ErrUnknownTransferSyntax.
func ResolveTransferSyntax(uid string) (TransferSyntax, error) {
	return resolveTransferSyntax(StandardTransferSyntaxes, uid)
}

func resolveTransferSyntax(registry TransferSyntaxRegistry, uid string) (TransferSyntax, error) {
	trimmed := strings.TrimRight(uid, "\x00 ")
	ts, ok := registry.ByUID(trimmed)
	if !ok {
		return TransferSyntax{}, &Error{Kind: ErrUnknownTransferSyntax, Err: fmt.Errorf("uid %q", trimmed)}
	}
	return ts, nil
}

const (
	vrSize  = 2
	tagSize = 4
)

// wireSyntax implements the header layout of data elements in one transfer syntax
type wireSyntax interface {
	byteOrder() binary.ByteOrder
	isImplicit() bool
	elementSize(vr *VR, valueFieldLength uint32) uint32
	readVR(dr *dcmReader, tag DataElementTag, offset int64) (*VR, error)
	readValueLength(dr *dcmReader, tag DataElementTag, offset int64, vr *VR) (uint32, error)
	writeVR(dw *dcmWriter, vr *VR) error
	writeValueLength(dw *dcmWriter, vr *VR, valueFieldLength uint32) error
}

func newWireSyntax(ts TransferSyntax, opts *options) wireSyntax {
	order := ts.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	if ts.Implicit {
		return implicitSyntax{order, opts}
	}
	return explicitSyntax{order, opts}
}

type implicitSyntax struct {
	order binary.ByteOrder
	opts  *options
}

func (s implicitSyntax) byteOrder() binary.ByteOrder {
	return s.order
}

func (implicitSyntax) isImplicit() bool {
	return true
}

func (implicitSyntax) elementSize(vr *VR, valueFieldLength uint32) uint32 {
	return tagSize + 4 /*length*/ + valueFieldLength
}

func (s implicitSyntax) readVR(dr *dcmReader, tag DataElementTag, offset int64) (*VR, error) {
	return s.opts.dictionaryVR(tag, offset), nil
}

func (s implicitSyntax) readValueLength(dr *dcmReader, tag DataElementTag, offset int64, vr *VR) (uint32, error) {
	return dr.UInt32(s.order)
}

func (s implicitSyntax) writeValueLength(dw *dcmWriter, vr *VR, valueFieldLength uint32) error {
	return dw.UInt32(s.order, valueFieldLength)
}

func (implicitSyntax) writeVR(dw *dcmWriter, vr *VR) error {
	// This just a no-op since the implicit syntax does not write VRs into the file.
	return nil
}

type explicitSyntax struct {
	order binary.ByteOrder
	opts  *options
}

func (s explicitSyntax) byteOrder() binary.ByteOrder {
	return s.order
}

func (explicitSyntax) isImplicit() bool {
	return false
}

func (s explicitSyntax) elementSize(vr *VR, valueFieldLength uint32) uint32 {
	return vr.HeaderClass.Size() + valueFieldLength
}

func (s explicitSyntax) readVR(dr *dcmReader, tag DataElementTag, offset int64) (*VR, error) {
	b, err := dr.Bytes(vrSize)
	if err != nil {
		return nil, headerError(err, tag, offset, "reading vr")
	}

	vr, ok := s.opts.vrs.ByCode(vrCode(b[0], b[1]))
	if !ok {
		return nil, newError(ErrUnknownVRCode, tag, offset, "code 0x%02X%02X", b[0], b[1])
	}
	return vr, nil
}

func (s explicitSyntax) readValueLength(dr *dcmReader, tag DataElementTag, offset int64, vr *VR) (uint32, error) {
	// For explicit VR, lengths can be stored in a 32 bit field or a 16 bit field
	// depending on the VR type. The 2 cases are defined at the link:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
	if vr.HeaderClass == Long12 {
		reserved, err := dr.UInt16(s.order)
		if err != nil {
			return 0, fmt.Errorf("reading reserved field: %w", err)
		}
		if reserved != 0 {
			s.opts.warn(newError(ErrReservedNotZero, tag, offset, "got 0x%04X", reserved))
		}

		length, err := dr.UInt32(s.order)
		if err != nil {
			return 0, fmt.Errorf("reading 32 bit length: %w", err)
		}
		return length, nil
	}

	length, err := dr.UInt16(s.order)
	if err != nil {
		return 0, fmt.Errorf("reading 16 bit length: %w", err)
	}
	return uint32(length), nil
}

func (s explicitSyntax) writeValueLength(dw *dcmWriter, vr *VR, valueFieldLength uint32) error {
	if vr.HeaderClass == Long12 {
		if err := dw.UInt16(s.order, 0); err != nil {
			return fmt.Errorf("writing reserved field: %w", err)
		}
		if err := dw.UInt32(s.order, valueFieldLength); err != nil {
			return fmt.Errorf("writing 32 bit length: %w", err)
		}
		return nil
	}

	if err := dw.UInt16(s.order, uint16(valueFieldLength)); err != nil {
		return fmt.Errorf("writing 16 bit length: %w", err)
	}
	return nil
}

func (s explicitSyntax) writeVR(dw *dcmWriter, vr *VR) error {
	return dw.String(vr.Name)
}
