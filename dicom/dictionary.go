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
	"github.com/suyashkumar/dicom/pkg/tag"
)

// DictionaryEntry describes a Data Element of the DICOM data dictionary
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_6
type DictionaryEntry struct {
	Tag DataElementTag

	// VR is the VR used when the tag is read in the implicit VR syntax
	VR *VR

	// VRs lists every VR the dictionary allows for the tag (e.g. OB or OW for Pixel Data)
	VRs []*VR

	Name string

	// VM is the value multiplicity, e.g. "1", "1-n", "2-2n"
	VM string
}

// allows is true if vr is one of the VRs permitted for the entry
func (e DictionaryEntry) allows(vr *VR) bool {
	for _, v := range e.VRs {
		if v.Name == vr.Name {
			return true
		}
	}
	return e.VR != nil && e.VR.Name == vr.Name
}

// TagDictionary maps a tag to its entry in a data dictionary. Implementations must be safe for
// concurrent use.
type TagDictionary interface {
	ByTag(t DataElementTag) (DictionaryEntry, bool)
}

// StandardDictionary is the TagDictionary of the standard DICOM data dictionary
var StandardDictionary TagDictionary = standardDictionary{}

type standardDictionary struct{}

func (standardDictionary) ByTag(t DataElementTag) (DictionaryEntry, bool) {
	info, err := tag.Find(tag.Tag{Group: t.GroupNumber(), Element: t.ElementNumber()})
	if err != nil || len(info.VRs) == 0 {
		return fallbackEntry(t)
	}

	entry := DictionaryEntry{Tag: t, Name: info.Name, VM: info.VM}
	for _, name := range info.VRs {
		vr, ok := LookupVR(name)
		if !ok {
			vr = UNVR
		}
		entry.VRs = append(entry.VRs, vr)
	}
	entry.VR = entry.VRs[0]
	for _, vr := range preferredVRs {
		if entry.allows(vr) {
			entry.VR = vr
			break
		}
	}

	return entry, true
}

// preferredVRs resolves the tags listed with more than one VR (e.g. "OB or OW", "US or SS") to
// the VR they take in the implicit VR syntax
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.1
var preferredVRs = []*VR{OWVR, USVR}

// fallbackEntry resolves the tags that are absent from the data dictionary but whose VR is
// fixed by the standard
func fallbackEntry(t DataElementTag) (DictionaryEntry, bool) {
	switch {
	case t.IsGroupLength():
		// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.2
		return DictionaryEntry{Tag: t, VR: ULVR, VRs: []*VR{ULVR}, Name: "Group Length", VM: "1"}, true
	case t.IsPrivate() && t.ElementNumber() >= 0x0010 && t.ElementNumber() <= 0x00FF:
		// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.8.1
		return DictionaryEntry{Tag: t, VR: LOVR, VRs: []*VR{LOVR}, Name: "Private Creator", VM: "1"}, true
	}
	return DictionaryEntry{}, false
}

// MapDictionary is a TagDictionary backed by a map from tag to VR. It is used for private
// dictionaries and for overriding entries of the standard dictionary, see ChainDictionary.
type MapDictionary map[DataElementTag]*VR

func (d MapDictionary) ByTag(t DataElementTag) (DictionaryEntry, bool) {
	vr, ok := d[t]
	if !ok {
		return DictionaryEntry{}, false
	}
	return DictionaryEntry{Tag: t, VR: vr, VRs: []*VR{vr}}, true
}

// ChainDictionary returns a TagDictionary that consults each dictionary in order and returns the
// first entry found
func ChainDictionary(dicts ...TagDictionary) TagDictionary {
	return chainDictionary(dicts)
}

type chainDictionary []TagDictionary

func (c chainDictionary) ByTag(t DataElementTag) (DictionaryEntry, bool) {
	for _, d := range c {
		if entry, ok := d.ByTag(t); ok {
			return entry, true
		}
	}
	return DictionaryEntry{}, false
}
