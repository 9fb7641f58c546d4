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
	"io"
	"strconv"
	"strings"
)

// Sequence models a DICOM sequence
type Sequence struct {
	Items []*DataSet
}

func (seq *Sequence) String() string {
	return seq.string(0)
}

func (seq *Sequence) string(indentLvl int) string {
	lines := make([]string, 0)
	for i, obj := range seq.Items {
		lines = append(lines, strings.Repeat("  ", indentLvl+1)+"item "+strconv.Itoa(i))
		if obj.Len() > 0 {
			lines = append(lines, obj.string(indentLvl+2))
		}
	}
	return "\n" + strings.Join(lines, "\n")
}

func (seq *Sequence) append(dataSet *DataSet) {
	seq.Items = append(seq.Items, dataSet)
}

// Equal reports whether both sequences hold structurally equal items
func (seq *Sequence) Equal(other *Sequence) bool {
	if seq == nil || other == nil {
		return seq == other
	}
	if len(seq.Items) != len(other.Items) {
		return false
	}
	for i := range seq.Items {
		if !seq.Items[i].Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// readSequence reads the items of a sequence whose header has already been read. For a defined
// length sequence, items are read until the region of length bytes is exhausted. For an undefined
// length sequence, items are read until the Sequence Delimitation Item.
func readSequence(dr *dcmReader, tag DataElementTag, offset int64, length uint32, md dicomMetaData) (*Sequence, error) {
	md, err := md.nested(tag, offset)
	if err != nil {
		return nil, err
	}
	md.opts.logger.Debug().
		Str("tag", tag.String()).
		Int("depth", md.depth).
		Bool("undefinedLength", length == UndefinedLength).
		Msg("reading sequence")

	region := dr
	if length != UndefinedLength {
		region, err = dr.Limit(int64(length))
		if err != nil {
			return nil, decodeError(err, tag, offset, "limiting sequence")
		}
	}

	seq := &Sequence{Items: []*DataSet{}}
	for {
		itemOffset := region.Offset()
		itemTag, itemLength, err := readItemHeader(region, md.byteOrder())
		if err == io.EOF {
			if length != UndefinedLength {
				return seq, nil
			}
			return nil, unterminated(region, tag, itemOffset, "sequence")
		}
		if err != nil {
			return nil, headerError(err, tag, itemOffset, "reading item header")
		}

		switch itemTag {
		case ItemTag:
			item, err := readItem(region, itemOffset, itemLength, md)
			if err != nil {
				return nil, err
			}
			seq.append(item)
		case SequenceDelimitationItemTag:
			if length != UndefinedLength {
				return nil, newError(ErrMalformedSequence, tag, itemOffset,
					"sequence delimitation item in sequence of defined length")
			}
			if itemLength != 0 {
				return nil, newError(ErrMalformedSequence, tag, itemOffset,
					"sequence delimitation item of length %d", itemLength)
			}
			return seq, nil
		default:
			return nil, newError(ErrMalformedSequence, tag, itemOffset,
				"found %v where an item was expected", itemTag)
		}
	}
}

// readItemHeader reads the tag and the 32 bit length of an item or a delimiter
func readItemHeader(dr *dcmReader, order binary.ByteOrder) (DataElementTag, uint32, error) {
	tag, err := dr.Tag(order)
	if err != nil {
		return 0, 0, err
	}
	length, err := dr.UInt32(order)
	if err != nil {
		return tag, 0, err
	}
	return tag, length, nil
}

// readItem reads the data set of an item whose header has already been read. A defined length
// item ends exactly at its byte boundary. An undefined length item ends at the Item Delimitation
// Item.
func readItem(dr *dcmReader, offset int64, length uint32, md dicomMetaData) (*DataSet, error) {
	region := dr
	if length != UndefinedLength {
		var err error
		region, err = dr.Limit(int64(length))
		if err != nil {
			return nil, decodeError(err, ItemTag, offset, "limiting item")
		}
	}

	ds := &DataSet{Length: length}
	for {
		element, err := readDataElement(region, md)
		if err == io.EOF {
			if length != UndefinedLength {
				return ds, nil
			}
			return nil, unterminated(region, ItemTag, offset, "item")
		}
		if err != nil {
			return nil, err
		}

		if element.Tag.IsDelimiter() {
			if element.Tag == ItemDelimitationItemTag && length == UndefinedLength {
				return ds, nil
			}
			return nil, newError(ErrMalformedSequence, element.Tag, element.offset,
				"unexpected %v in item", element.Tag)
		}

		if !md.keep(element.DataElement) {
			continue
		}
		if err := ds.Add(element.DataElement); err != nil {
			return nil, newError(ErrDuplicateTag, element.Tag, element.offset, "")
		}
	}
}

// unterminated returns the error for an undefined length sequence or item whose delimiter is
// missing. Within a defined length region, the region ending first is a structural error,
// otherwise the stream has been cut.
func unterminated(dr *dcmReader, tag DataElementTag, offset int64, what string) error {
	if dr.bounded() {
		return newError(ErrMalformedSequence, tag, offset,
			"enclosing region ended before the delimiter of %s of undefined length", what)
	}
	return newError(ErrTruncatedStream, tag, offset, "stream ended before the delimiter of %s of undefined length", what)
}

// writeSequence writes the items of seq. When undefined is true, the sequence is terminated by a
// Sequence Delimitation Item.
func writeSequence(dw *dcmWriter, md dicomMetaData, tag DataElementTag, seq *Sequence, undefined bool) error {
	md, err := md.nested(tag, dw.Offset())
	if err != nil {
		return err
	}
	order := md.byteOrder()

	for _, item := range seq.Items {
		if item == nil {
			item = &DataSet{}
		}
		if md.opts.undefinedItem(item) {
			if err := dw.Item(order, ItemTag, UndefinedLength); err != nil {
				return encodeError(err, tag, dw.Offset(), "writing item")
			}
			if err := writeDataSet(dw, md, item); err != nil {
				return err
			}
			if err := dw.Delimiter(order, ItemDelimitationItemTag); err != nil {
				return encodeError(err, tag, dw.Offset(), "writing item delimitation item")
			}
			continue
		}

		itemLength, err := itemContentSize(item, md)
		if err != nil {
			return err
		}
		if err := dw.Item(order, ItemTag, itemLength); err != nil {
			return encodeError(err, tag, dw.Offset(), "writing item")
		}
		if err := writeDataSet(dw, md, item); err != nil {
			return err
		}
	}

	if undefined {
		if err := dw.Delimiter(order, SequenceDelimitationItemTag); err != nil {
			return encodeError(err, tag, dw.Offset(), "writing sequence delimitation item")
		}
	}
	return nil
}
