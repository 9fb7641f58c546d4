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
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
)

// codecContext holds state for a single scenario
type codecContext struct {
	input      []byte
	dictionary MapDictionary
	decoded    *DataSet
	original   *DataSet
	encoded    []byte
	err        error
}

var featureSyntaxes = map[string]TransferSyntax{
	"implicit VR little endian":          ImplicitVRLittleEndian,
	"explicit VR little endian":          ExplicitVRLittleEndian,
	"explicit VR big endian":             ExplicitVRBigEndian,
	"deflated explicit VR little endian": DeflatedExplicitVRLittleEndian,
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeCodecScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func initializeCodecScenario(sc *godog.ScenarioContext) {
	cc := &codecContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*cc = codecContext{dictionary: MapDictionary{}}
		return ctx, nil
	})

	sc.Step(`^the bytes "([^"]*)"$`, cc.theBytes)
	sc.Step(`^the dictionary maps \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) to ([A-Z]{2})$`, cc.theDictionaryMaps)
	sc.Step(`^I decode them in "([^"]*)"$`, cc.iDecodeThemIn)
	sc.Step(`^the element \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) has VR ([A-Z]{2})$`, cc.theElementHasVR)
	sc.Step(`^the element \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) has the unsigned value (\d+)$`, cc.theElementHasTheUnsignedValue)
	sc.Step(`^the element \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) holds a sequence of (\d+) items?$`, cc.theElementHoldsASequence)
	sc.Step(`^item (\d+) of \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) has the element \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) with the value "([^"]*)"$`, cc.itemHasTheElement)
	sc.Step(`^decoding fails with "([^"]*)"$`, cc.decodingFailsWith)
	sc.Step(`^I encode a ([A-Z]{2}) element \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) with the value "([^"]*)" in "([^"]*)"$`, cc.iEncodeAnElement)
	sc.Step(`^the encoded bytes are "([^"]*)"$`, cc.theEncodedBytesAre)
	sc.Step(`^a data set with a ([A-Z]{2}) element \(([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\) holding "([^"]*)"$`, cc.aDataSetWithAnElement)
	sc.Step(`^it is encoded and decoded in "([^"]*)"$`, cc.itIsEncodedAndDecodedIn)
	sc.Step(`^the decoded data set equals the original$`, cc.theDecodedDataSetEqualsTheOriginal)
}

func parseFeatureTag(group, element string) (DataElementTag, error) {
	g, err := strconv.ParseUint(group, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing group %q: %w", group, err)
	}
	e, err := strconv.ParseUint(element, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing element %q: %w", element, err)
	}
	return NewTag(uint16(g), uint16(e)), nil
}

func featureSyntax(name string) (TransferSyntax, error) {
	ts, ok := featureSyntaxes[name]
	if !ok {
		return TransferSyntax{}, fmt.Errorf("unknown transfer syntax %q", name)
	}
	return ts, nil
}

func featureVR(name string) (*VR, error) {
	vr, ok := LookupVR(name)
	if !ok {
		return nil, fmt.Errorf("unknown vr %q", name)
	}
	return vr, nil
}

func (cc *codecContext) theBytes(s string) error {
	b, err := hexBytes(s)
	if err != nil {
		return fmt.Errorf("parsing bytes: %w", err)
	}
	cc.input = b
	return nil
}

func (cc *codecContext) theDictionaryMaps(group, element, vrName string) error {
	tag, err := parseFeatureTag(group, element)
	if err != nil {
		return err
	}
	vr, err := featureVR(vrName)
	if err != nil {
		return err
	}
	cc.dictionary[tag] = vr
	return nil
}

func (cc *codecContext) iDecodeThemIn(syntax string) error {
	ts, err := featureSyntax(syntax)
	if err != nil {
		return err
	}
	cc.decoded, cc.err = DecodeDataSet(cc.input, ts,
		WithDictionary(ChainDictionary(cc.dictionary, StandardDictionary)))
	return nil
}

func (cc *codecContext) decodedElement(group, element string) (*DataElement, error) {
	if cc.err != nil {
		return nil, fmt.Errorf("decoding failed: %w", cc.err)
	}
	tag, err := parseFeatureTag(group, element)
	if err != nil {
		return nil, err
	}
	e, ok := cc.decoded.Get(tag)
	if !ok {
		return nil, fmt.Errorf("no element %v in %v", tag, cc.decoded)
	}
	return e, nil
}

func (cc *codecContext) theElementHasVR(group, element, vrName string) error {
	e, err := cc.decodedElement(group, element)
	if err != nil {
		return err
	}
	if e.VR == nil || e.VR.Name != vrName {
		return fmt.Errorf("expected vr %s, got %v", vrName, e.VR)
	}
	return nil
}

func (cc *codecContext) theElementHasTheUnsignedValue(group, element string, expected int) error {
	e, err := cc.decodedElement(group, element)
	if err != nil {
		return err
	}

	var got int
	switch e.VR {
	case USVR:
		values, err := e.Uint16s()
		if err != nil || len(values) != 1 {
			return fmt.Errorf("expected a single US value, got %v (%v)", values, err)
		}
		got = int(values[0])
	case ULVR:
		values, err := e.Uint32s()
		if err != nil || len(values) != 1 {
			return fmt.Errorf("expected a single UL value, got %v (%v)", values, err)
		}
		got = int(values[0])
	default:
		return fmt.Errorf("expected an unsigned vr, got %v", e.VR)
	}

	if got != expected {
		return fmt.Errorf("expected value %d, got %d", expected, got)
	}
	return nil
}

func (cc *codecContext) theElementHoldsASequence(group, element string, count int) error {
	e, err := cc.decodedElement(group, element)
	if err != nil {
		return err
	}
	seq, err := e.Sequence()
	if err != nil {
		return err
	}
	if len(seq.Items) != count {
		return fmt.Errorf("expected %d items, got %d", count, len(seq.Items))
	}
	return nil
}

func (cc *codecContext) itemHasTheElement(index int, group, element, nestedGroup, nestedElement, expected string) error {
	e, err := cc.decodedElement(group, element)
	if err != nil {
		return err
	}
	seq, err := e.Sequence()
	if err != nil {
		return err
	}
	if index < 1 || index > len(seq.Items) {
		return fmt.Errorf("no item %d in a sequence of %d items", index, len(seq.Items))
	}
	itemSet := seq.Items[index-1]
	if itemSet.Len() != 1 {
		return fmt.Errorf("expected 1 element in item %d, got %d", index, itemSet.Len())
	}

	tag, err := parseFeatureTag(nestedGroup, nestedElement)
	if err != nil {
		return err
	}
	nested, ok := itemSet.Get(tag)
	if !ok {
		return fmt.Errorf("no element %v in item %d", tag, index)
	}
	values, err := nested.Strings()
	if err != nil {
		return err
	}
	if got := strings.Join(values, "\\"); got != expected {
		return fmt.Errorf("expected value %q, got %q", expected, got)
	}
	return nil
}

func (cc *codecContext) decodingFailsWith(expected string) error {
	if cc.err == nil {
		return fmt.Errorf("expected decoding to fail with %q, got %v", expected, cc.decoded)
	}
	if !strings.Contains(cc.err.Error(), expected) {
		return fmt.Errorf("expected an error containing %q, got %q", expected, cc.err.Error())
	}
	return nil
}

func (cc *codecContext) iEncodeAnElement(vrName, group, element, value, syntax string) error {
	vr, err := featureVR(vrName)
	if err != nil {
		return err
	}
	tag, err := parseFeatureTag(group, element)
	if err != nil {
		return err
	}
	ts, err := featureSyntax(syntax)
	if err != nil {
		return err
	}
	cc.encoded, err = EncodeDataSet(dataSet(NewStringElement(tag, vr, value)), ts)
	return err
}

func (cc *codecContext) theEncodedBytesAre(s string) error {
	expected, err := hexBytes(s)
	if err != nil {
		return fmt.Errorf("parsing bytes: %w", err)
	}
	if !bytes.Equal(cc.encoded, expected) {
		return fmt.Errorf("expected % x, got % x", expected, cc.encoded)
	}
	return nil
}

func (cc *codecContext) aDataSetWithAnElement(vrName, group, element, value string) error {
	vr, err := featureVR(vrName)
	if err != nil {
		return err
	}
	tag, err := parseFeatureTag(group, element)
	if err != nil {
		return err
	}
	cc.original, err = NewDataSet(NewStringElement(tag, vr, value))
	return err
}

func (cc *codecContext) itIsEncodedAndDecodedIn(syntax string) error {
	ts, err := featureSyntax(syntax)
	if err != nil {
		return err
	}
	b, err := EncodeDataSet(cc.original, ts)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	cc.decoded, err = DecodeDataSet(b, ts)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	return nil
}

func (cc *codecContext) theDecodedDataSetEqualsTheOriginal() error {
	if !cc.decoded.Equal(cc.original) {
		return fmt.Errorf("expected %v, got %v", cc.original, cc.decoded)
	}
	return nil
}
